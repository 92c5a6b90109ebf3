package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Bloque app (opcional en YAML). Si no está, queda vacío.
	App struct {
		// dev | staging | prod
		Env string `yaml:"app_env"`
	} `yaml:"app"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	// Firma de URLs/cookies/tokens de Media CDN.
	Signing struct {
		KeyName string `yaml:"key_name"`
		// Archivo con la clave base64 url-safe (una línea). Preferido.
		KeyFile string `yaml:"key_file"`
		// Clave base64 inline. Solo dev; pisa key_file si ambas están.
		Key        string `yaml:"key"`
		DefaultTTL string `yaml:"default_ttl"`
	} `yaml:"signing"`

	// Deploy de archivos cambiados a un bucket (CI/CD).
	Deploy struct {
		Bucket      string `yaml:"bucket"`
		WatchDir    string `yaml:"watch_dir"`
		RepoRoot    string `yaml:"repo_root"`
		MainBranch  string `yaml:"main_branch"`
		MaxParallel int    `yaml:"max_parallel"`
	} `yaml:"deploy"`

	// Operaciones de Compute Engine (attach de discos).
	Compute struct {
		Project      string `yaml:"project"`
		Zone         string `yaml:"zone"`
		PollTimeout  string `yaml:"poll_timeout"`
		PollInterval string `yaml:"poll_interval"`
	} `yaml:"compute"`
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	// sane defaults
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Signing.DefaultTTL == "" {
		c.Signing.DefaultTTL = "1h"
	}
	if c.Deploy.MainBranch == "" {
		c.Deploy.MainBranch = "main"
	}
	if c.Deploy.RepoRoot == "" {
		c.Deploy.RepoRoot = "."
	}
	if c.Deploy.MaxParallel == 0 {
		c.Deploy.MaxParallel = 4
	}
	if c.Compute.PollTimeout == "" {
		c.Compute.PollTimeout = "5m"
	}
	if c.Compute.PollInterval == "" {
		c.Compute.PollInterval = "2s"
	}

	// Overrides por env
	c.applyEnvOverrides()

	// validate string durations
	for _, d := range []string{c.Signing.DefaultTTL, c.Compute.PollTimeout, c.Compute.PollInterval} {
		if _, err := time.ParseDuration(d); err != nil {
			return nil, err
		}
	}

	// Normalizar key_file (si relativa) respecto al directorio del YAML
	if p := strings.TrimSpace(c.Signing.KeyFile); p != "" && !filepath.IsAbs(p) {
		c.Signing.KeyFile = filepath.Clean(filepath.Join(filepath.Dir(path), p))
	}

	return &c, nil
}

// SigningKey devuelve la clave base64: inline si está, si no lee key_file.
func (c *Config) SigningKey() (string, error) {
	if k := strings.TrimSpace(c.Signing.Key); k != "" {
		return k, nil
	}
	b, err := os.ReadFile(c.Signing.KeyFile)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}
func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}

// applyEnvOverrides: pisa config.yaml con variables de entorno.
func (c *Config) applyEnvOverrides() {
	// APP
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = v
	}

	// SIGNING
	if v, ok := getEnvStr("SIGNING_KEY_NAME"); ok {
		c.Signing.KeyName = v
	}
	if v, ok := getEnvStr("SIGNING_KEY_FILE"); ok {
		c.Signing.KeyFile = v
	}
	if v, ok := getEnvStr("SIGNING_KEY"); ok {
		c.Signing.Key = v
	}
	if v, ok := getEnvStr("SIGNING_DEFAULT_TTL"); ok {
		c.Signing.DefaultTTL = v
	}

	// DEPLOY
	if v, ok := getEnvStr("DEPLOY_BUCKET"); ok {
		c.Deploy.Bucket = v
	}
	if v, ok := getEnvStr("DEPLOY_WATCH_DIR"); ok {
		c.Deploy.WatchDir = v
	}
	if v, ok := getEnvStr("DEPLOY_REPO_ROOT"); ok {
		c.Deploy.RepoRoot = v
	}
	if v, ok := getEnvStr("DEPLOY_MAIN_BRANCH"); ok {
		c.Deploy.MainBranch = v
	}
	if v, ok := getEnvInt("DEPLOY_MAX_PARALLEL"); ok {
		c.Deploy.MaxParallel = v
	}

	// COMPUTE
	if v, ok := getEnvStr("COMPUTE_PROJECT"); ok {
		c.Compute.Project = v
	}
	if v, ok := getEnvStr("COMPUTE_ZONE"); ok {
		c.Compute.Zone = v
	}
	if v, ok := getEnvStr("COMPUTE_POLL_TIMEOUT"); ok {
		c.Compute.PollTimeout = v
	}
	if v, ok := getEnvStr("COMPUTE_POLL_INTERVAL"); ok {
		c.Compute.PollInterval = v
	}
}
