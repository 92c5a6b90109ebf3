package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/dropDatabas3/edgeauth/internal/config"
	"github.com/dropDatabas3/edgeauth/internal/disks"
	"github.com/dropDatabas3/edgeauth/internal/observability/logger"
)

func main() {
	var (
		flagEnvFile  = flag.String("env-file", ".env", "ruta a .env")
		flagConfig   = flag.String("config", "", "ruta a config.yaml")
		flagProject  = flag.String("project", "", "project ID (pisa config)")
		flagZone     = flag.String("zone", "", "zona de la instancia (pisa config)")
		flagInstance = flag.String("instance", "", "nombre de la instancia")
		flagDisk     = flag.String("disk", "", "URL completa o parcial del disco (/projects/.../disks/...)")
		flagMode     = flag.String("mode", "READ_WRITE", "modo de attach: READ_ONLY|READ_WRITE")
	)
	flag.Parse()

	if *flagEnvFile != "" {
		_ = godotenv.Load(*flagEnvFile)
	}

	cfg, err := loadConfig(*flagConfig)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *flagProject != "" {
		cfg.Compute.Project = *flagProject
	}
	if *flagZone != "" {
		cfg.Compute.Zone = *flagZone
	}

	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, ToolName: "diskctl"})
	defer logger.Sync()
	zl := logger.L()

	// validadas en config.Load
	pollTimeout, _ := time.ParseDuration(cfg.Compute.PollTimeout)
	pollInterval, _ := time.ParseDuration(cfg.Compute.PollInterval)

	ctx := logger.ToContext(context.Background(), zl)
	inst, err := disks.NewGCEInstances(ctx)
	if err != nil {
		zl.Fatal("instances client", logger.Err(err))
	}
	defer inst.Close()

	req := disks.AttachRequest{
		Project:  cfg.Compute.Project,
		Zone:     cfg.Compute.Zone,
		Instance: *flagInstance,
		DiskLink: *flagDisk,
		Mode:     disks.AttachMode(*flagMode),
	}
	out, err := disks.Attach(ctx, inst, req, pollTimeout, pollInterval)
	if err != nil {
		zl.Fatal("attach disk", logger.Instance(req.Instance), logger.Err(err))
	}

	switch out.Kind {
	case disks.OutcomeDone:
		fmt.Printf("Disco attacheado. operation=%s\n", out.Operation)
	case disks.OutcomeFailed:
		zl.Error("operation failed",
			logger.Operation(out.Operation),
			logger.String("code", out.ErrorCode),
			logger.String("message", out.ErrorMessage),
		)
		os.Exit(1)
	case disks.OutcomeTimedOut:
		zl.Error("operation timed out",
			logger.Operation(out.Operation),
			logger.String("timeout", cfg.Compute.PollTimeout),
		)
		os.Exit(2)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if fileExists("configs/config.yaml") {
			path = "configs/config.yaml"
		} else {
			path = "configs/config.example.yaml"
		}
	}
	return config.Load(path)
}

func fileExists(p string) bool {
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}
