package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"cloud.google.com/go/storage"
	"github.com/joho/godotenv"

	"github.com/dropDatabas3/edgeauth/internal/config"
	"github.com/dropDatabas3/edgeauth/internal/deploy"
	"github.com/dropDatabas3/edgeauth/internal/observability/logger"
)

func main() {
	var (
		flagEnvFile  = flag.String("env-file", ".env", "ruta a .env")
		flagConfig   = flag.String("config", "", "ruta a config.yaml")
		flagWatchDir = flag.String("dags-dir", "", "directorio observado dentro del repo (pisa config)")
		flagBucket   = flag.String("bucket", "", "bucket destino sin gs:// (pisa config)")
		flagRepo     = flag.String("repo", "", "raíz del repo git (pisa config)")
		flagBranch   = flag.String("main-branch", "", "rama contra la que se diffea (pisa config)")
		flagParallel = flag.Int("parallel", 0, "subidas en paralelo (pisa config)")
		flagTimeout  = flag.Duration("timeout", 5*time.Minute, "timeout total del deploy")
	)
	flag.Parse()

	if *flagEnvFile != "" {
		_ = godotenv.Load(*flagEnvFile)
	}

	cfg, err := loadConfig(*flagConfig)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *flagWatchDir != "" {
		cfg.Deploy.WatchDir = *flagWatchDir
	}
	if *flagBucket != "" {
		cfg.Deploy.Bucket = *flagBucket
	}
	if *flagRepo != "" {
		cfg.Deploy.RepoRoot = *flagRepo
	}
	if *flagBranch != "" {
		cfg.Deploy.MainBranch = *flagBranch
	}
	if *flagParallel > 0 {
		cfg.Deploy.MaxParallel = *flagParallel
	}
	if cfg.Deploy.WatchDir == "" || cfg.Deploy.Bucket == "" {
		log.Fatal("faltan -dags-dir y/o -bucket (o deploy.watch_dir/deploy.bucket en config)")
	}

	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, ToolName: "dagdeploy"})
	defer logger.Sync()
	zl := logger.L()

	ctx, cancel := context.WithTimeout(context.Background(), *flagTimeout)
	defer cancel()
	ctx = logger.ToContext(ctx, zl)

	diff, err := deploy.GitDiff(ctx, cfg.Deploy.RepoRoot, cfg.Deploy.MainBranch)
	if err != nil {
		zl.Fatal("git diff failed", logger.Branch(cfg.Deploy.MainBranch), logger.Err(err))
	}
	files := deploy.ChangedFiles(diff, cfg.Deploy.WatchDir, cfg.Deploy.RepoRoot)
	if len(files) == 0 {
		fmt.Println("No hay archivos cambiados para subir")
		return
	}
	zl.Info("changed files detected",
		logger.Branch(cfg.Deploy.MainBranch),
		logger.Count(len(files)),
	)

	client, err := storage.NewClient(ctx)
	if err != nil {
		zl.Fatal("storage client", logger.Err(err))
	}
	defer client.Close()

	up := deploy.NewBucketUploader(client, cfg.Deploy.Bucket)
	if err := deploy.UploadChanged(ctx, up, files, cfg.Deploy.MaxParallel); err != nil {
		zl.Fatal("deploy failed", logger.Bucket(cfg.Deploy.Bucket), logger.Err(err))
	}
}

// loadConfig resuelve la ruta igual que el resto de las tools:
// -config explícito, si no configs/config.yaml, si no el example.
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
