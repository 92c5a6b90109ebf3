package deploy

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/edgeauth/internal/observability/logger"
)

// Uploader sube un archivo local como objeto nombrado del bucket destino.
// El adapter de GCS está en gcs.go; los tests usan un fake.
type Uploader interface {
	Upload(ctx context.Context, object, localPath string) error
}

// UploadChanged sube los archivos en paralelo acotado. El primer error
// cancela el resto y se propaga tal cual vino del transporte.
func UploadChanged(ctx context.Context, up Uploader, files []string, maxParallel int) error {
	if len(files) == 0 {
		return nil
	}
	if maxParallel <= 0 {
		maxParallel = 1
	}

	log := logger.From(ctx)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)

	for _, f := range files {
		f := f
		g.Go(func() error {
			object := filepath.Base(f)
			if err := up.Upload(ctx, object, f); err != nil {
				return fmt.Errorf("deploy: upload %s: %w", object, err)
			}
			log.Info("object uploaded", logger.Object(object), logger.LocalPath(f))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("deploy finished", logger.Count(len(files)))
	return nil
}
