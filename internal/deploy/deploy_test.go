package deploy

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeUploader registra los objetos subidos y puede fallar uno puntual.
type fakeUploader struct {
	mu      sync.Mutex
	objects []string
	failOn  string
}

func (f *fakeUploader) Upload(_ context.Context, object, _ string) error {
	if object == f.failOn {
		return errors.New("boom")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects = append(f.objects, object)
	return nil
}

func TestUploadChanged_UploadsAll(t *testing.T) {
	up := &fakeUploader{}
	files := []string{"/repo/dags/a.py", "/repo/dags/sub/b.py", "/repo/dags/c.py"}

	err := UploadChanged(context.Background(), up, files, 2)
	require.NoError(t, err)
	// el nombre del objeto es el basename, como en el bucket de DAGs
	require.ElementsMatch(t, []string{"a.py", "b.py", "c.py"}, up.objects)
}

func TestUploadChanged_PropagatesFirstError(t *testing.T) {
	up := &fakeUploader{failOn: "b.py"}
	files := []string{"/repo/dags/a.py", "/repo/dags/b.py"}

	err := UploadChanged(context.Background(), up, files, 1)
	require.Error(t, err)
	require.Contains(t, err.Error(), "upload b.py")
}

func TestUploadChanged_NoFilesIsNoop(t *testing.T) {
	up := &fakeUploader{}
	require.NoError(t, UploadChanged(context.Background(), up, nil, 4))
	require.Empty(t, up.objects)
}
