package deploy

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleDiff = `diff --git a/dags/etl.py b/dags/etl.py
index 3f1a2b..9c4d5e 100644
--- a/dags/etl.py
+++ b/dags/etl.py
@@ -1,3 +1,4 @@
+import datetime
 import airflow
diff --git a/README.md b/README.md
index aaa..bbb 100644
--- a/README.md
+++ b/README.md
@@ -1 +1,2 @@
 readme
+mas docs
diff --git a/dags/ingest/daily.py b/dags/ingest/daily.py
index ccc..ddd 100644
--- a/dags/ingest/daily.py
+++ b/dags/ingest/daily.py
@@ -2,2 +2,3 @@
+print("hola")
`

func TestChangedFiles_FiltersByWatchDir(t *testing.T) {
	got := ChangedFiles(sampleDiff, "dags", "/repo")

	require.Equal(t, []string{
		filepath.Join("/repo", "dags/etl.py"),
		filepath.Join("/repo", "dags/ingest/daily.py"),
	}, got)
}

func TestChangedFiles_EmptyDiff(t *testing.T) {
	require.Empty(t, ChangedFiles("", "dags", "/repo"))
}

func TestChangedFiles_NoMatchesOutsideWatchDir(t *testing.T) {
	// solo cambió el README: nada que subir
	diff := "--- a/README.md\n+++ b/README.md\n"
	require.Empty(t, ChangedFiles(diff, "dags", "/repo"))
}
