// Package deploy implementa el helper de CI/CD: detecta archivos cambiados
// contra la rama principal vía `git diff` y los sube a un bucket.
package deploy

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// GitDiff corre `git diff <branch>` sobre repoRoot y devuelve la salida cruda.
// El contexto acota la espera; el error incluye stderr de git.
func GitDiff(ctx context.Context, repoRoot, branch string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "-C", repoRoot, "diff", branch)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("deploy: git diff %s: %w: %s", branch, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// ChangedFiles parsea un diff unificado y devuelve los paths (resueltos contra
// repoRoot) de los archivos cambiados bajo watchDir. Solo mira las líneas
// `+++ b/...`: alcanza para saber qué quedó tocado en el lado nuevo.
func ChangedFiles(diff, watchDir, repoRoot string) []string {
	var changed []string
	for _, line := range strings.Split(diff, "\n") {
		rel, ok := strings.CutPrefix(line, "+++ b/")
		if !ok || !strings.Contains(line, watchDir) {
			continue
		}
		changed = append(changed, filepath.Join(repoRoot, rel))
	}
	return changed
}
