// Package testsupport provides the helpers shared by pwf package tests:
// archive-tree scaffolding, deterministic file writers and a pre-wired test
// configuration.
package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pwf/internal/config"
)

// NewConfig produces a config pointing at a fresh temp archive root.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()

	root := t.TempDir()
	cfg := config.Default()
	cfg.RootDir = root
	cfg.Stats.DatabasePath = filepath.Join(root, ".pwf", "stats.db")
	return &cfg
}

// WriteFile fills the target path with the requested number of bytes using
// a repeating pattern, creating parent directories. A size <= 0 writes a
// single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = byte('a' + i%23)
	}

	remaining := size
	for remaining > 0 {
		toWrite := int64(chunkSize)
		if remaining < toWrite {
			toWrite = remaining
		}
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}

// CreateTree materializes paths below root. Entries ending in a slash
// become directories; everything else becomes a file of the given size.
func CreateTree(t testing.TB, root string, entries map[string]int64) {
	t.Helper()

	for rel, size := range entries {
		target := filepath.Join(root, rel)
		if strings.HasSuffix(rel, "/") {
			if err := os.MkdirAll(target, 0o755); err != nil {
				t.Fatalf("mkdir %s: %v", target, err)
			}
			continue
		}
		WriteFile(t, target, size)
	}
}

// ScaffoldArchive creates the five taxonomy stage directories below root.
func ScaffoldArchive(t testing.TB, root string) {
	t.Helper()

	for _, dir := range []string{"0_new", "1_original", "2_lab", "3_album", "4_print"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
}

// MakeWritable restores write permission below root so t.TempDir cleanup
// can remove protected trees.
func MakeWritable(t testing.TB, root string) {
	t.Helper()

	_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			_ = os.Chmod(path, 0o755)
		} else if info.Mode()&os.ModeSymlink == 0 {
			_ = os.Chmod(path, 0o644)
		}
		return nil
	})
}
