// Package scaffold creates a fresh archive tree with the five lifecycle
// stage directories, a sorting template and an example event.
package scaffold

import (
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"

	"pwf/internal/taxonomy"
)

type seedFile struct {
	path string
	size int
}

var templateDirs = []string{
	"0_new/template/raw",
	"0_new/template/jpg",
	"0_new/template/audio",
	"0_new/template/video",
}

var exampleFiles = []seedFile{
	{"0_new/2024-10-30_example_event/jpg/DSC_1234.jpg", 20000},
	{"0_new/2024-10-30_example_event/jpg/DSC_1235.jpg", 21000},
	{"0_new/2024-10-30_example_event/jpg/DSC_1236.jpg", 22000},
	{"0_new/2024-10-30_example_event/raw/DSC_1237.NEF", 30000},
	{"0_new/2024-10-30_example_event/raw/DSC_1238.NEF", 31000},
}

// Init creates a new archive at root. The root itself must not exist yet.
// With examples, a sorting template and a small example event are seeded
// into the inbox.
func Init(root string, examples bool) error {
	if err := os.Mkdir(root, 0o755); err != nil {
		return fmt.Errorf("create archive root: %w", err)
	}

	for _, stage := range taxonomy.Stages() {
		if err := os.Mkdir(filepath.Join(root, stage.DirName()), 0o755); err != nil {
			return fmt.Errorf("create stage directory: %w", err)
		}
	}
	if !examples {
		return nil
	}

	for _, dir := range templateDirs {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return fmt.Errorf("create template directory: %w", err)
		}
	}
	for _, file := range exampleFiles {
		if err := writeRandomFile(filepath.Join(root, file.path), file.size); err != nil {
			return err
		}
	}
	return nil
}

// writeRandomFile fills path with random bytes so example files have
// distinct checksums.
func writeRandomFile(path string, size int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create example directory: %w", err)
	}
	data := make([]byte, size)
	if _, err := rand.Read(data); err != nil {
		return fmt.Errorf("generate example data: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write example file: %w", err)
	}
	return nil
}
