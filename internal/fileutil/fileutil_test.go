package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCopyFileMode(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")
	if err := os.WriteFile(src, []byte("payload"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := CopyFileMode(src, dst, 0o600); err != nil {
		t.Fatalf("CopyFileMode: %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read dst: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("dst content = %q", data)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("dst mode = %o, want 600", info.Mode().Perm())
	}
}

func TestMoveFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")
	if err := os.WriteFile(src, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := MoveFile(src, dst); err != nil {
		t.Fatalf("MoveFile: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("src should be gone after move")
	}
	if _, err := os.Stat(dst); err != nil {
		t.Errorf("dst missing: %v", err)
	}
}

func TestMoveTree(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "event")
	if err := os.MkdirAll(filepath.Join(src, "jpg"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(src, "jpg", "a.jpg"), []byte("a"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	dst := filepath.Join(dir, "2024", "event")
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		t.Fatalf("mkdir dst parent: %v", err)
	}
	if err := MoveTree(src, dst); err != nil {
		t.Fatalf("MoveTree: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dst, "jpg", "a.jpg")); err != nil {
		t.Errorf("moved file missing: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("src tree should be gone")
	}
}
