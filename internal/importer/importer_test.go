package importer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"pwf/internal/archive"
	"pwf/internal/check"
	"pwf/internal/errs"
	"pwf/internal/manifest"
	"pwf/internal/testsupport"
)

func newTestImporter(t *testing.T) (*Importer, string) {
	t.Helper()

	root := t.TempDir()
	testsupport.ScaffoldArchive(t, root)
	t.Cleanup(func() { testsupport.MakeWritable(t, root) })

	arch, err := archive.New(root)
	if err != nil {
		t.Fatalf("archive.New: %v", err)
	}
	return New(arch, nil), root
}

func scaffoldInboxEvent(t *testing.T, root string) string {
	t.Helper()

	testsupport.CreateTree(t, root, map[string]int64{
		"0_new/2024-10-30_ev_1/jpg/DSC_100.jpg":   100,
		"0_new/2024-10-30_ev_1/jpg/DSC_101.jpg":   200,
		"0_new/2024-10-30_ev_1/raw/DSC_103.NEF":   900,
		"0_new/2024-10-30_ev_1/audio/track01.mp3": 75,
	})
	return filepath.Join(root, "0_new", "2024-10-30_ev_1")
}

func TestImportMovesAndProtects(t *testing.T) {
	im, root := newTestImporter(t)
	src := scaffoldInboxEvent(t, root)

	if err := im.Import(src, Options{}); err != nil {
		t.Fatalf("Import: %v", err)
	}

	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatal("source event still exists after import")
	}

	yearDir := filepath.Join(root, "1_original", "2024")
	moved := filepath.Join(yearDir, "2024-10-30_ev_1", "jpg", "DSC_100.jpg")
	info, err := os.Stat(moved)
	if err != nil {
		t.Fatalf("stat moved file: %v", err)
	}
	if got := info.Mode().Perm(); got != 0o444 {
		t.Errorf("moved file mode = %o, want 444", got)
	}

	dirInfo, err := os.Stat(yearDir)
	if err != nil {
		t.Fatalf("stat year dir: %v", err)
	}
	if got := dirInfo.Mode().Perm(); got != 0o555 {
		t.Errorf("year dir mode = %o, want 555", got)
	}

	entries, err := manifest.Read(yearDir)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("manifest entries = %d, want 4", len(entries))
	}
}

func TestImportRejectsNonEventPaths(t *testing.T) {
	im, root := newTestImporter(t)
	scaffoldInboxEvent(t, root)

	for _, path := range []string{
		filepath.Join(root, "0_new"),
		filepath.Join(root, "0_new", "2024-10-30_ev_1", "jpg"),
	} {
		if err := im.Import(path, Options{}); !errors.Is(err, errs.ErrPolicy) {
			t.Errorf("Import(%s): expected policy error, got %v", path, err)
		}
	}
}

func TestImportRejectsEventsOutsideInbox(t *testing.T) {
	im, root := newTestImporter(t)
	testsupport.CreateTree(t, root, map[string]int64{
		"1_original/2024/2024-10-30_ev_1/jpg/DSC_100.jpg": 100,
	})

	src := filepath.Join(root, "1_original", "2024", "2024-10-30_ev_1")
	if err := im.Import(src, Options{}); !errors.Is(err, errs.ErrPolicy) {
		t.Fatalf("expected policy error, got %v", err)
	}
}

func TestImportBlockedByFailingCheck(t *testing.T) {
	im, root := newTestImporter(t)
	testsupport.CreateTree(t, root, map[string]int64{
		"0_new/2024-10-30_ev_1/jpg/bad name.jpg": 100,
	})

	src := filepath.Join(root, "0_new", "2024-10-30_ev_1")
	if err := im.Import(src, Options{}); !errors.Is(err, errs.ErrCheck) {
		t.Fatalf("expected check error, got %v", err)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatal("failed import must not move the event")
	}
}

func TestImportIgnoreList(t *testing.T) {
	im, root := newTestImporter(t)
	// jpg plus raw of the same shot trips the raw-derivatives check.
	testsupport.CreateTree(t, root, map[string]int64{
		"0_new/2024-10-30_ev_1/jpg/DSC_100.jpg": 100,
		"0_new/2024-10-30_ev_1/raw/DSC_100.NEF": 900,
	})
	src := filepath.Join(root, "0_new", "2024-10-30_ev_1")

	if err := im.Import(src, Options{}); !errors.Is(err, errs.ErrCheck) {
		t.Fatalf("expected raw-derivatives failure, got %v", err)
	}

	// Only the raw-derivatives category may be ignored.
	opts := Options{Ignore: []check.Category{check.CategoryDuplicates}}
	if err := im.Import(src, opts); !errors.Is(err, errs.ErrPolicy) {
		t.Fatalf("expected policy error for forbidden ignore, got %v", err)
	}

	opts = Options{Ignore: []check.Category{check.CategoryRawDerivatives}}
	if err := im.Import(src, opts); err != nil {
		t.Fatalf("Import with ignored raw-derivatives: %v", err)
	}
}

func TestImportDryRun(t *testing.T) {
	im, root := newTestImporter(t)
	src := scaffoldInboxEvent(t, root)

	if err := im.Import(src, Options{DryRun: true}); err != nil {
		t.Fatalf("Import dry-run: %v", err)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatal("dry-run moved the event")
	}
	if _, err := os.Stat(filepath.Join(root, "1_original", "2024")); !os.IsNotExist(err) {
		t.Fatal("dry-run created the destination year")
	}
}

func TestImportKeepUnprotected(t *testing.T) {
	im, root := newTestImporter(t)
	src := scaffoldInboxEvent(t, root)

	if err := im.Import(src, Options{KeepUnprotected: true}); err != nil {
		t.Fatalf("Import: %v", err)
	}

	moved := filepath.Join(root, "1_original", "2024", "2024-10-30_ev_1", "jpg", "DSC_100.jpg")
	info, err := os.Stat(moved)
	if err != nil {
		t.Fatalf("stat moved file: %v", err)
	}
	if info.Mode().Perm()&0o200 == 0 {
		t.Error("file was locked despite KeepUnprotected")
	}
}

func TestImportRejectsExistingDestination(t *testing.T) {
	im, root := newTestImporter(t)
	src := scaffoldInboxEvent(t, root)
	testsupport.CreateTree(t, root, map[string]int64{
		"1_original/2024/2024-10-30_ev_1/": 0,
	})

	if err := im.Import(src, Options{}); !errors.Is(err, errs.ErrPolicy) {
		t.Fatalf("expected policy error, got %v", err)
	}
}

func TestImportIntoProtectedYear(t *testing.T) {
	im, root := newTestImporter(t)

	// First import locks the year folder.
	scaffoldInboxEvent(t, root)
	src := filepath.Join(root, "0_new", "2024-10-30_ev_1")
	if err := im.Import(src, Options{}); err != nil {
		t.Fatalf("first Import: %v", err)
	}

	// A second event in the same year must unlock and relock it.
	testsupport.CreateTree(t, root, map[string]int64{
		"0_new/2024-11-02_ev_2/jpg/DSC_300.jpg": 333,
	})
	src = filepath.Join(root, "0_new", "2024-11-02_ev_2")
	if err := im.Import(src, Options{}); err != nil {
		t.Fatalf("second Import: %v", err)
	}

	moved := filepath.Join(root, "1_original", "2024", "2024-11-02_ev_2", "jpg", "DSC_300.jpg")
	if _, err := os.Stat(moved); err != nil {
		t.Fatalf("stat second event: %v", err)
	}
}
