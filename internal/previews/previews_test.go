package previews

import (
	"errors"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"pwf/internal/archive"
	"pwf/internal/downsize"
	"pwf/internal/errs"
	"pwf/internal/testsupport"
)

func newTestExtractor(t *testing.T) (*Extractor, string) {
	t.Helper()

	root := t.TempDir()
	testsupport.ScaffoldArchive(t, root)
	arch, err := archive.New(root)
	if err != nil {
		t.Fatalf("archive.New: %v", err)
	}
	ex, err := New(arch, "FHD", 80, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return ex, root
}

func writeJPEG(t *testing.T, path string, width, height int) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 80}); err != nil {
		t.Fatalf("encode: %v", err)
	}
}

func jpegSize(t *testing.T, path string) downsize.Size {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode config: %v", err)
	}
	return downsize.Size{Width: cfg.Width, Height: cfg.Height}
}

func TestRunRendersJPGPreviewsInPlace(t *testing.T) {
	ex, root := newTestExtractor(t)
	dir := filepath.Join(root, "1_original", "2024", "2024-10-30_ev_1", "jpg")
	writeJPEG(t, filepath.Join(dir, "DSC_100.jpg"), 4000, 3000)

	if err := ex.Run(dir, "", Options{}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// With no destination, previews land next to the source folder.
	preview := filepath.Join(filepath.Dir(dir), "DSC_100.jpg-preview.jpg")
	got := jpegSize(t, preview)
	if got != (downsize.Size{Width: 1440, Height: 1080}) {
		t.Fatalf("preview size = %v, want 1440x1080", got)
	}
}

func TestRunLabDestination(t *testing.T) {
	ex, root := newTestExtractor(t)
	dir := filepath.Join(root, "1_original", "2024", "2024-10-30_ev_1", "jpg")
	writeJPEG(t, filepath.Join(dir, "DSC_100.jpg"), 2000, 1500)

	if err := ex.Run(dir, "@lab", Options{}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	preview := filepath.Join(root, "2_lab", "2024", "2024-10-30_ev_1",
		"1_preview", "DSC_100.jpg-preview.jpg")
	if _, err := os.Stat(preview); err != nil {
		t.Fatalf("stat preview: %v", err)
	}
}

func TestRunLabRequiresEventSource(t *testing.T) {
	ex, root := newTestExtractor(t)
	dir := filepath.Join(root, "1_original", "2024")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if err := ex.Run(dir, "@lab", Options{}); !errors.Is(err, errs.ErrPolicy) {
		t.Fatalf("expected policy error, got %v", err)
	}
}

func TestRunRejectsOtherTags(t *testing.T) {
	ex, root := newTestExtractor(t)
	dir := filepath.Join(root, "1_original", "2024", "2024-10-30_ev_1", "jpg")
	writeJPEG(t, filepath.Join(dir, "DSC_100.jpg"), 100, 100)

	if err := ex.Run(dir, "@album", Options{}); !errors.Is(err, errs.ErrPolicy) {
		t.Fatalf("expected policy error, got %v", err)
	}
}

func TestRunFilterFile(t *testing.T) {
	ex, root := newTestExtractor(t)
	dir := filepath.Join(root, "1_original", "2024", "2024-10-30_ev_1", "jpg")
	writeJPEG(t, filepath.Join(dir, "DSC_100.jpg"), 200, 100)
	writeJPEG(t, filepath.Join(dir, "DSC_101.jpg"), 200, 100)

	filterFile := filepath.Join(root, "filter.txt")
	if err := os.WriteFile(filterFile, []byte("# restore list\nDSC_101.jpg\n"), 0o644); err != nil {
		t.Fatalf("write filter: %v", err)
	}

	if err := ex.Run(dir, "", Options{FilterFile: filterFile}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	parent := filepath.Dir(dir)
	if _, err := os.Stat(filepath.Join(parent, "DSC_101.jpg-preview.jpg")); err != nil {
		t.Fatal("listed file has no preview")
	}
	if _, err := os.Stat(filepath.Join(parent, "DSC_100.jpg-preview.jpg")); !os.IsNotExist(err) {
		t.Fatal("unlisted file got a preview")
	}
}

func TestRunSkipsExistingPreviews(t *testing.T) {
	ex, root := newTestExtractor(t)
	dir := filepath.Join(root, "1_original", "2024", "2024-10-30_ev_1", "jpg")
	writeJPEG(t, filepath.Join(dir, "DSC_100.jpg"), 200, 100)

	existing := filepath.Join(filepath.Dir(dir), "DSC_100.jpg-preview.jpg")
	testsupport.WriteFile(t, existing, 3)

	if err := ex.Run(dir, "", Options{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	data, err := os.ReadFile(existing)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(data) != 3 {
		t.Fatal("existing preview was overwritten")
	}
}

func TestRunSkipsUnsupportedExtensions(t *testing.T) {
	ex, root := newTestExtractor(t)
	dir := filepath.Join(root, "1_original", "2024", "2024-10-30_ev_1", "video")
	testsupport.WriteFile(t, filepath.Join(dir, "birds.mpeg"), 10)

	if err := ex.Run(dir, "", Options{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(dir), "birds.mpeg-preview.jpg")); !os.IsNotExist(err) {
		t.Fatal("unsupported extension got a preview")
	}
}

func TestRunRawWithoutThumbnailFails(t *testing.T) {
	ex, root := newTestExtractor(t)
	raw := filepath.Join(root, "1_original", "2024", "2024-10-30_ev_1", "raw", "DSC_103.NEF")
	testsupport.WriteFile(t, raw, 64)

	if err := ex.Run(raw, "", Options{}); !errors.Is(err, errs.ErrIO) {
		t.Fatalf("expected io error for bogus raw file, got %v", err)
	}
}

func TestRunRecursive(t *testing.T) {
	ex, root := newTestExtractor(t)
	event := filepath.Join(root, "1_original", "2024", "2024-10-30_ev_1")
	writeJPEG(t, filepath.Join(event, "jpg", "DSC_100.jpg"), 200, 100)
	writeJPEG(t, filepath.Join(event, "jpg", "more", "DSC_101.jpg"), 200, 100)

	dst := filepath.Join(root, "2_lab")
	if err := ex.Run(filepath.Join(event, "jpg"), dst, Options{Recursive: true}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	for _, name := range []string{"DSC_100.jpg-preview.jpg", "DSC_101.jpg-preview.jpg"} {
		if _, err := os.Stat(filepath.Join(dst, name)); err != nil {
			t.Errorf("missing recursive preview %s: %v", name, err)
		}
	}
}

func TestRunDryRun(t *testing.T) {
	ex, root := newTestExtractor(t)
	dir := filepath.Join(root, "1_original", "2024", "2024-10-30_ev_1", "jpg")
	writeJPEG(t, filepath.Join(dir, "DSC_100.jpg"), 200, 100)

	if err := ex.Run(dir, "@lab", Options{DryRun: true}); err != nil {
		t.Fatalf("Run dry-run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "2_lab", "2024")); !os.IsNotExist(err) {
		t.Fatal("dry-run created the preview folder")
	}
}
