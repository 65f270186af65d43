package downsize

import (
	"errors"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"pwf/internal/archive"
	"pwf/internal/errs"
	"pwf/internal/testsupport"
)

func TestComputeInsideBox(t *testing.T) {
	uhd := tagSizes[TagUHD]

	cases := []struct {
		name  string
		img   Size
		box   Size
		align bool
		want  Size
	}{
		{"landscape into landscape box", Size{4000, 3000}, uhd, true, Size{2880, 2160}},
		{"portrait aligns the box", Size{3000, 4000}, uhd, true, Size{2160, 2880}},
		{"portrait without alignment", Size{3000, 4000}, uhd, false, Size{1620, 2160}},
		{"smaller image stays unscaled", Size{800, 600}, uhd, true, Size{800, 600}},
		{"exact fit stays unscaled", Size{1920, 1080}, tagSizes[TagFHD], true, Size{1920, 1080}},
		{"wide panorama limited by width", Size{8000, 1000}, uhd, true, Size{3840, 480}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeInsideBox(tc.img, tc.box, tc.align)
			if got != tc.want {
				t.Fatalf("ComputeInsideBox(%v, %v, %v) = %v, want %v",
					tc.img, tc.box, tc.align, got, tc.want)
			}
		})
	}
}

func TestParseSizeTag(t *testing.T) {
	tag, box, err := ParseSizeTag("FHD")
	if err != nil {
		t.Fatalf("ParseSizeTag: %v", err)
	}
	if tag != TagFHD || box != (Size{1920, 1080}) {
		t.Fatalf("ParseSizeTag(FHD) = %v %v", tag, box)
	}

	if _, _, err := ParseSizeTag("8K"); !errors.Is(err, errs.ErrPolicy) {
		t.Fatalf("expected policy error for unknown tag, got %v", err)
	}
}

func TestOutputName(t *testing.T) {
	if got := OutputName("DSC_100.jpg", TagUHD); got != "DSC_100-UHD.jpg" {
		t.Fatalf("OutputName = %q", got)
	}
	if got := OutputName("clip.mp4", TagHD); got != "clip-HD.mp4" {
		t.Fatalf("OutputName = %q", got)
	}
}

func newTestEngine(t *testing.T) (*Engine, string) {
	t.Helper()

	root := t.TempDir()
	testsupport.ScaffoldArchive(t, root)
	arch, err := archive.New(root)
	if err != nil {
		t.Fatalf("archive.New: %v", err)
	}
	return NewEngine(arch, 80, nil), root
}

// writeJPEG renders a uniform image of the given dimensions.
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

func jpegSize(t *testing.T, path string) Size {
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
	return Size{Width: cfg.Width, Height: cfg.Height}
}

func TestRunScalesDirectory(t *testing.T) {
	engine, root := newTestEngine(t)
	dir := filepath.Join(root, "3_album", "2024", "2024-10-30_ev_1", "jpg")
	writeJPEG(t, filepath.Join(dir, "DSC_100.jpg"), 1600, 1200)
	writeJPEG(t, filepath.Join(dir, "DSC_101.jpg"), 900, 1600)

	if err := engine.Run(dir, TagHD, false); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got := jpegSize(t, filepath.Join(dir, "HD", "DSC_100-HD.jpg"))
	if got != (Size{960, 720}) {
		t.Errorf("landscape output = %v, want 960x720", got)
	}

	// Portrait output fits the rotated box.
	got = jpegSize(t, filepath.Join(dir, "HD", "DSC_101-HD.jpg"))
	if got != (Size{720, 1280}) {
		t.Errorf("portrait output = %v, want 720x1280", got)
	}
}

func TestRunSkipsExistingOutput(t *testing.T) {
	engine, root := newTestEngine(t)
	dir := filepath.Join(root, "3_album", "2024", "2024-10-30_ev_1", "jpg")
	writeJPEG(t, filepath.Join(dir, "DSC_100.jpg"), 1600, 1200)

	existing := filepath.Join(dir, "HD", "DSC_100-HD.jpg")
	testsupport.WriteFile(t, existing, 3)

	if err := engine.Run(dir, TagHD, false); err != nil {
		t.Fatalf("Run: %v", err)
	}
	data, err := os.ReadFile(existing)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(data) != 3 {
		t.Fatal("existing output was overwritten")
	}
}

func TestRunRejectsNonMediaFiles(t *testing.T) {
	engine, root := newTestEngine(t)
	raw := filepath.Join(root, "3_album", "2024", "2024-10-30_ev_1", "raw", "DSC_100.NEF")
	testsupport.WriteFile(t, raw, 10)

	if err := engine.Run(raw, TagHD, false); !errors.Is(err, errs.ErrPolicy) {
		t.Fatalf("expected policy error, got %v", err)
	}
}

func TestRunSkipsVideos(t *testing.T) {
	engine, root := newTestEngine(t)
	video := filepath.Join(root, "3_album", "2024", "2024-10-30_ev_1", "video", "clip.mp4")
	testsupport.WriteFile(t, video, 10)

	if err := engine.Run(video, TagHD, false); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(video), "HD")); !os.IsNotExist(err) {
		t.Fatal("video run created output directory")
	}
}

func TestRunDryRun(t *testing.T) {
	engine, root := newTestEngine(t)
	dir := filepath.Join(root, "3_album", "2024", "2024-10-30_ev_1", "jpg")
	writeJPEG(t, filepath.Join(dir, "DSC_100.jpg"), 1600, 1200)

	if err := engine.Run(dir, TagHD, true); err != nil {
		t.Fatalf("Run dry-run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "HD")); !os.IsNotExist(err) {
		t.Fatal("dry-run created outputs")
	}
}
