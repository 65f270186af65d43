package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"pwf/internal/taxonomy"
	"pwf/internal/testsupport"
)

func TestCollect(t *testing.T) {
	root := t.TempDir()
	testsupport.CreateTree(t, root, map[string]int64{
		"1_original/2024/2024-10-30_ev_1/jpg/DSC_100.jpg":   100,
		"1_original/2024/2024-10-30_ev_1/jpg/DSC_101.jpeg":  200,
		"1_original/2024/2024-10-30_ev_1/raw/DSC_103.NEF":   900,
		"1_original/2024/2024-10-30_ev_1/video/birds.mpeg":  850,
		"1_original/2024/2024-10-30_ev_1/audio/track01.mp3": 75,
		"1_original/2024/2024-10-30_ev_1/notes.txt":         33,
	})

	report, err := Collect(root)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	want := map[taxonomy.Category]Entry{
		taxonomy.CategoryRaw:   {Category: taxonomy.CategoryRaw, Count: 1, Bytes: 900},
		taxonomy.CategoryJPG:   {Category: taxonomy.CategoryJPG, Count: 2, Bytes: 300},
		taxonomy.CategoryVideo: {Category: taxonomy.CategoryVideo, Count: 1, Bytes: 850},
		taxonomy.CategoryAudio: {Category: taxonomy.CategoryAudio, Count: 1, Bytes: 75},
	}
	if len(report.Entries) != len(want) {
		t.Fatalf("entries = %d, want %d", len(report.Entries), len(want))
	}
	for _, entry := range report.Entries {
		if entry != want[entry.Category] {
			t.Errorf("%s = %+v, want %+v", entry.Category, entry, want[entry.Category])
		}
	}
}

func TestCollectEmptyTree(t *testing.T) {
	report, err := Collect(t.TempDir())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	for _, entry := range report.Entries {
		if entry.Count != 0 || entry.Bytes != 0 {
			t.Errorf("%s not zero: %+v", entry.Category, entry)
		}
	}
}

func TestHumanSize(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
		{3 * 1024 * 1024 * 1024, "3.0 GiB"},
		{2 * 1024 * 1024 * 1024 * 1024, "2.0 TiB"},
	}
	for _, tc := range cases {
		if got := HumanSize(tc.in); got != tc.want {
			t.Errorf("HumanSize(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStoreSaveAndHistory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), ".pwf", "stats.db")
	store, err := OpenStore(dbPath)
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		report := Report{
			Path:    "/archive",
			TakenAt: base.Add(time.Duration(i) * time.Hour),
			Entries: []Entry{
				{Category: taxonomy.CategoryJPG, Count: int64(10 + i), Bytes: int64(1000 * (i + 1))},
				{Category: taxonomy.CategoryRaw, Count: 2, Bytes: 500},
			},
		}
		if err := store.Save(ctx, report); err != nil {
			t.Fatalf("Save #%d: %v", i, err)
		}
	}

	history, err := store.History(ctx, "/archive", 2)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if !history[0].TakenAt.After(history[1].TakenAt) {
		t.Error("history is not newest first")
	}
	if history[0].Entries[0].Count != 12 {
		t.Errorf("newest jpg count = %d, want 12", history[0].Entries[0].Count)
	}

	// Unknown paths have no history.
	history, err = store.History(ctx, "/elsewhere", 5)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("unexpected history for unknown path: %d", len(history))
	}
}
