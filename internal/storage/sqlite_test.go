package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenCreatesFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "runs.db")

	store, err := Open(dbPath, nil)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestSaveAndTopRuns(t *testing.T) {
	store := openTestStore(t)

	runs := []Run{
		{GameID: "shooter", Score: 100, Outcome: "lost", Elapsed: 40},
		{GameID: "shooter", Score: 50, Outcome: "lost", Elapsed: 20},
		{GameID: "shooter", Score: 200, Outcome: "won", Elapsed: 95, Level: 2},
		{GameID: "kart", Score: 500, Outcome: "won", Elapsed: 80},
	}
	for _, r := range runs {
		if _, err := store.SaveRun(r); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	top, err := store.TopRuns("shooter", 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(top))
	}
	want := []int{200, 100, 50}
	for i, w := range want {
		if top[i].Score != w {
			t.Errorf("Run %d score = %d, expected %d", i, top[i].Score, w)
		}
	}
	if top[0].Level != 2 || top[0].Outcome != "won" {
		t.Errorf("Run fields not stored: %+v", top[0])
	}
	if top[0].ID == "" {
		t.Error("Expected a generated run id")
	}

	limited, err := store.TopRuns("shooter", 2)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("Expected 2 runs with limit, got %d", len(limited))
	}
}

func TestSaveRunIsIdempotent(t *testing.T) {
	store := openTestStore(t)

	run := Run{ID: "run-1", GameID: "snake3d", Score: 30, Outcome: "lost"}
	for i := 0; i < 2; i++ {
		if _, err := store.SaveRun(run); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	top, _ := store.TopRuns("snake3d", 10)
	if len(top) != 1 {
		t.Errorf("Expected the run once, got %d", len(top))
	}

	got, err := store.Run("run-1")
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if got.Score != 30 {
		t.Errorf("Score = %d, expected 30", got.Score)
	}
}

func TestRunNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Run("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestBestScoreAndClear(t *testing.T) {
	store := openTestStore(t)

	best, err := store.BestScore("blocks")
	if err != nil {
		t.Fatalf("BestScore() failed: %v", err)
	}
	if best != 0 {
		t.Errorf("Expected 0 for no runs, got %d", best)
	}

	store.SaveRun(Run{GameID: "blocks", Score: 70, Outcome: "lost"})
	store.SaveRun(Run{GameID: "blocks", Score: 90, Outcome: "won"})
	if best, _ := store.BestScore("blocks"); best != 90 {
		t.Errorf("BestScore = %d, expected 90", best)
	}

	if err := store.ClearRuns("blocks"); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}
	if best, _ := store.BestScore("blocks"); best != 0 {
		t.Errorf("Expected 0 after clear, got %d", best)
	}
}

func TestStats(t *testing.T) {
	store := openTestStore(t)

	store.SaveRun(Run{GameID: "kart", Score: 10, Outcome: "lost", Elapsed: 30})
	store.SaveRun(Run{GameID: "kart", Score: 30, Outcome: "won", Elapsed: 60})
	store.SaveRun(Run{GameID: "scroller", Score: 5, Outcome: "lost", Elapsed: 10})

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	kart, ok := stats["kart"]
	if !ok {
		t.Fatal("Missing kart stats")
	}
	if kart.Runs != 2 || kart.Wins != 1 || kart.HighScore != 30 {
		t.Errorf("Unexpected kart stats %+v", kart)
	}
	if kart.AvgScore != 20 || kart.TotalTime != 90 {
		t.Errorf("Unexpected kart averages %+v", kart)
	}
	if len(stats) != 2 {
		t.Errorf("Expected stats for 2 games, got %d", len(stats))
	}
}
