package replay_test

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/arcade-core/internal/core"
	_ "github.com/vovakirdan/arcade-core/internal/games/scroller"
	"github.com/vovakirdan/arcade-core/internal/registry"
	"github.com/vovakirdan/arcade-core/internal/replay"
)

func record(t *testing.T) replay.Recording {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	g, err := registry.Create("scroller")
	if err != nil {
		t.Fatal(err)
	}
	rec := replay.NewRecorder(g)
	if err := rec.Reset(core.RuntimeConfig{Seed: 3}); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	rec.Frame(1.0/60, core.NewInputFrame(core.ActionConfirm))
	for i := 0; i < 600; i++ {
		in := core.NewInputFrame(core.ActionFire)
		if i%90 < 45 {
			in.Set(core.ActionUp)
		} else {
			in.Set(core.ActionDown)
		}
		rec.Frame(1.0/60, in)
	}
	return rec.Recording()
}

func TestRecordAndVerify(t *testing.T) {
	rec := record(t)
	if len(rec.Frames) != 601 {
		t.Fatalf("Expected 601 frames, got %d", len(rec.Frames))
	}
	if rec.Final.Elapsed <= 0 {
		t.Fatal("Recording simulated nothing")
	}

	got, err := replay.Verify(rec, core.RuntimeConfig{})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got.Score != rec.Final.Score {
		t.Errorf("Score = %d, expected %d", got.Score, rec.Final.Score)
	}
}

func TestTamperedRecordingMismatches(t *testing.T) {
	rec := record(t)
	rec.Final.Score += 1000

	_, err := replay.Verify(rec, core.RuntimeConfig{})
	if !errors.Is(err, replay.ErrMismatch) {
		t.Errorf("Expected ErrMismatch, got %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	rec := record(t)
	path := filepath.Join(t.TempDir(), "run.replay")

	if err := replay.Save(path, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := replay.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.GameID != "scroller" || loaded.Seed != 3 {
		t.Errorf("Header lost: %q seed %d", loaded.GameID, loaded.Seed)
	}
	if len(loaded.Frames) != len(rec.Frames) || loaded.Final != rec.Final {
		t.Error("Frames or final state lost")
	}
}

func TestDecodeRejectsUnknownVersion(t *testing.T) {
	var buf bytes.Buffer
	if err := replay.Encode(&buf, replay.Recording{Version: 99, GameID: "kart"}); err != nil {
		t.Fatal(err)
	}
	if _, err := replay.Decode(&buf); err == nil {
		t.Error("Expected an error for an unknown version")
	}
}
