package games_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/arcade-core/internal/config"
	"github.com/vovakirdan/arcade-core/internal/core"
	"github.com/vovakirdan/arcade-core/internal/registry"

	_ "github.com/vovakirdan/arcade-core/internal/games/blocks"
	_ "github.com/vovakirdan/arcade-core/internal/games/kart"
	_ "github.com/vovakirdan/arcade-core/internal/games/scroller"
	_ "github.com/vovakirdan/arcade-core/internal/games/shooter"
	_ "github.com/vovakirdan/arcade-core/internal/games/snake3d"
)

func TestEveryEmbeddedConfigIsRegistered(t *testing.T) {
	for _, id := range config.EmbeddedIDs() {
		if !registry.Exists(id) {
			t.Errorf("Config %q has no registered game", id)
		}
	}
	if got := len(registry.List()); got != 5 {
		t.Errorf("Expected 5 games, got %d", got)
	}
}

// startPlaying confirms through the title and instruction screens.
func startPlaying(t *testing.T, g registry.Game) {
	t.Helper()
	confirm := core.NewInputFrame(core.ActionConfirm)
	for i := 0; i < 3 && g.State().Phase != "playing"; i++ {
		g.Frame(1.0/60, confirm)
	}
	if g.State().Phase != "playing" {
		t.Fatalf("Expected playing, got %q", g.State().Phase)
	}
}

func TestGamesRunOnChipmunk(t *testing.T) {
	for _, info := range registry.List() {
		t.Run(info.ID, func(t *testing.T) {
			g, err := registry.Create(info.ID)
			if err != nil {
				t.Fatal(err)
			}
			t.Setenv("HOME", t.TempDir())
			if err := g.Reset(core.RuntimeConfig{Seed: 42}); err != nil {
				t.Fatalf("Reset: %v", err)
			}
			if g.State().Phase != "title" {
				t.Fatalf("Expected title after reset, got %q", g.State().Phase)
			}
			startPlaying(t, g)

			fire := core.NewInputFrame(core.ActionFire, core.ActionUp)
			for i := 0; i < 60*8 && !g.State().GameOver; i++ {
				g.Frame(1.0/60, fire)
			}

			f := g.Snapshot()
			if f.Game != info.ID {
				t.Errorf("Snapshot game = %q", f.Game)
			}
			if f.Field.Width() <= 0 {
				t.Error("Snapshot has no field")
			}
			if g.State().Elapsed <= 0 {
				t.Error("No time was simulated")
			}
		})
	}
}

func TestSameSeedIsDeterministic(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	play := func() core.Frame {
		g, err := registry.Create("snake3d")
		if err != nil {
			t.Fatal(err)
		}
		if err := g.Reset(core.RuntimeConfig{Seed: 9}); err != nil {
			t.Fatal(err)
		}
		startPlaying(t, g)
		in := core.NewInputFrame(core.ActionRight)
		for i := 0; i < 600; i++ {
			g.Frame(1.0/60, in)
		}
		return g.Snapshot()
	}

	a, b := play(), play()
	if a.HUD.Run == b.HUD.Run {
		t.Error("Expected every run to get its own id")
	}
	a.HUD.Run, b.HUD.Run = "", ""
	if a.HUD != b.HUD {
		t.Errorf("HUD differs: %+v vs %+v", a.HUD, b.HUD)
	}
	if len(a.Entities) != len(b.Entities) {
		t.Fatalf("Entity counts differ: %d vs %d", len(a.Entities), len(b.Entities))
	}
}

func TestResetReportsConfigErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "shooter.yaml")
	if err := os.WriteFile(bad, []byte("id: shooter\nlevels: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	g, _ := registry.Create("shooter")
	err := g.Reset(core.RuntimeConfig{ConfigPath: bad})
	if err == nil {
		t.Fatal("Expected a configuration error")
	}
	if !config.IsValidationError(err) {
		t.Errorf("Expected a validation error, got %v", err)
	}
	if g.State().Phase != "loading" {
		t.Errorf("Broken game should stay in loading, got %q", g.State().Phase)
	}
}

func TestResetRejectsUnknownDifficulty(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	g, _ := registry.Create("kart")
	if err := g.Reset(core.RuntimeConfig{Difficulty: "nightmare"}); err == nil {
		t.Error("Expected an error for an unknown preset")
	}
}

func TestKartRockingOverTheLineScoresNoLaps(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	g, err := registry.Create("kart")
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Reset(core.RuntimeConfig{Seed: 1}); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	startPlaying(t, g)

	// Drive forward over the finish, then reverse back over it.
	up := core.NewInputFrame(core.ActionUp)
	down := core.NewInputFrame(core.ActionDown)
	for frame := 0; frame < 60*60 && !g.State().GameOver; frame++ {
		in := down
		if frame%120 < 40 {
			in = up
		}
		g.Frame(1.0/60, in)
	}

	if laps := g.Snapshot().HUD.Laps; laps != 0 {
		t.Errorf("Expected 0 laps, got %d", laps)
	}
	if g.State().Outcome == "won" {
		t.Error("Expected no win from rocking over the line")
	}
}

func TestKartStartsBehindTheLine(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := config.Load("kart", "")
	if err != nil {
		t.Fatal(err)
	}
	finish := cfg.Templates["finish"]
	if finish.Trigger != config.TriggerLap || finish.Direction == nil {
		t.Fatalf("Expected a directed lap trigger, got %+v", finish)
	}
	var line core.Vec2
	for _, sp := range cfg.Levels[0].Spawns {
		if sp.Template == "finish" {
			line = core.V(sp.Position.X, sp.Position.Y)
		}
	}
	start := core.V(cfg.Player.Start.X, cfg.Player.Start.Y)
	heading := core.FromAngle(*finish.Direction * math.Pi / 180)
	if toLine := line.Sub(start); toLine.Dot(heading) <= 0 {
		t.Errorf("Expected the start %v behind the line %v", start, line)
	}
}
