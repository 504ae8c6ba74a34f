package tui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/arcade-core/internal/config"
	"github.com/vovakirdan/arcade-core/internal/core"
)

func testRenderer(buf *bytes.Buffer) *Renderer {
	cfg := &config.GameConfig{
		ID:    "test",
		Title: "Test Game",
		Visuals: map[string]config.VisualConfig{
			"hero":  {Glyph: "@", Color: "bright_yellow"},
			"rock":  {Glyph: "#"},
			"weird": {Glyph: "%", Color: "chartreuse"},
		},
		Cues: map[string]string{"pop": "yellow", "zap": "none"},
	}
	return NewRenderer(cfg, log.New(buf))
}

func TestGlyphLookup(t *testing.T) {
	var buf bytes.Buffer
	r := testRenderer(&buf)

	tests := []struct {
		visual string
		glyph  rune
		color  core.Color
	}{
		{"hero", '@', core.ColorBrightYellow},
		{"rock", '#', core.ColorDefault},
		{"weird", '%', core.ColorDefault},
		{"ghost", Placeholder, core.ColorGray},
	}
	for _, tt := range tests {
		t.Run(tt.visual, func(t *testing.T) {
			g, c := r.Glyph(tt.visual)
			if g != tt.glyph || c != tt.color {
				t.Errorf("Expected %q/%v, got %q/%v", tt.glyph, tt.color, g, c)
			}
		})
	}
}

func TestUnknownVisualWarnsOnce(t *testing.T) {
	var buf bytes.Buffer
	r := testRenderer(&buf)

	for range 5 {
		r.Glyph("ghost")
	}
	if n := strings.Count(buf.String(), "unknown visual"); n != 1 {
		t.Errorf("Expected one warning, got %d:\n%s", n, buf.String())
	}
}

func TestCues(t *testing.T) {
	var buf bytes.Buffer
	r := testRenderer(&buf)

	r.Cue("zap")
	if r.flashTicks != 0 {
		t.Error("Expected a silent cue not to flash")
	}

	r.Cue("pop")
	if r.flashTicks != flashFrames || r.flash != core.ColorYellow {
		t.Errorf("Expected a yellow flash, got %v for %d frames", r.flash, r.flashTicks)
	}
	r.Tick()
	if r.flashTicks != flashFrames-1 {
		t.Errorf("Expected flash to age, got %d", r.flashTicks)
	}

	r.Cue("boing")
	r.Cue("boing")
	if n := strings.Count(buf.String(), "unmapped cue"); n != 1 {
		t.Errorf("Expected one unmapped cue warning, got %d", n)
	}
}

func TestViewportFit(t *testing.T) {
	r := testRenderer(&bytes.Buffer{})
	f := core.Frame{Field: core.NewBounds(80, 40)}
	v := r.viewport(f, core.NewRect(1, 1, 40, 20))

	tests := []struct {
		p      core.Vec2
		x, y   int
		inside bool
	}{
		{core.V(0, 0), 1, 1, true},
		{core.V(79, 39), 40, 20, true},
		{core.V(40, 20), 21, 11, true},
		{core.V(-5, 0), -2, 1, false},
		{core.V(80, 40), 41, 21, false},
	}
	for _, tt := range tests {
		x, y, ok := v.project(tt.p)
		if x != tt.x || y != tt.y || ok != tt.inside {
			t.Errorf("project(%v) = (%d, %d, %v), expected (%d, %d, %v)", tt.p, x, y, ok, tt.x, tt.y, tt.inside)
		}
	}
}

func TestFollowAxis(t *testing.T) {
	tests := []struct {
		name           string
		c, span, lo, hi float64
		want           float64
	}{
		{"centered", 50, 20, 0, 100, 40},
		{"clamped low", 5, 20, 0, 100, 0},
		{"clamped high", 99, 20, 0, 100, 80},
		{"wider than field", 10, 200, 0, 100, -50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := followAxis(tt.c, tt.span, tt.lo, tt.hi); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestCameraFollowsPlayer(t *testing.T) {
	r := testRenderer(&bytes.Buffer{})
	r.camera = config.CameraConfig{Follow: true, Zoom: 1}

	f := core.Frame{
		Field: core.NewBounds(200, 200),
		Entities: []core.EntitySnapshot{
			{ID: 1, Kind: config.KindPlayer, Position: core.V(100, 100), Visual: "hero"},
		},
	}
	v := r.viewport(f, core.NewRect(0, 0, 20, 10))
	x, y, ok := v.project(core.V(100, 100))
	if !ok || x != 10 || y != 5 {
		t.Errorf("Expected the player at the view center (10, 5), got (%d, %d, %v)", x, y, ok)
	}
}

func TestDrawPlacesEntitiesAndOverlay(t *testing.T) {
	r := testRenderer(&bytes.Buffer{})
	s := core.NewScreen(42, 22)
	f := core.Frame{
		Field: core.NewBounds(40, 20),
		HUD:   core.HUD{Phase: "playing"},
		Entities: []core.EntitySnapshot{
			{ID: 2, Kind: config.KindStatic, Position: core.V(10.5, 5.5), Visual: "rock"},
			{ID: 1, Kind: config.KindPlayer, Position: core.V(10.5, 5.5), Visual: "hero"},
			{ID: 3, Kind: config.KindEnemy, Position: core.V(30.5, 15.5), Visual: "ghost"},
		},
	}

	r.Draw(s, f)
	if got := s.Get(11, 6); got != '@' {
		t.Errorf("Expected the player drawn over the rock, got %q", got)
	}
	if got := s.Get(31, 16); got != Placeholder {
		t.Errorf("Expected placeholder for unknown visual, got %q", got)
	}

	f.HUD.Phase = "paused"
	r.Draw(s, f)
	if !strings.Contains(s.String(), "PAUSED") {
		t.Error("Expected the pause overlay")
	}

	f.HUD.Phase = "gameover"
	f.HUD.Outcome = "won"
	r.Draw(s, f)
	if !strings.Contains(s.String(), "YOU WIN") {
		t.Error("Expected the win overlay")
	}
}

func TestHealthBar(t *testing.T) {
	tests := []struct {
		health, max float64
		want        string
	}{
		{10, 10, "█████"},
		{5, 10, "███░░"},
		{0, 10, "░░░░░"},
		{-3, 10, "░░░░░"},
		{1, 0, "-----"},
	}
	for _, tt := range tests {
		if got := healthBar(tt.health, tt.max, 5); got != tt.want {
			t.Errorf("healthBar(%v, %v) = %q, expected %q", tt.health, tt.max, got, tt.want)
		}
	}
}

func TestHUDShowsKills(t *testing.T) {
	r := testRenderer(&bytes.Buffer{})
	f := core.Frame{HUD: core.HUD{Score: 10, Health: 5, MaxHealth: 10}}
	if strings.Contains(r.HUD(f, 80), " KO ") {
		t.Error("Expected no kill counter before the first kill")
	}
	f.HUD.Kills = 4
	if got := r.HUD(f, 80); !strings.Contains(got, " KO ") || !strings.Contains(got, "4") {
		t.Errorf("Expected the kill counter in the HUD, got %q", got)
	}
}

func TestErrorViewListsEveryError(t *testing.T) {
	err := errors.Join(
		config.ValidationError{Code: "E_FIELD", Message: "field width must be positive"},
		config.ValidationError{Code: "E_TEMPLATE", Message: "unknown template \"ghost\""},
	)
	view := ErrorView("shooter", err, 100, 30)
	for _, want := range []string{"shooter cannot start", "E_FIELD", "E_TEMPLATE"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected %q in error view", want)
		}
	}
}
