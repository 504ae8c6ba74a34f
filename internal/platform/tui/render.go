package tui

import (
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/arcade-core/internal/config"
	"github.com/vovakirdan/arcade-core/internal/core"
	"github.com/vovakirdan/arcade-core/internal/engine"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:       lipgloss.NewStyle(),
	core.ColorRed:           lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:         lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:        lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:          lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorMagenta:       lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:          lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:         lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorBrightGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBrightYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorBrightBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	core.ColorBrightMagenta: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	core.ColorBrightCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorBrightWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorOrange:        lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:          lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

func styleFor(c core.Color) lipgloss.Style {
	if style, ok := colorStyles[c]; ok {
		return style
	}
	return colorStyles[core.ColorDefault]
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Adjacent cells with the same color share one styled run.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	var run strings.Builder
	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}
		x := 0
		for x < s.Width() {
			color := s.GetCell(x, y).Color
			run.Reset()
			for ; x < s.Width(); x++ {
				cell := s.GetCell(x, y)
				if cell.Color != color {
					break
				}
				run.WriteRune(cell.Rune)
			}
			sb.WriteString(styleFor(color).Render(run.String()))
		}
	}
	return sb.String()
}

// Placeholder is drawn for visual keys the game config does not define.
const Placeholder = '?'

// cellAspect is how many field units tall a cell is per unit of width at
// a fixed zoom. Terminal cells are roughly twice as tall as they are wide.
const cellAspect = 2.0

// flashFrames is how long a cue keeps the HUD highlighted.
const flashFrames = 8

var (
	hudStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("236"))
	hudLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Background(lipgloss.Color("236"))
	overlayTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	errorTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	errorBoxStyle     = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("9")).
				Padding(1, 2)
)

// Renderer draws engine snapshots into a Screen. It owns the visual and
// cue lookups of one game config and warns once per unknown key.
type Renderer struct {
	title        string
	instructions []string
	visuals      map[string]config.VisualConfig
	cues         map[string]string
	camera       config.CameraConfig
	lapsToWin    int
	logger       *log.Logger
	warned       map[string]bool

	flash      core.Color
	flashTicks int
}

// NewRenderer creates a renderer for one game's visuals.
func NewRenderer(cfg *config.GameConfig, logger *log.Logger) *Renderer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Renderer{
		title:        cfg.Title,
		instructions: cfg.Instructions,
		visuals:      cfg.Visuals,
		cues:         cfg.Cues,
		camera:       cfg.Player.Camera,
		lapsToWin:    cfg.Rules.LapsToWin,
		logger:       logger,
		warned:       make(map[string]bool),
	}
}

func (r *Renderer) warnOnce(key, msg string, kv ...any) {
	if r.warned[key] {
		return
	}
	r.warned[key] = true
	r.logger.Warn(msg, kv...)
}

// Glyph resolves a visual key to a rune and color. Unknown keys and
// unknown colors fall back to the placeholder style.
func (r *Renderer) Glyph(visual string) (rune, core.Color) {
	v, ok := r.visuals[visual]
	if !ok || v.Glyph == "" {
		r.warnOnce("visual:"+visual, "unknown visual, drawing placeholder", "visual", visual)
		return Placeholder, core.ColorGray
	}
	g, _ := utf8.DecodeRuneInString(v.Glyph)
	if v.Color == "" {
		return g, core.ColorDefault
	}
	c, ok := core.ParseColor(v.Color)
	if !ok {
		r.warnOnce("color:"+v.Color, "unknown color, using default", "visual", visual, "color", v.Color)
		return g, core.ColorDefault
	}
	return g, c
}

// Cue reacts to an audio cue. Terminals have no mixer, so a mapped cue
// flashes the HUD in its color and "none" is silent.
func (r *Renderer) Cue(name string) {
	mapped, ok := r.cues[name]
	if !ok {
		r.warnOnce("cue:"+name, "unmapped cue", "cue", name)
		return
	}
	if mapped == "none" {
		return
	}
	c, ok := core.ParseColor(mapped)
	if !ok {
		r.warnOnce("cue-color:"+mapped, "unknown cue color", "cue", name, "color", mapped)
		return
	}
	r.flash = c
	r.flashTicks = flashFrames
}

// viewport maps field coordinates onto a screen rectangle.
type viewport struct {
	view   core.Bounds
	area   core.Rect
	ux, uy float64 // field units per cell
}

func (v viewport) project(p core.Vec2) (int, int, bool) {
	col := v.area.X + int(math.Floor((p.X-v.view.Min.X)/v.ux))
	row := v.area.Y + int(math.Floor((p.Y-v.view.Min.Y)/v.uy))
	return col, row, v.area.Contains(col, row)
}

// viewport picks the visible part of the field. With no zoom the whole
// field is stretched over the area. With zoom the view keeps its scale and
// either follows the player or stays centered, clamped to the field.
func (r *Renderer) viewport(f core.Frame, area core.Rect) viewport {
	field := f.Field
	if r.camera.Zoom <= 0 {
		return viewport{
			view: field,
			area: area,
			ux:   field.Width() / float64(max(area.W, 1)),
			uy:   field.Height() / float64(max(area.H, 1)),
		}
	}

	ux := r.camera.Zoom
	uy := r.camera.Zoom * cellAspect
	w := ux * float64(area.W)
	h := uy * float64(area.H)

	center := field.Center()
	if r.camera.Follow {
		if p, ok := playerPosition(f); ok {
			center = p
		}
	}
	minX := followAxis(center.X, w, field.Min.X, field.Max.X)
	minY := followAxis(center.Y, h, field.Min.Y, field.Max.Y)
	return viewport{
		view: core.Bounds{Min: core.V(minX, minY), Max: core.V(minX+w, minY+h)},
		area: area,
		ux:   ux,
		uy:   uy,
	}
}

// followAxis returns the low edge of a window of size span centered on c
// and kept inside [lo, hi]. A window wider than the field is centered.
func followAxis(c, span, lo, hi float64) float64 {
	if span >= hi-lo {
		return (lo+hi)/2 - span/2
	}
	return core.ClampF(c-span/2, lo, hi-span)
}

func playerPosition(f core.Frame) (core.Vec2, bool) {
	for _, e := range f.Entities {
		if e.Kind == config.KindPlayer {
			return e.Position, true
		}
	}
	return core.Vec2{}, false
}

// Draw renders the field, its entities and any phase overlay into s.
// The HUD is drawn separately by HUD.
func (r *Renderer) Draw(s *core.Screen, f core.Frame) {
	s.Clear()
	if s.Width() < 3 || s.Height() < 3 {
		return
	}

	frame := core.NewRect(0, 0, s.Width(), s.Height())
	s.DrawBox(frame, core.ColorGray)
	v := r.viewport(f, core.NewRect(1, 1, s.Width()-2, s.Height()-2))

	// Players last so nothing hides them.
	for pass := 0; pass < 2; pass++ {
		for _, e := range f.Entities {
			if (e.Kind == config.KindPlayer) != (pass == 1) {
				continue
			}
			x, y, ok := v.project(e.Position)
			if !ok {
				continue
			}
			g, c := r.Glyph(e.Visual)
			s.SetCell(x, y, g, c)
		}
	}

	switch f.HUD.Phase {
	case engine.StateLoading.String():
		r.overlay(s, []string{"Loading..."})
	case engine.StateTitle.String():
		r.overlay(s, []string{r.title, "", "Press Enter to start", "Q to quit"})
	case engine.StateInstructions.String():
		lines := append([]string{"How to play", ""}, r.instructions...)
		lines = append(lines, "", "Enter: play  B: back")
		r.overlay(s, lines)
	case engine.StatePaused.String():
		r.overlay(s, []string{"PAUSED", "", "P: resume  R: restart  B: title"})
	case engine.StateGameOver.String():
		headline := "GAME OVER"
		if f.HUD.Outcome == engine.OutcomeWon.String() {
			headline = "YOU WIN"
		}
		r.overlay(s, []string{
			headline,
			"",
			fmt.Sprintf("Score: %d", f.HUD.Score),
			fmt.Sprintf("Time: %.1fs", f.HUD.Elapsed),
			"",
			"Enter or R: continue",
		})
	}
}

// overlay draws lines in a centered box over the field.
func (r *Renderer) overlay(s *core.Screen, lines []string) {
	width := 0
	for _, l := range lines {
		width = max(width, utf8.RuneCountInString(l))
	}
	box := core.NewRect(0, 0, min(width+4, s.Width()), min(len(lines)+2, s.Height()))
	box.X = (s.Width() - box.W) / 2
	box.Y = (s.Height() - box.H) / 2

	for y := box.Y; y < box.Bottom(); y++ {
		for x := box.X; x < box.Right(); x++ {
			s.Set(x, y, ' ')
		}
	}
	s.DrawBox(box, core.ColorBrightWhite)
	for i, l := range lines {
		c := core.ColorWhite
		if i == 0 {
			c = core.ColorBrightYellow
		}
		x := box.X + (box.W-utf8.RuneCountInString(l))/2
		s.DrawTextColor(x, box.Y+1+i, l, c)
	}
}

// Tick ages the cue flash by one frame.
func (r *Renderer) Tick() {
	if r.flashTicks > 0 {
		r.flashTicks--
	}
}

// HUD renders the status line for a frame. A recent cue tints its background.
func (r *Renderer) HUD(f core.Frame, width int) string {
	bg := lipgloss.Color("236")
	if r.flashTicks > 0 {
		if c, ok := styleFor(r.flash).GetForeground().(lipgloss.Color); ok {
			bg = c
		}
	}
	label := hudLabelStyle.Background(bg)
	value := hudStyle.Background(bg)

	h := f.HUD
	parts := []string{
		label.Render(" SCORE ") + value.Render(fmt.Sprintf("%d", h.Score)),
		label.Render(" HP ") + value.Render(healthBar(h.Health, h.MaxHealth, 10)),
		label.Render(" LVL ") + value.Render(levelLabel(h)),
		label.Render(" T ") + value.Render(fmt.Sprintf("%.1fs", h.LevelTimer)),
	}
	if h.Kills > 0 {
		parts = append(parts, label.Render(" KO ")+value.Render(fmt.Sprintf("%d", h.Kills)))
	}
	if r.lapsToWin > 0 {
		parts = append(parts, label.Render(" LAP ")+value.Render(fmt.Sprintf("%d/%d", h.Laps, r.lapsToWin)))
	}
	return value.Width(max(width, 0)).Render(strings.Join(parts, value.Render(" ")))
}

func levelLabel(h core.HUD) string {
	if h.LevelName == "" {
		return fmt.Sprintf("%d", h.Level+1)
	}
	return fmt.Sprintf("%d %s", h.Level+1, h.LevelName)
}

// healthBar draws health as a fixed-width bar.
func healthBar(health, maxHealth float64, width int) string {
	if maxHealth <= 0 {
		return strings.Repeat("-", width)
	}
	filled := int(math.Round(core.ClampF(health/maxHealth, 0, 1) * float64(width)))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// ErrorView renders a static screen for a game that failed to load.
// Joined validation errors are listed one per line.
func ErrorView(gameID string, err error, width, height int) string {
	var b strings.Builder
	b.WriteString(errorTitleStyle.Render(fmt.Sprintf("%s cannot start", gameID)))
	b.WriteString("\n\n")
	for _, line := range strings.Split(err.Error(), "\n") {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(hudLabelStyle.UnsetBackground().Render("Fix the config and try again. Q or B to leave."))

	return lipgloss.Place(max(width, 1), max(height, 1), lipgloss.Center, lipgloss.Center,
		errorBoxStyle.Render(b.String()))
}

// Banner renders a bold title centered over width.
func Banner(text string, width int) string {
	return lipgloss.PlaceHorizontal(max(width, 1), lipgloss.Center, overlayTitleStyle.Render(text))
}
