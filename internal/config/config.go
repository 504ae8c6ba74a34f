// Package config provides YAML game definitions, their loading and
// validation, and difficulty management for the arcade.
package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Entity kinds accepted in templates.
const (
	KindPlayer     = "player"
	KindEnemy      = "enemy"
	KindProjectile = "projectile"
	KindPickup     = "pickup"
	KindStatic     = "static"
)

// Movement patterns accepted in templates.
const (
	MoveNone       = "none"
	MoveLinear     = "linear"
	MovePursue     = "pursue"
	MoveSinusoidal = "sinusoidal"
	MoveDiagonal   = "diagonal"
	MoveFall       = "fall"
	MoveOrbit      = "orbit"
)

// Spawn position keywords.
const (
	PosRandom = "random"
	PosEdge   = "edge"
	PosTop    = "top"
	PosBottom = "bottom"
	PosLeft   = "left"
	PosRight  = "right"
	PosCenter = "center"
)

// Level exhaustion outcomes.
const (
	ExhaustWin  = "win"
	ExhaustLose = "lose"
)

// Player steering modes.
const (
	SteerFree = "free" // eight-way movement
	SteerTank = "tank" // left/right rotate, up/down throttle
)

// Triggers on static sensors. A lap counts only after every checkpoint
// on the field was crossed since the previous lap.
const (
	TriggerLap        = "lap"
	TriggerCheckpoint = "checkpoint"
)

// GameConfig is one game's complete definition.
type GameConfig struct {
	ID           string                    `yaml:"id"`
	Title        string                    `yaml:"title"`
	Instructions []string                  `yaml:"instructions"` // shown between title and play when set
	Loop         LoopConfig                `yaml:"loop"`
	Field        FieldConfig               `yaml:"field"`
	Groups       []string                  `yaml:"groups"` // collision groups, bit i = groups[i]
	Player       PlayerConfig              `yaml:"player"`
	Templates    map[string]TemplateConfig `yaml:"templates"`
	Levels       []LevelConfig             `yaml:"levels"`
	Rules        RulesConfig               `yaml:"rules"`
	Visuals      map[string]VisualConfig   `yaml:"visuals"`
	Cues         map[string]string         `yaml:"cues"` // cue name -> HUD flash color
	Difficulty   DifficultyConfig          `yaml:"difficulty"`
}

// LoopConfig bounds the physics step plan.
type LoopConfig struct {
	MaxStep     float64 `yaml:"max_step"`     // raw deltas above this are sub-stepped
	FixedStep   float64 `yaml:"fixed_step"`   // size of each sub-step
	MaxSubSteps int     `yaml:"max_substeps"` // upper bound on sub-steps per frame
}

// FieldConfig is the playfield size in field units.
type FieldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Margin float64 `yaml:"margin"` // distance past the edge before entities are culled
}

// PlayerConfig describes the player entity and camera.
type PlayerConfig struct {
	Template     string       `yaml:"template"`
	Start        *Position    `yaml:"start"` // defaults to the field center
	Steering     string       `yaml:"steering"`
	Heading      float64      `yaml:"heading"`      // initial facing in degrees, 0 = right, -90 = up
	LockHeading  bool         `yaml:"lock_heading"` // fire along Heading regardless of movement
	TurnRate     float64      `yaml:"turn_rate"`    // degrees per second for tank steering
	FireCooldown float64      `yaml:"fire_cooldown"`
	Projectile   string       `yaml:"projectile"`
	Camera       CameraConfig `yaml:"camera"`
}

// CameraConfig controls how presentation adapters frame the field.
type CameraConfig struct {
	Follow bool    `yaml:"follow"` // keep the player centered
	Zoom   float64 `yaml:"zoom"`   // field units per screen cell; 0 fits the field
}

// TemplateConfig is a blueprint for spawned entities.
type TemplateConfig struct {
	Kind       string      `yaml:"kind"`
	Health     float64     `yaml:"health"`
	Speed      float64     `yaml:"speed"`
	Damage     float64     `yaml:"damage"`
	Score      int         `yaml:"score"`
	Heal       float64     `yaml:"heal"` // pickups
	Group      string      `yaml:"group"`
	Mask       []string    `yaml:"mask"`
	Movement   string      `yaml:"movement"`
	Amplitude  float64     `yaml:"amplitude"` // sinusoidal and orbit radius
	Frequency  float64     `yaml:"frequency"` // oscillations per second
	Shape      ShapeConfig `yaml:"shape"`
	Mass       float64     `yaml:"mass"` // 0 = kinematic
	Sensor     bool        `yaml:"sensor"`
	Lifetime   float64     `yaml:"lifetime"`   // seconds; 0 = unlimited
	Cooldown   float64     `yaml:"cooldown"`   // enemy fire interval; 0 = never fires
	Projectile string      `yaml:"projectile"` // template fired by enemies
	Trigger    string      `yaml:"trigger"`
	Direction  *float64    `yaml:"direction"` // degrees a trigger must be crossed in; unset = any
	Visual     string      `yaml:"visual"`
	Cue        string      `yaml:"cue"` // audio cue when destroyed or collected
}

// ShapeConfig is a template's collision shape.
type ShapeConfig struct {
	Type   string  `yaml:"type"` // circle or box
	Radius float64 `yaml:"radius"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// LevelConfig is one level's timeline.
type LevelConfig struct {
	Name     string        `yaml:"name"`
	Duration float64       `yaml:"duration"`
	Spawns   []SpawnConfig `yaml:"spawns"`
}

// SpawnConfig schedules one spawn or a wave.
type SpawnConfig struct {
	Time     float64       `yaml:"time"`
	Template string        `yaml:"template"`
	Position Position      `yaml:"position"`
	Repeat   *RepeatConfig `yaml:"repeat"`
}

// RepeatConfig turns a spawn into a wave of Count spawns, Interval seconds apart.
type RepeatConfig struct {
	Count    int     `yaml:"count"`
	Interval float64 `yaml:"interval"`
}

// RulesConfig holds the per-game end conditions.
type RulesConfig struct {
	OnExhaustion string  `yaml:"on_exhaustion"` // win or lose when the last level ends
	WinOnClear   bool    `yaml:"win_on_clear"`  // win when no hostiles remain after the final wave
	LapsToWin    int     `yaml:"laps_to_win"`
	Explosion    string  `yaml:"explosion"`     // template spawned where hostiles die
	EscapeDamage float64 `yaml:"escape_damage"` // player damage when an enemy leaves the field
}

// VisualConfig maps a visual key to a terminal glyph.
type VisualConfig struct {
	Glyph string `yaml:"glyph"`
	Color string `yaml:"color"`
}

// Position is either a literal point or a keyword rule.
// In YAML it is written as [x, y] or as a bare keyword.
type Position struct {
	Keyword string
	X, Y    float64
}

// At returns a literal position.
func At(x, y float64) Position {
	return Position{X: x, Y: y}
}

// IsLiteral reports whether the position is a fixed point.
func (p Position) IsLiteral() bool {
	return p.Keyword == ""
}

// UnmarshalYAML accepts "random", [x, y] or {x: .., y: ..}.
func (p *Position) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		p.Keyword = value.Value
		return nil
	case yaml.SequenceNode:
		var xy []float64
		if err := value.Decode(&xy); err != nil {
			return err
		}
		if len(xy) != 2 {
			return fmt.Errorf("line %d: position needs 2 coordinates, got %d", value.Line, len(xy))
		}
		*p = At(xy[0], xy[1])
		return nil
	case yaml.MappingNode:
		var xy struct {
			X float64 `yaml:"x"`
			Y float64 `yaml:"y"`
		}
		if err := value.Decode(&xy); err != nil {
			return err
		}
		*p = At(xy.X, xy.Y)
		return nil
	default:
		return fmt.Errorf("line %d: unsupported position", value.Line)
	}
}

// MarshalYAML writes the same forms UnmarshalYAML reads.
func (p Position) MarshalYAML() (interface{}, error) {
	if p.Keyword != "" {
		return p.Keyword, nil
	}
	return []float64{p.X, p.Y}, nil
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string  `yaml:"type"`   // "score", "time", or "none"
	MaxAt float64 `yaml:"max_at"` // score or seconds at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier   float64 `yaml:"speed_multiplier"`   // added to enemy speed at max difficulty
	HealthMultiplier  float64 `yaml:"health_multiplier"`  // added to enemy health at max difficulty
	IntervalReduction float64 `yaml:"interval_reduction"` // fraction removed from wave intervals at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// ParsePreset validates a preset name. Empty means no preset.
func ParsePreset(name string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(name); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty preset %q (want easy, normal, hard or fixed)", name)
	}
}
