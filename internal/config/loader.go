package config

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/arcade-core/internal/clock"
)

//go:embed defaults/*.yaml
var defaultsFS embed.FS

// Load loads a game definition and validates it.
// Search order: customPath -> ~/.arcade/configs/<id>.yaml -> ./configs/<id>.yaml -> embedded default.
// A file that exists but does not parse or validate is an error; the
// search never falls through past a broken file.
func Load(gameID, customPath string) (*GameConfig, error) {
	if customPath != "" {
		return LoadFile(customPath)
	}

	filename := gameID + ".yaml"
	candidates := []string{userConfigPath(filename), filepath.Join("configs", filename)}
	for _, p := range candidates {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}

	data := DefaultYAML(gameID)
	if data == nil {
		return nil, fmt.Errorf("config: no configuration for game %q", gameID)
	}
	return Parse(data, "embedded:"+filename)
}

// LoadFile reads, parses and validates one YAML file.
func LoadFile(p string) (*GameConfig, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", p, err)
	}
	return Parse(data, p)
}

// Parse decodes YAML, fills loop defaults and validates the result.
// source names the data in error messages.
func Parse(data []byte, source string) (*GameConfig, error) {
	var cfg GameConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", source, err)
	}
	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s:\n%w", source, err)
	}
	return &cfg, nil
}

func applyDefaults(cfg *GameConfig) {
	if cfg.Loop.MaxStep == 0 {
		cfg.Loop.MaxStep = clock.DefaultMaxStep
	}
	if cfg.Loop.FixedStep == 0 {
		cfg.Loop.FixedStep = clock.DefaultFixedStep
	}
	if cfg.Loop.MaxSubSteps == 0 {
		cfg.Loop.MaxSubSteps = clock.DefaultMaxSubSteps
	}
	if cfg.Title == "" {
		cfg.Title = cfg.ID
	}
	if cfg.Rules.OnExhaustion == "" {
		cfg.Rules.OnExhaustion = ExhaustWin
	}
	if cfg.Player.Steering == "" {
		cfg.Player.Steering = SteerFree
	}
	if cfg.Player.Start == nil {
		cfg.Player.Start = &Position{Keyword: PosCenter}
	}
}

// ClockConfig converts the loop section for the frame clock.
func (c *GameConfig) ClockConfig() clock.Config {
	return clock.Config{
		MaxStep:     c.Loop.MaxStep,
		FixedStep:   c.Loop.FixedStep,
		MaxSubSteps: c.Loop.MaxSubSteps,
	}
}

// DefaultYAML returns the embedded default YAML for a game, or nil.
func DefaultYAML(gameID string) []byte {
	data, err := defaultsFS.ReadFile(path.Join("defaults", gameID+".yaml"))
	if err != nil {
		return nil
	}
	return data
}

// EmbeddedIDs lists the games that ship a default configuration.
func EmbeddedIDs() []string {
	entries, err := fs.ReadDir(defaultsFS, "defaults")
	if err != nil {
		return nil
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if name := e.Name(); strings.HasSuffix(name, ".yaml") {
			ids = append(ids, strings.TrimSuffix(name, ".yaml"))
		}
	}
	sort.Strings(ids)
	return ids
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arcade", "configs", filename)
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *GameConfig, preset DifficultyPreset) {
	if preset == "" {
		return
	}
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	// The player's toughness follows the preset as well.
	t, ok := cfg.Templates[cfg.Player.Template]
	if !ok {
		return
	}
	switch preset {
	case DifficultyEasy:
		t.Health *= 1.5
	case DifficultyHard:
		t.Health *= 0.75
	}
	cfg.Templates[cfg.Player.Template] = t
}

// IsValidationError reports whether err contains at least one ValidationError.
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
