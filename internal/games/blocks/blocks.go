// Package blocks is the falling-block game. Blocks that reach the floor
// cost health; letting too many pile up on the field ends the run.
package blocks

import (
	"github.com/vovakirdan/arcade-core/internal/config"
	"github.com/vovakirdan/arcade-core/internal/engine"
	"github.com/vovakirdan/arcade-core/internal/games"
	"github.com/vovakirdan/arcade-core/internal/registry"
)

const ID = "blocks"

// MaxStack is how many blocks may be falling at once before the field
// overflows.
const MaxStack = 12

func init() {
	registry.Register(ID, func() registry.Game {
		return games.New(ID, "Block Breaker", Rules)
	})
}

// Rules adds the overflow loss to the config rules.
func Rules(cfg *config.GameConfig) engine.Rules {
	return engine.Extend(engine.ConfigRules{Cfg: cfg.Rules}, overflow)
}

func overflow(j engine.Judgement) (engine.Trigger, bool) {
	if j.Hostiles > MaxStack {
		return engine.TriggerLevelsLost, true
	}
	return engine.TriggerNone, false
}
