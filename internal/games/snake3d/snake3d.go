// Package snake3d is the orb collector. The run is won early once the
// last level has scheduled all of its orbs and every one has been eaten.
package snake3d

import (
	"github.com/vovakirdan/arcade-core/internal/config"
	"github.com/vovakirdan/arcade-core/internal/engine"
	"github.com/vovakirdan/arcade-core/internal/games"
	"github.com/vovakirdan/arcade-core/internal/registry"
)

const ID = "snake3d"

func init() {
	registry.Register(ID, func() registry.Game {
		return games.New(ID, "Orb Snake", Rules)
	})
}

// Rules adds the all-orbs-eaten win to the config rules.
func Rules(cfg *config.GameConfig) engine.Rules {
	return engine.Extend(engine.ConfigRules{Cfg: cfg.Rules}, allEaten)
}

func allEaten(j engine.Judgement) (engine.Trigger, bool) {
	if j.LastLevel && !j.Pending && j.Pickups == 0 {
		return engine.TriggerGoalReached, true
	}
	return engine.TriggerNone, false
}
