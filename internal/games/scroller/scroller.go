// Package scroller is the side-scrolling shooter.
package scroller

import (
	"github.com/vovakirdan/arcade-core/internal/games"
	"github.com/vovakirdan/arcade-core/internal/registry"
)

const ID = "scroller"

func init() {
	registry.Register(ID, func() registry.Game {
		return games.New(ID, "Side Scroller", nil)
	})
}
