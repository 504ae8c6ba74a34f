package engine

import (
	"fmt"

	"github.com/vovakirdan/arcade-core/internal/config"
)

// Kind is the closed set of entity categories. Behavior and collision
// effects switch on it.
type Kind uint8

const (
	KindPlayer Kind = iota
	KindEnemy
	KindProjectile
	KindPickup
	KindStatic
)

func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return config.KindPlayer
	case KindEnemy:
		return config.KindEnemy
	case KindProjectile:
		return config.KindProjectile
	case KindPickup:
		return config.KindPickup
	case KindStatic:
		return config.KindStatic
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ParseKind maps a config kind name to a Kind.
func ParseKind(name string) (Kind, error) {
	switch name {
	case config.KindPlayer:
		return KindPlayer, nil
	case config.KindEnemy:
		return KindEnemy, nil
	case config.KindProjectile:
		return KindProjectile, nil
	case config.KindPickup:
		return KindPickup, nil
	case config.KindStatic:
		return KindStatic, nil
	default:
		return 0, fmt.Errorf("engine: unknown entity kind %q", name)
	}
}

// Movement selects an entity's steering pattern.
type Movement uint8

const (
	MoveNone Movement = iota
	MoveLinear
	MovePursue
	MoveSinusoidal
	MoveDiagonal
	MoveFall
	MoveOrbit
)

func parseMovement(name string, kind Kind) (Movement, error) {
	switch name {
	case "":
		if kind == KindProjectile {
			return MoveLinear, nil
		}
		return MoveNone, nil
	case config.MoveNone:
		return MoveNone, nil
	case config.MoveLinear:
		return MoveLinear, nil
	case config.MovePursue:
		return MovePursue, nil
	case config.MoveSinusoidal:
		return MoveSinusoidal, nil
	case config.MoveDiagonal:
		return MoveDiagonal, nil
	case config.MoveFall:
		return MoveFall, nil
	case config.MoveOrbit:
		return MoveOrbit, nil
	default:
		return 0, fmt.Errorf("engine: unknown movement %q", name)
	}
}
