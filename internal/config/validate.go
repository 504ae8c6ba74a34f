package config

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ValidationError contains details about a configuration problem.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func invalid(code, format string, args ...any) error {
	return ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// maxGroups is the number of bits in a collision mask.
const maxGroups = 32

var (
	validKinds = map[string]bool{
		KindPlayer: true, KindEnemy: true, KindProjectile: true, KindPickup: true, KindStatic: true,
	}
	validMovements = map[string]bool{
		"": true, MoveNone: true, MoveLinear: true, MovePursue: true, MoveSinusoidal: true,
		MoveDiagonal: true, MoveFall: true, MoveOrbit: true,
	}
	validKeywords = map[string]bool{
		PosRandom: true, PosEdge: true, PosTop: true, PosBottom: true,
		PosLeft: true, PosRight: true, PosCenter: true,
	}
)

// GroupBit returns the collision bit for a group name.
func (c *GameConfig) GroupBit(name string) (uint32, bool) {
	for i, g := range c.Groups {
		if g == name && i < maxGroups {
			return 1 << uint(i), true
		}
	}
	return 0, false
}

// MaskBits ORs the bits of the named groups. Unknown names are skipped;
// Validate reports them.
func (c *GameConfig) MaskBits(names []string) uint32 {
	var mask uint32
	for _, n := range names {
		if bit, ok := c.GroupBit(n); ok {
			mask |= bit
		}
	}
	return mask
}

// Validate checks every cross reference and range in the config.
// All problems are returned together, joined with errors.Join.
func Validate(c *GameConfig) error {
	var errs []error
	add := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	if c.ID == "" {
		add(invalid("MISSING_ID", "game id is empty"))
	}
	if c.Field.Width <= 0 || c.Field.Height <= 0 {
		add(invalid("BAD_FIELD", "field must have positive width and height, got %vx%v", c.Field.Width, c.Field.Height))
	}
	if c.Loop.MaxStep < 0 || c.Loop.FixedStep < 0 || c.Loop.MaxSubSteps < 0 {
		add(invalid("BAD_LOOP", "loop values must not be negative"))
	}
	if c.Loop.FixedStep > 0 && c.Loop.MaxStep > 0 && c.Loop.FixedStep > c.Loop.MaxStep {
		add(invalid("BAD_LOOP", "fixed_step %v exceeds max_step %v", c.Loop.FixedStep, c.Loop.MaxStep))
	}
	if len(c.Groups) == 0 {
		add(invalid("NO_GROUPS", "at least one collision group is required"))
	}
	if len(c.Groups) > maxGroups {
		add(invalid("TOO_MANY_GROUPS", "%d collision groups, at most %d fit in a mask", len(c.Groups), maxGroups))
	}
	seen := make(map[string]bool, len(c.Groups))
	for _, g := range c.Groups {
		if seen[g] {
			add(invalid("DUPLICATE_GROUP", "collision group %q listed twice", g))
		}
		seen[g] = true
	}

	names := make([]string, 0, len(c.Templates))
	for name := range c.Templates {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		validateTemplate(c, name, c.Templates[name], add)
	}

	validatePlayer(c, add)

	if len(c.Levels) == 0 {
		add(invalid("NO_LEVELS", "game %q has no levels", c.ID))
	}
	for i, lvl := range c.Levels {
		validateLevel(c, i, lvl, add)
	}

	switch c.Rules.OnExhaustion {
	case "", ExhaustWin, ExhaustLose:
	default:
		add(invalid("BAD_RULES", "on_exhaustion must be %q or %q, got %q", ExhaustWin, ExhaustLose, c.Rules.OnExhaustion))
	}
	if c.Rules.LapsToWin < 0 {
		add(invalid("BAD_RULES", "laps_to_win must not be negative"))
	}
	if c.Rules.Explosion != "" {
		add(requireTemplate(c, c.Rules.Explosion, "rules.explosion"))
	}

	switch c.Difficulty.Progression.Type {
	case "", "none", "score", "time":
	default:
		add(invalid("BAD_DIFFICULTY", "unknown progression type %q", c.Difficulty.Progression.Type))
	}

	return errors.Join(errs...)
}

func validateTemplate(c *GameConfig, name string, t TemplateConfig, add func(error)) {
	where := fmt.Sprintf("template %q", name)

	if !validKinds[t.Kind] {
		add(invalid("UNKNOWN_KIND", "%s: unknown kind %q", where, t.Kind))
	}
	if !validMovements[t.Movement] {
		add(invalid("UNKNOWN_MOVEMENT", "%s: unknown movement %q", where, t.Movement))
	}
	if _, ok := c.GroupBit(t.Group); !ok {
		add(invalid("UNKNOWN_GROUP", "%s: group %q is not listed in groups", where, t.Group))
	}
	for _, m := range t.Mask {
		if _, ok := c.GroupBit(m); !ok {
			add(invalid("UNKNOWN_GROUP", "%s: mask group %q is not listed in groups", where, m))
		}
	}
	switch t.Shape.Type {
	case "", "circle":
		if t.Shape.Radius <= 0 {
			add(invalid("BAD_SHAPE", "%s: circle needs a positive radius", where))
		}
	case "box":
		if t.Shape.Width <= 0 || t.Shape.Height <= 0 {
			add(invalid("BAD_SHAPE", "%s: box needs positive width and height", where))
		}
	default:
		add(invalid("BAD_SHAPE", "%s: unknown shape %q", where, t.Shape.Type))
	}
	if t.Health < 0 || t.Speed < 0 || t.Damage < 0 || t.Lifetime < 0 || t.Cooldown < 0 || t.Mass < 0 {
		add(invalid("NEGATIVE_VALUE", "%s: health, speed, damage, lifetime, cooldown and mass must not be negative", where))
	}
	if (t.Kind == KindEnemy || t.Kind == KindPlayer) && t.Health <= 0 {
		add(invalid("BAD_HEALTH", "%s: %s needs positive health", where, t.Kind))
	}
	if t.Projectile != "" {
		add(requireKind(c, t.Projectile, KindProjectile, where+" projectile"))
	}
	if t.Cooldown > 0 && t.Projectile == "" {
		add(invalid("MISSING_PROJECTILE", "%s: cooldown set without a projectile template", where))
	}
	switch t.Trigger {
	case "", TriggerLap, TriggerCheckpoint:
	default:
		add(invalid("BAD_TRIGGER", "%s: unknown trigger %q", where, t.Trigger))
	}
	if t.Direction != nil && t.Trigger == "" {
		add(invalid("BAD_TRIGGER", "%s: direction set without a trigger", where))
	}
}

func validatePlayer(c *GameConfig, add func(error)) {
	p := c.Player
	if err := requireKind(c, p.Template, KindPlayer, "player.template"); err != nil {
		add(err)
	}
	if p.Projectile != "" {
		add(requireKind(c, p.Projectile, KindProjectile, "player.projectile"))
	}
	if p.FireCooldown < 0 {
		add(invalid("BAD_PLAYER", "player.fire_cooldown must not be negative"))
	}
	switch p.Steering {
	case "", SteerFree, SteerTank:
	default:
		add(invalid("BAD_PLAYER", "unknown steering %q", p.Steering))
	}
	if p.Start != nil {
		add(validatePosition(*p.Start, "player.start"))
	}
	if p.Camera.Zoom < 0 {
		add(invalid("BAD_CAMERA", "camera zoom must not be negative"))
	}
}

func validateLevel(c *GameConfig, i int, lvl LevelConfig, add func(error)) {
	where := fmt.Sprintf("level %d (%s)", i+1, lvl.Name)
	if lvl.Duration <= 0 || math.IsInf(lvl.Duration, 0) {
		add(invalid("BAD_DURATION", "%s: duration must be positive and finite, got %v", where, lvl.Duration))
	}
	for j, sp := range lvl.Spawns {
		at := fmt.Sprintf("%s spawn %d", where, j+1)
		add(requireTemplate(c, sp.Template, at))
		if t, ok := c.Templates[sp.Template]; ok && t.Kind == KindPlayer {
			add(invalid("BAD_SPAWN", "%s: the player cannot be scheduled", at))
		}
		if sp.Time < 0 {
			add(invalid("BAD_SPAWN_TIME", "%s: negative time %v", at, sp.Time))
		}
		if lvl.Duration > 0 && sp.Time >= lvl.Duration {
			add(invalid("BAD_SPAWN_TIME", "%s: time %v is not before the level ends at %v", at, sp.Time, lvl.Duration))
		}
		if sp.Repeat != nil && (sp.Repeat.Count < 1 || sp.Repeat.Interval <= 0) {
			add(invalid("BAD_REPEAT", "%s: repeat needs count >= 1 and a positive interval", at))
		}
		add(validatePosition(sp.Position, at))
	}
}

func validatePosition(p Position, where string) error {
	if p.IsLiteral() || validKeywords[p.Keyword] {
		return nil
	}
	return invalid("BAD_POSITION", "%s: unknown position keyword %q", where, p.Keyword)
}

func requireTemplate(c *GameConfig, name, where string) error {
	if _, ok := c.Templates[name]; !ok {
		return invalid("UNKNOWN_TEMPLATE", "%s: template %q is not defined", where, name)
	}
	return nil
}

func requireKind(c *GameConfig, name, kind, where string) error {
	t, ok := c.Templates[name]
	if !ok {
		return invalid("UNKNOWN_TEMPLATE", "%s: template %q is not defined", where, name)
	}
	if t.Kind != kind {
		return invalid("WRONG_KIND", "%s: template %q is a %s, expected %s", where, name, t.Kind, kind)
	}
	return nil
}
