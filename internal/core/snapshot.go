package core

// EntitySnapshot is the read-only view of one live entity handed to
// presentation adapters each frame.
type EntitySnapshot struct {
	ID       uint64  `msgpack:"id"`
	Kind     string  `msgpack:"kind"`
	Position Vec2    `msgpack:"pos"`
	Angle    float64 `msgpack:"angle"`
	Visual   string  `msgpack:"visual"`
}

// HUD carries the session values a presentation adapter may display.
type HUD struct {
	Run        string  `msgpack:"run"`
	Score      int     `msgpack:"score"`
	Health     float64 `msgpack:"health"`
	MaxHealth  float64 `msgpack:"max_health"`
	Level      int     `msgpack:"level"`
	LevelName  string  `msgpack:"level_name"`
	LevelTimer float64 `msgpack:"level_timer"`
	Elapsed    float64 `msgpack:"elapsed"`
	Laps       int     `msgpack:"laps"`
	Kills      int     `msgpack:"kills"`
	Phase      string  `msgpack:"phase"`
	Outcome    string  `msgpack:"outcome"`
}

// Frame is everything a presentation adapter needs to draw one frame.
type Frame struct {
	Game     string           `msgpack:"game"`
	Seq      uint64           `msgpack:"seq"`
	Field    Bounds           `msgpack:"field"`
	HUD      HUD              `msgpack:"hud"`
	Entities []EntitySnapshot `msgpack:"entities"`
}
