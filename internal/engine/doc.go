// Package engine is the shared arcade core: an entity registry over a
// physics adapter, a collision resolver, a virtual-time spawn scheduler and
// the game state machine, tied together by World.
//
// A World is single-threaded. The host calls Frame (or FrameAt) once per
// rendered frame and reads Snapshot afterwards; nothing in the package
// blocks, sleeps or starts goroutines.
package engine
