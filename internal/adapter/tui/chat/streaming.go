package chat

import (
	"strings"
	"time"
)

// StreamSpeed is how quickly an answer is revealed in the transcript pane.
type StreamSpeed int

const (
	StreamInstant StreamSpeed = iota
	StreamFast
	StreamNormal
)

// streamTick is the delay between reveal steps.
const streamTick = 16 * time.Millisecond

var speedPresets = map[StreamSpeed]struct {
	name  string
	chunk int // runes revealed per tick, 0 reveals everything at once
}{
	StreamInstant: {"instant", 0},
	StreamFast:    {"fast", 32},
	StreamNormal:  {"normal", 8},
}

// speedOrder is the /speed and cycling order.
var speedOrder = []StreamSpeed{StreamNormal, StreamFast, StreamInstant}

func (s StreamSpeed) String() string {
	if p, ok := speedPresets[s]; ok {
		return p.name
	}
	return "unknown"
}

// ParseStreamSpeed reads a speed name case-insensitively. Blank means normal;
// an unknown name yields normal and false.
func ParseStreamSpeed(s string) (StreamSpeed, bool) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return StreamNormal, true
	}
	for speed, p := range speedPresets {
		if p.name == name {
			return speed, true
		}
	}
	return StreamNormal, false
}

// StreamConfig drives the reveal ticker.
type StreamConfig struct {
	Speed     StreamSpeed
	ChunkSize int
	TickRate  time.Duration
}

func DefaultStreamConfig() StreamConfig { return StreamConfigForSpeed(StreamNormal) }

// StreamConfigForSpeed maps a speed to ticker settings; unknown speeds get
// the normal preset.
func StreamConfigForSpeed(s StreamSpeed) StreamConfig {
	p, ok := speedPresets[s]
	if !ok {
		s, p = StreamNormal, speedPresets[StreamNormal]
	}
	if p.chunk == 0 {
		return StreamConfig{Speed: s}
	}
	return StreamConfig{Speed: s, ChunkSize: p.chunk, TickRate: streamTick}
}

// CycleStreamSpeed returns the speed after current in speedOrder, wrapping.
func CycleStreamSpeed(current StreamSpeed) StreamSpeed {
	for i, s := range speedOrder {
		if s == current {
			return speedOrder[(i+1)%len(speedOrder)]
		}
	}
	return StreamNormal
}
