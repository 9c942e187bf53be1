// Package history keeps recent match snapshots so a local session can rewind
// and replay its own simulation. It does no network reconciliation.
package history

import (
	"errors"
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/SKANL/test-game-2d-sub000/src/event"
	"github.com/SKANL/test-game-2d-sub000/src/match"
)

var ErrNoSnapshot = errors.New("history: no snapshot for frame")

type Options struct {
	MaxFrames int // snapshots kept
	Cadence   int // snapshot every Cadence recorded ticks
}

var DefaultOptions = Options{MaxFrames: 180, Cadence: 2}

// Buffer maps frame numbers to serialized match states. It is written only
// by the tick driver.
type Buffer struct {
	opts      Options
	frame     int
	snapshots map[int][]byte
}

func NewBuffer(opts Options) *Buffer {
	if opts.MaxFrames <= 0 {
		opts.MaxFrames = DefaultOptions.MaxFrames
	}
	if opts.Cadence <= 0 {
		opts.Cadence = DefaultOptions.Cadence
	}
	return &Buffer{opts: opts, snapshots: make(map[int][]byte)}
}

// Frame is the number of ticks recorded so far.
func (b *Buffer) Frame() int { return b.frame }

func (b *Buffer) Len() int { return len(b.snapshots) }

// Keys returns the retained frame numbers in ascending order.
func (b *Buffer) Keys() []int {
	keys := maps.Keys(b.snapshots)
	slices.Sort(keys)
	return keys
}

// Snapshot returns the raw snapshot stored for frame.
func (b *Buffer) Snapshot(frame int) ([]byte, bool) {
	data, ok := b.snapshots[frame]
	return data, ok
}

// Record is called once per tick after the match advanced. Every Cadence
// ticks it serializes m under the new frame number.
func (b *Buffer) Record(m *match.Match) error {
	b.frame++
	if b.frame%b.opts.Cadence != 0 {
		return nil
	}
	data, err := Serialize(m)
	if err != nil {
		return err
	}
	b.Store(b.frame, data)
	return nil
}

// Store inserts a snapshot and evicts the oldest ones beyond capacity.
func (b *Buffer) Store(frame int, data []byte) {
	b.snapshots[frame] = data
	if over := len(b.snapshots) - b.opts.MaxFrames; over > 0 {
		for _, k := range b.Keys()[:over] {
			delete(b.snapshots, k)
		}
	}
}

// Restore loads the snapshot for frame into m. Snapshots newer than frame
// describe a future that no longer happens and are dropped. With resimulate
// set, the match is then ticked forward at the fixed rate until the buffer
// is back at the frame count it had before, recording as it goes. On error
// m keeps its prior state.
func (b *Buffer) Restore(m *match.Match, frame int, resimulate bool) (event.List, error) {
	data, ok := b.snapshots[frame]
	if !ok {
		return nil, fmt.Errorf("%w %d", ErrNoSnapshot, frame)
	}
	if err := Deserialize(data, m); err != nil {
		return nil, fmt.Errorf("history: restore frame %d: %w", frame, err)
	}

	target := b.frame
	b.frame = frame
	for k := range b.snapshots {
		if k > frame {
			delete(b.snapshots, k)
		}
	}
	if !resimulate {
		return nil, nil
	}

	dt := 1 / m.Settings.TickRate
	var evs event.List
	for b.frame < target {
		evs = append(evs, m.Tick(dt)...)
		if err := b.Record(m); err != nil {
			return evs, err
		}
	}
	return evs, nil
}

// Clear drops every snapshot and restarts the frame count, used when a
// match is stopped.
func (b *Buffer) Clear() {
	b.frame = 0
	maps.Clear(b.snapshots)
}
