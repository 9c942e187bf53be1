package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/SKANL/test-game-2d-sub000/src/ai"
	"github.com/SKANL/test-game-2d-sub000/src/config"
	"github.com/SKANL/test-game-2d-sub000/src/content"
	"github.com/SKANL/test-game-2d-sub000/src/event"
	"github.com/SKANL/test-game-2d-sub000/src/fighter"
	"github.com/SKANL/test-game-2d-sub000/src/history"
	"github.com/SKANL/test-game-2d-sub000/src/input"
	"github.com/SKANL/test-game-2d-sub000/src/match"
	"github.com/SKANL/test-game-2d-sub000/src/script"
)

const defaultFrames = 36000

type boutOptions struct {
	ConfigPath string
	Chars      [2]string
	// AI holds the difficulty per side; empty uses the configured one.
	AI         [2]string
	ScriptPath string
	Frames     int
	StatsPath  string
	Rewind     int
}

func boutOptionsFrom(flags map[string]string) (boutOptions, error) {
	o := boutOptions{
		ConfigPath: flags["-config"],
		Chars:      [2]string{flags["-p1"], flags["-p2"]},
		AI:         [2]string{flags["-p1.ai"], flags["-p2.ai"]},
		ScriptPath: flags["-script"],
		StatsPath:  flags["-stats"],
		Frames:     defaultFrames,
	}
	for _, k := range []string{"-frames", "-rewind"} {
		v, ok := flags[k]
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return o, fmt.Errorf("%s: not a frame count: %q", k, v)
		}
		if k == "-frames" {
			o.Frames = n
		} else {
			o.Rewind = n
		}
	}
	return o, nil
}

// bout is one headless match with its input, history and optional script.
type bout struct {
	opts    boutOptions
	cfg     *config.Config
	match   *match.Match
	rec     *input.Recognizer
	history *history.Buffer
	runner  *script.Runner
	logger  *log.Logger
}

func newBout(opts boutOptions, logger *log.Logger) (*bout, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	b := &bout{
		opts:    opts,
		cfg:     cfg,
		match:   match.New(cfg.MatchSettings(), logger),
		rec:     input.NewRecognizer(cfg.InputOptions(), cfg.Bindings()),
		history: history.NewBuffer(cfg.HistoryOptions()),
		logger:  logger,
	}

	for side := 0; side < 2; side++ {
		chr, err := content.Load(opts.Chars[side])
		if err != nil {
			return nil, err
		}
		f, err := fighter.New(side, chr, cfg.FighterStage(), logger)
		if err != nil {
			return nil, err
		}
		if err := b.match.Register(f, b.source(side)); err != nil {
			return nil, err
		}
	}

	if opts.ScriptPath != "" {
		b.runner = script.New(b.match, b.rec, logger)
		if err := b.runner.LoadFile(opts.ScriptPath); err != nil {
			b.runner.Close()
			return nil, err
		}
	}
	return b, b.match.Start()
}

// source picks who drives a side: player one follows the script when one
// is given, everyone else is an AI seeded from the configured seed.
func (b *bout) source(side int) match.IntentSource {
	if side == 0 && b.opts.ScriptPath != "" {
		return input.NewHumanSource(b.rec, side, b.logger)
	}
	d := b.cfg.Difficulty()
	if s := b.opts.AI[side]; s != "" {
		var ok bool
		if d, ok = ai.ParseDifficulty(s); !ok {
			b.logger.Printf("p%d: unknown AI level %q, using %s", side+1, s, d)
		}
	}
	return ai.New(b.cfg.AIProfile(d), b.cfg.AI.Seed+int64(side), b.logger)
}

func (b *bout) Close() {
	if b.runner != nil {
		b.runner.Close()
	}
}

// Stop ends the bout and forgets its history.
func (b *bout) Stop() {
	b.rec.ReleaseAll()
	b.history.Clear()
}

type boutResult struct {
	Frames int
	Status match.Status
	Winner string
	Reason match.Reason
	Scores match.Scores
	Events int
}

func (r boutResult) String() string {
	w := r.Winner
	if w == "" {
		w = "nobody"
	}
	return fmt.Sprintf("%s after %d frames: %s wins (%s) %d-%d",
		r.Status, r.Frames, w, r.Reason, r.Scores.P1, r.Scores.P2)
}

// Run ticks the match at the fixed rate until it is over, the frame limit
// is hit or the script calls finish.
func (b *bout) Run() (boutResult, error) {
	dt := 1 / b.match.Settings.TickRate
	var res boutResult
	for frame := 1; frame <= b.opts.Frames; frame++ {
		if b.runner != nil {
			if err := b.runner.Tick(frame); err != nil {
				return res, err
			}
			if b.runner.Finished {
				break
			}
		}
		evs := b.match.Tick(dt)
		b.logEvents(evs)
		res.Events += len(evs)
		res.Frames = frame
		if err := b.history.Record(b.match); err != nil {
			return res, err
		}
		if b.match.Status == match.StatusGameOver {
			break
		}
	}

	if b.opts.Rewind > 0 {
		evs, err := b.rewind(b.opts.Rewind)
		if err != nil {
			return res, err
		}
		b.logEvents(evs)
	}

	res.Status = b.match.Status
	res.Winner = b.match.WinnerName
	res.Reason = b.match.WinReason
	res.Scores = b.match.Scores
	return res, nil
}

// rewind restores the newest snapshot at least n frames back and
// resimulates up to the present.
func (b *bout) rewind(n int) (event.List, error) {
	target := b.history.Frame() - n
	keys := b.history.Keys()
	for i := len(keys) - 1; i >= 0; i-- {
		if keys[i] <= target {
			b.logger.Printf("rewinding to frame %d", keys[i])
			return b.history.Restore(b.match, keys[i], true)
		}
	}
	return nil, fmt.Errorf("%w at or before frame %d", history.ErrNoSnapshot, target)
}

func (b *bout) logEvents(evs event.List) {
	for _, e := range evs {
		switch e.Kind {
		case event.HitLanded, event.KnockedOut, event.RoundStarted, event.RoundEnded, event.MatchEnded:
			b.logger.Printf("frame %d: %v", e.Frame, e)
		}
	}
}

// writeStats folds the finished match into a cumulative JSON stats file.
func writeStats(path string, m *match.Match) error {
	cur := m.Stats.Current()
	if cur == nil {
		return nil
	}
	data, _ := os.ReadFile(path)
	if len(data) == 0 || !gjson.ValidBytes(data) {
		data = []byte(`{}`)
	}

	var err error
	set := func(p string, v interface{}) {
		if err == nil {
			data, err = sjson.SetBytes(data, p, v)
		}
	}
	set("version", Version)
	set("bouts", gjson.GetBytes(data, "bouts").Int()+1)
	set("playtime", gjson.GetBytes(data, "playtime").Float()+cur.MatchTime)
	set("draws", gjson.GetBytes(data, "draws").Int()+int64(cur.Draws))
	if cur.WinSide != match.NoWinner {
		name := m.Fighter(cur.WinSide).Name
		p := "wins." + escapeKey(name)
		set(p, gjson.GetBytes(data, p).Int()+1)
	}
	if !gjson.GetBytes(data, "matches").IsArray() && err == nil {
		data, err = sjson.SetRawBytes(data, "matches", []byte(`[]`))
	}
	set("matches.-1", cur)
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// escapeKey quotes the characters sjson treats as path syntax.
func escapeKey(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\':
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
