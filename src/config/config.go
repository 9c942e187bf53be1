// Package config loads bout settings from an INI file layered over the
// embedded defaults.
package config

import (
	_ "embed" // Support for go:embed resources
	"fmt"
	"os"
	"time"

	"gopkg.in/ini.v1"

	"github.com/SKANL/test-game-2d-sub000/src/ai"
	"github.com/SKANL/test-game-2d-sub000/src/fighter"
	"github.com/SKANL/test-game-2d-sub000/src/geom"
	"github.com/SKANL/test-game-2d-sub000/src/history"
	"github.com/SKANL/test-game-2d-sub000/src/input"
	"github.com/SKANL/test-game-2d-sub000/src/match"
)

//go:embed resources/defaultConfig.ini
var defaultConfig []byte

type KeysProperties struct {
	Up      string `ini:"Up"`
	Down    string `ini:"Down"`
	Left    string `ini:"Left"`
	Right   string `ini:"Right"`
	Punch   string `ini:"Punch"`
	Kick    string `ini:"Kick"`
	Special string `ini:"Special"`
	Super   string `ini:"Super"`
}

func (k KeysProperties) bindings() input.Bindings {
	var b input.Bindings
	b[input.ActionUp] = input.Key(k.Up)
	b[input.ActionDown] = input.Key(k.Down)
	b[input.ActionLeft] = input.Key(k.Left)
	b[input.ActionRight] = input.Key(k.Right)
	b[input.ActionPunch] = input.Key(k.Punch)
	b[input.ActionKick] = input.Key(k.Kick)
	b[input.ActionSpecial] = input.Key(k.Special)
	b[input.ActionSuper] = input.Key(k.Super)
	return b
}

// Config mirrors the INI layout section by section.
type Config struct {
	Def     string    `ini:"-"`
	IniFile *ini.File `ini:"-"`
	Match   struct {
		RoundTime      float64 `ini:"RoundTime"`
		MaxRounds      int     `ini:"MaxRounds"`
		PreRoundDelay  float64 `ini:"PreRoundDelay"`
		RoundOverDelay float64 `ini:"RoundOverDelay"`
		TickRate       float64 `ini:"TickRate"`
		MaxDelta       float64 `ini:"MaxDelta"`
	} `ini:"Match"`
	Stage struct {
		Left    float64 `ini:"Left"`
		Right   float64 `ini:"Right"`
		GroundY float64 `ini:"GroundY"`
		Gravity float64 `ini:"Gravity"`
	} `ini:"Stage"`
	Hurtbox struct {
		Width  float64 `ini:"Width"`
		Height float64 `ini:"Height"`
	} `ini:"Hurtbox"`
	Input struct {
		CooldownMs       int `ini:"CooldownMs"`
		BufferSize       int `ini:"BufferSize"`
		SequenceGapMs    int `ini:"SequenceGapMs"`
		SequenceWindowMs int `ini:"SequenceWindowMs"`
	} `ini:"Input"`
	History struct {
		MaxFrames int `ini:"MaxFrames"`
		Cadence   int `ini:"Cadence"`
	} `ini:"History"`
	AI struct {
		Difficulty string `ini:"Difficulty"`
		Seed       int64  `ini:"Seed"`
	} `ini:"AI"`
	AIEasy   ai.Profile     `ini:"AI_Easy"`
	AINormal ai.Profile     `ini:"AI_Normal"`
	AIHard   ai.Profile     `ini:"AI_Hard"`
	KeysP1   KeysProperties `ini:"Keys_P1"`
	KeysP2   KeysProperties `ini:"Keys_P2"`
}

// Load reads def on top of the embedded defaults. A missing def is not an
// error, the defaults are used alone.
func Load(def string) (*Config, error) {
	options := ini.LoadOptions{
		Insensitive:             false,
		IgnoreInlineComment:     false,
		SkipUnrecognizableLines: true,
		AllowShadows:            false,
	}

	var iniFile *ini.File
	var err error
	if _, statErr := os.Stat(def); def == "" || statErr != nil {
		iniFile, err = ini.LoadSources(options, defaultConfig)
	} else {
		iniFile, err = ini.LoadSources(options, defaultConfig, def)
	}
	if err != nil {
		return nil, fmt.Errorf("config: failed to read data: %w", err)
	}
	return fromFile(iniFile, def)
}

// Parse is Load for in-memory data, used by tests and embedders.
func Parse(data []byte) (*Config, error) {
	iniFile, err := ini.LoadSources(ini.LoadOptions{SkipUnrecognizableLines: true}, defaultConfig, data)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read data: %w", err)
	}
	return fromFile(iniFile, "")
}

func fromFile(iniFile *ini.File, def string) (*Config, error) {
	var c Config
	if err := iniFile.MapTo(&c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	c.Def = def
	c.IniFile = iniFile
	c.normalize()
	return &c, nil
}

// normalize clamps every value into a range the simulation can run with.
func (c *Config) normalize() {
	c.Match.RoundTime = geom.Clamp(c.Match.RoundTime, 1, 999)
	c.Match.MaxRounds = geom.Clamp(c.Match.MaxRounds, 1, 99)
	if c.Match.MaxRounds%2 == 0 {
		c.Match.MaxRounds++
	}
	c.Match.PreRoundDelay = geom.Clamp(c.Match.PreRoundDelay, 0, 60)
	c.Match.RoundOverDelay = geom.Clamp(c.Match.RoundOverDelay, 0, 60)
	c.Match.TickRate = geom.Clamp(c.Match.TickRate, 1, 840)
	if c.Match.MaxDelta <= 0 {
		c.Match.MaxDelta = 1 / c.Match.TickRate
	}
	c.Match.MaxDelta = geom.Clamp(c.Match.MaxDelta, 1/840.0, 0.1)

	if c.Stage.Right <= c.Stage.Left {
		c.Stage.Left, c.Stage.Right = fighter.DefaultStage.Left, fighter.DefaultStage.Right
	}
	c.Stage.Gravity = geom.Max(c.Stage.Gravity, 0)
	if c.Hurtbox.Width <= 0 || c.Hurtbox.Width >= c.Stage.Right-c.Stage.Left {
		c.Hurtbox.Width = fighter.DefaultStage.HurtboxWidth
	}
	if c.Hurtbox.Height <= 0 {
		c.Hurtbox.Height = fighter.DefaultStage.HurtboxHeight
	}

	c.Input.CooldownMs = geom.Clamp(c.Input.CooldownMs, 0, 2000)
	c.Input.BufferSize = geom.Clamp(c.Input.BufferSize, 1, 256)
	c.Input.SequenceGapMs = geom.Clamp(c.Input.SequenceGapMs, 1, 1000)
	c.Input.SequenceWindowMs = geom.Clamp(c.Input.SequenceWindowMs, 1, 5000)

	c.History.MaxFrames = geom.Clamp(c.History.MaxFrames, 1, 3600)
	c.History.Cadence = geom.Clamp(c.History.Cadence, 1, 60)

	d, ok := ai.ParseDifficulty(c.AI.Difficulty)
	if !ok {
		d = ai.Normal
	}
	c.AI.Difficulty = string(d)
	for _, p := range []*ai.Profile{&c.AIEasy, &c.AINormal, &c.AIHard} {
		p.ReactionTime = geom.Clamp(p.ReactionTime, 0, 5)
		p.Accuracy = geom.Clamp(p.Accuracy, 0, 1)
		p.Aggressiveness = geom.Clamp(p.Aggressiveness, 0, 1)
		p.PredictionSkill = geom.Clamp(p.PredictionSkill, 0, 1)
	}
}

func (c *Config) MatchSettings() match.Settings {
	return match.Settings{
		RoundTime:      c.Match.RoundTime,
		MaxRounds:      c.Match.MaxRounds,
		PreRoundDelay:  c.Match.PreRoundDelay,
		RoundOverDelay: c.Match.RoundOverDelay,
		TickRate:       c.Match.TickRate,
		MaxDelta:       c.Match.MaxDelta,
	}
}

func (c *Config) FighterStage() fighter.Stage {
	return fighter.Stage{
		Left:          c.Stage.Left,
		Right:         c.Stage.Right,
		GroundY:       c.Stage.GroundY,
		Gravity:       c.Stage.Gravity,
		HurtboxWidth:  c.Hurtbox.Width,
		HurtboxHeight: c.Hurtbox.Height,
	}
}

func (c *Config) InputOptions() input.Options {
	ms := func(v int) time.Duration { return time.Duration(v) * time.Millisecond }
	return input.Options{
		Cooldown:       ms(c.Input.CooldownMs),
		BufferSize:     c.Input.BufferSize,
		SequenceGap:    ms(c.Input.SequenceGapMs),
		SequenceWindow: ms(c.Input.SequenceWindowMs),
	}
}

func (c *Config) Bindings() [input.MaxPlayers]input.Bindings {
	return [input.MaxPlayers]input.Bindings{c.KeysP1.bindings(), c.KeysP2.bindings()}
}

func (c *Config) HistoryOptions() history.Options {
	return history.Options{MaxFrames: c.History.MaxFrames, Cadence: c.History.Cadence}
}

func (c *Config) Difficulty() ai.Difficulty { return ai.Difficulty(c.AI.Difficulty) }

// AIProfile returns the configured dials for d.
func (c *Config) AIProfile(d ai.Difficulty) ai.Profile {
	switch d {
	case ai.Easy:
		return c.AIEasy
	case ai.Hard:
		return c.AIHard
	}
	return c.AINormal
}

// Save writes the effective configuration to path in INI form.
func (c *Config) Save(path string) error {
	f := ini.Empty()
	if err := f.ReflectFrom(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := f.SaveTo(path); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
