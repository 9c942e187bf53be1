package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SKANL/test-game-2d-sub000/src/ai"
	"github.com/SKANL/test-game-2d-sub000/src/fighter"
	"github.com/SKANL/test-game-2d-sub000/src/history"
	"github.com/SKANL/test-game-2d-sub000/src/input"
)

func TestDefaultsMatchPackageDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	s := c.MatchSettings()
	assert.Equal(t, 99.0, s.RoundTime)
	assert.Equal(t, 3, s.MaxRounds)
	assert.InDelta(t, 1.0/60, s.MaxDelta, 1e-6)
	assert.Equal(t, 60.0, s.TickRate)

	assert.Equal(t, fighter.DefaultStage, c.FighterStage())
	assert.Equal(t, input.DefaultOptions, c.InputOptions())
	assert.Equal(t, input.DefaultBindings, c.Bindings())
	assert.Equal(t, history.DefaultOptions, c.HistoryOptions())
	assert.Equal(t, ai.Normal, c.Difficulty())
	for _, d := range []ai.Difficulty{ai.Easy, ai.Normal, ai.Hard} {
		assert.Equal(t, ai.Profiles[d], c.AIProfile(d), d)
	}
}

func TestUserValuesOverrideAndAreClamped(t *testing.T) {
	c, err := Parse([]byte(`
[Match]
MaxRounds = 4
RoundTime = 5000

[Stage]
Left  = 500
Right = 100

[AI]
Difficulty = HARD
Seed = 99

[AI_Hard]
Accuracy = 3

[Keys_P1]
Punch = KeyJ
`))
	require.NoError(t, err)

	assert.Equal(t, 5, c.Match.MaxRounds, "even round counts are bumped to odd")
	assert.Equal(t, 999.0, c.Match.RoundTime)
	assert.Equal(t, fighter.DefaultStage.Right, c.FighterStage().Right)
	assert.Equal(t, ai.Hard, c.Difficulty())
	assert.Equal(t, int64(99), c.AI.Seed)
	assert.Equal(t, 1.0, c.AIProfile(ai.Hard).Accuracy)
	assert.Equal(t, ai.Profiles[ai.Hard].ReactionTime, c.AIProfile(ai.Hard).ReactionTime)

	b := c.Bindings()
	assert.Equal(t, input.Key("KeyJ"), b[0][input.ActionPunch])
	assert.Equal(t, input.Key("KeyG"), b[0][input.ActionKick])
}

func TestUnknownDifficultyFallsBackToNormal(t *testing.T) {
	c, err := Parse([]byte("[AI]\nDifficulty = nightmare\n"))
	require.NoError(t, err)
	assert.Equal(t, ai.Normal, c.Difficulty())
}

func TestLoadFileAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bout.ini")
	require.NoError(t, os.WriteFile(path, []byte("[History]\nMaxFrames = 60\nCadence = 1\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, c.Def)
	assert.Equal(t, history.Options{MaxFrames: 60, Cadence: 1}, c.HistoryOptions())

	out := filepath.Join(dir, "saved.ini")
	require.NoError(t, c.Save(out))
	again, err := Load(out)
	require.NoError(t, err)
	assert.Equal(t, c.HistoryOptions(), again.HistoryOptions())
	assert.Equal(t, c.MatchSettings(), again.MatchSettings())
	assert.Equal(t, c.Bindings(), again.Bindings())
}

func TestMissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.ini"))
	require.NoError(t, err)
	assert.Equal(t, 3, c.Match.MaxRounds)
}
