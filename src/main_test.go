package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/SKANL/test-game-2d-sub000/src/match"
)

func TestProcessCommandLine(t *testing.T) {
	flags := processCommandLine([]string{"kaito", "kaito", "-frames", "120", "-p2.ai", "hard", "-rewind", "-?"})
	assert.Equal(t, map[string]string{
		"-p1":     "kaito",
		"-p2":     "kaito",
		"-frames": "120",
		"-p2.ai":  "hard",
		"-rewind": "",
		"-h":      "true",
	}, flags)

	flags = processCommandLine([]string{"-stats"})
	assert.Equal(t, "true", flags["-stats"])
}

func TestBoutOptions(t *testing.T) {
	o, err := boutOptionsFrom(map[string]string{"-frames": "90", "-rewind": "10", "-p1": "kaito"})
	require.NoError(t, err)
	assert.Equal(t, 90, o.Frames)
	assert.Equal(t, 10, o.Rewind)
	assert.Equal(t, "kaito", o.Chars[0])

	o, err = boutOptionsFrom(map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, defaultFrames, o.Frames)

	_, err = boutOptionsFrom(map[string]string{"-frames": "lots"})
	assert.Error(t, err)
	_, err = boutOptionsFrom(map[string]string{"-rewind": "-3"})
	assert.Error(t, err)
}

func TestAIBoutIsDeterministic(t *testing.T) {
	run := func() (boutResult, [2]float64) {
		b, err := newBout(boutOptions{Frames: 900, AI: [2]string{"hard", "easy"}}, nil)
		require.NoError(t, err)
		defer b.Close()
		res, err := b.Run()
		require.NoError(t, err)
		return res, [2]float64{b.match.Fighter(0).Health, b.match.Fighter(1).Health}
	}
	r1, h1 := run()
	r2, h2 := run()
	assert.Equal(t, r1, r2)
	assert.Equal(t, h1, h2)
	assert.LessOrEqual(t, r1.Frames, 900)
	assert.Greater(t, r1.Events, 0)
}

func TestRewindResimulatesToPresent(t *testing.T) {
	b, err := newBout(boutOptions{Frames: 300, Rewind: 45}, nil)
	require.NoError(t, err)
	defer b.Close()

	res, err := b.Run()
	require.NoError(t, err)
	assert.Equal(t, res.Frames, b.history.Frame())
	assert.NotZero(t, b.history.Len())

	b.Stop()
	assert.Zero(t, b.history.Len())
	assert.Zero(t, b.history.Frame())
}

func TestScriptedBout(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "walk.lua")
	require.NoError(t, os.WriteFile(path, []byte(`
function tick(frame)
  if frame == 1 then press(1, "right") end
  if frame > 120 then finish() end
end
`), 0o644))

	b, err := newBout(boutOptions{Frames: 1000, ScriptPath: path}, nil)
	require.NoError(t, err)
	defer b.Close()
	start := b.match.Fighter(0).Position.X()

	res, err := b.Run()
	require.NoError(t, err)
	assert.Equal(t, 120, res.Frames)
	assert.Greater(t, b.match.Fighter(0).Position.X(), start)

	_, err = newBout(boutOptions{Frames: 1, ScriptPath: filepath.Join(dir, "missing.lua")}, nil)
	assert.Error(t, err)
}

func TestWriteStatsAccumulates(t *testing.T) {
	b, err := newBout(boutOptions{Frames: 60}, nil)
	require.NoError(t, err)
	defer b.Close()
	_, err = b.Run()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "stats.json")
	require.NoError(t, writeStats(path, b.match))
	require.NoError(t, writeStats(path, b.match))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, int64(2), gjson.GetBytes(data, "bouts").Int())
	assert.Equal(t, int64(2), gjson.GetBytes(data, "matches.#").Int())
	assert.Equal(t, b.match.Settings.RoundTime, gjson.GetBytes(data, "matches.0.roundTime").Float())
	assert.Equal(t, int64(match.NoWinner), gjson.GetBytes(data, "matches.1.winSide").Int())
}

func TestEscapeKey(t *testing.T) {
	assert.Equal(t, `Mr\.\*X`, escapeKey("Mr.*X"))
	assert.Equal(t, "Kaito", escapeKey("Kaito"))
}
