// Package content reads character definitions from YAML.
package content

import (
	"embed"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/SKANL/test-game-2d-sub000/src/fighter"
	"github.com/SKANL/test-game-2d-sub000/src/input"
)

//go:embed characters/*.yaml
var builtin embed.FS

// DefaultCharacter is used when no character file is given.
const DefaultCharacter = "kaito"

// Parse decodes one character. Frame data the fighter can repair is left
// alone here; only files no bout can start from are rejected.
func Parse(data []byte) (*fighter.Config, error) {
	var cfg fighter.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", fighter.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	for _, sm := range cfg.Specials {
		if _, ok := input.ParseSequence(sm.Sequence); !ok {
			return nil, fmt.Errorf("%w: %s special %q has unknown actions in %v",
				fighter.ErrInvalidConfig, cfg.Name, sm.Name, sm.Sequence)
		}
	}
	return &cfg, nil
}

// LoadFile reads a character from disk.
func LoadFile(name string) (*fighter.Config, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return cfg, nil
}

// Builtin returns an embedded character by name, without extension.
func Builtin(name string) (*fighter.Config, error) {
	data, err := builtin.ReadFile(path.Join("characters", strings.ToLower(name)+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("%w: no built-in character %q", fighter.ErrInvalidConfig, name)
	}
	return Parse(data)
}

// BuiltinNames lists the embedded characters.
func BuiltinNames() []string {
	entries, _ := builtin.ReadDir("characters")
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// Load resolves a command line character argument: empty means the default
// character, an existing file is read from disk, anything else is looked up
// among the built-ins.
func Load(arg string) (*fighter.Config, error) {
	if arg == "" {
		return Builtin(DefaultCharacter)
	}
	if _, err := os.Stat(arg); err == nil {
		return LoadFile(arg)
	}
	return Builtin(arg)
}
