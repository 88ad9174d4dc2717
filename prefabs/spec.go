package prefabs

import (
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// SessionSpec configures a simulation session and the sync test that
// drives it. Zero values fall back to the simulation defaults.
type SessionSpec struct {
	FPS           int      `yaml:"fps"`
	Scale         float64  `yaml:"scale"`
	Gravity       *VecSpec `yaml:"gravity"`
	Iterations    int      `yaml:"iterations"`
	Players       int      `yaml:"players"`
	CheckDistance int      `yaml:"check_distance"`
	Frames        int      `yaml:"frames"`
	Seed          int64    `yaml:"seed"`
	Scenario      string   `yaml:"scenario"`
}

func LoadSessionSpec(filename string) (SessionSpec, error) {
	return LoadSpec[SessionSpec](filename)
}

// ScenarioSpec is a level: the behaviors it uses and the entities it
// spawns, in spawn order.
type ScenarioSpec struct {
	Name       string            `yaml:"name"`
	Background *YAMLColor        `yaml:"background"`
	Behaviors  map[string]string `yaml:"behaviors"`
	Entities   []EntityBuildSpec `yaml:"entities"`
}

func LoadScenarioSpec(filename string) (ScenarioSpec, error) {
	spec, err := LoadSpec[ScenarioSpec](filename)
	if err != nil {
		return spec, err
	}
	for i, e := range spec.Entities {
		if len(e.Components) == 0 {
			return spec, fmt.Errorf("prefabs: %s: entity %d (%q) has no components", filename, i, e.Name)
		}
	}
	return spec, nil
}

// BehaviorNames lists the scenario's behaviors sorted by name.
func (s ScenarioSpec) BehaviorNames() []string {
	names := make([]string, 0, len(s.Behaviors))
	for name := range s.Behaviors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type VecSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
