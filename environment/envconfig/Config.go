// Package envconfig provides configuration structs for constructing
// recorded environments. Configurations in this package are YAML
// serializable.
package envconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	env "github.com/ag-mout/gymnasium-rerun/environment"
	"github.com/ag-mout/gymnasium-rerun/environment/classiccontrol/mountaincar"
	"github.com/ag-mout/gymnasium-rerun/environment/wrappers"
)

// EnvName stores the name of environments that can be configured with
// this package
type EnvName string

const (
	MountainCar EnvName = "MountainCar"
)

// Config describes a specific environment together with its recording
// settings.
type Config struct {
	Environment   EnvName `yaml:"environment"`
	RenderMode    string  `yaml:"renderMode"`
	EpisodeCutoff int     `yaml:"episodeCutoff"`
	Seed          uint64  `yaml:"seed"`

	Record RecordConfig `yaml:"record"`
}

// RecordConfig holds the recorder settings of a Config. Filename and a
// live viewer are mutually exclusive. A nil SkipEpisodes selects the
// default skip-interval.
type RecordConfig struct {
	Filename     string `yaml:"filename"`
	SkipEpisodes *int   `yaml:"skipEpisodes"`
	Viewer       string `yaml:"viewer"`
}

// Load reads a Config from a YAML file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load: could not read %q: %v", path, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("load: could not parse %q: %v", path, err)
	}
	return config, nil
}

// CreateEnv constructs the configured environment wrapped in a
// recorder.
func (c Config) CreateEnv() (env.Environment, error) {
	var e env.Environment
	switch c.Environment {
	case MountainCar:
		var err error
		e, err = mountaincar.New(c.RenderMode, c.EpisodeCutoff, c.Seed)
		if err != nil {
			return nil, fmt.Errorf("createEnv: %v", err)
		}
	default:
		return nil, fmt.Errorf("createEnv: no such environment %q",
			c.Environment)
	}

	viewer, err := wrappers.ParseViewer(c.Record.Viewer)
	if err != nil {
		return nil, fmt.Errorf("createEnv: %v", err)
	}

	skip := wrappers.DefaultSkipEpisodes
	if c.Record.SkipEpisodes != nil {
		skip = *c.Record.SkipEpisodes
	}

	recorded, err := wrappers.NewRecord(e, c.Record.Filename, skip, viewer)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("createEnv: %v", err)
	}
	return recorded, nil
}
