package config

import (
	"math"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/diffdrive/internal/drive"
	"github.com/san-kum/diffdrive/internal/plan"
)

const (
	DefaultRadius     = 0.05
	DefaultSeparation = 0.2
	DefaultDt         = 1e-3
)

type Config struct {
	Name     string      `yaml:"name,omitempty"`
	Robot    RobotConfig `yaml:"robot"`
	Dt       float64     `yaml:"dt"`
	InitPose PoseConfig  `yaml:"init_pose"`
	Program  []string    `yaml:"program"`
}

type RobotConfig struct {
	Radius     float64 `yaml:"radius"`
	Separation float64 `yaml:"separation"`
	Height     float64 `yaml:"height"`
}

type PoseConfig struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Theta float64 `yaml:"theta"`
}

func DefaultConfig() *Config {
	return &Config{
		Robot: RobotConfig{
			Radius:     DefaultRadius,
			Separation: DefaultSeparation,
		},
		Dt: DefaultDt,
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto reads path over cfg. Fields absent from the file keep their
// current values, so a file can refine a preset.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrapf(err, "parse %s", path)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var err error
	positive := func(field string, v float64) {
		if !(v > 0) || math.IsInf(v, 0) {
			err = multierr.Append(err, errors.Errorf("%s must be positive, got %g", field, v))
		}
	}
	positive("robot.radius", c.Robot.Radius)
	positive("robot.separation", c.Robot.Separation)
	positive("dt", c.Dt)

	// entries follow the program grammar: comments and ';' are allowed
	for i, stmt := range c.Program {
		if _, perr := plan.Parse(stmt); perr != nil {
			err = multierr.Append(err, errors.Wrapf(perr, "program[%d]", i))
		}
	}
	return err
}

// NewModel builds a drive model from the robot section, dt and initial pose.
func (c *Config) NewModel() (*drive.Model, error) {
	return drive.New(c.Robot.Radius, c.Robot.Separation,
		drive.WithHeight(c.Robot.Height),
		drive.WithDt(c.Dt),
		drive.WithPose(c.InitPose.X, c.InitPose.Y, c.InitPose.Theta),
	)
}

// Steps parses the program section.
func (c *Config) Steps() ([]plan.Step, error) {
	return plan.ParseAll(c.Program)
}

// Clone returns a deep copy, so presets can be modified safely.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Program = append([]string(nil), c.Program...)
	return &cp
}
