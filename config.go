package areamesh

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Fail sectors with a vertex shared by more than two of their linedefs.
	CheckVertexReuse bool `yaml:"check_vertex_reuse"`
	// Build point location on an R-tree instead of a linear scan.
	SpatialIndex bool `yaml:"spatial_index"`
	// How close a vertex has to be dropped to another to merge into it.
	MergeRadius float64 `yaml:"merge_radius"`
	LogLevel    string  `yaml:"log_level"`
}

func DefaultConfig() Config {
	return Config{
		MergeRadius: 8,
		LogLevel:    "info",
	}
}

// ParseConfig reads YAML over the defaults. Unknown keys are an error.
func ParseConfig(r io.Reader) (Config, error) {
	config := DefaultConfig()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && err != io.EOF {
		return config, errors.Wrap(err, "parsing config")
	}
	if config.MergeRadius < 0 {
		return config, errors.Errorf("merge_radius must not be negative, got %g", config.MergeRadius)
	}
	if _, err := config.Level(); err != nil {
		return config, err
	}
	return config, nil
}

func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return DefaultConfig(), errors.Wrap(err, "loading config")
	}
	defer f.Close()
	config, err := ParseConfig(f)
	return config, errors.Wrapf(err, "config %s", path)
}

func (c Config) Level() (zapcore.Level, error) {
	var level zapcore.Level
	if c.LogLevel == "" {
		return zapcore.InfoLevel, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, errors.Wrapf(err, "log_level %q", c.LogLevel)
	}
	return level, nil
}

// NewLogger builds a console logger for development, or a JSON one
// otherwise, at the configured level.
func (c Config) NewLogger(development bool) (*zap.Logger, error) {
	level, err := c.Level()
	if err != nil {
		return nil, err
	}
	zapConfig := zap.NewProductionConfig()
	if development {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	logger, err := zapConfig.Build()
	return logger, errors.Wrap(err, "building logger")
}
