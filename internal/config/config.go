// Package config loads the command configuration.
//
// Values are resolved in this order, each overriding the previous one:
//
//  1. Default()
//  2. the YAML file given to Load
//  3. environment variables prefixed with TITANIC, for example
//     TITANIC_DATA_DIR or TITANIC_MODEL_SHRINKAGE
//
// Feature definitions can only come from the defaults or the file.
package config

import (
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/askiada/go-titanic/pkg/feature"
	"github.com/askiada/go-titanic/pkg/passenger"
)

const envPrefix = "TITANIC"

const (
	ShrinkageAuto = "auto"
	ShrinkageNone = "none"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the complete command configuration.
type Config struct {
	Data     DataConfig     `yaml:"data" envconfig:"DATA"`
	Features FeaturesConfig `yaml:"features" ignored:"true"`
	Model    ModelConfig    `yaml:"model" envconfig:"MODEL"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Output   OutputConfig   `yaml:"output" envconfig:"OUTPUT"`
}

// DataConfig locates the input files. Train and Test are relative to Dir.
// Archive, when set, is extracted into Dir if the files are missing.
type DataConfig struct {
	Dir     string `yaml:"dir" envconfig:"DIR" validate:"required"`
	Archive string `yaml:"archive" envconfig:"ARCHIVE"`
	Train   string `yaml:"train" envconfig:"TRAIN" validate:"required"`
	Test    string `yaml:"test" envconfig:"TEST" validate:"required"`
}

type BinSpec struct {
	Feature string    `yaml:"feature" validate:"required"`
	Edges   []float64 `yaml:"edges" validate:"min=2"`
}

type EncodeSpec struct {
	Feature string   `yaml:"feature" validate:"required"`
	Domain  []string `yaml:"domain" validate:"min=1,dive,required"`
}

type FeaturesConfig struct {
	Bins       []BinSpec    `yaml:"bins" validate:"dive"`
	Encode     []EncodeSpec `yaml:"encode" validate:"dive"`
	Attributes []string     `yaml:"attributes" validate:"dive,required"`
	DropFirst  bool         `yaml:"drop_first"`
}

type ModelConfig struct {
	// Shrinkage is auto, none or a number between 0 and 1.
	Shrinkage string `yaml:"shrinkage" envconfig:"SHRINKAGE" validate:"required,shrinkage"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
}

type OutputConfig struct {
	Submission string `yaml:"submission" envconfig:"SUBMISSION" validate:"required"`
	Graph      string `yaml:"graph" envconfig:"GRAPH"`
	// Projection is a directory receiving the train and holdout tables projected
	// on the discriminant axes. Empty skips them.
	Projection string `yaml:"projection" envconfig:"PROJECTION"`
}

// Default returns the configuration of the reference Titanic run.
func Default() *Config {
	binner := feature.DefaultBinnerConfig()
	encoder := feature.DefaultEncoderConfig()
	attributes := feature.DefaultAttributeConfig()

	cfg := &Config{
		Data: DataConfig{
			Dir:     "data",
			Archive: "data/titanic.zip",
			Train:   "train.csv",
			Test:    "test.csv",
		},
		Features: FeaturesConfig{
			Attributes: attributes.Features,
			DropFirst:  encoder.DropFirst,
		},
		Model:   ModelConfig{Shrinkage: ShrinkageAuto},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Output:  OutputConfig{Submission: "submission.csv"},
	}
	for _, name := range binner.Features {
		cfg.Features.Bins = append(cfg.Features.Bins, BinSpec{Feature: name, Edges: binner.Edges[name]})
	}
	for _, name := range encoder.Features {
		cfg.Features.Encode = append(cfg.Features.Encode, EncodeSpec{Feature: name, Domain: encoder.Domains[name]})
	}

	return cfg
}

// Load reads path on top of the defaults, applies the environment and validates
// the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to read config file %s", path)
		}
		err = yaml.Unmarshal(data, cfg)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to parse config file %s", path)
		}
	}

	err := envconfig.Process(envPrefix, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "unable to load config from env")
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks every field of the configuration.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.RegisterValidation("shrinkage", isShrinkage)
	if err != nil {
		return errors.Wrap(err, "unable to register shrinkage validation")
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	err = v.Struct(c)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return errors.Wrap(err, "unable to validate config")
		}
		msgs := make([]string, 0, len(validationErrors))
		for _, fe := range validationErrors {
			msgs = append(msgs, fe.Namespace()+" fails "+fe.Tag())
		}

		return errors.Wrap(ErrInvalidConfig, strings.Join(msgs, ", "))
	}

	for _, name := range c.Features.Attributes {
		if !isPassengerColumn(name) {
			return errors.Wrapf(ErrInvalidConfig, "features.attributes: unknown column %s", name)
		}
	}

	return nil
}

func isShrinkage(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == ShrinkageAuto || value == ShrinkageNone {
		return true
	}
	alpha, err := strconv.ParseFloat(value, 64)

	return err == nil && alpha >= 0 && alpha <= 1
}

func isPassengerColumn(name string) bool {
	for _, col := range passenger.Columns {
		if col == name {
			return true
		}
	}

	return false
}

// ShrinkageValue returns whether automatic shrinkage is requested, or the fixed one.
func (m ModelConfig) ShrinkageValue() (auto bool, alpha float64) {
	switch m.Shrinkage {
	case ShrinkageAuto:
		return true, 0
	case ShrinkageNone:
		return false, 0
	}
	alpha, _ = strconv.ParseFloat(m.Shrinkage, 64)

	return false, alpha
}

func (f FeaturesConfig) BinnerConfig() feature.BinnerConfig {
	cfg := feature.BinnerConfig{Edges: make(map[string][]float64, len(f.Bins))}
	for _, spec := range f.Bins {
		cfg.Features = append(cfg.Features, spec.Feature)
		cfg.Edges[spec.Feature] = spec.Edges
	}

	return cfg
}

func (f FeaturesConfig) EncoderConfig() feature.EncoderConfig {
	cfg := feature.EncoderConfig{Domains: make(map[string][]string, len(f.Encode)), DropFirst: f.DropFirst}
	for _, spec := range f.Encode {
		cfg.Features = append(cfg.Features, spec.Feature)
		cfg.Domains[spec.Feature] = spec.Domain
	}

	return cfg
}

func (f FeaturesConfig) AttributeConfig() feature.AttributeConfig {
	return feature.AttributeConfig{Features: f.Attributes, DropFirst: f.DropFirst}
}
