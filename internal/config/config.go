package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/p4sbu/buildingid/internal/lock"
)

type Config struct {
	Properties PropertiesConfig `toml:"properties"`
	Codes      CodesConfig      `toml:"codes"`
	Output     OutputConfig     `toml:"output"`
	Lock       LockConfig       `toml:"lock"`
}

// PropertiesConfig names the feature properties read and written.
type PropertiesConfig struct {
	Name string `toml:"name" validate:"required,nefield=ID"`
	ID   string `toml:"id" validate:"required"`
}

type CodesConfig struct {
	Filler string `toml:"filler" validate:"required,len=1,uppercase"`
}

// AutoReport as the report location writes the report next to the output.
const AutoReport = "auto"

type OutputConfig struct {
	Indent string `toml:"indent" validate:"max=8,indent"`
	Report string `toml:"report,omitempty"`
}

type LockConfig struct {
	TimeoutSeconds int `toml:"timeout_seconds" validate:"gte=0"`
}

func Default() Config {
	return Config{
		Properties: PropertiesConfig{Name: "name", ID: "buildingId"},
		Codes:      CodesConfig{Filler: "X"},
		Output:     OutputConfig{Indent: "  "},
		Lock:       LockConfig{TimeoutSeconds: int(lock.DefaultTimeout / time.Second)},
	}
}

// Load reads a TOML file on top of Default, so omitted keys keep their
// default values, and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Indentation may only hold spaces and tabs, or the output is no longer JSON.
	v.RegisterValidation("indent", func(fl validator.FieldLevel) bool {
		return strings.Trim(fl.Field().String(), " \t") == ""
	})
	return v
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Filler returns the padding character for short codes.
func (c Config) Filler() rune {
	r, _ := utf8.DecodeRuneInString(c.Codes.Filler)
	return r
}

func (c Config) LockTimeout() time.Duration {
	return time.Duration(c.Lock.TimeoutSeconds) * time.Second
}
