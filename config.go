package hposconfig

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
)

// Config is the typed view of a valid hpos-config document.
// Only the keys named by Schema are decoded.
type Config struct {
	V1 V1 `json:"v1" mapstructure:"v1"`
}

// V1 holds the version 1 configuration block.
type V1 struct {
	Seed     string   `json:"seed" mapstructure:"seed"`
	Settings Settings `json:"settings" mapstructure:"settings"`
}

type Settings struct {
	Admin Admin `json:"admin" mapstructure:"admin"`
}

type Admin struct {
	Email     string `json:"email" mapstructure:"email"`
	PublicKey string `json:"public_key" mapstructure:"public_key"`
}

// Decode validates data against Schema and decodes it into a Config.
// Validation errors are returned as *schema.Error, unwrapped.
func Decode(data any) (*Config, error) {
	if err := Check(data); err != nil {
		return nil, err
	}

	var cfg Config
	if err := mapstructure.Decode(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Parse decodes JSON text into a validated Config.
func Parse(text string) (*Config, error) {
	return parse([]byte(text))
}

// Load reads and parses a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Config, error) {
	decoded, err := validator.Decode(data)
	if err != nil {
		return nil, err
	}
	return Decode(decoded)
}
