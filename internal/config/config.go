// Package config holds the renderer's settings. Everything has a working
// default; an optional TOML file overrides individual values.
package config

import (
	"bytes"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
)

// EnvPath names the environment variable that points at the config file.
const EnvPath = "HELLO_TRIANGLE_CONFIG"

// DefaultPath is read when EnvPath is unset.
const DefaultPath = "hello-triangle.toml"

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Window   WindowConfig   `toml:"window"`
	Renderer RendererConfig `toml:"renderer"`
	Log      LogConfig      `toml:"log"`
}

type WindowConfig struct {
	Title     string `toml:"title"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	Resizable bool   `toml:"resizable"`
}

type RendererConfig struct {
	// Validation enables VK_LAYER_KHRONOS_validation and the debug messenger.
	Validation bool `toml:"validation"`
	// PresentMode is the preferred mode: "mailbox", "immediate" or "fifo".
	// FIFO is used whenever the preferred mode isn't offered.
	PresentMode    string     `toml:"present_mode"`
	FramesInFlight int        `toml:"frames_in_flight"`
	ShaderDir      string     `toml:"shader_dir"`
	ClearColor     [4]float32 `toml:"clear_color"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:     "Vulkan",
			Width:     800,
			Height:    600,
			Resizable: true,
		},
		Renderer: RendererConfig{
			Validation:     true,
			PresentMode:    "mailbox",
			FramesInFlight: 2,
			ShaderDir:      "shaders",
			ClearColor:     [4]float32{0, 0, 0, 1},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Path returns the config file location from the environment, or DefaultPath.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %s", path)
	}

	if err := Decode(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Decode parses TOML into cfg, leaving unset keys alone, and validates the
// result.
func Decode(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return errors.Wrap(err, "decode")
	}
	cfg.normalize()
	return cfg.Validate()
}

// normalize folds case on the enumerated string settings.
func (c *Config) normalize() {
	c.Renderer.PresentMode = strings.ToLower(c.Renderer.PresentMode)
	c.Log.Level = strings.ToLower(c.Log.Level)
}

func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Renderer.FramesInFlight < 1 || c.Renderer.FramesInFlight > 3 {
		return errors.Wrapf(ErrInvalidConfig, "frames_in_flight must be 1..3, got %d", c.Renderer.FramesInFlight)
	}
	switch strings.ToLower(c.Renderer.PresentMode) {
	case "mailbox", "immediate", "fifo":
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown present_mode %q", c.Renderer.PresentMode)
	}
	if c.Renderer.ShaderDir == "" {
		return errors.Wrap(ErrInvalidConfig, "shader_dir is empty")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown log level %q", c.Log.Level)
	}
	return nil
}
