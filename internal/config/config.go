package config

import (
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"github.com/inkboard/inkboard/internal/document"
	"github.com/inkboard/inkboard/internal/engine"
)

type Config struct {
	Port           int            `envconfig:"PORT" default:"8080"`
	AllowedOrigins string         `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	LogLevel       string         `envconfig:"LOG_LEVEL" default:"info"`
	PenColor       document.Color `envconfig:"PEN_COLOR" default:"#0000ff"`
	PenAlpha       float64        `envconfig:"PEN_ALPHA" default:"1"`
	PenWidth       float64        `envconfig:"PEN_WIDTH" default:"2"`
	EraserRadius   float64        `envconfig:"ERASER_RADIUS" default:"8"`
	ExportScale    float64        `envconfig:"EXPORT_SCALE" default:"1"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// EngineOptions maps the drawing settings onto engine options.
func (c *Config) EngineOptions() engine.Options {
	return engine.Options{
		PenColor:     c.PenColor,
		PenAlpha:     c.PenAlpha,
		PenWidth:     c.PenWidth,
		EraserRadius: c.EraserRadius,
	}
}

// CORSOrigins splits AllowedOrigins into full origins.
func (c *Config) CORSOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Origins returns AllowedOrigins as host patterns for websocket.Accept.
func (c *Config) Origins() []string {
	out := c.CORSOrigins()
	for i, o := range out {
		o = strings.TrimPrefix(o, "http://")
		out[i] = strings.TrimPrefix(o, "https://")
	}
	return out
}

// SlogLevel parses LogLevel, falling back to info.
func (c *Config) SlogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}
