// Package config loads the TOML session file shared by the query drivers
// and the HTTP server.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/BurntSushi/toml"

	"td_router/pkg/graph"
)

// ErrIncomplete is returned when a required setting is missing.
var ErrIncomplete = errors.New("incomplete config")

// GraphConfig names the input vectors and the static hierarchies.
type GraphConfig struct {
	graph.Files
	CCHOrder     string   `toml:"cch_order"`
	TimeWindowCH []string `toml:"time_window_ch"`
}

// ServerConfig holds the HTTP settings.
type ServerConfig struct {
	Addr          string        `toml:"addr"`
	ReadTimeout   time.Duration `toml:"read_timeout"`
	WriteTimeout  time.Duration `toml:"write_timeout"`
	QueryTimeout  time.Duration `toml:"query_timeout"`
	MaxConcurrent int           `toml:"max_concurrent"`
	CORSOrigin    string        `toml:"cors_origin"`
	MaxSnapMeters float64       `toml:"max_snap_meters"`
}

// Config is the content of a session file.
type Config struct {
	Graph  GraphConfig  `toml:"graph"`
	Server ServerConfig `toml:"server"`
}

// DefaultServer returns the server settings used for missing fields.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Addr:          ":8080",
		ReadTimeout:   5 * time.Second,
		WriteTimeout:  10 * time.Second,
		QueryTimeout:  5 * time.Second,
		MaxConcurrent: runtime.NumCPU() * 2,
		MaxSnapMeters: 1000,
	}
}

// Load reads and validates the session file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a session file, applies defaults and validates it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("failed to parse config file: unknown key %q", undecoded[0].String())
	}

	def := DefaultServer()
	s := &cfg.Server
	if s.Addr == "" {
		s.Addr = def.Addr
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = def.ReadTimeout
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = def.WriteTimeout
	}
	if s.QueryTimeout == 0 {
		s.QueryTimeout = def.QueryTimeout
	}
	if s.MaxConcurrent <= 0 {
		s.MaxConcurrent = def.MaxConcurrent
	}
	if s.MaxSnapMeters <= 0 {
		s.MaxSnapMeters = def.MaxSnapMeters
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	g := c.Graph
	required := []struct{ key, value string }{
		{"graph.first_out", g.FirstOut},
		{"graph.head", g.Head},
		{"graph.first_ipp_of_arc", g.FirstIPPOfArc},
		{"graph.ipp_departure_time", g.IPPDepartureTime},
		{"graph.ipp_travel_time", g.IPPTravelTime},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%w: %s is not set", ErrIncomplete, r.key)
		}
	}
	if len(g.TimeWindowCH) == 0 {
		return fmt.Errorf("%w: graph.time_window_ch needs at least one hierarchy", ErrIncomplete)
	}
	if (g.Latitude == "") != (g.Longitude == "") {
		return fmt.Errorf("%w: graph.latitude and graph.longitude must be set together", ErrIncomplete)
	}
	return nil
}
