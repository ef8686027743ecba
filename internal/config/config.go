// Package config loads handpong settings from an optional TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ayusman/handpong/internal/capture"
	"github.com/ayusman/handpong/internal/detector"
	"github.com/ayusman/handpong/internal/game"
)

// FileName is the name of the configuration file inside the data directory.
const FileName = "config.toml"

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// Config holds every setting of the game. Zero-length strings disable the
// optional features they name.
type Config struct {
	// DataDir holds the database and, by default, the config file.
	DataDir string `toml:"data_dir"`
	// AssetsDir holds the game images. Empty means search the usual locations.
	AssetsDir string `toml:"assets_dir"`
	// ServerAddr is the spectator server address. Empty disables the server.
	ServerAddr string `toml:"server_addr"`
	// RecordMatches stores every finished match in the database.
	RecordMatches bool `toml:"record_matches"`

	WindowTitle string `toml:"window_title"`

	Camera   capture.Options `toml:"camera"`
	Detector detector.Config `toml:"detector"`
	Game     game.Config     `toml:"game"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DataDir:       defaultDataDir(),
		ServerAddr:    "127.0.0.1:8080",
		RecordMatches: true,
		WindowTitle:   "Image",
		Camera:        capture.DefaultOptions(),
		Detector:      detector.DefaultConfig(),
		Game:          game.DefaultConfig(),
	}
}

// defaultDataDir returns ~/.handpong, or .handpong when the home directory is unknown.
func defaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".handpong"
	}
	return filepath.Join(homeDir, ".handpong")
}

// DefaultPath returns the default location of the configuration file.
func DefaultPath() string {
	return filepath.Join(defaultDataDir(), FileName)
}

// Load reads path over the defaults. The file must exist.
// Unknown keys are rejected so typos do not silently fall back to defaults.
func Load(path string) (Config, error) {
	return load(path, false)
}

// LoadDefault reads the file at DefaultPath over the defaults. A missing file
// is not an error.
func LoadDefault() (Config, error) {
	return load(DefaultPath(), true)
}

func load(path string, optional bool) (Config, error) {
	cfg := Default()

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("decode %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%w: unknown keys in %s: %s", ErrInvalid, path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the geometry ranges are well formed.
func (c Config) Validate() error {
	g := c.Game

	checks := []struct {
		ok  bool
		msg string
	}{
		{g.PaddleMinY <= g.PaddleMaxY, "game.paddle_min_y must not exceed game.paddle_max_y"},
		{g.OutLeftX < g.OutRightX, "game.out_left_x must be less than game.out_right_x"},
		{g.WallTopY < g.WallBottomY, "game.wall_top_y must be less than game.wall_bottom_y"},
		{g.RightHitMinX < g.RightHitMaxX, "game.right_hit_min_x must be less than game.right_hit_max_x"},
		{g.PaddleWidth > 0 && g.PaddleHeight > 0, "game paddle size must be positive"},
		{g.NudgeOffset >= 0, "game.nudge_offset must not be negative"},
		{c.Detector.MaxHands >= 1, "detector.max_hands must be at least 1"},
		{c.Detector.MinConfidence >= 0 && c.Detector.MinConfidence <= 1, "detector.min_confidence must be within [0, 1]"},
		{c.DataDir != "", "data_dir must be set"},
	}

	for _, check := range checks {
		if !check.ok {
			return fmt.Errorf("%w: %s", ErrInvalid, check.msg)
		}
	}
	return nil
}

// DatabasePath returns the SQLite file inside DataDir.
func (c Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "handpong.db")
}
