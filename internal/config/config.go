package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	imagepkg "github.com/youruser/cardego/internal/image"
)

const DefaultConfigFile = "cardego.toml"

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Render    RenderConfig    `toml:"render"`
	Retrieval RetrievalConfig `toml:"retrieval"`
}

type ServerConfig struct {
	Addr  string `toml:"addr"`
	Debug bool   `toml:"debug"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type RenderConfig struct {
	Binary         string `toml:"binary"`
	DataDir        string `toml:"data_dir"`
	CardWidth      int    `toml:"card_width"`
	CardHeight     int    `toml:"card_height"`
	Columns        int    `toml:"columns"`
	Workers        int    `toml:"workers"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	FetchArtwork   bool   `toml:"fetch_artwork"`
}

type RetrievalConfig struct {
	TimeoutSeconds int `toml:"timeout_seconds"`
}

func Default() *Config {
	return &Config{
		Server:   ServerConfig{Addr: ":8080"},
		Database: DatabaseConfig{Path: "runtime/data/databases/cards.db"},
		Render: RenderConfig{
			Binary:         imagepkg.DefaultConverterBinary,
			DataDir:        imagepkg.DefaultDataDir,
			CardWidth:      imagepkg.DefaultCardWidth,
			CardHeight:     imagepkg.DefaultCardHeight,
			Columns:        imagepkg.DefaultColumns,
			Workers:        2,
			TimeoutSeconds: 60,
			FetchArtwork:   false,
		},
		Retrieval: RetrievalConfig{TimeoutSeconds: 12},
	}
}

// Load reads the TOML file at path over the defaults. A missing file is not
// an error. PORT, when set, overrides the listen address.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("error decoding config file %s: %w", path, err)
			}
		}
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Addr = ":" + port
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	r := c.Render
	switch {
	case r.CardWidth < 1 || r.CardHeight < 1:
		return fmt.Errorf("render: card size must be positive, got %dx%d", r.CardWidth, r.CardHeight)
	case r.Columns < 1:
		return fmt.Errorf("render: columns must be positive, got %d", r.Columns)
	case r.Workers < 1:
		return fmt.Errorf("render: workers must be positive, got %d", r.Workers)
	case r.TimeoutSeconds < 0 || c.Retrieval.TimeoutSeconds < 0:
		return errors.New("timeouts must not be negative")
	}
	return nil
}

func (c *Config) Layout() imagepkg.Layout {
	return imagepkg.Layout{
		CardWidth:  c.Render.CardWidth,
		CardHeight: c.Render.CardHeight,
		Columns:    c.Render.Columns,
	}
}

func (c *Config) RenderTimeout() time.Duration {
	return time.Duration(c.Render.TimeoutSeconds) * time.Second
}

func (c *Config) RetrievalTimeout() time.Duration {
	return time.Duration(c.Retrieval.TimeoutSeconds) * time.Second
}

// NewPipeline builds the render pipeline described by the config.
func (c *Config) NewPipeline() (*imagepkg.Pipeline, error) {
	paths := imagepkg.Paths{Root: c.Render.DataDir}
	return imagepkg.NewPipeline(imagepkg.Options{
		Paths:        paths,
		Layout:       c.Layout(),
		Converter:    imagepkg.NewConverter(c.Render.Binary, c.RenderTimeout()),
		Retriever:    imagepkg.NewRetriever(paths, c.RetrievalTimeout()),
		FetchArtwork: c.Render.FetchArtwork,
		Workers:      c.Render.Workers,
	})
}

// Write encodes the config as TOML to path.
func (c *Config) Write(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating config file: %w", err)
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(c); err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}
	return nil
}
