package config

import (
	"bytes"
	"os"

	"github.com/Aalexdev/vk-engine/engine/core"
	"github.com/Aalexdev/vk-engine/engine/renderer"
	"github.com/Aalexdev/vk-engine/engine/renderer/metadata"
	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
)

type Application struct {
	Name      string        `toml:"name"`
	PosX      int           `toml:"pos_x"`
	PosY      int           `toml:"pos_y"`
	Width     uint32        `toml:"width"`
	Height    uint32        `toml:"height"`
	LogLevel  core.LogLevel `toml:"log_level"`
	Debug     bool          `toml:"debug"`
	TargetFPS uint32        `toml:"target_fps"`
}

type Renderer struct {
	RefreshMode        metadata.RefreshMode `toml:"refresh_mode"`
	SurfaceFormat      metadata.Format      `toml:"surface_format"`
	ColorSpace         metadata.ColorSpace  `toml:"color_space"`
	FramesInFlight     uint32               `toml:"frames_in_flight"`
	EnableDepth        bool                 `toml:"enable_depth"`
	ClearColor         [4]float32           `toml:"clear_color"`
	ClearDepth         float32              `toml:"clear_depth"`
	ClearStencil       uint32               `toml:"clear_stencil"`
	AutoUpdateViewport bool                 `toml:"auto_update_viewport"`
	DiscreteGPU        bool                 `toml:"discrete_gpu"`
}

// Config is the engine configuration file.
type Config struct {
	Application Application `toml:"application"`
	Renderer    Renderer    `toml:"renderer"`
}

func Default() *Config {
	rc := renderer.DefaultRendererConfig()
	return &Config{
		Application: Application{
			Name:      "vk-engine",
			PosX:      100,
			PosY:      100,
			Width:     1280,
			Height:    720,
			LogLevel:  core.LogLevelInfo,
			TargetFPS: 0,
		},
		Renderer: Renderer{
			RefreshMode:        rc.RefreshMode,
			SurfaceFormat:      rc.SurfaceFormat.Format,
			ColorSpace:         rc.SurfaceFormat.ColorSpace,
			FramesInFlight:     rc.FramesInFlight,
			EnableDepth:        rc.EnableDepth,
			ClearColor:         rc.ClearColor,
			ClearDepth:         rc.ClearDepthStencil.Depth,
			ClearStencil:       rc.ClearDepthStencil.Stencil,
			AutoUpdateViewport: rc.AutoUpdateViewport,
		},
	}
}

// Load reads path on top of the defaults. Keys missing from the file keep
// their default value; unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config %s", path)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := Default()
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return nil, errors.Wrapf(err, "invalid config at line %d column %d", row, col)
		}
		return nil, errors.Wrap(err, "invalid config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Application.Width == 0 || c.Application.Height == 0 {
		return errors.Newf("window size must be positive, got %dx%d", c.Application.Width, c.Application.Height)
	}
	if c.Renderer.FramesInFlight == 0 {
		return errors.New("frames_in_flight must be at least 1")
	}
	if c.Renderer.SurfaceFormat == metadata.FormatUndefined || c.Renderer.SurfaceFormat.HasDepth() {
		return errors.Newf("surface_format %s is not a color format", c.Renderer.SurfaceFormat)
	}
	for i, v := range c.Renderer.ClearColor {
		if v < 0 || v > 1 {
			return errors.Newf("clear_color[%d] = %v is outside [0, 1]", i, v)
		}
	}
	if c.Renderer.ClearDepth < 0 || c.Renderer.ClearDepth > 1 {
		return errors.Newf("clear_depth %v is outside [0, 1]", c.Renderer.ClearDepth)
	}
	return nil
}

// RendererConfig converts the renderer section into what NewRenderer expects.
func (c *Config) RendererConfig() renderer.RendererConfig {
	return renderer.RendererConfig{
		RefreshMode: c.Renderer.RefreshMode,
		SurfaceFormat: metadata.SurfaceFormat{
			Format:     c.Renderer.SurfaceFormat,
			ColorSpace: c.Renderer.ColorSpace,
		},
		FramesInFlight:     c.Renderer.FramesInFlight,
		EnableDepth:        c.Renderer.EnableDepth,
		ClearColor:         metadata.ClearColor(c.Renderer.ClearColor),
		ClearDepthStencil:  metadata.ClearDepthStencil{Depth: c.Renderer.ClearDepth, Stencil: c.Renderer.ClearStencil},
		AutoUpdateViewport: c.Renderer.AutoUpdateViewport,
	}
}

func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}
