package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	mandel "github.com/marben/deepzoom"
)

// Config holds settings shared by the server and the clients.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Engine  EngineConfig  `mapstructure:"engine"`
	Request RequestConfig `mapstructure:"request"`
	Client  ClientConfig  `mapstructure:"client"`
}

// ServerConfig holds listener and scheduling settings.
type ServerConfig struct {
	TCPAddr   string `mapstructure:"tcp_addr"`
	HTTPAddr  string `mapstructure:"http_addr"`
	StaticDir string `mapstructure:"static_dir"`
	MaxJobs   int    `mapstructure:"max_jobs"`

	// MaxSamples caps the cells of one requested grid. Zero means no cap.
	MaxSamples int `mapstructure:"max_samples"`

	// OriginPatterns lists the cross-origin hosts allowed to open the
	// websocket. Same-origin connections are always accepted.
	OriginPatterns []string `mapstructure:"origin_patterns"`
}

// EngineConfig tunes the escape-time engine.
type EngineConfig struct {
	SegmentSize  int     `mapstructure:"segment_size"`
	BasicCutoff  float64 `mapstructure:"basic_cutoff"`
	MinDigits    uint32  `mapstructure:"min_digits"`
	MarginDigits uint32  `mapstructure:"margin_digits"`
}

// RequestConfig holds request defaults used when flags leave them unset.
type RequestConfig struct {
	Preset        string  `mapstructure:"preset"`
	CenterX       string  `mapstructure:"center_x"`
	CenterY       string  `mapstructure:"center_y"`
	Width         float64 `mapstructure:"width"`
	MaxIterations int64   `mapstructure:"max_iterations"`
	SamplesX      int     `mapstructure:"samples_x"`
	SamplesY      int     `mapstructure:"samples_y"`

	// When both image dimensions are set they replace SamplesX and SamplesY
	// through mandel.SampleDims.
	ImageWidth      int     `mapstructure:"image_width"`
	ImageHeight     int     `mapstructure:"image_height"`
	SamplesPerPixel float64 `mapstructure:"samples_per_pixel"`
}

// ClientConfig holds remote client settings.
type ClientConfig struct {
	ServerAddr string `mapstructure:"server_addr"`
}

// Engine builds an engine from the configuration.
func (c EngineConfig) Engine() *mandel.Engine {
	return &mandel.Engine{
		Policy: mandel.DigitsPolicy{
			MinDigits:    c.MinDigits,
			MarginDigits: c.MarginDigits,
		},
		SegmentSize: c.SegmentSize,
		BasicCutoff: c.BasicCutoff,
	}
}

// Request builds the configured request. A preset, when named, replaces the
// center, width and iteration cap settings. An image size, when given,
// replaces the sample grid.
func (c RequestConfig) Request() (mandel.Request, error) {
	cx, cy, width, maxIter := c.CenterX, c.CenterY, c.Width, c.MaxIterations
	if c.Preset != "" {
		p, err := mandel.PresetByName(c.Preset)
		if err != nil {
			return mandel.Request{}, err
		}
		cx, cy, width, maxIter = p.CenterX, p.CenterY, p.Width, p.MaxIterations
	}
	sx, sy := c.SamplesX, c.SamplesY
	if c.ImageWidth > 0 && c.ImageHeight > 0 {
		spp := c.SamplesPerPixel
		if spp <= 0 {
			return mandel.Request{}, fmt.Errorf("%w: samples per pixel %g", mandel.ErrInvalidRequest, spp)
		}
		sx, sy = mandel.SampleDims(c.ImageWidth, c.ImageHeight, spp)
	}
	return mandel.NewRequest(cx, cy, width, sx, sy, maxIter)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.tcp_addr", ":8081")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("server.static_dir", "./static")
	v.SetDefault("server.max_jobs", runtime.NumCPU())
	v.SetDefault("server.max_samples", 1<<22)
	v.SetDefault("server.origin_patterns", []string{})
	v.SetDefault("engine.segment_size", mandel.DefaultSegmentSize)
	v.SetDefault("engine.basic_cutoff", mandel.DefaultBasicCutoff)
	v.SetDefault("engine.min_digits", mandel.DefaultPrecisionPolicy.MinDigits)
	v.SetDefault("engine.margin_digits", mandel.DefaultPrecisionPolicy.MarginDigits)
	v.SetDefault("request.preset", "")
	v.SetDefault("request.center_x", mandel.FullSet.CenterX)
	v.SetDefault("request.center_y", mandel.FullSet.CenterY)
	v.SetDefault("request.width", mandel.FullSet.Width)
	v.SetDefault("request.max_iterations", 1000)
	v.SetDefault("request.samples_x", 80)
	v.SetDefault("request.samples_y", 40)
	v.SetDefault("request.image_width", 0)
	v.SetDefault("request.image_height", 0)
	v.SetDefault("request.samples_per_pixel", 1.0)
	v.SetDefault("client.server_addr", "localhost:8081")
}

// Load reads configuration from defaults, an optional TOML file, environment
// variables prefixed MANDEL_ and finally flags that were set on the command
// line, later sources winning. flags may be nil.
func Load(flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	if cfgPath := os.Getenv("MANDEL_CONFIG"); cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "deepzoom"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("MANDEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"preset":    "request.preset",
	"x":         "request.center_x",
	"y":         "request.center_y",
	"width":     "request.width",
	"iter":      "request.max_iterations",
	"samples-x": "request.samples_x",
	"samples-y": "request.samples_y",
	"image-w":   "request.image_width",
	"image-h":   "request.image_height",
	"spp":       "request.samples_per_pixel",
	"server":    "client.server_addr",
	"tcp":       "server.tcp_addr",
	"http":      "server.http_addr",
	"static":    "server.static_dir",
	"jobs":      "server.max_jobs",
	"max-cells": "server.max_samples",
	"origin":    "server.origin_patterns",
}

// RequestFlags registers the request flags on fs.
func RequestFlags(fs *pflag.FlagSet) {
	fs.String("preset", "", "named location, overrides -x, -y, -width and -iter")
	fs.String("x", "", "real part of the region center")
	fs.String("y", "", "imaginary part of the region center")
	fs.Float64("width", 0, "region width")
	fs.Int64("iter", 0, "iteration cap")
	fs.Int("samples-x", 0, "sample grid columns")
	fs.Int("samples-y", 0, "sample grid rows")
	fs.Int("image-w", 0, "image width in pixels, overrides -samples-x and -samples-y with -image-h")
	fs.Int("image-h", 0, "image height in pixels")
	fs.Float64("spp", 0, "samples per pixel for -image-w and -image-h")
}

// ServerFlags registers the server flags on fs.
func ServerFlags(fs *pflag.FlagSet) {
	fs.String("tcp", "", "tcp listen address")
	fs.String("http", "", "http and websocket listen address")
	fs.String("static", "", "directory served over http")
	fs.Int("jobs", 0, "maximum concurrent computations")
	fs.Int("max-cells", 0, "maximum cells in one requested grid")
	fs.StringSlice("origin", nil, "cross-origin hosts allowed to open the websocket")
}

// ClientFlags registers the remote client flags on fs.
func ClientFlags(fs *pflag.FlagSet) {
	fs.String("server", "", "server tcp address")
}
