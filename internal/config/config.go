// Package config holds runtime configuration for asciicam and its control
// client. Values come from defaults, an optional YAML file, then flags.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration of the asciicam binary.
type Config struct {
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	Fit         string  `yaml:"fit"`    // stretch | contain
	Scaler      string  `yaml:"scaler"` // nearest | approx-bilinear | bilinear | catmull-rom
	Ramp        string  `yaml:"ramp"`   // preset name, ignored when charset is set
	Charset     string  `yaml:"charset"`
	Sensitivity int     `yaml:"sensitivity"`
	Renderer    string  `yaml:"renderer"` // canvas | html | text
	CellSize    int     `yaml:"cell_size"`
	CanvasMode  string  `yaml:"canvas_mode"` // blocks | glyphs
	FontPath    string  `yaml:"font_path"`
	FontSize    float64 `yaml:"font_size"`
	Host        string  `yaml:"host"` // window | terminal
	LogLevel    string  `yaml:"log_level"`

	Camera   CameraConfig   `yaml:"camera"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Control  ControlConfig  `yaml:"control"`
}

// CameraConfig selects the capture backend and its devices.
type CameraConfig struct {
	Backend string `yaml:"backend"` // pattern | file | gst | gocv
	Facing  string `yaml:"facing"`  // user | environment
	// UserDevice and EnvironmentDevice name the physical camera for each
	// facing mode: a device path for gst, an index for gocv.
	UserDevice        string `yaml:"user_device"`
	EnvironmentDevice string `yaml:"environment_device"`
	File              string `yaml:"file"`
	FPS               int    `yaml:"fps"`
}

// SnapshotConfig controls where and how snapshots are written.
type SnapshotConfig struct {
	Format  string `yaml:"format"` // png | jpeg
	Quality int    `yaml:"quality"`
	Dir     string `yaml:"dir"`
}

// ControlConfig configures the local websocket control surface.
type ControlConfig struct {
	// Listen is the address to serve on; empty disables the surface.
	Listen string `yaml:"listen"`
}

// DefaultControlAddr is the loopback address the control surface uses.
const DefaultControlAddr = "127.0.0.1:7878"

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{Control: ControlConfig{Listen: DefaultControlAddr}}
	cfg.applyDefaults()
	return cfg
}

// LoadFile reads a YAML configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Keys missing from the file keep the control surface on its default
	// address; an explicit empty listen disables it.
	cfg := Config{Control: ControlConfig{Listen: DefaultControlAddr}}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Width <= 0 {
		c.Width = 120
	}
	if c.Height <= 0 {
		c.Height = 90
	}
	if c.Fit == "" {
		c.Fit = "stretch"
	}
	if c.Scaler == "" {
		c.Scaler = "approx-bilinear"
	}
	if c.Ramp == "" {
		c.Ramp = "default"
	}
	if c.Renderer == "" {
		c.Renderer = "canvas"
	}
	if c.CellSize <= 0 {
		c.CellSize = 6
	}
	if c.CanvasMode == "" {
		c.CanvasMode = "blocks"
	}
	if c.Host == "" {
		c.Host = "window"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Camera.Backend == "" {
		c.Camera.Backend = "pattern"
	}
	if c.Camera.Facing == "" {
		c.Camera.Facing = "user"
	}
	if c.Camera.UserDevice == "" {
		c.Camera.UserDevice = "/dev/video0"
	}
	if c.Camera.EnvironmentDevice == "" {
		c.Camera.EnvironmentDevice = "/dev/video1"
	}
	if c.Camera.FPS <= 0 {
		c.Camera.FPS = 30
	}
	if c.Snapshot.Format == "" {
		c.Snapshot.Format = "png"
	}
	if c.Snapshot.Quality <= 0 {
		c.Snapshot.Quality = 90
	}
	if c.Snapshot.Dir == "" {
		c.Snapshot.Dir = "."
	}
}

// Validate checks values that defaults cannot repair.
// Returns a list of validation errors, or nil if valid.
func (c *Config) Validate() []string {
	var errors []string

	if c.Width < 0 || c.Height < 0 {
		errors = append(errors, "width and height must not be negative")
	}
	if c.Width > 1000 || c.Height > 1000 {
		errors = append(errors, "width and height must be at most 1000")
	}
	if !oneOf(c.Fit, "stretch", "contain") {
		errors = append(errors, "fit must be stretch or contain")
	}
	if !oneOf(c.Scaler, "nearest", "approx-bilinear", "bilinear", "catmull-rom") {
		errors = append(errors, "scaler must be nearest, approx-bilinear, bilinear, or catmull-rom")
	}
	if !oneOf(c.Renderer, "canvas", "html", "text") {
		errors = append(errors, "renderer must be canvas, html, or text")
	}
	if !oneOf(c.CanvasMode, "blocks", "glyphs") {
		errors = append(errors, "canvas_mode must be blocks or glyphs")
	}
	if c.CanvasMode == "glyphs" && c.FontPath == "" {
		errors = append(errors, "canvas_mode glyphs needs font_path")
	}
	if !oneOf(c.Host, "window", "terminal") {
		errors = append(errors, "host must be window or terminal")
	}
	if !oneOf(c.Camera.Backend, "pattern", "file", "gst", "gocv") {
		errors = append(errors, "camera backend must be pattern, file, gst, or gocv")
	}
	if c.Camera.Backend == "file" && c.Camera.File == "" {
		errors = append(errors, "camera backend file needs camera.file")
	}
	if !oneOf(c.Camera.Facing, "user", "environment") {
		errors = append(errors, "camera facing must be user or environment")
	}
	if c.Camera.FPS > 120 {
		errors = append(errors, "camera fps must be at most 120")
	}
	if !oneOf(c.Snapshot.Format, "png", "jpeg", "jpg") {
		errors = append(errors, "snapshot format must be png or jpeg")
	}
	if c.Snapshot.Quality > 100 {
		errors = append(errors, "snapshot quality must be between 1 and 100")
	}

	return errors
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// bindFlags registers flags writing into cfg, using cfg's current values as
// defaults.
func bindFlags(fs *flag.FlagSet, cfg *Config) {
	fs.IntVar(&cfg.Width, "width", cfg.Width, "Sampling grid width in cells")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "Sampling grid height in cells")
	fs.StringVar(&cfg.Fit, "fit", cfg.Fit, "Frame placement: stretch or contain")
	fs.StringVar(&cfg.Scaler, "scaler", cfg.Scaler, "Downsampling filter")
	fs.StringVar(&cfg.Ramp, "ramp", cfg.Ramp, "Glyph ramp preset (default, simple, blocks)")
	fs.StringVar(&cfg.Charset, "charset", cfg.Charset, "Custom glyph ramp, densest first (overrides -ramp)")
	fs.IntVar(&cfg.Sensitivity, "sensitivity", cfg.Sensitivity, "Initial blank-tail adjustment")
	fs.StringVar(&cfg.Renderer, "renderer", cfg.Renderer, "Initial renderer: canvas, html or text")
	fs.IntVar(&cfg.CellSize, "cell", cfg.CellSize, "Canvas cell size in pixels")
	fs.StringVar(&cfg.CanvasMode, "canvas-mode", cfg.CanvasMode, "Canvas cells: blocks or glyphs")
	fs.StringVar(&cfg.FontPath, "font", cfg.FontPath, "TrueType font for glyphs mode")
	fs.Float64Var(&cfg.FontSize, "font-size", cfg.FontSize, "Font size in points (0 = cell size)")
	fs.StringVar(&cfg.Host, "host", cfg.Host, "Output host: window or terminal")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.Camera.Backend, "camera", cfg.Camera.Backend, "Camera backend: pattern, file, gst or gocv")
	fs.StringVar(&cfg.Camera.Facing, "facing", cfg.Camera.Facing, "Initial camera: user or environment")
	fs.StringVar(&cfg.Camera.UserDevice, "device-user", cfg.Camera.UserDevice, "Device of the user-facing camera")
	fs.StringVar(&cfg.Camera.EnvironmentDevice, "device-environment", cfg.Camera.EnvironmentDevice, "Device of the environment-facing camera")
	fs.StringVar(&cfg.Camera.File, "file", cfg.Camera.File, "Image served by the file camera")
	fs.IntVar(&cfg.Camera.FPS, "fps", cfg.Camera.FPS, "Requested camera frame rate")
	fs.StringVar(&cfg.Snapshot.Format, "snapshot-format", cfg.Snapshot.Format, "Canvas snapshot format: png or jpeg")
	fs.IntVar(&cfg.Snapshot.Quality, "snapshot-quality", cfg.Snapshot.Quality, "JPEG snapshot quality (1-100)")
	fs.StringVar(&cfg.Snapshot.Dir, "snapshot-dir", cfg.Snapshot.Dir, "Directory snapshots are written to")
	fs.StringVar(&cfg.Control.Listen, "listen", cfg.Control.Listen, "Control surface address (empty disables)")
}

// Parse builds a config from args. A -config file is loaded first and any
// flag set explicitly on the command line overrides it.
func Parse(args []string) (*Config, error) {
	fs := flag.NewFlagSet("asciicam", flag.ContinueOnError)
	cfg := Default()
	path := fs.String("config", "", "YAML config file")
	bindFlags(fs, cfg)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *path == "" {
		return cfg, nil
	}

	file, err := LoadFile(*path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	override := flag.NewFlagSet("override", flag.ContinueOnError)
	bindFlags(override, file)
	var setErr error
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "config" || setErr != nil {
			return
		}
		setErr = override.Set(f.Name, f.Value.String())
	})
	if setErr != nil {
		return nil, setErr
	}
	return file, nil
}

// ParseFlags parses the process command line.
func ParseFlags() (*Config, error) {
	return Parse(os.Args[1:])
}

// ControllerConfig holds configuration for the control client binary.
type ControllerConfig struct {
	URL     string
	Timeout time.Duration
	Args    []string
}

// ParseControllerFlags parses flags for the control client. Remaining
// arguments form the command.
func ParseControllerFlags() *ControllerConfig {
	cfg := &ControllerConfig{}
	flag.StringVar(&cfg.URL, "url", "ws://"+DefaultControlAddr+"/control", "Control surface WebSocket URL")
	flag.DurationVar(&cfg.Timeout, "timeout", 5*time.Second, "Time to wait for a reply")
	flag.Parse()

	cfg.Args = flag.Args()
	return cfg
}
