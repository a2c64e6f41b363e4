package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-sdf/engine/sdf"
)

const (
	envExpression = "OXY_SDF_EXPRESSION"
	envLogLevel   = "OXY_SDF_LOG_LEVEL"
)

// config holds everything parsed from the command line.
type config struct {
	expression     string
	expressionFile string
	layout         string
	start          string

	translationSpeed float64
	rotationSpeed    float64

	width   int
	height  int
	minSize string
	maxSize string
	title   string

	vsync       bool
	fpsLimit    float64
	software    bool
	profile     bool
	logLevel    string
	validate    bool
	printShader bool
}

// parseFlags reads the command line into a config, falling back to the environment for the
// expression and the log level.
func parseFlags(fs *flag.FlagSet, args []string, getenv func(string) string) (*config, error) {
	c := &config{}
	fs.StringVar(&c.expression, "sdf", "", "WGSL source defining fn sdf(p: vec3<f32>) -> f32 (from "+envExpression+" env var if not set)")
	fs.StringVar(&c.expressionFile, "sdf-file", "", "Read the sdf expression from a file")
	fs.StringVar(&c.layout, "layout", "qwerty", "Keyboard layout (qwerty or azerty)")
	fs.StringVar(&c.start, "start", "1,0,1", "Initial camera position as x,y,z")
	fs.Float64Var(&c.translationSpeed, "translation-speed", 5, "Camera movement speed in units per second")
	fs.Float64Var(&c.rotationSpeed, "rotation-speed", 5, "Mouse-look speed in degrees per pixel per second")
	fs.IntVar(&c.width, "width", 1280, "Window width")
	fs.IntVar(&c.height, "height", 720, "Window height")
	fs.StringVar(&c.minSize, "min-size", "320x240", "Smallest window size as WIDTHxHEIGHT (empty = no limit)")
	fs.StringVar(&c.maxSize, "max-size", "", "Largest window size as WIDTHxHEIGHT (empty = no limit)")
	fs.StringVar(&c.title, "title", "oxy-sdf", "Window title")
	fs.BoolVar(&c.vsync, "vsync", true, "Present with vsync; false presents immediately")
	fs.Float64Var(&c.fpsLimit, "fps-limit", 0, "Frame rate cap (0 = uncapped)")
	fs.BoolVar(&c.software, "software", false, "Request the fallback (software) adapter")
	fs.BoolVar(&c.profile, "profile", false, "Log frame rate and memory statistics every second")
	fs.StringVar(&c.logLevel, "log-level", "", "Log level: debug, info, warn or error (from "+envLogLevel+" env var if not set, default info)")
	fs.BoolVar(&c.validate, "validate", true, "Validate the composed shaders with naga before creating the pipeline")
	fs.BoolVar(&c.printShader, "print-shader", false, "Print the composed fragment shader and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if c.expression == "" {
		c.expression = getenv(envExpression)
	}
	if c.logLevel == "" {
		c.logLevel = getenv(envLogLevel)
	}
	return c, nil
}

// resolveExpression picks the scene expression. A file wins over -sdf and the environment;
// with neither set the default sphere grid is used.
func resolveExpression(c *config, readFile func(string) ([]byte, error)) (string, error) {
	if c.expressionFile != "" {
		if c.expression != "" {
			return "", fmt.Errorf("-sdf and -sdf-file are mutually exclusive")
		}
		b, err := readFile(c.expressionFile)
		if err != nil {
			return "", fmt.Errorf("failed to read sdf file: %w", err)
		}
		c.expression = string(b)
	}
	if strings.TrimSpace(c.expression) == "" {
		return sdf.DefaultExpression, nil
	}
	return c.expression, nil
}

// parseVec3 parses "x,y,z" into three float32 components.
func parseVec3(s string) ([3]float32, error) {
	var v [3]float32
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return v, fmt.Errorf("invalid vector %q: want x,y,z", s)
	}
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return v, fmt.Errorf("invalid vector %q: %w", s, err)
		}
		v[i] = float32(f)
	}
	return v, nil
}

// parseSize parses "WIDTHxHEIGHT". An empty string yields 0x0, which leaves the window
// unconstrained.
func parseSize(s string) (width, height int, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, nil
	}
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid size %q: want WIDTHxHEIGHT", s)
	}
	if width, err = strconv.Atoi(strings.TrimSpace(w)); err != nil {
		return 0, 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if height, err = strconv.Atoi(strings.TrimSpace(h)); err != nil {
		return 0, 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if width < 0 || height < 0 {
		return 0, 0, fmt.Errorf("invalid size %q: dimensions must not be negative", s)
	}
	return width, height, nil
}

// parseLogLevel maps a level name onto slog. An empty name means info.
func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
