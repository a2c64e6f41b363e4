package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/Carmen-Shannon/oxy-sdf/common"
	"github.com/Carmen-Shannon/oxy-sdf/engine"
	"github.com/Carmen-Shannon/oxy-sdf/engine/camera"
	"github.com/Carmen-Shannon/oxy-sdf/engine/input"
	"github.com/Carmen-Shannon/oxy-sdf/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sdf/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-sdf/engine/scene"
	"github.com/Carmen-Shannon/oxy-sdf/engine/sdf"
	"github.com/Carmen-Shannon/oxy-sdf/engine/window"
)

// GLFW and the wgpu surface must stay on the main thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	cfg, err := parseFlags(flag.CommandLine, os.Args[1:], os.Getenv)
	if err != nil {
		os.Exit(2)
	}

	level, err := parseLogLevel(cfg.logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	common.SetLogger(newLogger(level))

	if err := run(cfg); err != nil {
		common.Logger().Error("oxy-sdf failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config) error {
	expression, err := resolveExpression(cfg, os.ReadFile)
	if err != nil {
		return err
	}

	if cfg.printShader {
		return printShader(expression)
	}

	start, err := parseVec3(cfg.start)
	if err != nil {
		return fmt.Errorf("-start: %w", err)
	}
	layout, err := input.ParseLayout(cfg.layout)
	if err != nil {
		return fmt.Errorf("-layout: %w", err)
	}
	minWidth, minHeight, err := parseSize(cfg.minSize)
	if err != nil {
		return fmt.Errorf("-min-size: %w", err)
	}
	maxWidth, maxHeight, err := parseSize(cfg.maxSize)
	if err != nil {
		return fmt.Errorf("-max-size: %w", err)
	}
	presentMode := renderer.PresentModeVSync
	if !cfg.vsync {
		presentMode = renderer.PresentModeUncapped
	}

	win, err := window.NewWindow(
		window.WithTitle(cfg.title),
		window.WithWidth(cfg.width),
		window.WithHeight(cfg.height),
		window.WithMinSize(minWidth, minHeight),
		window.WithMaxSize(maxWidth, maxHeight),
	)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer win.Close()

	r, err := renderer.NewRenderer(renderer.BackendTypeWGPU, win,
		renderer.WithPresentMode(presentMode),
		renderer.WithForceSoftwareRenderer(cfg.software),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	defer r.Release()

	cam := camera.NewCamera(
		camera.WithPosition(start[0], start[1], start[2]),
		camera.WithTranslationSpeed(float32(cfg.translationSpeed)),
		camera.WithRotationSpeed(float32(cfg.rotationSpeed)),
	)

	s, err := scene.NewScene(r, cam,
		scene.WithExpression(expression),
		scene.WithValidation(cfg.validate),
		scene.WithAspect(win.Aspect()),
	)
	if err != nil {
		return fmt.Errorf("failed to create scene: %w", err)
	}
	defer s.Release()

	// Setup is done: from here on any device error terminates the process.
	r.DeviceErrors().Arm(nil)

	e := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithScene(s),
		engine.WithInput(input.NewState(input.WithLayout(layout))),
		engine.WithProfiling(cfg.profile),
		engine.WithRenderFrameLimit(cfg.fpsLimit),
	)

	common.Logger().Info("starting render loop",
		"width", win.Width(),
		"height", win.Height(),
		"present_mode", presentMode,
		"layout", layout,
	)
	return e.Run()
}

// printShader writes the pre-processed fragment shader to stdout. No window or device is
// created.
func printShader(expression string) error {
	source, err := sdf.Compose(expression)
	if err != nil {
		return err
	}
	fs, err := shader.NewShader(scene.FragmentShaderKey, shader.ShaderTypeFragment, source)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(os.Stdout, fs.Source())
	return err
}
