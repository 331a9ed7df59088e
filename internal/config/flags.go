package config

import "flag"

var (
	flagConfig = flag.String("config", "", "Path to config file")
	flagDebug  = flag.Bool("debug", false, "Enable debug logging")
	flagScene  = flag.String("scene", "", "Path to scene file")
	flagModel  = flag.String("model", "", "Path to model manifest")
	flagWindow = flag.Bool("window", false, "Open the debug viewer window")
	flagTicks  = flag.Int("ticks", 0, "Number of ticks for a headless run")
	flagWidth  = flag.Int("width", 0, "Window width")
	flagHeight = flag.Int("height", 0, "Window height")
	flagWatch  = flag.Bool("watch", false, "Reload tuning when the config file changes")
	flagScript = flag.String("script", "", "Headless input script, e.g. forward:120,left:30")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagScene != "" {
		cfg.Scene.Path = *flagScene
	}
	if *flagModel != "" {
		cfg.Scene.Model = *flagModel
	}
	if *flagWindow {
		cfg.Window.Enabled = true
	}
	if *flagTicks > 0 {
		cfg.Simulation.Ticks = *flagTicks
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	if *flagWatch {
		cfg.Scene.Watch = true
	}
	if *flagScript != "" {
		cfg.Simulation.Script = *flagScript
	}
}
