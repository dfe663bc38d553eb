// Package config handles viewer configuration loading and management.
package config

import "time"

// Config holds all viewer settings.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Scene    SceneConfig    `yaml:"scene"`
	Camera   CameraConfig   `yaml:"camera"`
	Controls ControlsConfig `yaml:"controls"`
	Render   RenderConfig   `yaml:"render"`
	Loader   LoaderConfig   `yaml:"loader"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// SceneConfig holds the meshes to show.
type SceneConfig struct {
	Model       string  `yaml:"model"`        // Primary mesh, loaded at start-up
	SecondModel string  `yaml:"second_model"` // Loaded on spawn; empty opens a file dialog
	Clearance   float32 `yaml:"clearance"`    // Gap between the two meshes along X
	Watch       bool    `yaml:"watch"`        // Reload meshes when their files change
	Simplify    float64 `yaml:"simplify"`     // Keep this fraction of triangles; 0 keeps all
}

// CameraConfig holds the fixed projection and view.
type CameraConfig struct {
	FovDegrees float32    `yaml:"fov_degrees"`
	Near       float32    `yaml:"near"`
	Far        float32    `yaml:"far"`
	Eye        [3]float32 `yaml:"eye"`
	Target     [3]float32 `yaml:"target"`
	Up         [3]float32 `yaml:"up"`
}

// ControlsConfig holds step sizes and key bindings.
type ControlsConfig struct {
	RotateDegrees float32           `yaml:"rotate_degrees"`
	ScaleStep     float32           `yaml:"scale_step"`
	TranslateStep float32           `yaml:"translate_step"`
	Keys          map[string]string `yaml:"keys"` // action name -> SDL key name
}

// RenderConfig holds drawing settings.
type RenderConfig struct {
	Wireframe     bool       `yaml:"wireframe"`
	ClearColor    [4]float32 `yaml:"clear_color"`
	ScreenshotDir string     `yaml:"screenshot_dir"`
}

// LoaderConfig holds background loading settings.
type LoaderConfig struct {
	Workers     int           `yaml:"workers"`
	WatchSettle time.Duration `yaml:"watch_settle"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "objview",
			Width:      640,
			Height:     480,
			Fullscreen: false,
			VSync:      true,
		},
		Scene: SceneConfig{
			Model:       "objects/teapot.obj",
			SecondModel: "",
			Clearance:   0.3,
			Watch:       false,
			Simplify:    0,
		},
		Camera: CameraConfig{
			FovDegrees: 45,
			Near:       0.1,
			Far:        100,
			Eye:        [3]float32{0, 0, -5},
			Target:     [3]float32{0, 0, 0},
			Up:         [3]float32{0, 1, 0},
		},
		Controls: ControlsConfig{
			RotateDegrees: 5,
			ScaleStep:     0.1,
			TranslateStep: 0.1,
			Keys: map[string]string{
				"quit":          "Escape",
				"view":          "V",
				"scale_uniform": "A",
				"scale":         "S",
				"rotate":        "R",
				"translate":     "T",
				"party":         "P",
				"spawn_second":  "N",
				"bounds":        "B",
				"screenshot":    "F12",
			},
		},
		Render: RenderConfig{
			Wireframe:     true,
			ClearColor:    [4]float32{0.1, 0.1, 0.1, 0},
			ScreenshotDir: "screenshots",
		},
		Loader: LoaderConfig{
			Workers:     2,
			WatchSettle: 150 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
