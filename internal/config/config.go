/*
 * Copyright (c) 2026 by the gosketch authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package config loads and saves the user-editable YAML configuration.
// Environment variables act as read-only overrides at runtime.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// CanvasConfig holds the drawing surface defaults applied on startup.
type CanvasConfig struct {
	Background  string  `yaml:"background"`   // hex color, e.g. "#ffffff"
	StrokeColor string  `yaml:"stroke_color"` // hex color, e.g. "#000000"
	StrokeWidth float64 `yaml:"stroke_width"`
}

// CameraConfig maps capture facing modes to device paths.
type CameraConfig struct {
	UserDevice        string `yaml:"user_device"`        // front camera
	EnvironmentDevice string `yaml:"environment_device"` // rear camera
	FrameWidth        int    `yaml:"frame_width"`
	FrameHeight       int    `yaml:"frame_height"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type GeneralConfig struct {
	TelemetryOptIn bool   `yaml:"telemetry_opt_in"`
	ExportDir      string `yaml:"export_dir"` // empty means ask via file dialog
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	General       GeneralConfig `yaml:"general"`
	Canvas        CanvasConfig  `yaml:"canvas"`
	Camera        CameraConfig  `yaml:"camera"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{TelemetryOptIn: false, ExportDir: ""},
		Canvas:        CanvasConfig{Background: "#ffffff", StrokeColor: "#000000", StrokeWidth: 4},
		Camera:        CameraConfig{UserDevice: "/dev/video0", EnvironmentDevice: "/dev/video1", FrameWidth: 1280, FrameHeight: 720},
		Logging:       LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvBackground     = "GSK_CANVAS_BACKGROUND"
	EnvStrokeColor    = "GSK_CANVAS_STROKE_COLOR"
	EnvStrokeWidth    = "GSK_CANVAS_STROKE_WIDTH"
	EnvCameraUser     = "GSK_CAMERA_USER_DEVICE"
	EnvCameraEnv      = "GSK_CAMERA_ENVIRONMENT_DEVICE"
	EnvExportDir      = "GSK_EXPORT_DIR"
	EnvTelemetryOptIn = "GSK_TELEMETRY_OPT_IN"
	// Logging envs, also read by internal/log.
	EnvLogLevel  = "GSK_LOG_LEVEL"
	EnvLogFormat = "GSK_LOG_FORMAT"
	EnvLogSource = "GSK_LOG_SOURCE"
	EnvLogFile   = "GSK_LOG_FILE"
)

// Path returns the per-user config file path.
func Path() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "gosketch")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "gosketch")
	default:
		base = filepath.Join(os.Getenv("HOME"), ".config", "gosketch")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// DataDir returns the directory holding app-local data (presets, history index).
// It lives next to the config file.
func DataDir() (string, error) {
	p, err := Path()
	if err != nil {
		return "", err
	}
	return filepath.Dir(p), nil
}

// Load reads the user config file (if present), applies defaults, and merges
// environment overrides on top.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := Path()
	if err != nil {
		return cfg, err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	// booleans copy directly so user preferences persist
	dst.General.TelemetryOptIn = src.General.TelemetryOptIn
	if strings.TrimSpace(src.General.ExportDir) != "" {
		dst.General.ExportDir = src.General.ExportDir
	}
	if strings.TrimSpace(src.Canvas.Background) != "" {
		dst.Canvas.Background = src.Canvas.Background
	}
	if strings.TrimSpace(src.Canvas.StrokeColor) != "" {
		dst.Canvas.StrokeColor = src.Canvas.StrokeColor
	}
	if src.Canvas.StrokeWidth > 0 {
		dst.Canvas.StrokeWidth = src.Canvas.StrokeWidth
	}
	if strings.TrimSpace(src.Camera.UserDevice) != "" {
		dst.Camera.UserDevice = src.Camera.UserDevice
	}
	if strings.TrimSpace(src.Camera.EnvironmentDevice) != "" {
		dst.Camera.EnvironmentDevice = src.Camera.EnvironmentDevice
	}
	if src.Camera.FrameWidth > 0 {
		dst.Camera.FrameWidth = src.Camera.FrameWidth
	}
	if src.Camera.FrameHeight > 0 {
		dst.Camera.FrameHeight = src.Camera.FrameHeight
	}
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvBackground)); v != "" {
		cfg.Canvas.Background = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvStrokeColor)); v != "" {
		cfg.Canvas.StrokeColor = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvStrokeWidth)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.Canvas.StrokeWidth = f
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvCameraUser)); v != "" {
		cfg.Camera.UserDevice = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvCameraEnv)); v != "" {
		cfg.Camera.EnvironmentDevice = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvExportDir)); v != "" {
		cfg.General.ExportDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryOptIn)); v != "" {
		cfg.General.TelemetryOptIn = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func parseBool(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}
