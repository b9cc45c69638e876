//go:build fyne && cgo

/*
 * Copyright (c) 2026 by the gosketch authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"gosketch/internal/config"
	"gosketch/internal/crash"
	"gosketch/internal/export"
	"gosketch/internal/history"
	applog "gosketch/internal/log"
	"gosketch/internal/preset"
	"gosketch/internal/surface"
	"gosketch/internal/telemetry"
)

// Run starts the Fyne-based desktop drawing window.
func Run() error {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("ui")
	l.Info("starting UI")
	defer crash.Recover()

	cfg, err := config.Load()
	if err != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", err))
		cfg = config.Defaults()
	}

	fyneApp := app.NewWithID("gosketch")
	w := fyneApp.NewWindow("gosketch")
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1000)
	winH := prefs.IntWithFallback("window.height", 700)
	if winW < 480 {
		winW = 480
	}
	if winH < 360 {
		winH = 360
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	sketch, err := NewSketchWidget(surfaceOptions(cfg, l))
	if err != nil {
		return fmt.Errorf("create canvas: %w", err)
	}
	defer func() {
		if cerr := sketch.Surface().Close(); cerr != nil {
			l.Warn("surface close failed", slog.Any("err", cerr))
		}
	}()

	var store *history.Store
	if dir, derr := config.DataDir(); derr == nil {
		if store, err = history.Open(dir); err != nil {
			l.Warn("export history unavailable", slog.Any("err", err))
			store = nil
		} else {
			defer store.Close()
		}
	}
	recordExport := func(kind, path string, size int64) {
		if store == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		err := store.Record(ctx, history.Entry{
			Kind:      kind,
			Path:      path,
			Bytes:     size,
			CreatedAt: time.Now(),
		})
		if err != nil {
			l.Warn("record export failed", slog.Any("err", err))
		}
	}

	status := widget.NewLabel("Ready")
	setStatus := func(format string, args ...any) {
		status.SetText(fmt.Sprintf(format, args...))
	}

	exportDir := cfg.General.ExportDir
	if exportDir == "" {
		if home, herr := os.UserHomeDir(); herr == nil {
			exportDir = home
		} else {
			exportDir = "."
		}
	}

	savePNG := func() {
		path, err := export.SavePNG(sketch.Surface(), exportDir)
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		info, _ := os.Stat(path)
		var size int64
		if info != nil {
			size = info.Size()
		}
		recordExport(history.KindPNG, path, size)
		telemetry.Event("export_png", nil)
		setStatus("Saved %s", filepath.Base(path))
	}

	copyPNG := func() {
		if err := export.CopyPNG(sketch.Surface()); err != nil {
			dialog.ShowError(err, w)
			return
		}
		recordExport(history.KindClipboard, "", 0)
		telemetry.Event("copy_clipboard", nil)
		setStatus("Copied drawing to clipboard")
	}

	savePDF := func() {
		name := export.Filename(time.Now())
		path := filepath.Join(exportDir, name[:len(name)-len(".png")]+".pdf")
		if err := export.WritePDF(sketch.Surface(), path); err != nil {
			dialog.ShowError(err, w)
			return
		}
		info, _ := os.Stat(path)
		var size int64
		if info != nil {
			size = info.Size()
		}
		recordExport(history.KindPDF, path, size)
		telemetry.Event("export_pdf", nil)
		setStatus("Saved %s", filepath.Base(path))
	}

	capturePhoto := func() {
		showCaptureDialog(w, cfg.Camera, sketch, func(err error) {
			if err == nil {
				telemetry.Event("capture_photo", nil)
				setStatus("Captured photo onto canvas")
			}
		})
	}

	clearCanvas := func() {
		dialog.NewConfirm("Clear", "Discard the current drawing?", func(ok bool) {
			if !ok {
				return
			}
			sketch.Surface().Clear()
			sketch.RefreshCanvas()
			setStatus("Canvas cleared")
		}, w).Show()
	}

	toolbar := newToolbar(sketch, toolbarActions{
		SavePNG: savePNG,
		Copy:    copyPNG,
		SavePDF: savePDF,
		Capture: capturePhoto,
		Clear:   clearCanvas,
	})

	presetSelect := newPresetSelect(sketch, l, setStatus)

	top := container.NewVBox(toolbar, container.NewHBox(widget.NewLabel("Preset:"), presetSelect))
	content := container.NewBorder(top, status, nil, nil, sketch)
	w.SetContent(content)

	w.SetOnClosed(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		telemetry.Flush()
	})

	w.ShowAndRun()
	l.Info("UI closed")
	return nil
}

func surfaceOptions(cfg config.AppConfig, l *slog.Logger) surface.Options {
	opts := surface.Options{StrokeWidth: cfg.Canvas.StrokeWidth}
	if c, err := surface.ParseHexColor(cfg.Canvas.Background); err == nil {
		opts.Background = c
	} else {
		l.Warn("invalid background color in config", slog.String("value", cfg.Canvas.Background))
	}
	if c, err := surface.ParseHexColor(cfg.Canvas.StrokeColor); err == nil {
		opts.StrokeColor = c
	} else {
		l.Warn("invalid stroke color in config", slog.String("value", cfg.Canvas.StrokeColor))
	}
	return opts
}

// loadPresetPack returns the user pack from the data dir when present,
// otherwise the built-in defaults.
func loadPresetPack(l *slog.Logger) preset.Pack {
	if dir, err := config.DataDir(); err == nil {
		path := filepath.Join(dir, "presets.json")
		if _, serr := os.Stat(path); serr == nil {
			pack, lerr := preset.Load(path)
			if lerr == nil {
				return pack
			}
			l.Warn("user preset pack rejected", slog.String("path", path), slog.Any("err", lerr))
		}
	}
	return preset.Default()
}

func newPresetSelect(sketch *SketchWidget, l *slog.Logger, setStatus func(string, ...any)) *widget.Select {
	pack := loadPresetPack(l)
	names := make([]string, 0, len(pack.Presets))
	byName := make(map[string]preset.Preset, len(pack.Presets))
	for _, p := range pack.Presets {
		names = append(names, p.Name)
		byName[p.Name] = p
	}
	sel := widget.NewSelect(names, func(name string) {
		p, ok := byName[name]
		if !ok {
			return
		}
		if err := preset.Apply(sketch.Surface(), p); err != nil {
			l.Warn("preset apply failed", slog.String("preset", name), slog.Any("err", err))
			return
		}
		setStatus("Preset %q applied", name)
	})
	sel.PlaceHolder = "(none)"
	return sel
}
