/*
 * Copyright (c) 2026 by the gosketch authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package export writes the canvas to PNG and PDF files and to the system
// clipboard.
package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	applog "gosketch/internal/log"
	"gosketch/internal/surface"
)

// Filename returns the canonical drawing filename for the given local time,
// e.g. "Drawing 2026-08-28 at 9.04.05 PM.png".
func Filename(t time.Time) string {
	return fmt.Sprintf("Drawing %s at %s.png", t.Format("2006-01-02"), t.Format("3.04.05 PM"))
}

// EncodePNG returns the canvas pixels as a lossless PNG byte slice.
func EncodePNG(s *surface.Surface) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WritePNG encodes the canvas and writes it to path.
func WritePNG(s *surface.Surface, path string) error {
	data, err := EncodePNG(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure export dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

// SavePNG writes the canvas into dir under the timestamped drawing filename
// and returns the full path.
func SavePNG(s *surface.Surface, dir string) (string, error) {
	l := applog.WithOperation(applog.WithComponent("export"), "save_png")
	path := filepath.Join(dir, Filename(time.Now()))
	if err := WritePNG(s, path); err != nil {
		l.Error("save failed", slog.Any("err", err))
		return "", err
	}
	l.Info("canvas saved", slog.String("path", path))
	return path, nil
}
