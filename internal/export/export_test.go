/*
 * Copyright (c) 2026 by the gosketch authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gosketch/internal/surface"
)

func newTestSurface(t *testing.T) *surface.Surface {
	t.Helper()
	s, err := surface.New(64, 48, surface.Options{
		Background:  color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		StrokeColor: color.NRGBA{A: 255},
		StrokeWidth: 3,
	})
	if err != nil {
		t.Fatalf("surface.New: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestFilenamePattern(t *testing.T) {
	at := time.Date(2026, 8, 28, 21, 4, 5, 0, time.Local)
	got := Filename(at)
	if got != "Drawing 2026-08-28 at 9.04.05 PM.png" {
		t.Fatalf("Filename = %q", got)
	}
}

func TestFilenameMorningHasNoLeadingZeroHour(t *testing.T) {
	at := time.Date(2026, 1, 2, 7, 30, 0, 0, time.Local)
	got := Filename(at)
	if !strings.Contains(got, "at 7.30.00 AM") {
		t.Fatalf("Filename = %q, want 7.30.00 AM", got)
	}
}

func TestWritePNGProducesDecodableFile(t *testing.T) {
	s := newTestSurface(t)
	if err := s.DrawDot(32, 24); err != nil {
		t.Fatalf("DrawDot: %v", err)
	}
	path := filepath.Join(t.TempDir(), "out.png")
	if err := WritePNG(s, path); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Fatalf("decoded size = %dx%d, want 64x48", b.Dx(), b.Dy())
	}
}

func TestSavePNGUsesTimestampedName(t *testing.T) {
	s := newTestSurface(t)
	dir := t.TempDir()
	path, err := SavePNG(s, dir)
	if err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	base := filepath.Base(path)
	if !strings.HasPrefix(base, "Drawing ") || !strings.HasSuffix(base, ".png") {
		t.Fatalf("unexpected name %q", base)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat: %v", err)
	}
}

func TestWritePDFEmbedsCanvas(t *testing.T) {
	s := newTestSurface(t)
	path := filepath.Join(t.TempDir(), "out.pdf")
	if err := WritePDF(s, path); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("file does not start with %%PDF header")
	}
	if len(data) < 500 {
		t.Fatalf("pdf suspiciously small: %d bytes", len(data))
	}
}
