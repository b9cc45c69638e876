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

// These tests validate the Fyne-based UI components. They are gated behind the
// "fyne" build tag so CI (which is headless) does not need Fyne or a display.
// To run locally:
//
//	go test -tags fyne ./internal/ui
package ui

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"strings"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/test"

	"gosketch/internal/capture"
	"gosketch/internal/surface"
)

func TestSketchWidget_Defaults(t *testing.T) {
	s, err := NewSketchWidget(surface.Options{})
	if err != nil {
		t.Fatalf("NewSketchWidget: %v", err)
	}
	defer s.Surface().Close()

	if got, want := s.Surface().Width(), initialCanvasW; got != want {
		t.Fatalf("initial width = %d, want %d", got, want)
	}
	if got, want := s.Surface().Height(), initialCanvasH; got != want {
		t.Fatalf("initial height = %d, want %d", got, want)
	}
}

func TestSketchWidget_LayoutResizesSurface(t *testing.T) {
	s, err := NewSketchWidget(surface.Options{})
	if err != nil {
		t.Fatalf("NewSketchWidget: %v", err)
	}
	defer s.Surface().Close()

	r, ok := s.CreateRenderer().(*sketchRenderer)
	if !ok {
		t.Fatalf("expected sketchRenderer, got %T", s.CreateRenderer())
	}

	r.Layout(fyne.NewSize(1000, 600))
	if s.Surface().Width() != 1000 || s.Surface().Height() != 600 {
		t.Fatalf("surface size after layout = %dx%d, want 1000x600",
			s.Surface().Width(), s.Surface().Height())
	}

	// A zero-sized layout pass must not disturb the buffer.
	r.Layout(fyne.NewSize(0, 0))
	if s.Surface().Width() != 1000 || s.Surface().Height() != 600 {
		t.Fatalf("surface resized on zero layout: %dx%d",
			s.Surface().Width(), s.Surface().Height())
	}
}

func newShownWidget(t *testing.T) *SketchWidget {
	t.Helper()
	s, err := NewSketchWidget(surface.Options{StrokeWidth: 8})
	if err != nil {
		t.Fatalf("NewSketchWidget: %v", err)
	}
	w := test.NewWindow(s)
	w.Resize(fyne.NewSize(240, 240))
	t.Cleanup(func() {
		w.Close()
		s.Surface().Close()
	})
	return s
}

func TestMouseAndTouchPaintTheSamePixels(t *testing.T) {
	test.NewApp()

	// Mouse and touch events at the same widget-relative point must land on
	// the same surface pixels, since both funnel through one translation.
	mouseW := newShownWidget(t)
	o := driver.AbsolutePositionForObject(mouseW)
	mouseW.MouseDown(&desktop.MouseEvent{
		PointEvent: fyne.PointEvent{AbsolutePosition: fyne.NewPos(o.X+60, o.Y+40)},
		Button:     desktop.MouseButtonPrimary,
	})
	mouseW.MouseUp(&desktop.MouseEvent{Button: desktop.MouseButtonPrimary})

	touchW := newShownWidget(t)
	o = driver.AbsolutePositionForObject(touchW)
	touchW.TouchDown(&mobile.TouchEvent{
		PointEvent: fyne.PointEvent{AbsolutePosition: fyne.NewPos(o.X+60, o.Y+40)},
	})
	touchW.TouchUp(&mobile.TouchEvent{})

	a, b := mouseW.Surface().Image(), touchW.Surface().Image()
	if got, want := a.RGBAAt(60, 40), (color.RGBA{A: 0xff}); got != want {
		t.Fatalf("mouse dot missing at (60,40): got %v, want %v", got, want)
	}
	if a.Rect != b.Rect {
		t.Fatalf("surface sizes differ: %v vs %v", a.Rect, b.Rect)
	}
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Fatal("mouse and touch painted different pixels")
	}
}

func TestCaptureUserError_DistinguishesCauses(t *testing.T) {
	unsupported := captureUserError(capture.ErrUnsupported).Error()
	denied := captureUserError(capture.ErrDenied).Error()
	timeout := captureUserError(context.DeadlineExceeded).Error()

	if !strings.Contains(unsupported, "no camera") {
		t.Fatalf("unsupported message: %q", unsupported)
	}
	if !strings.Contains(denied, "denied") {
		t.Fatalf("denied message: %q", denied)
	}
	if unsupported == denied {
		t.Fatal("unsupported and denied must read differently")
	}
	if !strings.Contains(timeout, "in time") {
		t.Fatalf("timeout message: %q", timeout)
	}

	plain := errors.New("spontaneous")
	if got := captureUserError(plain); got != plain {
		t.Fatalf("unknown errors must pass through, got %v", got)
	}
}
