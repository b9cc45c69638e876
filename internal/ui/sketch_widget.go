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
	"image"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"

	"gosketch/internal/input"
	applog "gosketch/internal/log"
	"gosketch/internal/surface"
)

// initialCanvasW/H size the backing buffer before the first layout pass.
const (
	initialCanvasW = 800
	initialCanvasH = 600
)

// SketchWidget renders a raster drawing surface and feeds pointer events
// into a stroke session. Mouse and touch input resolve to the same path.
type SketchWidget struct {
	widget.BaseWidget

	surf *surface.Surface
	sess *input.Session
	img  *canvas.Image

	OnStroke func() // fired after every committed dot or segment

	log *slog.Logger
}

var _ fyne.Widget = (*SketchWidget)(nil)
var _ fyne.Draggable = (*SketchWidget)(nil)
var _ desktop.Mouseable = (*SketchWidget)(nil)
var _ desktop.Hoverable = (*SketchWidget)(nil)
var _ mobile.Touchable = (*SketchWidget)(nil)

// NewSketchWidget allocates the widget with its initial backing surface.
// The surface is resized to the laid-out widget size on first layout.
func NewSketchWidget(opts surface.Options) (*SketchWidget, error) {
	surf, err := surface.New(initialCanvasW, initialCanvasH, opts)
	if err != nil {
		return nil, err
	}
	s := &SketchWidget{
		surf: surf,
		log:  applog.WithComponent("ui.sketch"),
	}
	s.sess = input.NewSession(surf)
	s.img = canvas.NewImageFromImage(surf.Image())
	s.img.FillMode = canvas.ImageFillStretch
	s.img.ScaleMode = canvas.ImageScalePixels
	s.ExtendBaseWidget(s)
	return s, nil
}

// Surface exposes the backing buffer for export and configuration.
func (s *SketchWidget) Surface() *surface.Surface { return s.surf }

func (s *SketchWidget) refreshImage() {
	s.img.Image = s.surf.Image()
	s.img.Refresh()
}

// RefreshCanvas repaints the widget after out-of-band surface changes
// (clear, preset apply, captured frame).
func (s *SketchWidget) RefreshCanvas() { s.refreshImage() }

func (s *SketchWidget) localPoint(abs fyne.Position) input.Pointer {
	origin := driver.AbsolutePositionForObject(s)
	return input.ToLocal(
		input.Pointer{X: float64(abs.X), Y: float64(abs.Y)},
		input.Pointer{X: float64(origin.X), Y: float64(origin.Y)},
	)
}

func (s *SketchWidget) pointerDown(abs fyne.Position) {
	if err := s.sess.Down(s.localPoint(abs)); err != nil {
		s.log.Error("stroke start failed", slog.Any("err", err))
		return
	}
	s.strokeCommitted()
}

func (s *SketchWidget) pointerMove(abs fyne.Position) {
	if !s.sess.Drawing() {
		return
	}
	if err := s.sess.Move(s.localPoint(abs)); err != nil {
		s.log.Error("stroke segment failed", slog.Any("err", err))
		return
	}
	s.strokeCommitted()
}

func (s *SketchWidget) strokeCommitted() {
	s.refreshImage()
	if s.OnStroke != nil {
		s.OnStroke()
	}
}

func (s *SketchWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	s.pointerDown(e.AbsolutePosition)
}

func (s *SketchWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	s.sess.Up()
}

func (s *SketchWidget) Dragged(e *fyne.DragEvent) {
	s.pointerMove(e.AbsolutePosition)
}

func (s *SketchWidget) DragEnd() { s.sess.Up() }

func (s *SketchWidget) MouseIn(*desktop.MouseEvent)    {}
func (s *SketchWidget) MouseMoved(*desktop.MouseEvent) {}

// MouseOut ends the active stroke so re-entering starts a fresh one instead
// of connecting across the gap.
func (s *SketchWidget) MouseOut() { s.sess.Leave() }

func (s *SketchWidget) TouchDown(e *mobile.TouchEvent) {
	s.pointerDown(e.AbsolutePosition)
}

func (s *SketchWidget) TouchUp(*mobile.TouchEvent)     { s.sess.Up() }
func (s *SketchWidget) TouchCancel(*mobile.TouchEvent) { s.sess.Leave() }

// ApplyCapturedImage scales a camera frame onto the surface and repaints.
func (s *SketchWidget) ApplyCapturedImage(img image.Image) error {
	if err := s.surf.ApplyImage(img); err != nil {
		return err
	}
	s.refreshImage()
	return nil
}

func (s *SketchWidget) CreateRenderer() fyne.WidgetRenderer {
	return &sketchRenderer{widget: s}
}

type sketchRenderer struct {
	widget *SketchWidget
}

func (r *sketchRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.widget.img}
}

// Layout resizes the backing buffer to track the widget. Existing content is
// preserved, re-centered on grow and clipped on shrink.
func (r *sketchRenderer) Layout(size fyne.Size) {
	w, h := int(size.Width), int(size.Height)
	if w > 0 && h > 0 {
		if err := r.widget.surf.Resize(w, h); err != nil {
			r.widget.log.Error("surface resize failed",
				slog.Int("width", w), slog.Int("height", h), slog.Any("err", err))
		} else {
			r.widget.img.Image = r.widget.surf.Image()
		}
	}
	r.widget.img.Resize(size)
}

func (r *sketchRenderer) MinSize() fyne.Size { return fyne.NewSize(320, 240) }
func (r *sketchRenderer) Refresh()           { canvas.Refresh(r.widget) }
func (r *sketchRenderer) Destroy()           {}
