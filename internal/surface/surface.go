/*
 * Copyright (c) 2026 by the gosketch authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package surface owns the raster buffer the user draws on and its rendering
// configuration (tool, colors, stroke width). The buffer always matches the
// container's last observed size; resizing preserves prior content by
// snapshotting and recentering, never scaling.
package surface

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"
)

// Tool selects how strokes are rendered. The eraser paints with the current
// background color; there is no alpha erasure on the flat raster.
type Tool int

const (
	ToolPencil Tool = iota
	ToolEraser
)

func (t Tool) String() string {
	switch t {
	case ToolEraser:
		return "eraser"
	default:
		return "pencil"
	}
}

// ParseTool converts a tool name to a Tool. Unknown names map to the pencil.
func ParseTool(s string) Tool {
	if s == "eraser" {
		return ToolEraser
	}
	return ToolPencil
}

// Options configures a new Surface. Zero-value fields fall back to a white
// background, black stroke and a 4px width.
type Options struct {
	Background  color.Color
	StrokeColor color.Color
	StrokeWidth float64
}

// Surface is a fixed-size raster drawing buffer. It is owned by the UI event
// loop and is not safe for concurrent use.
type Surface struct {
	dc     *gg.Context
	width  int
	height int

	background  color.Color
	strokeColor color.Color
	strokeWidth float64
	tool        Tool
}

// New allocates a buffer of the given size, fills it with the background
// color and applies round line cap/join. The size must come from a laid-out
// container; sizes before first layout are rejected here instead of being
// papered over with nil checks in every method.
func New(w, h int, opts Options) (*Surface, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("new surface: invalid size %dx%d", w, h)
	}
	s := &Surface{
		dc:          gg.NewContext(w, h),
		width:       w,
		height:      h,
		background:  opts.Background,
		strokeColor: opts.StrokeColor,
		strokeWidth: opts.StrokeWidth,
	}
	if s.background == nil {
		s.background = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}
	if s.strokeColor == nil {
		s.strokeColor = color.NRGBA{A: 255}
	}
	if s.strokeWidth <= 0 {
		s.strokeWidth = 4
	}
	s.dc.ClearWithColor(gg.FromColor(s.background))
	s.applyPaint()
	return s, nil
}

// Close releases the underlying drawing context.
func (s *Surface) Close() error { return s.dc.Close() }

func (s *Surface) Width() int  { return s.width }
func (s *Surface) Height() int { return s.height }

// Tool returns the currently selected tool.
func (s *Surface) Tool() Tool { return s.tool }

// StrokeWidth returns the current stroke width in pixels.
func (s *Surface) StrokeWidth() float64 { return s.strokeWidth }

// Background returns the current background color.
func (s *Surface) Background() color.Color { return s.background }

// EffectiveStrokeColor is the color strokes actually render with, derived
// from the tool and the chosen stroke/background colors.
func (s *Surface) EffectiveStrokeColor() color.Color {
	if s.tool == ToolEraser {
		return s.background
	}
	return s.strokeColor
}

// applyPaint re-applies line cap/join, width and the effective stroke color
// to the drawing context. Cap/join and color are context state that is lost
// when the buffer is reallocated, so every state change funnels through here.
func (s *Surface) applyPaint() {
	s.dc.SetLineWidth(s.strokeWidth)
	s.dc.SetLineCap(gg.LineCapRound)
	s.dc.SetLineJoin(gg.LineJoinRound)
	s.dc.SetColor(s.EffectiveStrokeColor())
}

// SetTool selects the pencil or eraser.
func (s *Surface) SetTool(t Tool) {
	s.tool = t
	s.applyPaint()
}

// SetStrokeColor sets the user-chosen stroke color.
func (s *Surface) SetStrokeColor(c color.Color) {
	if c == nil {
		return
	}
	s.strokeColor = c
	s.applyPaint()
}

// SetBackgroundColor sets the background color. Already-painted pixels keep
// their color; the eraser starts painting with the new background.
func (s *Surface) SetBackgroundColor(c color.Color) {
	if c == nil {
		return
	}
	s.background = c
	s.applyPaint()
}

// SetStrokeWidth sets the stroke width in pixels. Non-positive widths are
// ignored.
func (s *Surface) SetStrokeWidth(w float64) {
	if w <= 0 {
		return
	}
	s.strokeWidth = w
	s.applyPaint()
}

// DrawDot renders a filled dot of diameter equal to the stroke width, so a
// tap or click with no movement still produces visible output.
func (s *Surface) DrawDot(x, y float64) error {
	s.dc.DrawPoint(x, y, s.strokeWidth/2)
	if err := s.dc.Fill(); err != nil {
		return fmt.Errorf("draw dot: %w", err)
	}
	return nil
}

// DrawSegment renders one straight stroke segment. Consecutive short
// segments approximate a freehand line; no smoothing is applied.
func (s *Surface) DrawSegment(x1, y1, x2, y2 float64) error {
	s.dc.DrawLine(x1, y1, x2, y2)
	if err := s.dc.Stroke(); err != nil {
		return fmt.Errorf("draw segment: %w", err)
	}
	return nil
}

// Clear fills the buffer with the current background color without
// reallocating it.
func (s *Surface) Clear() {
	s.dc.ClearWithColor(gg.FromColor(s.background))
}

// Resize reallocates the buffer to the new size while preserving visual
// content: the old pixels are restored offset by max(0, (new-old)/2) per
// axis. Content is centered when growing and clipped when shrinking, never
// scaled. Resizing to the current size is a no-op.
func (s *Surface) Resize(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("resize surface: invalid size %dx%d", w, h)
	}
	if w == s.width && h == s.height {
		return nil
	}
	snapshot := s.Image()
	if err := s.dc.Resize(w, h); err != nil {
		return fmt.Errorf("resize surface: %w", err)
	}
	offX := (w - s.width) / 2
	offY := (h - s.height) / 2
	if offX < 0 {
		offX = 0
	}
	if offY < 0 {
		offY = 0
	}
	s.width, s.height = w, h
	// Reallocation drops cap/join and stroke color with the old buffer.
	s.applyPaint()
	s.dc.ClearWithColor(gg.FromColor(s.background))
	blitPixels(s.dc.ResizeTarget(), snapshot, offX, offY)
	return nil
}

// blitPixels copies src into the target pixmap at (offX, offY), clipped to
// the target bounds. Rows are copied byte for byte; drawing the snapshot
// through the renderer would resample and blend, so restored pixels would
// no longer match the originals exactly.
func blitPixels(dst *gg.Pixmap, src *image.RGBA, offX, offY int) {
	w := src.Rect.Dx()
	if offX+w > dst.Width() {
		w = dst.Width() - offX
	}
	h := src.Rect.Dy()
	if offY+h > dst.Height() {
		h = dst.Height() - offY
	}
	if w <= 0 || h <= 0 {
		return
	}
	data := dst.Data()
	stride := dst.Width() * 4
	for y := 0; y < h; y++ {
		row := src.Pix[src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+y):]
		copy(data[(offY+y)*stride+offX*4:(offY+y)*stride+(offX+w)*4], row[:w*4])
	}
}

// ApplyImage paints img over the whole buffer using a cover-fit transform:
// the image is scaled by max(tw/sw, th/sh), centered, and cropped. The
// result always fills the surface with no letterboxing. The source is not
// retained as a separate layer.
func (s *Surface) ApplyImage(img image.Image) error {
	if img == nil {
		return fmt.Errorf("apply image: nil source")
	}
	b := img.Bounds()
	sw, sh := b.Dx(), b.Dy()
	if sw <= 0 || sh <= 0 {
		return fmt.Errorf("apply image: empty source %dx%d", sw, sh)
	}
	scale := math.Max(float64(s.width)/float64(sw), float64(s.height)/float64(sh))

	// Crop window in source space sized to target/scale, centered.
	cw := float64(s.width) / scale
	ch := float64(s.height) / scale
	sx0 := float64(b.Min.X) + (float64(sw)-cw)/2
	sy0 := float64(b.Min.Y) + (float64(sh)-ch)/2
	src := image.Rect(
		int(math.Floor(sx0)), int(math.Floor(sy0)),
		int(math.Ceil(sx0+cw)), int(math.Ceil(sy0+ch)),
	).Intersect(b)

	dst := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, src, xdraw.Src, nil)

	s.Clear()
	blitPixels(s.dc.ResizeTarget(), dst, 0, 0)
	return nil
}

// Image returns a copy of the buffer's pixels.
func (s *Surface) Image() *image.RGBA {
	return s.dc.Image().(*image.RGBA)
}

// EncodePNG writes the buffer's pixels as a PNG stream.
func (s *Surface) EncodePNG(w io.Writer) error {
	if err := s.dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
