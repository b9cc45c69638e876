/*
 * Copyright (c) 2026 by the gosketch authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package surface

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"testing"
)

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.NRGBA{A: 255}
	red   = color.NRGBA{R: 255, A: 255}
	green = color.NRGBA{G: 255, A: 255}
	blue  = color.NRGBA{B: 255, A: 255}
)

func newTestSurface(t *testing.T, w, h int) *Surface {
	t.Helper()
	s, err := New(w, h, Options{Background: white, StrokeColor: black, StrokeWidth: 5})
	if err != nil {
		t.Fatalf("New(%d, %d): %v", w, h, err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func pixel(t *testing.T, s *Surface, x, y int) color.RGBA {
	t.Helper()
	return s.Image().RGBAAt(x, y)
}

func wantPixel(t *testing.T, s *Surface, x, y int, want color.NRGBA) {
	t.Helper()
	got := pixel(t, s, x, y)
	if got.R != want.R || got.G != want.G || got.B != want.B || got.A != want.A {
		t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
	}
}

func TestNewRejectsUnlaidOutContainer(t *testing.T) {
	for _, sz := range [][2]int{{0, 100}, {100, 0}, {-1, 100}, {0, 0}} {
		if _, err := New(sz[0], sz[1], Options{}); err == nil {
			t.Fatalf("New(%d, %d) expected error", sz[0], sz[1])
		}
	}
}

func TestNewFillsBackground(t *testing.T) {
	s := newTestSurface(t, 64, 48)
	for _, p := range [][2]int{{0, 0}, {63, 0}, {0, 47}, {63, 47}, {32, 24}} {
		wantPixel(t, s, p[0], p[1], white)
	}
}

func TestPencilPaintsStrokeColor(t *testing.T) {
	s := newTestSurface(t, 200, 100)
	if err := s.DrawSegment(50, 50, 150, 50); err != nil {
		t.Fatalf("DrawSegment: %v", err)
	}
	wantPixel(t, s, 100, 50, black)
	wantPixel(t, s, 100, 80, white)
}

func TestEraserPaintsBackgroundColor(t *testing.T) {
	s := newTestSurface(t, 200, 100)
	if err := s.DrawSegment(50, 50, 150, 50); err != nil {
		t.Fatalf("DrawSegment: %v", err)
	}
	s.SetTool(ToolEraser)
	s.SetStrokeWidth(20)
	if err := s.DrawSegment(50, 50, 150, 50); err != nil {
		t.Fatalf("DrawSegment: %v", err)
	}
	wantPixel(t, s, 100, 50, white)
}

func TestEffectiveStrokeColorFollowsConfiguration(t *testing.T) {
	s := newTestSurface(t, 10, 10)
	if got := s.EffectiveStrokeColor(); got != color.Color(black) {
		t.Fatalf("pencil effective color = %v, want stroke color", got)
	}
	s.SetTool(ToolEraser)
	if got := s.EffectiveStrokeColor(); got != color.Color(white) {
		t.Fatalf("eraser effective color = %v, want background", got)
	}
	// Background, stroke and tool are interdependent: changing the
	// background while erasing must retarget the eraser immediately.
	s.SetBackgroundColor(red)
	if got := s.EffectiveStrokeColor(); got != color.Color(red) {
		t.Fatalf("eraser effective color after background change = %v, want red", got)
	}
	s.SetTool(ToolPencil)
	s.SetStrokeColor(green)
	if got := s.EffectiveStrokeColor(); got != color.Color(green) {
		t.Fatalf("pencil effective color = %v, want green", got)
	}
}

func TestDotRenderedOnTapWithoutMovement(t *testing.T) {
	s := newTestSurface(t, 100, 100)
	s.SetStrokeWidth(10)
	if err := s.DrawDot(50, 50); err != nil {
		t.Fatalf("DrawDot: %v", err)
	}
	wantPixel(t, s, 50, 50, black)
	wantPixel(t, s, 52, 50, black) // inside radius 5
	wantPixel(t, s, 58, 50, white) // outside the dot
}

func TestClearFillsCurrentBackground(t *testing.T) {
	s := newTestSurface(t, 50, 50)
	if err := s.DrawDot(25, 25); err != nil {
		t.Fatalf("DrawDot: %v", err)
	}
	s.SetBackgroundColor(blue)
	s.Clear()
	wantPixel(t, s, 25, 25, blue)
	wantPixel(t, s, 0, 0, blue)
}

// Scenario from the resize contract: an 800x600 surface with a straight
// stroke from (100,100) to (200,100) grows to 1000x600. The stroke must
// shift +100px horizontally and the newly exposed region must be background.
func TestResizeGrowCentersPriorContent(t *testing.T) {
	s := newTestSurface(t, 800, 600)
	if err := s.DrawSegment(100, 100, 200, 100); err != nil {
		t.Fatalf("DrawSegment: %v", err)
	}
	wantPixel(t, s, 150, 100, black)

	if err := s.Resize(1000, 600); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if s.Width() != 1000 || s.Height() != 600 {
		t.Fatalf("size = %dx%d, want 1000x600", s.Width(), s.Height())
	}
	wantPixel(t, s, 250, 100, black) // old (150,100) shifted by +100
	wantPixel(t, s, 50, 100, white)  // newly exposed left margin
	wantPixel(t, s, 150, 100, white) // old (50,100) was background
}

func TestResizeSequenceKeepsContentVisible(t *testing.T) {
	s := newTestSurface(t, 800, 600)
	if err := s.DrawSegment(100, 100, 200, 100); err != nil {
		t.Fatalf("DrawSegment: %v", err)
	}
	if err := s.Resize(1000, 600); err != nil {
		t.Fatalf("grow: %v", err)
	}
	if err := s.Resize(800, 600); err != nil {
		t.Fatalf("shrink: %v", err)
	}
	// Shrinking clips from the origin, so the stroke stays at its
	// post-grow position and must still be bit-exact.
	wantPixel(t, s, 250, 100, black)
	wantPixel(t, s, 350, 100, white)
}

func TestResizeSameSizeIsDeterministicNoop(t *testing.T) {
	s := newTestSurface(t, 120, 80)
	if err := s.DrawSegment(10, 10, 110, 70); err != nil {
		t.Fatalf("DrawSegment: %v", err)
	}
	before := s.Image()
	if err := s.Resize(120, 80); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	after := s.Image()
	if !bytes.Equal(before.Pix, after.Pix) {
		t.Fatalf("same-size resize changed pixels")
	}
}

func TestResizeRestoredPixelsAreBitExact(t *testing.T) {
	s := newTestSurface(t, 100, 100)
	if err := s.DrawSegment(20, 20, 80, 80); err != nil {
		t.Fatalf("DrawSegment: %v", err)
	}
	before := s.Image()
	if err := s.Resize(140, 100); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	after := s.Image()
	// Old buffer restored at x offset +20; every old pixel, including
	// anti-aliased stroke edges, must survive untouched.
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			if before.RGBAAt(x, y) != after.RGBAAt(x+20, y) {
				t.Fatalf("pixel (%d,%d) not preserved: %v != %v", x, y, before.RGBAAt(x, y), after.RGBAAt(x+20, y))
			}
		}
	}
}

func TestResizeShrinkClipsBitExactFromOrigin(t *testing.T) {
	s := newTestSurface(t, 100, 100)
	if err := s.DrawSegment(10, 10, 50, 50); err != nil {
		t.Fatalf("DrawSegment: %v", err)
	}
	before := s.Image()
	if err := s.Resize(60, 60); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	after := s.Image()
	// Shrinking keeps the origin region; the surviving pixels must still be
	// exact copies, not resampled ones.
	for y := 0; y < 60; y++ {
		for x := 0; x < 60; x++ {
			if before.RGBAAt(x, y) != after.RGBAAt(x, y) {
				t.Fatalf("pixel (%d,%d) not preserved on shrink: %v != %v", x, y, before.RGBAAt(x, y), after.RGBAAt(x, y))
			}
		}
	}
}

func TestResizePreservesLineCapAfterReallocation(t *testing.T) {
	s := newTestSurface(t, 100, 100)
	if err := s.Resize(120, 120); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	s.SetStrokeWidth(10)
	// A zero-length-ish segment with round caps bleeds past its endpoint;
	// with butt caps (the reallocation default) this pixel stays white.
	if err := s.DrawSegment(60, 60, 61, 60); err != nil {
		t.Fatalf("DrawSegment: %v", err)
	}
	wantPixel(t, s, 57, 60, black)
}

func makeBands(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for _, band := range []struct {
		from, to int
		c        color.NRGBA
	}{
		{0, h / 3, red},
		{h / 3, 2 * h / 3, green},
		{2 * h / 3, h, blue},
	} {
		draw.Draw(img, image.Rect(0, band.from, w, band.to), &image.Uniform{C: band.c}, image.Point{}, draw.Src)
	}
	return img
}

func TestApplyImageCoversWholeSurface(t *testing.T) {
	s := newTestSurface(t, 160, 90)
	src := image.NewNRGBA(image.Rect(0, 0, 40, 30))
	draw.Draw(src, src.Bounds(), &image.Uniform{C: green}, image.Point{}, draw.Src)
	if err := s.ApplyImage(src); err != nil {
		t.Fatalf("ApplyImage: %v", err)
	}
	img := s.Image()
	for y := 0; y < 90; y++ {
		for x := 0; x < 160; x++ {
			p := img.RGBAAt(x, y)
			if p.A != 255 {
				t.Fatalf("transparent pixel at (%d,%d)", x, y)
			}
			if p.R == 255 && p.G == 255 && p.B == 255 {
				t.Fatalf("background visible at (%d,%d): cover-fit must not letterbox", x, y)
			}
		}
	}
}

// A 4:3 image into a 16:9 surface is scaled until it covers the width and
// cropped vertically, keeping the center band centered.
func TestApplyImageCoverFitCropsAlongOneAxis(t *testing.T) {
	s := newTestSurface(t, 160, 90)
	if err := s.ApplyImage(makeBands(40, 30)); err != nil {
		t.Fatalf("ApplyImage: %v", err)
	}
	img := s.Image()
	center := img.RGBAAt(80, 45)
	if center.G != 255 || center.R == 255 {
		t.Fatalf("center = %v, want the middle source band", center)
	}
	top := img.RGBAAt(80, 4)
	if top.R < 200 || top.G > 60 {
		t.Fatalf("top = %v, want the first source band (vertical crop kept red visible)", top)
	}
	bottom := img.RGBAAt(80, 86)
	if bottom.B < 200 || bottom.G > 60 {
		t.Fatalf("bottom = %v, want the last source band", bottom)
	}
}

func TestApplyImageRejectsEmptySource(t *testing.T) {
	s := newTestSurface(t, 10, 10)
	if err := s.ApplyImage(nil); err == nil {
		t.Fatalf("nil source must be rejected")
	}
	if err := s.ApplyImage(image.NewNRGBA(image.Rect(0, 0, 0, 0))); err == nil {
		t.Fatalf("empty source must be rejected")
	}
}

func TestEncodePNGRoundTrip(t *testing.T) {
	s := newTestSurface(t, 32, 16)
	if err := s.DrawDot(16, 8); err != nil {
		t.Fatalf("DrawDot: %v", err)
	}
	var buf bytes.Buffer
	if err := s.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 32 || b.Dy() != 16 {
		t.Fatalf("decoded size = %dx%d, want 32x16", b.Dx(), b.Dy())
	}
}

func TestParseHexColor(t *testing.T) {
	cases := []struct {
		in   string
		want color.NRGBA
	}{
		{"#ffffff", white},
		{"ffffff", white},
		{"#000000", black},
		{"#f00", red},
		{"#00ff0080", color.NRGBA{G: 255, A: 128}},
	}
	for _, c := range cases {
		got, err := ParseHexColor(c.in)
		if err != nil {
			t.Fatalf("ParseHexColor(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseHexColor(%q) = %v, want %v", c.in, got, c.want)
		}
	}
	if _, err := ParseHexColor("#zz"); err == nil {
		t.Fatalf("bad input must error")
	}
}

func TestHexString(t *testing.T) {
	if got := HexString(red); got != "#ff0000" {
		t.Fatalf("HexString(red) = %q", got)
	}
	if got := HexString(white); got != "#ffffff" {
		t.Fatalf("HexString(white) = %q", got)
	}
}
