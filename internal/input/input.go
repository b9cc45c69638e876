/*
 * Copyright (c) 2026 by the gosketch authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package input normalizes pointer input (mouse or touch) into surface-local
// coordinates and converts a sequence of positions into a continuous stroke.
// Mouse and touch events funnel through the same translation, so identical
// viewport positions always resolve to identical local coordinates.
package input

// Pointer is a position in either viewport or surface-local coordinates.
type Pointer struct {
	X, Y float64
}

// ToLocal converts a viewport position to surface-local coordinates by
// subtracting the surface's on-screen origin. Multi-touch is not supported;
// callers pass the first active touch point only.
func ToLocal(viewport, origin Pointer) Pointer {
	return Pointer{X: viewport.X - origin.X, Y: viewport.Y - origin.Y}
}

// Canvas is the drawing sink a session renders into. *surface.Surface
// satisfies it.
type Canvas interface {
	DrawDot(x, y float64) error
	DrawSegment(x1, y1, x2, y2 float64) error
}

// Session is the ephemeral state of a single pointer-down-to-pointer-up
// gesture. It retains no point history; each position is rendered
// immediately and discarded.
type Session struct {
	canvas  Canvas
	drawing bool
	last    Pointer
}

// NewSession binds a stroke session to a canvas.
func NewSession(c Canvas) *Session {
	return &Session{canvas: c}
}

// Drawing reports whether a gesture is in progress.
func (s *Session) Drawing() bool { return s.drawing }

// Down begins a stroke at pos and immediately renders a zero-length stroke,
// so a tap or click with no movement still produces a visible dot.
func (s *Session) Down(pos Pointer) error {
	s.drawing = true
	s.last = pos
	return s.canvas.DrawDot(pos.X, pos.Y)
}

// Move extends the stroke to pos with a straight segment. Outside a gesture
// it does nothing.
func (s *Session) Move(pos Pointer) error {
	if !s.drawing {
		return nil
	}
	err := s.canvas.DrawSegment(s.last.X, s.last.Y, pos.X, pos.Y)
	s.last = pos
	return err
}

// Up ends the stroke.
func (s *Session) Up() { s.drawing = false }

// Leave ends the stroke when the pointer exits the surface. Without this a
// stroke would silently continue off-surface and resume on re-entry.
func (s *Session) Leave() { s.drawing = false }
