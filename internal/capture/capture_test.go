/*
 * Copyright (c) 2026 by the gosketch authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package capture

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"
	"time"

	"gosketch/internal/config"
)

// fakeSource is an in-memory Source for exercising the session contract.
type fakeSource struct {
	startErr error
	frames   chan []byte
	started  bool
	closed   int
}

func newFakeSource() *fakeSource {
	return &fakeSource{frames: make(chan []byte, 4)}
}

func (f *fakeSource) Start(ctx context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.started = true
	return nil
}

func (f *fakeSource) Frames() <-chan []byte { return f.frames }

func (f *fakeSource) Close() error {
	f.closed++
	return nil
}

func pngFrame(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 4, 3))); err != nil {
		t.Fatalf("encode frame: %v", err)
	}
	return buf.Bytes()
}

func TestOpenSessionReleasesDeviceOnStartFailure(t *testing.T) {
	src := newFakeSource()
	src.startErr = ErrDenied
	if _, err := OpenSession(context.Background(), src); !errors.Is(err, ErrDenied) {
		t.Fatalf("err = %v, want ErrDenied", err)
	}
	if src.closed != 1 {
		t.Fatalf("device not released after failed start (closed=%d)", src.closed)
	}
}

func TestGrabDecodesFirstFrame(t *testing.T) {
	src := newFakeSource()
	src.frames <- pngFrame(t)
	sess, err := OpenSession(context.Background(), src)
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	defer func() { _ = sess.Close() }()

	img, err := sess.Grab(context.Background())
	if err != nil {
		t.Fatalf("Grab: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Fatalf("frame size = %dx%d, want 4x3", b.Dx(), b.Dy())
	}
}

func TestGrabHonorsCancellation(t *testing.T) {
	src := newFakeSource()
	sess, err := OpenSession(context.Background(), src)
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	defer func() { _ = sess.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := sess.Grab(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}

func TestGrabFailsOnClosedStream(t *testing.T) {
	src := newFakeSource()
	sess, err := OpenSession(context.Background(), src)
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	defer func() { _ = sess.Close() }()
	close(src.frames)
	if _, err := sess.Grab(context.Background()); err == nil {
		t.Fatalf("closed stream must fail the grab")
	}
}

func TestGrabRejectsGarbageFrame(t *testing.T) {
	src := newFakeSource()
	src.frames <- []byte("not an image")
	sess, err := OpenSession(context.Background(), src)
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	defer func() { _ = sess.Close() }()
	if _, err := sess.Grab(context.Background()); err == nil {
		t.Fatalf("garbage frame must fail to decode")
	}
}

func TestCloseReleasesExactlyOnce(t *testing.T) {
	src := newFakeSource()
	sess, err := OpenSession(context.Background(), src)
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	_ = sess.Close()
	_ = sess.Close()
	_ = sess.Close()
	if src.closed != 1 {
		t.Fatalf("device closed %d times, want exactly 1", src.closed)
	}
}

func TestSessionIDAssigned(t *testing.T) {
	src := newFakeSource()
	sess, err := OpenSession(context.Background(), src)
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	defer func() { _ = sess.Close() }()
	if sess.ID == "" {
		t.Fatalf("session id missing")
	}
}

func TestDevicePathSelection(t *testing.T) {
	cfg := config.CameraConfig{UserDevice: "/dev/video0", EnvironmentDevice: "/dev/video2"}
	if got := DevicePath(cfg, FacingUser); got != "/dev/video0" {
		t.Fatalf("user device = %q", got)
	}
	if got := DevicePath(cfg, FacingEnvironment); got != "/dev/video2" {
		t.Fatalf("environment device = %q", got)
	}
}
