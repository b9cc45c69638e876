/*
 * Copyright (c) 2026 by the gosketch authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package capture acquires single frames from a camera device. Acquisition
// is scoped: every successfully opened session is released exactly once on
// every exit path (grab, cancel, error, teardown).
package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"gosketch/internal/config"
	applog "gosketch/internal/log"

	// Frame decoders; V4L2 sources deliver MJPEG frames.
	_ "image/jpeg"
	_ "image/png"
)

// FacingMode selects which camera a capture request targets.
type FacingMode string

const (
	FacingUser        FacingMode = "user"        // front camera
	FacingEnvironment FacingMode = "environment" // rear camera
)

var (
	// ErrUnsupported reports that no camera backend exists on this
	// platform or the device is absent.
	ErrUnsupported = errors.New("capture: camera not available")

	// ErrDenied reports that camera access was refused. Distinct from
	// ErrUnsupported so the UI can offer a re-prompt.
	ErrDenied = errors.New("capture: camera access denied")
)

// Source delivers encoded frames from a camera device.
type Source interface {
	// Start begins streaming. It must fail with ErrUnsupported or
	// ErrDenied (possibly wrapped) for the corresponding conditions.
	Start(ctx context.Context) error

	// Frames returns the stream of encoded frames. The channel closes
	// when the stream stops.
	Frames() <-chan []byte

	// Close releases the device. It must be safe to call more than once.
	Close() error
}

// DevicePath maps a facing mode to the configured device path.
func DevicePath(cfg config.CameraConfig, mode FacingMode) string {
	if mode == FacingEnvironment {
		return cfg.EnvironmentDevice
	}
	return cfg.UserDevice
}

// Session is one scoped camera acquisition.
type Session struct {
	ID string

	src    Source
	cancel context.CancelFunc

	closeOnce sync.Once
	closeErr  error
}

// OpenSession starts streaming from src. On any start failure the device is
// released before returning.
func OpenSession(ctx context.Context, src Source) (*Session, error) {
	id := uuid.NewString()
	l := applog.WithOperation(applog.WithComponent("capture"), "open").With(slog.String("session", id))

	ctx, cancel := context.WithCancel(ctx)
	if err := src.Start(ctx); err != nil {
		cancel()
		_ = src.Close()
		l.Warn("stream start failed", slog.Any("err", err))
		return nil, fmt.Errorf("start stream: %w", err)
	}
	l.Info("stream open")
	return &Session{ID: id, src: src, cancel: cancel}, nil
}

// Grab waits for the next frame and decodes it. The session stays open so
// the caller can preview further frames; Close releases the device.
func (s *Session) Grab(ctx context.Context) (image.Image, error) {
	select {
	case frame, ok := <-s.src.Frames():
		if !ok {
			return nil, fmt.Errorf("grab frame: stream closed")
		}
		img, _, err := image.Decode(bytes.NewReader(frame))
		if err != nil {
			return nil, fmt.Errorf("decode frame: %w", err)
		}
		return img, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close stops the stream and releases the device. Safe to call from every
// exit path; only the first call takes effect.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		s.closeErr = s.src.Close()
		applog.WithComponent("capture").Info("stream released", slog.String("session", s.ID))
	})
	return s.closeErr
}
