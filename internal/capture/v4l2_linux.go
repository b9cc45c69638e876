//go:build linux && cgo

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
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/vladimirvivien/go4vl/device"
	"github.com/vladimirvivien/go4vl/v4l2"
)

// v4l2Source streams MJPEG frames from a V4L2 device.
type v4l2Source struct {
	path   string
	width  int
	height int

	mu  sync.Mutex
	dev *device.Device
}

// NewDeviceSource returns a camera source for the given device path.
func NewDeviceSource(path string, width, height int) Source {
	if width <= 0 || height <= 0 {
		width, height = 1280, 720
	}
	return &v4l2Source{path: path, width: width, height: height}
}

func (s *v4l2Source) Start(ctx context.Context) error {
	dev, err := device.Open(s.path, device.WithPixFormat(v4l2.PixFormat{
		PixelFormat: v4l2.PixelFmtMJPEG,
		Width:       uint32(s.width),
		Height:      uint32(s.height),
	}))
	if err != nil {
		return classifyDeviceError(s.path, err)
	}
	if err := dev.Start(ctx); err != nil {
		_ = dev.Close()
		return classifyDeviceError(s.path, err)
	}
	s.mu.Lock()
	s.dev = dev
	s.mu.Unlock()
	return nil
}

func (s *v4l2Source) Frames() <-chan []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dev == nil {
		ch := make(chan []byte)
		close(ch)
		return ch
	}
	return s.dev.GetOutput()
}

func (s *v4l2Source) Close() error {
	s.mu.Lock()
	dev := s.dev
	s.dev = nil
	s.mu.Unlock()
	if dev == nil {
		return nil
	}
	return dev.Close()
}

func classifyDeviceError(path string, err error) error {
	switch {
	case os.IsNotExist(err):
		return fmt.Errorf("device %s: %w", path, ErrUnsupported)
	case os.IsPermission(err):
		return fmt.Errorf("device %s: %w", path, ErrDenied)
	default:
		return fmt.Errorf("device %s: %v: %w", path, err, ErrUnsupported)
	}
}
