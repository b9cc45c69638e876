//go:build !linux || !cgo

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
)

type unsupportedSource struct{}

// NewDeviceSource returns a source whose Start fails with ErrUnsupported.
// Camera capture is only backed by V4L2 for now.
func NewDeviceSource(path string, width, height int) Source {
	return unsupportedSource{}
}

func (unsupportedSource) Start(context.Context) error {
	return fmt.Errorf("no camera backend on this platform: %w", ErrUnsupported)
}

func (unsupportedSource) Frames() <-chan []byte {
	ch := make(chan []byte)
	close(ch)
	return ch
}

func (unsupportedSource) Close() error { return nil }
