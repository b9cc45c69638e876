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
	"fmt"
	"sync"

	"golang.design/x/clipboard"

	"gosketch/internal/surface"
)

var (
	clipOnce sync.Once
	clipErr  error
)

// CopyPNG writes the canvas as a single PNG image item to the system
// clipboard. Clipboard access is a best-effort convenience; the caller
// surfaces the error as a transient notification without retrying.
func CopyPNG(s *surface.Surface) error {
	clipOnce.Do(func() { clipErr = clipboard.Init() })
	if clipErr != nil {
		return fmt.Errorf("clipboard unavailable: %w", clipErr)
	}
	data, err := EncodePNG(s)
	if err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtImage, data)
	return nil
}
