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
	"fmt"
	"image/color"
	"strings"
)

// ParseHexColor parses "#rgb", "#rrggbb" or "#rrggbbaa" (leading '#'
// optional) into an opaque-by-default NRGBA.
func ParseHexColor(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	c := color.NRGBA{A: 255}
	var err error
	switch len(h) {
	case 3:
		_, err = fmt.Sscanf(h, "%1x%1x%1x", &c.R, &c.G, &c.B)
		c.R *= 17
		c.G *= 17
		c.B *= 17
	case 6:
		_, err = fmt.Sscanf(h, "%02x%02x%02x", &c.R, &c.G, &c.B)
	case 8:
		_, err = fmt.Sscanf(h, "%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A)
	default:
		return c, fmt.Errorf("parse hex color %q: bad length", s)
	}
	if err != nil {
		return c, fmt.Errorf("parse hex color %q: %w", s, err)
	}
	return c, nil
}

// HexString formats c as "#rrggbb" (alpha is dropped; the canvas is a flat
// opaque raster).
func HexString(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}
