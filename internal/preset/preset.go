/*
 * Copyright (c) 2026 by the gosketch authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package preset manages named brush presets (tool, color, stroke width)
// stored as schema-validated JSON files.
package preset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"gosketch/internal/surface"
)

// Preset is one named brush configuration.
type Preset struct {
	Name  string  `json:"name"`
	Tool  string  `json:"tool"`  // "pencil" or "eraser"
	Color string  `json:"color"` // hex, e.g. "#1a1a1a"
	Width float64 `json:"width"` // stroke width in pixels
}

// Pack is a versioned collection of presets.
type Pack struct {
	Version int      `json:"version"`
	Presets []Preset `json:"presets"`
}

// schema validates preset packs on load. Kept strict so a bad file fails
// loudly instead of silently producing an unusable brush.
const schema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["version", "presets"],
  "properties": {
    "version": {"type": "integer", "minimum": 1},
    "presets": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "tool", "color", "width"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "tool": {"type": "string", "enum": ["pencil", "eraser"]},
          "color": {"type": "string", "pattern": "^#?[0-9a-fA-F]{3,8}$"},
          "width": {"type": "number", "exclusiveMinimum": 0}
        }
      }
    }
  }
}`

// Default returns the built-in pack shipped on first run.
func Default() Pack {
	return Pack{
		Version: 1,
		Presets: []Preset{
			{Name: "fine liner", Tool: "pencil", Color: "#000000", Width: 2},
			{Name: "marker", Tool: "pencil", Color: "#1a1a1a", Width: 8},
			{Name: "highlighter", Tool: "pencil", Color: "#ffd400", Width: 16},
			{Name: "eraser", Tool: "eraser", Color: "#ffffff", Width: 24},
		},
	}
}

// Validate checks raw pack JSON against the schema and returns a descriptive
// error listing every violation.
func Validate(data []byte) error {
	result, err := gojsonschema.Validate(gojsonschema.NewStringLoader(schema), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("validate preset pack: %w", err)
	}
	if !result.Valid() {
		var sb strings.Builder
		for i, e := range result.Errors() {
			if i > 0 {
				sb.WriteString("; ")
			}
			sb.WriteString(e.String())
		}
		return fmt.Errorf("preset pack invalid: %s", sb.String())
	}
	return nil
}

// Load reads and validates a pack file.
func Load(path string) (Pack, error) {
	var p Pack
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read preset pack: %w", err)
	}
	if err := Validate(data); err != nil {
		return p, err
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse preset pack: %w", err)
	}
	return p, nil
}

// Save writes a pack as indented JSON, creating the directory if needed.
func Save(path string, p Pack) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal preset pack: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure preset dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write preset pack: %w", err)
	}
	return nil
}

// Apply configures the surface from a preset. The color must parse; the
// preset file was schema-validated so this only fails on hand-edited input.
func Apply(s *surface.Surface, p Preset) error {
	c, err := surface.ParseHexColor(p.Color)
	if err != nil {
		return err
	}
	s.SetStrokeColor(c)
	s.SetStrokeWidth(p.Width)
	s.SetTool(surface.ParseTool(p.Tool))
	return nil
}
