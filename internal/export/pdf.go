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
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"gosketch/internal/surface"
)

// WritePDF writes a single-page PDF whose page size matches the canvas in
// points, with the canvas PNG embedded at full size.
func WritePDF(s *surface.Surface, path string) error {
	data, err := EncodePNG(s)
	if err != nil {
		return err
	}
	w := float64(s.Width())
	h := float64(s.Height())

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.AddPage()
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("canvas", opts, bytes.NewReader(data))
	pdf.ImageOptions("canvas", 0, 0, w, h, false, opts, 0, "")
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
