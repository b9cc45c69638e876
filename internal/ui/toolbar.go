//go:build fyne && cgo

/*
 * Copyright (c) 2026 by the gosketch authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"gosketch/internal/surface"
)

// toolbarActions are the export and canvas commands wired by the app shell.
type toolbarActions struct {
	SavePNG func()
	Copy    func()
	SavePDF func()
	Capture func()
	Clear   func()
}

// colorSwatch is a tappable square of a single color.
type colorSwatch struct {
	widget.BaseWidget
	Color    color.Color
	OnTapped func(color.Color)
}

func newColorSwatch(c color.Color, tapped func(color.Color)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(24, 24))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// newToolbar builds the tool, color and width controls plus the action row.
func newToolbar(sketch *SketchWidget, acts toolbarActions) fyne.CanvasObject {
	surf := sketch.Surface()

	tools := widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentCreateIcon(), func() {
			surf.SetTool(surface.ToolPencil)
		}),
		widget.NewToolbarAction(theme.ContentClearIcon(), func() {
			surf.SetTool(surface.ToolEraser)
		}),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), acts.SavePNG),
		widget.NewToolbarAction(theme.ContentCopyIcon(), acts.Copy),
		widget.NewToolbarAction(theme.DocumentPrintIcon(), acts.SavePDF),
		widget.NewToolbarAction(theme.MediaPhotoIcon(), acts.Capture),
		widget.NewToolbarAction(theme.DeleteIcon(), acts.Clear),
	)

	onColorTapped := func(c color.Color) {
		surf.SetStrokeColor(c)
		surf.SetTool(surface.ToolPencil)
	}
	colorBox := container.NewHBox(
		newColorSwatch(color.Black, onColorTapped),
		newColorSwatch(color.NRGBA{R: 0xd3, G: 0x2f, B: 0x2f, A: 0xff}, onColorTapped),
		newColorSwatch(color.NRGBA{R: 0x38, G: 0x8e, B: 0x3c, A: 0xff}, onColorTapped),
		newColorSwatch(color.NRGBA{R: 0x19, G: 0x76, B: 0xd2, A: 0xff}, onColorTapped),
		newColorSwatch(color.NRGBA{R: 0xfb, G: 0xc0, B: 0x2d, A: 0xff}, onColorTapped),
	)

	widthSlider := widget.NewSlider(1, 50)
	widthSlider.SetValue(surf.StrokeWidth())
	widthSlider.OnChanged = func(v float64) {
		surf.SetStrokeWidth(v)
	}
	sliderBox := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), widthSlider)

	return container.NewHBox(
		tools,
		widget.NewSeparator(),
		widget.NewLabel("Color:"),
		colorBox,
		widget.NewSeparator(),
		widget.NewLabel("Width:"),
		sliderBox,
		layout.NewSpacer(),
	)
}
