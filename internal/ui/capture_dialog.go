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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"gosketch/internal/capture"
	"gosketch/internal/config"
	applog "gosketch/internal/log"
)

const captureTimeout = 10 * time.Second

// showCaptureDialog asks for a camera facing mode, grabs one frame and
// paints it onto the sketch surface. The camera is released before the
// dialog completes, whether the grab succeeded or not.
func showCaptureDialog(w fyne.Window, cfg config.CameraConfig, sketch *SketchWidget, done func(err error)) {
	facing := widget.NewRadioGroup([]string{"Front camera", "Rear camera"}, nil)
	facing.SetSelected("Front camera")

	dialog.NewCustomConfirm("Capture Photo", "Capture", "Cancel", facing, func(ok bool) {
		if !ok {
			return
		}
		mode := capture.FacingUser
		if facing.Selected == "Rear camera" {
			mode = capture.FacingEnvironment
		}
		go func() {
			err := captureFrame(cfg, mode, sketch)
			fyne.Do(func() {
				if err != nil {
					dialog.ShowError(captureUserError(err), w)
				}
				if done != nil {
					done(err)
				}
			})
		}()
	}, w).Show()
}

func captureFrame(cfg config.CameraConfig, mode capture.FacingMode, sketch *SketchWidget) error {
	l := applog.WithComponent("ui.capture")
	ctx, cancel := context.WithTimeout(context.Background(), captureTimeout)
	defer cancel()

	src := capture.NewDeviceSource(capture.DevicePath(cfg, mode), cfg.FrameWidth, cfg.FrameHeight)
	sess, err := capture.OpenSession(ctx, src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			l.Warn("camera release failed", slog.Any("err", cerr))
		}
	}()

	frame, err := sess.Grab(ctx)
	if err != nil {
		return err
	}
	l.Info("frame captured",
		slog.String("session_id", sess.ID),
		slog.String("facing", string(mode)))

	var applyErr error
	fyne.DoAndWait(func() {
		applyErr = sketch.ApplyCapturedImage(frame)
	})
	return applyErr
}

// captureUserError maps camera failures onto messages that distinguish a
// missing device from a permission problem.
func captureUserError(err error) error {
	switch {
	case errors.Is(err, capture.ErrUnsupported):
		return fmt.Errorf("no camera is available on this device")
	case errors.Is(err, capture.ErrDenied):
		return fmt.Errorf("camera access was denied; check device permissions")
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("the camera did not deliver a frame in time")
	default:
		return err
	}
}
