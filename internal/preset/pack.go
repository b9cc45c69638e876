/*
 * Copyright (c) 2026 by the gosketch authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package preset

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	applog "gosketch/internal/log"
)

const manifestName = "presetpack.manifest.txt"

// Archive zips every preset .json file under presetsDir into destZipPath,
// with a small manifest at the archive root for human inspection.
func Archive(presetsDir, destZipPath string) error {
	l := applog.WithOperation(applog.WithComponent("preset"), "archive").With(slog.String("dir", presetsDir))
	if strings.TrimSpace(presetsDir) == "" {
		return errors.New("presetsDir is required")
	}
	if strings.TrimSpace(destZipPath) == "" {
		return errors.New("destZipPath is required")
	}
	if err := os.MkdirAll(filepath.Dir(destZipPath), 0o755); err != nil {
		return fmt.Errorf("ensure zip dir: %w", err)
	}
	_ = os.Remove(destZipPath)

	zf, err := os.Create(destZipPath)
	if err != nil {
		return fmt.Errorf("create zip: %w", err)
	}
	defer func() { _ = zf.Close() }()
	zw := zip.NewWriter(zf)
	defer func() { _ = zw.Close() }()

	manifest := fmt.Sprintf("gosketch preset pack\nCreated: %s\n\nContents mirror the presets directory.\n",
		time.Now().Format(time.RFC3339))
	w, err := zw.Create(manifestName)
	if err != nil {
		return fmt.Errorf("add manifest: %w", err)
	}
	if _, err := w.Write([]byte(manifest)); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	entries, err := os.ReadDir(presetsDir)
	if err != nil {
		return fmt.Errorf("read presets dir: %w", err)
	}
	added := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		fw, err := zw.Create(e.Name())
		if err != nil {
			return fmt.Errorf("add %s: %w", e.Name(), err)
		}
		f, err := os.Open(filepath.Join(presetsDir, e.Name()))
		if err != nil {
			return fmt.Errorf("open %s: %w", e.Name(), err)
		}
		if _, err := io.Copy(fw, f); err != nil {
			_ = f.Close()
			return fmt.Errorf("copy %s: %w", e.Name(), err)
		}
		_ = f.Close()
		added++
	}
	l.Info("preset pack archived", slog.Int("files", added), slog.String("zip", destZipPath))
	return nil
}

// Install extracts pack files from a zip into presetsDir. Every extracted
// pack must validate against the preset schema; existing files are skipped,
// not overwritten. Returns the count of installed files.
func Install(presetsDir, packZipPath string) (int, error) {
	l := applog.WithOperation(applog.WithComponent("preset"), "install").With(slog.String("dir", presetsDir))
	if strings.TrimSpace(presetsDir) == "" {
		return 0, errors.New("presetsDir is required")
	}
	if err := os.MkdirAll(presetsDir, 0o755); err != nil {
		return 0, fmt.Errorf("ensure presets dir: %w", err)
	}

	r, err := zip.OpenReader(packZipPath)
	if err != nil {
		return 0, fmt.Errorf("open pack: %w", err)
	}
	defer func() { _ = r.Close() }()

	installed := 0
	for _, f := range r.File {
		name := filepath.Base(f.Name)
		if name == manifestName || f.FileInfo().IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		targetPath := filepath.Join(presetsDir, name)
		if _, err := os.Stat(targetPath); err == nil {
			l.Warn("skip existing pack", slog.String("path", targetPath))
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return installed, fmt.Errorf("open %s: %w", name, err)
		}
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return installed, fmt.Errorf("read %s: %w", name, err)
		}
		if err := Validate(data); err != nil {
			return installed, fmt.Errorf("pack %s: %w", name, err)
		}
		if err := os.WriteFile(targetPath, data, 0o644); err != nil {
			return installed, fmt.Errorf("write %s: %w", name, err)
		}
		installed++
	}
	l.Info("preset pack installed", slog.Int("files", installed))
	return installed, nil
}
