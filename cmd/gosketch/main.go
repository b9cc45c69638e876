/*
 * Copyright (c) 2026 by the gosketch authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gosketch/internal/config"
	"gosketch/internal/crash"
	"gosketch/internal/history"
	applog "gosketch/internal/log"
	"gosketch/internal/preset"
	"gosketch/internal/ui"
	"gosketch/internal/version"
)

func usage() {
	fmt.Println("gosketch — freehand drawing pad")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  gosketch version|-v|--version        Show version")
	fmt.Println("  gosketch ui                          Launch desktop UI (build with -tags fyne for full UI)")
	fmt.Println("  gosketch history [n]                 Show the n most recent exports (default 20)")
	fmt.Println("  gosketch presets validate <file>     Validate a brush preset pack file")
	fmt.Println("  gosketch presets pack <dir> <zip>    Archive preset files from <dir> into <zip>")
	fmt.Println("  gosketch presets install <zip>       Install missing presets from <zip> into the data dir")
}

func main() {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	defer crash.Recover()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("gosketch — freehand drawing pad")
			fmt.Println(version.String())
			return
		case "ui":
			if err := ui.Run(); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		case "history":
			limit := 20
			if len(args) >= 3 {
				if _, err := fmt.Sscanf(args[2], "%d", &limit); err != nil || limit <= 0 {
					fmt.Println("history requires a positive count")
					os.Exit(2)
				}
			}
			if err := printHistory(limit); err != nil {
				l.Error("history failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		case "presets":
			if err := runPresets(args[2:]); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		}
	}

	usage()
}

func printHistory(limit int) error {
	dir, err := config.DataDir()
	if err != nil {
		return err
	}
	store, err := history.Open(dir)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	entries, err := store.Recent(ctx, limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No exports recorded yet.")
		return nil
	}
	for _, e := range entries {
		target := e.Path
		if target == "" {
			target = "(clipboard)"
		}
		fmt.Printf("%s  %-9s  %8d bytes  %s\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"), e.Kind, e.Bytes, target)
	}
	return nil
}

func runPresets(args []string) error {
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}
	switch args[0] {
	case "validate":
		if len(args) < 2 {
			return fmt.Errorf("presets validate requires <file>")
		}
		data, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}
		if err := preset.Validate(data); err != nil {
			return err
		}
		fmt.Println("OK:", args[1])
		return nil
	case "pack":
		if len(args) < 3 {
			return fmt.Errorf("presets pack requires <dir> and <zip>")
		}
		if err := preset.Archive(args[1], args[2]); err != nil {
			return err
		}
		fmt.Println("Wrote", args[2])
		return nil
	case "install":
		if len(args) < 2 {
			return fmt.Errorf("presets install requires <zip>")
		}
		dir, err := config.DataDir()
		if err != nil {
			return err
		}
		dir = filepath.Join(dir, "presets")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		n, err := preset.Install(dir, args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Installed %d preset file(s) into %s\n", n, dir)
		return nil
	default:
		return fmt.Errorf("unknown presets command %q", args[0])
	}
}
