/*
 * Copyright (c) 2026 by the gosketch authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package telemetry is a tiny, privacy-respecting, opt-in event sender for
// anonymous usage metrics and optional crash uploads. With no URLs
// configured every call is a no-op, even when opted in.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	applog "gosketch/internal/log"
	"gosketch/internal/version"
)

// Config holds runtime configuration. Environment variables (FromEnv):
//   - GSK_TELEMETRY_OPT_IN: "1", "true", "yes", "on" to enable metrics
//   - GSK_TELEMETRY_URL: base URL to POST JSON events to
//   - GSK_CRASH_UPLOAD_URL: URL to POST crash reports to
//   - GSK_TELEMETRY_TIMEOUT_MS: request timeout, default 1500ms
type Config struct {
	OptIn     bool
	EventsURL string
	CrashURL  string
	Timeout   time.Duration
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	cfg := Config{
		OptIn:     parseBool(os.Getenv("GSK_TELEMETRY_OPT_IN")),
		EventsURL: strings.TrimSpace(os.Getenv("GSK_TELEMETRY_URL")),
		CrashURL:  strings.TrimSpace(os.Getenv("GSK_CRASH_UPLOAD_URL")),
		Timeout:   1500 * time.Millisecond,
	}
	if ms := strings.TrimSpace(os.Getenv("GSK_TELEMETRY_TIMEOUT_MS")); ms != "" {
		if v, err := time.ParseDuration(ms + "ms"); err == nil {
			cfg.Timeout = v
		}
	}
	return cfg
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// Client is a minimal async sender; it drops events silently on errors and
// never blocks the caller. The queue is bounded.
type Client struct {
	cfg    Config
	log    *slog.Logger
	cli    *http.Client
	q      chan map[string]any
	once   sync.Once
	closed chan struct{}
}

var (
	defaultClient *Client
	defaultOnce   sync.Once
)

// InitDefault initializes the package-level default client from env on
// first use.
func InitDefault() {
	defaultOnce.Do(func() { defaultClient = New(FromEnv()) })
}

// New constructs a client and starts its send loop.
func New(cfg Config) *Client {
	c := &Client{
		cfg:    cfg,
		log:    applog.WithComponent("telemetry"),
		cli:    &http.Client{Timeout: cfg.Timeout},
		q:      make(chan map[string]any, 64),
		closed: make(chan struct{}),
	}
	go c.loop()
	return c
}

// Enabled reports whether events will actually be sent.
func (c *Client) Enabled() bool {
	return c != nil && c.cfg.OptIn && c.cfg.EventsURL != ""
}

// Event queues a small JSON event if enabled. Safe to call from anywhere;
// props must be non-PII.
func (c *Client) Event(name string, props map[string]any) {
	if !c.Enabled() || name == "" {
		return
	}
	payload := map[string]any{
		"id":      uuid.NewString(),
		"name":    name,
		"ts":      time.Now().UTC().Format(time.RFC3339Nano),
		"version": version.String(),
		"os":      runtime.GOOS,
		"arch":    runtime.GOARCH,
	}
	for k, v := range props {
		payload[k] = v
	}
	select {
	case c.q <- payload:
	default:
		// queue full, drop
	}
}

// Event queues an event on the default client.
func Event(name string, props map[string]any) { InitDefault(); defaultClient.Event(name, props) }

// Flush waits briefly for the queue to drain.
func (c *Client) Flush(ctx context.Context) {
	deadline := time.Now().Add(500 * time.Millisecond)
	for {
		if len(c.q) == 0 || time.Now().After(deadline) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(25 * time.Millisecond):
		}
	}
}

// Flush drains the default client's queue with a short deadline. Intended
// for shutdown paths.
func Flush() {
	InitDefault()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	defaultClient.Flush(ctx)
}

// Close stops the background goroutine.
func (c *Client) Close() { c.once.Do(func() { close(c.closed) }) }

func (c *Client) loop() {
	for {
		select {
		case <-c.closed:
			return
		case item := <-c.q:
			c.send(item)
		}
	}
}

func (c *Client) send(item map[string]any) {
	buf, _ := json.Marshal(item)
	req, err := http.NewRequest(http.MethodPost, c.cfg.EventsURL, bytes.NewReader(buf))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.cli.Do(req)
	if err != nil {
		c.log.Debug("event send failed", slog.Any("err", err))
		return
	}
	_ = resp.Body.Close()
}

// UploadCrash posts an already-serialized crash report to the configured
// crash URL if opted in.
func (c *Client) UploadCrash(report []byte) {
	if c == nil || !c.cfg.OptIn || c.cfg.CrashURL == "" {
		return
	}
	go func(b []byte) {
		req, err := http.NewRequest(http.MethodPost, c.cfg.CrashURL, bytes.NewReader(b))
		if err != nil {
			return
		}
		req.Header.Set("Content-Type", "text/plain; charset=utf-8")
		resp, err := c.cli.Do(req)
		if err != nil {
			c.log.Debug("crash upload failed", slog.Any("err", err))
			return
		}
		_ = resp.Body.Close()
	}(append([]byte(nil), report...))
}

// UploadCrash posts a crash report via the default client.
func UploadCrash(report []byte) { InitDefault(); defaultClient.UploadCrash(report) }
