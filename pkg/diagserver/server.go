/*
Copyright 2024 The epscompress Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package diagserver exposes an HTTP diagnostics endpoint over a running
// compressor: a health check and cumulative byte/file counters. Each
// compression request it serves runs one full encoding session, so
// requests are serialized behind a single mutex rather than parallelized.
package diagserver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/zprime/epscompress/internal/zap4echo"
	"github.com/zprime/epscompress/pkg/epscompress"
)

const (
	_defaultAddr            = "127.0.0.1:8888"
	_defaultShutdownTimeout = 5 * time.Second
)

// Stats is a snapshot of the server's cumulative counters.
type Stats struct {
	FilesCompressed int    `json:"filesCompressed"`
	BytesIn         int64  `json:"bytesIn"`
	BytesOut        int64  `json:"bytesOut"`
	LastError       string `json:"lastError,omitempty"`
}

// Server serves diagnostics over HTTP for a single Configuration.
type Server struct {
	echo            *echo.Echo
	addr            string
	notify          chan error
	shutdownTimeout time.Duration
	conf            *epscompress.Configuration

	mu    sync.Mutex
	stats Stats
}

// New returns a Server bound to addr (host:port). An empty addr falls
// back to the package default, 127.0.0.1:8888.
func New(addr string, conf *epscompress.Configuration) *Server {
	if addr == "" {
		addr = _defaultAddr
	}
	if conf == nil {
		conf = epscompress.NewDefaultConfiguration()
	}

	e := echo.New()
	e.Logger.SetOutput(io.Discard)
	zl, _ := zap.NewDevelopment()

	e.Use(
		zap4echo.Logger(zl),
		zap4echo.Recover(zl),
	)
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{echo.HeaderContentType},
		AllowCredentials: false,
		AllowMethods:     []string{http.MethodGet, http.MethodPost},
	}))

	s := &Server{
		echo:            e,
		addr:            addr,
		notify:          make(chan error, 1),
		shutdownTimeout: _defaultShutdownTimeout,
		conf:            conf,
	}
	s.routes()
	return s
}

// Echo returns the underlying echo.Echo instance, mainly so tests can
// drive requests through ServeHTTP without binding a real socket.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) routes() {
	s.echo.GET("/healthz", s.handleHealthz)
	s.echo.GET("/stats", s.handleStats)
	s.echo.POST("/compress", s.handleCompress)
}

func (s *Server) handleHealthz(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func (s *Server) handleStats(c echo.Context) error {
	s.mu.Lock()
	snapshot := s.stats
	s.mu.Unlock()
	return c.JSON(http.StatusOK, snapshot)
}

// handleCompress compresses the request body and streams back the result.
// It holds the server mutex for the duration of the encoding session, so
// concurrent requests queue rather than interleave.
func (s *Server) handleCompress(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := epscompress.ReadAll(c.Request().Body, s.conf)
	if err != nil {
		s.stats.LastError = err.Error()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	s.stats.FilesCompressed++
	s.stats.BytesIn += c.Request().ContentLength
	s.stats.BytesOut += int64(len(out))
	s.stats.LastError = ""

	return c.Blob(http.StatusOK, "application/postscript", out)
}

// Start begins serving in the background. Errors (including a clean
// shutdown) are delivered on the channel returned by Notify.
func (s *Server) Start() {
	go func() {
		s.notify <- s.echo.Start(s.addr)
		close(s.notify)
	}()
}

// Notify returns the channel that receives the server's terminal error.
func (s *Server) Notify() <-chan error {
	return s.notify
}

// Shutdown stops the server, waiting up to the configured shutdown
// timeout for in-flight requests to finish.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("diagserver: shutdown: %w", err)
	}
	return nil
}
