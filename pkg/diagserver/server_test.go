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

package diagserver_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zprime/epscompress/pkg/diagserver"
)

func TestHealthz(t *testing.T) {
	s := diagserver.New("", nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestStatsInitiallyZero(t *testing.T) {
	s := diagserver.New("", nil)
	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"filesCompressed":0`) {
		t.Fatalf("expected zeroed stats, got %s", rec.Body.String())
	}
}

func TestCompressEndpointUpdatesStats(t *testing.T) {
	s := diagserver.New("", nil)
	body := "%!PS-Adobe-3.0 EPSF-3.0\n%%EndComments\n"

	req := httptest.NewRequest(http.MethodPost, "/compress", strings.NewReader(body))
	req.ContentLength = int64(len(body))
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != body {
		t.Fatalf("expected verbatim passthrough, got %q", rec.Body.String())
	}

	statsReq := httptest.NewRequest(http.MethodGet, "/stats", nil)
	statsRec := httptest.NewRecorder()
	s.Echo().ServeHTTP(statsRec, statsReq)
	if !strings.Contains(statsRec.Body.String(), `"filesCompressed":1`) {
		t.Fatalf("expected one file counted, got %s", statsRec.Body.String())
	}
}
