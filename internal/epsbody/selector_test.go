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

package epsbody_test

import (
	"bytes"
	"encoding/ascii85"
	"io"
	"strings"
	"testing"

	hhlzw "github.com/hhrutter/lzw"

	"github.com/zprime/epscompress/internal/ascii85pack"
	"github.com/zprime/epscompress/internal/epsbody"
	"github.com/zprime/epscompress/internal/lzwtree"
)

func run(t *testing.T, input string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	p := ascii85pack.New(&out)
	c := lzwtree.NewCoder(p)
	sel := epsbody.NewSelector(strings.NewReader(input), &out, c)
	err := sel.Run()
	return out.String(), err
}

func TestNoBodyToCompress(t *testing.T) {
	in := "%!PS-Adobe-3.0 EPSF-3.0\n%%EndComments\n"
	out, err := run(t, in)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != in {
		t.Fatalf("expected verbatim passthrough, got %q", out)
	}
}

func TestShortNonCommentRunIsNotCompressed(t *testing.T) {
	var b strings.Builder
	b.WriteString("%!PS-Adobe-3.0\n")
	for i := 0; i < 5; i++ {
		b.WriteString("line\n")
	}
	b.WriteString("%%Trailer\n")
	in := b.String()

	out, err := run(t, in)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != in {
		t.Fatalf("expected verbatim passthrough for sub-grace run, got %q", out)
	}
}

func TestCompressesLongNonCommentRun(t *testing.T) {
	var body strings.Builder
	for i := 0; i < 12; i++ {
		body.WriteString("AAAAAAAAA\n")
	}
	in := "%!PS-Adobe-3.0\n" + body.String()

	out, err := run(t, in)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	const invocation = "currentfile/ASCII85Decode filter/LZWDecode filter cvx exec\n"
	idx := strings.Index(out, invocation)
	if idx == -1 {
		t.Fatalf("expected a compressed segment, got %q", out)
	}
	if !strings.HasPrefix(out, "%!PS-Adobe-3.0\n"+invocation) {
		t.Fatalf("expected header then immediate segment, got %q", out)
	}

	payload := out[idx+len(invocation):]
	if !strings.HasSuffix(strings.TrimRight(payload, "\n"), "~>") {
		t.Fatalf("expected segment to end with eod marker, got %q", payload)
	}

	decoded := decodeSegment(t, payload)
	if decoded != body.String() {
		t.Fatalf("decoded segment = %q, want %q", decoded, body.String())
	}
}

func TestFormatErrorOnUnrecognizedHeader(t *testing.T) {
	_, err := run(t, "Not an EPS file\n")
	if err != epsbody.ErrFormat {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
}

func TestEmptyInput(t *testing.T) {
	_, err := run(t, "")
	if err != epsbody.ErrEmptyInput {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}

func TestBinaryMagicAccepted(t *testing.T) {
	in := string([]byte{0xC5, 0xD0, 0xD3, 0xC6}) + "\n%%EndComments\n"
	out, err := run(t, in)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != in {
		t.Fatalf("expected verbatim passthrough, got %q", out)
	}
}

func TestDSCFoundDuringLookaheadSuppressesCompression(t *testing.T) {
	in := "%!PS-Adobe-3.0\n%%BeginSetup\nsome setup line\n%%EndSetup\n%%EOF\n"
	out, err := run(t, in)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != in {
		t.Fatalf("expected verbatim passthrough, got %q", out)
	}
}

// decodeSegment strips whitespace and the trailing eod marker, then
// decodes the ASCII85+LZW payload with the stdlib decoder and the
// hhrutter/lzw golden decoder.
func decodeSegment(t *testing.T, payload string) string {
	t.Helper()
	stripped := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, payload)
	stripped = strings.TrimSuffix(stripped, "~>")

	a85 := ascii85.NewDecoder(strings.NewReader(stripped))
	rc := hhlzw.NewReader(a85, true)
	defer rc.Close()

	out, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("decode segment: %v", err)
	}
	return string(out)
}
