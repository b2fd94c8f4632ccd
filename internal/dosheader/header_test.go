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

package dosheader_test

import (
	"encoding/binary"
	"testing"

	"github.com/zprime/epscompress/internal/dosheader"
)

func buildHeader(psOff, psLen, wmfOff, wmfLen, tiffOff, tiffLen uint32) []byte {
	buf := make([]byte, dosheader.Size)
	copy(buf[0:4], dosheader.Magic[:])
	binary.LittleEndian.PutUint32(buf[4:8], psOff)
	binary.LittleEndian.PutUint32(buf[8:12], psLen)
	binary.LittleEndian.PutUint32(buf[12:16], wmfOff)
	binary.LittleEndian.PutUint32(buf[16:20], wmfLen)
	binary.LittleEndian.PutUint32(buf[20:24], tiffOff)
	binary.LittleEndian.PutUint32(buf[24:28], tiffLen)
	binary.LittleEndian.PutUint16(buf[28:30], 0xFFFF)
	return buf
}

func TestIsMagic(t *testing.T) {
	buf := buildHeader(30, 100, 0, 0, 0, 0)
	if !dosheader.IsMagic(buf) {
		t.Fatal("expected magic to be recognized")
	}
	if dosheader.IsMagic([]byte("%!PS-Adobe-3.0\n")) {
		t.Fatal("text EPS header must not match binary magic")
	}
	if dosheader.IsMagic([]byte{0xC5, 0xD0}) {
		t.Fatal("truncated buffer must not match")
	}
}

func TestParse(t *testing.T) {
	buf := buildHeader(30, 100, 130, 50, 0, 0)
	h, err := dosheader.Parse(buf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if h.PSOffset != 30 || h.PSLength != 100 {
		t.Fatalf("unexpected PS range: %+v", h)
	}
	if !h.HasWMFPreview() {
		t.Fatal("expected WMF preview present")
	}
	if h.HasTIFFPreview() {
		t.Fatal("expected no TIFF preview")
	}
}

func TestParseShortBuffer(t *testing.T) {
	if _, err := dosheader.Parse(make([]byte, 10)); err == nil {
		t.Fatal("expected error for short buffer")
	}
}
