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

// Package dosheader parses the 30-byte binary header that wraps a
// "DOS EPS" file: a PostScript body plus optional WMF and/or TIFF preview
// images, each addressed by a byte offset/length pair inside the same
// file. See the Adobe/Microsoft "Encapsulated PostScript File Format"
// appendix for the binary layout.
package dosheader

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Size is the fixed length of the binary header.
const Size = 30

// Magic is the four-byte signature that identifies a binary DOS EPS file,
// as opposed to a plain %!PS-Adobe- text EPS file.
var Magic = [4]byte{0xC5, 0xD0, 0xD3, 0xC6}

// Header describes the byte ranges of a DOS EPS file's sections. A zero
// length means the corresponding preview is absent.
type Header struct {
	PSOffset, PSLength     uint32
	WMFOffset, WMFLength   uint32
	TIFFOffset, TIFFLength uint32
	Checksum               uint16
}

// HasWMFPreview reports whether a Metafile preview section is present.
func (h Header) HasWMFPreview() bool { return h.WMFLength > 0 }

// HasTIFFPreview reports whether a TIFF preview section is present.
func (h Header) HasTIFFPreview() bool { return h.TIFFLength > 0 }

// Parse reads a Header out of the first Size bytes of buf, which must
// already have had its leading Magic verified by the caller.
func Parse(buf []byte) (Header, error) {
	if len(buf) < Size {
		return Header{}, errors.Errorf("dosheader: Parse: need %d bytes, got %d", Size, len(buf))
	}
	var h Header
	h.PSOffset = binary.LittleEndian.Uint32(buf[4:8])
	h.PSLength = binary.LittleEndian.Uint32(buf[8:12])
	h.WMFOffset = binary.LittleEndian.Uint32(buf[12:16])
	h.WMFLength = binary.LittleEndian.Uint32(buf[16:20])
	h.TIFFOffset = binary.LittleEndian.Uint32(buf[20:24])
	h.TIFFLength = binary.LittleEndian.Uint32(buf[24:28])
	h.Checksum = binary.LittleEndian.Uint16(buf[28:30])
	return h, nil
}

// IsMagic reports whether buf begins with the DOS EPS binary signature.
func IsMagic(buf []byte) bool {
	return len(buf) >= 4 &&
		buf[0] == Magic[0] && buf[1] == Magic[1] && buf[2] == Magic[2] && buf[3] == Magic[3]
}
