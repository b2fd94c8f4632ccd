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

// Package epscompress compresses the PostScript body of an EPS document,
// passing its header and DSC comments through untouched. It wraps
// internal/epsbody, internal/lzwtree and internal/ascii85pack behind the
// conventional two-layer entry points: an io.Reader/io.Writer form for
// callers already holding open streams, and a path-based form for
// callers that just want to name an input and output file.
package epscompress

import (
	"bytes"
	"io"
	"os"

	"github.com/zprime/epscompress/internal/ascii85pack"
	"github.com/zprime/epscompress/internal/dosheader"
	"github.com/zprime/epscompress/internal/epsbody"
	"github.com/zprime/epscompress/internal/lzwtree"
	"github.com/zprime/epscompress/pkg/log"
)

// Compress reads an EPS document from r and writes its compressed form to
// w. When r's first bytes are the DOS EPS binary magic, the first line is
// accepted as the header and the rest of the stream is processed as
// PostScript text lines like any other input; the binary header's
// offset/length fields are not parsed and no section is carved out. That
// is done only by CompressFile, which has random access to a real file.
func Compress(r io.Reader, w io.Writer, conf *Configuration) error {
	if conf == nil {
		conf = NewDefaultConfiguration()
	}
	p := ascii85pack.New(w)
	c := lzwtree.NewCoder(p)
	sel := epsbody.NewSelector(r, w, c)
	if err := sel.Run(); err != nil {
		return err
	}
	log.Stats.Printf("epscompress: compressed stream")
	return nil
}

// CompressFile reads the EPS document at inFile and writes its compressed
// form to outFile. Binary DOS EPS files are detected by their leading
// magic and handled specially: the PostScript section is carved out by
// byte offset, compressed on its own, and the WMF/TIFF preview sections
// (if present) are copied through untouched with a rewritten header
// reflecting the new section lengths.
func CompressFile(inFile, outFile string, conf *Configuration) error {
	if inFile == "" || outFile == "" {
		return ErrArgument
	}
	if conf == nil {
		conf = NewDefaultConfiguration()
	}

	in, err := os.Open(inFile)
	if err != nil {
		return InputOpenError(inFile, err)
	}
	defer in.Close()

	lead := make([]byte, dosheader.Size)
	n, err := io.ReadFull(in, lead)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return InputOpenError(inFile, err)
	}
	lead = lead[:n]

	out, err := os.Create(outFile)
	if err != nil {
		return OutputOpenError(outFile, err)
	}
	defer out.Close()

	if dosheader.IsMagic(lead) {
		return compressDOSEPS(in, lead, out, conf)
	}

	if _, err := in.Seek(0, io.SeekStart); err != nil {
		return InputOpenError(inFile, err)
	}
	if err := Compress(in, out, conf); err != nil {
		return err
	}
	return nil
}

// compressDOSEPS handles a binary DOS EPS file: it parses the fixed
// header, recompresses the PostScript section into a buffer, and
// reassembles a new file with the previews copied through untouched.
func compressDOSEPS(in *os.File, lead []byte, out *os.File, conf *Configuration) error {
	h, err := dosheader.Parse(lead)
	if err != nil {
		return ErrFormat
	}

	ps := io.NewSectionReader(in, int64(h.PSOffset), int64(h.PSLength))
	var compressed bytes.Buffer
	if err := Compress(ps, &compressed, conf); err != nil {
		return err
	}

	var wmf, tiff []byte
	if h.HasWMFPreview() {
		wmf = make([]byte, h.WMFLength)
		if _, err := in.ReadAt(wmf, int64(h.WMFOffset)); err != nil {
			return InputOpenError(in.Name(), err)
		}
	}
	if h.HasTIFFPreview() {
		tiff = make([]byte, h.TIFFLength)
		if _, err := in.ReadAt(tiff, int64(h.TIFFOffset)); err != nil {
			return InputOpenError(in.Name(), err)
		}
		if stats, err := dosheader.SniffTIFFPreview(tiff); err != nil {
			log.Info.Printf("epscompress: TIFF preview unreadable, copying through anyway: %v", err)
		} else {
			log.Info.Printf("epscompress: TIFF preview %dx%d", stats.Width, stats.Height)
		}
	}

	newHeader := layoutDOSEPS(compressed.Len(), len(wmf), len(tiff))
	if _, err := out.Write(newHeader); err != nil {
		return WriteError(err)
	}
	if _, err := out.Write(compressed.Bytes()); err != nil {
		return WriteError(err)
	}
	if len(wmf) > 0 {
		if _, err := out.Write(wmf); err != nil {
			return WriteError(err)
		}
	}
	if len(tiff) > 0 {
		if _, err := out.Write(tiff); err != nil {
			return WriteError(err)
		}
	}
	log.Stats.Printf("epscompress: compressed DOS EPS (ps=%d wmf=%d tiff=%d)", compressed.Len(), len(wmf), len(tiff))
	return nil
}

// layoutDOSEPS builds a fresh 30-byte DOS EPS header for sections placed
// back to back in the order PostScript, WMF, TIFF. The checksum field is
// set to 0xFFFF, the documented "no checksum" value, since nothing in this
// pipeline computes the original format's checksum algorithm.
func layoutDOSEPS(psLen, wmfLen, tiffLen int) []byte {
	buf := make([]byte, dosheader.Size)
	copy(buf[0:4], dosheader.Magic[:])

	offset := uint32(dosheader.Size)
	putHeaderField(buf[4:8], offset)
	putHeaderField(buf[8:12], uint32(psLen))
	offset += uint32(psLen)

	if wmfLen > 0 {
		putHeaderField(buf[12:16], offset)
		putHeaderField(buf[16:20], uint32(wmfLen))
		offset += uint32(wmfLen)
	}
	if tiffLen > 0 {
		putHeaderField(buf[20:24], offset)
		putHeaderField(buf[24:28], uint32(tiffLen))
	}
	buf[28], buf[29] = 0xFF, 0xFF
	return buf
}

func putHeaderField(dst []byte, v uint32) {
	dst[0] = byte(v)
	dst[1] = byte(v >> 8)
	dst[2] = byte(v >> 16)
	dst[3] = byte(v >> 24)
}

// ReadAll is a convenience used by callers (and tests) that already have
// the whole document in memory and want a []byte result rather than
// writing through an io.Writer of their own.
func ReadAll(r io.Reader, conf *Configuration) ([]byte, error) {
	var buf bytes.Buffer
	if err := Compress(r, &buf, conf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
