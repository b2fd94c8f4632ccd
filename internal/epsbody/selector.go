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

// Package epsbody streams an EPS document line by line, copying its
// header and DSC comments through untouched and routing everything else
// to an LZW coder wrapped in a PostScript filter invocation.
package epsbody

import (
	"bufio"
	"bytes"
	"io"

	"github.com/pkg/errors"

	"github.com/zprime/epscompress/internal/dosheader"
	"github.com/zprime/epscompress/internal/lzwtree"
)

const (
	// MaxLineLength is the largest line this selector will buffer,
	// terminator included. A longer physical line is split at this
	// boundary: the split does not corrupt compression (LZW is
	// byte-oriented) but may produce output lines of unusual length
	// inside a compressed segment.
	MaxLineLength = 1024

	// DSCGrace is the number of consecutive non-comment lines the
	// selector tolerates before opening a compressed segment. It exists
	// so that a single stray non-comment line between two DSC comments
	// (e.g. one setup line inside a %%BeginSetup/%%EndSetup pair)
	// doesn't open and immediately close a segment of its own.
	DSCGrace = 10
)

// filterInvocation is the literal PostScript line that opens a compressed
// segment.
const filterInvocation = "currentfile/ASCII85Decode filter/LZWDecode filter cvx exec\n"

// ErrFormat is returned when the input's first line is neither a
// %!PS-Adobe- header nor the binary DOS EPS magic.
var ErrFormat = errors.New("epsbody: input does not begin with a recognized EPS header")

// ErrEmptyInput is returned when the input is at end-of-file before a
// single byte can be read.
var ErrEmptyInput = errors.New("epsbody: input is empty")

// Selector drives a two-state body-selection state machine: PASSTHROUGH,
// which copies the header and DSC comments verbatim, and COMPRESSING,
// which routes everything else through an LZW-coded, ASCII85-packed
// filter segment.
type Selector struct {
	r     *bufio.Reader
	w     io.Writer
	coder *lzwtree.Coder
}

// NewSelector returns a Selector reading from r, writing to w, and
// driving coder to compress whatever runs it opens.
func NewSelector(r io.Reader, w io.Writer, coder *lzwtree.Coder) *Selector {
	return &Selector{r: bufio.NewReader(r), w: w, coder: coder}
}

// Run validates the header and streams the rest of the document,
// returning the first fatal error encountered.
func (s *Selector) Run() error {
	header, eof, err := s.readLine()
	if err != nil {
		return err
	}
	if eof {
		return ErrEmptyInput
	}
	if !isValidHeader(header) {
		return ErrFormat
	}
	if err := s.write(header); err != nil {
		return err
	}

	return s.passthrough()
}

func isValidHeader(line []byte) bool {
	return bytes.HasPrefix(line, []byte("%!PS-Adobe-")) || dosheader.IsMagic(line)
}

func isDSCComment(line []byte) bool {
	return bytes.HasPrefix(line, []byte("%%"))
}

// passthrough implements the PASSTHROUGH state: it copies DSC comments
// verbatim and, for any other line, looks ahead up to DSCGrace-1
// additional lines before deciding whether to open a compressed segment.
func (s *Selector) passthrough() error {
	for {
		line, eof, err := s.readLine()
		if err != nil {
			return err
		}
		if eof {
			return nil
		}
		if isDSCComment(line) {
			if err := s.write(line); err != nil {
				return err
			}
			continue
		}

		buffered := [][]byte{line}
		hitEOF := false
		foundDSC := false
		for i := 1; i < DSCGrace; i++ {
			next, eof, err := s.readLine()
			if err != nil {
				return err
			}
			if eof {
				hitEOF = true
				break
			}
			buffered = append(buffered, next)
			if isDSCComment(next) {
				foundDSC = true
				break
			}
		}

		if hitEOF || foundDSC {
			if err := s.writeAll(buffered); err != nil {
				return err
			}
			if hitEOF {
				return nil
			}
			continue
		}

		// DSCGrace consecutive non-comment lines: open a segment.
		if err := s.openSegment(buffered); err != nil {
			return err
		}
		if err := s.compressing(); err != nil {
			return err
		}
	}
}

// openSegment emits the filter invocation, starts a new LZW segment, and
// feeds it the lines already buffered during look-ahead.
func (s *Selector) openSegment(buffered [][]byte) error {
	if err := s.write([]byte(filterInvocation)); err != nil {
		return err
	}
	if err := s.coder.Begin(); err != nil {
		return errors.Wrap(err, "epsbody: openSegment")
	}
	for _, line := range buffered {
		if err := s.feed(line); err != nil {
			return err
		}
	}
	return nil
}

// compressing implements the COMPRESSING state: every line is fed to the
// coder until a DSC comment closes the segment or the input ends.
func (s *Selector) compressing() error {
	for {
		line, eof, err := s.readLine()
		if err != nil {
			return err
		}
		if eof {
			return s.coder.End()
		}
		if isDSCComment(line) {
			if err := s.coder.End(); err != nil {
				return errors.Wrap(err, "epsbody: compressing: close segment")
			}
			if err := s.write([]byte("\n")); err != nil {
				return err
			}
			return s.write(line)
		}
		if err := s.feed(line); err != nil {
			return err
		}
	}
}

func (s *Selector) feed(line []byte) error {
	for _, b := range line {
		if err := s.coder.Feed(b); err != nil {
			return errors.Wrap(err, "epsbody: feed")
		}
	}
	return nil
}

func (s *Selector) write(p []byte) error {
	if _, err := s.w.Write(p); err != nil {
		return errors.Wrap(err, "epsbody: write")
	}
	return nil
}

func (s *Selector) writeAll(lines [][]byte) error {
	for _, l := range lines {
		if err := s.write(l); err != nil {
			return err
		}
	}
	return nil
}

// readLine returns the next physical line, terminator included, capped at
// MaxLineLength bytes. eof is true only when no bytes at all were read.
func (s *Selector) readLine() (line []byte, eof bool, err error) {
	buf := make([]byte, 0, 128)
	for {
		b, rerr := s.r.ReadByte()
		if rerr != nil {
			if rerr == io.EOF {
				if len(buf) == 0 {
					return nil, true, nil
				}
				return buf, false, nil
			}
			return nil, false, errors.Wrap(rerr, "epsbody: readLine")
		}
		buf = append(buf, b)
		if b == '\n' || len(buf) == MaxLineLength {
			return buf, false, nil
		}
	}
}
