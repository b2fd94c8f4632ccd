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

// Package ascii85pack packs variable-width integer codes into Adobe
// ASCII85 text, wrapping output at a fixed column width.
//
// It is the leaf of the encoder's dependency chain: the LZW coder pushes
// codes in here and never otherwise touches this package's state.
package ascii85pack

import (
	"io"

	"github.com/pkg/errors"
)

// LineWidth is the column at which output wraps with a newline.
const LineWidth = 75

// eod is the two-character Adobe ASCII85 end-of-data marker.
const eod = "~>"

// Packer accumulates variable-width codes MSB-first into a 32-bit group
// and emits printable 5-tuples (or a single 'z' for an all-zero group).
//
// The accumulator is kept as the low bits of a uint64 so that up to two
// pending code widths (at most 24 bits) can sit alongside a still-unDrained
// 32-bit group without overflow; Push drains down to fewer than 32 valid
// bits before returning.
type Packer struct {
	w      io.Writer
	acc    uint64
	nBits  uint
	column int
	err    error
}

// New returns a Packer that writes wrapped ASCII85 text to w.
func New(w io.Writer) *Packer {
	return &Packer{w: w}
}

// Push integrates the low width bits of code (width in 1..32, MSB-first
// on the wire) into the accumulator, draining and emitting every full
// 32-bit group it completes.
func (p *Packer) Push(code uint32, width uint) error {
	if p.err != nil {
		return p.err
	}
	p.acc = (p.acc << width) | (uint64(code) & (uint64(1)<<width - 1))
	p.nBits += width
	for p.nBits >= 32 {
		shift := p.nBits - 32
		group := uint32(p.acc >> shift)
		p.acc &= (uint64(1) << shift) - 1
		p.nBits = shift
		if err := p.emitGroup(group); err != nil {
			p.err = err
			return err
		}
	}
	return nil
}

// emitGroup writes the five-character encoding of a full 32-bit group,
// or the single-character shorthand 'z' when the group is all zero.
func (p *Packer) emitGroup(v uint32) error {
	if v == 0 {
		return p.putc('z')
	}
	var buf [5]byte
	for i := 4; i >= 0; i-- {
		buf[i] = byte(v%85) + 33
		v /= 85
	}
	for _, c := range buf {
		if err := p.putc(c); err != nil {
			return err
		}
	}
	return nil
}

// Finish drains any remaining partial group (0..31 bits), zero-padding it
// up to a full group the way Adobe's ASCII85 spec requires for trailing
// bytes, then writes the "~>" end-of-data marker.
func (p *Packer) Finish() error {
	if p.err != nil {
		return p.err
	}
	if p.nBits > 0 {
		// n trailing bytes are written as the first n+1 characters of
		// the zero-padded group.
		numBytes := int((p.nBits+7)/8) + 1
		v := uint32(p.acc << (32 - p.nBits))
		var buf [5]byte
		for i := 4; i >= 0; i-- {
			buf[i] = byte(v%85) + 33
			v /= 85
		}
		for i := 0; i < numBytes; i++ {
			if err := p.putc(buf[i]); err != nil {
				p.err = err
				return err
			}
		}
	}
	p.acc, p.nBits, p.column = 0, 0, 0
	if _, err := io.WriteString(p.w, eod); err != nil {
		p.err = errors.Wrap(err, "ascii85pack: Finish: write eod")
		return p.err
	}
	return nil
}

func (p *Packer) putc(c byte) error {
	if _, err := p.w.Write([]byte{c}); err != nil {
		return errors.Wrap(err, "ascii85pack: putc")
	}
	p.column++
	if p.column == LineWidth {
		if _, err := p.w.Write([]byte{'\n'}); err != nil {
			return errors.Wrap(err, "ascii85pack: putc: newline")
		}
		p.column = 0
	}
	return nil
}
