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

package lzwtree

import "github.com/zprime/epscompress/internal/ascii85pack"

// prefix is the current longest dictionary string that is a suffix of the
// bytes consumed so far but not yet emitted. A zero value means "no
// prefix yet" — a tagged Some/None rather than the original C code's -1
// crammed into an unsigned field.
type prefix struct {
	code  uint16
	valid bool
}

// Coder is an LZW encoder targeting the
// PostScript LZWDecode filter's parameters: 8-bit input alphabet, codes
// 256/257 reserved for CLEAR-TABLE/END-OF-DATA, first dynamic code 258,
// initial width 9 bits, early-change width bump at 12 bits max.
//
// A Coder is driven Begin, then Feed for every input byte, then End, once
// per compressed segment; the same Coder may be used for several segments
// in turn. It pushes codes to a Packer and never mutates the packer's state any other
// way.
type Coder struct {
	dict   dictionary
	prefix prefix
	width  uint
	maxFor uint // maxFor is 1<<width: the next-free-code value that triggers a bump/reset
	next   uint16
	p      *ascii85pack.Packer
}

// NewCoder returns a Coder that writes codes to p.
func NewCoder(p *ascii85pack.Packer) *Coder {
	return &Coder{p: p}
}

// Begin resets the dictionary and emits CLEAR-TABLE, starting a new
// compressed segment. It must be called exactly once before the first
// Feed of a segment. The reset Feed performs on 12-bit overflow does not
// go through Begin: it emits CLEAR-TABLE and resets the dictionary but
// keeps the current prefix.
func (c *Coder) Begin() error {
	c.resetState()
	c.prefix = prefix{}
	return c.emit(ClearTable)
}

func (c *Coder) resetState() {
	c.dict.reset()
	c.width = MinWidth
	c.maxFor = 1 << MinWidth
	c.next = FirstFreeCode
}

// emit pushes code to the packer at the coder's current width.
func (c *Coder) emit(code uint16) error {
	return c.p.Push(uint32(code), c.width)
}

// Feed consumes one input byte, extending the current prefix through the
// dictionary or emitting it and starting a new one.
func (c *Coder) Feed(b byte) error {
	if !c.prefix.valid {
		c.prefix = prefix{code: uint16(b), valid: true}
		return nil
	}

	code, found, parent, slot := c.dict.find(c.prefix.code, b)
	if found {
		c.prefix.code = code
		return nil
	}
	return c.notInDictionary(parent, slot, b)
}

// notInDictionary installs a new dictionary entry for (prefix ∘ b),
// emits the code for the prefix seen so far, adopts b as the new prefix,
// and applies the width-bump / dictionary-reset policy.
func (c *Coder) notInDictionary(parent uint16, slot branch, b byte) error {
	code := c.next
	c.dict.insert(parent, slot, code, b)
	c.next++

	if err := c.emit(c.prefix.code); err != nil {
		return err
	}
	c.prefix = prefix{code: uint16(b), valid: true}

	if uint(c.next) != c.maxFor {
		return nil
	}

	if c.width == MaxWidth {
		if err := c.emit(ClearTable); err != nil {
			return err
		}
		keep := c.prefix
		c.resetState()
		c.prefix = keep
		return nil
	}

	c.width++
	c.maxFor = 1 << c.width
	return nil
}

// End emits the pending prefix (if any), then END-OF-DATA, then asks the
// packer to drain and write its end-of-data marker. It performs no
// dictionary mutation — unlike the original C tool's reuse of its
// "string not in dictionary" helper with sentinel arguments (0, 0), which
// only avoided corrupting the table because code 0 is never a valid
// prefix.
func (c *Coder) End() error {
	if c.prefix.valid {
		if err := c.emit(c.prefix.code); err != nil {
			return err
		}
		c.prefix = prefix{}
	}
	if err := c.emit(EndOfData); err != nil {
		return err
	}
	return c.p.Finish()
}
