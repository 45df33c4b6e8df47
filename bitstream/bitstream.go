/*
Copyright 2011-2017 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package bitstream implements BitStream, an ordered, in-memory sequence of
// bits used throughout the encoder pipeline as the unit of data exchanged
// between stages. Bit 0 is the least significant bit of any integer the
// stream is converted from or to; see FromUint/ToUint.
package bitstream

import (
	"strings"
)

// BitStream is an ordered, finite sequence of bits. The zero value is an
// empty stream ready to use.
type BitStream struct {
	bits []bool
}

// New creates an empty BitStream.
func New() *BitStream {
	return &BitStream{}
}

// NewFromBits wraps an existing bit slice without copying it. Callers must
// not mutate b after the call.
func NewFromBits(b []bool) *BitStream {
	return &BitStream{bits: b}
}

// Len returns the number of bits in the stream.
func (this *BitStream) Len() int {
	if this == nil {
		return 0
	}
	return len(this.bits)
}

// At returns the bit at index i. Panics if i is out of range.
func (this *BitStream) At(i int) bool {
	return this.bits[i]
}

// Bits returns the underlying bit slice. Callers must treat it as read-only.
func (this *BitStream) Bits() []bool {
	if this == nil {
		return nil
	}
	return this.bits
}

// AppendBit appends a single bit to the end of the stream.
func (this *BitStream) AppendBit(b bool) {
	this.bits = append(this.bits, b)
}

// Append appends another stream's bits, in order, to the end of this one.
func (this *BitStream) Append(other *BitStream) {
	if other == nil {
		return
	}
	this.bits = append(this.bits, other.bits...)
}

// Slice returns a new BitStream of length n whose bit i equals the source's
// bit start+i. Bits beyond the source's length are zero-filled. Never fails.
func (this *BitStream) Slice(start, n int) *BitStream {
	out := make([]bool, n)

	for i := 0; i < n; i++ {
		idx := start + i

		if idx >= 0 && idx < len(this.bits) {
			out[i] = this.bits[idx]
		}
	}

	return &BitStream{bits: out}
}

// Equal reports whether two streams have the same length and bit contents.
func (this *BitStream) Equal(other *BitStream) bool {
	if other == nil {
		return this.Len() == 0
	}

	if len(this.bits) != len(other.bits) {
		return false
	}

	for i, b := range this.bits {
		if b != other.bits[i] {
			return false
		}
	}

	return true
}

// CountZeros returns the number of 0 bits in the stream.
func (this *BitStream) CountZeros() int {
	count := 0

	for _, b := range this.bits {
		if !b {
			count++
		}
	}

	return count
}

// FindLongestZeroRun returns the start index of the longest run of
// consecutive zero bits. Ties are broken by the earliest start index. If the
// stream contains no zero bit, it returns the stream's length.
func (this *BitStream) FindLongestZeroRun() int {
	bestStart := this.Len()
	bestLen := 0

	runStart := -1
	runLen := 0

	for i, b := range this.bits {
		if b {
			runStart = -1
			runLen = 0
			continue
		}

		if runStart < 0 {
			runStart = i
			runLen = 0
		}

		runLen++

		if runLen > bestLen {
			bestLen = runLen
			bestStart = runStart
		}
	}

	return bestStart
}

// ToUint interprets the stream as an unsigned integer, LSB-first: bit i of
// the stream is bit i of the result. The stream must fit in 64 bits; wider
// streams produce undefined results and must be avoided by the caller.
func (this *BitStream) ToUint() uint64 {
	var n uint64

	for i, b := range this.bits {
		if b {
			n |= uint64(1) << uint(i)
		}
	}

	return n
}

// FromUint converts an unsigned integer to a BitStream of the given width,
// LSB-first: bit i of the result is bit i of n. If width is 0, the minimum
// width needed to represent n is used (ceil(log2(n+1)); 0 produces an empty
// stream).
func FromUint(n uint64, width int) *BitStream {
	if width == 0 {
		width = minWidth(n)
	}

	bits := make([]bool, width)

	for i := 0; i < width; i++ {
		bits[i] = (n>>uint(i))&1 != 0
	}

	return &BitStream{bits: bits}
}

func minWidth(n uint64) int {
	w := 0

	for n > 0 {
		w++
		n >>= 1
	}

	return w
}

// Hash returns a deterministic hash that depends on both the stream's length
// and its bit contents, so that streams of different lengths carrying the
// same bit pattern (e.g. "1" and "01") never collide solely due to padding.
func (this *BitStream) Hash() uint64 {
	const offset64 = 14695981039346656037
	const prime64 = 1099511628211

	h := uint64(offset64)
	h ^= uint64(this.Len())
	h *= prime64

	var word uint64
	bitsInWord := 0

	for _, b := range this.bits {
		if b {
			word |= uint64(1) << uint(bitsInWord)
		}

		bitsInWord++

		if bitsInWord == 64 {
			h ^= word
			h *= prime64
			word = 0
			bitsInWord = 0
		}
	}

	if bitsInWord > 0 {
		h ^= word
		h *= prime64
	}

	return h
}

// String renders the stream as a sequence of '0'/'1' characters, bit 0
// first. Intended for --demo output and test failure messages.
func (this *BitStream) String() string {
	var b strings.Builder
	b.Grow(len(this.bits))

	for _, bit := range this.bits {
		if bit {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}

	return b.String()
}

// Reverse returns a new stream with the bit order reversed: bit i of the
// result is bit (len-1-i) of the source. Used by the Huffman table codec,
// which stores its offset field in reversed order to keep the zero-run
// separator between fields unambiguous.
func (this *BitStream) Reverse() *BitStream {
	n := len(this.bits)
	out := make([]bool, n)

	for i, b := range this.bits {
		out[n-1-i] = b
	}

	return &BitStream{bits: out}
}

// Clone returns an independent copy of the stream.
func (this *BitStream) Clone() *BitStream {
	out := make([]bool, len(this.bits))
	copy(out, this.bits)
	return &BitStream{bits: out}
}
