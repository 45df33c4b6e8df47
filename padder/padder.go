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

// Package padder implements the byte/even-byte alignment stage: it appends
// the minimum number of zero bits required to reach a target alignment and
// records the exact count so decode can strip them back off.
package padder

import (
	"github.com/szeka9/bitchain/bitstream"
)

// Mode selects the target alignment.
type Mode uint8

const (
	// None is the zero value; a Padder in this mode is never valid.
	None Mode = iota
	// WholeBytes pads to the next multiple of 8 bits.
	WholeBytes
	// EvenBytes pads to the next multiple of 16 bits (an even byte count).
	EvenBytes
	// OddBytes pads to the next odd byte count.
	OddBytes
)

// EncoderID is the stage's on-disk tag.
const EncoderID uint16 = 0x0003

// Padder is a Stage that aligns a BitStream to a byte boundary.
type Padder struct {
	mode      Mode
	addedBits uint32
	trained   bool
}

// New creates a Padder in the given mode. The mode is fixed at construction;
// Setup never changes it, mirroring the deserialize path where mode comes
// from the wire.
func New(mode Mode) *Padder {
	return &Padder{mode: mode}
}

// Setup trains the stage. Padder carries no data-dependent parameters, so
// Setup only resets addedBits and marks the stage ready.
func (this *Padder) Setup(training *bitstream.BitStream) error {
	this.Reset()
	return nil
}

// Reset clears the trained added-bit count.
func (this *Padder) Reset() {
	this.addedBits = 0
	this.trained = true
}

// IsValid reports whether the mode is anything but None.
func (this *Padder) IsValid() bool {
	return this.mode != None
}

// Mode returns the padder's alignment mode.
func (this *Padder) Mode() Mode {
	return this.mode
}

// AddedBits returns the number of zero bits appended by the last Encode.
func (this *Padder) AddedBits() uint32 {
	return this.addedBits
}

func paddingLen(mode Mode, n int) int {
	switch mode {
	case WholeBytes:
		if n%8 != 0 {
			return 8 - n%8
		}
		return 0

	case EvenBytes:
		if n%16 != 0 {
			return 16 - n%16
		}
		return 0

	case OddBytes:
		pad := 0
		if n%8 != 0 {
			pad = 8 - n%8
		}

		if (n+pad)%16 == 0 {
			pad += 8
		}

		return pad

	default:
		return 0
	}
}

// Encode appends the minimum number of zero bits required by the mode and
// records the exact count appended in AddedBits. Returns an empty stream if
// the stage has not been given a recognized mode.
func (this *Padder) Encode(src *bitstream.BitStream) *bitstream.BitStream {
	if !this.IsValid() {
		this.addedBits = 0
		return bitstream.New()
	}

	out := src.Clone()
	pad := paddingLen(this.mode, out.Len())
	out.Append(bitstream.FromUint(0, pad))
	this.addedBits = uint32(pad)

	return out
}

// Decode truncates the last AddedBits bits appended by Encode.
func (this *Padder) Decode(src *bitstream.BitStream) *bitstream.BitStream {
	if !this.IsValid() {
		return bitstream.New()
	}

	n := src.Len() - int(this.addedBits)
	if n < 0 {
		n = 0
	}

	return src.Slice(0, n)
}

// EncoderID returns the stage's on-disk tag.
func (this *Padder) EncoderID() uint16 {
	return EncoderID
}

// Serialize produces the descriptor [id:16][mode:8][added_bits:32].
func (this *Padder) Serialize() (*bitstream.BitStream, error) {
	out := bitstream.FromUint(uint64(EncoderID), 16)
	out.Append(bitstream.FromUint(uint64(this.mode), 8))
	out.Append(bitstream.FromUint(uint64(this.addedBits), 32))

	return out, nil
}

// Deserialize parses a descriptor produced by Serialize. On any malformed
// input (short data, unrecognized id, unrecognized mode) it returns a Padder
// with IsValid()==false rather than an error.
func Deserialize(data *bitstream.BitStream) *Padder {
	result := New(None)

	idx := 0
	if idx+16 > data.Len() {
		return result
	}

	id := data.Slice(idx, 16).ToUint()
	idx += 16

	if uint16(id) != EncoderID {
		return result
	}

	if idx+8 > data.Len() {
		return result
	}

	mode := Mode(data.Slice(idx, 8).ToUint())
	idx += 8

	if mode > OddBytes {
		return result
	}

	if idx+32 > data.Len() {
		return result
	}

	addedBits := uint32(data.Slice(idx, 32).ToUint())

	result.mode = mode
	result.addedBits = addedBits
	result.trained = true

	return result
}
