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

// Package bitchain implements a pluggable, serializable bit-stream
// compression pipeline: a padding stage, a first-order Markov substitution
// encoder and a trie-based Huffman transducer, composed by an encoder chain
// and driven in parallel by a sliced runner.
package bitchain

import (
	"github.com/szeka9/bitchain/bitstream"
)

const (
	ErrMissingParam    = 1
	ErrBlockSize       = 2
	ErrInvalidStage    = 3
	ErrCreateEncoder   = 4
	ErrCreateDecoder   = 5
	ErrOutputIsDir     = 6
	ErrOverwriteFile   = 7
	ErrCreateFile      = 8
	ErrOpenFile        = 10
	ErrReadFile        = 11
	ErrWriteFile       = 12
	ErrProcessSlice    = 13
	ErrMisalignedInput = 14
	ErrInvalidFile     = 15
	ErrDeserialization = 16
	ErrUnknown         = 127
)

// StageID identifies the variant of a serialized stage descriptor. It is
// always the first 16 bits (LSB-first) of a stage's on-disk representation.
type StageID uint16

const (
	ChainID   StageID = 0x0000
	HuffmanID StageID = 0x0001
	MarkovID  StageID = 0x0002
	PadderID  StageID = 0x0003
)

// Stage is a reversible bit transformer with a trainable parameter set.
// setup/reset mutate internal state; decode/serialize are pure functions of
// that state once IsValid reports true. Encode's output likewise depends only
// on that state and its input, but a Padder also records how many bits its
// last Encode appended, which its Serialize then writes out.
type Stage interface {
	// Setup trains the stage's parameters from a sample of bits. Idempotent
	// after Reset.
	Setup(training *bitstream.BitStream) error

	// Reset discards trained parameters, returning the stage to the state
	// it had before any Setup call.
	Reset()

	// IsValid reports whether the stage has a usable trained state.
	IsValid() bool

	// EncoderID returns the stage's on-disk tag.
	EncoderID() uint16

	// Encode's output depends only on the stage's trained parameters and src.
	Encode(src *bitstream.BitStream) *bitstream.BitStream

	// Decode inverts Encode under the stage's stored parameters.
	Decode(src *bitstream.BitStream) *bitstream.BitStream

	// Serialize produces the stage's descriptor. Requires IsValid.
	Serialize() (*bitstream.BitStream, error)
}

// Listener receives progress events emitted around slice and stage
// boundaries. The CLI subscribes one that logs each event at debug level.
type Listener interface {
	ProcessEvent(evt *Event)
}
