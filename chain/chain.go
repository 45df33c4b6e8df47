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

// Package chain implements EncoderChain: an ordered composition of stages
// that trains lazily on first use during encode and tears itself down in
// reverse during decode.
package chain

import (
	"time"

	"github.com/szeka9/bitchain"
	"github.com/szeka9/bitchain/bitstream"
	"github.com/szeka9/bitchain/framing"
	"github.com/szeka9/bitchain/huffman"
	"github.com/szeka9/bitchain/kerrors"
	"github.com/szeka9/bitchain/markov"
	"github.com/szeka9/bitchain/padder"
)

// EncoderID is the stage's on-disk tag.
const EncoderID uint16 = 0x0000

// Chain is a Stage composed of other stages, applied in order on encode and
// unwound in reverse on decode. Stages stored here are always kept in
// encode order; Decode and Serialize derive their own orderings from it.
type Chain struct {
	stages    []bitchain.Stage
	listeners []bitchain.Listener
	sliceID   int
}

// New creates a Chain that applies stages in the given order on Encode. The
// chain is not associated with any slice until SetSliceID is called.
func New(stages ...bitchain.Stage) *Chain {
	return &Chain{stages: stages, sliceID: -1}
}

// Stages returns the chain's stages in encode order. Callers must treat the
// slice as read-only.
func (this *Chain) Stages() []bitchain.Stage {
	return this.stages
}

// AddListener subscribes l to this chain's stage-boundary events.
func (this *Chain) AddListener(l bitchain.Listener) {
	this.listeners = append(this.listeners, l)
}

// SetSliceID tags events this chain emits with sliceID, letting a listener
// tell which slice a chain belongs to when the chain is driven by the
// sliced driver. A standalone chain need not call this.
func (this *Chain) SetSliceID(sliceID int) {
	this.sliceID = sliceID
}

func (this *Chain) emitStage(evtType int, s bitchain.Stage, size int64) {
	if len(this.listeners) == 0 {
		return
	}

	name := bitchain.StageName(bitchain.StageID(s.EncoderID()))
	evt := bitchain.NewEvent(evtType, this.sliceID, size, name, time.Time{})

	for _, l := range this.listeners {
		l.ProcessEvent(evt)
	}
}

// Setup eagerly trains every not-yet-valid stage by threading training
// through the chain once, exactly as Encode would.
func (this *Chain) Setup(training *bitstream.BitStream) error {
	_, err := this.EncodeChecked(training)
	return err
}

// Reset resets every stage in the chain.
func (this *Chain) Reset() {
	for _, s := range this.stages {
		s.Reset()
	}
}

// IsValid reports whether every stage in the chain is valid.
func (this *Chain) IsValid() bool {
	if len(this.stages) == 0 {
		return false
	}

	for _, s := range this.stages {
		if !s.IsValid() {
			return false
		}
	}

	return true
}

// EncoderID returns the stage's on-disk tag.
func (this *Chain) EncoderID() uint16 {
	return EncoderID
}

// EncodeChecked threads bits through the chain's stages in order. A stage
// that is not yet valid is trained on the current intermediate value exactly
// once; if it is still invalid afterward, encoding fails with InvalidStage.
func (this *Chain) EncodeChecked(bits *bitstream.BitStream) (*bitstream.BitStream, error) {
	current := bits

	for _, s := range this.stages {
		if !s.IsValid() {
			if err := s.Setup(current); err != nil {
				return nil, err
			}

			if !s.IsValid() {
				return nil, kerrors.New(kerrors.InvalidStage, "stage could not be trained on the fly")
			}
		}

		current = s.Encode(current)
		this.emitStage(bitchain.EvtStageEncode, s, int64(current.Len()))
	}

	return current, nil
}

// Encode satisfies the Stage interface; failures collapse to an empty
// stream, matching the invalid-stage failure convention used throughout the
// pipeline. Callers that need the failure reason should use EncodeChecked.
func (this *Chain) Encode(bits *bitstream.BitStream) *bitstream.BitStream {
	out, err := this.EncodeChecked(bits)
	if err != nil {
		return bitstream.New()
	}

	return out
}

// DecodeChecked threads bits through the chain's stages in reverse encode
// order. Every stage must already be valid; an untrained stage fails
// decoding with InvalidStage.
func (this *Chain) DecodeChecked(bits *bitstream.BitStream) (*bitstream.BitStream, error) {
	current := bits

	for i := len(this.stages) - 1; i >= 0; i-- {
		s := this.stages[i]

		if !s.IsValid() {
			return nil, kerrors.New(kerrors.InvalidStage, "stage is not trained")
		}

		current = s.Decode(current)
		this.emitStage(bitchain.EvtStageDecode, s, int64(current.Len()))
	}

	return current, nil
}

// Decode satisfies the Stage interface; see Encode for the failure
// convention.
func (this *Chain) Decode(bits *bitstream.BitStream) *bitstream.BitStream {
	out, err := this.DecodeChecked(bits)
	if err != nil {
		return bitstream.New()
	}

	return out
}

// Serialize writes each stage's descriptor, in reverse of encode order, as
// a framed list tagged with the chain's own id. Reversing here means
// Decode's reverse-order teardown can read the same list front-to-back.
func (this *Chain) Serialize() (*bitstream.BitStream, error) {
	if !this.IsValid() {
		return nil, kerrors.New(kerrors.InvalidStage, "chain has an untrained stage")
	}

	descriptors := make([]*bitstream.BitStream, len(this.stages))

	for i, s := range this.stages {
		d, err := s.Serialize()
		if err != nil {
			return nil, err
		}

		descriptors[len(this.stages)-1-i] = d
	}

	framed, err := framing.Serialize(descriptors, framing.CanonicalWidth)
	if err != nil {
		return nil, err
	}

	out := bitstream.FromUint(uint64(EncoderID), 16)
	out.Append(framed)

	return out, nil
}

// Deserialize parses a descriptor produced by Serialize. Any malformed
// input, or a descriptor tagged with an unrecognized stage id, yields a
// Chain with IsValid()==false rather than an error.
func Deserialize(data *bitstream.BitStream) *Chain {
	invalid := New()

	if 16 > data.Len() {
		return invalid
	}

	id := data.Slice(0, 16).ToUint()
	if uint16(id) != EncoderID {
		return invalid
	}

	rest := data.Slice(16, data.Len()-16)
	descriptors := framing.Deserialize(rest, framing.CanonicalWidth)

	decodeOrder := make([]bitchain.Stage, len(descriptors))

	for i, d := range descriptors {
		s, ok := dispatch(d)
		if !ok {
			return invalid
		}

		decodeOrder[i] = s
	}

	encodeOrder := make([]bitchain.Stage, len(decodeOrder))
	for i, s := range decodeOrder {
		encodeOrder[len(decodeOrder)-1-i] = s
	}

	return New(encodeOrder...)
}

func dispatch(descriptor *bitstream.BitStream) (bitchain.Stage, bool) {
	if descriptor.Len() < 16 {
		return nil, false
	}

	id := bitchain.StageID(descriptor.Slice(0, 16).ToUint())

	switch id {
	case bitchain.HuffmanID:
		s := huffman.Deserialize(descriptor)
		return s, s.IsValid()

	case bitchain.MarkovID:
		s := markov.Deserialize(descriptor)
		return s, s.IsValid()

	case bitchain.PadderID:
		s := padder.Deserialize(descriptor)
		return s, s.IsValid()

	case bitchain.ChainID:
		s := Deserialize(descriptor)
		return s, s.IsValid()

	default:
		return nil, false
	}
}
