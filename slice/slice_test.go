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

package slice

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/szeka9/bitchain"
	"github.com/szeka9/bitchain/bitstream"
	"github.com/szeka9/bitchain/chain"
	"github.com/szeka9/bitchain/huffman"
	"github.com/szeka9/bitchain/markov"
	"github.com/szeka9/bitchain/padder"
)

func sampleInput(n int) *bitstream.BitStream {
	s := strings.Repeat("the quick brown fox jumps over the lazy dog. ", n)
	bits := make([]bool, 0, len(s)*8)

	for i := 0; i < len(s); i++ {
		c := s[i]
		for j := 0; j < 8; j++ {
			bits = append(bits, (c>>uint(7-j))&1 != 0)
		}
	}

	return bitstream.NewFromBits(bits)
}

func newChain() *chain.Chain {
	return chain.New(
		markov.New(markov.Sentinel, 8, 0.4),
		huffman.New(8),
		padder.New(padder.WholeBytes),
	)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	input := sampleInput(20)
	driver := New(4, newChain)

	encoded, err := driver.Encode(context.Background(), input)
	require.NoError(t, err)

	decoded, err := driver.Decode(context.Background(), encoded)
	require.NoError(t, err)

	// The driver truncates to a multiple of K slices of equal byte length;
	// compare against the same truncated view of the input.
	sliceLen := input.Len() / 4
	truncated := input.Slice(0, sliceLen*4)

	assert.True(t, truncated.Equal(decoded))
}

func TestDecodeRejectsWrongSliceCount(t *testing.T) {
	input := sampleInput(20)
	encoder := New(4, newChain)
	encoded, err := encoder.Encode(context.Background(), input)
	require.NoError(t, err)

	decoder := New(2, newChain)
	_, err = decoder.Decode(context.Background(), encoded)
	require.Error(t, err)
}

func TestEncodeRejectsZeroSlices(t *testing.T) {
	driver := New(0, newChain)
	_, err := driver.Encode(context.Background(), sampleInput(5))
	require.Error(t, err)
}

func TestSingleSlice(t *testing.T) {
	input := sampleInput(10)
	driver := New(1, newChain)

	encoded, err := driver.Encode(context.Background(), input)
	require.NoError(t, err)

	decoded, err := driver.Decode(context.Background(), encoded)
	require.NoError(t, err)

	assert.True(t, input.Equal(decoded))
}

// randomBinaryInput returns a deterministic pseudo-random byte stream of at
// least minBytes bytes, packed MSB-first into a BitStream. Bytes stay below
// 0x80 and roughly half of them repeat their predecessor, so every slice
// leaves byte values unused and has successors above the Markov threshold;
// uniformly random bytes would leave the Markov stage untrainable.
func randomBinaryInput(minBytes int) *bitstream.BitStream {
	data := make([]byte, minBytes)
	r := rand.New(rand.NewSource(1))
	r.Read(data)

	for i := range data {
		data[i] &= 0x7F
		if i > 0 && data[i]&1 == 0 {
			data[i] = data[i-1]
		}
	}

	return bitstream.Unpack(data, len(data)*8)
}

func TestEncodeDecodeRoundTripBinaryK8(t *testing.T) {
	input := randomBinaryInput(64 * 1024)
	driver := New(8, newChain)

	encoded, err := driver.Encode(context.Background(), input)
	require.NoError(t, err)

	decoded, err := driver.Decode(context.Background(), encoded)
	require.NoError(t, err)

	sliceLen := input.Len() / 8
	truncated := input.Slice(0, sliceLen*8)

	assert.True(t, truncated.Equal(decoded))
}

type recordingListener struct {
	events []*bitchain.Event
}

func (this *recordingListener) ProcessEvent(evt *bitchain.Event) {
	this.events = append(this.events, evt)
}

func TestDriverEmitsPipelineAndSliceEvents(t *testing.T) {
	input := sampleInput(20)
	driver := New(4, newChain)

	l := &recordingListener{}
	driver.AddListener(l)

	encoded, err := driver.Encode(context.Background(), input)
	require.NoError(t, err)
	require.NotEmpty(t, l.events)

	var sawPipelineStart, sawPipelineEnd, sawSliceStart, sawSliceEnd, sawStage bool

	for _, evt := range l.events {
		switch evt.Type() {
		case bitchain.EvtPipelineStart:
			sawPipelineStart = true
		case bitchain.EvtPipelineEnd:
			sawPipelineEnd = true
		case bitchain.EvtSliceStart:
			sawSliceStart = true
		case bitchain.EvtSliceEnd:
			sawSliceEnd = true
		case bitchain.EvtStageEncode:
			sawStage = true
		}
	}

	assert.True(t, sawPipelineStart)
	assert.True(t, sawPipelineEnd)
	assert.True(t, sawSliceStart)
	assert.True(t, sawSliceEnd)
	assert.True(t, sawStage)

	l.events = nil
	_, err = driver.Decode(context.Background(), encoded)
	require.NoError(t, err)
	require.NotEmpty(t, l.events)
}
