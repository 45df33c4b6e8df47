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

package chain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/szeka9/bitchain"
	"github.com/szeka9/bitchain/bitstream"
	"github.com/szeka9/bitchain/huffman"
	"github.com/szeka9/bitchain/markov"
	"github.com/szeka9/bitchain/padder"
)

func bitsOf(s string) []bool {
	out := make([]bool, len(s))
	for i, c := range s {
		out[i] = c == '1'
	}
	return out
}

func sampleTraining() *bitstream.BitStream {
	s := strings.Repeat("aaaaaaaa", 20) + strings.Repeat("bbbb", 10) + "cd"
	bits := make([]bool, 0, len(s)*8)

	for i := 0; i < len(s); i++ {
		c := s[i]
		for j := 0; j < 8; j++ {
			bits = append(bits, (c>>uint(7-j))&1 != 0)
		}
	}

	return bitstream.NewFromBits(bits)
}

func newPipeline() *Chain {
	return New(
		markov.New(markov.Sentinel, 8, 0.4),
		huffman.New(8),
		padder.New(padder.WholeBytes),
	)
}

func TestChainTrainsLazilyAndRoundTrips(t *testing.T) {
	training := sampleTraining()
	c := newPipeline()

	encoded := c.Encode(training)
	require.True(t, c.IsValid())

	decoded := c.Decode(encoded)
	assert.True(t, training.Equal(decoded))
}

func TestDecodeFailsOnUntrainedChain(t *testing.T) {
	c := newPipeline()
	_, err := c.DecodeChecked(bitstream.NewFromBits(bitsOf("1010")))
	require.Error(t, err)
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	training := sampleTraining()
	c := newPipeline()
	c.Encode(training)

	descriptor, err := c.Serialize()
	require.NoError(t, err)

	c2 := Deserialize(descriptor)
	require.True(t, c2.IsValid())

	encoded := c.Encode(training)
	encoded2 := c2.Encode(training)
	assert.True(t, encoded.Equal(encoded2))

	decoded := c2.Decode(encoded)
	assert.True(t, training.Equal(decoded))
}

func TestNestedChain(t *testing.T) {
	training := sampleTraining()
	inner := New(markov.New(markov.Sentinel, 8, 0.4), huffman.New(8))
	outer := New(inner, padder.New(padder.WholeBytes))

	encoded := outer.Encode(training)
	require.True(t, outer.IsValid())

	decoded := outer.Decode(encoded)
	assert.True(t, training.Equal(decoded))

	descriptor, err := outer.Serialize()
	require.NoError(t, err)

	outer2 := Deserialize(descriptor)
	require.True(t, outer2.IsValid())
	assert.True(t, training.Equal(outer2.Decode(outer2.Encode(training))))
}

func TestDeserializeShortInputIsInvalid(t *testing.T) {
	c := Deserialize(bitstream.NewFromBits(bitsOf("00")))
	assert.False(t, c.IsValid())
}

func TestDeserializeWrongIDIsInvalid(t *testing.T) {
	bad := bitstream.FromUint(0xFFFF, 16)
	c := Deserialize(bad)
	assert.False(t, c.IsValid())
}

type recordingListener struct {
	events []*bitchain.Event
}

func (this *recordingListener) ProcessEvent(evt *bitchain.Event) {
	this.events = append(this.events, evt)
}

func TestChainEmitsStageEventsWithNamesWhenListening(t *testing.T) {
	training := sampleTraining()
	c := newPipeline()

	l := &recordingListener{}
	c.AddListener(l)
	c.SetSliceID(3)

	c.Encode(training)
	require.NotEmpty(t, l.events)

	for _, evt := range l.events {
		assert.Equal(t, bitchain.EvtStageEncode, evt.Type())
		assert.Equal(t, 3, evt.SliceID())
		assert.Contains(t, evt.String(), `"stage":`)
	}

	var rendered []string
	for _, evt := range l.events {
		rendered = append(rendered, evt.String())
	}
	assert.Contains(t, strings.Join(rendered, "\n"), `"stage":"markov"`)
}
