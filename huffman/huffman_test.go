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

package huffman

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/szeka9/bitchain/bitstream"
)

func bitsOf(s string) []bool {
	out := make([]bool, len(s))
	for i, c := range s {
		out[i] = c == '1'
	}
	return out
}

// skewedText builds an 8-bit-symbol training stream heavily skewed toward a
// handful of byte values, so the trained trie has genuinely varied code
// lengths to exercise.
func skewedText() *bitstream.BitStream {
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

func TestEncodeDecodeRoundTrip(t *testing.T) {
	training := skewedText()
	h := New(8)
	require.NoError(t, h.Setup(training))
	require.True(t, h.IsValid())

	encoded := h.Encode(training)
	decoded := h.Decode(encoded)
	assert.True(t, training.Equal(decoded))
}

func TestCompressesSkewedAlphabet(t *testing.T) {
	training := skewedText()
	h := New(8)
	require.NoError(t, h.Setup(training))

	encoded := h.Encode(training)
	assert.Less(t, encoded.Len(), training.Len())
}

func TestPrefixFreeCodes(t *testing.T) {
	training := skewedText()
	h := New(8)
	require.NoError(t, h.Setup(training))

	codes := make([]string, 0, len(h.symbolCode))
	for _, c := range h.symbolCode {
		codes = append(codes, c.String())
	}

	for i := range codes {
		for j := range codes {
			if i == j {
				continue
			}
			assert.False(t, strings.HasPrefix(codes[j], codes[i]),
				"%q is a prefix of %q", codes[i], codes[j])
		}
	}
}

func TestSingleSymbolAlphabet(t *testing.T) {
	training := bitstream.NewFromBits(bitsOf("0000000000000000"))
	h := New(8)
	require.NoError(t, h.Setup(training))
	require.True(t, h.IsValid())

	encoded := h.Encode(training)
	assert.Equal(t, 2, encoded.Len())

	decoded := h.Decode(encoded)
	assert.True(t, training.Equal(decoded))
}

func TestEntropyAndAvgCodeLengthComputed(t *testing.T) {
	training := skewedText()
	h := New(8)
	require.NoError(t, h.Setup(training))

	assert.Greater(t, h.Entropy(), 0.0)
	assert.Greater(t, h.AvgCodeLength(), 0.0)
	// Average code length should be at least the entropy (Shannon bound).
	assert.GreaterOrEqual(t, h.AvgCodeLength(), h.Entropy())
}

func TestEncodeMisalignedInputReturnsEmpty(t *testing.T) {
	training := skewedText()
	h := New(8)
	require.NoError(t, h.Setup(training))

	misaligned := bitstream.NewFromBits(bitsOf("101"))
	assert.Equal(t, 0, h.Encode(misaligned).Len())
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	training := skewedText()
	h := New(8)
	require.NoError(t, h.Setup(training))

	descriptor, err := h.Serialize()
	require.NoError(t, err)

	h2 := Deserialize(descriptor)
	require.True(t, h2.IsValid())

	for sym, code := range h.symbolCode {
		code2, ok := h2.symbolCode[sym]
		require.True(t, ok, "symbol %d missing after deserialize", sym)
		assert.True(t, code.Equal(code2))
	}

	encoded := h.Encode(training)
	assert.True(t, encoded.Equal(h2.Encode(training)))
	assert.True(t, training.Equal(h2.Decode(encoded)))
}

func TestDeserializeShortInputIsInvalid(t *testing.T) {
	h := Deserialize(bitstream.NewFromBits(bitsOf("00")))
	assert.False(t, h.IsValid())
}

func TestDeserializeWrongIDIsInvalid(t *testing.T) {
	bad := bitstream.FromUint(0xFFFF, 16)
	h := Deserialize(bad)
	assert.False(t, h.IsValid())
}

func TestInvalidStageEncodesAndDecodesToEmpty(t *testing.T) {
	h := New(8)
	assert.Equal(t, 0, h.Encode(bitstream.NewFromBits(bitsOf("00000000"))).Len())
	assert.Equal(t, 0, h.Decode(bitstream.NewFromBits(bitsOf("0"))).Len())
}
