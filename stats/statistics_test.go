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

package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/szeka9/bitchain/bitstream"
	"github.com/szeka9/bitchain/kerrors"
)

func bitsOf(s string) []bool {
	out := make([]bool, len(s))
	for i, c := range s {
		out[i] = c == '1'
	}
	return out
}

func TestFrequencyRejectsMisalignedInput(t *testing.T) {
	bs := bitstream.NewFromBits(bitsOf("101"))
	_, err := Frequency(bs, 2)
	require.Error(t, err)
	assert.True(t, kerrors.Is(err, kerrors.MisalignedInput))
}

func TestFrequencyUniform(t *testing.T) {
	// four 2-bit symbols: 00, 01, 10, 11, each once
	bs := bitstream.NewFromBits(bitsOf("00011011"))
	freqs, err := Frequency(bs, 2)
	require.NoError(t, err)
	assert.Len(t, freqs, 4)

	for sym, p := range freqs {
		assert.InDelta(t, 0.25, p, 1e-9, "symbol %d", sym)
	}
}

func TestFrequencySkewed(t *testing.T) {
	// symbols (2 bits, LSB-first within symbol): 00 00 00 01 -> three zeros, one "10"
	bs := bitstream.NewFromBits(bitsOf("00000001"))
	freqs, err := Frequency(bs, 2)
	require.NoError(t, err)

	zero := bitstream.NewFromBits(bitsOf("00")).ToUint()
	assert.InDelta(t, 0.75, freqs[zero], 1e-9)
}

func TestFrequencyEmpty(t *testing.T) {
	bs := bitstream.New()
	freqs, err := Frequency(bs, 4)
	require.NoError(t, err)
	assert.Empty(t, freqs)
}

func TestComputeTransitionsRejectsMisalignedInput(t *testing.T) {
	bs := bitstream.NewFromBits(bitsOf("10101"))
	_, err := ComputeTransitions(bs, 2)
	require.Error(t, err)
	assert.True(t, kerrors.Is(err, kerrors.MisalignedInput))
}

func TestComputeTransitionsFirstSymbolSeedsPrev(t *testing.T) {
	// single symbol: the only transition recorded is (sym, sym)
	bs := bitstream.NewFromBits(bitsOf("01"))
	trans, err := ComputeTransitions(bs, 2)
	require.NoError(t, err)

	sym := bitstream.NewFromBits(bitsOf("01")).ToUint()
	require.Contains(t, trans, sym)
	assert.Equal(t, 1, trans[sym][sym])
}

func TestComputeTransitionsSequence(t *testing.T) {
	// three 2-bit symbols: 00 -> 01 -> 00
	bs := bitstream.NewFromBits(bitsOf("000100"))
	trans, err := ComputeTransitions(bs, 2)
	require.NoError(t, err)

	s00 := bitstream.NewFromBits(bitsOf("00")).ToUint()
	s01 := bitstream.NewFromBits(bitsOf("01")).ToUint()

	// seed (00,00) + real (00,01) + real (01,00)
	assert.Equal(t, 1, trans[s00][s00])
	assert.Equal(t, 1, trans[s00][s01])
	assert.Equal(t, 1, trans[s01][s00])
}

func TestComputeTransitionsEmpty(t *testing.T) {
	bs := bitstream.New()
	trans, err := ComputeTransitions(bs, 3)
	require.NoError(t, err)
	assert.Empty(t, trans)
}
