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

// Package stats computes fixed-width symbol frequency and first-order
// transition statistics over a bitstream.BitStream, generalizing the
// teacher's byte-oriented order-0/order-1 histogram (Global.go's
// ComputeHistogram) to an arbitrary symbol width.
package stats

import (
	"github.com/szeka9/bitchain/bitstream"
	"github.com/szeka9/bitchain/kerrors"
)

// Frequencies maps a symbol, keyed by its LSB-first integer value, to its
// observed probability across the input.
type Frequencies map[uint64]float64

// Transitions maps a symbol to the observed counts of the symbol that
// immediately followed it.
type Transitions map[uint64]map[uint64]int

// Frequency computes the per-symbol occurrence probability of bits, treated
// as a sequence of symbolSize-bit symbols. bits.Len() must be a multiple of
// symbolSize.
func Frequency(bits *bitstream.BitStream, symbolSize int) (Frequencies, error) {
	n := bits.Len()

	if symbolSize <= 0 || n%symbolSize != 0 {
		return nil, kerrors.Newf(kerrors.MisalignedInput,
			"bit length %d is not a multiple of symbol size %d", n, symbolSize)
	}

	if n == 0 {
		return Frequencies{}, nil
	}

	counts := map[uint64]int{}
	numSymbols := n / symbolSize

	for i := 0; i < n; i += symbolSize {
		sym := bits.Slice(i, symbolSize).ToUint()
		counts[sym]++
	}

	freqs := make(Frequencies, len(counts))

	for sym, c := range counts {
		freqs[sym] = float64(c) / float64(numSymbols)
	}

	return freqs, nil
}

// ComputeTransitions walks bits one symbolSize-bit symbol at a time and
// counts, for each symbol, the symbol that immediately follows it. The first
// symbol seeds the "previous" cursor with itself, so the first adjacency
// counted is always (first, first) -- an intentional, documented quirk
// inherited from the original training procedure; it biases the very first
// symbol's row marginally and is not compensated for.
func ComputeTransitions(bits *bitstream.BitStream, symbolSize int) (Transitions, error) {
	n := bits.Len()

	if symbolSize <= 0 || n%symbolSize != 0 {
		return nil, kerrors.Newf(kerrors.MisalignedInput,
			"bit length %d is not a multiple of symbol size %d", n, symbolSize)
	}

	result := Transitions{}

	if n == 0 {
		return result, nil
	}

	prev := bits.Slice(0, symbolSize).ToUint()

	for i := 0; i < n; i += symbolSize {
		cur := bits.Slice(i, symbolSize).ToUint()

		row, ok := result[prev]
		if !ok {
			row = map[uint64]int{}
			result[prev] = row
		}

		row[cur]++
		prev = cur
	}

	return result, nil
}
