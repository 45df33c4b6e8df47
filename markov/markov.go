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

// Package markov implements the Markov substitution stage: it trains a
// per-symbol "most likely successor" map and uses it to either XOR out or
// sentinel-substitute predictable symbols.
package markov

import (
	"github.com/szeka9/bitchain/bitstream"
	"github.com/szeka9/bitchain/kerrors"
	"github.com/szeka9/bitchain/stats"
)

// EncoderID is the stage's on-disk tag.
const EncoderID uint16 = 0x0002

// Mode selects how a predicted successor is folded into the output.
type Mode int

const (
	// XOR emits input[i] XOR predicted[i]; no unused symbol is needed.
	XOR Mode = iota
	// Sentinel substitutes a reserved unused symbol whenever the current
	// symbol matches its prediction. This is the mode the CLI wires up.
	Sentinel
)

// MarkovEncoder is a Stage that exploits first-order symbol predictability.
type MarkovEncoder struct {
	mode         Mode
	symbolSize   int
	threshold    float64
	encodingMap  map[uint64]uint64
	unusedSymbol uint64
	hasUnused    bool
	trained      bool
}

// New creates a MarkovEncoder with the given symbol width (in bits) and
// strict acceptance threshold for a predicted successor.
func New(mode Mode, symbolSize int, threshold float64) *MarkovEncoder {
	return &MarkovEncoder{mode: mode, symbolSize: symbolSize, threshold: threshold}
}

// Setup trains the encoding map from transitions observed in training, and,
// in Sentinel mode, picks the unused symbol.
func (this *MarkovEncoder) Setup(training *bitstream.BitStream) error {
	this.Reset()

	chain, err := stats.ComputeTransitions(training, this.symbolSize)
	if err != nil {
		return err
	}

	this.encodingMap = buildEncodingMap(chain, this.threshold)

	if this.mode == Sentinel {
		occurs := occurringSymbols(training, this.symbolSize)
		sym, found := pickUnusedSymbol(this.symbolSize, occurs)
		this.unusedSymbol = sym
		this.hasUnused = found
	}

	this.trained = true

	return nil
}

// Reset discards trained parameters.
func (this *MarkovEncoder) Reset() {
	this.encodingMap = nil
	this.unusedSymbol = 0
	this.hasUnused = false
	this.trained = false
}

// IsValid reports a non-empty encoding map, symbol size > 0, and — in
// Sentinel mode — a reserved unused symbol.
func (this *MarkovEncoder) IsValid() bool {
	if !this.trained || this.symbolSize <= 0 || len(this.encodingMap) == 0 {
		return false
	}

	if this.mode == Sentinel && !this.hasUnused {
		return false
	}

	return true
}

// EncoderID returns the stage's on-disk tag.
func (this *MarkovEncoder) EncoderID() uint16 {
	return EncoderID
}

func buildEncodingMap(chain stats.Transitions, threshold float64) map[uint64]uint64 {
	result := map[uint64]uint64{}

	for symbol, row := range chain {
		var candidate uint64
		var best int
		var sum int

		for next, count := range row {
			sum += count
			if count > best {
				best = count
				candidate = next
			}
		}

		if sum > 0 && float64(best)/float64(sum) > threshold {
			result[symbol] = candidate
		}
	}

	return result
}

func occurringSymbols(bits *bitstream.BitStream, symbolSize int) map[uint64]bool {
	occurs := map[uint64]bool{}

	for i := 0; i+symbolSize <= bits.Len(); i += symbolSize {
		occurs[bits.Slice(i, symbolSize).ToUint()] = true
	}

	return occurs
}

// pickUnusedSymbol scans values of width symbolSize from the largest value
// downward and returns the first one absent from occurs.
func pickUnusedSymbol(symbolSize int, occurs map[uint64]bool) (uint64, bool) {
	if symbolSize <= 0 || symbolSize >= 64 {
		return 0, false
	}

	max := (uint64(1) << uint(symbolSize)) - 1

	for v := max; ; v-- {
		if !occurs[v] {
			return v, true
		}

		if v == 0 {
			break
		}
	}

	return 0, false
}

// Encode applies the trained substitution. In XOR mode every symbol is XORed
// with the prediction carried over from the previous symbol. In Sentinel
// mode, a symbol equal to its prediction is replaced by the unused symbol.
func (this *MarkovEncoder) Encode(src *bitstream.BitStream) *bitstream.BitStream {
	if !this.IsValid() {
		return bitstream.New()
	}

	out := bitstream.New()
	var mapped uint64
	hasMapped := false

	for i := 0; i+this.symbolSize <= src.Len(); i += this.symbolSize {
		cur := src.Slice(i, this.symbolSize)
		curVal := cur.ToUint()

		switch this.mode {
		case XOR:
			var predicted uint64
			if hasMapped {
				predicted = mapped
			}
			out.Append(bitstream.FromUint(curVal^predicted, this.symbolSize))

		case Sentinel:
			if i == 0 || !hasMapped || curVal != mapped {
				out.Append(cur)
			} else {
				out.Append(bitstream.FromUint(this.unusedSymbol, this.symbolSize))
			}
		}

		if next, ok := this.encodingMap[curVal]; ok {
			mapped = next
			hasMapped = true
		} else {
			mapped = 0
			hasMapped = false
		}
	}

	return out
}

// Decode inverts Encode.
func (this *MarkovEncoder) Decode(src *bitstream.BitStream) *bitstream.BitStream {
	if !this.IsValid() {
		return bitstream.New()
	}

	out := bitstream.New()
	var mapped uint64
	hasMapped := false

	for i := 0; i+this.symbolSize <= src.Len(); i += this.symbolSize {
		curVal := src.Slice(i, this.symbolSize).ToUint()
		var resolved uint64

		switch this.mode {
		case XOR:
			var predicted uint64
			if hasMapped {
				predicted = mapped
			}
			resolved = curVal ^ predicted

		case Sentinel:
			if i != 0 && hasMapped && curVal == this.unusedSymbol {
				resolved = mapped
			} else {
				resolved = curVal
			}
		}

		out.Append(bitstream.FromUint(resolved, this.symbolSize))

		if next, ok := this.encodingMap[resolved]; ok {
			mapped = next
			hasMapped = true
		} else {
			mapped = 0
			hasMapped = false
		}
	}

	return out
}

// Serialize produces the descriptor
// [id:16][count:24][symbol_size:8][unused_symbol:symbol_size][(key:symbol_size)(value:symbol_size)]×count.
// Only Sentinel-mode stages are serializable — the on-disk format always
// carries an unused symbol.
func (this *MarkovEncoder) Serialize() (*bitstream.BitStream, error) {
	if !this.IsValid() {
		return nil, kerrors.New(kerrors.InvalidStage, "markov encoder has no trained state")
	}

	if this.mode != Sentinel {
		return nil, kerrors.New(kerrors.InvalidStage, "only sentinel-mode markov encoders can be serialized")
	}

	keys := make([]uint64, 0, len(this.encodingMap))
	for k := range this.encodingMap {
		keys = append(keys, k)
	}

	sortAscending(keys)

	out := bitstream.FromUint(uint64(EncoderID), 16)
	out.Append(bitstream.FromUint(uint64(len(keys)), 24))
	out.Append(bitstream.FromUint(uint64(this.symbolSize), 8))
	out.Append(bitstream.FromUint(this.unusedSymbol, this.symbolSize))

	for _, k := range keys {
		out.Append(bitstream.FromUint(k, this.symbolSize))
		out.Append(bitstream.FromUint(this.encodingMap[k], this.symbolSize))
	}

	return out, nil
}

func sortAscending(keys []uint64) {
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
}

// Deserialize parses a descriptor produced by Serialize. Any malformed input
// (short data, wrong id, inconsistent count) yields a stage with
// IsValid()==false.
func Deserialize(data *bitstream.BitStream) *MarkovEncoder {
	result := New(Sentinel, 0, 0)

	idx := 0
	if idx+16 > data.Len() {
		return result
	}

	id := data.Slice(idx, 16).ToUint()
	idx += 16

	if uint16(id) != EncoderID {
		return result
	}

	if idx+24 > data.Len() {
		return result
	}

	count := int(data.Slice(idx, 24).ToUint())
	idx += 24

	if idx+8 > data.Len() {
		return result
	}

	symbolSize := int(data.Slice(idx, 8).ToUint())
	idx += 8

	if symbolSize <= 0 || idx+symbolSize > data.Len() {
		return result
	}

	unused := data.Slice(idx, symbolSize).ToUint()
	idx += symbolSize

	encodingMap := make(map[uint64]uint64, count)

	for i := 0; i < count; i++ {
		if idx+2*symbolSize > data.Len() {
			return result
		}

		key := data.Slice(idx, symbolSize).ToUint()
		idx += symbolSize
		value := data.Slice(idx, symbolSize).ToUint()
		idx += symbolSize

		encodingMap[key] = value
	}

	if len(encodingMap) != count {
		return result
	}

	result.symbolSize = symbolSize
	result.unusedSymbol = unused
	result.hasUnused = true
	result.encodingMap = encodingMap
	result.trained = true

	return result
}
