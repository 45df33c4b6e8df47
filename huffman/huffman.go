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

// Package huffman implements the HuffmanTransducer stage: a binary trie
// built from symbol probabilities, with explicit back-edges from every leaf
// to the root so a streaming decoder can walk straight through symbol
// boundaries without re-dispatching from outside the trie. Unlike a
// canonical-code table, the trie is the code: encode looks a symbol's path
// up directly, decode replays the path bit by bit.
package huffman

import (
	"math"

	"github.com/szeka9/bitchain/bitstream"
	"github.com/szeka9/bitchain/kerrors"
	"github.com/szeka9/bitchain/stats"
)

// EncoderID is the stage's on-disk tag.
const EncoderID uint16 = 0x0001

type node struct {
	zero, one int
	isLeaf    bool
	symbol    uint64
	code      *bitstream.BitStream
}

func childOf(n node, b bool) int {
	if b {
		return n.one
	}
	return n.zero
}

func setChildOf(n *node, b bool, idx int) {
	if b {
		n.one = idx
	} else {
		n.zero = idx
	}
}

// HuffmanTransducer is a Stage that encodes fixed-width symbols via a
// trained (or deserialized) prefix-code trie.
type HuffmanTransducer struct {
	symbolSize    int
	nodes         []node
	root          int
	symbolCode    map[uint64]*bitstream.BitStream
	entropy       float64
	avgCodeLength float64
	trained       bool
}

// New creates an untrained HuffmanTransducer for the given symbol width.
func New(symbolSize int) *HuffmanTransducer {
	return &HuffmanTransducer{symbolSize: symbolSize}
}

// Setup trains the trie from the symbol frequencies observed in training.
func (this *HuffmanTransducer) Setup(training *bitstream.BitStream) error {
	this.Reset()

	freqs, err := stats.Frequency(training, this.symbolSize)
	if err != nil {
		return err
	}

	this.build(freqs)
	this.trained = true

	return nil
}

// Reset discards the trained trie.
func (this *HuffmanTransducer) Reset() {
	this.nodes = nil
	this.root = 0
	this.symbolCode = nil
	this.entropy = 0
	this.avgCodeLength = 0
	this.trained = false
}

// IsValid reports whether the stage has a non-empty trained alphabet.
func (this *HuffmanTransducer) IsValid() bool {
	return this.trained && len(this.symbolCode) > 0
}

// EncoderID returns the stage's on-disk tag.
func (this *HuffmanTransducer) EncoderID() uint16 {
	return EncoderID
}

// Entropy returns Σ p·log2(1/p) over the trained alphabet.
func (this *HuffmanTransducer) Entropy() float64 {
	return this.entropy
}

// AvgCodeLength returns Σ |code_i|·p_i over the trained alphabet.
func (this *HuffmanTransducer) AvgCodeLength() float64 {
	return this.avgCodeLength
}

// build constructs the trie from a probability map: one leaf per symbol,
// repeatedly merging the two lowest-probability nodes (ties broken by
// insertion order) until two remain, which become the root's children.
func (this *HuffmanTransducer) build(freqs stats.Frequencies) {
	symbols := sortedKeys(freqs)

	this.nodes = []node{{zero: -1, one: -1}}
	this.root = 0
	this.symbolCode = map[uint64]*bitstream.BitStream{}
	this.entropy = 0

	if len(symbols) == 0 {
		return
	}

	for _, s := range symbols {
		p := freqs[s]
		if p > 0 {
			this.entropy += p * math.Log2(1/p)
		}
	}

	if len(symbols) == 1 {
		leaf := node{isLeaf: true, symbol: symbols[0], zero: this.root, one: this.root}
		this.nodes = append(this.nodes, leaf)
		idx := len(this.nodes) - 1
		this.nodes[this.root].zero = idx
		this.nodes[this.root].one = idx

		code := bitstream.FromUint(0, 1)
		this.nodes[idx].code = code
		this.symbolCode[symbols[0]] = code
		this.avgCodeLength = float64(code.Len())

		return
	}

	type item = struct {
		prob float64
		seq  int
		idx  int
	}

	queue := make([]item, 0, len(symbols))
	seq := 0

	for _, s := range symbols {
		leaf := node{isLeaf: true, symbol: s}
		this.nodes = append(this.nodes, leaf)
		queue = insertSorted(queue, item{prob: freqs[s], seq: seq, idx: len(this.nodes) - 1})
		seq++
	}

	for len(queue) > 2 {
		a, b := queue[0], queue[1]
		queue = queue[2:]

		parent := node{zero: a.idx, one: b.idx}
		this.nodes = append(this.nodes, parent)
		parentIdx := len(this.nodes) - 1

		queue = insertSorted(queue, item{prob: a.prob + b.prob, seq: seq, idx: parentIdx})
		seq++
	}

	this.nodes[this.root].zero = queue[0].idx
	this.nodes[this.root].one = queue[1].idx

	this.assignCodes(this.nodes[this.root].zero, bitstream.NewFromBits([]bool{false}))
	this.assignCodes(this.nodes[this.root].one, bitstream.NewFromBits([]bool{true}))

	for _, s := range symbols {
		code := this.symbolCode[s]
		this.avgCodeLength += float64(code.Len()) * freqs[s]
	}
}

// assignCodes walks the trie from idx, assigning path (the bit-path taken
// from the root to reach idx) as the code of every leaf it finds. This is
// the DFS described for training: descend into zero before one, and a
// leaf's code is exactly the path used to reach it.
func (this *HuffmanTransducer) assignCodes(idx int, path *bitstream.BitStream) {
	n := &this.nodes[idx]

	if n.isLeaf {
		n.code = path
		this.symbolCode[n.symbol] = path
		return
	}

	zeroPath := path.Clone()
	zeroPath.AppendBit(false)
	this.assignCodes(n.zero, zeroPath)

	onePath := path.Clone()
	onePath.AppendBit(true)
	this.assignCodes(n.one, onePath)
}

func sortedKeys(freqs stats.Frequencies) []uint64 {
	keys := make([]uint64, 0, len(freqs))
	for k := range freqs {
		keys = append(keys, k)
	}

	sortUint64(keys)

	return keys
}

func sortUint64(keys []uint64) {
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
}

func insertSorted(queue []struct {
	prob float64
	seq  int
	idx  int
}, it struct {
	prob float64
	seq  int
	idx  int
}) []struct {
	prob float64
	seq  int
	idx  int
} {
	pos := len(queue)

	for i, q := range queue {
		if it.prob < q.prob {
			pos = i
			break
		}
	}

	queue = append(queue, it)
	copy(queue[pos+1:], queue[pos:len(queue)-1])
	queue[pos] = it

	return queue
}

// Encode requires src.Len() to be a multiple of the symbol size; on
// violation, or when the stage is untrained, it returns an empty stream.
// Every symbol must have been present during training: encoding an unseen
// symbol is undefined and also yields an empty stream.
func (this *HuffmanTransducer) Encode(src *bitstream.BitStream) *bitstream.BitStream {
	if !this.IsValid() || this.symbolSize <= 0 || src.Len()%this.symbolSize != 0 {
		return bitstream.New()
	}

	out := bitstream.New()

	for i := 0; i+this.symbolSize <= src.Len(); i += this.symbolSize {
		sym := src.Slice(i, this.symbolSize).ToUint()

		code, ok := this.symbolCode[sym]
		if !ok {
			return bitstream.New()
		}

		out.Append(code)
	}

	return out
}

// step advances the streaming decode state machine by one bit. If cur is a
// leaf, its symbol is emitted to out and the walk resumes from the root's
// child along b (the leaf's back-edge); otherwise it simply follows the
// zero/one edge.
func (this *HuffmanTransducer) step(cur int, b bool, out *bitstream.BitStream) int {
	n := this.nodes[cur]

	if n.isLeaf {
		out.Append(bitstream.FromUint(n.symbol, this.symbolSize))
		return childOf(this.nodes[this.root], b)
	}

	return childOf(n, b)
}

// Decode streams src bit by bit through the trie, emitting a symbol every
// time a leaf is reached, then feeds one extra zero bit to flush a pending
// leaf at the end of the stream.
func (this *HuffmanTransducer) Decode(src *bitstream.BitStream) *bitstream.BitStream {
	if !this.IsValid() {
		return bitstream.New()
	}

	out := bitstream.New()
	cur := this.root

	for i := 0; i < src.Len(); i++ {
		cur = this.step(cur, src.At(i), out)
	}

	this.step(cur, false, out)

	return out
}

// Serialize produces the self-describing table format: a header followed
// by one variable-size entry per symbol, keys in ascending order.
func (this *HuffmanTransducer) Serialize() (*bitstream.BitStream, error) {
	if !this.IsValid() {
		return nil, kerrors.New(kerrors.InvalidStage, "huffman transducer has no trained state")
	}

	symbols := make([]uint64, 0, len(this.symbolCode))
	for s := range this.symbolCode {
		symbols = append(symbols, s)
	}

	sortUint64(symbols)

	out := bitstream.FromUint(uint64(EncoderID), 16)
	out.Append(bitstream.FromUint(uint64(len(symbols)), 24))
	out.Append(bitstream.FromUint(uint64(this.symbolSize), 8))
	out.Append(bitstream.FromUint(symbols[0], this.symbolSize))

	for i, sym := range symbols {
		code := this.symbolCode[sym]

		sizeField := bitstream.FromUint(uint64(code.Len()), 0)
		a := sizeField.Len()

		var rawOffset *bitstream.BitStream
		isLast := i == len(symbols)-1

		if isLast {
			rawOffset = bitstream.FromUint(0, 1)
		} else {
			next := symbols[i+1]
			if next < sym {
				return nil, kerrors.New(kerrors.NegativeOffset, "huffman symbol keys are not in ascending order")
			}
			rawOffset = bitstream.FromUint(next-sym, 0)
		}

		b := rawOffset.Len()
		offsetField := rawOffset.Reverse()

		zerosA := sizeField.CountZeros()
		zerosB := offsetField.CountZeros()

		zMin := zerosA
		if zerosB > zMin {
			zMin = zerosB
		}
		zMin++

		total := a + zMin + b
		if rem := total % 8; rem != 0 {
			zMin += 8 - rem
		}

		entryBytes := (a + zMin + b) / 8

		out.Append(bitstream.FromUint(uint64(entryBytes), 3))
		out.Append(sizeField)
		out.Append(bitstream.FromUint(0, zMin))
		out.Append(offsetField)
		out.Append(code)
	}

	return out, nil
}

type tableEntry struct {
	symbol uint64
	code   *bitstream.BitStream
}

// Deserialize parses a descriptor produced by Serialize. Any malformed
// input (short data, wrong id, inconsistent count, or a code-table
// collision during trie reconstruction) yields a stage with
// IsValid()==false rather than an error.
func Deserialize(data *bitstream.BitStream) *HuffmanTransducer {
	invalid := New(0)

	idx := 0
	if idx+16 > data.Len() {
		return invalid
	}

	id := data.Slice(idx, 16).ToUint()
	idx += 16

	if uint16(id) != EncoderID {
		return invalid
	}

	if idx+24 > data.Len() {
		return invalid
	}

	numSymbols := int(data.Slice(idx, 24).ToUint())
	idx += 24

	if idx+8 > data.Len() {
		return invalid
	}

	symbolSize := int(data.Slice(idx, 8).ToUint())
	idx += 8

	if symbolSize <= 0 || numSymbols <= 0 || idx+symbolSize > data.Len() {
		return invalid
	}

	currentSymbol := data.Slice(idx, symbolSize).ToUint()
	idx += symbolSize

	entries := make([]tableEntry, 0, numSymbols)

	for count := 0; count < numSymbols; count++ {
		if idx+3 > data.Len() {
			return invalid
		}

		entryBytes := int(data.Slice(idx, 3).ToUint())
		idx += 3

		bodyLen := entryBytes * 8
		if idx+bodyLen > data.Len() {
			return invalid
		}

		body := data.Slice(idx, bodyLen)
		idx += bodyLen

		a := body.FindLongestZeroRun()
		if a < 0 || a > bodyLen {
			return invalid
		}

		sizeField := body.Slice(0, a)
		encodedSize := int(sizeField.ToUint())

		isLast := count == numSymbols-1

		var b int
		if isLast {
			b = 1
		} else {
			z := runLength(body, a)
			b = bodyLen - a - z
			if b < 0 {
				return invalid
			}
		}

		offsetStart := bodyLen - b
		if offsetStart < a {
			return invalid
		}

		offsetField := body.Slice(offsetStart, b).Reverse()
		offset := offsetField.ToUint()

		if idx+encodedSize > data.Len() {
			return invalid
		}

		code := data.Slice(idx, encodedSize)
		idx += encodedSize

		entries = append(entries, tableEntry{symbol: currentSymbol, code: code})

		currentSymbol += offset
	}

	result, ok := buildFromTable(symbolSize, entries)
	if !ok {
		return invalid
	}

	return result
}

// runLength counts consecutive zero bits in bits starting at start.
func runLength(bits *bitstream.BitStream, start int) int {
	n := 0

	for i := start; i < bits.Len() && !bits.At(i); i++ {
		n++
	}

	return n
}

// buildFromTable reconstructs the trie by walking each code as a path from
// the root, creating internal nodes where missing and a leaf at the
// terminal position wired back to the root. Any collision — an existing
// leaf blocking a longer path, or two codes claiming the same terminal
// slot — fails reconstruction.
func buildFromTable(symbolSize int, entries []tableEntry) (*HuffmanTransducer, bool) {
	nodes := []node{{zero: -1, one: -1}}
	root := 0
	symbolCode := map[uint64]*bitstream.BitStream{}

	for _, e := range entries {
		if e.code.Len() == 0 {
			return nil, false
		}

		cur := root

		for i := 0; i < e.code.Len(); i++ {
			b := e.code.At(i)
			isLast := i == e.code.Len()-1

			child := childOf(nodes[cur], b)

			if child == -1 {
				if isLast {
					leaf := node{isLeaf: true, symbol: e.symbol, zero: root, one: root, code: e.code.Clone()}
					nodes = append(nodes, leaf)
					idx := len(nodes) - 1
					setChildOf(&nodes[cur], b, idx)
					symbolCode[e.symbol] = leaf.code
					cur = idx
				} else {
					nodes = append(nodes, node{zero: -1, one: -1})
					idx := len(nodes) - 1
					setChildOf(&nodes[cur], b, idx)
					cur = idx
				}

				continue
			}

			if isLast || nodes[child].isLeaf {
				return nil, false
			}

			cur = child
		}
	}

	this := &HuffmanTransducer{
		symbolSize: symbolSize,
		nodes:      nodes,
		root:       root,
		symbolCode: symbolCode,
		trained:    true,
	}

	// Entropy and AvgCodeLength are training-time diagnostics derived from
	// symbol probabilities, which a deserialized table does not carry; they
	// are left at zero here rather than approximated.

	return this, true
}
