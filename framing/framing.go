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

// Package framing implements length-prefixed concatenation and splitting of
// variable-length BitStream blobs, the wire-level glue that lets chains and
// slices be embedded inside one another.
package framing

import (
	"github.com/szeka9/bitchain/bitstream"
	"github.com/szeka9/bitchain/kerrors"
)

// CanonicalWidth is the length-prefix width, in bytes, used by the CLI and
// the file format.
const CanonicalWidth = 4

// Serialize concatenates each element of list prefixed by its bit length,
// encoded as a W*8-bit BitStream. An element whose length does not fit in
// W*8 bits is a fatal WidthOverflow error.
func Serialize(list []*bitstream.BitStream, w int) (*bitstream.BitStream, error) {
	out := bitstream.New()
	maxLen := uint64(1) << uint(w*8)

	for _, elem := range list {
		n := uint64(elem.Len())
		if n >= maxLen {
			return nil, kerrors.Newf(kerrors.WidthOverflow,
				"element length %d bits does not fit in a %d-byte prefix", n, w)
		}

		out.Append(bitstream.FromUint(n, w*8))
		out.Append(elem)
	}

	return out, nil
}

// Deserialize repeatedly reads a W*8-bit length L followed by L bits, until
// fewer than W*8 bits remain or a length of 0 is read. A truncated trailing
// length is silently ignored.
func Deserialize(bits *bitstream.BitStream, w int) []*bitstream.BitStream {
	result := []*bitstream.BitStream{}

	prefixBits := w * 8
	idx := 0

	for idx+prefixBits <= bits.Len() {
		length := int(bits.Slice(idx, prefixBits).ToUint())
		idx += prefixBits

		if length == 0 {
			break
		}

		result = append(result, bits.Slice(idx, length))
		idx += length
	}

	return result
}
