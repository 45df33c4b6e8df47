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

package bitstream

// Pack packs a BitStream into bytes for file storage. Bit 0 of the stream
// becomes the high bit of byte 0 (MSB-first within each byte), matching the
// byte-reader/byte-writer collaborator's expected wire convention. The
// stream is zero-padded to a whole number of bytes if needed; callers that
// care about the exact bit count should run it through the padder stage
// first so the padding is recorded and reversible.
func Pack(bs *BitStream) []byte {
	n := bs.Len()
	out := make([]byte, (n+7)/8)

	for i := 0; i < n; i++ {
		if bs.At(i) {
			out[i>>3] |= 1 << uint(7-(i&7))
		}
	}

	return out
}

// Unpack turns packed bytes back into a BitStream of exactly numBits bits,
// inverting Pack's MSB-first-within-byte convention.
func Unpack(data []byte, numBits int) *BitStream {
	bits := make([]bool, numBits)

	for i := 0; i < numBits; i++ {
		bits[i] = data[i>>3]&(1<<uint(7-(i&7))) != 0
	}

	return &BitStream{bits: bits}
}
