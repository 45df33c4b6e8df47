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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackMSBFirstWithinByte(t *testing.T) {
	bs := NewFromBits(bitsOf("10000000"))
	packed := Pack(bs)
	assert.Equal(t, []byte{0x80}, packed)
}

func TestPackUnpackRoundTrip(t *testing.T) {
	bs := NewFromBits(bitsOf("1101001011010110"))
	packed := Pack(bs)
	unpacked := Unpack(packed, bs.Len())
	assert.True(t, bs.Equal(unpacked))
}

func TestPackPadsPartialByte(t *testing.T) {
	bs := NewFromBits(bitsOf("101"))
	packed := Pack(bs)
	assert.Len(t, packed, 1)
	assert.Equal(t, byte(0xA0), packed[0])
}
