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

package main

import (
	"github.com/szeka9/bitchain"
	"github.com/szeka9/bitchain/kerrors"
)

// exitCodeFor maps a pipeline or CLI error to the teacher's numeric exit
// code table (bitchain.Err*), so scripts driving this CLI can branch on the
// same stable codes the teacher's BlockCompressor/BlockDecompressor used.
func exitCodeFor(err error) int {
	switch {
	case kerrors.Is(err, kerrors.MisalignedInput):
		return bitchain.ErrMisalignedInput
	case kerrors.Is(err, kerrors.InvalidStage):
		return bitchain.ErrInvalidStage
	case kerrors.Is(err, kerrors.DeserializationError):
		return bitchain.ErrDeserialization
	case kerrors.Is(err, kerrors.NegativeOffset):
		return bitchain.ErrInvalidFile
	case kerrors.Is(err, kerrors.WidthOverflow):
		return bitchain.ErrBlockSize
	case kerrors.Is(err, kerrors.IOError):
		return bitchain.ErrReadFile
	default:
		return bitchain.ErrUnknown
	}
}
