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
	"os"

	"github.com/pkg/errors"

	"github.com/szeka9/bitchain/bitstream"
	"github.com/szeka9/bitchain/kerrors"
)

// readBits reads the whole file at path and packs it into a BitStream.
func readBits(path string) (*bitstream.BitStream, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(kerrors.Newf(kerrors.IOError, "%s", err), "reading %s", path)
	}

	return bitstream.Unpack(data, len(data)*8), nil
}

// writeBits packs bits and writes them to path, refusing to clobber an
// existing file unless overwrite is set.
func writeBits(path string, bits *bitstream.BitStream, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.Wrapf(kerrors.Newf(kerrors.IOError, "%s already exists", path), "writing %s (use --force to overwrite)", path)
		}
	}

	if err := os.WriteFile(path, bitstream.Pack(bits), 0644); err != nil {
		return errors.Wrapf(kerrors.Newf(kerrors.IOError, "%s", err), "writing %s", path)
	}

	return nil
}
