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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/szeka9/bitchain"
	"github.com/szeka9/bitchain/kerrors"
)

func TestExitCodeForKnownKinds(t *testing.T) {
	cases := map[*kerrors.Error]int{
		kerrors.New(kerrors.MisalignedInput, "x"):    bitchain.ErrMisalignedInput,
		kerrors.New(kerrors.InvalidStage, "x"):       bitchain.ErrInvalidStage,
		kerrors.New(kerrors.DeserializationError, "x"): bitchain.ErrDeserialization,
		kerrors.New(kerrors.NegativeOffset, "x"):     bitchain.ErrInvalidFile,
		kerrors.New(kerrors.WidthOverflow, "x"):      bitchain.ErrBlockSize,
		kerrors.New(kerrors.IOError, "x"):            bitchain.ErrReadFile,
	}

	for err, want := range cases {
		assert.Equal(t, want, exitCodeFor(err))
	}
}

func TestExitCodeForUnknownErrorFallsBackToUnknown(t *testing.T) {
	assert.Equal(t, bitchain.ErrUnknown, exitCodeFor(errors.New("plain error")))
}
