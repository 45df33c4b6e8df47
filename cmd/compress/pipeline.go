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
	"github.com/pkg/errors"

	"github.com/szeka9/bitchain/chain"
	"github.com/szeka9/bitchain/huffman"
	"github.com/szeka9/bitchain/markov"
	"github.com/szeka9/bitchain/padder"
	"github.com/szeka9/bitchain/slice"
)

func paddingMode(name string) (padder.Mode, error) {
	switch name {
	case "none":
		return padder.None, nil
	case "whole":
		return padder.WholeBytes, nil
	case "even":
		return padder.EvenBytes, nil
	case "odd":
		return padder.OddBytes, nil
	default:
		return padder.None, errors.Errorf("unrecognized padding mode %q", name)
	}
}

// newDriver builds the sliced driver the CLI runs, using a fresh,
// independently-trainable chain per slice as required by the sliced driver's
// per-slice training contract.
func newDriver(o options) (*slice.Driver, error) {
	mode, err := paddingMode(o.padding)
	if err != nil {
		return nil, err
	}

	factory := func() *chain.Chain {
		return chain.New(
			markov.New(markov.Sentinel, o.symbolSize, o.markovThreshold),
			huffman.New(o.symbolSize),
			padder.New(mode),
		)
	}

	return slice.New(o.slices, factory), nil
}
