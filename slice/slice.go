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

// Package slice implements the sliced driver: it partitions input into K
// independent, equal-length slices, each encoded or decoded by its own
// independently-trained chain, and runs those K jobs concurrently with
// errgroup. The final output always concatenates slices in their original
// order, never completion order.
package slice

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/szeka9/bitchain"
	"github.com/szeka9/bitchain/bitstream"
	"github.com/szeka9/bitchain/chain"
	"github.com/szeka9/bitchain/framing"
	"github.com/szeka9/bitchain/kerrors"
)

// ChainFactory builds a fresh, untrained chain. The driver calls it once per
// slice so each slice's stages train independently of the others.
type ChainFactory func() *chain.Chain

// Driver partitions input into K slices and drives their chains in
// parallel. K is an implementation constant: decoding a file produced with
// a different K is a deserialization error.
type Driver struct {
	k         int
	factory   ChainFactory
	listeners []bitchain.Listener
}

// New creates a Driver with K slices, each built from factory.
func New(k int, factory ChainFactory) *Driver {
	return &Driver{k: k, factory: factory}
}

// AddListener subscribes l to this driver's pipeline- and slice-boundary
// events. Every chain the driver builds also gets l attached, so stage
// events from within a slice reach the same listener.
func (this *Driver) AddListener(l bitchain.Listener) {
	this.listeners = append(this.listeners, l)
}

func (this *Driver) emit(evtType, sliceID int, size int64) {
	if len(this.listeners) == 0 {
		return
	}

	evt := bitchain.NewEvent(evtType, sliceID, size, "", time.Time{})

	for _, l := range this.listeners {
		l.ProcessEvent(evt)
	}
}

func (this *Driver) attach(c *chain.Chain, sliceID int) {
	c.SetSliceID(sliceID)

	for _, l := range this.listeners {
		c.AddListener(l)
	}
}

// Encode splits input into K equal-length slices (truncating any
// remainder), encodes each with its own chain concurrently, and frames the
// result as [serialized_chains][encoded_slices].
func (this *Driver) Encode(ctx context.Context, input *bitstream.BitStream) (*bitstream.BitStream, error) {
	if this.k <= 0 {
		return nil, kerrors.New(kerrors.InvalidStage, "sliced driver requires at least one slice")
	}

	this.emit(bitchain.EvtPipelineStart, -1, int64(input.Len()))

	sliceLen := input.Len() / this.k

	chains := make([]*chain.Chain, this.k)
	encoded := make([]*bitstream.BitStream, this.k)

	g, gctx := errgroup.WithContext(ctx)

	for i := 0; i < this.k; i++ {
		i := i

		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			c := this.factory()
			this.attach(c, i)

			piece := input.Slice(i*sliceLen, sliceLen)
			this.emit(bitchain.EvtSliceStart, i, int64(piece.Len()))

			out, err := c.EncodeChecked(piece)
			if err != nil {
				return err
			}

			this.emit(bitchain.EvtSliceEnd, i, int64(out.Len()))

			chains[i] = c
			encoded[i] = out

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	serializedChains := make([]*bitstream.BitStream, this.k)

	for i, c := range chains {
		d, err := c.Serialize()
		if err != nil {
			return nil, err
		}

		serializedChains[i] = d
	}

	chainsFrame, err := framing.Serialize(serializedChains, framing.CanonicalWidth)
	if err != nil {
		return nil, err
	}

	slicesFrame, err := framing.Serialize(encoded, framing.CanonicalWidth)
	if err != nil {
		return nil, err
	}

	out, err := framing.Serialize([]*bitstream.BitStream{chainsFrame, slicesFrame}, framing.CanonicalWidth)
	if err != nil {
		return nil, err
	}

	this.emit(bitchain.EvtPipelineEnd, -1, int64(out.Len()))

	return out, nil
}

// Decode inverts Encode: it expects exactly K chains and K encoded slices,
// reconstructs each slice's chain, decodes slices concurrently, and
// concatenates the results in original order.
func (this *Driver) Decode(ctx context.Context, data *bitstream.BitStream) (*bitstream.BitStream, error) {
	outer := framing.Deserialize(data, framing.CanonicalWidth)
	if len(outer) != 2 {
		return nil, kerrors.New(kerrors.DeserializationError, "expected two top-level frames: chains and slices")
	}

	chainDescriptors := framing.Deserialize(outer[0], framing.CanonicalWidth)
	sliceBlobs := framing.Deserialize(outer[1], framing.CanonicalWidth)

	if len(chainDescriptors) != this.k || len(sliceBlobs) != this.k {
		return nil, kerrors.Newf(kerrors.DeserializationError,
			"expected %d slices, found %d chains and %d encoded slices", this.k, len(chainDescriptors), len(sliceBlobs))
	}

	this.emit(bitchain.EvtPipelineStart, -1, int64(data.Len()))

	decoded := make([]*bitstream.BitStream, this.k)

	g, gctx := errgroup.WithContext(ctx)

	for i := 0; i < this.k; i++ {
		i := i

		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			c := chain.Deserialize(chainDescriptors[i])
			if !c.IsValid() {
				return kerrors.Newf(kerrors.DeserializationError, "slice %d has an invalid chain", i)
			}

			this.attach(c, i)
			this.emit(bitchain.EvtSliceStart, i, int64(sliceBlobs[i].Len()))

			out, err := c.DecodeChecked(sliceBlobs[i])
			if err != nil {
				return err
			}

			this.emit(bitchain.EvtSliceEnd, i, int64(out.Len()))

			decoded[i] = out

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := bitstream.New()
	for _, d := range decoded {
		result.Append(d)
	}

	this.emit(bitchain.EvtPipelineEnd, -1, int64(result.Len()))

	return result, nil
}
