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
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/szeka9/bitchain"
	"github.com/szeka9/bitchain/bitstream"
	"github.com/szeka9/bitchain/huffman"
)

// byteHistogram builds a 256-bucket byte histogram of bits, packed
// byte-oriented, for use with bitchain.ComputeByteEntropy1024.
func byteHistogram(bits *bitstream.BitStream) []uint32 {
	packed := bitstream.Pack(bits)
	histo := make([]uint32, 256)

	for _, b := range packed {
		histo[b]++
	}

	return histo
}

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo <input-path>",
		Short: "Train a pipeline on a file, then report ratio, entropy and round-trip timing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]

			bits, err := readBits(input)
			if err != nil {
				return err
			}

			driver, err := newDriver(opts)
			if err != nil {
				return errors.Wrap(err, "configuring pipeline")
			}

			h := huffman.New(opts.symbolSize)
			if err := h.Setup(bits); err != nil {
				return errors.Wrap(err, "training huffman stage for report")
			}

			driver.AddListener(newLogListener(log))

			packedLen := len(bitstream.Pack(bits))
			byteEntropy1024 := bitchain.ComputeByteEntropy1024(packedLen, byteHistogram(bits))

			ctx := context.Background()

			encodeStart := time.Now()
			encoded, err := driver.Encode(ctx, bits)
			if err != nil {
				return errors.Wrap(err, "encoding")
			}
			encodeElapsed := time.Since(encodeStart)

			decodeStart := time.Now()
			decoded, err := driver.Decode(ctx, encoded)
			if err != nil {
				return errors.Wrap(err, "decoding")
			}
			decodeElapsed := time.Since(decodeStart)

			sliceLen := bits.Len() / opts.slices
			truncated := bits.Slice(0, sliceLen*opts.slices)
			roundTripOK := truncated.Equal(decoded)

			ratio := float64(encoded.Len()) / float64(bits.Len())

			log.WithFields(map[string]interface{}{
				"original_bytes":     bits.Len() / 8,
				"encoded_bytes":      encoded.Len() / 8,
				"ratio":              ratio,
				"entropy":            h.Entropy(),
				"avg_code_length":    h.AvgCodeLength(),
				"byte_entropy_1024":  byteEntropy1024,
				"encode_elapsed":     encodeElapsed,
				"decode_elapsed":     decodeElapsed,
				"round_trip_ok":      roundTripOK,
			}).Info("demo report")

			if !roundTripOK {
				return errors.New("round-trip verification failed")
			}

			return nil
		},
	}

	return cmd
}
