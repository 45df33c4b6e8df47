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

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newDecodeCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "decode <input-path> <output-path>",
		Short: "Decode a file previously produced by encode",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, output := args[0], args[1]

			bits, err := readBits(input)
			if err != nil {
				return err
			}

			driver, err := newDriver(opts)
			if err != nil {
				return errors.Wrap(err, "configuring pipeline")
			}

			driver.AddListener(newLogListener(log))

			log.WithFields(map[string]interface{}{
				"input": input,
				"bytes": bits.Len() / 8,
			}).Info("decoding")

			decoded, err := driver.Decode(context.Background(), bits)
			if err != nil {
				return errors.Wrap(err, "decoding")
			}

			if err := writeBits(output, decoded, force); err != nil {
				return err
			}

			log.WithFields(map[string]interface{}{
				"output":        output,
				"decoded_bytes": decoded.Len() / 8,
			}).Info("decoded")

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing output file")

	return cmd
}
