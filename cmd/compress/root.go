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
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// options carries the global flags shared by every subcommand.
type options struct {
	slices          int
	symbolSize      int
	markovThreshold float64
	padding         string
	verbose         bool
}

var opts = options{
	slices:          8,
	symbolSize:      16,
	markovThreshold: 0.4,
	padding:         "whole",
}

var log = logrus.New()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "compress",
		Short:         "A pluggable, serializable bit-stream compression pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.verbose {
				log.SetLevel(logrus.DebugLevel)
			}
		},
	}

	root.PersistentFlags().IntVar(&opts.slices, "slices", opts.slices,
		"number of independent slices the sliced driver processes in parallel (K)")
	root.PersistentFlags().IntVar(&opts.symbolSize, "symbol-size", opts.symbolSize,
		"symbol width, in bits, used by the Markov and Huffman stages")
	root.PersistentFlags().Float64Var(&opts.markovThreshold, "markov-threshold", opts.markovThreshold,
		"minimum transition probability a Markov prediction must clear to be used")
	root.PersistentFlags().StringVar(&opts.padding, "padding", opts.padding,
		"padding mode applied before framing: none, whole, even or odd")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", opts.verbose,
		"enable debug-level logging")

	root.AddCommand(newDemoCmd())
	root.AddCommand(newEncodeCmd())
	root.AddCommand(newDecodeCmd())

	return root
}

// Execute runs the command tree and returns a process exit code, mapping
// pipeline errors to the teacher's numeric exit code table.
func Execute() int {
	root := newRootCmd()

	if err := root.Execute(); err != nil {
		log.Error(err)
		return exitCodeFor(err)
	}

	return 0
}

func init() {
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}
