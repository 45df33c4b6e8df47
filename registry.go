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

package bitchain

// stageNames maps a stage's on-disk tag to the human-readable name used in
// demo reports and log fields. Adapted from the magic-number-to-format
// lookup table pattern, applied here to stage identifiers instead of file
// signatures.
var stageNames = map[StageID]string{
	ChainID:   "chain",
	HuffmanID: "huffman",
	MarkovID:  "markov",
	PadderID:  "padder",
}

// StageName returns the registered name for id, or "unknown" if id is not a
// recognized stage tag.
func StageName(id StageID) string {
	if name, ok := stageNames[id]; ok {
		return name
	}

	return "unknown"
}
