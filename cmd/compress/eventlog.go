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

	"github.com/szeka9/bitchain"
)

// logListener narrates pipeline-, slice- and stage-boundary events at debug
// level, so --verbose turns on a blow-by-blow trace of a sliced run without
// changing what encode/decode/demo log at info level.
type logListener struct {
	logger *logrus.Logger
}

func newLogListener(logger *logrus.Logger) *logListener {
	return &logListener{logger: logger}
}

func (this *logListener) ProcessEvent(evt *bitchain.Event) {
	this.logger.Debug(evt.String())
}
