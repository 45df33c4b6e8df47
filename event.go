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

import (
	"fmt"
	"time"
)

// Event types reported around slice and stage boundaries during a pipeline
// run. The demo CLI subscribes a Listener to narrate progress.
const (
	EvtPipelineStart = 0
	EvtPipelineEnd   = 1
	EvtSliceStart    = 2
	EvtSliceEnd      = 3
	EvtStageEncode   = 4
	EvtStageDecode   = 5
)

// Event carries one progress notification. SliceID is -1 outside a slice's
// scope (e.g. pipeline-level events). msg carries the stage name for
// EvtStageEncode/EvtStageDecode events and is empty otherwise.
type Event struct {
	eventType int
	sliceID   int
	size      int64
	eventTime time.Time
	msg       string
}

// NewEvent creates an Event stamped with evtTime, or time.Now() if zero. msg
// is optional context (e.g. a stage name) folded into String()'s output.
func NewEvent(evtType, sliceID int, size int64, msg string, evtTime time.Time) *Event {
	if evtTime.IsZero() {
		evtTime = time.Now()
	}

	return &Event{eventType: evtType, sliceID: sliceID, size: size, msg: msg, eventTime: evtTime}
}

func (this *Event) Type() int {
	return this.eventType
}

func (this *Event) SliceID() int {
	return this.sliceID
}

func (this *Event) Size() int64 {
	return this.size
}

func (this *Event) Time() time.Time {
	return this.eventTime
}

func (this *Event) String() string {
	t := ""

	switch this.eventType {
	case EvtPipelineStart:
		t = "PIPELINE_START"
	case EvtPipelineEnd:
		t = "PIPELINE_END"
	case EvtSliceStart:
		t = "SLICE_START"
	case EvtSliceEnd:
		t = "SLICE_END"
	case EvtStageEncode:
		t = "STAGE_ENCODE"
	case EvtStageDecode:
		t = "STAGE_DECODE"
	}

	slice := ""
	if this.sliceID >= 0 {
		slice = fmt.Sprintf(", \"slice\":%d", this.sliceID)
	}

	stage := ""
	if len(this.msg) > 0 {
		stage = fmt.Sprintf(", \"stage\":%q", this.msg)
	}

	return fmt.Sprintf("{ \"type\":\"%s\"%s%s, \"size\":%d, \"time\":%d }", t, slice, stage, this.size,
		this.eventTime.UnixNano()/1000000)
}
