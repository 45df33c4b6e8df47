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

// Package kerrors defines the error kinds used across the pipeline, each
// carrying a message and a stable kind value so callers at the CLI boundary
// can map them to exit codes with errors.As instead of string matching.
package kerrors

import (
	"errors"
	"fmt"
)

// Kind identifies the category of a pipeline error.
type Kind int

const (
	MisalignedInput Kind = iota
	InvalidStage
	DeserializationError
	NegativeOffset
	WidthOverflow
	IOError
)

func (k Kind) String() string {
	switch k {
	case MisalignedInput:
		return "MisalignedInput"
	case InvalidStage:
		return "InvalidStage"
	case DeserializationError:
		return "DeserializationError"
	case NegativeOffset:
		return "NegativeOffset"
	case WidthOverflow:
		return "WidthOverflow"
	case IOError:
		return "IOError"
	default:
		return "Unknown"
	}
}

// Error is an extended error carrying a message and a Kind.
type Error struct {
	Kind Kind
	Msg  string
}

// Error returns the underlying message prefixed with the error kind.
func (this *Error) Error() string {
	return fmt.Sprintf("%s: %s", this.Kind, this.Msg)
}

// New creates an Error of the given kind.
func New(k Kind, msg string) *Error {
	return &Error{Kind: k, Msg: msg}
}

// Newf creates an Error of the given kind with a formatted message.
func Newf(k Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, k Kind) bool {
	var e *Error

	if errors.As(err, &e) {
		return e.Kind == k
	}

	return false
}
