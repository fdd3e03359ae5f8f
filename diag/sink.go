// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package diag

import "github.com/golang/glog"

// Sink receives programmer-error conditions that the journal/varstore
// layer considers bugs rather than ordinary TypeError/FixupError results
// (e.g. Commit called with a non-empty log). These never come from
// malformed input; they mean the surrounding session code violated the
// core's calling convention.
type Sink interface {
	Bug(msg string)
}

// GlogSink reports bugs via glog.Exitf, the severity level CLI entry points
// in this codebase use for unrecoverable setup errors.
type GlogSink struct{}

// NewGlogSink constructs a GlogSink.
func NewGlogSink() GlogSink { return GlogSink{} }

// Bug implements Sink.
func (GlogSink) Bug(msg string) { glog.Exitf("tyinfer: internal error: %s", msg) }

// BugFunc adapts a Sink to the plain func(string) callback varstore.New
// expects.
func BugFunc(s Sink) func(string) { return s.Bug }
