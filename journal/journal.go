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

// Package journal implements the mutation log that makes constraint posting
// transactional: every mutation is recorded as (id, prior value) before it
// is applied, so a failed Try can restore exactly what it touched. Path
// compression is journalled the same way ordinary bound updates are, so Try
// is correct regardless of how much of the union-find structure it happens
// to touch.
package journal

import "fmt"

// Entry is one journalled mutation: id had value Prior immediately before
// this entry's mutation was applied.
type Entry[ID any, V any] struct {
	ID    ID
	Prior V
}

// Journal is an append-only log of Entry values for one variable kind: the
// core keeps one Journal per store, since type variables and region
// variables roll back independently of each other.
type Journal[ID any, V any] struct {
	entries []Entry[ID, V]
}

// Len reports how many entries are currently logged.
func (j *Journal[ID, V]) Len() int { return len(j.entries) }

// Push appends an entry. Callers must push the PRIOR value of id before
// applying a mutation, not the new one.
func (j *Journal[ID, V]) Push(id ID, prior V) {
	j.entries = append(j.entries, Entry[ID, V]{ID: id, Prior: prior})
}

// Try runs f. If f returns a non-nil error, every entry pushed during f
// (i.e. beyond the length recorded on entry) is rolled back, in reverse
// order, via restore, and popped from the log. If f succeeds, the entries it
// pushed remain logged for an enclosing Try/Commit to see. Try may be
// nested arbitrarily.
func (j *Journal[ID, V]) Try(f func() error, restore func(id ID, prior V)) error {
	mark := len(j.entries)
	err := f()
	if err == nil {
		return nil
	}
	for i := len(j.entries) - 1; i >= mark; i-- {
		restore(j.entries[i].ID, j.entries[i].Prior)
	}
	j.entries = j.entries[:mark]
	return err
}

// Commit is a top-level Try: it must only be called when no outer
// transaction may still roll back. It requires (and asserts, via bug) that
// the log is empty on entry, then behaves like Try, and additionally
// truncates the log to empty on success (the log is not needed once no
// outer transaction may roll back).
func (j *Journal[ID, V]) Commit(f func() error, restore func(id ID, prior V), bug func(string)) error {
	if len(j.entries) != 0 {
		bug(fmt.Sprintf("journal: Commit called with %d entries already logged", len(j.entries)))
	}
	err := j.Try(f, restore)
	if err == nil {
		j.entries = j.entries[:0]
	}
	return err
}
