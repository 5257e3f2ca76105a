// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package path implements Path, the node-identity tuple used throughout
// the solver for ordering, logging, and exceptions (spec §4.4, §9: "a
// single place constructs new path segments and integer bracket indices
// are compared numerically").
package path

import (
	"strconv"
	"strings"
)

// Path is an immutable sequence of segments, e.g. ($, .count, [2],
// $req->Name, .result).
type Path struct {
	segments []string
}

// Root is the empty path, rendered as "$".
var Root = Path{segments: []string{"$"}}

// Child returns a new Path with segment appended. The receiver is
// unmodified — Path values are immutable, matching the rest of the
// solver's "pure data, mutate nothing shared" discipline (spec §9).
func (p Path) Child(segment string) Path {
	out := make([]string, len(p.segments)+1)
	copy(out, p.segments)
	out[len(p.segments)] = segment
	return Path{segments: out}
}

// Indexed returns a new Path with a "[n]" bracket-index segment appended.
func (p Path) Indexed(n int) Path {
	return p.Child("[" + strconv.Itoa(n) + "]")
}

// String renders the path with segments joined by "->" for logs and errors.
func (p Path) String() string {
	return strings.Join(p.segments, "->")
}

// Segments returns a defensive copy of the underlying segments.
func (p Path) Segments() []string {
	out := make([]string, len(p.segments))
	copy(out, p.segments)
	return out
}

// bracketIndex parses a "[n]" segment, reporting whether it was one.
func bracketIndex(segment string) (int, bool) {
	if len(segment) < 2 || segment[0] != '[' || segment[len(segment)-1] != ']' {
		return 0, false
	}
	n, err := strconv.Atoi(segment[1 : len(segment)-1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Less implements the total order from spec §4.4: tuples compared
// elementwise, integer bracket indices compared numerically rather than
// lexicographically, shorter tuples sort before longer ones that share a
// common prefix.
func (p Path) Less(other Path) bool {
	n := len(p.segments)
	if len(other.segments) < n {
		n = len(other.segments)
	}
	for i := 0; i < n; i++ {
		a, b := p.segments[i], other.segments[i]
		if a == b {
			continue
		}
		aIdx, aIsIdx := bracketIndex(a)
		bIdx, bIsIdx := bracketIndex(b)
		if aIsIdx && bIsIdx {
			return aIdx < bIdx
		}
		return a < b
	}
	return len(p.segments) < len(other.segments)
}

// Equal reports whether p and other have identical segments.
func (p Path) Equal(other Path) bool {
	if len(p.segments) != len(other.segments) {
		return false
	}
	for i := range p.segments {
		if p.segments[i] != other.segments[i] {
			return false
		}
	}
	return true
}
