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

// Package course holds the value types that make up a transcript:
// CourseInstance and AreaPointer. Both are immutable once loaded.
package course

import (
	"sort"

	"github.com/shopspring/decimal"
)

// GradeOption is the grading scheme a course was taken under.
type GradeOption int

const (
	Graded GradeOption = iota
	SU
	Audit
)

func (g GradeOption) String() string {
	switch g {
	case Graded:
		return "graded"
	case SU:
		return "s/u"
	case Audit:
		return "audit"
	default:
		return "unknown"
	}
}

// GradeTable maps letter grades to their grade-point value for a single
// institution. Grounded on the per-institution constant tables in
// original_source/dp-erik.py and dp-common.py.
type GradeTable map[string]decimal.Decimal

// DefaultGradeTable is the standard 4.0-scale table used when an
// institution does not supply its own.
func DefaultGradeTable() GradeTable {
	mk := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }
	return GradeTable{
		"A":  mk("4.0"),
		"A-": mk("3.7"),
		"B+": mk("3.3"),
		"B":  mk("3.0"),
		"B-": mk("2.7"),
		"C+": mk("2.3"),
		"C":  mk("2.0"),
		"C-": mk("1.7"),
		"D+": mk("1.3"),
		"D":  mk("1.0"),
		"D-": mk("0.7"),
		"F":  mk("0.0"),
	}
}

// GradePoints looks up the grade-point value for a letter grade, and
// reports whether the grade was known to the table.
func (t GradeTable) GradePoints(letter string) (decimal.Decimal, bool) {
	v, ok := t[letter]
	return v, ok
}

// Clbid is the stable per-transcript-row identifier.
type Clbid string

// CourseInstance is a single transcript entry. Value-typed and immutable
// after load, per spec §3.
type CourseInstance struct {
	Clbid       Clbid
	Subject     string
	Number      string
	Name        string
	Credits     decimal.Decimal
	Grade       string
	GradePoints decimal.Decimal
	GradeOption GradeOption
	Attributes  []string
	GenEdReqs   []string
	Term        int
	Year        int
	Institution string
	SubType     string

	IsInProgress           bool
	IsInProgressThisTerm   bool
	IsInProgressInFuture   bool
	IsRepeat               bool
	IsInGPA                bool
}

// Course returns the "SUBJ NUM" course code used by the $course key.
func (c CourseInstance) Course() string {
	if c.Number == "" {
		return c.Subject
	}
	return c.Subject + " " + c.Number
}

// HasAttribute reports whether attr is present in this course's attribute
// set (case-sensitive, matching the source data's tagging convention).
func (c CourseInstance) HasAttribute(attr string) bool {
	for _, a := range c.Attributes {
		if a == attr {
			return true
		}
	}
	return false
}

// SortOrder is the canonical (year, term, clbid) tuple used to make
// iteration order deterministic throughout the solver (spec §4.3, §5).
type SortOrder struct {
	Year  int
	Term  int
	Clbid Clbid
}

// SortKey returns this course's position in the canonical total order.
func (c CourseInstance) SortKey() SortOrder {
	return SortOrder{Year: c.Year, Term: c.Term, Clbid: c.Clbid}
}

// Less reports whether a sorts before b under the canonical order.
func (a SortOrder) Less(b SortOrder) bool {
	if a.Year != b.Year {
		return a.Year < b.Year
	}
	if a.Term != b.Term {
		return a.Term < b.Term
	}
	return a.Clbid < b.Clbid
}

// SortByCanonicalOrder sorts courses in place by (year, term, clbid).
func SortByCanonicalOrder(courses []CourseInstance) {
	sort.Slice(courses, func(i, j int) bool {
		return courses[i].SortKey().Less(courses[j].SortKey())
	})
}

// Value implements predicate.Clausable: it looks up an already-normalised
// attribute key per spec §4.1's key list (course, subject, number, credits,
// grade, grade_type, attributes, gereqs, s/u, is_in_progress, year, term,
// institution, level, ...).
func (c CourseInstance) Value(key string) (interface{}, bool) {
	switch key {
	case "course":
		return c.Course(), true
	case "subject":
		return c.Subject, true
	case "number":
		return c.Number, true
	case "credits":
		return c.Credits, true
	case "grade":
		return c.Grade, true
	case "grade_type":
		return c.GradeOption.String(), true
	case "attributes":
		return c.Attributes, true
	case "gereqs":
		return c.GenEdReqs, true
	case "s/u":
		return c.GradeOption == SU, true
	case "is_in_progress":
		return c.IsInProgress, true
	case "is_in_progress_this_term":
		return c.IsInProgressThisTerm, true
	case "is_in_progress_in_future":
		return c.IsInProgressInFuture, true
	case "is_repeat":
		return c.IsRepeat, true
	case "is_in_gpa":
		return c.IsInGPA, true
	case "year":
		return c.Year, true
	case "term":
		return c.Term, true
	case "institution":
		return c.Institution, true
	case "sub_type":
		return c.SubType, true
	case "level":
		return c.level(), true
	case "clbid":
		return string(c.Clbid), true
	case "name":
		return c.Name, true
	default:
		return nil, false
	}
}

// level derives the course level (100, 200, ...) from the course number's
// leading digit, the conventional US undergraduate numbering scheme.
func (c CourseInstance) level() int {
	for _, r := range c.Number {
		if r < '0' || r > '9' {
			continue
		}
		return int(r-'0') * 100
	}
	return 0
}

// AreaPointer references a declared area (major/concentration/emphasis)
// on a student's record.
type AreaPointer struct {
	Code       string
	Kind       string
	Department string
}

// Value implements predicate.Clausable for the "areas" query source.
func (a AreaPointer) Value(key string) (interface{}, bool) {
	switch key {
	case "code":
		return a.Code, true
	case "kind":
		return a.Kind, true
	case "department":
		return a.Department, true
	default:
		return nil, false
	}
}
