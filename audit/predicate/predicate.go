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

// Package predicate implements the boolean predicate tree evaluated over
// course (or other record) attributes, per spec §4.1: And | Or | Not |
// Conditional | Leaf(key, operator, expected).
package predicate

// Clausable is anything a Predicate can be evaluated against: a course, an
// area pointer, or any other record exposing named attributes.
type Clausable interface {
	// Value looks up key (already normalised) and reports whether it was
	// present on this record.
	Value(key string) (interface{}, bool)
}

// EvalContext carries the per-institution grade table and any other
// evaluation-time constants a Leaf may need.
type EvalContext struct {
	Grades GradeTable
}

// keyAliases maps a singular spelling to the canonical plural spelling the
// Leaf evaluator actually looks up, per spec §4.1 "key normalisation
// (singular<->plural aliases)".
var keyAliases = map[string]string{
	"attribute": "attributes",
	"gereq":     "gereqs",
	"subject":   "subject",
	"s/u":       "s/u",
}

// NormalizeKey resolves a key to its canonical spelling.
func NormalizeKey(key string) string {
	if canon, ok := keyAliases[key]; ok {
		return canon
	}
	return key
}

// Predicate is a node in the predicate tree. Every variant implements Eval.
type Predicate interface {
	// Eval reports whether the predicate holds for c under ctx.
	Eval(ctx EvalContext, c Clausable) (bool, error)
}

// And is true iff every child is true. An empty And is vacuously true.
type And struct {
	Children []Predicate
}

func (a And) Eval(ctx EvalContext, c Clausable) (bool, error) {
	for _, child := range a.Children {
		ok, err := child.Eval(ctx, c)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// Or is true iff at least one child is true. An empty Or is false.
type Or struct {
	Children []Predicate
}

func (o Or) Eval(ctx EvalContext, c Clausable) (bool, error) {
	for _, child := range o.Children {
		ok, err := child.Eval(ctx, c)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Not negates its single child.
type Not struct {
	Child Predicate
}

func (n Not) Eval(ctx EvalContext, c Clausable) (bool, error) {
	ok, err := n.Child.Eval(ctx, c)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

// Conditional evaluates If; if true it dispatches to Then; if false it
// dispatches to Else. A missing Else is vacuously true (spec §4.1: "a
// missing else is a pass-through").
type Conditional struct {
	If   Predicate
	Then Predicate
	Else Predicate // nil means vacuously true
}

func (cond Conditional) Eval(ctx EvalContext, c Clausable) (bool, error) {
	ok, err := cond.If.Eval(ctx, c)
	if err != nil {
		return false, err
	}
	if ok {
		return cond.Then.Eval(ctx, c)
	}
	if cond.Else == nil {
		return true, nil
	}
	return cond.Else.Eval(ctx, c)
}

// Leaf is a single key/operator/expected comparison.
type Leaf struct {
	Key      string
	Operator Operator
	Expected interface{}
}

// isGradeKey reports whether this leaf should compare by grade-point value
// rather than raw equality.
func (l Leaf) isGradeKey() bool {
	return NormalizeKey(l.Key) == "grade"
}

func (l Leaf) Eval(ctx EvalContext, c Clausable) (bool, error) {
	key := NormalizeKey(l.Key)
	actual, present := c.Value(key)
	if !present {
		return false, nil
	}

	switch l.Operator {
	case In, Nin, Subset, Superset:
		return evalMembership(l.Operator, actual, l.Expected)
	default:
		return compareScalar(l.Operator, actual, l.Expected, ctx.Grades, l.isGradeKey())
	}
}

// Eval is a free function form, useful when callers only have a Predicate
// value and not a method receiver handy (mirrors the teacher's top-level
// Expression.Eval(ctx, row) call convention).
func Eval(p Predicate, ctx EvalContext, c Clausable) (bool, error) {
	if p == nil {
		return true, nil
	}
	return p.Eval(ctx, c)
}
