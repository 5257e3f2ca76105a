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

package predicate

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/stolaf-cs/degreepath/audit/course"
)

// GradeTable is the grade-letter to grade-point mapping used when comparing
// the "grade" key. Reuses course.GradeTable so the loader only builds one.
type GradeTable = course.GradeTable

// Operator is one of the comparison tokens a Leaf predicate may use.
type Operator string

const (
	Eq       Operator = "$eq"
	Neq      Operator = "$neq"
	Lt       Operator = "$lt"
	Lte      Operator = "$lte"
	Gt       Operator = "$gt"
	Gte      Operator = "$gte"
	In       Operator = "$in"
	Nin      Operator = "$nin"
	Subset   Operator = "$subset"
	Superset Operator = "$superset"
)

// gradePoints resolves a letter grade to its canonical numeric grade-point
// value using the table, falling back to a direct decimal parse for
// already-numeric grade tokens.
func gradePoints(v interface{}, table GradeTable) (decimal.Decimal, bool) {
	s, ok := v.(string)
	if ok {
		if pts, found := table.GradePoints(strings.ToUpper(strings.TrimSpace(s))); found {
			return pts, true
		}
	}
	d, err := cast.ToStringE(v)
	if err != nil {
		return decimal.Zero, false
	}
	parsed, err := decimal.NewFromString(d)
	if err != nil {
		return decimal.Zero, false
	}
	return parsed, true
}

// compareScalar compares actual against expected using op, coercing mixed
// operand types the way the teacher's SQL comparison layer does before
// comparing values of possibly-different Go types. isGrade selects
// grade-point comparison instead of plain value comparison.
func compareScalar(op Operator, actual, expected interface{}, table GradeTable, isGrade bool) (bool, error) {
	if isGrade {
		actualPts, aok := gradePoints(actual, table)
		expectedPts, eok := gradePoints(expected, table)
		if !aok || !eok {
			return false, nil
		}
		return compareDecimals(op, actualPts, expectedPts)
	}

	if actualDec, err := toDecimal(actual); err == nil {
		if expectedDec, err2 := toDecimal(expected); err2 == nil {
			return compareDecimals(op, actualDec, expectedDec)
		}
	}

	actualStr, err1 := cast.ToStringE(actual)
	expectedStr, err2 := cast.ToStringE(expected)
	if err1 != nil || err2 != nil {
		return false, fmt.Errorf("predicate: cannot compare %v and %v", actual, expected)
	}

	switch op {
	case Eq:
		return actualStr == expectedStr, nil
	case Neq:
		return actualStr != expectedStr, nil
	case Lt:
		return actualStr < expectedStr, nil
	case Lte:
		return actualStr <= expectedStr, nil
	case Gt:
		return actualStr > expectedStr, nil
	case Gte:
		return actualStr >= expectedStr, nil
	default:
		return false, fmt.Errorf("predicate: operator %s not valid for scalar string comparison", op)
	}
}

func toDecimal(v interface{}) (decimal.Decimal, error) {
	switch t := v.(type) {
	case decimal.Decimal:
		return t, nil
	case bool:
		return decimal.Decimal{}, fmt.Errorf("not numeric")
	default:
		s, err := cast.ToStringE(v)
		if err != nil {
			return decimal.Decimal{}, err
		}
		return decimal.NewFromString(s)
	}
}

func compareDecimals(op Operator, a, b decimal.Decimal) (bool, error) {
	switch op {
	case Eq:
		return a.Equal(b), nil
	case Neq:
		return !a.Equal(b), nil
	case Lt:
		return a.LessThan(b), nil
	case Lte:
		return a.LessThanOrEqual(b), nil
	case Gt:
		return a.GreaterThan(b), nil
	case Gte:
		return a.GreaterThanOrEqual(b), nil
	default:
		return false, fmt.Errorf("predicate: operator %s not valid for decimal comparison", op)
	}
}

// evalMembership implements $in / $nin / $subset / $superset over a
// slice-valued key (e.g. attributes, gereqs) or a scalar actual value.
func evalMembership(op Operator, actual, expected interface{}) (bool, error) {
	switch op {
	case In:
		return containsAny(toStringSlice(expected), actual), nil
	case Nin:
		return !containsAny(toStringSlice(expected), actual), nil
	case Subset:
		return isSubset(toStringSlice(actual), toStringSlice(expected)), nil
	case Superset:
		return isSubset(toStringSlice(expected), toStringSlice(actual)), nil
	default:
		return false, fmt.Errorf("predicate: operator %s is not a membership operator", op)
	}
}

func toStringSlice(v interface{}) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s, _ := cast.ToStringE(item)
			out = append(out, s)
		}
		return out
	default:
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil
		}
		return []string{s}
	}
}

func containsAny(haystack []string, needle interface{}) bool {
	n, err := cast.ToStringE(needle)
	if err != nil {
		return false
	}
	for _, s := range haystack {
		if s == n {
			return true
		}
	}
	return false
}

func isSubset(small, big []string) bool {
	set := make(map[string]struct{}, len(big))
	for _, s := range big {
		set[s] = struct{}{}
	}
	for _, s := range small {
		if _, ok := set[s]; !ok {
			return false
		}
	}
	return true
}
