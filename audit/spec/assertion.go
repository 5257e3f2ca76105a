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

package spec

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/stolaf-cs/degreepath/audit/assertion"
	"github.com/stolaf-cs/degreepath/audit/auditerr"
	"github.com/stolaf-cs/degreepath/audit/predicate"
)

var commandTable = map[string]assertion.Command{
	"count": assertion.CmdCount, "sum": assertion.CmdSum,
	"min": assertion.CmdMin, "max": assertion.CmdMax,
	"stored": assertion.CmdStored,
}

var sourceTable = map[string]assertion.Source{
	"courses": assertion.SourceCourses, "credits": assertion.SourceCredits,
	"grades": assertion.SourceGrades, "terms": assertion.SourceTerms,
	"areas": assertion.SourceAreas,
}

// loadAssertions reads the one recognised assertion clause out of a rule
// body ("assert", "all", or "any" per spec §6) into a list of Assertion
// values. At most one of the three is expected in a well-formed document.
func loadAssertions(data map[string]interface{}) ([]assertion.Assertion, error) {
	for _, key := range []string{"assert", "all", "any"} {
		raw, ok := data[key]
		if !ok {
			continue
		}
		return loadAssertionGroup(raw)
	}
	return nil, nil
}

func loadAssertionGroup(raw interface{}) ([]assertion.Assertion, error) {
	if items := asSlice(raw); items != nil {
		out := make([]assertion.Assertion, 0, len(items))
		for _, item := range items {
			a, err := loadAssertion(stringKeyed(item))
			if err != nil {
				return nil, err
			}
			out = append(out, a)
		}
		return out, nil
	}
	a, err := loadAssertion(stringKeyed(raw))
	if err != nil {
		return nil, err
	}
	return []assertion.Assertion{a}, nil
}

// loadAssertion builds one Assertion from {"command(source)": {"$op": value}}
// or a conditional {"$if": pred, "$then": assertion, "$else"?: assertion}
// (spec §6).
func loadAssertion(data map[string]interface{}) (assertion.Assertion, error) {
	if ifClause, ok := data["$if"]; ok {
		return loadConditionalAssertion(data, ifClause)
	}

	for key, value := range data {
		cmdName, sourceName, ok := commandSource(key)
		if !ok {
			continue
		}
		cmd, ok := commandTable[cmdName]
		if !ok {
			return nil, auditerr.Spec(key, fmt.Sprintf("unknown assertion command %q", cmdName))
		}
		source, ok := sourceTable[sourceName]
		if !ok {
			return nil, auditerr.Spec(key, fmt.Sprintf("unknown assertion source %q", sourceName))
		}

		op, compareTo, err := loadAssertionOperand(key, stringKeyed(value))
		if err != nil {
			return nil, err
		}

		switch cmd {
		case assertion.CmdCount:
			return assertion.NewCount(source, op, compareTo), nil
		case assertion.CmdSum:
			return assertion.NewSum(source, op, compareTo), nil
		case assertion.CmdMin:
			return assertion.NewMin(source, op, compareTo), nil
		case assertion.CmdMax:
			return assertion.NewMax(source, op, compareTo), nil
		case assertion.CmdStored:
			return assertion.NewStored(decimal.Zero, op, compareTo), nil
		}
	}
	return nil, auditerr.Spec("assert", "expected a \"command(source)\" key")
}

func loadAssertionOperand(key string, value map[string]interface{}) (predicate.Operator, decimal.Decimal, error) {
	for opKey, raw := range value {
		op, ok := operatorKeys[opKey]
		if !ok {
			continue
		}
		compareTo, err := toDecimal(raw)
		if err != nil {
			return "", decimal.Zero, auditerr.Wrap(err, key)
		}
		return op, compareTo, nil
	}
	return "", decimal.Zero, auditerr.Spec(key, "expected a single \"$op\" key")
}

func toDecimal(raw interface{}) (decimal.Decimal, error) {
	switch v := raw.(type) {
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		return decimal.NewFromString(v)
	default:
		return decimal.Zero, auditerr.Data(fmt.Sprintf("expected a numeric compare-to value, got %v", raw))
	}
}

func loadConditionalAssertion(data map[string]interface{}, ifClause interface{}) (assertion.Assertion, error) {
	ifPred, err := loadPredicate(stringKeyed(ifClause))
	if err != nil {
		return nil, err
	}
	thenRaw, ok := data["$then"]
	if !ok {
		return nil, auditerr.Spec("$if", "missing required $then")
	}
	thenAssert, err := loadAssertion(stringKeyed(thenRaw))
	if err != nil {
		return nil, err
	}
	// Subject is left nil: a document-level conditional assertion's If
	// clause evaluates over the same course attributes its surrounding
	// query already filtered by, not a separate record, so there is
	// nothing distinct to bind here.
	cond := assertion.Conditional{If: ifPred, Then: thenAssert}
	if elseRaw, ok := data["$else"]; ok {
		elseAssert, err := loadAssertion(stringKeyed(elseRaw))
		if err != nil {
			return nil, err
		}
		cond.Else = elseAssert
	}
	return cond, nil
}
