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
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/stolaf-cs/degreepath/audit/auditerr"
	"github.com/stolaf-cs/degreepath/audit/predicate"
)

// loadPredicate builds a predicate.Predicate from a clause mapping (spec
// §6): {"$and": [...]}, {"$or": [...]}, {"$not": ...}, {"$if"/"$then"/"$else": ...},
// or one-or-more {key: {"$op": value}} single clauses, which fold to an
// implicit And when more than one key is given — the same rule
// original_source/degreepath/clause.py's load_clause applies.
func loadPredicate(data map[string]interface{}) (predicate.Predicate, error) {
	if and, ok := data["$and"]; ok {
		if len(data) != 1 {
			return nil, auditerr.Spec("$and", "must be the only key present")
		}
		return loadPredicateList(and)
	}
	if or, ok := data["$or"]; ok {
		if len(data) != 1 {
			return nil, auditerr.Spec("$or", "must be the only key present")
		}
		children, err := loadPredicateSlice(asSlice(or))
		if err != nil {
			return nil, err
		}
		return predicate.Or{Children: children}, nil
	}
	if not, ok := data["$not"]; ok {
		child, err := loadPredicate(stringKeyed(not))
		if err != nil {
			return nil, err
		}
		return predicate.Not{Child: child}, nil
	}
	if ifClause, ok := data["$if"]; ok {
		return loadConditionalPredicate(data, ifClause)
	}

	var clauses []predicate.Predicate
	for key, value := range data {
		clause, err := loadSingleClause(key, stringKeyed(value))
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, clause)
	}
	if len(clauses) == 1 {
		return clauses[0], nil
	}
	return predicate.And{Children: clauses}, nil
}

func loadPredicateList(raw interface{}) (predicate.Predicate, error) {
	children, err := loadPredicateSlice(asSlice(raw))
	if err != nil {
		return nil, err
	}
	return predicate.And{Children: children}, nil
}

func loadPredicateSlice(items []interface{}) ([]predicate.Predicate, error) {
	out := make([]predicate.Predicate, 0, len(items))
	for _, item := range items {
		p, err := loadPredicate(stringKeyed(item))
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func loadConditionalPredicate(data map[string]interface{}, ifClause interface{}) (predicate.Predicate, error) {
	ifPred, err := loadPredicate(stringKeyed(ifClause))
	if err != nil {
		return nil, err
	}
	thenRaw, ok := data["$then"]
	if !ok {
		return nil, auditerr.Spec("$if", "missing required $then")
	}
	thenPred, err := loadPredicate(stringKeyed(thenRaw))
	if err != nil {
		return nil, err
	}
	cond := predicate.Conditional{If: ifPred, Then: thenPred}
	if elseRaw, ok := data["$else"]; ok {
		elsePred, err := loadPredicate(stringKeyed(elseRaw))
		if err != nil {
			return nil, err
		}
		cond.Else = elsePred
	}
	return cond, nil
}

// operatorKeys lists every recognised "$op" token (spec §6).
var operatorKeys = map[string]predicate.Operator{
	"$eq": predicate.Eq, "$neq": predicate.Neq,
	"$lt": predicate.Lt, "$lte": predicate.Lte,
	"$gt": predicate.Gt, "$gte": predicate.Gte,
	"$in": predicate.In, "$nin": predicate.Nin,
	"$subset": predicate.Subset, "$superset": predicate.Superset,
}

// loadSingleClause builds a Leaf predicate from {key: {"$op": value}},
// coercing numeric-looking operands the way the teacher's SQL type layer
// coerces heterogeneous operands before comparing (audit/predicate already
// wires spf13/cast for the same reason; this is the document-side half).
func loadSingleClause(key string, value map[string]interface{}) (predicate.Predicate, error) {
	var op predicate.Operator
	var raw interface{}
	found := false
	for k, v := range value {
		canon, ok := operatorKeys[k]
		if !ok {
			continue
		}
		op, raw = canon, v
		found = true
		break
	}
	if !found {
		return nil, auditerr.Spec(key, "expected a single \"$op\" key")
	}

	expected, err := coerceLeafValue(key, raw)
	if err != nil {
		return nil, err
	}
	return predicate.Leaf{Key: key, Operator: op, Expected: expected}, nil
}

// coerceLeafValue normalises a raw YAML scalar for the key it will be
// compared against: credits as decimal.Decimal, everything else left as
// string/bool/int/[]interface{} for predicate.Leaf's own comparison logic
// to coerce further via spf13/cast.
func coerceLeafValue(key string, raw interface{}) (interface{}, error) {
	canon := predicate.NormalizeKey(key)
	if canon == "credits" {
		s := cast.ToString(raw)
		if s == "" {
			if f, ok := raw.(float64); ok {
				return decimal.NewFromFloat(f), nil
			}
			if n, ok := raw.(int); ok {
				return decimal.NewFromInt(int64(n)), nil
			}
			return nil, auditerr.Data(fmt.Sprintf("unparseable credits value %v", raw))
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, auditerr.Data(fmt.Sprintf("unparseable credits value %q", s))
		}
		return d, nil
	}
	if items := asSlice(raw); items != nil {
		out := make([]interface{}, len(items))
		for i, item := range items {
			out[i] = item
		}
		return out, nil
	}
	return raw, nil
}

// commandSource splits an assertion key like "sum(credits)" into its
// command and source tokens (spec §6).
func commandSource(key string) (string, string, bool) {
	open := strings.IndexByte(key, '(')
	if open < 0 || !strings.HasSuffix(key, ")") {
		return "", "", false
	}
	return key[:open], key[open+1 : len(key)-1], true
}
