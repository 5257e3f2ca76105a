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

// Package spec loads a specification document (spec §6) into the rule
// tree audit/rule builds its solver over. Grounded on
// original_source/degreepath/area.py's AreaOfStudy.load (root-key
// allow-list, requirements map, limit set) and
// original_source/degreepath/clause.py's load_clause (predicate folding)
// and original_source/dp/limit.py's Limit.load (at-most key aliasing).
package spec

import (
	"fmt"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/stolaf-cs/degreepath/audit/auditerr"
	"github.com/stolaf-cs/degreepath/audit/claim"
	"github.com/stolaf-cs/degreepath/audit/limit"
	"github.com/stolaf-cs/degreepath/audit/path"
	"github.com/stolaf-cs/degreepath/audit/rule"
)

// rootKeys is the allow-list of top-level specification document keys
// (spec §6). Any other key at the root is a specification error.
var rootKeys = map[string]bool{
	"name": true, "type": true, "code": true, "degree": true,
	"emphases": true, "result": true, "requirements": true,
	"limit": true, "attributes": true, "major": true,
}

// Area is a fully loaded specification document: its root rule, its named
// requirement definitions (resolved ahead of time so RequirementRef nodes
// never consult the document again), and its area-wide limit set.
type Area struct {
	Name   string
	Code   string
	Degree string

	// Kind is the document's "type" key (e.g. "major", "concentration",
	// "emphasis"), defaulting to "test" per
	// original_source/degreepath/area.py's AreaOfStudy.load. Only a
	// "major" kind gets the three common major requirements appended by
	// the Area Driver (spec §9 Open Question (b)).
	Kind string

	Root         rule.Rule
	Requirements map[string]*rule.Requirement
	Limits       limit.LimitSet

	// Multicount is the area-wide multi-count policy parsed from
	// attributes.multicountable (spec §4.2, §6). Empty when the document
	// declares none, in which case every ledger built against this area
	// falls back to at-most-one-claim semantics.
	Multicount []claim.ClausePolicy
}

// Load parses a YAML specification document and builds its Area.
func Load(data []byte) (*Area, error) {
	var raw map[interface{}]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "parsing specification document")
	}
	doc := stringKeyed(raw)

	for key := range doc {
		if !rootKeys[key] {
			return nil, auditerr.Spec(path.Root.String(), fmt.Sprintf("unrecognized root key %q", key))
		}
	}

	name, _ := doc["name"].(string)
	code, _ := doc["code"].(string)
	degree, _ := doc["degree"].(string)
	kind, ok := doc["type"].(string)
	if !ok || kind == "" {
		kind = "test"
	}

	requirements := map[string]*rule.Requirement{}
	if rawReqs, ok := doc["requirements"]; ok {
		reqMap := stringKeyed(rawReqs)
		for reqName, rawReq := range reqMap {
			reqPath := path.Root.Child("%" + reqName)
			req, err := loadRequirement(reqName, reqPath, stringKeyed(rawReq))
			if err != nil {
				return nil, auditerr.Wrap(err, fmt.Sprintf("loading requirement %q", reqName))
			}
			requirements[reqName] = req
		}
	}

	limits, err := loadLimitSet(doc["limit"])
	if err != nil {
		return nil, auditerr.Wrap(err, "loading area limit set")
	}

	multicount, err := loadMulticountable(stringKeyed(doc["attributes"]))
	if err != nil {
		return nil, auditerr.Wrap(err, "loading attributes.multicountable")
	}

	resultData, ok := doc["result"]
	if !ok {
		return nil, auditerr.Spec(path.Root.String(), "missing required 'result' key")
	}
	root, err := loadRule(path.Root, stringKeyed(resultData))
	if err != nil {
		return nil, auditerr.Wrap(err, "loading root result rule")
	}

	return &Area{
		Name:         name,
		Code:         code,
		Degree:       degree,
		Kind:         kind,
		Root:         root,
		Requirements: requirements,
		Limits:       limits,
		Multicount:   multicount,
	}, nil
}

// stringKeyed normalises a yaml.v2-decoded mapping (map[interface{}]interface{})
// into map[string]interface{}, and passes through an already-keyed map or a
// nil/absent value as an empty map.
func stringKeyed(v interface{}) map[string]interface{} {
	switch m := v.(type) {
	case map[string]interface{}:
		return m
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, val := range m {
			out[fmt.Sprintf("%v", k)] = val
		}
		return out
	default:
		return map[string]interface{}{}
	}
}

// asSlice normalises a yaml.v2-decoded sequence ([]interface{}) or a
// missing value into a []interface{}.
func asSlice(v interface{}) []interface{} {
	if s, ok := v.([]interface{}); ok {
		return s
	}
	return nil
}
