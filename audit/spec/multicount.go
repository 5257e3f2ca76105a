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
	"github.com/stolaf-cs/degreepath/audit/auditerr"
	"github.com/stolaf-cs/degreepath/audit/claim"
)

// multicountableKeys is the allow-list of clause keys inside a
// multicountable ruleset (original_source/degreepath/area.py:103-108: "course"
// or "attributes", anything else raises).
var multicountableKeys = map[string]bool{"course": true, "attributes": true}

// loadMulticountable builds the area-wide multi-count policy from
// attributes.multicountable (spec §4.2, §6): a list of groups, each group a
// list of single clauses ({"course"|"attributes": {"$op": value,
// "at_most"?: bool}}). Grounded on
// original_source/degreepath/area.py's AreaOfStudy.load (lines 98-110,
// "multicountable_rules" outer list becomes "groups", each inner ruleset
// list a Group) and clause.py's SingleClause.load (the at_most flag riding
// along inside a clause's own "$op" value map). Per spec §4.2's single
// multicount_policy(groups) call, the whole attribute collapses to one
// policy: a course already claimed by one path may be claimed again iff
// every configured group has at least one clause matching it.
func loadMulticountable(attributes map[string]interface{}) ([]claim.ClausePolicy, error) {
	rulesets := asSlice(attributes["multicountable"])
	if len(rulesets) == 0 {
		return nil, nil
	}

	policy := claim.ClausePolicy{}
	for _, rawRuleset := range rulesets {
		group, atMost, err := loadMulticountGroup(asSlice(rawRuleset))
		if err != nil {
			return nil, err
		}
		policy.Groups = append(policy.Groups, group)
		if atMost {
			policy.AtMost = true
		}
	}
	return []claim.ClausePolicy{policy}, nil
}

func loadMulticountGroup(clauses []interface{}) (claim.Group, bool, error) {
	var group claim.Group
	atMost := false
	for _, rawClause := range clauses {
		clause := stringKeyed(rawClause)
		for key, rawValue := range clause {
			if !multicountableKeys[key] {
				return nil, false, auditerr.Spec(key, "invalid multicountable clause key")
			}
			value := stringKeyed(rawValue)
			p, err := loadSingleClause(key, value)
			if err != nil {
				return nil, false, auditerr.Wrap(err, "loading multicountable clause")
			}
			group = append(group, p)
			if am, ok := value["at_most"].(bool); ok && am {
				atMost = true
			}
		}
	}
	return group, atMost, nil
}
