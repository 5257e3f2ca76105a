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
	"github.com/stolaf-cs/degreepath/audit/course"
	"github.com/stolaf-cs/degreepath/audit/limit"
	"github.com/stolaf-cs/degreepath/audit/path"
	"github.com/stolaf-cs/degreepath/audit/predicate"
	"github.com/stolaf-cs/degreepath/audit/rule"
)

var fromTable = map[string]rule.Source{
	"courses": rule.SourceTranscript, "claimed": rule.SourceClaimed,
	"areas": rule.SourceAreas, "performances": rule.SourcePerformances,
}

// loadRule dispatches on a rule node's shape (spec §6) and builds the
// matching audit/rule variant.
func loadRule(p path.Path, data map[string]interface{}) (rule.Rule, error) {
	switch {
	case has(data, "course"):
		return loadCourseRule(p, data)
	case has(data, "count"):
		return loadCountRule(p, data)
	case has(data, "from"):
		return loadQueryRule(p, data)
	case has(data, "requirement"):
		name, _ := data["requirement"].(string)
		return &rule.RequirementRef{Path: p, Name: name}, nil
	case has(data, "proficiency"):
		return loadProficiencyRule(p, data)
	case has(data, "if"):
		return loadConditionalRule(p, data)
	default:
		return nil, auditerr.Spec(p.String(), "unrecognized rule shape")
	}
}

func has(data map[string]interface{}, key string) bool {
	_, ok := data[key]
	return ok
}

const clbidPrefix = "crsid:"

// loadCourseRule handles both course-code ("CSCI 251") and direct-clbid
// ("crsid:1234") spellings of the "course" key (spec §6).
func loadCourseRule(p path.Path, data map[string]interface{}) (rule.Rule, error) {
	code, _ := data["course"].(string)
	hidden, _ := data["hidden"].(bool)

	r := &rule.CourseRule{Path: p, Hidden: hidden}
	if strings.HasPrefix(code, clbidPrefix) {
		r.Clbid = course.Clbid(strings.TrimPrefix(code, clbidPrefix))
	} else if clbid, ok := data["clbid"].(string); ok && clbid != "" {
		r.Clbid = course.Clbid(clbid)
	} else {
		r.CourseCode = code
	}
	return r, nil
}

func loadCountRule(p path.Path, data map[string]interface{}) (rule.Rule, error) {
	ofItems := asSlice(data["of"])
	children := make([]rule.Rule, 0, len(ofItems))
	for i, item := range ofItems {
		child, err := loadRule(p.Child(".of").Indexed(i), stringKeyed(item))
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}

	required, err := loadCountRequired(data["count"], len(children))
	if err != nil {
		return nil, auditerr.Wrap(err, p.String())
	}

	atMost, _ := data["at_most"].(bool)

	auditAssertions, err := loadAssertions(stringKeyed(data["audit"]))
	if err != nil {
		return nil, err
	}

	return &rule.CountRule{
		Path:     p,
		Required: required,
		Of:       children,
		AtMost:   atMost,
		Audit:    auditAssertions,
	}, nil
}

func loadCountRequired(raw interface{}, n int) (int, error) {
	switch v := raw.(type) {
	case string:
		switch v {
		case "all":
			return n, nil
		case "any":
			return 1, nil
		default:
			return 0, auditerr.Spec("count", fmt.Sprintf("expected \"all\", \"any\", or an integer, got %q", v))
		}
	case int:
		return v, nil
	case int64:
		return int(v), nil
	default:
		return 0, auditerr.Spec("count", fmt.Sprintf("expected \"all\", \"any\", or an integer, got %v", raw))
	}
}

func loadQueryRule(p path.Path, data map[string]interface{}) (rule.Rule, error) {
	fromName, _ := data["from"].(string)
	from, ok := fromTable[fromName]
	if !ok {
		return nil, auditerr.Spec(p.String(), fmt.Sprintf("unknown \"from\" source %q", fromName))
	}

	var where predicate.Predicate
	if raw, ok := data["where"]; ok {
		w, err := loadPredicate(stringKeyed(raw))
		if err != nil {
			return nil, err
		}
		where = w
	}

	assertions, err := loadAssertions(data)
	if err != nil {
		return nil, err
	}

	limits, err := loadLimitSet(data["limit"])
	if err != nil {
		return nil, err
	}

	allowClaimed, hasAllow := data["allow_claimed"].(bool)
	claim, hasClaim := data["claim"].(bool)
	if !hasClaim {
		claim = true
	}
	if !hasAllow {
		allowClaimed = false
	}

	return &rule.QueryRule{
		Path:         p,
		From:         from,
		Where:        where,
		Assertions:   assertions,
		Limits:       limits,
		AllowClaimed: allowClaimed,
		Claim:        claim,
	}, nil
}

func loadProficiencyRule(p path.Path, data map[string]interface{}) (rule.Rule, error) {
	name, _ := data["proficiency"].(string)
	r := &rule.ProficiencyRule{Path: p, Name: name}
	if raw, ok := data["course"]; ok {
		child, err := loadCourseRule(p.Child(".course"), stringKeyed(raw))
		if err != nil {
			return nil, err
		}
		cr, ok := child.(*rule.CourseRule)
		if !ok {
			return nil, auditerr.Spec(p.String(), "proficiency course must be a course rule")
		}
		r.Course = cr
	}
	return r, nil
}

func loadConditionalRule(p path.Path, data map[string]interface{}) (rule.Rule, error) {
	ifPred, err := loadPredicate(stringKeyed(data["if"]))
	if err != nil {
		return nil, err
	}
	thenRaw, ok := data["then"]
	if !ok {
		return nil, auditerr.Spec(p.String(), "missing required \"then\"")
	}
	whenTrue, err := loadRule(p.Child(".then"), stringKeyed(thenRaw))
	if err != nil {
		return nil, err
	}

	r := &rule.ConditionalRule{Path: p, If: ifPred, WhenTrue: whenTrue}
	if elseRaw, ok := data["else"]; ok {
		whenFalse, err := loadRule(p.Child(".else"), stringKeyed(elseRaw))
		if err != nil {
			return nil, err
		}
		r.WhenFalse = whenFalse
	}
	return r, nil
}

// loadRequirement builds a named Requirement definition (spec §6's root
// "requirements" map entries).
func loadRequirement(name string, p path.Path, data map[string]interface{}) (*rule.Requirement, error) {
	departmentAudited, _ := data["department_audited"].(bool)
	registrarAudited, _ := data["registrar_audited"].(bool)
	message, _ := data["message"].(string)

	req := &rule.Requirement{
		Path:              p,
		Name:              name,
		DepartmentAudited: departmentAudited,
		RegistrarAudited:  registrarAudited,
		Message:           message,
	}
	if req.DepartmentAudited || req.RegistrarAudited {
		return req, nil
	}

	resultData, ok := data["result"]
	if !ok {
		return nil, auditerr.Spec(p.String(), "requirement missing \"result\" (or an audited flag)")
	}
	child, err := loadRule(p.Child(".result"), stringKeyed(resultData))
	if err != nil {
		return nil, err
	}
	req.Child = child
	return req, nil
}

// loadLimitSet builds a LimitSet from the document's "limit" list (spec
// §6), tolerating the "at most"/"at-most"/"at_most" key aliases exactly as
// original_source/dp/limit.py's Limit.load does.
func loadLimitSet(raw interface{}) (limit.LimitSet, error) {
	items := asSlice(raw)
	if items == nil {
		return limit.LimitSet{}, nil
	}

	limits := make([]limit.Limit, 0, len(items))
	for _, item := range items {
		l, err := loadLimit(stringKeyed(item))
		if err != nil {
			return limit.LimitSet{}, err
		}
		limits = append(limits, l)
	}
	return limit.LimitSet{Limits: limits}, nil
}

func loadLimit(data map[string]interface{}) (limit.Limit, error) {
	var rawAtMost interface{}
	for _, alias := range []string{"at most", "at-most", "at_most"} {
		if v, ok := data[alias]; ok {
			rawAtMost = v
			break
		}
	}
	if rawAtMost == nil {
		return limit.Limit{}, auditerr.Spec("limit", "missing required \"at_most\" key")
	}

	atMost, unit, err := parseAtMost(rawAtMost)
	if err != nil {
		return limit.Limit{}, err
	}

	whereRaw, ok := data["where"]
	if !ok {
		return limit.Limit{}, auditerr.Spec("limit", "missing required \"where\" key")
	}
	where, err := loadPredicate(stringKeyed(whereRaw))
	if err != nil {
		return limit.Limit{}, err
	}

	message, _ := data["message"].(string)

	return limit.Limit{AtMost: atMost, Unit: unit, Where: where, Message: message}, nil
}

// parseAtMost handles both a bare integer ("at_most: 3", courses implied)
// and a "N unit" string ("at_most: \"2 credits\"").
func parseAtMost(raw interface{}) (decimal.Decimal, limit.Unit, error) {
	switch v := raw.(type) {
	case int:
		return decimal.NewFromInt(int64(v)), limit.Courses, nil
	case int64:
		return decimal.NewFromInt(v), limit.Courses, nil
	case string:
		fields := strings.Fields(v)
		switch len(fields) {
		case 1:
			d, err := decimal.NewFromString(fields[0])
			if err != nil {
				return decimal.Zero, 0, auditerr.Data(fmt.Sprintf("unparseable at_most value %q", v))
			}
			return d, limit.Courses, nil
		case 2:
			d, err := decimal.NewFromString(fields[0])
			if err != nil {
				return decimal.Zero, 0, auditerr.Data(fmt.Sprintf("unparseable at_most value %q", v))
			}
			switch fields[1] {
			case "course", "courses":
				return d, limit.Courses, nil
			case "credit", "credits":
				return d, limit.Credits, nil
			default:
				return decimal.Zero, 0, auditerr.Spec("limit", fmt.Sprintf("expected course|credits, got %q", fields[1]))
			}
		default:
			return decimal.Zero, 0, auditerr.Spec("limit", fmt.Sprintf("unparseable at_most value %q", v))
		}
	default:
		return decimal.Zero, 0, auditerr.Data(fmt.Sprintf("expected an integer or \"N unit\" string, got %v", cast.ToString(raw)))
	}
}
