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

package rule

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/stolaf-cs/degreepath/audit/assertion"
	"github.com/stolaf-cs/degreepath/audit/path"
	"github.com/stolaf-cs/degreepath/audit/predicate"
)

// CommonRequirementsInput configures the three area-independent
// requirements every major carries (spec §9 Open Question (b);
// reconstructed from original_source/degreepath/area.py's
// prepare_common_rules, which these three Requirements are a direct
// port of).
type CommonRequirementsInput struct {
	Degree   string
	DeptCode *string // nil reproduces the source's dept_code=None path
	AreaCode string

	// OtherAreaCodes lists the student's other declared area codes, used
	// only to detect the studio-art/art-history double-major case.
	OtherAreaCodes []string
}

const (
	studioArtCode  = "140"
	artHistoryCode = "135"
)

// CommonRequirements builds c_or_better, s_u_credits, and (when the major
// is not a B.M.) outside_the_major as three sibling Requirement rules
// under a synthetic "%Common Requirements" count node, matching the
// source's ['$', '%Common Requirements', '.count', '[n]'] path shape.
func CommonRequirements(in CommonRequirementsInput) *CountRule {
	base := path.Root.Child("%Common Requirements").Child(".count")

	isHistoryAndStudio := (in.AreaCode == studioArtCode && contains(in.OtherAreaCodes, artHistoryCode)) ||
		(in.AreaCode == artHistoryCode && contains(in.OtherAreaCodes, studioArtCode))

	creditsMessage := ""
	creditsOutsideMajor := int64(21)
	if isHistoryAndStudio {
		creditsMessage = " Students who double-major in studio art and art history are required to complete at least 18 full-course credits outside the SIS 'ART' subject code."
		creditsOutsideMajor = 18
	}

	isBMMajor := in.Degree == "B.M."

	of := []Rule{
		cOrBetter(base.Indexed(0)),
		suCredits(base.Indexed(1), isBMMajor),
	}
	if !isBMMajor {
		of = append(of, outsideTheMajor(base.Indexed(2), in.DeptCode, creditsOutsideMajor, creditsMessage))
	}

	return &CountRule{
		Path:     base,
		Required: len(of),
		Of:       of,
	}
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func cOrBetter(p Path) *Requirement {
	where := predicate.And{Children: []predicate.Predicate{
		predicate.Leaf{Key: "grade", Operator: predicate.Gte, Expected: "C"},
		predicate.Leaf{Key: "credits", Operator: predicate.Gt, Expected: decimal.Zero},
		predicate.Leaf{Key: "is_in_progress", Operator: predicate.Eq, Expected: false},
	}}
	q := &QueryRule{
		Path:         p.Child(".result"),
		From:         SourceTranscript,
		Where:        where,
		Assertions:   []assertion.Assertion{assertion.NewSum(assertion.SourceCredits, predicate.Gte, decimal.NewFromInt(6))},
		AllowClaimed: true,
		Claim:        false,
	}
	return &Requirement{
		Path:  p,
		Name:  "Credits at a C or higher",
		Child: q,
		Message: "Of the credits counting toward the minimum requirements for a major, " +
			"a total of six (6.00) must be completed with a grade of C or higher.",
	}
}

func suCredits(p Path, isBMMajor bool) *Requirement {
	if isBMMajor {
		q := &QueryRule{
			Path:         p.Child(".result"),
			From:         SourceTranscript,
			Where:        predicate.Leaf{Key: "s/u", Operator: predicate.Eq, Expected: true},
			Assertions:   []assertion.Assertion{assertion.NewCount(assertion.SourceCourses, predicate.Eq, decimal.Zero)},
			AllowClaimed: true,
			Claim:        false,
		}
		return &Requirement{
			Path:    p,
			Name:    "Credits taken S/U",
			Child:   q,
			Message: "No courses in a B.M Music major may be taken S/U.",
		}
	}

	where := predicate.And{Children: []predicate.Predicate{
		predicate.Leaf{Key: "s/u", Operator: predicate.Eq, Expected: true},
		predicate.Leaf{Key: "credits", Operator: predicate.Eq, Expected: decimal.NewFromInt(1)},
	}}
	q := &QueryRule{
		Path:         p.Child(".result"),
		From:         SourceTranscript,
		Where:        where,
		Assertions:   []assertion.Assertion{assertion.NewCount(assertion.SourceCourses, predicate.Lte, decimal.NewFromInt(1))},
		AllowClaimed: true,
		Claim:        false,
	}
	return &Requirement{
		Path:  p,
		Name:  "Credits taken S/U",
		Child: q,
		Message: "Only one full-course equivalent (1.00-credit course) taken S/U may count toward " +
			"the minimum requirements for a major.",
	}
}

// outsideTheMajor reproduces the source's dept_code=None anomaly
// verbatim: when a major has no recorded SIS department code, the source
// still interpolates dept_code into its message via Python's str(None),
// producing the literal substring "None" rather than omitting the
// parenthetical — this solver does the same rather than silently fixing
// what the Open Question in spec §9 explicitly leaves unresolved.
func outsideTheMajor(p Path, deptCode *string, creditsOutsideMajor int64, creditsMessage string) *Requirement {
	deptDisplay := "None"
	if deptCode != nil {
		deptDisplay = *deptCode
	}
	message := fmt.Sprintf("21 total credits must be completed outside of the SIS 'subject' code of the major (%s).%s", deptDisplay, creditsMessage)

	if deptCode == nil {
		return &Requirement{
			Path:             p,
			Name:             "Credits outside the major",
			RegistrarAudited: true,
			Message:          message,
		}
	}

	where := predicate.And{Children: []predicate.Predicate{
		predicate.Leaf{Key: "subject", Operator: predicate.Neq, Expected: *deptCode},
		predicate.Leaf{Key: "subject", Operator: predicate.Neq, Expected: "REG"},
	}}
	q := &QueryRule{
		Path:         p.Child(".result"),
		From:         SourceTranscript,
		Where:        where,
		Assertions:   []assertion.Assertion{assertion.NewSum(assertion.SourceCredits, predicate.Gte, decimal.NewFromInt(creditsOutsideMajor))},
		AllowClaimed: true,
		Claim:        false,
	}
	return &Requirement{
		Path:    p,
		Name:    "Credits outside the major",
		Child:   q,
		Message: message,
	}
}
