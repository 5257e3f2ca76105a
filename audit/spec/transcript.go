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

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"

	"github.com/stolaf-cs/degreepath/audit/auditerr"
	"github.com/stolaf-cs/degreepath/audit/course"
)

// gradeOptionTable resolves a transcript row's "grade_option" string (spec
// §3: "Graded, S/U, Audit, ...") to course.GradeOption.
var gradeOptionTable = map[string]course.GradeOption{
	"graded": course.Graded,
	"s/u":    course.SU,
	"audit":  course.Audit,
}

// LoadTranscript parses a YAML list of course records into transcript
// CourseInstance values (spec §3). Every row must carry a clbid; missing
// required fields are data errors, not specification errors (spec §7).
func LoadTranscript(data []byte) ([]course.CourseInstance, error) {
	var raw []interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "parsing transcript")
	}

	out := make([]course.CourseInstance, 0, len(raw))
	for i, item := range raw {
		row := stringKeyed(item)
		c, err := loadCourseInstance(row)
		if err != nil {
			return nil, auditerr.Wrap(err, fmt.Sprintf("transcript row %d", i))
		}
		out = append(out, c)
	}
	return out, nil
}

func loadCourseInstance(row map[string]interface{}) (course.CourseInstance, error) {
	clbid, _ := row["clbid"].(string)
	if clbid == "" {
		return course.CourseInstance{}, auditerr.Data("missing required \"clbid\"")
	}

	credits, err := decimalField(row, "credits")
	if err != nil {
		return course.CourseInstance{}, err
	}
	gradePoints, _ := decimalField(row, "grade_points")

	gradeOption := course.Graded
	if raw, ok := row["grade_option"].(string); ok {
		if g, ok := gradeOptionTable[raw]; ok {
			gradeOption = g
		}
	}

	return course.CourseInstance{
		Clbid:       course.Clbid(clbid),
		Subject:     cast.ToString(row["subject"]),
		Number:      cast.ToString(row["number"]),
		Name:        cast.ToString(row["name"]),
		Credits:     credits,
		Grade:       cast.ToString(row["grade"]),
		GradePoints: gradePoints,
		GradeOption: gradeOption,
		Attributes:  stringSlice(row["attributes"]),
		GenEdReqs:   stringSlice(row["gereqs"]),
		Term:        cast.ToInt(row["term"]),
		Year:        cast.ToInt(row["year"]),
		Institution: cast.ToString(row["institution"]),
		SubType:     cast.ToString(row["sub_type"]),

		IsInProgress:         cast.ToBool(row["is_in_progress"]),
		IsInProgressThisTerm: cast.ToBool(row["is_in_progress_this_term"]),
		IsInProgressInFuture: cast.ToBool(row["is_in_progress_in_future"]),
		IsRepeat:             cast.ToBool(row["is_repeat"]),
		IsInGPA:              cast.ToBool(row["is_in_gpa"]),
	}, nil
}

func decimalField(row map[string]interface{}, key string) (decimal.Decimal, error) {
	raw, ok := row[key]
	if !ok {
		return decimal.Zero, nil
	}
	return toDecimal(raw)
}

func stringSlice(raw interface{}) []string {
	items := asSlice(raw)
	if items == nil {
		return nil
	}
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = cast.ToString(item)
	}
	return out
}
