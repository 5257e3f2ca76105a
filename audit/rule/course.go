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

import "github.com/stolaf-cs/degreepath/audit/course"

// CourseRule requires a single, specific course (spec §4.4 Course rule):
// "yields one solution — claim the referenced course if present; else
// yields a failing solution."
type CourseRule struct {
	Path Path

	// CourseCode matches against course.CourseInstance.Course() ("SUBJ
	// NUM"), e.g. "CSCI 251". Clbid, if set, matches a specific transcript
	// row directly instead (the "crsid:…" reference form, spec §6).
	CourseCode string
	Clbid      course.Clbid

	Hidden bool
}

func (r *CourseRule) NodePath() Path { return r.Path }

func (r *CourseRule) Estimate(ctx *Context) int { return 1 }

func (r *CourseRule) Solutions(ctx *Context) *SolutionIter {
	var match *course.CourseInstance
	for i := range ctx.Transcript {
		c := ctx.Transcript[i]
		if r.Clbid != "" {
			if c.Clbid == r.Clbid {
				match = &ctx.Transcript[i]
				break
			}
			continue
		}
		if c.Course() == r.CourseCode {
			match = &ctx.Transcript[i]
			break
		}
	}

	sol := &Solution{Path: r.Path, Kind: KindCourse, ClaimCourses: true}
	if match != nil {
		sol.Courses = []course.CourseInstance{*match}
	}
	return NewSolutionIter([]*Solution{sol})
}
