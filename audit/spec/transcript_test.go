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
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const sampleTranscript = `
- clbid: "1"
  subject: CSCI
  number: "251"
  name: Data Structures
  credits: "1.00"
  grade: A
  grade_option: graded
  term: 1
  year: 2021
- clbid: "2"
  subject: ART
  number: "100"
  credits: "0.25"
  grade_option: s/u
  is_in_progress: true
`

func TestLoadTranscriptParsesRows(t *testing.T) {
	require := require.New(t)

	courses, err := LoadTranscript([]byte(sampleTranscript))
	require.NoError(err)
	require.Len(courses, 2)

	require.Equal("CSCI 251", courses[0].Course())
	require.True(courses[0].Credits.Equal(decimal.RequireFromString("1.00")))

	require.True(courses[1].IsInProgress)
	require.Equal("ART 100", courses[1].Course())
}

func TestLoadTranscriptRejectsMissingClbid(t *testing.T) {
	require := require.New(t)
	_, err := LoadTranscript([]byte("- subject: CSCI\n"))
	require.Error(err)
}
