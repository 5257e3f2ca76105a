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

// This is an example of how to run a single area audit from the command
// line:
//
// > degreeaudit -area area.yaml -transcript transcript.yaml
//
// It reads a specification document and a transcript, runs one audit, and
// prints the final result's path, status, rank, and max_rank.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/stolaf-cs/degreepath/audit/area"
	"github.com/stolaf-cs/degreepath/audit/course"
	"github.com/stolaf-cs/degreepath/audit/predicate"
	"github.com/stolaf-cs/degreepath/audit/rule"
	"github.com/stolaf-cs/degreepath/audit/spec"
)

var (
	areaPath       string
	transcriptPath string
)

func main() {
	flag.StringVar(&areaPath, "area", "", "path to the area specification YAML document")
	flag.StringVar(&transcriptPath, "transcript", "", "path to the transcript YAML document")
	flag.Parse()

	if areaPath == "" || transcriptPath == "" {
		fmt.Fprintln(os.Stderr, "degreeaudit: both -area and -transcript are required")
		os.Exit(2)
	}

	areaDoc, err := os.ReadFile(areaPath)
	if err != nil {
		panic(err)
	}
	transcriptDoc, err := os.ReadFile(transcriptPath)
	if err != nil {
		panic(err)
	}

	loadedArea, err := spec.Load(areaDoc)
	if err != nil {
		panic(err)
	}
	transcript, err := spec.LoadTranscript(transcriptDoc)
	if err != nil {
		panic(err)
	}

	ctx := &rule.Context{
		Go:            context.Background(),
		Eval:          predicate.EvalContext{Grades: course.DefaultGradeTable()},
		Transcript:    transcript,
		Proficiencies: map[string]bool{},
		Requirements:  loadedArea.Requirements,
	}

	d := &area.Driver{
		AreaCode:   loadedArea.Code,
		Degree:     loadedArea.Degree,
		Kind:       loadedArea.Kind,
		Root:       loadedArea.Root,
		Limits:     loadedArea.Limits,
		Multicount: loadedArea.Multicount,
		Log:        logrus.NewEntry(logrus.StandardLogger()),
		Emit:       printEvent,
	}

	result, ok, err := d.Run(ctx)
	if err != nil {
		panic(err)
	}
	if result == nil {
		fmt.Println("no audit completed")
		os.Exit(1)
	}

	fmt.Printf("%s: %s (rank %s/%s)\n", result.Path, result.Status, result.Rank, result.MaxRank)
	if !ok {
		os.Exit(1)
	}
}

func printEvent(e area.Event) {
	switch ev := e.(type) {
	case area.AuditStart:
		fmt.Printf("starting audit of %s (run %s)\n", ev.AreaCode, ev.RunID)
	case area.Progress:
		fmt.Printf("progress: %d solutions audited (%s elapsed)\n", ev.Iterations, ev.Elapsed)
	case area.ResultEvent:
		fmt.Printf("audited %d solutions in %s\n", ev.Iterations, ev.Elapsed)
	case area.NoAuditsCompleted:
		fmt.Println("no candidate solution was ever produced")
	case area.Cancelled:
		fmt.Printf("cancelled after %d solutions (%s elapsed)\n", ev.Iterations, ev.Elapsed)
	}
}
