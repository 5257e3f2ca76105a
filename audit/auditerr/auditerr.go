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

// Package auditerr holds the fatal error taxonomy. Claim conflicts and
// failed predicates are deliberately not part of this package: they are
// normal control flow (spec §7), represented as ordinary return values
// elsewhere, never as an error.
package auditerr

import (
	"github.com/pkg/errors"
	kinds "gopkg.in/src-d/go-errors.v1"
)

var (
	// ErrSpecification is raised at load time for a malformed rule, an
	// unknown root key, a bad operator, or an unresolved requirement
	// reference. Fatal to the audit.
	ErrSpecification = kinds.NewKind("specification error at %s: %s")

	// ErrData is raised for a missing required course field or an
	// unparseable grade. Fatal to the audit.
	ErrData = kinds.NewKind("transcript data error: %s")

	// ErrInvariant marks a bug-class failure: rank > max_rank, or a ledger
	// left in an inconsistent state. The audit attempt that tripped it is
	// aborted and the offending path is reported; other audits are
	// unaffected.
	ErrInvariant = kinds.NewKind("invariant violated at %s: %s")
)

// Spec wraps an ErrSpecification with the rule path where it was found.
func Spec(path string, detail string) error {
	return ErrSpecification.New(path, detail)
}

// Data wraps an ErrData with detail about the offending field.
func Data(detail string) error {
	return ErrData.New(detail)
}

// Invariant wraps an ErrInvariant with the path where the invariant broke.
func Invariant(path string, detail string) error {
	return ErrInvariant.New(path, detail)
}

// Wrap attaches additional context to err without changing its Kind,
// mirroring how the loader threads a document path through nested
// load calls.
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, context)
}
