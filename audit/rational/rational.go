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

// Package rational implements exact rational arithmetic for rank
// computation. Rank comparisons in the ranker's tiebreak order must be
// exact: a floating-point rank of 2/3 vs 0.6666666 would make two
// structurally-equal solutions compare unequal.
package rational

import (
	"fmt"
	"math/big"
)

// Fraction is an exact rational number; Sub can make it negative. Zero
// value is 0/1.
type Fraction struct {
	r big.Rat
}

// Zero is the additive identity.
var Zero = Fraction{}

// One is the multiplicative identity.
var One = New(1, 1)

// New builds a Fraction equal to num/den. Panics if den is zero.
func New(num, den int64) Fraction {
	var f Fraction
	f.r.SetFrac64(num, den)
	return f
}

// FromInt builds a Fraction equal to n/1.
func FromInt(n int64) Fraction {
	return New(n, 1)
}

// Add returns f + other.
func (f Fraction) Add(other Fraction) Fraction {
	var out Fraction
	out.r.Add(&f.r, &other.r)
	return out
}

// Sub returns f - other.
func (f Fraction) Sub(other Fraction) Fraction {
	var out Fraction
	out.r.Sub(&f.r, &other.r)
	return out
}

// Mul returns f * other.
func (f Fraction) Mul(other Fraction) Fraction {
	var out Fraction
	out.r.Mul(&f.r, &other.r)
	return out
}

// Div returns f / other. Panics if other is zero.
func (f Fraction) Div(other Fraction) Fraction {
	if other.r.Sign() == 0 {
		panic("rational: division by zero")
	}
	var out Fraction
	out.r.Quo(&f.r, &other.r)
	return out
}

// Cmp returns -1, 0, or 1 as f is less than, equal to, or greater than other.
func (f Fraction) Cmp(other Fraction) int {
	return f.r.Cmp(&other.r)
}

// Equal reports whether f and other are the same exact value.
func (f Fraction) Equal(other Fraction) bool {
	return f.Cmp(other) == 0
}

// LessThan reports whether f < other.
func (f Fraction) LessThan(other Fraction) bool {
	return f.Cmp(other) < 0
}

// IsZero reports whether f is exactly zero.
func (f Fraction) IsZero() bool {
	return f.r.Sign() == 0
}

// Min returns the smaller of f and other.
func Min(f, other Fraction) Fraction {
	if other.LessThan(f) {
		return other
	}
	return f
}

// Float64 returns the nearest float64 approximation, for display only —
// never for comparison.
func (f Fraction) Float64() float64 {
	v, _ := f.r.Float64()
	return v
}

// String renders as "num/den", or as a plain integer ("0", "1") when the
// denominator is 1, matching the teacher's
// decimal types' plain numeric Stringer convention.
func (f Fraction) String() string {
	return f.r.RatString()
}

// GoString supports %#v in tests and debug dumps.
func (f Fraction) GoString() string {
	return fmt.Sprintf("rational.New(%s, %s)", f.r.Num().String(), f.r.Denom().String())
}

// Sum adds a sequence of Fractions, starting from zero.
func Sum(fs ...Fraction) Fraction {
	out := Zero
	for _, f := range fs {
		out = out.Add(f)
	}
	return out
}

// Clamp returns f bounded to [lo, hi]. Used to bound rank for Count rules
// carrying `at_most`, where extra passing children beyond the cap must not
// inflate the rule's reported rank.
func Clamp(f, lo, hi Fraction) Fraction {
	if f.LessThan(lo) {
		return lo
	}
	if hi.LessThan(f) {
		return hi
	}
	return f
}
