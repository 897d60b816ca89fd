// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package pep440

import (
	"sort"
)

// MergeSpecifiers combines any number of specifiers that constrain the same
// project into a single specifier, collapsing clauses that imply each other.
//
// The inclusive lower bounds (">=") collapse to the highest of them, the
// inclusive upper bounds ("<=") to the lowest, and likewise for the
// exclusive bounds ("<" and ">").  An inclusive bound that is already
// implied by an exclusive bound or by an exact "==" pin is dropped.
// Exclusions, compatible-release clauses, prefix matches, and arbitrary
// equality clauses all survive the merge untouched, minus duplicates.
//
// Contradictory clauses are preserved rather than diagnosed; the result of
// merging ">=2" with "<1" matches nothing, just as it would have before the
// merge.
func MergeSpecifiers(specs ...Specifier) Specifier {
	var le, lt, ge, gt *SpecifierClause
	var pins []Version
	var rest Specifier

	keep := func(clause SpecifierClause) {
		for _, existing := range rest {
			if existing.String() == clause.String() {
				return
			}
		}
		rest = append(rest, clause)
	}

	for _, spec := range specs {
		for _, clause := range spec {
			clause := clause
			switch clause.Op {
			case CmpOpLE:
				if le == nil || clause.Version.Cmp(le.Version) < 0 {
					le = &clause
				}
			case CmpOpLT:
				if lt == nil || clause.Version.Cmp(lt.Version) < 0 {
					lt = &clause
				}
			case CmpOpGE:
				if ge == nil || clause.Version.Cmp(ge.Version) > 0 {
					ge = &clause
				}
			case CmpOpGT:
				if gt == nil || clause.Version.Cmp(gt.Version) > 0 {
					gt = &clause
				}
			case CmpOpEQ:
				pins = append(pins, clause.Version)
				keep(clause)
			default:
				keep(clause)
			}
		}
	}

	// ">=1.2.2,>1.2.3" needs only the exclusive bound
	if ge != nil && gt != nil && gt.Version.Cmp(ge.Version) >= 0 {
		ge = nil
	}
	// "<=1.2.3,<1.2.2" likewise
	if le != nil && lt != nil && lt.Version.Cmp(le.Version) <= 0 {
		le = nil
	}
	// ">=1.2.2,==1.2.3" is no looser than the pin alone
	if ge != nil {
		for _, pin := range pins {
			if pin.Cmp(ge.Version) >= 0 {
				ge = nil
				break
			}
		}
	}
	// "<=1.2.3,==1.2.2" likewise
	if le != nil {
		for _, pin := range pins {
			if pin.Cmp(le.Version) <= 0 {
				le = nil
				break
			}
		}
	}

	ret := rest
	for _, clause := range []*SpecifierClause{le, lt, ge, gt} {
		if clause != nil {
			ret = append(ret, *clause)
		}
	}
	if len(ret) == 0 {
		return nil
	}
	sort.Slice(ret, func(i, j int) bool {
		return ret[i].String() < ret[j].String()
	})
	return ret
}
