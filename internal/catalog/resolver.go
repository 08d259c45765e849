package catalog

import (
	"strings"

	"github.com/watersight/watersight/internal/mapdata"
)

// Matches reports whether an area name matches a target reference. The rule
// is case-insensitive containment in either direction: "Mbeti" matches
// "MBETI SOUTH" and so does "Mbeti South Extra". This is deliberately
// permissive so partial names from the assistant still resolve; false
// positives on shared substrings are an accepted trade-off. No normalization
// beyond case folding is applied.
func Matches(areaName, target string) bool {
	a := strings.ToLower(areaName)
	t := strings.ToLower(target)
	return strings.Contains(a, t) || strings.Contains(t, a)
}

// Resolve returns all areas matching the target name, in catalog order.
// Zero, one or many matches are all valid outcomes; callers decide how to
// handle multiplicity.
func Resolve(areas []Area, target string) []Area {
	var matched []Area
	for _, area := range areas {
		if Matches(area.Name, target) {
			matched = append(matched, area)
		}
	}
	return matched
}

// ResolveAny returns all areas matching at least one of the target names,
// preserving catalog order without duplicates.
func ResolveAny(areas []Area, targets []string) []Area {
	if len(targets) == 0 {
		return nil
	}
	var matched []Area
	for _, area := range areas {
		for _, target := range targets {
			if Matches(area.Name, target) {
				matched = append(matched, area)
				break
			}
		}
	}
	return matched
}

// MatchFeatures filters raw features by the same matching rule, preserving
// input order without duplicates. Used by the viewport planner, which needs
// geometry rather than catalog rows.
func MatchFeatures(features []mapdata.Feature, targets []string) []mapdata.Feature {
	if len(targets) == 0 {
		return nil
	}
	var matched []mapdata.Feature
	for _, f := range features {
		for _, target := range targets {
			if Matches(f.Name, target) {
				matched = append(matched, f)
				break
			}
		}
	}
	return matched
}
