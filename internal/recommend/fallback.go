// Reelpick - Personal Movie Recommendation Engine
// Copyright 2026 M. White (mwhite-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwhite-dev/reelpick

package recommend

// Mood-mapping widening at fallback level 1: each configured dimension
// bound moves out by this much, clamped to the 0-10 scale.
const moodBoundWiden = 2.0

// relaxedTagsProfile builds the level-1 profile: mood-mapping bounds
// widened and anti-tags cleared, intent tags expanded through the family
// closure. Language and platform are never touched; the result is a copy.
func relaxedTagsProfile(p *Profile) *Profile {
	out := p.clone()

	if out.MoodMapping.Configured() {
		for dim, rule := range out.MoodMapping.Dimensions {
			rule.Min -= moodBoundWiden
			if rule.Min < 0 {
				rule.Min = 0
			}
			rule.Max += moodBoundWiden
			if rule.Max > 10 {
				rule.Max = 10
			}
			out.MoodMapping.Dimensions[dim] = rule
		}
		out.MoodMapping.AntiTags = nil
	}

	out.IntentTags = expandTagFamilies(out.IntentTags)
	return out
}

// relaxedRuntimeProfile builds the level-2 profile: level 1 plus a widened
// runtime window and the recency gate dropped.
func relaxedRuntimeProfile(p *Profile) *Profile {
	out := relaxedTagsProfile(p)

	if window, constrained := out.RuntimeWindow.Normalized(); constrained {
		min := window.Min - runtimeRelaxMinutes
		if min < runtimeClampMin {
			min = runtimeClampMin
		}
		max := window.Max + runtimeRelaxMinutes
		if max > runtimeClampMax {
			max = runtimeClampMax
		}
		out.RuntimeWindow = RuntimeWindow{Min: min, Max: max}
	}

	out.RecencyGate = false
	return out
}

// fallbackProfile returns the relaxed profile for a cascade level.
// LevelNone returns the original untouched.
func fallbackProfile(p *Profile, level FallbackLevel) *Profile {
	switch level {
	case LevelRelaxedTags:
		return relaxedTagsProfile(p)
	case LevelRelaxedRuntime:
		return relaxedRuntimeProfile(p)
	default:
		return p
	}
}
