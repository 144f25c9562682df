// Reelpick - Personal Movie Recommendation Engine
// Copyright 2026 M. White (mwhite-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwhite-dev/reelpick

package recommend

// actionDeltas maps an interaction kind to the per-tag weight delta it
// applies. Deltas are additive and commutative across the tags touched by
// one action; no clamping happens at this layer.
var actionDeltas = map[ActionKind]float64{
	ActionCompleted:     0.2,
	ActionNotTonight:    -0.2,
	ActionAbandoned:     -0.4,
	ActionWatchNow:      0.15,
	ActionShowMeAnother: -0.05,
	ActionImplicitSkip:  -0.05,
}

// UpdateTagWeights turns one interaction event into a new per-tag weight
// map. The current map is never mutated; missing tags start at the 1.0
// default before the delta is applied. Persisting the result is the
// caller's job.
func UpdateTagWeights(current map[Tag]float64, tags []Tag, action ActionKind) map[Tag]float64 {
	out := make(map[Tag]float64, len(current)+len(tags))
	for t, w := range current {
		out[t] = w
	}

	delta, ok := actionDeltas[action]
	if !ok {
		return out
	}

	for _, t := range tags {
		w, exists := out[t]
		if !exists {
			w = 1.0
		}
		out[t] = w + delta
	}
	return out
}

// ApplyPlatformFeedback returns a new platform-bias map with one accept or
// reject recorded against the given platform. The input map is not mutated.
func ApplyPlatformFeedback(current map[string]PlatformStats, platform string, accepted bool) map[string]PlatformStats {
	out := make(map[string]PlatformStats, len(current)+1)
	for k, v := range current {
		out[k] = v
	}

	stats := out[platform]
	if accepted {
		stats.Accepts++
	} else {
		stats.Rejects++
	}
	out[platform] = stats
	return out
}

// ApplyDimensionalRejection returns the dimensional counters with one
// rejection recorded. Unrecognized reasons leave the counters unchanged.
func ApplyDimensionalRejection(current DimensionalLearning, reason RejectionReason) DimensionalLearning {
	switch reason {
	case RejectTooLong:
		current.TooLong++
	case RejectNotInMood:
		current.NotInMood++
	case RejectNotInterested:
		current.NotInterested++
	}
	return current
}

// positiveActions marks action kinds that count as platform accepts.
var positiveActions = map[ActionKind]struct{}{
	ActionCompleted: {},
	ActionWatchNow:  {},
}

// IsPositiveAction reports whether an action counts as an accept for
// platform-bias learning.
func IsPositiveAction(a ActionKind) bool {
	_, ok := positiveActions[a]
	return ok
}
