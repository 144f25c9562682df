// Reelpick - Personal Movie Recommendation Engine
// Copyright 2026 M. White (mwhite-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwhite-dev/reelpick

package recommend

import "math"

// Base term weights before the optional taste term claims its share. When
// taste is active the other four scale down proportionally so the total
// always sums to 1.0.
const (
	weightTagAlignment   = 0.50
	weightRegretSafety   = 0.25
	weightPlatformBias   = 0.15
	weightDimensionalFit = 0.10
)

// Taste weight ramp by feedback count.
const (
	tasteRampMid      = 0.075 // 3-9 feedback events
	tasteRampHigh     = 0.12  // 10-19
	tasteRampFull     = 0.15  // 20+
	tasteMinFeedback  = 3
	tasteHighFeedback = 10
	tasteFullFeedback = 20
)

// Confidence boost: once enough tag weights have drifted from the 1.0
// default, the tag-alignment signal is trusted a little more.
const (
	confidenceMinLearnedTags = 10
	confidenceMaxLearnedTags = 20
	confidenceBoostFactor    = 0.05
	learnedWeightEpsilon     = 0.001
)

// antiTagPenalty is subtracted from tag alignment per anti-tag present.
const antiTagPenalty = 0.10

// Score computes the desirability of a valid candidate for a profile.
// The result is always clamped to [0,1]. Pure; no side effects.
func Score(c Candidate, p Profile) float64 {
	tasteWeight := tasteTermWeight(p)
	scale := 1.0 - tasteWeight

	alignment := tagAlignmentTerm(c, p)

	score := alignment*weightTagAlignment*scale +
		regretSafetyTerm(c, p)*weightRegretSafety*scale +
		platformBiasTerm(c, p)*weightPlatformBias*scale +
		dimensionalFitTerm(c, p)*weightDimensionalFit*scale

	if tasteWeight > 0 {
		score += clamp01(p.Taste.Affinity) * tasteWeight
	}

	score += confidenceBoost(p, alignment)

	return clamp01(score)
}

// tasteTermWeight ramps the external taste signal in with feedback volume.
func tasteTermWeight(p Profile) float64 {
	if p.Taste == nil {
		return 0
	}
	switch n := p.Taste.FeedbackCount; {
	case n < tasteMinFeedback:
		return 0
	case n < tasteHighFeedback:
		return tasteRampMid
	case n < tasteFullFeedback:
		return tasteRampHigh
	default:
		return tasteRampFull
	}
}

// tagAlignmentTerm measures how well the candidate fits the requested mood.
//
// With a configured mood mapping it is the weighted mean closeness of the
// candidate's emotional dimensions to the mapping ideals, minus a penalty
// per anti-tag. Otherwise it is a weighted Jaccard over intent tags using
// the learned tag weights.
func tagAlignmentTerm(c Candidate, p Profile) float64 {
	if p.MoodMapping.Configured() && len(p.MoodMapping.Dimensions) > 0 {
		return moodAlignment(c, p.MoodMapping)
	}
	return weightedJaccard(c, p)
}

func moodAlignment(c Candidate, m *MoodMapping) float64 {
	var weightedDistance, totalWeight float64
	for dim, rule := range m.Dimensions {
		w := rule.Weight
		if w <= 0 {
			w = 1.0
		}
		v := c.Emotional.Value(dim)
		weightedDistance += w * math.Abs(v-rule.Ideal) / 10.0
		totalWeight += w
	}

	alignment := 1.0
	if totalWeight > 0 {
		alignment = 1.0 - weightedDistance/totalWeight
	}

	for _, anti := range m.AntiTags {
		if c.HasTag(anti) {
			alignment -= antiTagPenalty
		}
	}

	return clamp01(alignment)
}

func weightedJaccard(c Candidate, p Profile) float64 {
	if len(p.IntentTags) == 0 {
		return 0
	}

	var matched, total float64
	for _, t := range p.IntentTags {
		w := p.TagWeight(t)
		total += w
		if c.HasTag(t) {
			matched += w
		}
	}
	if total <= 0 {
		return 0
	}
	return clamp01(matched / total)
}

// regretSafetyTerm rewards safe bets and penalizes polarizing picks,
// scaled by the learned weight of the matching regret-risk tag.
func regretSafetyTerm(c Candidate, p Profile) float64 {
	switch {
	case c.HasTag(TagSafeBet):
		return clamp01(1.0 * p.TagWeight(TagSafeBet))
	case c.HasTag(TagPolarizing):
		return clamp01(0.4 * p.TagWeight(TagPolarizing))
	case c.HasTag(TagAcquiredTaste):
		return clamp01(0.6 * p.TagWeight(TagAcquiredTaste))
	default:
		return 0.5
	}
}

// minPlatformInteractions is the sample floor below which platform history
// is ignored in favor of the neutral 0.5.
const minPlatformInteractions = 3

// platformBiasTerm is the best historical accept ratio among the
// candidate's platforms, neutral when history is thin.
func platformBiasTerm(c Candidate, p Profile) float64 {
	best := -1.0
	for platform, stats := range p.PlatformBias {
		if stats.Total() < minPlatformInteractions {
			continue
		}
		for _, cp := range c.Platforms {
			if platformNameMatch(cp, platform) || platformsIntersect([]string{cp}, []string{platform}) {
				ratio := float64(stats.Accepts) / float64(stats.Total())
				if ratio > best {
					best = ratio
				}
				break
			}
		}
	}
	if best < 0 {
		return 0.5
	}
	return clamp01(best)
}

// minDimensionalRejections is the sample floor for dimensional penalties.
const minDimensionalRejections = 3

// dimensionalFitTerm converts accumulated rejection reasons into an
// inverted penalty: users who keep rejecting long titles see long titles
// score lower, and so on.
func dimensionalFitTerm(c Candidate, p Profile) float64 {
	total := p.Dimensional.Total()
	if total < minDimensionalRejections {
		return 1.0
	}

	tooLongRatio := float64(p.Dimensional.TooLong) / float64(total)
	notInMoodRatio := float64(p.Dimensional.NotInMood) / float64(total)

	var penalty float64
	switch {
	case c.RuntimeMinutes > 150:
		penalty += tooLongRatio * 0.5
	case c.RuntimeMinutes > 120:
		penalty += tooLongRatio * 0.2
	}

	if c.HasTag(TagPolarizing) || c.HasTag(TagAcquiredTaste) {
		penalty += notInMoodRatio * 0.15
	}

	return 1.0 - clamp01(penalty)
}

// confidenceBoost adds a small bonus proportional to tag alignment once at
// least confidenceMinLearnedTags weights have drifted from the default.
// Exactly zero below the floor, capped at confidenceMaxLearnedTags.
func confidenceBoost(p Profile, alignment float64) float64 {
	learned := 0
	for _, w := range p.TagWeights {
		if math.Abs(w-1.0) > learnedWeightEpsilon {
			learned++
		}
	}
	if learned < confidenceMinLearnedTags {
		return 0
	}

	ramp := float64(learned-confidenceMinLearnedTags) / float64(confidenceMaxLearnedTags-confidenceMinLearnedTags)
	if ramp > 1 {
		ramp = 1
	}
	return alignment * confidenceBoostFactor * ramp
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
