// Reelpick - Personal Movie Recommendation Engine
// Copyright 2026 M. White (mwhite-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwhite-dev/reelpick

package recommend

// Tag taxonomy. Every measured title gets exactly one tag per category:
// cognitive load, emotional outcome, energy, attention, and regret risk.
const (
	// Cognitive load (from complexity).
	TagLight  Tag = "light"
	TagMedium Tag = "medium"
	TagHeavy  Tag = "heavy"

	// Emotional outcome (from darkness and comfort).
	TagDark        Tag = "dark"
	TagFeelGood    Tag = "feel_good"
	TagUplifting   Tag = "uplifting"
	TagBittersweet Tag = "bittersweet"

	// Energy.
	TagCalm       Tag = "calm"
	TagHighEnergy Tag = "high_energy"
	TagTense      Tag = "tense"

	// Attention (from mental stimulation and rewatchability).
	TagBackgroundFriendly Tag = "background_friendly"
	TagRewatchable        Tag = "rewatchable"
	TagFullAttention      Tag = "full_attention"

	// Regret risk (from rating, intensity, darkness).
	TagSafeBet       Tag = "safe_bet"
	TagAcquiredTaste Tag = "acquired_taste"
	TagPolarizing    Tag = "polarizing"

	// Tags that appear only in user intent and family expansion.
	TagIntense       Tag = "intense"
	TagCrowdPleaser  Tag = "crowd_pleaser"
	TagMainstream    Tag = "mainstream"
)

// fallbackTags is returned for titles with no measured emotional vector.
// Deliberately never safe_bet: without verified data the regret-risk call
// stays at polarizing.
var fallbackTags = []Tag{TagMedium, TagPolarizing, TagFullAttention}

// DeriveTags maps a title's emotional vector to its descriptive tags, one
// per taxonomy category. ratingOutOfTen is the title's quality score on a
// 0-10 scale and feeds only the regret-risk category.
//
// Deterministic and order-stable: cognitive load, emotional outcome, energy,
// attention, regret risk.
func DeriveTags(vec *EmotionalVector, ratingOutOfTen float64) []Tag {
	if vec == nil {
		return append([]Tag(nil), fallbackTags...)
	}

	tags := make([]Tag, 0, 5)
	tags = append(tags,
		cognitiveLoadTag(vec.Complexity),
		emotionalOutcomeTag(vec.Darkness, vec.Comfort),
		energyTag(vec.Energy),
		attentionTag(vec.MentalStimulation, vec.Rewatchability),
		regretRiskTag(ratingOutOfTen, vec.EmotionalIntensity, vec.Darkness),
	)
	return tags
}

func cognitiveLoadTag(complexity float64) Tag {
	switch {
	case complexity <= 3:
		return TagLight
	case complexity <= 6:
		return TagMedium
	default:
		return TagHeavy
	}
}

func emotionalOutcomeTag(darkness, comfort float64) Tag {
	switch {
	case darkness >= 7:
		return TagDark
	case comfort >= 7:
		return TagFeelGood
	case comfort >= 5 && darkness <= 4:
		return TagUplifting
	default:
		return TagBittersweet
	}
}

func energyTag(energy float64) Tag {
	switch {
	case energy <= 3:
		return TagCalm
	case energy >= 7:
		return TagHighEnergy
	default:
		return TagTense
	}
}

func attentionTag(mentalStimulation, rewatchability float64) Tag {
	switch {
	case mentalStimulation <= 3:
		return TagBackgroundFriendly
	case rewatchability >= 7:
		return TagRewatchable
	default:
		return TagFullAttention
	}
}

func regretRiskTag(rating, intensity, darkness float64) Tag {
	switch {
	case rating >= 7.5 && intensity <= 6:
		return TagSafeBet
	case intensity >= 8 || darkness >= 8:
		return TagAcquiredTaste
	default:
		return TagPolarizing
	}
}

// tagFamilies is the fixed closure table used by intent-tag expansion in the
// fallback cascade and the multi-pick profile cascade. Presence of any
// member adds every member of the family.
var tagFamilies = [][]Tag{
	{TagFeelGood, TagUplifting, TagLight, TagCalm, TagRewatchable, TagBackgroundFriendly},
	{TagIntense, TagTense, TagHighEnergy, TagFullAttention},
	{TagDark, TagHeavy, TagPolarizing, TagAcquiredTaste},
	{TagSafeBet, TagCrowdPleaser, TagMainstream},
}

// expandTagFamilies returns the family closure of the given tags, input
// first, family additions in table order, without duplicates.
func expandTagFamilies(tags []Tag) []Tag {
	if len(tags) == 0 {
		return nil
	}

	seen := make(map[Tag]struct{}, len(tags)*4)
	out := make([]Tag, 0, len(tags)*4)
	add := func(t Tag) {
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}

	for _, t := range tags {
		add(t)
	}
	for _, family := range tagFamilies {
		member := false
		for _, t := range tags {
			for _, f := range family {
				if t == f {
					member = true
					break
				}
			}
			if member {
				break
			}
		}
		if !member {
			continue
		}
		for _, f := range family {
			add(f)
		}
	}
	return out
}
