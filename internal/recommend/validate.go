// Reelpick - Personal Movie Recommendation Engine
// Copyright 2026 M. White (mwhite-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwhite-dev/reelpick

package recommend

import "strings"

// shortFilmCutoffMinutes rejects shorts for non-series content: anything
// under 40 minutes is not a feature.
const shortFilmCutoffMinutes = 40

// recencyGateYear is the oldest release year the recency gate lets through.
const recencyGateYear = 2010

// Validate runs one candidate through the ordered validation gate and
// short-circuits on the first failing rule. It is pure: identical inputs,
// including the injected timeOfDay, produce identical outcomes.
//
// Rule order is load-bearing: availability, language, platform, exclusion,
// runtime, content type, recency gate, quality threshold, mood/tag
// compatibility. The stop-condition diagnoser and several tests depend on
// this exact order.
func Validate(c Candidate, p Profile, tod TimeOfDay) ValidationOutcome {
	if !c.Available {
		return invalid(ReasonUnavailable)
	}

	if len(p.PreferredLanguages) > 0 && !languageOK(c, p) {
		return invalid(ReasonLanguageMismatch)
	}

	if len(p.Platforms) > 0 && !platformsIntersect(c.Platforms, p.Platforms) {
		return invalid(ReasonPlatformMismatch)
	}

	if p.Excluded(c.ID) {
		return invalid(ReasonAlreadyInteracted)
	}

	if !runtimeOK(c, p) {
		return invalid(ReasonRuntimeOutOfWindow)
	}

	if !contentTypeOK(c, p) {
		return invalid(ReasonContentTypeMismatch)
	}

	if p.RecencyGate && c.Year > 0 && c.Year < recencyGateYear {
		return invalid(ReasonRecencyGateFailed)
	}

	if c.effectiveScore() < QualityThreshold(p, tod, c.Language) {
		return invalid(ReasonGoodscoreBelowThreshold)
	}

	if !moodCompatible(c, p) {
		return invalid(ReasonNoMatchingTags)
	}

	return valid()
}

func languageOK(c Candidate, p Profile) bool {
	for _, pref := range p.PreferredLanguages {
		if languageMatches(c.Language, pref) {
			return true
		}
	}
	return false
}

// nonFeatureMarkers identify stand-up specials, concert films and
// behind-the-scenes material that should never come out of a movie pick.
var nonFeatureGenreMarkers = []string{
	"stand-up", "stand up", "comedy special", "concert", "talk show",
}

var nonFeatureTitleMarkers = []string{
	"stand-up", "stand up special", "behind the scenes", ": live at",
	"live in concert", "the concert film", "unplugged",
}

func runtimeOK(c Candidate, p Profile) bool {
	if window, constrained := p.RuntimeWindow.Normalized(); constrained {
		if c.RuntimeMinutes < window.Min || c.RuntimeMinutes > window.Max {
			return false
		}
	}

	// Shorts are not features.
	if c.ContentType != ContentSeries && c.RuntimeMinutes > 0 && c.RuntimeMinutes < shortFilmCutoffMinutes {
		return false
	}

	return !isNonFeature(c)
}

func isNonFeature(c Candidate) bool {
	for _, g := range c.Genres {
		lg := strings.ToLower(g)
		for _, marker := range nonFeatureGenreMarkers {
			if strings.Contains(lg, marker) {
				return true
			}
		}
	}
	title := strings.ToLower(c.Title)
	for _, marker := range nonFeatureTitleMarkers {
		if strings.Contains(title, marker) {
			return true
		}
	}
	return false
}

func contentTypeOK(c Candidate, p Profile) bool {
	if p.RequiresSeries {
		return c.ContentType == ContentSeries
	}
	return c.ContentType != ContentSeries
}

// Quality threshold tuning. Base depends on mood, adjusted by time of day
// and recommendation style, then discounted for small-catalog languages.
const (
	thresholdDefault          = 80.0
	thresholdTired            = 88.0
	thresholdAdventurousMood  = 75.0
	thresholdLateNightFloor   = 85.0
	thresholdBalancedDiscount = 2.0
	thresholdAdventurousStyle = 70.0
	thresholdSmallCatalogCut  = 10.0
	thresholdAbsoluteFloor    = 65.0
)

// QualityThreshold computes the 0-100 quality floor a candidate must meet.
// Exported for the stop-condition diagnoser and the fallback audit record.
func QualityThreshold(p Profile, tod TimeOfDay, candidateLanguage string) float64 {
	base := thresholdDefault
	switch p.Mood {
	case "tired":
		base = thresholdTired
	case "adventurous":
		base = thresholdAdventurousMood
	}

	if tod == TimeLateNight && base < thresholdLateNightFloor {
		base = thresholdLateNightFloor
	}

	switch p.Style {
	case StyleBalanced:
		base -= thresholdBalancedDiscount
	case StyleAdventurous:
		// Overrides the late-night floor.
		base = thresholdAdventurousStyle
	}

	if isSmallCatalogLanguage(candidateLanguage) {
		base -= thresholdSmallCatalogCut
		if base < thresholdAbsoluteFloor {
			base = thresholdAbsoluteFloor
		}
	}

	return base
}

// moodCompatible applies the mood/tag compatibility rule, the last gate.
//
// With a configured remote mood mapping, a measured candidate must sit
// inside every configured dimension bound and carry none of the anti-tags.
// Unmeasured candidates fall back to tag intersection with the mapping's
// compatible tags (passing automatically when that list is empty). Without
// a mapping, candidate tags must intersect the intent tags, and an empty
// intent list passes everything.
func moodCompatible(c Candidate, p Profile) bool {
	if p.MoodMapping.Configured() {
		return moodMappingCompatible(c, p.MoodMapping)
	}

	if len(p.IntentTags) == 0 {
		return true
	}
	return tagsIntersect(c.Tags, p.IntentTags)
}

func moodMappingCompatible(c Candidate, m *MoodMapping) bool {
	if c.Emotional == nil {
		if len(m.CompatibleTags) == 0 {
			return true
		}
		return tagsIntersect(c.Tags, m.CompatibleTags)
	}

	for dim, rule := range m.Dimensions {
		v := c.Emotional.Value(dim)
		if v < rule.Min || v > rule.Max {
			return false
		}
	}
	return !tagsIntersect(c.Tags, m.AntiTags)
}

func tagsIntersect(a, b []Tag) bool {
	for _, t := range a {
		for _, u := range b {
			if t == u {
				return true
			}
		}
	}
	return false
}
