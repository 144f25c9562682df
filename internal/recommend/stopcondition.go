// Reelpick - Personal Movie Recommendation Engine
// Copyright 2026 M. White (mwhite-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwhite-dev/reelpick

package recommend

// StopCondition is the terminal diagnosis when no candidate survives
// validation after fallback exhaustion. The set is closed; each condition
// carries a fixed short and long user-facing message. These messages are
// the only engine output ever shown raw to a user.
type StopCondition string

const (
	StopNone                  StopCondition = ""
	StopEmptyCatalog          StopCondition = "empty_catalog"
	StopAllExcluded           StopCondition = "all_excluded"
	StopNoPlatformMatch       StopCondition = "no_platform_match"
	StopNoLanguageMatch       StopCondition = "no_language_match"
	StopPlatformLanguageCombo StopCondition = "platform_language_combo"
	StopNoSeriesAvailable     StopCondition = "no_series_available"
	StopNoTagMatch            StopCondition = "no_tag_match"
	StopAllBelowThreshold     StopCondition = "all_below_threshold"
	StopNoneValid             StopCondition = "none_valid"
)

type stopMessages struct {
	short string
	long  string
}

var stopConditionMessages = map[StopCondition]stopMessages{
	StopEmptyCatalog: {
		short: "Nothing to pick from",
		long:  "The catalog is empty right now. Pull to refresh and try again.",
	},
	StopAllExcluded: {
		short: "You've been through these",
		long:  "Everything in the catalog is something you've seen, skipped, or abandoned. Clear tonight's rejections or loosen your filters.",
	},
	StopNoPlatformMatch: {
		short: "Not on your platforms",
		long:  "Nothing in the catalog streams on the platforms you selected. Add a platform to widen the pool.",
	},
	StopNoLanguageMatch: {
		short: "Not in your languages",
		long:  "Nothing in the catalog matches your preferred languages. Add a language to widen the pool.",
	},
	StopPlatformLanguageCombo: {
		short: "Platforms and languages don't overlap",
		long:  "There are titles on your platforms and titles in your languages, but nothing that is both. Relax one of the two.",
	},
	StopNoSeriesAvailable: {
		short: "No series available",
		long:  "You asked for a series, but nothing matching your filters is episodic. Switch to movies or widen your filters.",
	},
	StopNoTagMatch: {
		short: "Nothing fits that mood",
		long:  "No title matches the mood tags you picked, even after widening them. Try a different mood.",
	},
	StopAllBelowThreshold: {
		short: "Nothing good enough tonight",
		long:  "Everything left falls below tonight's quality bar. Switch to adventurous mode to lower the bar.",
	},
	StopNoneValid: {
		short: "No good match",
		long:  "No title passes all of your current filters. Relax a filter and try again.",
	},
}

// ShortMessage returns the fixed one-line user-facing message.
func (s StopCondition) ShortMessage() string {
	return stopConditionMessages[s].short
}

// LongMessage returns the fixed explanatory user-facing message.
func (s StopCondition) LongMessage() string {
	return stopConditionMessages[s].long
}

// DiagnoseStop determines the single most specific reason validation found
// nothing, checked in fixed order against the full catalog. Invoked only
// after fallback exhaustion; the first matching condition wins.
func DiagnoseStop(catalog []Candidate, p Profile, tod TimeOfDay) StopCondition {
	if len(catalog) == 0 {
		return StopEmptyCatalog
	}

	if allExcluded(catalog, p) {
		return StopAllExcluded
	}

	platformHit := len(p.Platforms) == 0
	languageHit := len(p.PreferredLanguages) == 0
	comboHit := platformHit && languageHit
	for i := range catalog {
		c := &catalog[i]
		pOK := len(p.Platforms) == 0 || platformsIntersect(c.Platforms, p.Platforms)
		lOK := len(p.PreferredLanguages) == 0 || languageOK(*c, p)
		platformHit = platformHit || pOK
		languageHit = languageHit || lOK
		comboHit = comboHit || (pOK && lOK)
	}
	if !platformHit {
		return StopNoPlatformMatch
	}
	if !languageHit {
		return StopNoLanguageMatch
	}
	if !comboHit {
		return StopPlatformLanguageCombo
	}

	if p.RequiresSeries && !anySeries(catalog) {
		return StopNoSeriesAvailable
	}

	if len(p.IntentTags) > 0 && !anyTagMatch(catalog, p.IntentTags) {
		return StopNoTagMatch
	}

	if allBelowThreshold(catalog, p, tod) {
		return StopAllBelowThreshold
	}

	return StopNoneValid
}

func allExcluded(catalog []Candidate, p Profile) bool {
	for i := range catalog {
		if !p.Excluded(catalog[i].ID) {
			return false
		}
	}
	return true
}

func anySeries(catalog []Candidate) bool {
	for i := range catalog {
		if catalog[i].ContentType == ContentSeries {
			return true
		}
	}
	return false
}

func anyTagMatch(catalog []Candidate, intent []Tag) bool {
	for i := range catalog {
		if tagsIntersect(catalog[i].Tags, intent) {
			return true
		}
	}
	return false
}

func allBelowThreshold(catalog []Candidate, p Profile, tod TimeOfDay) bool {
	for i := range catalog {
		c := &catalog[i]
		if c.effectiveScore() >= QualityThreshold(p, tod, c.Language) {
			return false
		}
	}
	return true
}
