// Reelpick - Personal Movie Recommendation Engine
// Copyright 2026 M. White (mwhite-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwhite-dev/reelpick

package recommend

import "testing"

func TestDiagnoseStop_EmptyCatalog(t *testing.T) {
	if got := DiagnoseStop(nil, testProfile(), TimeEvening); got != StopEmptyCatalog {
		t.Errorf("DiagnoseStop(empty) = %s, want %s", got, StopEmptyCatalog)
	}
}

func TestDiagnoseStop_AllExcluded(t *testing.T) {
	catalog := []Candidate{testCandidate()}
	p := testProfile()
	p.Seen = map[string]struct{}{"m1": {}}

	if got := DiagnoseStop(catalog, p, TimeEvening); got != StopAllExcluded {
		t.Errorf("DiagnoseStop = %s, want %s", got, StopAllExcluded)
	}
}

func TestDiagnoseStop_NoPlatformMatch(t *testing.T) {
	// Platform check precedes language check: the candidate fails both,
	// and the diagnosis must name the platform.
	c := testCandidate()
	c.Platforms = []string{"netflix"}
	c.Language = "ko"
	p := testProfile()
	p.Platforms = []string{"zee5"}

	if got := DiagnoseStop([]Candidate{c}, p, TimeEvening); got != StopNoPlatformMatch {
		t.Errorf("DiagnoseStop = %s, want %s", got, StopNoPlatformMatch)
	}
}

func TestDiagnoseStop_NoLanguageMatch(t *testing.T) {
	c := testCandidate()
	c.Language = "ko"
	if got := DiagnoseStop([]Candidate{c}, testProfile(), TimeEvening); got != StopNoLanguageMatch {
		t.Errorf("DiagnoseStop = %s, want %s", got, StopNoLanguageMatch)
	}
}

func TestDiagnoseStop_PlatformLanguageCombo(t *testing.T) {
	// One title on the right platform in the wrong language, one in the
	// right language on the wrong platform: each filter matches something,
	// their combination matches nothing.
	onPlatform := testCandidate()
	onPlatform.ID = "m1"
	onPlatform.Language = "ko"
	inLanguage := testCandidate()
	inLanguage.ID = "m2"
	inLanguage.Platforms = []string{"mubi"}

	got := DiagnoseStop([]Candidate{onPlatform, inLanguage}, testProfile(), TimeEvening)
	if got != StopPlatformLanguageCombo {
		t.Errorf("DiagnoseStop = %s, want %s", got, StopPlatformLanguageCombo)
	}
}

func TestDiagnoseStop_NoSeriesAvailable(t *testing.T) {
	p := testProfile()
	p.RequiresSeries = true
	if got := DiagnoseStop([]Candidate{testCandidate()}, p, TimeEvening); got != StopNoSeriesAvailable {
		t.Errorf("DiagnoseStop = %s, want %s", got, StopNoSeriesAvailable)
	}
}

func TestDiagnoseStop_NoTagMatch(t *testing.T) {
	c := testCandidate()
	c.Tags = []Tag{TagDark}
	p := testProfile()
	p.IntentTags = []Tag{TagFeelGood}

	if got := DiagnoseStop([]Candidate{c}, p, TimeEvening); got != StopNoTagMatch {
		t.Errorf("DiagnoseStop = %s, want %s", got, StopNoTagMatch)
	}
}

func TestDiagnoseStop_AllBelowThreshold(t *testing.T) {
	c := testCandidate()
	c.CompositeScore = 50
	if got := DiagnoseStop([]Candidate{c}, testProfile(), TimeEvening); got != StopAllBelowThreshold {
		t.Errorf("DiagnoseStop = %s, want %s", got, StopAllBelowThreshold)
	}
}

func TestDiagnoseStop_Generic(t *testing.T) {
	// Candidate fails only the runtime rule, which no specific stop
	// condition covers.
	c := testCandidate()
	c.RuntimeMinutes = 300
	if got := DiagnoseStop([]Candidate{c}, testProfile(), TimeEvening); got != StopNoneValid {
		t.Errorf("DiagnoseStop = %s, want %s", got, StopNoneValid)
	}
}

func TestStopCondition_Messages(t *testing.T) {
	conditions := []StopCondition{
		StopEmptyCatalog, StopAllExcluded, StopNoPlatformMatch,
		StopNoLanguageMatch, StopPlatformLanguageCombo, StopNoSeriesAvailable,
		StopNoTagMatch, StopAllBelowThreshold, StopNoneValid,
	}
	for _, cond := range conditions {
		if cond.ShortMessage() == "" {
			t.Errorf("%s has no short message", cond)
		}
		if cond.LongMessage() == "" {
			t.Errorf("%s has no long message", cond)
		}
	}
}
