// Reelpick - Personal Movie Recommendation Engine
// Copyright 2026 M. White (mwhite-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwhite-dev/reelpick

package recommend

import (
	"math"
	"testing"
)

func TestScore_AlwaysInRange(t *testing.T) {
	candidates := []Candidate{
		testCandidate(),
		{ID: "bare"},
		{ID: "hostile", Tags: []Tag{TagPolarizing, TagAcquiredTaste}, RuntimeMinutes: 200},
	}
	profiles := []Profile{
		testProfile(),
		{},
		{IntentTags: []Tag{TagFeelGood}, TagWeights: map[Tag]float64{TagFeelGood: 0}},
		{IntentTags: []Tag{TagFeelGood, TagCalm}, TagWeights: map[Tag]float64{TagFeelGood: -3, TagCalm: 12}},
		{Dimensional: DimensionalLearning{TooLong: 50, NotInMood: 50}},
		{Taste: &TasteProfile{Affinity: 7.5, FeedbackCount: 30}},
	}

	for _, c := range candidates {
		for _, p := range profiles {
			got := Score(c, p)
			if got < 0 || got > 1 || math.IsNaN(got) {
				t.Errorf("Score(%s) = %v, want within [0,1]", c.ID, got)
			}
		}
	}
}

func TestScore_WeightedJaccard(t *testing.T) {
	c := testCandidate()
	c.Tags = []Tag{TagFeelGood, TagSafeBet}

	t.Run("empty intent tags contribute zero alignment", func(t *testing.T) {
		p := testProfile()
		p.IntentTags = nil
		if got := tagAlignmentTerm(c, p); got != 0 {
			t.Errorf("tagAlignmentTerm = %v, want 0", got)
		}
	})

	t.Run("full match is 1", func(t *testing.T) {
		p := testProfile()
		p.IntentTags = []Tag{TagFeelGood, TagSafeBet}
		if got := tagAlignmentTerm(c, p); got != 1 {
			t.Errorf("tagAlignmentTerm = %v, want 1", got)
		}
	})

	t.Run("learned weights shift the ratio", func(t *testing.T) {
		p := testProfile()
		p.IntentTags = []Tag{TagFeelGood, TagDark}
		p.TagWeights = map[Tag]float64{TagFeelGood: 1.5, TagDark: 0.5}
		// matched 1.5 of total 2.0
		if got := tagAlignmentTerm(c, p); math.Abs(got-0.75) > 1e-9 {
			t.Errorf("tagAlignmentTerm = %v, want 0.75", got)
		}
	})

	t.Run("all-zero weights stay in range", func(t *testing.T) {
		p := testProfile()
		p.IntentTags = []Tag{TagFeelGood}
		p.TagWeights = map[Tag]float64{TagFeelGood: 0}
		if got := tagAlignmentTerm(c, p); got != 0 {
			t.Errorf("tagAlignmentTerm = %v, want 0", got)
		}
	})
}

func TestScore_MoodMappingAlignment(t *testing.T) {
	mapping := &MoodMapping{
		Version: 1,
		Dimensions: map[Dimension]DimensionRule{
			DimComfort:  {Min: 0, Max: 10, Ideal: 8, Weight: 1},
			DimDarkness: {Min: 0, Max: 10, Ideal: 2, Weight: 1},
		},
		AntiTags: []Tag{TagDark},
	}

	c := testCandidate()
	c.Emotional = &EmotionalVector{Comfort: 8, Darkness: 2}
	p := testProfile()
	p.MoodMapping = mapping

	t.Run("perfect ideal match", func(t *testing.T) {
		if got := tagAlignmentTerm(c, p); got != 1 {
			t.Errorf("tagAlignmentTerm = %v, want 1", got)
		}
	})

	t.Run("distance from ideal reduces alignment", func(t *testing.T) {
		far := c
		far.Emotional = &EmotionalVector{Comfort: 3, Darkness: 7}
		// mean(|3-8|, |7-2|)/10 = 0.5
		if got := tagAlignmentTerm(far, p); math.Abs(got-0.5) > 1e-9 {
			t.Errorf("tagAlignmentTerm = %v, want 0.5", got)
		}
	})

	t.Run("anti-tag penalty applies", func(t *testing.T) {
		tagged := c
		tagged.Tags = []Tag{TagDark}
		if got := tagAlignmentTerm(tagged, p); math.Abs(got-0.9) > 1e-9 {
			t.Errorf("tagAlignmentTerm = %v, want 0.9", got)
		}
	})

	t.Run("missing vector uses defaults", func(t *testing.T) {
		unknown := c
		unknown.Emotional = nil
		// defaults 5: mean(|5-8|, |5-2|)/10 = 0.3
		if got := tagAlignmentTerm(unknown, p); math.Abs(got-0.7) > 1e-9 {
			t.Errorf("tagAlignmentTerm = %v, want 0.7", got)
		}
	})
}

func TestRegretSafetyTerm(t *testing.T) {
	p := testProfile()
	tests := []struct {
		name string
		tags []Tag
		want float64
	}{
		{"safe bet", []Tag{TagSafeBet}, 1.0},
		{"polarizing", []Tag{TagPolarizing}, 0.4},
		{"acquired taste", []Tag{TagAcquiredTaste}, 0.6},
		{"safe bet wins over polarizing", []Tag{TagSafeBet, TagPolarizing}, 1.0},
		{"no regret tag is neutral", []Tag{TagFeelGood}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testCandidate()
			c.Tags = tt.tags
			if got := regretSafetyTerm(c, p); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("regretSafetyTerm = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRegretSafetyTerm_LearnedWeight(t *testing.T) {
	c := testCandidate()
	c.Tags = []Tag{TagSafeBet}
	p := testProfile()
	p.TagWeights = map[Tag]float64{TagSafeBet: 0.5}

	if got := regretSafetyTerm(c, p); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("regretSafetyTerm = %v, want 0.5", got)
	}

	// Large weights clamp at 1.
	p.TagWeights[TagSafeBet] = 4
	if got := regretSafetyTerm(c, p); got != 1 {
		t.Errorf("regretSafetyTerm = %v, want 1", got)
	}
}

func TestPlatformBiasTerm(t *testing.T) {
	c := testCandidate()
	c.Platforms = []string{"Netflix", "Amazon Prime Video"}

	tests := []struct {
		name string
		bias map[string]PlatformStats
		want float64
	}{
		{"no history is neutral", nil, 0.5},
		{"thin history is neutral", map[string]PlatformStats{"netflix": {Accepts: 2}}, 0.5},
		{"accept ratio", map[string]PlatformStats{"netflix": {Accepts: 3, Rejects: 1}}, 0.75},
		{"best platform wins", map[string]PlatformStats{
			"netflix": {Accepts: 1, Rejects: 3},
			"prime":   {Accepts: 4, Rejects: 1},
		}, 0.8},
		{"unrelated platform ignored", map[string]PlatformStats{"zee5": {Accepts: 10}}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testProfile()
			p.PlatformBias = tt.bias
			if got := platformBiasTerm(c, p); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("platformBiasTerm = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDimensionalFitTerm(t *testing.T) {
	tests := []struct {
		name    string
		learn   DimensionalLearning
		runtime int
		tags    []Tag
		want    float64
	}{
		{"below sample floor", DimensionalLearning{TooLong: 2}, 200, nil, 1.0},
		{"long runtime penalized", DimensionalLearning{TooLong: 4}, 200, nil, 0.5},
		{"medium runtime penalized less", DimensionalLearning{TooLong: 4}, 130, nil, 0.8},
		{"short runtime unpenalized", DimensionalLearning{TooLong: 4}, 100, nil, 1.0},
		{"mood rejections hit polarizing", DimensionalLearning{NotInMood: 4}, 100, []Tag{TagPolarizing}, 0.85},
		{"mixed", DimensionalLearning{TooLong: 2, NotInMood: 2}, 200, []Tag{TagAcquiredTaste}, 1 - 0.25 - 0.075},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testCandidate()
			c.RuntimeMinutes = tt.runtime
			c.Tags = tt.tags
			p := testProfile()
			p.Dimensional = tt.learn
			if got := dimensionalFitTerm(c, p); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("dimensionalFitTerm = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTasteTermWeight(t *testing.T) {
	tests := []struct {
		feedback int
		want     float64
	}{
		{0, 0}, {2, 0}, {3, 0.075}, {9, 0.075}, {10, 0.12}, {19, 0.12}, {20, 0.15}, {100, 0.15},
	}

	for _, tt := range tests {
		p := Profile{Taste: &TasteProfile{Affinity: 0.5, FeedbackCount: tt.feedback}}
		if got := tasteTermWeight(p); got != tt.want {
			t.Errorf("tasteTermWeight(%d feedback) = %v, want %v", tt.feedback, got, tt.want)
		}
	}

	if got := tasteTermWeight(Profile{}); got != 0 {
		t.Errorf("tasteTermWeight(no taste) = %v, want 0", got)
	}
}

func TestConfidenceBoost(t *testing.T) {
	weightsWithLearned := func(n int) map[Tag]float64 {
		out := make(map[Tag]float64, n)
		for i := 0; i < n; i++ {
			out[Tag(rune('a'+i))] = 1.3
		}
		return out
	}

	t.Run("zero below ten learned tags", func(t *testing.T) {
		for n := 0; n < 10; n++ {
			p := Profile{TagWeights: weightsWithLearned(n)}
			if got := confidenceBoost(p, 1.0); got != 0 {
				t.Errorf("confidenceBoost(%d learned) = %v, want 0", n, got)
			}
		}
	})

	t.Run("monotonically non-decreasing up to cap", func(t *testing.T) {
		prev := -1.0
		for n := 10; n <= 25; n++ {
			p := Profile{TagWeights: weightsWithLearned(n)}
			got := confidenceBoost(p, 1.0)
			if got < prev {
				t.Errorf("confidenceBoost(%d learned) = %v, decreased from %v", n, got, prev)
			}
			prev = got
		}
	})

	t.Run("caps at twenty learned tags", func(t *testing.T) {
		p20 := Profile{TagWeights: weightsWithLearned(20)}
		p40 := Profile{TagWeights: weightsWithLearned(40)}
		if confidenceBoost(p20, 1.0) != confidenceBoost(p40, 1.0) {
			t.Error("confidenceBoost should cap at 20 learned tags")
		}
		if got := confidenceBoost(p20, 1.0); math.Abs(got-0.05) > 1e-9 {
			t.Errorf("confidenceBoost at cap = %v, want 0.05", got)
		}
	})

	t.Run("near-default weights do not count", func(t *testing.T) {
		weights := make(map[Tag]float64)
		for i := 0; i < 30; i++ {
			weights[Tag(rune('a'+i))] = 1.0005
		}
		p := Profile{TagWeights: weights}
		if got := confidenceBoost(p, 1.0); got != 0 {
			t.Errorf("confidenceBoost(near-default) = %v, want 0", got)
		}
	})
}

func TestScore_TasteRescalesOtherTerms(t *testing.T) {
	c := testCandidate()
	p := testProfile()
	p.IntentTags = []Tag{TagFeelGood}

	base := Score(c, p)

	p.Taste = &TasteProfile{Affinity: 1.0, FeedbackCount: 25}
	withTaste := Score(c, p)

	if withTaste <= base {
		t.Errorf("perfect taste affinity should raise the score: base %v, with taste %v", base, withTaste)
	}
	if withTaste > 1 {
		t.Errorf("score = %v, want <= 1", withTaste)
	}
}
