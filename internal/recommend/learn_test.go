// Reelpick - Personal Movie Recommendation Engine
// Copyright 2026 M. White (mwhite-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwhite-dev/reelpick

package recommend

import (
	"math"
	"testing"
)

func TestUpdateTagWeights_WatchNow(t *testing.T) {
	got := UpdateTagWeights(map[Tag]float64{}, []Tag{TagFeelGood, TagSafeBet}, ActionWatchNow)

	for _, tag := range []Tag{TagFeelGood, TagSafeBet} {
		if w := got[tag]; math.Abs(w-1.15) > 1e-9 {
			t.Errorf("weight[%s] = %v, want 1.15", tag, w)
		}
	}
}

func TestUpdateTagWeights_Deltas(t *testing.T) {
	tests := []struct {
		action ActionKind
		want   float64
	}{
		{ActionCompleted, 1.2},
		{ActionNotTonight, 0.8},
		{ActionAbandoned, 0.6},
		{ActionWatchNow, 1.15},
		{ActionShowMeAnother, 0.95},
		{ActionImplicitSkip, 0.95},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			got := UpdateTagWeights(nil, []Tag{TagCalm}, tt.action)
			if w := got[TagCalm]; math.Abs(w-tt.want) > 1e-9 {
				t.Errorf("weight = %v, want %v", w, tt.want)
			}
		})
	}
}

func TestUpdateTagWeights_Additive(t *testing.T) {
	weights := map[Tag]float64{TagDark: 0.4}
	got := UpdateTagWeights(weights, []Tag{TagDark}, ActionCompleted)
	if w := got[TagDark]; math.Abs(w-0.6) > 1e-9 {
		t.Errorf("weight = %v, want 0.6", w)
	}
	// No clamping at this layer.
	got = UpdateTagWeights(map[Tag]float64{TagDark: -0.2}, []Tag{TagDark}, ActionAbandoned)
	if w := got[TagDark]; math.Abs(w-(-0.6)) > 1e-9 {
		t.Errorf("weight = %v, want -0.6", w)
	}
}

func TestUpdateTagWeights_CommutativeAcrossTags(t *testing.T) {
	forward := UpdateTagWeights(nil, []Tag{TagCalm, TagLight, TagFeelGood}, ActionCompleted)
	reverse := UpdateTagWeights(nil, []Tag{TagFeelGood, TagLight, TagCalm}, ActionCompleted)

	for tag, w := range forward {
		if rw := reverse[tag]; math.Abs(w-rw) > 1e-9 {
			t.Errorf("weight[%s]: forward %v != reverse %v", tag, w, rw)
		}
	}
}

func TestUpdateTagWeights_DoesNotMutateInput(t *testing.T) {
	current := map[Tag]float64{TagCalm: 1.5}
	_ = UpdateTagWeights(current, []Tag{TagCalm}, ActionAbandoned)
	if current[TagCalm] != 1.5 {
		t.Errorf("input map mutated: %v", current[TagCalm])
	}
}

func TestUpdateTagWeights_UnknownAction(t *testing.T) {
	got := UpdateTagWeights(map[Tag]float64{TagCalm: 1.1}, []Tag{TagCalm}, ActionKind("mystery"))
	if w := got[TagCalm]; w != 1.1 {
		t.Errorf("weight = %v, want unchanged 1.1", w)
	}
}

func TestApplyPlatformFeedback(t *testing.T) {
	current := map[string]PlatformStats{"netflix": {Accepts: 1, Rejects: 2}}

	got := ApplyPlatformFeedback(current, "netflix", true)
	if got["netflix"] != (PlatformStats{Accepts: 2, Rejects: 2}) {
		t.Errorf("stats = %+v, want accepts 2 rejects 2", got["netflix"])
	}

	got = ApplyPlatformFeedback(current, "prime", false)
	if got["prime"] != (PlatformStats{Rejects: 1}) {
		t.Errorf("stats = %+v, want rejects 1", got["prime"])
	}

	if current["netflix"] != (PlatformStats{Accepts: 1, Rejects: 2}) {
		t.Error("input map mutated")
	}
}

func TestApplyDimensionalRejection(t *testing.T) {
	d := DimensionalLearning{}
	d = ApplyDimensionalRejection(d, RejectTooLong)
	d = ApplyDimensionalRejection(d, RejectNotInMood)
	d = ApplyDimensionalRejection(d, RejectNotInterested)
	d = ApplyDimensionalRejection(d, RejectionReason("other"))

	want := DimensionalLearning{TooLong: 1, NotInMood: 1, NotInterested: 1}
	if d != want {
		t.Errorf("counters = %+v, want %+v", d, want)
	}
}

func TestIsPositiveAction(t *testing.T) {
	positives := []ActionKind{ActionCompleted, ActionWatchNow}
	negatives := []ActionKind{ActionNotTonight, ActionAbandoned, ActionShowMeAnother, ActionImplicitSkip}

	for _, a := range positives {
		if !IsPositiveAction(a) {
			t.Errorf("IsPositiveAction(%s) = false, want true", a)
		}
	}
	for _, a := range negatives {
		if IsPositiveAction(a) {
			t.Errorf("IsPositiveAction(%s) = true, want false", a)
		}
	}
}
