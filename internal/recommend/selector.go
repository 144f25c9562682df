// Reelpick - Personal Movie Recommendation Engine
// Copyright 2026 M. White (mwhite-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwhite-dev/reelpick

package recommend

import (
	"math"
	"math/rand"
	"sort"
)

// Softmax selection parameters. A low temperature keeps the draw strongly
// biased toward the best-scoring candidates while leaving room for variety
// across repeated asks.
const (
	defaultTemperature = 0.15
	defaultTopK        = 10
)

// Multi-pick diversity: penalty per already-chosen genre on a candidate.
const genreDiversityPenalty = 0.15

// Replacement contrast/similarity weights.
const (
	contrastTagWeight    = 0.30
	contrastGenreWeight  = 0.20
	similarTagWeight     = 0.15
	similarGenreWeight   = 0.10
	currentPickGenrePenalty = 0.05
)

// Multi-pick runtime relaxation at cascade level 2.
const (
	runtimeRelaxMinutes = 15
	runtimeClampMin     = 30
	runtimeClampMax     = 240
)

// sortByScore orders candidates by score descending, breaking ties by raw
// goodscore descending so the draw is reproducible for a fixed seed.
func sortByScore(scored []ScoredCandidate) {
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Candidate.effectiveScore() > scored[j].Candidate.effectiveScore()
	})
}

// softmaxPick draws one candidate from the top K by softmax weight at the
// given temperature. The input must already be sorted by sortByScore. A
// single candidate is returned deterministically without consuming
// randomness. Returns -1 for an empty pool.
func softmaxPick(scored []ScoredCandidate, topK int, temperature float64, rng *rand.Rand) int {
	if len(scored) == 0 {
		return -1
	}
	if len(scored) == 1 {
		return 0
	}

	if topK <= 0 {
		topK = defaultTopK
	}
	if temperature <= 0 {
		temperature = defaultTemperature
	}

	pool := scored
	if len(pool) > topK {
		pool = pool[:topK]
	}

	maxScore := pool[0].Score
	weights := make([]float64, len(pool))
	var total float64
	for i, sc := range pool {
		w := math.Exp((sc.Score - maxScore) / temperature)
		weights[i] = w
		total += w
	}

	draw := rng.Float64() * total
	var cum float64
	for i, w := range weights {
		cum += w
		if draw < cum {
			return i
		}
	}
	return len(pool) - 1
}

// relaxIntentTags returns a profile copy with intent tags expanded through
// the tag-family closure. Language and platform are untouched.
func relaxIntentTags(p *Profile) *Profile {
	out := p.clone()
	out.IntentTags = expandTagFamilies(out.IntentTags)
	return out
}

// relaxRuntime widens the runtime window by runtimeRelaxMinutes on each
// side, clamped to [runtimeClampMin, runtimeClampMax].
func relaxRuntime(p *Profile) *Profile {
	out := p.clone()
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
	return out
}

// multiPickCascade builds the 3-level profile cascade for diverse
// multi-pick: original, expanded intent tags, expanded tags plus relaxed
// runtime. Each level is a copy; the original is never mutated.
func multiPickCascade(p *Profile) []*Profile {
	level1 := relaxIntentTags(p)
	level2 := relaxRuntime(level1)
	return []*Profile{p, level1, level2}
}

// selectDiverse picks up to count distinct candidates from the scored pool,
// penalizing genres already chosen so the set stays varied. The pool is
// consumed; callers pass a scratch copy.
func selectDiverse(pool []ScoredCandidate, count, topK int, temperature float64, rng *rand.Rand) []ScoredCandidate {
	picks := make([]ScoredCandidate, 0, count)
	chosenGenres := make(map[string]struct{})

	for len(picks) < count && len(pool) > 0 {
		adjusted := make([]ScoredCandidate, len(pool))
		copy(adjusted, pool)
		for i := range adjusted {
			penalty := 0.0
			for _, g := range adjusted[i].Candidate.Genres {
				if _, ok := chosenGenres[g]; ok {
					penalty += genreDiversityPenalty
				}
			}
			adjusted[i].Score = clamp01(adjusted[i].Score - penalty)
		}
		sortByScore(adjusted)

		idx := softmaxPick(adjusted, topK, temperature, rng)
		if idx < 0 {
			break
		}
		pick := adjusted[idx]
		picks = append(picks, pick)
		for _, g := range pick.Candidate.Genres {
			chosenGenres[g] = struct{}{}
		}

		pool = removeByID(pool, pick.Candidate.ID)
	}

	return picks
}

func removeByID(pool []ScoredCandidate, id string) []ScoredCandidate {
	out := pool[:0]
	for _, sc := range pool {
		if sc.Candidate.ID != id {
			out = append(out, sc)
		}
	}
	return out
}

// tagOverlap is the fraction of the reference candidate's tags shared by c.
func tagOverlap(c, reference Candidate) float64 {
	if len(reference.Tags) == 0 {
		return 0
	}
	shared := 0
	for _, t := range reference.Tags {
		if c.HasTag(t) {
			shared++
		}
	}
	return float64(shared) / float64(len(reference.Tags))
}

// genreOverlap is the fraction of the reference candidate's genres shared
// by c.
func genreOverlap(c, reference Candidate) float64 {
	if len(reference.Genres) == 0 {
		return 0
	}
	refGenres := make(map[string]struct{}, len(reference.Genres))
	for _, g := range reference.Genres {
		refGenres[g] = struct{}{}
	}
	shared := 0
	for _, g := range c.Genres {
		if _, ok := refGenres[g]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(reference.Genres))
}

// adjustForReplacement reshapes a score when finding a replacement for a
// rejected pick: contrast away from "not interested", stay close to
// "already seen", and always steer away from genres already on screen.
func adjustForReplacement(sc ScoredCandidate, rejected Candidate, reason RejectionReason, currentGenres map[string]struct{}) float64 {
	score := sc.Score

	switch reason {
	case RejectNotInterested:
		score -= contrastTagWeight*tagOverlap(sc.Candidate, rejected) +
			contrastGenreWeight*genreOverlap(sc.Candidate, rejected)
	case RejectAlreadySeen:
		score += similarTagWeight*tagOverlap(sc.Candidate, rejected) +
			similarGenreWeight*genreOverlap(sc.Candidate, rejected)
	}

	for _, g := range sc.Candidate.Genres {
		if _, ok := currentGenres[g]; ok {
			score -= currentPickGenrePenalty
		}
	}

	return clamp01(score)
}
