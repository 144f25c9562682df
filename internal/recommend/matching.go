// Reelpick - Personal Movie Recommendation Engine
// Copyright 2026 M. White (mwhite-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwhite-dev/reelpick

package recommend

import "strings"

// languageCodes maps language names to ISO 639-1 codes. Catalog sources are
// inconsistent about which form they carry, so the gate accepts either.
var languageCodes = map[string]string{
	"english":   "en",
	"hindi":     "hi",
	"tamil":     "ta",
	"telugu":    "te",
	"malayalam": "ml",
	"kannada":   "kn",
	"bengali":   "bn",
	"marathi":   "mr",
	"punjabi":   "pa",
	"french":    "fr",
	"spanish":   "es",
	"german":    "de",
	"italian":   "it",
	"japanese":  "ja",
	"korean":    "ko",
	"mandarin":  "zh",
}

// languageNames is the reverse of languageCodes, built once at init.
var languageNames = func() map[string]string {
	names := make(map[string]string, len(languageCodes))
	for name, code := range languageCodes {
		names[code] = name
	}
	return names
}()

// languageMatches reports whether a candidate language satisfies a preferred
// language. Matching is case-insensitive substring in either direction, then
// name<->code equivalence through the table.
func languageMatches(candidate, preferred string) bool {
	c := strings.ToLower(strings.TrimSpace(candidate))
	p := strings.ToLower(strings.TrimSpace(preferred))
	if c == "" || p == "" {
		return false
	}
	if strings.Contains(c, p) || strings.Contains(p, c) {
		return true
	}
	return canonicalLanguage(c) == canonicalLanguage(p)
}

// canonicalLanguage reduces a language name or code to its ISO code.
func canonicalLanguage(lang string) string {
	if code, ok := languageCodes[lang]; ok {
		return code
	}
	if _, ok := languageNames[lang]; ok {
		return lang
	}
	return lang
}

// smallCatalogLanguages lists languages whose streaming catalogs are thin
// enough that the quality threshold gets a discount. Hardcoded heuristic,
// not derived from live catalog statistics.
var smallCatalogLanguages = map[string]struct{}{
	"ml": {}, // malayalam
	"kn": {}, // kannada
	"mr": {}, // marathi
	"bn": {}, // bengali
	"pa": {}, // punjabi
}

// isSmallCatalogLanguage reports whether the language (name or code) is in
// the small-catalog set.
func isSmallCatalogLanguage(lang string) bool {
	code := canonicalLanguage(strings.ToLower(strings.TrimSpace(lang)))
	_, ok := smallCatalogLanguages[code]
	return ok
}

// platformAliases expands a platform key to the marketing-name variants seen
// in catalog metadata. Keys and aliases are matched bidirectionally by
// substring, so "prime" matches "Amazon Prime Video".
var platformAliases = map[string][]string{
	"netflix":     {"netflix"},
	"prime":       {"prime video", "amazon prime video", "amazon prime", "primevideo", "amazon video"},
	"hotstar":     {"hotstar", "disney+ hotstar", "disney plus hotstar", "jiohotstar", "jio hotstar"},
	"jiocinema":   {"jiocinema", "jio cinema"},
	"zee5":        {"zee5", "zee 5"},
	"sonyliv":     {"sonyliv", "sony liv"},
	"disney":      {"disney+", "disney plus"},
	"appletv":     {"apple tv+", "apple tv plus", "apple tv"},
	"hbo":         {"hbo max", "max"},
	"hulu":        {"hulu"},
	"paramount":   {"paramount+", "paramount plus"},
	"peacock":     {"peacock"},
	"mubi":        {"mubi"},
	"crunchyroll": {"crunchyroll"},
}

// expandPlatform returns all known names for a platform, including the
// input itself.
func expandPlatform(platform string) []string {
	p := strings.ToLower(strings.TrimSpace(platform))
	for key, aliases := range platformAliases {
		if platformNameMatch(p, key) {
			out := make([]string, 0, len(aliases)+2)
			out = append(out, p, key)
			out = append(out, aliases...)
			return out
		}
		for _, alias := range aliases {
			if platformNameMatch(p, alias) {
				out := make([]string, 0, len(aliases)+2)
				out = append(out, p, key)
				out = append(out, aliases...)
				return out
			}
		}
	}
	return []string{p}
}

// platformNameMatch is a bidirectional case-normalized substring match.
func platformNameMatch(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// platformsIntersect reports whether any candidate platform matches any
// preferred platform after alias expansion.
func platformsIntersect(candidatePlatforms, preferredPlatforms []string) bool {
	for _, pref := range preferredPlatforms {
		expanded := expandPlatform(pref)
		for _, cand := range candidatePlatforms {
			for _, name := range expanded {
				if platformNameMatch(cand, name) {
					return true
				}
			}
		}
	}
	return false
}
