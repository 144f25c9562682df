// Reelpick - Personal Movie Recommendation Engine
// Copyright 2026 M. White (mwhite-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwhite-dev/reelpick

package config

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/mwhite-dev/reelpick/internal/recommend"
)

// MoodLibrary maps mood names to their dimension rules. Moods absent from
// the library fall back to the engine's static intent-tag matching.
type MoodLibrary struct {
	// Version applies to every mapping in the library. Zero disables all
	// mappings.
	Version int `koanf:"version"`

	Moods map[string]MoodEntry `koanf:"moods"`
}

// MoodEntry is one mood's rules as written in the library file.
type MoodEntry struct {
	Dimensions     map[string]DimensionBounds `koanf:"dimensions"`
	CompatibleTags []string                   `koanf:"compatible_tags"`
	AntiTags       []string                   `koanf:"anti_tags"`
}

// DimensionBounds bounds one emotional dimension in the library file.
type DimensionBounds struct {
	Min    float64 `koanf:"min"`
	Max    float64 `koanf:"max"`
	Ideal  float64 `koanf:"ideal"`
	Weight float64 `koanf:"weight"`
}

// LoadMoodLibrary reads the mood library YAML file. An empty path returns
// an empty library, which disables mood mappings entirely.
func LoadMoodLibrary(path string) (*MoodLibrary, error) {
	if path == "" {
		return &MoodLibrary{}, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load mood library %s: %w", path, err)
	}
	return parseMoodLibrary(k)
}

// ParseMoodLibrary parses a mood library from raw YAML bytes.
func ParseMoodLibrary(data []byte) (*MoodLibrary, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to parse mood library: %w", err)
	}
	return parseMoodLibrary(k)
}

func parseMoodLibrary(k *koanf.Koanf) (*MoodLibrary, error) {
	lib := &MoodLibrary{}
	if err := k.Unmarshal("", lib); err != nil {
		return nil, fmt.Errorf("failed to unmarshal mood library: %w", err)
	}

	for name, entry := range lib.Moods {
		for dim, bounds := range entry.Dimensions {
			if !knownDimension(dim) {
				return nil, fmt.Errorf("mood %q: unknown dimension %q", name, dim)
			}
			if bounds.Min > bounds.Max {
				return nil, fmt.Errorf("mood %q: dimension %q has min %v above max %v", name, dim, bounds.Min, bounds.Max)
			}
		}
	}

	return lib, nil
}

// Mapping returns the engine mood mapping for the given mood name, or nil
// when the mood is not in the library.
func (l *MoodLibrary) Mapping(mood string) *recommend.MoodMapping {
	if l == nil || l.Version == 0 {
		return nil
	}
	entry, ok := l.Moods[mood]
	if !ok {
		return nil
	}

	m := &recommend.MoodMapping{
		Version:    l.Version,
		Dimensions: make(map[recommend.Dimension]recommend.DimensionRule, len(entry.Dimensions)),
	}
	for dim, bounds := range entry.Dimensions {
		m.Dimensions[recommend.Dimension(dim)] = recommend.DimensionRule{
			Min:    bounds.Min,
			Max:    bounds.Max,
			Ideal:  bounds.Ideal,
			Weight: bounds.Weight,
		}
	}
	for _, t := range entry.CompatibleTags {
		m.CompatibleTags = append(m.CompatibleTags, recommend.Tag(t))
	}
	for _, t := range entry.AntiTags {
		m.AntiTags = append(m.AntiTags, recommend.Tag(t))
	}
	return m
}

// knownDimensions guards mood library files against typos.
var knownDimensions = map[string]struct{}{
	string(recommend.DimComfort):            {},
	string(recommend.DimDarkness):           {},
	string(recommend.DimEmotionalIntensity): {},
	string(recommend.DimEnergy):             {},
	string(recommend.DimComplexity):         {},
	string(recommend.DimRewatchability):     {},
	string(recommend.DimHumour):             {},
	string(recommend.DimMentalStimulation):  {},
}

func knownDimension(d string) bool {
	_, ok := knownDimensions[d]
	return ok
}
