package config

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

// Caps holds the precision-for-cost policy constants from spec.md §9:
// "changing them must not affect correctness of any diagnostic, only
// precision". Defaults reproduce the fixture behavior documented in §8.
type Caps struct {
	// ClauseSaturationFactor bounds clause-set growth during any single
	// saturation step to ClauseSaturationFactor * operandCount clauses
	// (spec.md §4.3). Beyond it the formula engine degrades to a wedge
	// clause rather than exploding.
	ClauseSaturationFactor int `yaml:"clause_saturation_factor"`

	// EnumExpansionCap bounds how many cases a bare enum type is expanded
	// into during subtract/match analysis (spec.md §3.1 rule, §4.8 item 4).
	EnumExpansionCap int `yaml:"enum_expansion_cap"`

	// LoopFixedPointCap bounds how many times a loop body is re-analyzed
	// to reach a fixed point on the back-edge (spec.md §4.9, §5).
	LoopFixedPointCap int `yaml:"loop_fixed_point_cap"`

	// KnownItemsCap bounds how many literal keys a List/Keyed array atom
	// tracks in known_elements/known_items before widening to an
	// unstructured element_type (spec.md §4.7 array literal rule).
	KnownItemsCap int `yaml:"known_items_cap"`

	// MaxStringLiteralBytes is the literal-preservation cutoff for string
	// concatenation (spec.md §4.1: "drop if > 1000 bytes").
	MaxStringLiteralBytes int `yaml:"max_string_literal_bytes"`
}

// DefaultCaps reproduces the constants named in spec.md §9 and §4.1.
func DefaultCaps() Caps {
	return Caps{
		ClauseSaturationFactor: 50,
		EnumExpansionCap:       64,
		LoopFixedPointCap:      3,
		KnownItemsCap:          256,
		MaxStringLiteralBytes:  1000,
	}
}

// LoadCaps reads policy overrides from a YAML file (conventionally
// "glint.yaml" next to the project root). A missing file is not an error:
// DefaultCaps() is returned unchanged. Present-but-zero fields in the file
// fall back to the default for that field, so a partial override file
// (e.g. only `loop_fixed_point_cap: 5`) is legal.
func LoadCaps(path string) (Caps, error) {
	caps := DefaultCaps()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return caps, nil
		}
		return caps, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var overrides Caps
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return caps, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if overrides.ClauseSaturationFactor != 0 {
		caps.ClauseSaturationFactor = overrides.ClauseSaturationFactor
	}
	if overrides.EnumExpansionCap != 0 {
		caps.EnumExpansionCap = overrides.EnumExpansionCap
	}
	if overrides.LoopFixedPointCap != 0 {
		caps.LoopFixedPointCap = overrides.LoopFixedPointCap
	}
	if overrides.KnownItemsCap != 0 {
		caps.KnownItemsCap = overrides.KnownItemsCap
	}
	if overrides.MaxStringLiteralBytes != 0 {
		caps.MaxStringLiteralBytes = overrides.MaxStringLiteralBytes
	}
	return caps, nil
}

// DescribeCapHit renders a human-readable note for a cost-cap diagnostic,
// e.g. "clause count 8,411 exceeded cap of 200".
func DescribeCapHit(what string, hit, cap int) string {
	return fmt.Sprintf("%s %s exceeded cap of %s", what, humanize.Comma(int64(hit)), humanize.Comma(int64(cap)))
}
