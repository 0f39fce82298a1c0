package taxonomy

import (
	"regexp"

	"github.com/uxforge/veneer/internal/finding"
)

// Tier records which fallback level produced a rule set.
type Tier int

const (
	// TierPrinciple means principle-specific rules were found.
	TierPrinciple Tier = iota
	// TierCategory means only category-level rules were found.
	TierCategory
	// TierGeneric means the generic keyword rules were used.
	TierGeneric
	// TierNone means no rules exist for the key at all.
	TierNone
)

// RuleSet bundles the patterns attached to one taxonomy key.
type RuleSet struct {
	// Detection matches source lines that exhibit the concern.
	// Used by the locator's element search and by validation.
	Detection []*regexp.Regexp

	// Resolution matches content whose appearance in a fixed file
	// (but not the original) indicates the concern was addressed.
	Resolution []*regexp.Regexp

	// Description is a human-readable account of what a resolution
	// looks like.
	Description string

	// Tier records the fallback level that produced this set.
	Tier Tier
}

// Empty reports whether the rule set carries no patterns.
func (rs RuleSet) Empty() bool {
	return len(rs.Detection) == 0 && len(rs.Resolution) == 0
}

// MatchesAny reports whether any detection pattern matches the line.
func (rs RuleSet) MatchesAny(line string) bool {
	for _, re := range rs.Detection {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

func compileAll(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(`(?i)` + p)
	}
	return out
}

// Detection patterns per principle. Patterns are case-insensitive.
var principleDetection = map[string][]*regexp.Regexp{
	"COLOR_001":      compileAll([]string{`color\s*:`, `background-color\s*:`, `#[0-9a-fA-F]{3,6}`, `rgb\s*\(`, `rgba\s*\(`}),
	"COLOR_002":      compileAll([]string{`color\s*:`, `background-color\s*:`, `#[0-9a-fA-F]{3,6}`}),
	"COLOR_003":      compileAll([]string{`color\s*:`, `background\s*:`, `opacity\s*:`}),
	"SPACING_001":    compileAll([]string{`margin\s*:`, `padding\s*:`, `gap\s*:`, `spacing\s*:`}),
	"SPACING_002":    compileAll([]string{`margin\s*:`, `padding\s*:`, `gap\s*:`}),
	"TYPOGRAPHY_001": compileAll([]string{`font-size\s*:`, `font-weight\s*:`, `font-family\s*:`}),
	"TYPOGRAPHY_002": compileAll([]string{`font-size\s*:`}),
	"TYPOGRAPHY_003": compileAll([]string{`line-height\s*:`}),
	"HIERARCHY_001":  compileAll([]string{`font-size\s*:`, `font-weight\s*:`}),
	"HIERARCHY_002":  compileAll([]string{`font-weight\s*:`, `opacity\s*:`, `color\s*:`}),
	"MODERN_001":     compileAll([]string{`box-shadow\s*:`, `border-radius\s*:`, `border\s*:`}),
	"MODERN_002":     compileAll([]string{`box-shadow\s*:`, `backdrop-filter\s*:`}),
	"MODERN_003":     compileAll([]string{`border-radius\s*:`}),
}

// Detection patterns per category, the second fallback tier.
var categoryDetection = map[finding.Category][]*regexp.Regexp{
	finding.CategoryColor:          compileAll([]string{`color\s*:`, `background-color\s*:`, `#[0-9a-fA-F]{3,6}`}),
	finding.CategorySpacing:        compileAll([]string{`margin\s*:`, `padding\s*:`, `gap\s*:`}),
	finding.CategoryTypography:     compileAll([]string{`font-size\s*:`, `font-family\s*:`, `line-height\s*:`}),
	finding.CategoryHierarchy:      compileAll([]string{`font-size\s*:`, `font-weight\s*:`, `opacity\s*:`}),
	finding.CategoryModernPatterns: compileAll([]string{`box-shadow\s*:`, `border-radius\s*:`}),
	finding.CategoryConsistency:    compileAll([]string{`class\s*=`, `style\s*=`}),
}

// genericDetection is the last-resort keyword tier: broadly design-flavored
// tokens that at least anchor a claim to plausible lines.
var genericDetection = compileAll([]string{
	`color`, `margin|padding|gap`, `font-`, `border`, `shadow`, `<\w+`,
})

type resolutionRule struct {
	patterns    []*regexp.Regexp
	description string
}

// Resolution patterns per principle: their appearance in fixed content
// that was absent from the original signals the issue was addressed.
var principleResolution = map[string]resolutionRule{
	"COLOR_001":      {compileAll([]string{`#[0-9a-fA-F]{3,6}`, `rgb\s*\(`, `rgba\s*\(`}), "Color values improved"},
	"COLOR_002":      {compileAll([]string{`var\(--[a-z-]+-color`, `--[a-z-]+-color`}), "CSS variables for colors added"},
	"SPACING_001":    {compileAll([]string{`\d+px`}), "Spacing values adjusted to 8px grid"},
	"SPACING_002":    {compileAll([]string{`margin\s*:`, `padding\s*:`, `gap\s*:`}), "Consistent spacing applied"},
	"TYPOGRAPHY_001": {compileAll([]string{`font-size\s*:`, `font-weight\s*:`}), "Typography hierarchy improved"},
	"TYPOGRAPHY_002": {compileAll([]string{`font-size\s*:\s*1[2-9]px|font-size\s*:\s*[2-9]\d+px`}), "Readable font sizes applied"},
	"TYPOGRAPHY_003": {compileAll([]string{`line-height\s*:\s*1\.[4-6]`}), "Line height optimized"},
	"HIERARCHY_001":  {compileAll([]string{`font-size\s*:`, `font-weight\s*:`}), "Visual hierarchy improved"},
	"MODERN_001":     {compileAll([]string{`box-shadow`, `border-radius`}), "Modern design patterns added"},
}

var categoryResolution = map[finding.Category][]*regexp.Regexp{
	finding.CategoryColor:          compileAll([]string{`var\(--[a-z-]+-color`, `#[0-9a-fA-F]{3,6}`}),
	finding.CategorySpacing:        compileAll([]string{`margin|padding|gap`}),
	finding.CategoryTypography:     compileAll([]string{`font-size|font-weight|line-height`}),
	finding.CategoryHierarchy:      compileAll([]string{`font-size|font-weight`}),
	finding.CategoryModernPatterns: compileAll([]string{`box-shadow|border-radius`}),
}

// genericResolution matches broadly plausible improvement markers.
var genericResolution = compileAll([]string{
	`// FIXED`, `border-radius`, `box-shadow`, `var\(--`, `font-size`, `margin`, `padding`, `color\s*:`,
})

// RulesFor returns the rule set for a taxonomy key using a three-tier
// fallback: principle-specific rules win; otherwise category-level rules
// apply; otherwise the generic keyword set activates. Decorated principle
// references ("COLOR_001 - Color Harmony") are normalized first.
//
// Unknown keys and categories land on the generic tier; RulesFor is total.
func RulesFor(principleID string, category finding.Category) RuleSet {
	id := ExtractID(principleID)

	if det, ok := principleDetection[id]; ok {
		rs := RuleSet{Detection: det, Tier: TierPrinciple}
		if res, ok := principleResolution[id]; ok {
			rs.Resolution = res.patterns
			rs.Description = res.description
		} else if catRes, ok := categoryResolution[category]; ok {
			rs.Resolution = catRes
			rs.Description = string(category) + " improvements applied"
		}
		return rs
	}

	if det, ok := categoryDetection[category]; ok {
		rs := RuleSet{Detection: det, Tier: TierCategory}
		if res, ok := categoryResolution[category]; ok {
			rs.Resolution = res
			rs.Description = string(category) + " improvements applied"
		}
		return rs
	}

	return RuleSet{
		Detection:   genericDetection,
		Resolution:  genericResolution,
		Description: "General aesthetic improvements detected",
		Tier:        TierGeneric,
	}
}

// DesignPatterns maps pattern group names to the regexes used when
// summarizing the design context of a snippet.
var DesignPatterns = map[string]*regexp.Regexp{
	"color_values":     regexp.MustCompile(`(?i)(color|background-color|border-color|fill|stroke)\s*:\s*[^;]+`),
	"spacing_values":   regexp.MustCompile(`(?i)(margin|padding|gap|spacing)\s*:\s*[^;]+`),
	"typography":       regexp.MustCompile(`(?i)(font-size|font-family|font-weight|line-height|letter-spacing)`),
	"layout":           regexp.MustCompile(`(?i)(display|grid|flex|position|align|justify)`),
	"modern_effects":   regexp.MustCompile(`(?i)(box-shadow|border-radius|backdrop-filter|opacity|transform)`),
	"visual_hierarchy": regexp.MustCompile(`(?i)(font-size|font-weight|color|opacity|transform)`),
}

// ModernPatterns are the modern-design properties surfaced separately in
// the design context.
var ModernPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)box-shadow`),
	regexp.MustCompile(`(?i)border-radius`),
	regexp.MustCompile(`(?i)backdrop-filter`),
	regexp.MustCompile(`(?i)gradient`),
	regexp.MustCompile(`(?i)transform`),
	regexp.MustCompile(`(?i)transition`),
}
