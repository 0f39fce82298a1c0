// Package taxonomy provides the static aesthetic-principle tables and the
// rule registry that maps taxonomy keys to detection, validation and
// resolution patterns.
//
// Everything here is pure data and lookup: no I/O, no state. Unknown keys
// return empty results, never errors, so every caller can rely on total
// functions.
package taxonomy

import (
	"sort"
	"strings"

	"github.com/uxforge/veneer/internal/finding"
)

// Principle describes one entry of the aesthetic taxonomy.
type Principle struct {
	// ID is the taxonomy key (e.g. "COLOR_001").
	ID string

	// Name is the human-readable principle name.
	Name string

	// Severity is the default severity for violations of this principle.
	Severity finding.Severity

	// Category groups the principle into a broad design concern.
	Category finding.Category
}

var principles = map[string]Principle{
	"COLOR_001":       {ID: "COLOR_001", Name: "Color Harmony", Severity: finding.SeverityHigh, Category: finding.CategoryColor},
	"COLOR_002":       {ID: "COLOR_002", Name: "Color Palette Consistency", Severity: finding.SeverityHigh, Category: finding.CategoryColor},
	"COLOR_003":       {ID: "COLOR_003", Name: "Color Contrast for Readability", Severity: finding.SeverityCritical, Category: finding.CategoryColor},
	"COLOR_004":       {ID: "COLOR_004", Name: "Color Theory Compliance", Severity: finding.SeverityMedium, Category: finding.CategoryColor},
	"SPACING_001":     {ID: "SPACING_001", Name: "8px Grid System", Severity: finding.SeverityHigh, Category: finding.CategorySpacing},
	"SPACING_002":     {ID: "SPACING_002", Name: "Consistent Margins/Padding", Severity: finding.SeverityHigh, Category: finding.CategorySpacing},
	"SPACING_003":     {ID: "SPACING_003", Name: "Whitespace Balance", Severity: finding.SeverityMedium, Category: finding.CategorySpacing},
	"SPACING_004":     {ID: "SPACING_004", Name: "Layout Spacing Consistency", Severity: finding.SeverityHigh, Category: finding.CategorySpacing},
	"TYPOGRAPHY_001":  {ID: "TYPOGRAPHY_001", Name: "Font Hierarchy", Severity: finding.SeverityHigh, Category: finding.CategoryTypography},
	"TYPOGRAPHY_002":  {ID: "TYPOGRAPHY_002", Name: "Readable Font Sizes", Severity: finding.SeverityCritical, Category: finding.CategoryTypography},
	"TYPOGRAPHY_003":  {ID: "TYPOGRAPHY_003", Name: "Line Height Optimization", Severity: finding.SeverityMedium, Category: finding.CategoryTypography},
	"TYPOGRAPHY_004":  {ID: "TYPOGRAPHY_004", Name: "Font Pairing", Severity: finding.SeverityMedium, Category: finding.CategoryTypography},
	"HIERARCHY_001":   {ID: "HIERARCHY_001", Name: "Size Relationships", Severity: finding.SeverityHigh, Category: finding.CategoryHierarchy},
	"HIERARCHY_002":   {ID: "HIERARCHY_002", Name: "Visual Emphasis", Severity: finding.SeverityHigh, Category: finding.CategoryHierarchy},
	"HIERARCHY_003":   {ID: "HIERARCHY_003", Name: "Information Architecture", Severity: finding.SeverityMedium, Category: finding.CategoryHierarchy},
	"CONSISTENCY_001": {ID: "CONSISTENCY_001", Name: "Component Patterns", Severity: finding.SeverityHigh, Category: finding.CategoryConsistency},
	"CONSISTENCY_002": {ID: "CONSISTENCY_002", Name: "Spacing Consistency", Severity: finding.SeverityHigh, Category: finding.CategoryConsistency},
	"CONSISTENCY_003": {ID: "CONSISTENCY_003", Name: "Color Usage Consistency", Severity: finding.SeverityHigh, Category: finding.CategoryConsistency},
	"MODERN_001":      {ID: "MODERN_001", Name: "Card Design Patterns", Severity: finding.SeverityMedium, Category: finding.CategoryModernPatterns},
	"MODERN_002":      {ID: "MODERN_002", Name: "Shadow and Depth", Severity: finding.SeverityLow, Category: finding.CategoryModernPatterns},
	"MODERN_003":      {ID: "MODERN_003", Name: "Border Radius Consistency", Severity: finding.SeverityLow, Category: finding.CategoryModernPatterns},
	"MODERN_004":      {ID: "MODERN_004", Name: "Modern UI Patterns", Severity: finding.SeverityMedium, Category: finding.CategoryModernPatterns},
	"BALANCE_001":     {ID: "BALANCE_001", Name: "Visual Weight Distribution", Severity: finding.SeverityMedium, Category: finding.CategoryBalance},
	"BALANCE_002":     {ID: "BALANCE_002", Name: "Layout Balance", Severity: finding.SeverityMedium, Category: finding.CategoryBalance},
	"CLUTTER_001":     {ID: "CLUTTER_001", Name: "Visual Clutter", Severity: finding.SeverityHigh, Category: finding.CategoryClutter},
	"CLUTTER_002":     {ID: "CLUTTER_002", Name: "Unnecessary Elements", Severity: finding.SeverityMedium, Category: finding.CategoryClutter},
}

// Lookup retrieves a principle by its exact taxonomy key.
func Lookup(id string) (Principle, bool) {
	p, ok := principles[id]
	return p, ok
}

// Known reports whether id is an exact taxonomy key.
func Known(id string) bool {
	_, ok := principles[id]
	return ok
}

// All returns every principle sorted by ID.
func All() []Principle {
	out := make([]Principle, 0, len(principles))
	for _, p := range principles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ExtractID normalizes loose principle references from model output into a
// taxonomy key. Models sometimes return "COLOR_001 - Color Harmony" or
// similar decorated forms; the first embedded known key wins. Returns ""
// when no key can be extracted.
func ExtractID(text string) string {
	if Known(text) {
		return text
	}
	for id := range principles {
		if strings.Contains(text, id) {
			return id
		}
	}
	return ""
}

// lenientPrinciples is the always-plausible set: findings for these
// principles are accepted even without any resolvable location data.
//
// This is a deliberate recall-over-precision trade-off (contrast defects
// and unreadable fonts are too costly to drop on a bad line number), and
// a tunable policy rather than a hard invariant.
var lenientPrinciples = []string{"COLOR_003", "TYPOGRAPHY_002", "SPACING_001"}

// IsLenient reports whether the principle reference belongs to the
// always-plausible set. Substring matching mirrors the tolerant handling
// of decorated principle references elsewhere.
func IsLenient(principleID string) bool {
	for _, id := range lenientPrinciples {
		if strings.Contains(principleID, id) {
			return true
		}
	}
	return false
}
