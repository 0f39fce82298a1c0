package static

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/uxforge/veneer/internal/finding"
)

// Thresholds for the palette and typography checks.
const (
	maxUniqueColors = 10
	maxFontSizes    = 8
)

var (
	spacingValueRE = regexp.MustCompile(`(?i)\b(margin|padding|gap)(-(top|right|bottom|left))?\s*:\s*(\d+)px`)
	colorValueRE   = regexp.MustCompile(`(?i)#[0-9a-f]{3,8}\b|rgba?\s*\([^)]*\)|hsla?\s*\([^)]*\)`)
	fontSizeRE     = regexp.MustCompile(`(?i)font-size\s*:\s*([\d.]+)(px|rem|em|pt)`)
	borderRadiusRE = regexp.MustCompile(`(?i)border-radius\s*:`)
	cardSelectorRE = regexp.MustCompile(`(?i)\.(card|panel|tile|box)[\s,{.:]`)
)

// analyzeCSS checks stylesheet content (or the CSS embedded in markup) for
// off-grid spacing, palette sprawl, font-size sprawl and missing rounding
// on card-like components.
func analyzeCSS(content string) []finding.Finding {
	var out []finding.Finding
	lines := strings.Split(content, "\n")

	out = append(out, checkSpacingGrid(lines)...)
	out = append(out, checkColorPalette(lines)...)
	out = append(out, checkFontSizes(lines)...)
	out = append(out, checkBorderRadius(content, lines)...)
	return out
}

// checkSpacingGrid flags pixel spacing values that are neither zero nor a
// multiple of 8.
func checkSpacingGrid(lines []string) []finding.Finding {
	var out []finding.Finding
	for i, line := range lines {
		for _, m := range spacingValueRE.FindAllStringSubmatch(line, -1) {
			px, err := strconv.Atoi(m[4])
			if err != nil || px == 0 || px%8 == 0 {
				continue
			}
			out = append(out, newFinding(
				"SPACING_001",
				finding.SeverityHigh,
				finding.CategorySpacing,
				[]int{i + 1},
				strings.TrimSpace(line),
				fmt.Sprintf("Spacing value %dpx is off the 8px grid", px),
				fmt.Sprintf("Use %dpx or %dpx to stay on the spacing grid", px/8*8, (px/8+1)*8),
			))
		}
	}
	return out
}

// checkColorPalette flags files whose unique color literal count exceeds
// the palette budget. One finding per file, pointing at the first line of
// each distinct color.
func checkColorPalette(lines []string) []finding.Finding {
	firstSeen := map[string]int{}
	for i, line := range lines {
		for _, c := range colorValueRE.FindAllString(line, -1) {
			key := strings.ToLower(strings.Join(strings.Fields(c), ""))
			if _, ok := firstSeen[key]; !ok {
				firstSeen[key] = i + 1
			}
		}
	}
	if len(firstSeen) <= maxUniqueColors {
		return nil
	}

	lineNums := make([]int, 0, len(firstSeen))
	for _, ln := range firstSeen {
		lineNums = append(lineNums, ln)
	}
	sort.Ints(lineNums)
	if len(lineNums) > 3 {
		lineNums = lineNums[:3]
	}

	return []finding.Finding{newFinding(
		"COLOR_002",
		finding.SeverityHigh,
		finding.CategoryColor,
		lineNums,
		strings.TrimSpace(lines[lineNums[0]-1]),
		fmt.Sprintf("%d unique color values exceed the palette budget of %d", len(firstSeen), maxUniqueColors),
		"Consolidate colors into CSS custom properties",
	)}
}

// checkFontSizes flags files declaring more distinct font sizes than a
// coherent type scale supports.
func checkFontSizes(lines []string) []finding.Finding {
	firstSeen := map[string]int{}
	for i, line := range lines {
		for _, m := range fontSizeRE.FindAllStringSubmatch(line, -1) {
			key := m[1] + strings.ToLower(m[2])
			if _, ok := firstSeen[key]; !ok {
				firstSeen[key] = i + 1
			}
		}
	}
	if len(firstSeen) <= maxFontSizes {
		return nil
	}

	lineNums := make([]int, 0, len(firstSeen))
	for _, ln := range firstSeen {
		lineNums = append(lineNums, ln)
	}
	sort.Ints(lineNums)
	if len(lineNums) > 3 {
		lineNums = lineNums[:3]
	}

	return []finding.Finding{newFinding(
		"TYPOGRAPHY_001",
		finding.SeverityHigh,
		finding.CategoryTypography,
		lineNums,
		strings.TrimSpace(lines[lineNums[0]-1]),
		fmt.Sprintf("%d distinct font sizes exceed the type scale budget of %d", len(firstSeen), maxFontSizes),
		"Reduce font sizes to a modular type scale",
	)}
}

// checkBorderRadius flags card-like selectors in files that never declare
// a border radius anywhere.
func checkBorderRadius(content string, lines []string) []finding.Finding {
	if borderRadiusRE.MatchString(content) {
		return nil
	}
	var out []finding.Finding
	for i, line := range lines {
		if cardSelectorRE.MatchString(line) {
			out = append(out, newFinding(
				"MODERN_003",
				finding.SeverityLow,
				finding.CategoryModernPatterns,
				[]int{i + 1},
				strings.TrimSpace(line),
				"Card-like component without any border radius in the file",
				"Add a consistent border-radius to card components",
			))
			break
		}
	}
	return out
}
