package srcfile

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// SyntaxResult is the outcome of a dialect-aware well-formedness check on
// candidate file content.
type SyntaxResult struct {
	Valid  bool
	Errors []string
}

// ValidateSyntax checks content for structural validity in the given
// dialect. Dialects without a checker pass by default: the remediation
// gate must not reject fixes it cannot judge.
func ValidateSyntax(content string, ft FileType) SyntaxResult {
	switch ft {
	case TypeHTML:
		return validateHTML(content)
	case TypeCSS:
		return validateCSS(content)
	case TypeJSX:
		return validateBraces(content)
	case TypeXML:
		return validateXML(content)
	case TypeJSON:
		return validateJSON(content)
	default:
		return SyntaxResult{Valid: true}
	}
}

func validateHTML(content string) SyntaxResult {
	// html.Parse is forgiving, so tokenize instead and fail on raw
	// tokenizer errors only.
	tok := html.NewTokenizer(strings.NewReader(content))
	for {
		tt := tok.Next()
		if tt == html.ErrorToken {
			err := tok.Err()
			if err == io.EOF {
				return SyntaxResult{Valid: true}
			}
			return SyntaxResult{Errors: []string{err.Error()}}
		}
	}
}

func validateCSS(content string) SyntaxResult {
	var errs []string
	depth := 0
	line := 1
	for _, r := range content {
		switch r {
		case '\n':
			line++
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				errs = append(errs, fmt.Sprintf("line %d: unmatched closing brace", line))
				depth = 0
			}
		}
	}
	if depth > 0 {
		errs = append(errs, fmt.Sprintf("%d unclosed brace(s)", depth))
	}
	return SyntaxResult{Valid: len(errs) == 0, Errors: errs}
}

// validateBraces covers JSX and friends: a full parse is out of scope, but
// unbalanced brackets catch the truncated responses models produce.
func validateBraces(content string) SyntaxResult {
	var errs []string
	for _, pair := range []struct {
		open, close rune
		name        string
	}{
		{'{', '}', "brace"},
		{'(', ')', "parenthesis"},
		{'[', ']', "bracket"},
	} {
		depth := 0
		for _, r := range content {
			switch r {
			case pair.open:
				depth++
			case pair.close:
				depth--
			}
		}
		if depth != 0 {
			errs = append(errs, fmt.Sprintf("unbalanced %s count (%+d)", pair.name, depth))
		}
	}
	return SyntaxResult{Valid: len(errs) == 0, Errors: errs}
}

func validateXML(content string) SyntaxResult {
	dec := xml.NewDecoder(strings.NewReader(content))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return SyntaxResult{Valid: true}
		}
		if err != nil {
			return SyntaxResult{Errors: []string{err.Error()}}
		}
	}
}

func validateJSON(content string) SyntaxResult {
	if json.Valid([]byte(content)) {
		return SyntaxResult{Valid: true}
	}
	var v any
	err := json.Unmarshal([]byte(content), &v)
	msg := "invalid JSON"
	if err != nil {
		msg = err.Error()
	}
	return SyntaxResult{Errors: []string{msg}}
}
