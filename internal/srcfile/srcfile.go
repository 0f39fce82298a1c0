// Package srcfile reads and writes the UI source files the engine
// validates against, and provides the line-oriented views (numbered
// code, context windows, diffs) the rest of the pipeline consumes.
package srcfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/uxforge/veneer/internal/finding"
)

// FileType classifies a source file by its UI dialect.
type FileType string

const (
	TypeHTML    FileType = "html"
	TypeCSS     FileType = "css"
	TypeJSX     FileType = "jsx"
	TypeXML     FileType = "xml"
	TypeJSON    FileType = "json"
	TypeUnknown FileType = "unknown"
)

// DetectFileType maps a path to its UI dialect by extension.
func DetectFileType(path string) FileType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return TypeHTML
	case ".css", ".scss", ".less":
		return TypeCSS
	case ".jsx", ".tsx", ".js", ".ts":
		return TypeJSX
	case ".xml", ".svg", ".axml":
		return TypeXML
	case ".json":
		return TypeJSON
	default:
		return TypeUnknown
	}
}

// File is a source file loaded into memory together with the metadata
// reports care about.
type File struct {
	Path    string
	Content string
	Type    FileType
	Lines   int
	Size    int64
	ModTime time.Time
}

// Read loads path into memory. The content is treated as a single string
// for the whole pipeline so that line numbers stay stable.
func Read(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading source file: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading source file: %w", err)
	}
	content := string(data)
	return &File{
		Path:    path,
		Content: content,
		Type:    DetectFileType(path),
		Lines:   len(strings.Split(content, "\n")),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// Write replaces the file content on disk, preserving the existing mode
// when the file already exists.
func Write(path, content string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return fmt.Errorf("writing source file: %w", err)
	}
	return nil
}

// Exists reports whether path refers to a regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// NumberedCode renders content with 1-based line numbers, the format the
// model prompts use so that claimed line numbers can be trusted back.
func NumberedCode(content string) string {
	lines := strings.Split(content, "\n")
	var sb strings.Builder
	for i, line := range lines {
		fmt.Fprintf(&sb, "%4d: %s\n", i+1, line)
	}
	return sb.String()
}

// ExtractContext cuts a window of lines around the given 1-based line
// numbers, marking the lines themselves as highlighted. Out-of-range
// inputs shrink to the file bounds rather than erroring.
func ExtractContext(source string, lines []int, window int) *finding.CodeContext {
	if len(lines) == 0 {
		return nil
	}
	all := strings.Split(source, "\n")

	minLn, maxLn := lines[0], lines[0]
	highlighted := make(map[int]struct{}, len(lines))
	for _, ln := range lines {
		highlighted[ln] = struct{}{}
		if ln < minLn {
			minLn = ln
		}
		if ln > maxLn {
			maxLn = ln
		}
	}

	start := max(1, minLn-window)
	end := min(len(all), maxLn+window)
	if start > end {
		return nil
	}

	ctx := &finding.CodeContext{StartLine: start, EndLine: end}
	for ln := start; ln <= end; ln++ {
		_, hl := highlighted[ln]
		text := all[ln-1]
		ctx.Lines = append(ctx.Lines, finding.ContextLine{
			Number:      ln,
			Content:     text,
			Highlighted: hl,
			Indentation: len(text) - len(strings.TrimLeft(text, " \t")),
			Empty:       strings.TrimSpace(text) == "",
		})
		if hl {
			ctx.Highlighted = append(ctx.Highlighted, ln)
		}
	}
	return ctx
}
