package srcfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFileType(t *testing.T) {
	tests := map[string]FileType{
		"index.html":     TypeHTML,
		"page.HTM":       TypeHTML,
		"styles.css":     TypeCSS,
		"theme.scss":     TypeCSS,
		"App.jsx":        TypeJSX,
		"widget.tsx":     TypeJSX,
		"layout.xml":     TypeXML,
		"icon.svg":       TypeXML,
		"config.json":    TypeJSON,
		"notes.txt":      TypeUnknown,
		"Makefile":       TypeUnknown,
		"dir/styles.css": TypeCSS,
	}
	for path, want := range tests {
		assert.Equal(t, want, DetectFileType(path), path)
	}
}

func TestReadWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	content := "<html>\n<body>\n</body>\n</html>\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	f, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, content, f.Content)
	assert.Equal(t, TypeHTML, f.Type)
	assert.Equal(t, 5, f.Lines)
	assert.True(t, Exists(path))

	require.NoError(t, Write(path, "<html></html>\n"))
	f2, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "<html></html>\n", f2.Content)
}

func TestReadMissing(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.css"))
	require.Error(t, err)
	assert.False(t, Exists(filepath.Join(t.TempDir(), "nope.css")))
}

func TestNumberedCode(t *testing.T) {
	got := NumberedCode("a\nb")
	assert.Equal(t, "   1: a\n   2: b\n", got)
}

func TestExtractContext(t *testing.T) {
	source := "l1\nl2\nl3\nl4\nl5\nl6\nl7"

	ctx := ExtractContext(source, []int{4}, 2)
	require.NotNil(t, ctx)
	assert.Equal(t, 2, ctx.StartLine)
	assert.Equal(t, 6, ctx.EndLine)
	assert.Len(t, ctx.Lines, 5)
	assert.Equal(t, []int{4}, ctx.Highlighted)
	assert.True(t, ctx.Lines[2].Highlighted)
	assert.Equal(t, "l4", ctx.Lines[2].Content)

	// Window clamps at the file edges.
	edge := ExtractContext(source, []int{1}, 3)
	require.NotNil(t, edge)
	assert.Equal(t, 1, edge.StartLine)
	assert.Equal(t, 4, edge.EndLine)

	assert.Nil(t, ExtractContext(source, nil, 2))
}

func TestDiff(t *testing.T) {
	original := "a\nb\nc\nd\ne\n"
	fixed := "a\nB\nc\nd\ne\n"

	out := Diff(original, fixed)
	assert.Contains(t, out, "- b")
	assert.Contains(t, out, "+ B")

	assert.Empty(t, Diff(original, original))

	removed, added := ChangedLineCount(original, fixed)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, added)
}

func TestValidateSyntax(t *testing.T) {
	t.Run("css", func(t *testing.T) {
		assert.True(t, ValidateSyntax(".a { color: red; }", TypeCSS).Valid)
		res := ValidateSyntax(".a { color: red;", TypeCSS)
		assert.False(t, res.Valid)
		assert.NotEmpty(t, res.Errors)
		assert.False(t, ValidateSyntax("} .a {}", TypeCSS).Valid)
	})

	t.Run("html", func(t *testing.T) {
		assert.True(t, ValidateSyntax("<div><p>hi</p></div>", TypeHTML).Valid)
	})

	t.Run("jsx", func(t *testing.T) {
		assert.True(t, ValidateSyntax("const a = () => ({ x: 1 });", TypeJSX).Valid)
		assert.False(t, ValidateSyntax("const a = () => ({ x: 1 };", TypeJSX).Valid)
	})

	t.Run("xml", func(t *testing.T) {
		assert.True(t, ValidateSyntax("<a><b/></a>", TypeXML).Valid)
		assert.False(t, ValidateSyntax("<a><b></a>", TypeXML).Valid)
	})

	t.Run("json", func(t *testing.T) {
		assert.True(t, ValidateSyntax(`{"a": 1}`, TypeJSON).Valid)
		assert.False(t, ValidateSyntax(`{"a": }`, TypeJSON).Valid)
	})

	t.Run("unknown passes", func(t *testing.T) {
		assert.True(t, ValidateSyntax("anything {", TypeUnknown).Valid)
	})
}
