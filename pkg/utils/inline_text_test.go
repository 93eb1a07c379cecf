package utils

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

// styledMonospace 每个字符 10 像素，与样式无关
func styledMonospace(s string, _ TextStyle) float64 {
	return float64(utf8.RuneCountInString(s)) * 10
}

func TestParseInline(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Span
	}{
		{"纯文本", "Heal the mind", []Span{{Text: "Heal the mind"}}},
		{"粗体", "**PAJAMA** heals", []Span{
			{Text: "PAJAMA", Style: StyleBold},
			{Text: " heals"},
		}},
		{"斜体", "merges *weal* with", []Span{
			{Text: "merges "},
			{Text: "weal", Style: StyleItalic},
			{Text: " with"},
		}},
		{"混合", "**1** hour of *calm*", []Span{
			{Text: "1", Style: StyleBold},
			{Text: " hour of "},
			{Text: "calm", Style: StyleItalic},
		}},
		{"未闭合的标记", "a * b", []Span{{Text: "a * b"}}},
		{"未闭合的粗体", "**open", []Span{{Text: "**open"}}},
		{"空文本", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseInline(tt.input))
		})
	}
}

func TestStripInline(t *testing.T) {
	assert.Equal(t, "true wealth is well-being shared.", StripInline("*true wealth is well-being shared.*"))
	assert.Equal(t, "WEAL.THY merges weal", StripInline("**WEAL.THY** merges *weal*"))
}

func TestWrapSpans(t *testing.T) {
	t.Run("样式跨行保留", func(t *testing.T) {
		spans := ParseInline("**PAJAMA** heals the mind")
		lines := WrapSpans(spans, styledMonospace, 120)

		assert.Equal(t, [][]Span{
			{{Text: "PAJAMA ", Style: StyleBold}, {Text: "heals"}},
			{{Text: "the mind"}},
		}, lines)
	})

	t.Run("单词可跨样式", func(t *testing.T) {
		lines := WrapSpans(ParseInline("to be *weal.thy*, is"), styledMonospace, 1000)
		assert.Len(t, lines, 1)
		assert.Equal(t, "to be weal.thy, is", SpansText(lines[0]))
	})

	t.Run("硬换行", func(t *testing.T) {
		lines := WrapSpans(ParseInline("Renewed, we gather.\nNot by force."), styledMonospace, 1000)
		assert.Len(t, lines, 2)
		assert.Equal(t, "Not by force.", SpansText(lines[1]))
	})

	t.Run("超宽单词独占一行", func(t *testing.T) {
		lines := WrapSpans(ParseInline("a abcdefghij b"), styledMonospace, 50)
		var got []string
		for _, l := range lines {
			got = append(got, SpansText(l))
		}
		assert.Equal(t, []string{"a", "abcdefghij", "b"}, got)
	})

	t.Run("空文本得到一个空行", func(t *testing.T) {
		assert.Equal(t, [][]Span{nil}, WrapSpans(nil, styledMonospace, 100))
	})
}
