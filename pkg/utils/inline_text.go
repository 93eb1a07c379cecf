package utils

import (
	"strings"
	"unicode"
)

// TextStyle 行内文本样式
type TextStyle int

const (
	StyleRegular TextStyle = iota
	StyleBold
	StyleItalic
)

// Span 一段样式一致的文本
type Span struct {
	Text  string
	Style TextStyle
}

// StyledMeasureFunc 返回指定样式下一段文本的像素宽度
type StyledMeasureFunc func(s string, style TextStyle) float64

// ParseInline 解析行内 markdown：**粗体** 与 *斜体*
//
// 没有闭合的标记按普通字符处理；标记不嵌套。
func ParseInline(s string) []Span {
	var spans []Span
	var plain strings.Builder

	flush := func() {
		if plain.Len() > 0 {
			spans = append(spans, Span{Text: plain.String()})
			plain.Reset()
		}
	}

	for i := 0; i < len(s); {
		if strings.HasPrefix(s[i:], "**") {
			if end := strings.Index(s[i+2:], "**"); end > 0 {
				flush()
				spans = append(spans, Span{Text: s[i+2 : i+2+end], Style: StyleBold})
				i += end + 4
				continue
			}
		} else if s[i] == '*' {
			if end := closingStar(s[i+1:]); end > 0 {
				flush()
				spans = append(spans, Span{Text: s[i+1 : i+1+end], Style: StyleItalic})
				i += end + 2
				continue
			}
		}
		plain.WriteByte(s[i])
		i++
	}
	flush()
	return spans
}

// closingStar 返回下一个单独 '*' 的位置，-1 表示没有
func closingStar(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] != '*' {
			continue
		}
		if i+1 < len(s) && s[i+1] == '*' {
			return -1
		}
		return i
	}
	return -1
}

// StripInline 去掉行内 markdown 标记，返回纯文本
func StripInline(s string) string {
	var b strings.Builder
	for _, sp := range ParseInline(s) {
		b.WriteString(sp.Text)
	}
	return b.String()
}

// SpansText 连接各段文本
func SpansText(spans []Span) string {
	var b strings.Builder
	for _, sp := range spans {
		b.WriteString(sp.Text)
	}
	return b.String()
}

// WrapSpans 按最大宽度对带样式的文本换行
//
// "\n" 是硬换行，优先在空白处断行；
// 单词超宽时独占一行。每行中相邻的同样式片段会被合并。
func WrapSpans(spans []Span, measure StyledMeasureFunc, maxWidth float64) [][]Span {
	var lines [][]Span
	for _, paragraph := range splitParagraphs(spans) {
		lines = append(lines, wrapWords(paragraph, measure, maxWidth)...)
	}
	return lines
}

// splitParagraphs 在硬换行处拆分，再把每段拆成单词（单词可以跨样式）
func splitParagraphs(spans []Span) [][][]Span {
	var paragraphs [][][]Span
	var words [][]Span
	var word []Span
	var buf strings.Builder
	var style TextStyle

	flushBuf := func() {
		if buf.Len() > 0 {
			word = append(word, Span{Text: buf.String(), Style: style})
			buf.Reset()
		}
	}
	flushWord := func() {
		flushBuf()
		if len(word) > 0 {
			words = append(words, word)
			word = nil
		}
	}

	for _, sp := range spans {
		flushBuf()
		style = sp.Style
		for _, r := range sp.Text {
			switch {
			case r == '\n':
				flushWord()
				paragraphs = append(paragraphs, words)
				words = nil
			case unicode.IsSpace(r):
				flushWord()
			default:
				buf.WriteRune(r)
			}
		}
	}
	flushWord()
	return append(paragraphs, words)
}

func wrapWords(words [][]Span, measure StyledMeasureFunc, maxWidth float64) [][]Span {
	if len(words) == 0 {
		return [][]Span{nil}
	}
	width := func(word []Span) float64 {
		if measure == nil {
			return 0
		}
		w := 0.0
		for _, sp := range word {
			w += measure(sp.Text, sp.Style)
		}
		return w
	}
	space := 0.0
	if measure != nil {
		space = measure(" ", StyleRegular)
	}

	var lines [][]Span
	var line []Span
	lineWidth := 0.0
	for _, word := range words {
		w := width(word)
		if len(line) > 0 && maxWidth > 0 && lineWidth+space+w > maxWidth {
			lines = append(lines, mergeSpans(line))
			line, lineWidth = nil, 0
		}
		if len(line) > 0 {
			line = append(line, Span{Text: " ", Style: StyleRegular})
			lineWidth += space
		}
		line = append(line, word...)
		lineWidth += w
	}
	return append(lines, mergeSpans(line))
}

// mergeSpans 合并相邻的同样式片段；空格并入前一个片段
func mergeSpans(spans []Span) []Span {
	var out []Span
	for _, sp := range spans {
		if n := len(out); n > 0 && (out[n-1].Style == sp.Style || sp.Text == " ") {
			out[n-1].Text += sp.Text
			continue
		}
		out = append(out, sp)
	}
	return out
}
