// Package richtext renders the small HTML subset used in lesson content
// (b, strong, i, em, code, br, p, ul/ol/li) as styled terminal text.
package richtext

import (
	"strings"

	"charm.land/lipgloss/v2"
	"golang.org/x/net/html"

	"github.com/abhisek/codulingo/internal/ui/theme"
)

var (
	boldStyle   = lipgloss.NewStyle().Bold(true).Foreground(theme.Text)
	italicStyle = lipgloss.NewStyle().Italic(true)
	codeStyle   = lipgloss.NewStyle().Foreground(theme.Secondary).Background(theme.BgCode)
)

type state struct {
	bold, italic, code int
}

func (s state) style() (lipgloss.Style, bool) {
	switch {
	case s.code > 0:
		return codeStyle, true
	case s.bold > 0:
		return boldStyle, true
	case s.italic > 0:
		return italicStyle, true
	}
	return lipgloss.Style{}, false
}

// Render converts lesson HTML to styled text. Unknown tags are dropped and
// their text kept. A trailing partial tag, as seen mid-reveal, renders as
// nothing.
func Render(src string) string {
	z := html.NewTokenizer(strings.NewReader(src))
	var (
		b  strings.Builder
		st state
	)
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return strings.TrimRight(b.String(), "\n ")

		case html.TextToken:
			text := string(z.Text())
			if style, ok := st.style(); ok {
				text = style.Render(text)
			}
			b.WriteString(text)

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "b", "strong":
				st.bold++
			case "i", "em":
				st.italic++
			case "code", "pre":
				st.code++
			case "br":
				b.WriteString("\n")
			case "p", "ul", "ol":
				newline(&b)
			case "li":
				newline(&b)
				b.WriteString("  • ")
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "b", "strong":
				st.bold = max(st.bold-1, 0)
			case "i", "em":
				st.italic = max(st.italic-1, 0)
			case "code", "pre":
				st.code = max(st.code-1, 0)
			case "p", "ul", "ol":
				newline(&b)
			}
		}
	}
}

// Plain is Render without styling, for line-mode output and logs.
func Plain(src string) string {
	z := html.NewTokenizer(strings.NewReader(src))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimRight(b.String(), "\n ")
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "br":
				b.WriteString("\n")
			case "p", "ul", "ol":
				newline(&b)
			case "li":
				newline(&b)
				b.WriteString("  - ")
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "p", "ul", "ol":
				newline(&b)
			}
		}
	}
}

// newline starts a new line unless the output is empty or already at one.
func newline(b *strings.Builder) {
	s := b.String()
	if s == "" || strings.HasSuffix(s, "\n") {
		return
	}
	b.WriteString("\n")
}
