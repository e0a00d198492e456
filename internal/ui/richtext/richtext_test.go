package richtext

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestPlain(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"text", "Hello", "Hello"},
		{"inline tags", "Use <b>bold</b> and <code>&lt;p&gt;</code>", "Use bold and <p>"},
		{"break", "one<br>two", "one\ntwo"},
		{"paragraphs", "<p>one</p><p>two</p>", "one\ntwo"},
		{"list", "Tags:<ul><li>ul</li><li>li</li></ul>", "Tags:\n  - ul\n  - li"},
		{"partial tag", "Hi <co", "Hi"},
		{"unknown tag", "<span>kept</span>", "kept"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Plain(tt.in); got != tt.want {
				t.Errorf("Plain(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRender_MatchesPlainText(t *testing.T) {
	in := "The <b>&lt;ul&gt;</b> tag<br>wraps <i>items</i>:<ul><li><code>li</code></li></ul>"
	got := ansi.Strip(Render(in))
	want := "The <ul> tag\nwraps items:\n  • li"
	if got != want {
		t.Errorf("Render() stripped = %q, want %q", got, want)
	}
}
