package item

import (
	"strings"

	"golang.org/x/net/html"
)

// TextValue is a rich value with a plain-text rendering.
type TextValue interface {
	ToText() string
}

// Text is a processed full-text value.
type Text struct {
	text string
}

// NewText wraps already-rendered plain text.
func NewText(s string) Text { return Text{text: s} }

// TextFromHTML renders markup to plain text: tags are dropped, script and
// style contents are skipped, whitespace is collapsed.
func TextFromHTML(markup string) Text {
	z := html.NewTokenizer(strings.NewReader(markup))
	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return Text{text: strings.Join(strings.Fields(b.String()), " ")}
		case html.StartTagToken:
			if name, _ := z.TagName(); isRawTag(name) {
				skip++
			}
			b.WriteByte(' ')
		case html.EndTagToken:
			if name, _ := z.TagName(); isRawTag(name) && skip > 0 {
				skip--
			}
			b.WriteByte(' ')
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

func isRawTag(name []byte) bool {
	s := string(name)
	return s == "script" || s == "style"
}

// ToText returns the plain-text rendering.
func (t Text) ToText() string { return t.text }

// String implements fmt.Stringer.
func (t Text) String() string { return t.text }
