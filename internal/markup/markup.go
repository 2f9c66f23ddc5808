// Package markup converts the platform's restricted inline syntax
// (**bold**, *italic*, __underline__, #hashtag) into safe HTML.
package markup

import (
	"html/template"
	"regexp"
	"strings"
)

// Substitution order matters: bold markers must be consumed before the
// single-asterisk italic pattern so that **text** is never half-matched as
// italic. Matching is non-greedy and does not support nesting or escaping of
// the markers themselves; a literal * cannot be produced. That is a known
// limitation inherited from the syntax, not something to fix here.
var (
	boldRe      = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicRe    = regexp.MustCompile(`\*(.*?)\*`)
	underlineRe = regexp.MustCompile(`__(.*?)__`)
	hashtagRe   = regexp.MustCompile(`(#\w+)`)
)

// escape replaces the five HTML-significant characters with entities. It must
// run before any substitution so the inserted tags are the only markup in the
// output.
func escape(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&#039;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func substitute(escaped string) string {
	s := boldRe.ReplaceAllString(escaped, "<strong>$1</strong>")
	s = italicRe.ReplaceAllString(s, "<em>$1</em>")
	s = underlineRe.ReplaceAllString(s, "<u>$1</u>")
	return s
}

// Format renders message and email text. It is a pure function of its input:
// formatting the same raw string twice yields identical output.
func Format(raw string) template.HTML {
	return template.HTML(substitute(escape(raw)))
}

// FormatPost renders feed content. In addition to the inline markers it turns
// #word into a styled, non-navigating anchor. The anchor target is a stub by
// design; the platform has no hashtag search to point it at.
func FormatPost(raw string) template.HTML {
	s := substitute(escape(raw))
	s = hashtagRe.ReplaceAllString(s, `<a href="#" class="hashtag">$1</a>`)
	return template.HTML(s)
}

// StripTags removes anything tag-shaped from s. Used when deriving plain-text
// previews from rich compose bodies.
func StripTags(s string) string {
	return tagRe.ReplaceAllString(s, "")
}

var tagRe = regexp.MustCompile(`<[^>]*>`)
