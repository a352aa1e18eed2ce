// Package compose turns the three buffers into one self-contained HTML
// document.
//
// Content is inserted verbatim. Nothing is escaped or validated: the
// playground runs the user's own code in their own browser.
package compose

import (
	"strings"

	"hcj-play/internal/buffer"
)

const (
	head = `<!DOCTYPE html><html lang="en"><head><meta charset="UTF-8">` +
		`<meta http-equiv="X-UA-Compatible" content="IE=edge">` +
		`<meta name="viewport" content="width=device-width, initial-scale=1.0">` +
		`<title>Document</title><style>`
	styleToBody  = `</style></head><body>`
	bodyToScript = `<script>`
	tail         = `</script></body></html>`
)

// Compose builds the document for s. Style goes in the head, markup in
// the body, and the script last in the body so it runs after both have
// been parsed.
func Compose(s buffer.Set) string {
	var b strings.Builder
	b.Grow(len(head) + len(styleToBody) + len(bodyToScript) + len(tail) +
		len(s.Style) + len(s.Markup) + len(s.Script))
	b.WriteString(head)
	b.WriteString(s.Style)
	b.WriteString(styleToBody)
	b.WriteString(s.Markup)
	b.WriteString(bodyToScript)
	b.WriteString(s.Script)
	b.WriteString(tail)
	return b.String()
}

// Regions splits a composed document back into its three inserted parts.
// It is exact when the style does not contain "</style></head><body>" and
// the script does not contain "<script>"; otherwise the split is the
// leftmost style end and rightmost script start. ok is false when doc
// does not have the composed skeleton.
func Regions(doc string) (s buffer.Set, ok bool) {
	if !strings.HasPrefix(doc, head) || !strings.HasSuffix(doc, tail) {
		return buffer.Set{}, false
	}
	inner := doc[len(head) : len(doc)-len(tail)]
	i := strings.Index(inner, styleToBody)
	if i < 0 {
		return buffer.Set{}, false
	}
	s.Style = inner[:i]
	rest := inner[i+len(styleToBody):]
	j := strings.LastIndex(rest, bodyToScript)
	if j < 0 {
		return buffer.Set{}, false
	}
	s.Markup = rest[:j]
	s.Script = rest[j+len(bodyToScript):]
	return s, true
}
