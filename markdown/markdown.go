// Package markdown renders the static navigation pages (content/*.md) to HTML.
// It covers the subset the pages use: headings with anchors, paragraphs,
// lists, quotes, fenced code, rules, simple tables, links and images.
package markdown

import (
	"bytes"
	"context"
	"html"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/a-h/templ"

	"github.com/eringen/newsdesk/richtext"
)

var (
	reHeading  = regexp.MustCompile(`^(#{1,4})\s+(.*)$`)
	reOrdered  = regexp.MustCompile(`^\d+\.\s+`)
	reImage    = regexp.MustCompile(`!\[([^\]]*)\]\(([^)\s]+)\)`)
	reLink     = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)
	reCode     = regexp.MustCompile("`([^`]+)`")
	reStrong   = regexp.MustCompile(`\*\*(.+?)\*\*|__(.+?)__`)
	reEmphasis = regexp.MustCompile(`\*([^*]+)\*|_([^_]+)_`)
)

type block int

const (
	blockNone block = iota
	blockPara
	blockList
	blockOrdered
	blockQuote
	blockTable
)

var closing = map[block]string{
	blockPara:    "</p>",
	blockList:    "</ul>",
	blockOrdered: "</ol>",
	blockQuote:   "</blockquote>",
}

type renderer struct {
	out       *bytes.Buffer
	open      block
	tableBody bool
	ids       map[string]int
}

// Component returns a templ component that writes md as HTML.
func Component(md string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, ToHTML(md))
		return err
	})
}

// ToHTML converts md to HTML.
func ToHTML(md string) string {
	var buf bytes.Buffer
	r := &renderer{out: &buf, ids: make(map[string]int)}
	r.render(md)
	return buf.String()
}

func (r *renderer) render(md string) {
	inCode := false
	for _, line := range strings.Split(md, "\n") {
		line = strings.TrimRight(line, "\r")

		if strings.HasPrefix(line, "```") {
			if inCode {
				r.out.WriteString("</code></pre>")
				inCode = false
				continue
			}
			r.close()
			lang := strings.TrimSpace(line[3:])
			if lang != "" {
				r.out.WriteString(`<pre><code class="language-` + html.EscapeString(lang) + `">`)
			} else {
				r.out.WriteString("<pre><code>")
			}
			inCode = true
			continue
		}
		if inCode {
			r.out.WriteString(html.EscapeString(line) + "\n")
			continue
		}

		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			r.close()
		case trimmed == "---" || trimmed == "***":
			r.close()
			r.out.WriteString("<hr/>")
		case reHeading.MatchString(trimmed):
			m := reHeading.FindStringSubmatch(trimmed)
			r.close()
			level := strconv.Itoa(len(m[1]))
			text := strings.TrimSpace(m[2])
			r.out.WriteString(`<h` + level + ` id="` + r.anchor(text) + `">` + Inline(text) + `</h` + level + `>`)
		case strings.HasPrefix(trimmed, "|"):
			r.tableRow(trimmed)
		case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
			r.enter(blockList, "<ul>")
			r.out.WriteString("<li>" + Inline(strings.TrimSpace(trimmed[2:])) + "</li>")
		case reOrdered.MatchString(trimmed):
			r.enter(blockOrdered, "<ol>")
			r.out.WriteString("<li>" + Inline(reOrdered.ReplaceAllString(trimmed, "")) + "</li>")
		case strings.HasPrefix(trimmed, ">"):
			if r.open == blockQuote {
				r.out.WriteString(" ")
			}
			r.enter(blockQuote, "<blockquote>")
			r.out.WriteString(Inline(strings.TrimSpace(strings.TrimPrefix(trimmed, ">"))))
		default:
			if r.open == blockPara {
				r.out.WriteString(" ")
			}
			r.enter(blockPara, "<p>")
			r.out.WriteString(Inline(trimmed))
		}
	}
	if inCode {
		r.out.WriteString("</code></pre>")
	}
	r.close()
}

// enter opens b unless it is already the current block.
func (r *renderer) enter(b block, tag string) {
	if r.open == b {
		return
	}
	r.close()
	r.out.WriteString(tag)
	r.open = b
}

func (r *renderer) close() {
	switch r.open {
	case blockNone:
		return
	case blockTable:
		if r.tableBody {
			r.out.WriteString("</tbody>")
		}
		r.out.WriteString("</table>")
		r.tableBody = false
	default:
		r.out.WriteString(closing[r.open])
	}
	r.open = blockNone
}

// tableRow writes a pipe table line. The first row becomes the header and the
// |---| separator row is skipped.
func (r *renderer) tableRow(line string) {
	cells := splitCells(line)
	if r.open != blockTable {
		r.close()
		r.open = blockTable
		r.out.WriteString("<table><thead><tr>")
		for _, c := range cells {
			r.out.WriteString("<th>" + Inline(c) + "</th>")
		}
		r.out.WriteString("</tr></thead>")
		return
	}
	if !r.tableBody {
		r.out.WriteString("<tbody>")
		r.tableBody = true
	}
	if isSeparator(cells) {
		return
	}
	r.out.WriteString("<tr>")
	for _, c := range cells {
		r.out.WriteString("<td>" + Inline(c) + "</td>")
	}
	r.out.WriteString("</tr>")
}

func splitCells(line string) []string {
	parts := strings.Split(strings.Trim(line, "|"), "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func isSeparator(cells []string) bool {
	for _, c := range cells {
		if strings.Trim(c, "-: ") != "" {
			return false
		}
	}
	return true
}

// anchor returns a unique id for a heading. Repeated headings get -2, -3...
func (r *renderer) anchor(text string) string {
	id := Slug(text)
	if id == "" {
		id = "section"
	}
	r.ids[id]++
	if n := r.ids[id]; n > 1 {
		id += "-" + strconv.Itoa(n)
	}
	return id
}

// Slug lowercases s and joins its letter and digit runs with hyphens.
// Non-ASCII letters are kept.
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// Inline escapes s and applies inline code, images, links, strong and
// emphasis. Unsafe URLs leave only the label behind.
func Inline(s string) string {
	s = html.EscapeString(s)

	var codes []string
	s = reCode.ReplaceAllStringFunc(s, func(m string) string {
		codes = append(codes, "<code>"+reCode.FindStringSubmatch(m)[1]+"</code>")
		return "\x00" + strconv.Itoa(len(codes)-1) + "\x00"
	})

	s = reImage.ReplaceAllStringFunc(s, func(m string) string {
		sm := reImage.FindStringSubmatch(m)
		src := safeAttr(sm[2])
		if src == "" {
			return sm[1]
		}
		return `<img src="` + src + `" alt="` + sm[1] + `" loading="lazy"/>`
	})
	s = reLink.ReplaceAllStringFunc(s, func(m string) string {
		sm := reLink.FindStringSubmatch(m)
		href := safeAttr(sm[2])
		if href == "" {
			return sm[1]
		}
		return `<a href="` + href + `">` + sm[1] + `</a>`
	})

	s = outsideTags(s, func(seg string) string {
		seg = reStrong.ReplaceAllString(seg, "<strong>$1$2</strong>")
		return reEmphasis.ReplaceAllString(seg, "<em>$1$2</em>")
	})

	for i, c := range codes {
		s = strings.Replace(s, "\x00"+strconv.Itoa(i)+"\x00", c, 1)
	}
	return s
}

// safeAttr takes an already escaped URL and returns it escaped again if safe.
func safeAttr(escaped string) string {
	u := richtext.SafeURL(html.UnescapeString(escaped))
	if u == "" {
		return ""
	}
	return html.EscapeString(u)
}

// outsideTags applies fn to the text between tags only, so attribute values
// are never rewritten.
func outsideTags(s string, fn func(string) string) string {
	var b strings.Builder
	for s != "" {
		lt := strings.IndexByte(s, '<')
		if lt < 0 {
			b.WriteString(fn(s))
			break
		}
		b.WriteString(fn(s[:lt]))
		gt := strings.IndexByte(s[lt:], '>')
		if gt < 0 {
			b.WriteString(s[lt:])
			break
		}
		b.WriteString(s[lt : lt+gt+1])
		s = s[lt+gt+1:]
	}
	return b.String()
}
