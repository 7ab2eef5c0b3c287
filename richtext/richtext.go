// Package richtext cleans editor HTML before it is rendered and derives
// plain-text excerpts from it.
package richtext

import (
	"bytes"
	"net/url"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// allowed maps permitted elements to their permitted attributes.
var allowed = map[atom.Atom][]string{
	atom.P:          nil,
	atom.Br:         nil,
	atom.Hr:         nil,
	atom.H1:         nil,
	atom.H2:         nil,
	atom.H3:         nil,
	atom.Strong:     nil,
	atom.B:          nil,
	atom.Em:         nil,
	atom.I:          nil,
	atom.U:          nil,
	atom.S:          nil,
	atom.Mark:       nil,
	atom.Blockquote: nil,
	atom.Code:       nil,
	atom.Pre:        nil,
	atom.Ul:         nil,
	atom.Ol:         {"start"},
	atom.Li:         nil,
	atom.A:          {"href", "title"},
	atom.Img:        {"src", "alt", "title", "width", "height"},
}

// dropped elements are removed together with everything inside them.
var dropped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Iframe:   true,
	atom.Object:   true,
	atom.Embed:    true,
	atom.Template: true,
	atom.Noscript: true,
	atom.Textarea: true,
	atom.Select:   true,
}

// Sanitize returns src with every element outside the allow-list removed
// (its text kept), dangerous elements dropped entirely, and unsafe URLs
// stripped from href/src. Links get rel="noopener noreferrer nofollow".
func Sanitize(src string) string {
	var out bytes.Buffer
	z := html.NewTokenizer(strings.NewReader(src))
	skipDepth := 0
	var skipAtom atom.Atom
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return out.String()
		}
		tok := z.Token()

		if skipDepth > 0 {
			switch {
			case tt == html.StartTagToken && tok.DataAtom == skipAtom:
				skipDepth++
			case tt == html.EndTagToken && tok.DataAtom == skipAtom:
				skipDepth--
			}
			continue
		}

		switch tt {
		case html.TextToken:
			out.WriteString(html.EscapeString(tok.Data))
		case html.StartTagToken, html.SelfClosingTagToken:
			if dropped[tok.DataAtom] {
				if tt == html.StartTagToken {
					skipDepth = 1
					skipAtom = tok.DataAtom
				}
				continue
			}
			attrs, ok := allowed[tok.DataAtom]
			if !ok {
				continue
			}
			writeStartTag(&out, tok, attrs, tt == html.SelfClosingTagToken)
		case html.EndTagToken:
			if _, ok := allowed[tok.DataAtom]; ok && !isVoid(tok.DataAtom) {
				out.WriteString("</" + tok.DataAtom.String() + ">")
			}
		}
	}
}

func writeStartTag(out *bytes.Buffer, tok html.Token, permitted []string, selfClosing bool) {
	out.WriteString("<" + tok.DataAtom.String())
	for _, a := range tok.Attr {
		if a.Namespace != "" || !contains(permitted, a.Key) {
			continue
		}
		val := a.Val
		if a.Key == "href" || a.Key == "src" {
			val = SafeURL(val)
			if val == "" {
				continue
			}
		}
		out.WriteString(" " + a.Key + `="` + html.EscapeString(val) + `"`)
	}
	if tok.DataAtom == atom.A {
		out.WriteString(` rel="noopener noreferrer nofollow"`)
	}
	if tok.DataAtom == atom.Img {
		out.WriteString(` loading="lazy"`)
	}
	if selfClosing || isVoid(tok.DataAtom) {
		out.WriteString("/>")
		return
	}
	out.WriteString(">")
}

func isVoid(a atom.Atom) bool {
	return a == atom.Br || a == atom.Hr || a == atom.Img
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// SafeURL returns raw if it is relative, a fragment, or uses http(s),
// mailto or tel; otherwise "".
func SafeURL(raw string) string {
	val := strings.TrimSpace(raw)
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		if strings.HasPrefix(val, "//") {
			return ""
		}
		return val
	}
	u, err := url.Parse(val)
	if err != nil || u.Scheme == "" {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "mailto", "tel":
		return val
	}
	return ""
}

// PlainText strips all markup from src and collapses whitespace.
func PlainText(src string) string {
	z := html.NewTokenizer(strings.NewReader(src))
	var parts []string
	skip := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
		case html.StartTagToken:
			if dropped[z.Token().DataAtom] {
				skip++
			}
		case html.EndTagToken:
			if dropped[z.Token().DataAtom] && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				parts = append(parts, string(z.Text()))
			}
		}
	}
}

// Excerpt returns at most n runes of the plain text of src, cut at a word
// boundary and suffixed with "…" when shortened.
func Excerpt(src string, n int) string {
	text := PlainText(src)
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	cut := string(runes[:n])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
