package richtext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKeepsEditorMarkup(t *testing.T) {
	in := `<h2>Naslov</h2><p>Some <strong>bold</strong> and <em>italic</em> text.</p><ul><li>one</li><li>two</li></ul>`
	assert.Equal(t, in, Sanitize(in))
}

func TestSanitizeDropsScripts(t *testing.T) {
	got := Sanitize(`<p>hi</p><script>alert(1)</script><p>there</p>`)
	assert.Equal(t, `<p>hi</p><p>there</p>`, got)
}

func TestSanitizeStripsUnknownTagsButKeepsText(t *testing.T) {
	got := Sanitize(`<div class="x"><span style="color:red">text</span></div>`)
	assert.Equal(t, `text`, got)
}

func TestSanitizeDropsEventHandlers(t *testing.T) {
	got := Sanitize(`<p onclick="steal()">x</p>`)
	assert.Equal(t, `<p>x</p>`, got)
}

func TestSanitizeLinks(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`<a href="https://example.com">x</a>`, `<a href="https://example.com" rel="noopener noreferrer nofollow">x</a>`},
		{`<a href="javascript:alert(1)">x</a>`, `<a rel="noopener noreferrer nofollow">x</a>`},
		{`<a href="/blogs/1/">x</a>`, `<a href="/blogs/1/" rel="noopener noreferrer nofollow">x</a>`},
		{`<a href="//evil.example">x</a>`, `<a rel="noopener noreferrer nofollow">x</a>`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Sanitize(tt.in), tt.in)
	}
}

func TestSanitizeImages(t *testing.T) {
	got := Sanitize(`<img src="https://cdn.example.com/a.jpg" alt="A" onerror="x()">`)
	assert.Equal(t, `<img src="https://cdn.example.com/a.jpg" alt="A" loading="lazy"/>`, got)
}

func TestSanitizeEscapesText(t *testing.T) {
	got := Sanitize(`<p>1 &lt; 2 &amp; "q"</p>`)
	assert.Equal(t, `<p>1 &lt; 2 &amp; &#34;q&#34;</p>`, got)
}

func TestPlainText(t *testing.T) {
	got := PlainText("<h1>Title</h1>\n<p>Hello   <b>world</b></p><script>var x</script>")
	assert.Equal(t, "Title Hello world", got)
}

func TestExcerpt(t *testing.T) {
	src := "<p>" + strings.Repeat("riječ ", 50) + "</p>"
	got := Excerpt(src, 20)
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.LessOrEqual(t, len([]rune(got)), 21)

	assert.Equal(t, "short", Excerpt("<p>short</p>", 20))
}

func TestSafeURL(t *testing.T) {
	assert.Equal(t, "https://a.b/c", SafeURL(" https://a.b/c "))
	assert.Equal(t, "mailto:x@y.z", SafeURL("mailto:x@y.z"))
	assert.Equal(t, "#top", SafeURL("#top"))
	assert.Equal(t, "", SafeURL("data:text/html;base64,xx"))
	assert.Equal(t, "", SafeURL("vbscript:x"))
	assert.Equal(t, "", SafeURL(""))
}
