package views

import (
	"github.com/a-h/templ"

	"github.com/eringen/newsdesk"
)

// Dashboard lists the member's own posts.
func Dashboard(p newsdesk.DashboardPage) templ.Component {
	return Layout(p.Layout, component(func(h *writer) {
		h.raw(`<section class="dashboard"><header><h1>Moje objave</h1>`)
		h.raw(`<a class="button" href="/dashboard/new-blog">Novi post</a></header>`)
		if len(p.Posts) == 0 {
			h.raw(`<p class="empty">Još niste objavili ništa.</p></section>`)
			return
		}
		h.raw(`<table><thead><tr><th>Naslov</th><th>Kategorija</th><th>Datum</th></tr></thead><tbody>`)
		for _, post := range p.Posts {
			h.raw(`<tr><td><a`)
			h.href("href", post.Link())
			h.raw(`>`)
			h.text(post.Title)
			h.raw(`</a></td><td>`)
			h.text(post.Category)
			h.raw(`</td><td>`)
			h.text(FormatDate(post.CreatedAt))
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table></section>`)
	}))
}

// NewBlog is the post submission form.
func NewBlog(p newsdesk.NewBlogPage) templ.Component {
	return Layout(p.Layout, component(func(h *writer) {
		v := p.Values
		h.raw(`<section class="new-blog"><h1>Novi post</h1>`)
		h.raw(`<form method="post" action="/dashboard/new-blog" enctype="multipart/form-data">`)
		csrfField(h, p.CSRF)

		input(h, "title", "Naslov", "text", v.Title, p.Errors["title"])

		h.raw(`<label for="description">Opis</label><textarea id="description" name="description" rows="3">`)
		h.text(v.Description)
		h.raw(`</textarea>`)
		fieldError(h, p.Errors["description"])

		h.raw(`<label for="image">Slika</label><input id="image" name="image" type="file" accept="image/*"/>`)
		fieldError(h, p.Errors["image"])

		h.raw(`<label for="category">Kategorija</label><select id="category" name="category">`)
		h.raw(`<option value=""`)
		h.boolAttr("selected", v.Category == "")
		h.raw(`>Odaberite udrugu</option>`)
		for _, cat := range p.Categories {
			h.raw(`<option`)
			h.attr("value", cat)
			h.boolAttr("selected", cat == v.Category)
			h.raw(`>`)
			h.text(cat)
			h.raw(`</option>`)
		}
		h.raw(`</select>`)
		fieldError(h, p.Errors["category"])

		h.raw(`<label for="content">Sadržaj</label><textarea id="content" name="content" class="editor" rows="14">`)
		h.text(v.Content)
		h.raw(`</textarea>`)
		fieldError(h, p.Errors["content"])

		input(h, "hashtags", "Hashtagovi (odvojeni zarezom)", "text", v.Hashtags, p.Errors["hashtags"])

		checkbox(h, "send-users", "Obavijesti korisnike", v.Announce)
		checkbox(h, "create-more", "Nastavi s unosom", p.CreateMore)

		h.raw(`<button type="submit">Objavi</button></form></section>`)
	}))
}

func checkbox(h *writer, name, label string, checked bool) {
	h.raw(`<label class="check"><input type="checkbox" value="on"`)
	h.attr("name", name)
	h.boolAttr("checked", checked)
	h.raw(`/> `)
	h.text(label)
	h.raw(`</label>`)
}
