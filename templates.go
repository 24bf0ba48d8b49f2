package main

import (
	"html/template"
	"strings"
)

// linebreaks escapes plain text and turns blank-line-separated chunks
// into paragraphs. Used for comment bodies.
func linebreaks(s string) template.HTML {
	s = template.HTMLEscapeString(s)

	paragraphs := strings.Split(s, "\n\n")
	var result []string

	for _, p := range paragraphs {
		if p = strings.TrimSpace(p); p != "" {
			p = strings.ReplaceAll(p, "\n", "<br>")
			result = append(result, "<p>"+p+"</p>")
		}
	}

	return template.HTML(strings.Join(result, "\n"))
}

// safe marks a string as trusted HTML. Only used for post bodies,
// which the administrator writes with a rich-text editor.
func safe(s string) template.HTML {
	return template.HTML(s)
}

func loadTemplates() map[string]*template.Template {
	templates := make(map[string]*template.Template)
	pages := []string{
		"home.html", "post.html", "register.html", "login.html",
		"make-post.html", "about.html", "contact.html",
	}

	funcs := template.FuncMap{
		"linebreaks": linebreaks,
		"safe":       safe,
	}

	for _, page := range pages {
		templates[page] = template.Must(
			template.New("").Funcs(funcs).ParseFiles(
				"templates/base.html",
				"templates/"+page,
			))
	}

	return templates
}
