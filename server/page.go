package server

import (
	"html/template"
	"io"

	"github.com/sonnes/darpan/site"
)

// pageShell wraps a compiled page body in a minimal document. The dev
// server has no theme layer; production output gets one from the build
// command's templates.
var pageShell = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.PageTitle}} · {{.SiteTitle}}</title>
</head>
<body>
<main>
{{.Body}}
</main>
</body>
</html>
`))

type shellData struct {
	SiteTitle string
	PageTitle string
	Body      template.HTML
}

// WritePage wraps a page body in the document shell and writes it out.
func WritePage(w io.Writer, siteTitle string, page *site.Page) error {
	return pageShell.Execute(w, shellData{
		SiteTitle: siteTitle,
		PageTitle: page.Title,
		Body:      template.HTML(page.HTML),
	})
}
