package web

import "html/template"

const formHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 40rem; margin: 3rem auto; padding: 0 1rem; }
input[type=text] { width: 100%; padding: .5rem; box-sizing: border-box; }
button { margin-top: .75rem; padding: .5rem 1.25rem; }
.error { color: #b00020; margin-top: 1rem; white-space: pre-wrap; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>Paste a product link and download its images and description.</p>
<form method="post" action="/scrape">
	<label for="url">Product URL or path</label>
	<input type="text" id="url" name="url" value="{{.Input}}" autofocus>
	<button type="submit">Scrape</button>
</form>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
</body>
</html>`

// FormTitle is shown as the page title and heading
const FormTitle = "Storefront Product Scraper"

var formTemplate = template.Must(template.New("form").Parse(formHTML))

type formData struct {
	Title string
	Input string
	Error string
}
