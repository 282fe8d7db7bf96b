// Package render — HTML renderer.
// Lays out each entry's entryFinal values side by side in a table so the
// normalized markup can be eyeballed against the original.
package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/gaurav-prasanna/chronoform/core"
)

const comparisonTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>{{ .Title | trunc 80 }}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        table { width: 100%; border-collapse: collapse; table-layout: fixed; }
        th, td { border: 1px solid #ccc; padding: 10px; vertical-align: top; word-wrap: break-word; }
        th { background-color: #f5f5f5; }
        h2 { margin-top: 40px; }
    </style>
</head>
<body>
    <h1>{{ .Title }}</h1>
    {{- $columns := .Columns }}
    {{- range .Rows }}
        <h2>Entry ID: {{ .ID }}</h2>
        <table>
            <tr>
                {{- range $columns }}
                <th>{{ . | title }}</th>
                {{- end }}
            </tr>
            <tr>
                {{- range .Cells }}
                <td>{{ trusted . }}</td>
                {{- end }}
            </tr>
        </table>
    {{- end }}
</body>
</html>
`

var htmlTemplate = template.Must(template.New("comparison").
	Funcs(sprig.HtmlFuncMap()).
	Funcs(template.FuncMap{
		// entryFinal is markup we produced; it is rendered, not escaped.
		"trusted": func(s string) template.HTML { return template.HTML(s) },
	}).
	Parse(comparisonTemplate))

// HTMLRenderer renders a comparison as a standalone HTML page.
type HTMLRenderer struct{}

// NewHTMLRenderer creates an HTMLRenderer.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{}
}

// Render executes the comparison template.
func (r *HTMLRenderer) Render(cmp core.Comparison) ([]byte, error) {
	if cmp.Title == "" {
		cmp.Title = DefaultTitle
	}
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, cmp); err != nil {
		return nil, fmt.Errorf("rendering comparison: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for HTML output.
func (r *HTMLRenderer) Extension() string {
	return ".html"
}
