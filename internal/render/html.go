package render

import (
	"html/template"
	"io"
	"strings"
	"time"

	"mcqforge/internal/mcq"
)

// Page carries everything the results template needs.
type Page struct {
	Source     string
	Difficulty string
	Generated  time.Time
	Questions  mcq.Set
}

var funcs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
	"isCorrect": func(option, correct string) bool {
		return strings.HasPrefix(option, correct+")")
	},
	"title": func(s string) string {
		if s == "" {
			return s
		}
		return strings.ToUpper(s[:1]) + s[1:]
	},
}

var page = template.Must(template.New("results").Funcs(funcs).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>MCQs from {{.Source}}</title>
  <style>
    body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; line-height: 1.6; margin: 0; padding: 20px; background: #f0f2f5; }
    .container { max-width: 800px; margin: 0 auto; background: white; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 16px rgba(0,0,0,0.1); }
    .header { background: #2c3e50; color: white; padding: 24px; text-align: center; }
    .header-info { opacity: 0.85; font-size: 0.9rem; }
    .content { padding: 24px; }
    .mcq-item { background: #f8f9fa; border-radius: 8px; padding: 18px; margin-bottom: 20px; border-left: 4px solid #3498db; }
    .question { font-weight: 600; margin-bottom: 12px; color: #2c3e50; }
    .option { padding: 8px 12px; margin: 5px 0; background: white; border-radius: 5px; border: 1px solid #dee2e6; }
    .option.correct { background: #d4edda; border-color: #28a745; color: #155724; font-weight: 600; }
    .explanation { background: #e3f2fd; padding: 12px; border-radius: 5px; font-style: italic; color: #1976d2; margin-top: 10px; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>Generated MCQs</h1>
      <div class="header-info">
        <strong>Source:</strong> {{.Source}} |
        <strong>Difficulty:</strong> {{title .Difficulty}} |
        <strong>Questions:</strong> {{len .Questions}} |
        <strong>Generated:</strong> {{.Generated.Format "2006-01-02 15:04"}}
      </div>
    </div>
    <div class="content">
{{- range $i, $q := .Questions}}
      <div class="mcq-item">
        <div class="question">{{inc $i}}. {{$q.Question}}</div>
        <div class="options">
{{- range $q.Options}}
          <div class="option{{if isCorrect . $q.CorrectAnswer}} correct{{end}}">{{.}}</div>
{{- end}}
        </div>
        <div class="explanation"><strong>Explanation:</strong> {{$q.Explanation}}</div>
      </div>
{{- end}}
    </div>
  </div>
</body>
</html>
`))

// HTML writes the results page for a validated question set.
func HTML(w io.Writer, p Page) error {
	if p.Generated.IsZero() {
		p.Generated = time.Now()
	}
	return page.Execute(w, p)
}
