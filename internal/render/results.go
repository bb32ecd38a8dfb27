// Package render produces the search results container markup for each display state.
package render

import (
	"html/template"
	"io"
	"net/url"

	"github.com/dsjohal14/sentify/internal/scope/search"
)

const noMatches = "No Matches..."

var resultsTmpl = template.Must(template.New("results").Funcs(template.FuncMap{
	"companyPath": func(ticker string) string { return "/companies/" + url.PathEscape(ticker) },
}).Parse(`
{{- if eq .State "hidden" -}}
<div id="results" class="results" style="display: none"></div>
{{- else -}}
<div id="results" class="results" style="display: block">
{{- if eq .State "empty" }}
  <div class="result-item"><span>{{ .NoMatches }}</span></div>
{{- else }}
{{- range .Companies }}
  <a href="{{ companyPath .Ticker }}">
    <div class="result-item">
      <span>{{ .Name }}</span>
      <span class="ticker">{{ .Ticker }}</span>
    </div>
  </a>
{{- end }}
{{- end }}
</div>
{{- end -}}
`))

type view struct {
	State     string
	Companies []search.Company
	NoMatches string
}

// Results writes the results container for r
func Results(w io.Writer, r search.QueryResult) error {
	return resultsTmpl.Execute(w, view{
		State:     string(r.State),
		Companies: r.Companies,
		NoMatches: noMatches,
	})
}
