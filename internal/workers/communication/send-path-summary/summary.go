package sendpathsummary

import (
	"bytes"
	htmltemplate "html/template"
	"text/template"

	"visa-pathway-workers/internal/pathway"
)

const subject = "Your visa pathway summary"

const textTemplate = `{{if .Steps}}Here is the path we recommend ({{.Confidence}} confidence, about {{.TotalEstimatedMonths}} months):
{{range $i, $s := .Steps}}
{{inc $i}}. {{$s.Code}} ({{$s.Score}}% match, ~{{$s.EstimatedTimeMonths}} months)
   {{$s.Reason}}{{end}}
{{else}}We could not find a viable path from your current profile yet.
Improving your education, experience or English proficiency may unlock options.
{{end}}`

const htmlTemplate = `<html><body>
{{if .Steps}}<p>Here is the path we recommend ({{.Confidence}} confidence, about {{.TotalEstimatedMonths}} months):</p>
<ol>{{range .Steps}}
<li><strong>{{.Code}}</strong> ({{.Score}}% match, ~{{.EstimatedTimeMonths}} months)<br>{{.Reason}}</li>{{end}}
</ol>{{else}}<p>We could not find a viable path from your current profile yet.</p>{{end}}
</body></html>`

var funcs = template.FuncMap{"inc": func(i int) int { return i + 1 }}

var (
	textTmpl = template.Must(template.New("text").Funcs(funcs).Parse(textTemplate))
	htmlTmpl = htmltemplate.Must(htmltemplate.New("html").Parse(htmlTemplate))
)

// Render produces the plain-text and HTML bodies for path. A nil path renders
// the no-path message.
func Render(path *pathway.RecommendedPath) (text, html string, err error) {
	data := path
	if data == nil {
		data = &pathway.RecommendedPath{}
	}

	var tb, hb bytes.Buffer
	if err := textTmpl.Execute(&tb, data); err != nil {
		return "", "", err
	}
	if err := htmlTmpl.Execute(&hb, data); err != nil {
		return "", "", err
	}
	return tb.String(), hb.String(), nil
}
