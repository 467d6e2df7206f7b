package templates

import (
	"fmt"
	"html/template"
	"io"

	"github.com/ougirez/mapwizard/internal/domain"
)

// Translator resolves message ids for the current locale.
type Translator interface {
	T(id, fallback string) string
}

const viewHTML = `<div id="{{.ElementID}}">
{{- range .Widgets}}
  <div class="mapping-input {{.Kind}}" data-thing="{{.Thing}}"{{if .Required}} data-required="true"{{end}}>
    <label>{{label .}}{{if .Required}} *{{end}}</label>
    {{- if isKind . "header-input"}}
    <select name="{{.Thing}}" multiple>
    {{- else}}
    <select name="{{.Thing}}">
      <option value=""{{if .Unset}} selected{{end}}>{{unsetLabel}}</option>
    {{- end}}
    {{- $w := .}}
    {{- range .Options}}
      <option value="{{.ID}}"{{if selected $w .}} selected{{end}}>{{.Header}}</option>
    {{- end}}
    </select>
    {{- if isKind . "column-input"}}
    <input type="text" name="{{.Thing}}-constant" value="{{constant .}}">
    {{- end}}
  </div>
{{- end}}
</div>
`

// RenderHTML writes the view as a form fragment. tr may be nil.
func RenderHTML(w io.Writer, view *View, tr Translator) error {
	tmpl, err := template.New("view").Funcs(template.FuncMap{
		"label": func(wd *Widget) string {
			if tr == nil {
				return wd.Label
			}
			return tr.T("mapping.thing."+string(wd.Thing), wd.Label)
		},
		"unsetLabel": func() string {
			if tr == nil {
				return "Select a column"
			}
			return tr.T("mapping.select_column", "Select a column")
		},
		"selected": isSelected,
		"isKind": func(wd *Widget, kind string) bool {
			return string(wd.Kind) == kind
		},
		"constant": func(wd *Widget) string {
			if wd.Value == nil {
				return ""
			}
			return wd.Value.Value
		},
	}).Parse(viewHTML)
	if err != nil {
		return fmt.Errorf("template.Parse: %w", err)
	}

	if err = tmpl.Execute(w, view); err != nil {
		return fmt.Errorf("template.Execute: %w", err)
	}
	return nil
}

func isSelected(w *Widget, col domain.Column) bool {
	if w.Value == nil {
		return false
	}
	for _, c := range w.Value.Columns() {
		if c.ID == col.ID {
			return true
		}
	}
	return false
}
