package shortcut

import (
	"strings"
	"text/template"
)

var vbsTemplate = template.Must(template.New("shortcut").Funcs(template.FuncMap{"q": vbsQuote}).Parse(
	`Set oWS = WScript.CreateObject("WScript.Shell")
Set oLink = oWS.CreateShortcut({{q .Link}})
oLink.TargetPath = {{q .Target}}
{{- if .Args}}
oLink.Arguments = {{q .Args}}
{{- end}}
oLink.WorkingDirectory = {{q .WorkDir}}
{{- if .Icon}}
oLink.IconLocation = {{q .Icon}}
{{- end}}
oLink.Description = {{q .Name}}
oLink.Save
`))

// RenderVBS returns a VBScript that saves a shortcut at link for req.
func RenderVBS(link string, req Request) (string, error) {
	var b strings.Builder
	err := vbsTemplate.Execute(&b, struct {
		Request
		Link string
	}{req, link})
	return b.String(), err
}

// vbsQuote renders s as a VBScript string literal; embedded quotes are doubled.
func vbsQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
