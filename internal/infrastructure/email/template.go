package email

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

var layout = template.Must(template.New("layout").Funcs(template.FuncMap{
	"lines": func(s string) []string {
		s = strings.ReplaceAll(s, "\r\n", "\n")
		return strings.Split(s, "\n")
	},
}).Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Subject}}</title></head>
<body style="margin:0;padding:24px;background-color:#f3f4f6;font-family:Arial,Helvetica,sans-serif;color:#111827;">
<div style="max-width:600px;margin:0 auto;background-color:#ffffff;border-radius:12px;padding:32px;">
<h1 style="font-size:20px;margin:0 0 24px 0;">{{.Subject}}</h1>
{{- if .Greeting}}
<p style="margin:0 0 18px 0;line-height:1.7;">{{.Greeting}}</p>
{{- end}}
{{- range .Paragraphs}}
<p style="margin:0 0 18px 0;line-height:1.7;word-break:break-word;">{{range $i, $l := lines .}}{{if $i}}<br />{{end}}{{$l}}{{end}}</p>
{{- end}}
{{- if .Meta}}
<table role="presentation" cellpadding="0" cellspacing="0" width="100%" style="border:1px solid #e5e7eb;border-radius:12px;background-color:#f9fafb;margin:0 0 24px 0;">
<tbody>
{{- range .Meta}}
<tr>
<td style="padding:12px 16px;font-size:13px;color:#6b7280;width:38%;">{{.Label}}</td>
<td style="padding:12px 16px;font-size:15px;font-weight:600;white-space:pre-wrap;word-break:break-word;">{{.Value}}</td>
</tr>
{{- end}}
</tbody>
</table>
{{- end}}
{{- if and .ButtonText .ButtonURL}}
<div style="text-align:center;margin:12px 0 24px 0;">
<a href="{{.ButtonURL}}" style="display:inline-block;padding:12px 28px;background-color:#2563eb;color:#ffffff;text-decoration:none;border-radius:999px;font-weight:600;">{{.ButtonText}}</a>
</div>
{{- end}}
{{- if .Footer}}
<div style="color:#6b7280;font-size:13px;line-height:1.7;">{{.Footer}}</div>
{{- end}}
</div>
</body>
</html>
`))

// Render lays msg out as an HTML document. Every field is escaped.
func Render(msg Message) (string, error) {
	paragraphs := make([]string, 0, len(msg.Paragraphs))
	for _, p := range msg.Paragraphs {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	meta := make([]MetaItem, 0, len(msg.Meta))
	for _, m := range msg.Meta {
		if strings.TrimSpace(m.Label) != "" && strings.TrimSpace(m.Value) != "" {
			meta = append(meta, m)
		}
	}
	msg.Paragraphs = paragraphs
	msg.Meta = meta

	var buf bytes.Buffer
	if err := layout.Execute(&buf, msg); err != nil {
		return "", fmt.Errorf("render email %q: %w", msg.Subject, err)
	}
	return buf.String(), nil
}
