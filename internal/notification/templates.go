package notification

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

const subjectHandoffFmt = "Ready to call: %s asked to speak with an agent"

type handoffEmailData struct {
	Title        string
	BuyerName    string
	BuyerEmail   string
	LeadScore    string
	UrgencyScore int
	Persona      string
	Signals      string
	LastMessage  string
	Opener       string
	EscalatedAt  string
}

type outreachEmailData struct {
	Title string
	Name  string
	Body  string
}

func renderTemplate(name string, data any) (string, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/"+name)
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return buf.String(), nil
}
