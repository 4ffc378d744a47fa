package loader

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/alexisbeaulieu97/journeyman/internal/domain/journey"
)

// render executes a step field as a template over the run params. Plain
// strings pass through unchanged.
func render(field, text string, params journey.Params) (string, error) {
	if !strings.Contains(text, "{{") {
		return text, nil
	}

	tmpl, err := template.New(field).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse %s template: %w", field, err)
	}

	var rendered bytes.Buffer
	if err := tmpl.Execute(&rendered, params.Map()); err != nil {
		return "", fmt.Errorf("render %s template: %w", field, err)
	}
	return rendered.String(), nil
}
