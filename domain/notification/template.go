package notification

import (
	"bytes"
	"fmt"
	"html/template"
)

// ShareTemplateData contains the fields available to a product's share email template
type ShareTemplateData struct {
	FileName     string
	FileLink     string
	FileIconLink string
	DeleteAfter  int // Days the file is kept; zero leaves deleteAfter undefined
}

// Vars returns the template variables. Templates refer to them as
// {{.fileName}}, {{.fileLink}}, {{.fileIconLink}} and {{.deleteAfter}}.
func (d ShareTemplateData) Vars() map[string]any {
	vars := map[string]any{
		"fileName":     d.FileName,
		"fileLink":     d.FileLink,
		"fileIconLink": d.FileIconLink,
	}
	if d.DeleteAfter > 0 {
		vars["deleteAfter"] = d.DeleteAfter
	}
	return vars
}

// ShareSubject returns the subject line of a share email
func ShareSubject(fileName string) string {
	return fileName + " - Invitation to edit"
}

// RenderShareBody renders a product's HTML template with the share variables
func RenderShareBody(tmplStr string, data ShareTemplateData) (string, error) {
	if data.FileLink == "" {
		return "", ErrNoFileLink
	}

	tmpl, err := template.New("share").Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data.Vars()); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}
