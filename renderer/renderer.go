// Package renderer turns codexi reports into markdown documents.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed templates/*.md
var templateFS embed.FS

// templates holds the markdown templates, rooted at the templates directory.
var templates, _ = fs.Sub(templateFS, "templates")

// ResumeRenderOptions holds configuration for rendering a resume.
type ResumeRenderOptions struct {
	SkipNotes bool // Do not render the footnotes.
}

// ResumeMarkdown renders a ledger resume to a markdown string.
func ResumeMarkdown(r *Resume, opts ResumeRenderOptions) string {
	partials := map[string]string{
		"resume_title":  "resume_title.md",
		"resume_counts": "resume_counts.md",
		"resume_notes":  "resume_notes.md",
	}
	// An empty file name results in an empty template.
	if opts.SkipNotes {
		partials["resume_notes"] = ""
	}
	return renderTemplate("resume", "resume.md", partials, r)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		if file != "" {
			content, err = fs.ReadFile(templates, file)
			if err != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, err)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
