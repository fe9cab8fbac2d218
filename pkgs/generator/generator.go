// Package generator wraps rendered JavaScript into an output file: a
// plain script, a strict-mode IIFE, or an executable node script.
package generator

import (
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/aledsdavies/pyjs/pkgs/engine"
)

// Format selects an output wrapper
type Format string

const (
	FormatScript Format = "script"
	FormatModule Format = "module"
	FormatNode   Format = "node"
)

// Formats lists the supported output formats
func Formats() []Format {
	return []Format{FormatScript, FormatModule, FormatNode}
}

// ParseFormat resolves a format name
func ParseFormat(name string) (Format, error) {
	for _, f := range Formats() {
		if string(f) == name {
			return f, nil
		}
	}
	names := make([]string, 0, len(Formats()))
	for _, f := range Formats() {
		names = append(names, string(f))
	}
	err := &GeneratorError{
		Message:   fmt.Sprintf("unsupported format '%s'", name),
		ErrorType: "validation",
	}
	if matches := fuzzy.RankFindFold(name, names); len(matches) > 0 {
		sort.Sort(matches)
		err.Hint = matches[0].Target
	}
	return "", err
}

// TemplateData is what the wrapper templates see
type TemplateData struct {
	Name       string   // input name, "stdin" when piped
	ID         string   // program fingerprint
	Body       string   // rendered program
	Statements []string // rendered top-level statements
}

// TemplateRegistry holds the wrapper components
type TemplateRegistry struct {
	templates map[string]string
}

// NewTemplateRegistry creates a registry with every component registered
func NewTemplateRegistry() *TemplateRegistry {
	tr := &TemplateRegistry{templates: make(map[string]string)}
	tr.templates["header"] = headerTemplate
	tr.templates["body"] = bodyTemplate
	tr.templates[string(FormatScript)] = scriptTemplate
	tr.templates[string(FormatModule)] = moduleTemplate
	tr.templates[string(FormatNode)] = nodeTemplate
	return tr
}

// GetTemplate returns a single component
func (tr *TemplateRegistry) GetTemplate(name string) (string, bool) {
	tmpl, ok := tr.templates[name]
	return tmpl, ok
}

// GetAllTemplates joins every component in name order
func (tr *TemplateRegistry) GetAllTemplates() string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, tr.templates[name])
	}
	return strings.Join(parts, "\n")
}

// Prepare converts a compiled program into template data
func Prepare(prog *engine.Program, name string) (*TemplateData, error) {
	if prog == nil || prog.AST == nil {
		return nil, &GeneratorError{Message: "program cannot be nil", ErrorType: "validation"}
	}
	if name == "" {
		name = "stdin"
	}
	data := &TemplateData{
		Name: name,
		ID:   prog.ID(),
		Body: prog.Render(),
	}
	for _, stmt := range prog.AST.Statements {
		data.Statements = append(data.Statements, stmt.Render())
	}
	return data, nil
}

// Generate wraps a compiled program in the given format
func Generate(prog *engine.Program, name string, format Format) (string, error) {
	if _, err := ParseFormat(string(format)); err != nil {
		return "", err
	}
	return execute(prog, name, string(format), "")
}

// GenerateWithTemplate renders a program through a caller-supplied
// template. The built-in components may be referenced by name.
func GenerateWithTemplate(prog *engine.Program, name, templateStr string) (string, error) {
	if strings.TrimSpace(templateStr) == "" {
		return "", &GeneratorError{Message: "template cannot be empty", ErrorType: "validation"}
	}
	return execute(prog, name, "", templateStr)
}

func execute(prog *engine.Program, name, entry, custom string) (string, error) {
	data, err := Prepare(prog, name)
	if err != nil {
		return "", err
	}

	tmpl, err := template.New("components").Parse(NewTemplateRegistry().GetAllTemplates())
	if err != nil {
		return "", &GeneratorError{Message: "failed to parse components", ErrorType: "template", Cause: err}
	}
	if custom != "" {
		if tmpl, err = tmpl.New("custom").Parse(custom); err != nil {
			return "", &GeneratorError{Message: "failed to parse template", ErrorType: "template", Cause: err}
		}
		entry = "custom"
	}

	var buf strings.Builder
	if err := tmpl.ExecuteTemplate(&buf, entry, data); err != nil {
		return "", &GeneratorError{Message: "failed to execute template", ErrorType: "template", Cause: err}
	}
	return buf.String(), nil
}
