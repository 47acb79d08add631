package scanner

import (
	"bytes"
	"context"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

// GeneratedHeader marks the output as machine-written.
const GeneratedHeader = "// Code generated by xcodebuildmcp generate. DO NOT EDIT."

var registryTemplate = template.Must(template.New("registry").Funcs(template.FuncMap{
	"quote":   strconv.Quote,
	"strings": stringsLiteral,
}).Parse(`{{.Header}}

package {{.PackageName}}

import (
{{- if .Workflows}}
	"context"
{{end}}
	"{{.SchemaImport}}"
{{- range .Workflows}}
	{{.Alias}} {{quote .ImportPath}}
{{- end}}
)

// Loaders maps each workflow id to the function that builds its tools.
var Loaders = map[string]schema.LoaderFunc{
{{- range $wf := .Workflows}}
	{{quote $wf.ID}}: func(context.Context) (*schema.Module, error) {
		return schema.Assemble({{$wf.Alias}}.Workflow, map[string]schema.ToolFactory{
{{- range $wf.Factories}}
			{{quote .}}: {{$wf.Alias}}.{{.}},
{{- end}}
		})
	},
{{- end}}
}

// Metadata holds the descriptor of every workflow. Reading it runs no
// workflow code.
var Metadata = map[string]schema.WorkflowDescriptor{
{{- range .Workflows}}
	{{quote .ID}}: {
		ID:          {{quote .Descriptor.ID}},
		DisplayName: {{quote .Descriptor.DisplayName}},
		Description: {{quote .Descriptor.Description}},
{{- with .Descriptor.Platforms}}
		Platforms: {{strings .}},
{{- end}}
{{- with .Descriptor.Targets}}
		Targets: {{strings .}},
{{- end}}
{{- with .Descriptor.ProjectTypes}}
		ProjectTypes: {{strings .}},
{{- end}}
{{- with .Descriptor.Capabilities}}
		Capabilities: {{strings .}},
{{- end}}
	},
{{- end}}
}
`))

func stringsLiteral(list []string) string {
	quoted := make([]string, len(list))
	for i, s := range list {
		quoted[i] = strconv.Quote(s)
	}
	return "[]string{" + strings.Join(quoted, ", ") + "}"
}

// Render produces the gofmt-canonical registry source for a scan result.
// Identical results render to identical bytes.
func Render(res *Result) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		Header string
		*Result
	}{GeneratedHeader, res}
	if err := registryTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render registry: %w", err)
	}
	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format registry: %w", err)
	}
	return out, nil
}

// Generate scans opts.Root, renders the registry and writes it to out when
// its content changed. It reports whether the file was written.
func Generate(ctx context.Context, opts Options, out string) (*Result, bool, error) {
	res, err := Scan(ctx, opts)
	if err != nil {
		return nil, false, err
	}
	src, err := Render(res)
	if err != nil {
		return res, false, schema.NewError(schema.ErrCodeScanFatal, "render registry").WithCause(err)
	}

	existing, err := os.ReadFile(out)
	if err == nil && bytes.Equal(existing, src) {
		return res, false, nil
	}

	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return res, false, schema.NewErrorf(schema.ErrCodeScanFatal, "create output directory: %v", err).WithCause(err)
	}
	tmp := out + ".tmp"
	if err := os.WriteFile(tmp, src, 0o644); err != nil {
		return res, false, schema.NewErrorf(schema.ErrCodeScanFatal, "write %s: %v", tmp, err).WithCause(err)
	}
	if err := os.Rename(tmp, out); err != nil {
		_ = os.Remove(tmp)
		return res, false, schema.NewErrorf(schema.ErrCodeScanFatal, "rename %s: %v", tmp, err).WithCause(err)
	}
	return res, true, nil
}
