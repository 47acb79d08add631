// Package scanner turns a directory of workflow packages into the generated
// registry source consumed by internal/registry.
package scanner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"go/token"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

// Defaults used when Options leaves a field empty.
const (
	DefaultDeclarationFile = "workflow.go"
	DefaultPackageName     = "workflows"
	DefaultOutputFile      = "registry_gen.go"
	DefaultSchemaImport    = "github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

// DefaultDeny lists file names in a workflow directory that never hold tools.
var DefaultDeny = []string{"doc.go"}

// Options configures a scan.
type Options struct {
	Root            string
	DeclarationFile string
	Deny            []string
	PackageName     string
	// ImportPrefix is the import path of Root. When empty it is derived from
	// the nearest enclosing go.mod.
	ImportPrefix string
	SchemaImport string
	Logger       *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.DeclarationFile == "" {
		o.DeclarationFile = DefaultDeclarationFile
	}
	if o.Deny == nil {
		o.Deny = DefaultDeny
	}
	if o.PackageName == "" {
		o.PackageName = DefaultPackageName
	}
	if o.SchemaImport == "" {
		o.SchemaImport = DefaultSchemaImport
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Workflow is one scanned workflow package.
type Workflow struct {
	ID         string
	Alias      string
	ImportPath string
	Descriptor schema.WorkflowDescriptor
	// Factories are the exported tool factory names, sorted.
	Factories []string
}

// Result is the output of Scan.
type Result struct {
	PackageName  string
	SchemaImport string
	Workflows    []Workflow
	Diagnostics  schema.ValidationResult
}

// IDs returns the scanned workflow ids in order.
func (r *Result) IDs() []string {
	ids := make([]string, len(r.Workflows))
	for i, wf := range r.Workflows {
		ids[i] = wf.ID
	}
	return ids
}

// Scan enumerates the immediate subdirectories of opts.Root and reads each
// workflow's declaration and tool files. Problems with a single workflow or
// file are recorded as warnings and the scan continues. Scan fails only when
// Root is missing or not a directory.
func Scan(ctx context.Context, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	info, err := os.Stat(opts.Root)
	if err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeScanFatal, "workflow root %s: %v", opts.Root, err).WithCause(err)
	}
	if !info.IsDir() {
		return nil, schema.NewErrorf(schema.ErrCodeScanFatal, "workflow root %s is not a directory", opts.Root)
	}

	prefix := opts.ImportPrefix
	if prefix == "" {
		prefix, err = resolveImportPrefix(opts.Root)
		if err != nil {
			return nil, schema.NewErrorf(schema.ErrCodeScanFatal, "resolve import path of %s: %v", opts.Root, err).WithCause(err)
		}
	}

	entries, err := os.ReadDir(opts.Root)
	if err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeScanFatal, "read workflow root %s: %v", opts.Root, err).WithCause(err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	res := &Result{PackageName: opts.PackageName, SchemaImport: opts.SchemaImport}
	aliases := map[string]bool{"schema": true, "context": true}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := entry.Name()
		if !entry.IsDir() || ignoredDir(name) {
			continue
		}

		wf, ok := scanWorkflow(opts, name, &res.Diagnostics)
		if !ok {
			continue
		}
		wf.ImportPath = path.Join(prefix, name)
		wf.Alias = uniqueAlias(name, aliases)
		res.Workflows = append(res.Workflows, *wf)
	}

	for _, w := range res.Diagnostics.Warnings {
		opts.Logger.Warn("scan warning", "path", w.Path, "message", w.Message)
	}
	opts.Logger.Debug("scan complete", "root", opts.Root, "workflows", len(res.Workflows),
		"warnings", len(res.Diagnostics.Warnings))
	return res, nil
}

func scanWorkflow(opts Options, id string, diags *schema.ValidationResult) (*Workflow, bool) {
	dir := filepath.Join(opts.Root, id)
	declPath := filepath.Join(dir, opts.DeclarationFile)

	src, err := os.ReadFile(declPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			diags.AddWarning(dir, schema.ErrCodeScanWarning,
				fmt.Sprintf("missing %s, workflow skipped", opts.DeclarationFile))
		} else {
			diags.AddWarning(dir, schema.ErrCodeScanWarning,
				fmt.Sprintf("read %s: %v, workflow skipped", opts.DeclarationFile, err))
		}
		return nil, false
	}

	parsed, err := ParseDeclaration(declPath, src)
	if err != nil {
		diags.AddWarning(declPath, schema.ErrCodeScanWarning, fmt.Sprintf("%v, workflow skipped", err))
		return nil, false
	}
	for _, w := range parsed.Warnings {
		diags.AddWarning(declPath, schema.ErrCodeScanWarning, w)
	}

	factories := scanToolFiles(opts, dir, diags)
	if len(factories) == 0 {
		diags.AddWarning(dir, schema.ErrCodeScanWarning, "no tool files found, workflow skipped")
		return nil, false
	}

	d := parsed.Declaration
	return &Workflow{
		ID: id,
		Descriptor: schema.WorkflowDescriptor{
			ID:           id,
			DisplayName:  d.Name,
			Description:  d.Description,
			Platforms:    d.Platforms,
			Targets:      d.Targets,
			ProjectTypes: d.ProjectTypes,
			Capabilities: d.Capabilities,
		},
		Factories: factories,
	}, true
}

func scanToolFiles(opts Options, dir string, diags *schema.ValidationResult) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		diags.AddWarning(dir, schema.ErrCodeScanWarning, fmt.Sprintf("read directory: %v", err))
		return nil
	}

	deny := make(map[string]bool, len(opts.Deny)+1)
	for _, d := range opts.Deny {
		deny[d] = true
	}
	deny[opts.DeclarationFile] = true

	seen := make(map[string]bool)
	var factories []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") ||
			deny[name] || ignoredDir(name) {
			continue
		}

		file := filepath.Join(dir, name)
		src, err := os.ReadFile(file)
		if err != nil {
			diags.AddWarning(file, schema.ErrCodeScanWarning, fmt.Sprintf("read: %v, file skipped", err))
			continue
		}
		vars, other, err := exportedVars(file, src)
		if err != nil {
			diags.AddWarning(file, schema.ErrCodeScanWarning, fmt.Sprintf("parse: %v, file skipped", err))
			continue
		}
		if len(other) > 0 {
			diags.AddWarning(file, schema.ErrCodeScanWarning,
				fmt.Sprintf("exported vars %s are not tool factories, skipped", strings.Join(other, ", ")))
		}
		if len(vars) == 0 {
			diags.AddWarning(file, schema.ErrCodeScanWarning, "no exported tool factory, file skipped")
			continue
		}
		for _, v := range vars {
			if !seen[v] {
				seen[v] = true
				factories = append(factories, v)
			}
		}
	}
	sort.Strings(factories)
	return factories
}

func ignoredDir(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "testdata"
}

// uniqueAlias derives a Go identifier from a workflow id and records it.
func uniqueAlias(id string, taken map[string]bool) string {
	var b strings.Builder
	for _, r := range strings.ToLower(id) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	base := b.String()
	if base == "" || !token.IsIdentifier(base) || token.IsKeyword(base) {
		base = "wf" + base
	}
	alias := base
	for i := 2; taken[alias]; i++ {
		alias = fmt.Sprintf("%s%d", base, i)
	}
	taken[alias] = true
	return alias
}

// resolveImportPrefix finds the nearest go.mod above dir and joins its module
// path with dir's relative location.
func resolveImportPrefix(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for cur := abs; ; {
		modPath, err := readModulePath(filepath.Join(cur, "go.mod"))
		if err == nil {
			rel, err := filepath.Rel(cur, abs)
			if err != nil {
				return "", err
			}
			if rel == "." {
				return modPath, nil
			}
			return path.Join(modPath, filepath.ToSlash(rel)), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", fmt.Errorf("no go.mod found above %s", abs)
		}
		cur = parent
	}
}

func readModulePath(gomod string) (string, error) {
	f, err := os.Open(gomod)
	if err != nil {
		return "", err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if rest, ok := strings.CutPrefix(line, "module"); ok && rest != "" && (rest[0] == ' ' || rest[0] == '\t') {
			return strings.Trim(strings.TrimSpace(rest), `"`), nil
		}
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("%s has no module directive", gomod)
}
