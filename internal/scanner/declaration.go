package scanner

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

// DeclarationVar is the package-level variable a workflow's declaration file
// must define.
const DeclarationVar = "Workflow"

// declarationType is the selector name of the composite literal's type.
const declarationType = "Declaration"

// ParsedDeclaration is a declaration read from source without executing it.
type ParsedDeclaration struct {
	Declaration schema.Declaration
	// Warnings lists optional fields that were present but not literal.
	Warnings []string
}

// ParseDeclaration reads a workflow declaration file and extracts the
// literal value of `var Workflow = <pkg>.Declaration{...}`. Name and
// Description must be string literals. The list fields accept []string
// literals; any other form is omitted and reported as a warning.
func ParseDeclaration(filename string, src []byte) (*ParsedDeclaration, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}

	lit := findDeclarationLiteral(file)
	if lit == nil {
		return nil, fmt.Errorf("%s: no `var %s = %s{...}` literal found", filename, DeclarationVar, declarationType)
	}

	out := &ParsedDeclaration{}
	decl := &out.Declaration
	seen := make(map[string]bool)

	for _, elt := range lit.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			return nil, fmt.Errorf("%s: positional fields are not supported in %s", filename, DeclarationVar)
		}
		key, ok := kv.Key.(*ast.Ident)
		if !ok {
			continue
		}
		seen[key.Name] = true
		pos := fset.Position(kv.Value.Pos())

		switch key.Name {
		case "Name", "Description":
			s, ok := stringLiteral(kv.Value)
			if !ok {
				return nil, fmt.Errorf("%s: %s must be a string literal", pos, key.Name)
			}
			if key.Name == "Name" {
				decl.Name = s
			} else {
				decl.Description = s
			}
		case "Platforms", "Targets", "ProjectTypes", "Capabilities":
			list, ok := stringSliceLiteral(kv.Value)
			if !ok {
				out.Warnings = append(out.Warnings,
					fmt.Sprintf("%s: %s is not a []string literal and was omitted", pos, key.Name))
				continue
			}
			switch key.Name {
			case "Platforms":
				decl.Platforms = list
			case "Targets":
				decl.Targets = list
			case "ProjectTypes":
				decl.ProjectTypes = list
			case "Capabilities":
				decl.Capabilities = list
			}
		default:
			out.Warnings = append(out.Warnings,
				fmt.Sprintf("%s: unknown field %s was ignored", pos, key.Name))
		}
	}

	if !seen["Name"] || decl.Name == "" {
		return nil, fmt.Errorf("%s: %s.Name is required", filename, DeclarationVar)
	}
	if !seen["Description"] || decl.Description == "" {
		return nil, fmt.Errorf("%s: %s.Description is required", filename, DeclarationVar)
	}
	return out, nil
}

func findDeclarationLiteral(file *ast.File) *ast.CompositeLit {
	for _, d := range file.Decls {
		gen, ok := d.(*ast.GenDecl)
		if !ok || gen.Tok != token.VAR {
			continue
		}
		for _, spec := range gen.Specs {
			vs, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}
			for i, name := range vs.Names {
				if name.Name != DeclarationVar || i >= len(vs.Values) {
					continue
				}
				lit, ok := vs.Values[i].(*ast.CompositeLit)
				if !ok || !isDeclarationType(lit.Type) {
					return nil
				}
				return lit
			}
		}
	}
	return nil
}

func isDeclarationType(expr ast.Expr) bool {
	switch t := expr.(type) {
	case *ast.SelectorExpr:
		return t.Sel.Name == declarationType
	case *ast.Ident:
		return t.Name == declarationType
	default:
		return false
	}
}

// stringLiteral evaluates a string literal or a `+` concatenation of them.
func stringLiteral(expr ast.Expr) (string, bool) {
	switch e := expr.(type) {
	case *ast.BasicLit:
		if e.Kind != token.STRING {
			return "", false
		}
		s, err := strconv.Unquote(e.Value)
		if err != nil {
			return "", false
		}
		return s, true
	case *ast.ParenExpr:
		return stringLiteral(e.X)
	case *ast.BinaryExpr:
		if e.Op != token.ADD {
			return "", false
		}
		left, ok := stringLiteral(e.X)
		if !ok {
			return "", false
		}
		right, ok := stringLiteral(e.Y)
		if !ok {
			return "", false
		}
		return left + right, true
	default:
		return "", false
	}
}

func stringSliceLiteral(expr ast.Expr) ([]string, bool) {
	lit, ok := expr.(*ast.CompositeLit)
	if !ok {
		return nil, false
	}
	arr, ok := lit.Type.(*ast.ArrayType)
	if !ok || arr.Len != nil {
		return nil, false
	}
	if elt, ok := arr.Elt.(*ast.Ident); !ok || elt.Name != "string" {
		return nil, false
	}
	out := make([]string, 0, len(lit.Elts))
	for _, e := range lit.Elts {
		s, ok := stringLiteral(e)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// exportedVars returns the exported top-level variables of a Go file that
// hold tool factories, plus the exported variables that do not. A factory is
// a DefineTool call, a value declared as ToolFactory, or a re-export of
// another exported identifier.
func exportedVars(filename string, src []byte) (factories, other []string, err error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, nil, err
	}
	for _, d := range file.Decls {
		gen, ok := d.(*ast.GenDecl)
		if !ok || gen.Tok != token.VAR {
			continue
		}
		for _, spec := range gen.Specs {
			vs, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}
			for i, name := range vs.Names {
				if !name.IsExported() {
					continue
				}
				if isToolFactory(vs, i) {
					factories = append(factories, name.Name)
				} else {
					other = append(other, name.Name)
				}
			}
		}
	}
	return factories, other, nil
}

func isToolFactory(vs *ast.ValueSpec, i int) bool {
	if vs.Type != nil {
		return lastName(vs.Type) == "ToolFactory"
	}
	if len(vs.Values) != len(vs.Names) {
		return false
	}
	switch v := vs.Values[i].(type) {
	case *ast.CallExpr:
		return lastName(v.Fun) == "DefineTool"
	case *ast.SelectorExpr:
		_, pkg := v.X.(*ast.Ident)
		return pkg && v.Sel.IsExported()
	case *ast.Ident:
		return v.IsExported()
	}
	return false
}

// lastName returns the final identifier of x or pkg.x.
func lastName(e ast.Expr) string {
	switch x := e.(type) {
	case *ast.Ident:
		return x.Name
	case *ast.SelectorExpr:
		return x.Sel.Name
	}
	return ""
}
