// Package workflows holds the tool source tree. Each subdirectory is one
// workflow package: a workflow.go declaring `var Workflow =
// schema.Declaration{...}` plus one file per tool exporting a
// schema.ToolFactory. registry_gen.go is generated from this tree.
package workflows

//go:generate go run ../../cmd/xcodebuildmcp generate --root . --out registry_gen.go
