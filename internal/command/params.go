package command

import "github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"

// ProjectRef reads the mutually exclusive workspacePath/projectPath
// arguments. Exactly one must be set.
func ProjectRef(args schema.Args) (workspace, project string, err error) {
	workspace = args.String("workspacePath", "")
	project = args.String("projectPath", "")
	switch {
	case workspace != "" && project != "":
		return "", "", schema.NewError(schema.ErrCodeValidation, "workspacePath and projectPath are mutually exclusive")
	case workspace == "" && project == "":
		return "", "", schema.NewError(schema.ErrCodeValidation, "one of workspacePath or projectPath is required")
	}
	return workspace, project, nil
}

// Simulator reads the simulatorId/simulatorName arguments. One must be set;
// the id wins when both are.
func Simulator(args schema.Args) (id, name string, err error) {
	id = args.String("simulatorId", "")
	name = args.String("simulatorName", "")
	if id == "" && name == "" {
		return "", "", schema.NewError(schema.ErrCodeValidation, "one of simulatorId or simulatorName is required")
	}
	return id, name, nil
}

// BuildFromArgs fills the scheme, configuration, derived data and extra
// arguments of a BuildSpec from tool arguments. Configuration defaults to
// Debug.
func BuildFromArgs(args schema.Args, action string) (BuildSpec, error) {
	scheme, err := args.RequireString("scheme")
	if err != nil {
		return BuildSpec{}, err
	}
	return BuildSpec{
		Action:          action,
		Scheme:          scheme,
		Configuration:   args.String("configuration", "Debug"),
		DerivedDataPath: args.String("derivedDataPath", ""),
		Extra:           args.Strings("extraArgs"),
	}, nil
}
