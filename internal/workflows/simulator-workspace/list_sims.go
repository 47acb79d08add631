package simulatorworkspace

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/command"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

var ListSims = schema.DefineTool(func() *schema.Tool {
	return &schema.Tool{
		Name:        "list_sims",
		Description: "Lists available simulators grouped by runtime.",
		Schema: []byte(`{
  "type": "object",
  "properties": {
    "bootedOnly": {"type": "boolean", "description": "Only list booted simulators."}
  }
}`),
		Handler: listSims,
	}
})

type simctlDevice struct {
	Name        string `json:"name"`
	UDID        string `json:"udid"`
	State       string `json:"state"`
	IsAvailable bool   `json:"isAvailable"`
}

func listSims(ctx context.Context, args schema.Args) (*schema.Response, error) {
	res, err := command.Xcrun(ctx, "simctl", "list", "devices", "available", "--json")
	if err != nil || !res.Success() {
		return command.Respond("List simulators", res, err)
	}

	var out struct {
		Devices map[string][]simctlDevice `json:"devices"`
	}
	if err := json.Unmarshal([]byte(res.Stdout), &out); err != nil {
		return schema.Failure("List simulators: unexpected simctl output: %v", err), nil
	}

	bootedOnly := args.Bool("bootedOnly", false)
	runtimes := make([]string, 0, len(out.Devices))
	for rt := range out.Devices {
		runtimes = append(runtimes, rt)
	}
	sort.Strings(runtimes)

	var b strings.Builder
	count := 0
	for _, rt := range runtimes {
		var lines []string
		for _, d := range out.Devices[rt] {
			if bootedOnly && d.State != "Booted" {
				continue
			}
			lines = append(lines, fmt.Sprintf("- %s (%s) [%s]", d.Name, d.UDID, d.State))
		}
		if len(lines) == 0 {
			continue
		}
		count += len(lines)
		fmt.Fprintf(&b, "%s:\n%s\n", strings.TrimPrefix(rt, "com.apple.CoreSimulator.SimRuntime."), strings.Join(lines, "\n"))
	}
	if count == 0 {
		return schema.Text("No simulators found."), nil
	}
	return schema.Text("Available simulators (%d):\n%s", count, strings.TrimRight(b.String(), "\n")), nil
}
