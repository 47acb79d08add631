package deviceworkspace

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/command"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

var ListDevices = schema.DefineTool(func() *schema.Tool {
	return &schema.Tool{
		Name:        "list_devices",
		Description: "Lists connected physical Apple devices.",
		Schema:      []byte(schema.EmptyObjectSchema),
		Handler:     listDevices,
	}
})

type devicectlOutput struct {
	Result struct {
		Devices []struct {
			Identifier       string `json:"identifier"`
			DeviceProperties struct {
				Name      string `json:"name"`
				OSVersion string `json:"osVersionNumber"`
			} `json:"deviceProperties"`
			HardwareProperties struct {
				Platform string `json:"platform"`
				UDID     string `json:"udid"`
			} `json:"hardwareProperties"`
			ConnectionProperties struct {
				TunnelState string `json:"tunnelState"`
			} `json:"connectionProperties"`
		} `json:"devices"`
	} `json:"result"`
}

func listDevices(ctx context.Context, _ schema.Args) (*schema.Response, error) {
	dir, err := os.MkdirTemp("", "xcodebuildmcp-devices-")
	if err != nil {
		return schema.Failure("List devices: %v", err), nil
	}
	defer os.RemoveAll(dir)
	jsonPath := filepath.Join(dir, "devices.json")

	res, err := command.Xcrun(ctx, "devicectl", "list", "devices", "--json-output", jsonPath)
	if err != nil || !res.Success() {
		return command.Respond("List devices", res, err)
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		// Older devicectl versions print instead of writing the file.
		data = []byte(res.Stdout)
	}
	var out devicectlOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return schema.Failure("List devices: unexpected devicectl output: %v", err), nil
	}
	if len(out.Result.Devices) == 0 {
		return schema.Text("No devices found."), nil
	}

	lines := make([]string, 0, len(out.Result.Devices))
	for _, d := range out.Result.Devices {
		udid := d.HardwareProperties.UDID
		if udid == "" {
			udid = d.Identifier
		}
		lines = append(lines, fmt.Sprintf("- %s (%s) %s %s [%s]",
			d.DeviceProperties.Name, udid, d.HardwareProperties.Platform,
			d.DeviceProperties.OSVersion, d.ConnectionProperties.TunnelState))
	}
	return schema.Text("Connected devices (%d):\n%s", len(lines), strings.Join(lines, "\n")), nil
}
