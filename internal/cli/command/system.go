package command

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/avtoken/avtoken-go/internal/cli/connection"
	"github.com/avtoken/avtoken-go/internal/cli/output"
	"github.com/avtoken/avtoken-go/internal/infra/buildinfo"
	"github.com/avtoken/avtoken-go/internal/server/httpserver/handler"
)

// SystemCommand returns the system subcommand group.
func SystemCommand() *cli.Command {
	return &cli.Command{
		Name:    "system",
		Aliases: []string{"sys"},
		Usage:   "Server status",
		Subcommands: []*cli.Command{
			{
				Name:   "health",
				Usage:  "Check server health",
				Action: systemHealth,
			},
			{
				Name:   "version",
				Usage:  "Show client and server versions",
				Action: systemVersion,
			},
		},
	}
}

func systemHealth(c *cli.Context) error {
	client, flags, err := EnsureConnected(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := client.Get(ctx, "/api/health", nil)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	var result handler.HealthResponse
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	if flags.Output != output.FormatTable {
		return render(c, flags, result)
	}
	w := writer(c)
	if result.Status != "OK" {
		fmt.Fprintf(w, "✗ Server is unhealthy: %s\n", result.Status)
		return fmt.Errorf("server unhealthy")
	}
	uptime := time.Duration(result.Uptime * float64(time.Second)).Round(time.Second)
	fmt.Fprintf(w, "✓ Server is healthy\n")
	fmt.Fprintf(w, "  Target:      %s\n", client.BaseURL())
	fmt.Fprintf(w, "  Environment: %s\n", result.Environment)
	fmt.Fprintf(w, "  Uptime:      %s\n", uptime)
	return nil
}

// versionInfo pairs the client build with the server banner.
type versionInfo struct {
	Client buildinfo.Info `json:"client" yaml:"client"`
	Server string         `json:"server" yaml:"server"`
}

func (v versionInfo) Tables(bool) []*output.Table {
	t := output.NewKeyValueTable("")
	t.AddRow("client", v.Client.String())
	t.AddRow("go", v.Client.GoVersion)
	t.AddRow("server", output.FormatValue(v.Server))
	return []*output.Table{t}
}

func systemVersion(c *cli.Context) error {
	client, flags, err := EnsureConnected(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	info := versionInfo{Client: buildinfo.Get()}
	resp, err := client.Get(ctx, "/", nil)
	if err != nil {
		return err
	}
	var banner handler.RootResponse
	if err := connection.ParseResponse(resp, &banner); err != nil {
		return err
	}
	info.Server = banner.Version
	return render(c, flags, info)
}
