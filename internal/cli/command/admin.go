package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/avtoken/avtoken-go/internal/cli/connection"
	"github.com/avtoken/avtoken-go/internal/cli/output"
	"github.com/avtoken/avtoken-go/internal/server/httpserver/handler"
)

// AdminCommand returns the admin subcommand group.
func AdminCommand() *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "Admin password checks",
		Subcommands: []*cli.Command{
			{
				Name:   "verify",
				Usage:  "Check the admin password against the server",
				Action: adminVerify,
			},
		},
	}
}

func adminVerify(c *cli.Context) error {
	client, flags, err := ensureAdmin(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	// The password goes in the body; verify ignores the header.
	resp, err := client.Post(ctx, "/api/admin/verify", handler.PasswordRequest{Password: flags.Password})
	if err != nil {
		return err
	}
	var result handler.MessageResponse
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	if flags.Output == output.FormatTable {
		_, err := fmt.Fprintf(writer(c), "✓ %s (%s)\n", result.Message, client.BaseURL())
		return err
	}
	return render(c, flags, result)
}
