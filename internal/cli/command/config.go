package command

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/avtoken/avtoken-go/internal/cli/connection"
	"github.com/avtoken/avtoken-go/internal/cli/output"
	"github.com/avtoken/avtoken-go/internal/core/domain"
	"github.com/avtoken/avtoken-go/internal/server/httpserver/handler"
	"github.com/avtoken/avtoken-go/internal/telemetry/logger"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Server credentials and token defaults",
		Subcommands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Show the server configuration",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "show-secrets", Usage: "Print the app certificate unmasked"},
				},
				Action: configGet,
			},
			{
				Name:  "set",
				Usage: "Update configuration fields; unset flags are left unchanged",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "app-id", Usage: "Platform app id"},
					&cli.StringFlag{Name: "app-certificate", Usage: "Platform app certificate"},
					&cli.StringFlag{Name: "channel", Usage: "Default channel name"},
					&cli.StringFlag{Name: "uid", Usage: "Default uid"},
					&cli.StringFlag{Name: "role", Usage: "Default role: publisher or subscriber"},
					&cli.IntFlag{Name: "expire", Usage: "Default token lifetime in seconds"},
					&cli.StringFlag{Name: "new-password", Usage: "Replace the admin password"},
				},
				Action: configSet,
			},
		},
	}
}

// configView renders the server configuration.
type configView struct {
	cfg         domain.ConfigView
	showSecrets bool
}

func (v configView) Tables(bool) []*output.Table {
	cert := v.cfg.AppCertificate
	if !v.showSecrets && cert != "" {
		cert = logger.MaskSecret(cert)
	}

	t := output.NewKeyValueTable("")
	t.AddRow("agoraAppId", output.FormatValue(v.cfg.AppID))
	t.AddRow("agoraAppCertificate", output.FormatValue(cert))
	t.AddRow("defaultChannelName", output.FormatValue(v.cfg.DefaultChannelName))
	t.AddRow("defaultUid", output.FormatValue(v.cfg.DefaultUID))
	t.AddRow("defaultRole", output.FormatValue(v.cfg.DefaultRole))
	t.AddRow("defaultExpireTime", strconv.Itoa(v.cfg.DefaultExpireTime))
	return []*output.Table{t}
}

func configGet(c *cli.Context) error {
	client, flags, err := ensureAdmin(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := client.Get(ctx, "/api/admin/config", nil)
	if err != nil {
		return err
	}
	var result handler.ConfigResponse
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}
	return renderAs(c, flags, result, configView{cfg: result.Config, showSecrets: c.Bool("show-secrets")})
}

// patchFromFlags builds a patch from the flags that were given.
func patchFromFlags(c *cli.Context) domain.ConfigPatch {
	var p domain.ConfigPatch
	str := func(name string) *string {
		if !c.IsSet(name) {
			return nil
		}
		v := c.String(name)
		return &v
	}

	p.AppID = str("app-id")
	p.AppCertificate = str("app-certificate")
	p.DefaultChannelName = str("channel")
	p.DefaultRole = str("role")
	p.AdminSecret = str("new-password")
	if c.IsSet("uid") {
		p.DefaultUID = domain.Ptr(c.String("uid"))
	}
	if c.IsSet("expire") {
		p.DefaultExpireTime = domain.Ptr(strconv.Itoa(c.Int("expire")))
	}
	return p
}

func configSet(c *cli.Context) error {
	patch := patchFromFlags(c)
	if patch.IsEmpty() {
		return errors.New("nothing to update: pass at least one field flag")
	}

	client, flags, err := ensureAdmin(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := client.Post(ctx, "/api/admin/config", handler.ConfigUpdateRequest{
		Password:    flags.Password,
		ConfigPatch: patch,
	})
	if err != nil {
		return err
	}
	var result handler.ConfigUpdateResponse
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	if flags.Output != output.FormatTable {
		return render(c, flags, result)
	}
	if _, err := fmt.Fprintf(writer(c), "✓ %s\n\n", result.Message); err != nil {
		return err
	}
	summary := domain.ConfigView{
		AppID:              result.Config.AppID,
		DefaultChannelName: result.Config.DefaultChannelName,
		DefaultUID:         result.Config.DefaultUID,
		DefaultRole:        result.Config.DefaultRole,
		DefaultExpireTime:  result.Config.DefaultExpireTime,
	}
	if err := render(c, flags, configView{cfg: summary}); err != nil {
		return err
	}
	if patch.AdminSecret != nil {
		fmt.Fprintln(writer(c), "\nAdmin password changed; use the new one from now on.")
	}
	return nil
}
