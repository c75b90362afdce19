package command

import (
	"fmt"
	"sort"

	"github.com/urfave/cli/v2"

	"github.com/avtoken/avtoken-go/internal/cli/config"
	"github.com/avtoken/avtoken-go/internal/cli/output"
	"github.com/avtoken/avtoken-go/internal/telemetry/logger"
)

// ProfileCommand returns the profile subcommand group.
func ProfileCommand() *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Saved server connections",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List saved profiles",
				Action: profileList,
			},
			{
				Name:      "save",
				Usage:     "Save --server and --password under NAME",
				ArgsUsage: "NAME",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "use", Usage: "Make the profile current"},
				},
				Action: profileSave,
			},
			{
				Name:      "use",
				Usage:     "Make NAME the current profile",
				ArgsUsage: "NAME",
				Action:    profileUse,
			},
			{
				Name:      "delete",
				Usage:     "Remove a saved profile",
				ArgsUsage: "NAME",
				Action:    profileDelete,
			},
		},
	}
}

func profileArg(c *cli.Context) (string, error) {
	if c.NArg() != 1 || c.Args().First() == "" {
		return "", fmt.Errorf("expected exactly one NAME argument")
	}
	return c.Args().First(), nil
}

type profileRow struct {
	Name     string `json:"name" yaml:"name"`
	Server   string `json:"server" yaml:"server"`
	Password string `json:"password" yaml:"password"`
	Current  bool   `json:"current" yaml:"current"`
}

type profileTable []profileRow

func (l profileTable) Tables(bool) []*output.Table {
	t := &output.Table{Headers: []string{"", "NAME", "SERVER", "PASSWORD"}}
	for _, p := range l {
		mark := ""
		if p.Current {
			mark = "*"
		}
		t.AddRow(mark, p.Name, p.Server, output.FormatValue(p.Password))
	}
	return []*output.Table{t}
}

func profileList(c *cli.Context) error {
	cfg := cliConfig(c)
	names := make([]string, 0, len(cfg.Profiles))
	for name := range cfg.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make(profileTable, 0, len(names))
	for _, name := range names {
		p := cfg.Profiles[name]
		pw := ""
		if p.Password != "" {
			pw = logger.MaskSecret(p.Password)
		}
		rows = append(rows, profileRow{Name: name, Server: p.Server, Password: pw, Current: name == cfg.CurrentProfile})
	}

	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return err
	}
	return render(c, flags, rows)
}

func profileSave(c *cli.Context) error {
	name, err := profileArg(c)
	if err != nil {
		return err
	}
	server := c.String("server")
	if server == "" {
		return fmt.Errorf("--server is required")
	}

	cfg := cliConfig(c)
	cfg.Profiles[name] = config.Profile{Server: server, Password: c.String("password")}
	if c.Bool("use") || len(cfg.Profiles) == 1 {
		cfg.CurrentProfile = name
	}
	if err := config.Save(cfg, cliConfigPath(c)); err != nil {
		return err
	}
	_, err = fmt.Fprintf(writer(c), "Saved profile %q (%s)\n", name, server)
	return err
}

func profileUse(c *cli.Context) error {
	name, err := profileArg(c)
	if err != nil {
		return err
	}
	cfg := cliConfig(c)
	if _, ok := cfg.Profiles[name]; !ok {
		return fmt.Errorf("unknown profile %q", name)
	}
	cfg.CurrentProfile = name
	if err := config.Save(cfg, cliConfigPath(c)); err != nil {
		return err
	}
	_, err = fmt.Fprintf(writer(c), "Switched to profile %q\n", name)
	return err
}

func profileDelete(c *cli.Context) error {
	name, err := profileArg(c)
	if err != nil {
		return err
	}
	cfg := cliConfig(c)
	if _, ok := cfg.Profiles[name]; !ok {
		return fmt.Errorf("unknown profile %q", name)
	}
	delete(cfg.Profiles, name)
	if cfg.CurrentProfile == name {
		cfg.CurrentProfile = ""
	}
	if err := config.Save(cfg, cliConfigPath(c)); err != nil {
		return err
	}
	_, err = fmt.Fprintf(writer(c), "Deleted profile %q\n", name)
	return err
}
