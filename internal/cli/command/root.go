package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/avtoken/avtoken-go/internal/cli/config"
	"github.com/avtoken/avtoken-go/internal/cli/connection"
	"github.com/avtoken/avtoken-go/internal/cli/output"
	"github.com/avtoken/avtoken-go/internal/infra/buildinfo"
)

const cliConfigKey = "cliConfig"

// errPasswordRequired is returned before any request is sent when an admin
// command has no password.
var errPasswordRequired = errors.New("admin password required (--password or AVTOKEN_ADMIN_PASSWORD)")

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "avtoken-cli",
		Usage:   "Command-line client for the avtoken token server",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			TokenCommand(),
			AdminCommand(),
			ConfigCommand(),
			StatsCommand(),
			SystemCommand(),
			SecretCommand(),
			ProfileCommand(),
		},
		Before: loadCLIConfig,
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "Server URL (default from the active profile, else " + config.DefaultServer + ")",
			EnvVars: []string{"AVTOKEN_SERVER"},
		},
		&cli.StringFlag{
			Name:    "password",
			Aliases: []string{"p"},
			Usage:   "Admin password for admin, config and stats commands",
			EnvVars: []string{"AVTOKEN_ADMIN_PASSWORD"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Request timeout",
		},
		&cli.StringFlag{
			Name:    "profile",
			Usage:   "Use a saved profile instead of the current one",
			EnvVars: []string{"AVTOKEN_PROFILE"},
		},
		&cli.StringFlag{
			Name:    "cli-config",
			Usage:   "CLI config file",
			EnvVars: []string{"AVTOKEN_CLI_CONFIG"},
		},
	}
}

func loadCLIConfig(c *cli.Context) error {
	cfg, err := config.Load(c.String("cli-config"))
	if err != nil {
		return err
	}
	if c.App.Metadata == nil {
		c.App.Metadata = make(map[string]any)
	}
	c.App.Metadata[cliConfigKey] = cfg
	return nil
}

// GlobalFlags holds the resolved global settings.
type GlobalFlags struct {
	Server   string
	Password string
	Output   output.Format
	Wide     bool
	Profile  string
}

// ParseGlobalFlags merges flags and environment over the CLI config.
func ParseGlobalFlags(c *cli.Context) (*GlobalFlags, error) {
	cfg := cliConfig(c)

	profileName := c.String("profile")
	if profileName == "" {
		profileName = cfg.CurrentProfile
	}
	profile, ok := cfg.Profiles[profileName]
	if !ok {
		if c.String("profile") != "" {
			return nil, fmt.Errorf("unknown profile %q", profileName)
		}
		profile = config.Profile{Server: config.DefaultServer}
	}

	flags := &GlobalFlags{
		Server:   profile.Server,
		Password: profile.Password,
		Wide:     c.Bool("wide"),
		Profile:  profileName,
	}
	if c.IsSet("server") {
		flags.Server = c.String("server")
	}
	if c.IsSet("password") {
		flags.Password = c.String("password")
	}

	format := c.String("output")
	if format == "" {
		format = cfg.DefaultOutput
	}
	f, err := output.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	flags.Output = f
	return flags, nil
}

func cliConfig(c *cli.Context) *config.CLIConfig {
	if cfg, ok := c.App.Metadata[cliConfigKey].(*config.CLIConfig); ok {
		return cfg
	}
	return config.Default()
}

func cliConfigPath(c *cli.Context) string {
	if p := c.String("cli-config"); p != "" {
		return p
	}
	return config.DefaultConfigPath()
}

// EnsureConnected returns an HTTP client for the resolved server.
func EnsureConnected(c *cli.Context) (*connection.HTTPClient, *GlobalFlags, error) {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return nil, nil, err
	}

	timeout := c.Duration("timeout")
	if timeout <= 0 {
		timeout = cliConfig(c).Timeout
	}
	return connection.NewHTTPClient(flags.Server, flags.Password, timeout), flags, nil
}

// ensureAdmin is EnsureConnected for commands that need the admin password.
func ensureAdmin(c *cli.Context) (*connection.HTTPClient, *GlobalFlags, error) {
	client, flags, err := EnsureConnected(c)
	if err != nil {
		return nil, nil, err
	}
	if !client.HasPassword() {
		return nil, nil, errPasswordRequired
	}
	return client, flags, nil
}

// requestContext bounds one command's requests.
func requestContext(c *cli.Context) (context.Context, context.CancelFunc) {
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithCancel(ctx)
}

// render writes data in the selected format to the app's writer.
func render(c *cli.Context, flags *GlobalFlags, data any) error {
	return output.NewFormatter(flags.Output, flags.Wide).Format(writer(c), data)
}

// renderAs renders table in table mode and raw otherwise, so JSON and YAML
// carry the server's response unchanged.
func renderAs(c *cli.Context, flags *GlobalFlags, raw any, table output.Tabular) error {
	if flags.Output == output.FormatTable {
		return render(c, flags, table)
	}
	return render(c, flags, raw)
}

func writer(c *cli.Context) io.Writer {
	if c.App.Writer != nil {
		return c.App.Writer
	}
	return os.Stdout
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
