package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/avtoken/avtoken-go/internal/cli/output"
	"github.com/avtoken/avtoken-go/pkg/secret"
)

// SecretCommand returns the secret subcommand group. It works offline.
func SecretCommand() *cli.Command {
	return &cli.Command{
		Name:  "secret",
		Usage: "Admin password helpers",
		Subcommands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "Generate a random admin password",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "length", Aliases: []string{"l"}, Value: secret.DefaultLength, Usage: "Random bytes before encoding"},
					&cli.BoolFlag{Name: "hash", Usage: "Also print the argon2id hash to store in the config file"},
				},
				Action: secretGenerate,
			},
			{
				Name:      "hash",
				Usage:     "Hash an existing password with argon2id",
				ArgsUsage: "PASSWORD",
				Action:    secretHash,
			},
		},
	}
}

type generatedSecret struct {
	Password string `json:"password" yaml:"password"`
	Hash     string `json:"hash,omitempty" yaml:"hash,omitempty"`
}

func (g generatedSecret) Tables(bool) []*output.Table {
	t := output.NewKeyValueTable("")
	t.AddRow("password", g.Password)
	if g.Hash != "" {
		t.AddRow("hash", g.Hash)
	}
	return []*output.Table{t}
}

func secretGenerate(c *cli.Context) error {
	length := c.Int("length")
	if length < 12 {
		return fmt.Errorf("length must be at least 12, got %d", length)
	}

	pw, err := secret.Generate(length)
	if err != nil {
		return err
	}
	result := generatedSecret{Password: pw}
	if c.Bool("hash") {
		if result.Hash, err = secret.Hash(pw); err != nil {
			return err
		}
	}

	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return err
	}
	return render(c, flags, result)
}

func secretHash(c *cli.Context) error {
	if c.NArg() != 1 || c.Args().First() == "" {
		return fmt.Errorf("expected exactly one PASSWORD argument")
	}
	hash, err := secret.Hash(c.Args().First())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(writer(c), hash)
	return err
}
