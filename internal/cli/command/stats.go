package command

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/avtoken/avtoken-go/internal/cli/connection"
	"github.com/avtoken/avtoken-go/internal/cli/output"
	"github.com/avtoken/avtoken-go/internal/core/domain"
	"github.com/avtoken/avtoken-go/internal/server/httpserver/handler"
)

// narrowHistory is how many recent events the table shows without --wide.
const narrowHistory = 10

// StatsCommand returns the stats subcommand group.
func StatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Usage statistics",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show request counters and recent history (--wide for all of it)",
				Action: statsShow,
			},
			{
				Name:  "reset",
				Usage: "Zero all counters and clear the history",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Confirm the reset"},
				},
				Action: statsReset,
			},
		},
	}
}

// statsView renders a usage record.
type statsView domain.StatsRecord

func (s statsView) Tables(wide bool) []*output.Table {
	counters := output.NewKeyValueTable("")
	counters.AddRow("totalRequests", strconv.FormatInt(s.TotalRequests, 10))
	counters.AddRow("rtcRequests", strconv.FormatInt(s.RTCRequests, 10))
	counters.AddRow("rtmRequests", strconv.FormatInt(s.RTMRequests, 10))
	counters.AddRow("adminRequests", strconv.FormatInt(s.AdminRequests, 10))
	counters.AddRow("lastReset", s.LastReset.String())

	// History is newest first.
	history := s.RequestHistory
	title := fmt.Sprintf("Recent requests (%d)", len(history))
	if !wide && len(history) > narrowHistory {
		history = history[:narrowHistory]
		title = fmt.Sprintf("Recent requests (last %d of %d)", narrowHistory, len(s.RequestHistory))
	}
	events := &output.Table{Title: title, Headers: []string{"TYPE", "TIMESTAMP"}}
	for _, e := range history {
		events.AddRow(string(e.Type), e.Timestamp.String())
	}
	return []*output.Table{counters, events}
}

func statsShow(c *cli.Context) error {
	client, flags, err := ensureAdmin(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := client.Get(ctx, "/api/admin/stats", nil)
	if err != nil {
		return err
	}
	var result handler.StatsResponse
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}
	return renderAs(c, flags, result, statsView(result.Stats))
}

func statsReset(c *cli.Context) error {
	if !c.Bool("yes") {
		return fmt.Errorf("refusing to reset statistics without --yes")
	}

	client, flags, err := ensureAdmin(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := client.Post(ctx, "/api/admin/stats/reset", handler.PasswordRequest{Password: flags.Password})
	if err != nil {
		return err
	}
	var result handler.StatsResponse
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	if flags.Output != output.FormatTable {
		return render(c, flags, result)
	}
	_, err = fmt.Fprintf(writer(c), "✓ %s at %s\n", result.Message, result.Stats.LastReset)
	return err
}
