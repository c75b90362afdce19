package command

import (
	"net/url"
	"sort"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/avtoken/avtoken-go/internal/cli/connection"
	"github.com/avtoken/avtoken-go/internal/cli/output"
	"github.com/avtoken/avtoken-go/internal/server/httpserver/handler"
)

// TokenCommand returns the token subcommand group.
func TokenCommand() *cli.Command {
	defaultsFlag := &cli.BoolFlag{
		Name:  "defaults",
		Usage: "Use the GET endpoint; absent values come from the server's defaults",
	}
	expireFlag := &cli.IntFlag{
		Name:    "expire",
		Aliases: []string{"e"},
		Usage:   "Token lifetime in seconds (server default when unset)",
	}

	return &cli.Command{
		Name:  "token",
		Usage: "Issue access tokens",
		Subcommands: []*cli.Command{
			{
				Name:  "rtc",
				Usage: "Issue an RTC token for a channel",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "channel", Aliases: []string{"c"}, Usage: "Channel name"},
					&cli.StringFlag{Name: "uid", Aliases: []string{"u"}, Usage: "Numeric user id (0 lets the platform assign one)"},
					&cli.StringFlag{Name: "role", Aliases: []string{"r"}, Usage: "publisher or subscriber"},
					expireFlag,
					defaultsFlag,
				},
				Action: tokenRTC,
			},
			{
				Name:  "rtm",
				Usage: "Issue an RTM token for a user",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "uid", Aliases: []string{"u"}, Usage: "User account"},
					expireFlag,
					defaultsFlag,
				},
				Action: tokenRTM,
			},
			{
				Name:   "info",
				Usage:  "Show the issuance endpoints and server time",
				Action: tokenInfo,
			},
		},
	}
}

// rtcToken renders an RTC token response.
type rtcToken handler.RTCTokenResponse

func (r rtcToken) Tables(bool) []*output.Table {
	t := output.NewKeyValueTable("")
	t.AddRow("token", r.Token)
	t.AddRow("appId", r.AppID)
	t.AddRow("channelName", r.ChannelName)
	t.AddRow("uid", strconv.FormatUint(uint64(r.UID), 10))
	t.AddRow("role", string(r.Role))
	t.AddRow("expireTime", strconv.Itoa(r.ExpireTime))
	t.AddRow("expireAt", r.ExpireAt)
	return []*output.Table{t}
}

// rtmToken renders an RTM token response.
type rtmToken handler.RTMTokenResponse

func (r rtmToken) Tables(bool) []*output.Table {
	t := output.NewKeyValueTable("")
	t.AddRow("token", r.Token)
	t.AddRow("appId", r.AppID)
	t.AddRow("uid", r.UID)
	t.AddRow("expireTime", strconv.Itoa(r.ExpireTime))
	t.AddRow("expireAt", r.ExpireAt)
	return []*output.Table{t}
}

// tokenInfoView renders GET /api/token/info.
type tokenInfoView handler.TokenInfoResponse

func (r tokenInfoView) Tables(wide bool) []*output.Table {
	t := output.NewKeyValueTable("")
	t.AddRow("appId", output.FormatValue(r.AppID))
	t.AddRow("serverTime", r.ServerTime)
	t.AddRow("serverTimestamp", strconv.FormatInt(r.ServerTimestamp, 10))

	endpoints := &output.Table{Title: "Endpoints", Headers: []string{"NAME", "ENDPOINT"}}
	addSorted(endpoints, r.AvailableEndpoints)
	tables := []*output.Table{t, endpoints}

	if wide {
		rtc := &output.Table{Title: "RTC parameters", Headers: []string{"PARAM", "DESCRIPTION"}}
		addSorted(rtc, r.RTCTokenParams)
		rtm := &output.Table{Title: "RTM parameters", Headers: []string{"PARAM", "DESCRIPTION"}}
		addSorted(rtm, r.RTMTokenParams)
		tables = append(tables, rtc, rtm)
	}
	return tables
}

func addSorted(t *output.Table, m map[string]string) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		t.AddRow(k, m[k])
	}
}

func tokenRTC(c *cli.Context) error {
	client, flags, err := EnsureConnected(c)
	if err != nil {
		return err
	}
	params := map[string]string{
		"channelName": c.String("channel"),
		"uid":         c.String("uid"),
		"role":        c.String("role"),
	}
	if c.IsSet("expire") {
		params["expireTime"] = strconv.Itoa(c.Int("expire"))
	}

	var result handler.RTCTokenResponse
	if err := issue(c, client, "/api/token/rtc", params, &result); err != nil {
		return err
	}
	return renderAs(c, flags, result, rtcToken(result))
}

func tokenRTM(c *cli.Context) error {
	client, flags, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	params := map[string]string{"uid": c.String("uid")}
	if c.IsSet("expire") {
		params["expireTime"] = strconv.Itoa(c.Int("expire"))
	}

	var result handler.RTMTokenResponse
	if err := issue(c, client, "/api/token/rtm", params, &result); err != nil {
		return err
	}
	return renderAs(c, flags, result, rtmToken(result))
}

// issue calls POST path with the non-empty params, or GET with a query
// string when --defaults is set.
func issue(c *cli.Context, client *connection.HTTPClient, path string, params map[string]string, out any) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	if c.Bool("defaults") {
		query := url.Values{}
		for k, v := range params {
			if v != "" {
				query.Set(k, v)
			}
		}
		resp, err := client.Get(ctx, path, query)
		if err != nil {
			return err
		}
		return connection.ParseResponse(resp, out)
	}

	body := make(map[string]string, len(params))
	for k, v := range params {
		if v != "" {
			body[k] = v
		}
	}
	resp, err := client.Post(ctx, path, body)
	if err != nil {
		return err
	}
	return connection.ParseResponse(resp, out)
}

func tokenInfo(c *cli.Context) error {
	client, flags, err := EnsureConnected(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := client.Get(ctx, "/api/token/info", nil)
	if err != nil {
		return err
	}
	var result handler.TokenInfoResponse
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}
	return renderAs(c, flags, result, tokenInfoView(result))
}
