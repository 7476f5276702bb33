package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/smartminutes/pkg/cli/config"
	"github.com/secmon-lab/smartminutes/pkg/domain/model"
	"github.com/secmon-lab/smartminutes/pkg/domain/types"
	"github.com/secmon-lab/smartminutes/pkg/repository/record"
	"github.com/secmon-lab/smartminutes/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdList() *cli.Command {
	var query string
	var appCfg config.App
	var storageCfg config.Storage

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "query",
			Aliases:     []string{"q"},
			Usage:       "Filter meetings by title or tag (case-insensitive substring)",
			Destination: &query,
		},
	}
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, storageCfg.Flags()...)

	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List saved meetings",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load configuration")
			}

			kv, err := storageCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize storage")
			}
			defer func() {
				if err := kv.Close(); err != nil {
					logging.Default().Error("failed to close storage", "error", err.Error())
				}
			}()

			meetings, err := record.New(kv, cfg.RecordOptions()...).List(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to list meetings")
			}

			printMeetings(os.Stdout, model.FilterMeetings(meetings, query))
			return nil
		},
	}
}

func printMeetings(w io.Writer, meetings []*model.Meeting) {
	if len(meetings) == 0 {
		_, _ = fmt.Fprintln(w, "No meetings found")
		return
	}

	title := color.New(color.Bold)
	dim := color.New(color.FgHiBlack)
	tag := color.New(color.FgCyan)

	for _, m := range meetings {
		name := m.Title
		if name == "" {
			name = "(untitled)"
		}

		done := 0
		for _, item := range m.ActionItems {
			if item.Status == types.ActionItemStatusCompleted {
				done++
			}
		}

		_, _ = title.Fprint(w, name)
		if m.Date != "" {
			_, _ = dim.Fprintf(w, "  %s", m.Date)
		}
		_, _ = fmt.Fprintf(w, "  [%d/%d done]", done, len(m.ActionItems))
		if len(m.Tags) > 0 {
			_, _ = tag.Fprintf(w, "  #%s", strings.Join(m.Tags, " #"))
		}
		_, _ = fmt.Fprintln(w)
	}
}
