package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-focus/pkg/attention"
	"github.com/teslashibe/go-focus/pkg/journal"
	"github.com/teslashibe/go-focus/pkg/report"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var (
		list   bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "report [session]",
		Short: "Summarize a journaled session (latest by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			j, err := journal.Open(cfg.Journal.Path)
			if err != nil {
				return err
			}
			defer j.Close()

			if list {
				sessions, err := j.Sessions(cmd.Context())
				if err != nil {
					return err
				}
				printSessions(out, sessions)
				return nil
			}

			var session journal.Session
			if len(args) == 1 {
				session, err = j.Session(cmd.Context(), args[0])
			} else {
				session, err = j.Latest(cmd.Context())
			}
			if err != nil {
				return err
			}

			events, err := j.Events(cmd.Context(), session.ID)
			if err != nil {
				return err
			}
			alerts, err := j.Alerts(cmd.Context(), session.ID)
			if err != nil {
				return err
			}
			sum := report.Summarize(session, events, alerts)

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(sum)
			}
			printSummary(out, sum)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "List sessions instead of summarizing one")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the summary as JSON")
	return cmd
}

func printSessions(w io.Writer, sessions []journal.Session) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, "No sessions journaled yet.")
		return
	}
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		duration := "running"
		if !s.Active() {
			duration = s.Duration().Round(time.Second).String()
		}
		rows = append(rows, []string{
			shortID(s.ID),
			s.StartedAt.Local().Format("2006-01-02 15:04:05"),
			duration,
			strconv.FormatInt(s.Frames, 10),
			s.Source,
		})
	}
	fmt.Fprintln(w, renderTable(
		[]string{"Session", "Started", "Duration", "Frames", "Source"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	))
}

func printSummary(w io.Writer, sum report.Summary) {
	fmt.Fprintf(w, "Session %s  source %s\n", shortID(sum.Session.ID), sum.Session.Source)
	if len(sum.Tracks) == 0 {
		fmt.Fprintln(w, "No faces were tracked.")
		return
	}

	headers := []string{"Track", "Live"}
	aligns := []columnAlignment{alignRight, alignRight}
	for _, m := range report.Moods {
		headers = append(headers, string(m))
		aligns = append(aligns, alignRight)
	}
	headers = append(headers, "Focus %", "Alerts")
	aligns = append(aligns, alignRight, alignRight)

	rows := make([][]string, 0, len(sum.Tracks))
	for _, t := range sum.Tracks {
		row := []string{strconv.Itoa(t.ID), formatDuration(t.Duration())}
		for _, m := range report.Moods {
			row = append(row, formatDuration(t.Time[m]))
		}
		alerts := t.Alerts[attention.AlertSleepy] + t.Alerts[attention.AlertDistracted]
		row = append(row, fmt.Sprintf("%.0f", t.FocusRatio()*100), strconv.Itoa(alerts))
		rows = append(rows, row)
	}
	fmt.Fprintln(w, renderTable(headers, rows, aligns))

	fmt.Fprintf(w, "Mean focus %.0f%% (spread %.0f%%), %d alerts (%d sleepy, %d distracted)\n",
		sum.MeanFocus*100, sum.FocusStdDev*100, sum.TotalAlerts(),
		sum.Alerts[attention.AlertSleepy], sum.Alerts[attention.AlertDistracted])
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return d.Round(100 * time.Millisecond).String()
}
