package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/teslashibe/go-focus/internal/log"
	"github.com/teslashibe/go-focus/pkg/attention"
	"github.com/teslashibe/go-focus/pkg/journal"
	"github.com/teslashibe/go-focus/pkg/pipeline"
	"github.com/teslashibe/go-focus/pkg/recording"
	"github.com/teslashibe/go-focus/pkg/report"
)

// frameSlice replays frames already read into memory.
type frameSlice struct {
	frames []recording.Frame
	next   int
}

func (s *frameSlice) Next() (recording.Frame, error) {
	if s.next >= len(s.frames) {
		return recording.Frame{}, io.EOF
	}
	f := s.frames[s.next]
	s.next++
	return f, nil
}

func newReplayCommand(ctx *commandContext) *cobra.Command {
	var (
		toJournal bool
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   "replay <recording.jsonl>",
		Short: "Feed a recording through the engine and print what it decides",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := log.L()
			out := cmd.OutOrStdout()

			r, err := recording.Open(args[0])
			if err != nil {
				return err
			}
			frames, err := r.ReadAll()
			_ = r.Close()
			if err != nil {
				return err
			}

			engine, err := attention.NewEngine(cfg.Attention(), attention.WithLogger(logger))
			if err != nil {
				return err
			}

			// Replays run on a fixed epoch so journaled sessions do not
			// overlap real ones in time.
			start := time.Unix(0, 0).UTC()
			session := journal.Session{ID: "replay", Source: filepath.Base(args[0]), StartedAt: start}
			var events []journal.Event
			var alerts []journal.AlertRecord

			var j *journal.Journal
			if toJournal {
				j, err = journal.Open(cfg.Journal.Path)
				if err != nil {
					return err
				}
				defer j.Close()
				session, err = j.StartSession(cmd.Context(), session.Source, start)
				if err != nil {
					return err
				}
			}

			var bar *progressbar.ProgressBar
			if isatty.IsTerminal(os.Stderr.Fd()) && !verbose {
				bar = progressbar.NewOptions(len(frames),
					progressbar.OptionSetDescription("replaying"),
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionShowCount(),
					progressbar.OptionClearOnFinish(),
				)
			}

			var rows [][]string
			n, err := pipeline.Replay(cmd.Context(), &frameSlice{frames: frames}, engine, start,
				func(frame recording.Frame, now time.Time, res attention.FrameResult) error {
					events = append(events, journal.EventsFromFrame(res)...)
					for _, tr := range res.Alerts() {
						alerts = append(alerts, journal.AlertRecord{TrackID: tr.ID, Kind: tr.Alert, Message: tr.Alert.Message(), At: now})
						rows = append(rows, []string{
							fmt.Sprintf("%.2fs", frame.T), strconv.Itoa(tr.ID), string(tr.StableMood), tr.Alert.Message(),
						})
					}
					if verbose {
						printFrame(out, frame.T, res)
					}
					if j != nil {
						if err := j.RecordFrame(context.WithoutCancel(cmd.Context()), session.ID, res); err != nil {
							return err
						}
					}
					if bar != nil {
						_ = bar.Add(1)
					}
					return nil
				})
			if bar != nil {
				_ = bar.Finish()
			}
			if err != nil {
				return err
			}

			end := start
			if len(frames) > 0 {
				end = start.Add(frames[len(frames)-1].Offset())
			}
			session.EndedAt = end
			session.Frames = int64(n)
			if j != nil {
				if err := j.EndSession(context.WithoutCancel(cmd.Context()), session.ID, end, int64(n)); err != nil {
					return err
				}
			}

			fmt.Fprintf(out, "Replayed %d frames (%s)\n", n, end.Sub(start).Round(time.Millisecond))
			if len(rows) > 0 {
				fmt.Fprintln(out, renderTable([]string{"At", "Track", "Mood", "Alert"}, rows,
					[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft}))
			} else {
				fmt.Fprintln(out, "No alerts fired.")
			}
			printSummary(out, report.Summarize(session, events, alerts))
			if j != nil {
				fmt.Fprintf(out, "Journaled as session %s\n", session.ID)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&toJournal, "journal", false, "Also record the replay as a journal session")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print every frame")
	return cmd
}

func printFrame(w io.Writer, t float64, res attention.FrameResult) {
	if len(res.Tracks) == 0 {
		fmt.Fprintf(w, "%8.2fs  no faces\n", t)
		return
	}
	for _, tr := range res.Tracks {
		line := fmt.Sprintf("%8.2fs  track %-3d %-10s temp %-10s emotion %s", t, tr.ID, tr.StableMood, tr.TransientMood, tr.Emotion)
		if tr.Fired() {
			line += "  ALERT " + tr.Alert.Message()
		}
		fmt.Fprintln(w, line)
	}
}
