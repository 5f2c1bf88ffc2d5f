package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/teslashibe/go-focus/pkg/attention"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow a running monitor's frame stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(addr) == "" {
				addr = cfg.Web.Addr
			}
			target := url.URL{Scheme: "ws", Host: addr, Path: "/ws/frames"}

			dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
			conn, _, err := dialer.DialContext(cmd.Context(), target.String(), nil)
			if err != nil {
				return fmt.Errorf("connect to %s: %w (is `focus run` serving the dashboard?)", target.String(), err)
			}
			defer conn.Close()

			go func() {
				<-cmd.Context().Done()
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
				_ = conn.Close()
			}()

			out := cmd.OutOrStdout()
			for {
				_, data, err := conn.ReadMessage()
				if err != nil {
					if cmd.Context().Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure) {
						return nil
					}
					return fmt.Errorf("read frame: %w", err)
				}
				var res attention.FrameResult
				if err := json.Unmarshal(data, &res); err != nil {
					return fmt.Errorf("decode frame: %w", err)
				}
				printWatchFrame(out, res)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Dashboard address (defaults to web.addr)")
	return cmd
}

// printWatchFrame prints the changes worth seeing in one frame: tracks that
// appeared or left, stable mood changes and alerts. Quiet frames print nothing.
func printWatchFrame(w io.Writer, res attention.FrameResult) {
	stamp := res.Time.Local().Format("15:04:05.000")
	for _, id := range res.Dropped {
		fmt.Fprintf(w, "%s  track %d left\n", stamp, id)
	}
	created := make(map[int]bool, len(res.Created))
	for _, id := range res.Created {
		created[id] = true
	}
	for _, tr := range res.Tracks {
		switch {
		case created[tr.ID]:
			fmt.Fprintf(w, "%s  track %d appeared (%s)\n", stamp, tr.ID, tr.StableMood)
		case tr.StableChanged:
			fmt.Fprintf(w, "%s  track %d is now %s\n", stamp, tr.ID, tr.StableMood)
		}
		if tr.Fired() {
			fmt.Fprintf(w, "%s  track %d ALERT: %s\n", stamp, tr.ID, tr.Alert.Message())
		}
	}
}
