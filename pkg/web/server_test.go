package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"

	"github.com/teslashibe/go-focus/pkg/alert"
	"github.com/teslashibe/go-focus/pkg/attention"
)

var t0 = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func frame(at time.Time, tracks ...attention.TrackResult) attention.FrameResult {
	return attention.FrameResult{Time: at, Tracks: tracks}
}

func getJSON(t *testing.T, s *Server, path string, v any) int {
	t.Helper()
	resp, err := s.App().Test(httptest.NewRequest("GET", path, nil))
	if err != nil {
		t.Fatalf("GET %s error = %v", path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if v != nil && resp.StatusCode == 200 {
		if err := json.Unmarshal(body, v); err != nil {
			t.Fatalf("GET %s: decode %q: %v", path, body, err)
		}
	}
	return resp.StatusCode
}

func TestServer_StatusAndTracks(t *testing.T) {
	s := NewServer("127.0.0.1:0")
	s.UpdateStatus(func(st *Status) {
		st.Running = true
		st.Source = "0"
		st.Live = true
		st.Width = 1280
		st.Height = 720
		st.CaptureFPS = 30
	})

	tr := attention.TrackResult{ID: 4, StableMood: attention.MoodFocus, TransientMood: attention.MoodSleepy}
	s.PublishFrame(frame(t0, tr))

	var st Status
	if code := getJSON(t, s, "/api/status", &st); code != 200 {
		t.Fatalf("status code = %d", code)
	}
	if !st.Running || st.Source != "0" || st.Frames != 1 || st.Tracks != 1 {
		t.Errorf("status = %+v", st)
	}
	if !st.Live || st.Width != 1280 || st.Height != 720 || st.CaptureFPS != 30 {
		t.Errorf("capture fields = live %v %dx%d @%v, want live 1280x720 @30", st.Live, st.Width, st.Height, st.CaptureFPS)
	}

	var tracks []attention.TrackResult
	if code := getJSON(t, s, "/api/tracks", &tracks); code != 200 {
		t.Fatalf("tracks code = %d", code)
	}
	if diff := cmp.Diff([]attention.TrackResult{tr}, tracks); diff != "" {
		t.Errorf("tracks mismatch (-want +got):\n%s", diff)
	}
}

func TestServer_AlertsHistory(t *testing.T) {
	s := NewServer("127.0.0.1:0")
	for i := 0; i < alertHistory+5; i++ {
		s.PublishFrame(frame(t0.Add(time.Duration(i)*time.Second),
			attention.TrackResult{ID: i, StableMood: attention.MoodSleepy, Alert: attention.AlertSleepy},
		))
	}

	var all []alert.Alert
	getJSON(t, s, "/api/alerts", &all)
	if len(all) != alertHistory {
		t.Fatalf("alerts = %d, want %d", len(all), alertHistory)
	}
	if all[0].TrackID != 5 || all[len(all)-1].TrackID != alertHistory+4 {
		t.Errorf("history window = [%d..%d], want [5..%d]", all[0].TrackID, all[len(all)-1].TrackID, alertHistory+4)
	}

	var last []alert.Alert
	getJSON(t, s, "/api/alerts?limit=2", &last)
	if len(last) != 2 || last[1].TrackID != alertHistory+4 {
		t.Errorf("limit=2 returned %+v", last)
	}

	if code := getJSON(t, s, "/api/alerts?limit=-1", nil); code != 400 {
		t.Errorf("limit=-1 code = %d, want 400", code)
	}
	if got := s.Status().Alerts; got != alertHistory+5 {
		t.Errorf("Status().Alerts = %d, want %d", got, alertHistory+5)
	}
}

func TestServer_Config(t *testing.T) {
	s := NewServer("127.0.0.1:0")
	if code := getJSON(t, s, "/api/config", nil); code != 404 {
		t.Errorf("config without value code = %d, want 404", code)
	}

	s = NewServer("127.0.0.1:0", WithConfig(map[string]string{"anchor": "corner"}))
	var got map[string]string
	if code := getJSON(t, s, "/api/config", &got); code != 200 {
		t.Fatalf("config code = %d", code)
	}
	if got["anchor"] != "corner" {
		t.Errorf("config = %v", got)
	}
}

func TestServer_WebsocketRequiresUpgrade(t *testing.T) {
	s := NewServer("127.0.0.1:0")
	if code := getJSON(t, s, "/ws/frames", nil); code != 426 {
		t.Errorf("plain GET /ws/frames code = %d, want 426", code)
	}
}

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := l.Addr().String()
	l.Close()
	return addr
}

func dialWS(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	var (
		conn *websocket.Conn
		err  error
	)
	for i := 0; i < 50; i++ {
		conn, _, err = websocket.DefaultDialer.Dial(url, nil)
		if err == nil {
			t.Cleanup(func() { _ = conn.Close() })
			return conn
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("Dial(%s) error = %v", url, err)
	return nil
}

func TestServer_FramesAndAlertsStream(t *testing.T) {
	addr := freeAddr(t)
	s := NewServer(addr)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	// A frame published before anyone subscribes becomes the greeting.
	s.PublishFrame(frame(t0, attention.TrackResult{ID: 1, StableMood: attention.MoodFocus}))

	frames := dialWS(t, fmt.Sprintf("ws://%s/ws/frames", addr))
	alerts := dialWS(t, fmt.Sprintf("ws://%s/ws/alerts", addr))

	var greeting attention.FrameResult
	_ = frames.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := frames.ReadJSON(&greeting); err != nil {
		t.Fatalf("read greeting: %v", err)
	}
	if len(greeting.Tracks) != 1 || greeting.Tracks[0].ID != 1 {
		t.Errorf("greeting = %+v", greeting)
	}

	deadline := time.Now().Add(2 * time.Second)
	for s.alertHub.ClientCount() == 0 || s.frameHub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscribers never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	s.PublishFrame(frame(t0.Add(3*time.Second),
		attention.TrackResult{ID: 1, StableMood: attention.MoodSleepy, StableChanged: true, Alert: attention.AlertSleepy},
	))

	// The first frame may arrive again as a broadcast queued before the hub
	// started; skip until the alerting frame shows up.
	_ = frames.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var next attention.FrameResult
		if err := frames.ReadJSON(&next); err != nil {
			t.Fatalf("read frame: %v", err)
		}
		if len(next.Tracks) == 1 && next.Tracks[0].Alert == attention.AlertSleepy {
			break
		}
	}

	var a alert.Alert
	_ = alerts.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := alerts.ReadJSON(&a); err != nil {
		t.Fatalf("read alert: %v", err)
	}
	want := alert.Alert{TrackID: 1, Kind: attention.AlertSleepy, At: t0.Add(3 * time.Second)}
	if diff := cmp.Diff(want, a); diff != "" {
		t.Errorf("alert mismatch (-want +got):\n%s", diff)
	}
}
