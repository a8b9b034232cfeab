package agent

import (
	"context"
	"ecosystem-server/pkg/api"
	"ecosystem-server/pkg/logger"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestMain(m *testing.M) {
	logger.Init()
	logger.Log.SetOutput(io.Discard)

	os.Exit(m.Run())
}

// streamServer answers /ws with the given reports, then closes normally.
func streamServer(t *testing.T, reports ...api.TickReport) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws" || r.URL.Query().Get("ecosystem") != "eco-1" {
			http.NotFound(w, r)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for _, rep := range reports {
			if err := conn.WriteJSON(rep); err != nil {
				return
			}
		}
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"))
		// Wait for the client to answer the close
		_ = conn.SetReadDeadline(time.Now().Add(time.Second))
		_, _, _ = conn.ReadMessage()
	}))
}

func report(ticks, organisms, plants int, types ...string) api.TickReport {
	r := api.TickReport{Type: "TICK", EcosystemID: "eco-1", Ticks: ticks, Organisms: organisms, Plants: plants}
	for i, typ := range types {
		r.Logs = append(r.Logs, api.LogEntry{Seq: i + 1, Type: typ, Text: typ})
	}
	return r
}

func TestNewWatcher_URL(t *testing.T) {
	tests := []struct {
		base string
		want string
		err  bool
	}{
		{"http://localhost:8080", "ws://localhost:8080/ws?ecosystem=eco-1", false},
		{"https://eco.example.com/api/", "wss://eco.example.com/api/ws?ecosystem=eco-1", false},
		{"ftp://localhost", "", true},
	}
	for _, tt := range tests {
		w, err := NewWatcher(tt.base, "eco-1", nil)
		if tt.err {
			if err == nil {
				t.Errorf("%s: expected an error", tt.base)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: %v", tt.base, err)
		}
		if w.URL != tt.want {
			t.Errorf("NewWatcher(%s).URL = %s, want %s", tt.base, w.URL, tt.want)
		}
	}
}

func TestWatcher_Run(t *testing.T) {
	ts := streamServer(t,
		report(1, 5, 3, "FOOD", "COMBAT"),
		report(3, 8, 2, "BIRTH"),
		report(1, 0, 2, "DEATH", "DEATH"),
	)
	defer ts.Close()

	var seen []int
	w, err := NewWatcher(ts.URL, "eco-1", func(r api.TickReport, tr Trend) {
		seen = append(seen, tr.Reports)
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := w.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(seen) != 3 || seen[2] != 3 {
		t.Fatalf("Expected 3 handled reports, got %v", seen)
	}
	tr := w.Trend()
	if tr.Ticks != 5 || tr.PeakOrganisms != 8 || tr.OrganismDelta() != -5 || tr.LastPlants != 2 {
		t.Errorf("Unexpected trend: %+v", tr)
	}
	if !tr.Collapsed {
		t.Error("Expected the collapse to be noticed")
	}
	if tr.Outcomes["DEATH"] != 2 || tr.Outcomes["FOOD"] != 1 {
		t.Errorf("Unexpected outcome counts: %v", tr.Outcomes)
	}
}

func TestWatcher_UnknownEcosystem(t *testing.T) {
	ts := streamServer(t)
	defer ts.Close()

	w, err := NewWatcher(ts.URL, "missing", nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Run(context.Background()); err == nil {
		t.Error("Expected the dial to fail")
	}
}
