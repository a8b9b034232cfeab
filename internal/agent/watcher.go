// Package agent holds headless clients of the ecosystem server.
package agent

import (
	"context"
	"ecosystem-server/pkg/api"
	"ecosystem-server/pkg/logger"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Watcher is an external client of the tick stream. It connects the way any
// browser would, keeps a running picture of the ecosystem from the reports it
// receives and hands every report to Handle.
//
// Lifecycle:
//  1. NewWatcher builds the stream URL of the ecosystem.
//  2. Run dials, then reads reports until the server closes the stream or ctx ends.
//  3. Each report updates Trend before Handle sees it.
type Watcher struct {
	URL         string
	EcosystemID string
	Handle      func(api.TickReport, Trend)
	Dialer      *websocket.Dialer

	trend Trend
	log   *logrus.Entry
}

// Trend is what the watcher learned from the reports so far.
type Trend struct {
	Reports int
	Ticks   int

	FirstOrganisms, LastOrganisms int
	FirstPlants, LastPlants       int
	PeakOrganisms                 int

	// Outcomes counts the log entries of every report by type.
	Outcomes map[string]int
	// Collapsed is set once a report shows no organism left.
	Collapsed bool
}

// OrganismDelta is the population change since the first report.
func (t Trend) OrganismDelta() int {
	return t.LastOrganisms - t.FirstOrganisms
}

// NewWatcher derives the WebSocket address from the server's HTTP base URL.
func NewWatcher(serverURL, ecosystemID string, handle func(api.TickReport, Trend)) (*Watcher, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws", "":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"
	u.RawQuery = url.Values{"ecosystem": {ecosystemID}}.Encode()

	return &Watcher{
		URL:         u.String(),
		EcosystemID: ecosystemID,
		Handle:      handle,
		Dialer:      websocket.DefaultDialer,
		trend:       Trend{Outcomes: make(map[string]int)},
		log:         logger.Log.WithFields(logrus.Fields{"component": "watcher", "ecosystem": ecosystemID}),
	}, nil
}

// Run streams reports until the server closes the connection or ctx is done.
// A normal close or a cancelled ctx returns nil.
func (w *Watcher) Run(ctx context.Context) error {
	conn, resp, err := w.Dialer.DialContext(ctx, w.URL, nil)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("dial %s: %w (status %d)", w.URL, err, resp.StatusCode)
		}
		return fmt.Errorf("dial %s: %w", w.URL, err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "watcher stopped"))
		_ = conn.Close()
	})
	defer stop()

	w.log.Info("Watching tick stream")
	for {
		var report api.TickReport
		if err := conn.ReadJSON(&report); err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) {
				return nil
			}
			return fmt.Errorf("read report: %w", err)
		}
		w.observe(report)
		if w.Handle != nil {
			w.Handle(report, w.Trend())
		}
	}
}

// Trend returns a copy of the running picture.
func (w *Watcher) Trend() Trend {
	t := w.trend
	t.Outcomes = make(map[string]int, len(w.trend.Outcomes))
	for k, v := range w.trend.Outcomes {
		t.Outcomes[k] = v
	}
	return t
}

func (w *Watcher) observe(r api.TickReport) {
	t := &w.trend
	if t.Reports == 0 {
		t.FirstOrganisms = r.Organisms
		t.FirstPlants = r.Plants
	}
	t.Reports++
	t.Ticks += r.Ticks
	t.LastOrganisms = r.Organisms
	t.LastPlants = r.Plants
	t.PeakOrganisms = max(t.PeakOrganisms, r.Organisms)
	for _, entry := range r.Logs {
		t.Outcomes[entry.Type]++
	}

	if r.Organisms == 0 && !t.Collapsed {
		t.Collapsed = true
		w.log.WithFields(logrus.Fields{
			"day":  r.Clock.Day,
			"year": r.Clock.Year,
		}).Warn("No organism left in the ecosystem")
	}
}
