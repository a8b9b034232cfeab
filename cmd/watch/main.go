package main

import (
	"context"
	"ecosystem-server/internal/agent"
	"ecosystem-server/pkg/api"
	"ecosystem-server/pkg/logger"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
)

func init() {
	logger.Init()
}

func main() {
	var (
		serverURL   string
		ecosystemID string
		verbose     bool
	)
	flag.StringVar(&serverURL, "server", "http://localhost:8080", "Base URL of the ecosystem server")
	flag.StringVar(&ecosystemID, "ecosystem", "", "ID of the ecosystem to watch")
	flag.BoolVar(&verbose, "v", false, "Print every log entry of each report")
	flag.Parse()

	if ecosystemID == "" {
		logger.Log.Fatal("-ecosystem is required")
	}

	w, err := agent.NewWatcher(serverURL, ecosystemID, func(r api.TickReport, t agent.Trend) {
		logger.Log.WithFields(logrus.Fields{
			"ticks":     r.Ticks,
			"cycle":     r.Clock.Cycle,
			"day":       r.Clock.Day,
			"year":      r.Clock.Year,
			"water":     r.Clock.WaterAvailable,
			"organisms": r.Organisms,
			"plants":    r.Plants,
			"delta":     t.OrganismDelta(),
		}).Info("Tick report")
		if verbose {
			for _, entry := range r.Logs {
				logger.Log.Infof("  [%s] %s", entry.Type, entry.Text)
			}
		}
	})
	if err != nil {
		logger.Log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := w.Run(ctx); err != nil {
		logger.Log.Fatal(err)
	}

	t := w.Trend()
	logger.Log.WithFields(logrus.Fields{
		"reports":   t.Reports,
		"ticks":     t.Ticks,
		"peak":      t.PeakOrganisms,
		"collapsed": t.Collapsed,
		"outcomes":  t.Outcomes,
	}).Info("Stream closed")
}
