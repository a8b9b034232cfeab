package main

import (
	"context"
	"ecosystem-server/internal/engine"
	"ecosystem-server/internal/infrastructure/storage"
	"ecosystem-server/internal/telemetry"
	"fmt"
	"os"
	"time"
)

func main() {
	if len(os.Args) < 3 {
		printHelp()
		return
	}

	db, err := storage.OpenSQLite(os.Args[2])
	if err != nil {
		fmt.Printf("Cannot open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()
	ctx := context.Background()

	switch os.Args[1] {
	case "list":
		if len(os.Args) < 4 {
			fmt.Println("Usage: simexport list <db> <ecosystem_id>")
			return
		}
		records, err := db.Simulations(ctx, os.Args[3])
		if err != nil {
			fmt.Printf("Cannot read simulations: %v\n", err)
			return
		}
		for _, rec := range records {
			fmt.Printf("%s  %s  seed=%d  ticks=%d  outcomes=%d\n",
				rec.ID, rec.CreatedAt.Format(time.RFC3339), rec.Seed, rec.Ticks, len(rec.Outcomes))
		}
	case "export":
		if len(os.Args) < 5 {
			fmt.Println("Usage: simexport export <db> <ecosystem_id> <simulation_id>")
			return
		}
		rec, err := findRecord(ctx, db, os.Args[3], os.Args[4])
		if err != nil {
			fmt.Println(err)
			return
		}
		if err := telemetry.WriteOutcomesCSV(os.Stdout, rec.Outcomes); err != nil {
			fmt.Printf("Export failed: %v\n", err)
		}
	case "census":
		if len(os.Args) < 4 {
			fmt.Println("Usage: simexport census <db> <ecosystem_id>")
			return
		}
		eco, err := db.Get(ctx, os.Args[3])
		if err != nil {
			fmt.Println(err)
			return
		}
		if err := telemetry.WriteCensusCSV(os.Stdout, telemetry.TakeCensus(eco)); err != nil {
			fmt.Printf("Export failed: %v\n", err)
		}
	default:
		printHelp()
	}
}

func findRecord(ctx context.Context, db *storage.SQLiteStore, ecosystemID, id string) (engine.SimulationRecord, error) {
	records, err := db.Simulations(ctx, ecosystemID)
	if err != nil {
		return engine.SimulationRecord{}, fmt.Errorf("cannot read simulations: %w", err)
	}
	for _, rec := range records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return engine.SimulationRecord{}, fmt.Errorf("simulation %s not found in ecosystem %s", id, ecosystemID)
}

func printHelp() {
	fmt.Println(`Simulation export - reads the archive of a sqlite database
Commands:
  list <db> <ecosystem_id>                    - archived simulations of an ecosystem
  export <db> <ecosystem_id> <simulation_id>  - outcomes of one simulation as CSV
  census <db> <ecosystem_id>                  - current species census as CSV`)
}
