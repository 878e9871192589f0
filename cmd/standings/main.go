// Command standings runs the aggregation core over a season dump on disk and
// prints the championship tables. Useful for eyeballing a season's data
// without standing up the HTTP service.
//
// Usage:
//
//	go run ./cmd/standings -input season_2025.json [-constructors]
//
// The input file holds the raw driver point records the telemetry exporter
// produces: {"driver_entries": [{"driver_name": ..., "team": ...,
// "points": ..., "sprint_points": ...}, ...]}.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sourabhpal/f1-dashboard/internal/domain/normalize"
	"github.com/sourabhpal/f1-dashboard/internal/domain/standings"
)

type seasonDump struct {
	DriverEntries []normalize.Raw `json:"driver_entries"`
}

func main() {
	input := flag.String("input", "", "path to a season JSON dump")
	constructors := flag.Bool("constructors", false, "print constructor standings instead of driver standings")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "usage: standings -input season.json [-constructors]")
		os.Exit(2)
	}

	raw, err := os.ReadFile(*input)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read input:", err)
		os.Exit(1)
	}
	var dump seasonDump
	if err := json.Unmarshal(raw, &dump); err != nil {
		fmt.Fprintln(os.Stderr, "parse input:", err)
		os.Exit(1)
	}

	res := normalize.DriverEntries(dump.DriverEntries)
	for _, r := range res.Rejected {
		fmt.Fprintf(os.Stderr, "rejected record %d (%s): %s\n", r.Index, r.Field, r.Reason)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)

	if *constructors {
		t.AppendHeader(table.Row{"#", "Team", "Points", "Drivers"})
		for _, row := range standings.RankConstructors(res.Records) {
			drivers := ""
			for i, d := range row.Drivers {
				if i > 0 {
					drivers += ", "
				}
				drivers += d
			}
			t.AppendRow(table.Row{row.Rank, row.Team, fmt.Sprintf("%.1f", row.TotalPoints), drivers})
		}
	} else {
		t.AppendHeader(table.Row{"#", "Driver", "Team", "Race", "Sprint", "Total"})
		for _, row := range standings.RankDrivers(res.Records) {
			t.AppendRow(table.Row{
				row.Rank,
				row.DriverName,
				row.Team,
				fmt.Sprintf("%.1f", row.Points),
				fmt.Sprintf("%.1f", row.SprintPoints),
				fmt.Sprintf("%.1f", row.TotalPoints),
			})
		}
	}
	t.Render()
}
