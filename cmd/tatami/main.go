package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/mlehner/tatami/internal/engine"
	"github.com/mlehner/tatami/internal/event"
	"github.com/mlehner/tatami/internal/export"
	"github.com/mlehner/tatami/internal/logging"
	"github.com/mlehner/tatami/internal/schedule"
	"github.com/mlehner/tatami/internal/server"
)

const defaultEventFile = "event.yaml"

func resolveEventPath(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if _, err := os.Stat(defaultEventFile); err == nil {
		return defaultEventFile, nil
	}
	return "", fmt.Errorf("no event file found. Either create %s in the current directory or pass --event", defaultEventFile)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "tatami",
		Short: "Tournament mat schedule generator",
	}

	var initOutputPath string
	initCmd := &cobra.Command{
		Use:          "init",
		Short:        "Create a starter event.yaml in the current directory",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(initOutputPath)
		},
	}
	initCmd.Flags().StringVarP(&initOutputPath, "output", "o", defaultEventFile, "Output path for the event file")

	var eventFile string
	var outputFile string
	var csvFile string
	var jsonFile string
	var genLogLevel string
	var randomIDs bool
	generateCmd := &cobra.Command{
		Use:          "generate",
		Short:        "Generate a schedule from an event file",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			eventPath, err := resolveEventPath(eventFile)
			if err != nil {
				return err
			}
			return runGenerate(eventPath, outputFile, csvFile, jsonFile, genLogLevel, randomIDs)
		},
	}
	generateCmd.Flags().StringVar(&eventFile, "event", "", "Path to event file (default: event.yaml in current directory)")
	generateCmd.Flags().StringVarP(&outputFile, "output", "o", "schedule.xlsx", "Output Excel file path")
	generateCmd.Flags().StringVar(&csvFile, "csv", "", "Also write entries as CSV to this path")
	generateCmd.Flags().StringVar(&jsonFile, "json", "", "Also write the full schedule as JSON to this path")
	generateCmd.Flags().StringVar(&genLogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	generateCmd.Flags().BoolVar(&randomIDs, "random-ids", false, "Use globally unique entry/match ids instead of the reproducible sequential ids")

	var addr, logLevel, logFormat string
	serveCmd := &cobra.Command{
		Use:          "serve",
		Short:        "Run the scheduling HTTP API",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(addr, logLevel, logFormat)
		},
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	serveCmd.Flags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")

	rootCmd.AddCommand(initCmd, generateCmd, serveCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runInit(outputPath string) error {
	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Errorf("%s already exists; remove it first or use -o to write elsewhere", outputPath)
	}

	if err := os.WriteFile(outputPath, []byte(eventTemplate), 0644); err != nil {
		return fmt.Errorf("writing event file: %w", err)
	}

	fmt.Printf("✓ Created %s\n", outputPath)
	return nil
}

const eventTemplate = `# Tatami Event Configuration
# ==========================
# Defines one tournament day: areas, groups, athletes, and timing.

name: "Spring Open"
date: "2026-04-18"

# Timing. All values in seconds except the window bounds ("HH:MM", 24h).
match_duration_seconds: 180   # length of one fight
rotation_seconds: 30          # changeover gap between fights on the same area
window_start: "09:00"
window_end: "17:00"
min_rest_seconds: 300         # minimum rest per athlete between fights

# Strategy:
#   timeboxed  - greedy clock-driven selection; best approximately-fair subset
#                when a full round-robin does not fit (default)
#   roundrobin - legacy complete round-robin, rounds interleaved across groups
strategy: timeboxed

# cycles repeats the full round-robin (roundrobin strategy only).
cycles: 1

# Areas are physical mats with independent timelines. Groups with fewer than
# two athletes are skipped with a warning. IDs are optional; stable ordinal
# ids are assigned when omitted.
areas:
  - name: "Mat 1"
    groups:
      - name: "U18 -66kg"
        athletes:
          - name: "Aiko Tanaka"
          - name: "Bela Kovacs"
          - name: "Carlos Mendes"
          - name: "Daan Visser"
      - name: "U18 -73kg"
        athletes:
          - name: "Emil Berg"
          - name: "Felix Novak"
          - name: "Goran Ilic"
  - name: "Mat 2"
    groups:
      - name: "Seniors -81kg"
        athletes:
          - name: "Hugo Lindt"
          - name: "Ivan Petrov"
          - name: "Jonas Weber"
          - name: "Karim Haddad"
          - name: "Luca Moretti"
`

func runGenerate(eventPath, outputPath, csvPath, jsonPath, logLevel string, randomIDs bool) error {
	ev, err := event.LoadFromFile(eventPath)
	if err != nil {
		return fmt.Errorf("loading event: %w", err)
	}

	opts := []engine.Option{engine.WithLogger(logging.New(logging.ParseLevel(logLevel), "text"))}
	if randomIDs {
		opts = append(opts, engine.WithIDSource(schedule.RandomIDs{}))
	}

	sched, schedErr := engine.Generate(ev, opts...)
	if schedErr != nil {
		if sched != nil {
			for _, w := range sched.Warnings {
				fmt.Fprintf(os.Stderr, "✗ %s\n", w.Message)
			}
		}
		return schedErr
	}

	fmt.Printf("✓ Scheduled %d matches across %d area(s)\n", len(sched.Entries), len(ev.Areas))

	fmt.Println("\nPer Athlete Metrics:")
	fmt.Printf("  %-20s %7s %9s %10s\n", "Athlete", "Matches", "Min Rest", "Violations")
	for _, ar := range sched.Stats.Athletes {
		minRest := "-"
		if ar.Matches > 1 {
			minRest = event.FormatClock(ar.MinRestSeconds)
		}
		fmt.Printf("  %-20s %7d %9s %10d\n", ar.AthleteName, ar.Matches, minRest, ar.Violations)
	}

	if sched.Stats.Fairness != nil {
		f := sched.Stats.Fairness
		fmt.Printf("\nFairness: gap %d, completeness %.0f%%, %d rematch(es), %.0f%% time used\n",
			f.Gap, f.CompletenessPct, f.RematchCount, 100*f.TimeUtilization)
	}

	if len(sched.Warnings) > 0 {
		fmt.Printf("\nWarnings (%d):\n", len(sched.Warnings))
		for _, w := range sched.Warnings {
			fmt.Printf("  ⚠ [%s] %s\n", w.Kind, w.Message)
		}
	} else {
		fmt.Println("\n✓ No warnings")
	}

	f, err := export.Excel(ev, sched)
	if err != nil {
		return fmt.Errorf("generating Excel: %w", err)
	}
	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("saving file: %w", err)
	}
	fmt.Printf("\n✓ Schedule saved to %s\n", outputPath)

	if csvPath != "" {
		if err := writeTo(csvPath, func(out *os.File) error { return export.CSV(out, sched) }); err != nil {
			return fmt.Errorf("writing CSV: %w", err)
		}
		fmt.Printf("✓ Entries saved to %s\n", csvPath)
	}
	if jsonPath != "" {
		if err := writeTo(jsonPath, func(out *os.File) error { return export.JSON(out, sched) }); err != nil {
			return fmt.Errorf("writing JSON: %w", err)
		}
		fmt.Printf("✓ Schedule saved to %s\n", jsonPath)
	}
	return nil
}

func writeTo(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runServe(addr, logLevel, logFormat string) error {
	logger := logging.New(logging.ParseLevel(logLevel), logFormat)
	srv := server.New(logger)
	logger.Info("listening", "addr", addr)
	return http.ListenAndServe(addr, srv)
}
