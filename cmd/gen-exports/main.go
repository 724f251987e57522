package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/loadpulse/loadpulse/internal/sampledata"
	"github.com/loadpulse/loadpulse/pkg/logger"
)

// Default configuration constants.
const (
	defaultLoadDir     = "data/loads"
	defaultWellnessDir = "data/wellness"
	defaultAthletes    = "Avery Jones,Maya Kim,Liam Chen,Sofia Reyes,Noah Petrov,Emma Larsen"
	defaultDays        = 28
	defaultSeed        = 1
	defaultFormat      = sampledata.FormatXLSX
	defaultTimeout     = time.Minute
)

func main() {
	var (
		loadDir     = flag.String("loads", defaultLoadDir, "Directory for training load exports")
		wellnessDir = flag.String("wellness", defaultWellnessDir, "Directory for wellness survey exports")
		athletes    = flag.String("athletes", defaultAthletes, "Comma-separated athlete roster")
		days        = flag.Int("days", defaultDays, "Number of days to generate, ending at the anchor date")
		anchor      = flag.String("anchor", "", "Last generated day as YYYY-MM-DD (default: today)")
		seed        = flag.Int64("seed", defaultSeed, "Random seed; the same seed reproduces the same exports")
		format      = flag.String("format", defaultFormat, "Export format: xlsx or csv")
	)
	flag.Parse()

	// Setup logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("Failed to initialize logging: " + err.Error() + "\n")
		return
	}

	anchorDay := time.Now().UTC()
	if *anchor != "" {
		parsed, err := time.Parse("2006-01-02", *anchor)
		if err != nil {
			os.Stderr.WriteString("Invalid anchor date: " + err.Error() + "\n")
			return
		}
		anchorDay = parsed
	}

	roster := make([]string, 0)
	for _, name := range strings.Split(*athletes, ",") {
		if name = strings.TrimSpace(name); name != "" {
			roster = append(roster, name)
		}
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	config := &sampledata.Config{
		LoadDir:     *loadDir,
		WellnessDir: *wellnessDir,
		Athletes:    roster,
		Days:        *days,
		Anchor:      anchorDay,
		Seed:        *seed,
		Format:      *format,
	}

	if _, err := sampledata.Generate(ctx, config); err != nil {
		os.Stderr.WriteString("Generation failed: " + err.Error() + "\n")
		return
	}
}
