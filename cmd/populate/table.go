package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/soapbox/bible-verses/internal/database"
	"github.com/soapbox/bible-verses/internal/processor"
)

func renderStats(out io.Writer, stats *database.Statistics) error {
	fmt.Fprintln(out, "\n=== Database Statistics ===")

	table := tablewriter.NewWriter(out)
	table.Header("Translation", "Total", "Authentic", "Placeholder")
	for _, ts := range stats.ByTranslation {
		if err := table.Append([]string{
			ts.Translation,
			strconv.Itoa(ts.Total),
			strconv.Itoa(ts.Authentic),
			strconv.Itoa(ts.Placeholder),
		}); err != nil {
			return err
		}
	}
	if err := table.Append([]string{
		"ALL",
		strconv.Itoa(stats.TotalVerses),
		strconv.Itoa(stats.AuthenticVerses),
		strconv.Itoa(stats.PlaceholderVerses),
	}); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintf(out, "Distinct references: %d\n", stats.DistinctReferences)
	return nil
}

func renderReport(out io.Writer, report *processor.Report) error {
	fmt.Fprintln(out, "\n=== Run Summary ===")

	table := tablewriter.NewWriter(out)
	table.Header("Planned", "Generated", "Written", "Failed", "Batches", "Fallbacks", "Upgraded", "Duration")
	if err := table.Append([]string{
		strconv.Itoa(report.Total),
		strconv.Itoa(report.Generated),
		strconv.Itoa(report.Written),
		strconv.Itoa(report.Failed),
		strconv.Itoa(report.Batches),
		strconv.Itoa(report.Fallbacks),
		strconv.Itoa(report.Upgraded),
		report.Duration.Round(time.Millisecond).String(),
	}); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	for _, f := range report.Failures {
		fmt.Fprintf(out, "failed: %s (%s): %v\n", f.Reference, f.Translation, f.Err)
	}
	return nil
}
