package main

import (
	"fmt"
	"os"

	"github.com/dargueta/rle3"
	"github.com/dargueta/rle3/utilities/compression"
	"github.com/gocarina/gocsv"
	"github.com/urfave/cli/v2"
)

// statsRow is one line of the CSV report produced by the `stats` command.
type statsRow struct {
	File              string  `csv:"file"`
	RawBytes          int     `csv:"raw_bytes"`
	TokenBytes        int     `csv:"token_bytes"`
	ShortBytes        int     `csv:"short_bytes"`
	ContinuationBytes int     `csv:"continuation_bytes"`
	ContainerBytes    int     `csv:"container_bytes"`
	Runs              int     `csv:"runs"`
	OverflowRuns      int     `csv:"overflow_runs"`
	LongestRun        int     `csv:"longest_run"`
	Ratio             float64 `csv:"ratio"`
}

func newStatsRow(name string, raw []byte) statsRow {
	container, stats := compression.NewContainer(raw)

	row := statsRow{
		File:              name,
		RawBytes:          stats.RawLength,
		TokenBytes:        len(container.Channels.Tokens),
		ShortBytes:        len(container.Channels.Short),
		ContinuationBytes: len(container.Channels.Continuation),
		ContainerBytes:    container.Size(),
		Runs:              stats.Runs,
		OverflowRuns:      stats.OverflowRuns,
		LongestRun:        stats.LongestRun,
	}
	if row.RawBytes > 0 {
		row.Ratio = float64(row.ContainerBytes) / float64(row.RawBytes)
	}
	return row
}

func printStats(context *cli.Context) error {
	if context.NArg() == 0 {
		return rle3.ErrInvalidArgument.WithMessage("stats needs at least one file")
	}

	rows := make([]statsRow, 0, context.NArg())
	for _, path := range context.Args().Slice() {
		raw, err := os.ReadFile(path)
		if err != nil {
			return rle3.ErrIOFailed.WithMessage(
				fmt.Sprintf("failed to read `%s`", path),
			).Wrap(err)
		}
		rows = append(rows, newStatsRow(path, raw))
	}

	var err error
	if context.Bool("no-header") {
		err = gocsv.MarshalWithoutHeaders(&rows, context.App.Writer)
	} else {
		err = gocsv.Marshal(&rows, context.App.Writer)
	}
	if err != nil {
		return rle3.ErrIOFailed.Wrap(err)
	}
	return nil
}
