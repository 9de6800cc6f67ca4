package main

import (
	"fmt"
	"log"
	"os"

	"github.com/dargueta/rle3"
	"github.com/urfave/cli/v2"
)

func main() {
	err := newApp().Run(os.Args)
	if err != nil {
		log.Fatalf("fatal error: %s", err.Error())
	}
}

func newApp() *cli.App {
	forceFlag := &cli.BoolFlag{
		Name:    "force",
		Aliases: []string{"f"},
		Usage:   "Overwrite the output file if it already exists",
	}

	return &cli.App{
		Name:  "rle3",
		Usage: "Apply or invert the move-to-front + run-length transform",
		// Only reached when no command was given, or an unknown one.
		Action: missingCommand,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Don't print a summary when done",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "transform",
				Aliases:   []string{"t"},
				Usage:     "Transform a raw file into an RLE3 container",
				ArgsUsage: "INPUT_FILE  OUTPUT_FILE",
				Flags:     []cli.Flag{forceFlag},
				Action:    transformFile,
			},
			{
				Name:      "invert",
				Aliases:   []string{"i"},
				Usage:     "Restore the original file from an RLE3 container",
				ArgsUsage: "INPUT_FILE  OUTPUT_FILE",
				Flags:     []cli.Flag{forceFlag},
				Action:    invertFile,
			},
			{
				Name:      "stats",
				Usage:     "Print CSV statistics about how raw files would transform",
				ArgsUsage: "FILE...",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "no-header",
						Usage: "Omit the CSV header row",
					},
				},
				Action: printStats,
			},
		},
	}
}

func missingCommand(context *cli.Context) error {
	cli.ShowAppHelp(context)
	if context.NArg() > 0 {
		return rle3.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("unknown command `%s`", context.Args().First()),
		)
	}
	return rle3.ErrInvalidArgument.WithMessage("no command given")
}
