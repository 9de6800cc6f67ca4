package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dargueta/rle3"
	"github.com/dargueta/rle3/utilities/compression"
	"github.com/hashicorp/go-multierror"
	"github.com/urfave/cli/v2"
)

type streamOperation func(input io.Reader, output io.Writer) (int64, error)

func transformFile(context *cli.Context) error {
	return runFileOperation(context, "Transformed", compression.Transform)
}

func invertFile(context *cli.Context) error {
	return runFileOperation(context, "Inverted", compression.Invert)
}

// runFileOperation reads the file named by the first argument, runs it through
// `operation`, and writes the result to the file named by the second argument.
// If anything fails, the output file is removed.
func runFileOperation(context *cli.Context, verb string, operation streamOperation) error {
	if context.NArg() != 2 {
		return rle3.ErrInvalidArgument.WithMessage(
			fmt.Sprintf(
				"expected an input and an output file, got %d arguments; usage: %s %s",
				context.NArg(),
				context.Command.FullName(),
				context.Command.ArgsUsage,
			),
		)
	}

	sourceFilePath := context.Args().Get(0)
	outputFilePath := context.Args().Get(1)

	written, err := processFile(sourceFilePath, outputFilePath, context.Bool("force"), operation)
	if err != nil {
		return err
	}

	if !context.Bool("quiet") {
		fmt.Fprintf(
			context.App.Writer,
			"%s `%s` to %d bytes.\n",
			verb,
			sourceFilePath,
			written,
		)
	}
	return nil
}

func processFile(
	sourceFilePath, outputFilePath string, overwrite bool, operation streamOperation,
) (written int64, err error) {
	sourceFile, err := os.Open(sourceFilePath)
	if err != nil {
		return 0, rle3.ErrIOFailed.WithMessage(
			fmt.Sprintf("failed to open file for reading: `%s`", sourceFilePath),
		).Wrap(err)
	}
	defer sourceFile.Close()

	// Truncating the output would destroy the input before we read it.
	sourceInfo, err := sourceFile.Stat()
	if err != nil {
		return 0, rle3.ErrIOFailed.WithMessage(
			fmt.Sprintf("failed to stat `%s`", sourceFilePath),
		).Wrap(err)
	}
	outputInfo, err := os.Stat(outputFilePath)
	if err == nil && os.SameFile(sourceInfo, outputInfo) {
		return 0, rle3.ErrInvalidArgument.WithMessage(
			fmt.Sprintf(
				"input `%s` and output `%s` are the same file",
				sourceFilePath,
				outputFilePath,
			),
		)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}
	outFile, err := os.OpenFile(outputFilePath, flags, 0o644)
	if err != nil {
		return 0, rle3.ErrIOFailed.WithMessage(
			fmt.Sprintf("failed to open file for writing: `%s`", outputFilePath),
		).Wrap(err)
	}

	defer func() {
		closeErr := outFile.Close()
		if closeErr != nil {
			err = multierror.Append(err, rle3.ErrIOFailed.Wrap(closeErr))
		}
		if err != nil {
			os.Remove(outputFilePath)
		}
	}()

	return operation(sourceFile, outFile)
}
