package common

import (
	"context"
	"fmt"
	"io"

	"resumescan/internal/errors"
	"resumescan/internal/observability"
)

// CreateInputFunc builds the operation input from extracted document texts,
// in the order the files were given.
type CreateInputFunc[Input any] func(contents []string) (Input, error)

// LogDetailsFunc defines how to log the start of an operation.
type LogDetailsFunc[Input any] func(input Input, cfg CommandConfig)

// OperationFunc runs the command's work on its input.
type OperationFunc[Input, Output any] func(context.Context, Input) (Output, error)

// Runner carries what every document command needs
type Runner struct {
	Logger  *errors.Logger
	Metrics *observability.Metrics
	// Stdout receives formatted output when no output file is configured
	Stdout io.Writer
}

// RunDocumentCommand reads and extracts files, runs operation on them and
// writes the formatted result. Empty file names are optional inputs left out.
func RunDocumentCommand[Input, Output any](
	ctx context.Context,
	runner Runner,
	cmdConfig CommandConfig,
	files []string,
	createInput CreateInputFunc[Input],
	operation OperationFunc[Input, Output],
	logDetails LogDetailsFunc[Input],
) (Output, error) {
	var zero Output

	fileProcessor := NewFileProcessor(runner.Logger, runner.Metrics)
	outputHandler := NewOutputHandlerTo(runner.Stdout, runner.Logger)

	// fail before doing any work if the output cannot be written
	if err := fileProcessor.ValidateOutputFile(cmdConfig.OutputFile); err != nil {
		return zero, err
	}

	contents, err := fileProcessor.ReadDocuments(ctx, files...)
	if err != nil {
		return zero, err
	}

	input, err := createInput(contents)
	if err != nil {
		return zero, fmt.Errorf("failed to create input from file contents: %w", err)
	}

	if logDetails != nil {
		logDetails(input, cmdConfig)
	}

	result, err := operation(ctx, input)
	if err != nil {
		return zero, err
	}

	return result, outputHandler.HandleOutput(result, cmdConfig)
}
