package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/svglayout/pkg/core/validate"
	"github.com/matzehuels/svglayout/pkg/errors"
	docio "github.com/matzehuels/svglayout/pkg/io"
)

type validateOpts struct {
	validation validationFlags
	output     string
	jsonOut    bool
	workers    int
}

func (c *CLI) validateCommand() *cobra.Command {
	var opts validateOpts

	cmd := &cobra.Command{
		Use:   "validate <doc> [doc...]",
		Short: "Validate and sanitize documents",
		Long: `Validate checks each document against the document schema, rounds and
clamps coordinates, parses layout blocks and reports errors and warnings.

With a single document, -o writes the sanitized document (JSON or YAML by
extension). Several documents are validated in parallel.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vopts := opts.validation.apply(cmd, c.config.ValidationOptions())
			if len(args) == 1 {
				return c.runValidate(cmd, args[0], vopts, opts)
			}
			return c.runValidateAll(cmd.Context(), args, vopts, opts)
		},
	}

	opts.validation.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the sanitized document to this file")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print the validation result as JSON")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "parallel validations (default: GOMAXPROCS)")

	return cmd
}

func (c *CLI) runValidate(cmd *cobra.Command, path string, vopts validate.Options, opts validateOpts) error {
	raw, err := docio.ReadDocument(path)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(cmd)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := c.config.PipelineOptions()
	popts.Validation = vopts
	prog := newProgress(c.Logger)
	res, _, cached, err := runner.ValidateWithCacheInfo(cmd.Context(), raw, popts)
	if err != nil {
		return err
	}
	prog.done("Validated " + path)

	if opts.jsonOut {
		if err := printJSON(res); err != nil {
			return err
		}
	} else {
		printValidation(path, res, cached)
	}

	if opts.output != "" && res.Data != nil {
		if err := docio.ExportDocument(*res.Data, opts.output); err != nil {
			return err
		}
		printFile(opts.output)
	}
	if !res.Success {
		return errors.New(errors.ErrCodeInvalidDocument, "%s is invalid", path)
	}
	return nil
}

func (c *CLI) runValidateAll(ctx context.Context, paths []string, vopts validate.Options, opts validateOpts) error {
	inputs := make([]any, len(paths))
	for i, p := range paths {
		raw, err := docio.ReadDocument(p)
		if err != nil {
			return err
		}
		inputs[i] = raw
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Validating %d documents...", len(paths)))
	spinner.Start()
	results, err := validate.New(vopts).ValidateAll(ctx, inputs, opts.workers)
	spinner.Stop()
	if err != nil {
		return err
	}

	invalid := 0
	for i, res := range results {
		if !res.Success {
			invalid++
		}
		if opts.jsonOut {
			continue
		}
		printValidation(paths[i], res, false)
	}
	if opts.jsonOut {
		byPath := make(map[string]validate.Result, len(paths))
		for i, res := range results {
			byPath[paths[i]] = res
		}
		if err := printJSON(byPath); err != nil {
			return err
		}
	}
	if invalid > 0 {
		return errors.New(errors.ErrCodeInvalidDocument, "%d of %d documents are invalid", invalid, len(paths))
	}
	return nil
}

func printValidation(path string, res validate.Result, cached bool) {
	if res.Success {
		printSuccess("%s is valid", path)
	} else {
		printError("%s is invalid", path)
	}
	if res.Data != nil {
		stats := res.Data.Stats()
		printStats(stats.Layers, stats.Paths, cached)
	}
	if res.Sanitized {
		printDetail("coordinates were sanitized")
	}
	printIssues(res.Errors, res.Warnings)
}

func printJSON(v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
