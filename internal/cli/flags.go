package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/svglayout/pkg/core/validate"
)

// validationFlags are the validator flags shared by several commands. Only
// flags the user set override the configuration.
type validationFlags struct {
	strict    bool
	sanitize  bool
	precision int
	noCustom  bool
}

func (f *validationFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.strict, "strict", false, "report correctable problems as errors")
	cmd.Flags().BoolVar(&f.sanitize, "sanitize", true, "write corrected coordinates into the output")
	cmd.Flags().IntVar(&f.precision, "precision", 2, "decimal places coordinates are rounded to")
	cmd.Flags().BoolVar(&f.noCustom, "no-custom-regions", false, "reject custom regions")
}

func (f *validationFlags) apply(cmd *cobra.Command, opts validate.Options) validate.Options {
	flags := cmd.Flags()
	if flags.Changed("strict") {
		opts.Strict = f.strict
	}
	if flags.Changed("sanitize") {
		opts.Sanitize = f.sanitize
	}
	if flags.Changed("precision") {
		opts.Bounds.Precision = f.precision
	}
	if flags.Changed("no-custom-regions") {
		opts.AllowCustomRegions = !f.noCustom
	}
	return opts
}
