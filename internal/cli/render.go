package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/svglayout/pkg/core/aspect"
	"github.com/matzehuels/svglayout/pkg/core/render"
	"github.com/matzehuels/svglayout/pkg/core/validate"
	"github.com/matzehuels/svglayout/pkg/errors"
	docio "github.com/matzehuels/svglayout/pkg/io"
)

type renderOpts struct {
	validation validationFlags
	output     string
	formats    string
	aspect     string
	rescale    bool
	optimize   bool
	background string
	title      string
	scale      float64
	refresh    bool
}

func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <doc>",
		Short: "Render a document to SVG, PNG or JSON",
		Long: `Render validates the document, optionally converts it to another aspect
ratio and writes one file per format. Results are cached by document content.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], opts)
		},
	}

	opts.validation.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (several)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, json (comma-separated)")
	cmd.Flags().StringVar(&opts.aspect, "aspect", "", "convert to this aspect ratio first (1:1, 16:9, 9:16, 4:3, 3:4)")
	cmd.Flags().BoolVar(&opts.rescale, "rescale", false, "scale geometry with the canvas when converting")
	cmd.Flags().BoolVar(&opts.optimize, "optimize", false, "minify the SVG")
	cmd.Flags().StringVar(&opts.background, "background", "", "background fill color")
	cmd.Flags().StringVar(&opts.title, "title", "", "SVG <title>")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, path string, opts renderOpts) error {
	raw, err := docio.ReadDocument(path)
	if err != nil {
		return err
	}

	popts := c.config.PipelineOptions()
	popts.Validation = opts.validation.apply(cmd, popts.Validation)
	popts.Formats = parseFormats(opts.formats, popts.Formats)
	popts.Refresh = opts.refresh
	flags := cmd.Flags()
	if flags.Changed("aspect") {
		popts.AspectRatio = opts.aspect
	}
	if flags.Changed("rescale") {
		popts.Rescale = opts.rescale
	}
	if flags.Changed("optimize") {
		popts.Optimize = opts.optimize
	}
	if flags.Changed("background") {
		popts.Background = opts.background
	}
	if flags.Changed("title") {
		popts.Title = opts.title
	}
	if flags.Changed("scale") {
		popts.PNGScale = opts.scale
	}

	runner, err := c.newRunner(cmd)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(cmd.Context(), "Rendering "+path+"...")
	spinner.Start()
	res, err := runner.Execute(cmd.Context(), raw, popts)
	spinner.Stop()
	if err != nil {
		if res != nil {
			printIssues(res.Validation.Errors, res.Validation.Warnings)
		}
		return err
	}

	printSuccess("Rendered %s", path)
	printStats(res.Stats.Layers, res.Stats.Paths, res.CacheInfo.RenderHit)
	for _, w := range res.Validation.Warnings {
		printWarning("%s", w)
	}

	base := outputBase(path, opts.output, len(popts.Formats))
	for _, format := range popts.Formats {
		dst := outputPath(base, opts.output, format, len(popts.Formats))
		if err := os.WriteFile(dst, res.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", dst, err)
		}
		printFile(dst)
	}
	return nil
}

// outputBase strips the extension from the explicit output, or from the
// input path when no output was given.
func outputBase(input, output string, formats int) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	if formats > 1 {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	return output
}

// outputPath returns the file for one format. A single format with an
// explicit output writes exactly there.
func outputPath(base, output, format string, formats int) string {
	if output != "" && formats == 1 {
		return output
	}
	return base + "." + format
}

type convertOpts struct {
	aspect  string
	rescale bool
	output  string
}

func (c *CLI) convertCommand() *cobra.Command {
	var opts convertOpts

	cmd := &cobra.Command{
		Use:   "convert <doc> --aspect <ratio>",
		Short: "Move a document to another aspect ratio",
		Long: `Convert replaces the document's canvas with the canvas of the target aspect
ratio. Geometry is kept as is unless --rescale is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.aspect, "aspect", "", "target aspect ratio (required)")
	cmd.Flags().BoolVar(&opts.rescale, "rescale", false, "scale coordinates with the canvas")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout as JSON)")
	_ = cmd.MarkFlagRequired("aspect")

	return cmd
}

func (c *CLI) runConvert(cmd *cobra.Command, path string, opts convertOpts) error {
	ratio, err := aspect.Parse(opts.aspect)
	if err != nil {
		return err
	}
	res, err := c.validated(cmd, path)
	if err != nil {
		return err
	}
	var copts []render.ConvertOption
	if opts.rescale {
		copts = append(copts, render.WithRescale())
	}
	doc, err := render.ConvertToAspectRatio(*res.Data, ratio, copts...)
	if err != nil {
		return err
	}
	c.Logger.Info("converted document", "ratio", ratio, "width", doc.Canvas.Width, "height", doc.Canvas.Height)

	if opts.output == "" {
		return docio.WriteDocument(out, doc, docio.FormatJSON)
	}
	if err := docio.ExportDocument(doc, opts.output); err != nil {
		return err
	}
	printSuccess("Converted %s to %s", path, ratio)
	printFile(opts.output)
	return nil
}

func (c *CLI) boundsCommand() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "bounds <doc>",
		Short: "Print the bounding box of a document's geometry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.validated(cmd, args[0])
			if err != nil {
				return err
			}
			doc := *res.Data
			total := render.SVGBounds(doc)
			layers, ok, err := render.LayerBounds(doc)
			if err != nil {
				return err
			}
			if jsonOut {
				placed := map[string]render.Bounds{}
				for i, l := range doc.Layers {
					if ok[i] {
						placed[l.ID] = layers[i]
					}
				}
				return printJSON(map[string]any{"document": total, "layers": placed})
			}

			rows := [][]string{boundsRow("document (raw)", total)}
			for i, l := range doc.Layers {
				if ok[i] {
					rows = append(rows, boundsRow(l.ID, layers[i]))
				}
			}
			printTable([]string{"Element", "Min X", "Min Y", "Max X", "Max Y", "Width", "Height"}, rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print bounds as JSON")
	return cmd
}

func boundsRow(name string, b render.Bounds) []string {
	return []string{name, num(b.MinX), num(b.MinY), num(b.MaxX), num(b.MaxY), num(b.Width), num(b.Height)}
}

func num(v float64) string { return fmt.Sprintf("%.2f", v) }

func (c *CLI) importCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "import <file.svg>",
		Short: "Turn an SVG into a layered document",
		Long: `Import reads an SVG (typically one produced by render) and rebuilds the
document: top-level groups become layers, paths keep their ids and styles.
Layout blocks are not recovered.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", args[0])
			}
			doc, err := render.ImportSVG(string(data))
			if err != nil {
				return err
			}
			if output == "" {
				return docio.WriteDocument(out, doc, docio.FormatJSON)
			}
			if err := docio.ExportDocument(doc, output); err != nil {
				return err
			}
			printSuccess("Imported %d layers from %s", len(doc.Layers), args[0])
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout as JSON)")
	return cmd
}

// validated reads and validates the document at path with the configured
// options, failing when it is invalid.
func (c *CLI) validated(cmd *cobra.Command, path string) (res validate.Result, err error) {
	raw, err := docio.ReadDocument(path)
	if err != nil {
		return res, err
	}
	runner, err := c.newRunner(cmd)
	if err != nil {
		return res, err
	}
	defer runner.Close()

	res, err = runner.Validate(cmd.Context(), raw, c.config.PipelineOptions())
	if err != nil {
		return res, err
	}
	if !res.Success || res.Data == nil {
		printIssues(res.Errors, res.Warnings)
		return res, errors.New(errors.ErrCodeInvalidDocument, "%s is invalid", path)
	}
	return res, nil
}
