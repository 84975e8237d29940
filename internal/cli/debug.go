package cli

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/svglayout/pkg/core/debug"
	docio "github.com/matzehuels/svglayout/pkg/io"
)

type debugOpts struct {
	validation  validationFlags
	overlay     string
	structure   string
	dot         bool
	regions     string
	noRegions   bool
	noLayers    bool
	interactive bool
	jsonOut     bool
}

func (c *CLI) debugCommand() *cobra.Command {
	var opts debugOpts

	cmd := &cobra.Command{
		Use:   "debug <doc>",
		Short: "Visualize regions, layer bounds and validation issues",
		Long: `Debug validates the document without failing on problems and prints a
summary. It can also draw the region and layer overlay on top of the
rendered document, render the layer/path structure as a graph, or open an
interactive browser over the validation issues.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDebug(cmd, args[0], opts)
		},
	}

	opts.validation.register(cmd)
	cmd.Flags().StringVar(&opts.overlay, "overlay", "", "write the document with the debug overlay to this SVG file")
	cmd.Flags().StringVar(&opts.structure, "structure", "", "write the document structure graph to this SVG file")
	cmd.Flags().BoolVar(&opts.dot, "dot", false, "print the structure graph in DOT")
	cmd.Flags().StringVar(&opts.regions, "regions", "", "regions to outline (comma-separated; default: referenced regions)")
	cmd.Flags().BoolVar(&opts.noRegions, "no-regions", false, "do not outline regions")
	cmd.Flags().BoolVar(&opts.noLayers, "no-layers", false, "do not outline layers")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "browse validation issues interactively")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print the summary as JSON")

	return cmd
}

func (c *CLI) runDebug(cmd *cobra.Command, path string, opts debugOpts) error {
	raw, err := docio.ReadDocument(path)
	if err != nil {
		return err
	}

	dopts := debug.DefaultOptions()
	dopts.Validation = opts.validation.apply(cmd, c.config.ValidationOptions())
	dopts.ShowRegions = !opts.noRegions
	dopts.ShowLayers = !opts.noLayers
	if opts.regions != "" {
		dopts.Regions = strings.Split(opts.regions, ",")
	}

	prog := newProgress(c.Logger)
	res := debug.Generate(raw, dopts)
	prog.done("Analyzed " + path)
	summary := debug.Summarize(res)

	if opts.jsonOut {
		if err := printJSON(summary); err != nil {
			return err
		}
	} else if !opts.dot {
		c.printSummary(summary)
	}

	doc := res.Validation.Data
	if opts.dot {
		if doc == nil {
			return fmt.Errorf("%s does not match the document schema", path)
		}
		fmt.Fprint(out, debug.StructureDOT(*doc))
	}

	if opts.overlay != "" {
		var svg string
		if doc != nil {
			svg, err = debug.RenderOverlay(*doc, res)
		} else {
			svg = debug.OverlaySVG(res)
		}
		if err != nil {
			return fmt.Errorf("render overlay: %w", err)
		}
		if err := os.WriteFile(opts.overlay, []byte(svg), 0o644); err != nil {
			return err
		}
		printFile(opts.overlay)
	}

	if opts.structure != "" {
		if doc == nil {
			return fmt.Errorf("%s does not match the document schema", path)
		}
		data, err := debug.RenderStructureSVG(cmd.Context(), *doc)
		if err != nil {
			return fmt.Errorf("render structure: %w", err)
		}
		if err := os.WriteFile(opts.structure, data, 0o644); err != nil {
			return err
		}
		printFile(opts.structure)
	}

	if opts.interactive {
		issues := collectIssues(res.Validation.Errors, res.Validation.Warnings)
		model := NewIssueListModel("Issues: "+path, issues)
		if _, err := tea.NewProgram(model, tea.WithContext(cmd.Context())).Run(); err != nil {
			return fmt.Errorf("issue browser: %w", err)
		}
	}
	return nil
}

func (c *CLI) printSummary(s debug.Summary) {
	if s.Valid {
		printSuccess("%s", s.Summary)
	} else {
		printError("%s", s.Summary)
	}
	if len(s.Regions) > 0 {
		printKeyValue("regions", strings.Join(s.Regions, ", "))
	}
	printKeyValue("layer markers", fmt.Sprint(s.LayerMarkers))
	printIssues(s.TopErrors, s.TopWarnings)
	if hidden := s.Statistics.ErrorsFound + s.Statistics.WarningsFound - len(s.TopErrors) - len(s.TopWarnings); hidden > 0 {
		printDetail("%d more issues; use --interactive to browse all", hidden)
	}
}
