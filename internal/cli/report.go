package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/svglayout/pkg/core/aspect"
	"github.com/matzehuels/svglayout/pkg/core/layout"
	"github.com/matzehuels/svglayout/pkg/core/region"
	"github.com/matzehuels/svglayout/pkg/core/validate"
	"github.com/matzehuels/svglayout/pkg/errors"
	docio "github.com/matzehuels/svglayout/pkg/io"
)

func (c *CLI) reportCommand() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "report <doc>",
		Short: "Summarize a document's size and complexity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := docio.ReadDocument(args[0])
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd)
			if err != nil {
				return err
			}
			defer runner.Close()

			res, err := runner.Validate(cmd.Context(), raw, c.config.PipelineOptions())
			if err != nil {
				return err
			}
			if res.Data == nil {
				printIssues(res.Errors, nil)
				return errors.New(errors.ErrCodeInvalidDocument, "%s does not match the document schema", args[0])
			}
			report := validate.CreateValidationReport(*res.Data)
			if jsonOut {
				return printJSON(report)
			}

			fmt.Fprintln(out, StyleTitle.Render("Report: "+args[0]))
			s := report.Stats
			printTable([]string{"Metric", "Value"}, [][]string{
				{"Layers", strconv.Itoa(s.Layers)},
				{"Paths", strconv.Itoa(s.Paths)},
				{"Commands", strconv.Itoa(s.Commands)},
				{"Coordinates", strconv.Itoa(s.Coordinates)},
				{"Layout blocks", strconv.Itoa(s.Layouts)},
				{"Complexity", string(report.Complexity)},
				{"Errors", strconv.Itoa(len(res.Errors))},
				{"Warnings", strconv.Itoa(len(res.Warnings))},
			})
			if len(report.Recommendations) == 0 {
				printSuccess("No recommendations")
			}
			for _, r := range report.Recommendations {
				printInfo("%s", r)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the report as JSON")
	return cmd
}

type regionRow struct {
	Name   string      `json:"name"`
	Custom bool        `json:"custom"`
	Bounds region.Rect `json:"bounds"`
	Pixels region.Rect `json:"pixels"`
}

func (c *CLI) regionsCommand() *cobra.Command {
	var ratioFlag string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "regions",
		Short: "List the regions available on a canvas",
		Long: `Regions lists the standard regions and the custom regions from the config
file, in normalized units and in pixels for the chosen aspect ratio.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ratio := aspect.Default
			if c.config.Render.AspectRatio != "" {
				ratio = aspect.Ratio(c.config.Render.AspectRatio)
			}
			if ratioFlag != "" {
				r, err := aspect.Parse(ratioFlag)
				if err != nil {
					return err
				}
				ratio = r
			}
			rows, err := listRegions(ratio, c.config.Regions)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(rows)
			}

			size := aspect.MustDimensions(ratio)
			fmt.Fprintln(out, StyleTitle.Render(fmt.Sprintf("Regions on %s (%d×%d)", ratio, size.Width, size.Height)))
			data := make([][]string, len(rows))
			for i, r := range rows {
				kind := "standard"
				if r.Custom {
					kind = "custom"
				}
				data[i] = []string{r.Name, kind,
					num(r.Bounds.X), num(r.Bounds.Y), num(r.Bounds.Width), num(r.Bounds.Height),
					fmt.Sprintf("%.0f,%.0f %.0f×%.0f", r.Pixels.X, r.Pixels.Y, r.Pixels.Width, r.Pixels.Height),
				}
			}
			printTable([]string{"Region", "Kind", "X", "Y", "Width", "Height", "Pixels"}, data)
			printDetail("anchors: %v", region.AnchorNames())
			return nil
		},
	}

	cmd.Flags().StringVar(&ratioFlag, "aspect", "", "aspect ratio of the canvas (default 1:1)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print regions as JSON")
	return cmd
}

func listRegions(ratio aspect.Ratio, custom []layout.RegionDefinition) ([]regionRow, error) {
	m, err := region.NewManager(ratio)
	if err != nil {
		return nil, err
	}
	if err := (layout.Config{Regions: custom}).Register(m); err != nil {
		return nil, err
	}
	rows := make([]regionRow, 0, len(m.Names()))
	for _, name := range m.Names() {
		b, err := m.Bounds(name)
		if err != nil {
			return nil, err
		}
		px, _ := m.PixelBounds(name)
		rows = append(rows, regionRow{Name: name, Custom: !region.IsStandard(name), Bounds: b, Pixels: px})
	}
	return rows, nil
}
