package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/cli-runtime/pkg/printers"

	"github.com/crawlkit/crawlkit/internal/components"
	"github.com/crawlkit/crawlkit/internal/config"
	"github.com/crawlkit/crawlkit/pkg/chart"
	"github.com/crawlkit/crawlkit/pkg/manifests"
)

// GetCmd handles the get command
type GetCmd struct {
	outputFormat string
	noHeaders    bool
}

// NewGetCommand creates a new get command
func NewGetCommand() *cobra.Command {
	g := &GetCmd{}

	cmd := &cobra.Command{
		Use:   "get [component...]",
		Short: "Display the resolved identifiers for one or many components",
		Long: `Display the resolved resource names, images and ports for the stack
components as derived from the loaded configuration.

Examples:
  # Show all components
  crawlkit get

  # Show a single component
  crawlkit get api

  # Print the rendered objects for the worker as YAML
  crawlkit get worker -o yaml`,
		RunE: g.run,
	}

	cmd.Flags().StringVarP(&g.outputFormat, "output", "o", "", "Output format. One of: (json, yaml)")
	cmd.Flags().BoolVar(&g.noHeaders, "no-headers", false, "When using the default output format, don't print headers")

	return cmd
}

// run executes the get command
func (g *GetCmd) run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	selected, err := selectComponents(args)
	if err != nil {
		return err
	}

	in := components.RenderInput(cfg)

	switch g.outputFormat {
	case "json", "yaml":
		return g.printObjects(selected, in, cmd.OutOrStdout())
	case "":
		return g.printTable(selected, in, cmd.OutOrStdout())
	default:
		return fmt.Errorf("unsupported output format: %s", g.outputFormat)
	}
}

// printTable prints one row per component with its resolved identifiers.
func (g *GetCmd) printTable(selected []chart.Component, in manifests.RenderInput, out io.Writer) error {
	fullName := chart.ResolveFullName(in.Chart, in.Release, in.Values)

	table := &metav1.Table{
		ColumnDefinitions: []metav1.TableColumnDefinition{
			{Name: "Component", Type: "string"},
			{Name: "Resource", Type: "string"},
			{Name: "Image", Type: "string"},
			{Name: "Replicas", Type: "integer"},
			{Name: "Port", Type: "integer"},
		},
	}

	for _, component := range selected {
		var replicas, port int32
		if component == chart.ComponentDatabase {
			replicas = 1
			port = in.Values.Database.Port
		} else {
			componentValues := in.Values.Component(component)
			replicas = componentValues.Replicas
			port = componentValues.Port
		}

		table.Rows = append(table.Rows, metav1.TableRow{
			Cells: []interface{}{
				string(component),
				fullName + "-" + string(component),
				chart.ResolveImage(component, in.Chart, in.Values),
				replicas,
				port,
			},
		})
	}

	printer := printers.NewTablePrinter(printers.PrintOptions{
		NoHeaders: g.noHeaders,
	})
	return printer.PrintObj(table, out)
}

// printObjects prints the rendered objects for the selected components in
// JSON or YAML format.
func (g *GetCmd) printObjects(selected []chart.Component, in manifests.RenderInput, out io.Writer) error {
	var printer printers.ResourcePrinter
	switch g.outputFormat {
	case "json":
		printer = &printers.JSONPrinter{}
	case "yaml":
		printer = &printers.YAMLPrinter{}
	default:
		return fmt.Errorf("unsupported output format: %s", g.outputFormat)
	}

	var objects []runtime.Object
	for _, component := range selected {
		objects = append(objects, components.NewStackComponent(component).Objects(in)...)
	}

	for _, obj := range objects {
		if err := printer.PrintObj(obj, out); err != nil {
			return err
		}
	}
	return nil
}

// selectComponents resolves the positional arguments to stack components. With
// no arguments every component is selected, in deployment order.
func selectComponents(args []string) ([]chart.Component, error) {
	if len(args) == 0 {
		return chart.Components, nil
	}

	known := make(map[string]chart.Component, len(chart.Components))
	names := make([]string, 0, len(chart.Components))
	for _, component := range chart.Components {
		known[string(component)] = component
		names = append(names, string(component))
	}

	var selected []chart.Component
	for _, arg := range args {
		component, ok := known[strings.ToLower(arg)]
		if !ok {
			return nil, fmt.Errorf("unknown component: %s. Available components: %s",
				arg, strings.Join(names, ", "))
		}
		selected = append(selected, component)
	}
	return selected, nil
}
