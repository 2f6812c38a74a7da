package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/cli-runtime/pkg/printers"
	metricsclient "k8s.io/metrics/pkg/client/clientset/versioned"

	"github.com/crawlkit/crawlkit/internal/components"
	"github.com/crawlkit/crawlkit/internal/config"
	"github.com/crawlkit/crawlkit/pkg/chart"
)

// NewStatusCommand creates the status command, which reports live pod
// resource usage per component from the metrics API. It requires
// metrics-server in the cluster, which the telemetry component deploys.
func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status [component...]",
		Short: "Show pod resource usage for the stack",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}

			selected, err := selectComponents(args)
			if err != nil {
				return err
			}

			restConfig, err := configFlags.ToRESTConfig()
			if err != nil {
				return fmt.Errorf("failed to build REST config: %w", err)
			}

			client, err := metricsclient.NewForConfig(restConfig)
			if err != nil {
				return fmt.Errorf("failed to create metrics client: %w", err)
			}

			in := components.RenderInput(cfg)

			table := &metav1.Table{
				ColumnDefinitions: []metav1.TableColumnDefinition{
					{Name: "Component", Type: "string"},
					{Name: "Pod", Type: "string"},
					{Name: "CPU", Type: "string"},
					{Name: "Memory", Type: "string"},
				},
			}

			for _, component := range selected {
				selector := labels.Set(
					chart.ComponentSelectorLabels(component, in.Chart, in.Release, in.Values).Map(),
				).String()

				podMetrics, err := client.MetricsV1beta1().PodMetricses(cfg.Release.Namespace).
					List(cmd.Context(), metav1.ListOptions{LabelSelector: selector})
				if err != nil {
					return fmt.Errorf("failed to list pod metrics for %s: %w", component, err)
				}

				for _, pod := range podMetrics.Items {
					var cpu, memory resource.Quantity
					for _, container := range pod.Containers {
						cpu.Add(*container.Usage.Cpu())
						memory.Add(*container.Usage.Memory())
					}

					table.Rows = append(table.Rows, metav1.TableRow{
						Cells: []interface{}{
							string(component),
							pod.Name,
							cpu.String(),
							memory.String(),
						},
					})
				}
			}

			printer := printers.NewTablePrinter(printers.PrintOptions{})
			return printer.PrintObj(table, cmd.OutOrStdout())
		},
	}
}
