package cli

import (
	"context"
	"fmt"

	flow "github.com/noneback/go-taskflow"
	"github.com/spf13/cobra"

	"github.com/crawlkit/crawlkit/internal/config"
	"github.com/crawlkit/crawlkit/internal/crawlkit"
	"github.com/crawlkit/crawlkit/internal/workflows"
)

// NewDeployCommand creates and returns the deploy command
func NewDeployCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "deploy",
		Short: "Deploy the crawler stack",
		Long: `Deploy the crawler stack to a Kubernetes cluster.
The database comes up first, then the api and worker, then the frontend.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}

			ctx := crawlkit.New(context.Background(), configFlags, cfg)

			tf, err := workflows.CreateDeployWorkflow(ctx)
			if err != nil {
				return err
			}

			executor := flow.NewExecutor(10)
			executor.Run(tf).Wait()

			fmt.Println("Deployment completed successfully!")
			return nil
		},
	}
}
