package cli

import (
	"github.com/spf13/cobra"

	"github.com/crawlkit/crawlkit/internal/components"
	"github.com/crawlkit/crawlkit/internal/config"
	"github.com/crawlkit/crawlkit/pkg/manifests"
)

// NewRenderCommand creates the render command, which prints the manifests the
// deploy command would apply without touching a cluster.
func NewRenderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "render",
		Short: "Render the stack manifests as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}

			data, err := manifests.EncodeYAML(manifests.RenderAll(components.RenderInput(cfg)))
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
