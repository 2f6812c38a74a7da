package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"k8s.io/cli-runtime/pkg/genericclioptions"
)

var (
	configFlags = genericclioptions.NewConfigFlags(true)
	configFile  string
)

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "crawlkit",
		Short: "Crawlkit CLI",
		Long:  `Crawlkit is a tool for deploying and inspecting the crawler stack.`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := cmd.Help(); err != nil {
				fmt.Fprintf(os.Stderr, "Error showing help: %v\n", err)
			}
		},
	}

	configFlags.AddFlags(rootCmd.PersistentFlags())
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to the crawlkit configuration file")

	rootCmd.AddCommand(NewDeployCommand())
	rootCmd.AddCommand(NewRenderCommand())
	rootCmd.AddCommand(NewGetCommand())
	rootCmd.AddCommand(NewStatusCommand())

	return rootCmd
}
