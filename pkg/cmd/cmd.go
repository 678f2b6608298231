// Package cmd contains the command line applications for the project.
package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yeisme/listingvault/pkg/app"
)

var (
	// configPath 配置文件或目录.
	configPath string
	// debug 打印 viper 的调试信息.
	debug bool

	rootCmd = &cobra.Command{
		Use:           "listingvault",
		Short:         "Property listing backend: image uploads, listing rules and storage",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runServe,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "start the HTTP service",
		RunE:  runServe,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".", "config file or directory")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "print viper debug output")

	rootCmd.AddCommand(serveCmd)

	registerConfigsCommands()
	registerBackendCommands()
	registerPolicyCommands()
	registerValidateCommands()
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.NewApp(configPath)
	if err != nil {
		return err
	}

	return a.Run(ctx)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}
