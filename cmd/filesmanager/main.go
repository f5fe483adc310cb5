package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/filesmanager/internal/server"
	"github.com/dmitrijs2005/filesmanager/internal/server/config"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "filesmanager",
		Short:         "Multi-user file storage service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newAppCmd("serve", "Run the HTTP API and the gRPC health endpoint", (*server.App).RunServer),
		newAppCmd("worker", "Run the thumbnail worker", (*server.App).RunWorker),
		newAppCmd("migrate", "Apply database migrations and exit", (*server.App).Migrate),
	)

	return root
}

// newAppCmd builds a subcommand whose flags are parsed by the config package.
func newAppCmd(use, short string, run func(*server.App, context.Context) error) *cobra.Command {
	return &cobra.Command{
		Use:                use,
		Short:              short,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			app, err := server.NewApp(ctx, config.LoadConfig())
			if err != nil {
				return err
			}
			defer app.Close()

			return run(app, ctx)
		},
	}
}
