package main

import (
	"context"
	"fmt"
	"os"

	"homeforge/cmd/admin"
	"homeforge/cmd/server"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "homeforge",
		Short:         "Household renovation tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			serve()
		},
	}
	root.AddCommand(serveCmd(), userCmd(), uploadsCmd())
	return root
}

func serve() {
	server.Init()
	server.Run()
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			serve()
		},
	}
}

// withAdmin runs fn with the store open and closes it afterwards.
func withAdmin(fn func(ctx context.Context) error) error {
	ctx := context.Background()
	if err := admin.Init(ctx); err != nil {
		return err
	}
	defer admin.Close()
	return fn(ctx)
}

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}

	var password string
	reset := &cobra.Command{
		Use:   "reset-password <username>",
		Short: "Set a new password and sign the user out everywhere",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdmin(func(ctx context.Context) error {
				if err := admin.ResetPassword(ctx, args[0], password); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "password for %s updated\n", args[0])
				return nil
			})
		},
	}
	reset.Flags().StringVarP(&password, "password", "p", "", "new password (at least 4 characters)")
	_ = reset.MarkFlagRequired("password")

	cmd.AddCommand(reset)
	return cmd
}

func uploadsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uploads",
		Short: "Maintain stored files",
	}

	var dryRun bool
	prune := &cobra.Command{
		Use:   "prune",
		Short: "Delete stored files that no photo or board item refers to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdmin(func(ctx context.Context) error {
				return admin.PruneUploads(ctx, dryRun, cmd.OutOrStdout())
			})
		},
	}
	prune.Flags().BoolVar(&dryRun, "dry-run", false, "list orphaned files without deleting them")

	cmd.AddCommand(prune)
	return cmd
}
