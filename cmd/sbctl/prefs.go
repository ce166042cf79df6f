package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ananyateklu/second-brain-sub004/brain"
	"github.com/ananyateklu/second-brain-sub004/model"
)

func newPrefCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pref",
		Short: "Read or write a preference",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Print a preference value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, func(ctx context.Context, w *brain.Workspace) error {
				v, ok, err := w.Prefs.Get(ctx, args[0])
				if err != nil {
					return err
				}
				if !ok {
					return model.NewNotFoundError("preference", args[0])
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store a preference value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, func(ctx context.Context, w *brain.Workspace) error {
				return w.Prefs.Set(ctx, args[0], args[1])
			})
		},
	})
	return cmd
}
