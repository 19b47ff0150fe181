package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nasadm/truenasctl/internal/app"
)

var applyDryRun bool

var applyCmd = &cobra.Command{
	Use:   "apply <plan-file>",
	Short: "Reconcile the resources in a plan file toward their desired state.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.BuildApplicationFromViper(cmd.Context(), viper.GetViper())
		if err != nil {
			return err
		}
		return application.ApplyPlan(cmd.Context(), args[0], applyDryRun)
	},
}

func init() {
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Compute and report changes without applying them")
	rootCmd.AddCommand(applyCmd)
}
