package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/koscakluka/ema-assist/core/store/fraudcases"
	"github.com/koscakluka/ema-assist/internal/logger"
)

// fraudCmd manages the fraud case database
var fraudCmd = &cobra.Command{
	Use:   "fraud",
	Short: "Manage fraud cases",
	Long: `Inspect and seed the fraud case database used by the fraud alert
assistant.

Available subcommands:
  seed - Insert the sample cases when the database is empty
  list - Print every case with its status`,
}

var fraudSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the sample fraud cases",
	RunE: func(cmd *cobra.Command, args []string) error {
		cases, err := fraudcases.NewGormStore(cfg.Fraud.Driver, cfg.Fraud.DSN)
		if err != nil {
			return err
		}
		defer cases.Close()

		seeded, err := cases.Seed(cmd.Context(), fraudcases.SampleCases())
		if err != nil {
			return err
		}
		if seeded == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Database already holds cases, nothing seeded.")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d fraud cases.\n", seeded)
		return nil
	},
}

var fraudListCmd = &cobra.Command{
	Use:   "list",
	Short: "List fraud cases",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.NewFileLogger(cfg.Log.File)
		defer log.Close()

		cases, err := fraudcases.NewGormStore(cfg.Fraud.Driver, cfg.Fraud.DSN)
		if err != nil {
			log.Error(module, "failed to open fraud cases", map[string]any{"error": err})
			return err
		}
		defer cases.Close()

		all, err := cases.List(cmd.Context())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCARD\tMERCHANT\tAMOUNT\tSTATUS")
		for _, c := range all {
			fmt.Fprintf(w, "%d\t%s\t*%s\t%s\t%s\t%s\n", c.ID, c.UserName, c.CardEnding, c.Merchant, c.Amount, c.Status)
		}
		return w.Flush()
	},
}

func init() {
	fraudCmd.AddCommand(fraudSeedCmd, fraudListCmd)
}
