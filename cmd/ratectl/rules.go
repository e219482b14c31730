package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rateline/internal/infra"
	"rateline/internal/logging"
	"rateline/internal/modules/ruletable"
)

func validateCmd() *cobra.Command {
	var warnOnly bool

	cmd := &cobra.Command{
		Use:   "validate [rules.yaml]",
		Short: "Check a rule file for overlaps, inverted ranges and dangling references",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := ruletable.LoadFile(args[0])
			if err != nil {
				return err
			}
			issues := ruletable.Validate(snap)
			for _, i := range issues {
				fmt.Fprintln(cmd.OutOrStdout(), i.String())
			}
			if len(issues) > 0 && !warnOnly {
				return &ruletable.ValidationError{Issues: issues}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d offices, %d issues\n", args[0], len(snap.Offices), len(issues))
			return nil
		},
	}

	cmd.Flags().BoolVar(&warnOnly, "warn", false, "report issues without failing")
	return cmd
}

func importCmd() *cobra.Command {
	var dsn string

	cmd := &cobra.Command{
		Use:   "import [rules.yaml]",
		Short: "Replace the Postgres rule tables with the contents of a rule file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := ruletable.LoadFile(args[0])
			if err != nil {
				return err
			}
			log := logging.New(cmd.ErrOrStderr(), "warn")
			if err := ruletable.Check(cmd.Context(), snap, true, log); err != nil {
				return err
			}

			db, err := infra.NewDB(cmd.Context(), dsn)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := ruletable.NewStore(db).Replace(cmd.Context(), snap); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&dsn, "dsn", "", "Postgres connection string")
	_ = cmd.MarkFlagRequired("dsn")
	return cmd
}

func exportCmd() *cobra.Command {
	var dsn string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the Postgres rule tables as a rule file to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := infra.NewDB(cmd.Context(), dsn)
			if err != nil {
				return err
			}
			defer db.Close()

			snap, err := ruletable.NewStore(db).Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			return ruletable.Encode(cmd.OutOrStdout(), snap)
		},
	}

	cmd.Flags().StringVar(&dsn, "dsn", "", "Postgres connection string")
	_ = cmd.MarkFlagRequired("dsn")
	return cmd
}
