package main

import (
	"fmt"
	"os"

	"oplsetup/cli"
	"oplsetup/db"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var configFile string

	rootCmd := &cobra.Command{
		Use:          "dbman",
		Short:        "Manage the logbook tables",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.BindFlags(v, cmd.Flags())
		},
	}
	cli.AddCommonFlags(rootCmd.PersistentFlags(), &configFile)
	cli.AddSeedFlags(rootCmd.PersistentFlags())

	open := func() (*cli.Session, error) { return cli.Open(v, configFile) }

	rootCmd.AddCommand(
		newInitCmd(open),
		newCreateCmd(open),
		newDropCmd(open),
		newShowCmd(open),
	)
	return rootCmd
}

type opener func() (*cli.Session, error)

func newInitCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the airports and flights tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.SchemaManager().Initialise(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Database %s has been initialised\n", s.Config.DBPath)
			return nil
		},
	}
}

func newCreateCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "create <table>...",
		Short: "Create one or more tables",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := parseTables(args)
			if err != nil {
				return err
			}
			s, err := open()
			if err != nil {
				return err
			}
			defer s.Close()

			m := s.SchemaManager()
			for _, t := range tables {
				if err := m.Create(cmd.Context(), t); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Table %s has been created\n", t)
			}
			return nil
		},
	}
}

func newDropCmd(open opener) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "drop <table>... | --all",
		Short: "Drop one or more tables",
		Args: func(cmd *cobra.Command, args []string) error {
			if all && len(args) > 0 {
				return fmt.Errorf("--all takes no table arguments")
			}
			if !all && len(args) == 0 {
				return fmt.Errorf("name at least one table or pass --all")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := parseTables(args)
			if err != nil {
				return err
			}
			s, err := open()
			if err != nil {
				return err
			}
			defer s.Close()

			m := s.SchemaManager()
			if all {
				if err := m.DropAll(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "All tables have been deleted")
				return nil
			}
			for _, t := range tables {
				if err := m.Drop(cmd.Context(), t); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Table %s has been deleted\n", t)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Drop every logbook table that exists")
	return cmd
}

func newShowCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "List the logbook tables and their row counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open()
			if err != nil {
				return err
			}
			defer s.Close()

			store := db.NewSQLStore(s.DB)
			tables, err := store.ListTables(cmd.Context())
			if err != nil {
				return err
			}
			counts := make([]cli.TableCount, 0, len(tables))
			for _, t := range tables {
				n, err := store.CountRows(cmd.Context(), t)
				if err != nil {
					return err
				}
				counts = append(counts, cli.TableCount{Table: t, Rows: n})
			}
			return cli.PrintCounts(cmd.OutOrStdout(), counts)
		},
	}
}

func parseTables(args []string) ([]db.Table, error) {
	tables := make([]db.Table, 0, len(args))
	for _, a := range args {
		t, err := db.ParseTable(a)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}
