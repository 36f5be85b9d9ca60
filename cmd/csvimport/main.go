package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"oplsetup/cli"
	"oplsetup/csvimport"
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
	var (
		configFile string
		all        bool
		file       string
		quiet      bool
	)

	rootCmd := &cobra.Command{
		Use:          "csvimport [table...]",
		Short:        "Load CSV source files into existing logbook tables",
		SilenceUsage: true,
		Args: func(cmd *cobra.Command, args []string) error {
			switch {
			case all && len(args) > 0:
				return errors.New("--all takes no table arguments")
			case !all && len(args) == 0:
				return errors.New("name at least one table or pass --all")
			case file != "" && len(args) != 1:
				return errors.New("--file needs exactly one table")
			}
			return nil
		},
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.BindFlags(v, cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var srcs []csvimport.Source
			for _, a := range args {
				t, err := db.ParseTable(a)
				if err != nil {
					return err
				}
				src, err := csvimport.SourceFor(t)
				if err != nil {
					return err
				}
				srcs = append(srcs, src)
			}

			s, err := cli.Open(v, configFile)
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			if quiet {
				out = io.Discard
			}
			im := csvimport.NewImporter(s.DB, s.Logger, s.Config.BatchSize)

			if all {
				results, err := im.ImportAll(cmd.Context(), s.Config)
				for _, res := range results {
					if perr := report(out, res); perr != nil {
						return perr
					}
				}
				return err
			}

			for _, src := range srcs {
				path := src.Path(s.Config)
				if file != "" {
					path = file
				}
				res, err := im.Import(cmd.Context(), src, path)
				if err != nil {
					return err
				}
				if err := report(out, res); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cli.AddCommonFlags(rootCmd.Flags(), &configFile)
	cli.AddImportFlags(rootCmd.Flags())
	rootCmd.Flags().BoolVar(&all, "all", false, "Import every source in dependency order")
	rootCmd.Flags().StringVar(&file, "file", "", "Read this file instead of the configured source")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print the table after importing")
	return rootCmd
}

func report(w io.Writer, res *csvimport.Result) error {
	if _, err := fmt.Fprintf(w, "%s: %d rows from %s\n", res.Table, res.Inserted, res.Path); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "Database entries have been added. New table:"); err != nil {
		return err
	}
	return cli.PrintRows(w, res.Dump)
}
