package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"oplsetup/cli"
	"oplsetup/csvimport"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	defaultMaxBackups = 5
	backupFileExt     = ".bak"
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
		doBackup   bool
		maxBackups int
		doImport   bool
	)

	rootCmd := &cobra.Command{
		Use:          "bootstrap",
		Short:        "Create every logbook table, seed the owner and import the sources",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.BindFlags(v, cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if maxBackups < 1 {
				return fmt.Errorf("--max-backups must be at least 1, got %d", maxBackups)
			}
			s, err := cli.Open(v, configFile)
			if err != nil {
				return err
			}
			defer s.Close()
			dbPath := s.Config.DBPath

			if doBackup {
				if info, err := os.Stat(dbPath); err == nil && info.Size() > 0 {
					s.Logger.Infow("existing database file", "path", dbPath, "bytes", info.Size())
					backupPath := fmt.Sprintf("%s.%s%s", dbPath, time.Now().Format("20060102-150405"), backupFileExt)
					if err := copyFile(s.Logger, dbPath, backupPath); err != nil {
						return fmt.Errorf("failed to create DB backup: %w", err)
					}
					s.Logger.Infow("existing database backed up", "backup", backupPath)
					pruneOldBackups(s.Logger, dbPath, maxBackups)
				}
			}

			if err := s.SchemaManager().CreateAll(cmd.Context()); err != nil {
				return fmt.Errorf("bootstrap failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Database %s has been created\n", dbPath)
			if !doImport {
				return nil
			}

			im := csvimport.NewImporter(s.DB, s.Logger, s.Config.BatchSize)
			results, err := im.ImportAll(cmd.Context(), s.Config)
			for _, res := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rows from %s\n", res.Table, res.Inserted, res.Path)
			}
			return err
		},
	}

	cli.AddCommonFlags(rootCmd.Flags(), &configFile)
	cli.AddSeedFlags(rootCmd.Flags())
	cli.AddImportFlags(rootCmd.Flags())
	rootCmd.Flags().BoolVar(&doBackup, "backup", true, "Whether to create a backup of the database if it exists")
	rootCmd.Flags().IntVar(&maxBackups, "max-backups", defaultMaxBackups, "Maximum number of backups to retain")
	rootCmd.Flags().BoolVar(&doImport, "import", true, "Whether to import every CSV source after creating the tables")
	return rootCmd
}

func copyFile(logger *zap.SugaredLogger, src, dst string) error {
	sourceFileStat, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !sourceFileStat.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", src)
	}

	source, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if err := source.Close(); err != nil {
			logger.Warnw("failed to close file", "path", src, "error", err)
		}
	}()

	destination, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		if err := destination.Close(); err != nil {
			logger.Warnw("failed to close file", "path", dst, "error", err)
		}
	}()

	_, err = destination.ReadFrom(source)
	return err
}

// pruneOldBackups removes all but the newest keep backups of dbPath, never
// fewer than one. Names embed a sortable timestamp, so lexical order is age
// order.
func pruneOldBackups(logger *zap.SugaredLogger, dbPath string, keep int) {
	if keep < 1 {
		keep = 1
	}
	dir := filepath.Dir(dbPath)
	prefix := filepath.Base(dbPath) + "."
	files, err := os.ReadDir(dir)
	if err != nil {
		logger.Warnw("failed to read backup directory", "dir", dir, "error", err)
		return
	}

	var backups []string
	for _, f := range files {
		if strings.HasPrefix(f.Name(), prefix) && strings.HasSuffix(f.Name(), backupFileExt) {
			backups = append(backups, filepath.Join(dir, f.Name()))
		}
	}
	if len(backups) <= keep {
		return
	}

	sort.Strings(backups)
	for _, file := range backups[:len(backups)-keep] {
		if err := os.Remove(file); err != nil {
			logger.Warnw("failed to remove old backup", "path", file, "error", err)
		} else {
			logger.Infow("removed old backup", "path", file)
		}
	}
}
