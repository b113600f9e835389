package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/caseoracle/caseoracle/pkg/augment"
)

var (
	commitUpdate  string
	commitCompact string
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Fold pending update entries into the compact files",
	Long: `commit merges every pending entry in the configured update files into
their compact files, last write winning per field, then truncates the update
files. The merge runs under an advisory lock and replaces each compact file
atomically, so an interrupted commit can simply be rerun.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		if commitUpdate != "" || commitCompact != "" {
			if commitUpdate == "" || commitCompact == "" {
				return fmt.Errorf("--update and --compact must be given together")
			}
			cfg.UpdateFiles = []string{commitUpdate}
			cfg.CompactFiles = []string{commitCompact}
		}
		if len(cfg.UpdateFiles) == 0 {
			log.Info("no update files configured, nothing to commit")
			return nil
		}
		if len(cfg.CompactFiles) == 0 {
			return fmt.Errorf("update files are configured but no compact file is")
		}

		// Each update file commits into the compact file at the same
		// position, the last compact file catching any excess.
		for i, updatePath := range cfg.UpdateFiles {
			compactPath := cfg.CompactFiles[len(cfg.CompactFiles)-1]
			if i < len(cfg.CompactFiles) {
				compactPath = cfg.CompactFiles[i]
			}
			result, err := augment.Commit(updatePath, compactPath)
			if err != nil {
				return err
			}
			log.Info("committed updates",
				"update", updatePath, "compact", compactPath,
				"entries", result.Entries, "cases", result.Cases)
			fmt.Fprintf(cmd.OutOrStdout(), "committed %d entries (%d cases) from %s into %s\n",
				result.Entries, result.Cases, updatePath, compactPath)
		}
		return nil
	},
}

func init() {
	commitCmd.Flags().StringVar(&commitUpdate, "update", "", "update file to commit (overrides the configuration)")
	commitCmd.Flags().StringVar(&commitCompact, "compact", "", "compact file to commit into (overrides the configuration)")
	rootCmd.AddCommand(commitCmd)
}
