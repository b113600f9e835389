package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/caseoracle/caseoracle/pkg/store"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration and case corpus",
	Long: `validate loads the configuration, checks it against the configuration
schema, and loads every configured case file, reporting the first problem it
finds. A clean run prints a summary and exits 0.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}

		set, err := store.Load(cfg, log)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "configuration ok: %d cases from %d case files\n",
			set.Len(), len(cfg.CaseFiles)+len(cfg.ExtensionFiles))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
