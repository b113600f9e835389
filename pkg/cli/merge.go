package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/caseoracle/caseoracle/pkg/store"
)

var mergeOutput string

var mergeCmd = &cobra.Command{
	Use:   "merge MAIN EXTENSION...",
	Short: "Merge interface extension files into a main case file",
	Long: `merge unions the MAIN case file with one or more EXTENSION case files
into a single case file, preserving every record verbatim. Two records with
the same derived key abort the merge with an error naming both sources.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		if mergeOutput == "" {
			return fmt.Errorf("an output file is required (-o)")
		}

		n, err := store.MergeExtensions(args[0], args[1:], mergeOutput, cfg.KeySpec())
		if err != nil {
			return err
		}
		log.Info("merged case files", "main", args[0], "extensions", len(args)-1, "cases", n)
		fmt.Fprintf(cmd.OutOrStdout(), "merged %d cases into %s\n", n, mergeOutput)
		return nil
	},
}

func init() {
	mergeCmd.Flags().StringVarP(&mergeOutput, "output", "o", "", "merged case file to write")
	rootCmd.AddCommand(mergeCmd)
}
