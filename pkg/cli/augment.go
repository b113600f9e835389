package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/caseoracle/caseoracle/pkg/augment"
)

var augmentUpdate string

var augmentCmd = &cobra.Command{
	Use:   "augment",
	Short: "Append augmentation entries to the update file",
	Long: `augment reads one JSON entry per line from stdin, each of the form
{"case id": "...", "fields": {...}}, and appends them durably to the update
file. All entries appended in one invocation share a run id. Entries stay
pending until folded into the compact file with commit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		updatePath := augmentUpdate
		if updatePath == "" {
			if len(cfg.UpdateFiles) == 0 {
				return fmt.Errorf("no update file configured and --update not given")
			}
			updatePath = cfg.UpdateFiles[0]
		}

		w := augment.NewWriter(updatePath)
		scanner := bufio.NewScanner(cmd.InOrStdin())
		scanner.Buffer(make([]byte, 64*1024), 16<<20)

		line, appended := 0, 0
		for scanner.Scan() {
			line++
			text := strings.TrimSpace(scanner.Text())
			if text == "" {
				continue
			}
			var entry augment.Entry
			if err := json.Unmarshal([]byte(text), &entry); err != nil {
				return fmt.Errorf("entry %d: %w", line, err)
			}
			if err := w.Append(entry.CaseID, entry.Fields); err != nil {
				return fmt.Errorf("entry %d: %w", line, err)
			}
			appended++
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("read entries: %w", err)
		}

		log.Info("appended augmentation entries",
			"update", updatePath, "entries", appended, "run", w.RunID())
		fmt.Fprintf(cmd.OutOrStdout(), "appended %d entries to %s (run %s)\n",
			appended, updatePath, w.RunID())
		return nil
	},
}

func init() {
	augmentCmd.Flags().StringVar(&augmentUpdate, "update", "", "update file to append to (overrides the configuration)")
	rootCmd.AddCommand(augmentCmd)
}
