package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/caseoracle/caseoracle/pkg/service"
	"github.com/caseoracle/caseoracle/pkg/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Answer request records from stdin, one JSON record per line",
	Long: `serve reads one JSON request record per line from stdin and writes one
JSON response record per line to stdout. Exact matches get the recorded
response with the response status defaulted; anything else gets a nearest-
candidate report. The session ends cleanly at end of input.`,
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

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc := service.New(set, cfg, log)
		return svc.Run(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
