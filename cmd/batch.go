package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/founder-scout/internal/discover"
)

var batchFile string

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Score a list of LinkedIn profile URLs",
	Long: `Reads pasted text or a file, keeps only linkedin.com/in/ profile URLs
(deduplicated, in order), and scores each sequentially. A failed run is
reported in place and does not stop the batch.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}

		raw, err := os.ReadFile(batchFile)
		if err != nil {
			return eris.Wrap(err, "read batch file")
		}

		urls := discover.SanitizeProfileURLs(string(raw))
		if len(urls) == 0 {
			return eris.New("batch: no linkedin.com/in/ URLs found in input")
		}
		zap.L().Info("batch starting", zap.Int("profiles", len(urls)))

		runner := newRunner()
		outputs := make([]scoreOutput, 0, len(urls))
		for _, u := range urls {
			if err := cmd.Context().Err(); err != nil {
				return err
			}

			result, trace, runErr := runner.Run(cmd.Context(), u)
			out := scoreOutput{Result: result}
			if runErr != nil {
				out.Error = runErr.Error()
				out.Trace = &trace
				logRunError(u, runErr)
			}
			outputs = append(outputs, out)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(outputs)
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchFile, "file", "", "file of profile URLs, one per line (required)")
	_ = batchCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(batchCmd)
}
