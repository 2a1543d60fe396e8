package main

import (
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/founder-scout/internal/discover"
	"github.com/sells-group/founder-scout/internal/fetch"
	"github.com/sells-group/founder-scout/internal/model"
	"github.com/sells-group/founder-scout/internal/scoring"
	openaipkg "github.com/sells-group/founder-scout/pkg/openai"
	"github.com/sells-group/founder-scout/pkg/serp"
)

var (
	scoreURL   string
	scoreTrace bool
)

// scoreOutput is the JSON document printed for one run.
type scoreOutput struct {
	Result *model.ScoreResult `json:"result,omitempty"`
	Error  string             `json:"error,omitempty"`
	Trace  *model.RunTrace    `json:"trace,omitempty"`
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score founder potential for a single profile URL",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}

		runner := newRunner()
		result, trace, err := runner.Run(cmd.Context(), scoreURL)

		out := scoreOutput{Result: result}
		if scoreTrace {
			out.Trace = &trace
		}
		if err != nil {
			out.Error = err.Error()
			// The trace up to the failure point always ships with the error.
			out.Trace = &trace
			logRunError(scoreURL, err)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(out); encErr != nil {
			return eris.Wrap(encErr, "encode result")
		}
		return err
	},
}

// newRunner wires the pipeline from the loaded config.
func newRunner() *scoring.Runner {
	searchClient := serp.NewClient(cfg.SerpAPI.Key,
		serp.WithBaseURL(cfg.SerpAPI.BaseURL),
		serp.WithTimeout(time.Duration(cfg.SerpAPI.TimeoutSecs)*time.Second),
	)
	llmClient := openaipkg.NewClient(cfg.OpenAI.Key, openaipkg.WithBaseURL(cfg.OpenAI.BaseURL))
	fetcher := fetch.New(cfg.Fetch, cfg.LinkedIn)
	disc := discover.New(searchClient, cfg.Scout)
	orch := scoring.NewOrchestrator(llmClient, cfg.OpenAI)
	return scoring.NewRunner(fetcher, disc, orch, cfg.Scout)
}

func logRunError(url string, err error) {
	var provErr *scoring.ProviderError
	if errors.As(err, &provErr) {
		zap.L().Error("scoring failed",
			zap.String("profile", url),
			zap.String("kind", string(provErr.Kind)),
			zap.Int("status", provErr.StatusCode),
			zap.String("raw", provErr.Raw),
		)
		return
	}
	zap.L().Error("run failed", zap.String("profile", url), zap.Error(err))
}

func init() {
	scoreCmd.Flags().StringVar(&scoreURL, "url", "", "profile URL (required)")
	scoreCmd.Flags().BoolVar(&scoreTrace, "trace", false, "include the run trace in output")
	_ = scoreCmd.MarkFlagRequired("url")
	rootCmd.AddCommand(scoreCmd)
}
