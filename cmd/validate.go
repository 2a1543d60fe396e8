package main

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	openaipkg "github.com/sells-group/founder-scout/pkg/openai"
	"github.com/sells-group/founder-scout/pkg/serp"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that the configured API credentials work",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		ctx := cmd.Context()

		searchClient := serp.NewClient(cfg.SerpAPI.Key,
			serp.WithBaseURL(cfg.SerpAPI.BaseURL),
			serp.WithTimeout(time.Duration(cfg.SerpAPI.TimeoutSecs)*time.Second),
		)
		if _, err := searchClient.Search(ctx, "test", 1); err != nil {
			return eris.Wrap(err, "serpapi check failed")
		}
		fmt.Println("serpapi: ok")

		llmClient := openaipkg.NewClient(cfg.OpenAI.Key, openaipkg.WithBaseURL(cfg.OpenAI.BaseURL))
		_, err := llmClient.Complete(ctx, openaipkg.CompletionRequest{
			Model:       cfg.OpenAI.Model,
			User:        "Reply with the word ok.",
			Temperature: openaipkg.EffectiveTemperature(cfg.OpenAI.Model, cfg.OpenAI.Temperature),
			MaxTokens:   4,
		})
		if err != nil {
			return eris.Wrap(err, "openai check failed")
		}
		fmt.Println("openai: ok")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
