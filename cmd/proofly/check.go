package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/proofly-ai/proofly/pkg/checker"
	"github.com/proofly-ai/proofly/pkg/models"
	"github.com/proofly-ai/proofly/pkg/provider"
	"github.com/spf13/cobra"
)

var typeColors = map[models.ErrorType]*color.Color{
	models.ErrorTypeGrammar:     color.New(color.FgYellow, color.Bold),
	models.ErrorTypeSpelling:    color.New(color.FgRed, color.Bold),
	models.ErrorTypeStyle:       color.New(color.FgCyan, color.Bold),
	models.ErrorTypePunctuation: color.New(color.FgMagenta, color.Bold),
	models.ErrorTypeOther:       color.New(color.FgWhite, color.Bold),
}

func newCheckCmd() *cobra.Command {
	var (
		configPath   string
		providerName string
		language     string
	)

	cmd := &cobra.Command{
		Use:   "check [text]",
		Short: "Run a one-shot grammar check from the command line",
		Long:  "Checks the given text (or stdin when no argument is passed) and prints the findings.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			text := ""
			if len(args) == 1 {
				text = args[0]
			} else {
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = strings.TrimRight(string(data), "\n")
			}

			store := newStore(cfg)
			defer func() { _ = store.Close() }()

			svc := checker.New(store, provider.NewClients(cfg), nil, cfg.Cache.TTL)

			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			resp, err := svc.Check(ctx, models.CheckRequest{
				Text:     text,
				Provider: providerName,
				Language: language,
			})
			if err != nil {
				return err
			}

			printResponse(resp, text)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVarP(&providerName, "provider", "p", provider.NameLanguageTool,
		"checking backend (languagetool, openai, openrouter)")
	cmd.Flags().StringVarP(&language, "language", "l", "", "language code (default en-US)")
	return cmd
}

func printResponse(resp *models.CheckResponse, text string) {
	if len(resp.Errors) == 0 {
		color.Green("No issues found.")
		printFooter(resp)
		return
	}

	runes := []rune(text)
	for i, e := range resp.Errors {
		label := typeColors[e.Type]
		if label == nil {
			label = typeColors[models.ErrorTypeOther]
		}

		span := ""
		if e.Offset >= 0 && e.Offset+e.Length <= len(runes) {
			span = string(runes[e.Offset : e.Offset+e.Length])
		}

		fmt.Printf("%d. %s %s\n", i+1, label.Sprintf("[%s]", e.Type), e.Message)
		if span != "" {
			fmt.Printf("   at offset %d: %q\n", e.Offset, span)
		}
		if len(e.Replacements) > 0 {
			fmt.Printf("   suggestions: %s\n", strings.Join(e.Replacements, ", "))
		}
	}
	printFooter(resp)
}

func printFooter(resp *models.CheckResponse) {
	cached := ""
	if resp.Metadata.Cached {
		cached = ", cached"
	}
	fmt.Printf("\n%d issue(s) via %s in %dms%s\n",
		len(resp.Errors), resp.Metadata.Provider, resp.Metadata.ProcessingTime, cached)
}
