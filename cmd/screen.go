package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/evolute-hq/invscreen/internal/model"
	"github.com/evolute-hq/invscreen/internal/screen"
)

var (
	screenCSV       string
	screenOutput    string
	screenLimit     int
	screenClient    string
	screenWebsite   string
	screenCheckSize int64
	screenSectors   []string
	screenStages    []string
	screenGeo       []string
	screenHardware  bool
)

var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Screen an investor list CSV against a client",
	Long: `Reads an investor list CSV (columns: name, website, hq) and screens every
investor against the client criteria given by flags.

Examples:
  # Screen a list for a hardware client raising €5M at seed
  invscreen screen --csv investors.csv --client "Helix Bio" \
    --check-size 5000000 --stage Seed --sector climate --geo europe --hardware

  # Write results to a file
  invscreen screen --csv investors.csv --client "Helix Bio" --check-size 5000000 \
    --output results.json`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("screen"); err != nil {
			return err
		}

		investors, err := screen.ParseInvestorCSV(screenCSV)
		if err != nil {
			return err
		}
		zap.L().Info("parsed investor csv", zap.Int("investors", len(investors)))

		if screenLimit > 0 && screenLimit < len(investors) {
			investors = investors[:screenLimit]
		}

		criteria := model.ClientCriteria{
			ClientName:    screenClient,
			ClientWebsite: screenWebsite,
			Sectors:       screenSectors,
			CheckSize:     screenCheckSize,
			Stages:        screenStages,
			GeoFocus:      screenGeo,
			IsHardware:    screenHardware,
		}

		screener, _, _ := buildScreening()

		sink := model.EventSinkFunc(func(ev model.Event) {
			switch ev.Type {
			case model.EventProgress:
				zap.L().Info("screening investor",
					zap.Int("current", ev.Current),
					zap.Int("total", ev.Total),
					zap.String("investor", ev.Investor),
				)
			case model.EventResult:
				zap.L().Info("verdict",
					zap.String("investor", ev.Investor),
					zap.String("verdict", ev.Result.Verdict),
					zap.Int("score", ev.Result.Score),
				)
			}
		})

		results, summary := screener.Run(cmd.Context(), criteria, investors, nil, sink)

		zap.L().Info("screen: run complete",
			zap.Int("qualified", summary.Qualified),
			zap.Int("disqualified", summary.Disqualified),
			zap.Int("needs_review", summary.NeedsReview),
		)

		return writeScreenResults(results, summary)
	},
}

func init() {
	screenCmd.Flags().StringVar(&screenCSV, "csv", "", "path to investor list CSV (required)")
	screenCmd.Flags().StringVar(&screenOutput, "output", "", "write results JSON to file (default: stdout)")
	screenCmd.Flags().IntVar(&screenLimit, "limit", 0, "max investors to screen (0 = all)")
	screenCmd.Flags().StringVar(&screenClient, "client", "", "client name (required)")
	screenCmd.Flags().StringVar(&screenWebsite, "client-website", "", "client website, enables thematic fit assessment")
	screenCmd.Flags().Int64Var(&screenCheckSize, "check-size", 0, "target raise in whole EUR")
	screenCmd.Flags().StringSliceVar(&screenSectors, "sector", nil, "client sector tag (repeatable)")
	screenCmd.Flags().StringSliceVar(&screenStages, "stage", nil, "target funding stage (repeatable)")
	screenCmd.Flags().StringSliceVar(&screenGeo, "geo", nil, "client geography tag (repeatable)")
	screenCmd.Flags().BoolVar(&screenHardware, "hardware", false, "client builds hardware")
	_ = screenCmd.MarkFlagRequired("csv")
	_ = screenCmd.MarkFlagRequired("client")
	rootCmd.AddCommand(screenCmd)
}

// writeScreenResults writes the run output to the output file or stdout.
func writeScreenResults(results []model.ScreeningResult, summary model.Summary) error {
	out := struct {
		Results []model.ScreeningResult `json:"results"`
		Summary model.Summary           `json:"summary"`
	}{Results: results, Summary: summary}

	w := os.Stdout
	if screenOutput != "" {
		f, err := os.Create(screenOutput)
		if err != nil {
			return eris.Wrap(err, "screen: create output file")
		}
		defer f.Close() //nolint:errcheck
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
