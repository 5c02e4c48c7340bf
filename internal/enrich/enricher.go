// Package enrich issues single prompt-completion requests against the LLM
// service: structured investor enrichment, client profiling, and qualitative
// fit assessment. Every call degrades to nil on failure; downstream scoring
// treats a missing record as insufficient data, never as a fatal error.
package enrich

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/evolute-hq/invscreen/internal/config"
	"github.com/evolute-hq/invscreen/internal/model"
	"github.com/evolute-hq/invscreen/pkg/llm"
)

// Sampling temperatures. Extraction must be reproducible; only free-text
// description generation gets room to write.
var (
	tempExtract  = 0.0
	tempDescribe = 0.7
)

// Enricher wraps the completion client for all screening LLM calls.
type Enricher struct {
	client llm.Client
	cfg    config.AnthropicConfig
}

// New creates an Enricher. The client is injected so tests can substitute a
// fake completion service.
func New(client llm.Client, cfg config.AnthropicConfig) *Enricher {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2048
	}
	return &Enricher{client: client, cfg: cfg}
}

// ExtractInvestor turns investor website text into a structured enrichment
// record. Returns nil when the call fails or the response holds no JSON.
func (e *Enricher) ExtractInvestor(ctx context.Context, name, websiteText string) *model.EnrichmentData {
	resp, err := e.client.CreateMessage(ctx, llm.MessageRequest{
		Model:       e.cfg.ExtractModel,
		MaxTokens:   e.cfg.MaxTokens,
		System:      extractSystemText,
		Temperature: &tempExtract,
		Messages: []llm.Message{
			{Role: "user", Content: fmt.Sprintf(extractPrompt, name, websiteText)},
		},
	})
	if err != nil {
		zap.L().Warn("enrich: investor extraction call failed",
			zap.String("investor", name),
			zap.Error(err),
		)
		return nil
	}
	resp.Usage.LogCost(e.cfg.ExtractModel, "extract")

	return parseEnrichment(resp.Text())
}

// ProfileClient turns client website text into a simple business profile.
func (e *Enricher) ProfileClient(ctx context.Context, name, websiteText string) *model.ClientProfile {
	resp, err := e.client.CreateMessage(ctx, llm.MessageRequest{
		Model:       e.cfg.ExtractModel,
		MaxTokens:   e.cfg.MaxTokens,
		System:      profileSystemText,
		Temperature: &tempExtract,
		Messages: []llm.Message{
			{Role: "user", Content: fmt.Sprintf(profilePrompt, name, websiteText)},
		},
	})
	if err != nil {
		zap.L().Warn("enrich: client profiling call failed",
			zap.String("client", name),
			zap.Error(err),
		)
		return nil
	}
	resp.Usage.LogCost(e.cfg.ExtractModel, "profile")

	return parseProfile(resp.Text())
}

// ProfileExtended produces the full client profile from multiple fetched
// pages, used by the client-website analysis endpoint. Keywords, when
// supplied, steer the analysis.
func (e *Enricher) ProfileExtended(ctx context.Context, pages []string, pageCount int, keywords []string) *model.ExtendedProfile {
	keywordContext := ""
	if len(keywords) > 0 {
		keywordContext = "\nThe user has selected these keywords as relevant: " +
			strings.Join(keywords, ", ") + ". Use them as guidance for which aspects of the business matter most.\n"
	}

	resp, err := e.client.CreateMessage(ctx, llm.MessageRequest{
		Model:       e.cfg.FitModel,
		MaxTokens:   4096,
		System:      profileSystemText,
		Temperature: &tempExtract,
		Messages: []llm.Message{
			{Role: "user", Content: fmt.Sprintf(extendedProfilePrompt, keywordContext, pageCount, strings.Join(pages, "\n\n"))},
		},
	})
	if err != nil {
		zap.L().Warn("enrich: extended profiling call failed", zap.Error(err))
		return nil
	}
	resp.Usage.LogCost(e.cfg.FitModel, "profile_extended")

	return parseExtendedProfile(resp.Text())
}

// AssessFit judges qualitative match between a client profile and an
// investor's enrichment record. Returns nil when the call or parse fails;
// the verdict engine treats that as a low-confidence non-match.
func (e *Enricher) AssessFit(ctx context.Context, profile *model.ClientProfile, inv *model.EnrichmentData, investorName string) *FitResult {
	if profile == nil || inv == nil {
		return nil
	}

	resp, err := e.client.CreateMessage(ctx, llm.MessageRequest{
		Model:       e.cfg.FitModel,
		MaxTokens:   1024,
		System:      fitSystemText,
		Temperature: &tempExtract,
		Messages: []llm.Message{
			{Role: "user", Content: fmt.Sprintf(fitPrompt,
				profile.CompanyName,
				profile.Description,
				profile.Sector,
				profile.Technology,
				profile.ProductType,
				profile.BusinessModel,
				profile.TargetMarket,
				strings.Join(profile.Keywords, ", "),
				investorName,
				strings.Join(inv.Sectors, ", "),
				inv.InvestmentThesis,
				inv.Description,
			)},
		},
	})
	if err != nil {
		zap.L().Warn("enrich: fit assessment call failed",
			zap.String("investor", investorName),
			zap.Error(err),
		)
		return nil
	}
	resp.Usage.LogCost(e.cfg.FitModel, "fit")

	return parseFit(resp.Text())
}

// Describe generates a short free-text description of an investor from its
// website text. The only moderate-temperature call in the pipeline.
func (e *Enricher) Describe(ctx context.Context, name, websiteText string) string {
	resp, err := e.client.CreateMessage(ctx, llm.MessageRequest{
		Model:       e.cfg.DescribeModel,
		MaxTokens:   512,
		Temperature: &tempDescribe,
		Messages: []llm.Message{
			{Role: "user", Content: fmt.Sprintf(describePrompt, name, websiteText)},
		},
	})
	if err != nil {
		zap.L().Warn("enrich: description call failed",
			zap.String("investor", name),
			zap.Error(err),
		)
		return ""
	}
	resp.Usage.LogCost(e.cfg.DescribeModel, "describe")

	return strings.TrimSpace(resp.Text())
}
