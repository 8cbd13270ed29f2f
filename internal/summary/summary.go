package summary

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"survey-insights-go/internal/engine"
	"survey-insights-go/internal/nps"
	"survey-insights-go/internal/types"
)

const maxTopThemes = 3

// Phrase substituted when no text answer produced a theme.
const noThemesPhrase = "No recurring themes yet"

// Generator renders the executive summary from a fresh aggregation pass.
type Generator struct {
	engine *engine.Engine
}

func New(e *engine.Engine) *Generator {
	return &Generator{engine: e}
}

// Summarize re-aggregates the response snapshot and assembles the summary:
// NPS when an nps-type question exists, survey-wide sentiment, top themes
// ranked by count (ties keep first-encountered order), and the templated
// insight line.
func (g *Generator) Summarize(survey types.Survey, responses []types.Response) types.ExecutiveSummary {
	analyses := g.engine.Aggregate(survey.Questions, responses)
	return g.assemble(survey, responses, analyses)
}

// FromAnalyses builds the summary from an existing analysis map, e.g. a live
// session snapshot, without re-aggregating.
func (g *Generator) FromAnalyses(survey types.Survey, responses []types.Response, analyses map[string]*types.QuestionAnalysis) types.ExecutiveSummary {
	return g.assemble(survey, responses, analyses)
}

func (g *Generator) assemble(survey types.Survey, responses []types.Response, analyses map[string]*types.QuestionAnalysis) types.ExecutiveSummary {
	sum := types.ExecutiveSummary{
		SurveyID:      survey.ID,
		SurveyTitle:   survey.Title,
		ResponseCount: len(responses),
		TopThemes:     []types.ThemeCount{},
		GeneratedAt:   time.Now().UTC(),
	}

	var npsRes nps.Result
	if id, ok := nps.FindQuestion(survey.Questions); ok {
		sum.HasNPS = true
		npsRes = nps.Compute(responses, id)
		sum.NPSScore = npsRes.Score
	}

	// Survey-wide sentiment and theme ranking across text questions, walking
	// questions in authored order so first-encounter ties are deterministic.
	themeTotals := map[string]int{}
	var themeOrder []string
	for _, q := range survey.Questions {
		an, ok := analyses[q.ID]
		if !ok || an.Type != q.Type {
			continue
		}
		switch an.Type {
		case types.OpenEnded, types.Conversational:
			sum.Sentiment.Add(an.Text.Sentiment)
			for _, theme := range an.Text.ThemeOrder {
				if _, seen := themeTotals[theme]; !seen {
					themeOrder = append(themeOrder, theme)
				}
				themeTotals[theme] += an.Text.Themes[theme]
			}
		case types.SingleChoice, types.MultiChoice, types.Rating, types.NPS:
			// no text contribution
		}
	}

	ranked := make([]types.ThemeCount, 0, len(themeOrder))
	for _, theme := range themeOrder {
		ranked = append(ranked, types.ThemeCount{Theme: theme, Count: themeTotals[theme]})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })
	if len(ranked) > maxTopThemes {
		ranked = ranked[:maxTopThemes]
	}
	sum.TopThemes = ranked

	sum.Insight = renderInsight(sum, npsRes)
	return sum
}

func renderInsight(sum types.ExecutiveSummary, npsRes nps.Result) string {
	parts := []string{fmt.Sprintf("Collected %d responses.", sum.ResponseCount)}

	if sum.HasNPS {
		if npsRes.Total == 0 {
			// 0 is ambiguous between "true zero" and "no data"; annotate.
			parts = append(parts, "NPS is 0 (no scored answers yet).")
		} else {
			parts = append(parts, fmt.Sprintf("NPS is %d (%d promoters, %d detractors of %d).",
				sum.NPSScore, npsRes.Promoters, npsRes.Detractors, npsRes.Total))
		}
	}

	if sum.Sentiment.Total() > 0 {
		parts = append(parts, fmt.Sprintf("Overall sentiment is %s.", sum.Sentiment.Dominant()))
	}

	if len(sum.TopThemes) == 0 {
		parts = append(parts, noThemesPhrase+".")
	} else {
		names := make([]string, len(sum.TopThemes))
		for i, t := range sum.TopThemes {
			names[i] = t.Theme
		}
		parts = append(parts, fmt.Sprintf("Top themes: %s.", strings.Join(names, ", ")))
	}

	return strings.Join(parts, " ")
}
