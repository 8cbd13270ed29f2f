package aggregator

import (
	"math"

	"survey-insights-go/internal/classifier"
	"survey-insights-go/internal/types"
)

// Aggregator maintains one QuestionAnalysis per question. The classifier is
// injected once at construction so folds stay pure and testable with fakes.
type Aggregator struct {
	clf classifier.Classifier
}

func New(clf classifier.Classifier) *Aggregator {
	return &Aggregator{clf: clf}
}

// Seed builds the zero-state analysis for a question: options at count 0 in
// authored order, empty histogram with average 0, or empty text counters.
func (ag *Aggregator) Seed(q types.Question) *types.QuestionAnalysis {
	an := &types.QuestionAnalysis{QuestionID: q.ID, Type: q.Type}
	switch {
	case q.Type.IsChoice():
		opts := make([]types.OptionCount, len(q.Options))
		for i, label := range q.Options {
			opts[i] = types.OptionCount{Label: label}
		}
		an.Choice = &types.ChoiceAnalysis{Options: opts}
	case q.Type.IsScore():
		an.Score = &types.ScoreAnalysis{Histogram: map[int]int{}}
	case q.Type.IsText():
		an.Text = &types.TextAnalysis{Texts: []string{}, Themes: map[string]int{}}
	}
	return an
}

// Fold incorporates one answer into the running analysis. All counters are
// associative and commutative, so fold order only affects the text list.
// Payloads that do not match the question type are skipped silently.
func (ag *Aggregator) Fold(an *types.QuestionAnalysis, ans types.Answer) {
	switch {
	case an.Type.IsChoice():
		ag.foldChoice(an.Choice, ans)
	case an.Type.IsScore():
		ag.foldScore(an.Score, ans)
	case an.Type.IsText():
		ag.foldText(an.Text, ans)
	}
}

func (ag *Aggregator) foldChoice(ch *types.ChoiceAnalysis, ans types.Answer) {
	for _, label := range ans.Labels() {
		// Exact label match; unmatched labels tolerate stale option lists.
		for i := range ch.Options {
			if ch.Options[i].Label == label {
				ch.Options[i].Count++
				break
			}
		}
	}
}

func (ag *Aggregator) foldScore(sc *types.ScoreAnalysis, ans types.Answer) {
	if ans.Score == nil {
		return
	}
	sc.Histogram[*ans.Score]++
	sc.Average = average(sc.Histogram)
}

func (ag *Aggregator) foldText(tx *types.TextAnalysis, ans types.Answer) {
	// A score or option payload aimed at a text question is a shape
	// mismatch; skip it so malformed submissions never inflate the
	// sentiment or theme counters. A genuinely empty text still folds.
	if ans.Score != nil || len(ans.Labels()) > 0 {
		return
	}
	tx.Texts = append(tx.Texts, ans.Text)
	res := ag.clf.Classify(ans.Text)
	switch res.Sentiment {
	case types.Positive:
		tx.Sentiment.Positive++
	case types.Negative:
		tx.Sentiment.Negative++
	default:
		tx.Sentiment.Neutral++
	}
	for _, theme := range res.Themes {
		if _, seen := tx.Themes[theme]; !seen {
			tx.ThemeOrder = append(tx.ThemeOrder, theme)
		}
		tx.Themes[theme]++
	}
}

func average(hist map[int]int) float64 {
	sum, n := 0, 0
	for score, count := range hist {
		sum += score * count
		n += count
	}
	if n == 0 {
		return 0
	}
	return math.Round(float64(sum)/float64(n)*100) / 100
}
