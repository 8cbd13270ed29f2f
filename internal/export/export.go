package export

import (
	"fmt"
	"sort"

	"survey-insights-go/internal/types"
)

// ChartPoint is the {name, count} pair chart-rendering collaborators consume.
type ChartPoint struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Row is one flattened line of the tabular export:
// question text, type, option/rating/sentiment label, count.
type Row struct {
	Question string `json:"question"`
	Type     string `json:"type"`
	Label    string `json:"label"`
	Count    int    `json:"count"`
}

// ChartPoints flattens one analysis into chart pairs: option counts, rating
// buckets in ascending score order, or sentiment buckets.
func ChartPoints(an *types.QuestionAnalysis) []ChartPoint {
	switch an.Type {
	case types.SingleChoice, types.MultiChoice:
		out := make([]ChartPoint, len(an.Choice.Options))
		for i, opt := range an.Choice.Options {
			out[i] = ChartPoint{Name: opt.Label, Count: opt.Count}
		}
		return out
	case types.Rating, types.NPS:
		scores := sortedScores(an.Score.Histogram)
		out := make([]ChartPoint, len(scores))
		for i, s := range scores {
			out[i] = ChartPoint{Name: fmt.Sprintf("%d", s), Count: an.Score.Histogram[s]}
		}
		return out
	case types.OpenEnded, types.Conversational:
		return []ChartPoint{
			{Name: string(types.Positive), Count: an.Text.Sentiment.Positive},
			{Name: string(types.Neutral), Count: an.Text.Sentiment.Neutral},
			{Name: string(types.Negative), Count: an.Text.Sentiment.Negative},
		}
	}
	return nil
}

// Rows flattens the whole analysis map into tabular rows, questions in
// authored order.
func Rows(survey types.Survey, analyses map[string]*types.QuestionAnalysis) []Row {
	var rows []Row
	for _, q := range survey.Questions {
		an, ok := analyses[q.ID]
		if !ok {
			continue
		}
		for _, p := range ChartPoints(an) {
			rows = append(rows, Row{Question: q.Text, Type: string(q.Type), Label: p.Name, Count: p.Count})
		}
	}
	return rows
}

func sortedScores(hist map[int]int) []int {
	scores := make([]int, 0, len(hist))
	for s := range hist {
		scores = append(scores, s)
	}
	sort.Ints(scores)
	return scores
}
