package nps

import (
	"math"

	"survey-insights-go/internal/types"
)

// Rating bands: promoters 9-10, detractors 0-6, passives 7-8. Passives count
// toward the total only.
const (
	promoterMin  = 9
	detractorMax = 6
)

// Result carries the score plus its sample breakdown. Score is 0 both when
// the survey truly nets to zero and when no qualifying answers exist; Total
// lets callers tell the two apart.
type Result struct {
	Score      int `json:"score"`
	Promoters  int `json:"promoters"`
	Passives   int `json:"passives"`
	Detractors int `json:"detractors"`
	Total      int `json:"total"`
}

// Compute derives the Net Promoter Score from every answer targeting
// questionID. Always in [-100, 100]; 0 by convention with no data.
func Compute(responses []types.Response, questionID string) Result {
	var res Result
	if questionID == "" {
		return res
	}
	for _, r := range responses {
		for _, ans := range r.Answers {
			if ans.QuestionID != questionID || ans.Score == nil {
				continue
			}
			res.Total++
			switch {
			case *ans.Score >= promoterMin:
				res.Promoters++
			case *ans.Score <= detractorMax:
				res.Detractors++
			default:
				res.Passives++
			}
		}
	}
	if res.Total == 0 {
		return res
	}
	res.Score = int(math.Round(float64(res.Promoters-res.Detractors) / float64(res.Total) * 100))
	return res
}

// FindQuestion returns the id of the first nps-type question, if any.
func FindQuestion(questions []types.Question) (string, bool) {
	for _, q := range questions {
		if q.Type == types.NPS {
			return q.ID, true
		}
	}
	return "", false
}
