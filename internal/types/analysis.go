package types

import "time"

// Sentiment is the 3-bucket classification of a free-text answer.
type Sentiment string

const (
	Positive Sentiment = "positive"
	Neutral  Sentiment = "neutral"
	Negative Sentiment = "negative"
)

type SentimentCounts struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

func (s *SentimentCounts) Add(o SentimentCounts) {
	s.Positive += o.Positive
	s.Neutral += o.Neutral
	s.Negative += o.Negative
}

// Dominant returns the largest bucket. Ties resolve in the fixed order
// positive, neutral, negative.
func (s SentimentCounts) Dominant() Sentiment {
	best, label := s.Positive, Positive
	if s.Neutral > best {
		best, label = s.Neutral, Neutral
	}
	if s.Negative > best {
		label = Negative
	}
	return label
}

func (s SentimentCounts) Total() int {
	return s.Positive + s.Neutral + s.Negative
}

type OptionCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// ChoiceAnalysis keeps one counter per authored option, in authored order.
type ChoiceAnalysis struct {
	Options []OptionCount `json:"options"`
}

// ScoreAnalysis is the rating/nps histogram plus its derived average.
type ScoreAnalysis struct {
	Histogram map[int]int `json:"histogram"`
	Average   float64     `json:"average"`
}

// TextAnalysis collects raw texts in fold order plus sentiment and theme
// counters. ThemeOrder records first-seen order for deterministic ranking.
type TextAnalysis struct {
	Texts      []string        `json:"texts"`
	Sentiment  SentimentCounts `json:"sentiment"`
	Themes     map[string]int  `json:"themes"`
	ThemeOrder []string        `json:"theme_order"`
}

// QuestionAnalysis is a tagged variant over the question type: exactly one of
// Choice, Score, Text is non-nil, matching Type. Consumers switch on Type so
// a new question type is a compile-visible change at every site.
type QuestionAnalysis struct {
	QuestionID string          `json:"question_id"`
	Type       QuestionType    `json:"type"`
	Choice     *ChoiceAnalysis `json:"choice,omitempty"`
	Score      *ScoreAnalysis  `json:"score,omitempty"`
	Text       *TextAnalysis   `json:"text,omitempty"`
}

// Clone deep-copies the analysis so snapshots never share counter state with
// the single writer.
func (qa *QuestionAnalysis) Clone() *QuestionAnalysis {
	out := &QuestionAnalysis{QuestionID: qa.QuestionID, Type: qa.Type}
	if qa.Choice != nil {
		opts := make([]OptionCount, len(qa.Choice.Options))
		copy(opts, qa.Choice.Options)
		out.Choice = &ChoiceAnalysis{Options: opts}
	}
	if qa.Score != nil {
		hist := make(map[int]int, len(qa.Score.Histogram))
		for k, v := range qa.Score.Histogram {
			hist[k] = v
		}
		out.Score = &ScoreAnalysis{Histogram: hist, Average: qa.Score.Average}
	}
	if qa.Text != nil {
		texts := make([]string, len(qa.Text.Texts))
		copy(texts, qa.Text.Texts)
		themes := make(map[string]int, len(qa.Text.Themes))
		for k, v := range qa.Text.Themes {
			themes[k] = v
		}
		var order []string
		if qa.Text.ThemeOrder != nil {
			order = make([]string, len(qa.Text.ThemeOrder))
			copy(order, qa.Text.ThemeOrder)
		}
		out.Text = &TextAnalysis{
			Texts:      texts,
			Sentiment:  qa.Text.Sentiment,
			Themes:     themes,
			ThemeOrder: order,
		}
	}
	return out
}

type ThemeCount struct {
	Theme string `json:"theme"`
	Count int    `json:"count"`
}

// ExecutiveSummary is regenerated wholesale from the current analysis map;
// it is never maintained incrementally.
type ExecutiveSummary struct {
	SurveyID      string          `json:"survey_id"`
	SurveyTitle   string          `json:"survey_title"`
	ResponseCount int             `json:"response_count"`
	NPSScore      int             `json:"nps_score"`
	HasNPS        bool            `json:"has_nps"`
	Sentiment     SentimentCounts `json:"sentiment"`
	TopThemes     []ThemeCount    `json:"top_themes"`
	Insight       string          `json:"insight"`
	GeneratedAt   time.Time       `json:"generated_at"`
}
