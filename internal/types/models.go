package types

import (
	"encoding/json"
	"strconv"
	"strings"
)

// QuestionType is the closed set of supported question kinds.
type QuestionType string

const (
	SingleChoice   QuestionType = "single_choice"
	MultiChoice    QuestionType = "multi_choice"
	Rating         QuestionType = "rating"
	NPS            QuestionType = "nps"
	OpenEnded      QuestionType = "open_ended"
	Conversational QuestionType = "conversational"
)

// IsChoice reports whether answers carry option labels.
func (t QuestionType) IsChoice() bool {
	return t == SingleChoice || t == MultiChoice
}

// IsScore reports whether answers carry an integer score.
func (t QuestionType) IsScore() bool {
	return t == Rating || t == NPS
}

// IsText reports whether answers carry free text.
func (t QuestionType) IsText() bool {
	return t == OpenEnded || t == Conversational
}

func (t QuestionType) Valid() bool {
	return t.IsChoice() || t.IsScore() || t.IsText()
}

type Question struct {
	ID      string       `json:"id"`
	Text    string       `json:"text"`
	Type    QuestionType `json:"type"`
	Options []string     `json:"options,omitempty"`
}

type Survey struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// Answer targets one question. Exactly one payload field is meaningful,
// determined by the target question's type; a payload that does not match
// the question type is skipped during aggregation, never an error.
type Answer struct {
	QuestionID string   `json:"question_id"`
	Option     string   `json:"option,omitempty"`
	Options    []string `json:"options,omitempty"`
	Score      *int     `json:"score,omitempty"`
	Text       string   `json:"text,omitempty"`
}

// Labels returns the selected option labels regardless of single/multi shape.
func (a Answer) Labels() []string {
	if a.Option != "" {
		return []string{a.Option}
	}
	return a.Options
}

// UnmarshalJSON tolerates a score sent as a JSON string ("9"). Anything that
// does not parse as an integer leaves Score nil, so the aggregator skips it.
func (a *Answer) UnmarshalJSON(data []byte) error {
	type alias Answer
	aux := struct {
		Score json.RawMessage `json:"score,omitempty"`
		*alias
	}{alias: (*alias)(a)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(aux.Score) == 0 {
		return nil
	}
	raw := strings.Trim(strings.TrimSpace(string(aux.Score)), `"`)
	if n, err := strconv.Atoi(raw); err == nil {
		a.Score = &n
	}
	return nil
}

// Response is one respondent submission. Append-only: updates arrive as new
// Response instances over the live feed, never as mutations.
type Response struct {
	ID            string   `json:"id"`
	RespondentRef string   `json:"respondent_ref,omitempty"`
	Answers       []Answer `json:"answers"`
}
