package classifier

import (
	"strings"

	"survey-insights-go/internal/types"
)

// Classifier turns free text into a sentiment bucket and a set of theme tags.
// Implementations must be pure: no I/O, no state mutation, deterministic.
type Classifier interface {
	Classify(text string) Result
}

type Result struct {
	Sentiment types.Sentiment `json:"sentiment"`
	Themes    []string        `json:"themes"`
}

// Polarity dead-zone: scores within (-0.1, 0.1) classify as neutral so that
// near-neutral text is not over-classified.
const (
	positiveThreshold = 0.1
	negativeThreshold = -0.1
)

// FallbackTheme is returned when no topic is detected, so every text answer
// lands in at least one theme bucket.
const FallbackTheme = "general"

type topicRule struct {
	theme  string
	tokens []string
}

// Lexicon is the default Classifier: a word-valence scorer plus keyword
// topic rules.
type Lexicon struct {
	valence map[string]float64
	topics  []topicRule
}

func New() *Lexicon {
	return &Lexicon{valence: defaultValence, topics: defaultTopics}
}

// Classify scores sentence-level polarity and extracts themes. Empty or
// malformed text never fails: it classifies neutral with the fallback theme.
func (l *Lexicon) Classify(text string) Result {
	score := l.Polarity(text)

	sentiment := types.Neutral
	switch {
	case score > positiveThreshold:
		sentiment = types.Positive
	case score < negativeThreshold:
		sentiment = types.Negative
	}

	themes := l.themes(text)
	if len(themes) == 0 {
		themes = []string{FallbackTheme}
	}
	return Result{Sentiment: sentiment, Themes: themes}
}

// Polarity returns a continuous score in [-1, 1]: the mean valence of
// lexicon hits per sentence, averaged over sentences that had any hit.
// Text with no scored words is 0.
func (l *Lexicon) Polarity(text string) float64 {
	var total float64
	scored := 0
	for _, sentence := range splitSentences(text) {
		s, hits := l.sentenceScore(sentence)
		if hits == 0 {
			continue
		}
		total += s
		scored++
	}
	if scored == 0 {
		return 0
	}
	return clamp(total/float64(scored), -1, 1)
}

func (l *Lexicon) sentenceScore(sentence string) (float64, int) {
	words := tokenize(sentence)
	var sum float64
	hits := 0
	for i, w := range words {
		v, ok := l.valence[w]
		if !ok {
			continue
		}
		if negatedAt(words, i) {
			v = -v
		}
		if i > 0 {
			if boost, ok := boosters[words[i-1]]; ok {
				v *= boost
			}
		}
		sum += v
		hits++
	}
	if hits == 0 {
		return 0, 0
	}
	return clamp(sum/float64(hits), -1, 1), hits
}

// themes scans tokens in reading order and tags the first matching topic
// rule per theme, preserving encounter order.
func (l *Lexicon) themes(text string) []string {
	words := tokenize(text)
	if len(words) == 0 {
		return nil
	}
	index := map[string]string{}
	for _, rule := range l.topics {
		for _, t := range rule.tokens {
			if _, taken := index[t]; !taken {
				index[t] = rule.theme
			}
		}
	}
	var out []string
	seen := map[string]bool{}
	for _, w := range words {
		theme, ok := index[w]
		if !ok || seen[theme] {
			continue
		}
		seen[theme] = true
		out = append(out, theme)
	}
	return out
}

// negatedAt reports whether one of the two preceding tokens is a negator
// ("not good", "never worked").
func negatedAt(words []string, i int) bool {
	for j := i - 1; j >= 0 && j >= i-2; j-- {
		if negators[words[j]] {
			return true
		}
	}
	return false
}

func splitSentences(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	})
}

func tokenize(s string) []string {
	var out []string
	for _, f := range strings.Fields(strings.ToLower(s)) {
		w := strings.Trim(f, ",;:\"'()[]{}!?.*-")
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
