package engine

import (
	"sync"

	"github.com/sirupsen/logrus"

	"survey-insights-go/internal/aggregator"
	"survey-insights-go/internal/classifier"
	"survey-insights-go/internal/logger"
	"survey-insights-go/internal/types"
)

// Engine aggregates a survey's responses into per-question analyses. It never
// mutates the response slice it is handed; callers pass a snapshot and the
// engine allocates a fresh analysis map per call, so concurrent Aggregate
// calls on the same survey never share writers.
type Engine struct {
	agg *aggregator.Aggregator
	log *logrus.Entry
}

func New(clf classifier.Classifier) *Engine {
	return &Engine{
		agg: aggregator.New(clf),
		log: logger.Component("engine"),
	}
}

// Aggregate is the full-recompute baseline: seed every question, fold every
// answer of every response. Answers targeting unknown question ids are
// skipped.
func (e *Engine) Aggregate(questions []types.Question, responses []types.Response) map[string]*types.QuestionAnalysis {
	analyses := e.seed(questions)
	for _, r := range responses {
		e.foldResponse(analyses, r)
	}
	return analyses
}

func (e *Engine) seed(questions []types.Question) map[string]*types.QuestionAnalysis {
	analyses := make(map[string]*types.QuestionAnalysis, len(questions))
	for _, q := range questions {
		analyses[q.ID] = e.agg.Seed(q)
	}
	return analyses
}

func (e *Engine) foldResponse(analyses map[string]*types.QuestionAnalysis, r types.Response) {
	for _, ans := range r.Answers {
		an, ok := analyses[ans.QuestionID]
		if !ok {
			e.log.WithFields(logrus.Fields{
				"response_id": r.ID,
				"question_id": ans.QuestionID,
			}).Debug("answer targets unknown question, skipping")
			continue
		}
		e.agg.Fold(an, ans)
	}
}

// Session is the incremental path for a live feed: it owns one analysis map
// behind a single-writer lock and folds responses one at a time. Folding the
// same responses through a Session yields the same map as one full Aggregate
// over the final response set.
type Session struct {
	mu        sync.Mutex
	engine    *Engine
	analyses  map[string]*types.QuestionAnalysis
	responses int
}

func (e *Engine) NewSession(questions []types.Question) *Session {
	return &Session{engine: e, analyses: e.seed(questions)}
}

// FoldResponse incorporates one newly arrived response without re-scanning
// history.
func (s *Session) FoldResponse(r types.Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.foldResponse(s.analyses, r)
	s.responses++
}

// Snapshot deep-copies the current analyses so readers never observe
// in-flight folds.
func (s *Session) Snapshot() map[string]*types.QuestionAnalysis {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]*types.QuestionAnalysis, len(s.analyses))
	for id, an := range s.analyses {
		out[id] = an.Clone()
	}
	return out
}

func (s *Session) ResponseCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.responses
}
