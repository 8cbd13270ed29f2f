package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"survey-insights-go/internal/classifier"
	"survey-insights-go/internal/engine"
	"survey-insights-go/internal/export"
	"survey-insights-go/internal/feed"
	"survey-insights-go/internal/fetch"
	"survey-insights-go/internal/logger"
	"survey-insights-go/internal/summary"
	"survey-insights-go/internal/types"
)

type server struct {
	mu       sync.Mutex
	surveys  map[string]types.Survey
	sessions map[string]*engine.Session
	cancels  map[string]func()

	clf     classifier.Classifier
	engine  *engine.Engine
	summary *summary.Generator
	feed    *feed.Feed
	source  *fetch.Client
}

func newServer(clf classifier.Classifier, source *fetch.Client) *server {
	eng := engine.New(clf)
	return &server{
		surveys:  map[string]types.Survey{},
		sessions: map[string]*engine.Session{},
		cancels:  map[string]func(){},
		clf:      clf,
		engine:   eng,
		summary:  summary.New(eng),
		feed:     feed.New(),
		source:   source,
	}
}

func (s *server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		logger.New().WithRequest(r).Info("health check")
		fmt.Fprint(w, "ok")
	})

	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("POST /classify", s.handleClassify)
	mux.HandleFunc("POST /surveys", s.handleRegister)
	mux.HandleFunc("POST /surveys/{id}/responses", s.handleSubmit)
	mux.HandleFunc("GET /surveys/{id}/analysis", s.handleAnalysis)
	mux.HandleFunc("GET /surveys/{id}/summary", s.handleSummary)
	mux.HandleFunc("GET /surveys/{id}/export", s.handleExport)

	return mux
}

func main() {
	_ = godotenv.Load() // loads .env

	log := logger.New()
	log.WithField("service", "survey-insights-go").Info("starting service")

	var source *fetch.Client
	if base := os.Getenv("SOURCE_API_URL"); base != "" {
		log.WithField("source_api", base).Info("source API configured")
		source = fetch.New(base, 25*time.Second)
	}

	s := newServer(classifier.New(), source)

	addr := fmt.Sprintf(":%s", envOr("PORT", "8080"))
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.WithField("addr", addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server terminated")
	}
}

// handleAnalyze runs one stateless aggregation pass over the posted snapshot.
func (s *server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	reqLog := logger.New().WithRequest(r).WithField("handler", "analyze")

	var in struct {
		Survey    types.Survey     `json:"survey"`
		Responses []types.Response `json:"responses"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		reqLog.WithError(err).Warn("bad request body")
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if in.Survey.ID == "" || len(in.Survey.Questions) == 0 {
		http.Error(w, "missing survey", http.StatusBadRequest)
		return
	}

	start := time.Now()
	analyses := s.engine.Aggregate(in.Survey.Questions, in.Responses)
	sum := s.summary.FromAnalyses(in.Survey, in.Responses, analyses)
	reqLog.WithField("duration_ms", time.Since(start).Milliseconds()).
		WithField("responses", len(in.Responses)).Info("analysis complete")

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"analyses": analyses,
		"summary":  sum,
	})
}

// handleClassify serves the conversational-assistant collaborator, which
// queries the classifier directly on user-typed text.
func (s *server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, s.clf.Classify(in.Text))
}

// handleRegister stores a survey and starts its live session: a subscriber
// folds each feed delivery incrementally, no history re-scan.
func (s *server) handleRegister(w http.ResponseWriter, r *http.Request) {
	reqLog := logger.New().WithRequest(r).WithField("handler", "register")

	var survey types.Survey
	if err := json.NewDecoder(r.Body).Decode(&survey); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if survey.ID == "" {
		http.Error(w, "missing survey id", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	session, replayed := s.installSessionLocked(survey)
	s.mu.Unlock()

	reqLog.WithField("survey_id", survey.ID).
		WithField("questions", len(survey.Questions)).
		WithField("replayed", replayed).Info("survey registered")
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"survey_id":      survey.ID,
		"response_count": session.ResponseCount(),
	})
}

// installSessionLocked stores the survey and starts its live session:
// accumulated feed history is replayed into the fresh session, then a
// subscriber folds each later delivery. Attach takes the history snapshot
// and the subscription atomically, so nothing is missed or double-counted.
// Caller holds s.mu.
func (s *server) installSessionLocked(survey types.Survey) (*engine.Session, int) {
	if cancel, ok := s.cancels[survey.ID]; ok {
		cancel()
	}
	s.surveys[survey.ID] = survey
	session := s.engine.NewSession(survey.Questions)
	s.sessions[survey.ID] = session

	history, ch, cancel := s.feed.Attach(survey.ID)
	s.cancels[survey.ID] = cancel

	for _, resp := range history {
		session.FoldResponse(resp)
	}
	go func() {
		for resp := range ch {
			session.FoldResponse(resp)
		}
	}()
	return session, len(history)
}

// handleSubmit publishes one response to the live feed.
func (s *server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	reqLog := logger.New().WithRequest(r).WithField("handler", "submit")

	surveyID := r.PathValue("id")
	if _, _, err := s.loadSurvey(r.Context(), surveyID); err != nil {
		s.writeLoadError(w, reqLog, err)
		return
	}

	var resp types.Response
	if err := json.NewDecoder(r.Body).Decode(&resp); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	stored := s.feed.Publish(surveyID, resp)
	reqLog.WithField("survey_id", surveyID).
		WithField("response_id", stored.ID).Info("response published")
	writeJSON(w, http.StatusAccepted, map[string]string{"response_id": stored.ID})
}

// handleAnalysis returns the live session's snapshot.
func (s *server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	reqLog := logger.New().WithRequest(r).WithField("handler", "analysis")

	surveyID := r.PathValue("id")
	_, session, err := s.loadSurvey(r.Context(), surveyID)
	if err != nil {
		s.writeLoadError(w, reqLog, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"response_count": session.ResponseCount(),
		"analyses":       session.Snapshot(),
	})
}

// handleSummary regenerates the executive summary from the full history.
func (s *server) handleSummary(w http.ResponseWriter, r *http.Request) {
	reqLog := logger.New().WithRequest(r).WithField("handler", "summary")

	surveyID := r.PathValue("id")
	survey, _, err := s.loadSurvey(r.Context(), surveyID)
	if err != nil {
		s.writeLoadError(w, reqLog, err)
		return
	}
	writeJSON(w, http.StatusOK, s.summary.Summarize(survey, s.feed.History(surveyID)))
}

// handleExport streams the xlsx report.
func (s *server) handleExport(w http.ResponseWriter, r *http.Request) {
	reqLog := logger.New().WithRequest(r).WithField("handler", "export")

	surveyID := r.PathValue("id")
	survey, _, err := s.loadSurvey(r.Context(), surveyID)
	if err != nil {
		s.writeLoadError(w, reqLog, err)
		return
	}

	responses := s.feed.History(surveyID)
	analyses := s.engine.Aggregate(survey.Questions, responses)
	sum := s.summary.FromAnalyses(survey, responses, analyses)

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", surveyID+"-report.xlsx"))
	if err := export.WriteReport(w, survey, analyses, sum); err != nil {
		reqLog.WithError(err).Error("export failed")
	}
}

// loadSurvey resolves a survey from the local registry, falling back to the
// source API when configured. Unknown surveys map to the "not found" state,
// upstream failures to "failed to load".
func (s *server) loadSurvey(ctx context.Context, surveyID string) (types.Survey, *engine.Session, error) {
	s.mu.Lock()
	survey, ok := s.surveys[surveyID]
	session := s.sessions[surveyID]
	s.mu.Unlock()
	if ok {
		return survey, session, nil
	}

	if s.source == nil {
		return types.Survey{}, nil, fetch.ErrNotFound
	}
	fetched, err := s.source.Survey(ctx, surveyID)
	if err != nil {
		return types.Survey{}, nil, err
	}
	responses, err := s.source.Responses(ctx, surveyID)
	if err != nil {
		return types.Survey{}, nil, err
	}

	// The lock was released across the fetch; a concurrent request may have
	// won the cold start. Re-check and let only the winner install and seed
	// the feed, or its history would hold every response twice.
	s.mu.Lock()
	if existing, ok := s.surveys[surveyID]; ok {
		session = s.sessions[surveyID]
		s.mu.Unlock()
		return existing, session, nil
	}
	session, _ = s.installSessionLocked(fetched)
	s.mu.Unlock()

	for _, resp := range responses {
		s.feed.Publish(surveyID, resp)
	}
	return fetched, session, nil
}

func (s *server) writeLoadError(w http.ResponseWriter, log *logrus.Entry, err error) {
	if errors.Is(err, fetch.ErrNotFound) {
		http.Error(w, "survey not found", http.StatusNotFound)
		return
	}
	log.WithField("error", err.Error()).Warn("failed to load survey")
	http.Error(w, "failed to load survey", http.StatusBadGateway)
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		logger.New().WithError(err).Error("failed to write response")
	}
}
