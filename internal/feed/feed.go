package feed

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"survey-insights-go/internal/logger"
	"survey-insights-go/internal/types"
)

const subscriberBuffer = 256

// Feed is the live-update collaborator: an in-process hub keyed by survey id
// that delivers one Response at a time. History is append-only; responses are
// never mutated or retracted after publish.
type Feed struct {
	mu      sync.Mutex
	history map[string][]types.Response
	subs    map[string]map[int]chan types.Response
	nextSub int
	log     *logrus.Entry
}

func New() *Feed {
	return &Feed{
		history: map[string][]types.Response{},
		subs:    map[string]map[int]chan types.Response{},
		log:     logger.Component("feed"),
	}
}

// Publish appends a response to the survey's history and delivers it to every
// subscriber. Responses without an id get one assigned. Returns the stored
// response.
func (f *Feed) Publish(surveyID string, r types.Response) types.Response {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.history[surveyID] = append(f.history[surveyID], r)
	for id, ch := range f.subs[surveyID] {
		select {
		case ch <- r:
		default:
			// Slow subscriber; it can recover the gap from History.
			f.log.WithFields(logrus.Fields{
				"survey_id":  surveyID,
				"subscriber": id,
			}).Warn("subscriber buffer full, dropping delivery")
		}
	}
	return r
}

// Subscribe returns a channel of newly published responses for the survey and
// a cancel function that closes it.
func (f *Feed) Subscribe(surveyID string) (<-chan types.Response, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subscribeLocked(surveyID)
}

// Attach subscribes and returns the history snapshot taken at the same
// moment, so a session can fold the past then drain the channel without a
// response landing in both or neither.
func (f *Feed) Attach(surveyID string) ([]types.Response, <-chan types.Response, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	src := f.history[surveyID]
	history := make([]types.Response, len(src))
	copy(history, src)
	ch, cancel := f.subscribeLocked(surveyID)
	return history, ch, cancel
}

func (f *Feed) subscribeLocked(surveyID string) (<-chan types.Response, func()) {
	ch := make(chan types.Response, subscriberBuffer)
	if f.subs[surveyID] == nil {
		f.subs[surveyID] = map[int]chan types.Response{}
	}
	id := f.nextSub
	f.nextSub++
	f.subs[surveyID][id] = ch

	cancel := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if sub, ok := f.subs[surveyID][id]; ok {
			delete(f.subs[surveyID], id)
			close(sub)
		}
	}
	return ch, cancel
}

// History returns a copy of the survey's response list; the engine reads this
// snapshot and never the live slice.
func (f *Feed) History(surveyID string) []types.Response {
	f.mu.Lock()
	defer f.mu.Unlock()
	src := f.history[surveyID]
	out := make([]types.Response, len(src))
	copy(out, src)
	return out
}

// Len reports how many responses the survey has accumulated.
func (f *Feed) Len(surveyID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.history[surveyID])
}
