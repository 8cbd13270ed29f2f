package engine

import (
	"fmt"
	"reflect"
	"testing"

	"survey-insights-go/internal/classifier"
	"survey-insights-go/internal/types"
)

func intp(n int) *int { return &n }

func fixtureQuestions() []types.Question {
	return []types.Question{
		{ID: "q-choice", Text: "Favorite?", Type: types.SingleChoice, Options: []string{"A", "B"}},
		{ID: "q-rating", Text: "Rate us", Type: types.Rating},
		{ID: "q-nps", Text: "Recommend us?", Type: types.NPS},
		{ID: "q-open", Text: "Anything else?", Type: types.OpenEnded},
	}
}

func fixtureResponses() []types.Response {
	return []types.Response{
		{ID: "r1", Answers: []types.Answer{
			{QuestionID: "q-choice", Option: "A"},
			{QuestionID: "q-rating", Score: intp(4)},
			{QuestionID: "q-nps", Score: intp(9)},
			{QuestionID: "q-open", Text: "Great support team"},
		}},
		{ID: "r2", Answers: []types.Answer{
			{QuestionID: "q-choice", Option: "B"},
			{QuestionID: "q-rating", Score: intp(4)},
			{QuestionID: "q-nps", Score: intp(6)},
			{QuestionID: "q-open", Text: "Too expensive for what it does"},
		}},
		{ID: "r3", Answers: []types.Answer{
			{QuestionID: "q-choice", Option: "A"},
			{QuestionID: "q-rating", Score: intp(5)},
			{QuestionID: "q-ghost", Option: "A"},
		}},
	}
}

func TestAggregateIdempotent(t *testing.T) {
	e := New(classifier.New())
	qs, rs := fixtureQuestions(), fixtureResponses()

	first := e.Aggregate(qs, rs)
	second := e.Aggregate(qs, rs)

	if !reflect.DeepEqual(first, second) {
		t.Error("two Aggregate runs over the same inputs differ")
	}
}

func TestAggregateBasicCounts(t *testing.T) {
	e := New(classifier.New())
	analyses := e.Aggregate(fixtureQuestions(), fixtureResponses())

	choice := analyses["q-choice"].Choice.Options
	want := []types.OptionCount{{Label: "A", Count: 2}, {Label: "B", Count: 1}}
	if !reflect.DeepEqual(choice, want) {
		t.Errorf("choice counts = %v, want %v", choice, want)
	}

	rating := analyses["q-rating"].Score
	if !reflect.DeepEqual(rating.Histogram, map[int]int{4: 2, 5: 1}) {
		t.Errorf("rating histogram = %v", rating.Histogram)
	}
	if rating.Average != 4.33 {
		t.Errorf("rating average = %v, want 4.33", rating.Average)
	}

	if got := len(analyses["q-open"].Text.Texts); got != 2 {
		t.Errorf("open-ended texts = %d, want 2", got)
	}
}

func TestAggregateSkipsUnknownQuestion(t *testing.T) {
	e := New(classifier.New())
	analyses := e.Aggregate(fixtureQuestions(), fixtureResponses())

	if _, ok := analyses["q-ghost"]; ok {
		t.Error("unknown question id must not grow the analysis map")
	}
	if len(analyses) != 4 {
		t.Errorf("analysis map size = %d, want 4", len(analyses))
	}
}

func TestChoiceCountsConserved(t *testing.T) {
	e := New(classifier.New())
	analyses := e.Aggregate(fixtureQuestions(), fixtureResponses())

	total := 0
	for _, o := range analyses["q-choice"].Choice.Options {
		total += o.Count
	}
	// 3 valid matching-label answers in the fixtures.
	if total != 3 {
		t.Errorf("sum of option counts = %d, want 3", total)
	}
}

func TestSessionIncrementalEquivalence(t *testing.T) {
	e := New(classifier.New())
	qs, rs := fixtureQuestions(), fixtureResponses()

	session := e.NewSession(qs)
	for _, r := range rs {
		session.FoldResponse(r)
	}

	full := e.Aggregate(qs, rs)
	if !reflect.DeepEqual(session.Snapshot(), full) {
		t.Error("incremental session diverged from full recompute")
	}
	if session.ResponseCount() != len(rs) {
		t.Errorf("session count = %d, want %d", session.ResponseCount(), len(rs))
	}
}

func TestSessionFoldAfterBaseline(t *testing.T) {
	e := New(classifier.New())
	qs, rs := fixtureQuestions(), fixtureResponses()

	newResp := types.Response{ID: "r4", Answers: []types.Answer{
		{QuestionID: "q-choice", Option: "B"},
		{QuestionID: "q-nps", Score: intp(10)},
	}}

	session := e.NewSession(qs)
	for _, r := range rs {
		session.FoldResponse(r)
	}
	session.FoldResponse(newResp)

	full := e.Aggregate(qs, append(append([]types.Response{}, rs...), newResp))
	if !reflect.DeepEqual(session.Snapshot(), full) {
		t.Error("folding one new response diverged from recompute over the final set")
	}
}

func TestSnapshotIsolation(t *testing.T) {
	e := New(classifier.New())
	session := e.NewSession(fixtureQuestions())
	session.FoldResponse(fixtureResponses()[0])

	snap := session.Snapshot()
	snap["q-choice"].Choice.Options[0].Count = 99
	snap["q-rating"].Score.Histogram[4] = 99

	fresh := session.Snapshot()
	if fresh["q-choice"].Choice.Options[0].Count == 99 {
		t.Error("snapshot shares option counters with the session")
	}
	if fresh["q-rating"].Score.Histogram[4] == 99 {
		t.Error("snapshot shares histogram with the session")
	}
}

func TestConcurrentFoldAndSnapshot(t *testing.T) {
	e := New(classifier.New())
	session := e.NewSession(fixtureQuestions())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			session.FoldResponse(types.Response{
				ID:      fmt.Sprintf("r%d", i),
				Answers: []types.Answer{{QuestionID: "q-choice", Option: "A"}},
			})
		}
	}()
	for i := 0; i < 50; i++ {
		_ = session.Snapshot()
	}
	<-done

	if got := session.Snapshot()["q-choice"].Choice.Options[0].Count; got != 200 {
		t.Errorf("count after concurrent folds = %d, want 200", got)
	}
}
