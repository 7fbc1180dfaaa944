package sentiment

import (
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/spacesedan/tubesentiment/internal/models"
)

const scenarioText = "I LOVE this!!! 😍😍😍 http://x.co #amazing"

func newTestAnalyzer(t *testing.T, policy string) *Analyzer {
	t.Helper()
	a, err := NewAnalyzer(AnalyzerConfig{Policy: policy})
	if err != nil {
		t.Fatalf("NewAnalyzer(%q): %v", policy, err)
	}
	return a
}

func TestAnalyzeScenarioLexicon(t *testing.T) {
	a := newTestAnalyzer(t, PolicyLexicon)

	got := a.Analyze(scenarioText)
	if got.NormalizedText != "i love this" {
		t.Errorf("normalized = %q", got.NormalizedText)
	}
	if got.Sentiment != models.LabelPositive {
		t.Errorf("sentiment = %s, want positive", got.Sentiment)
	}
	if got.Scores.Compound <= 0.05 || got.Confidence <= 0 {
		t.Errorf("expected positive compound and confidence, got %+v", got)
	}
	if got.Polarity != nil || got.Subjectivity != nil {
		t.Errorf("lexicon policy should not report pattern scores")
	}
}

func TestAnalyzeScenarioEnsemble(t *testing.T) {
	a := newTestAnalyzer(t, PolicyEnsemble)

	got := a.Analyze(scenarioText)
	token, _ := EmojiToken("😍")
	want := "i love this! " + token + " " + token + " " + token
	if got.NormalizedText != want {
		t.Errorf("normalized = %q, want %q", got.NormalizedText, want)
	}
	if got.Sentiment != models.LabelPositive {
		t.Errorf("sentiment = %s, want positive", got.Sentiment)
	}
	if got.Confidence <= 0.15 || got.Confidence > 1 {
		t.Errorf("confidence %v outside the magnitude scale", got.Confidence)
	}
	if got.Polarity == nil || *got.Polarity <= 0 {
		t.Errorf("expected positive pattern polarity, got %v", got.Polarity)
	}
}

func TestAnalyzeCustomSlang(t *testing.T) {
	text := "meh, it's okay I guess"

	lexicon := newTestAnalyzer(t, PolicyLexicon).Analyze(text)
	if lexicon.Sentiment != models.LabelNegative {
		t.Errorf("lexicon policy: sentiment = %s (compound %v), want negative",
			lexicon.Sentiment, lexicon.Scores.Compound)
	}

	ensemble := newTestAnalyzer(t, PolicyEnsemble).Analyze(text)
	if ensemble.Sentiment != models.LabelMixed && ensemble.Sentiment != models.LabelNegative {
		t.Errorf("ensemble policy: sentiment = %s, want mixed or negative", ensemble.Sentiment)
	}
}

func TestAnalyzeDegenerateInput(t *testing.T) {
	for _, policy := range []string{PolicyLexicon, PolicyEnsemble} {
		a := newTestAnalyzer(t, policy)
		for _, text := range []string{"", "   ", "\n\t", "http://only.a/link", "#hashtag", "🦜🦜 $$$"} {
			got := a.Analyze(text)
			if got.Sentiment != models.LabelNeutral || got.Confidence != 0 || got.Scores.Compound != 0 {
				t.Errorf("%s: Analyze(%q) = %+v, want neutral/0/0", policy, text, got)
			}
		}
	}
}

func TestAnalyzeNoLexiconSignal(t *testing.T) {
	got := newTestAnalyzer(t, PolicyLexicon).Analyze("the video is twelve minutes")
	if got.Sentiment != models.LabelNeutral || got.Confidence != 0 {
		t.Errorf("got %+v, want neutral with zero confidence", got)
	}
}

func TestAnalyzeConfidenceBounded(t *testing.T) {
	a := newTestAnalyzer(t, PolicyLexicon)
	texts := []string{
		"LOVE LOVE LOVE!!!!!! best best best amazing wonderful 😍😍😍",
		"HATE HATE HATE!!!! worst worst awful terrible disgusting",
		"good",
		"not bad",
	}
	for _, text := range texts {
		got := a.Analyze(text)
		if got.Confidence < 0 || got.Confidence > 100 {
			t.Errorf("Analyze(%q) confidence = %v", text, got.Confidence)
		}
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	for _, policy := range []string{PolicyLexicon, PolicyEnsemble} {
		a := newTestAnalyzer(t, policy)
		first := a.Analyze(scenarioText)
		second := a.Analyze(scenarioText)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("%s: results differ: %+v vs %+v", policy, first, second)
		}
	}
}

func TestAnalyzeConcurrentUse(t *testing.T) {
	a := newTestAnalyzer(t, PolicyEnsemble)
	want := a.Analyze(scenarioText)

	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := a.Analyze(scenarioText); !reflect.DeepEqual(got, want) {
				errs <- got.NormalizedText
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Errorf("concurrent result differs: %q", e)
	}
}

func TestAnalyzeComments(t *testing.T) {
	a := newTestAnalyzer(t, PolicyLexicon)
	now := time.Now()
	comments := []models.RawComment{
		{CommentID: "a", Text: "i love this", LikeCount: 10, PublishedAt: now},
		{CommentID: "b", Text: "", LikeCount: 5, PublishedAt: now},
		{CommentID: "c", Text: "this is terrible", LikeCount: 1, PublishedAt: now},
	}

	analyzed, stats := a.AnalyzeComments(comments)
	if len(analyzed) != len(comments) {
		t.Fatalf("got %d results for %d comments", len(analyzed), len(comments))
	}
	for i := range comments {
		if analyzed[i].CommentID != comments[i].CommentID {
			t.Errorf("order not preserved at %d: %s", i, analyzed[i].CommentID)
		}
	}
	want := models.SentimentStats{Positive: 1, Negative: 1, Neutral: 1, Total: 3}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
}

func TestAnalyzeTexts(t *testing.T) {
	a := newTestAnalyzer(t, PolicyLexicon)
	results, stats := a.AnalyzeTexts([]string{"great video", "awful audio"})
	if len(results) != 2 || stats.Total != 2 {
		t.Fatalf("got %d results, stats %+v", len(results), stats)
	}
	if results[0].Sentiment != models.LabelPositive || results[1].Sentiment != models.LabelNegative {
		t.Errorf("unexpected labels %s, %s", results[0].Sentiment, results[1].Sentiment)
	}
}

func TestNewAnalyzerOptions(t *testing.T) {
	if _, err := NewAnalyzer(AnalyzerConfig{Policy: "vibes"}); !errors.Is(err, ErrUnknownPolicy) {
		t.Errorf("expected ErrUnknownPolicy, got %v", err)
	}

	opts := NormalizeOptions{MapEmoji: true}
	a, err := NewAnalyzer(AnalyzerConfig{Normalize: &opts})
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}
	if got := a.Analyze("🔥 #great").NormalizedText; got != "emoji_fire great" {
		t.Errorf("normalized = %q, want %q", got, "emoji_fire great")
	}
	if a.Policy().Name() != PolicyLexicon {
		t.Errorf("default policy = %s", a.Policy().Name())
	}
}
