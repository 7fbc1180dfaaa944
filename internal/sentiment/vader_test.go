package sentiment

import (
	"math"
	"testing"

	"github.com/spacesedan/tubesentiment/internal/models"
)

func sumOf(v models.ScoreVector) float64 {
	return v.Positive + v.Negative + v.Neutral
}

func TestLexiconScorerProportionsSumToOne(t *testing.T) {
	scorer := NewLexiconScorer(DefaultCustomLexicon())

	texts := []string{
		"",
		"   ",
		"i love this",
		"this is the worst video ever",
		"meh its okay i guess",
		"the quick brown fox",
		"not bad at all but not great either",
		"emoji_smiling_face_with_heart_eyes emoji_fire",
		"!!!",
	}

	for _, text := range texts {
		v := scorer.Score(text)
		if math.Abs(sumOf(v)-1) > 1e-6 {
			t.Errorf("Score(%q): pos+neg+neu = %v, want 1", text, sumOf(v))
		}
		if v.Compound < -1 || v.Compound > 1 {
			t.Errorf("Score(%q): compound %v out of range", text, v.Compound)
		}
	}
}

func TestLexiconScorerEmpty(t *testing.T) {
	scorer := NewLexiconScorer(DefaultCustomLexicon())
	for _, text := range []string{"", " ", "\t\n"} {
		got := scorer.Score(text)
		want := models.ScoreVector{Neutral: 1}
		if got != want {
			t.Errorf("Score(%q) = %+v, want %+v", text, got, want)
		}
	}
}

func TestLexiconScorerPolarity(t *testing.T) {
	scorer := NewLexiconScorer(DefaultCustomLexicon())

	pos := scorer.Score("i love this")
	if pos.Compound < 0.5 || pos.Positive <= pos.Negative {
		t.Errorf("expected strong positive, got %+v", pos)
	}

	neg := scorer.Score("this is terrible and i hate it")
	if neg.Compound > -0.5 || neg.Negative <= neg.Positive {
		t.Errorf("expected strong negative, got %+v", neg)
	}
}

func TestLexiconScorerUsesCustomEntries(t *testing.T) {
	custom, err := NewCustomLexicon(map[string]float64{"zorbly": 3.0})
	if err != nil {
		t.Fatalf("NewCustomLexicon: %v", err)
	}

	withCustom := NewLexiconScorer(custom).Score("zorbly")
	if withCustom.Compound <= 0.5 {
		t.Errorf("expected custom term to score positive, got %+v", withCustom)
	}

	// a second scorer built from defaults must not see the extra term
	plain := NewLexiconScorer(DefaultCustomLexicon()).Score("zorbly")
	if plain.Compound != 0 || plain.Neutral != 1 {
		t.Errorf("custom term leaked into another scorer: %+v", plain)
	}

	token, _ := EmojiToken("😍")
	emoji := NewLexiconScorer(DefaultCustomLexicon()).Score(token)
	if emoji.Compound <= 0.05 {
		t.Errorf("expected emoji token to carry positive valence, got %+v", emoji)
	}
}

func TestLexiconScorerDeterministic(t *testing.T) {
	scorer := NewLexiconScorer(DefaultCustomLexicon())
	text := "not bad at all but the ending was awful"
	first := scorer.Score(text)
	for i := 0; i < 5; i++ {
		if got := scorer.Score(text); got != first {
			t.Fatalf("run %d: %+v != %+v", i, got, first)
		}
	}
}

func TestNormalizeVector(t *testing.T) {
	got := normalizeVector(0.5005, 0, 0.5005, 0.4)
	if math.Abs(sumOf(got)-1) > 1e-9 {
		t.Errorf("sum = %v", sumOf(got))
	}

	zero := normalizeVector(0, 0, 0, 0)
	if zero != (models.ScoreVector{Neutral: 1}) {
		t.Errorf("all-zero vector = %+v, want neutral 1", zero)
	}

	nan := normalizeVector(math.NaN(), 0, 1, math.NaN())
	if nan.Positive != 0 || nan.Neutral != 1 || nan.Compound != 0 {
		t.Errorf("NaN vector = %+v", nan)
	}
}
