package sentiment

import (
	_ "embed"
	"strconv"
	"strings"
	"unicode"
)

//go:embed data/pattern_lexicon.tsv
var patternLexiconData string

const negationWindow = 3

type patternEntry struct {
	polarity     float64
	subjectivity float64
}

var patternModifiers = map[string]float64{
	"very":       1.3,
	"really":     1.3,
	"so":         1.3,
	"too":        1.2,
	"extremely":  1.5,
	"super":      1.4,
	"incredibly": 1.5,
	"absolutely": 1.5,
	"totally":    1.4,
	"completely": 1.4,
	"quite":      1.1,
	"pretty":     1.1,
	"most":       1.3,
	"slightly":   0.6,
	"somewhat":   0.7,
	"barely":     0.5,
	"kinda":      0.7,
	"little":     0.7,
}

var patternNegations = map[string]bool{
	"not":      true,
	"no":       true,
	"never":    true,
	"nothing":  true,
	"hardly":   true,
	"nor":      true,
	"neither":  true,
	"without":  true,
	"dont":     true,
	"doesnt":   true,
	"didnt":    true,
	"isnt":     true,
	"arent":    true,
	"wasnt":    true,
	"werent":   true,
	"cant":     true,
	"cannot":   true,
	"couldnt":  true,
	"wont":     true,
	"wouldnt":  true,
	"shouldnt": true,
	"aint":     true,
}

// PatternScorer estimates polarity and subjectivity from an adjective
// lexicon, independently of the VADER scorer.
type PatternScorer struct {
	lexicon map[string]patternEntry
}

func NewPatternScorer() *PatternScorer {
	return &PatternScorer{lexicon: parsePatternLexicon(patternLexiconData)}
}

// parsePatternLexicon reads tab-separated "word\tpolarity\tsubjectivity" lines.
func parsePatternLexicon(raw string) map[string]patternEntry {
	m := make(map[string]patternEntry, 128)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line[0] == '#' {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) != 3 {
			continue
		}
		pol, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			continue
		}
		subj, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if err != nil {
			continue
		}
		m[strings.TrimSpace(parts[0])] = patternEntry{
			polarity:     clamp(pol, -1, 1),
			subjectivity: clamp(subj, 0, 1),
		}
	}
	return m
}

// Score returns polarity in [-1,1] and subjectivity in [0,1]. Text with no
// known words scores (0, 0).
func (p *PatternScorer) Score(text string) (polarity, subjectivity float64) {
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '_'
	})

	var (
		polSum  float64
		subjSum float64
		count   int
	)
	negatedUntil := -1
	modifier := 1.0

	for i, tok := range tokens {
		if patternNegations[tok] {
			negatedUntil = i + negationWindow
			continue
		}
		if m, ok := patternModifiers[tok]; ok {
			modifier *= m
			continue
		}

		entry, ok := p.lexicon[tok]
		if !ok {
			modifier = 1.0
			continue
		}

		pol := clamp(entry.polarity*modifier, -1, 1)
		subj := clamp(entry.subjectivity*modifier, 0, 1)
		if i <= negatedUntil {
			pol *= -0.5
		}
		modifier = 1.0

		polSum += pol
		subjSum += subj
		count++
	}

	if count == 0 {
		return 0, 0
	}
	return clamp(polSum/float64(count), -1, 1), clamp(subjSum/float64(count), 0, 1)
}
