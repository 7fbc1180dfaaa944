package sentiment

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"
)

// VADER valences live on a -4..4 scale.
const (
	MinValence = -4.0
	MaxValence = 4.0
)

var lexiconTermPattern = regexp.MustCompile(`^[\p{Ll}\p{N}_']+$`)

// CustomLexicon holds the slang and emoji-token valences merged into the
// scorer's base lexicon. It is built once and only read afterwards.
type CustomLexicon struct {
	words map[string]float64
}

type lexiconFile struct {
	Words map[string]float64 `yaml:"words"`
}

var defaultCustomWords = map[string]float64{
	"meh":        -1.8,
	"mid":        -1.5,
	"cringe":     -2.0,
	"trash":      -2.2,
	"overrated":  -1.6,
	"underrated": 1.6,
	"banger":     2.6,
	"goat":       2.5,
	"slaps":      2.2,
	"based":      1.4,
	"lit":        2.0,
	"bruh":       -0.8,
	"smh":        -1.5,
	"yikes":      -1.8,
	"wholesome":  2.4,
	"fav":        2.0,
	"lmao":       1.6,
	"lmfao":      1.6,
	"rofl":       1.8,
	"w":          1.2,
	"l":          -1.2,
}

// emojiValences is keyed by emoji; the lexicon stores each under the token
// ReplaceEmoji produces for it.
var emojiValences = map[string]float64{
	"😍":  3.0,
	"🥰":  3.0,
	"😘":  2.2,
	"❤️": 3.0,
	"💕":  2.8,
	"💖":  2.8,
	"💯":  2.2,
	"🔥":  2.2,
	"👍":  2.0,
	"👎":  -2.0,
	"👏":  2.0,
	"🙌":  2.0,
	"🙏":  1.2,
	"💪":  1.6,
	"👌":  1.5,
	"✨":  1.5,
	"🎉":  2.4,
	"😀":  2.0,
	"😁":  2.2,
	"😃":  2.0,
	"😄":  2.0,
	"😊":  2.0,
	"🙂":  1.0,
	"😉":  1.2,
	"😂":  2.0,
	"🤣":  2.0,
	"😆":  1.8,
	"🤩":  2.8,
	"😎":  1.6,
	"🙄":  -1.4,
	"😒":  -1.6,
	"😕":  -0.8,
	"😢":  -2.0,
	"😭":  -2.2,
	"😞":  -2.0,
	"😔":  -1.4,
	"💔":  -2.6,
	"😡":  -2.8,
	"😠":  -2.4,
	"🤬":  -3.0,
	"🤮":  -2.6,
	"🤢":  -2.2,
	"💩":  -1.8,
	"🤡":  -1.6,
	"😴":  -0.8,
	"🥱":  -1.2,
	"😱":  -1.0,
	"😨":  -1.4,
}

// defaultEmojiWords maps the emoji tokens to their valence.
var defaultEmojiWords = emojiWords(emojiValences)

func emojiWords(valences map[string]float64) map[string]float64 {
	words := make(map[string]float64, len(valences))
	for emoji, v := range valences {
		if token, ok := EmojiToken(emoji); ok {
			words[token] = v
		}
	}
	return words
}

// DefaultCustomLexicon returns the built-in slang and emoji-token entries.
func DefaultCustomLexicon() *CustomLexicon {
	words := make(map[string]float64, len(defaultCustomWords)+len(defaultEmojiWords))
	for k, v := range defaultCustomWords {
		words[k] = v
	}
	for k, v := range defaultEmojiWords {
		words[k] = v
	}
	return &CustomLexicon{words: words}
}

// NewCustomLexicon builds a lexicon from the defaults overlaid with extra.
func NewCustomLexicon(extra map[string]float64) (*CustomLexicon, error) {
	lex := DefaultCustomLexicon()
	for term, weight := range extra {
		if err := validateEntry(term, weight); err != nil {
			return nil, err
		}
		lex.words[term] = weight
	}
	return lex, nil
}

// LoadCustomLexicon reads a YAML file of the form
//
//	words:
//	  meh: -1.8
//	  banger: 2.6
//
// and merges it over the defaults. An empty path returns the defaults.
func LoadCustomLexicon(path string) (*CustomLexicon, error) {
	if path == "" {
		return DefaultCustomLexicon(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("[CustomLexicon] failed to read %s: %w", path, err)
	}

	var file lexiconFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("[CustomLexicon] failed to parse %s: %w", path, err)
	}
	if len(file.Words) == 0 {
		return nil, fmt.Errorf("[CustomLexicon] %s has no words", path)
	}

	lex, err := NewCustomLexicon(file.Words)
	if err != nil {
		return nil, fmt.Errorf("[CustomLexicon] %s: %w", path, err)
	}
	return lex, nil
}

var (
	ErrInvalidTerm    = errors.New("lexicon term must be a single lowercase token")
	ErrInvalidValence = errors.New("lexicon valence out of range")
)

func validateEntry(term string, weight float64) error {
	if !lexiconTermPattern.MatchString(term) {
		return fmt.Errorf("%w: %q", ErrInvalidTerm, term)
	}
	if weight < MinValence || weight > MaxValence {
		return fmt.Errorf("%w: %q=%v", ErrInvalidValence, term, weight)
	}
	return nil
}

// Valence returns the custom weight for term.
func (l *CustomLexicon) Valence(term string) (float64, bool) {
	if l == nil {
		return 0, false
	}
	v, ok := l.words[term]
	return v, ok
}

func (l *CustomLexicon) Len() int {
	if l == nil {
		return 0
	}
	return len(l.words)
}

// Terms lists the custom terms in sorted order.
func (l *CustomLexicon) Terms() []string {
	if l == nil {
		return nil
	}
	terms := make([]string, 0, len(l.words))
	for t := range l.words {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return terms
}
