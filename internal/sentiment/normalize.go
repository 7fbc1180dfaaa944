package sentiment

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"github.com/russross/blackfriday/v2"
)

var (
	orderedListPattern = regexp.MustCompile(`(?m)^(\s*\d+)\.(\s)`)
	urlPattern         = regexp.MustCompile(`https?://\S+|www\.\S+`)
	hashtagPattern     = regexp.MustCompile(`#[\p{L}\p{N}_]+`)
	invisiblePattern   = regexp.MustCompile(`[\x{FE00}-\x{FE0F}\x{200B}-\x{200D}\x{2060}]`)
	symbolPattern      = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_\s]`)
	emojiSymbolPattern = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_\s!?.,]`)
)

// underscorePlaceholder is a private-use rune that stands in for "_" while
// Markdown is parsed.
const underscorePlaceholder = "\uE000"

// NormalizeOptions toggles the optional normalizer steps.
type NormalizeOptions struct {
	// MapEmoji replaces known emoji with emoji_* tokens and keeps the
	// sentence punctuation !?., so the scorer can use emphasis.
	MapEmoji        bool
	StripHashtags   bool
	CollapseRepeats bool
}

// LexiconNormalizeOptions strips every symbol, emoji included.
func LexiconNormalizeOptions() NormalizeOptions {
	return NormalizeOptions{
		StripHashtags:   true,
		CollapseRepeats: true,
	}
}

func EnsembleNormalizeOptions() NormalizeOptions {
	return NormalizeOptions{
		MapEmoji:        true,
		StripHashtags:   true,
		CollapseRepeats: true,
	}
}

type Normalizer struct {
	opts NormalizeOptions
}

func NewNormalizer(opts NormalizeOptions) Normalizer {
	return Normalizer{opts: opts}
}

func (n Normalizer) Options() NormalizeOptions {
	return n.opts
}

// Normalize turns raw comment text into the lowercase, symbol-free form the
// scorers read. The result may be empty. Normalize(Normalize(s)) == Normalize(s).
func (n Normalizer) Normalize(input string) string {
	text := MarkdownToText(input)
	text = RemoveLinks(text)

	if n.opts.StripHashtags {
		text = hashtagPattern.ReplaceAllString(text, " ")
	}
	if n.opts.MapEmoji {
		text = ReplaceEmoji(text)
	}

	text = invisiblePattern.ReplaceAllString(text, "")
	if n.opts.MapEmoji {
		text = emojiSymbolPattern.ReplaceAllString(text, "")
	} else {
		text = symbolPattern.ReplaceAllString(text, "")
	}

	text = strings.ToLower(text)
	if n.opts.CollapseRepeats {
		text = CollapseRepeats(text, 3)
	}

	return collapseFields(text)
}

func RemoveLinks(input string) string {
	return urlPattern.ReplaceAllString(input, " ")
}

// MarkdownToText renders input as Markdown and keeps only the text it carries.
// Link text survives, link targets and raw HTML do not.
func MarkdownToText(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}

	// "1. foo" would otherwise become a list and lose its number
	escaped := orderedListPattern.ReplaceAllString(input, `$1\.$2`)
	// underscores never start emphasis, so a literal _word_ left by an
	// earlier pass reads the same the next time round
	escaped = strings.ReplaceAll(escaped, underscorePlaceholder, "")
	escaped = strings.ReplaceAll(escaped, "_", underscorePlaceholder)

	md := blackfriday.New(blackfriday.WithExtensions(blackfriday.NoIntraEmphasis))
	root := md.Parse([]byte(escaped))

	var sb strings.Builder
	root.Walk(func(node *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		switch node.Type {
		case blackfriday.Text, blackfriday.Code, blackfriday.CodeBlock:
			if entering {
				sb.Write(node.Literal)
			}
		case blackfriday.Softbreak, blackfriday.Hardbreak, blackfriday.HTMLSpan, blackfriday.HTMLBlock:
			sb.WriteByte(' ')
		case blackfriday.Paragraph, blackfriday.Heading, blackfriday.Item, blackfriday.TableCell:
			if !entering {
				sb.WriteByte(' ')
			}
		}
		return blackfriday.GoToNext
	})

	text := strings.ReplaceAll(sb.String(), underscorePlaceholder, "_")
	return html.UnescapeString(text)
}

// CollapseRepeats replaces every run of n or more identical runes with a
// single rune. Digit runs are kept so counts like 1000 survive.
func CollapseRepeats(input string, n int) string {
	runes := []rune(input)
	var sb strings.Builder
	sb.Grow(len(input))

	for i := 0; i < len(runes); {
		j := i + 1
		for j < len(runes) && runes[j] == runes[i] {
			j++
		}
		if j-i >= n && !unicode.IsDigit(runes[i]) {
			sb.WriteRune(runes[i])
		} else {
			sb.WriteString(string(runes[i:j]))
		}
		i = j
	}

	return sb.String()
}

func collapseFields(input string) string {
	fields := strings.Fields(input)
	out := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, "_")
		if f != "" {
			out = append(out, f)
		}
	}
	return strings.Join(out, " ")
}
