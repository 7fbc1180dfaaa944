package sentiment

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/forPelevin/gomoji"
)

const EmojiTokenPrefix = "emoji_"

var skinTonePattern = regexp.MustCompile(`[\x{1F3FB}-\x{1F3FF}]`)

// ReplaceEmoji swaps every emoji for a space-delimited emoji_<slug> token,
// e.g. 🔥 becomes " emoji_fire ". Skin tones are dropped first so toned
// variants share the base emoji's token.
func ReplaceEmoji(input string) string {
	input = skinTonePattern.ReplaceAllString(input, "")

	found := gomoji.FindAll(input)
	if len(found) == 0 {
		return input
	}

	// longest first so a ZWJ sequence wins over the emoji inside it
	sort.SliceStable(found, func(i, j int) bool {
		return len(found[i].Character) > len(found[j].Character)
	})

	seen := make(map[string]bool, len(found))
	pairs := make([]string, 0, len(found)*2)
	for _, e := range found {
		if seen[e.Character] || e.Slug == "" {
			continue
		}
		seen[e.Character] = true
		pairs = append(pairs, e.Character, " "+slugToken(e.Slug)+" ")
	}
	return strings.NewReplacer(pairs...).Replace(input)
}

// EmojiToken returns the token ReplaceEmoji substitutes for a single emoji.
func EmojiToken(emoji string) (string, bool) {
	token := strings.TrimSpace(ReplaceEmoji(emoji))
	if !strings.HasPrefix(token, EmojiTokenPrefix) || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

// slugToken turns a slug like "smiling-face-with-heart-eyes" into a single
// lowercase word token.
func slugToken(slug string) string {
	var sb strings.Builder
	sb.WriteString(EmojiTokenPrefix)

	sep := false
	for _, r := range strings.ToLower(slug) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if sep && sb.Len() > len(EmojiTokenPrefix) {
				sb.WriteByte('_')
			}
			sb.WriteRune(r)
			sep = false
			continue
		}
		sep = true
	}
	return sb.String()
}
