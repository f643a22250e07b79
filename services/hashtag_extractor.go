package services

import (
	"regexp"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Word characters plus the Hangul range the board's authors write in.
var hashtagPattern = regexp.MustCompile(`#[\w가-힣]+`)

// ExtractHashtagNames parses free text into the set of hashtag names it
// mentions: a `#` marker followed by word characters, marker stripped, case
// preserved verbatim. Repeated mentions collapse; the result is sorted so
// the output is deterministic. Text without hashtags yields an empty set.
func ExtractHashtagNames(content string) []string {
	matches := hashtagPattern.FindAllString(strings.TrimSpace(content), -1)
	names := lo.Uniq(lo.Map(matches, func(m string, _ int) string {
		return strings.TrimPrefix(m, "#")
	}))
	sort.Strings(names)
	return names
}
