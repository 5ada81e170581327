package docs

import (
	"strconv"
	"strings"
	"unicode"
)

// Slugify turns a heading into an id: lower case letters and digits, with
// runs of spaces, dashes and underscores collapsed into a single dash.
// Other characters are dropped.
func Slugify(s string) string {
	var b strings.Builder
	pendingDash := false

	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_' || r == '\t':
			pendingDash = true
		}
	}

	if b.Len() == 0 {
		return "section"
	}
	return b.String()
}

// uniqueIDs hands out ids, suffixing repeats with _2, _3 and so on.
type uniqueIDs map[string]int

func (u uniqueIDs) take(id string) string {
	n := u[id]
	u[id] = n + 1
	if n == 0 {
		return id
	}
	next := id + "_" + strconv.Itoa(n+1)
	if _, taken := u[next]; taken {
		return u.take(next)
	}
	u[next] = 1
	return next
}
