package truthfeed

import "strings"

// Posts run a harsher scan than the companion chat: the feed is public,
// so anything that reads like self-harm intent is held for review
// instead of being published.
var crisisTerms = []string{
	"kill myself",
	"end my life",
	"suicide",
	"want to die",
	"better off dead",
	"end it all",
	"no reason to live",
	"hurt myself",
	"take my life",
	"self harm",
	"cut myself",
	"overdose",
}

// ScanContent reports whether the content trips the hold list.
func ScanContent(content string) bool {
	lower := strings.ToLower(content)
	for _, term := range crisisTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
