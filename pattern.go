package abp2dnr

import (
	"regexp"
	"strings"

	"golang.org/x/net/idna"
)

// parsedPattern is the result of normalizing a filter's URL pattern into the
// declarative urlFilter syntax.
type parsedPattern struct {
	// urlFilter is the normalized pattern.
	urlFilter string

	// hostname is the anchored hostname segment, or empty when the pattern
	// has no recognizable anchor.  It is lowercased and punycode-encoded.
	hostname string

	// matchCase is true when the pattern either demands case-sensitive
	// matching or loses nothing from it.
	matchCase bool

	// justHostname is true when the pattern matches a hostname and nothing
	// else, e.g. "||example.com^".
	justHostname bool
}

// rePatternAnchor matches a pattern prefix that pins the pattern to the
// start of the hostname: either the "||" domain anchor or a literal scheme.
var rePatternAnchor = regexp.MustCompile(`^(\|\||[a-zA-Z][a-zA-Z0-9+.-]*://)`)

// parsePattern normalizes the filter's raw URL pattern.  matchCase is the
// filter's own $match-case flag; the result may force it on when case cannot
// matter for the remainder of the pattern.
func parsePattern(pattern string, matchCase bool) (p *parsedPattern) {
	p = &parsedPattern{
		urlFilter: pattern,
		matchCase: matchCase,
	}

	if anchor := rePatternAnchor.FindString(pattern); anchor != "" {
		rest := pattern[len(anchor):]

		hostEnd := strings.IndexAny(rest, "*^?/|")
		hostname, remainder := rest, ""
		if hostEnd != -1 {
			hostname, remainder = rest[:hostEnd], rest[hostEnd:]
		}

		if hostname != "" {
			hostname = strings.ToLower(hostname)
			if ascii, err := idna.ToASCII(hostname); err == nil {
				hostname = ascii
			}

			p.hostname = hostname
			p.urlFilter = anchor + hostname + remainder
			p.justHostname = anchor == "||" && (remainder == "" || remainder == "^")

			// Distinguishing case in a remainder this short, or one with no
			// letters at all, loses nothing, and case-sensitive rules are
			// cheaper for the engine to match.
			if len(remainder) < 2 || !containsASCIILetter(remainder) {
				p.matchCase = true
			}
		}
	}

	// The engine mishandles a wildcard right behind the domain anchor, and
	// the anchor adds nothing before a wildcard anyway.
	if strings.HasPrefix(p.urlFilter, "||*") {
		p.urlFilter = p.urlFilter[len("||"):]
		p.hostname = ""
		p.justHostname = false
	}

	return p
}

// containsASCIILetter reports whether s contains at least one ASCII letter.
func containsASCIILetter(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			return true
		}
	}

	return false
}
