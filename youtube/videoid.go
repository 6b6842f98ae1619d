package youtube

import "regexp"

// Video ids are exactly 11 characters of [0-9A-Za-z_-]. Extraction stops
// at the first of &, ?, # or end of string.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:v=|/)([0-9A-Za-z_-]{11})([&?#]|$)`),
	regexp.MustCompile(`youtu\.be/([0-9A-Za-z_-]{11})([&?#]|$)`),
	regexp.MustCompile(`^([0-9A-Za-z_-]{11})$`), // bare id
}

// ExtractVideoID pulls the 11-character video id out of a watch URL
// (v= or path-segment form), a youtu.be short link, or a bare id.
func ExtractVideoID(raw string) (string, bool) {
	for _, p := range videoIDPatterns {
		if m := p.FindStringSubmatch(raw); m != nil {
			return m[1], true
		}
	}
	return "", false
}
