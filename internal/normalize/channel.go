package normalize

import "strings"

// channelSynonyms maps compacted tokens (lower-cased, separators stripped)
// to the canonical channel set. Shared by orders and ads cleaning: one table,
// not two copies.
var channelSynonyms = map[string]string{
	"paidsocial":    "paid_social",
	"unknown":       "unknown",
	"fb":            "paid_social",
	"facebook":      "paid_social",
	"facebooks":     "paid_social",
	"facebok":       "paid_social",
	"facebookads":   "paid_social",
	"facebooksads":  "paid_social",
	"facebokads":    "paid_social",
	"ig":            "paid_social",
	"instagram":     "paid_social",
	"instagramads":  "paid_social",
	"meta":          "paid_social",
	"tiktok":        "paid_social",
	"tiktokads":     "paid_social",
	"google":        "search",
	"googleads":     "search",
	"googlesearch":  "search",
	"search":        "search",
	"paidsearch":    "search",
	"sem":           "search",
	"newsletter":    "email",
	"email":         "email",
	"mail":          "email",
	"klaviyo":       "email",
	"organic":       "organic",
	"organicsearch": "organic",
	"seo":           "organic",
	"direct":        "direct",
}

func compactToken(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Channel maps a messy channel label onto the canonical set. The lookup is
// case-insensitive and ignores punctuation/whitespace ("Faceb ook" still
// lands on paid_social); anything unrecognized maps to unknown.
func Channel(raw string) string {
	text := strings.ToLower(strings.TrimSpace(raw))
	if isBlank(text) {
		return "unknown"
	}
	compact := compactToken(text)
	if c, ok := channelSynonyms[compact]; ok {
		return c
	}
	switch {
	case strings.Contains(text, "face") && strings.Contains(text, "book"):
		return "paid_social"
	case strings.Contains(text, "instagram") || strings.Contains(text, "tiktok"):
		return "paid_social"
	case strings.Contains(text, "google") || strings.Contains(text, "search"):
		return "search"
	case strings.Contains(text, "newsletter"):
		return "email"
	case strings.Contains(text, "organic"):
		return "organic"
	case strings.Contains(text, "direct"):
		return "direct"
	}
	return "unknown"
}

// CustomerType folds the observed variants into new/returning/unknown.
func CustomerType(raw string) string {
	text := strings.ToLower(strings.TrimSpace(raw))
	if isBlank(text) {
		return "unknown"
	}
	switch compactToken(text) {
	case "new", "first", "1st", "firsttime":
		return "new"
	case "returning", "repeat", "existing", "return":
		return "returning"
	}
	return "unknown"
}
