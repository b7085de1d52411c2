package mail

import "strings"

var labelIDs = map[string]string{
	"inbox":      "INBOX",
	"spam":       "SPAM",
	"junk":       "SPAM",
	"trash":      "TRASH",
	"sent":       "SENT",
	"draft":      "DRAFT",
	"drafts":     "DRAFT",
	"starred":    "STARRED",
	"important":  "IMPORTANT",
	"unread":     "UNREAD",
	"primary":    "CATEGORY_PERSONAL",
	"personal":   "CATEGORY_PERSONAL",
	"social":     "CATEGORY_SOCIAL",
	"promotions": "CATEGORY_PROMOTIONS",
	"updates":    "CATEGORY_UPDATES",
	"forums":     "CATEGORY_FORUMS",
}

// ResolveLabel maps a spoken label name to a Gmail label ID. Unknown names are
// passed through so user-defined label IDs still work; empty means INBOX.
func ResolveLabel(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return "INBOX"
	}
	if id, ok := labelIDs[key]; ok {
		return id
	}
	return strings.TrimSpace(name)
}
