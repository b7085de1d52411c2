package mail

// CheckInboxInput is what the extractor must produce for check_inbox.
type CheckInboxInput struct {
	Label      string `json:"label"`
	MaxResults int    `json:"max_results"`
	Sender     string `json:"sender"`
}

// Email is one fetched message in the Decision result.
type Email struct {
	ID      string `json:"id"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	Snippet string `json:"snippet"`
}
