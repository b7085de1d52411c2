package transactions

// Report is the Decision result of one categorization run.
type Report struct {
	Output       string         `json:"output"`
	Rows         int            `json:"rows"`
	Skipped      int            `json:"skipped"`
	Unclassified int            `json:"unclassified"`
	ByCategory   map[string]int `json:"by_category"`
	Appended     int            `json:"appended"`
}
