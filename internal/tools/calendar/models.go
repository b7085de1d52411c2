package calendar

// CreateEventInput is what the extractor must produce for create_event.
type CreateEventInput struct {
	Summary     string `json:"summary"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Location    string `json:"location"`
	Description string `json:"description"`
}
