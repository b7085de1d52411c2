package tasks

// CreateTaskInput is what the extractor must produce for create_task.
type CreateTaskInput struct {
	Title string `json:"title"`
	Notes string `json:"notes"`
	Due   string `json:"due"`
}
