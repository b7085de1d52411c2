package tasks

type Config struct {
	TaskListID string
}
