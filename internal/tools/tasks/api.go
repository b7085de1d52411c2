package tasks

import (
	"context"

	gtasks "google.golang.org/api/tasks/v1"
)

// TasksAPI is the subset of the Tasks API the tool uses.
type TasksAPI interface {
	Insert(ctx context.Context, listID string, task *gtasks.Task) (*gtasks.Task, error)
	List(ctx context.Context, listID string) ([]*gtasks.Task, error)
}

type Connector func(ctx context.Context) (TasksAPI, error)

type serviceAPI struct {
	svc *gtasks.Service
}

func NewServiceAPI(svc *gtasks.Service) TasksAPI {
	return &serviceAPI{svc: svc}
}

func (s *serviceAPI) Insert(ctx context.Context, listID string, task *gtasks.Task) (*gtasks.Task, error) {
	return s.svc.Tasks.Insert(listID, task).Context(ctx).Do()
}

func (s *serviceAPI) List(ctx context.Context, listID string) ([]*gtasks.Task, error) {
	var out []*gtasks.Task
	err := s.svc.Tasks.List(listID).Pages(ctx, func(page *gtasks.Tasks) error {
		out = append(out, page.Items...)
		return nil
	})
	return out, err
}
