package calendar

import (
	"context"
	"time"

	gcal "google.golang.org/api/calendar/v3"
)

// EventsAPI is the subset of the Calendar API the tool uses.
type EventsAPI interface {
	Insert(ctx context.Context, calendarID string, event *gcal.Event) (*gcal.Event, error)
	List(ctx context.Context, calendarID string, from, to time.Time, max int) ([]*gcal.Event, error)
}

// Connector opens the API lazily so the tool can be registered before the
// user has granted access.
type Connector func(ctx context.Context) (EventsAPI, error)

type serviceAPI struct {
	svc *gcal.Service
}

func NewServiceAPI(svc *gcal.Service) EventsAPI {
	return &serviceAPI{svc: svc}
}

func (s *serviceAPI) Insert(ctx context.Context, calendarID string, event *gcal.Event) (*gcal.Event, error) {
	return s.svc.Events.Insert(calendarID, event).Context(ctx).Do()
}

func (s *serviceAPI) List(ctx context.Context, calendarID string, from, to time.Time, max int) ([]*gcal.Event, error) {
	res, err := s.svc.Events.List(calendarID).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(int64(max)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}
