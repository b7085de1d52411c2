package mail

import (
	"context"

	"google.golang.org/api/gmail/v1"
)

// MessagesAPI is the subset of the Gmail API the tool uses.
type MessagesAPI interface {
	List(ctx context.Context, labelID string, max int64) ([]string, error)
	Get(ctx context.Context, id string) (*gmail.Message, error)
}

type Connector func(ctx context.Context) (MessagesAPI, error)

type serviceAPI struct {
	svc *gmail.Service
}

func NewServiceAPI(svc *gmail.Service) MessagesAPI {
	return &serviceAPI{svc: svc}
}

func (s *serviceAPI) List(ctx context.Context, labelID string, max int64) ([]string, error) {
	res, err := s.svc.Users.Messages.List("me").LabelIds(labelID).MaxResults(max).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(res.Messages))
	for _, m := range res.Messages {
		ids = append(ids, m.Id)
	}
	return ids, nil
}

func (s *serviceAPI) Get(ctx context.Context, id string) (*gmail.Message, error) {
	return s.svc.Users.Messages.Get("me", id).
		Format("metadata").
		MetadataHeaders("From", "Subject").
		Context(ctx).
		Do()
}
