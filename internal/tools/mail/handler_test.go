package mail

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"google.golang.org/api/gmail/v1"

	"orianna-agent/internal/llm"
	"orianna-agent/internal/tools/toolkit"
)

type TestLogger struct {
	t *testing.T
}

func (l *TestLogger) Info(msg string, fields map[string]interface{}) {
	l.t.Logf("INFO: %s %v", msg, fields)
}

func (l *TestLogger) Warn(msg string, fields map[string]interface{}) {
	l.t.Logf("WARN: %s %v", msg, fields)
}

func (l *TestLogger) Error(msg string, fields map[string]interface{}) {
	l.t.Logf("ERROR: %s %v", msg, fields)
}

func (l *TestLogger) With(fields map[string]interface{}) toolkit.Logger {
	return l
}

type mockExtractor struct {
	mock.Mock
}

func (m *mockExtractor) Extract(ctx context.Context, prompt string) llm.Result {
	return m.Called(ctx, prompt).Get(0).(llm.Result)
}

type mockMessagesAPI struct {
	mock.Mock
}

func (m *mockMessagesAPI) List(ctx context.Context, labelID string, max int64) ([]string, error) {
	args := m.Called(ctx, labelID, max)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

func (m *mockMessagesAPI) Get(ctx context.Context, id string) (*gmail.Message, error) {
	args := m.Called(ctx, id)
	msg, _ := args.Get(0).(*gmail.Message)
	return msg, args.Error(1)
}

func message(id, from, subject string) *gmail.Message {
	return &gmail.Message{
		Id:      id,
		Snippet: "snippet " + id,
		Payload: &gmail.MessagePart{Headers: []*gmail.MessagePartHeader{
			{Name: "From", Value: from},
			{Name: "Subject", Value: subject},
		}},
	}
}

func newTestHandler(t *testing.T, fields map[string]interface{}, api MessagesAPI) *Handler {
	ex := &mockExtractor{}
	ex.On("Extract", mock.Anything, mock.Anything).Return(llm.Result{Fields: fields})
	return NewHandler(&Config{}, ex, func(context.Context) (MessagesAPI, error) { return api, nil }, &TestLogger{t})
}

func TestCheckInbox_Defaults(t *testing.T) {
	api := &mockMessagesAPI{}
	api.On("List", mock.Anything, "INBOX", int64(5)).Return([]string{"m1", "m2"}, nil).Once()
	api.On("Get", mock.Anything, "m1").Return(message("m1", `"Jane Doe" <jane@example.com>`, "Invoice\r\nfor  March"), nil).Once()
	api.On("Get", mock.Anything, "m2").Return(message("m2", "bob@example.org", "Lunch?"), nil).Once()

	d := newTestHandler(t, map[string]interface{}{}, api).Execute(context.Background(), "check my email", "check email")

	assert.Equal(t, ToolName, d.Tool)
	assert.Equal(t, ActionCheckInbox, d.Action)
	assert.Equal(t, "Fetched 2 emails from label 'INBOX'.", d.Message)
	assert.Equal(t, "From jane@example.com: Invoice for March, From bob@example.org: Lunch?", d.Summary)
	api.AssertExpectations(t)
	api.AssertNumberOfCalls(t, "Get", 2)
}

func TestCheckInbox_LabelMappingAndClamp(t *testing.T) {
	api := &mockMessagesAPI{}
	api.On("List", mock.Anything, "CATEGORY_PERSONAL", int64(25)).Return([]string{}, nil).Once()

	d := newTestHandler(t, map[string]interface{}{"label": "Primary", "max_results": 100}, api).
		Execute(context.Background(), "read 100 primary emails", "read emails")

	assert.Equal(t, "Fetched 0 emails from label 'CATEGORY_PERSONAL'.", d.Message)
	assert.Equal(t, "No emails found.", d.Summary)
	api.AssertExpectations(t)
}

func TestCheckInbox_SenderFilter(t *testing.T) {
	api := &mockMessagesAPI{}
	api.On("List", mock.Anything, "INBOX", int64(3)).Return([]string{"m1", "m2"}, nil)
	api.On("Get", mock.Anything, "m1").Return(message("m1", "Alice <ALICE@corp.com>", "Hi"), nil)
	api.On("Get", mock.Anything, "m2").Return(message("m2", "bob@example.org", "Yo"), nil)

	d := newTestHandler(t, map[string]interface{}{"max_results": "3", "sender": "alice@"}, api).
		Execute(context.Background(), "emails from alice", "list emails")

	assert.Equal(t, "Fetched 1 emails from label 'INBOX'.", d.Message)
	assert.Equal(t, "From ALICE@corp.com: Hi", d.Summary)
}

func TestCheckInbox_InvalidMaxResults(t *testing.T) {
	api := &mockMessagesAPI{}
	d := newTestHandler(t, map[string]interface{}{"max_results": "a few"}, api).
		Execute(context.Background(), "check email", "check email")

	assert.Contains(t, d.Message, "Invalid parameters:")
	api.AssertNumberOfCalls(t, "List", 0)
}

func TestCheckInbox_APIError(t *testing.T) {
	api := &mockMessagesAPI{}
	api.On("List", mock.Anything, "SPAM", int64(5)).Return(nil, errors.New("rate limited"))

	d := newTestHandler(t, map[string]interface{}{"label": "spam"}, api).
		Execute(context.Background(), "spam", "check email")
	assert.Equal(t, "Gmail API error: rate limited", d.Message)
}

func TestExecute_UnknownIntent(t *testing.T) {
	d := newTestHandler(t, nil, &mockMessagesAPI{}).Execute(context.Background(), "x", "create task")
	assert.Equal(t, "GmailTool cannot handle 'create task'.", d.Message)
}

func TestResolveLabel(t *testing.T) {
	tests := map[string]string{
		"":          "INBOX",
		"Inbox":     "INBOX",
		" SPAM ":    "SPAM",
		"primary":   "CATEGORY_PERSONAL",
		"Label_42":  "Label_42",
		"Important": "IMPORTANT",
	}
	for in, want := range tests {
		assert.Equal(t, want, ResolveLabel(in), in)
	}
}
