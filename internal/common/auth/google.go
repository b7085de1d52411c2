package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
	"google.golang.org/api/tasks/v1"
)

// APIScopes lists the OAuth scopes requested per credential name.
var APIScopes = map[string][]string{
	"calendar": {calendar.CalendarScope},
	"gmail":    {gmail.GmailReadonlyScope},
	"tasks":    {tasks.TasksScope},
	"sheets":   {sheets.SpreadsheetsScope},
}

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
}

// GoogleAuthorizer turns the installed-app client secret and cached tokens
// into authenticated HTTP clients.
type GoogleAuthorizer struct {
	credentialsFile string
	store           CredentialStore
	redirectPort    int
	logger          Logger
}

func NewGoogleAuthorizer(credentialsFile string, store CredentialStore, redirectPort int, log Logger) *GoogleAuthorizer {
	return &GoogleAuthorizer{
		credentialsFile: credentialsFile,
		store:           store,
		redirectPort:    redirectPort,
		logger:          log,
	}
}

func (a *GoogleAuthorizer) oauthConfig(name string) (*oauth2.Config, error) {
	scopes, ok := APIScopes[name]
	if !ok {
		return nil, fmt.Errorf("unknown api %q", name)
	}
	raw, err := os.ReadFile(a.credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCredentialsUnavailable, err)
	}
	cfg, err := google.ConfigFromJSON(raw, scopes...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCredentialsUnavailable, err)
	}
	return cfg, nil
}

// Client returns an HTTP client for the named API. Refreshed tokens are
// written back to the store.
func (a *GoogleAuthorizer) Client(ctx context.Context, name string) (*http.Client, error) {
	cfg, err := a.oauthConfig(name)
	if err != nil {
		return nil, err
	}

	tok, err := a.store.Load(ctx, name)
	if errors.Is(err, ErrTokenNotFound) {
		return nil, fmt.Errorf("%w: run 'orianna authorize %s'", ErrAuthorizationRequired, name)
	}
	if err != nil {
		return nil, err
	}
	if !tok.Valid() && tok.RefreshToken == "" {
		return nil, fmt.Errorf("%w: token for %s expired without refresh token", ErrAuthorizationRequired, name)
	}

	src := &persistingSource{
		name:   name,
		base:   cfg.TokenSource(ctx, tok),
		store:  a.store,
		last:   tok.AccessToken,
		logger: a.logger,
	}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(tok, src)), nil
}

// ClientOption wraps Client for the google.golang.org/api service constructors.
func (a *GoogleAuthorizer) ClientOption(ctx context.Context, name string) (option.ClientOption, error) {
	client, err := a.Client(ctx, name)
	if err != nil {
		return nil, err
	}
	return option.WithHTTPClient(client), nil
}

// Authorize runs the loopback consent flow and stores the resulting token.
// prompt receives the URL the user has to open.
func (a *GoogleAuthorizer) Authorize(ctx context.Context, name string, prompt func(authURL string)) (*oauth2.Token, error) {
	cfg, err := a.oauthConfig(name)
	if err != nil {
		return nil, err
	}

	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", a.redirectPort))
	if err != nil {
		return nil, fmt.Errorf("listen for oauth callback: %w", err)
	}
	cfg.RedirectURL = fmt.Sprintf("http://%s/", listener.Addr().String())

	state := uuid.NewString()
	codes := make(chan string, 1)
	failures := make(chan error, 1)

	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			return
		}
		if e := q.Get("error"); e != "" {
			http.Error(w, "authorization denied", http.StatusForbidden)
			select {
			case failures <- fmt.Errorf("authorization denied: %s", e):
			default:
			}
			return
		}
		_, _ = w.Write([]byte("Authorization complete. You can close this window."))
		select {
		case codes <- q.Get("code"):
		default:
		}
	})}
	go func() { _ = srv.Serve(listener) }()
	defer srv.Close()

	prompt(cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce))

	var code string
	select {
	case code = <-codes:
	case err := <-failures:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	if err := a.store.Save(ctx, name, tok); err != nil {
		return nil, err
	}

	a.logger.Info("Stored OAuth token", map[string]interface{}{"api": name})
	return tok, nil
}

type persistingSource struct {
	name   string
	base   oauth2.TokenSource
	store  CredentialStore
	logger Logger

	mu   sync.Mutex
	last string
}

func (s *persistingSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken != s.last {
		if err := s.store.Save(context.Background(), s.name, tok); err != nil {
			s.logger.Warn("Failed to persist refreshed token", map[string]interface{}{
				"api":   s.name,
				"error": err.Error(),
			})
		}
		s.last = tok.AccessToken
	}
	return tok, nil
}
