package websearch

import "time"

type Config struct {
	SearchAPIBaseURL string
	SearchAPIKey     string
	SearchEngineID   string
	MaxResults       int
	Timeout          time.Duration
}
