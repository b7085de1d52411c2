package mail

type Config struct {
	DefaultMaxResults int
	MaxResultsLimit   int
}

func (c *Config) applyDefaults() {
	if c.DefaultMaxResults <= 0 {
		c.DefaultMaxResults = 5
	}
	if c.MaxResultsLimit <= 0 {
		c.MaxResultsLimit = 25
	}
}
