package sheetssync

type Config struct {
	SpreadsheetID string
	SheetName     string
	LocalFile     string
	DateColumn    string
}

func (c *Config) applyDefaults() {
	if c.SheetName == "" {
		c.SheetName = "Sheet1"
	}
	if c.DateColumn == "" {
		c.DateColumn = "Completed Date"
	}
}
