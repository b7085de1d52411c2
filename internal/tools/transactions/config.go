package transactions

import "path/filepath"

type Config struct {
	InputFile         string
	OutputFile        string
	DescriptionColumn string
	TypeColumn        string
	CategoryColumn    string
	// Categories are the candidate labels for rows the fixed rules do not cover.
	Categories []string
}

var DefaultCategories = []string{
	"Groceries",
	"Restaurants",
	"Transport",
	"Shopping",
	"Bills & Utilities",
	"Entertainment",
	"Health",
	"Travel",
	"Other",
}

func (c *Config) applyDefaults() {
	if c.OutputFile == "" && c.InputFile != "" {
		c.OutputFile = filepath.Join(filepath.Dir(c.InputFile), "new.xlsx")
	}
	if c.DescriptionColumn == "" {
		c.DescriptionColumn = "Description"
	}
	if c.TypeColumn == "" {
		c.TypeColumn = "Type"
	}
	if c.CategoryColumn == "" {
		c.CategoryColumn = "Category"
	}
	if len(c.Categories) == 0 {
		c.Categories = append([]string(nil), DefaultCategories...)
	}
}
