// Package content holds the copy shown on the marketing pages.
package content

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed site.yaml
var siteYAML []byte

// Company is the contact block shown in the footer and on the contact page
type Company struct {
	Name    string `yaml:"name"`
	Tagline string `yaml:"tagline"`
	Email   string `yaml:"email"`
	Phone   string `yaml:"phone"`
	Address string `yaml:"address"`
}

type TeamMember struct {
	Name string `yaml:"name"`
	Role string `yaml:"role"`
	Bio  string `yaml:"bio"`
}

type NewsItem struct {
	Title   string    `yaml:"title"`
	Date    time.Time `yaml:"date"`
	Summary string    `yaml:"summary"`
}

type Product struct {
	Name        string `yaml:"name"`
	Category    string `yaml:"category"`
	Description string `yaml:"description"`
}

// Site is the full page copy
type Site struct {
	Company  Company      `yaml:"company"`
	Team     []TeamMember `yaml:"team"`
	News     []NewsItem   `yaml:"news"`
	Products []Product    `yaml:"products"`
}

// Load parses the embedded site content
func Load() (*Site, error) {
	return Parse(siteYAML)
}

// Parse decodes site content from YAML and validates it
func Parse(data []byte) (*Site, error) {
	var site Site
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, fmt.Errorf("failed to parse site content: %w", err)
	}
	if err := site.Validate(); err != nil {
		return nil, err
	}
	return &site, nil
}

// Validate requires every entry to carry its display name
func (s *Site) Validate() error {
	if s.Company.Name == "" {
		return fmt.Errorf("site content: company name is required")
	}
	for i, m := range s.Team {
		if m.Name == "" {
			return fmt.Errorf("site content: team[%d] has no name", i)
		}
	}
	for i, n := range s.News {
		if n.Title == "" {
			return fmt.Errorf("site content: news[%d] has no title", i)
		}
	}
	for i, p := range s.Products {
		if p.Name == "" {
			return fmt.Errorf("site content: products[%d] has no name", i)
		}
	}
	return nil
}
