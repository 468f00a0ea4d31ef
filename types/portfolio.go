package types

// Metric is one highlighted figure of a project, e.g. accuracy: 95%.
type Metric struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Project is a portfolio gallery entry.
type Project struct {
	ID              int      `json:"id" yaml:"id"`
	Title           string   `json:"title" yaml:"title"`
	Description     string   `json:"description" yaml:"description"`
	LongDescription string   `json:"long_description" yaml:"long_description"`
	Image           string   `json:"image" yaml:"image"`
	Technologies    []string `json:"technologies" yaml:"technologies"`
	Category        string   `json:"category" yaml:"category"`
	Year            string   `json:"year" yaml:"year"`
	Status          string   `json:"status" yaml:"status"`
	Featured        bool     `json:"featured" yaml:"featured"`
	GitHub          string   `json:"github,omitempty" yaml:"github"`
	Demo            string   `json:"demo,omitempty" yaml:"demo"`
	Metrics         []Metric `json:"metrics" yaml:"metrics"`
}

// Category is a gallery filter with the number of projects it matches.
type Category struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Service is an offered service shown on the services section.
type Service struct {
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Features    []string `json:"features" yaml:"features"`
}

// SocialLink points at an external profile.
type SocialLink struct {
	Name string `json:"name" yaml:"name"`
	Href string `json:"href" yaml:"href"`
}

// ContactChannel is a direct way to reach the site owner.
type ContactChannel struct {
	Title       string `json:"title" yaml:"title"`
	Value       string `json:"value" yaml:"value"`
	Href        string `json:"href" yaml:"href"`
	Description string `json:"description" yaml:"description"`
}

// Profile identifies the site owner.
type Profile struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	TechStack   []string `json:"tech_stack" yaml:"tech_stack"`
}

// ProfileResponse is returned by GET /v1/portfolio/profile.
type ProfileResponse struct {
	Profile         Profile          `json:"profile"`
	ContactChannels []ContactChannel `json:"contact_channels"`
	SocialLinks     []SocialLink     `json:"social_links"`
}

// GalleryPage is one view of the filtered project gallery.
type GalleryPage struct {
	Filter    string    `json:"filter"`
	Projects  []Project `json:"projects"`
	Total     int       `json:"total"`
	Visible   int       `json:"visible"`
	HasMore   bool      `json:"has_more"`
	Remaining int       `json:"remaining"`
}
