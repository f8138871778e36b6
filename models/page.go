package models

import "time"

// PageInfoKey is the reserved key the page metadata is attached under.
const PageInfoKey = "_page_info"

// Content is the key/value mapping parsed from a page's raw text.
type Content map[string]string

// Document is the enriched content plus the page metadata, ready to be serialized.
type Document map[string]any

// Source holds the raw wiki text of a page.
type Source struct {
	WikiText string
}

// Page represents a single page returned by the site client.
type Page struct {
	Fullname  string
	Name      string
	Title     string
	Category  string
	CreatedAt *time.Time
	CreatedBy *string
	Size      int

	// Source is nil when the site exposes no textual content for the page.
	Source *Source
}

// Info builds the metadata record attached to the parsed content.
func (p *Page) Info() PageInfo {
	info := PageInfo{
		Fullname:  p.Fullname,
		Name:      p.Name,
		Title:     p.Title,
		Category:  p.Category,
		CreatedBy: p.CreatedBy,
		Size:      p.Size,
	}
	if p.CreatedAt != nil {
		ts := p.CreatedAt.Format(isoLayout)
		info.CreatedAt = &ts
	}
	return info
}
