// Package models defines the domain types for docsite.
package models

import "time"

// Defaults applied when front matter leaves a field out.
const (
	DefaultTitle    = "Untitled"
	DefaultCategory = "General"
	DefaultOrder    = 999
)

// Doc is a fully loaded documentation page.
type Doc struct {
	Slug        string           `json:"slug"`
	Title       string           `json:"title"`
	Content     string           `json:"content"`
	Category    string           `json:"category"`
	Tags        []string         `json:"tags"`
	Order       int              `json:"order"`
	Excerpt     string           `json:"excerpt"`
	ReadingTime int              `json:"readingTime"`
	Date        time.Time        `json:"date"`
	Updated     time.Time        `json:"updated"`
	Headings    []Heading        `json:"headings"`
	Checksum    string           `json:"checksum"`
	Extra       map[string]Value `json:"extra,omitempty"`
}

// Entry returns the listing/search projection of d.
func (d *Doc) Entry() Entry {
	return Entry{
		Slug:        d.Slug,
		Title:       d.Title,
		Excerpt:     d.Excerpt,
		Category:    d.Category,
		Tags:        d.Tags,
		Order:       d.Order,
		ReadingTime: d.ReadingTime,
		Date:        d.Date,
		Updated:     d.Updated,
	}
}

// Entry is one element of the persisted index snapshot.
type Entry struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	Order       int       `json:"order"`
	ReadingTime int       `json:"readingTime"`
	Date        time.Time `json:"date"`
	Updated     time.Time `json:"updated"`
}

// Heading is a table-of-contents item.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	ID    string `json:"id"`
}
