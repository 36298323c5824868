package model

import "strings"

// Document is one indexable unit within a search property: a documentation
// page contributing text to one or more fields, plus the metadata needed to
// render it as a search result and to place it in the link graph.
type Document struct {
	SearchProperty        string
	URL                   string
	Title                 string
	Headings              string
	Text                  string
	Tags                  string
	Links                 []string
	Weight                float64
	Preview               string
	IncludeInGlobalSearch bool
}

// Manifest is one search property's worth of documents, as published by a
// client documentation project and ingested by the coordinator (§6).
type Manifest struct {
	SearchProperty        string             `json:"-"`
	URL                   string             `json:"url"`
	Aliases               []string           `json:"aliases,omitempty"`
	IncludeInGlobalSearch bool               `json:"includeInGlobalSearch,omitempty"`
	Documents             []ManifestDocument `json:"documents"`
}

// ManifestDocument is a single document entry within a manifest, in the
// shape the manifest JSON schema (§6) defines before it is resolved into a
// Document (URL joined with the manifest's base URL, headings joined by a
// single space).
type ManifestDocument struct {
	Slug     string   `json:"slug"`
	Title    string   `json:"title"`
	Preview  string   `json:"preview"`
	Text     string   `json:"text"`
	Tags     string   `json:"tags"`
	Headings []string `json:"headings,omitempty"`
	Links    []string `json:"links,omitempty"`
	Weight   float64  `json:"weight,omitempty"`
}

// Resolve turns a ManifestDocument into an indexable Document, joining its
// slug onto the manifest's base URL and folding in the manifest's property
// tag and global-search flag.
func (m Manifest) Resolve(doc ManifestDocument) Document {
	weight := doc.Weight
	if weight == 0 {
		weight = 1
	}
	return Document{
		SearchProperty:        m.SearchProperty,
		URL:                   joinURL(m.URL, doc.Slug),
		Title:                 doc.Title,
		Headings:              joinHeadings(doc.Headings),
		Text:                  doc.Text,
		Tags:                  doc.Tags,
		Links:                 doc.Links,
		Weight:                weight,
		Preview:               doc.Preview,
		IncludeInGlobalSearch: m.IncludeInGlobalSearch,
	}
}

func joinURL(base, slug string) string {
	for len(base) > 0 && base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}
	for len(slug) > 0 && slug[0] == '/' {
		slug = slug[1:]
	}
	if slug == "" {
		return base
	}
	return base + "/" + slug
}

func joinHeadings(headings []string) string {
	return strings.Join(headings, " ")
}
