// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo builds the sitemap and robots.txt for the public site.
package seo

import (
	"encoding/xml"
	"time"
)

// XMLNamespace is the sitemap XML namespace.
const XMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Valid change frequency values.
const (
	ChangeFreqAlways  ChangeFreq = "always"
	ChangeFreqHourly  ChangeFreq = "hourly"
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
	ChangeFreqYearly  ChangeFreq = "yearly"
	ChangeFreqNever   ChangeFreq = "never"
)

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapEntry contains the data needed to add a content URL to the sitemap.
type SitemapEntry struct {
	Slug      string
	UpdatedAt time.Time
}

// SitemapBuilder builds sitemap XML from the site's content.
type SitemapBuilder struct {
	siteURL string
	urls    []SitemapURL
}

// NewSitemapBuilder creates a sitemap builder rooted at siteURL.
func NewSitemapBuilder(siteURL string) *SitemapBuilder {
	return &SitemapBuilder{
		siteURL: siteURL,
		urls:    make([]SitemapURL, 0),
	}
}

// AddHomepage adds the homepage to the sitemap.
func (b *SitemapBuilder) AddHomepage() {
	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL,
		ChangeFreq: ChangeFreqDaily,
		Priority:   "1.0",
	})
}

// AddPage adds a published page to the sitemap.
func (b *SitemapBuilder) AddPage(page SitemapEntry) {
	url := SitemapURL{
		Loc:        b.siteURL + "/" + page.Slug,
		ChangeFreq: ChangeFreqWeekly,
		Priority:   "0.8",
	}
	if !page.UpdatedAt.IsZero() {
		url.LastMod = page.UpdatedAt.Format(time.RFC3339)
	}
	b.urls = append(b.urls, url)
}

// AddPages adds multiple pages to the sitemap.
func (b *SitemapBuilder) AddPages(pages []SitemapEntry) {
	for _, p := range pages {
		b.AddPage(p)
	}
}

// AddBlogPost adds a published blog post to the sitemap.
func (b *SitemapBuilder) AddBlogPost(post SitemapEntry) {
	url := SitemapURL{
		Loc:        b.siteURL + "/blog/" + post.Slug,
		ChangeFreq: ChangeFreqMonthly,
		Priority:   "0.6",
	}
	if !post.UpdatedAt.IsZero() {
		url.LastMod = post.UpdatedAt.Format(time.RFC3339)
	}
	b.urls = append(b.urls, url)
}

// AddBlogPosts adds multiple blog posts to the sitemap.
func (b *SitemapBuilder) AddBlogPosts(posts []SitemapEntry) {
	for _, p := range posts {
		b.AddBlogPost(p)
	}
}

// Build generates the sitemap XML.
func (b *SitemapBuilder) Build() ([]byte, error) {
	sitemap := Sitemap{
		XMLNS: XMLNamespace,
		URLs:  b.urls,
	}

	output := []byte(xml.Header)
	xmlBytes, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(output, xmlBytes...), nil
}

// GenerateSitemap is a convenience function to generate a sitemap from content.
func GenerateSitemap(siteURL string, pages, posts []SitemapEntry) ([]byte, error) {
	builder := NewSitemapBuilder(siteURL)
	builder.AddHomepage()
	builder.AddPages(pages)
	builder.AddBlogPosts(posts)
	return builder.Build()
}
