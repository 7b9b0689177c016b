// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render turns stored pages and sections into public HTML.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/talentbridge/cms/internal/model"
	"github.com/talentbridge/cms/internal/section"
	"github.com/talentbridge/cms/internal/service"
)

//go:embed templates
var templatesFS embed.FS

// Renderer renders sections, pages and blog posts from embedded templates.
type Renderer struct {
	sections  map[model.SectionKey]*template.Template
	pages     map[string]*template.Template
	sanitizer *bluemonday.Policy
	markdown  goldmark.Markdown
}

// New parses the embedded templates and returns a ready renderer.
func New() (*Renderer, error) {
	r := &Renderer{
		sections:  make(map[model.SectionKey]*template.Template),
		pages:     make(map[string]*template.Template),
		sanitizer: bluemonday.UGCPolicy(),
		markdown:  goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}

	for _, key := range model.AllSectionKeys() {
		name := sectionTemplateName(key)
		tmpl, err := template.ParseFS(templatesFS, "templates/sections/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing section template %s: %w", name, err)
		}
		r.sections[key] = tmpl
	}

	for _, name := range []string{"page", "blog"} {
		tmpl, err := template.ParseFS(templatesFS,
			"templates/pages/layout.html", "templates/pages/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing page template %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}

	return r, nil
}

// sectionTemplateName maps a section key to its template file. The switch
// is exhaustive over the closed key set; both split layouts share one
// template and differ only in image placement.
func sectionTemplateName(key model.SectionKey) string {
	switch key {
	case model.SectionHero:
		return "hero"
	case model.SectionStats:
		return "stats"
	case model.SectionJourney:
		return "journey"
	case model.SectionLeadership:
		return "leadership"
	case model.SectionSlider:
		return "slider"
	case model.SectionLeftImageRightContent, model.SectionRightImageLeftContent:
		return "image_content"
	}
	return ""
}

// RenderSection writes one section's HTML. A section whose key is not in the
// registry produces no output and no error; decode and template failures are
// returned to the caller.
func (r *Renderer) RenderSection(w io.Writer, s model.Section, sanitize bool) error {
	meta, ok, err := section.DecodeMeta(s.SectionKey, s.Meta)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	tmpl := r.sections[s.SectionKey]
	if tmpl == nil {
		return nil
	}

	data := r.sectionData(s, meta, sanitize)
	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("rendering %s section %d: %w", s.SectionKey, s.ID, err)
	}
	return nil
}

// RenderSections renders sections in order and concatenates the result.
func (r *Renderer) RenderSections(sections []model.Section, sanitize bool) (template.HTML, error) {
	var buf bytes.Buffer
	for _, s := range sections {
		if err := r.RenderSection(&buf, s, sanitize); err != nil {
			return "", err
		}
	}
	return template.HTML(buf.String()), nil
}

// sectionViewData is the common envelope every section template receives.
type sectionViewData struct {
	Title    string
	SubTitle string
	Meta     any
}

// sectionData builds the template payload for a section. Rich-text fields
// cross into template.HTML here; everything else stays escaped.
func (r *Renderer) sectionData(s model.Section, meta section.Meta, sanitize bool) sectionViewData {
	data := sectionViewData{
		Title:    s.Title,
		SubTitle: s.SubTitle,
	}

	switch m := meta.(type) {
	case *section.ImageContentMeta:
		data.Meta = struct {
			Image     string
			Content   template.HTML
			ImageLeft bool
		}{
			Image:     m.Image,
			Content:   r.rawHTML(m.Content, sanitize),
			ImageLeft: s.SectionKey == model.SectionLeftImageRightContent,
		}
	default:
		data.Meta = meta
	}

	return data
}

// rawHTML passes authored rich text through as-is, optionally sanitized.
func (r *Renderer) rawHTML(s string, sanitize bool) template.HTML {
	if sanitize {
		s = r.sanitizer.Sanitize(s)
	}
	return template.HTML(s)
}

// PageData is the payload of the public page template.
type PageData struct {
	Site     service.SiteSettings
	Nav      []service.NavItem
	Page     model.Page
	Sections template.HTML
}

// RenderPage writes a full public page: layout, navigation and the
// pre-rendered section stream.
func (r *Renderer) RenderPage(w io.Writer, data PageData) error {
	if err := r.pages["page"].ExecuteTemplate(w, "layout", data); err != nil {
		return fmt.Errorf("rendering page %s: %w", data.Page.Slug, err)
	}
	return nil
}

// BlogData is the payload of the public blog post template.
type BlogData struct {
	Site service.SiteSettings
	Nav  []service.NavItem
	Blog model.Blog
	Body template.HTML
}

// RenderBlog writes a full public blog post.
func (r *Renderer) RenderBlog(w io.Writer, data BlogData) error {
	if err := r.pages["blog"].ExecuteTemplate(w, "layout", data); err != nil {
		return fmt.Errorf("rendering blog %s: %w", data.Blog.Slug, err)
	}
	return nil
}

// BlogBody converts a post's stored body to HTML: markdown posts run through
// goldmark, html posts pass straight through.
func (r *Renderer) BlogBody(blog model.Blog, sanitize bool) (template.HTML, error) {
	if blog.Format == model.BlogFormatMarkdown {
		var buf bytes.Buffer
		if err := r.markdown.Convert([]byte(blog.Body), &buf); err != nil {
			return "", fmt.Errorf("converting markdown for %s: %w", blog.Slug, err)
		}
		return r.rawHTML(buf.String(), sanitize), nil
	}
	return r.rawHTML(blog.Body, sanitize), nil
}
