// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/talentbridge/cms/internal/model"
	"github.com/talentbridge/cms/internal/service"
)

func testRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New()
	if err != nil {
		t.Fatalf("failed to create renderer: %v", err)
	}
	return r
}

func renderOne(t *testing.T, r *Renderer, s model.Section, sanitize bool) string {
	t.Helper()
	var buf bytes.Buffer
	if err := r.RenderSection(&buf, s, sanitize); err != nil {
		t.Fatalf("failed to render section: %v", err)
	}
	return buf.String()
}

func TestRenderJourneyTimelineOrder(t *testing.T) {
	r := testRenderer(t)

	out := renderOne(t, r, model.Section{
		SectionKey: model.SectionJourney,
		Title:      "Our Journey",
		Meta: map[string]any{
			"items": []any{
				map[string]any{"year": "2020", "title": "Founded", "description": "Start"},
				map[string]any{"year": "2023", "title": "Scaled", "description": "Growth"},
			},
		},
	}, false)

	for _, want := range []string{"2020", "Founded", "Start", "2023", "Scaled", "Growth"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}

	// Items appear in submitted order.
	if strings.Index(out, "2020") > strings.Index(out, "2023") {
		t.Error("timeline items out of order")
	}
	if strings.Index(out, "Founded") > strings.Index(out, "Scaled") {
		t.Error("timeline titles out of order")
	}
}

func TestRenderUnknownKeySkipsSilently(t *testing.T) {
	r := testRenderer(t)

	var buf bytes.Buffer
	err := r.RenderSection(&buf, model.Section{
		SectionKey: "carousel",
		Title:      "Never shown",
		Meta:       map[string]any{"whatever": "x"},
	}, false)
	if err != nil {
		t.Fatalf("unknown key should not error: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("unknown key produced output: %q", buf.String())
	}
}

func TestRenderHero(t *testing.T) {
	r := testRenderer(t)

	out := renderOne(t, r, model.Section{
		SectionKey: model.SectionHero,
		Title:      "Build your team",
		SubTitle:   "Fast",
		Meta: map[string]any{
			"hero_image":  "/uploads/sections/abc.webp",
			"description": "We connect talent.",
			"ctaPrimary":  "Get started",
			"badges":      []any{"ISO 9001", "Top Rated"},
		},
	}, false)

	for _, want := range []string{
		"Build your team", "We connect talent.", "Get started",
		`src="/uploads/sections/abc.webp"`, "ISO 9001", "Top Rated",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRenderRichTextRawAndSanitized(t *testing.T) {
	r := testRenderer(t)

	sec := model.Section{
		SectionKey: model.SectionLeftImageRightContent,
		Title:      "About",
		Meta: map[string]any{
			"image":   "/uploads/sections/x.png",
			"content": `<p>Hello <strong>world</strong></p><script>alert(1)</script>`,
		},
	}

	raw := renderOne(t, r, sec, false)
	if !strings.Contains(raw, "<strong>world</strong>") {
		t.Error("rich text was escaped instead of rendered raw")
	}
	if !strings.Contains(raw, "<script>") {
		t.Error("unsanitized output should keep authored markup verbatim")
	}

	clean := renderOne(t, r, sec, true)
	if strings.Contains(clean, "<script>") {
		t.Error("sanitized output kept script tag")
	}
	if !strings.Contains(clean, "<strong>world</strong>") {
		t.Error("sanitizer stripped benign markup")
	}
}

func TestRenderSplitImagePlacement(t *testing.T) {
	r := testRenderer(t)
	meta := map[string]any{"image": "/uploads/sections/x.png", "content": "<p>text</p>"}

	left := renderOne(t, r, model.Section{
		SectionKey: model.SectionLeftImageRightContent, Title: "L", Meta: meta,
	}, false)
	if !strings.Contains(left, "image-left") {
		t.Error("expected image-left class")
	}

	right := renderOne(t, r, model.Section{
		SectionKey: model.SectionRightImageLeftContent, Title: "R", Meta: meta,
	}, false)
	if !strings.Contains(right, "image-right") {
		t.Error("expected image-right class")
	}
}

func TestRenderSectionsConcatenatesInOrder(t *testing.T) {
	r := testRenderer(t)

	html, err := r.RenderSections([]model.Section{
		{SectionKey: model.SectionHero, Title: "First", Meta: map[string]any{"description": "a"}},
		{SectionKey: "bogus", Title: "Skipped", Meta: map[string]any{}},
		{SectionKey: model.SectionStats, Title: "Second", Meta: map[string]any{
			"items": []any{map[string]any{"value": "120+", "label": "Clients"}},
		}},
	}, false)
	if err != nil {
		t.Fatalf("failed to render sections: %v", err)
	}

	out := string(html)
	if strings.Contains(out, "Skipped") {
		t.Error("unregistered section rendered")
	}
	if strings.Index(out, "First") > strings.Index(out, "Second") {
		t.Error("sections rendered out of order")
	}
	if !strings.Contains(out, "120+") || !strings.Contains(out, "Clients") {
		t.Error("stats values missing")
	}
}

func TestRenderPage(t *testing.T) {
	r := testRenderer(t)

	sections, err := r.RenderSections([]model.Section{
		{SectionKey: model.SectionHero, Title: "Welcome", Meta: map[string]any{"description": "hi"}},
	}, false)
	if err != nil {
		t.Fatalf("failed to render sections: %v", err)
	}

	var buf bytes.Buffer
	err = r.RenderPage(&buf, PageData{
		Site: service.SiteSettings{
			SiteName:     "TalentBridge",
			PrimaryColor: "#0f4c81",
		},
		Nav: []service.NavItem{
			{Title: "Home", URL: "/", Target: "_self"},
			{Title: "About", URL: "/about", Target: "_self"},
		},
		Page:     model.Page{Title: "Home", Slug: "home", MetaDescription: "Landing"},
		Sections: sections,
	})
	if err != nil {
		t.Fatalf("failed to render page: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"TalentBridge", "Welcome", `href="/about"`, "--color-primary: #0f4c81",
		`<meta name="description" content="Landing">`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("page output missing %q", want)
		}
	}
}

func TestBlogBodyMarkdownAndHTML(t *testing.T) {
	r := testRenderer(t)

	md, err := r.BlogBody(model.Blog{
		Slug: "post", Format: model.BlogFormatMarkdown,
		Body: "# Heading\n\nSome **bold** text.",
	}, false)
	if err != nil {
		t.Fatalf("markdown conversion failed: %v", err)
	}
	if !strings.Contains(string(md), "<h1") || !strings.Contains(string(md), "<strong>bold</strong>") {
		t.Errorf("markdown output = %q", md)
	}

	raw, err := r.BlogBody(model.Blog{
		Slug: "post2", Format: model.BlogFormatHTML,
		Body: "<p>already html</p>",
	}, false)
	if err != nil {
		t.Fatalf("html passthrough failed: %v", err)
	}
	if string(raw) != "<p>already html</p>" {
		t.Errorf("html body altered: %q", raw)
	}
}
