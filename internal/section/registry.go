// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package section implements the section type registry, meta validation,
// and the save pipeline for page sections. A section's key selects both the
// authoring field schema and its public template; the registry is the single
// source of truth for which meta fields a section kind carries.
package section

import "github.com/talentbridge/cms/internal/model"

// FieldType describes how a meta field is authored in the admin panel.
type FieldType string

// Authoring widget kinds.
const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldJSON     FieldType = "json"
	FieldImage    FieldType = "image"
	FieldQuill    FieldType = "quill" // rich text, stored as raw HTML
	FieldBadges   FieldType = "badges"
)

// Field declares one meta field of a section kind.
type Field struct {
	Name  string    `json:"name"`
	Label string    `json:"label"`
	Type  FieldType `json:"type"`
}

// SchemaEntry is the field schema for one section kind.
type SchemaEntry struct {
	Label  string  `json:"label"`
	Fields []Field `json:"fields"`
}

// Lookup returns the field schema for a section key. The switch is
// exhaustive over model.AllSectionKeys; an unregistered key returns
// ok == false and callers treat the section as unsupported rather than
// failing.
func Lookup(key model.SectionKey) (SchemaEntry, bool) {
	switch key {
	case model.SectionHero:
		return SchemaEntry{
			Label: "Hero Section",
			Fields: []Field{
				{Name: "hero_image", Label: "Hero Image", Type: FieldImage},
				{Name: "description", Label: "Description", Type: FieldTextarea},
				{Name: "ctaPrimary", Label: "Primary CTA", Type: FieldText},
				{Name: "ctaSecondary", Label: "Secondary CTA", Type: FieldText},
				{Name: "badges", Label: "Badges", Type: FieldBadges},
			},
		}, true
	case model.SectionStats:
		return SchemaEntry{
			Label: "Stats Section",
			Fields: []Field{
				{Name: "items", Label: "Items (JSON)", Type: FieldJSON},
			},
		}, true
	case model.SectionJourney:
		return SchemaEntry{
			Label: "Journey Section",
			Fields: []Field{
				{Name: "items", Label: "Timeline (JSON)", Type: FieldJSON},
			},
		}, true
	case model.SectionLeadership:
		return SchemaEntry{
			Label: "Leadership Section",
			Fields: []Field{
				{Name: "members", Label: "Members (JSON)", Type: FieldJSON},
			},
		}, true
	case model.SectionSlider:
		return SchemaEntry{
			Label: "Slider Section",
			Fields: []Field{
				{Name: "slides", Label: "Slides (JSON)", Type: FieldJSON},
			},
		}, true
	case model.SectionLeftImageRightContent:
		return SchemaEntry{
			Label: "Left Image Right Content",
			Fields: []Field{
				{Name: "image", Label: "Image", Type: FieldImage},
				{Name: "content", Label: "Content", Type: FieldQuill},
			},
		}, true
	case model.SectionRightImageLeftContent:
		return SchemaEntry{
			Label: "Right Image Left Content",
			Fields: []Field{
				{Name: "image", Label: "Image", Type: FieldImage},
				{Name: "content", Label: "Content", Type: FieldQuill},
			},
		}, true
	}
	return SchemaEntry{}, false
}

// Registry returns the full key -> schema mapping, used by the admin panel
// to populate the section-kind picker.
func Registry() map[model.SectionKey]SchemaEntry {
	out := make(map[model.SectionKey]SchemaEntry, len(model.AllSectionKeys()))
	for _, key := range model.AllSectionKeys() {
		entry, _ := Lookup(key)
		out[key] = entry
	}
	return out
}

// MetaKeyFor returns the meta key a field writes to. Badge fields always
// write to "badges" regardless of their declared name; other code depends
// on that location, so the quirk is preserved here rather than normalized.
func MetaKeyFor(f Field) string {
	if f.Type == FieldBadges {
		return "badges"
	}
	return f.Name
}
