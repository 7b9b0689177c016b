// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package section

import (
	"encoding/json"
	"fmt"

	"github.com/talentbridge/cms/internal/model"
)

// HeroMeta is the payload of a hero section.
type HeroMeta struct {
	HeroImage    string   `json:"hero_image,omitempty"`
	Description  string   `json:"description,omitempty"`
	CTAPrimary   string   `json:"ctaPrimary,omitempty"`
	CTASecondary string   `json:"ctaSecondary,omitempty"`
	Badges       []string `json:"badges,omitempty"`
}

// StatItem is one entry of a stats section.
type StatItem struct {
	Icon  string `json:"icon,omitempty"`
	Value string `json:"value"`
	Label string `json:"label"`
}

// StatsMeta is the payload of a stats section.
type StatsMeta struct {
	Items []StatItem `json:"items"`
}

// TimelineItem is one entry of a journey timeline.
type TimelineItem struct {
	Year        string `json:"year"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
}

// JourneyMeta is the payload of a journey section.
type JourneyMeta struct {
	Items []TimelineItem `json:"items"`
}

// Leader is one entry of a leadership section.
type Leader struct {
	Name  string `json:"name"`
	Role  string `json:"role,omitempty"`
	Bio   string `json:"bio,omitempty"`
	Image string `json:"image,omitempty"`
}

// LeadershipMeta is the payload of a leadership section.
type LeadershipMeta struct {
	Members []Leader `json:"members"`
}

// Slide is one entry of a slider section.
type Slide struct {
	Image   string `json:"image"`
	Caption string `json:"caption,omitempty"`
	URL     string `json:"url,omitempty"`
}

// SliderMeta is the payload of a slider section.
type SliderMeta struct {
	Slides []Slide `json:"slides"`
}

// ImageContentMeta is the payload of the split image/content sections.
// Content is authored rich text and rendered as raw HTML on the public site.
type ImageContentMeta struct {
	Image   string `json:"image,omitempty"`
	Content string `json:"content,omitempty"`
}

// Meta is implemented by every typed section payload.
type Meta interface {
	sectionMeta()
}

func (HeroMeta) sectionMeta()         {}
func (StatsMeta) sectionMeta()        {}
func (JourneyMeta) sectionMeta()      {}
func (LeadershipMeta) sectionMeta()   {}
func (SliderMeta) sectionMeta()       {}
func (ImageContentMeta) sectionMeta() {}

// DecodeMeta converts a stored meta map into the typed payload for the
// section's key. Unknown keys fall through to ok == false so the public
// renderer can skip the section silently. Decoding is tolerant of extra
// keys; templates trust the declared shape.
func DecodeMeta(key model.SectionKey, meta map[string]any) (Meta, bool, error) {
	raw, err := json.Marshal(meta)
	if err != nil {
		return nil, false, fmt.Errorf("encoding meta for %q: %w", key, err)
	}

	decode := func(dst Meta) (Meta, bool, error) {
		if err := json.Unmarshal(raw, dst); err != nil {
			return nil, true, fmt.Errorf("decoding %q meta: %w", key, err)
		}
		return dst, true, nil
	}

	switch key {
	case model.SectionHero:
		return decode(&HeroMeta{})
	case model.SectionStats:
		return decode(&StatsMeta{})
	case model.SectionJourney:
		return decode(&JourneyMeta{})
	case model.SectionLeadership:
		return decode(&LeadershipMeta{})
	case model.SectionSlider:
		return decode(&SliderMeta{})
	case model.SectionLeftImageRightContent, model.SectionRightImageLeftContent:
		return decode(&ImageContentMeta{})
	}
	return nil, false, nil
}
