// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package section

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/talentbridge/cms/internal/model"
)

// MaxFormMemory bounds in-memory multipart parsing; larger file parts spill
// to disk.
const MaxFormMemory = 20 << 20 // 20MB

// Form is the parsed and merged state of a section save request.
type Form struct {
	SectionKey model.SectionKey
	Title      string
	SubTitle   string
	SortOrder  int64
	IsActive   bool
	// Meta is the merged meta object: the JSON part overlaid with whatever
	// values the caller derives from file parts before validation.
	Meta map[string]any
	// Files holds the binary parts keyed by meta field name. They are staged
	// here and only written to storage after validation passes.
	Files map[string]*multipart.FileHeader
}

// ParseForm extracts a section Form from a multipart request. The meta part
// must be valid JSON or the whole save is rejected; a malformed sort_order
// or is_active is rejected the same way. Validation of field values happens
// separately in Validate.
func ParseForm(r *http.Request) (Form, error) {
	if err := r.ParseMultipartForm(MaxFormMemory); err != nil {
		return Form{}, fmt.Errorf("parsing multipart form: %w", err)
	}

	form := Form{
		SectionKey: model.SectionKey(r.FormValue("section_key")),
		Title:      r.FormValue("title"),
		SubTitle:   r.FormValue("sub_title"),
		IsActive:   true,
		Meta:       map[string]any{},
		Files:      map[string]*multipart.FileHeader{},
	}

	if v := r.FormValue("sort_order"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Form{}, fmt.Errorf("invalid sort_order %q", v)
		}
		form.SortOrder = n
	}

	if v := r.FormValue("is_active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Form{}, fmt.Errorf("invalid is_active %q", v)
		}
		form.IsActive = b
	}

	if raw := r.FormValue("meta"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &form.Meta); err != nil {
			return Form{}, fmt.Errorf("invalid JSON in meta field: %w", err)
		}
		if form.Meta == nil {
			form.Meta = map[string]any{}
		}
	}

	if r.MultipartForm != nil {
		for name, headers := range r.MultipartForm.File {
			if name == "meta" || len(headers) == 0 {
				continue
			}
			// One file per meta key; the last part wins like FormValue does.
			form.Files[name] = headers[len(headers)-1]
		}
	}

	return form, nil
}

// MergeMeta overlays structured values on top of a base meta object.
// Structured values win on key collision. The merge is shallow and pure:
// neither input is mutated and identical inputs always produce identical
// output.
func MergeMeta(base, structured map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(structured))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range structured {
		merged[k] = v
	}
	return merged
}

// Validate checks a section form before anything is written. It returns a
// field -> message map, empty on success. The meta check runs over every key
// present in the merged object, not just the registry's declared fields, so
// stale keys left over from an earlier section kind also block the save.
// A key with a staged file part counts as populated.
func Validate(form Form) map[string]string {
	errs := make(map[string]string)

	if form.SectionKey == "" {
		errs["section_key"] = "Section key is required"
	} else if !model.IsValidSectionKey(form.SectionKey) {
		errs["section_key"] = fmt.Sprintf("Unknown section key %q", form.SectionKey)
	}

	if strings.TrimSpace(form.Title) == "" {
		errs["title"] = "Title is required"
	}

	if form.SortOrder < 0 {
		errs["sort_order"] = "Sort order must be 0 or greater"
	}

	for key, value := range form.Meta {
		if _, staged := form.Files[key]; staged {
			continue
		}
		if isEmptyMetaValue(value) {
			errs["meta."+key] = fmt.Sprintf("Meta field %q cannot be empty", key)
		}
	}

	return errs
}

// isEmptyMetaValue reports whether a meta value blocks saving: null or the
// empty string. Empty arrays and objects are allowed.
func isEmptyMetaValue(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}
