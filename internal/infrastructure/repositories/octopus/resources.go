package octopus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// numericString is a version the API sends either as a JSON number or as a numeric string.
type numericString int

func (n *numericString) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(bytes.Trim(data, `"`)))
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid numeric version %s: %w", string(data), err)
	}
	*n = numericString(value)
	return nil
}

// timestamp accepts RFC 3339 dates as well as zone-less ones, which are read as UTC.
type timestamp struct {
	time.Time
}

var timestampLayouts = []string{ //nolint:gochecknoglobals // fixed parse table
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

func (t *timestamp) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		return nil
	}

	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", raw)
}

// errorEnvelope is the shape of an application-level error in an otherwise successful body.
type errorEnvelope struct {
	ErrorMessage string `json:"ErrorMessage"`
}

type itemsEnvelope[T any] struct {
	ErrorMessage string `json:"ErrorMessage"`
	Items        []T    `json:"Items"`
}

type templateResource struct {
	ID                        string        `json:"Id"`
	Name                      string        `json:"Name"`
	Version                   numericString `json:"Version"`
	CommunityActionTemplateID *string       `json:"CommunityActionTemplateId"`
	Links                     struct {
		Usage string `json:"Usage"`
	} `json:"Links"`
}

type usageResource struct {
	ProjectName      string        `json:"ProjectName"`
	Version          numericString `json:"Version"`
	ActionTemplateID string        `json:"ActionTemplateId"`
}

type projectResource struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
	Slug string `json:"Slug"`
}

type releaseResource struct {
	ID        string    `json:"Id"`
	Version   string    `json:"Version"`
	Assembled timestamp `json:"Assembled"`
}

type progressionResource struct {
	Phases []struct {
		Name     string `json:"Name"`
		Progress string `json:"Progress"`
	} `json:"Phases"`
}

// isCommunity reports whether the template is owned by the community library.
func (r templateResource) isCommunity() bool {
	return r.CommunityActionTemplateID != nil && *r.CommunityActionTemplateID != ""
}

func decodeError(body []byte) string {
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	return envelope.ErrorMessage
}
