package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type Post struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	Title       string    `db:"title"`
	Description *string   `db:"description"`
	MediaURL    *string   `db:"media_url"`
	CodeLink    *string   `db:"code_link"`
	Tags        Tags      `db:"tags"`
	CreatedAt   time.Time `db:"created_at"`
}

// Tags is an ordered tag list stored as a JSON array.
// A nil Tags is stored as NULL; an empty list is never stored.
type Tags []string

// ParseTags splits a comma separated string, trims each segment and drops
// empty ones, keeping the original order. No tags yields nil.
func ParseTags(input string) Tags {
	var tags Tags
	for _, part := range strings.Split(input, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}

// String joins the tags back into the comma separated input form.
func (t Tags) String() string {
	return strings.Join(t, ",")
}

func (t Tags) Value() (driver.Value, error) {
	if len(t) == 0 {
		return nil, nil
	}
	b, err := json.Marshal([]string(t))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (t *Tags) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*t = nil
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("tags: unsupported type %T", src)
	}

	var tags []string
	err := json.Unmarshal(raw, &tags)
	if err != nil {
		return fmt.Errorf("tags: %w", err)
	}
	if len(tags) == 0 {
		*t = nil
		return nil
	}
	*t = tags
	return nil
}

// OptionalString returns nil for blank input so empty form fields are
// stored as NULL.
func OptionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
