package db

import (
	"errors"
	"regexp"
)

// IndexSettings are the static settings applied when an index is created.
// Zero values are left to the engine defaults.
type IndexSettings struct {
	Shards          int
	Replicas        int
	RefreshInterval string
}

// IndexDefinition is a complete create-index request.
type IndexDefinition struct {
	Name     string
	Settings IndexSettings
	Mappings map[string]any
}

var refreshIntervalRe = regexp.MustCompile(`^(-1|\d+(ms|s|m|h|d)?)$`)

// Validate checks that the index definition is well-formed.
func (idx *IndexDefinition) Validate() error {
	if idx.Name == "" {
		return errors.New("index name is required")
	}
	if !IsValidIndexName(idx.Name) {
		return errors.New("index name contains invalid characters")
	}
	if idx.Settings.Shards < 0 {
		return errors.New("shards must not be negative")
	}
	if idx.Settings.Replicas < 0 {
		return errors.New("replicas must not be negative")
	}
	if r := idx.Settings.RefreshInterval; r != "" && !refreshIntervalRe.MatchString(r) {
		return errors.New("invalid refresh interval: " + r)
	}
	return nil
}

// Body renders the create-index request body. Settings that were not set
// are omitted.
func (idx *IndexDefinition) Body() map[string]any {
	body := map[string]any{}

	settings := map[string]any{}
	if idx.Settings.Shards > 0 {
		settings["number_of_shards"] = idx.Settings.Shards
	}
	if idx.Settings.Shards > 0 || idx.Settings.Replicas > 0 {
		settings["number_of_replicas"] = idx.Settings.Replicas
	}
	if idx.Settings.RefreshInterval != "" {
		settings["refresh_interval"] = idx.Settings.RefreshInterval
	}
	if len(settings) > 0 {
		body["settings"] = map[string]any{"index": settings}
	}
	if len(idx.Mappings) > 0 {
		body["mappings"] = idx.Mappings
	}
	return body
}

// IsValidIndexName reports whether s is an acceptable engine index name:
// lowercase, no path separators or wildcards, not starting with - _ +.
func IsValidIndexName(s string) bool {
	if s == "" || s == "." || s == ".." || len(s) > 255 {
		return false
	}
	switch s[0] {
	case '-', '_', '+':
		return false
	}
	for _, r := range s {
		isLower := r >= 'a' && r <= 'z'
		isDigit := r >= '0' && r <= '9'
		isSpecial := r == '_' || r == '-' || r == '.'
		if !isLower && !isDigit && !isSpecial {
			return false
		}
	}
	return true
}
