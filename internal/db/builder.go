package db

import (
	"encoding/json"
	"strconv"
	"strings"
)

// IndexBuilder is a fluent builder for create-index definitions.
type IndexBuilder struct {
	def IndexDefinition
}

// NewIndex starts building an index definition.
func NewIndex(name string) *IndexBuilder {
	return &IndexBuilder{def: IndexDefinition{Name: name}}
}

// Shards sets number_of_shards.
func (b *IndexBuilder) Shards(n int) *IndexBuilder {
	b.def.Settings.Shards = n
	return b
}

// Replicas sets number_of_replicas.
func (b *IndexBuilder) Replicas(n int) *IndexBuilder {
	b.def.Settings.Replicas = n
	return b
}

// RefreshInterval sets refresh_interval, e.g. "1s" or "-1".
func (b *IndexBuilder) RefreshInterval(v string) *IndexBuilder {
	b.def.Settings.RefreshInterval = v
	return b
}

// Settings replaces all settings at once.
func (b *IndexBuilder) Settings(s IndexSettings) *IndexBuilder {
	b.def.Settings = s
	return b
}

// Mappings sets the initial mappings, as compiled by the mapping compiler.
func (b *IndexBuilder) Mappings(m map[string]any) *IndexBuilder {
	b.def.Mappings = m
	return b
}

// Build validates and returns the index definition.
func (b *IndexBuilder) Build() (*IndexDefinition, error) {
	if err := b.def.Validate(); err != nil {
		return nil, err
	}
	return &b.def, nil
}

// MustBuild calls Build and panics on error.
func (b *IndexBuilder) MustBuild() *IndexDefinition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}

// String returns a debug representation resembling the REST call.
func (idx *IndexDefinition) String() string {
	parts := []string{"PUT", "/" + idx.Name}
	if s := idx.Settings; s.Shards > 0 {
		parts = append(parts, "shards="+strconv.Itoa(s.Shards), "replicas="+strconv.Itoa(s.Replicas))
	}
	if idx.Settings.RefreshInterval != "" {
		parts = append(parts, "refresh="+idx.Settings.RefreshInterval)
	}
	if props, ok := idx.Mappings["properties"].(map[string]any); ok {
		parts = append(parts, "fields="+strconv.Itoa(len(props)))
	}
	return strings.Join(parts, " ")
}

// JSON renders the create-index body.
func (idx *IndexDefinition) JSON() ([]byte, error) {
	return json.Marshal(idx.Body())
}
