package models

import (
	"encoding/json"
	"fmt"
)

// SettingsInclusionKey is the key of the inclusion settings inside
// User.Settings.
const SettingsInclusionKey = "inclusionSettings"

// InclusionSettings controls which asset types and transaction categories
// count towards statistics. Anything not explicitly set to false is
// included.
type InclusionSettings struct {
	Assets       map[string]bool                     `json:"assets"`
	Transactions map[TransactionType]map[string]bool `json:"transactions"`
}

func (s InclusionSettings) IncludesAsset(assetType string) bool {
	v, ok := s.Assets[assetType]
	return !ok || v
}

func (s InclusionSettings) IncludesTransaction(t TransactionType, category string) bool {
	v, ok := s.Transactions[t][category]
	return !ok || v
}

// SetAsset records an explicit flag for assetType.
func (s *InclusionSettings) SetAsset(assetType string, included bool) {
	if s.Assets == nil {
		s.Assets = map[string]bool{}
	}
	s.Assets[assetType] = included
}

// SetTransaction records an explicit flag for a (type, category) pair.
func (s *InclusionSettings) SetTransaction(t TransactionType, category string, included bool) {
	if s.Transactions == nil {
		s.Transactions = map[TransactionType]map[string]bool{}
	}
	if s.Transactions[t] == nil {
		s.Transactions[t] = map[string]bool{}
	}
	s.Transactions[t][category] = included
}

// Inclusion decodes the inclusion settings stored in settings. Missing or
// malformed entries yield an empty value, which includes everything.
func (m JSONMap) Inclusion() InclusionSettings {
	s, err := m.ParseInclusion()
	if err != nil {
		return InclusionSettings{}
	}
	return s
}

// ParseInclusion is Inclusion with decoding errors reported. A leaf that
// is not a boolean is an error.
func (m JSONMap) ParseInclusion() (InclusionSettings, error) {
	var s InclusionSettings
	raw, ok := m[SettingsInclusionKey]
	if !ok || raw == nil {
		return s, nil
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return InclusionSettings{}, fmt.Errorf("%s: %w", SettingsInclusionKey, err)
	}
	if err := json.Unmarshal(b, &s); err != nil {
		return InclusionSettings{}, fmt.Errorf("%s: %w", SettingsInclusionKey, err)
	}
	return s, nil
}

// WithInclusion returns a copy of m with the inclusion settings replaced.
// The value is stored in its generic JSON form so it compares equal after a
// database round trip.
func (m JSONMap) WithInclusion(s InclusionSettings) JSONMap {
	out := m.Clone()
	b, err := json.Marshal(s)
	if err != nil {
		return out
	}
	var generic map[string]any
	if err := json.Unmarshal(b, &generic); err != nil {
		return out
	}
	out[SettingsInclusionKey] = generic
	return out
}

// Merge returns a copy of m with every top-level key of other written over
// it.
func (m JSONMap) Merge(other JSONMap) JSONMap {
	out := m.Clone()
	for k, v := range other {
		out[k] = v
	}
	return out
}
