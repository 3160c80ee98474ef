package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	UnknownOpening         = "Unknown opening"
	similarQualifier       = " (similar)"
	generalFamilyQualifier = " (general family)"
)

type EcoEntry struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// EcoTable maps ECO codes to descriptions and remembers insertion order, which
// decides the winner of a prefix fallback.
type EcoTable struct {
	entries []EcoEntry
	index   map[string]int
}

// NewEcoTable builds a table in the given order. A repeated code keeps its first
// position and takes the later description.
func NewEcoTable(entries ...EcoEntry) *EcoTable {
	table := &EcoTable{index: make(map[string]int, len(entries))}
	for _, entry := range entries {
		table.add(entry.Code, entry.Description)
	}
	return table
}

func (t *EcoTable) add(code, description string) {
	if t.index == nil {
		t.index = make(map[string]int)
	}
	if i, ok := t.index[code]; ok {
		t.entries[i].Description = description
		return
	}
	t.index[code] = len(t.entries)
	t.entries = append(t.entries, EcoEntry{Code: code, Description: description})
}

func (t *EcoTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

func (t *EcoTable) Lookup(code string) (string, bool) {
	if t == nil {
		return "", false
	}
	i, ok := t.index[code]
	if !ok {
		return "", false
	}
	return t.entries[i].Description, true
}

func (t *EcoTable) Entries() []EcoEntry {
	if t == nil {
		return nil
	}
	entries := make([]EcoEntry, len(t.entries))
	copy(entries, t.entries)
	return entries
}

// Describe resolves a code: exact match, then the first entry sharing the first
// two characters, then the first entry sharing the first character.
func (t *EcoTable) Describe(code string) string {
	return t.describe(code, true)
}

// DescribeNearby stops after the two character match. Synchronous callers use it
// so a family-level guess never stands in for a table that is still loading.
func (t *EcoTable) DescribeNearby(code string) string {
	return t.describe(code, false)
}

func (t *EcoTable) describe(code string, family bool) string {
	normalized := NormalizeEcoCode(code)
	if normalized == "" || t.Len() == 0 {
		return UnknownOpening
	}

	if description, ok := t.Lookup(normalized); ok && description != "" {
		return description
	}

	runes := []rune(normalized)
	if len(runes) >= 2 {
		if entry, ok := t.firstWithPrefix(string(runes[:2])); ok {
			return entry.Description + similarQualifier
		}
	}

	if !family {
		return UnknownOpening
	}
	if entry, ok := t.firstWithPrefix(string(runes[:1])); ok {
		return entry.Description + generalFamilyQualifier
	}

	return UnknownOpening
}

// TODO: switch to longest-prefix matching once the product side confirms that
// "nearest" should not depend on table order.
func (t *EcoTable) firstWithPrefix(prefix string) (EcoEntry, bool) {
	for _, entry := range t.entries {
		if strings.HasPrefix(entry.Code, prefix) {
			return entry, true
		}
	}
	return EcoEntry{}, false
}

func NormalizeEcoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// MarshalJSON writes the table as a JSON object in table order.
func (t *EcoTable) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range t.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Code)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(entry.Description)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object of code -> description keeping document order.
func (t *EcoTable) UnmarshalJSON(data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(data))

	token, err := decoder.Token()
	if err != nil {
		return fmt.Errorf("failed to read eco table: %w", err)
	}
	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("eco table must be a JSON object, got %v", token)
	}

	*t = EcoTable{index: make(map[string]int)}
	for decoder.More() {
		keyToken, err := decoder.Token()
		if err != nil {
			return fmt.Errorf("failed to read eco code: %w", err)
		}
		code, ok := keyToken.(string)
		if !ok {
			return fmt.Errorf("unexpected eco code token %v", keyToken)
		}

		var description string
		if err := decoder.Decode(&description); err != nil {
			return fmt.Errorf("failed to read description for %s: %w", code, err)
		}
		t.add(code, description)
	}

	if _, err := decoder.Token(); err != nil {
		return fmt.Errorf("failed to close eco table: %w", err)
	}
	return nil
}
