package country

import (
	"strings"

	"go.uber.org/zap"

	"github.com/quakemap/quakemap-cli/internal/model"
)

type entry struct {
	name string // normalized
	code string
}

// Table maps normalized country names to economic country codes. Entries are
// kept in insertion order so that the substring fallback tie-break is
// deterministic: the first inserted entry that matches wins.
type Table struct {
	entries    []entry
	codeByName map[string]string
	nameByCode map[string]string
	aliases    map[string]string
}

// NewTable builds the alias table from the economic series. Records missing
// either name or code are skipped; on duplicate names the first occurrence
// wins. Extra alias overrides (may be nil) take precedence over the built-in
// alias dictionary.
func NewTable(records []model.EconomicRecord, overrides map[string]string) *Table {
	t := &Table{
		codeByName: make(map[string]string),
		nameByCode: make(map[string]string),
		aliases:    make(map[string]string, len(canonicalAliases)+len(overrides)),
	}
	for k, v := range canonicalAliases {
		t.aliases[k] = v
	}
	for k, v := range overrides {
		t.aliases[k] = v
	}

	for _, rec := range records {
		if rec.CountryName == "" || rec.CountryCode == "" {
			continue
		}
		name := Normalize(rec.CountryName)
		if name == "" {
			continue
		}
		if _, seen := t.codeByName[name]; seen {
			continue
		}
		t.codeByName[name] = rec.CountryCode
		t.entries = append(t.entries, entry{name: name, code: rec.CountryCode})
		if _, seen := t.nameByCode[rec.CountryCode]; !seen {
			t.nameByCode[rec.CountryCode] = name
		}
	}

	zap.L().Debug("country: alias table built", zap.Int("entries", len(t.entries)))
	return t
}

// Len returns the number of distinct names registered.
func (t *Table) Len() int { return len(t.entries) }

// NameFor returns the first-registered normalized name for a code.
func (t *Table) NameFor(code string) (string, bool) {
	name, ok := t.nameByCode[code]
	return name, ok
}

// Resolve maps a free-text country name to its economic country code.
// Steps: normalize, apply the alias dictionary, exact lookup, then
// bidirectional substring containment in insertion order. A miss means
// "no economic data for this name" and is not an error.
func (t *Table) Resolve(rawName string) (string, bool) {
	name := Normalize(rawName)
	if name == "" {
		return "", false
	}

	if canonical, ok := t.aliases[name]; ok {
		name = canonical
	}

	if code, ok := t.codeByName[name]; ok {
		return code, true
	}

	for _, e := range t.entries {
		if strings.Contains(e.name, name) || strings.Contains(name, e.name) {
			return e.code, true
		}
	}

	return "", false
}
