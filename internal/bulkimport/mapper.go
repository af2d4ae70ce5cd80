package bulkimport

import (
	_ "embed"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Field is an import target on the project record.
type Field string

const (
	FieldName           Field = "name"
	FieldType           Field = "type"
	FieldStatus         Field = "status"
	FieldClient         Field = "client"
	FieldDepartments    Field = "departments"
	FieldSalesRep       Field = "sales_rep"
	FieldPM             Field = "pm"
	FieldContractAmount Field = "contract_amount"
	FieldStartDate      Field = "start_date"
	FieldEndDate        Field = "end_date"
	FieldDescription    Field = "description"
)

// Fields lists every target in matching priority order.
func Fields() []Field {
	return []Field{
		FieldName,
		FieldType,
		FieldStatus,
		FieldClient,
		FieldDepartments,
		FieldSalesRep,
		FieldPM,
		FieldContractAmount,
		FieldStartDate,
		FieldEndDate,
		FieldDescription,
	}
}

// Valid reports whether f is a known target.
func (f Field) Valid() bool {
	_, ok := aliasTable[f]
	return ok
}

// ColumnMapping assigns a source header to a target field. An empty Field
// leaves the column unmapped.
type ColumnMapping struct {
	Header string `json:"header"`
	Field  Field  `json:"field,omitempty"`
}

//go:embed aliases.yaml
var aliasesYAML []byte

var aliasTable = mustLoadAliases(aliasesYAML)

func mustLoadAliases(raw []byte) map[Field][]string {
	var parsed map[string][]string
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		panic(fmt.Sprintf("bulkimport: parse aliases: %v", err))
	}
	table := make(map[Field][]string, len(parsed))
	for key, aliases := range parsed {
		normalized := make([]string, 0, len(aliases))
		for _, alias := range aliases {
			if n := NormalizeHeader(alias); n != "" {
				normalized = append(normalized, n)
			}
		}
		table[Field(key)] = normalized
	}
	for _, f := range Fields() {
		if _, ok := table[f]; !ok {
			panic(fmt.Sprintf("bulkimport: no aliases for field %q", f))
		}
	}
	return table
}

const headerSeparators = "_-./():"

// NormalizeHeader lowercases s and strips whitespace and separator characters.
func NormalizeHeader(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsSpace(r) || strings.ContainsRune(headerSeparators, r) || r == '\uFEFF' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// AutoMap proposes a field for every header. Exact alias matches win over
// substring matches and each field is assigned at most once.
func AutoMap(headers []string) []ColumnMapping {
	result := make([]ColumnMapping, len(headers))
	used := make(map[Field]bool)
	normalized := make([]string, len(headers))
	for i, header := range headers {
		result[i].Header = header
		normalized[i] = NormalizeHeader(header)
	}

	for i, key := range normalized {
		if key == "" {
			continue
		}
		for _, field := range Fields() {
			if used[field] || !containsString(aliasTable[field], key) {
				continue
			}
			result[i].Field = field
			used[field] = true
			break
		}
	}

	for i, key := range normalized {
		if key == "" || result[i].Field != "" {
			continue
		}
		if field, ok := bestSubstringMatch(key, used); ok {
			result[i].Field = field
			used[field] = true
		}
	}
	return result
}

// Shortest aliases eligible for substring matching. Latin aliases need more
// letters than Hangul ones, otherwise "end" would claim "vendor".
const (
	minSubstringRunes      = 2
	minASCIISubstringRunes = 4
)

// bestSubstringMatch picks the field whose alias is the longest substring of
// key. Ties prefer an alias that ends key, then field order.
func bestSubstringMatch(key string, used map[Field]bool) (Field, bool) {
	var (
		best       Field
		bestLen    int
		bestSuffix bool
	)
	for _, field := range Fields() {
		if used[field] {
			continue
		}
		for _, alias := range aliasTable[field] {
			length := utf8.RuneCountInString(alias)
			if length < substringMinimum(alias) || !strings.Contains(key, alias) {
				continue
			}
			suffix := strings.HasSuffix(key, alias)
			if length > bestLen || (length == bestLen && suffix && !bestSuffix) {
				best, bestLen, bestSuffix = field, length, suffix
			}
		}
	}
	return best, bestLen > 0
}

func substringMinimum(alias string) int {
	for _, r := range alias {
		if r >= utf8.RuneSelf {
			return minSubstringRunes
		}
	}
	return minASCIISubstringRunes
}

// Lookup returns the header mapped to field, if any.
func Lookup(mapping []ColumnMapping, field Field) (string, bool) {
	for _, m := range mapping {
		if m.Field == field {
			return m.Header, true
		}
	}
	return "", false
}

// CheckMapping rejects unknown fields and fields assigned twice.
func CheckMapping(mapping []ColumnMapping) error {
	seen := make(map[Field]string)
	for _, m := range mapping {
		if m.Field == "" {
			continue
		}
		if !m.Field.Valid() {
			return fmt.Errorf("unknown field %q for column %q", m.Field, m.Header)
		}
		if prev, dup := seen[m.Field]; dup {
			return fmt.Errorf("field %q mapped to both %q and %q", m.Field, prev, m.Header)
		}
		seen[m.Field] = m.Header
	}
	return nil
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
