package bulkimport

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/sebit-insight/internal/domain"
)

// DateLayout is the canonical date format produced by NormalizeDate.
const DateLayout = "2006-01-02"

var datePatterns = []struct {
	re     *regexp.Regexp
	layout string
}{
	{regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`), "2006-01-02"},
	{regexp.MustCompile(`^\d{4}/\d{2}/\d{2}$`), "2006/01/02"},
	{regexp.MustCompile(`^\d{4}\.\d{2}\.\d{2}$`), "2006.01.02"},
	{regexp.MustCompile(`^\d{8}$`), "20060102"},
}

// NormalizeDate converts YYYY-MM-DD, YYYY/MM/DD, YYYY.MM.DD or YYYYMMDD into
// YYYY-MM-DD. Anything else, including impossible calendar dates, is rejected.
func NormalizeDate(raw string) (string, bool) {
	value := strings.TrimSpace(raw)
	for _, p := range datePatterns {
		if !p.re.MatchString(value) {
			continue
		}
		parsed, err := time.Parse(p.layout, value)
		if err != nil {
			return "", false
		}
		return parsed.Format(DateLayout), true
	}
	return "", false
}

var (
	// ErrEmptyAmount is returned for blank amount cells.
	ErrEmptyAmount = errors.New("amount is empty")
	// ErrInvalidAmount is returned when the cell is not a number.
	ErrInvalidAmount = errors.New("amount is not a number")
	// ErrNegativeAmount is returned for amounts below zero.
	ErrNegativeAmount = errors.New("amount is negative")
)

var amountNoise = strings.NewReplacer("₩", "", "$", "", ",", "", "원", "", "KRW", "", "krw", "", " ", "", "\t", "", "\u00a0", "")

// ParseAmount parses a won amount after stripping currency symbols, unit
// suffixes and thousands separators. Fractions round to the nearest won.
func ParseAmount(raw string) (int64, error) {
	cleaned := amountNoise.Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return 0, ErrEmptyAmount
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if amount.IsNegative() {
		return 0, ErrNegativeAmount
	}
	return amount.Round(0).IntPart(), nil
}

var typeLabels = map[string]domain.ProjectType{
	"si":   domain.ProjectTypeSI,
	"sm":   domain.ProjectTypeSM,
	"구축":   domain.ProjectTypeSI,
	"si구축": domain.ProjectTypeSI,
	"유지보수": domain.ProjectTypeSM,
	"운영":   domain.ProjectTypeSM,
	"sm운영": domain.ProjectTypeSM,
}

// ParseProjectType maps SI/SM codes and Korean labels to a project type.
func ParseProjectType(raw string) (domain.ProjectType, bool) {
	t, ok := typeLabels[NormalizeHeader(raw)]
	return t, ok
}

var statusLabels = map[string]domain.ProjectStatus{
	"draft":             domain.ProjectStatusDraft,
	"active":            domain.ProjectStatusActive,
	"settlementpending": domain.ProjectStatusSettlementPending,
	"settled":           domain.ProjectStatusSettled,
	"onhold":            domain.ProjectStatusOnHold,
	"cancelled":         domain.ProjectStatusCancelled,
	"canceled":          domain.ProjectStatusCancelled,
	"초안":                domain.ProjectStatusDraft,
	"작성중":               domain.ProjectStatusDraft,
	"대기":                domain.ProjectStatusDraft,
	"진행":                domain.ProjectStatusActive,
	"진행중":               domain.ProjectStatusActive,
	"정산대기":              domain.ProjectStatusSettlementPending,
	"정산중":               domain.ProjectStatusSettlementPending,
	"정산완료":              domain.ProjectStatusSettled,
	"완료":                domain.ProjectStatusSettled,
	"보류":                domain.ProjectStatusOnHold,
	"중단":                domain.ProjectStatusOnHold,
	"취소":                domain.ProjectStatusCancelled,
}

// ParseProjectStatus maps status codes and Korean labels to a project status.
func ParseProjectStatus(raw string) (domain.ProjectStatus, bool) {
	s, ok := statusLabels[NormalizeHeader(raw)]
	return s, ok
}

// SplitList splits a multi-value cell on , ; / or | and drops blanks.
func SplitList(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == '/' || r == '|'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
