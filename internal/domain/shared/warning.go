package shared

import "fmt"

// WarningKind classifies a problem that was absorbed into a partial result
type WarningKind string

const (
	WarningMissingBuilding WarningKind = "missing_building"
	WarningMissingPrice    WarningKind = "missing_price"
	WarningInvalidRecord   WarningKind = "invalid_record"
	WarningInvalidOverride WarningKind = "invalid_override"

	WarningInvalidCatalogEntry WarningKind = "invalid_catalog_entry"
)

// Warning is surfaced next to a computation result instead of failing it
type Warning struct {
	Kind    WarningKind `json:"kind" yaml:"kind"`
	Subject string      `json:"subject" yaml:"subject"`
	Message string      `json:"message" yaml:"message"`
}

func NewWarning(kind WarningKind, subject, format string, args ...interface{}) Warning {
	return Warning{Kind: kind, Subject: subject, Message: fmt.Sprintf(format, args...)}
}

func (w Warning) String() string {
	return fmt.Sprintf("[%s] %s: %s", w.Kind, w.Subject, w.Message)
}
