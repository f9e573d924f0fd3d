package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// formatEstimateReference constructs the reference string from components.
func formatEstimateReference(t time.Time, suffix string) string {
	return fmt.Sprintf("EST-%s-%s", t.Format("060102"), suffix)
}

// NewEstimateReference returns a reference number for a quote.
// Format: EST-{yymmdd}-{first 8 hex digits of a random UUID}
// Estimates are not stored, so uniqueness comes from the UUID rather than a
// per-day sequence.
func NewEstimateReference(now time.Time) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return formatEstimateReference(now, id[:8])
}
