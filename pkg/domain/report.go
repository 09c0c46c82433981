package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/aretw0/hpos-config/pkg/schema"
)

// Report records the outcome of validating one document.
// Reports are content addressed: the same bytes always produce the same ID.
type Report struct {
	ID        string    `json:"id"`
	Valid     bool      `json:"valid"`
	Kind      string    `json:"kind,omitempty"`
	Path      string    `json:"path,omitempty"`
	Message   string    `json:"message,omitempty"`
	Got       string    `json:"got,omitempty"` // Offending data value, rendered
	CheckedAt time.Time `json:"checked_at"`
}

// NewReport builds a report for doc from the result of a validation call.
// A nil err yields a valid report. Errors that are not *schema.Error keep
// their message with an empty Kind.
func NewReport(doc []byte, err error, now time.Time) *Report {
	r := &Report{
		ID:        DocumentID(doc),
		Valid:     err == nil,
		CheckedAt: now.UTC(),
	}
	if err == nil {
		return r
	}

	r.Message = err.Error()
	var verr *schema.Error
	if errors.As(err, &verr) {
		r.Kind = verr.Kind.String()
		r.Path = verr.Path.String()
		r.Got = verr.Got
	}
	return r
}

// DocumentID returns the hex sha256 digest of doc.
func DocumentID(doc []byte) string {
	sum := sha256.Sum256(doc)
	return hex.EncodeToString(sum[:])
}

// Result names the outcome for metrics and logs: "ok" or the error kind.
func (r *Report) Result() string {
	switch {
	case r.Valid:
		return "ok"
	case r.Kind != "":
		return r.Kind
	default:
		return "error"
	}
}
