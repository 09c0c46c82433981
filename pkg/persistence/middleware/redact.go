package middleware

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/aretw0/hpos-config/pkg/domain"
	"github.com/aretw0/hpos-config/pkg/ports"
)

// Mask replaces redacted values.
const Mask = "***"

// gotSuffix introduces the data value at the end of value mismatch messages.
const gotSuffix = ", got "

type redactMiddleware struct {
	next     ports.ReportStore
	patterns []*regexp.Regexp
}

// NewRedactMiddleware creates a middleware that masks the offending data value
// (Report.Got) of reports whose path matches one of the patterns. Messages
// that quote the value are re-rendered with the mask in its place.
func NewRedactMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redact pattern %q: %w", p, err)
		}
		patterns[i] = re
	}
	return func(next ports.ReportStore) ports.ReportStore {
		return &redactMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *redactMiddleware) Save(ctx context.Context, report *domain.Report) error {
	if report.Got == "" || !m.matches(report.Path) {
		return m.next.Save(ctx, report)
	}

	cloned := *report
	cloned.Got = Mask
	cloned.Message = redactMessage(report.Message, report.Got)
	return m.next.Save(ctx, &cloned)
}

// redactMessage removes got from msg. The matcher only ever appends the value
// as the final ", got <value>"; any other placement drops the whole message.
func redactMessage(msg, got string) string {
	if prefix, ok := strings.CutSuffix(msg, gotSuffix+got); ok {
		return prefix + gotSuffix + Mask
	}
	if strings.Contains(msg, got) {
		return Mask
	}
	return msg
}

func (m *redactMiddleware) matches(path string) bool {
	for _, p := range m.patterns {
		if p.MatchString(path) {
			return true
		}
	}
	return false
}

func (m *redactMiddleware) Load(ctx context.Context, id string) (*domain.Report, error) {
	return m.next.Load(ctx, id)
}

func (m *redactMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

func (m *redactMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
