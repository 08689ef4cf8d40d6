package utz

import (
	"context"
)

// Serializer renders a subject's localized datetime fields for API output.
// The zero Format falls back to DefaultTimeFormat.
type Serializer struct {
	Acc    *Accessors
	Format string
}

// NewSerializer builds a Serializer over acc with the given render format.
func NewSerializer(acc *Accessors, format string) *Serializer {
	return &Serializer{Acc: acc, Format: format}
}

// Localize converts every registered datetime field of subject and returns
// them keyed by their localized attribute names, rendered in the configured
// format. Usable directly as a field transformer inside a response payload.
func (s *Serializer) Localize(ctx context.Context, subject any) (map[string]string, error) {
	format := s.Format
	if format == "" {
		format = DefaultTimeFormat
	}
	out := make(map[string]string, len(s.Acc.fields))
	for _, field := range s.Acc.fields {
		lt, err := s.Acc.Local(ctx, subject, field)
		if err != nil {
			return nil, err
		}
		out[s.Acc.AttributeName(field)] = lt.Render(format, s.Acc.reg.AwareStorage())
	}
	return out, nil
}
