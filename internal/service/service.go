// Package service holds the storefront and back-office business rules.
package service

import (
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/KartikVerma96/paregrose/pkg/errors"
)

// normalizeIDs parses ids as UUIDs and returns their canonical lower-case
// form, preserving order.
func normalizeIDs(ids []string) ([]string, error) {
	out := make([]string, len(ids))
	for i, id := range ids {
		parsed, err := uuid.Parse(strings.TrimSpace(id))
		if err != nil {
			return nil, apperrors.InvalidInput("invalid id: " + id)
		}
		out[i] = parsed.String()
	}
	return out, nil
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
