package textify

import (
	"context"
	"strings"
)

// QuantityToText renders a quantity value as "<amount>" or "<amount> <unit
// label>"; a unit of "1" (dimensionless) or "" is omitted entirely.
func QuantityToText(ctx context.Context, amount, unit string, lookup LabelLookup) string {
	if unit == "" || unit == "1" {
		return amount
	}
	parts := strings.Split(unit, "/")
	unitID := parts[len(parts)-1]
	label, ok, err := lookup.Label(ctx, unitID)
	if err != nil || !ok || label == "" {
		return amount
	}
	return amount + " " + label
}
