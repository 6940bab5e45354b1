package textify

import (
	"context"
	"strings"

	"wikidump/internal/wikidata"
)

// QualifiersToDict renders one claim's qualifiers into label->values pairs,
// in the dump's qualifier-id encounter order. A qualifier where any snak
// resolves Missing is dropped entirely (mirrors Python's q_data = None);
// one that resolves Empty for some snaks just omits those (possibly
// leaving Values empty, which en.QualifiersToText renders as "(has X)").
func QualifiersToDict(ctx context.Context, quals wikidata.OrderedSnaks, lang string, pack LocalePack, lookup LabelLookup) ([]LabeledValue, error) {
	out := make([]LabeledValue, 0, quals.Len())
	for _, pid := range quals.Keys() {
		snaks, _ := quals.Get(pid)
		values := make([]string, 0, len(snaks))
		dropped := false
		for _, s := range snaks {
			sv, err := MainsnakToValue(ctx, s, lang, pack, lookup)
			if err != nil {
				return nil, err
			}
			if sv.Kind == SnakMissing {
				dropped = true
				break
			}
			if sv.Kind == SnakRendered && sv.Text != "" {
				values = append(values, sv.Text)
			}
		}
		if dropped {
			continue
		}
		label, ok, err := lookup.Label(ctx, pid)
		if err != nil {
			return nil, err
		}
		if !ok || label == "" {
			continue
		}
		out = append(out, LabeledValue{Label: label, Values: values})
	}
	return out, nil
}

// PropertiesToDict is Stage C's §4.3 rank-selection and rendering pass: for
// each property, in claims encounter order, it keeps preferred-rank claims
// if any exist, else normal-rank claims, and renders each via
// MainsnakToValue. A claim whose item/property reference resolves Missing
// is skipped while its siblings are kept; any other Missing value (an
// external-id) drops the whole property. A property with zero surviving
// claims (all Empty or unresolved) is still emitted, with no Claims,
// rendered as "has <label>".
func PropertiesToDict(ctx context.Context, claims wikidata.ClaimsMap, lang string, pack LocalePack, lookup LabelLookup) ([]PropertyEntry, error) {
	out := make([]PropertyEntry, 0, claims.Len())
	for _, pid := range claims.Keys() {
		claimList, _ := claims.Get(pid)
		var propClaims []PropertyClaim
		rankPreferredFound := false
		dropped := false

		for _, c := range claimList {
			sv, err := MainsnakToValue(ctx, c.Mainsnak, lang, pack, lookup)
			if err != nil {
				return nil, err
			}
			if sv.Kind == SnakMissing {
				if c.Mainsnak.Datatype == "wikibase-item" || c.Mainsnak.Datatype == "wikibase-property" {
					continue // unresolved reference: only this claim contributes nothing
				}
				dropped = true
				break
			}
			if sv.Kind != SnakRendered || sv.Text == "" {
				continue // Empty, or rendered to an empty string: len(value) == 0, never kept
			}

			quals, err := QualifiersToDict(ctx, c.Qualifiers, lang, pack, lookup)
			if err != nil {
				return nil, err
			}

			rank := strings.ToLower(c.Rank)
			if rank == "" {
				rank = "normal"
			}
			if (!rankPreferredFound && rank == "normal") || rank == "preferred" {
				if !rankPreferredFound && rank == "preferred" {
					rankPreferredFound = true
					propClaims = nil
				}
				propClaims = append(propClaims, PropertyClaim{Value: sv.Text, Qualifiers: quals})
			}
		}

		if dropped {
			continue
		}
		label, ok, err := lookup.Label(ctx, pid)
		if err != nil {
			return nil, err
		}
		if !ok || label == "" {
			continue
		}
		out = append(out, PropertyEntry{Label: label, Claims: propClaims})
	}
	return out, nil
}
