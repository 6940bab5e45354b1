package textify

import (
	"context"

	"wikidump/internal/wikidata"
)

// Textifier turns a projected LangEntity into the prose text chunked and
// embedded downstream. It is stateless apart from its LabelLookup, which is
// expected to be a thin, cached read against the language store.
type Textifier struct {
	Lang   string
	Pack   LocalePack
	Lookup LabelLookup

	// DescriptionFallbackToInstanceOf controls Open Question resolution:
	// when an entity has no description in Lang, fall back to its
	// rendered "instance of" (P31) value. Defaults to true.
	DescriptionFallbackToInstanceOf bool
}

// NewTextifier builds a Textifier with DescriptionFallbackToInstanceOf on.
func NewTextifier(lang string, pack LocalePack, lookup LabelLookup) *Textifier {
	return &Textifier{Lang: lang, Pack: pack, Lookup: lookup, DescriptionFallbackToInstanceOf: true}
}

// EntityToText renders e. If properties is nil, it is derived from
// e.Claims via PropertiesToDict; pass a non-nil (possibly empty) slice to
// override it, as chunk.go does to probe the label/description's size
// alone.
func (t *Textifier) EntityToText(ctx context.Context, e wikidata.LangEntity, properties []PropertyEntry) (string, error) {
	if properties == nil {
		var err error
		properties, err = PropertiesToDict(ctx, e.Claims, t.Lang, t.Pack, t.Lookup)
		if err != nil {
			return "", err
		}
	}

	description := e.Description
	if description == "" && t.DescriptionFallbackToInstanceOf {
		if instanceOfLabel, ok, err := t.Lookup.Label(ctx, "P31"); err == nil && ok {
			for _, p := range properties {
				if p.Label == instanceOfLabel && len(p.Claims) > 0 {
					description = p.Claims[0].Value
					break
				}
			}
		}
	}

	return t.Pack.MergeEntityText(e.Label, description, e.Aliases, properties), nil
}
