package textify

import (
	"context"
	"encoding/json"

	"wikidump/internal/wikidata"
)

// SnakKind tags how a rendered snak value should affect its enclosing
// property: Missing from an external-id drops the whole property (all its
// claims), Missing from an unresolved item/property reference drops only
// that claim (or that qualifier), Empty drops only this one value, Rendered
// carries display text. This replaces the
// null/''/string triad the original textifier overloads onto one return
// value.
type SnakKind int

const (
	SnakMissing SnakKind = iota
	SnakEmpty
	SnakRendered
)

type SnakValue struct {
	Kind SnakKind
	Text string
}

// LabelLookup resolves an id (QID or PID) to its display label in the
// textifier's target language. Implemented by the language store.
type LabelLookup interface {
	Label(ctx context.Context, id string) (label string, ok bool, err error)
}

// MainsnakToValue renders a single snak's value, dispatching on datatype.
// It mirrors mainsnak_to_value: a non-"value" snaktype or an empty
// datavalue renders the locale's "no value" text; a monolingual value in
// the wrong language is dropped (Empty); an item/property reference that
// fails to resolve a label is Missing, which PropertiesToDict applies to
// that claim alone; an external-id is Missing, which drops the whole
// property; a time that fails to parse renders its raw time string;
// unhandled datatypes (url, commonsMedia, globe-coordinate, ...) drop just
// this value.
func MainsnakToValue(ctx context.Context, s wikidata.Snak, lang string, pack LocalePack, lookup LabelLookup) (SnakValue, error) {
	if (s.Snaktype != "" && s.Snaktype != "value") || len(s.Datavalue) == 0 {
		return SnakValue{Kind: SnakRendered, Text: pack.NoValue()}, nil
	}

	inner := wikidata.DecodeDatavalue(s.Datavalue)
	if len(inner) == 0 {
		return SnakValue{Kind: SnakRendered, Text: pack.NoValue()}, nil
	}

	var rawObj map[string]json.RawMessage
	if json.Unmarshal(inner, &rawObj) == nil {
		if languageRaw, ok := rawObj["language"]; ok {
			var language string
			_ = json.Unmarshal(languageRaw, &language)
			if language != lang {
				return SnakValue{Kind: SnakEmpty}, nil
			}
		}
	}

	switch s.Datatype {
	case "wikibase-item", "wikibase-property":
		var v wikidata.ItemOrPropertyValue
		if err := json.Unmarshal(inner, &v); err != nil || v.ID == "" {
			return SnakValue{Kind: SnakEmpty}, nil
		}
		label, ok, err := lookup.Label(ctx, v.ID)
		if err != nil {
			return SnakValue{}, err
		}
		if !ok || label == "" {
			return SnakValue{Kind: SnakMissing}, nil
		}
		return SnakValue{Kind: SnakRendered, Text: label}, nil

	case "monolingualtext":
		var v wikidata.MonolingualValue
		if err := json.Unmarshal(inner, &v); err != nil {
			return SnakValue{Kind: SnakEmpty}, nil
		}
		return SnakValue{Kind: SnakRendered, Text: v.Text}, nil

	case "string":
		var v string
		if err := json.Unmarshal(inner, &v); err != nil {
			return SnakValue{Kind: SnakEmpty}, nil
		}
		return SnakValue{Kind: SnakRendered, Text: v}, nil

	case "time":
		var v wikidata.TimeValue
		if err := json.Unmarshal(inner, &v); err != nil {
			return SnakValue{Kind: SnakEmpty}, nil
		}
		text, err := TimeToText(v.Time, v.Precision, v.CalendarModel, pack.Time())
		if err != nil {
			return SnakValue{Kind: SnakRendered, Text: v.Time}, nil
		}
		return SnakValue{Kind: SnakRendered, Text: text}, nil

	case "quantity":
		var v wikidata.QuantityValue
		if err := json.Unmarshal(inner, &v); err != nil {
			return SnakValue{Kind: SnakEmpty}, nil
		}
		return SnakValue{Kind: SnakRendered, Text: QuantityToText(ctx, v.Amount, v.Unit, lookup)}, nil

	case "external-id":
		return SnakValue{Kind: SnakMissing}, nil

	default:
		return SnakValue{Kind: SnakEmpty}, nil
	}
}
