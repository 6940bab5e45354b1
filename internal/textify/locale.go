// Package textify renders a projected wikidata.LangEntity into the prose
// passed to the embedder, following the locale-pluggable design of the
// original textifier: layout (merge order, punctuation, qualifier
// formatting) is owned by a LocalePack, one per target language.
package textify

// TimeVariables supplies the locale-specific words a time value's rendering
// is built from: month names, era markers, and unit names for each of the
// coarse time precisions below month granularity.
type TimeVariables struct {
	Months                 [12]string
	Century                string
	Millennium             string
	DecadeSuffix           string
	AD                     string
	BC                     string
	TenThousandYears       string
	HundredThousandYears   string
	MillionYears           string
	TensOfMillionsOfYears  string
	HundredMillionYears    string
	BillionYears           string
}

// LocalePack is everything Textifier needs from a target language: how to
// say "no value", how time units are named, and how to assemble the final
// prose from an entity's label/description/aliases/properties.
type LocalePack interface {
	// NoValue is the text substituted for a snak whose snaktype isn't
	// "value" (Wikidata's explicit "no value" / "unknown value" snaks).
	NoValue() string
	Time() TimeVariables
	// MergeEntityText assembles the final chunk/document text.
	MergeEntityText(label, description string, aliases []string, properties []PropertyEntry) string
	// QualifiersToText renders one claim's qualifiers inline.
	QualifiersToText(qualifiers []LabeledValue) string
}

// LabeledValue is a qualifier or property, resolved to its display label,
// paired with its rendered values. Order is the dump's property encounter
// order, not resolved-label order.
type LabeledValue struct {
	Label  string
	Values []string
}

// PropertyClaim is one claim's rendered value plus its qualifiers.
type PropertyClaim struct {
	Value      string
	Qualifiers []LabeledValue
}

// PropertyEntry is one property's full set of kept claims, keyed by its
// resolved label. A property with zero Claims after rank/value filtering is
// still rendered, as "has <label>" with no value.
type PropertyEntry struct {
	Label  string
	Claims []PropertyClaim
}
