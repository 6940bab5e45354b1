package textify

import "strings"

// EnglishPack is the "en" LocalePack, grounded on the original
// language_variables/en.py module: merge_entity_text, qualifiers_to_text
// and the month/era vocabulary used by time.go's rendering.
type EnglishPack struct{}

func (EnglishPack) NoValue() string { return "no value" }

func (EnglishPack) Time() TimeVariables {
	return TimeVariables{
		Months: [12]string{
			"Jan", "Feb", "Mar", "Apr", "May", "Jun",
			"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
		},
		Century:               "th century",
		Millennium:            "th millennium",
		DecadeSuffix:          "s",
		AD:                    "AD",
		BC:                    "BC",
		TenThousandYears:      "ten thousand years",
		HundredThousandYears:  "hundred thousand years",
		MillionYears:          "million years",
		TensOfMillionsOfYears: "tens of millions of years",
		HundredMillionYears:   "hundred million years",
		BillionYears:          "billion years",
	}
}

func (p EnglishPack) MergeEntityText(label, description string, aliases []string, properties []PropertyEntry) string {
	var b strings.Builder
	b.WriteString(label)
	b.WriteString(", ")
	b.WriteString(description)

	if len(aliases) > 0 {
		b.WriteString(", also known as ")
		b.WriteString(strings.Join(aliases, ", "))
	}

	if len(properties) > 0 {
		b.WriteString(". Attributes include: ")
		b.WriteString(propertiesToText(p, properties))
	} else {
		b.WriteString(".")
	}
	return b.String()
}

func propertiesToText(p EnglishPack, properties []PropertyEntry) string {
	var b strings.Builder
	for _, prop := range properties {
		if len(prop.Claims) == 0 {
			b.WriteString("\n- has ")
			b.WriteString(prop.Label)
			continue
		}
		var values []string
		for _, c := range prop.Claims {
			text := c.Value
			if len(c.Qualifiers) > 0 {
				text += p.QualifiersToText(c.Qualifiers)
			}
			values = append(values, text)
		}
		b.WriteString("\n- ")
		b.WriteString(prop.Label)
		b.WriteString(`: "`)
		b.WriteString(strings.Join(values, ", "))
		b.WriteString(`"`)
	}
	return b.String()
}

func (EnglishPack) QualifiersToText(qualifiers []LabeledValue) string {
	var b strings.Builder
	for _, q := range qualifiers {
		if len(q.Values) > 0 {
			if b.Len() > 0 {
				b.WriteString(" ")
			}
			b.WriteString("(")
			b.WriteString(q.Label)
			b.WriteString(": ")
			b.WriteString(strings.Join(q.Values, ", "))
			b.WriteString(")")
		} else {
			b.WriteString("(has ")
			b.WriteString(q.Label)
			b.WriteString(")")
		}
	}
	if b.Len() > 0 {
		return " " + b.String()
	}
	return ""
}
