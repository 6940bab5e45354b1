package wikidata

const MulLanguage = "mul"

// GetLabel resolves an entity's label for lang, falling back to the "mul"
// pseudo-language, then to the empty string.
func GetLabel(e *Entity, lang string) string {
	if v, ok := e.Labels[lang]; ok {
		return v.Value
	}
	if v, ok := e.Labels[MulLanguage]; ok {
		return v.Value
	}
	return ""
}

// GetDescription resolves an entity's description with the same fallback
// chain as GetLabel.
func GetDescription(e *Entity, lang string) string {
	if v, ok := e.Descriptions[lang]; ok {
		return v.Value
	}
	if v, ok := e.Descriptions[MulLanguage]; ok {
		return v.Value
	}
	return ""
}

// GetAliases unions the alias values for lang and "mul", deduplicating.
func GetAliases(e *Entity, lang string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	add := func(lv []LangValue) {
		for _, v := range lv {
			if _, ok := seen[v.Value]; ok {
				continue
			}
			seen[v.Value] = struct{}{}
			out = append(out, v.Value)
		}
	}
	add(e.Aliases[lang])
	if lang != MulLanguage {
		add(e.Aliases[MulLanguage])
	}
	return out
}

// InWikipedia is the sitelink + label + description predicate from §3: true
// iff the entity has a "<lang>wiki" sitelink and a non-empty label and
// description resolvable in lang or "mul".
func InWikipedia(e *Entity, lang string) bool {
	if _, ok := e.Sitelinks[lang+"wiki"]; !ok {
		return false
	}
	return GetLabel(e, lang) != "" && GetDescription(e, lang) != ""
}

// CleanClaims converts raw dump claims into the stored Claim shape: claims
// whose type is not "statement" or whose rank is "deprecated" are dropped;
// the remaining bookkeeping keys (hash, property, numeric-id,
// qualifiers-order) are never carried because RawClaim/RawSnak don't model
// them in the first place.
func CleanClaims(raw RawClaimsMap) ClaimsMap {
	out := NewClaimsMap()
	for _, pid := range raw.Keys() {
		claims, _ := raw.Get(pid)
		cleaned := make([]Claim, 0, len(claims))
		for _, c := range claims {
			if c.Type != "" && c.Type != "statement" {
				continue
			}
			if c.Rank == "deprecated" {
				continue
			}
			var quals OrderedSnaks
			for _, qpid := range c.Qualifiers.Keys() {
				snaks, _ := c.Qualifiers.Get(qpid)
				qs := make([]RawSnak, 0, len(snaks))
				qs = append(qs, snaks...)
				quals.appendOrdered(qpid, qs)
			}
			rank := c.Rank
			if rank == "" {
				rank = "normal"
			}
			cleaned = append(cleaned, Claim{
				Mainsnak:   Snak{Snaktype: c.Mainsnak.Snaktype, Datatype: c.Mainsnak.Datatype, Datavalue: c.Mainsnak.Datavalue},
				Qualifiers: quals,
				Rank:       rank,
			})
		}
		if len(cleaned) > 0 {
			out.set(pid, cleaned)
		}
	}
	return out
}

// Project builds the per-language LangEntity for e, per §4.2 Stage B.
func Project(e *Entity, lang string) LangEntity {
	return LangEntity{
		ID:          e.ID,
		Label:       GetLabel(e, lang),
		Description: GetDescription(e, lang),
		Aliases:     GetAliases(e, lang),
		Claims:      CleanClaims(e.Claims),
	}
}
