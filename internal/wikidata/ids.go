package wikidata

import (
	"encoding/json"
	"strings"
)

// DecodeDatavalue unwraps the {value: ...} envelope a snak's datavalue
// carries, returning the raw inner JSON. Exported for textify, which needs
// the same unwrapping to inspect arbitrary datatypes' inner shape.
func DecodeDatavalue(raw json.RawMessage) json.RawMessage { return decodeDatavalue(raw) }

// decodeDatavalue unwraps the {value: ...} envelope some datavalues carry,
// returning the raw inner JSON (tolerant of datavalues that are already bare).
func decodeDatavalue(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	var envelope struct {
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Value) > 0 {
		return envelope.Value
	}
	return raw
}

func decodeItemValue(raw json.RawMessage) (ItemOrPropertyValue, bool) {
	var v ItemOrPropertyValue
	inner := decodeDatavalue(raw)
	if len(inner) == 0 {
		return v, false
	}
	if err := json.Unmarshal(inner, &v); err != nil || v.ID == "" {
		return v, false
	}
	return v, true
}

func decodeQuantityValue(raw json.RawMessage) (QuantityValue, bool) {
	var v QuantityValue
	inner := decodeDatavalue(raw)
	if len(inner) == 0 {
		return v, false
	}
	if err := json.Unmarshal(inner, &v); err != nil {
		return v, false
	}
	return v, true
}

// quantityUnitID extracts the trailing QID from a quantity unit URI such as
// "http://www.wikidata.org/entity/Q11573"; "1" (dimensionless) yields "".
func quantityUnitID(unit string) string {
	if unit == "" || unit == "1" {
		return ""
	}
	parts := strings.Split(unit, "/")
	return parts[len(parts)-1]
}

// ExtractEntityIDs implements Stage A's per-entity identifier discovery:
// the entity itself, every claim property id, every wikibase-item/property
// value referenced (on mainsnaks and qualifiers), and every non-unity
// quantity unit id. Order is stable but callers must not rely on it; the
// store merges records by id with monotone-OR semantics.
func ExtractEntityIDs(e *Entity, lang string) []IDRecord {
	out := make([]IDRecord, 0, 4)
	out = append(out, IDRecord{
		ID:          e.ID,
		InWikipedia: InWikipedia(e, lang),
		IsProperty:  e.Type == "property",
	})
	visitSnak := func(pid string, s RawSnak) {
		switch s.Datatype {
		case "wikibase-item", "wikibase-property":
			if v, ok := decodeItemValue(s.Datavalue); ok {
				out = append(out, IDRecord{ID: v.ID, IsProperty: s.Datatype == "wikibase-property"})
			}
		case "quantity":
			if v, ok := decodeQuantityValue(s.Datavalue); ok {
				if uid := quantityUnitID(v.Unit); uid != "" {
					out = append(out, IDRecord{ID: uid})
				}
			}
		}
		_ = pid
	}
	for _, pid := range e.Claims.Keys() {
		claims, _ := e.Claims.Get(pid)
		out = append(out, IDRecord{ID: pid, IsProperty: true})
		for _, c := range claims {
			visitSnak(pid, c.Mainsnak)
			for _, qpid := range c.Qualifiers.Keys() {
				snaks, _ := c.Qualifiers.Get(qpid)
				out = append(out, IDRecord{ID: qpid, IsProperty: true})
				for _, s := range snaks {
					visitSnak(qpid, s)
				}
			}
		}
	}
	return out
}
