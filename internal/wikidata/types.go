// Package wikidata defines the subset of the Wikidata JSON entity shape this
// pipeline consumes, plus the pure functions used to classify and clean raw
// dump entities before they are projected into a target language.
package wikidata

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// LangValue is the {language, value} shape used for labels and descriptions.
type LangValue struct {
	Language string `json:"language"`
	Value    string `json:"value"`
}

// Entity is the subset of a raw Wikidata dump entity this pipeline reads.
type Entity struct {
	ID           string                     `json:"id"`
	Type         string                     `json:"type,omitempty"`
	Labels       map[string]LangValue       `json:"labels"`
	Descriptions map[string]LangValue       `json:"descriptions"`
	Aliases      map[string][]LangValue     `json:"aliases"`
	Sitelinks    map[string]json.RawMessage `json:"sitelinks"`
	Claims       RawClaimsMap               `json:"claims"`
}

// RawClaim is a claim as it appears in the dump, before bookkeeping keys are
// stripped by CleanClaims (see normalize.go).
type RawClaim struct {
	Type       string               `json:"type"`
	Mainsnak   RawSnak              `json:"mainsnak"`
	Qualifiers OrderedSnaks         `json:"qualifiers,omitempty"`
	Rank       string               `json:"rank"`
}

// RawSnak is a snak as it appears in the dump.
type RawSnak struct {
	Snaktype  string          `json:"snaktype"`
	Property  string          `json:"property,omitempty"`
	Datatype  string          `json:"datatype,omitempty"`
	Datavalue json.RawMessage `json:"datavalue,omitempty"`
}

// Claim and Snak are the cleaned, stored shapes (bookkeeping keys removed,
// deprecated ranks dropped). They round-trip through LangEntity.Claims.
type Claim struct {
	Mainsnak   Snak         `json:"mainsnak"`
	Qualifiers OrderedSnaks `json:"qualifiers,omitempty"`
	Rank       string       `json:"rank"`
}

type Snak struct {
	Snaktype  string          `json:"snaktype"`
	Datatype  string          `json:"datatype,omitempty"`
	Datavalue json.RawMessage `json:"datavalue,omitempty"`
}

// ItemOrPropertyValue is the decoded shape of a wikibase-item/wikibase-property datavalue.
type ItemOrPropertyValue struct {
	EntityType string `json:"entity-type"`
	ID         string `json:"id"`
	NumericID  int64  `json:"numeric-id"`
}

// MonolingualValue is the decoded shape of a monolingualtext datavalue.
type MonolingualValue struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// QuantityValue is the decoded shape of a quantity datavalue.
type QuantityValue struct {
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
}

// TimeValue is the decoded shape of a time datavalue.
type TimeValue struct {
	Time          string `json:"time"`
	Precision     int    `json:"precision"`
	CalendarModel string `json:"calendarmodel"`
}

// IDRecord mirrors the persisted IdStore row.
type IDRecord struct {
	ID          string
	InWikipedia bool
	IsProperty  bool
}

// LangEntity mirrors the persisted LangStore row: the per-language projection
// of an Entity, with claims cleaned of deprecated ranks and bookkeeping keys.
type LangEntity struct {
	ID          string
	Label       string
	Description string
	Aliases     []string
	Claims      ClaimsMap
}

// RawClaimsMap preserves the dump's property-id encounter order: Wikidata
// dumps are generated from an ordered map, and §4.3's "iterate claims in
// insertion order" depends on that order surviving JSON decode, which a
// plain Go map would discard.
type RawClaimsMap struct {
	order []string
	data  map[string][]RawClaim
}

func (m RawClaimsMap) Keys() []string                 { return m.order }
func (m RawClaimsMap) Get(pid string) ([]RawClaim, bool) { v, ok := m.data[pid]; return v, ok }
func (m RawClaimsMap) Len() int                        { return len(m.order) }

func (m *RawClaimsMap) UnmarshalJSON(b []byte) error {
	order, data, err := decodeOrderedClaims(b)
	if err != nil {
		return err
	}
	m.order, m.data = order, data
	return nil
}

func (m RawClaimsMap) MarshalJSON() ([]byte, error) {
	buf := bytes.NewBufferString("{")
	for i, pid := range m.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, _ := json.Marshal(pid)
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(m.data[pid])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func decodeOrderedClaims(b []byte) ([]string, map[string][]RawClaim, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("wikidata: expected claims object, got %v", tok)
	}
	order := make([]string, 0)
	data := make(map[string][]RawClaim)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("wikidata: expected string claim key, got %v", keyTok)
		}
		var claims []RawClaim
		if err := dec.Decode(&claims); err != nil {
			return nil, nil, err
		}
		if _, exists := data[key]; !exists {
			order = append(order, key)
		}
		data[key] = claims
	}
	if _, err := dec.Token(); err != nil { // consume closing '}'
		return nil, nil, err
	}
	return order, data, nil
}

// OrderedSnaks is the qualifier-map analogue of RawClaimsMap/ClaimsMap: a
// property-id-keyed map of snak lists that preserves encounter order.
type OrderedSnaks struct {
	order []string
	data  map[string][]RawSnak
}

func (m *OrderedSnaks) appendOrdered(pid string, snaks []RawSnak) {
	if m.data == nil {
		m.data = map[string][]RawSnak{}
	}
	if _, exists := m.data[pid]; !exists {
		m.order = append(m.order, pid)
	}
	m.data[pid] = snaks
}

func (m OrderedSnaks) Keys() []string                  { return m.order }
func (m OrderedSnaks) Get(pid string) ([]RawSnak, bool) { v, ok := m.data[pid]; return v, ok }
func (m OrderedSnaks) Len() int                         { return len(m.order) }

func (m *OrderedSnaks) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("wikidata: expected qualifiers object, got %v", tok)
	}
	order := make([]string, 0)
	data := make(map[string][]RawSnak)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("wikidata: expected string qualifier key, got %v", keyTok)
		}
		var snaks []RawSnak
		if err := dec.Decode(&snaks); err != nil {
			return err
		}
		if _, exists := data[key]; !exists {
			order = append(order, key)
		}
		data[key] = snaks
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	m.order, m.data = order, data
	return nil
}

func (m OrderedSnaks) MarshalJSON() ([]byte, error) {
	if m.data == nil {
		return []byte("{}"), nil
	}
	buf := bytes.NewBufferString("{")
	for i, pid := range m.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, _ := json.Marshal(pid)
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(m.data[pid])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ClaimsMap is the cleaned counterpart of RawClaimsMap, produced by
// CleanClaims and stored on LangEntity.
type ClaimsMap struct {
	order []string
	data  map[string][]Claim
}

func NewClaimsMap() ClaimsMap { return ClaimsMap{data: map[string][]Claim{}} }

func (m ClaimsMap) Keys() []string                { return m.order }
func (m ClaimsMap) Get(pid string) ([]Claim, bool) { v, ok := m.data[pid]; return v, ok }
func (m ClaimsMap) Len() int                       { return len(m.order) }

func (m *ClaimsMap) set(pid string, claims []Claim) {
	if m.data == nil {
		m.data = map[string][]Claim{}
	}
	if _, exists := m.data[pid]; !exists {
		m.order = append(m.order, pid)
	}
	m.data[pid] = claims
}

func (m ClaimsMap) MarshalJSON() ([]byte, error) {
	buf := bytes.NewBufferString("{")
	for i, pid := range m.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, _ := json.Marshal(pid)
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(m.data[pid])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (m *ClaimsMap) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("wikidata: expected claims object, got %v", tok)
	}
	*m = NewClaimsMap()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("wikidata: expected string claim key, got %v", keyTok)
		}
		var claims []Claim
		if err := dec.Decode(&claims); err != nil {
			return err
		}
		m.set(key, claims)
	}
	_, err = dec.Token()
	return err
}
