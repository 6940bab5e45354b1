package wikidata

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInWikipedia_S1(t *testing.T) {
	e := &Entity{
		ID:           "Q1",
		Labels:       map[string]LangValue{"en": {Language: "en", Value: "Universe"}},
		Descriptions: map[string]LangValue{"en": {Language: "en", Value: "totality of space and time"}},
		Sitelinks:    map[string]json.RawMessage{"enwiki": json.RawMessage(`{}`)},
	}
	require.True(t, InWikipedia(e, "en"))

	recs := ExtractEntityIDs(e, "en")
	require.Len(t, recs, 1)
	require.Equal(t, IDRecord{ID: "Q1", InWikipedia: true, IsProperty: false}, recs[0])
}

func TestInWikipedia_S2(t *testing.T) {
	e := &Entity{ID: "Q2"}
	require.False(t, InWikipedia(e, "en"))
	recs := ExtractEntityIDs(e, "en")
	require.Len(t, recs, 1)
	require.False(t, recs[0].InWikipedia)
	require.False(t, recs[0].IsProperty)
}

func TestExtractEntityIDs_ReferencedIDs(t *testing.T) {
	raw := []byte(`{
		"id": "Q5",
		"claims": {
			"P31": [{
				"type": "statement",
				"rank": "normal",
				"mainsnak": {
					"snaktype": "value", "datatype": "wikibase-item",
					"datavalue": {"value":{"entity-type":"item","id":"Q999"}}
				},
				"qualifiers": {
					"P580": [{"snaktype": "value", "datatype": "quantity", "datavalue": {"value":{"amount":"+5","unit":"http://www.wikidata.org/entity/Q11573"}}}]
				}
			}]
		}
	}`)
	var e Entity
	require.NoError(t, json.Unmarshal(raw, &e))
	recs := ExtractEntityIDs(&e, "en")
	ids := map[string]bool{}
	for _, r := range recs {
		ids[r.ID] = true
	}
	require.True(t, ids["Q5"])
	require.True(t, ids["P31"])
	require.True(t, ids["Q999"])
	require.True(t, ids["P580"])
	require.True(t, ids["Q11573"])
}

func TestProject_DropsDeprecatedKeepsClean(t *testing.T) {
	raw := []byte(`{
		"id": "Q1",
		"labels": {"mul": {"language":"mul","value":"Thing"}},
		"claims": {
			"P31": [
				{"type":"statement","rank":"deprecated","mainsnak":{"snaktype":"value","datatype":"string","datavalue":{"value":"x"}}},
				{"type":"statement","rank":"normal","mainsnak":{"snaktype":"value","datatype":"string","datavalue":{"value":"y"}}}
			]
		}
	}`)
	var e Entity
	require.NoError(t, json.Unmarshal(raw, &e))
	le := Project(&e, "en")
	require.Equal(t, "Thing", le.Label)
	claims, ok := le.Claims.Get("P31")
	require.True(t, ok)
	require.Len(t, claims, 1)
	require.Equal(t, "normal", claims[0].Rank)
}
