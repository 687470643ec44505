package runtime

import (
	"testing"

	"github.com/estateflow/orchestrator/types"
	"github.com/stretchr/testify/assert"
)

func searchResults() map[string]types.Data {
	return map[string]types.Data{
		"t1_search": {
			"candidates": map[string]any{
				"ids": []any{"l1", "l2"},
			},
		},
	}
}

func TestResolvePayload(t *testing.T) {
	r := NewResolver("req-1", searchResults())

	resolved := r.ResolvePayload(types.Data{
		"listing_ids":   "{{t1_search.candidates.ids}}",
		"property_type": "plot",
		"max_price_inr": 8000000,
	})

	assert.Equal(t, []any{"l1", "l2"}, resolved["listing_ids"])
	assert.Equal(t, "plot", resolved["property_type"])
	assert.Equal(t, 8000000, resolved["max_price_inr"])
}

func TestResolvePayloadMissingField(t *testing.T) {
	r := NewResolver("req-1", searchResults())

	resolved := r.ResolvePayload(types.Data{
		"listing_ids": "{{t1_search.candidates.missing}}",
	})
	assert.Equal(t, "{{t1_search.candidates.missing}}", resolved["listing_ids"])
}

func TestResolvePayloadMissingTask(t *testing.T) {
	r := NewResolver("req-1", map[string]types.Data{})

	resolved := r.ResolvePayload(types.Data{
		"listing_ids": "{{t1_search.candidates.ids}}",
	})
	assert.Equal(t, "{{t1_search.candidates.ids}}", resolved["listing_ids"])
}

func TestResolvePayloadPathThroughNonMap(t *testing.T) {
	r := NewResolver("req-1", map[string]types.Data{
		"t1_search": {"count": 25},
	})

	// walking a field into a scalar fails closed
	resolved := r.ResolvePayload(types.Data{
		"v": "{{t1_search.count.nested}}",
	})
	assert.Equal(t, "{{t1_search.count.nested}}", resolved["v"])

	// while addressing the scalar itself succeeds
	resolved = r.ResolvePayload(types.Data{
		"v": "{{t1_search.count}}",
	})
	assert.Equal(t, 25, resolved["v"])
}

func TestResolvePayloadWholeResult(t *testing.T) {
	r := NewResolver("req-1", searchResults())

	resolved := r.ResolvePayload(types.Data{
		"search": "{{t1_search}}",
	})
	assert.Equal(t, map[string]any(searchResults()["t1_search"]), resolved["search"])
}

func TestResolvePayloadNonPlaceholderStrings(t *testing.T) {
	r := NewResolver("req-1", searchResults())

	// values missing either brace pair pass through unchanged
	resolved := r.ResolvePayload(types.Data{
		"a": "{{t1_search.candidates.ids",
		"b": "t1_search.candidates.ids}}",
		"c": "plain",
		"d": types.Data{"nested": "{{t1_search.candidates.ids}}"},
	})
	assert.Equal(t, "{{t1_search.candidates.ids", resolved["a"])
	assert.Equal(t, "t1_search.candidates.ids}}", resolved["b"])
	assert.Equal(t, "plain", resolved["c"])
	// nested maps are not scanned for embedded placeholders
	nested, _ := resolved.GetData("d")
	v, _ := nested.GetString("nested")
	assert.Equal(t, "{{t1_search.candidates.ids}}", v)
}
