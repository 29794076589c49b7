package layering

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeLayersStrongestWins(t *testing.T) {
	user := map[string]string{"Key:Title": "Hi"}
	tenant := map[string]string{"Key:Title": "Hello", "Key:Empty": ""}
	system := map[string]string{"Key:Title": "Greetings", "Key:Empty": "fallback", "Key:Bye": "Goodbye"}

	merged := MergeLayers(user, tenant, system)

	assert.Equal(t, map[string]string{
		"Key:Title": "Hi",
		"Key:Empty": "",
		"Key:Bye":   "Goodbye",
	}, merged)

	merged["Key:Bye"] = "changed"
	assert.Equal(t, "Goodbye", system["Key:Bye"])
}

func TestMergeLayersZeroInput(t *testing.T) {
	assert.Empty(t, MergeLayers())
	assert.NotNil(t, MergeLayers())
}

func TestMergeRecordsOrigin(t *testing.T) {
	table, origin := Merge(
		Layer{Name: "tenant", Table: map[string]string{"a": "tenant-a"}},
		Layer{Name: "system", Table: map[string]string{"a": "system-a", "b": "system-b"}},
	)

	assert.Equal(t, map[string]string{"a": "tenant-a", "b": "system-b"}, table)
	assert.Equal(t, map[string]string{"a": "tenant", "b": "system"}, origin)
}

func TestShadowed(t *testing.T) {
	shadowed := Shadowed(
		Layer{Name: "user", Table: map[string]string{"a": "1"}},
		Layer{Name: "tenant", Table: map[string]string{"a": "2", "b": "2"}},
		Layer{Name: "system", Table: map[string]string{"a": "3", "b": "3", "c": "3"}},
	)

	assert.Equal(t, map[string][]string{
		"tenant": {"a"},
		"system": {"a", "b"},
	}, shadowed)
}
