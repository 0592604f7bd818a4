package configdomain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func record(name, rawValue string) Record {
	return Record{Name: name, Value: json.RawMessage(rawValue)}
}

func TestMerge_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		ambient  map[string]string
		records  []Record
		want     map[string]string
		applied  []string
		retained []string
	}{
		{
			name:    "plain string into empty environment",
			records: []Record{record("FOO", `"bar"`)},
			want:    map[string]string{"FOO": "bar"},
			applied: []string{"FOO"},
		},
		{
			name:    "mongodb settings stored as json text",
			records: []Record{record("MONGODB_SETTINGS", `{"host":"db","port":27017}`)},
			want:    map[string]string{"MONGODB_SETTINGS": `{"host": "db", "port": 27017}`},
			applied: []string{"MONGODB_SETTINGS"},
		},
		{
			name:    "debug panels list stored as json text",
			records: []Record{record("DEBUG_TB_PANELS", `["flask_debugtoolbar.panels.versions.VersionDebugPanel","flask_mongoengine.panels.MongoDebugPanel"]`)},
			want: map[string]string{
				"DEBUG_TB_PANELS": `["flask_debugtoolbar.panels.versions.VersionDebugPanel", "flask_mongoengine.panels.MongoDebugPanel"]`,
			},
			applied: []string{"DEBUG_TB_PANELS"},
		},
		{
			name:     "ambient value wins",
			ambient:  map[string]string{"FOO": "preset"},
			records:  []Record{record("FOO", `"new"`)},
			want:     map[string]string{"FOO": "preset"},
			retained: []string{"FOO"},
		},
		{
			name:     "ambient empty string still counts as set",
			ambient:  map[string]string{"FOO": ""},
			records:  []Record{record("FOO", `"new"`)},
			want:     map[string]string{"FOO": ""},
			retained: []string{"FOO"},
		},
		{
			name:     "ambient composite value wins",
			ambient:  map[string]string{"MONGODB_SETTINGS": `{"host": "other"}`},
			records:  []Record{record("MONGODB_SETTINGS", `{"host":"db"}`)},
			want:     map[string]string{"MONGODB_SETTINGS": `{"host": "other"}`},
			retained: []string{"MONGODB_SETTINGS"},
		},
		{
			name:    "duplicate names resolve to the last value",
			records: []Record{record("FOO", `"first"`), record("BAR", `"x"`), record("FOO", `"last"`)},
			want:    map[string]string{"FOO": "last", "BAR": "x"},
			applied: []string{"FOO", "BAR"},
		},
		{
			name: "scalars become text",
			records: []Record{
				record("PORT", `5000`),
				record("RATIO", `0.25`),
				record("DEBUG", `true`),
				record("TESTING", `false`),
			},
			want:    map[string]string{"PORT": "5000", "RATIO": "0.25", "DEBUG": "true", "TESTING": "false"},
			applied: []string{"PORT", "RATIO", "DEBUG", "TESTING"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, report := Merge(NewEnvironment(tt.ambient), tt.records)

			assert.Equal(t, tt.want, got.Map())
			assert.Equal(t, tt.applied, report.Applied)
			assert.Equal(t, tt.retained, report.Retained)
			assert.Empty(t, report.Errors)
		})
	}
}

func TestMerge_NullValueIsReportedAndSkipped(t *testing.T) {
	records := []Record{
		record("FIRST", `"a"`),
		record("BROKEN", `null`),
		record("LAST", `"z"`),
	}

	got, report := Merge(NewEnvironment(nil), records)

	assert.Equal(t, map[string]string{"FIRST": "a", "LAST": "z"}, got.Map())
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "BROKEN", report.Errors[0].Key)
	assert.Equal(t, "null", report.Errors[0].Value)
	assert.True(t, errors.Is(report.Errors[0], ErrNullValue))
}

func TestMerge_NullValueForExistingKeyIsRetained(t *testing.T) {
	got, report := Merge(NewEnvironment(map[string]string{"BROKEN": "kept"}), []Record{record("BROKEN", `null`)})

	assert.Equal(t, "kept", got.Get("BROKEN"))
	assert.Equal(t, []string{"BROKEN"}, report.Retained)
	assert.Empty(t, report.Errors)
}

func TestMerge_DoesNotModifyExisting(t *testing.T) {
	existing := NewEnvironment(map[string]string{"KEEP": "1"})

	_, _ = Merge(existing, []Record{record("NEW", `"2"`)})

	assert.False(t, existing.Has("NEW"))
	assert.Equal(t, 1, existing.Len())
}

func TestFold_KeepsFirstPositionAndLastValue(t *testing.T) {
	folded := Fold([]Record{
		record("A", `1`),
		record("B", `2`),
		record("A", `3`),
		record("C", `4`),
		record("B", `5`),
	})

	require.Len(t, folded, 3)
	assert.Equal(t, "A", folded[0].Name)
	assert.JSONEq(t, `3`, string(folded[0].Value))
	assert.Equal(t, "B", folded[1].Name)
	assert.JSONEq(t, `5`, string(folded[1].Value))
	assert.Equal(t, "C", folded[2].Name)
}

var (
	keyGen   = rapid.StringMatching(`K_[A-Z][A-Z0-9_]{0,10}`)
	valueGen = rapid.StringMatching(`[a-zA-Z0-9 ./:_@-]{0,24}`)
)

func genRecords(t *rapid.T) ([]Record, map[string]string) {
	keys := rapid.SliceOfNDistinct(keyGen, 0, 20, func(s string) string { return s }).Draw(t, "keys")
	records := make([]Record, 0, len(keys))
	want := make(map[string]string, len(keys))
	for _, k := range keys {
		v := valueGen.Draw(t, "value")
		raw, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal %q: %v", v, err)
		}
		records = append(records, Record{Name: k, Value: raw})
		want[k] = v
	}
	return records, want
}

func TestMerge_Property_PopulatesExactlyNKeys(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		records, want := genRecords(t)
		ambient := NewEnvironment(map[string]string{"PATH": "/usr/bin", "HOME": "/root"})

		got, report := Merge(ambient, records)

		assert.Equal(t, ambient.Len()+len(records), got.Len())
		assert.Len(t, report.Applied, len(records))
		for k, v := range want {
			assert.Equal(t, v, got.Get(k))
		}
	})
}

func TestMerge_Property_Idempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		records, _ := genRecords(t)

		once, _ := Merge(NewEnvironment(nil), records)
		twice, report := Merge(once, records)

		assert.Equal(t, once.Map(), twice.Map())
		assert.Empty(t, report.Applied)
		assert.Empty(t, report.Errors)
		assert.Len(t, report.Retained, len(records))
	})
}

func TestMerge_Property_AmbientKeysUnchanged(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		records, _ := genRecords(t)
		ambient := make(map[string]string)
		for _, r := range records {
			if rapid.Bool().Draw(t, "preset") {
				ambient[r.Name] = valueGen.Draw(t, "ambient")
			}
		}

		got, _ := Merge(NewEnvironment(ambient), records)

		for k, v := range ambient {
			assert.Equal(t, v, got.Get(k), "ambient key %s was overwritten", k)
		}
	})
}

func TestMerge_Property_CompositeKeysHoldJSON(t *testing.T) {
	payloadGen := rapid.OneOf(
		rapid.Map(rapid.MapOf(rapid.StringMatching(`[a-z]{1,8}`), rapid.IntRange(-1000, 1000)), func(m map[string]int) any { return m }),
		rapid.Map(rapid.SliceOf(valueGen), func(s []string) any { return s }),
		rapid.Map(valueGen, func(s string) any { return s }),
		rapid.Map(rapid.IntRange(-1e6, 1e6), func(i int) any { return i }),
		rapid.Map(rapid.Bool(), func(b bool) any { return b }),
	)

	rapid.Check(t, func(t *rapid.T) {
		key := rapid.SampledFrom([]string{MongoDBSettingsKey, DebugPanelsKey}).Draw(t, "key")
		payload := payloadGen.Draw(t, "payload")
		raw, err := json.Marshal(payload)
		require.NoError(t, err)

		got, _ := Merge(NewEnvironment(nil), []Record{{Name: key, Value: raw}})

		stored, ok := got.Lookup(key)
		require.True(t, ok)
		assert.JSONEq(t, string(raw), stored)

		want, err := Serialize(raw)
		require.NoError(t, err)
		assert.Equal(t, want, stored)
	})
}
