package fsadapter

import (
	"encoding/json"
	"testing"

	"github.com/jgivc/toolmanifest/internal/common"
	"github.com/stretchr/testify/require"
)

const validDescriptor = `{
  "id": "foo",
  "name": "Foo",
  "category": "hooks",
  "description": "Foo hook",
  "author": "someone",
  "version": "1.0.0",
  "tags": ["a", "b"],
  "files": {"main": "hook.sh"},
  "installation": {"targetDir": ".claude/hooks"}
}`

func decode(t *testing.T, src string) map[string]any {
	t.Helper()

	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(src), &raw))

	return raw
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name        string
		mutate      func(m map[string]any)
		expectField string
	}{
		{name: "valid"},
		{name: "empty tags", mutate: func(m map[string]any) { m["tags"] = []any{} }},
		{name: "null description counts as present", mutate: func(m map[string]any) { m["description"] = nil }},
		{name: "missing id", mutate: func(m map[string]any) { delete(m, "id") }, expectField: "id"},
		{name: "missing name", mutate: func(m map[string]any) { delete(m, "name") }, expectField: "name"},
		{name: "missing category", mutate: func(m map[string]any) { delete(m, "category") }, expectField: "category"},
		{name: "missing description", mutate: func(m map[string]any) { delete(m, "description") }, expectField: "description"},
		{name: "missing author", mutate: func(m map[string]any) { delete(m, "author") }, expectField: "author"},
		{name: "missing version", mutate: func(m map[string]any) { delete(m, "version") }, expectField: "version"},
		{name: "missing tags", mutate: func(m map[string]any) { delete(m, "tags") }, expectField: "tags"},
		{name: "missing files", mutate: func(m map[string]any) { delete(m, "files") }, expectField: "files"},
		{name: "missing installation", mutate: func(m map[string]any) { delete(m, "installation") }, expectField: "installation"},
		{name: "unknown category", mutate: func(m map[string]any) { m["category"] = "plugins" }, expectField: "category"},
		{name: "category wrong case", mutate: func(m map[string]any) { m["category"] = "Hooks" }, expectField: "category"},
		{name: "tags not array", mutate: func(m map[string]any) { m["tags"] = "a,b" }, expectField: "tags"},
		{name: "files not object", mutate: func(m map[string]any) { m["files"] = "hook.sh" }, expectField: "files.main"},
		{name: "empty main", mutate: func(m map[string]any) { m["files"] = map[string]any{"main": ""} }, expectField: "files.main"},
		{name: "missing main", mutate: func(m map[string]any) { m["files"] = map[string]any{} }, expectField: "files.main"},
		{name: "version without patch", mutate: func(m map[string]any) { m["version"] = "1.0" }, expectField: "version"},
		{name: "version with prerelease", mutate: func(m map[string]any) { m["version"] = "1.0.0-beta" }, expectField: "version"},
		{name: "version with v prefix", mutate: func(m map[string]any) { m["version"] = "v1.0.0" }, expectField: "version"},
		{name: "version not a string", mutate: func(m map[string]any) { m["version"] = 1.0 }, expectField: "version"},
		{name: "large version", mutate: func(m map[string]any) { m["version"] = "10.20.300" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			raw := decode(t, validDescriptor)
			if tc.mutate != nil {
				tc.mutate(raw)
			}

			err := Validate(raw)
			if tc.expectField == "" {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, common.ErrValidation)

			var verr *common.ValidationError
			require.ErrorAs(t, err, &verr)
			require.Equal(t, tc.expectField, verr.Field)
			require.Contains(t, err.Error(), tc.expectField)
		})
	}
}

func TestValidateOrder(t *testing.T) {
	raw := decode(t, validDescriptor)
	raw["category"] = "nope"
	raw["version"] = "1"
	delete(raw, "author")

	var verr *common.ValidationError
	require.ErrorAs(t, Validate(raw), &verr)
	require.Equal(t, "author", verr.Field)

	raw["author"] = "x"
	require.ErrorAs(t, Validate(raw), &verr)
	require.Equal(t, "category", verr.Field)
}

func TestValidateNotObject(t *testing.T) {
	require.ErrorIs(t, Validate([]any{}), common.ErrValidation)
	require.ErrorIs(t, Validate(nil), common.ErrValidation)
}
