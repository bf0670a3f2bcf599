package placeholder

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestMerge verifies that existing destination keys are never overwritten.
func TestMerge(t *testing.T) {
	t.Parallel()

	dst := Map{"Foo": "Bar", "check_name": "FS"}
	Merge(dst, Map{"Foo": "Overridden", "Hello": "World"})

	require.Equal(t, Map{
		"Foo":        "Bar",
		"check_name": "FS",
		"Hello":      "World",
	}, dst)
}

// TestClone ensures mutations of a clone do not leak into the original.
func TestClone(t *testing.T) {
	t.Parallel()

	original := Map{"alarm_name": "High usage"}
	cloned := original.Clone()
	cloned["alarm_name"] = "mutated"
	cloned["extra"] = "value"

	require.Equal(t, Map{"alarm_name": "High usage"}, original)
}

// TestResolve checks template substitution including unknown keys.
func TestResolve(t *testing.T) {
	t.Parallel()

	m := Map{
		"check_name": "Filesystem",
		"alarm_id":   "/home",
	}

	resolved := Resolve("{{check_name}}: {{alarm_id}} is full ({{unknown}})", m)
	require.Equal(t, "Filesystem: /home is full ({{unknown}})", resolved)

	// No placeholders at all.
	require.Equal(t, "plain", Resolve("plain", m))

	// Empty map leaves the template as is.
	require.Equal(t, "{{check_name}}", Resolve("{{check_name}}", nil))
}
