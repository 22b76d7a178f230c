package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertElementRan checks text-format log output to confirm that an element
// processed at least one frame. It relies on the element attribute that the
// engine adds to every frame's logger.
func AssertElementRan(t *testing.T, logs, element string) {
	t.Helper()
	expected := fmt.Sprintf("element=%s ", element)
	require.True(t,
		strings.Contains(logs, expected),
		"expected log output for element '%s' was not found in logs", element,
	)
}
