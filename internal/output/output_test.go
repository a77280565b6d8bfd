package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignoretools/git-ignore/internal/ignore"
)

func TestNew_BufferGetsNoColorInAutoMode(t *testing.T) {
	buf := &bytes.Buffer{}
	w := New(buf, "auto")

	w.Successf("done")
	assert.Equal(t, "done\n", buf.String())
}

func TestNew_AlwaysForcesColor(t *testing.T) {
	buf := &bytes.Buffer{}
	w := New(buf, "always")

	w.Errorf("boom")
	assert.True(t, strings.HasPrefix(buf.String(), colorRed))
	assert.Contains(t, buf.String(), "boom")
	assert.Contains(t, buf.String(), colorReset)
}

func TestNew_NeverSuppressesColor(t *testing.T) {
	buf := &bytes.Buffer{}
	w := New(buf, "never")

	w.Warningf("careful")
	assert.Equal(t, "careful\n", buf.String())
}

func TestIssues_EmptyPrintsNothing(t *testing.T) {
	buf := &bytes.Buffer{}
	New(buf, "never").Issues(nil)
	assert.Empty(t, buf.String())
}

func TestIssues_GroupedBySeverity(t *testing.T) {
	issues := []ignore.Issue{
		{Pattern: "./x", Severity: ignore.SeverityInfo, Message: "redundant"},
		{Pattern: "a\nb", Severity: ignore.SeverityError, Message: "newline"},
		{Pattern: "*", Severity: ignore.SeverityWarning, Message: "broad"},
	}

	buf := &bytes.Buffer{}
	New(buf, "never").Issues(issues)
	out := buf.String()

	require.Contains(t, out, "ERROR: Found problematic patterns:")
	require.Contains(t, out, "WARNING: Additional issues:")
	require.Contains(t, out, "INFO: Pattern suggestions:")

	errIdx := strings.Index(out, "ERROR:")
	warnIdx := strings.Index(out, "WARNING:")
	infoIdx := strings.Index(out, "INFO:")
	assert.Less(t, errIdx, warnIdx, "errors print before warnings")
	assert.Less(t, warnIdx, infoIdx, "warnings print before infos")

	assert.Contains(t, out, "  *: broad")
	assert.Contains(t, out, "  ./x: redundant")
}

func TestIssues_WarningHeadingWithoutErrors(t *testing.T) {
	issues := []ignore.Issue{
		{Pattern: "*", Severity: ignore.SeverityWarning, Message: "broad"},
	}

	buf := &bytes.Buffer{}
	New(buf, "never").Issues(issues)

	assert.Contains(t, buf.String(), "WARNING: Potentially problematic patterns found:")
}
