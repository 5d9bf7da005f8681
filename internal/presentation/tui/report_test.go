package tui_test

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/aretw0/sysml/internal/presentation/tui"
	"github.com/aretw0/sysml/pkg/domain"
	"github.com/aretw0/sysml/pkg/model"
	"github.com/aretw0/sysml/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport_ValidModel(t *testing.T) {
	out := tui.Report("Vehicle", model.SampleDocument(), nil)

	assert.Contains(t, out, "# Vehicle\n")
	assert.Contains(t, out, "| PartDefinition | 4 |")
	assert.Contains(t, out, "| specialization | 1 |")
	assert.Contains(t, out, "## Relationships (4)")
	assert.Contains(t, out, "## Findings (0)")
	assert.Contains(t, out, "The model is valid.")
}

func TestReport_Findings(t *testing.T) {
	err := &validator.AggregateError{Errors: []error{
		&domain.ValidationError{ElementID: "pd", Rule: domain.RuleNameRequired, Message: "name is required"},
	}}
	out := tui.Report("Broken", &domain.Document{}, err)

	assert.Contains(t, out, "## Elements (0)\n\nNone.")
	assert.Contains(t, out, "## Findings (1)")
	assert.Contains(t, out, "`pd`: name is required")
}

func TestReport_OpaqueError(t *testing.T) {
	out := tui.Report("Broken", &domain.Document{}, errors.New("boom"))
	assert.Contains(t, out, "- boom")
}

func TestNewRenderer_NotATerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()

	render := tui.NewRenderer(f)
	got, err := render("# Title")
	require.NoError(t, err)
	assert.Equal(t, "# Title", got)
	assert.False(t, tui.IsTerminal(f))
}

func TestStatus_PlainOutput(t *testing.T) {
	var buf bytes.Buffer
	s := tui.NewStatus(&buf)
	s.Success("saved %q", "vehicle")
	s.Failure("%d findings", 2)

	assert.Equal(t, "✔ saved \"vehicle\"\n✘ 2 findings\n", buf.String())
}
