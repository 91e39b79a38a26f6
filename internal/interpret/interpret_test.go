package interpret

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jayanta8509/TAX-MCP/pkg/models"
)

func TestInterpretConfirmations(t *testing.T) {
	for _, text := range []string{"yes", "y", "correct", "that's right", "Yes.", "OKAY", "looks good"} {
		res := Interpret(text, models.DataTypeString)
		assert.Equal(t, Confirm, res.Outcome, "expected confirm for %q", text)
	}
}

func TestInterpretBareRejection(t *testing.T) {
	for _, text := range []string{"no", "No.", "nope", "incorrect", "wrong"} {
		res := Interpret(text, models.DataTypeString)
		assert.Equal(t, RejectWithoutValue, res.Outcome, "expected reject-without-value for %q", text)
	}
}

func TestInterpretRejectionWithValue(t *testing.T) {
	res := Interpret("no, it's Jane Smith", models.DataTypeString)
	assert.Equal(t, RejectWithValue, res.Outcome)
	assert.Equal(t, "Jane Smith", res.Value)

	res = Interpret("no my name is Alex", models.DataTypeString)
	assert.Equal(t, RejectWithValue, res.Outcome)
	assert.Equal(t, "Alex", res.Value)

	res = Interpret("no, it's 1990-05-16", models.DataTypeDate)
	assert.Equal(t, RejectWithValue, res.Outcome)
	assert.Equal(t, "1990-05-16", res.Value)
}

func TestInterpretBareValueIsCorrection(t *testing.T) {
	res := Interpret("Jane Smith", models.DataTypeString)
	assert.Equal(t, RejectWithValue, res.Outcome)
	assert.Equal(t, "Jane Smith", res.Value)

	res = Interpret("1990-05-16", models.DataTypeDate)
	assert.Equal(t, RejectWithValue, res.Outcome)
	assert.Equal(t, "1990-05-16", res.Value)

	res = Interpret("change it to 900-12-3456", models.DataTypeITIN)
	assert.Equal(t, RejectWithValue, res.Outcome)
	assert.Equal(t, "900-12-3456", res.Value)
}

func TestInterpretNegativeTokenWins(t *testing.T) {
	// "no" followed by junk never falls through to value reuse.
	res := Interpret("no no no", models.DataTypeString)
	assert.Equal(t, RejectWithoutValue, res.Outcome)
}

func TestInterpretBooleanPlausibility(t *testing.T) {
	res := Interpret("true", models.DataTypeBoolean)
	assert.Equal(t, RejectWithValue, res.Outcome)
	assert.Equal(t, "yes", res.Value)

	// Free text outside the yes/no vocabulary is ambiguous for booleans.
	res = Interpret("whenever", models.DataTypeBoolean)
	assert.Equal(t, Ambiguous, res.Outcome)
}

func TestInterpretEmpty(t *testing.T) {
	assert.Equal(t, Ambiguous, Interpret("   ", models.DataTypeString).Outcome)
}

func TestExtractValuePrefixes(t *testing.T) {
	cases := map[string]string{
		"The correct name is John Doe": "John Doe",
		"It's Jane Smith":              "Jane Smith",
		"update it to Jane Smith.":     "Jane Smith",
		"actually Robert":              "Robert",
	}
	for in, want := range cases {
		assert.Equal(t, want, ExtractValue(in, models.DataTypeString), "input %q", in)
	}
}
