package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jayanta8509/TAX-MCP/pkg/models"
)

func TestValidateDate(t *testing.T) {
	v, err := Validate(models.DataTypeDate, "1990-05-16")
	assert.NoError(t, err)
	assert.Equal(t, "1990-05-16", v)

	_, err = Validate(models.DataTypeDate, "05/16/1990")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "Please use YYYY-MM-DD format", verr.Reason)

	// Real calendar dates only, not just the right shape.
	_, err = Validate(models.DataTypeDate, "1990-13-40")
	assert.Error(t, err)
}

func TestValidateITIN(t *testing.T) {
	v, err := Validate(models.DataTypeITIN, "900-12-3456")
	assert.NoError(t, err)
	assert.Equal(t, "900-12-3456", v)

	for _, bad := range []string{"900-123-4567", "800-12-3456", "9001-2-3456", "900123456"} {
		_, err := Validate(models.DataTypeITIN, bad)
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr, "expected rejection for %q", bad)
		assert.Equal(t, ITINReason, verr.Reason)
	}
}

func TestValidateBoolean(t *testing.T) {
	for _, yes := range []string{"yes", "Y", "TRUE", "correct", "yep"} {
		v, err := Validate(models.DataTypeBoolean, yes)
		assert.NoError(t, err)
		assert.Equal(t, "yes", v)
	}
	for _, no := range []string{"no", "N", "false", "incorrect", "nope"} {
		v, err := Validate(models.DataTypeBoolean, no)
		assert.NoError(t, err)
		assert.Equal(t, "no", v)
	}

	// Anything else is ambiguous, not invalid.
	_, err := Validate(models.DataTypeBoolean, "maybe")
	assert.True(t, errors.Is(err, ErrAmbiguous))
	var verr *ValidationError
	assert.False(t, errors.As(err, &verr))
}

func TestValidateString(t *testing.T) {
	v, err := Validate(models.DataTypeString, "  Jane Smith  ")
	assert.NoError(t, err)
	assert.Equal(t, "Jane Smith", v)

	_, err = Validate(models.DataTypeString, "   ")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "This field cannot be empty", verr.Reason)
}
