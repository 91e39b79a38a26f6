package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayanta8509/TAX-MCP/pkg/models"
)

func confirmed(values map[string]string) map[string]*models.Answer {
	answers := make(map[string]*models.Answer, len(values))
	for id, v := range values {
		answers[id] = &models.Answer{
			QuestionID: id,
			Value:      v,
			Confirmed:  true,
			Source:     models.SourceUser,
			Timestamp:  time.Now().UTC(),
		}
	}
	return answers
}

func TestFirstQuestion(t *testing.T) {
	c := New()

	q, err := c.First(models.ReferenceIndividual, nil)
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, "1.1", q.ID)
	assert.Equal(t, "full_legal_name", q.FieldName)
}

func TestNextQuestionSequential(t *testing.T) {
	c := New()

	q, err := c.NextQuestion(models.ReferenceIndividual, "1.1", nil)
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, "1.2", q.ID)
	assert.Equal(t, "date_of_birth", q.FieldName)
}

func TestNextQuestionSkipsITINWhenAbsent(t *testing.T) {
	c := New()
	answers := confirmed(map[string]string{"2.1": "no"})

	q, err := c.NextQuestion(models.ReferenceIndividual, "2.1", answers)
	require.NoError(t, err)
	require.NotNil(t, q)
	// With no ITIN, 2.2 is skipped and the W-7 question applies.
	assert.Equal(t, "2.3", q.ID)
}

func TestNextQuestionAsksITINWhenPresent(t *testing.T) {
	c := New()
	answers := confirmed(map[string]string{"2.1": "yes"})

	q, err := c.NextQuestion(models.ReferenceIndividual, "2.1", answers)
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, "2.2", q.ID)
	assert.Equal(t, models.DataTypeITIN, q.DataType)
}

func TestNextQuestionExhausted(t *testing.T) {
	c := New()

	q, err := c.NextQuestion(models.ReferenceIndividual, "3.2", nil)
	require.NoError(t, err)
	assert.Nil(t, q)
}

func TestNextQuestionUnknownID(t *testing.T) {
	c := New()

	_, err := c.NextQuestion(models.ReferenceIndividual, "9.9", nil)
	assert.Error(t, err)
}

func TestApplicableExcludesSkipped(t *testing.T) {
	c := New()

	all := c.QuestionsFor(models.ReferenceIndividual)

	// Before 2.1 is answered both branches are gated off.
	applicable, err := c.Applicable(models.ReferenceIndividual, nil)
	require.NoError(t, err)
	assert.Len(t, applicable, len(all)-2)

	// Once has_itin=yes, the ITIN question joins; the W-7 one stays out.
	applicable, err = c.Applicable(models.ReferenceIndividual, confirmed(map[string]string{"2.1": "yes"}))
	require.NoError(t, err)
	assert.Len(t, applicable, len(all)-1)
	ids := make([]string, 0, len(applicable))
	for _, q := range applicable {
		ids = append(ids, q.ID)
	}
	assert.Contains(t, ids, "2.2")
	assert.NotContains(t, ids, "2.3")
}

func TestProgress(t *testing.T) {
	c := New()

	p, err := c.Progress(models.ReferenceIndividual, confirmed(map[string]string{"1.1": "Jane Smith"}), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, p.CurrentPosition)
	assert.Equal(t, 7, p.TotalQuestions)
	assert.InDelta(t, 28.6, p.Percentage, 0.05)
}

func TestIsComplete(t *testing.T) {
	c := New()

	answers := confirmed(map[string]string{
		"1.1": "Jane Smith",
		"1.2": "1990-05-16",
		"1.3": "Brazil",
		"1.4": "Brazil",
		"2.1": "yes",
		"3.1": "single",
		"3.2": "jane@example.com",
	})

	// ITIN question (2.2) became applicable and is unanswered.
	done, err := c.IsComplete(models.ReferenceIndividual, answers)
	require.NoError(t, err)
	assert.False(t, done)

	answers["2.2"] = &models.Answer{QuestionID: "2.2", Value: "900-12-3456", Confirmed: true}
	done, err = c.IsComplete(models.ReferenceIndividual, answers)
	require.NoError(t, err)
	assert.True(t, done)
}

func TestCompanyCatalogDissolutionBranch(t *testing.T) {
	c := New()

	q, err := c.NextQuestion(models.ReferenceCompany, "2.2", confirmed(map[string]string{"2.2": "no"}))
	require.NoError(t, err)
	assert.Nil(t, q)

	q, err = c.NextQuestion(models.ReferenceCompany, "2.2", confirmed(map[string]string{"2.2": "yes"}))
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, "date_of_dissolution", q.FieldName)
}
