// Package catalog holds the static 1040NR intake questionnaires and the
// sequencing logic that walks them. The catalog is read-only: branching is
// expressed as per-question skip conditions, pure functions of the answers
// collected so far.
package catalog

import (
	"fmt"
	"math"

	"github.com/jayanta8509/TAX-MCP/pkg/models"
)

// Catalog is the ordered, possibly branching question list for both client
// reference types.
type Catalog struct {
	evaluator *ConditionEvaluator
	questions map[models.Reference][]models.Question
}

// New builds the catalog with the built-in individual and company
// questionnaires.
func New() *Catalog {
	return &Catalog{
		evaluator: NewConditionEvaluator(),
		questions: map[models.Reference][]models.Question{
			models.ReferenceIndividual: individualQuestions,
			models.ReferenceCompany:    companyQuestions,
		},
	}
}

// QuestionsFor returns the full ordered question list for a reference type,
// ignoring skip conditions.
func (c *Catalog) QuestionsFor(reference models.Reference) []models.Question {
	return c.questions[reference]
}

// QuestionByID looks up a question by its dotted id.
func (c *Catalog) QuestionByID(reference models.Reference, id string) (*models.Question, error) {
	for i := range c.questions[reference] {
		if c.questions[reference][i].ID == id {
			q := c.questions[reference][i]
			return &q, nil
		}
	}
	return nil, fmt.Errorf("question %q not found for reference %q", id, reference)
}

// First returns the first applicable question, or nil if the catalog is
// empty for the reference type.
func (c *Catalog) First(reference models.Reference, answers map[string]*models.Answer) (*models.Question, error) {
	return c.nextFrom(reference, 0, answers)
}

// NextQuestion returns the next question after currentID whose skip condition
// evaluates as applicable against the answers, or nil if the catalog is
// exhausted.
func (c *Catalog) NextQuestion(reference models.Reference, currentID string, answers map[string]*models.Answer) (*models.Question, error) {
	list := c.questions[reference]
	idx := -1
	for i := range list {
		if list[i].ID == currentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("question %q not found for reference %q", currentID, reference)
	}
	return c.nextFrom(reference, idx+1, answers)
}

func (c *Catalog) nextFrom(reference models.Reference, start int, answers map[string]*models.Answer) (*models.Question, error) {
	list := c.questions[reference]
	for i := start; i < len(list); i++ {
		applies, err := c.evaluator.Evaluate(list[i].Condition, answers, reference)
		if err != nil {
			return nil, err
		}
		if applies {
			q := list[i]
			return &q, nil
		}
	}
	return nil, nil
}

// Applicable returns the questions whose skip conditions currently evaluate
// as applicable. Questions gated on not-yet-given answers are excluded until
// their prerequisites are met, so the progress denominator never counts a
// question known to be skipped.
func (c *Catalog) Applicable(reference models.Reference, answers map[string]*models.Answer) ([]models.Question, error) {
	var out []models.Question
	for _, q := range c.questions[reference] {
		applies, err := c.evaluator.Evaluate(q.Condition, answers, reference)
		if err != nil {
			return nil, err
		}
		if applies {
			out = append(out, q)
		}
	}
	return out, nil
}

// Progress computes (position, total, percentage) where position counts
// confirmed answers plus the question about to be asked.
func (c *Catalog) Progress(reference models.Reference, answers map[string]*models.Answer, confirmed int) (models.Progress, error) {
	applicable, err := c.Applicable(reference, answers)
	if err != nil {
		return models.Progress{}, err
	}
	total := len(applicable)
	position := confirmed + 1
	if position > total {
		position = total
	}
	pct := 0.0
	if total > 0 {
		pct = math.Round(float64(position)/float64(total)*1000) / 10
	}
	return models.Progress{CurrentPosition: position, TotalQuestions: total, Percentage: pct}, nil
}

// IsComplete reports whether every required, currently applicable question
// has a confirmed answer.
func (c *Catalog) IsComplete(reference models.Reference, answers map[string]*models.Answer) (bool, error) {
	applicable, err := c.Applicable(reference, answers)
	if err != nil {
		return false, err
	}
	for _, q := range applicable {
		if !q.Required {
			continue
		}
		a, ok := answers[q.ID]
		if !ok || !a.Confirmed {
			return false, nil
		}
	}
	return true, nil
}
