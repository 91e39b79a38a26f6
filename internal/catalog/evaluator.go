package catalog

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/jayanta8509/TAX-MCP/pkg/models"
)

// ConditionEvaluator evaluates skip-condition expressions against the answers
// collected so far. Expressions see two variables: `answers`, a map from
// question id to the confirmed value, and `reference`, the client type.
// Compiled programs are cached per expression.
type ConditionEvaluator struct {
	cache map[string]*vm.Program
	mu    sync.RWMutex
}

// NewConditionEvaluator creates a ConditionEvaluator with an empty cache.
func NewConditionEvaluator() *ConditionEvaluator {
	return &ConditionEvaluator{cache: make(map[string]*vm.Program)}
}

// Evaluate runs the expression against the answers. The expression must yield
// a boolean. An empty expression is always true (the question applies).
func (e *ConditionEvaluator) Evaluate(expression string, answers map[string]*models.Answer, reference models.Reference) (bool, error) {
	if expression == "" {
		return true, nil
	}

	env := map[string]interface{}{
		"answers":   answerValues(answers),
		"reference": string(reference),
	}

	e.mu.RLock()
	program, ok := e.cache[expression]
	e.mu.RUnlock()

	if !ok {
		e.mu.Lock()
		if program, ok = e.cache[expression]; !ok {
			var err error
			program, err = expr.Compile(expression, expr.Env(env))
			if err != nil {
				e.mu.Unlock()
				return false, fmt.Errorf("compile condition %q: %w", expression, err)
			}
			e.cache[expression] = program
		}
		e.mu.Unlock()
	}

	result, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("evaluate condition %q: %w", expression, err)
	}

	boolResult, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("condition %q did not evaluate to a boolean, got %T", expression, result)
	}
	return boolResult, nil
}

// answerValues flattens the answer map to question id -> value. Missing keys
// index to the empty string, so conditions referencing unanswered questions
// evaluate against "".
func answerValues(answers map[string]*models.Answer) map[string]string {
	values := make(map[string]string, len(answers))
	for id, a := range answers {
		if a.Confirmed {
			values[id] = a.Value
		}
	}
	return values
}
