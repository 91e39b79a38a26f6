// Package models defines the domain models for the tax-intake assistant
package models

import (
	"fmt"
	"time"
)

// Reference selects which client schema applies to a record lookup
type Reference string

const (
	ReferenceIndividual Reference = "individual"
	ReferenceCompany    Reference = "company"
)

// ParseReference normalizes and validates a reference string.
func ParseReference(s string) (Reference, error) {
	switch Reference(s) {
	case ReferenceIndividual:
		return ReferenceIndividual, nil
	case ReferenceCompany:
		return ReferenceCompany, nil
	}
	return "", fmt.Errorf("reference must be %q or %q, got %q", ReferenceIndividual, ReferenceCompany, s)
}

// DataType is the expected value format for a question's answer
type DataType string

const (
	DataTypeString  DataType = "string"
	DataTypeDate    DataType = "date"
	DataTypeBoolean DataType = "boolean"
	DataTypeITIN    DataType = "itin"
)

// AnswerSource records how an answer value entered the session
type AnswerSource string

const (
	SourcePrefetched AnswerSource = "prefetched"
	SourceUser       AnswerSource = "user"
)

// Question is a single catalog entry. Questions are immutable and defined at
// process start; the Condition expression (if any) decides whether the
// question applies given the answers collected so far.
type Question struct {
	ID        string   `json:"question_id"`
	Text      string   `json:"question_text"`
	FieldName string   `json:"field_name"`
	DataType  DataType `json:"data_type"`
	Required  bool     `json:"required"`
	TaskID    int      `json:"task_id"`
	TaskName  string   `json:"task_name"`
	SubtaskID string   `json:"subtask_id"`
	// Condition is an expr expression over prior answers. Empty means the
	// question is always asked.
	Condition string `json:"condition,omitempty"`
}

// Answer is a collected value for a question. Prefetched answers carry the
// value found in the client record before the user has seen it; confirmed
// answers have been accepted or corrected by the user.
type Answer struct {
	QuestionID string       `json:"question_id"`
	Value      string       `json:"value"`
	Confirmed  bool         `json:"confirmed"`
	Source     AnswerSource `json:"source"`
	Confidence float64      `json:"confidence"`
	Timestamp  time.Time    `json:"timestamp"`
}

// SessionStatus is the lifecycle state of a workflow session
type SessionStatus string

const (
	StatusNotStarted SessionStatus = "not_started"
	StatusActive     SessionStatus = "active"
	StatusComplete   SessionStatus = "complete"
)

// WorkflowSession is the whole-snapshot state persisted between requests.
// It is owned exclusively by the workflow engine and saved on every mutating
// transition.
type WorkflowSession struct {
	SessionID           string             `json:"session_id"`
	UserID              string             `json:"user_id"`
	ClientID            int64              `json:"client_id"`
	Reference           Reference          `json:"reference"`
	Status              SessionStatus      `json:"status"`
	CurrentQuestionID   string             `json:"current_question_id,omitempty"`
	CurrentTaskID       int                `json:"current_task_id,omitempty"`
	CurrentSubtaskID    string             `json:"current_subtask_id,omitempty"`
	CompletedTaskIDs    []int              `json:"completed_task_ids,omitempty"`
	CompletedSubtaskIDs []string           `json:"completed_subtask_ids,omitempty"`
	Answers             map[string]*Answer `json:"answers"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

// Clone returns a deep copy of the session. The engine mutates a clone so a
// failed transition leaves the loaded snapshot untouched.
func (s *WorkflowSession) Clone() *WorkflowSession {
	if s == nil {
		return nil
	}
	cp := *s
	cp.CompletedTaskIDs = append([]int(nil), s.CompletedTaskIDs...)
	cp.CompletedSubtaskIDs = append([]string(nil), s.CompletedSubtaskIDs...)
	cp.Answers = make(map[string]*Answer, len(s.Answers))
	for id, a := range s.Answers {
		ac := *a
		cp.Answers[id] = &ac
	}
	return &cp
}

// ConfirmedCount returns the number of confirmed answers in the session.
func (s *WorkflowSession) ConfirmedCount() int {
	n := 0
	for _, a := range s.Answers {
		if a.Confirmed {
			n++
		}
	}
	return n
}

// HasCompletedTask reports whether the task is already marked complete.
func (s *WorkflowSession) HasCompletedTask(taskID int) bool {
	for _, id := range s.CompletedTaskIDs {
		if id == taskID {
			return true
		}
	}
	return false
}

// HasCompletedSubtask reports whether the subtask is already marked complete.
func (s *WorkflowSession) HasCompletedSubtask(subtaskID string) bool {
	for _, id := range s.CompletedSubtaskIDs {
		if id == subtaskID {
			return true
		}
	}
	return false
}

// Progress describes how far along the questionnaire a session is. The total
// counts only questions whose skip conditions currently evaluate as
// applicable, so skipped questions never inflate the denominator.
type Progress struct {
	CurrentPosition int     `json:"current_position"`
	TotalQuestions  int     `json:"total_questions"`
	Percentage      float64 `json:"percentage"`
}

// CurrentAnswer is the prefetched candidate shown alongside a question.
type CurrentAnswer struct {
	Value      string       `json:"value,omitempty"`
	Exists     bool         `json:"exists"`
	Confidence float64      `json:"confidence"`
	Source     AnswerSource `json:"source"`
}
