// Package workflow implements the intake state machine: it walks the question
// catalog for a session, merges prefetched record values with user
// confirmations and corrections, and persists whole-session snapshots with a
// 12 hour idle TTL. State lives entirely in the session store between
// requests; every transition is load, mutate a clone, save.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jayanta8509/TAX-MCP/internal/catalog"
	"github.com/jayanta8509/TAX-MCP/internal/logging"
	"github.com/jayanta8509/TAX-MCP/internal/repository"
	"github.com/jayanta8509/TAX-MCP/internal/session"
	"github.com/jayanta8509/TAX-MCP/internal/validate"
	"github.com/jayanta8509/TAX-MCP/pkg/models"
)

const (
	confidencePrefetched = 0.9
	confidenceMissing    = 0.5
	confidenceUser       = 1.0
)

// Engine drives workflow sessions. It owns all session mutation; the catalog,
// record store and session store are collaborators behind interfaces.
type Engine struct {
	catalog  *catalog.Catalog
	records  repository.RecordStore
	sessions session.Store
	logger   *logging.Logger
	ttl      time.Duration
	now      func() time.Time
}

// NewEngine creates an Engine with the default 12 hour session TTL.
func NewEngine(cat *catalog.Catalog, records repository.RecordStore, sessions session.Store, logger *logging.Logger) *Engine {
	return &Engine{
		catalog:  cat,
		records:  records,
		sessions: sessions,
		logger:   logger,
		ttl:      session.TTL,
		now:      time.Now,
	}
}

// StartResult is the outcome of Start: either the question to ask next with
// its prefetched candidate answer, or a completion summary.
type StartResult struct {
	Status        models.SessionStatus  `json:"status"`
	Resumed       bool                  `json:"resumed"`
	Question      *models.Question      `json:"question,omitempty"`
	CurrentAnswer *models.CurrentAnswer `json:"current_answer,omitempty"`
	Progress      *models.Progress      `json:"progress,omitempty"`
	TotalAnswered int                   `json:"total_answered,omitempty"`
}

// NextResult is the outcome of Next.
type NextResult struct {
	Status              models.SessionStatus  `json:"status"`
	Question            *models.Question      `json:"question,omitempty"`
	CurrentAnswer       *models.CurrentAnswer `json:"current_answer,omitempty"`
	Progress            *models.Progress      `json:"progress,omitempty"`
	PreviousAnswerSaved *models.Answer        `json:"previous_answer_saved,omitempty"`
	TotalAnswered       int                   `json:"total_answered,omitempty"`
}

// StatusResult is a read-only progress snapshot.
type StatusResult struct {
	Status              models.SessionStatus `json:"status"`
	CurrentQuestion     *models.Question     `json:"current_question,omitempty"`
	Progress            *models.Progress     `json:"progress,omitempty"`
	AnswersCollected    int                  `json:"answers_collected"`
	CompletedTaskIDs    []int                `json:"completed_task_ids,omitempty"`
	CompletedSubtaskIDs []string             `json:"completed_subtask_ids,omitempty"`
}

// Start begins or resumes a session. With resume=true a stored, non-expired
// session is reloaded at its current question; an expired or absent one is
// indistinguishable from not_started and a fresh session is created. The
// current record value for the question's field is prefetched so the caller
// can ask for confirmation.
func (e *Engine) Start(ctx context.Context, userID string, clientID int64, reference models.Reference, resume bool) (*StartResult, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if clientID <= 0 {
		return nil, fmt.Errorf("%w: client id must be positive", ErrInvalidInput)
	}
	if _, err := models.ParseReference(string(reference)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if resume {
		sess, err := e.sessions.Load(ctx, userID)
		switch {
		case err == nil:
			return e.resume(ctx, sess)
		case errors.Is(err, session.ErrNotFound):
			// expired or never started, fall through to a fresh session
		default:
			return nil, fmt.Errorf("%w: %v", ErrStore, err)
		}
	}

	return e.startFresh(ctx, userID, clientID, reference)
}

func (e *Engine) startFresh(ctx context.Context, userID string, clientID int64, reference models.Reference) (*StartResult, error) {
	sess := &models.WorkflowSession{
		SessionID: uuid.New().String(),
		UserID:    userID,
		ClientID:  clientID,
		Reference: reference,
		Status:    models.StatusActive,
		Answers:   map[string]*models.Answer{},
		CreatedAt: e.now().UTC(),
	}

	q, err := e.catalog.First(reference, sess.Answers)
	if err != nil {
		return nil, err
	}
	sess.CurrentQuestionID = q.ID
	sess.CurrentTaskID = q.TaskID
	sess.CurrentSubtaskID = q.SubtaskID
	e.prefetch(ctx, sess, q)

	if err := e.save(ctx, sess); err != nil {
		return nil, err
	}

	progress, err := e.catalog.Progress(reference, sess.Answers, sess.ConfirmedCount())
	if err != nil {
		return nil, err
	}
	return &StartResult{
		Status:        sess.Status,
		Question:      q,
		CurrentAnswer: candidateFor(sess, q.ID),
		Progress:      &progress,
	}, nil
}

func (e *Engine) resume(ctx context.Context, sess *models.WorkflowSession) (*StartResult, error) {
	if sess.Status == models.StatusComplete {
		return &StartResult{
			Status:        models.StatusComplete,
			Resumed:       true,
			TotalAnswered: sess.ConfirmedCount(),
		}, nil
	}

	q, err := e.catalog.QuestionByID(sess.Reference, sess.CurrentQuestionID)
	if err != nil {
		return nil, err
	}
	if sess.Answers[q.ID] == nil {
		e.prefetch(ctx, sess, q)
	}

	// refresh the idle TTL
	if err := e.save(ctx, sess); err != nil {
		return nil, err
	}

	progress, err := e.catalog.Progress(sess.Reference, sess.Answers, sess.ConfirmedCount())
	if err != nil {
		return nil, err
	}
	return &StartResult{
		Status:        sess.Status,
		Resumed:       true,
		Question:      q,
		CurrentAnswer: candidateFor(sess, q.ID),
		Progress:      &progress,
	}, nil
}

// Next resolves the current question. confirmed=true accepts the prefetched
// value as-is; confirmed=false writes newValue to the client record before
// the session advances, so a failed external update never produces a partial
// transition.
func (e *Engine) Next(ctx context.Context, userID string, confirmed bool, newValue string) (*NextResult, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	loaded, err := e.sessions.Load(ctx, userID)
	if errors.Is(err, session.ErrNotFound) {
		return nil, ErrNoActiveSession
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	if loaded.Status != models.StatusActive {
		return nil, ErrNoActiveSession
	}

	sess := loaded.Clone()
	q, err := e.catalog.QuestionByID(sess.Reference, sess.CurrentQuestionID)
	if err != nil {
		return nil, err
	}

	var value string
	var source models.AnswerSource
	var confidence float64
	if confirmed {
		value = ""
		if prior := sess.Answers[q.ID]; prior != nil {
			value = prior.Value
		}
		source = models.SourcePrefetched
		confidence = confidencePrefetched
	} else {
		if strings.TrimSpace(newValue) == "" {
			return nil, ErrMissingNewValue
		}
		normalized, err := validate.Validate(q.DataType, newValue)
		if err != nil {
			return nil, err
		}
		if err := e.records.UpdateField(ctx, sess.ClientID, sess.Reference, q.FieldName, normalized); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrExternalUpdate, err)
		}
		value = normalized
		source = models.SourceUser
		confidence = confidenceUser
	}

	saved := &models.Answer{
		QuestionID: q.ID,
		Value:      value,
		Confirmed:  true,
		Source:     source,
		Confidence: confidence,
		Timestamp:  e.now().UTC(),
	}
	sess.Answers[q.ID] = saved

	next, err := e.catalog.NextQuestion(sess.Reference, q.ID, sess.Answers)
	if err != nil {
		return nil, err
	}

	if next == nil || next.TaskID != q.TaskID {
		if !sess.HasCompletedTask(q.TaskID) {
			sess.CompletedTaskIDs = append(sess.CompletedTaskIDs, q.TaskID)
		}
	}
	if next == nil || next.SubtaskID != q.SubtaskID {
		if !sess.HasCompletedSubtask(q.SubtaskID) {
			sess.CompletedSubtaskIDs = append(sess.CompletedSubtaskIDs, q.SubtaskID)
		}
	}

	if next == nil {
		sess.Status = models.StatusComplete
		sess.CurrentQuestionID = ""
		if err := e.save(ctx, sess); err != nil {
			return nil, err
		}
		return &NextResult{
			Status:              models.StatusComplete,
			PreviousAnswerSaved: saved,
			TotalAnswered:       sess.ConfirmedCount(),
		}, nil
	}

	sess.CurrentQuestionID = next.ID
	sess.CurrentTaskID = next.TaskID
	sess.CurrentSubtaskID = next.SubtaskID
	e.prefetch(ctx, sess, next)

	if err := e.save(ctx, sess); err != nil {
		return nil, err
	}

	progress, err := e.catalog.Progress(sess.Reference, sess.Answers, sess.ConfirmedCount())
	if err != nil {
		return nil, err
	}
	return &NextResult{
		Status:              sess.Status,
		Question:            next,
		CurrentAnswer:       candidateFor(sess, next.ID),
		Progress:            &progress,
		PreviousAnswerSaved: saved,
	}, nil
}

// Status returns a read-only snapshot. It never mutates the session and does
// not extend the TTL.
func (e *Engine) Status(ctx context.Context, userID string) (*StatusResult, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	sess, err := e.sessions.Load(ctx, userID)
	if errors.Is(err, session.ErrNotFound) {
		return nil, ErrNoActiveSession
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	out := &StatusResult{
		Status:              sess.Status,
		AnswersCollected:    sess.ConfirmedCount(),
		CompletedTaskIDs:    sess.CompletedTaskIDs,
		CompletedSubtaskIDs: sess.CompletedSubtaskIDs,
	}
	if sess.Status != models.StatusActive {
		return out, nil
	}

	q, err := e.catalog.QuestionByID(sess.Reference, sess.CurrentQuestionID)
	if err != nil {
		return nil, err
	}
	progress, err := e.catalog.Progress(sess.Reference, sess.Answers, sess.ConfirmedCount())
	if err != nil {
		return nil, err
	}
	out.CurrentQuestion = q
	out.Progress = &progress
	return out, nil
}

// prefetch pulls the current record value for a question's field and stores
// it as an unconfirmed candidate. A read failure is treated as no stored
// value; only update failures abort a transition.
func (e *Engine) prefetch(ctx context.Context, sess *models.WorkflowSession, q *models.Question) {
	value, err := e.records.GetField(ctx, sess.ClientID, sess.Reference, q.FieldName)
	if err != nil {
		e.logger.Warn("prefetch failed for %s %s/%d: %v", q.FieldName, sess.Reference, sess.ClientID, err)
		value = ""
	}
	confidence := confidencePrefetched
	if value == "" {
		confidence = confidenceMissing
	}
	sess.Answers[q.ID] = &models.Answer{
		QuestionID: q.ID,
		Value:      value,
		Confirmed:  false,
		Source:     models.SourcePrefetched,
		Confidence: confidence,
		Timestamp:  e.now().UTC(),
	}
}

func (e *Engine) save(ctx context.Context, sess *models.WorkflowSession) error {
	sess.UpdatedAt = e.now().UTC()
	if err := e.sessions.Save(ctx, sess.UserID, sess, e.ttl); err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	return nil
}

func candidateFor(sess *models.WorkflowSession, questionID string) *models.CurrentAnswer {
	a := sess.Answers[questionID]
	if a == nil {
		return &models.CurrentAnswer{Exists: false, Confidence: confidenceMissing, Source: models.SourcePrefetched}
	}
	return &models.CurrentAnswer{
		Value:      a.Value,
		Exists:     a.Value != "",
		Confidence: a.Confidence,
		Source:     a.Source,
	}
}
