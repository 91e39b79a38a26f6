// Package services holds the conversational layer between the transports and
// the workflow engine: it turns free-text chat into engine transitions and
// engine results back into user-facing messages.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jayanta8509/TAX-MCP/internal/interpret"
	"github.com/jayanta8509/TAX-MCP/internal/logging"
	"github.com/jayanta8509/TAX-MCP/internal/repository"
	"github.com/jayanta8509/TAX-MCP/internal/validate"
	"github.com/jayanta8509/TAX-MCP/internal/workflow"
	"github.com/jayanta8509/TAX-MCP/pkg/models"
)

// Assistant drives the confirm-or-correct conversation over the engine.
type Assistant struct {
	engine  *workflow.Engine
	records repository.RecordStore
	logger  *logging.Logger
}

// NewAssistant creates a new Assistant.
func NewAssistant(engine *workflow.Engine, records repository.RecordStore, logger *logging.Logger) *Assistant {
	return &Assistant{engine: engine, records: records, logger: logger}
}

// ChatRequest is one inbound chat message. ClientID and Reference are only
// needed on the first contact, when a session gets created.
type ChatRequest struct {
	UserID    string           `json:"user_id"`
	ClientID  int64            `json:"client_id,omitempty"`
	Reference models.Reference `json:"reference,omitempty"`
	Message   string           `json:"message"`
}

// ChatReply is the assistant's answer plus the machine-readable state the
// caller may want to render around it.
type ChatReply struct {
	Message  string               `json:"message"`
	Status   models.SessionStatus `json:"status"`
	Question *models.Question     `json:"question,omitempty"`
	Progress *models.Progress     `json:"progress,omitempty"`
}

// Chat advances the conversation by one user message. The first message for a
// user starts (or resumes) the questionnaire; later messages confirm or
// correct the pending question.
func (a *Assistant) Chat(ctx context.Context, req ChatRequest) (*ChatReply, error) {
	st, err := a.engine.Status(ctx, req.UserID)
	if errors.Is(err, workflow.ErrNoActiveSession) {
		return a.begin(ctx, req)
	}
	if err != nil {
		return nil, err
	}
	if st.Status == models.StatusComplete {
		return &ChatReply{
			Message: fmt.Sprintf("Your intake is already complete. I have all %d answers on file.", st.AnswersCollected),
			Status:  models.StatusComplete,
		}, nil
	}

	return a.answer(ctx, req.UserID, st.CurrentQuestion, req.Message)
}

func (a *Assistant) begin(ctx context.Context, req ChatRequest) (*ChatReply, error) {
	res, err := a.engine.Start(ctx, req.UserID, req.ClientID, req.Reference, true)
	if err != nil {
		return nil, err
	}
	if res.Status == models.StatusComplete {
		return &ChatReply{
			Message: fmt.Sprintf("Welcome back! Your intake is already complete with %d answers on file.", res.TotalAnswered),
			Status:  models.StatusComplete,
		}, nil
	}

	greeting, err := a.WelcomeMessage(ctx, req.ClientID, req.Reference)
	if err != nil {
		a.logger.Warn("welcome message lookup failed for %s/%d: %v", req.Reference, req.ClientID, err)
		greeting = "Welcome! Let's get your tax intake started."
	}
	return &ChatReply{
		Message:  greeting + "\n\n" + presentQuestion(res.Question, res.CurrentAnswer),
		Status:   res.Status,
		Question: res.Question,
		Progress: res.Progress,
	}, nil
}

func (a *Assistant) answer(ctx context.Context, userID string, q *models.Question, message string) (*ChatReply, error) {
	label := fieldLabel(q.FieldName)
	result := interpret.Interpret(message, q.DataType)

	switch result.Outcome {
	case interpret.Confirm:
		return a.advance(ctx, userID, label, true, "")

	case interpret.RejectWithValue:
		return a.advance(ctx, userID, label, false, result.Value)

	case interpret.RejectWithoutValue:
		return &ChatReply{
			Message:  fmt.Sprintf("No problem. What should your %s be?%s", label, formatHint(q.DataType)),
			Status:   models.StatusActive,
			Question: q,
		}, nil

	default:
		return &ChatReply{
			Message:  fmt.Sprintf("Sorry, I didn't catch that. Is the %s I have correct? You can answer yes, or give me the right value.", label),
			Status:   models.StatusActive,
			Question: q,
		}, nil
	}
}

func (a *Assistant) advance(ctx context.Context, userID, label string, confirmed bool, newValue string) (*ChatReply, error) {
	res, err := a.engine.Next(ctx, userID, confirmed, newValue)

	var verr *validate.ValidationError
	if errors.As(err, &verr) {
		st, serr := a.engine.Status(ctx, userID)
		if serr != nil {
			return nil, serr
		}
		return &ChatReply{
			Message:  fmt.Sprintf("%s Let's try again: what is your %s?", verr.Reason, label),
			Status:   models.StatusActive,
			Question: st.CurrentQuestion,
		}, nil
	}
	if errors.Is(err, validate.ErrAmbiguous) {
		return &ChatReply{
			Message: fmt.Sprintf("I need a yes or no for your %s.", label),
			Status:  models.StatusActive,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	var ack string
	if confirmed {
		ack = "Great, confirmed!"
	} else {
		ack = fmt.Sprintf("Updated! Your %s is now **%s**.", label, res.PreviousAnswerSaved.Value)
	}

	if res.Status == models.StatusComplete {
		return &ChatReply{
			Message: fmt.Sprintf("%s\n\nCongratulations, that was the last question! All %d answers are confirmed and saved. We'll take it from here.",
				ack, res.TotalAnswered),
			Status: models.StatusComplete,
		}, nil
	}

	return &ChatReply{
		Message:  ack + "\n\n" + presentQuestion(res.Question, res.CurrentAnswer),
		Status:   res.Status,
		Question: res.Question,
		Progress: res.Progress,
	}, nil
}

// WelcomeMessage builds the personalized greeting. Companies fall back from
// the contact's first name to the company name token; an unknown client still
// gets a generic greeting.
func (a *Assistant) WelcomeMessage(ctx context.Context, clientID int64, reference models.Reference) (string, error) {
	name, err := a.records.FirstName(ctx, clientID, reference)
	if err != nil {
		return "", err
	}
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf("Welcome, %s. Would you like me to help you with your \"1040NR non-resident tax filing\"?", name), nil
}

func presentQuestion(q *models.Question, current *models.CurrentAnswer) string {
	label := fieldLabel(q.FieldName)
	if current != nil && current.Exists {
		return fmt.Sprintf("I have your %s as: **%s**\n\nIs this correct?", label, current.Value)
	}
	return fmt.Sprintf("I don't have your %s on file. %s%s", label, q.Text, formatHint(q.DataType))
}

func fieldLabel(fieldName string) string {
	return strings.ReplaceAll(fieldName, "_", " ")
}

func formatHint(dataType models.DataType) string {
	switch dataType {
	case models.DataTypeDate:
		return " (YYYY-MM-DD)"
	case models.DataTypeITIN:
		return " (9XX-XX-XXXX)"
	}
	return ""
}
