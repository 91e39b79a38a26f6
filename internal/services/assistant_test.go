package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayanta8509/TAX-MCP/internal/catalog"
	"github.com/jayanta8509/TAX-MCP/internal/logging"
	"github.com/jayanta8509/TAX-MCP/internal/repository"
	"github.com/jayanta8509/TAX-MCP/internal/session"
	"github.com/jayanta8509/TAX-MCP/internal/workflow"
	"github.com/jayanta8509/TAX-MCP/pkg/models"
)

func newTestAssistant(t *testing.T) (*Assistant, *repository.MemoryRecordStore) {
	t.Helper()
	records := repository.NewMemoryRecordStore()
	records.PutRecord(8, models.ReferenceIndividual, map[string]string{
		"full_legal_name": "Robert SEBASTIAO Da Elvis",
		"date_of_birth":   "1985-03-14",
		"email":           "robert@example.com",
	})
	records.PutRecord(3, models.ReferenceCompany, map[string]string{
		"legal_name":   "Acme Holdings LLC",
		"contact_name": "Maria Gonzalez",
	})
	logger := logging.NewLogger()
	engine := workflow.NewEngine(catalog.New(), records, session.NewMemoryStore(), logger)
	return NewAssistant(engine, records, logger), records
}

func TestChatFirstContactGreetsAndAsks(t *testing.T) {
	assistant, _ := newTestAssistant(t)
	ctx := context.Background()

	reply, err := assistant.Chat(ctx, ChatRequest{
		UserID: "u1", ClientID: 8, Reference: models.ReferenceIndividual, Message: "hi",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, reply.Status)
	assert.Contains(t, reply.Message, "Welcome, Robert.")
	assert.Contains(t, reply.Message, "1040NR non-resident tax filing")
	assert.Contains(t, reply.Message, "I have your full legal name as: **Robert SEBASTIAO Da Elvis**")
	assert.Contains(t, reply.Message, "Is this correct?")
	require.NotNil(t, reply.Question)
	assert.Equal(t, "1.1", reply.Question.ID)
}

func TestChatConfirmAdvances(t *testing.T) {
	assistant, _ := newTestAssistant(t)
	ctx := context.Background()

	_, err := assistant.Chat(ctx, ChatRequest{
		UserID: "u1", ClientID: 8, Reference: models.ReferenceIndividual, Message: "hi",
	})
	require.NoError(t, err)

	reply, err := assistant.Chat(ctx, ChatRequest{UserID: "u1", Message: "yes"})
	require.NoError(t, err)
	assert.Contains(t, reply.Message, "Great, confirmed!")
	require.NotNil(t, reply.Question)
	assert.Equal(t, "1.2", reply.Question.ID)
}

func TestChatCorrectionUpdatesRecord(t *testing.T) {
	assistant, records := newTestAssistant(t)
	ctx := context.Background()

	_, err := assistant.Chat(ctx, ChatRequest{
		UserID: "u1", ClientID: 8, Reference: models.ReferenceIndividual, Message: "hi",
	})
	require.NoError(t, err)

	reply, err := assistant.Chat(ctx, ChatRequest{UserID: "u1", Message: "no, it's Jane Smith"})
	require.NoError(t, err)
	assert.Contains(t, reply.Message, "Updated! Your full legal name is now **Jane Smith**.")
	assert.Equal(t, "Jane Smith", records.Field(8, models.ReferenceIndividual, "full_legal_name"))
	assert.Equal(t, "1.2", reply.Question.ID)
}

func TestChatBareRejectionReasks(t *testing.T) {
	assistant, records := newTestAssistant(t)
	ctx := context.Background()

	_, err := assistant.Chat(ctx, ChatRequest{
		UserID: "u1", ClientID: 8, Reference: models.ReferenceIndividual, Message: "hi",
	})
	require.NoError(t, err)

	reply, err := assistant.Chat(ctx, ChatRequest{UserID: "u1", Message: "no"})
	require.NoError(t, err)
	assert.Contains(t, reply.Message, "What should your full legal name be?")
	assert.Equal(t, "1.1", reply.Question.ID)
	assert.Equal(t, "Robert SEBASTIAO Da Elvis", records.Field(8, models.ReferenceIndividual, "full_legal_name"))

	// the follow-up bare value is taken as the correction
	reply, err = assistant.Chat(ctx, ChatRequest{UserID: "u1", Message: "Jane Smith"})
	require.NoError(t, err)
	assert.Contains(t, reply.Message, "Updated!")
	assert.Equal(t, "Jane Smith", records.Field(8, models.ReferenceIndividual, "full_legal_name"))
}

func TestChatInvalidDateReasksWithReason(t *testing.T) {
	assistant, _ := newTestAssistant(t)
	ctx := context.Background()

	_, err := assistant.Chat(ctx, ChatRequest{
		UserID: "u1", ClientID: 8, Reference: models.ReferenceIndividual, Message: "hi",
	})
	require.NoError(t, err)
	_, err = assistant.Chat(ctx, ChatRequest{UserID: "u1", Message: "yes"})
	require.NoError(t, err)

	// question 1.2 expects YYYY-MM-DD; no date pattern in the message
	reply, err := assistant.Chat(ctx, ChatRequest{UserID: "u1", Message: "no, it's March 14th"})
	require.NoError(t, err)
	assert.Contains(t, reply.Message, "Please use YYYY-MM-DD format")
	assert.Equal(t, "1.2", reply.Question.ID)
}

func TestWelcomeMessageFallbacks(t *testing.T) {
	assistant, records := newTestAssistant(t)
	ctx := context.Background()

	msg, err := assistant.WelcomeMessage(ctx, 8, models.ReferenceIndividual)
	require.NoError(t, err)
	assert.Equal(t, `Welcome, Robert. Would you like me to help you with your "1040NR non-resident tax filing"?`, msg)

	msg, err = assistant.WelcomeMessage(ctx, 3, models.ReferenceCompany)
	require.NoError(t, err)
	assert.Contains(t, msg, "Welcome, Maria.")

	records.PutRecord(4, models.ReferenceCompany, map[string]string{})
	msg, err = assistant.WelcomeMessage(ctx, 4, models.ReferenceCompany)
	require.NoError(t, err)
	assert.Contains(t, msg, "Welcome, there.")

	_, err = assistant.WelcomeMessage(ctx, 999, models.ReferenceIndividual)
	assert.ErrorIs(t, err, repository.ErrClientNotFound)
}
