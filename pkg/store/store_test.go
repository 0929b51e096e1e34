package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curia-dev/curia/pkg/config"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), &config.StoreConfig{
		Path: filepath.Join(t.TempDir(), "curia.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// settle guarantees distinct stored timestamps between writes.
func settle() { time.Sleep(2 * time.Millisecond) }

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(context.Background(), nil)
	require.Error(t, err)

	_, err = Open(context.Background(), &config.StoreConfig{})
	require.Error(t, err)
}

func TestOpenCreatesDirectoryAndMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data", "curia.db")
	s, err := Open(context.Background(), &config.StoreConfig{Path: path})
	require.NoError(t, err)
	defer s.Close()

	health, err := s.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, 1, health.MaxOpenConns)
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "curia.db")

	s1, err := Open(ctx, &config.StoreConfig{Path: path})
	require.NoError(t, err)
	require.NoError(t, s1.SetSetting(ctx, "theme", "dark"))
	require.NoError(t, s1.Close())

	// Second open finds the schema already migrated.
	s2, err := Open(ctx, &config.StoreConfig{Path: path})
	require.NoError(t, err)
	defer s2.Close()

	value, ok, err := s2.GetSetting(ctx, "theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", value)
}

func TestSettingsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, ok, err := s.GetSetting(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetSetting(ctx, "api_key_hint", "sk-...abcd"))
	value, ok, err := s.GetSetting(ctx, "api_key_hint")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "sk-...abcd", value)

	// Replaces rather than duplicating.
	require.NoError(t, s.SetSetting(ctx, "api_key_hint", `{"preview":"sk-...efgh"}`))
	value, ok, err = s.GetSetting(ctx, "api_key_hint")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"preview":"sk-...efgh"}`, value)

	require.NoError(t, s.SetSetting(ctx, "theme", "dark"))
	all, err := s.Settings(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "dark", all["theme"])
}

func TestCustomRolesLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.AddCustomRole(ctx, CustomRole{
		ID: "custom_a1b2c3d4", Name: "Librarian", Description: "Cites sources", Icon: "📚", Prompt: "You cite sources.",
	}))
	settle()
	require.NoError(t, s.AddCustomRole(ctx, CustomRole{
		ID: "custom_e5f6a7b8", Name: "Economist", Icon: "🎭",
	}))

	roles, err := s.CustomRoles(ctx)
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, "custom_e5f6a7b8", roles[0].ID)
	assert.Equal(t, "custom_a1b2c3d4", roles[1].ID)
	assert.Equal(t, "Cites sources", roles[1].Description)
	assert.WithinDuration(t, time.Now().UTC(), roles[0].CreatedAt, time.Minute)

	require.NoError(t, s.DeleteCustomRole(ctx, "custom_a1b2c3d4"))
	roles, err = s.CustomRoles(ctx)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, "custom_e5f6a7b8", roles[0].ID)

	require.NoError(t, s.DeleteCustomRole(ctx, "never-existed"))
}

func TestSaveAndListConversations(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.SaveConversation(ctx, Conversation{
		ID:          "conv-1",
		Query:       "What is the capital of France?",
		Title:       "Capital of France",
		Config:      json.RawMessage(`{"nodes":[{"id":"analyst"}]}`),
		Responses:   json.RawMessage(`{"analyst":"Paris."}`),
		FinalAnswer: json.RawMessage(`{"content":"Paris."}`),
		TotalTokens: 420,
		TotalCost:   0.0042,
	}))
	settle()
	// Absent payloads become empty objects.
	require.NoError(t, s.SaveConversation(ctx, Conversation{ID: "conv-2", Query: "Second question"}))

	conversations, err := s.Conversations(ctx, 0)
	require.NoError(t, err)
	require.Len(t, conversations, 2)

	assert.Equal(t, "conv-2", conversations[0].ID)
	assert.Empty(t, conversations[0].Title)
	assert.JSONEq(t, `{}`, string(conversations[0].Config))
	assert.JSONEq(t, `{}`, string(conversations[0].Responses))
	assert.JSONEq(t, `{}`, string(conversations[0].FinalAnswer))

	assert.Equal(t, "conv-1", conversations[1].ID)
	assert.Equal(t, "Capital of France", conversations[1].Title)
	assert.JSONEq(t, `{"analyst":"Paris."}`, string(conversations[1].Responses))
	assert.Equal(t, 420, conversations[1].TotalTokens)
	assert.InDelta(t, 0.0042, conversations[1].TotalCost, 1e-9)
	assert.WithinDuration(t, time.Now().UTC(), conversations[1].CreatedAt, time.Minute)
}

func TestConversationsRespectsLimit(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, id := range []string{"conv-1", "conv-2", "conv-3"} {
		require.NoError(t, s.SaveConversation(ctx, Conversation{ID: id, Query: "q"}))
		settle()
	}

	conversations, err := s.Conversations(ctx, 2)
	require.NoError(t, err)
	require.Len(t, conversations, 2)
	assert.Equal(t, "conv-3", conversations[0].ID)
	assert.Equal(t, "conv-2", conversations[1].ID)
}

func TestDeleteConversationCascades(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.SaveConversation(ctx, Conversation{ID: "conv-1", Query: "q"}))
	_, err := s.LogExecution(ctx, ExecutionLog{ConversationID: "conv-1", Stage: "stage1_response", NodeID: "analyst"})
	require.NoError(t, err)
	_, err = s.LogExecution(ctx, ExecutionLog{ConversationID: "conv-1", Stage: "stage3_synthesis", NodeID: "chairman"})
	require.NoError(t, err)
	_, err = s.LogDecision(ctx, Decision{ConversationID: "conv-1", NodeID: "root", DecisionType: "start_execution"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteConversation(ctx, "conv-1"))

	conversations, err := s.Conversations(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, conversations)

	logs, err := s.ExecutionLogs(ctx, "conv-1", 0)
	require.NoError(t, err)
	assert.Empty(t, logs)

	decisions, err := s.Decisions(ctx, "conv-1", 0)
	require.NoError(t, err)
	assert.Empty(t, decisions)

	require.NoError(t, s.DeleteConversation(ctx, "never-existed"))
}

func TestExecutionLogsOrdering(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	// Round 2 written first; the all-rounds listing still puts round 1 first.
	_, err := s.LogExecution(ctx, ExecutionLog{ConversationID: "conv-1", RoundNumber: 2, Stage: "stage1_response", NodeID: "analyst"})
	require.NoError(t, err)
	settle()
	_, err = s.LogExecution(ctx, ExecutionLog{ConversationID: "conv-1", RoundNumber: 1, Stage: "stage1_response", NodeID: "analyst", TokensUsed: 120, Cost: 0.001})
	require.NoError(t, err)
	settle()
	_, err = s.LogExecution(ctx, ExecutionLog{ConversationID: "conv-1", RoundNumber: 1, Stage: "stage2_evaluation", NodeID: "skeptic"})
	require.NoError(t, err)

	logs, err := s.ExecutionLogs(ctx, "conv-1", 0)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, 1, logs[0].RoundNumber)
	assert.Equal(t, "stage1_response", logs[0].Stage)
	assert.Equal(t, "stage2_evaluation", logs[1].Stage)
	assert.Equal(t, 2, logs[2].RoundNumber)

	round1, err := s.ExecutionLogs(ctx, "conv-1", 1)
	require.NoError(t, err)
	require.Len(t, round1, 2)
	assert.Equal(t, 120, round1[0].TokensUsed)

	rounds, err := s.Rounds(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, rounds)
}

func TestLogExecutionDefaultsRound(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.LogExecution(ctx, ExecutionLog{ConversationID: "conv-1", Stage: "stage1_response"})
	require.NoError(t, err)

	logs, err := s.ExecutionLogs(ctx, "conv-1", 1)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 1, logs[0].RoundNumber)
}

func TestDecisionsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.LogDecision(ctx, Decision{
		ConversationID: "conv-1",
		NodeID:         "root",
		DecisionType:   "start_execution",
		DecisionData:   json.RawMessage(`{"query":"What is the capital of France?"}`),
	})
	require.NoError(t, err)
	settle()
	_, err = s.LogDecision(ctx, Decision{
		ConversationID: "conv-1",
		ParentNodeID:   "root",
		NodeID:         "stage1",
		DecisionType:   "stage_start",
	})
	require.NoError(t, err)

	decisions, err := s.Decisions(ctx, "conv-1", 0)
	require.NoError(t, err)
	require.Len(t, decisions, 2)
	assert.Equal(t, "root", decisions[0].NodeID)
	assert.JSONEq(t, `{"query":"What is the capital of France?"}`, string(decisions[0].DecisionData))
	assert.Equal(t, "root", decisions[1].ParentNodeID)
	assert.JSONEq(t, `{}`, string(decisions[1].DecisionData))
}

func TestCatalogReplaceAndAge(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, ok, err := s.CatalogAge(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.ReplaceCatalog(ctx, []CachedModel{
		{ID: "openai/gpt-4o", Name: "GPT-4o", Provider: "openai", Tier: "premium", ContextLength: 128000, Pricing: json.RawMessage(`{"prompt":"0.0000025"}`)},
		{ID: "anthropic/claude-3.5-sonnet", Name: "Claude 3.5 Sonnet", Provider: "anthropic", ContextLength: 200000},
	}))

	models, err := s.Catalog(ctx)
	require.NoError(t, err)
	require.Len(t, models, 2)
	// Ordered by provider, then name.
	assert.Equal(t, "anthropic/claude-3.5-sonnet", models[0].ID)
	assert.Equal(t, "openai/gpt-4o", models[1].ID)
	// Tier falls back to standard, pricing to an empty object.
	assert.Equal(t, "standard", models[0].Tier)
	assert.JSONEq(t, `{}`, string(models[0].Pricing))
	assert.JSONEq(t, `{"prompt":"0.0000025"}`, string(models[1].Pricing))

	age, ok, err := s.CatalogAge(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now().UTC(), age, time.Minute)

	// Replacement clears the previous catalog.
	require.NoError(t, s.ReplaceCatalog(ctx, []CachedModel{
		{ID: "google/gemini-1.5-pro", Name: "Gemini 1.5 Pro", Provider: "google", Tier: "standard"},
	}))
	models, err = s.Catalog(ctx)
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, "google/gemini-1.5-pro", models[0].ID)
}

func TestFavourites(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	favourites, err := s.Favourites(ctx)
	require.NoError(t, err)
	assert.Empty(t, favourites)

	require.NoError(t, s.AddFavourite(ctx, "openai/gpt-4o"))
	settle()
	require.NoError(t, s.AddFavourite(ctx, "anthropic/claude-3.5-sonnet"))
	require.NoError(t, s.AddFavourite(ctx, "anthropic/claude-3.5-sonnet"))

	favourites, err = s.Favourites(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"anthropic/claude-3.5-sonnet", "openai/gpt-4o"}, favourites)

	require.NoError(t, s.RemoveFavourite(ctx, "anthropic/claude-3.5-sonnet"))
	favourites, err = s.Favourites(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"openai/gpt-4o"}, favourites)

	require.NoError(t, s.RemoveFavourite(ctx, "never-added"))
}
