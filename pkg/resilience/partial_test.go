package resilience

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curia-dev/curia/pkg/council"
)

func stageResponse(nodeID, content string) council.Response {
	return council.Response{NodeID: nodeID, Model: "m/" + nodeID, Content: content}
}

func TestCanProceedCountsSubstantiveResponses(t *testing.T) {
	policy := PartialPolicy{}

	assert.True(t, policy.CanProceed([]council.Response{
		stageResponse("analyst", "a long and substantive answer"),
		stageResponse("skeptic", "another long and substantive answer"),
	}))

	assert.False(t, policy.CanProceed([]council.Response{
		stageResponse("analyst", "a long and substantive answer"),
		stageResponse("skeptic", "short"),
	}))

	// Content must exceed the minimum, not merely reach it.
	assert.False(t, policy.CanProceed([]council.Response{
		stageResponse("analyst", "0123456789"),
		stageResponse("skeptic", "0123456789"),
	}))
	assert.True(t, policy.CanProceed([]council.Response{
		stageResponse("analyst", "0123456789a"),
		stageResponse("skeptic", "0123456789a"),
	}))
}

func TestCanProceedCustomMinimum(t *testing.T) {
	policy := PartialPolicy{MinRequired: 3}
	responses := []council.Response{
		stageResponse("analyst", "a long and substantive answer"),
		stageResponse("skeptic", "another long and substantive answer"),
	}
	assert.False(t, policy.CanProceed(responses))

	responses = append(responses, stageResponse("pragmatist", "a third substantive answer"))
	assert.True(t, policy.CanProceed(responses))
}

func TestAdjustForRankingSkipsWhenTooFew(t *testing.T) {
	policy := PartialPolicy{}

	assert.Nil(t, policy.AdjustForRanking(nil))
	assert.Nil(t, policy.AdjustForRanking([]council.Response{
		stageResponse("analyst", "the only answer that came back"),
	}))
}

func TestAdjustForRankingDropsIncomplete(t *testing.T) {
	policy := PartialPolicy{}

	adjusted := policy.AdjustForRanking([]council.Response{
		stageResponse("analyst", "a long and substantive answer"),
		{NodeID: "ghost", Model: "m/ghost", Content: ""},
		{NodeID: "blank", Model: "", Content: "content without a model"},
		stageResponse("skeptic", "another long and substantive answer"),
	})

	require.Len(t, adjusted, 2)
	assert.Equal(t, "analyst", adjusted[0].NodeID)
	assert.Equal(t, "skeptic", adjusted[1].NodeID)
}
