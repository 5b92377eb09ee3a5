package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeightFor(t *testing.T) {
	assert.Equal(t, 3.0, WeightFor(InteractionSuperlike))
	assert.Equal(t, 1.0, WeightFor(InteractionLike))
	assert.Equal(t, -3.0, WeightFor(InteractionBlock))
	assert.Equal(t, 0.0, WeightFor("wave"), "unknown types weigh zero")
}

func TestIsKnownInteraction(t *testing.T) {
	assert.True(t, IsKnownInteraction(InteractionGift))
	assert.True(t, IsKnownInteraction(InteractionUnfollow))
	assert.False(t, IsKnownInteraction("wave"))
}

func TestMatchableInteraction(t *testing.T) {
	assert.True(t, MatchableInteraction(InteractionLike))
	assert.True(t, MatchableInteraction(InteractionSuperlike))
	assert.True(t, MatchableInteraction(InteractionFollow))
	assert.False(t, MatchableInteraction(InteractionDislike))
	assert.False(t, MatchableInteraction(InteractionMessage))
}

func TestSwipeInteraction(t *testing.T) {
	assert.True(t, SwipeInteraction(InteractionPass))
	assert.True(t, SwipeInteraction(InteractionDislike))
	assert.False(t, SwipeInteraction(InteractionBlock))
	assert.False(t, SwipeInteraction(InteractionFollow))
}
