package matching_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/centavo/internal/matching"
)

func TestService_Suggest(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := matching.NewMockRepository(ctrl)
	svc := matching.NewService(repo)

	userID := uuid.New()
	want := matching.Suggestion{Description: "Amazon", Category: "Shopping"}

	repo.EXPECT().FindMatch(gomock.Any(), userID, "AMZN MKTP DE*123").Return(want, nil)

	got, err := svc.Suggest(context.Background(), userID, "  AMZN MKTP DE*123  ")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestService_Suggest_EmptyDescription(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := matching.NewMockRepository(ctrl)
	svc := matching.NewService(repo)

	// No repo lookup for blank input.
	got, err := svc.Suggest(context.Background(), uuid.New(), "   ")
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestService_Learn(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := matching.NewMockRepository(ctrl)
	svc := matching.NewService(repo)

	userID := uuid.New()
	suggestion := matching.Suggestion{Description: "Amazon", Category: "Shopping"}

	repo.EXPECT().CreateMapping(gomock.Any(), userID, "AMZN", suggestion).Return(nil)

	err := svc.Learn(context.Background(), userID, " AMZN ", suggestion)
	assert.NoError(t, err)
}

func TestService_Learn_EmptySuggestionIsNoOp(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := matching.NewMockRepository(ctrl)
	svc := matching.NewService(repo)

	err := svc.Learn(context.Background(), uuid.New(), "AMZN", matching.Suggestion{})
	assert.NoError(t, err)
}
