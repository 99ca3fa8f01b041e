package transaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/centavo/internal/transaction"
)

var (
	windowStart = time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC)
	windowEnd   = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
)

// allowWindow stubs the plan window to a fixed 30-day span.
func allowWindow(m *transaction.MockWindowSource) {
	m.EXPECT().
		EditableWindow(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(windowStart, windowEnd, nil).
		AnyTimes()
}

func TestService_Create(t *testing.T) {
	userID := uuid.New()

	type testCase struct {
		name      string
		params    transaction.CreateParams
		setupMock func(repo *transaction.MockRepository, windows *transaction.MockWindowSource)
		wantErr   error // sentinel checked with ErrorIs
		wantFail  bool  // any error
	}

	tests := []testCase{
		{
			name: "Success",
			params: transaction.CreateParams{
				UserID:      userID,
				Amount:      1000,
				Type:        transaction.TypeExpense,
				Category:    "Groceries",
				Description: "Weekly shop",
				Date:        time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC),
			},
			setupMock: func(repo *transaction.MockRepository, windows *transaction.MockWindowSource) {
				allowWindow(windows)
				repo.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
						tx.ID = uuid.New()
						tx.CreatedAt = time.Now()
						return nil
					})
			},
		},
		{
			name: "ZeroAmount",
			params: transaction.CreateParams{
				UserID: userID,
				Amount: 0,
				Type:   transaction.TypeExpense,
				Date:   time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC),
			},
			setupMock: func(_ *transaction.MockRepository, _ *transaction.MockWindowSource) {},
			wantErr:   transaction.ErrInvalidAmount,
		},
		{
			name: "NegativeAmount",
			params: transaction.CreateParams{
				UserID: userID,
				Amount: -500,
				Type:   transaction.TypeIncome,
				Date:   time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC),
			},
			setupMock: func(_ *transaction.MockRepository, _ *transaction.MockWindowSource) {},
			wantErr:   transaction.ErrInvalidAmount,
		},
		{
			name: "UnknownType",
			params: transaction.CreateParams{
				UserID: userID,
				Amount: 100,
				Type:   transaction.Type("transfer"),
				Date:   time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC),
			},
			setupMock: func(_ *transaction.MockRepository, _ *transaction.MockWindowSource) {},
			wantErr:   transaction.ErrInvalidType,
		},
		{
			name: "MissingDate",
			params: transaction.CreateParams{
				UserID: userID,
				Amount: 100,
				Type:   transaction.TypeExpense,
			},
			setupMock: func(_ *transaction.MockRepository, _ *transaction.MockWindowSource) {},
			wantErr:   transaction.ErrMissingDate,
		},
		{
			name: "DateBeforeWindow",
			params: transaction.CreateParams{
				UserID: userID,
				Amount: 100,
				Type:   transaction.TypeExpense,
				Date:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			},
			setupMock: func(_ *transaction.MockRepository, windows *transaction.MockWindowSource) {
				allowWindow(windows)
			},
			wantErr: transaction.ErrDateOutsideWindow,
		},
		{
			name: "DateInTheFuture",
			params: transaction.CreateParams{
				UserID: userID,
				Amount: 100,
				Type:   transaction.TypeExpense,
				Date:   time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
			},
			setupMock: func(_ *transaction.MockRepository, windows *transaction.MockWindowSource) {
				allowWindow(windows)
			},
			wantErr: transaction.ErrDateOutsideWindow,
		},
		{
			name: "RepoError",
			params: transaction.CreateParams{
				UserID: userID,
				Amount: 500,
				Type:   transaction.TypeExpense,
				Date:   time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC),
			},
			setupMock: func(repo *transaction.MockRepository, windows *transaction.MockWindowSource) {
				allowWindow(windows)
				repo.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantFail: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			windows := transaction.NewMockWindowSource(ctrl)
			tt.setupMock(repo, windows)

			svc := transaction.NewService(repo, windows)
			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr != nil || tt.wantFail {
				require.Error(t, err)
				assert.Nil(t, got)

				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, userID, got.UserID)
			assert.Equal(t, "Groceries", got.Category)
		})
	}
}

func TestService_Create_WindowSourceError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	windows := transaction.NewMockWindowSource(ctrl)
	windows.EXPECT().
		EditableWindow(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(time.Time{}, time.Time{}, errors.New("billing unavailable"))

	svc := transaction.NewService(repo, windows)
	_, err := svc.Create(context.Background(), transaction.CreateParams{
		UserID: uuid.New(),
		Amount: 100,
		Type:   transaction.TypeExpense,
		Date:   time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC),
	})

	assert.Error(t, err)
}

func TestService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	repo := transaction.NewMockRepository(ctrl)
	windows := transaction.NewMockWindowSource(ctrl)

	repo.EXPECT().
		ListTransactions(gomock.Any(), userID, transaction.ListFilter{}).
		Return([]*transaction.Transaction{
			{ID: uuid.New(), UserID: userID},
			{ID: uuid.New(), UserID: userID},
		}, nil)

	svc := transaction.NewService(repo, windows)
	got, err := svc.List(context.Background(), userID, transaction.ListFilter{})

	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestService_Update_RevalidatesWindow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	repo := transaction.NewMockRepository(ctrl)
	windows := transaction.NewMockWindowSource(ctrl)
	allowWindow(windows)

	svc := transaction.NewService(repo, windows)

	err := svc.Update(context.Background(), &transaction.Transaction{
		ID:     uuid.New(),
		UserID: userID,
		Amount: 100,
		Type:   transaction.TypeExpense,
		Date:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})

	assert.ErrorIs(t, err, transaction.ErrDateOutsideWindow)
}

func TestService_ImportBatch_NoConflicts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	repo := transaction.NewMockRepository(ctrl)
	windows := transaction.NewMockWindowSource(ctrl)
	allowWindow(windows)
	itx := transaction.NewMockImportTx(ctrl)
	svc := transaction.NewService(repo, windows)

	day := time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC)
	params := []transaction.CreateParams{
		{
			Amount:         1000,
			Type:           transaction.TypeExpense,
			Category:       "Coffee",
			Description:    "Coffee",
			RawDescription: "COFFEE SHOP",
			Date:           day,
		},
	}

	repo.EXPECT().BeginImport(gomock.Any(), userID, day, day).Return(itx, nil)
	itx.EXPECT().FindDuplicates(gomock.Any(), gomock.Any()).Return(nil, nil)
	itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Any()).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), userID, params)
	require.NoError(t, err)
	assert.Len(t, result.Imported, 1)
	assert.Equal(t, userID, result.Imported[0].UserID)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.New)
}

func TestService_ImportBatch_WithConflicts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	repo := transaction.NewMockRepository(ctrl)
	windows := transaction.NewMockWindowSource(ctrl)
	allowWindow(windows)
	itx := transaction.NewMockImportTx(ctrl)
	svc := transaction.NewService(repo, windows)

	day := time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC)
	params := []transaction.CreateParams{
		{
			Amount:         1000,
			Type:           transaction.TypeExpense,
			Description:    "Coffee",
			RawDescription: "COFFEE SHOP",
			Date:           day,
		},
		{
			Amount:         2000,
			Type:           transaction.TypeExpense,
			Description:    "Lunch",
			RawDescription: "LUNCH PLACE",
			Date:           day,
		},
	}

	existing := &transaction.Transaction{
		ID:             uuid.New(),
		UserID:         userID,
		Amount:         1000,
		Type:           transaction.TypeExpense,
		RawDescription: "COFFEE SHOP",
		Date:           day,
	}

	repo.EXPECT().BeginImport(gomock.Any(), userID, day, day).Return(itx, nil)
	itx.EXPECT().FindDuplicates(gomock.Any(), gomock.Any()).Return([]*transaction.Transaction{existing}, nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), userID, params)
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	assert.Len(t, result.New, 1)
	assert.Len(t, result.Conflicts, 1)
	assert.Equal(t, existing, result.Conflicts[0].Existing)
}

func TestService_ImportBatch_RowOutsideWindow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	repo := transaction.NewMockRepository(ctrl)
	windows := transaction.NewMockWindowSource(ctrl)
	allowWindow(windows)
	svc := transaction.NewService(repo, windows)

	_, err := svc.ImportBatch(context.Background(), userID, []transaction.CreateParams{
		{
			Amount: 100,
			Type:   transaction.TypeExpense,
			Date:   time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	})

	assert.ErrorIs(t, err, transaction.ErrDateOutsideWindow)
}

func TestService_ImportBatch_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	windows := transaction.NewMockWindowSource(ctrl)
	svc := transaction.NewService(repo, windows)

	result, err := svc.ImportBatch(context.Background(), uuid.New(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.New)
}

func TestService_CreateBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	repo := transaction.NewMockRepository(ctrl)
	windows := transaction.NewMockWindowSource(ctrl)
	allowWindow(windows)
	itx := transaction.NewMockImportTx(ctrl)
	svc := transaction.NewService(repo, windows)

	day := time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC)
	params := []transaction.CreateParams{
		{
			Amount:         1000,
			Type:           transaction.TypeExpense,
			Category:       "Food",
			Description:    "Coffee",
			RawDescription: "COFFEE SHOP",
			Date:           day,
		},
	}

	repo.EXPECT().BeginImport(gomock.Any(), userID, day, day).Return(itx, nil)
	itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Any()).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	txs, err := svc.CreateBatch(context.Background(), userID, params)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, int64(1000), txs[0].Amount)
	assert.Equal(t, "Food", txs[0].Category)
}
