package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/banking-records-ledger/internal/banking"
	"github.com/banking-records-ledger/internal/domain/credential"
	"github.com/banking-records-ledger/internal/domain/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestInterestHandler_Apply(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockInterestService)
		handler := NewInterestHandler(testLogger(), mockService)

		run := &banking.InterestRun{
			Applied: []*ledger.InterestEntry{{
				AccountNumber:  "2004",
				Date:           time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
				InterestAmount: decimal.RequireFromString("2.5"),
				RatePercent:    decimal.RequireFromString("0.25"),
			}},
			Skipped: 1,
		}
		mockService.On("Apply", mock.Anything, credential.Admin()).Return(run, nil)

		router := setupTestRouter()
		router.POST("/interest/apply", handler.Apply)

		w := performRequest(t, router, http.MethodPost, "/interest/apply", nil, asAdmin)

		assert.Equal(t, http.StatusOK, w.Code)
		_, data := decodeResponse(t, w)
		assert.Equal(t, float64(1), data["skipped"])
		applied, ok := data["applied"].([]any)
		require.True(t, ok)
		require.Len(t, applied, 1)
		entry := applied[0].(map[string]any)
		assert.Equal(t, "2024-03-15", entry["date"])
		assert.Equal(t, "2.50", entry["interest_amount"])
		assert.Equal(t, "0.25%", entry["rate_percent"])
	})

	t.Run("NothingToApply", func(t *testing.T) {
		mockService := new(MockInterestService)
		handler := NewInterestHandler(testLogger(), mockService)
		mockService.On("Apply", mock.Anything, credential.Admin()).Return(&banking.InterestRun{Skipped: 3}, nil)

		router := setupTestRouter()
		router.POST("/interest/apply", handler.Apply)

		w := performRequest(t, router, http.MethodPost, "/interest/apply", nil, asAdmin)

		assert.Equal(t, http.StatusOK, w.Code)
		_, data := decodeResponse(t, w)
		assert.Empty(t, data["applied"])
	})

	t.Run("NotAdmin", func(t *testing.T) {
		mockService := new(MockInterestService)
		handler := NewInterestHandler(testLogger(), mockService)
		mockService.On("Apply", mock.Anything, credential.User("2004")).
			Return(nil, credential.User("2004").AuthorizeAdmin("apply interest"))

		router := setupTestRouter()
		router.POST("/interest/apply", handler.Apply)

		w := performRequest(t, router, http.MethodPost, "/interest/apply", nil, asOwner)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestInterestHandler_History(t *testing.T) {
	mockService := new(MockInterestService)
	handler := NewInterestHandler(testLogger(), mockService)

	entries := []*ledger.InterestEntry{
		{AccountNumber: "2004", Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), InterestAmount: decimal.RequireFromString("2.5"), RatePercent: decimal.RequireFromString("0.25")},
		{AccountNumber: "2004", Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), InterestAmount: decimal.RequireFromString("2.51"), RatePercent: decimal.RequireFromString("0.25")},
	}
	mockService.On("History", mock.Anything, credential.Admin()).Return(entries, nil)

	router := setupTestRouter()
	router.GET("/interest/history", handler.History)

	w := performRequest(t, router, http.MethodGet, "/interest/history", nil, asAdmin)

	assert.Equal(t, http.StatusOK, w.Code)
	response, _ := decodeResponse(t, w)
	items, ok := response.Data.([]any)
	require.True(t, ok)
	require.Len(t, items, 2)
	assert.Equal(t, "2.51", items[1].(map[string]any)["interest_amount"])
}
