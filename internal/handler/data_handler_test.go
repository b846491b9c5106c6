package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"meal-planner/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDataService is a mock implementation of DataService.
type MockDataService struct {
	mock.Mock
}

func (m *MockDataService) Export(ctx context.Context) (*model.ExportDocument, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ExportDocument), args.Error(1)
}

func (m *MockDataService) Import(ctx context.Context, raw []byte) (*model.ImportResult, error) {
	args := m.Called(ctx, raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ImportResult), args.Error(1)
}

func (m *MockDataService) Clear(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockDataService) Backup(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

func (m *MockDataService) Restore(ctx context.Context, name string) (*model.ImportResult, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ImportResult), args.Error(1)
}

// MockShoppingService is a mock implementation of ShoppingService.
type MockShoppingService struct {
	mock.Mock
}

func (m *MockShoppingService) Generate(ctx context.Context, start time.Time) (*model.ShoppingList, error) {
	args := m.Called(ctx, start)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShoppingList), args.Error(1)
}

func (m *MockShoppingService) Weeks(now time.Time) []model.WeekOption {
	return m.Called(now).Get(0).([]model.WeekOption)
}

var handlerNow = time.Date(2024, 1, 17, 9, 0, 0, 0, time.UTC)

func TestDataHandler_Export(t *testing.T) {
	mockService := new(MockDataService)
	handler := NewDataHandler(mockService, zerolog.Nop())
	handler.now = func() time.Time { return handlerNow }

	doc := &model.ExportDocument{
		Recipes:    []model.Recipe{{ID: "R1", Name: "Soup"}},
		MealPlans:  map[string]model.MealPlan{},
		ExportDate: "2024-01-17T09:00:00.000Z",
	}
	mockService.On("Export", mock.Anything).Return(doc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/data/export", nil)
	rec := httptest.NewRecorder()
	handler.Export(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="meal-planner-export-2024-01-17.json"`, rec.Header().Get("Content-Disposition"))

	var got model.ExportDocument
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, doc.ExportDate, got.ExportDate)
	assert.Len(t, got.Recipes, 1)
}

func TestDataHandler_Import(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockReturn     *model.ImportResult
		mockError      error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "Success",
			body:           `{"recipes":[]}`,
			mockReturn:     &model.ImportResult{RecipesImported: true},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Import failed",
			body:           `not json`,
			mockError:      model.ErrImportFailed,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeImportFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockDataService)
			handler := NewDataHandler(mockService, zerolog.Nop())

			mockService.On("Import", mock.Anything, []byte(tt.body)).Return(tt.mockReturn, tt.mockError)

			req := httptest.NewRequest(http.MethodPost, "/api/data/import", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			handler.Import(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeError(t, rec).Error)
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestDataHandler_Clear(t *testing.T) {
	mockService := new(MockDataService)
	handler := NewDataHandler(mockService, zerolog.Nop())

	mockService.On("Clear", mock.Anything).Return(nil).Once()
	mockService.On("Clear", mock.Anything).Return(errors.New("database error")).Once()

	req := httptest.NewRequest(http.MethodDelete, "/api/data", nil)
	rec := httptest.NewRecorder()
	handler.Clear(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	handler.Clear(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	mockService.AssertExpectations(t)
}

func TestShoppingHandler_List(t *testing.T) {
	sunday := time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC)
	list := &model.ShoppingList{StartDate: "2024-01-14", EndDate: "2024-01-20", Items: []model.ShoppingItem{}}

	tests := []struct {
		name           string
		url            string
		expectedStart  time.Time
		callService    bool
		expectedStatus int
	}{
		{
			name:           "Defaults to current week",
			url:            "/api/shopping-list",
			expectedStart:  sunday,
			callService:    true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Explicit start",
			url:            "/api/shopping-list?start=2024-01-10",
			expectedStart:  time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			callService:    true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Invalid start",
			url:            "/api/shopping-list?start=next-week",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockShoppingService)
			handler := NewShoppingHandler(mockService, zerolog.Nop())
			handler.now = func() time.Time { return handlerNow }

			if tt.callService {
				mockService.On("Generate", mock.Anything, tt.expectedStart).Return(list, nil)
			}

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			rec := httptest.NewRecorder()
			handler.List(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestShoppingHandler_Weeks(t *testing.T) {
	mockService := new(MockShoppingService)
	handler := NewShoppingHandler(mockService, zerolog.Nop())
	handler.now = func() time.Time { return handlerNow }

	options := []model.WeekOption{{Value: "2024-01-14", Label: "Jan 14 - Jan 20"}}
	mockService.On("Weeks", handlerNow).Return(options)

	req := httptest.NewRequest(http.MethodGet, "/api/shopping-list/weeks", nil)
	rec := httptest.NewRecorder()
	handler.Weeks(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var got []model.WeekOption
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, options, got)
}

// stubPinger is a Pinger with a fixed result.
type stubPinger struct {
	err error
}

func (p stubPinger) Ping(ctx context.Context) error { return p.err }
func (p stubPinger) Name() string                   { return "local" }

func TestHealthHandler_Check(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)

	rec := httptest.NewRecorder()
	NewHealthHandler(stubPinger{}, zerolog.Nop()).Check(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","store":"local"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	NewHealthHandler(stubPinger{err: errors.New("disk gone")}, zerolog.Nop()).Check(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
