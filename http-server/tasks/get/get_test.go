package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"agency-dashboard/internal/storage"
)

type MockTaskLister struct {
	mock.Mock
}

func (m *MockTaskLister) ListTasks(ctx context.Context, f storage.Filter) ([]storage.Task, error) {
	args := m.Called(ctx, f)
	if v := args.Get(0); v != nil {
		return v.([]storage.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestGetTasks(t *testing.T) {
	lister := new(MockTaskLister)
	lister.On("ListTasks", mock.Anything, storage.Filter{WorkspaceID: "w1"}).
		Return([]storage.Task{{ID: "t1", Title: "Reel", Version: 2}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks?workspaceId=w1", nil)
	rr := httptest.NewRecorder()
	GetTasks(slog.Default(), lister).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"title":"Reel"`)
	lister.AssertExpectations(t)
}

func TestGetTasks_EmptyIsArray(t *testing.T) {
	lister := new(MockTaskLister)
	lister.On("ListTasks", mock.Anything, storage.Filter{}).Return(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	rr := httptest.NewRecorder()
	GetTasks(slog.Default(), lister).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestGetTasks_Error(t *testing.T) {
	lister := new(MockTaskLister)
	lister.On("ListTasks", mock.Anything, mock.Anything).Return(nil, errors.New("sheet unavailable"))

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	rr := httptest.NewRecorder()
	GetTasks(slog.Default(), lister).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
