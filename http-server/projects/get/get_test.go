package get

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"agency-dashboard/internal/storage"
)

type MockProjectLister struct {
	mock.Mock
}

func (m *MockProjectLister) ListProjects(ctx context.Context, f storage.Filter) ([]storage.Project, error) {
	args := m.Called(ctx, f)
	if v := args.Get(0); v != nil {
		return v.([]storage.Project), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestGetProjects(t *testing.T) {
	lister := new(MockProjectLister)
	lister.On("ListProjects", mock.Anything, storage.Filter{WorkspaceID: "w1"}).
		Return([]storage.Project{{ID: "p1", Name: "Acme", Status: "active"}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/projects?workspaceId=w1", nil)
	rr := httptest.NewRecorder()
	GetProjects(slog.Default(), lister).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"Acme"`)
	lister.AssertExpectations(t)
}
