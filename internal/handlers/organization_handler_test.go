package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiostorm/server/internal/models"
	"github.com/studiostorm/server/internal/repository"
)

type stubOrganizationRepo struct {
	repository.OrganizationRepo
	orgs []*models.Organization
	err  error
}

func (s *stubOrganizationRepo) GetAll(ctx context.Context) ([]*models.Organization, error) {
	return s.orgs, s.err
}

func TestOrganizationHandler_ListOrganizations(t *testing.T) {
	newRouter := func(repo *stubOrganizationRepo) *chi.Mux {
		handler := NewOrganizationHandler(repo)
		r := chi.NewRouter()
		r.Get("/api/organizations", handler.ListOrganizations)
		return r
	}

	t.Run("returns the organizations in id order", func(t *testing.T) {
		router := newRouter(&stubOrganizationRepo{orgs: []*models.Organization{
			{ID: 1, Name: "Atletieknieuws", Website: "https://atletieknieuws.be", Description: "Belgisch atletieknieuwsplatform"},
			{ID: 2, Name: "Agones Media"},
		}})

		req := httptest.NewRequest(http.MethodGet, "/api/organizations", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var body []models.Organization
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body, 2)
		assert.Equal(t, int64(1), body[0].ID)
		assert.Equal(t, "Atletieknieuws", body[0].Name)
		assert.Equal(t, "https://atletieknieuws.be", body[0].Website)
		assert.Equal(t, "Agones Media", body[1].Name)
	})

	t.Run("returns an empty array when none exist", func(t *testing.T) {
		router := newRouter(&stubOrganizationRepo{orgs: []*models.Organization{}})

		req := httptest.NewRequest(http.MethodGet, "/api/organizations", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("reports a store failure as 500", func(t *testing.T) {
		router := newRouter(&stubOrganizationRepo{err: errors.New("connection reset")})

		req := httptest.NewRequest(http.MethodGet, "/api/organizations", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "Failed to fetch organizations")
	})
}
