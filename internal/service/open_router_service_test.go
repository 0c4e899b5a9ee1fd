package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenRouter(t *testing.T, content string, status int) *OpenRouterService {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"content": content}}},
		})
	}))
	t.Cleanup(srv.Close)
	return &OpenRouterService{
		APIKey: "test-key",
		Model:  "test-model",
		client: resty.New().SetBaseURL(srv.URL),
	}
}

func TestExtractJob_ParsesFencedJSON(t *testing.T) {
	s := newTestOpenRouter(t, "```json\n{\"title\":\"Senior Go Engineer\",\"role\":\"Backend Engineer\",\"skills\":[\"Go\",\" \",\"PostgreSQL\"]}\n```", http.StatusOK)

	fields, err := s.ExtractJob(context.Background(), "We are hiring a Go engineer")
	require.NoError(t, err)
	assert.Equal(t, "Senior Go Engineer", fields.Title)
	assert.Equal(t, "Backend Engineer", fields.Role)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, fields.Skills)
}

func TestExtractResume_LowercasesEmail(t *testing.T) {
	s := newTestOpenRouter(t, `{"name":"Asha Rao","email":"Asha.Rao@Example.com","experience_years":4.5}`, http.StatusOK)

	fields, err := s.ExtractResume(context.Background(), "resume text")
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", fields.Name)
	assert.Equal(t, "asha.rao@example.com", fields.Email)
	assert.InDelta(t, 4.5, fields.ExperienceYears, 0.001)
}

func TestExtractJob_ErrorStatus(t *testing.T) {
	s := newTestOpenRouter(t, "", http.StatusBadGateway)

	_, err := s.ExtractJob(context.Background(), "text")
	assert.Error(t, err)
}

func TestExtractJob_RejectsProse(t *testing.T) {
	s := newTestOpenRouter(t, "I could not find a job description.", http.StatusOK)

	_, err := s.ExtractJob(context.Background(), "text")
	assert.Error(t, err)
}
