package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/pbaille/probtrack/internal/domain"
	"github.com/pbaille/probtrack/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	s := store.New(filepath.Join(t.TempDir(), "problems.json"))
	return New(s, ":0"), s
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv, _ := testServer(t)
	rec := doJSON(t, srv.Handler(), "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAddProblem(t *testing.T) {
	srv, s := testServer(t)

	rec := doJSON(t, srv.Handler(), "POST", "/problems", AddProblemRequest{
		Name:     "A Plus B",
		Platform: "DMOJ",
		Link:     "https://dmoj.ca/problem/aplusb",
		Value:    5,
		Scale:    "dmoj",
		Tags:     []string{"math"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var got domain.Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 5, got.Difficulty)
	assert.Equal(t, domain.StatusUnsolved, got.Status)

	problems, err := s.Load()
	require.NoError(t, err)
	assert.Len(t, problems, 1)
}

func TestAddProblem_Validation(t *testing.T) {
	srv, _ := testServer(t)

	rec := doJSON(t, srv.Handler(), "POST", "/problems", AddProblemRequest{
		Platform: "DMOJ",
		Link:     "https://dmoj.ca/problem/aplusb",
		Value:    5,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateStatus(t *testing.T) {
	srv, s := testServer(t)
	_, err := s.Add(store.AddRequest{
		Name:     "Target",
		Platform: "DMOJ",
		Link:     "https://dmoj.ca/problem/target",
		Value:    10,
		Scale:    domain.ScaleDMOJ,
	})
	require.NoError(t, err)

	rec := doJSON(t, srv.Handler(), "POST", "/problems/status", UpdateStatusRequest{
		Link:   "https://dmoj.ca/problem/target",
		Status: "solved",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	problems, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSolved, problems[0].Status)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	srv, _ := testServer(t)

	rec := doJSON(t, srv.Handler(), "POST", "/problems/status", UpdateStatusRequest{
		Link:   "https://dmoj.ca/problem/ghost",
		Status: "solved",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateStatus_BadStatus(t *testing.T) {
	srv, _ := testServer(t)

	rec := doJSON(t, srv.Handler(), "POST", "/problems/status", UpdateStatusRequest{
		Link:   "https://dmoj.ca/problem/target",
		Status: "bogus",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListProblems_Filtered(t *testing.T) {
	srv, s := testServer(t)
	for _, cf := range []int{900, 1000, 1250, 1500, 1600} {
		_, err := s.Add(store.AddRequest{
			Name:     "p",
			Platform: "Codeforces",
			Link:     fmt.Sprintf("https://codeforces.com/p/%d", cf),
			Value:    cf,
			Scale:    domain.ScaleCF,
		})
		require.NoError(t, err)
	}

	rec := doJSON(t, srv.Handler(), "GET", "/problems?scale=cf&min=1000&max=1500", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Problems []domain.Problem `json:"problems"`
		Count    int              `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Count)
	for _, p := range resp.Problems {
		assert.GreaterOrEqual(t, p.CFRating, 1000)
		assert.LessOrEqual(t, p.CFRating, 1500)
	}
}

func TestListProblems_BadBound(t *testing.T) {
	srv, _ := testServer(t)

	rec := doJSON(t, srv.Handler(), "GET", "/problems?min=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListTags(t *testing.T) {
	srv, _ := testServer(t)

	rec := doJSON(t, srv.Handler(), "GET", "/tags", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Tags []string `json:"tags"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Tags, "graph theory")
}

func TestConvert(t *testing.T) {
	srv, _ := testServer(t)

	rec := doJSON(t, srv.Handler(), "GET", "/convert?value=10&from=dmoj", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 10, resp["difficulty"])
	assert.Zero(t, resp["cf_rating"]%25)
}

func TestConvert_BadValue(t *testing.T) {
	srv, _ := testServer(t)

	rec := doJSON(t, srv.Handler(), "GET", "/convert?value=ten", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
