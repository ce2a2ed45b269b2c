package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qfast/qfast/internal/auth"
	"github.com/qfast/qfast/internal/draft"
	"github.com/qfast/qfast/internal/kv"
)

func authedRequest(method, target string, body string) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	id := &auth.Identity{UserID: uuid.New(), Email: "user@example.com"}
	return r.WithContext(auth.WithIdentity(r.Context(), id))
}

func newDraftHandler() *DraftHandler {
	manager := draft.NewManager(draft.Deps{Logger: testLogger()}, kv.NewMemoryStore())
	return NewDraftHandler(manager, testLogger())
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var state map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	return state
}

func TestDraftGetReturnsInitialState(t *testing.T) {
	h := newDraftHandler()
	rec := httptest.NewRecorder()

	h.Get(rec, authedRequest(http.MethodGet, "/api/draft", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	state := decodeState(t, rec)
	assert.Equal(t, float64(1), state["current_step"])
	assert.Equal(t, float64(21), state["tax_rate"])
	assert.Equal(t, false, state["tax_included"])
	assert.Len(t, state["items"], 1)
}

func TestDraftItemsUpdateRecomputesTotals(t *testing.T) {
	h := newDraftHandler()
	r := authedRequest(http.MethodPut, "/api/draft/items", `{
		"items": [{"description": "Work", "quantity": 2, "unit_price": 100, "tax_rate": 21}],
		"tax_included": true
	}`)
	rec := httptest.NewRecorder()

	h.UpdateItems(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	state := decodeState(t, rec)
	totals := state["totals"].(map[string]interface{})
	assert.Equal(t, 200.0, totals["subtotal"])
	assert.Equal(t, 42.0, totals["tax_total"])
	assert.Equal(t, 242.0, totals["total"])
}

func TestDraftSaveWithoutDataFailsValidation(t *testing.T) {
	h := newDraftHandler()
	rec := httptest.NewRecorder()

	h.Save(rec, authedRequest(http.MethodPost, "/api/draft/save", ""))

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Error struct {
			Violations []string `json:"violations"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Error.Violations)
}

func TestDraftStepEndpointsClamp(t *testing.T) {
	h := newDraftHandler()
	userReq := authedRequest(http.MethodPost, "/api/draft/previous", "")

	rec := httptest.NewRecorder()
	h.PreviousStep(rec, userReq)

	state := decodeState(t, rec)
	assert.Equal(t, float64(1), state["current_step"], "previous at the first step stays put")
}

func TestDraftBlurFocusCycle(t *testing.T) {
	h := newDraftHandler()
	userID := uuid.New()
	withUser := func(method, target, body string) *http.Request {
		r := httptest.NewRequest(method, target, strings.NewReader(body))
		return r.WithContext(auth.WithIdentity(r.Context(), &auth.Identity{UserID: userID}))
	}

	rec := httptest.NewRecorder()
	h.UpdateItems(rec, withUser(http.MethodPut, "/api/draft/items",
		`{"items": [{"description": "Work", "quantity": 1, "unit_price": 10}]}`))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.Blur(rec, withUser(http.MethodPost, "/api/draft/blur", ""))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "suspended")

	rec = httptest.NewRecorder()
	h.Focus(rec, withUser(http.MethodPost, "/api/draft/focus", ""))
	require.Equal(t, http.StatusOK, rec.Code)
	state := decodeState(t, rec)
	assert.Equal(t, "resuming", state["phase"])

	items := state["items"].([]interface{})
	first := items[0].(map[string]interface{})
	assert.Equal(t, "Work", first["description"], "focus restores the blurred draft")
}
