package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutriplan/internal/auth"
	"nutriplan/internal/service"
	"nutriplan/models"
	"nutriplan/pkg/logger"
)

const testJWTSecret = "test-secret"

func newTestLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:  logger.LevelError,
		Format: "text",
		Output: "stderr",
	})
}

func signToken(t *testing.T, userID, role string) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": userID}
	if role != "" {
		claims["role"] = role
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

type fakeCloneService struct {
	result      *models.CloneResult
	err         error
	gotTemplate string
	gotUser     string
}

func (f *fakeCloneService) Clone(templateID, requestingUserID string) (*models.CloneResult, error) {
	f.gotTemplate = templateID
	f.gotUser = requestingUserID
	return f.result, f.err
}

func cloneRequestBody(t *testing.T, templateID string) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(map[string]string{"templateId": templateID})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func doClone(t *testing.T, svc service.CloneServiceInterface, body *bytes.Buffer, token string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewCloneHandler(svc, newTestLogger())
	authenticator := auth.NewAuthenticator(testJWTSecret, newTestLogger())

	req := httptest.NewRequest(http.MethodPost, "/clone", body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	authenticator.RequireAuth(h.Clone)(rec, req)
	return rec
}

func TestCloneHandlerSuccess(t *testing.T) {
	svc := &fakeCloneService{result: &models.CloneResult{NewPlanID: "new-plan-1"}}

	rec := doClone(t, svc, cloneRequestBody(t, "tpl-1"), signToken(t, "user-1", ""))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tpl-1", svc.gotTemplate)
	assert.Equal(t, "user-1", svc.gotUser)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "new-plan-1", resp["dietPlanId"])
	assert.NotContains(t, resp, "partial")
}

func TestCloneHandlerPartial(t *testing.T) {
	svc := &fakeCloneService{result: &models.CloneResult{
		NewPlanID: "new-plan-1",
		Errors: []models.CloneError{
			{Type: models.CloneErrorMeal, TemplateMealID: "tmeal-1", Error: "meal insert failed"},
		},
	}}

	rec := doClone(t, svc, cloneRequestBody(t, "tpl-1"), signToken(t, "user-1", ""))

	assert.Equal(t, http.StatusMultiStatus, rec.Code)

	var resp struct {
		Success    bool                `json:"success"`
		DietPlanID string              `json:"dietPlanId"`
		Partial    bool                `json:"partial"`
		Errors     []models.CloneError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.Partial)
	assert.Equal(t, "new-plan-1", resp.DietPlanID)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, models.CloneErrorMeal, resp.Errors[0].Type)
	assert.Equal(t, "tmeal-1", resp.Errors[0].TemplateMealID)
}

func TestCloneHandlerMissingToken(t *testing.T) {
	svc := &fakeCloneService{}

	rec := doClone(t, svc, cloneRequestBody(t, "tpl-1"), "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, svc.gotTemplate, "service must not be called without a token")
}

func TestCloneHandlerBadToken(t *testing.T) {
	claims := jwt.MapClaims{"sub": "user-1"}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("wrong-secret"))
	require.NoError(t, err)

	rec := doClone(t, &fakeCloneService{}, cloneRequestBody(t, "tpl-1"), signed)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCloneHandlerMissingTemplateID(t *testing.T) {
	rec := doClone(t, &fakeCloneService{}, cloneRequestBody(t, ""), signToken(t, "user-1", ""))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.Contains(t, resp["error"], "templateId")
}

func TestCloneHandlerInvalidBody(t *testing.T) {
	rec := doClone(t, &fakeCloneService{}, bytes.NewBufferString("{not json"), signToken(t, "user-1", ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCloneHandlerUnknownField(t *testing.T) {
	body := bytes.NewBufferString(`{"templateId":"tpl-1","bogus":true}`)
	rec := doClone(t, &fakeCloneService{}, body, signToken(t, "user-1", ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCloneHandlerTemplateNotFound(t *testing.T) {
	svc := &fakeCloneService{err: fmt.Errorf("template tpl-x: %w", service.ErrTemplateNotFound)}

	rec := doClone(t, svc, cloneRequestBody(t, "tpl-x"), signToken(t, "user-1", ""))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCloneHandlerInternalError(t *testing.T) {
	svc := &fakeCloneService{err: errors.New("store unavailable")}

	rec := doClone(t, svc, cloneRequestBody(t, "tpl-1"), signToken(t, "user-1", ""))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCloneHandlerMethodNotAllowed(t *testing.T) {
	h := NewCloneHandler(&fakeCloneService{}, newTestLogger())
	authenticator := auth.NewAuthenticator(testJWTSecret, newTestLogger())

	req := httptest.NewRequest(http.MethodGet, "/clone", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "user-1", ""))
	rec := httptest.NewRecorder()
	authenticator.RequireAuth(h.Clone)(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
