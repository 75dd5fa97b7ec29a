package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/service/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJSONContext(body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/api/auth", bytes.NewReader([]byte(body)))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestAuthHandler_register(t *testing.T) {
	mockService := &MockAuthUseCase{}
	handler := NewAuthHandler(mockService)

	c, w := newJSONContext(`{"email":"ann@example.com","password":"secret1"}`)
	mockService.On("Register", c.Request.Context(), "ann@example.com", "secret1").
		Return(&domain.User{ID: 5, Email: "ann@example.com"}, nil)

	handler.register(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"message":"Registered","user_id":5}`, w.Body.String())
	mockService.AssertExpectations(t)
}

func TestAuthHandler_register_errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"duplicate", domain.ErrEmailTaken, http.StatusConflict},
		{"short password", fmt.Errorf("%w: password must be at least 6 characters", domain.ErrInvalidArgument), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockAuthUseCase{}
			handler := NewAuthHandler(mockService)

			c, w := newJSONContext(`{"email":"ann@example.com","password":"x"}`)
			mockService.On("Register", c.Request.Context(), "ann@example.com", "x").Return(nil, tt.err)

			handler.register(c)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestAuthHandler_register_invalidJSON(t *testing.T) {
	mockService := &MockAuthUseCase{}
	handler := NewAuthHandler(mockService)

	c, w := newJSONContext(`not json`)

	handler.register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Register")
}

func TestAuthHandler_login(t *testing.T) {
	mockService := &MockAuthUseCase{}
	handler := NewAuthHandler(mockService)

	c, w := newJSONContext(`{"email":"ann@example.com","password":"secret1"}`)
	mockService.On("Login", c.Request.Context(), "ann@example.com", "secret1").
		Return(&auth.LoginResult{Token: "jwt", ExpiresIn: 14400, UserID: 5}, nil)

	handler.login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var res auth.LoginResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "jwt", res.Token)
	assert.Equal(t, int64(14400), res.ExpiresIn)
	assert.Equal(t, int64(5), res.UserID)
}

func TestAuthHandler_login_invalidCredentials(t *testing.T) {
	mockService := &MockAuthUseCase{}
	handler := NewAuthHandler(mockService)

	c, w := newJSONContext(`{"email":"ann@example.com","password":"wrong"}`)
	mockService.On("Login", c.Request.Context(), "ann@example.com", "wrong").Return(nil, domain.ErrInvalidCredentials)

	handler.login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", decodeError(t, w))
}
