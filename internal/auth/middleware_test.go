package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	v := NewVerifier("test-secret")
	token, err := v.Issue("user-1", time.Hour)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", RequireUser(v), func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		require.True(t, ok)
		c.String(http.StatusOK, id.UserID)
	})

	tests := []struct {
		name           string
		header         string
		expectedStatus int
		expectedBody   string
	}{
		{name: "missing header", expectedStatus: http.StatusUnauthorized, expectedBody: `{"error":"authorization header required"}`},
		{name: "invalid token", header: "Bearer nope", expectedStatus: http.StatusUnauthorized, expectedBody: `{"error":"invalid token"}`},
		{name: "valid token", header: "Bearer " + token, expectedStatus: http.StatusOK, expectedBody: "user-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedBody, w.Body.String())
		})
	}
}
