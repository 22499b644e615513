package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dentallab/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupValidator(t *testing.T) {
	// Should not panic
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	assert.True(t, ok)
	assert.NotNil(t, v)
}

func TestFormatValidationErrors(t *testing.T) {
	type overrideRequest struct {
		Adjustment string `json:"adjustment" binding:"required"`
		Reason     string `json:"reason" binding:"required,min=3"`
	}

	SetupValidator()

	router := gin.New()
	router.POST("/test", func(c *gin.Context) {
		var req overrideRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	t.Run("returns field details for invalid input", func(t *testing.T) {
		body := strings.NewReader(`{"reason": "ab"}`)
		req := httptest.NewRequest("POST", "/test", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		require.NoError(t, err)

		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Equal(t, "Request validation failed", resp.Error.Message)
		require.Len(t, resp.Error.Details, 2)

		// Field names come from the json tags, not the Go field names
		fields := []string{resp.Error.Details[0].Field, resp.Error.Details[1].Field}
		assert.Contains(t, fields, "adjustment")
		assert.Contains(t, fields, "reason")
	})

	t.Run("passes valid input through", func(t *testing.T) {
		body := strings.NewReader(`{"adjustment": "10.00", "reason": "extra shade adjustment"}`)
		req := httptest.NewRequest("POST", "/test", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestGetValidationMessage(t *testing.T) {
	type probe struct {
		Required string `binding:"required"`
		Min      string `binding:"min=5"`
		UUID     string `binding:"uuid"`
		OneOf    string `binding:"oneof=asc desc"`
		GTE      int    `binding:"gte=10"`
	}

	err := binding.Validator.ValidateStruct(probe{Min: "ab", UUID: "nope", OneOf: "up", GTE: 3})
	require.Error(t, err)

	validationErrs, ok := err.(validator.ValidationErrors)
	require.True(t, ok)

	messages := make(map[string]string, len(validationErrs))
	for _, e := range validationErrs {
		messages[e.Tag()] = getValidationMessage(e)
	}

	assert.Equal(t, "This field is required", messages["required"])
	assert.Equal(t, "Must be at least 5 characters", messages["min"])
	assert.Equal(t, "Invalid UUID format", messages["uuid"])
	assert.Equal(t, "Must be one of: asc desc", messages["oneof"])
	assert.Equal(t, "Must be greater than or equal to 10", messages["gte"])
}
