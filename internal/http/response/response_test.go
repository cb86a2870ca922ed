package response

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOKWithData(t *testing.T) {
	resp := OKWithData(map[string]any{"plan": "pro"})
	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.NotNil(t, resp.Data)
}

func TestError(t *testing.T) {
	resp := Error("unauthorized")
	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "unauthorized", resp.Error)
}

func TestValidationError(t *testing.T) {
	type req struct {
		Username string `validate:"required,min=3"`
		Email    string `validate:"required,email"`
	}

	v := validator.New()
	err := v.Struct(req{Username: "ab", Email: "not-an-email"})
	require.Error(t, err)

	resp := ValidationError(err.(validator.ValidationErrors))
	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Error, "Username")
	assert.Contains(t, resp.Error, "Email")
}
