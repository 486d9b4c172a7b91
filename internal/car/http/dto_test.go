package http

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEngineType(t *testing.T) {
	v := validator.New()
	require.NoError(t, v.RegisterValidation(EngineTypeTag, ValidateEngineType))

	assert.NoError(t, v.Var("Diesel", EngineTypeTag))
	assert.NoError(t, v.Var("Hybrid", EngineTypeTag))
	assert.Error(t, v.Var("Electric", EngineTypeTag))
	assert.Error(t, v.Var("", EngineTypeTag))
}
