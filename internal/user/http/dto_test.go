package http

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

func TestRegisterRequestEmailBinding(t *testing.T) {
	valid := RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret1"}
	assert.NoError(t, binding.Validator.ValidateStruct(&valid))

	for _, email := range []string{"a@b..c", "x@.y.z", "alice.example.com", ""} {
		req := RegisterRequest{Username: "alice", Email: email, Password: "secret1"}
		assert.Error(t, binding.Validator.ValidateStruct(&req), email)
	}
}

func TestLoginRequestEmailBinding(t *testing.T) {
	req := LoginRequest{Email: "a@b..c", Password: "secret1"}
	assert.Error(t, binding.Validator.ValidateStruct(&req))

	req.Email = "alice@example.com"
	assert.NoError(t, binding.Validator.ValidateStruct(&req))
}
