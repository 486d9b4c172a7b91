package car

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEngineCapacity(t *testing.T) {
	tests := []struct {
		value float64
		valid bool
	}{
		{0.79, false},
		{0.8, true},
		{2.0, true},
		{8, true},
		{8.01, false},
		{0, false},
		{-1, false},
	}

	for _, tt := range tests {
		err := ValidateEngineCapacity(tt.value)
		if tt.valid {
			assert.NoError(t, err, "capacity %v", tt.value)
		} else {
			assert.ErrorIs(t, err, ErrInvalidEngineCapacity, "capacity %v", tt.value)
		}
	}
}

func TestEngineTypeValid(t *testing.T) {
	for _, et := range []EngineType{EngineDiesel, EnginePetrol, EngineHybrid} {
		assert.True(t, et.Valid(), et)
	}
	for _, et := range []EngineType{"", "Electric", "diesel"} {
		assert.False(t, et.Valid(), et)
	}
}

func TestCarValidate(t *testing.T) {
	valid := Car{Brand: "Toyota", Model: "Corolla", EngineCapacity: 1.6, EngineType: EnginePetrol}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		mutate  func(c *Car)
		wantErr error
	}{
		{"blank brand", func(c *Car) { c.Brand = "  " }, ErrBrandRequired},
		{"blank model", func(c *Car) { c.Model = "" }, ErrModelRequired},
		{"capacity too large", func(c *Car) { c.EngineCapacity = 9 }, ErrInvalidEngineCapacity},
		{"unknown engine", func(c *Car) { c.EngineType = "Steam" }, ErrInvalidEngineType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			assert.ErrorIs(t, c.Validate(), tt.wantErr)
		})
	}
}
