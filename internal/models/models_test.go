package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectivePrice(t *testing.T) {
	b := Booking{Service: Service{Price: 250}}
	assert.Equal(t, 250.0, b.EffectivePrice())

	override := 300.0
	b.AmountOverride = &override
	assert.Equal(t, 300.0, b.EffectivePrice())
}
