package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsLowStock(t *testing.T) {
	tests := []struct {
		name      string
		quantity  int
		threshold int
		flag      bool
		want      bool
	}{
		{"well stocked, no threshold", 50, 0, false, false},
		{"at threshold", 5, 5, false, true},
		{"below threshold", 3, 5, false, true},
		{"just above threshold", 6, 5, false, false},
		{"hard floor applies without threshold", 1, 0, false, true},
		{"zero quantity", 0, 0, false, true},
		{"floor boundary", 2, 0, false, false},
		{"explicit flag wins", 100, 0, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Product{Quantity: tt.quantity, ReorderThreshold: tt.threshold, LowStockFlag: tt.flag}
			assert.Equal(t, tt.want, p.IsLowStock())
		})
	}
}

func TestProductValidate(t *testing.T) {
	p := NewProduct("Flour", 10, 2.5, 3)
	assert.NoError(t, p.Validate())

	p.Name = "   "
	assert.Equal(t, KindInvalidInput, KindOf(p.Validate()))

	p = NewProduct("Flour", -1, 2.5, 3)
	assert.Equal(t, KindInvalidInput, KindOf(p.Validate()))

	p = NewProduct("Flour", 10, -0.5, 3)
	assert.Equal(t, KindInvalidInput, KindOf(p.Validate()))

	p = NewProduct("Flour", 10, 2.5, -3)
	assert.Equal(t, KindInvalidInput, KindOf(p.Validate()))
}
