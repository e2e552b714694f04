package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// La máquina de estados de envíos es cerrada: Draft -> Signed -> Cancelled.
// Cada transición solo es válida desde un estado concreto.
func TestShipmentStatus_Transiciones(t *testing.T) {
	cases := []struct {
		status    entity.ShipmentStatus
		canUpdate bool
		canSign   bool
		canCancel bool
	}{
		{entity.StatusDraft, true, true, false},
		{entity.StatusSigned, false, false, true},
		{entity.StatusCancelled, false, false, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			assert.Equal(t, tc.canUpdate, tc.status.CanUpdate())
			assert.Equal(t, tc.canSign, tc.status.CanSign())
			assert.Equal(t, tc.canCancel, tc.status.CanCancel())
		})
	}
}

func TestShipmentStatus_Valid(t *testing.T) {
	assert.True(t, entity.StatusDraft.Valid())
	assert.True(t, entity.StatusSigned.Valid())
	assert.True(t, entity.StatusCancelled.Valid())
	assert.False(t, entity.ShipmentStatus("pending").Valid())
	assert.False(t, entity.ShipmentStatus("").Valid())
}
