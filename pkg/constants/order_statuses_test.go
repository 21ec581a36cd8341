package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStatus(t *testing.T) {
	cases := map[string]string{
		"PTE_PAGO":      StatusPendingPayment,
		"PAGADO":        StatusPaid,
		"EN_PROCESO":    StatusCutting,
		"IN_PROCESS":    StatusCutting,
		"CORTE":         StatusCutting,
		"COSTURA":       StatusSewing,
		"TAPIZADO":      StatusUpholstery,
		"CONTROL":       StatusQualityControl,
		"PTE_ENVIO":     StatusReadyToShip,
		"ENVIADO":       StatusShipped,
		"ENTREGADO":     StatusDelivered,
		"CANCELADO":     StatusCancelled,
		StatusCutting:   StatusCutting,
		StatusDelivered: StatusDelivered,
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeStatus(in), "input %q", in)
	}
}

func TestNormalizeStatusUnknownPassesThrough(t *testing.T) {
	assert.Equal(t, "SOMETHING_ELSE", NormalizeStatus("SOMETHING_ELSE"))
	assert.Equal(t, "", NormalizeStatus(""))
}

func TestStatusPredicates(t *testing.T) {
	assert.True(t, IsProductionStatus(StatusSewing))
	assert.False(t, IsProductionStatus(StatusPaid))
	assert.True(t, IsProductionStatus("TAPIZADO"), "legacy spellings count")

	assert.True(t, IsFinalStatus(StatusCancelled))
	assert.True(t, IsFinalStatus("ENTREGADO"))
	assert.False(t, IsFinalStatus(StatusShipped))

	assert.True(t, IsActiveStatus(StatusReadyToShip))
	assert.False(t, IsActiveStatus(StatusShipped))
	assert.False(t, IsActiveStatus(StatusPendingPayment))
}
