package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountPending(t *testing.T) {
	tests := []struct {
		name   string
		orders []WorkOrder
		want   int
	}{
		{name: "nil", orders: nil, want: 0},
		{name: "empty", orders: []WorkOrder{}, want: 0},
		{
			name: "mixed",
			orders: []WorkOrder{
				{Status: StatusPendente},
				{Status: StatusConcluida},
				{Status: StatusEmAndamento},
			},
			want: 2,
		},
		{
			name: "none pending",
			orders: []WorkOrder{
				{Status: StatusConcluida},
				{Status: StatusCancelada},
				{Status: "arquivada"},
			},
			want: 0,
		},
		{
			name: "status match is exact",
			orders: []WorkOrder{
				{Status: "Pendente"},
				{Status: "em andamento"},
				{Status: StatusPendente},
			},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountPending(tt.orders))
		})
	}
}

func TestCountPendingIgnoresOrder(t *testing.T) {
	orders := []WorkOrder{
		{Status: StatusEmAndamento},
		{Status: StatusConcluida},
		{Status: StatusPendente},
		{Status: StatusCancelada},
		{Status: StatusPendente},
	}
	want := CountPending(orders)

	reversed := make([]WorkOrder, len(orders))
	for i := range orders {
		reversed[len(orders)-1-i] = orders[i]
	}

	assert.Equal(t, 3, want)
	assert.Equal(t, want, CountPending(reversed))
}

func TestWorkOrderStatusValid(t *testing.T) {
	assert.True(t, StatusPendente.Valid())
	assert.True(t, StatusCancelada.Valid())
	assert.False(t, WorkOrderStatus("").Valid())
	assert.False(t, WorkOrderStatus("done").Valid())
}
