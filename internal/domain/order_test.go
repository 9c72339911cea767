package domain_test

import (
	"testing"

	"github.com/vladislavdragonenkov/wholesalebox/internal/domain"
)

func TestOrderStatus_NextStatuses(t *testing.T) {
	cases := []struct {
		status domain.OrderStatus
		next   []domain.OrderStatus
	}{
		{domain.OrderStatusPending, []domain.OrderStatus{domain.OrderStatusApproved, domain.OrderStatusRejected}},
		{domain.OrderStatusApproved, []domain.OrderStatus{domain.OrderStatusDelivered}},
		{domain.OrderStatusProcessing, nil},
		{domain.OrderStatusDelivered, nil},
		{domain.OrderStatusRejected, nil},
	}

	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			got := tc.status.NextStatuses()
			if len(got) != len(tc.next) {
				t.Fatalf("expected %v, got %v", tc.next, got)
			}
			for i := range got {
				if got[i] != tc.next[i] {
					t.Fatalf("expected %v, got %v", tc.next, got)
				}
			}
		})
	}
}

func TestOrderStatus_TerminalStatesOfferNothing(t *testing.T) {
	// Delivered -> * и Rejected -> * не предлагаются вовсе.
	terminal := []domain.OrderStatus{domain.OrderStatusDelivered, domain.OrderStatusRejected}
	all := []domain.OrderStatus{
		domain.OrderStatusPending, domain.OrderStatusApproved, domain.OrderStatusProcessing,
		domain.OrderStatusDelivered, domain.OrderStatusRejected,
	}

	for _, from := range terminal {
		for _, to := range all {
			if from.CanTransition(to) {
				t.Fatalf("transition %s -> %s must not be allowed", from, to)
			}
		}
	}
}

func TestOrderStatus_Group(t *testing.T) {
	cases := []struct {
		status domain.OrderStatus
		group  domain.StatusGroup
	}{
		{domain.OrderStatusPending, domain.GroupPending},
		{domain.OrderStatusApproved, domain.GroupApproved},
		// Processing отображается в секции Approved.
		{domain.OrderStatusProcessing, domain.GroupApproved},
		{domain.OrderStatusDelivered, domain.GroupDelivered},
		{domain.OrderStatusRejected, domain.GroupRejected},
	}

	for _, tc := range cases {
		if got := tc.status.Group(); got != tc.group {
			t.Errorf("%s: expected group %s, got %s", tc.status, tc.group, got)
		}
	}
}

func TestOrderItem_Subtotal(t *testing.T) {
	item := domain.OrderItem{ProductName: "Soap", Quantity: 3, Unit: "pcs", Price: 20}
	if got := item.Subtotal(); got != 60 {
		t.Fatalf("expected subtotal 60, got %v", got)
	}
}
