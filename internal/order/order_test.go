package order

import (
	"testing"

	"github.com/abgdnv/freshcart/internal/cart"
	storeerrors "github.com/abgdnv/freshcart/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ledgerOf(orders ...Order) Ledger {
	return Ledger{Orders: orders}
}

func Test_Status(t *testing.T) {
	testCases := []struct {
		status    Status
		terminal  bool
		canCancel bool
		next      Status
		advances  bool
		step      int
	}{
		{Confirmed, false, true, Prepared, true, 0},
		{Prepared, false, true, Shipped, true, 1},
		{Shipped, false, true, OutForDelivery, true, 2},
		{OutForDelivery, false, true, Delivered, true, 3},
		{Delivered, true, false, Delivered, false, 4},
		{Cancelled, true, false, Cancelled, false, -1},
	}
	for _, tc := range testCases {
		t.Run(tc.status.String(), func(t *testing.T) {
			assert.Equal(t, tc.terminal, tc.status.IsTerminal())
			assert.Equal(t, tc.canCancel, tc.status.CanCancel())
			next, ok := tc.status.Next()
			assert.Equal(t, tc.advances, ok)
			assert.Equal(t, tc.next, next)
			assert.Equal(t, tc.step, tc.status.Step())

			parsed, err := ParseStatus(string(tc.status))
			require.NoError(t, err)
			assert.Equal(t, tc.status, parsed)
		})
	}

	_, err := ParseStatus("Lost")
	assert.EqualError(t, err, `unknown order status "Lost"`)
}

func Test_Reduce_Place(t *testing.T) {
	// given
	older := Order{ID: "ORD-1", Status: Confirmed, Total: 6700}
	items := []cart.Line{{ProductID: 1, Price: 6500, Quantity: 3}}
	newer := Order{ID: "ORD-2", Status: Confirmed, Items: items, Total: 19700}

	// when
	got, err := Reduce(ledgerOf(older), Place{Order: newer})

	// then
	require.NoError(t, err)
	require.Len(t, got.Orders, 2)
	assert.Equal(t, "ORD-2", got.Orders[0].ID)
	assert.Equal(t, "ORD-1", got.Orders[1].ID)

	// the ledger owns its copy of the items
	items[0].Quantity = 99
	assert.Equal(t, 3, got.Orders[0].Items[0].Quantity)

	// ids are unique
	again, err := Reduce(got, Place{Order: newer})
	assert.ErrorIs(t, err, storeerrors.ErrDuplicateOrder)
	assert.Len(t, again.Orders, 2)
}

func Test_Reduce_Cancel(t *testing.T) {
	testCases := []struct {
		name       string
		status     Status
		orderID    string
		wantStatus Status
		wantErr    error
	}{
		{name: "confirmed", status: Confirmed, orderID: "ORD-1", wantStatus: Cancelled},
		{name: "prepared", status: Prepared, orderID: "ORD-1", wantStatus: Cancelled},
		{name: "shipped", status: Shipped, orderID: "ORD-1", wantStatus: Cancelled},
		{name: "out for delivery", status: OutForDelivery, orderID: "ORD-1", wantStatus: Cancelled},
		{name: "delivered stays delivered", status: Delivered, orderID: "ORD-1", wantStatus: Delivered, wantErr: storeerrors.ErrOrderNotCancellable},
		{name: "cancelled twice", status: Cancelled, orderID: "ORD-1", wantStatus: Cancelled, wantErr: storeerrors.ErrOrderNotCancellable},
		{name: "unknown order", status: Confirmed, orderID: "ORD-404", wantStatus: Confirmed, wantErr: storeerrors.ErrOrderNotFound},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			l := ledgerOf(Order{ID: "ORD-1", Status: tc.status})

			// when
			got, err := Reduce(l, Cancel{OrderID: tc.orderID})

			// then
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.ErrorIs(t, err, storeerrors.ErrIllegalTransition)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.wantStatus, got.Orders[0].Status)
			assert.Equal(t, tc.status, l.Orders[0].Status, "input ledger must not change")
		})
	}
}

func Test_Reduce_Advance(t *testing.T) {
	// given
	l := ledgerOf(Order{ID: "ORD-1", Status: Confirmed})
	var err error

	// when / then
	for _, want := range []Status{Prepared, Shipped, OutForDelivery, Delivered} {
		l, err = Reduce(l, Advance{OrderID: "ORD-1"})
		require.NoError(t, err)
		assert.Equal(t, want, l.Orders[0].Status)
	}

	l, err = Reduce(l, Advance{OrderID: "ORD-1"})
	assert.ErrorIs(t, err, storeerrors.ErrOrderNotAdvanceable)
	assert.Equal(t, Delivered, l.Orders[0].Status)

	cancelled := ledgerOf(Order{ID: "ORD-2", Status: Cancelled})
	_, err = Reduce(cancelled, Advance{OrderID: "ORD-2"})
	assert.ErrorIs(t, err, storeerrors.ErrOrderNotAdvanceable)

	_, err = Reduce(cancelled, Advance{OrderID: "ORD-3"})
	assert.ErrorIs(t, err, storeerrors.ErrOrderNotFound)
}

func Test_ComputeStats(t *testing.T) {
	// given
	l := ledgerOf(
		Order{ID: "ORD-3", Status: Cancelled, Total: 100000},
		Order{ID: "ORD-2", Status: Delivered, Total: 19700},
		Order{ID: "ORD-1", Status: Confirmed, Total: 6700},
	)

	// when
	stats := ComputeStats(l)

	// then
	assert.Equal(t, Stats{TotalSpent: 26400, OrderCount: 2, HistoryCount: 3}, stats)
	assert.Equal(t, Stats{}, ComputeStats(Ledger{}))
}

func Test_Ledger_Find(t *testing.T) {
	l := ledgerOf(Order{ID: "ORD-1", Items: []cart.Line{{ProductID: 1, Quantity: 1}}})

	found, ok := l.Find("ORD-1")
	require.True(t, ok)
	found.Items[0].Quantity = 5
	assert.Equal(t, 1, l.Orders[0].Items[0].Quantity)

	_, ok = l.Find("ORD-2")
	assert.False(t, ok)
}
