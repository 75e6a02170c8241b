package subscriber

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	storeerrors "github.com/abgdnv/freshcart/internal/errors"
	"github.com/abgdnv/freshcart/internal/service"
	"github.com/abgdnv/freshcart/pkg/messaging/events"
	"github.com/stretchr/testify/mock"
)

type mockAckableMsg struct {
	mock.Mock
}

func (m *mockAckableMsg) Data() []byte {
	args := m.Called()
	return args.Get(0).([]byte)
}

func (m *mockAckableMsg) Ack() error {
	args := m.Called()
	return args.Error(0)
}

func (m *mockAckableMsg) Nak() error {
	args := m.Called()
	return args.Error(0)
}

func (m *mockAckableMsg) Term() error {
	args := m.Called()
	return args.Error(0)
}

type mockAdvancer struct {
	mock.Mock
}

func (m *mockAdvancer) AdvanceOrder(_ context.Context, id string) (*service.OrderDto, error) {
	args := m.Called(id)
	if dto, ok := args.Get(0).(*service.OrderDto); ok {
		return dto, args.Error(1)
	}
	return nil, args.Error(1)
}

func payload(t *testing.T, orderID string) []byte {
	t.Helper()
	data, err := json.Marshal(events.OrderStatusAdvancedEvent{OrderID: orderID})
	if err != nil {
		t.Fatalf("failed to marshal event: %v", err)
	}
	return data
}

func Test_handleMessage(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	testCases := []struct {
		name        string
		newMockMsg  func() *mockAckableMsg
		newAdvancer func() *mockAdvancer
	}{
		{
			name: "order advanced",
			newMockMsg: func() *mockAckableMsg {
				msg := new(mockAckableMsg)
				msg.On("Data").Return(payload(t, "ORD-1")).Times(1)
				msg.On("Ack").Return(nil).Times(1)
				return msg
			},
			newAdvancer: func() *mockAdvancer {
				a := new(mockAdvancer)
				a.On("AdvanceOrder", "ORD-1").Return(&service.OrderDto{ID: "ORD-1", Status: "Prepared", Changed: true}, nil).Times(1)
				return a
			},
		},
		{
			name: "terminal order is acknowledged",
			newMockMsg: func() *mockAckableMsg {
				msg := new(mockAckableMsg)
				msg.On("Data").Return(payload(t, "ORD-2")).Times(1)
				msg.On("Ack").Return(nil).Times(1)
				return msg
			},
			newAdvancer: func() *mockAdvancer {
				a := new(mockAdvancer)
				a.On("AdvanceOrder", "ORD-2").Return(&service.OrderDto{ID: "ORD-2", Status: "Delivered"}, nil).Times(1)
				return a
			},
		},
		{
			name: "invalid message",
			newMockMsg: func() *mockAckableMsg {
				msg := new(mockAckableMsg)
				msg.On("Data").Return([]byte("invalid data")).Times(1)
				msg.On("Term").Return(nil).Times(1)
				return msg
			},
			newAdvancer: func() *mockAdvancer { return new(mockAdvancer) },
		},
		{
			name: "missing order id",
			newMockMsg: func() *mockAckableMsg {
				msg := new(mockAckableMsg)
				msg.On("Data").Return([]byte(`{}`)).Times(1)
				msg.On("Term").Return(nil).Times(1)
				return msg
			},
			newAdvancer: func() *mockAdvancer { return new(mockAdvancer) },
		},
		{
			name: "unknown order",
			newMockMsg: func() *mockAckableMsg {
				msg := new(mockAckableMsg)
				msg.On("Data").Return(payload(t, "ORD-404")).Times(1)
				msg.On("Term").Return(nil).Times(1)
				return msg
			},
			newAdvancer: func() *mockAdvancer {
				a := new(mockAdvancer)
				a.On("AdvanceOrder", "ORD-404").Return(nil, storeerrors.ErrOrderNotFound).Times(1)
				return a
			},
		},
		{
			name: "unexpected failure is redelivered",
			newMockMsg: func() *mockAckableMsg {
				msg := new(mockAckableMsg)
				msg.On("Data").Return(payload(t, "ORD-3")).Times(1)
				msg.On("Nak").Return(nil).Times(1)
				return msg
			},
			newAdvancer: func() *mockAdvancer {
				a := new(mockAdvancer)
				a.On("AdvanceOrder", "ORD-3").Return(nil, errors.New("boom")).Times(1)
				return a
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			mockMsg := tc.newMockMsg()
			advancer := tc.newAdvancer()

			// when
			handleMessage(context.Background(), mockMsg, advancer, logger)

			// then
			mockMsg.AssertExpectations(t)
			advancer.AssertExpectations(t)
		})
	}
}
