package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"joyeria-backend/internal/domain"
	"joyeria-backend/internal/mocks"
	"joyeria-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newOrderServiceForTest() (*OrderService, *mocks.MockOrderRepository, *mocks.MockConfigRepository, *mocks.MockPublisher) {
	mockRepo := new(mocks.MockOrderRepository)
	mockPub := new(mocks.MockPublisher)
	cfg, cfgRepo := newTestConfigService(nil)
	cfgRepo.On("Get", mock.Anything).Return(nil, nil).Maybe()
	return NewOrderService(mockRepo, cfg, mockPub), mockRepo, cfgRepo, mockPub
}

func TestOrderService_CreateOrder_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreateOrderInput)
		wantErr string
	}{
		{
			name:    "missing customer name",
			mutate:  func(in *CreateOrderInput) { in.CustomerName = "" },
			wantErr: "customer_name is required",
		},
		{
			name:    "missing shipping address",
			mutate:  func(in *CreateOrderInput) { in.ShippingAddress = "" },
			wantErr: "shipping_address is required",
		},
		{
			name:    "missing contact email",
			mutate:  func(in *CreateOrderInput) { in.ContactEmail = "" },
			wantErr: "contact_email is required",
		},
		{
			name:    "empty items",
			mutate:  func(in *CreateOrderInput) { in.Items = nil },
			wantErr: "ordered_products must not be empty",
		},
		{
			name:    "zero quantity",
			mutate:  func(in *CreateOrderInput) { in.Items[0].Quantity = 0 },
			wantErr: "quantity of at least 1",
		},
		{
			name:    "missing product id",
			mutate:  func(in *CreateOrderInput) { in.Items[0].ProductID = 0 },
			wantErr: "product_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, mockRepo, _, _ := newOrderServiceForTest()

			in := validOrderInput()
			tt.mutate(&in)

			result, err := service.CreateOrder(context.Background(), in)

			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			var vErr ValidationError
			assert.ErrorAs(t, err, &vErr)
			assert.Nil(t, result)

			// Invalid requests never reach the persistence layer.
			mockRepo.AssertNotCalled(t, "CreateWithStock", mock.Anything, mock.Anything)
		})
	}
}

func TestOrderService_CreateOrder(t *testing.T) {
	t.Run("successful creation", func(t *testing.T) {
		service, mockRepo, _, mockPub := newOrderServiceForTest()

		mockRepo.On("CreateWithStock", mock.Anything, mock.AnythingOfType("*domain.Order")).
			Return(nil).
			Run(func(args mock.Arguments) {
				order := args.Get(1).(*domain.Order)
				order.ID = 42
			})
		mockPub.On("Publish", mock.Anything, domain.EventOrderCreated, mock.Anything).Return(nil).Maybe()

		order, err := service.CreateOrder(context.Background(), validOrderInput())

		assert.NoError(t, err)
		assert.NotNil(t, order)
		assert.Equal(t, uint64(42), order.ID)
		assert.Equal(t, domain.StatusPending, order.Status)
		assert.Len(t, order.Items, 1)

		time.Sleep(100 * time.Millisecond)
		mockRepo.AssertExpectations(t)
	})

	t.Run("insufficient stock propagates", func(t *testing.T) {
		service, mockRepo, _, _ := newOrderServiceForTest()

		mockRepo.On("CreateWithStock", mock.Anything, mock.AnythingOfType("*domain.Order")).
			Return(fmt.Errorf("%w: product 1 has 3, requested 4", repository.ErrInsufficientStock))

		order, err := service.CreateOrder(context.Background(), validOrderInput())

		assert.Nil(t, order)
		assert.ErrorIs(t, err, repository.ErrInsufficientStock)
	})

	t.Run("repository failure propagates", func(t *testing.T) {
		service, mockRepo, _, _ := newOrderServiceForTest()

		mockRepo.On("CreateWithStock", mock.Anything, mock.AnythingOfType("*domain.Order")).
			Return(errors.New("connection refused"))

		order, err := service.CreateOrder(context.Background(), validOrderInput())

		assert.Nil(t, order)
		assert.NotErrorIs(t, err, repository.ErrInsufficientStock)
	})
}

func TestOrderService_ApplyPaymentStatus(t *testing.T) {
	t.Run("approved transitions the order", func(t *testing.T) {
		service, mockRepo, _, mockPub := newOrderServiceForTest()

		paid := testOrder(7, domain.StatusPaid)
		mockRepo.On("ApplyPaymentStatus", mock.Anything, uint64(7), domain.PaymentStatusApproved, "accredited").
			Return(&repository.PaymentResult{Order: paid, Transitioned: true}, nil)
		mockPub.On("Publish", mock.Anything, domain.EventPaymentApproved, mock.Anything).Return(nil).Once()

		res, err := service.ApplyPaymentStatus(context.Background(), 7, domain.PaymentStatusApproved, "accredited")

		assert.NoError(t, err)
		assert.True(t, res.Transitioned)
		assert.Equal(t, domain.StatusPaid, res.Order.Status)

		time.Sleep(100 * time.Millisecond)
		mockPub.AssertNumberOfCalls(t, "Publish", 1)
	})

	t.Run("already paid is an idempotent no-op", func(t *testing.T) {
		service, mockRepo, _, mockPub := newOrderServiceForTest()

		paid := testOrder(7, domain.StatusPaid)
		mockRepo.On("ApplyPaymentStatus", mock.Anything, uint64(7), domain.PaymentStatusApproved, "").
			Return(&repository.PaymentResult{Order: paid, Transitioned: false}, nil)

		res, err := service.ApplyPaymentStatus(context.Background(), 7, domain.PaymentStatusApproved, "")

		assert.NoError(t, err)
		assert.False(t, res.Transitioned)

		time.Sleep(100 * time.Millisecond)
		mockPub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown order", func(t *testing.T) {
		service, mockRepo, _, _ := newOrderServiceForTest()

		mockRepo.On("ApplyPaymentStatus", mock.Anything, uint64(999), "approved", "").
			Return(&repository.PaymentResult{}, nil)

		res, err := service.ApplyPaymentStatus(context.Background(), 999, "approved", "")

		assert.Nil(t, res)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("reconciliation failure is surfaced", func(t *testing.T) {
		service, mockRepo, _, _ := newOrderServiceForTest()

		mockRepo.On("ApplyPaymentStatus", mock.Anything, uint64(7), "approved", "").
			Return(nil, fmt.Errorf("%w: product 1 has 0, requested 2", repository.ErrInsufficientStock))

		res, err := service.ApplyPaymentStatus(context.Background(), 7, "approved", "")

		assert.Nil(t, res)
		assert.ErrorIs(t, err, repository.ErrInsufficientStock)
	})

	t.Run("concurrent approved callbacks decrement once", func(t *testing.T) {
		service, mockRepo, _, mockPub := newOrderServiceForTest()

		paid := testOrder(7, domain.StatusPaid)
		// The row lock lets exactly one callback win the transition; the
		// loser sees an already-paid order.
		mockRepo.On("ApplyPaymentStatus", mock.Anything, uint64(7), "approved", "").
			Return(&repository.PaymentResult{Order: paid, Transitioned: true}, nil).Once()
		mockRepo.On("ApplyPaymentStatus", mock.Anything, uint64(7), "approved", "").
			Return(&repository.PaymentResult{Order: paid, Transitioned: false}, nil).Once()
		mockPub.On("Publish", mock.Anything, domain.EventPaymentApproved, mock.Anything).Return(nil)

		var wg sync.WaitGroup
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := service.ApplyPaymentStatus(context.Background(), 7, "approved", "")
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		time.Sleep(100 * time.Millisecond)
		mockPub.AssertNumberOfCalls(t, "Publish", 1)
	})
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	service, mockRepo, _, _ := newOrderServiceForTest()

	mockRepo.On("UpdateStatus", mock.Anything, uint64(1), domain.StatusShipped).Return(nil)

	assert.NoError(t, service.UpdateOrderStatus(context.Background(), 1, "shipped"))

	err := service.UpdateOrderStatus(context.Background(), 1, "teleported")
	var vErr ValidationError
	assert.ErrorAs(t, err, &vErr)

	mockRepo.AssertNumberOfCalls(t, "UpdateStatus", 1)
}

func TestOrderService_GetOrder(t *testing.T) {
	service, mockRepo, _, _ := newOrderServiceForTest()

	mockRepo.On("FindByID", mock.Anything, uint64(1)).Return(testOrder(1, domain.StatusPending), nil)
	mockRepo.On("FindByID", mock.Anything, uint64(2)).Return(nil, nil)

	o, err := service.GetOrder(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), o.ID)

	_, err = service.GetOrder(context.Background(), 2)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
