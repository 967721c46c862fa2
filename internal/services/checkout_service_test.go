package services

import (
	"context"
	"testing"

	"joyeria-backend/internal/domain"
	"joyeria-backend/internal/infra/payment"
	"joyeria-backend/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newCheckoutServiceForTest(cfg *domain.StoreConfig) (*CheckoutService, *mocks.MockProductRepository, *mocks.MockGateway) {
	mockProducts := new(mocks.MockProductRepository)
	mockGateway := new(mocks.MockGateway)
	cfgService, cfgRepo := newTestConfigService(cfg)
	cfgRepo.On("Get", mock.Anything).Return(nil, nil).Maybe()
	return NewCheckoutService(mockProducts, cfgService, mockGateway, "https://store.example"), mockProducts, mockGateway
}

func TestCheckoutService_CreatePreference_EmptyCart(t *testing.T) {
	service, mockProducts, mockGateway := newCheckoutServiceForTest(nil)

	result, err := service.CreatePreference(context.Background(), nil)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrEmptyCart)
	mockProducts.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
	mockGateway.AssertNotCalled(t, "CreatePreference", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckoutService_CreatePreference_UnknownProduct(t *testing.T) {
	service, mockProducts, _ := newCheckoutServiceForTest(nil)

	mockProducts.On("FindByIDs", mock.Anything, []uint64{99}).Return([]domain.Product{}, nil)

	result, err := service.CreatePreference(context.Background(), []CheckoutItem{{ProductID: 99, Quantity: 1}})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCheckoutService_CreatePreference_BuildsGatewayRequest(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.ShippingCost = 3500
	cfg.FreeShippingThreshold = 50000
	cfg.GatewayAccessToken = "secret-token"
	service, mockProducts, mockGateway := newCheckoutServiceForTest(cfg)

	discount := int64(18000)
	cadena := testProduct(1, "Cadena de plata", 25000, 5)
	dije := testProduct(2, "Dije corazón", 20000, 3)
	dije.DiscountPrice = &discount
	mockProducts.On("FindByIDs", mock.Anything, []uint64{1, 2}).Return([]domain.Product{cadena, dije}, nil)

	var captured *payment.PreferenceRequest
	mockGateway.On("CreatePreference", mock.Anything, "secret-token", mock.AnythingOfType("*payment.PreferenceRequest")).
		Return(&payment.Preference{ID: "pref-1", InitPoint: "https://gateway.example/init/pref-1"}, nil).
		Run(func(args mock.Arguments) {
			captured = args.Get(2).(*payment.PreferenceRequest)
		})

	result, err := service.CreatePreference(context.Background(), []CheckoutItem{
		{ProductID: 1, Quantity: 1},
		{ProductID: 2, Quantity: 1},
	})

	assert.NoError(t, err)
	assert.Equal(t, "https://gateway.example/init/pref-1", result.InitPoint)
	assert.NotEmpty(t, result.ExternalReference)

	// Subtotal 25000 + 18000 (discounted) = 43000, below the free-shipping
	// threshold, so a shipping line is appended.
	assert.Len(t, captured.Items, 3)
	assert.Equal(t, int64(25000), captured.Items[0].UnitPrice)
	assert.Equal(t, int64(18000), captured.Items[1].UnitPrice)
	assert.Equal(t, "Envío", captured.Items[2].Title)
	assert.Equal(t, int64(3500), captured.Items[2].UnitPrice)
	assert.Equal(t, "CLP", captured.Items[0].Currency)
	assert.Equal(t, "https://store.example/checkout/success", captured.BackURLs.Success)
	assert.Equal(t, "https://store.example/checkout/failure", captured.BackURLs.Failure)
	assert.Equal(t, "https://store.example/checkout/pending", captured.BackURLs.Pending)
}

func TestCheckoutService_CreatePreference_FreeShipping(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.ShippingCost = 3500
	cfg.FreeShippingThreshold = 50000
	service, mockProducts, mockGateway := newCheckoutServiceForTest(cfg)

	cadena := testProduct(1, "Cadena de oro", 60000, 5)
	mockProducts.On("FindByIDs", mock.Anything, []uint64{1}).Return([]domain.Product{cadena}, nil)

	var captured *payment.PreferenceRequest
	mockGateway.On("CreatePreference", mock.Anything, mock.Anything, mock.Anything).
		Return(&payment.Preference{ID: "pref-2", InitPoint: "https://gateway.example/init/pref-2"}, nil).
		Run(func(args mock.Arguments) {
			captured = args.Get(2).(*payment.PreferenceRequest)
		})

	_, err := service.CreatePreference(context.Background(), []CheckoutItem{{ProductID: 1, Quantity: 1}})

	assert.NoError(t, err)
	assert.Len(t, captured.Items, 1)
}

func TestCheckoutService_CreatePreference_GatewayRejection(t *testing.T) {
	service, mockProducts, mockGateway := newCheckoutServiceForTest(nil)

	cadena := testProduct(1, "Cadena", 25000, 5)
	mockProducts.On("FindByIDs", mock.Anything, []uint64{1}).Return([]domain.Product{cadena}, nil)
	mockGateway.On("CreatePreference", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &payment.GatewayError{Status: 400, Message: "invalid items"})

	result, err := service.CreatePreference(context.Background(), []CheckoutItem{{ProductID: 1, Quantity: 1}})

	assert.Nil(t, result)
	var gErr *payment.GatewayError
	assert.ErrorAs(t, err, &gErr)
	assert.Equal(t, "invalid items", gErr.Message)
}

func TestCheckoutService_CreatePreference_InvalidQuantity(t *testing.T) {
	service, mockProducts, _ := newCheckoutServiceForTest(nil)

	result, err := service.CreatePreference(context.Background(), []CheckoutItem{{ProductID: 1, Quantity: 0}})

	assert.Nil(t, result)
	var vErr ValidationError
	assert.ErrorAs(t, err, &vErr)
	mockProducts.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
}
