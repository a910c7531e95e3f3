package services

import (
	"context"
	"errors"
	"testing"

	"foodhub/internal/common"
	"foodhub/internal/models"
	"foodhub/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// Mock repositories
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) BeginOrder(ctx context.Context) (repositories.OrderTx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repositories.OrderTx), args.Error(1)
}

func (m *MockOrderRepository) GetByIDForCustomer(ctx context.Context, orderID, customerID uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, orderID, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByIDForProvider(ctx context.Context, orderID, providerID uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, orderID, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *MockOrderRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*models.Order, error) {
	args := m.Called(ctx, customerID, limit, offset)
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByProvider(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]*models.Order, error) {
	args := m.Called(ctx, providerID, limit, offset)
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, status *string, limit, offset int) ([]*models.Order, error) {
	args := m.Called(ctx, status, limit, offset)
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListItems(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]*models.OrderItem), args.Error(1)
}

func (m *MockOrderRepository) ListItemsForOrders(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]*models.OrderItem, error) {
	args := m.Called(ctx, orderIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID][]*models.OrderItem), args.Error(1)
}

func (m *MockOrderRepository) HasDeliveredMeal(ctx context.Context, customerID, mealID uuid.UUID) (bool, error) {
	args := m.Called(ctx, customerID, mealID)
	return args.Bool(0), args.Error(1)
}

type MockMealRepository struct {
	mock.Mock
}

func (m *MockMealRepository) Create(ctx context.Context, meal *models.Meal) error {
	args := m.Called(ctx, meal)
	return args.Error(0)
}

func (m *MockMealRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Meal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Meal), args.Error(1)
}

func (m *MockMealRepository) Update(ctx context.Context, meal *models.Meal) error {
	args := m.Called(ctx, meal)
	return args.Error(0)
}

func (m *MockMealRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMealRepository) ListByProvider(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]*models.Meal, error) {
	args := m.Called(ctx, providerID, limit, offset)
	return args.Get(0).([]*models.Meal), args.Error(1)
}

func (m *MockMealRepository) Search(ctx context.Context, filter *models.MealSearchFilter) ([]*models.Meal, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.Meal), args.Error(1)
}

// MockOrderTx mocks the order-building transaction scope
type MockOrderTx struct {
	mock.Mock
}

func (m *MockOrderTx) AvailableMeals(ctx context.Context, ids []uuid.UUID) ([]*models.Meal, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*models.Meal), args.Error(1)
}

func (m *MockOrderTx) Create(ctx context.Context, order *models.Order, items []*models.OrderItem) error {
	args := m.Called(ctx, order, items)
	return args.Error(0)
}

func (m *MockOrderTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// OrderServiceTestSuite defines the test suite
type OrderServiceTestSuite struct {
	suite.Suite
	mockOrderRepo *MockOrderRepository
	mockTx        *MockOrderTx
	service       OrderServiceInterface
	customerID    uuid.UUID
	providerID    uuid.UUID
	ctx           context.Context
}

func (suite *OrderServiceTestSuite) SetupTest() {
	suite.mockOrderRepo = &MockOrderRepository{}
	suite.mockTx = &MockOrderTx{}
	suite.service = NewOrderService(suite.mockOrderRepo)
	suite.customerID = uuid.New()
	suite.providerID = uuid.New()
	suite.ctx = context.Background()
}

func (suite *OrderServiceTestSuite) TearDownTest() {
	suite.mockOrderRepo.AssertExpectations(suite.T())
	suite.mockTx.AssertExpectations(suite.T())
}

func TestOrderServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}

func (suite *OrderServiceTestSuite) meal(price float64) *models.Meal {
	return &models.Meal{
		ID:          uuid.New(),
		ProviderID:  suite.providerID,
		CategoryID:  uuid.New(),
		Name:        "Paneer Tikka",
		Price:       price,
		IsAvailable: true,
	}
}

func (suite *OrderServiceTestSuite) TestCreateOrder_Success() {
	meal1 := suite.meal(12.50)
	meal2 := suite.meal(8.00)

	suite.mockOrderRepo.On("BeginOrder", suite.ctx).Return(suite.mockTx, nil)
	suite.mockTx.On("AvailableMeals", suite.ctx, []uuid.UUID{meal1.ID, meal2.ID}).
		Return([]*models.Meal{meal1, meal2}, nil)
	suite.mockTx.On("Create", suite.ctx, mock.AnythingOfType("*models.Order"),
		mock.AnythingOfType("[]*models.OrderItem")).Return(nil)
	suite.mockTx.On("Commit", suite.ctx).Return(nil)
	suite.mockTx.On("Rollback", suite.ctx).Return(nil)

	req := &models.CreateOrderRequest{
		DeliveryAddress: "42 Curry Lane, Springfield",
		Items: []models.OrderItemRequest{
			{MealID: meal1.ID, Quantity: 2},
			{MealID: meal2.ID, Quantity: 1},
		},
	}

	order, err := suite.service.CreateOrder(suite.ctx, suite.customerID, req)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.OrderStatusPlaced, order.Status)
	assert.Equal(suite.T(), suite.customerID, order.CustomerID)
	assert.Equal(suite.T(), suite.providerID, order.ProviderID)
	assert.InDelta(suite.T(), 33.00, order.TotalAmount, 0.001)
	assert.Len(suite.T(), order.Items, 2)

	// Item prices are snapshots of the catalog prices at creation time
	assert.Equal(suite.T(), 12.50, order.Items[0].PriceAtTime)
	assert.Equal(suite.T(), 2, order.Items[0].Quantity)
	assert.Equal(suite.T(), 8.00, order.Items[1].PriceAtTime)
}

func (suite *OrderServiceTestSuite) TestCreateOrder_MergesDuplicateLines() {
	meal := suite.meal(5.00)

	suite.mockOrderRepo.On("BeginOrder", suite.ctx).Return(suite.mockTx, nil)
	suite.mockTx.On("AvailableMeals", suite.ctx, []uuid.UUID{meal.ID}).
		Return([]*models.Meal{meal}, nil)
	suite.mockTx.On("Create", suite.ctx, mock.AnythingOfType("*models.Order"),
		mock.AnythingOfType("[]*models.OrderItem")).Return(nil)
	suite.mockTx.On("Commit", suite.ctx).Return(nil)
	suite.mockTx.On("Rollback", suite.ctx).Return(nil)

	req := &models.CreateOrderRequest{
		DeliveryAddress: "42 Curry Lane, Springfield",
		Items: []models.OrderItemRequest{
			{MealID: meal.ID, Quantity: 2},
			{MealID: meal.ID, Quantity: 3},
		},
	}

	order, err := suite.service.CreateOrder(suite.ctx, suite.customerID, req)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), order.Items, 1)
	assert.Equal(suite.T(), 5, order.Items[0].Quantity)
	assert.InDelta(suite.T(), 25.00, order.TotalAmount, 0.001)
}

func (suite *OrderServiceTestSuite) TestCreateOrder_EmptyItems() {
	req := &models.CreateOrderRequest{
		DeliveryAddress: "42 Curry Lane, Springfield",
		Items:           []models.OrderItemRequest{},
	}

	order, err := suite.service.CreateOrder(suite.ctx, suite.customerID, req)
	assert.Nil(suite.T(), order)
	var invalid *common.InvalidOrderError
	assert.ErrorAs(suite.T(), err, &invalid)
	suite.mockOrderRepo.AssertNotCalled(suite.T(), "BeginOrder", suite.ctx)
}

func (suite *OrderServiceTestSuite) TestCreateOrder_MergedLinesAtQuantityBound() {
	meal := suite.meal(2.00)

	suite.mockOrderRepo.On("BeginOrder", suite.ctx).Return(suite.mockTx, nil)
	suite.mockTx.On("AvailableMeals", suite.ctx, []uuid.UUID{meal.ID}).
		Return([]*models.Meal{meal}, nil)
	suite.mockTx.On("Create", suite.ctx, mock.AnythingOfType("*models.Order"),
		mock.AnythingOfType("[]*models.OrderItem")).Return(nil)
	suite.mockTx.On("Commit", suite.ctx).Return(nil)
	suite.mockTx.On("Rollback", suite.ctx).Return(nil)

	req := &models.CreateOrderRequest{
		DeliveryAddress: "42 Curry Lane, Springfield",
		Items: []models.OrderItemRequest{
			{MealID: meal.ID, Quantity: 12},
			{MealID: meal.ID, Quantity: 8},
		},
	}

	order, err := suite.service.CreateOrder(suite.ctx, suite.customerID, req)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), order.Items, 1)
	assert.Equal(suite.T(), 20, order.Items[0].Quantity)
}

func (suite *OrderServiceTestSuite) TestCreateOrder_DuplicateLinesExceedQuantityBound() {
	mealID := uuid.New()

	req := &models.CreateOrderRequest{
		DeliveryAddress: "42 Curry Lane, Springfield",
		Items: []models.OrderItemRequest{
			{MealID: mealID, Quantity: 20},
			{MealID: mealID, Quantity: 20},
		},
	}

	order, err := suite.service.CreateOrder(suite.ctx, suite.customerID, req)
	assert.Nil(suite.T(), order)
	var invalid *common.InvalidOrderError
	assert.ErrorAs(suite.T(), err, &invalid)
	suite.mockOrderRepo.AssertNotCalled(suite.T(), "BeginOrder", suite.ctx)
}

func (suite *OrderServiceTestSuite) TestCreateOrder_UnavailableItem() {
	meal := suite.meal(5.00)
	missingID := uuid.New()

	suite.mockOrderRepo.On("BeginOrder", suite.ctx).Return(suite.mockTx, nil)
	suite.mockTx.On("AvailableMeals", suite.ctx, []uuid.UUID{meal.ID, missingID}).
		Return([]*models.Meal{meal}, nil)
	suite.mockTx.On("Rollback", suite.ctx).Return(nil)

	req := &models.CreateOrderRequest{
		DeliveryAddress: "42 Curry Lane, Springfield",
		Items: []models.OrderItemRequest{
			{MealID: meal.ID, Quantity: 1},
			{MealID: missingID, Quantity: 1},
		},
	}

	order, err := suite.service.CreateOrder(suite.ctx, suite.customerID, req)
	assert.Nil(suite.T(), order)
	var unavailable *common.UnavailableItemsError
	assert.ErrorAs(suite.T(), err, &unavailable)
}

func (suite *OrderServiceTestSuite) TestCreateOrder_MixedProviders() {
	meal1 := suite.meal(5.00)
	meal2 := suite.meal(6.00)
	meal2.ProviderID = uuid.New()

	suite.mockOrderRepo.On("BeginOrder", suite.ctx).Return(suite.mockTx, nil)
	suite.mockTx.On("AvailableMeals", suite.ctx, []uuid.UUID{meal1.ID, meal2.ID}).
		Return([]*models.Meal{meal1, meal2}, nil)
	suite.mockTx.On("Rollback", suite.ctx).Return(nil)

	req := &models.CreateOrderRequest{
		DeliveryAddress: "42 Curry Lane, Springfield",
		Items: []models.OrderItemRequest{
			{MealID: meal1.ID, Quantity: 1},
			{MealID: meal2.ID, Quantity: 1},
		},
	}

	order, err := suite.service.CreateOrder(suite.ctx, suite.customerID, req)
	assert.Nil(suite.T(), order)
	var mixed *common.MixedProviderError
	assert.ErrorAs(suite.T(), err, &mixed)
}

func (suite *OrderServiceTestSuite) TestCreateOrder_CreateFailureNeverCommits() {
	meal := suite.meal(5.00)

	suite.mockOrderRepo.On("BeginOrder", suite.ctx).Return(suite.mockTx, nil)
	suite.mockTx.On("AvailableMeals", suite.ctx, []uuid.UUID{meal.ID}).
		Return([]*models.Meal{meal}, nil)
	suite.mockTx.On("Create", suite.ctx, mock.AnythingOfType("*models.Order"),
		mock.AnythingOfType("[]*models.OrderItem")).Return(errors.New("insert failed"))
	suite.mockTx.On("Rollback", suite.ctx).Return(nil)

	req := &models.CreateOrderRequest{
		DeliveryAddress: "42 Curry Lane, Springfield",
		Items:           []models.OrderItemRequest{{MealID: meal.ID, Quantity: 1}},
	}

	order, err := suite.service.CreateOrder(suite.ctx, suite.customerID, req)
	assert.Nil(suite.T(), order)
	assert.Error(suite.T(), err)
	suite.mockTx.AssertNotCalled(suite.T(), "Commit", suite.ctx)
}

func (suite *OrderServiceTestSuite) TestListCustomerOrders_EmbedsItems() {
	order1 := &models.Order{ID: uuid.New(), CustomerID: suite.customerID, Status: models.OrderStatusPlaced}
	order2 := &models.Order{ID: uuid.New(), CustomerID: suite.customerID, Status: models.OrderStatusDelivered}
	items := map[uuid.UUID][]*models.OrderItem{
		order1.ID: {{ID: uuid.New(), OrderID: order1.ID, Quantity: 2, PriceAtTime: 5.00}},
	}

	suite.mockOrderRepo.On("ListByCustomer", suite.ctx, suite.customerID, 50, 0).
		Return([]*models.Order{order1, order2}, nil)
	suite.mockOrderRepo.On("ListItemsForOrders", suite.ctx, []uuid.UUID{order1.ID, order2.ID}).
		Return(items, nil)

	orders, err := suite.service.ListCustomerOrders(suite.ctx, suite.customerID, 50, 0)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), orders, 2)
	assert.Len(suite.T(), orders[0].Items, 1)
	assert.Empty(suite.T(), orders[1].Items)
}

func (suite *OrderServiceTestSuite) TestUpdateOrderStatus_ValidTransition() {
	orderID := uuid.New()
	order := &models.Order{ID: orderID, ProviderID: suite.providerID, Status: models.OrderStatusPlaced}

	suite.mockOrderRepo.On("GetByIDForProvider", suite.ctx, orderID, suite.providerID).Return(order, nil)
	suite.mockOrderRepo.On("UpdateStatus", suite.ctx, orderID, models.OrderStatusPreparing).Return(nil)
	suite.mockOrderRepo.On("ListItems", suite.ctx, orderID).Return([]*models.OrderItem{}, nil)

	updated, err := suite.service.UpdateOrderStatus(suite.ctx, suite.providerID, orderID, models.OrderStatusPreparing)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.OrderStatusPreparing, updated.Status)
}

func (suite *OrderServiceTestSuite) TestUpdateOrderStatus_SkippedStep() {
	orderID := uuid.New()
	order := &models.Order{ID: orderID, ProviderID: suite.providerID, Status: models.OrderStatusPlaced}

	suite.mockOrderRepo.On("GetByIDForProvider", suite.ctx, orderID, suite.providerID).Return(order, nil)

	updated, err := suite.service.UpdateOrderStatus(suite.ctx, suite.providerID, orderID, models.OrderStatusDelivered)
	assert.Nil(suite.T(), updated)
	var transition *common.InvalidTransitionError
	assert.ErrorAs(suite.T(), err, &transition)
	assert.Equal(suite.T(), models.OrderStatusPlaced, transition.From)
	assert.Equal(suite.T(), models.OrderStatusDelivered, transition.To)
}

func (suite *OrderServiceTestSuite) TestUpdateOrderStatus_TerminalOrder() {
	orderID := uuid.New()
	order := &models.Order{ID: orderID, ProviderID: suite.providerID, Status: models.OrderStatusDelivered}

	suite.mockOrderRepo.On("GetByIDForProvider", suite.ctx, orderID, suite.providerID).Return(order, nil)

	_, err := suite.service.UpdateOrderStatus(suite.ctx, suite.providerID, orderID, models.OrderStatusPreparing)
	var transition *common.InvalidTransitionError
	assert.ErrorAs(suite.T(), err, &transition)
}

func (suite *OrderServiceTestSuite) TestUpdateOrderStatus_OtherProvidersOrder() {
	orderID := uuid.New()

	suite.mockOrderRepo.On("GetByIDForProvider", suite.ctx, orderID, suite.providerID).
		Return(nil, pgx.ErrNoRows)

	updated, err := suite.service.UpdateOrderStatus(suite.ctx, suite.providerID, orderID, models.OrderStatusPreparing)
	assert.Nil(suite.T(), updated)
	var notFound *common.NotFoundError
	assert.ErrorAs(suite.T(), err, &notFound)
}

func (suite *OrderServiceTestSuite) TestCancelOrder_WhilePlaced() {
	orderID := uuid.New()
	order := &models.Order{ID: orderID, CustomerID: suite.customerID, Status: models.OrderStatusPlaced}

	suite.mockOrderRepo.On("GetByIDForCustomer", suite.ctx, orderID, suite.customerID).Return(order, nil)
	suite.mockOrderRepo.On("UpdateStatus", suite.ctx, orderID, models.OrderStatusCancelled).Return(nil)

	cancelled, err := suite.service.CancelOrder(suite.ctx, suite.customerID, orderID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.OrderStatusCancelled, cancelled.Status)
}

func (suite *OrderServiceTestSuite) TestCancelOrder_AfterPreparingStarted() {
	orderID := uuid.New()
	order := &models.Order{ID: orderID, CustomerID: suite.customerID, Status: models.OrderStatusPreparing}

	suite.mockOrderRepo.On("GetByIDForCustomer", suite.ctx, orderID, suite.customerID).Return(order, nil)

	cancelled, err := suite.service.CancelOrder(suite.ctx, suite.customerID, orderID)
	assert.Nil(suite.T(), cancelled)
	var invalid *common.InvalidCancellationError
	assert.ErrorAs(suite.T(), err, &invalid)
	assert.Equal(suite.T(), models.OrderStatusPreparing, invalid.Status)
}

func (suite *OrderServiceTestSuite) TestCancelOrder_OtherCustomersOrder() {
	orderID := uuid.New()

	suite.mockOrderRepo.On("GetByIDForCustomer", suite.ctx, orderID, suite.customerID).
		Return(nil, pgx.ErrNoRows)

	cancelled, err := suite.service.CancelOrder(suite.ctx, suite.customerID, orderID)
	assert.Nil(suite.T(), cancelled)
	var notFound *common.NotFoundError
	assert.ErrorAs(suite.T(), err, &notFound)
}
