package services

import (
	"context"
	"testing"

	"foodhub/internal/common"
	"foodhub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) ListByMeal(ctx context.Context, mealID uuid.UUID, limit, offset int) ([]*models.Review, error) {
	args := m.Called(ctx, mealID, limit, offset)
	return args.Get(0).([]*models.Review), args.Error(1)
}

func (m *MockReviewRepository) RatingByMeal(ctx context.Context) ([]*models.MealRating, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.MealRating), args.Error(1)
}

// ReviewServiceTestSuite defines the test suite
type ReviewServiceTestSuite struct {
	suite.Suite
	mockReviewRepo *MockReviewRepository
	mockOrderRepo  *MockOrderRepository
	mockMealRepo   *MockMealRepository
	service        ReviewServiceInterface
	customerID     uuid.UUID
	mealID         uuid.UUID
	ctx            context.Context
}

func (suite *ReviewServiceTestSuite) SetupTest() {
	suite.mockReviewRepo = &MockReviewRepository{}
	suite.mockOrderRepo = &MockOrderRepository{}
	suite.mockMealRepo = &MockMealRepository{}
	suite.service = NewReviewService(suite.mockReviewRepo, suite.mockOrderRepo, suite.mockMealRepo)
	suite.customerID = uuid.New()
	suite.mealID = uuid.New()
	suite.ctx = context.Background()
}

func (suite *ReviewServiceTestSuite) TearDownTest() {
	suite.mockReviewRepo.AssertExpectations(suite.T())
	suite.mockOrderRepo.AssertExpectations(suite.T())
	suite.mockMealRepo.AssertExpectations(suite.T())
}

func TestReviewServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReviewServiceTestSuite))
}

func (suite *ReviewServiceTestSuite) request(rating int) *models.CreateReviewRequest {
	comment := "Great flavour"
	return &models.CreateReviewRequest{
		MealID:  suite.mealID,
		Rating:  rating,
		Comment: &comment,
	}
}

func (suite *ReviewServiceTestSuite) TestCreateReview_Success() {
	suite.mockMealRepo.On("GetByID", suite.ctx, suite.mealID).Return(&models.Meal{ID: suite.mealID}, nil)
	suite.mockOrderRepo.On("HasDeliveredMeal", suite.ctx, suite.customerID, suite.mealID).Return(true, nil)
	suite.mockReviewRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Review")).Return(nil)

	review, err := suite.service.CreateReview(suite.ctx, suite.customerID, suite.request(5))
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.customerID, review.CustomerID)
	assert.Equal(suite.T(), suite.mealID, review.MealID)
	assert.Equal(suite.T(), 5, review.Rating)
}

func (suite *ReviewServiceTestSuite) TestCreateReview_MealMissing() {
	suite.mockMealRepo.On("GetByID", suite.ctx, suite.mealID).Return(nil, pgx.ErrNoRows)

	review, err := suite.service.CreateReview(suite.ctx, suite.customerID, suite.request(4))
	assert.Nil(suite.T(), review)
	var notFound *common.NotFoundError
	assert.ErrorAs(suite.T(), err, &notFound)
}

func (suite *ReviewServiceTestSuite) TestCreateReview_NoDeliveredPurchase() {
	suite.mockMealRepo.On("GetByID", suite.ctx, suite.mealID).Return(&models.Meal{ID: suite.mealID}, nil)
	suite.mockOrderRepo.On("HasDeliveredMeal", suite.ctx, suite.customerID, suite.mealID).Return(false, nil)

	review, err := suite.service.CreateReview(suite.ctx, suite.customerID, suite.request(4))
	assert.Nil(suite.T(), review)
	var eligibility *common.EligibilityError
	assert.ErrorAs(suite.T(), err, &eligibility)
}

func (suite *ReviewServiceTestSuite) TestCreateReview_Duplicate() {
	suite.mockMealRepo.On("GetByID", suite.ctx, suite.mealID).Return(&models.Meal{ID: suite.mealID}, nil)
	suite.mockOrderRepo.On("HasDeliveredMeal", suite.ctx, suite.customerID, suite.mealID).Return(true, nil)
	suite.mockReviewRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Review")).
		Return(&pgconn.PgError{Code: "23505", ConstraintName: "reviews_customer_id_meal_id_key"})

	review, err := suite.service.CreateReview(suite.ctx, suite.customerID, suite.request(3))
	assert.Nil(suite.T(), review)
	var duplicate *common.DuplicateReviewError
	assert.ErrorAs(suite.T(), err, &duplicate)
}

func (suite *ReviewServiceTestSuite) TestCreateReview_UnavailableMealStillReviewable() {
	// A meal withdrawn from the catalog can still be reviewed after a
	// delivered order.
	suite.mockMealRepo.On("GetByID", suite.ctx, suite.mealID).
		Return(&models.Meal{ID: suite.mealID, IsAvailable: false}, nil)
	suite.mockOrderRepo.On("HasDeliveredMeal", suite.ctx, suite.customerID, suite.mealID).Return(true, nil)
	suite.mockReviewRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Review")).Return(nil)

	review, err := suite.service.CreateReview(suite.ctx, suite.customerID, suite.request(2))
	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), review)
}
