// internal/handlers/review_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shopkite/shop-backend/internal/models"
	"github.com/shopkite/shop-backend/internal/services"
)

type reviewTestEnv struct {
	db      *gorm.DB
	router  *gin.Engine
	product *models.Product
	buyer   *models.User
}

func setupReviewTest(t *testing.T) *reviewTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Product{}, &models.Review{}))

	buyer := &models.User{
		Username: "buyer1",
		Email:    "buyer1@example.com",
		UserType: models.UserTypeBuyer,
		Status:   models.UserStatusActive,
	}
	require.NoError(t, buyer.SetPassword("Str0ng!Pass"))
	require.NoError(t, db.Create(buyer).Error)

	product := &models.Product{
		SellerID: uuid.New(),
		Name:     "Widget",
		Price:    9.99,
		Stock:    3,
	}
	require.NoError(t, db.Create(product).Error)

	handler := NewReviewHandler(services.NewReviewService(db))

	r := gin.New()
	// Inject the authenticated user the way the auth middleware would.
	r.Use(func(c *gin.Context) {
		c.Set("user_id", buyer.ID.String())
		c.Next()
	})
	r.POST("/products/:id/reviews", handler.SubmitReview)
	r.GET("/products/:id/reviews", handler.GetProductReviews)
	r.GET("/products/:id/rating", handler.GetProductRating)

	return &reviewTestEnv{db: db, router: r, product: product, buyer: buyer}
}

func (env *reviewTestEnv) submit(t *testing.T, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()

	jsonData, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost,
		"/products/"+env.product.ID.String()+"/reviews", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestSubmitReviewEndpoint(t *testing.T) {
	env := setupReviewTest(t)

	w := env.submit(t, map[string]interface{}{"rating": 4, "comment": "solid"})
	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response["success"].(bool))
}

func TestSubmitReviewEndpointRejectsBadRating(t *testing.T) {
	env := setupReviewTest(t)

	for _, rating := range []int{0, 6} {
		w := env.submit(t, map[string]interface{}{"rating": rating})
		assert.Equal(t, http.StatusBadRequest, w.Code, "rating %d", rating)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.False(t, response["success"].(bool))
	}

	// Missing rating is rejected as well.
	w := env.submit(t, map[string]interface{}{"comment": "no rating"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitReviewEndpointUpserts(t *testing.T) {
	env := setupReviewTest(t)

	w := env.submit(t, map[string]interface{}{"rating": 2})
	require.Equal(t, http.StatusCreated, w.Code)
	w = env.submit(t, map[string]interface{}{"rating": 5})
	require.Equal(t, http.StatusCreated, w.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.Review{}).
		Where("product_id = ?", env.product.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestProductRatingEndpoint(t *testing.T) {
	env := setupReviewTest(t)

	// Without reviews the average must come back null, not zero.
	req := httptest.NewRequest(http.MethodGet,
		"/products/"+env.product.ID.String()+"/rating", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	value, present := response.Data["average_rating"]
	assert.True(t, present)
	assert.Nil(t, value)

	env.submit(t, map[string]interface{}{"rating": 3})

	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 3.0, response.Data["average_rating"])
}
