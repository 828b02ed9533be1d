// internal/services/service_test.go
package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shopkite/shop-backend/internal/config"
	"github.com/shopkite/shop-backend/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named in-memory database keeps the schema visible across pooled
	// connections but stays private to the test.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.ProductReport{},
		&models.Review{},
		&models.Order{},
	))

	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 1,
		},
		Email: config.EmailConfig{
			FromName:  "Shopkite Test",
			FromEmail: "test@shopkite.io",
		},
	}
}

func createTestUser(t *testing.T, db *gorm.DB, userType models.UserType) *models.User {
	t.Helper()

	user := &models.User{
		Username: fmt.Sprintf("user_%s", uuid.New().String()[:8]),
		Email:    fmt.Sprintf("%s@example.com", uuid.New().String()[:8]),
		UserType: userType,
		Status:   models.UserStatusActive,
	}
	require.NoError(t, user.SetPassword("Str0ng!Pass"))
	require.NoError(t, db.Create(user).Error)

	return user
}

func createTestProduct(t *testing.T, db *gorm.DB, sellerID uuid.UUID, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		SellerID: sellerID,
		Name:     "Widget",
		Brand:    "Acme",
		Category: "tools",
		Price:    19.99,
		Stock:    stock,
	}
	require.NoError(t, db.Create(product).Error)

	return product
}

// sqlRecorder is a gorm logger that keeps every executed statement in order,
// used to assert the sequencing of multi-statement operations.
type sqlRecorder struct {
	mu    sync.Mutex
	stmts []string
}

func (r *sqlRecorder) LogMode(logger.LogLevel) logger.Interface { return r }

func (r *sqlRecorder) Info(context.Context, string, ...interface{})  {}
func (r *sqlRecorder) Warn(context.Context, string, ...interface{})  {}
func (r *sqlRecorder) Error(context.Context, string, ...interface{}) {}

func (r *sqlRecorder) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	sql, _ := fc()
	r.mu.Lock()
	r.stmts = append(r.stmts, sql)
	r.mu.Unlock()
}

func (r *sqlRecorder) statements() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.stmts))
	copy(out, r.stmts)
	return out
}
