package driverrepo_test

import (
	"context"
	"testing"
	"time"

	"dispensary/internal/adapters/out/postgres/driverrepo"
	"dispensary/internal/core/domain/model/driver"
	"dispensary/internal/core/domain/model/kernel"
	"dispensary/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of the aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// DriverRepositoryIntegrationTestSuite provides integration tests for
// GormDriverRepository using PostgreSQL containers.
type DriverRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *driverrepo.GormDriverRepository
	tracker    *MockAggregateTracker
}

func (suite *DriverRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&driverrepo.DriverDTO{}))
}

func (suite *DriverRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE drivers").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = driverrepo.NewGormDriverRepository(suite.db, suite.tracker)
}

func (suite *DriverRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *DriverRepositoryIntegrationTestSuite) createTestDriver(name string) *driver.Driver {
	d, err := driver.NewDriver(kernel.NewUUID(), name, "555-0100", "Kia Soul")
	suite.Require().NoError(err)
	return d
}

func (suite *DriverRepositoryIntegrationTestSuite) TestAddAndGet_RoundTrip() {
	ctx := context.Background()
	testDriver := suite.createTestDriver("Jamie Ortiz")

	suite.Require().NoError(suite.repository.Add(ctx, testDriver))

	loaded, err := suite.repository.Get(ctx, testDriver.ID())
	suite.Require().NoError(err)
	suite.True(testDriver.ID().IsEqual(loaded.ID()))
	suite.Equal("Jamie Ortiz", loaded.Name())
	suite.Equal(driver.Available, loaded.Status())
	suite.Nil(loaded.OrderID())
}

func (suite *DriverRepositoryIntegrationTestSuite) TestGet_NotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *DriverRepositoryIntegrationTestSuite) TestUpdate_PersistsPairing() {
	ctx := context.Background()
	testDriver := suite.createTestDriver("Jamie Ortiz")
	suite.Require().NoError(suite.repository.Add(ctx, testDriver))

	orderID := kernel.NewUUID()
	suite.Require().NoError(testDriver.Take(orderID))
	suite.Require().NoError(suite.repository.Update(ctx, testDriver))

	loaded, err := suite.repository.Get(ctx, testDriver.ID())
	suite.Require().NoError(err)
	suite.Equal(driver.Busy, loaded.Status())
	suite.Require().NotNil(loaded.OrderID())
	suite.True(orderID.IsEqual(*loaded.OrderID()))

	// Release clears the pairing again.
	suite.Require().NoError(loaded.Release())
	suite.Require().NoError(suite.repository.Update(ctx, loaded))

	reloaded, err := suite.repository.Get(ctx, testDriver.ID())
	suite.Require().NoError(err)
	suite.Equal(driver.Available, reloaded.Status())
	suite.Nil(reloaded.OrderID())
}

func (suite *DriverRepositoryIntegrationTestSuite) TestUpdate_MissingDriver() {
	ctx := context.Background()
	testDriver := suite.createTestDriver("Jamie Ortiz")

	err := suite.repository.Update(ctx, testDriver)

	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *DriverRepositoryIntegrationTestSuite) TestGetAllAvailable() {
	ctx := context.Background()

	zoe := suite.createTestDriver("Zoe Park")
	abe := suite.createTestDriver("Abe Novak")
	busy := suite.createTestDriver("Mel Iqbal")
	offline := suite.createTestDriver("Nia Sorin")

	suite.Require().NoError(busy.Take(kernel.NewUUID()))
	suite.Require().NoError(offline.SetAvailability(driver.Offline))

	for _, d := range []*driver.Driver{zoe, abe, busy, offline} {
		suite.Require().NoError(suite.repository.Add(ctx, d))
	}

	available, err := suite.repository.GetAllAvailable(ctx)
	suite.Require().NoError(err)

	suite.Require().Len(available, 2)
	// Ordered by name.
	suite.Equal("Abe Novak", available[0].Name())
	suite.Equal("Zoe Park", available[1].Name())
}

func TestDriverRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(DriverRepositoryIntegrationTestSuite))
}
