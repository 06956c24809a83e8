package queries_test

import (
	"context"
	"testing"
	"time"

	"dispensary/internal/adapters/out/postgres/driverrepo"
	"dispensary/internal/core/application/usecases/queries"
	"dispensary/internal/core/domain/model/driver"
	"dispensary/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestNewGetAvailableDriversQuery_Valid(t *testing.T) {
	query := queries.NewGetAvailableDriversQuery()
	require.NoError(t, query.Validate())
}

func TestGetAvailableDriversQuery_NotConstructedViaConstructor(t *testing.T) {
	query := queries.GetAvailableDriversQuery{}
	err := query.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrGetAvailableDriversQueryIsNotConstructed)
}

type GetAvailableDriversQueryHandlerTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	handler    queries.GetAvailableDriversQueryHandler
	driverRepo *driverrepo.GormDriverRepository
}

func (suite *GetAvailableDriversQueryHandlerTestSuite) SetupSuite() {
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

	suite.handler = queries.NewGetAvailableDriversQueryHandler(db)
	suite.driverRepo = driverrepo.NewGormDriverRepository(db, &mockAggregateTracker{})
}

func (suite *GetAvailableDriversQueryHandlerTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE drivers").Error)
}

func (suite *GetAvailableDriversQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *GetAvailableDriversQueryHandlerTestSuite) addDriver(name string) *driver.Driver {
	testDriver, err := driver.NewDriver(kernel.NewUUID(), name, "555-0101", "Toyota Prius")
	suite.Require().NoError(err)
	suite.Require().NoError(suite.driverRepo.Add(context.Background(), testDriver))
	return testDriver
}

func (suite *GetAvailableDriversQueryHandlerTestSuite) TestHandle_EmptyDatabase_ReturnsEmptySlice() {
	result, err := suite.handler.Handle(context.Background(), queries.NewGetAvailableDriversQuery())

	suite.Require().NoError(err)
	suite.NotNil(result)
	suite.Empty(result)
}

func (suite *GetAvailableDriversQueryHandlerTestSuite) TestHandle_ReturnsOnlyAvailableDriversSortedByName() {
	ctx := context.Background()

	suite.addDriver("Zoe Park")
	suite.addDriver("Abe Novak")

	busy := suite.addDriver("Mel Iqbal")
	suite.Require().NoError(busy.Take(kernel.NewUUID()))
	suite.Require().NoError(suite.driverRepo.Update(ctx, busy))

	offline := suite.addDriver("Nia Sorin")
	suite.Require().NoError(offline.SetAvailability(driver.Offline))
	suite.Require().NoError(suite.driverRepo.Update(ctx, offline))

	result, err := suite.handler.Handle(ctx, queries.NewGetAvailableDriversQuery())
	suite.Require().NoError(err)

	suite.Require().Len(result, 2)
	suite.Equal("Abe Novak", result[0].Name)
	suite.Equal("Zoe Park", result[1].Name)
	for _, model := range result {
		suite.Equal("available", model.Status)
		suite.Equal("555-0101", model.Phone)
		suite.Equal("Toyota Prius", model.Vehicle)
		suite.Nil(model.OrderID)
	}
}

func (suite *GetAvailableDriversQueryHandlerTestSuite) TestHandle_RejectsUnconstructedQuery() {
	_, err := suite.handler.Handle(context.Background(), queries.GetAvailableDriversQuery{})
	suite.Require().ErrorIs(err, queries.ErrGetAvailableDriversQueryIsNotConstructed)
}

func TestGetAvailableDriversQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetAvailableDriversQueryHandlerTestSuite))
}
