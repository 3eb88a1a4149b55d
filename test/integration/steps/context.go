// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/BlvckBrry/finance-tracker/config"
	"github.com/BlvckBrry/finance-tracker/internal/infra/dependency"
	"github.com/BlvckBrry/finance-tracker/internal/integration/email"
	"github.com/BlvckBrry/finance-tracker/internal/integration/persistence/model"
	"github.com/BlvckBrry/finance-tracker/test/integration/mock"
)

const testJWTSecret = "test-jwt-secret-key-for-testing-purposes"

// TestContext holds the test state for each scenario.
type TestContext struct {
	uri     string
	headers map[string]string
	client  *http.Client

	response *response

	db          *mock.Db
	redisClient *redis.Client
	emailSender *email.MockEmailSender

	accessToken       string
	refreshToken      string
	currentUserID     uuid.UUID
	currentCategoryID uuid.UUID
	lastTransactionID uuid.UUID
}

type response struct {
	status int
	body   any
	raw    []byte
}

var suiteOnce sync.Once
var testServer *httptest.Server
var testDB *mock.Db
var testRedis *redis.Client
var testEmailSender *email.MockEmailSender

// startSuite wires the full application against the in-memory database and
// Redis, and starts a single shared test server.
func startSuite() {
	suiteOnce.Do(func() {
		gin.SetMode(gin.TestMode)

		testDB = mock.NewDb(map[string]any{
			"users":        &model.UserModel{},
			"currencies":   &model.CurrencyModel{},
			"categories":   &model.CategoryModel{},
			"balances":     &model.BalanceModel{},
			"transactions": &model.TransactionModel{},
			"email_queue":  &model.EmailQueueModel{},
		})
		testRedis = mock.NewRedis()
		testEmailSender = email.NewMockEmailSender()

		cfg := config.Load()
		cfg.JWT.Secret = testJWTSecret
		cfg.Currency.BaseCode = "UAH"

		injector, err := dependency.NewInjector(cfg, testDB.DbConn, testRedis, testEmailSender, func() bool {
			return testDB != nil && testDB.DbConn != nil
		})
		if err != nil {
			panic("failed to wire test dependencies: " + err.Error())
		}

		engine := injector.Router.Setup("test")
		testServer = httptest.NewServer(engine)
	})
}

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(startSuite)
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	startSuite()

	test := &TestContext{
		uri:         testServer.URL,
		client:      &http.Client{Timeout: 10 * time.Second},
		db:          testDB,
		redisClient: testRedis,
		emailSender: testEmailSender,
	}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		test.before()
		return ctx, nil
	})

	// Background steps
	ctx.Given(`^the API server is running$`, test.theAPIServerIsRunning)

	// User setup steps
	ctx.Given(`^a user exists with email "([^"]*)"$`, test.aUserExistsWithEmail)
	ctx.Given(`^a user exists with email "([^"]*)" and password "([^"]*)"$`, test.aUserExistsWithEmailAndPassword)
	ctx.Given(`^the user is logged in with valid tokens$`, test.theUserIsLoggedInWithValidTokens)
	ctx.Given(`^the user has a spending limit of "([^"]*)"$`, test.theUserHasASpendingLimitOf)
	ctx.Given(`^the user has a balance of "([^"]*)"$`, test.theUserHasABalanceOf)

	// Category setup steps
	ctx.Given(`^a category exists with name "([^"]*)"$`, test.aCategoryExistsWithName)

	// Transaction setup steps
	ctx.Given(`^a transaction exists with type "([^"]*)" amount "([^"]*)" and category "([^"]*)"$`, test.aTransactionExists)

	// Currency setup steps
	ctx.Given(`^the exchange rate for "([^"]*)" is "([^"]*)"$`, test.theExchangeRateForIs)

	// Header steps
	ctx.Given(`^the header is empty$`, test.theHeaderIsEmpty)
	ctx.Given(`^the header contains the key "([^"]*)" with "([^"]*)"$`, test.theHeaderContainsTheKeyWith)

	// Request steps
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)"$`, test.iSendARequestTo)
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, test.iSendARequestToWithBody)

	// Response assertion steps
	ctx.Then(`^the response status should be (\d+)$`, test.theResponseStatusShouldBe)
	ctx.Then(`^the response should be JSON$`, test.theResponseShouldBeJSON)
	ctx.Then(`^the response should contain "([^"]*)"$`, test.theResponseShouldContain)
	ctx.Then(`^the response field "([^"]*)" should be "([^"]*)"$`, test.theResponseFieldShouldBe)
	ctx.Then(`^the response field "([^"]*)" should exist$`, test.theResponseFieldShouldExist)

	// Database assertion steps
	ctx.Then(`^the db should contain (\d+) objects in the "([^"]*)" table$`, test.theDbShouldContainObjectsInTheTable)
	ctx.Then(`^the db should contain (\d+) objects in "([^"]*)" with the values$`, test.theDbShouldContainObjectsInWithTheValues)
}

func (t *TestContext) before() {
	t.headers = make(map[string]string)
	t.response = nil
	t.accessToken = ""
	t.refreshToken = ""
	t.currentUserID = uuid.Nil
	t.currentCategoryID = uuid.Nil
	t.lastTransactionID = uuid.Nil

	if t.db != nil {
		_ = t.db.ClearDB()
	}
	if t.redisClient != nil {
		_ = mock.ClearRedis(t.redisClient)
	}
}
