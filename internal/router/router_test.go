package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/minhvt/bus-ticketing/internal/config"
	"github.com/minhvt/bus-ticketing/internal/handler"
	"github.com/minhvt/bus-ticketing/internal/model"
	"github.com/minhvt/bus-ticketing/internal/repository"
	"github.com/minhvt/bus-ticketing/internal/utils"
)

const testSecret = "router-test-secret"

// mountedAPI registers the full route table over a mocked database so
// tests exercise the same middleware chains production does.
func mountedAPI(t *testing.T) (*echo.Echo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := config.Config{
		JWTSecret: testSecret, AccessTTLMin: 15, RefreshTTLDays: 7,
		BcryptCost: bcrypt.MinCost,
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	companies := repository.NewCompanyRepo(db)
	buses := repository.NewBusRepo(db)
	routes := repository.NewRouteRepo(db)
	schedules := repository.NewScheduleRepo(db)
	seats := repository.NewSeatRepo(db)
	reservations := repository.NewReservationRepo(db)
	promotions := repository.NewPromotionRepo(db)

	h := Handlers{
		Auth:          handler.NewAuthHandler(cfg, users, tokens),
		Users:         handler.NewUserHandler(cfg, users),
		Companies:     handler.NewCompanyHandler(companies),
		Buses:         handler.NewBusHandler(buses, companies),
		Routes:        handler.NewRouteHandler(routes),
		Schedules:     handler.NewScheduleHandler(schedules, buses, routes, seats),
		Reservations:  handler.NewReservationHandler(reservations, schedules, seats, promotions, users, buses, routes),
		Payments:      handler.NewPaymentHandler(repository.NewPaymentRepo(db), reservations),
		Promotions:    handler.NewPromotionHandler(promotions),
		Drivers:       handler.NewDriverHandler(repository.NewDriverRepo(db), companies, schedules),
		Reviews:       handler.NewReviewHandler(repository.NewReviewRepo(db), companies, schedules),
		Notifications: handler.NewNotificationHandler(repository.NewNotificationRepo(db)),
		GPS:           handler.NewGPSHandler(repository.NewGPSRepo(db), buses),
		Agents:        handler.NewAgentHandler(repository.NewAgentRepo(db), users, companies, reservations),
		Chats:         handler.NewChatHandler(repository.NewChatRepo(db), users),
	}

	e := echo.New()
	Register(e, h, testSecret, nil)
	return e, mock
}

func bearerFor(t *testing.T, uid uint64, role model.Role) string {
	t.Helper()
	access, err := utils.NewAccessToken(testSecret, uid, role, 15)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return "Bearer " + access.Token
}

func TestLogoutAllRevokesEveryToken(t *testing.T) {
	e, mock := mountedAPI(t)

	mock.ExpectExec("UPDATE refresh_tokens SET revoked_at = NOW\\(\\) WHERE user_id = \\? AND revoked_at IS NULL").
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 3))

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout", strings.NewReader(`{"all":true}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, bearerFor(t, 7, model.RolePassenger))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "logged out") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLogoutSingleTokenRevokesByHash(t *testing.T) {
	e, mock := mountedAPI(t)

	mock.ExpectExec("UPDATE refresh_tokens SET revoked_at = NOW\\(\\) WHERE token_hash = \\? AND revoked_at IS NULL").
		WithArgs(utils.HashRefreshRaw("some-raw-refresh")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout", strings.NewReader(`{"refresh_token":"some-raw-refresh"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, bearerFor(t, 7, model.RolePassenger))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLogoutWithoutTokenIsRejected(t *testing.T) {
	e, mock := mountedAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout", strings.NewReader(`{"all":true}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("db touched without identity: %v", err)
	}
}
