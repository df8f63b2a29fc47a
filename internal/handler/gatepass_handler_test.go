package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/yuvaraj-dudukuru/gate-pass/internal/dto"
	"github.com/yuvaraj-dudukuru/gate-pass/internal/models"
	"github.com/yuvaraj-dudukuru/gate-pass/internal/service"
)

type stubIdentity struct {
	actor service.Actor
	err   error
}

func (s *stubIdentity) Resolve(ctx context.Context, userID uint) (service.Actor, error) {
	if s.err != nil {
		return service.Actor{}, s.err
	}
	return s.actor, nil
}

type stubGatePassService struct {
	response dto.GatePassResponse
	list     []dto.GatePassResponse
	err      error
}

func (s *stubGatePassService) Submit(ctx context.Context, actor service.Actor, payload dto.GatePassCreateRequest) (dto.GatePassResponse, error) {
	return s.response, s.err
}

func (s *stubGatePassService) WardenDecide(ctx context.Context, actor service.Actor, gatepassID uint, payload dto.WardenDecisionRequest) (dto.GatePassResponse, error) {
	return s.response, s.err
}

func (s *stubGatePassService) SecurityApprove(ctx context.Context, actor service.Actor, gatepassID uint) (dto.GatePassResponse, error) {
	return s.response, s.err
}

func (s *stubGatePassService) RecordReturn(ctx context.Context, actor service.Actor, gatepassID uint, payload dto.RecordReturnRequest) (dto.GatePassResponse, error) {
	return s.response, s.err
}

func (s *stubGatePassService) SuperadminDecide(ctx context.Context, actor service.Actor, gatepassID uint, payload dto.AdminDecisionRequest) (dto.GatePassResponse, error) {
	return s.response, s.err
}

func (s *stubGatePassService) Get(ctx context.Context, actor service.Actor, gatepassID uint) (dto.GatePassResponse, error) {
	return s.response, s.err
}

func (s *stubGatePassService) List(ctx context.Context, actor service.Actor, filter dto.GatePassFilter) ([]dto.GatePassResponse, error) {
	return s.list, s.err
}

func newGatePassTestApp(svc service.GatePassService, identity service.IdentityService) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(1))
		return c.Next()
	})

	handler := NewGatePassHandler(svc, identity, zerolog.Nop())
	handler.Register(app.Group("/gatepasses"))
	return app
}

func TestSubmitReturnsCreated(t *testing.T) {
	identity := &stubIdentity{actor: service.Actor{ID: 1, Role: models.RoleStudent}}
	svc := &stubGatePassService{response: dto.GatePassResponse{ID: 7, Status: models.GatePassStatusPending}}
	app := newGatePassTestApp(svc, identity)

	body := `{"outing_at":"2026-09-01T10:00:00Z","expected_return_at":"2026-09-03T18:00:00Z","purpose":"family visit"}`
	req := httptest.NewRequest(http.MethodPost, "/gatepasses/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var envelope struct {
		Success bool                 `json:"success"`
		Data    dto.GatePassResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(payload, &envelope))
	require.True(t, envelope.Success)
	require.Equal(t, uint(7), envelope.Data.ID)
}

func TestSubmitRejectsMalformedBody(t *testing.T) {
	identity := &stubIdentity{actor: service.Actor{ID: 1, Role: models.RoleStudent}}
	app := newGatePassTestApp(&stubGatePassService{}, identity)

	req := httptest.NewRequest(http.MethodPost, "/gatepasses/", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestServiceErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"authorization", service.ErrNotAuthorized, fiber.StatusForbidden},
		{"conflict", service.ErrAlreadyProcessed, fiber.StatusConflict},
		{"not found", service.ErrGatePassNotFound, fiber.StatusNotFound},
		{"validation", service.ErrInvalidOutingWindow, fiber.StatusBadRequest},
		{"parent verification", service.ErrParentVerificationRequired, fiber.StatusBadRequest},
		{"rejection reason", service.ErrRejectionReasonRequired, fiber.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			identity := &stubIdentity{actor: service.Actor{ID: 1, Role: models.RoleWarden}}
			app := newGatePassTestApp(&stubGatePassService{err: tc.err}, identity)

			body := `{"action":"approve","parent_verified":true}`
			req := httptest.NewRequest(http.MethodPost, "/gatepasses/5/warden-decision", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tc.status, resp.StatusCode)

			payload, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			var envelope struct {
				Detail string `json:"detail"`
			}
			require.NoError(t, json.Unmarshal(payload, &envelope))
			require.Equal(t, tc.err.Error(), envelope.Detail)
		})
	}
}

func TestInvalidGatePassIDParam(t *testing.T) {
	identity := &stubIdentity{actor: service.Actor{ID: 1, Role: models.RoleSecurity}}
	app := newGatePassTestApp(&stubGatePassService{}, identity)

	req := httptest.NewRequest(http.MethodPost, "/gatepasses/abc/security-approve", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUnknownUserIsNotFound(t *testing.T) {
	identity := &stubIdentity{err: service.ErrUserNotFound}
	app := newGatePassTestApp(&stubGatePassService{}, identity)

	req := httptest.NewRequest(http.MethodGet, "/gatepasses/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
