package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/v-pascoal/radar-hub/internal/api/metrics"
	"github.com/v-pascoal/radar-hub/internal/core/domain"
	"github.com/v-pascoal/radar-hub/internal/core/ports"
)

// CaseHandler handles HTTP requests for the case lifecycle.
type CaseHandler struct {
	service ports.CaseService
}

func NewCaseHandler(service ports.CaseService) *CaseHandler {
	return &CaseHandler{service: service}
}

// Submit handles POST /v1/cases.
//
// @Summary      Submit a defense request
// @Tags         cases
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      submitCaseRequest  true  "Case type, fines and narrative"
// @Success      201   {object}  submitCaseResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/cases [post]
func (h *CaseHandler) Submit(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req submitCaseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	defer observe("submit_case").ObserveDuration()

	cs, err := h.service.Submit(c.Request().Context(), actor, toSubmitInput(req))
	if err != nil {
		return err
	}
	metrics.CasesSubmittedTotal.WithLabelValues(string(cs.Type)).Inc()

	c.Response().Header().Set(echo.HeaderLocation, "/v1/cases/"+cs.ID)
	return c.JSON(http.StatusCreated, submitCaseResponse{
		CaseID:        cs.ID,
		ReferenceCode: cs.ReferenceCode,
		Status:        string(cs.Status),
		Fee:           cs.Fee.StringFixed(2),
		CreatedAt:     formatTime(cs.CreatedAt),
		Links:         linksFor(cs.ID),
	})
}

// ListMine handles GET /v1/cases/mine: the client's own cases or the
// professional's assigned cases, oldest first.
//
// @Summary      List my cases
// @Tags         cases
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  caseListResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/cases/mine [get]
func (h *CaseHandler) ListMine(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	cases, err := h.service.ListMine(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCaseList(cases))
}

// Get handles GET /v1/cases/:id.
//
// @Summary      Get a case
// @Tags         cases
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Case id"
// @Success      200  {object}  caseResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/cases/{id} [get]
func (h *CaseHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	cs, err := h.service.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCaseResponse(cs))
}

// Update handles PUT /v1/cases/:id. Only the owner may edit, and only before
// a professional claims the case.
//
// @Summary      Edit an unclaimed case
// @Tags         cases
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Case id"
// @Param        body  body      updateCaseRequest  true  "Fields to change"
// @Success      200   {object}  caseResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/cases/{id} [put]
func (h *CaseHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req updateCaseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	defer observe("update_case").ObserveDuration()

	cs, err := h.service.Update(c.Request().Context(), actor, c.Param("id"), toUpdateInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCaseResponse(cs))
}

// Opportunities handles GET /v1/opportunities.
//
// @Summary      List open cases available to claim
// @Tags         cases
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  caseListResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/opportunities [get]
func (h *CaseHandler) Opportunities(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	cases, err := h.service.Opportunities(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCaseList(cases))
}

// Claim handles POST /v1/cases/:id/claim. Exactly one concurrent claimer wins;
// the others receive 409.
//
// @Summary      Claim an open case
// @Tags         cases
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Case id"
// @Success      200  {object}  caseResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/cases/{id}/claim [post]
func (h *CaseHandler) Claim(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	defer observe("claim").ObserveDuration()

	cs, err := h.service.Claim(c.Request().Context(), actor, c.Param("id"))
	metrics.ClaimsTotal.WithLabelValues(claimResult(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCaseResponse(cs))
}

func claimResult(err error) string {
	switch {
	case err == nil:
		return "won"
	case errors.Is(err, domain.ErrCaseNotClaimable):
		return "not_claimable"
	case errors.Is(err, domain.ErrNotVerified):
		return "not_verified"
	default:
		return "error"
	}
}

// Decline handles POST /v1/cases/:id/decline. The case stays open for others.
//
// @Summary      Hide an opportunity
// @Tags         cases
// @Security     BearerAuth
// @Param        id   path  string  true  "Case id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/cases/{id}/decline [post]
func (h *CaseHandler) Decline(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.service.Decline(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// RecordStatus handles PUT /v1/cases/:id/status.
//
// @Summary      Report case progress
// @Tags         cases
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Case id"
// @Param        body  body      recordStatusRequest  true  "Status label, narrative and evidence"
// @Success      200   {object}  caseResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/cases/{id}/status [put]
func (h *CaseHandler) RecordStatus(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req recordStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	defer observe("record_status").ObserveDuration()

	cs, err := h.service.RecordStatus(c.Request().Context(), actor, c.Param("id"), toRecordStatusInput(req))
	if err != nil {
		return err
	}
	metrics.StatusUpdatesTotal.WithLabelValues(string(cs.Status)).Inc()
	return c.JSON(http.StatusOK, toCaseResponse(cs))
}

// Timeline handles GET /v1/cases/:id/timeline, newest event first.
//
// @Summary      Case timeline
// @Tags         cases
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Case id"
// @Success      200  {object}  timelineResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/cases/{id}/timeline [get]
func (h *CaseHandler) Timeline(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id := c.Param("id")
	events, err := h.service.Timeline(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	if events == nil {
		events = []domain.TimelineEvent{}
	}
	return c.JSON(http.StatusOK, timelineResponse{CaseID: id, Events: events})
}

// WalletHandler serves the derived earnings summary.
type WalletHandler struct {
	service ports.WalletService
}

func NewWalletHandler(service ports.WalletService) *WalletHandler {
	return &WalletHandler{service: service}
}

// Stats handles GET /v1/wallet/:professionalId.
//
// @Summary      Professional wallet summary
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Param        professionalId  path      string  true  "Professional user id"
// @Success      200             {object}  walletResponse
// @Failure      403             {object}  errorResponse
// @Router       /v1/wallet/{professionalId} [get]
func (h *WalletHandler) Stats(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	stats, err := h.service.Stats(c.Request().Context(), actor, c.Param("professionalId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toWalletResponse(stats))
}
