package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/darts-league/internal/usecase"
)

func (h *Handler) ListFixturesByDivision(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFixturesByDivision")
	defer span.End()

	divisionID := strings.TrimSpace(r.PathValue("divisionID"))
	fixtures, err := h.fixtureService.ListByDivision(ctx, divisionID)
	if err != nil {
		h.fail(ctx, w, "list fixtures failed", err, "division_id", divisionID)
		return
	}

	items := make([]fixtureDTO, 0, len(fixtures))
	for _, f := range fixtures {
		items = append(items, fixtureToDTO(f))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetFixture(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFixture")
	defer span.End()

	fixtureID := strings.TrimSpace(r.PathValue("fixtureID"))
	item, err := h.fixtureService.Get(ctx, fixtureID)
	if err != nil {
		h.fail(ctx, w, "get fixture failed", err, "fixture_id", fixtureID)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, fixtureToDTO(item))
}

func (h *Handler) ListFixturePlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFixturePlayers")
	defer span.End()

	fixtureID := strings.TrimSpace(r.PathValue("fixtureID"))
	players, err := h.fixtureService.ApplicablePlayers(ctx, fixtureID)
	if err != nil {
		h.fail(ctx, w, "list fixture players failed", err, "fixture_id", fixtureID)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, playerRefsToDTO(players))
}

func (h *Handler) CreateFixture(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateFixture")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req createFixtureRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.fixtureService.Create(ctx, principal, usecase.CreateFixtureInput{
		DivisionID: req.DivisionID,
		Season:     req.Season,
		HomeTeam:   req.HomeTeam,
		AwayTeam:   req.AwayTeam,
		HomeTeamID: req.HomeTeamID,
		AwayTeamID: req.AwayTeamID,
		Date:       req.Date,
		Venue:      req.Venue,
		MatchSlots: req.MatchSlots,
	})
	if err != nil {
		h.fail(ctx, w, "create fixture failed", err, "division_id", req.DivisionID, "user_id", principal.UserID)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, fixtureToDTO(item))
}

func (h *Handler) UpdateFixtureDetails(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateFixtureDetails")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req updateFixtureRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	fixtureID := strings.TrimSpace(r.PathValue("fixtureID"))
	item, err := h.fixtureService.UpdateDetails(ctx, principal, fixtureID, usecase.UpdateFixtureDetailsInput{
		Date:      req.Date,
		Venue:     req.Venue,
		Postponed: req.Postponed,
	})
	if err != nil {
		h.fail(ctx, w, "update fixture failed", err, "fixture_id", fixtureID, "user_id", principal.UserID)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, fixtureToDTO(item))
}
