package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/darts-league/internal/domain/fixture"
	"github.com/riskibarqy/darts-league/internal/domain/reconcile"
	"github.com/riskibarqy/darts-league/internal/usecase"
)

func errInvalidSide(raw string) error {
	return fmt.Errorf("%w: side must be home or away, got %q", usecase.ErrInvalidInput, raw)
}

func (h *Handler) GetMergePlan(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMergePlan")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	fixtureID := strings.TrimSpace(r.PathValue("fixtureID"))
	plan, err := h.mergeService.Plan(ctx, principal, fixtureID)
	if err != nil {
		h.fail(ctx, w, "get merge plan failed", err, "fixture_id", fixtureID)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, planToDTO(plan))
}

func (h *Handler) AcceptMergeMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AcceptMergeMatch")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	index, err := pathIndex(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var body acceptMatchRequest
	if err := h.decodeRequest(ctx, r, &body); err != nil {
		writeError(ctx, w, err)
		return
	}

	fixtureID := strings.TrimSpace(r.PathValue("fixtureID"))
	plan, err := h.mergeService.AcceptMatch(ctx, principal, fixtureID, index, reconcile.Source(body.Source))
	if err != nil {
		h.fail(ctx, w, "accept match failed", err, "fixture_id", fixtureID, "index", index, "source", body.Source)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, planToDTO(plan))
}

func (h *Handler) MergeAccolade(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MergeAccolade")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	category, ok := reconcile.ParseCategory(strings.TrimSpace(r.PathValue("category")))
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: unknown accolade category %q", usecase.ErrInvalidInput, r.PathValue("category")))
		return
	}
	var body mergeFromSideRequest
	if err := h.decodeRequest(ctx, r, &body); err != nil {
		writeError(ctx, w, err)
		return
	}

	fixtureID := strings.TrimSpace(r.PathValue("fixtureID"))
	plan, err := h.mergeService.MergeAccolade(ctx, principal, fixtureID, category, fixture.Side(body.Side))
	if err != nil {
		h.fail(ctx, w, "merge accolade failed", err, "fixture_id", fixtureID, "category", string(category), "side", body.Side)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, planToDTO(plan))
}

func (h *Handler) MergeManOfTheMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MergeManOfTheMatch")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	side, ok := fixture.ParseSide(r.PathValue("side"))
	if !ok {
		writeError(ctx, w, errInvalidSide(r.PathValue("side")))
		return
	}

	fixtureID := strings.TrimSpace(r.PathValue("fixtureID"))
	plan, err := h.mergeService.MergeManOfTheMatch(ctx, principal, fixtureID, side)
	if err != nil {
		h.fail(ctx, w, "merge man of the match failed", err, "fixture_id", fixtureID, "side", string(side))
		return
	}
	writeSuccess(ctx, w, http.StatusOK, planToDTO(plan))
}

func (h *Handler) ListPendingMerges(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPendingMerges")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	divisionID := strings.TrimSpace(r.PathValue("divisionID"))
	ids, err := h.mergeService.Pending(ctx, principal, divisionID)
	if err != nil {
		h.fail(ctx, w, "list pending merges failed", err, "division_id", divisionID)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeSuccess(ctx, w, http.StatusOK, pendingMergesDTO{DivisionID: divisionID, FixtureIDs: ids})
}
