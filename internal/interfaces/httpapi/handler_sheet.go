package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/riskibarqy/darts-league/internal/domain/fixture"
	"github.com/riskibarqy/darts-league/internal/domain/user"
	"github.com/riskibarqy/darts-league/internal/usecase"
)

type sheetRequest struct {
	principal user.Principal
	fixtureID string
	target    usecase.SheetTarget
}

func parseSheetRequest(ctx context.Context, r *http.Request) (sheetRequest, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return sheetRequest{}, err
	}
	target, err := usecase.ParseSheetTarget(r.PathValue("sheet"))
	if err != nil {
		return sheetRequest{}, err
	}
	return sheetRequest{
		principal: principal,
		fixtureID: strings.TrimSpace(r.PathValue("fixtureID")),
		target:    target,
	}, nil
}

func (h *Handler) GetSheet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSheet")
	defer span.End()

	req, err := parseSheetRequest(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	sheet, err := h.sheetService.Get(ctx, req.principal, req.fixtureID, req.target)
	if err != nil {
		h.fail(ctx, w, "get sheet failed", err, "fixture_id", req.fixtureID, "sheet", string(req.target))
		return
	}
	writeSuccess(ctx, w, http.StatusOK, sheetToDTO(sheet))
}

func (h *Handler) SetSheetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetSheetMatch")
	defer span.End()

	req, err := parseSheetRequest(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	index, err := pathIndex(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var body setMatchRequest
	if err := h.decodeRequest(ctx, r, &body); err != nil {
		writeError(ctx, w, err)
		return
	}

	sheet, err := h.sheetService.SetMatch(ctx, req.principal, req.fixtureID, req.target, index, body.toMatch())
	h.writeSheet(ctx, w, "set match failed", req, sheet, err, "index", index)
}

func (h *Handler) AddOneEighty(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddOneEighty")
	defer span.End()

	req, err := parseSheetRequest(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var body addOneEightyRequest
	if err := h.decodeRequest(ctx, r, &body); err != nil {
		writeError(ctx, w, err)
		return
	}

	sheet, err := h.sheetService.AddOneEighty(ctx, req.principal, req.fixtureID, req.target, body.PlayerID)
	h.writeSheet(ctx, w, "add 180 failed", req, sheet, err, "player_id", body.PlayerID)
}

func (h *Handler) RemoveOneEighty(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RemoveOneEighty")
	defer span.End()

	req, err := parseSheetRequest(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	index, err := pathIndex(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	sheet, err := h.sheetService.RemoveOneEighty(ctx, req.principal, req.fixtureID, req.target, index)
	h.writeSheet(ctx, w, "remove 180 failed", req, sheet, err, "index", index)
}

func (h *Handler) AddHiCheck(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddHiCheck")
	defer span.End()

	req, err := parseSheetRequest(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var body addHiCheckRequest
	if err := h.decodeRequest(ctx, r, &body); err != nil {
		writeError(ctx, w, err)
		return
	}

	sheet, err := h.sheetService.AddHiCheck(ctx, req.principal, req.fixtureID, req.target, body.PlayerID, body.Notes)
	h.writeSheet(ctx, w, "add hi-check failed", req, sheet, err, "player_id", body.PlayerID)
}

func (h *Handler) RemoveHiCheck(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RemoveHiCheck")
	defer span.End()

	req, err := parseSheetRequest(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	index, err := pathIndex(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	sheet, err := h.sheetService.RemoveHiCheck(ctx, req.principal, req.fixtureID, req.target, index)
	h.writeSheet(ctx, w, "remove hi-check failed", req, sheet, err, "index", index)
}

func (h *Handler) SetSheetManOfTheMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetSheetManOfTheMatch")
	defer span.End()

	req, err := parseSheetRequest(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	side, ok := fixture.ParseSide(r.PathValue("side"))
	if !ok {
		writeError(ctx, w, errInvalidSide(r.PathValue("side")))
		return
	}
	var body setManOfTheMatchRequest
	if err := h.decodeRequest(ctx, r, &body); err != nil {
		writeError(ctx, w, err)
		return
	}

	sheet, err := h.sheetService.SetManOfTheMatch(ctx, req.principal, req.fixtureID, req.target, side, body.PlayerID)
	h.writeSheet(ctx, w, "set man of the match failed", req, sheet, err, "side", string(side))
}

func (h *Handler) writeSheet(ctx context.Context, w http.ResponseWriter, msg string, req sheetRequest, sheet fixture.Sheet, err error, args ...any) {
	if err != nil {
		args = append(args, "fixture_id", req.fixtureID, "sheet", string(req.target), "user_id", req.principal.UserID)
		h.fail(ctx, w, msg, err, args...)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, sheetToDTO(sheet))
}
