package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/darts-league/internal/platform/logging"
	"github.com/riskibarqy/darts-league/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

type Handler struct {
	fixtureService *usecase.FixtureService
	sheetService   *usecase.SheetService
	mergeService   *usecase.MergeService
	logger         *logging.Logger
	validator      *validator.Validate
}

func NewHandler(
	fixtureService *usecase.FixtureService,
	sheetService *usecase.SheetService,
	mergeService *usecase.MergeService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		fixtureService: fixtureService,
		sheetService:   sheetService,
		mergeService:   mergeService,
		logger:         logger,
		validator:      validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeRequest reads a JSON body strictly and runs struct validation.
func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, payload any) error {
	decoder := sonic.ConfigStd.NewDecoder(io.LimitReader(r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(payload); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, payload)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func pathIndex(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.PathValue("index"))
	index, err := strconv.Atoi(raw)
	if err != nil || index < 0 {
		return 0, fmt.Errorf("%w: index must be a non-negative integer, got %q", usecase.ErrInvalidInput, raw)
	}
	return index, nil
}

// fail logs and writes err. Client errors log at warn, the rest at error.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error, args ...any) {
	args = append(args, "error", err)
	if mapError(err).HTTPStatus >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg, args...)
	} else {
		h.logger.WarnContext(ctx, msg, args...)
	}
	writeError(ctx, w, err)
}
