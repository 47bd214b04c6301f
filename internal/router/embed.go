package router

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/DjordjeVuckovic/embed-service/internal/apperr"
	"github.com/DjordjeVuckovic/embed-service/internal/dto"
	"github.com/DjordjeVuckovic/embed-service/internal/embedding"
	"github.com/DjordjeVuckovic/embed-service/pkg/metrics"
	"github.com/labstack/echo/v4"
)

var errVectorizationFailed = errors.New("vectorization failed")

type EmbedRouter struct {
	e   *echo.Echo
	svc *embedding.Service
}

func NewEmbedRouter(e *echo.Echo, svc *embedding.Service) *EmbedRouter {
	return &EmbedRouter{
		e:   e,
		svc: svc,
	}
}

func (r *EmbedRouter) Bind() {
	r.e.GET("/health", r.healthHandler)
	r.e.GET("/info", r.infoHandler)
	r.e.POST("/encode", r.encodeHandler)
	r.e.POST("/vectorize-single", r.vectorizeSingleHandler)
}

// healthHandler godoc
// @Summary Liveness and model state
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (r *EmbedRouter) healthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.HealthResponse{
		Status:      "ok",
		ModelLoaded: r.svc.Loaded(),
	})
}

// infoHandler godoc
// @Summary Loaded model description
// @Tags health
// @Produce json
// @Success 200 {object} model.Info
// @Failure 500 {object} apperr.ErrorBody
// @Router /info [get]
func (r *EmbedRouter) infoHandler(c echo.Context) error {
	info, err := r.svc.Info()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, info)
}

// encodeHandler godoc
// @Summary Encode a batch of texts
// @Description Returns one classification-token embedding per string in texts, in order. Non-string entries are skipped.
// @Tags embedding
// @Accept json
// @Produce json
// @Param request body dto.EncodeRequest true "texts to encode"
// @Success 200 {array} []number
// @Failure 400 {object} apperr.ErrorBody
// @Failure 500 {object} apperr.ErrorBody
// @Router /encode [post]
func (r *EmbedRouter) encodeHandler(c echo.Context) error {
	if !r.svc.Loaded() {
		return apperr.ErrNotReady
	}

	body, err := readBody(c)
	if err != nil {
		return err
	}

	items, err := dto.ParseEncodeRequest(body)
	if err != nil {
		return err
	}

	vectors, err := r.encode(c, items)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, vectors)
}

// vectorizeSingleHandler godoc
// @Summary Encode a single text
// @Tags embedding
// @Accept json
// @Produce json
// @Param request body dto.SingleRequest true "text to encode"
// @Success 200 {object} dto.SingleResponse
// @Failure 400 {object} apperr.ErrorBody
// @Failure 500 {object} apperr.ErrorBody
// @Router /vectorize-single [post]
func (r *EmbedRouter) vectorizeSingleHandler(c echo.Context) error {
	body, err := readBody(c)
	if err != nil {
		return err
	}

	items, err := dto.ParseSingleRequest(body)
	if err != nil {
		return err
	}

	if !r.svc.Loaded() {
		return apperr.ErrNotReady
	}

	vectors, err := r.encode(c, items)
	if err != nil {
		return err
	}
	if len(vectors) == 0 {
		return apperr.NewInternal(errVectorizationFailed)
	}

	return c.JSON(http.StatusOK, dto.SingleResponse{
		Vector:    vectors[0],
		Dimension: len(vectors[0]),
	})
}

func (r *EmbedRouter) encode(c echo.Context, items []any) ([][]float32, error) {
	texts, skipped := dto.RetainStrings(items)
	if skipped > 0 {
		metrics.SkippedInputs.Add(float64(skipped))
		slog.Debug("Skipping non-string inputs", "skipped", skipped, "retained", len(texts))
	}

	return r.svc.Encode(c.Request().Context(), texts)
}

func readBody(c echo.Context) ([]byte, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		// body limit violations surface here as *echo.HTTPError
		return nil, err
	}
	return body, nil
}
