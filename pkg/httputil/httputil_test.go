package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/KartikVerma96/paregrose/pkg/errors"
	"github.com/KartikVerma96/paregrose/pkg/logger"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func newRequest() *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/products/abc", nil)
	return req.WithContext(logger.WithCorrelationID(req.Context(), "corr-42"))
}

func TestWriteData(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteData(rec, http.StatusCreated, map[string]string{"slug": "silk-saree"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"slug":"silk-saree"}}`, rec.Body.String())
}

func TestWriteError_AppError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, newRequest(), apperrors.OutOfStock("only 2 left"), nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeEnvelope(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "OUT_OF_STOCK", resp.Error.Code)
	assert.Equal(t, "only 2 left", resp.Error.Message)
	assert.Equal(t, "corr-42", resp.Error.RequestID)
}

func TestWriteError_WrappedSentinels(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("get product: %w", apperrors.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("create category: %w", apperrors.ErrAlreadyExists), http.StatusConflict, "ALREADY_EXISTS"},
		{fmt.Errorf("delete category: %w", apperrors.ErrConflict), http.StatusConflict, "CONFLICT"},
		{fmt.Errorf("bad sort: %w", apperrors.ErrInvalidInput), http.StatusBadRequest, "INVALID_INPUT"},
		{apperrors.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, newRequest(), tt.err, nil)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, decodeEnvelope(t, rec).Error.Code)
		})
	}
}

func TestWriteError_InvalidInputKeepsMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, newRequest(), fmt.Errorf("unknown sort %q: %w", "cheapest", apperrors.ErrInvalidInput), nil)

	assert.Contains(t, decodeEnvelope(t, rec).Error.Message, "cheapest")
}

func TestWriteError_UnknownErrorIsLoggedAndHidden(t *testing.T) {
	var buf bytes.Buffer
	fallback := slog.New(slog.NewJSONHandler(&buf, nil))

	rec := httptest.NewRecorder()
	WriteError(rec, newRequest(), fmt.Errorf("pq: connection reset"), fallback)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
	assert.NotContains(t, resp.Error.Message, "connection reset")
	assert.Contains(t, buf.String(), "connection reset")
}

func TestWriteError_InternalAppErrorIsLogged(t *testing.T) {
	var buf bytes.Buffer
	ctx := logger.NewContext(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))
	req := httptest.NewRequest(http.MethodPost, "/api/cart", nil).WithContext(ctx)

	rec := httptest.NewRecorder()
	WriteError(rec, req, apperrors.Internal(fmt.Errorf("redis down")), nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), "redis down")
}

type addToCartBody struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"gte=1,lte=100"`
}

func TestDecodeJSON(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/cart",
			strings.NewReader(`{"product_id":"7d9f1c2e-8a43-4f6b-9b1e-2c3d4e5f6a7b","quantity":2}`))
		rec := httptest.NewRecorder()

		var body addToCartBody
		require.True(t, DecodeJSON(rec, req, &body))
		assert.Equal(t, 2, body.Quantity)
	})

	t.Run("malformed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/cart", strings.NewReader(`{"quantity":`))
		rec := httptest.NewRecorder()

		var body addToCartBody
		assert.False(t, DecodeJSON(rec, req, &body))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_INPUT", decodeEnvelope(t, rec).Error.Code)
	})

	t.Run("fails validation", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/cart", strings.NewReader(`{"product_id":"x","quantity":0}`))
		rec := httptest.NewRecorder()

		var body addToCartBody
		assert.False(t, DecodeJSON(rec, req, &body))
		resp := decodeEnvelope(t, rec)
		assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
		assert.Contains(t, resp.Error.Fields, "product_id")
		assert.Contains(t, resp.Error.Fields, "quantity")
	})
}

func TestParseUUID(t *testing.T) {
	rec := httptest.NewRecorder()
	id, ok := ParseUUID(rec, newRequest(), "7D9F1C2E-8A43-4F6B-9B1E-2C3D4E5F6A7B")
	assert.True(t, ok)
	assert.Equal(t, "7d9f1c2e-8a43-4f6b-9b1e-2c3d4e5f6a7b", id.String())

	rec = httptest.NewRecorder()
	_, ok = ParseUUID(rec, newRequest(), "silk-saree")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.Equal(t, "INVALID_PARAMETER", resp.Error.Code)
	assert.Equal(t, "corr-42", resp.Error.RequestID)
}

func TestResponse_OmitsEmptyHalves(t *testing.T) {
	b, err := json.Marshal(Response{Data: []int{1}})
	require.NoError(t, err)
	assert.NotContains(t, string(b), "error")

	b, err = json.Marshal(Response{Error: &ErrorResponse{Code: "X", Message: "y"}})
	require.NoError(t, err)
	assert.NotContains(t, string(b), "data")
	assert.NotContains(t, string(b), "request_id")
}
