package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rateline/internal/http/handlers"
	"rateline/internal/modules/rating"
	"rateline/internal/types"
)

// stubQuotes answers every product with the same quote or error.
type stubQuotes struct {
	quote   rating.Quote
	err     error
	lastReq any
}

func (s *stubQuotes) QuoteIntracity(_ context.Context, req rating.IntracityRequest) (rating.Quote, error) {
	s.lastReq = req
	return s.quote, s.err
}

func (s *stubQuotes) QuoteInterCounty(_ context.Context, req rating.InterCountyRequest) (rating.Quote, error) {
	s.lastReq = req
	return s.quote, s.err
}

func (s *stubQuotes) QuoteFullLoad(_ context.Context, req rating.FullLoadRequest) (rating.Quote, error) {
	s.lastReq = req
	return s.quote, s.err
}

func (s *stubQuotes) QuoteInternational(_ context.Context, req rating.InternationalRequest) (rating.Quote, error) {
	s.lastReq = req
	return s.quote, s.err
}

type recordingPublisher struct {
	published []rating.Quote
	err       error
}

func (p *recordingPublisher) QuoteIssued(_ context.Context, q rating.Quote) error {
	p.published = append(p.published, q)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func buildTestRouter(svc handlers.QuoteService, pub *recordingPublisher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handlers.NewQuoteHandler(svc, pub, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r.POST("/api/quotes/intracity", h.Intracity)
	r.POST("/api/quotes/intercounty", h.InterCounty)
	r.POST("/api/quotes/fullload", h.FullLoad)
	r.POST("/api/quotes/international", h.International)
	return r
}

func doRequest(r *gin.Engine, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func okQuote() rating.Quote {
	return rating.Quote{
		ID:      "q-1",
		Product: rating.ProductIntracity,
		Total:   types.NewMoney(decimal.NewFromInt(260), "KES"),
	}
}

func TestQuote_Success(t *testing.T) {
	svc := &stubQuotes{quote: okQuote()}
	pub := &recordingPublisher{}
	r := buildTestRouter(svc, pub)

	w := doRequest(r, "/api/quotes/intracity", `{"sender":"-1.3,36.8","recipient":"-1.25,36.85","weight":"2.5","length":10}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "q-1", got["id"])

	req, ok := svc.lastReq.(rating.IntracityRequest)
	require.True(t, ok)
	assert.True(t, req.Weight.Equal(decimal.RequireFromString("2.5")))
	assert.True(t, req.Length.Equal(decimal.NewFromInt(10)))
	assert.Len(t, pub.published, 1)
}

func TestQuote_PublishFailureStillAnswers(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	r := buildTestRouter(&stubQuotes{quote: okQuote()}, pub)

	w := doRequest(r, "/api/quotes/international", `{"city_id":7,"weight":3}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestQuote_InvalidJSON(t *testing.T) {
	pub := &recordingPublisher{}
	r := buildTestRouter(&stubQuotes{quote: okQuote()}, pub)

	w := doRequest(r, "/api/quotes/fullload", `{"weight":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, pub.published)
}

func TestQuote_NonNumericWeight(t *testing.T) {
	svc := &stubQuotes{quote: okQuote()}
	r := buildTestRouter(svc, &recordingPublisher{})

	w := doRequest(r, "/api/quotes/intracity", `{"sender":"-1.3,36.8","recipient":"-1.25,36.85","weight":"heavy"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "input_invalid", body["code"])
	assert.Equal(t, "input invalid", body["error"])
	assert.NotEmpty(t, body["detail"])
	assert.Nil(t, svc.lastReq, "rating is not called")
}

func TestQuote_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"input invalid", &rating.Error{Kind: rating.ErrInputInvalid, Stage: "request", Detail: "weight must be gt 0"}, http.StatusBadRequest, "input_invalid"},
		{"no zone", &rating.Error{Kind: rating.ErrNoApplicableZone, Stage: "zone"}, http.StatusUnprocessableEntity, "no_applicable_zone"},
		{"no route", &rating.Error{Kind: rating.ErrNoApplicableRoute, Stage: "route"}, http.StatusUnprocessableEntity, "no_applicable_route"},
		{"no tier", &rating.Error{Kind: rating.ErrNoApplicableTier, Stage: "route_tier"}, http.StatusUnprocessableEntity, "no_applicable_tier"},
		{"no rate", &rating.Error{Kind: rating.ErrNoApplicableRate, Stage: "vehicle_pricing"}, http.StatusUnprocessableEntity, "no_applicable_rate"},
		{"out of coverage", &rating.Error{Kind: rating.ErrDistanceOutOfCoverage, Stage: "parcel"}, http.StatusUnprocessableEntity, "distance_out_of_coverage"},
		{"distance unavailable", &rating.Error{Kind: rating.ErrDistanceUnavailable, Stage: "distance"}, http.StatusBadGateway, "distance_unavailable"},
		{"infrastructure", errors.New("connection reset"), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &recordingPublisher{}
			r := buildTestRouter(&stubQuotes{err: tt.err}, pub)

			w := doRequest(r, "/api/quotes/intercounty", `{"sender":"-1.3,36.8","recipient":"-4.06,39.67","weight":12}`)
			assert.Equal(t, tt.wantStatus, w.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, body["code"])
			} else {
				assert.Equal(t, "internal error", body["error"])
			}
			assert.Empty(t, pub.published)
		})
	}
}
