package exchange

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vegas_crm_backend/internal/pos"
)

func TestParseCBURate(t *testing.T) {
	body := []byte(`[{"id":69,"Code":"840","Ccy":"USD","Rate":"12800.13","Date":"31.08.2026"}]`)
	rate, err := ParseCBURate(body)
	require.NoError(t, err)
	assert.Equal(t, 12800.13, rate)
}

func TestParseCBURateSkipsOtherCurrencies(t *testing.T) {
	body := []byte(`[{"Ccy":"EUR","Rate":"14950.01"},{"Ccy":"USD","Rate":"12650.55"}]`)
	rate, err := ParseCBURate(body)
	require.NoError(t, err)
	assert.Equal(t, 12650.55, rate)
}

func TestGetCurrentRateFallsBackOnFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	t.Setenv("RATE_SOURCE_URL", srv.URL)
	ResetSession()
	t.Cleanup(ResetSession)

	rate := GetCurrentRate(context.Background())
	assert.Equal(t, pos.DefaultRate, rate)
}

func TestGetCurrentRateCachesFetchedRateForSession(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`[{"Ccy":"USD","Rate":"12345.00"}]`))
	}))
	defer srv.Close()

	t.Setenv("RATE_SOURCE_URL", srv.URL)
	ResetSession()
	t.Cleanup(ResetSession)

	require.Equal(t, 12345.0, GetCurrentRate(context.Background()))
	assert.Equal(t, 12345.0, GetCurrentRate(context.Background()))
	assert.Equal(t, 1, calls, "second call must hit the session cache")
}

func TestParseCBURateRejectsGarbage(t *testing.T) {
	_, err := ParseCBURate([]byte(`{"not":"a list"}`))
	assert.Error(t, err)

	_, err = ParseCBURate([]byte(`[{"Ccy":"USD","Rate":"twelve thousand"}]`))
	assert.ErrorIs(t, err, pos.ErrInvalidRate)

	_, err = ParseCBURate([]byte(`[{"Ccy":"USD","Rate":"-12800"}]`))
	assert.ErrorIs(t, err, pos.ErrInvalidRate)

	_, err = ParseCBURate([]byte(`[]`))
	assert.ErrorIs(t, err, pos.ErrInvalidRate)
}
