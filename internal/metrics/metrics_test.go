package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveBuild(t *testing.T) {
	before := testutil.ToFloat64(CallsBuilt.WithLabelValues("swapExactTokensForTokens"))
	ObserveBuild("swapExactTokensForTokens", "")
	assert.Equal(t, before+1, testutil.ToFloat64(CallsBuilt.WithLabelValues("swapExactTokensForTokens")))

	beforeFail := testutil.ToFloat64(ValidationFailures.WithLabelValues("invalid_path"))
	ObserveBuild("swapExactTokensForTokens", "invalid_path")
	assert.Equal(t, beforeFail+1, testutil.ToFloat64(ValidationFailures.WithLabelValues("invalid_path")))
	assert.Equal(t, before+1, testutil.ToFloat64(CallsBuilt.WithLabelValues("swapExactTokensForTokens")))
}

func TestHandlerServesDefaultRegistry(t *testing.T) {
	FallbackCodeHash.WithLabelValues("uniswap_v2").Inc()

	rec := httptest.NewRecorder()
	Handler(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "amm_fallback_code_hash_total")
}
