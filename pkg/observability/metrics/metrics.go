package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

var (
	predictionsTotal    atomic.Int64
	predictionErrors    atomic.Int64
	persistenceFailures atomic.Int64
	tierCounts          [6]atomic.Int64 // index by tier 1..5
	summariesGenerated  atomic.Int64
	summaryCacheHits    atomic.Int64
	chatExchanges       atomic.Int64
)

func ObservePrediction(tier int) {
	predictionsTotal.Add(1)
	if tier >= 1 && tier < len(tierCounts) {
		tierCounts[tier].Add(1)
	}
}

func ObservePredictionError() {
	predictionErrors.Add(1)
}

func ObservePersistenceFailure() {
	persistenceFailures.Add(1)
}

func ObserveSummary(cached bool) {
	summariesGenerated.Add(1)
	if cached {
		summaryCacheHits.Add(1)
	}
}

func ObserveChatExchange() {
	chatExchanges.Add(1)
}

func WritePrometheus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, "# HELP carelens_predictions_total Number of completed risk predictions since process start.\n")
	fmt.Fprintf(w, "# TYPE carelens_predictions_total counter\n")
	fmt.Fprintf(w, "carelens_predictions_total %d\n", predictionsTotal.Load())

	fmt.Fprintf(w, "# HELP carelens_prediction_errors_total Number of prediction requests that failed before scoring completed.\n")
	fmt.Fprintf(w, "# TYPE carelens_prediction_errors_total counter\n")
	fmt.Fprintf(w, "carelens_prediction_errors_total %d\n", predictionErrors.Load())

	fmt.Fprintf(w, "# HELP carelens_persistence_failures_total Number of analysis records that could not be stored.\n")
	fmt.Fprintf(w, "# TYPE carelens_persistence_failures_total counter\n")
	fmt.Fprintf(w, "carelens_persistence_failures_total %d\n", persistenceFailures.Load())

	fmt.Fprintf(w, "# HELP carelens_predictions_by_tier_total Number of completed predictions per risk tier.\n")
	fmt.Fprintf(w, "# TYPE carelens_predictions_by_tier_total counter\n")
	for tier := 1; tier < len(tierCounts); tier++ {
		fmt.Fprintf(w, "carelens_predictions_by_tier_total{tier=\"%d\"} %d\n", tier, tierCounts[tier].Load())
	}

	fmt.Fprintf(w, "# HELP carelens_summaries_total Number of clinical summaries served.\n")
	fmt.Fprintf(w, "# TYPE carelens_summaries_total counter\n")
	fmt.Fprintf(w, "carelens_summaries_total %d\n", summariesGenerated.Load())

	fmt.Fprintf(w, "# HELP carelens_summary_cache_hits_total Number of clinical summaries served from cache.\n")
	fmt.Fprintf(w, "# TYPE carelens_summary_cache_hits_total counter\n")
	fmt.Fprintf(w, "carelens_summary_cache_hits_total %d\n", summaryCacheHits.Load())

	fmt.Fprintf(w, "# HELP carelens_chat_exchanges_total Number of chatbot exchanges served.\n")
	fmt.Fprintf(w, "# TYPE carelens_chat_exchanges_total counter\n")
	fmt.Fprintf(w, "carelens_chat_exchanges_total %d\n", chatExchanges.Load())
}
