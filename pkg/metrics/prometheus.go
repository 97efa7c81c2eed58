package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus collectors exposed on the health server /metrics endpoint

var (
	// QuestionsTotal counts processed questions by intent and marketplace
	QuestionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "seller_bot_questions_total",
		Help: "Total number of processed seller questions",
	}, []string{"intent", "marketplace"})

	// ToolCallsTotal counts analytics tool invocations by tool and outcome
	ToolCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "seller_bot_tool_calls_total",
		Help: "Total number of analytics tool invocations",
	}, []string{"tool", "status"})

	// ToolDuration tracks tool execution time
	ToolDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "seller_bot_tool_duration_seconds",
		Help:    "Analytics tool execution time in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"tool"})

	// LLMRequestsTotal counts LLM API calls by provider and outcome
	LLMRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "seller_bot_llm_requests_total",
		Help: "Total number of LLM API requests",
	}, []string{"provider", "status"})

	// LLMLatency tracks LLM API call latency
	LLMLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "seller_bot_llm_latency_seconds",
		Help:    "LLM API request latency in seconds",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30},
	}, []string{"provider"})
)
