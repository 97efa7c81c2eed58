package agents

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/selivandex/seller-bot/pkg/logger"
	"github.com/selivandex/seller-bot/pkg/models"
)

const (
	stageDescribe  = "describe"
	stageDiagnose  = "diagnose"
	stagePrescribe = "prescribe"
)

// Pipeline runs the fixed stage chain: describe gathers the numbers,
// diagnose explains the move, prescribe turns it into actions. The
// intent kind decides how deep the chain goes.
type Pipeline struct {
	registry     toolExecutor
	maxToolCalls int
}

// NewPipeline wires a pipeline over the tool registry
func NewPipeline(registry toolExecutor, maxToolCalls int) *Pipeline {
	if maxToolCalls <= 0 {
		maxToolCalls = 8
	}
	return &Pipeline{registry: registry, maxToolCalls: maxToolCalls}
}

// plannedCall is one tool invocation chosen by a stage
type plannedCall struct {
	tool   string
	params map[string]interface{}
}

// StageReport holds the tool output of one executed stage
type StageReport struct {
	Stage   string
	Reports []string
	Tools   []string
}

// stagesFor maps intent kind to the stage chain. Deeper questions run
// the shallower stages first so the synthesis sees the numbers before
// the explanations.
func stagesFor(kind IntentKind) []string {
	switch kind {
	case IntentDiagnose:
		return []string{stageDescribe, stageDiagnose}
	case IntentPrescribe:
		return []string{stageDescribe, stageDiagnose, stagePrescribe}
	default:
		return []string{stageDescribe}
	}
}

// Run executes the stage chain. Failed tools are logged and skipped,
// the chain keeps going on whatever data it can get. A tool already
// run by an earlier stage is not repeated.
func (p *Pipeline) Run(ctx context.Context, chatID int64, question string, intent Intent) []StageReport {
	entities, ok := intent.EntitiesOf()
	if !ok {
		return nil
	}
	lower := strings.ToLower(question)

	budget := p.maxToolCalls
	seen := make(map[string]bool)
	var out []StageReport

stages:
	for _, stage := range stagesFor(intent.Kind) {
		report := StageReport{Stage: stage}

		for _, call := range selectTools(stage, lower, entities) {
			if seen[call.tool] {
				continue
			}
			if budget <= 0 {
				logger.Warn("tool budget exhausted, cutting the stage chain",
					zap.Int64("chat_id", chatID),
					zap.String("stage", stage),
				)
				if len(report.Reports) > 0 {
					out = append(out, report)
				}
				break stages
			}
			seen[call.tool] = true
			budget--

			result, err := p.registry.Execute(ctx, chatID, call.tool, call.params)
			if err != nil {
				logger.Warn("pipeline tool failed, skipping",
					zap.Int64("chat_id", chatID),
					zap.String("stage", stage),
					zap.String("tool", call.tool),
					zap.Error(err),
				)
				continue
			}

			text, _ := result.(string)
			if text == "" {
				continue
			}
			report.Reports = append(report.Reports, text)
			report.Tools = append(report.Tools, call.tool)
		}

		if len(report.Reports) > 0 {
			out = append(out, report)
		}
	}

	return out
}

// selectTools plans the calls for one stage
func selectTools(stage, lower string, e Entities) []plannedCall {
	switch stage {
	case stageDescribe:
		return describeCalls(lower, e)
	case stageDiagnose:
		return diagnoseCalls(e)
	case stagePrescribe:
		return prescribeCalls(e)
	default:
		return nil
	}
}

// callSet accumulates planned calls, ignoring duplicate tools
type callSet struct {
	calls []plannedCall
}

func (s *callSet) add(tool string, params map[string]interface{}) {
	for _, c := range s.calls {
		if c.tool == tool {
			return
		}
	}
	s.calls = append(s.calls, plannedCall{tool: tool, params: params})
}

// describeCalls picks report tools by the topic stems in the question.
// A question touching several topics gets a tool per topic. Nothing
// recognized falls back to the margin summary plus plan status.
func describeCalls(lower string, e Entities) []plannedCall {
	if e.Marketplace == models.MarketplaceOzon {
		return ozonDescribeCalls(lower, e)
	}

	var set callSet
	period := e.PeriodParams()
	wantsTrend := containsAny(lower, "динамик", "тренд", "по дням")

	if e.NmID != 0 {
		set.add("DiagnoseSKU", withDays(map[string]interface{}{"nm_id": e.NmID}, "days_back", e.PeriodDays()))
	}

	if containsAny(lower, "марж", "прибыл") {
		if wantsTrend {
			set.add("GetMarginTrend", withDays(map[string]interface{}{}, "days", e.PeriodDays()))
		} else {
			set.add("GetMarginSummary", period)
		}
	}
	if containsAny(lower, "план", "прогноз") {
		set.add("GetPlanFact", map[string]interface{}{})
		set.add("GetPlanForecast", map[string]interface{}{})
	}
	if containsAny(lower, "отстающ", "отстает", "отстаёт") {
		set.add("GetUnderperformingProducts", map[string]interface{}{})
	}
	if containsAny(lower, "топ", "лучш") {
		set.add("GetTopProducts", period)
	}
	if containsAny(lower, "убыточ", "минус") {
		set.add("GetUnprofitableProducts", period)
	}
	if containsAny(lower, "воронк", "конверси", "выкуп") {
		set.add("GetSalesFunnel", period)
	}
	if containsAny(lower, "остат", "склад") {
		set.add("GetStockSummary", map[string]interface{}{})
	}
	if containsAny(lower, "реклам", "дрр", "ставк", "кампани") {
		if wantsTrend {
			set.add("GetAdsTrend", withDays(map[string]interface{}{}, "days", e.PeriodDays()))
		} else {
			set.add("GetAdsSummary", period)
		}
	}
	if containsAny(lower, "выручк", "заказ", "продаж") {
		set.add("GetMarginSummary", period)
	}
	if wantsTrend && len(set.calls) == 0 {
		set.add("GetMarginTrend", withDays(map[string]interface{}{}, "days", e.PeriodDays()))
	}

	if len(set.calls) == 0 {
		set.add("GetMarginSummary", period)
		set.add("GetPlanFact", map[string]interface{}{})
	}
	return set.calls
}

func ozonDescribeCalls(lower string, e Entities) []plannedCall {
	var set callSet
	period := e.PeriodParams()
	wantsTrend := containsAny(lower, "динамик", "тренд", "по дням")

	if containsAny(lower, "топ", "лучш") {
		set.add("GetOzonTopProducts", period)
	}
	if containsAny(lower, "воронк", "конверси") {
		set.add("GetOzonFunnel", period)
	}
	if containsAny(lower, "реклам", "дрр", "ставк", "кампани") {
		if wantsTrend {
			set.add("GetOzonAdsTrend", withDays(map[string]interface{}{}, "days", e.PeriodDays()))
		} else {
			set.add("GetOzonAdsSummary", period)
		}
	}
	if containsAny(lower, "марж", "прибыл", "выручк", "заказ", "продаж", "доставк") {
		set.add("GetOzonSummary", period)
	}

	if len(set.calls) == 0 {
		set.add("GetOzonSummary", period)
	}
	return set.calls
}

// diagnoseCalls plans the why-did-it-move tools. Anomaly detection
// always scans its own default window, a user period of a few days is
// too short for the rolling baseline.
func diagnoseCalls(e Entities) []plannedCall {
	if e.Marketplace == models.MarketplaceOzon {
		return []plannedCall{
			{tool: "GetOzonHighDRRProducts", params: e.PeriodParams()},
			{tool: "GetOzonLowConversionProducts", params: e.PeriodParams()},
		}
	}

	calls := []plannedCall{
		{tool: "AnalyzeMarginChange", params: withDays(map[string]interface{}{}, "days_back", e.PeriodDays())},
		{tool: "FindMarginAnomalies", params: map[string]interface{}{}},
	}
	if e.NmID != 0 {
		calls = append(calls, plannedCall{
			tool:   "DiagnoseSKU",
			params: withDays(map[string]interface{}{"nm_id": e.NmID}, "days_back", e.PeriodDays()),
		})
	}
	return calls
}

func prescribeCalls(e Entities) []plannedCall {
	if e.Marketplace == models.MarketplaceOzon {
		return []plannedCall{
			{tool: "GetOzonHighDRRProducts", params: e.PeriodParams()},
			{tool: "GetOzonScalableProducts", params: e.PeriodParams()},
			{tool: "GetOzonLowConversionProducts", params: e.PeriodParams()},
		}
	}
	return []plannedCall{{tool: "GetRecommendations", params: e.PeriodParams()}}
}

// withDays sets a day-count param when the question named a period
func withDays(params map[string]interface{}, key string, days int) map[string]interface{} {
	if days > 0 {
		params[key] = days
	}
	return params
}
