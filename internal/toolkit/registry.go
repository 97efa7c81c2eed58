package toolkit

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/seller-bot/pkg/logger"
	"github.com/selivandex/seller-bot/pkg/metrics"
	"github.com/selivandex/seller-bot/pkg/models"
)

// ToolFunc is the signature for all tool functions.
// Takes the asking chat and a generic params map, returns the formatted
// report and error. Execution is chat-scoped so feedback and usage
// metrics land on the right seller.
type ToolFunc func(ctx context.Context, chatID int64, params map[string]interface{}) (interface{}, error)

// ToolMetadata contains tool information for introspection and for
// exporting function-calling definitions to the model
type ToolMetadata struct {
	Name        string
	Description string
	ParamTypes  map[string]string // param name -> type: string, int, float, date
	Required    []string          // params the model must supply
	ReturnType  string
}

// ToolRegistry manages all available tools for the agent.
// Provides type-safe dynamic dispatch without hardcoded switch statements.
type ToolRegistry struct {
	tools         map[string]ToolFunc
	metadata      map[string]ToolMetadata
	toolkit       SellerToolkit // Underlying toolkit implementation
	metricsLogger MetricsLogger // Optional ClickHouse usage logger
}

// MetricsLogger interface for logging tool usage to ClickHouse
type MetricsLogger interface {
	LogToolUsage(ctx context.Context, chatID int64, marketplace, toolName string, params map[string]interface{}, resultCount int, success bool, executionTimeMs int64)
	Close(ctx context.Context) error // Graceful shutdown, flush remaining buffer
}

// NewToolRegistry creates new tool registry
func NewToolRegistry(toolkit SellerToolkit) *ToolRegistry {
	registry := &ToolRegistry{
		tools:    make(map[string]ToolFunc),
		metadata: make(map[string]ToolMetadata),
		toolkit:  toolkit,
	}

	// Register all available tools
	registry.registerTools()

	return registry
}

// SetMetricsLogger sets optional ClickHouse usage logger
func (r *ToolRegistry) SetMetricsLogger(metricsLogger MetricsLogger) {
	r.metricsLogger = metricsLogger

	if metricsLogger != nil {
		logger.Info("tool registry metrics logger set",
			zap.Int("tools_count", len(r.tools)),
		)
	}
}

// Execute runs a tool by name with given parameters.
// Returns the formatted report, with proper validation and logging.
func (r *ToolRegistry) Execute(ctx context.Context, chatID int64, name string, params map[string]interface{}) (interface{}, error) {
	fn, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool: %s (available: %d tools)", name, len(r.tools))
	}

	logger.Debug("executing tool",
		zap.String("tool", name),
		zap.Int64("chat_id", chatID),
		zap.Any("params", params),
	)

	startTime := time.Now()
	result, err := fn(ctx, chatID, params)
	duration := time.Since(startTime)
	executionMs := duration.Milliseconds()

	metrics.ToolDuration.WithLabelValues(name).Observe(duration.Seconds())

	if err != nil {
		metrics.ToolCallsTotal.WithLabelValues(name, "error").Inc()

		logger.Warn("tool execution failed",
			zap.String("tool", name),
			zap.Error(err),
			zap.Duration("duration", duration),
		)

		// Log failed execution to ClickHouse
		if r.metricsLogger != nil {
			r.metricsLogger.LogToolUsage(ctx, chatID, marketplaceOf(name), name, params, 0, false, executionMs)
		}

		return nil, fmt.Errorf("tool %s failed: %w", name, err)
	}

	metrics.ToolCallsTotal.WithLabelValues(name, "ok").Inc()

	logger.Debug("tool executed successfully",
		zap.String("tool", name),
		zap.Duration("duration", duration),
	)

	// Log successful execution to ClickHouse with result size
	if r.metricsLogger != nil {
		r.metricsLogger.LogToolUsage(ctx, chatID, marketplaceOf(name), name, params, analyzeToolResult(result), true, executionMs)
	}

	return result, nil
}

// analyzeToolResult sizes a tool result for usage metrics. Reports are
// line-oriented strings, so non-empty lines approximate row count.
func analyzeToolResult(result interface{}) int {
	switch res := result.(type) {
	case string:
		count := 0
		for _, line := range strings.Split(res, "\n") {
			if strings.TrimSpace(line) != "" {
				count++
			}
		}
		return count
	default:
		if result == nil {
			return 0
		}
		return 1
	}
}

// marketplaceOf attributes a tool to its marketplace for metrics
func marketplaceOf(name string) string {
	switch {
	case strings.HasPrefix(name, "GetOzon"):
		return string(models.MarketplaceOzon)
	case name == "RecordFeedback":
		return "agent"
	default:
		return string(models.MarketplaceWB)
	}
}

// GetMetadata returns metadata for a tool
func (r *ToolRegistry) GetMetadata(name string) (ToolMetadata, bool) {
	meta, ok := r.metadata[name]
	return meta, ok
}

// ListTools returns all available tool names, sorted for stable prompts
func (r *ToolRegistry) ListTools() []string {
	tools := make([]string, 0, len(r.tools))
	for name := range r.tools {
		tools = append(tools, name)
	}
	sort.Strings(tools)
	return tools
}

// GetToolCount returns number of registered tools
func (r *ToolRegistry) GetToolCount() int {
	return len(r.tools)
}

// Definitions exports registry metadata as function-calling tool
// definitions for OpenAI-compatible providers
func (r *ToolRegistry) Definitions() []models.ToolDef {
	names := r.ListTools()

	defs := make([]models.ToolDef, 0, len(names))
	for _, name := range names {
		meta := r.metadata[name]

		props := make(map[string]interface{}, len(meta.ParamTypes))
		for param, typ := range meta.ParamTypes {
			props[param] = paramSchema(typ)
		}

		parameters := map[string]interface{}{
			"type":       "object",
			"properties": props,
		}
		if len(meta.Required) > 0 {
			parameters["required"] = meta.Required
		}

		defs = append(defs, models.NewToolDef(name, meta.Description, parameters))
	}

	return defs
}

func paramSchema(typ string) map[string]interface{} {
	switch typ {
	case "int":
		return map[string]interface{}{"type": "integer"}
	case "float":
		return map[string]interface{}{"type": "number"}
	case "date":
		return map[string]interface{}{
			"type":        "string",
			"description": "дата YYYY-MM-DD, «сегодня» или «вчера»",
		}
	default:
		return map[string]interface{}{"type": "string"}
	}
}

// Close gracefully shuts down registry and flushes the metrics buffer
func (r *ToolRegistry) Close(ctx context.Context) error {
	if r.metricsLogger != nil {
		return r.metricsLogger.Close(ctx)
	}
	return nil
}

// register adds a tool to the registry
func (r *ToolRegistry) register(name string, metadata ToolMetadata, fn ToolFunc) {
	metadata.Name = name
	r.tools[name] = fn
	r.metadata[name] = metadata
}

// registerTools registers all available tools with their wrappers.
// This is the ONLY place where we need to add new tools.
func (r *ToolRegistry) registerTools() {
	// WB margin tools
	r.register("GetMarginSummary", ToolMetadata{
		Description: "Сводка по марже WB за дату или период: выручка, расходы на рекламу, маржа и маржинальность",
		ParamTypes:  map[string]string{"date": "date", "date_from": "date", "date_to": "date"},
		ReturnType:  "string",
	}, r.wrapGetMarginSummary)

	r.register("GetTopProducts", ToolMetadata{
		Description: "Топ товаров WB по метрике revenue, orders или margin",
		ParamTypes:  map[string]string{"date": "date", "date_from": "date", "date_to": "date", "metric": "string", "limit": "int"},
		ReturnType:  "string",
	}, r.wrapGetTopProducts)

	r.register("GetUnprofitableProducts", ToolMetadata{
		Description: "Убыточные товары WB: маржинальность ниже порога, худшие первыми",
		ParamTypes:  map[string]string{"date": "date", "date_from": "date", "date_to": "date", "max_margin": "float", "limit": "int"},
		ReturnType:  "string",
	}, r.wrapGetUnprofitableProducts)

	r.register("GetMarginTrend", ToolMetadata{
		Description: "Динамика маржи WB по дням с направлением тренда",
		ParamTypes:  map[string]string{"days": "int", "metric": "string"},
		ReturnType:  "string",
	}, r.wrapGetMarginTrend)

	r.register("CompareMarginPeriods", ToolMetadata{
		Description: "Сравнение продаж WB между двумя периодами: выручка, заказы, реклама, маржа",
		ParamTypes:  map[string]string{"start_a": "date", "end_a": "date", "start_b": "date", "end_b": "date"},
		Required:    []string{"start_a", "end_a", "start_b", "end_b"},
		ReturnType:  "string",
	}, r.wrapCompareMarginPeriods)

	r.register("AnalyzeMarginChange", ToolMetadata{
		Description: "Почему изменилась маржа WB: вклад рекламы, трафика, конверсии и цены",
		ParamTypes:  map[string]string{"days_back": "int"},
		ReturnType:  "string",
	}, r.wrapAnalyzeMarginChange)

	r.register("FindMarginAnomalies", ToolMetadata{
		Description: "Аномальные дни по марже WB: выбросы от обычного уровня",
		ParamTypes:  map[string]string{"days": "int", "metric": "string"},
		ReturnType:  "string",
	}, r.wrapFindMarginAnomalies)

	r.register("DiagnoseSKU", ToolMetadata{
		Description: "Диагностика одного товара WB по артикулу: маржа, реклама, воронка, остатки",
		ParamTypes:  map[string]string{"nm_id": "int", "days_back": "int"},
		Required:    []string{"nm_id"},
		ReturnType:  "string",
	}, r.wrapDiagnoseSKU)

	// WB funnel tools
	r.register("GetSalesFunnel", ToolMetadata{
		Description: "Воронка продаж WB: показы, корзины, заказы, выкупы",
		ParamTypes:  map[string]string{"date_from": "date", "date_to": "date"},
		ReturnType:  "string",
	}, r.wrapGetSalesFunnel)

	r.register("GetStockSummary", ToolMetadata{
		Description: "Остатки WB на складе по товарам, самые низкие первыми",
		ParamTypes:  map[string]string{},
		ReturnType:  "string",
	}, r.wrapGetStockSummary)

	r.register("GetLowConversionProducts", ToolMetadata{
		Description: "Товары WB с трафиком, но низкой конверсией в заказ",
		ParamTypes:  map[string]string{"date_from": "date", "date_to": "date", "min_views": "int", "max_cr": "float"},
		ReturnType:  "string",
	}, r.wrapGetLowConversionProducts)

	// WB ads tools
	r.register("GetAdsSummary", ToolMetadata{
		Description: "Сводка по рекламе WB за дату или период: расход, выручка, ДРР, CR, CTR",
		ParamTypes:  map[string]string{"date": "date", "date_from": "date", "date_to": "date"},
		ReturnType:  "string",
	}, r.wrapGetAdsSummary)

	r.register("GetHighDRRCampaigns", ToolMetadata{
		Description: "Кампании WB с ДРР выше порога, жгут бюджет",
		ParamTypes:  map[string]string{"date": "date", "date_from": "date", "date_to": "date", "threshold": "float"},
		ReturnType:  "string",
	}, r.wrapGetHighDRRCampaigns)

	r.register("GetScalableCampaigns", ToolMetadata{
		Description: "Кампании WB, которые стоит масштабировать: низкий ДРР, высокий CR",
		ParamTypes:  map[string]string{"date": "date", "date_from": "date", "date_to": "date"},
		ReturnType:  "string",
	}, r.wrapGetScalableCampaigns)

	r.register("GetAdsTrend", ToolMetadata{
		Description: "Динамика рекламной метрики WB по дням: ad_spend, ad_revenue, drr, cr, clicks, views",
		ParamTypes:  map[string]string{"metric": "string", "days": "int"},
		ReturnType:  "string",
	}, r.wrapGetAdsTrend)

	r.register("CompareAdsPeriods", ToolMetadata{
		Description: "Сравнение рекламы WB между двумя периодами",
		ParamTypes:  map[string]string{"start_a": "date", "end_a": "date", "start_b": "date", "end_b": "date"},
		Required:    []string{"start_a", "end_a", "start_b", "end_b"},
		ReturnType:  "string",
	}, r.wrapCompareAdsPeriods)

	// WB plan tools
	r.register("GetPlanFact", ToolMetadata{
		Description: "План/факт по марже за текущий месяц по товарам",
		ParamTypes:  map[string]string{},
		ReturnType:  "string",
	}, r.wrapGetPlanFact)

	r.register("GetPlanForecast", ToolMetadata{
		Description: "Прогноз выполнения плана по марже к концу месяца",
		ParamTypes:  map[string]string{},
		ReturnType:  "string",
	}, r.wrapGetPlanForecast)

	r.register("GetUnderperformingProducts", ToolMetadata{
		Description: "Товары, отстающие от плана по марже сильнее порога",
		ParamTypes:  map[string]string{"threshold": "float"},
		ReturnType:  "string",
	}, r.wrapGetUnderperformingProducts)

	r.register("GetRecommendations", ToolMetadata{
		Description: "Приоритизированные рекомендации: ставки, масштабирование, карточки, план",
		ParamTypes:  map[string]string{"date": "date", "date_from": "date", "date_to": "date"},
		ReturnType:  "string",
	}, r.wrapGetRecommendations)

	// Ozon tools
	r.register("GetOzonSummary", ToolMetadata{
		Description: "Сводка продаж Ozon за период: выручка, заказы, доставки",
		ParamTypes:  map[string]string{"date_from": "date", "date_to": "date"},
		ReturnType:  "string",
	}, r.wrapGetOzonSummary)

	r.register("GetOzonTopProducts", ToolMetadata{
		Description: "Топ товаров Ozon по метрике revenue, orders или views",
		ParamTypes:  map[string]string{"date_from": "date", "date_to": "date", "metric": "string", "limit": "int"},
		ReturnType:  "string",
	}, r.wrapGetOzonTopProducts)

	r.register("GetOzonFunnel", ToolMetadata{
		Description: "Воронка Ozon: показы, сессии, корзины, заказы",
		ParamTypes:  map[string]string{"date_from": "date", "date_to": "date"},
		ReturnType:  "string",
	}, r.wrapGetOzonFunnel)

	r.register("GetOzonLowConversionProducts", ToolMetadata{
		Description: "Товары Ozon с низкой конверсией и вердиктом, что чинить в карточке",
		ParamTypes:  map[string]string{"date_from": "date", "date_to": "date", "min_views": "int", "max_cr": "float"},
		ReturnType:  "string",
	}, r.wrapGetOzonLowConversionProducts)

	r.register("GetOzonAdsSummary", ToolMetadata{
		Description: "Сводка рекламы Ozon: расход, заказы с учётом модельных, ДРР",
		ParamTypes:  map[string]string{"date_from": "date", "date_to": "date"},
		ReturnType:  "string",
	}, r.wrapGetOzonAdsSummary)

	r.register("GetOzonHighDRRProducts", ToolMetadata{
		Description: "Товары Ozon в рекламе с ДРР выше порога",
		ParamTypes:  map[string]string{"date_from": "date", "date_to": "date", "threshold": "float"},
		ReturnType:  "string",
	}, r.wrapGetOzonHighDRRProducts)

	r.register("GetOzonScalableProducts", ToolMetadata{
		Description: "Товары Ozon в рекламе, которые стоит масштабировать",
		ParamTypes:  map[string]string{"date_from": "date", "date_to": "date", "max_drr": "float", "min_cr": "float"},
		ReturnType:  "string",
	}, r.wrapGetOzonScalableProducts)

	r.register("GetOzonAdsTrend", ToolMetadata{
		Description: "Динамика рекламной метрики Ozon по дням: ad_spend, revenue, orders, drr, cr",
		ParamTypes:  map[string]string{"metric": "string", "days": "int"},
		ReturnType:  "string",
	}, r.wrapGetOzonAdsTrend)

	r.register("GetOzonCampaignDetails", ToolMetadata{
		Description: "Разбор одной кампании Ozon по товарам",
		ParamTypes:  map[string]string{"campaign_id": "int", "date_from": "date", "date_to": "date"},
		Required:    []string{"campaign_id"},
		ReturnType:  "string",
	}, r.wrapGetOzonCampaignDetails)

	// Agent tools
	r.register("RecordFeedback", ToolMetadata{
		Description: "Записать замечание пользователя к ответу: incorrect_data, wrong_recommendation, missing_info, wrong_calculation, other",
		ParamTypes:  map[string]string{"feedback_type": "string", "comment": "string"},
		Required:    []string{"feedback_type", "comment"},
		ReturnType:  "string",
	}, r.wrapRecordFeedback)

	logger.Info("tool registry initialized",
		zap.Int("tools_registered", len(r.tools)),
	)
}
