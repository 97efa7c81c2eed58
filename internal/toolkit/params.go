package toolkit

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/selivandex/seller-bot/pkg/models"
)

// Overridable in tests, every date default flows through here
var timeNow = time.Now

const (
	dateLayout   = "2006-01-02"
	dateLayoutRU = "02.01.2006"

	// Window used when a trend tool is called without a day count
	defaultTrendDays = 7

	// Anomaly detection needs more history than the rolling window,
	// so its day-count default is wider than the trend one
	defaultAnomalyDays = 30
)

// ============ Parameter Extraction ============
// Tool params arrive as a generic JSON map from the model. Extraction
// failures become ValidationErrors: reported to the caller immediately,
// no query is issued.

func getString(params map[string]interface{}, key string) (string, error) {
	val, ok := params[key]
	if !ok {
		return "", models.NewValidationError(key, "missing required parameter")
	}
	str, ok := val.(string)
	if !ok {
		return "", models.NewValidationError(key, fmt.Sprintf("must be string, got %T", val))
	}
	return str, nil
}

func getStringOr(params map[string]interface{}, key, def string) (string, error) {
	val, ok := params[key]
	if !ok || val == nil {
		return def, nil
	}
	str, ok := val.(string)
	if !ok {
		return "", models.NewValidationError(key, fmt.Sprintf("must be string, got %T", val))
	}
	if strings.TrimSpace(str) == "" {
		return def, nil
	}
	return str, nil
}

func getInt(params map[string]interface{}, key string) (int, error) {
	val, ok := params[key]
	if !ok {
		return 0, models.NewValidationError(key, "missing required parameter")
	}

	// JSON numbers decode as float64
	switch v := val.(type) {
	case int:
		return v, nil
	case float64:
		return int(v), nil
	default:
		return 0, models.NewValidationError(key, fmt.Sprintf("must be number, got %T", val))
	}
}

func getIntOr(params map[string]interface{}, key string, def int) (int, error) {
	if _, ok := params[key]; !ok {
		return def, nil
	}
	return getInt(params, key)
}

func getInt64(params map[string]interface{}, key string) (int64, error) {
	val, ok := params[key]
	if !ok {
		return 0, models.NewValidationError(key, "missing required parameter")
	}

	// Articles and SKUs come back from the model as numbers or as
	// digit strings, both are fine
	switch v := val.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, models.NewValidationError(key, fmt.Sprintf("must be an integer, got %q", v))
		}
		return n, nil
	default:
		return 0, models.NewValidationError(key, fmt.Sprintf("must be number, got %T", val))
	}
}

func getInt64Or(params map[string]interface{}, key string, def int64) (int64, error) {
	if _, ok := params[key]; !ok {
		return def, nil
	}
	return getInt64(params, key)
}

func getFloat(params map[string]interface{}, key string) (float64, error) {
	val, ok := params[key]
	if !ok {
		return 0, models.NewValidationError(key, "missing required parameter")
	}

	switch v := val.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	default:
		return 0, models.NewValidationError(key, fmt.Sprintf("must be number, got %T", val))
	}
}

func getFloatOr(params map[string]interface{}, key string, def float64) (float64, error) {
	if _, ok := params[key]; !ok {
		return def, nil
	}
	return getFloat(params, key)
}

// ============ Date Handling ============

// parseDate accepts ISO dates, Russian dotted dates and the relative
// words sellers actually type
func parseDate(s string) (time.Time, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	switch s {
	case "сегодня", "today":
		return today(), nil
	case "вчера", "yesterday":
		return yesterday(), nil
	case "позавчера":
		return yesterday().AddDate(0, 0, -1), nil
	}

	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(dateLayoutRU, s); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("expected YYYY-MM-DD, got %q", s)
}

func getDate(params map[string]interface{}, key string, def time.Time) (time.Time, error) {
	val, ok := params[key]
	if !ok || val == nil {
		return def, nil
	}

	str, ok := val.(string)
	if !ok {
		return time.Time{}, models.NewValidationError(key, fmt.Sprintf("must be a date string, got %T", val))
	}
	if strings.TrimSpace(str) == "" {
		return def, nil
	}

	t, err := parseDate(str)
	if err != nil {
		return time.Time{}, models.NewValidationError(key, err.Error())
	}
	return t, nil
}

// getRequiredDate is getDate without a default, for params that make
// no sense to invent, like comparison period boundaries
func getRequiredDate(params map[string]interface{}, key string) (time.Time, error) {
	str, err := getString(params, key)
	if err != nil {
		return time.Time{}, err
	}

	t, err := parseDate(str)
	if err != nil {
		return time.Time{}, models.NewValidationError(key, err.Error())
	}
	return t, nil
}

// getPeriod reads the date_from/date_to pair. The end defaults to
// yesterday, the last complete data day; the start defaults to the end.
// Reversed bounds are swapped, not rejected.
func getPeriod(params map[string]interface{}) (models.Period, error) {
	to, err := getDate(params, "date_to", yesterday())
	if err != nil {
		return models.Period{}, err
	}
	from, err := getDate(params, "date_from", to)
	if err != nil {
		return models.Period{}, err
	}
	return models.NewPeriod(from, to), nil
}

// getSingleDate reads the date param as a one-day period
func getSingleDate(params map[string]interface{}) (models.Period, error) {
	d, err := getDate(params, "date", yesterday())
	if err != nil {
		return models.Period{}, err
	}
	return models.Period{From: d, To: d}, nil
}

// getToolPeriod accepts either the single date param or an explicit
// date_from/date_to range. Summary tools are documented with a single
// date, but callers asking about a week should not lose the range.
func getToolPeriod(params map[string]interface{}) (models.Period, error) {
	if hasParam(params, "date_from") || hasParam(params, "date_to") {
		return getPeriod(params)
	}
	return getSingleDate(params)
}

func hasParam(params map[string]interface{}, key string) bool {
	val, ok := params[key]
	return ok && val != nil
}

func today() time.Time {
	n := timeNow().UTC()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

func yesterday() time.Time {
	return today().AddDate(0, 0, -1)
}

// lastDays is the n complete days ending yesterday
func lastDays(n int) models.Period {
	if n <= 0 {
		n = defaultTrendDays
	}
	to := yesterday()
	return models.Period{From: to.AddDate(0, 0, -(n - 1)), To: to}
}

// precedingPeriod is the same-length window immediately before p
func precedingPeriod(p models.Period) models.Period {
	days := p.Days()
	to := p.From.AddDate(0, 0, -1)
	return models.Period{From: to.AddDate(0, 0, -(days - 1)), To: to}
}
