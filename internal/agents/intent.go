package agents

import (
	"time"

	"github.com/selivandex/seller-bot/pkg/models"
)

// IntentKind names the question category. The kind decides which
// pipeline stages run before the answer is written.
type IntentKind string

const (
	// IntentDescribe asks what the numbers are
	IntentDescribe IntentKind = "describe"
	// IntentDiagnose asks why a metric moved
	IntentDiagnose IntentKind = "diagnose"
	// IntentPrescribe asks what to do next
	IntentPrescribe IntentKind = "prescribe"
	// IntentClarify means the question cannot be answered as asked
	IntentClarify IntentKind = "clarify"
)

// Entities are the facts extracted from the question text before any
// tool runs: marketplace, time range and article number.
type Entities struct {
	Marketplace models.Marketplace
	Period      models.Period
	HasPeriod   bool // false means tools fall back to their own date defaults
	NmID        int64
	Topic       string
}

// PeriodParams renders the extracted period as tool params. Without an
// explicit period the map stays empty and tools use yesterday.
func (e Entities) PeriodParams() map[string]interface{} {
	params := map[string]interface{}{}
	if e.HasPeriod {
		params["date_from"] = e.Period.From.Format("2006-01-02")
		params["date_to"] = e.Period.To.Format("2006-01-02")
	}
	return params
}

// PeriodDays is the requested window length, 0 when none was named
func (e Entities) PeriodDays() int {
	if !e.HasPeriod {
		return 0
	}
	return e.Period.Days()
}

// DescribePayload carries the entities for a "what are the numbers" question
type DescribePayload struct {
	Entities
}

// DiagnosePayload carries the entities for a "why did it move" question
type DiagnosePayload struct {
	Entities
}

// PrescribePayload carries the entities for a "what should I do" question
type PrescribePayload struct {
	Entities
	Goal string
}

// ClarifyPayload is the question sent back to the user instead of an answer
type ClarifyPayload struct {
	Question      string
	MissingFields []string
}

// Intent is a one-of: exactly the payload matching Kind is set.
// Build values through the New*Intent constructors, never by hand.
type Intent struct {
	Kind      IntentKind
	Describe  *DescribePayload
	Diagnose  *DiagnosePayload
	Prescribe *PrescribePayload
	Clarify   *ClarifyPayload
}

func NewDescribeIntent(p DescribePayload) Intent {
	return Intent{Kind: IntentDescribe, Describe: &p}
}

func NewDiagnoseIntent(p DiagnosePayload) Intent {
	return Intent{Kind: IntentDiagnose, Diagnose: &p}
}

func NewPrescribeIntent(p PrescribePayload) Intent {
	return Intent{Kind: IntentPrescribe, Prescribe: &p}
}

func NewClarifyIntent(p ClarifyPayload) Intent {
	return Intent{Kind: IntentClarify, Clarify: &p}
}

// Valid reports whether exactly the payload matching Kind is set
func (i Intent) Valid() bool {
	set := 0
	if i.Describe != nil {
		set++
	}
	if i.Diagnose != nil {
		set++
	}
	if i.Prescribe != nil {
		set++
	}
	if i.Clarify != nil {
		set++
	}
	if set != 1 {
		return false
	}

	switch i.Kind {
	case IntentDescribe:
		return i.Describe != nil
	case IntentDiagnose:
		return i.Diagnose != nil
	case IntentPrescribe:
		return i.Prescribe != nil
	case IntentClarify:
		return i.Clarify != nil
	default:
		return false
	}
}

// EntitiesOf returns the extracted entities for tool-running intents.
// Clarify carries none, the second return is false.
func (i Intent) EntitiesOf() (Entities, bool) {
	switch i.Kind {
	case IntentDescribe:
		if i.Describe != nil {
			return i.Describe.Entities, true
		}
	case IntentDiagnose:
		if i.Diagnose != nil {
			return i.Diagnose.Entities, true
		}
	case IntentPrescribe:
		if i.Prescribe != nil {
			return i.Prescribe.Entities, true
		}
	}
	return Entities{}, false
}

// Overridable in tests, anchors relative date phrases
var timeNow = time.Now
