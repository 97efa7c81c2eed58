package agents

import (
	"testing"
	"time"

	"github.com/selivandex/seller-bot/pkg/models"
)

func TestIntentConstructors(t *testing.T) {
	entities := Entities{Marketplace: models.MarketplaceWB, Topic: "маржа"}

	cases := []struct {
		name   string
		intent Intent
		kind   IntentKind
	}{
		{"describe", NewDescribeIntent(DescribePayload{Entities: entities}), IntentDescribe},
		{"diagnose", NewDiagnoseIntent(DiagnosePayload{Entities: entities}), IntentDiagnose},
		{"prescribe", NewPrescribeIntent(PrescribePayload{Entities: entities, Goal: "маржа"}), IntentPrescribe},
		{"clarify", NewClarifyIntent(ClarifyPayload{Question: "что именно?"}), IntentClarify},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.intent.Kind != tc.kind {
				t.Errorf("Kind = %s, want %s", tc.intent.Kind, tc.kind)
			}
			if !tc.intent.Valid() {
				t.Errorf("constructor produced an invalid intent: %+v", tc.intent)
			}
		})
	}
}

func TestIntentValid(t *testing.T) {
	if (Intent{}).Valid() {
		t.Error("zero intent must be invalid")
	}

	mismatched := Intent{Kind: IntentDescribe, Diagnose: &DiagnosePayload{}}
	if mismatched.Valid() {
		t.Error("payload not matching the kind must be invalid")
	}

	double := NewDescribeIntent(DescribePayload{})
	double.Clarify = &ClarifyPayload{Question: "?"}
	if double.Valid() {
		t.Error("two payloads must be invalid")
	}
}

func TestIntentEntitiesOf(t *testing.T) {
	entities := Entities{Marketplace: models.MarketplaceOzon, NmID: 123456}

	got, ok := NewDiagnoseIntent(DiagnosePayload{Entities: entities}).EntitiesOf()
	if !ok {
		t.Fatal("diagnose must carry entities")
	}
	if got.Marketplace != models.MarketplaceOzon || got.NmID != 123456 {
		t.Errorf("entities lost in transit: %+v", got)
	}

	if _, ok := NewClarifyIntent(ClarifyPayload{Question: "?"}).EntitiesOf(); ok {
		t.Error("clarify carries no entities")
	}
}

func TestEntitiesPeriodParams(t *testing.T) {
	e := Entities{}
	if got := e.PeriodParams(); len(got) != 0 {
		t.Errorf("no period should mean empty params, got %v", got)
	}

	e = Entities{
		HasPeriod: true,
		Period: models.Period{
			From: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC),
		},
	}
	got := e.PeriodParams()
	if got["date_from"] != "2025-06-01" || got["date_to"] != "2025-06-07" {
		t.Errorf("params = %v", got)
	}

	if e.PeriodDays() != 7 {
		t.Errorf("PeriodDays = %d, want 7", e.PeriodDays())
	}
	if (Entities{}).PeriodDays() != 0 {
		t.Error("PeriodDays without a period must be 0")
	}
}
