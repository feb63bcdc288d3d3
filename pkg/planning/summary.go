package planning

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/planfab/portal/pkg/domain/entities"
)

// OrderHealth classifies an allocation result for the customer summary.
type OrderHealth int

const (
	HealthOnTrack OrderHealth = iota
	HealthAtRisk
	HealthCritical
)

func (h OrderHealth) String() string {
	switch h {
	case HealthOnTrack:
		return "On-Track"
	case HealthAtRisk:
		return "At-Risk"
	case HealthCritical:
		return "Critical"
	default:
		return "Unknown"
	}
}

// MarshalJSON renders the health as its display string.
func (h OrderHealth) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// SummaryOrder pairs one allocation result with its health classification and
// the shortfall-only component list used for display.
type SummaryOrder struct {
	Result              entities.AllocationResult  `json:"result"`
	Health              OrderHealth                `json:"health"`
	ShortfallComponents []entities.ComponentDetail `json:"shortfall_components,omitempty"`
}

// SummaryReport is the health rollup of one customer's open orders.
type SummaryReport struct {
	Customer    string         `json:"customer"`
	RunID       uuid.UUID      `json:"run_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Orders      []SummaryOrder `json:"orders"`
	OnTrack     int            `json:"on_track"`
	AtRisk      int            `json:"at_risk"`
	Critical    int            `json:"critical"`
}

// CustomerSummary re-runs the full allocation and classifies the given
// customer's order lines. Customer matching is case-insensitive.
func (p *Planner) CustomerSummary(ctx context.Context, customer string) (*SummaryReport, error) {
	plan, err := p.CalculateMRPSuggestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("customer summary: %w", err)
	}

	report := &SummaryReport{
		Customer:    customer,
		RunID:       plan.RunID,
		GeneratedAt: plan.GeneratedAt,
	}

	for _, res := range plan.Results {
		if !strings.EqualFold(strings.TrimSpace(res.Line.CustomerName), strings.TrimSpace(customer)) {
			continue
		}
		health := ClassifyResult(res)
		switch health {
		case HealthOnTrack:
			report.OnTrack++
		case HealthAtRisk:
			report.AtRisk++
		case HealthCritical:
			report.Critical++
		}
		report.Orders = append(report.Orders, SummaryOrder{
			Result:              res,
			Health:              health,
			ShortfallComponents: shortfallComponents(res),
		})
	}

	return report, nil
}

// ClassifyResult maps an engine status to order health. A created job only
// de-escalates a line when none of its components are short.
func ClassifyResult(res entities.AllocationResult) OrderHealth {
	switch res.Status {
	case entities.StatusCritical:
		return HealthCritical
	case entities.StatusJobCreated:
		if hasShortfall(res) {
			return HealthAtRisk
		}
		return HealthOnTrack
	case entities.StatusPartial, entities.StatusPartialShip, entities.StatusPendingQC:
		return HealthAtRisk
	default:
		return HealthOnTrack
	}
}

func hasShortfall(res entities.AllocationResult) bool {
	for _, c := range res.Components {
		if c.Shortfall > 0 {
			return true
		}
	}
	return false
}

func shortfallComponents(res entities.AllocationResult) []entities.ComponentDetail {
	var short []entities.ComponentDetail
	for _, c := range res.Components {
		if c.Shortfall > 0 {
			short = append(short, c)
		}
	}
	return short
}
