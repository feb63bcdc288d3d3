package planning

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/planfab/portal/pkg/domain/entities"
)

// NoDueDate is the sentinel earliest-due-date when no affected order carries
// a parseable date.
const NoDueDate = "No Date"

// ShortageAffectedOrder identifies one order contributing to a component
// shortage.
type ShortageAffectedOrder struct {
	SalesOrderNumber string `json:"sales_order_number"`
	Customer         string `json:"customer"`
	DueShipDate      string `json:"due_ship_date"`
}

// ComponentShortage aggregates every order's shortfall of one component.
type ComponentShortage struct {
	PartNumber      entities.PartNumber     `json:"part_number"`
	Description     string                  `json:"description"`
	TotalShortfall  float64                 `json:"total_shortfall"`
	OnHand          float64                 `json:"on_hand"`
	OpenPO          float64                 `json:"open_po"`
	AffectedOrders  []ShortageAffectedOrder `json:"affected_orders"`
	Customers       []string                `json:"customers"`
	EarliestDueDate string                  `json:"earliest_due_date"`
}

// ShortageReport is the plant-wide consolidated component shortage list.
type ShortageReport struct {
	RunID       uuid.UUID           `json:"run_id"`
	GeneratedAt time.Time           `json:"generated_at"`
	Shortages   []ComponentShortage `json:"shortages"`
}

// ConsolidatedShortages re-runs the full allocation and rolls every component
// shortfall up into a part-level report. Packaging parts (reserved prefix)
// are excluded; output is sorted by part number, affected customers
// alphabetically.
func (p *Planner) ConsolidatedShortages(ctx context.Context) (*ShortageReport, error) {
	plan, err := p.CalculateMRPSuggestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("consolidated shortages: %w", err)
	}

	type accum struct {
		shortage ComponentShortage
		earliest time.Time
		hasDate  bool
	}
	byPart := make(map[entities.PartNumber]*accum)

	for _, res := range plan.Results {
		for _, comp := range res.Components {
			if comp.Shortfall <= 0 {
				continue
			}
			if strings.HasPrefix(string(comp.PartNumber), p.cfg.PackagingPrefix) {
				continue
			}

			acc, ok := byPart[comp.PartNumber]
			if !ok {
				// On-hand and open-PO are captured from the first
				// occurrence: the balance as the run first saw it.
				acc = &accum{shortage: ComponentShortage{
					PartNumber:  comp.PartNumber,
					Description: comp.Description,
					OnHand:      comp.OnHandBefore,
					OpenPO:      comp.OpenPO,
				}}
				byPart[comp.PartNumber] = acc
			}

			acc.shortage.TotalShortfall += comp.Shortfall
			acc.shortage.AffectedOrders = append(acc.shortage.AffectedOrders, ShortageAffectedOrder{
				SalesOrderNumber: res.Line.SalesOrderNumber,
				Customer:         res.Line.CustomerName,
				DueShipDate:      res.Line.DueShipDate,
			})
			if due, ok := res.Line.DueDate(); ok {
				if !acc.hasDate || due.Before(acc.earliest) {
					acc.earliest = due
					acc.hasDate = true
				}
			}
		}
	}

	report := &ShortageReport{
		RunID:       plan.RunID,
		GeneratedAt: plan.GeneratedAt,
	}
	for _, acc := range byPart {
		s := acc.shortage
		if acc.hasDate {
			s.EarliestDueDate = acc.earliest.Format(entities.ShipDateLayout)
		} else {
			s.EarliestDueDate = NoDueDate
		}
		s.Customers = uniqueSorted(customerNames(s.AffectedOrders))
		report.Shortages = append(report.Shortages, s)
	}
	sort.Slice(report.Shortages, func(i, j int) bool {
		return report.Shortages[i].PartNumber < report.Shortages[j].PartNumber
	})

	return report, nil
}

func customerNames(orders []ShortageAffectedOrder) []string {
	names := make([]string, 0, len(orders))
	for _, o := range orders {
		names = append(names, o.Customer)
	}
	return names
}

func uniqueSorted(values []string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
