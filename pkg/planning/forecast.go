package planning

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/planfab/portal/pkg/domain/entities"
)

// Forecast buckets.
const (
	BucketLikely = "likely"
	BucketAtRisk = "at-risk"
)

// ForecastOrder is one order line expected to complete in the forecast month.
type ForecastOrder struct {
	SalesOrderNumber string              `json:"sales_order_number"`
	Customer         string              `json:"customer"`
	PartNumber       entities.PartNumber `json:"part_number"`
	DueShipDate      string              `json:"due_ship_date"`
	Status           entities.LineStatus `json:"status"`
	Bucket           string              `json:"bucket"`
	Value            decimal.Decimal     `json:"value"`
	Calculation      string              `json:"calculation"`
}

// ForecastReport sums this month's expected shipment value into likely and
// at-risk dollar totals.
type ForecastReport struct {
	RunID            uuid.UUID       `json:"run_id"`
	GeneratedAt      time.Time       `json:"generated_at"`
	Month            string          `json:"month"`
	LikelyTotalValue decimal.Decimal `json:"likely_total_value"`
	AtRiskTotalValue decimal.Decimal `json:"at_risk_total_value"`
	Orders           []ForecastOrder `json:"orders"`
}

// ShipmentForecast re-runs the full allocation and buckets order lines whose
// due-ship date, less the production/QC/shipping buffer, falls in now's
// calendar month. Lines with no parseable due date are excluded.
func (p *Planner) ShipmentForecast(ctx context.Context, now time.Time) (*ForecastReport, error) {
	plan, err := p.CalculateMRPSuggestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("shipment forecast: %w", err)
	}

	report := &ForecastReport{
		RunID:            plan.RunID,
		GeneratedAt:      plan.GeneratedAt,
		Month:            now.Format("2006-01"),
		LikelyTotalValue: decimal.Zero,
		AtRiskTotalValue: decimal.Zero,
	}

	for _, res := range plan.Results {
		due, ok := res.Line.DueDate()
		if !ok {
			continue
		}
		shipBy := due.AddDate(0, 0, -p.cfg.ForecastBufferDays)
		if shipBy.Year() != now.Year() || shipBy.Month() != now.Month() {
			continue
		}

		order, ok := p.bucketOrder(res)
		if !ok {
			continue
		}
		if order.Bucket == BucketLikely {
			report.LikelyTotalValue = report.LikelyTotalValue.Add(order.Value)
		} else {
			report.AtRiskTotalValue = report.AtRiskTotalValue.Add(order.Value)
		}
		report.Orders = append(report.Orders, order)
	}

	return report, nil
}

// bucketOrder classifies one result into a forecast bucket with a
// human-readable calculation trail. Job-created lines are judged by their
// underlying material status; critical lines carry no shippable value and
// are dropped.
func (p *Planner) bucketOrder(res entities.AllocationResult) (ForecastOrder, bool) {
	line := res.Line
	status := res.Status
	if status == entities.StatusJobCreated {
		status = res.MaterialStatus
	}

	price := line.UnitPrice
	order := ForecastOrder{
		SalesOrderNumber: line.SalesOrderNumber,
		Customer:         line.CustomerName,
		PartNumber:       line.PartNumber,
		DueShipDate:      line.DueShipDate,
		Status:           res.Status,
	}

	switch status {
	case entities.StatusReadyToShip, entities.StatusOK, entities.StatusPendingQC:
		order.Bucket = BucketLikely
		order.Value = line.OrderValue()
		order.Calculation = fmt.Sprintf("Full Order: %s units x $%s/unit",
			fmtQty(line.CurrentOrderedQty), price.StringFixed(2))
	case entities.StatusPartialShip:
		order.Bucket = BucketLikely
		qty := res.ShippableQty + res.ProducibleQty
		order.Value = decimal.NewFromFloat(qty).Mul(price)
		order.Calculation = fmt.Sprintf("From Stock: %s units x $%s/unit + Producible: %s units x $%s/unit",
			fmtQty(res.ShippableQty), price.StringFixed(2),
			fmtQty(res.ProducibleQty), price.StringFixed(2))
	case entities.StatusPartial:
		order.Bucket = BucketAtRisk
		order.Value = decimal.NewFromFloat(res.ProducibleQty).Mul(price)
		order.Calculation = fmt.Sprintf("Producible Only: %s units x $%s/unit",
			fmtQty(res.ProducibleQty), price.StringFixed(2))
	default:
		return ForecastOrder{}, false
	}

	return order, true
}
