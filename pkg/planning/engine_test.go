package planning

import (
	"context"
	"strings"
	"testing"

	"github.com/planfab/portal/pkg/domain/entities"
	"github.com/planfab/portal/pkg/erp"
	"github.com/planfab/portal/pkg/erp/memory"
)

func orderRow(so, part, customer string, qty, price float64, due string) erp.Row {
	return erp.Row{
		"SO_NUMBER": so, "PART_NUMBER": part, "CUSTOMER_NAME": customer,
		"QTY_ORDERED": qty, "QTY_ORDERED_ORIG": qty, "UNIT_PRICE": price,
		"DUE_SHIP_DATE": due,
	}
}

func bomRow(parent, comp string, qtyPer, scrap float64) erp.Row {
	return erp.Row{
		"PARENT_PART": parent, "COMPONENT_PART": comp,
		"COMPONENT_DESC": comp + " desc", "QTY_PER": qtyPer, "SCRAP_PCT": scrap,
	}
}

func rawRow(part string, approved, pendingQC float64) erp.Row {
	return erp.Row{"PART_NUMBER": part, "QTY_APPROVED": approved, "QTY_PENDING_QC": pendingQC}
}

func fgRow(part string, approved, pendingQC float64) erp.Row {
	return erp.Row{"PART_NUMBER": part, "QTY_APPROVED": approved, "QTY_PENDING_QC": pendingQC}
}

func poRow(part string, open float64) erp.Row {
	return erp.Row{"PART_NUMBER": part, "QTY_OPEN": open}
}

func jobRow(job, so string, target, done float64) erp.Row {
	return erp.Row{"JOB_NUMBER": job, "SO_NUMBER": so, "QTY_TARGET": target, "QTY_COMPLETED": done}
}

func runPlan(t *testing.T, src erp.Source) *PlanResult {
	t.Helper()
	plan, err := NewPlanner(src, nil, Config{}).CalculateMRPSuggestions(context.Background())
	if err != nil {
		t.Fatalf("CalculateMRPSuggestions failed: %v", err)
	}
	return plan
}

func TestEngine_ReadyToShipFromStock(t *testing.T) {
	src := memory.NewSource()
	src.AddOrderLine(orderRow("SO-1", "FG-1", "Acme", 100, 4.5, "02/10/2025"))
	src.AddFinishedGood(fgRow("FG-1", 150, 0))

	plan := runPlan(t, src)
	if len(plan.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(plan.Results))
	}

	res := plan.Results[0]
	if res.Status != entities.StatusReadyToShip {
		t.Errorf("status = %v, want Ready to Ship", res.Status)
	}
	if res.CanProduceQty != 100 {
		t.Errorf("can produce = %v, want 100", res.CanProduceQty)
	}
	if res.ShippableQty != 100 || res.NetQty != 0 {
		t.Errorf("shippable = %v net = %v, want 100 and 0", res.ShippableQty, res.NetQty)
	}
	if len(res.Components) != 0 {
		t.Errorf("ready-to-ship line should touch no components, got %d", len(res.Components))
	}
}

func TestEngine_PendingQCCoversRemainder(t *testing.T) {
	src := memory.NewSource()
	src.AddOrderLine(orderRow("SO-1", "FG-1", "Acme", 100, 4.5, "02/10/2025"))
	src.AddFinishedGood(fgRow("FG-1", 30, 80))

	res := runPlan(t, src).Results[0]
	if res.Status != entities.StatusPendingQC {
		t.Fatalf("status = %v, want Pending QC", res.Status)
	}
	// QC-held stock needs separate approval, so it is not producible.
	if res.CanProduceQty != 30 {
		t.Errorf("can produce = %v, want 30", res.CanProduceQty)
	}
	if res.ShippableQty != 30 || res.NetQty != 70 {
		t.Errorf("shippable = %v net = %v, want 30 and 70", res.ShippableQty, res.NetQty)
	}
	if res.Bottleneck != "Pending QC Hold: 80" {
		t.Errorf("bottleneck = %q", res.Bottleneck)
	}
}

func TestEngine_PartialProductionBottleneck(t *testing.T) {
	src := memory.NewSource()
	src.AddOrderLine(orderRow("SO-1", "FG-2", "Acme", 50, 10, "02/10/2025"))
	src.AddBOMLine(bomRow("FG-2", "C-1", 2, 0))
	src.AddRawMaterial(rawRow("C-1", 60, 0))

	res := runPlan(t, src).Results[0]
	if res.Status != entities.StatusPartial {
		t.Fatalf("status = %v, want Partial", res.Status)
	}
	if res.ProducibleQty != 30 {
		t.Errorf("producible = %v, want 60/2 = 30", res.ProducibleQty)
	}
	if len(res.BottleneckParts) != 1 || res.BottleneckParts[0] != "C-1" {
		t.Errorf("bottleneck parts = %v, want [C-1]", res.BottleneckParts)
	}
	if len(res.Components) != 1 {
		t.Fatalf("expected 1 component detail, got %d", len(res.Components))
	}

	comp := res.Components[0]
	if comp.RequiredQty != 100 || comp.AllocatedQty != 60 {
		t.Errorf("component detail required=%v allocated=%v, want 100 and 60", comp.RequiredQty, comp.AllocatedQty)
	}
	if comp.Shortfall != 40 {
		t.Errorf("shortfall = %v, want 100-60 = 40", comp.Shortfall)
	}
}

func TestEngine_SharedComponentContention(t *testing.T) {
	src := memory.NewSource()
	// Line A is due earlier and drains the shared component first.
	src.AddOrderLine(orderRow("SO-B", "FG-2", "Borealis", 40, 10, "03/01/2025"))
	src.AddOrderLine(orderRow("SO-A", "FG-2", "Acme", 30, 10, "02/01/2025"))
	src.AddBOMLine(bomRow("FG-2", "C-1", 1, 0))
	src.AddRawMaterial(rawRow("C-1", 50, 0))

	plan := runPlan(t, src)
	if len(plan.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(plan.Results))
	}

	lineA, lineB := plan.Results[0], plan.Results[1]
	if lineA.Line.SalesOrderNumber != "SO-A" {
		t.Fatalf("due-date ordering wrong: first result is %s", lineA.Line.SalesOrderNumber)
	}

	if lineA.Status != entities.StatusOK || lineA.ProducibleQty != 30 {
		t.Errorf("line A: status=%v producible=%v, want OK and 30", lineA.Status, lineA.ProducibleQty)
	}
	if lineB.Status != entities.StatusPartial || lineB.ProducibleQty != 20 {
		t.Errorf("line B: status=%v producible=%v, want Partial and 20", lineB.Status, lineB.ProducibleQty)
	}

	// Line B sees who consumed the component ahead of it.
	if len(lineB.Components) != 1 || len(lineB.Components[0].SharedWith) != 1 ||
		lineB.Components[0].SharedWith[0] != "SO-A" {
		t.Errorf("line B shared-with = %+v, want [SO-A]", lineB.Components[0].SharedWith)
	}

	// Monotonic depletion: total claims never exceed the opening balance.
	total := 0.0
	for _, e := range plan.Ledger().Entries("C-1") {
		total += e.Qty
	}
	if total > 50 {
		t.Errorf("ledger total %v exceeds opening stock 50", total)
	}
}

func TestEngine_JobOverlayKeepsMaterialPicture(t *testing.T) {
	src := memory.NewSource()
	src.AddOrderLine(orderRow("SO-9", "FG-2", "Acme", 50, 10, "02/10/2025"))
	src.AddBOMLine(bomRow("FG-2", "C-1", 2, 0))
	src.AddRawMaterial(rawRow("C-1", 60, 0))
	src.AddJob(jobRow("J-77", "SO-9", 50, 12))

	res := runPlan(t, src).Results[0]
	if res.Status != entities.StatusJobCreated {
		t.Fatalf("status = %v, want Job Created", res.Status)
	}
	if res.MaterialStatus != entities.StatusPartial {
		t.Errorf("material status = %v, want underlying Partial", res.MaterialStatus)
	}
	if len(res.Jobs) != 1 || res.Jobs[0].JobNumber != "J-77" || res.Jobs[0].CompletedQty != 12 {
		t.Errorf("job details wrong: %+v", res.Jobs)
	}
	if !strings.Contains(res.Bottleneck, "J-77") || !strings.Contains(res.Bottleneck, "C-1") {
		t.Errorf("bottleneck should mention job and shortage parts, got %q", res.Bottleneck)
	}
	if ClassifyResult(res) != HealthAtRisk {
		t.Errorf("job with shortfall should classify At-Risk, got %v", ClassifyResult(res))
	}
}

func TestEngine_PartialShipOverride(t *testing.T) {
	src := memory.NewSource()
	src.AddOrderLine(orderRow("SO-1", "FG-2", "Acme", 100, 10, "02/10/2025"))
	src.AddFinishedGood(fgRow("FG-2", 20, 0))
	src.AddBOMLine(bomRow("FG-2", "C-1", 1, 0))
	src.AddRawMaterial(rawRow("C-1", 500, 0))

	res := runPlan(t, src).Results[0]
	// Production alone would be OK, but stock already shipped part of it.
	if res.Status != entities.StatusPartialShip {
		t.Fatalf("status = %v, want Partial Ship", res.Status)
	}
	if res.ShippableQty != 20 || res.ProducibleQty != 80 || res.CanProduceQty != 100 {
		t.Errorf("split wrong: shippable=%v producible=%v can=%v",
			res.ShippableQty, res.ProducibleQty, res.CanProduceQty)
	}
}

func TestEngine_NoBOMIsCritical(t *testing.T) {
	src := memory.NewSource()
	src.AddOrderLine(orderRow("SO-1", "FG-9", "Acme", 10, 10, "02/10/2025"))

	res := runPlan(t, src).Results[0]
	if res.Status != entities.StatusCritical {
		t.Fatalf("status = %v, want Critical", res.Status)
	}
	if res.Bottleneck != "No BOM Found" {
		t.Errorf("bottleneck = %q, want No BOM Found", res.Bottleneck)
	}
	if res.ProducibleQty != 0 {
		t.Errorf("producible = %v, want 0", res.ProducibleQty)
	}
}

func TestEngine_ZeroRateBOMLinesNeverConstrain(t *testing.T) {
	src := memory.NewSource()
	src.AddOrderLine(orderRow("SO-1", "FG-2", "Acme", 10, 10, "02/10/2025"))
	src.AddBOMLine(bomRow("FG-2", "C-1", 1, 0))
	src.AddBOMLine(bomRow("FG-2", "NOTE-1", 0, 0))     // qty 0
	src.AddBOMLine(bomRow("FG-2", "COST-1", 5, -100))  // rate collapses to 0
	src.AddRawMaterial(rawRow("C-1", 100, 0))

	res := runPlan(t, src).Results[0]
	if res.Status != entities.StatusOK {
		t.Fatalf("status = %v, want OK", res.Status)
	}
	if len(res.Components) != 1 || res.Components[0].PartNumber != "C-1" {
		t.Errorf("non-consuming lines leaked into component details: %+v", res.Components)
	}
	for _, pn := range res.BottleneckParts {
		if pn == "NOTE-1" || pn == "COST-1" {
			t.Errorf("zero-rate line %s reported as bottleneck", pn)
		}
	}
}

func TestEngine_PendingQCAndPOAreReadOnlyCeilings(t *testing.T) {
	src := memory.NewSource()
	// Two orders for the same part; component availability counts pending
	// QC and open PO, but only approved stock is drained between lines.
	src.AddOrderLine(orderRow("SO-1", "FG-2", "Acme", 10, 10, "02/01/2025"))
	src.AddOrderLine(orderRow("SO-2", "FG-2", "Acme", 10, 10, "02/02/2025"))
	src.AddBOMLine(bomRow("FG-2", "C-1", 1, 0))
	src.AddRawMaterial(rawRow("C-1", 5, 10))
	src.AddPurchaseOrder(poRow("C-1", 5))

	plan := runPlan(t, src)
	first, second := plan.Results[0], plan.Results[1]

	// First line: 5 approved + 10 QC + 5 PO = 20 available, fully producible.
	if first.Status != entities.StatusOK || first.ProducibleQty != 10 {
		t.Errorf("first line: %v producible=%v, want OK 10", first.Status, first.ProducibleQty)
	}
	// It can only claim the 5 approved units.
	if first.Components[0].AllocatedQty != 5 {
		t.Errorf("first line allocated %v, want 5", first.Components[0].AllocatedQty)
	}
	// Second line still sees the untouched QC and PO ceilings: 0 + 10 + 5.
	if second.ProducibleQty != 10 {
		t.Errorf("second line producible = %v, want 10", second.ProducibleQty)
	}
	if second.Status != entities.StatusOK {
		t.Errorf("second line status = %v, want OK", second.Status)
	}
}

func TestEngine_ConservationPerLine(t *testing.T) {
	src := memory.NewSource()
	src.AddOrderLine(orderRow("SO-1", "FG-2", "Acme", 100, 10, "02/01/2025"))
	src.AddOrderLine(orderRow("SO-2", "FG-2", "Acme", 50, 10, "02/02/2025"))
	src.AddFinishedGood(fgRow("FG-2", 30, 10))
	src.AddBOMLine(bomRow("FG-2", "C-1", 2, 5))
	src.AddRawMaterial(rawRow("C-1", 90, 0))

	for _, res := range runPlan(t, src).Results {
		if res.ShippableQty+res.ProducibleQty > res.Line.CurrentOrderedQty {
			t.Errorf("line %s: shippable %v + producible %v exceeds ordered %v",
				res.Line.SalesOrderNumber, res.ShippableQty, res.ProducibleQty,
				res.Line.CurrentOrderedQty)
		}
	}
}

func TestEngine_ShiftEstimate(t *testing.T) {
	src := memory.NewSource()
	src.AddOrderLine(orderRow("SO-1", "FG-2", "Acme", 60, 10, "02/01/2025"))
	src.AddBOMLine(bomRow("FG-2", "C-1", 1, 0))
	src.AddRawMaterial(rawRow("C-1", 100, 0))
	src.SetLineCapacity("LINE-B", 30)
	src.SetLineCapacity("LINE-A", 120)

	res := runPlan(t, src).Results[0]
	// Deterministic pick: lowest line id with positive capacity.
	if res.CapacityLine != "LINE-A" {
		t.Errorf("capacity line = %q, want LINE-A", res.CapacityLine)
	}
	if res.ShiftsRequired != 0.5 {
		t.Errorf("shifts = %v, want 60/120 = 0.5", res.ShiftsRequired)
	}
}

func TestEngine_NoCapacityMeansZeroShifts(t *testing.T) {
	src := memory.NewSource()
	src.AddOrderLine(orderRow("SO-1", "FG-2", "Acme", 60, 10, "02/01/2025"))
	src.AddBOMLine(bomRow("FG-2", "C-1", 1, 0))
	src.AddRawMaterial(rawRow("C-1", 100, 0))

	if res := runPlan(t, src).Results[0]; res.ShiftsRequired != 0 {
		t.Errorf("shifts = %v, want 0 with no configured capacity", res.ShiftsRequired)
	}
}

func TestEngine_EmptyScheduleYieldsEmptyResults(t *testing.T) {
	plan := runPlan(t, memory.NewSource())
	if len(plan.Results) != 0 {
		t.Errorf("expected no results, got %d", len(plan.Results))
	}
}

func TestEngine_ZeroQuantityOrderIsReadyToShip(t *testing.T) {
	src := memory.NewSource()
	src.AddOrderLine(orderRow("SO-1", "FG-1", "Acme", 0, 10, "02/01/2025"))

	res := runPlan(t, src).Results[0]
	if res.Status != entities.StatusReadyToShip {
		t.Errorf("status = %v, want Ready to Ship for zero quantity", res.Status)
	}
	if res.CanProduceQty != 0 || res.ShippableQty != 0 {
		t.Errorf("quantities should be zero: %+v", res)
	}
}
