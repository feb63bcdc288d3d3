// Package erpdb implements erp.Source against a local SQLite mirror of the
// upstream ERP tables. The mirror is read-only from the portal's point of
// view; a separate sync process (out of scope here) refreshes it.
package erpdb

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/planfab/portal/pkg/erp"
)

// Open opens the mirror database with the pragmas the portal expects.
func Open(path string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open erp mirror: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping erp mirror: %w", err)
	}
	return db, nil
}

// Store reads raw ERP rows from the mirror.
type Store struct {
	db *sqlx.DB
}

// NewStore creates a store over an open mirror database.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Verify interface compliance
var _ erp.Source = (*Store)(nil)

// queryRows runs a query and returns each record as a loosely typed erp.Row.
// Column values stay as the driver produced them; coercion happens in the
// planning builders.
func (s *Store) queryRows(ctx context.Context, query string) ([]erp.Row, error) {
	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []erp.Row
	for rows.Next() {
		row := make(map[string]any)
		if err := rows.MapScan(row); err != nil {
			return nil, err
		}
		out = append(out, erp.Row(row))
	}
	return out, rows.Err()
}

// OpenOrderSchedule returns every open sales-order line.
func (s *Store) OpenOrderSchedule(ctx context.Context) ([]erp.Row, error) {
	rows, err := s.queryRows(ctx, `
		SELECT so_number        AS SO_NUMBER,
		       part_number      AS PART_NUMBER,
		       customer_name    AS CUSTOMER_NAME,
		       part_description AS PART_DESCRIPTION,
		       qty_ordered      AS QTY_ORDERED,
		       qty_ordered_orig AS QTY_ORDERED_ORIG,
		       unit_price       AS UNIT_PRICE,
		       due_ship_date    AS DUE_SHIP_DATE,
		       facility         AS FACILITY,
		       business_unit    AS BUSINESS_UNIT
		FROM erp_open_orders
		ORDER BY part_number, so_number`)
	if err != nil {
		return nil, fmt.Errorf("query open order schedule: %w", err)
	}
	return rows, nil
}

// BOMData returns all bill-of-materials component rows.
func (s *Store) BOMData(ctx context.Context) ([]erp.Row, error) {
	rows, err := s.queryRows(ctx, `
		SELECT parent_part    AS PARENT_PART,
		       component_part AS COMPONENT_PART,
		       component_desc AS COMPONENT_DESC,
		       qty_per        AS QTY_PER,
		       scrap_pct      AS SCRAP_PCT
		FROM erp_bom_components`)
	if err != nil {
		return nil, fmt.Errorf("query bom components: %w", err)
	}
	return rows, nil
}

// PurchaseOrderData returns open purchase-order lines.
func (s *Store) PurchaseOrderData(ctx context.Context) ([]erp.Row, error) {
	rows, err := s.queryRows(ctx, `
		SELECT part_number AS PART_NUMBER,
		       qty_open    AS QTY_OPEN
		FROM erp_open_purchase_orders
		WHERE qty_open > 0`)
	if err != nil {
		return nil, fmt.Errorf("query open purchase orders: %w", err)
	}
	return rows, nil
}

// RawMaterialInventory returns component inventory rows.
func (s *Store) RawMaterialInventory(ctx context.Context) ([]erp.Row, error) {
	rows, err := s.queryRows(ctx, `
		SELECT part_number    AS PART_NUMBER,
		       qty_approved   AS QTY_APPROVED,
		       qty_pending_qc AS QTY_PENDING_QC,
		       qty_quarantine AS QTY_QUARANTINE,
		       qty_issued     AS QTY_ISSUED,
		       qty_staged     AS QTY_STAGED
		FROM erp_raw_material_inventory`)
	if err != nil {
		return nil, fmt.Errorf("query raw material inventory: %w", err)
	}
	return rows, nil
}

// FinishedGoodInventory returns finished-goods inventory rows.
func (s *Store) FinishedGoodInventory(ctx context.Context) ([]erp.Row, error) {
	rows, err := s.queryRows(ctx, `
		SELECT part_number    AS PART_NUMBER,
		       qty_approved   AS QTY_APPROVED,
		       qty_pending_qc AS QTY_PENDING_QC
		FROM erp_finished_good_inventory`)
	if err != nil {
		return nil, fmt.Errorf("query finished goods inventory: %w", err)
	}
	return rows, nil
}

// OpenProductionJobs returns in-progress production jobs.
func (s *Store) OpenProductionJobs(ctx context.Context) ([]erp.Row, error) {
	rows, err := s.queryRows(ctx, `
		SELECT job_number    AS JOB_NUMBER,
		       so_number     AS SO_NUMBER,
		       qty_target    AS QTY_TARGET,
		       qty_completed AS QTY_COMPLETED
		FROM erp_open_jobs
		WHERE status = 'IN_PROGRESS'`)
	if err != nil {
		return nil, fmt.Errorf("query open production jobs: %w", err)
	}
	return rows, nil
}

// ProductionLineCapacity maps production line id to per-shift capacity.
func (s *Store) ProductionLineCapacity(ctx context.Context) (map[string]float64, error) {
	rows, err := s.queryRows(ctx, `
		SELECT line_id            AS LINE_ID,
		       capacity_per_shift AS CAPACITY_PER_SHIFT
		FROM erp_production_lines`)
	if err != nil {
		return nil, fmt.Errorf("query production line capacity: %w", err)
	}

	out := make(map[string]float64, len(rows))
	for _, row := range rows {
		if id := row.Str("LINE_ID"); id != "" {
			out[id] = row.Float("CAPACITY_PER_SHIFT", 0)
		}
	}
	return out, nil
}
