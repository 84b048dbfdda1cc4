package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glazehaus/studio_scheduler/internal/model"
	"github.com/glazehaus/studio_scheduler/internal/repository/base"
)

// AvailabilityRepository loads the weekly template, the per-date overrides
// and the capacity defaults - the three staff-edited scheduling inputs.
type AvailabilityRepository struct {
	*base.Repository
}

func NewAvailabilityRepository(pool *pgxpool.Pool) *AvailabilityRepository {
	return &AvailabilityRepository{Repository: base.NewRepository(pool)}
}

// GetTemplate returns the weekly availability template, ordered within each
// weekday by the staff-defined position.
func (r *AvailabilityRepository) GetTemplate(ctx context.Context) (model.AvailabilityTemplate, error) {
	query := `
		SELECT weekday, slot_time, instructor_id
		FROM availability_template
		ORDER BY weekday, position
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get availability template: %w", err)
	}
	defer rows.Close()

	template := make(model.AvailabilityTemplate)
	for rows.Next() {
		var (
			weekday int
			slot    model.TemplateSlot
		)
		if err := rows.Scan(&weekday, &slot.Time, &slot.InstructorID); err != nil {
			return nil, fmt.Errorf("scan template slot: %w", err)
		}
		template[time.Weekday(weekday)] = append(template[time.Weekday(weekday)], slot)
	}

	return template, nil
}

// GetOverrides returns every schedule override keyed by ISO date. A NULL
// slots column with slots_replaced set means the day is cancelled.
func (r *AvailabilityRepository) GetOverrides(ctx context.Context) (map[string]*model.ScheduleOverride, error) {
	query := `
		SELECT override_date, day_cancelled, slots_replaced, slots, capacity, created_at
		FROM schedule_overrides
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get schedule overrides: %w", err)
	}
	defer rows.Close()

	overrides := make(map[string]*model.ScheduleOverride)
	for rows.Next() {
		var (
			ov           model.ScheduleOverride
			overrideDate time.Time
			slots        []byte
		)
		if err := rows.Scan(&overrideDate, &ov.DayCancelled, &ov.SlotsReplaced, &slots, &ov.Capacity, &ov.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan schedule override: %w", err)
		}
		ov.Date = overrideDate.Format(model.DateLayout)
		if len(slots) > 0 {
			if err := json.Unmarshal(slots, &ov.Slots); err != nil {
				return nil, fmt.Errorf("decode override slots: %w", err)
			}
		}
		overrides[ov.Date] = &ov
	}

	return overrides, nil
}

// GetCapacityConfig returns the technique-keyed capacity defaults. The
// reserved "default" row is the global fallback; it is 1 when unset so the
// classifier is always total.
func (r *AvailabilityRepository) GetCapacityConfig(ctx context.Context) (model.CapacityConfig, error) {
	query := `
		SELECT technique, capacity
		FROM capacity_defaults
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return model.CapacityConfig{}, fmt.Errorf("get capacity defaults: %w", err)
	}
	defer rows.Close()

	cfg := model.CapacityConfig{
		PerTechnique:   make(map[model.Technique]int),
		GlobalFallback: 1,
	}
	for rows.Next() {
		var (
			technique string
			capacity  int
		)
		if err := rows.Scan(&technique, &capacity); err != nil {
			return model.CapacityConfig{}, fmt.Errorf("scan capacity default: %w", err)
		}
		if technique == "default" {
			cfg.GlobalFallback = capacity
			continue
		}
		cfg.PerTechnique[model.Technique(technique)] = capacity
	}

	return cfg, nil
}

// UpsertOverride stores or replaces the override for one date.
func (r *AvailabilityRepository) UpsertOverride(ctx context.Context, ov *model.ScheduleOverride) error {
	var slots []byte
	if ov.Slots != nil {
		var err error
		slots, err = json.Marshal(ov.Slots)
		if err != nil {
			return fmt.Errorf("marshal override slots: %w", err)
		}
	}

	query := `
		INSERT INTO schedule_overrides (override_date, day_cancelled, slots_replaced, slots, capacity)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (override_date) DO UPDATE
		SET day_cancelled = EXCLUDED.day_cancelled,
		    slots_replaced = EXCLUDED.slots_replaced,
		    slots = EXCLUDED.slots,
		    capacity = EXCLUDED.capacity
	`

	if _, err := r.ExecAffected(ctx, query, ov.Date, ov.DayCancelled, ov.SlotsReplaced, slots, ov.Capacity); err != nil {
		return fmt.Errorf("upsert schedule override: %w", err)
	}

	return nil
}
