package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glazehaus/studio_scheduler/internal/model"
	"github.com/glazehaus/studio_scheduler/internal/repository/base"
	"github.com/glazehaus/studio_scheduler/internal/schedule"
)

type BookingRepository struct {
	*base.Repository
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{Repository: base.NewRepository(pool)}
}

// GetByDateRange returns every booking holding at least one reserved slot
// inside the inclusive date range, each with its full slot list attached.
// Slot times come back raw; normalization is the aggregator's job.
func (r *BookingRepository) GetByDateRange(ctx context.Context, dateRange model.DateRange) ([]*model.Booking, error) {
	query := `
		SELECT DISTINCT b.id, b.public_id, b.product_id, b.customer_name, b.customer_email,
		       b.customer_phone, b.paid, b.participants, b.technique, b.group_detail,
		       b.created_at, b.updated_at
		FROM bookings b
		JOIN booking_slots bs ON bs.booking_id = b.id
		WHERE bs.slot_date >= $1 AND bs.slot_date <= $2
		ORDER BY b.id
	`

	rows, err := r.Query(ctx, query, dateRange.From, dateRange.To)
	if err != nil {
		return nil, fmt.Errorf("get bookings by date range: %w", err)
	}
	defer rows.Close()

	var bookings []*model.Booking
	byID := make(map[int64]*model.Booking)
	for rows.Next() {
		var (
			b           model.Booking
			technique   *string
			groupDetail []byte
		)
		err := rows.Scan(
			&b.ID,
			&b.PublicID,
			&b.ProductID,
			&b.CustomerName,
			&b.CustomerEmail,
			&b.CustomerPhone,
			&b.Paid,
			&b.Participants,
			&technique,
			&groupDetail,
			&b.CreatedAt,
			&b.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		if technique != nil {
			b.Technique = model.Technique(*technique)
		}
		if len(groupDetail) > 0 {
			var group model.GroupDetail
			if err := json.Unmarshal(groupDetail, &group); err != nil {
				return nil, fmt.Errorf("decode group detail: %w", err)
			}
			b.Group = &group
		}
		bookings = append(bookings, &b)
		byID[b.ID] = &b
	}
	rows.Close()

	if len(bookings) == 0 {
		return bookings, nil
	}

	if err := r.attachSlots(ctx, byID); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingRepository) attachSlots(ctx context.Context, byID map[int64]*model.Booking) error {
	ids := make([]int64, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	query := `
		SELECT booking_id, slot_date, slot_time, instructor_id
		FROM booking_slots
		WHERE booking_id = ANY($1)
		ORDER BY slot_date, slot_time
	`

	rows, err := r.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("get booking slots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			bookingID int64
			slotDate  time.Time
			slot      model.TimeSlot
		)
		if err := rows.Scan(&bookingID, &slotDate, &slot.Time, &slot.InstructorID); err != nil {
			return fmt.Errorf("scan booking slot: %w", err)
		}
		slot.Date = slotDate.Format(model.DateLayout)
		if b, ok := byID[bookingID]; ok {
			b.Slots = append(b.Slots, slot)
		}
	}

	return nil
}

// PersistReschedule moves one reserved slot of a booking to the destination
// inside a transaction. destinationCapacity is the effective capacity of
// the destination slot as resolved by the capacity classifier. The re-check
// against it happens here, under an advisory lock on the destination, and
// weighs occupancy the same way aggregation does (explicit participants,
// else group size, else group minimum, else one), so a second concurrent
// writer fails with a conflict instead of overbooking a stale snapshot.
func (r *BookingRepository) PersistReschedule(ctx context.Context, bookingID int64, source, destination model.TimeSlot, destinationCapacity int, wasException bool) error {
	sourceTime, _ := schedule.Normalize(source.Time)
	destTime, _ := schedule.Normalize(destination.Time)

	tx, err := r.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Serialize writers on the destination slot even when it has no rows yet.
	_, err = tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`,
		destination.Date+"|"+destTime)
	if err != nil {
		return fmt.Errorf("lock destination slot: %w", err)
	}

	rows, err := slotRowsForDates(ctx, tx, []string{source.Date, destination.Date})
	if err != nil {
		return err
	}

	srcRow := findSlotRow(rows, source.Date, sourceTime, bookingID)
	if srcRow == nil {
		return fmt.Errorf("booking %d has no reserved slot at %s %s", bookingID, source.Date, source.Time)
	}

	occupied := destinationLoad(rows, destination.Date, destTime, bookingID)
	incoming := srcRow.booking.ParticipantCount()
	if occupied+incoming > destinationCapacity {
		return fmt.Errorf("destination slot %s %s is full (%d+%d/%d)",
			destination.Date, destTime, occupied, incoming, destinationCapacity)
	}

	_, err = tx.Exec(ctx, `
		UPDATE booking_slots
		SET slot_date = $1, slot_time = $2, instructor_id = $3
		WHERE id = $4
	`, destination.Date, destTime, destination.InstructorID, srcRow.id)
	if err != nil {
		return fmt.Errorf("move booking slot: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE bookings SET updated_at = NOW(), last_reschedule_exception = $1 WHERE id = $2
	`, wasException, bookingID)
	if err != nil {
		return fmt.Errorf("touch booking: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// slotRow is one reserved slot row joined with the booking data needed to
// weigh it.
type slotRow struct {
	id      int64
	date    string
	rawTime string
	booking *model.Booking
}

// slotRowsForDates loads every reserved row on the given dates inside the
// transaction, with participants, group metadata and product detail
// attached. Times come back raw; callers compare on normalized forms.
func slotRowsForDates(ctx context.Context, tx pgx.Tx, dates []string) ([]slotRow, error) {
	query := `
		SELECT bs.id, bs.slot_date, bs.slot_time,
		       b.id, b.participants, b.group_detail,
		       p.id, p.type, p.detail
		FROM booking_slots bs
		JOIN bookings b ON b.id = bs.booking_id
		JOIN products p ON p.id = b.product_id
		WHERE bs.slot_date = ANY($1)
	`

	rows, err := tx.Query(ctx, query, dates)
	if err != nil {
		return nil, fmt.Errorf("get slot rows: %w", err)
	}
	defer rows.Close()

	var out []slotRow
	for rows.Next() {
		var (
			row         slotRow
			slotDate    time.Time
			b           model.Booking
			p           model.Product
			groupDetail []byte
			detail      []byte
		)
		err := rows.Scan(&row.id, &slotDate, &row.rawTime,
			&b.ID, &b.Participants, &groupDetail,
			&p.ID, &p.Type, &detail)
		if err != nil {
			return nil, fmt.Errorf("scan slot row: %w", err)
		}
		if len(groupDetail) > 0 {
			var group model.GroupDetail
			if err := json.Unmarshal(groupDetail, &group); err != nil {
				return nil, fmt.Errorf("decode group detail: %w", err)
			}
			b.Group = &group
		}
		if len(detail) > 0 {
			if err := json.Unmarshal(detail, &p.Detail); err != nil {
				return nil, fmt.Errorf("decode product detail: %w", err)
			}
		}
		b.Product = &p
		row.date = slotDate.Format(model.DateLayout)
		row.booking = &b
		out = append(out, row)
	}

	return out, nil
}

// destinationLoad sums the participant weight of every booking other than
// movingID holding a row in the destination slot. Stored times are
// normalized before comparison so legacy 12-hour rows still count;
// duplicate rows for one booking count once.
func destinationLoad(rows []slotRow, date, normalizedTime string, movingID int64) int {
	seen := make(map[int64]bool)
	load := 0
	for _, row := range rows {
		if row.date != date || row.booking.ID == movingID {
			continue
		}
		stored, _ := schedule.Normalize(row.rawTime)
		if stored != normalizedTime || seen[row.booking.ID] {
			continue
		}
		seen[row.booking.ID] = true
		load += row.booking.ParticipantCount()
	}
	return load
}

// findSlotRow returns movingID's reserved row in the slot, matching on
// normalized time, or nil.
func findSlotRow(rows []slotRow, date, normalizedTime string, movingID int64) *slotRow {
	for i := range rows {
		row := &rows[i]
		if row.date != date || row.booking.ID != movingID {
			continue
		}
		if stored, _ := schedule.Normalize(row.rawTime); stored == normalizedTime {
			return row
		}
	}
	return nil
}

// RemoveSlot deletes one reserved slot row from a booking.
func (r *BookingRepository) RemoveSlot(ctx context.Context, bookingID int64, slot model.TimeSlot) error {
	affected, err := r.ExecAffected(ctx, `
		DELETE FROM booking_slots
		WHERE booking_id = $1 AND slot_date = $2 AND slot_time = $3
	`, bookingID, slot.Date, slot.Time)
	if err != nil {
		return fmt.Errorf("remove booking slot: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("booking %d has no reserved slot at %s %s", bookingID, slot.Date, slot.Time)
	}

	return nil
}
