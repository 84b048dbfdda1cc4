package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glazehaus/studio_scheduler/internal/model"
	"github.com/glazehaus/studio_scheduler/internal/repository/base"
)

type InstructorRepository struct {
	*base.Repository
}

func NewInstructorRepository(pool *pgxpool.Pool) *InstructorRepository {
	return &InstructorRepository{Repository: base.NewRepository(pool)}
}

// GetRoster returns the active instructor roster in insertion order. The
// first instructor of the roster is the reassignment target for orphaned
// slots, so the ordering is stable on purpose.
func (r *InstructorRepository) GetRoster(ctx context.Context) ([]*model.Instructor, error) {
	query := `
		SELECT id, name, color_tag, is_active, created_at
		FROM instructors
		WHERE is_active = TRUE
		ORDER BY id
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get instructor roster: %w", err)
	}
	defer rows.Close()

	var roster []*model.Instructor
	for rows.Next() {
		var ins model.Instructor
		if err := rows.Scan(&ins.ID, &ins.Name, &ins.ColorTag, &ins.IsActive, &ins.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan instructor: %w", err)
		}
		roster = append(roster, &ins)
	}

	return roster, nil
}

// GetByID returns one instructor or nil when absent.
func (r *InstructorRepository) GetByID(ctx context.Context, id int64) (*model.Instructor, error) {
	query := `
		SELECT id, name, color_tag, is_active, created_at
		FROM instructors
		WHERE id = $1
	`

	var ins model.Instructor
	err := r.QueryRow(ctx, query, id).Scan(&ins.ID, &ins.Name, &ins.ColorTag, &ins.IsActive, &ins.CreatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get instructor by id: %w", err)
	}

	return &ins, nil
}

// Create inserts a roster member.
func (r *InstructorRepository) Create(ctx context.Context, ins *model.Instructor) error {
	query := `
		INSERT INTO instructors (name, color_tag, is_active)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.QueryRow(ctx, query, ins.Name, ins.ColorTag, ins.IsActive).Scan(&ins.ID, &ins.CreatedAt)
	if err != nil {
		return fmt.Errorf("create instructor: %w", err)
	}

	return nil
}
