package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chronohq/attendance-engine-go/internal/domain/session"
	"github.com/chronohq/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const sessionColumns = `id, employee_id, company_id, workplace_id, work_date,
	punch_in, punch_out, status, verification,
	punch_in_latitude, punch_in_longitude, punch_in_method, punch_in_compliant,
	punch_out_latitude, punch_out_longitude, punch_out_method, punch_out_compliant,
	total_minutes, break_minutes, net_minutes, overtime_minutes,
	verified_by, verified_at, created_at, updated_at`

type sessionRepository struct {
	db *database.DB
}

func NewSessionRepository(db *database.DB) session.SessionRepository {
	return &sessionRepository{db: db}
}

func scanSession(row pgx.Row) (session.Session, error) {
	var s session.Session
	err := row.Scan(
		&s.ID, &s.EmployeeID, &s.CompanyID, &s.WorkplaceID, &s.WorkDate,
		&s.PunchIn, &s.PunchOut, &s.Status, &s.Verification,
		&s.PunchInLatitude, &s.PunchInLongitude, &s.PunchInMethod, &s.PunchInCompliant,
		&s.PunchOutLatitude, &s.PunchOutLongitude, &s.PunchOutMethod, &s.PunchOutCompliant,
		&s.TotalMinutes, &s.BreakMinutes, &s.NetMinutes, &s.OvertimeMinutes,
		&s.VerifiedBy, &s.VerifiedAt, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// Create implements session.SessionRepository.
func (r *sessionRepository) Create(ctx context.Context, s session.Session) (session.Session, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_sessions (
			employee_id, company_id, workplace_id, work_date,
			punch_in, status, verification,
			punch_in_latitude, punch_in_longitude, punch_in_method, punch_in_compliant
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		s.EmployeeID,
		s.CompanyID,
		s.WorkplaceID,
		s.WorkDate,
		s.PunchIn,
		s.Status,
		s.Verification,
		s.PunchInLatitude,
		s.PunchInLongitude,
		s.PunchInMethod,
		s.PunchInCompliant,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		if database.IsUniqueViolation(err, "uq_sessions_employee_work_date") {
			return session.Session{}, session.ErrDuplicateSession
		}
		return session.Session{}, fmt.Errorf("failed to create session: %w", database.MapError(err))
	}

	return s, nil
}

// GetByID implements session.SessionRepository.
func (r *sessionRepository) GetByID(ctx context.Context, id string, companyID string) (session.Session, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT ` + sessionColumns + `
		FROM attendance_sessions
		WHERE id = $1 AND company_id = $2
	`

	s, err := scanSession(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session.Session{}, session.ErrSessionNotFound
		}
		return session.Session{}, fmt.Errorf("failed to get session: %w", database.MapError(err))
	}

	return s, nil
}

// GetOpenByEmployee implements session.SessionRepository.
func (r *sessionRepository) GetOpenByEmployee(ctx context.Context, employeeID string) (session.Session, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT ` + sessionColumns + `
		FROM attendance_sessions
		WHERE employee_id = $1
		  AND status IN ('active', 'on_break')
		ORDER BY punch_in DESC
		LIMIT 1
	`

	s, err := scanSession(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session.Session{}, session.ErrNoActiveSession
		}
		return session.Session{}, fmt.Errorf("failed to get open session: %w", database.MapError(err))
	}

	return s, nil
}

// Update implements session.SessionRepository.
func (r *sessionRepository) Update(ctx context.Context, s session.Session) error {
	q := database.GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_sessions
		SET punch_out = $1,
			status = $2,
			verification = $3,
			punch_out_latitude = $4,
			punch_out_longitude = $5,
			punch_out_method = $6,
			punch_out_compliant = $7,
			total_minutes = $8,
			break_minutes = $9,
			net_minutes = $10,
			overtime_minutes = $11,
			verified_by = $12,
			verified_at = $13,
			updated_at = NOW()
		WHERE id = $14
	`

	tag, err := q.Exec(ctx, query,
		s.PunchOut,
		s.Status,
		s.Verification,
		s.PunchOutLatitude,
		s.PunchOutLongitude,
		s.PunchOutMethod,
		s.PunchOutCompliant,
		s.TotalMinutes,
		s.BreakMinutes,
		s.NetMinutes,
		s.OvertimeMinutes,
		s.VerifiedBy,
		s.VerifiedAt,
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", database.MapError(err))
	}
	if tag.RowsAffected() == 0 {
		return session.ErrSessionNotFound
	}

	return nil
}

// ListByEmployee implements session.SessionRepository.
func (r *sessionRepository) ListByEmployee(ctx context.Context, employeeID string, filter session.ListSessionsFilter) ([]session.Session, int64, error) {
	q := database.GetQuerier(ctx, r.db)

	conditions := []string{"employee_id = $1"}
	args := []interface{}{employeeID}

	if filter.From != nil {
		args = append(args, *filter.From)
		conditions = append(conditions, fmt.Sprintf("work_date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conditions = append(conditions, fmt.Sprintf("work_date <= $%d", len(args)))
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := "SELECT COUNT(*) FROM attendance_sessions WHERE " + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", database.MapError(err))
	}

	offset := (filter.Page - 1) * filter.Limit
	args = append(args, filter.Limit, offset)
	listQuery := fmt.Sprintf(`
		SELECT %s
		FROM attendance_sessions
		WHERE %s
		ORDER BY work_date DESC, punch_in DESC
		LIMIT $%d OFFSET $%d
	`, sessionColumns, where, len(args)-1, len(args))

	rows, err := q.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sessions: %w", database.MapError(err))
	}
	defer rows.Close()

	var sessions []session.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read sessions: %w", database.MapError(err))
	}

	return sessions, total, nil
}
