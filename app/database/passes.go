package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bzinkan/pass-pilot-sub001/app/models"
)

// ErrPassAlreadyReturned is returned when a return is attempted on a
// pass that is no longer out.
var ErrPassAlreadyReturned = fmt.Errorf("pass already returned")

const passColumns = `id, school_id, student_id, teacher_id, pass_type, status, checkout_time, return_time, duration`

func scanPass(row interface{ Scan(...interface{}) error }) (*models.Pass, error) {
	pass := &models.Pass{}
	err := row.Scan(
		&pass.ID, &pass.SchoolID, &pass.StudentID, &pass.TeacherID,
		&pass.PassType, &pass.Status, &pass.CheckoutTime, &pass.ReturnTime, &pass.Duration,
	)
	if err != nil {
		return nil, err
	}
	return pass, nil
}

func GetPassByID(db *sql.DB, passID string) (*models.Pass, error) {
	query := `SELECT ` + passColumns + ` FROM passes WHERE id = $1`
	return scanPass(db.QueryRow(query, passID))
}

// CreatePass checks a student out. A student can hold at most one
// active pass, enforced here rather than by schema.
func CreatePass(db *sql.DB, pass *models.Pass) error {
	var active int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM passes WHERE student_id = $1 AND status = $2`,
		pass.StudentID, string(models.PassOut),
	).Scan(&active)
	if err != nil {
		return err
	}
	if active > 0 {
		return fmt.Errorf("student already has an active pass")
	}

	query := `INSERT INTO passes (school_id, student_id, teacher_id, pass_type, status, checkout_time)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`
	return db.QueryRow(query,
		pass.SchoolID, pass.StudentID, pass.TeacherID, pass.PassType,
		string(models.PassOut), pass.CheckoutTime,
	).Scan(&pass.ID)
}

// ReturnPass transitions one pass to returned, computing its duration.
// The WHERE status guard makes the transition single-shot: a second
// return finds no row and reports ErrPassAlreadyReturned.
func ReturnPass(db *sql.DB, passID string, now time.Time) (*models.Pass, error) {
	query := `UPDATE passes
	          SET status = $2, return_time = $3,
	              duration = ROUND(EXTRACT(EPOCH FROM ($3::timestamptz - checkout_time)) / 60)
	          WHERE id = $1 AND status = $4
	          RETURNING ` + passColumns
	pass, err := scanPass(db.QueryRow(query, passID, string(models.PassReturned), now, string(models.PassOut)))
	if err == sql.ErrNoRows {
		// Distinguish "missing" from "already returned".
		if _, lookupErr := GetPassByID(db, passID); lookupErr == nil {
			return nil, ErrPassAlreadyReturned
		}
		return nil, sql.ErrNoRows
	}
	return pass, err
}

// ReturnAllActivePasses bulk-returns every out pass for one school and
// returns the count. This is the nightly reset primitive; it is also
// invoked by the manual admin trigger.
func ReturnAllActivePasses(db *sql.DB, schoolID string, now time.Time) (int, error) {
	query := `UPDATE passes
	          SET status = $2, return_time = $3,
	              duration = ROUND(EXTRACT(EPOCH FROM ($3::timestamptz - checkout_time)) / 60)
	          WHERE school_id = $1 AND status = $4`
	result, err := db.Exec(query, schoolID, string(models.PassReturned), now, string(models.PassOut))
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	return int(affected), err
}

func GetActivePasses(db *sql.DB, schoolID string) ([]*models.Pass, error) {
	query := `SELECT ` + passColumns + ` FROM passes
	          WHERE school_id = $1 AND status = $2
	          ORDER BY checkout_time`
	return queryPasses(db, query, schoolID, string(models.PassOut))
}

// GetPassHistory returns the most recent passes for reporting.
func GetPassHistory(db *sql.DB, schoolID string, limit int) ([]*models.Pass, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query := `SELECT ` + passColumns + ` FROM passes
	          WHERE school_id = $1
	          ORDER BY checkout_time DESC
	          LIMIT $2`
	return queryPasses(db, query, schoolID, limit)
}

func queryPasses(db *sql.DB, query string, args ...interface{}) ([]*models.Pass, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var passes []*models.Pass
	for rows.Next() {
		pass, err := scanPass(rows)
		if err != nil {
			return nil, err
		}
		passes = append(passes, pass)
	}
	return passes, rows.Err()
}
