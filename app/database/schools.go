package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/bzinkan/pass-pilot-sub001/app/models"
)

// ErrDuplicateSlug is returned when a school name normalizes to a slug
// that is already taken.
var ErrDuplicateSlug = fmt.Errorf("school slug already exists")

const schoolColumns = `id, name, slug, plan, status, max_teachers, max_students, admin_email, verified,
	trial_start_date, trial_end_date, is_trial_expired, stripe_customer_id, subscription_id,
	subscription_ends_at, created_at, updated_at`

func scanSchool(row interface{ Scan(...interface{}) error }) (*models.School, error) {
	school := &models.School{}
	err := row.Scan(
		&school.ID, &school.Name, &school.Slug, &school.Plan, &school.Status,
		&school.MaxTeachers, &school.MaxStudents, &school.AdminEmail, &school.Verified,
		&school.TrialStartDate, &school.TrialEndDate, &school.IsTrialExpired,
		&school.StripeCustomerID, &school.SubscriptionID, &school.SubscriptionEndsAt,
		&school.CreatedAt, &school.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return school, nil
}

func GetSchoolByID(db *sql.DB, schoolID string) (*models.School, error) {
	query := `SELECT ` + schoolColumns + ` FROM schools WHERE id = $1`
	return scanSchool(db.QueryRow(query, schoolID))
}

func GetSchoolBySlug(db *sql.DB, slug string) (*models.School, error) {
	query := `SELECT ` + schoolColumns + ` FROM schools WHERE slug = $1`
	return scanSchool(db.QueryRow(query, slug))
}

func GetSchoolBySubscriptionID(db *sql.DB, subscriptionID string) (*models.School, error) {
	query := `SELECT ` + schoolColumns + ` FROM schools WHERE subscription_id = $1`
	return scanSchool(db.QueryRow(query, subscriptionID))
}

func GetAllSchoolIDs(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`SELECT id FROM schools ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CreateSchoolWithAdmin inserts the school and its admin user in one
// transaction so a failure leaves no partial tenant behind.
func CreateSchoolWithAdmin(db *sql.DB, school *models.School, admin *models.User) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	querySchool := `INSERT INTO schools (name, slug, plan, status, max_teachers, max_students, admin_email,
	                    verified, trial_start_date, trial_end_date)
	                VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	                RETURNING id, created_at, updated_at`
	err = tx.QueryRow(querySchool,
		school.Name, school.Slug, string(school.Plan), string(school.Status),
		school.MaxTeachers, school.MaxStudents, school.AdminEmail, school.Verified,
		school.TrialStartDate, school.TrialEndDate,
	).Scan(&school.ID, &school.CreatedAt, &school.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("failed to insert school: %v", err)
	}

	queryUser := `INSERT INTO users (school_id, email, password, first_name, last_name, is_admin, status)
	              VALUES ($1, $2, $3, $4, $5, true, $6)
	              RETURNING id, created_at, updated_at`
	err = tx.QueryRow(queryUser,
		school.ID, admin.Email, admin.Password, admin.FirstName, admin.LastName, string(admin.Status),
	).Scan(&admin.ID, &admin.CreatedAt, &admin.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert admin user: %v", err)
	}
	admin.SchoolID = &school.ID
	admin.IsAdmin = true

	return tx.Commit()
}

// DeleteSchool removes the tenant; users, students, passes, payments
// and events go with it via ON DELETE CASCADE.
func DeleteSchool(db *sql.DB, schoolID string) error {
	result, err := db.Exec(`DELETE FROM schools WHERE id = $1`, schoolID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ActivateSchool is the idempotent webhook-driven transition to ACTIVE.
// A school already in the target state is updated in place with the
// same values, which is a no-op.
func ActivateSchool(db *sql.DB, schoolID, customerID, subscriptionID string) error {
	query := `UPDATE schools
	          SET status = $2, verified = true,
	              stripe_customer_id = COALESCE(NULLIF($3, ''), stripe_customer_id),
	              subscription_id = COALESCE(NULLIF($4, ''), subscription_id),
	              updated_at = NOW()
	          WHERE id = $1`
	_, err := db.Exec(query, schoolID, string(models.SchoolActive), customerID, subscriptionID)
	return err
}

func SetSchoolCustomerID(db *sql.DB, schoolID, customerID string) error {
	query := `UPDATE schools SET stripe_customer_id = $2, updated_at = NOW() WHERE id = $1`
	_, err := db.Exec(query, schoolID, customerID)
	return err
}

// UpgradeSchoolPlan applies a new tier's limits to an existing school,
// preserving its id and everything else. Name changes only when a
// non-empty newName is given.
func UpgradeSchoolPlan(db *sql.DB, schoolID string, plan models.Plan, newName string) error {
	query := `UPDATE schools
	          SET plan = $2, max_teachers = $3, max_students = $4,
	              name = COALESCE(NULLIF($5, ''), name),
	              updated_at = NOW()
	          WHERE id = $1`
	result, err := db.Exec(query, schoolID, string(plan.ID), plan.MaxTeachers, plan.MaxStudents, newName)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CancelSchoolSubscription marks the school CANCELLED with a grace
// window during which existing sessions keep working.
func CancelSchoolSubscription(db *sql.DB, schoolID string, endsAt time.Time) error {
	query := `UPDATE schools SET status = $2, subscription_ends_at = $3, updated_at = NOW() WHERE id = $1`
	_, err := db.Exec(query, schoolID, string(models.SchoolCancelled), endsAt)
	return err
}

// ExpireOverdueTrials flips every still-ACTIVE trial whose window has
// passed to EXPIRED and returns how many schools were affected.
func ExpireOverdueTrials(db *sql.DB, now time.Time) (int, error) {
	query := `UPDATE schools
	          SET status = $1, is_trial_expired = true, updated_at = NOW()
	          WHERE plan = $2 AND status = $3 AND trial_end_date IS NOT NULL AND trial_end_date < $4`
	result, err := db.Exec(query, string(models.SchoolExpired), string(models.PlanTrial), string(models.SchoolActive), now)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	return int(affected), err
}
