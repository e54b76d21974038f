package database

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/bzinkan/pass-pilot-sub001/app/models"
)

const userColumns = `id, school_id, email, password, first_name, last_name, is_admin, status,
	assigned_grades, kiosk_pin, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.SchoolID, &user.Email, &user.Password,
		&user.FirstName, &user.LastName, &user.IsAdmin, &user.Status,
		&user.AssignedGrades, &user.KioskPIN, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func GetUserByID(db *sql.DB, userID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(db.QueryRow(query, userID))
}

// GetUsersByEmail returns every account registered under the address,
// across all schools. The same email can legitimately belong to one
// user per school.
func GetUsersByEmail(db *sql.DB, email string) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1) ORDER BY created_at`
	rows, err := db.Query(query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func GetUserByEmailAndSchool(db *sql.DB, email, schoolID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1) AND school_id = $2`
	return scanUser(db.QueryRow(query, email, schoolID))
}

func GetUsersBySchool(db *sql.DB, schoolID string) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE school_id = $1 ORDER BY created_at`
	rows, err := db.Query(query, schoolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func CreateUser(db *sql.DB, user *models.User) error {
	grades := []string(user.AssignedGrades)
	if grades == nil {
		grades = []string{}
	}
	query := `INSERT INTO users (school_id, email, password, first_name, last_name, is_admin, status, assigned_grades, kiosk_pin)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id, created_at, updated_at`
	err := db.QueryRow(query,
		user.SchoolID, user.Email, user.Password, user.FirstName, user.LastName,
		user.IsAdmin, string(user.Status), pq.Array(grades), user.KioskPIN,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return fmt.Errorf("email already registered for this school")
		}
		return err
	}
	return nil
}

func UpdateUserPassword(db *sql.DB, userID, hashedPassword string) error {
	query := `UPDATE users SET password = $1, updated_at = NOW() WHERE id = $2`
	_, err := db.Exec(query, hashedPassword, userID)
	return err
}

// ActivateUser transitions a pending account to active, setting its
// permanent password in the same statement (first-login flow).
func ActivateUser(db *sql.DB, userID, hashedPassword string) error {
	query := `UPDATE users SET status = $1, password = $2, updated_at = NOW() WHERE id = $3`
	_, err := db.Exec(query, string(models.UserActive), hashedPassword, userID)
	return err
}

// ActivateSchoolAdmins marks every admin of the school active. Called
// from webhook reconciliation once payment is confirmed.
func ActivateSchoolAdmins(db *sql.DB, schoolID string) error {
	query := `UPDATE users SET status = $1, updated_at = NOW() WHERE school_id = $2 AND is_admin = true`
	_, err := db.Exec(query, string(models.UserActive), schoolID)
	return err
}

// CountAdmins returns how many admin users the school has.
func CountAdmins(db *sql.DB, schoolID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM users WHERE school_id = $1 AND is_admin = true`
	err := db.QueryRow(query, schoolID).Scan(&count)
	return count, err
}

// CountTeachers returns how many accounts the school has, for seat
// limit enforcement.
func CountTeachers(db *sql.DB, schoolID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM users WHERE school_id = $1`
	err := db.QueryRow(query, schoolID).Scan(&count)
	return count, err
}

func SetUserRole(db *sql.DB, userID string, isAdmin bool) error {
	query := `UPDATE users SET is_admin = $1, updated_at = NOW() WHERE id = $2`
	result, err := db.Exec(query, isAdmin, userID)
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

func DeleteUser(db *sql.DB, userID string) error {
	result, err := db.Exec(`DELETE FROM users WHERE id = $1`, userID)
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

// HasTrialAccount reports whether the email is already the admin of a
// trial-tier school. Paid-plan emails may repeat (that signals an
// upgrade), trial emails may not.
func HasTrialAccount(db *sql.DB, email string) (bool, error) {
	var count int
	query := `SELECT COUNT(*)
	          FROM users u
	          JOIN schools s ON s.id = u.school_id
	          WHERE LOWER(u.email) = LOWER($1) AND s.plan = $2`
	err := db.QueryRow(query, email, string(models.PlanTrial)).Scan(&count)
	return count > 0, err
}
