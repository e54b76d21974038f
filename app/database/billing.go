package database

import (
	"database/sql"

	"github.com/bzinkan/pass-pilot-sub001/app/models"
)

// InsertPayment appends one payment audit row. The unique constraint on
// stripe_session_id plus ON CONFLICT DO NOTHING make webhook replays
// harmless; the bool reports whether a new row was written.
func InsertPayment(db *sql.DB, payment *models.Payment) (bool, error) {
	query := `INSERT INTO payments (school_id, stripe_session_id, amount_total, currency, plan)
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (stripe_session_id) DO NOTHING`
	result, err := db.Exec(query,
		payment.SchoolID, payment.StripeSessionID, payment.AmountTotal,
		payment.Currency, string(payment.Plan),
	)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}

// InsertSubscriptionEvent appends one audit row for a consumed webhook.
func InsertSubscriptionEvent(db *sql.DB, event *models.SubscriptionEvent) error {
	query := `INSERT INTO subscription_events (school_id, event_type, stripe_id, detail)
	          VALUES ($1, $2, $3, $4)`
	_, err := db.Exec(query, event.SchoolID, event.EventType, event.StripeID, event.Detail)
	return err
}

func GetPaymentsBySchool(db *sql.DB, schoolID string) ([]*models.Payment, error) {
	query := `SELECT id, school_id, stripe_session_id, amount_total, currency, plan, created_at
	          FROM payments WHERE school_id = $1 ORDER BY created_at DESC`
	rows, err := db.Query(query, schoolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment := &models.Payment{}
		if err := rows.Scan(
			&payment.ID, &payment.SchoolID, &payment.StripeSessionID,
			&payment.AmountTotal, &payment.Currency, &payment.Plan, &payment.CreatedAt,
		); err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}
