package alerts

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"time"
)

//go:embed sql/insert-alert.sql
var insertAlertSQL string

//go:embed sql/get-recent-alerts.sql
var getRecentAlertsSQL string

//go:embed sql/purge-old-alerts.sql
var purgeOldAlertsSQL string

type Repository interface {
	Insert(alerts []*Alert) error
	Recent(limit int) ([]Alert, error)
	PurgeOlderThan(cutoff time.Time) (int64, error)
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) Insert(alerts []*Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin insert alerts: %w", err)
	}
	for _, a := range alerts {
		_, err := tx.Exec(insertAlertSQL,
			a.ID,
			a.FacadeID,
			a.SensorName,
			a.Type,
			a.Severity,
			a.Description,
			nullFloat(a.Value),
			nullFloat(a.Threshold),
			a.CreatedAt.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert alert %s: %w", a.ID, err)
		}
	}
	return tx.Commit()
}

func (r *repositoryImpl) Recent(limit int) ([]Alert, error) {
	rows, err := r.db.Query(getRecentAlertsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close alert rows", "error", err)
		}
	}()

	var out []Alert
	for rows.Next() {
		var a Alert
		var ts string
		var value, threshold sql.NullFloat64
		if err := rows.Scan(&a.ID, &a.FacadeID, &a.SensorName, &a.Type, &a.Severity, &a.Description, &value, &threshold, &ts); err != nil {
			return nil, err
		}
		if value.Valid {
			v := value.Float64
			a.Value = &v
		}
		if threshold.Valid {
			v := threshold.Float64
			a.Threshold = &v
		}
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parse alert timestamp %q: %w", ts, err)
		}
		a.CreatedAt = t
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *repositoryImpl) PurgeOlderThan(cutoff time.Time) (int64, error) {
	res, err := r.db.Exec(purgeOldAlertsSQL, cutoff.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
