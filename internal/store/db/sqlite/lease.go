package sqlite

import (
	"context"
	"fmt"
	"strings"

	"lease-recert-bot/internal/models"
	"lease-recert-bot/internal/store"
)

func (d *DB) CreateLease(ctx context.Context, create *models.Lease) (*models.Lease, error) {
	stmt := `INSERT INTO leases (chat_id, tenant_name, property_address, lease_start_date, recert_date, reminder_date)
	         VALUES (?, ?, ?, ?, ?, ?)
	         RETURNING id, created_ts`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.ChatID, create.TenantName, create.Address,
		create.StartDate, create.RecertDate, create.ReminderDate,
	).Scan(&create.ID, &create.CreatedTs); err != nil {
		return nil, err
	}
	return create, nil
}

func (d *DB) ListLeases(ctx context.Context, find *store.FindLease) ([]*models.Lease, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.ChatID; v != nil {
		where, args = append(where, "chat_id = ?"), append(args, *v)
	}
	if v := find.ReminderDate; v != nil {
		where, args = append(where, "reminder_date = ?"), append(args, *v)
	}
	query := fmt.Sprintf(
		`SELECT id, chat_id, tenant_name, property_address, lease_start_date, recert_date, reminder_date, created_ts
		 FROM leases WHERE %s ORDER BY id ASC`,
		strings.Join(where, " AND "),
	)
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*models.Lease
	for rows.Next() {
		l := &models.Lease{}
		if err := rows.Scan(&l.ID, &l.ChatID, &l.TenantName, &l.Address, &l.StartDate, &l.RecertDate, &l.ReminderDate, &l.CreatedTs); err != nil {
			return nil, err
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func (d *DB) DeleteLease(ctx context.Context, id, chatID int64) (bool, error) {
	res, err := d.db.ExecContext(ctx, `DELETE FROM leases WHERE id = ? AND chat_id = ?`, id, chatID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (d *DB) DeleteAllLeases(ctx context.Context, chatID int64) (int64, error) {
	res, err := d.db.ExecContext(ctx, `DELETE FROM leases WHERE chat_id = ?`, chatID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
