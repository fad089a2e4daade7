package postgres

import (
	"context"
	"fmt"
	"strings"

	"lease-recert-bot/internal/models"
	"lease-recert-bot/internal/store"
)

func nullIfEmpty(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

func (d *DB) CreateVendor(ctx context.Context, create *models.Vendor) (*models.Vendor, error) {
	var email, company, specialty any
	if create.Email != nil {
		email = nullIfEmpty(*create.Email)
	}
	if create.Company != nil {
		company = nullIfEmpty(*create.Company)
	}
	if create.Specialty != nil {
		specialty = nullIfEmpty(*create.Specialty)
	}
	var rating any
	if create.Rating != nil {
		rating = *create.Rating
	}

	stmt := `INSERT INTO vendors (chat_id, category, name, phone, email, company, specialty, rating)
	         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	         RETURNING id, use_count, created_ts`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.ChatID, string(create.Category), create.Name, create.Phone,
		email, company, specialty, rating,
	).Scan(&create.ID, &create.UseCount, &create.CreatedTs); err != nil {
		return nil, err
	}
	return create, nil
}

func (d *DB) ListVendors(ctx context.Context, find *store.FindVendor) ([]*models.Vendor, error) {
	where, args := []string{"chat_id = $1"}, []any{find.ChatID}
	if v := find.ID; v != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Category; v != nil {
		where, args = append(where, "category = "+placeholder(len(args)+1)), append(args, string(*v))
	}
	if v := find.Query; v != nil {
		pattern := "%" + *v + "%"
		p1, p2, p3 := placeholder(len(args)+1), placeholder(len(args)+2), placeholder(len(args)+3)
		where = append(where, fmt.Sprintf(
			`(name ILIKE %s OR COALESCE(company, '') ILIKE %s OR COALESCE(specialty, '') ILIKE %s)`, p1, p2, p3))
		args = append(args, pattern, pattern, pattern)
	}
	query := fmt.Sprintf(
		`SELECT id, chat_id, category, name, phone, email, company, specialty, rating, use_count, created_ts
		 FROM vendors WHERE %s ORDER BY id DESC`,
		strings.Join(where, " AND "),
	)
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*models.Vendor
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVendor(r rowScanner) (*models.Vendor, error) {
	v := &models.Vendor{}
	var category string
	if err := r.Scan(&v.ID, &v.ChatID, &category, &v.Name, &v.Phone,
		&v.Email, &v.Company, &v.Specialty, &v.Rating, &v.UseCount, &v.CreatedTs); err != nil {
		return nil, err
	}
	v.Category = models.VendorCategory(category)
	return v, nil
}

func (d *DB) UpdateVendor(ctx context.Context, update *store.UpdateVendor) (*models.Vendor, error) {
	sets, args := []string{}, []any{}
	set := func(col string, val any) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = %s", col, placeholder(len(args))))
	}
	if v := update.Name; v != nil {
		set("name", *v)
	}
	if v := update.Phone; v != nil {
		set("phone", *v)
	}
	if v := update.Email; v != nil {
		set("email", nullIfEmpty(*v))
	}
	if v := update.Company; v != nil {
		set("company", nullIfEmpty(*v))
	}
	if v := update.Specialty; v != nil {
		set("specialty", nullIfEmpty(*v))
	}
	if v := update.Rating; v != nil {
		if *v == 0 {
			sets = append(sets, "rating = NULL")
		} else {
			set("rating", *v)
		}
	}
	if len(sets) == 0 {
		return nil, fmt.Errorf("update vendor %d: no fields to update", update.ID)
	}
	args = append(args, update.ID, update.ChatID)

	query := fmt.Sprintf(
		`UPDATE vendors SET %s WHERE id = %s AND chat_id = %s
		 RETURNING id, chat_id, category, name, phone, email, company, specialty, rating, use_count, created_ts`,
		strings.Join(sets, ", "), placeholder(len(args)-1), placeholder(len(args)),
	)
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rows.Err()
	}
	v, err := scanVendor(rows)
	if err != nil {
		return nil, err
	}
	return v, rows.Err()
}

func (d *DB) DeleteVendor(ctx context.Context, id, chatID int64) (bool, error) {
	res, err := d.db.ExecContext(ctx, `DELETE FROM vendors WHERE id = $1 AND chat_id = $2`, id, chatID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (d *DB) DeleteAllVendors(ctx context.Context, chatID int64) (int64, error) {
	res, err := d.db.ExecContext(ctx, `DELETE FROM vendors WHERE chat_id = $1`, chatID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (d *DB) IncrementVendorUse(ctx context.Context, id, chatID int64) (bool, error) {
	res, err := d.db.ExecContext(ctx, `UPDATE vendors SET use_count = use_count + 1 WHERE id = $1 AND chat_id = $2`, id, chatID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (d *DB) CreateVendorDetail(ctx context.Context, create *models.VendorDetail) (*models.VendorDetail, error) {
	stmt := `INSERT INTO vendor_details (vendor_id, agency, contact_name, department, contact_method, best_time, fax, address, website, notes)
	         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	         RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.VendorID, create.Agency, create.ContactName, create.Department,
		create.ContactMethod, create.BestTime, create.Fax, create.Address,
		create.Website, create.Notes,
	).Scan(&create.ID); err != nil {
		return nil, err
	}
	return create, nil
}

func (d *DB) GetVendorDetail(ctx context.Context, vendorID int64) (*models.VendorDetail, error) {
	query := `SELECT id, vendor_id, agency, contact_name, department, contact_method, best_time, fax, address, website, notes
	          FROM vendor_details WHERE vendor_id = $1`
	rows, err := d.db.QueryContext(ctx, query, vendorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rows.Err()
	}
	det := &models.VendorDetail{}
	if err := rows.Scan(&det.ID, &det.VendorID, &det.Agency, &det.ContactName, &det.Department,
		&det.ContactMethod, &det.BestTime, &det.Fax, &det.Address, &det.Website, &det.Notes); err != nil {
		return nil, err
	}
	return det, rows.Err()
}

func (d *DB) CreateVendorNote(ctx context.Context, create *models.VendorNote) (*models.VendorNote, error) {
	stmt := `INSERT INTO vendor_notes (vendor_id, note) VALUES ($1, $2) RETURNING id, created_ts`
	if err := d.db.QueryRowContext(ctx, stmt, create.VendorID, create.Note).
		Scan(&create.ID, &create.CreatedTs); err != nil {
		return nil, err
	}
	return create, nil
}

func (d *DB) ListVendorNotes(ctx context.Context, vendorID int64) ([]*models.VendorNote, error) {
	query := `SELECT id, vendor_id, note, created_ts FROM vendor_notes
	          WHERE vendor_id = $1 ORDER BY created_ts DESC, id DESC`
	rows, err := d.db.QueryContext(ctx, query, vendorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*models.VendorNote
	for rows.Next() {
		n := &models.VendorNote{}
		if err := rows.Scan(&n.ID, &n.VendorID, &n.Note, &n.CreatedTs); err != nil {
			return nil, err
		}
		list = append(list, n)
	}
	return list, rows.Err()
}
