package repository // repository for restaurant table persistence

import (
    "context"      // context for managing deadlines
    "database/sql" // sql provides DB interfaces

    "github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// TableRepo encapsulates database operations for the tables_ table (the
// trailing underscore avoids the SQL reserved word).
type TableRepo struct {
    db *sql.DB
}

// NewTableRepo constructs a TableRepo given a DB handle.
func NewTableRepo(db *sql.DB) *TableRepo {
    return &TableRepo{db: db}
}

const tableColumns = `id, restaurant_id, table_number, capacity, location, is_available, created_at, updated_at`

func scanTable(row interface{ Scan(...any) error }) (model.Table, error) {
    var t model.Table
    err := row.Scan(&t.ID, &t.RestaurantID, &t.TableNumber, &t.Capacity,
        &t.Location, &t.IsAvailable, &t.CreatedAt, &t.UpdatedAt)
    return t, err
}

// Create inserts a table for a restaurant and reads the stored record
// back so defaults and timestamps are populated.  A duplicate
// (restaurant, table_number) pair fails the unique index.
func (r *TableRepo) Create(ctx context.Context, t *model.Table) error {
    const q = `INSERT INTO tables_ (restaurant_id, table_number, capacity, location)
               VALUES (?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, t.RestaurantID, t.TableNumber, t.Capacity, t.Location)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    stored, err := r.GetByID(ctx, uint64(id))
    if err != nil {
        return err
    }
    *t = stored
    return nil
}

// GetByID returns a table by id or ErrTableNotFound.
func (r *TableRepo) GetByID(ctx context.Context, id uint64) (model.Table, error) {
    row := r.db.QueryRowContext(ctx,
        `SELECT `+tableColumns+` FROM tables_ WHERE id = ?`, id)
    t, err := scanTable(row)
    if err == sql.ErrNoRows {
        return model.Table{}, ErrTableNotFound
    }
    return t, err
}

// GetTable adapts GetByID to the booking package's Directory interface.
func (r *TableRepo) GetTable(ctx context.Context, id uint64) (model.Table, error) {
    return r.GetByID(ctx, id)
}

// ListByRestaurant returns all tables of a restaurant ordered by their
// number for deterministic output.
func (r *TableRepo) ListByRestaurant(ctx context.Context, restaurantID uint64) ([]model.Table, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+tableColumns+` FROM tables_ WHERE restaurant_id = ? ORDER BY table_number`,
        restaurantID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Table, 0)
    for rows.Next() {
        t, err := scanTable(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, t)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// Update rewrites the mutable columns of a table.  Ownership is checked
// through the owning restaurant: ErrForbidden when ownerID does not own
// it, ErrTableNotFound when the table does not exist.
func (r *TableRepo) Update(ctx context.Context, ownerID uint64, t *model.Table) error {
    var actualOwner uint64
    err := r.db.QueryRowContext(ctx,
        `SELECT rst.owner_id FROM tables_ tb JOIN restaurants rst ON rst.id = tb.restaurant_id WHERE tb.id = ?`,
        t.ID).Scan(&actualOwner)
    if err == sql.ErrNoRows {
        return ErrTableNotFound
    }
    if err != nil {
        return err
    }
    if actualOwner != ownerID {
        return ErrForbidden
    }
    const q = `UPDATE tables_ SET table_number = ?, capacity = ?, location = ?, is_available = ? WHERE id = ?`
    if _, err := r.db.ExecContext(ctx, q, t.TableNumber, t.Capacity, t.Location, t.IsAvailable, t.ID); err != nil {
        return err
    }
    stored, err := r.GetByID(ctx, t.ID)
    if err != nil {
        return err
    }
    *t = stored
    return nil
}
