package repository // repository holds data access logic for domain entities

import (
    "context"      // context is used to manage deadlines and cancellation
    "database/sql" // sql provides DB primitives
    "strings"      // strings builds dynamic WHERE clauses for search

    "github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// RestaurantRepo provides methods to create, retrieve and update
// restaurants.  It embeds a database handle to perform queries and
// commands.  Operating hours are stored as TIME columns and scanned as
// "HH:MM:SS" strings; all timestamps are UTC.
type RestaurantRepo struct {
    db *sql.DB // db is the underlying database connection
}

// NewRestaurantRepo constructs a RestaurantRepo with the given DB handle.
func NewRestaurantRepo(db *sql.DB) *RestaurantRepo {
    return &RestaurantRepo{db: db}
}

// DB exposes the underlying handle so handlers can open transactions
// spanning multiple repositories.
func (r *RestaurantRepo) DB() *sql.DB { return r.db }

const restaurantColumns = `id, owner_id, name, description, cuisine_type, phone, email,
    address, city, opening_time, closing_time, is_active, created_at, updated_at`

func scanRestaurant(row interface{ Scan(...any) error }) (model.Restaurant, error) {
    var (
        rest model.Restaurant
        desc sql.NullString
    )
    err := row.Scan(
        &rest.ID, &rest.OwnerID, &rest.Name, &desc, &rest.CuisineType,
        &rest.Phone, &rest.Email, &rest.Address, &rest.City,
        &rest.OpeningTime, &rest.ClosingTime, &rest.IsActive,
        &rest.CreatedAt, &rest.UpdatedAt,
    )
    if err != nil {
        return model.Restaurant{}, err
    }
    if desc.Valid {
        rest.Description = desc.String
    }
    return rest, nil
}

// Create inserts a new restaurant.  OwnerID, Name, OpeningTime and
// ClosingTime must be set.  After insert the record is read back so the
// ID, flags and timestamps reflect what the database stored.
func (r *RestaurantRepo) Create(ctx context.Context, rest *model.Restaurant) error {
    const qInsert = `INSERT INTO restaurants
        (owner_id, name, description, cuisine_type, phone, email, address, city, opening_time, closing_time)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, qInsert,
        rest.OwnerID, rest.Name, rest.Description, rest.CuisineType,
        rest.Phone, rest.Email, rest.Address, rest.City,
        rest.OpeningTime, rest.ClosingTime)
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
    *rest = stored
    return nil
}

// GetByID returns a restaurant by id or ErrRestaurantNotFound.
func (r *RestaurantRepo) GetByID(ctx context.Context, id uint64) (model.Restaurant, error) {
    row := r.db.QueryRowContext(ctx,
        `SELECT `+restaurantColumns+` FROM restaurants WHERE id = ?`, id)
    rest, err := scanRestaurant(row)
    if err == sql.ErrNoRows {
        return model.Restaurant{}, ErrRestaurantNotFound
    }
    return rest, err
}

// GetRestaurant adapts GetByID to the booking package's Directory
// interface consumed by the invariant checker.
func (r *RestaurantRepo) GetRestaurant(ctx context.Context, id uint64) (model.Restaurant, error) {
    return r.GetByID(ctx, id)
}

// Update rewrites the mutable columns of a restaurant owned by ownerID.
// It returns ErrRestaurantNotFound when the id does not exist and
// ErrForbidden when it belongs to someone else.
func (r *RestaurantRepo) Update(ctx context.Context, ownerID uint64, rest *model.Restaurant) error {
    var actualOwner uint64
    err := r.db.QueryRowContext(ctx,
        `SELECT owner_id FROM restaurants WHERE id = ?`, rest.ID).Scan(&actualOwner)
    if err == sql.ErrNoRows {
        return ErrRestaurantNotFound
    }
    if err != nil {
        return err
    }
    if actualOwner != ownerID {
        return ErrForbidden
    }
    const q = `UPDATE restaurants
        SET name = ?, description = ?, cuisine_type = ?, phone = ?, email = ?,
            address = ?, city = ?, opening_time = ?, closing_time = ?, is_active = ?
        WHERE id = ?`
    _, err = r.db.ExecContext(ctx, q,
        rest.Name, rest.Description, rest.CuisineType, rest.Phone, rest.Email,
        rest.Address, rest.City, rest.OpeningTime, rest.ClosingTime, rest.IsActive,
        rest.ID)
    if err != nil {
        return err
    }
    stored, err := r.GetByID(ctx, rest.ID)
    if err != nil {
        return err
    }
    *rest = stored
    return nil
}

// ListByOwner returns all restaurants belonging to the given owner,
// newest first.
func (r *RestaurantRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Restaurant, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+restaurantColumns+` FROM restaurants WHERE owner_id = ? ORDER BY created_at DESC`,
        ownerID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return collectRestaurants(rows)
}

// Search returns active restaurants matching the optional filters.  The
// name filter is a case-insensitive substring match, city and cuisine
// are exact.  Results are ordered by name for deterministic output.
func (r *RestaurantRepo) Search(ctx context.Context, name, city, cuisine string) ([]model.Restaurant, error) {
    query := `SELECT ` + restaurantColumns + ` FROM restaurants WHERE is_active = 1`
    args := make([]any, 0, 3)
    if s := strings.TrimSpace(name); s != "" {
        query += ` AND name LIKE ?`
        args = append(args, "%"+s+"%")
    }
    if s := strings.TrimSpace(city); s != "" {
        query += ` AND city = ?`
        args = append(args, s)
    }
    if s := strings.TrimSpace(cuisine); s != "" {
        query += ` AND cuisine_type = ?`
        args = append(args, s)
    }
    query += ` ORDER BY name`
    rows, err := r.db.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return collectRestaurants(rows)
}

func collectRestaurants(rows *sql.Rows) ([]model.Restaurant, error) {
    out := make([]model.Restaurant, 0)
    for rows.Next() {
        rest, err := scanRestaurant(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, rest)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}
