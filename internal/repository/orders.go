package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"delivery-marketplace/internal/domain"
)

// OrderRepo represents the order repository.
type OrderRepo struct{ db *pgxpool.Pool }

// NewOrderRepo creates a new OrderRepo.
func NewOrderRepo(db *pgxpool.Pool) *OrderRepo { return &OrderRepo{db: db} }

const orderColumns = `id, service_id, customer_id, courier_id, city, street,
    COALESCE(building_num,''), COALESCE(building,''), COALESCE(floor,''), COALESCE(apartment,''),
    latitude, longitude, status, status_changed_at, created_at,
    COALESCE(comment,''), COALESCE(image,''), price`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID, &o.ServiceID, &o.CustomerID, &o.CourierID, &o.City, &o.Street,
		&o.BuildingNum, &o.Building, &o.Floor, &o.Apartment,
		&o.Latitude, &o.Longitude, &o.Status, &o.StatusChangedAt, &o.CreatedAt,
		&o.Comment, &o.Image, &o.Price,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create - creates a new order with status pending and returns its ID.
func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) (int64, error) {
	err := r.db.QueryRow(ctx, `
        INSERT INTO orders(service_id, customer_id, city, street, building_num, building,
                           floor, apartment, latitude, longitude, status, comment, image, price)
        VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
        RETURNING id, status_changed_at, created_at`,
		o.ServiceID, o.CustomerID, o.City, o.Street, o.BuildingNum, o.Building,
		o.Floor, o.Apartment, o.Latitude, o.Longitude, o.Status, o.Comment, o.Image, o.Price,
	).Scan(&o.ID, &o.StatusChangedAt, &o.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("create order: %w", err)
	}
	return o.ID, nil
}

// Get - returns an order by its ID.
func (r *OrderRepo) Get(ctx context.Context, id int64) (*domain.Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}
	return o, nil
}

func (r *OrderRepo) list(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

// ListByCustomer returns orders owned by the given client, newest first.
func (r *OrderRepo) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Order, error) {
	return r.list(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE customer_id=$1 ORDER BY created_at DESC`, customerID)
}

// ListAvailable returns pending, unassigned orders open for claiming.
func (r *OrderRepo) ListAvailable(ctx context.Context) ([]domain.Order, error) {
	return r.list(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE status='pending' AND courier_id IS NULL ORDER BY created_at`)
}

// ListAssigned returns a courier's non-completed orders.
func (r *OrderRepo) ListAssigned(ctx context.Context, courierID int64) ([]domain.Order, error) {
	return r.list(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE courier_id=$1 AND status <> 'completed' ORDER BY created_at`, courierID)
}

// ListCompleted returns a courier's completed orders.
func (r *OrderRepo) ListCompleted(ctx context.Context, courierID int64) ([]domain.Order, error) {
	return r.list(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE courier_id=$1 AND status='completed' ORDER BY created_at DESC`, courierID)
}

// Claim atomically assigns the order to a courier. Exactly one of several
// concurrent claimers can match the WHERE clause, so the race has one winner.
func (r *OrderRepo) Claim(ctx context.Context, orderID, courierID int64) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE orders
        SET courier_id=$2, status='courier_assigned', status_changed_at=now()
        WHERE id=$1 AND courier_id IS NULL AND status='pending'`,
		orderID, courierID)
	if err != nil {
		return false, fmt.Errorf("claim order %d: %w", orderID, err)
	}
	return ct.RowsAffected() > 0, nil
}

// Unclaim releases the order back to pending if it is still merely assigned.
func (r *OrderRepo) Unclaim(ctx context.Context, orderID, courierID int64) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE orders
        SET courier_id=NULL, status='pending', status_changed_at=now()
        WHERE id=$1 AND courier_id=$2 AND status='courier_assigned'`,
		orderID, courierID)
	if err != nil {
		return false, fmt.Errorf("unclaim order %d: %w", orderID, err)
	}
	return ct.RowsAffected() > 0, nil
}

// UpdateStatus writes the new status iff the current status still matches the
// one the caller validated against. status_changed_at bumps with the write.
func (r *OrderRepo) UpdateStatus(ctx context.Context, orderID int64, from, to domain.OrderStatus) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE orders
        SET status=$3, status_changed_at=now()
        WHERE id=$1 AND status=$2`,
		orderID, from, to)
	if err != nil {
		return false, fmt.Errorf("update order %d status: %w", orderID, err)
	}
	return ct.RowsAffected() > 0, nil
}

// UpdatePartial applies a partial update of pre-assignment fields and returns
// true if a row was affected. The status column is never touched here.
func (r *OrderRepo) UpdatePartial(ctx context.Context, u domain.PartialOrderUpdate) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE orders
        SET
            city         = COALESCE($2, city),
            street       = COALESCE($3, street),
            building_num = COALESCE($4, building_num),
            building     = COALESCE($5, building),
            floor        = COALESCE($6, floor),
            apartment    = COALESCE($7, apartment),
            latitude     = COALESCE($8, latitude),
            longitude    = COALESCE($9, longitude),
            comment      = COALESCE($10, comment),
            image        = COALESCE($11, image)
        WHERE id = $1`,
		u.ID, u.City, u.Street, u.BuildingNum, u.Building, u.Floor, u.Apartment,
		u.Latitude, u.Longitude, u.Comment, u.Image)
	if err != nil {
		return false, fmt.Errorf("update order %d: %w", u.ID, err)
	}
	return ct.RowsAffected() > 0, nil
}

// Delete removes an order and returns true if a row was deleted.
func (r *OrderRepo) Delete(ctx context.Context, id int64) (bool, error) {
	ct, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return false, fmt.Errorf("delete order %d: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}
