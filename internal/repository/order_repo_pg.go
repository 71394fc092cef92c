package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/flyhigh/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) (*domain.Order, error)
}

type PGOrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) OrderRepository {
	return &PGOrderRepository{db: db}
}

// Create persists the order, its passengers and its initial event in one
// transaction. The order id is assigned here.
func (r *PGOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	order.ID = uuid.NewString()
	if err := tx.QueryRow(ctx, `INSERT INTO orders (id, user_id, flight, class_type, contact_name, contact_mobile, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		order.ID, order.UserID, order.Flight, order.ClassType, order.ContactName, order.ContactMobile, order.Status).
		Scan(&order.CreatedAt, &order.UpdatedAt); err != nil {
		return err
	}

	for i := range order.Passengers {
		p := &order.Passengers[i]
		if err := tx.QueryRow(ctx, `INSERT INTO passengers (order_id, name, age_type, mobile, identification_number, insurance_id, insurance_name, insurance_price, price)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id`,
			order.ID, p.Name, p.AgeType, p.Mobile, p.IdentificationNumber, p.InsuranceID, p.InsuranceName, p.InsurancePrice, p.Price).
			Scan(&p.ID); err != nil {
			return err
		}
	}

	for i := range order.Events {
		e := &order.Events[i]
		if err := tx.QueryRow(ctx, `INSERT INTO order_events (order_id, status) VALUES ($1, $2) RETURNING id, created_at`,
			order.ID, e.Status).Scan(&e.ID, &e.CreatedAt); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *PGOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	row := r.db.QueryRow(ctx, `SELECT id, user_id, flight, class_type, contact_name, contact_mobile, status, created_at, updated_at FROM orders WHERE id=$1`, id)
	var o domain.Order
	if err := row.Scan(&o.ID, &o.UserID, &o.Flight, &o.ClassType, &o.ContactName, &o.ContactMobile, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	if err := r.loadChildren(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *PGOrderRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, `SELECT id, user_id, flight, class_type, contact_name, contact_mobile, status, created_at, updated_at FROM orders WHERE user_id=$1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Flight, &o.ClassType, &o.ContactName, &o.ContactMobile, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		if err := r.loadChildren(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// UpdateStatus is a compare-and-set on the status column: the row is updated
// only while it still carries the expected current status, and the event is
// appended in the same transaction. A concurrent cancel that lost the race
// gets ErrOrderAlreadyCancelled, not a silent second update.
func (r *PGOrderRepository) UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) (*domain.Order, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var o domain.Order
	err = tx.QueryRow(ctx, `UPDATE orders SET status=$1, updated_at=now() WHERE id=$2 AND status=$3
		RETURNING id, user_id, flight, class_type, contact_name, contact_mobile, status, created_at, updated_at`,
		to, id, from).
		Scan(&o.ID, &o.UserID, &o.Flight, &o.ClassType, &o.ContactName, &o.ContactMobile, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.statusConflict(ctx, id)
		}
		return nil, err
	}

	if _, err := tx.Exec(ctx, `INSERT INTO order_events (order_id, status) VALUES ($1, $2)`, id, to); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if err := r.loadChildren(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *PGOrderRepository) statusConflict(ctx context.Context, id string) error {
	var current domain.OrderStatus
	if err := r.db.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1`, id).Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrOrderNotFound
		}
		return err
	}
	if current == domain.OrderStatusCanceled {
		return domain.ErrOrderAlreadyCancelled
	}
	return domain.ErrTransitionNotAllowed
}

func (r *PGOrderRepository) loadChildren(ctx context.Context, o *domain.Order) error {
	rows, err := r.db.Query(ctx, `SELECT id, name, age_type, mobile, identification_number, insurance_id, insurance_name, insurance_price, price FROM passengers WHERE order_id=$1 ORDER BY id`, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	o.Passengers = o.Passengers[:0]
	for rows.Next() {
		var p domain.Passenger
		if err := rows.Scan(&p.ID, &p.Name, &p.AgeType, &p.Mobile, &p.IdentificationNumber, &p.InsuranceID, &p.InsuranceName, &p.InsurancePrice, &p.Price); err != nil {
			return err
		}
		o.Passengers = append(o.Passengers, p)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	eventRows, err := r.db.Query(ctx, `SELECT id, status, created_at FROM order_events WHERE order_id=$1 ORDER BY id`, o.ID)
	if err != nil {
		return err
	}
	defer eventRows.Close()

	o.Events = o.Events[:0]
	for eventRows.Next() {
		var e domain.OrderEvent
		if err := eventRows.Scan(&e.ID, &e.Status, &e.CreatedAt); err != nil {
			return err
		}
		o.Events = append(o.Events, e)
	}
	return eventRows.Err()
}

var _ OrderRepository = (*PGOrderRepository)(nil)
