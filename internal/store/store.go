package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"campus-food/internal/apperr"
	"campus-food/internal/catalog"
	"campus-food/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Schema creates the tables the store reads and writes
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL,
	email           TEXT NOT NULL,
	account_balance BIGINT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS outlets (
	id                TEXT PRIMARY KEY,
	name              TEXT NOT NULL,
	location          TEXT NOT NULL,
	status            TEXT NOT NULL,
	opening_time      TEXT NOT NULL,
	closing_time      TEXT NOT NULL,
	average_wait_time INT NOT NULL,
	image             TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS menu_items (
	id                  TEXT PRIMARY KEY,
	outlet_id           TEXT NOT NULL REFERENCES outlets(id),
	name                TEXT NOT NULL,
	description         TEXT NOT NULL,
	category            TEXT NOT NULL,
	price               BIGINT NOT NULL,
	stock               INT NOT NULL,
	availability_status TEXT NOT NULL,
	is_vegetarian       BOOLEAN NOT NULL DEFAULT FALSE,
	spice_level         TEXT NOT NULL DEFAULT '',
	preparation_time    INT NOT NULL DEFAULT 0,
	position            SERIAL
);

CREATE TABLE IF NOT EXISTS orders (
	id                   TEXT PRIMARY KEY,
	user_id              TEXT NOT NULL,
	user_name            TEXT NOT NULL,
	outlet_id            TEXT NOT NULL REFERENCES outlets(id),
	total_amount         BIGINT NOT NULL,
	status               TEXT NOT NULL,
	payment_method       TEXT NOT NULL,
	payment_status       TEXT NOT NULL,
	delivery_type        TEXT NOT NULL,
	special_instructions TEXT NOT NULL DEFAULT '',
	estimated_minutes    INT NOT NULL,
	rating               INT NOT NULL DEFAULT 0,
	feedback             TEXT NOT NULL DEFAULT '',
	created_at           TIMESTAMPTZ NOT NULL,
	updated_at           TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS order_items (
	order_id      TEXT NOT NULL REFERENCES orders(id),
	position      INT NOT NULL,
	item_id       TEXT NOT NULL,
	item_name     TEXT NOT NULL,
	quantity      INT NOT NULL,
	price         BIGINT NOT NULL,
	customization TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (order_id, position)
);

CREATE TABLE IF NOT EXISTS order_number_seq (
	outlet_id TEXT NOT NULL,
	day       DATE NOT NULL,
	seq       BIGINT NOT NULL,
	PRIMARY KEY (outlet_id, day)
);
`

const (
	outletColumns = `id, name, location, status, opening_time, closing_time, average_wait_time, image`
	itemColumns   = `id, outlet_id, name, description, category, price, stock, availability_status,
		is_vegetarian, spice_level, preparation_time`
	orderColumns = `id, user_id, user_name, outlet_id, total_amount, status, payment_method, payment_status,
		delivery_type, special_instructions, estimated_minutes, rating, feedback, created_at, updated_at`
	itemSelect = `SELECT ` + itemColumns + ` FROM menu_items`
)

// Store is the Postgres DataStore
type Store struct {
	db                *sqlx.DB
	userID            string
	lowStockThreshold int
}

var _ catalog.DataStore = (*Store)(nil)

// NewStore creates a new database store. userID names the signed-in student.
func NewStore(databaseURL, userID string, lowStockThreshold int) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db, userID: userID, lowStockThreshold: lowStockThreshold}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates missing tables
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// SeedIfEmpty loads data when no outlet exists yet
func (s *Store) SeedIfEmpty(ctx context.Context, data catalog.Dataset) error {
	var n int
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM outlets"); err != nil {
		return fmt.Errorf("failed to count outlets: %w", err)
	}
	if n > 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.NamedExecContext(ctx,
		`INSERT INTO users (id, name, email, account_balance) VALUES (:id, :name, :email, :account_balance)`,
		data.User); err != nil {
		return fmt.Errorf("failed to seed user: %w", err)
	}
	for _, o := range data.Outlets {
		if _, err := tx.NamedExecContext(ctx,
			`INSERT INTO outlets (`+outletColumns+`) VALUES (:id, :name, :location, :status, :opening_time,
				:closing_time, :average_wait_time, :image)`, o); err != nil {
			return fmt.Errorf("failed to seed outlet %s: %w", o.ID, err)
		}
	}
	for _, item := range data.Items {
		if _, err := tx.NamedExecContext(ctx,
			`INSERT INTO menu_items (`+itemColumns+`) VALUES (:id, :outlet_id, :name, :description, :category,
				:price, :stock, :availability_status, :is_vegetarian, :spice_level, :preparation_time)`, item); err != nil {
			return fmt.Errorf("failed to seed item %s: %w", item.ID, err)
		}
	}
	for i := range data.Orders {
		if err := insertOrder(ctx, tx, &data.Orders[i]); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) CurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT id, name, email, account_balance FROM users WHERE id = $1", s.userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("store.CurrentUser", "user", s.userID)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) Outlets(ctx context.Context) ([]models.Outlet, error) {
	outlets := []models.Outlet{}
	err := s.db.SelectContext(ctx, &outlets, "SELECT "+outletColumns+" FROM outlets ORDER BY id")
	return outlets, err
}

func (s *Store) OutletByID(ctx context.Context, id string) (*models.Outlet, error) {
	var outlet models.Outlet
	err := s.db.GetContext(ctx, &outlet, "SELECT "+outletColumns+" FROM outlets WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("store.OutletByID", "outlet", id)
	}
	if err != nil {
		return nil, err
	}
	return &outlet, nil
}

func (s *Store) MenuByOutlet(ctx context.Context, outletID string) ([]models.MenuItem, error) {
	items := []models.MenuItem{}
	err := s.db.SelectContext(ctx, &items, itemSelect+" WHERE outlet_id = $1 ORDER BY position", outletID)
	return items, err
}

func (s *Store) MenuItemByID(ctx context.Context, id string) (*models.MenuItem, error) {
	var item models.MenuItem
	err := s.db.GetContext(ctx, &item, itemSelect+" WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("store.MenuItemByID", "menu item", id)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// SearchMenuItems loads every item and applies the same matcher as the
// in-memory store, so both backends agree on results
func (s *Store) SearchMenuItems(ctx context.Context, query string) ([]models.MenuItem, error) {
	items := []models.MenuItem{}
	if err := s.db.SelectContext(ctx, &items, itemSelect+" ORDER BY position"); err != nil {
		return nil, err
	}
	results := []models.MenuItem{}
	for _, item := range items {
		if catalog.MatchesQuery(item, query) {
			results = append(results, item)
		}
	}
	return results, nil
}

func (s *Store) ActiveOrders(ctx context.Context) ([]models.Order, error) {
	return s.selectOrders(ctx, "SELECT "+orderColumns+" FROM orders WHERE status <> $1 ORDER BY created_at",
		models.OrderStatusDelivered)
}

func (s *Store) OrderByID(ctx context.Context, id string) (*models.Order, error) {
	orders, err := s.selectOrders(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1", id)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, apperr.NotFound("store.OrderByID", "order", id)
	}
	return &orders[0], nil
}

func (s *Store) OrderHistory(ctx context.Context, userID string) ([]models.Order, error) {
	return s.selectOrders(ctx, "SELECT "+orderColumns+" FROM orders WHERE user_id = $1 ORDER BY created_at DESC", userID)
}

// AddOrder inserts the order and its item snapshots in one transaction
func (s *Store) AddOrder(ctx context.Context, order *models.Order) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertOrder(ctx, tx, order); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return apperr.InvalidState("store.AddOrder", order.ID, "order %s already exists", order.ID)
		}
		return err
	}
	return tx.Commit()
}

func insertOrder(ctx context.Context, tx *sqlx.Tx, order *models.Order) error {
	if _, err := tx.NamedExecContext(ctx,
		`INSERT INTO orders (`+orderColumns+`) VALUES (:id, :user_id, :user_name, :outlet_id, :total_amount,
			:status, :payment_method, :payment_status, :delivery_type, :special_instructions,
			:estimated_minutes, :rating, :feedback, :created_at, :updated_at)`, order); err != nil {
		return fmt.Errorf("failed to insert order %s: %w", order.ID, err)
	}
	for i, item := range order.Items {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, position, item_id, item_name, quantity, price, customization)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			order.ID, i, item.ItemID, item.ItemName, item.Quantity, item.Price, item.Customization); err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}
	return nil
}

// UpdateOrderStatus changes status only while the row is still in from
func (s *Store) UpdateOrderStatus(ctx context.Context, id string, from, to models.OrderStatus) (*models.Order, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3", to, id, from)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}

	order, err := s.OrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, apperr.InvalidState("store.UpdateOrderStatus", id,
			"order %s is %s, expected %s", id, order.Status, from)
	}
	return order, nil
}

func (s *Store) UpdateItemAvailability(ctx context.Context, id string, status models.AvailabilityStatus) (*models.MenuItem, error) {
	res, err := s.db.ExecContext(ctx, "UPDATE menu_items SET availability_status = $1 WHERE id = $2", status, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update availability: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, apperr.NotFound("store.UpdateItemAvailability", "menu item", id)
	}
	return s.MenuItemByID(ctx, id)
}

func (s *Store) Analytics(ctx context.Context) (*models.Analytics, error) {
	outlets, err := s.Outlets(ctx)
	if err != nil {
		return nil, err
	}
	items := []models.MenuItem{}
	if err := s.db.SelectContext(ctx, &items, itemSelect+" ORDER BY position"); err != nil {
		return nil, err
	}
	orders, err := s.selectOrders(ctx, "SELECT "+orderColumns+" FROM orders ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	return catalog.BuildAnalytics(outlets, items, orders, time.Now(), s.lowStockThreshold), nil
}

// NextOrderSeq increments the per-outlet, per-day order counter
func (s *Store) NextOrderSeq(ctx context.Context, outletID string, day time.Time) (int64, error) {
	const query = `
INSERT INTO order_number_seq (outlet_id, day, seq)
VALUES ($1, $2::date, 1)
ON CONFLICT (outlet_id, day) DO UPDATE
  SET seq = order_number_seq.seq + 1
RETURNING seq;
`
	var seq int64
	if err := s.db.QueryRowxContext(ctx, query, outletID, day.Format("2006-01-02")).Scan(&seq); err != nil {
		return 0, fmt.Errorf("generate order seq: %w", err)
	}
	return seq, nil
}

// selectOrders loads orders and attaches their items in insertion order
func (s *Store) selectOrders(ctx context.Context, query string, args ...interface{}) ([]models.Order, error) {
	orders := []models.Order{}
	if err := s.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]string, len(orders))
	index := make(map[string]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		index[o.ID] = i
		orders[i].Items = []models.OrderItem{}
	}

	itemQuery, itemArgs, err := sqlx.In(
		`SELECT order_id, item_id, item_name, quantity, price, customization
		FROM order_items WHERE order_id IN (?) ORDER BY order_id, position`, ids)
	if err != nil {
		return nil, err
	}
	itemQuery = s.db.Rebind(itemQuery)

	var items []models.OrderItem
	if err := s.db.SelectContext(ctx, &items, itemQuery, itemArgs...); err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	for _, item := range items {
		i := index[item.OrderID]
		orders[i].Items = append(orders[i].Items, item)
	}
	return orders, nil
}
