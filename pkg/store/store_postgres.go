package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

const (
	tablePrefix = "rt_"
)

type PostgresStore struct {
	db  *sql.DB
	ctx context.Context
}

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{
		db:  db,
		ctx: ctx,
	}

	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) migrate() error {
	migrations := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %sdrinks (
			seq SERIAL,
			id TEXT PRIMARY KEY,
			data JSONB NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`, tablePrefix),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %sfavorites (
			id TEXT PRIMARY KEY,
			drink_id TEXT NOT NULL,
			user_email TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`, tablePrefix),

		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %sfavorites_user_email_idx ON %sfavorites (lower(user_email))`,
			tablePrefix, tablePrefix),

		// offers are stored as one JSON array per drink
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %sprices (
			drink_id TEXT PRIMARY KEY,
			offers JSONB NOT NULL,
			saved_at TIMESTAMPTZ NOT NULL
		)`, tablePrefix),
	}

	for _, migration := range migrations {
		if _, err := s.db.ExecContext(s.ctx, migration); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}

	return nil
}

func (s *PostgresStore) GetDrinks() ([]Drink, error) {
	query := fmt.Sprintf("SELECT data FROM %sdrinks ORDER BY seq ASC", tablePrefix)
	rows, err := s.db.QueryContext(s.ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	drinks := []Drink{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}

		var drink Drink
		if err := json.Unmarshal(data, &drink); err != nil {
			return nil, fmt.Errorf("failed to unmarshal drink: %w", err)
		}
		drinks = append(drinks, drink)
	}

	return drinks, rows.Err()
}

func (s *PostgresStore) AddDrink(drink Drink) error {
	data, err := json.Marshal(drink)
	if err != nil {
		return fmt.Errorf("failed to marshal drink: %w", err)
	}

	query := fmt.Sprintf("INSERT INTO %sdrinks (id, data) VALUES ($1, $2)", tablePrefix)
	_, err = s.db.ExecContext(s.ctx, query, drink.ID, data)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

func (s *PostgresStore) DeleteDrink(id string) error {
	tx, err := s.db.BeginTx(s.ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	query := fmt.Sprintf("DELETE FROM %sdrinks WHERE id = $1", tablePrefix)
	res, err := tx.ExecContext(s.ctx, query, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	for _, table := range []string{"prices", "favorites"} {
		query = fmt.Sprintf("DELETE FROM %s%s WHERE drink_id = $1", tablePrefix, table)
		if _, err := tx.ExecContext(s.ctx, query, id); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *PostgresStore) CountDrinks() (int, error) {
	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %sdrinks", tablePrefix)
	err := s.db.QueryRowContext(s.ctx, query).Scan(&count)
	return count, err
}

func (s *PostgresStore) GetFavorites(userEmail string) ([]Favorite, error) {
	query := fmt.Sprintf(`
		SELECT id, drink_id, user_email, created_at
		FROM %sfavorites
		WHERE lower(user_email) = lower($1)
		ORDER BY created_at ASC, id ASC
	`, tablePrefix)
	rows, err := s.db.QueryContext(s.ctx, query, userEmail)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	favorites := []Favorite{}
	for rows.Next() {
		var f Favorite
		if err := rows.Scan(&f.ID, &f.DrinkID, &f.UserEmail, &f.CreatedDate); err != nil {
			return nil, err
		}
		favorites = append(favorites, f)
	}

	return favorites, rows.Err()
}

func (s *PostgresStore) AddFavorite(favorite Favorite) error {
	query := fmt.Sprintf(`
		INSERT INTO %sfavorites (id, drink_id, user_email, created_at)
		VALUES ($1, $2, $3, $4)
	`, tablePrefix)
	_, err := s.db.ExecContext(s.ctx, query, favorite.ID, favorite.DrinkID, favorite.UserEmail, favorite.CreatedDate)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

func (s *PostgresStore) DeleteFavorite(id string) error {
	query := fmt.Sprintf("DELETE FROM %sfavorites WHERE id = $1", tablePrefix)
	res, err := s.db.ExecContext(s.ctx, query, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *PostgresStore) SavePrices(prices SavedPrices) error {
	data, err := json.Marshal(prices.Offers)
	if err != nil {
		return fmt.Errorf("failed to marshal offers: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %sprices (drink_id, offers, saved_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (drink_id) DO UPDATE SET offers = $2, saved_at = $3
	`, tablePrefix)
	_, err = s.db.ExecContext(s.ctx, query, prices.DrinkID, data, prices.SavedAt)
	return err
}

func (s *PostgresStore) GetSavedPrices(drinkID string) (SavedPrices, error) {
	prices := SavedPrices{DrinkID: drinkID}
	var data []byte

	query := fmt.Sprintf("SELECT offers, saved_at FROM %sprices WHERE drink_id = $1", tablePrefix)
	err := s.db.QueryRowContext(s.ctx, query, drinkID).Scan(&data, &prices.SavedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return SavedPrices{}, ErrNotFound
	}
	if err != nil {
		return SavedPrices{}, err
	}

	if err := json.Unmarshal(data, &prices.Offers); err != nil {
		return SavedPrices{}, fmt.Errorf("failed to unmarshal offers: %w", err)
	}

	return prices, nil
}

// isUniqueViolation reports whether err is a duplicate key error from Postgres
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
