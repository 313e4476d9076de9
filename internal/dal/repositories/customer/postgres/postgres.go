package postgresrepo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/backend-labs/lanchonete/internal/dal/postgres"
	"github.com/corray333/backend-labs/lanchonete/internal/service/apperr"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/customer"
)

const returning = "RETURNING id, name, email, cpf, created_at, updated_at"

// PostgresCustomerRepository represents a Postgres customer repository.
type PostgresCustomerRepository struct {
	conn postgres.Conn
	sb   sq.StatementBuilderType
}

// NewPostgresCustomerRepository creates a new Postgres customer repository.
func NewPostgresCustomerRepository(conn postgres.Conn) *PostgresCustomerRepository {
	return &PostgresCustomerRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func scan(row interface{ Scan(dest ...any) error }) (customer.Customer, error) {
	var c customer.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.CPF, &c.CreatedAt, &c.UpdatedAt)

	return c, err
}

// Insert registers a customer. A duplicate CPF is a validation error.
func (r *PostgresCustomerRepository) Insert(ctx context.Context, c customer.Customer) (customer.Customer, error) {
	sql, args, err := r.sb.Insert("customers").
		Columns("name", "email", "cpf", "created_at", "updated_at").
		Values(c.Name, c.Email, c.CPF, c.CreatedAt, c.UpdatedAt).
		Suffix(returning).
		ToSql()
	if err != nil {
		return customer.Customer{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	created, err := scan(r.conn.QueryRow(ctx, sql, args...))
	if postgres.IsUniqueViolation(err) {
		return customer.Customer{}, apperr.Validation("cpf %s is already registered", c.CPF)
	}
	if err != nil {
		return customer.Customer{}, fmt.Errorf("failed to insert customer: %w", err)
	}

	return created, nil
}

// Update overwrites name and email of the customer with c.ID.
func (r *PostgresCustomerRepository) Update(ctx context.Context, c customer.Customer) (customer.Customer, error) {
	sql, args, err := r.sb.Update("customers").
		Set("name", c.Name).
		Set("email", c.Email).
		Set("updated_at", c.UpdatedAt).
		Where(sq.Eq{"id": c.ID}).
		Suffix(returning).
		ToSql()
	if err != nil {
		return customer.Customer{}, fmt.Errorf("failed to build update query: %w", err)
	}

	updated, err := scan(r.conn.QueryRow(ctx, sql, args...))
	if postgres.IsNoRows(err) {
		return customer.Customer{}, apperr.NotFound("customer not found")
	}
	if err != nil {
		return customer.Customer{}, fmt.Errorf("failed to update customer: %w", err)
	}

	return updated, nil
}

// Delete removes a customer. Customers with orders are refused.
func (r *PostgresCustomerRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("customers").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, sql, args...)
	if postgres.IsForeignKeyViolation(err) {
		return apperr.Validation("customer has orders and cannot be deleted")
	}
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("customer not found")
	}

	return nil
}

// GetByCPF returns the customer registered with cpf.
func (r *PostgresCustomerRepository) GetByCPF(ctx context.Context, cpf string) (customer.Customer, error) {
	sql, args, err := r.sb.Select("id", "name", "email", "cpf", "created_at", "updated_at").
		From("customers").
		Where(sq.Eq{"cpf": cpf}).
		ToSql()
	if err != nil {
		return customer.Customer{}, fmt.Errorf("failed to build query: %w", err)
	}

	c, err := scan(r.conn.QueryRow(ctx, sql, args...))
	if postgres.IsNoRows(err) {
		return customer.Customer{}, apperr.NotFound("customer with cpf %s not found", cpf)
	}
	if err != nil {
		return customer.Customer{}, fmt.Errorf("failed to get customer: %w", err)
	}

	return c, nil
}
