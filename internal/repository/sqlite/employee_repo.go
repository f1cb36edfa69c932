package sqlite

import (
	"context"

	"shift-bot/internal/domain"
)

type SqliteEmployeeRepo struct {
	db querier
}

func (r *SqliteEmployeeRepo) CreateOrUpdateEmployee(ctx context.Context, e domain.Employee) error {
	res, err := r.db.ExecContext(ctx, `UPDATE employees SET name = ?, chat_id = ?, role = ? WHERE id = ?`, e.Name, e.ChatID, e.Role, e.ID)
	if err != nil {
		return domain.WrapStore("update employee", err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		_, err = r.db.ExecContext(ctx, `INSERT INTO employees (id, name, chat_id, role) VALUES (?, ?, ?, ?)`, e.ID, e.Name, e.ChatID, e.Role)
		return domain.WrapStore("insert employee", err)
	}
	return nil
}

func NewSqliteEmployeeRepo(db querier) *SqliteEmployeeRepo {
	return &SqliteEmployeeRepo{db: db}
}

func (r *SqliteEmployeeRepo) GetAllEmployees(ctx context.Context) ([]domain.Employee, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, chat_id, role FROM employees ORDER BY id`)
	if err != nil {
		return nil, domain.WrapStore("list employees", err)
	}
	defer rows.Close()
	var employees []domain.Employee
	for rows.Next() {
		var e domain.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.ChatID, &e.Role); err != nil {
			return nil, domain.WrapStore("list employees", err)
		}
		employees = append(employees, e)
	}
	return employees, domain.WrapStore("list employees", rows.Err())
}

func (r *SqliteEmployeeRepo) GetEmployeeByID(ctx context.Context, id int64) (domain.Employee, error) {
	var e domain.Employee
	err := r.db.QueryRowContext(ctx, `SELECT id, name, chat_id, role FROM employees WHERE id = ?`, id).Scan(&e.ID, &e.Name, &e.ChatID, &e.Role)
	return e, domain.WrapStore("get employee", err)
}
