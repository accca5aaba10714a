package library

import (
	"context"
	"fmt"
	"strings"
)

// EmployeeManager adds and looks up library staff.
type EmployeeManager struct {
	gw Gateway
}

func NewEmployeeManager(gw Gateway) *EmployeeManager {
	return &EmployeeManager{gw: gw}
}

// Add inserts an employee. An empty position is stored as NULL.
func (m *EmployeeManager) Add(ctx context.Context, name, position string) (int64, error) {
	if strings.TrimSpace(name) == "" {
		return 0, fmt.Errorf("%w: employee name cannot be empty", ErrInvalidInput)
	}
	var pos any
	if position != "" {
		pos = position
	}
	ack, err := m.gw.ExecuteWrite(ctx, `INSERT INTO employees (name, position) VALUES (?, ?)`, name, pos)
	if err != nil {
		return 0, fmt.Errorf("add employee: %w", err)
	}
	return ack.LastInsertID, nil
}

// Show returns every employee whose name matches exactly, ordered by id.
func (m *EmployeeManager) Show(ctx context.Context, name string) ([]Employee, error) {
	rows, err := m.gw.ExecuteRead(ctx,
		`SELECT id, name, position FROM employees WHERE name = ? ORDER BY id`, name)
	if err != nil {
		return nil, fmt.Errorf("show employee: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	employees := make([]Employee, 0, len(rows))
	for _, r := range rows {
		var e Employee
		if e.ID, err = r.Int64("id"); err != nil {
			return nil, err
		}
		if e.Name, err = r.String("name"); err != nil {
			return nil, err
		}
		if e.Position, err = r.NullString("position"); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, nil
}
