package repository

import (
	"context"
	"database/sql"

	"github.com/minhvt/bus-ticketing/internal/model"
)

// AgentRepo provides CRUD over sales agents and their commissions.
type AgentRepo struct{ db *sql.DB }

func NewAgentRepo(db *sql.DB) *AgentRepo { return &AgentRepo{db: db} }

const agentColumns = `id, user_id, company_id, name, active, created_date, updated_date`
const saleColumns = `id, agent_id, reservation_id, commission, active, created_date, updated_date`

func scanAgent(row interface{ Scan(...any) error }) (model.Agent, error) {
	var a model.Agent
	err := row.Scan(&a.ID, &a.UserID, &a.CompanyID, &a.Name,
		&a.Active, &a.CreatedDate, &a.UpdatedDate)
	return a, err
}

func scanSale(row interface{ Scan(...any) error }) (model.AgentSale, error) {
	var s model.AgentSale
	err := row.Scan(&s.ID, &s.AgentID, &s.ReservationID, &s.Commission,
		&s.Active, &s.CreatedDate, &s.UpdatedDate)
	return s, err
}

// Create registers a user as a sales agent.
func (r *AgentRepo) Create(ctx context.Context, a *model.Agent) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO agents (user_id, company_id, name) VALUES (?,?,?)`,
		a.UserID, a.CompanyID, a.Name)
	if err != nil {
		return 0, translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	a.ID = uint64(id)
	return a.ID, nil
}

// GetByID fetches an active agent.
func (r *AgentRepo) GetByID(ctx context.Context, id uint64) (model.Agent, error) {
	a, err := scanAgent(r.db.QueryRowContext(ctx,
		`SELECT `+agentColumns+` FROM agents WHERE id = ? AND active = 1`, id))
	return a, translate(err)
}

// ListActive returns all active agents.
func (r *AgentRepo) ListActive(ctx context.Context) ([]model.Agent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+agentColumns+` FROM agents WHERE active = 1 ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Agent
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// RecordSale credits an agent with a commission on a reservation.
func (r *AgentRepo) RecordSale(ctx context.Context, s *model.AgentSale) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO agent_sales (agent_id, reservation_id, commission) VALUES (?,?,?)`,
		s.AgentID, s.ReservationID, s.Commission)
	if err != nil {
		return 0, translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	s.ID = uint64(id)
	return s.ID, nil
}

// ListSales returns an agent's sales newest first, plus the summed
// commission over all of them.
func (r *AgentRepo) ListSales(ctx context.Context, agentID uint64) ([]model.AgentSale, float64, error) {
	var total float64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(commission), 0) FROM agent_sales WHERE agent_id = ? AND active = 1`,
		agentID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+saleColumns+` FROM agent_sales WHERE agent_id = ? AND active = 1 ORDER BY id DESC`,
		agentID)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var out []model.AgentSale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}
