package model

import "time"

// Agent is a user selling tickets on behalf of a company. The company
// link is optional and nulled if the company goes away.
type Agent struct {
	ID          uint64    // agents.id
	UserID      uint64    // agents.user_id
	CompanyID   *uint64   // agents.company_id (nullable)
	Name        string    // agents.name
	Active      bool      // agents.active
	CreatedDate time.Time // agents.created_date
	UpdatedDate time.Time // agents.updated_date
}

// AgentSale credits an agent with the commission earned on one
// reservation.
type AgentSale struct {
	ID            uint64    // agent_sales.id
	AgentID       uint64    // agent_sales.agent_id
	ReservationID uint64    // agent_sales.reservation_id
	Commission    float64   // agent_sales.commission
	Active        bool      // agent_sales.active
	CreatedDate   time.Time // agent_sales.created_date
	UpdatedDate   time.Time // agent_sales.updated_date
}
