package repository

import (
	"context"
	"database/sql"

	"github.com/minhvt/bus-ticketing/internal/model"
)

// ChatRepo stores directed messages between users.
type ChatRepo struct{ db *sql.DB }

func NewChatRepo(db *sql.DB) *ChatRepo { return &ChatRepo{db: db} }

const chatColumns = `id, sender_id, receiver_id, message, sent_at, active, created_date, updated_date`

func scanChatMessage(row interface{ Scan(...any) error }) (model.ChatMessage, error) {
	var m model.ChatMessage
	err := row.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Message, &m.SentAt,
		&m.Active, &m.CreatedDate, &m.UpdatedDate)
	return m, err
}

// Send inserts a message. A nonexistent receiver fails the FK check and
// comes back as ErrNotFound.
func (r *ChatRepo) Send(ctx context.Context, m *model.ChatMessage) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO chat_messages (sender_id, receiver_id, message) VALUES (?,?,?)`,
		m.SenderID, m.ReceiverID, m.Message)
	if err != nil {
		return 0, translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	m.ID = uint64(id)
	return m.ID, nil
}

// Conversation returns both directions of traffic between two users in
// chronological order, paginated.
func (r *ChatRepo) Conversation(ctx context.Context, userA, userB uint64, page, pageSize int) ([]model.ChatMessage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+chatColumns+` FROM chat_messages
		 WHERE active = 1 AND ((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?))
		 ORDER BY sent_at, id LIMIT ? OFFSET ?`,
		userA, userB, userB, userA, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.ChatMessage
	for rows.Next() {
		m, err := scanChatMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
