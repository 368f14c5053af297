package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/IApofeoz/diplom/internal/domain"
)

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

const messageSelect = `
	SELECT m.id, m.sender_id, m.recipient_id, m.content, m.is_read, m.is_encrypted,
		m.reply_to_id, m.created_at, u.username
	FROM messages m
	JOIN users u ON m.sender_id = u.id`

func (r *MessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	query := `
		INSERT INTO messages (id, sender_id, recipient_id, content, is_read, is_encrypted, reply_to_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.pool.Exec(ctx, query,
		msg.ID, msg.SenderID, msg.RecipientID, msg.Content,
		msg.IsRead, msg.IsEncrypted, msg.ReplyToID, msg.CreatedAt,
	)
	return err
}

func (r *MessageRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	var msg domain.Message
	err := r.pool.QueryRow(ctx, messageSelect+` WHERE m.id = $1`, id).Scan(
		&msg.ID, &msg.SenderID, &msg.RecipientID, &msg.Content, &msg.IsRead,
		&msg.IsEncrypted, &msg.ReplyToID, &msg.CreatedAt, &msg.SenderUsername,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *MessageRepo) ListBetween(ctx context.Context, userA, userB uuid.UUID) ([]domain.Message, error) {
	query := messageSelect + `
		WHERE (m.sender_id = $1 AND m.recipient_id = $2)
			OR (m.sender_id = $2 AND m.recipient_id = $1)
		ORDER BY m.created_at ASC`
	return r.list(ctx, query, userA, userB)
}

func (r *MessageRepo) LastBetween(ctx context.Context, userA, userB uuid.UUID) (*domain.Message, error) {
	query := messageSelect + `
		WHERE (m.sender_id = $1 AND m.recipient_id = $2)
			OR (m.sender_id = $2 AND m.recipient_id = $1)
		ORDER BY m.created_at DESC
		LIMIT 1`
	var msg domain.Message
	err := r.pool.QueryRow(ctx, query, userA, userB).Scan(
		&msg.ID, &msg.SenderID, &msg.RecipientID, &msg.Content, &msg.IsRead,
		&msg.IsEncrypted, &msg.ReplyToID, &msg.CreatedAt, &msg.SenderUsername,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *MessageRepo) SearchBetween(ctx context.Context, userA, userB uuid.UUID, q string) ([]domain.Message, error) {
	query := messageSelect + `
		WHERE m.content ILIKE '%' || $3 || '%'
			AND ((m.sender_id = $1 AND m.recipient_id = $2)
				OR (m.sender_id = $2 AND m.recipient_id = $1))
		ORDER BY m.created_at DESC`
	return r.list(ctx, query, userA, userB, q)
}

func (r *MessageRepo) list(ctx context.Context, query string, args ...any) ([]domain.Message, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(
			&msg.ID, &msg.SenderID, &msg.RecipientID, &msg.Content, &msg.IsRead,
			&msg.IsEncrypted, &msg.ReplyToID, &msg.CreatedAt, &msg.SenderUsername,
		); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (r *MessageRepo) Update(ctx context.Context, msg *domain.Message) error {
	_, err := r.pool.Exec(ctx, `UPDATE messages SET content = $1 WHERE id = $2`, msg.Content, msg.ID)
	return err
}

// Delete removes the row outright. Replies pointing at it keep their
// reply_to_id; the quote simply stops resolving.
func (r *MessageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	return err
}

func (r *MessageRepo) BulkMarkRead(ctx context.Context, senderID, recipientID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE messages SET is_read = TRUE
		WHERE sender_id = $1 AND recipient_id = $2 AND is_read = FALSE`,
		senderID, recipientID,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
