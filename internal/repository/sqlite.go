package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/miru4128/gaayatri-project/internal/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every connection to an in-memory database gets its own empty database.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS chat_sessions (
			session_id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			context TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chat_sessions_user ON chat_sessions(user_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS chat_messages (
			message_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			role TEXT NOT NULL,
			text TEXT NOT NULL,
			location TEXT,
			feedback INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (session_id) REFERENCES chat_sessions(session_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chat_messages_session ON chat_messages(session_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS cattle (
			animal_id INTEGER PRIMARY KEY AUTOINCREMENT,
			owner_id TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			tag_number TEXT NOT NULL DEFAULT '',
			breed TEXT NOT NULL DEFAULT '',
			age_years REAL,
			daily_milk_yield REAL,
			last_vaccination_date DATE,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cattle_owner ON cattle(owner_id)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateSession creates a new session.
func (s *SQLiteStore) CreateSession(ctx context.Context, session *domain.Session) error {
	c, err := json.Marshal(session.Context)
	if err != nil {
		return fmt.Errorf("encode context: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO chat_sessions (session_id, user_id, created_at, context) VALUES (?, ?, ?, ?)`,
		session.SessionID, session.UserID, session.CreatedAt, string(c))
	return err
}

// GetSession retrieves a session by ID.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	var session domain.Session
	var c sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT session_id, user_id, created_at, context FROM chat_sessions WHERE session_id = ?`,
		sessionID).Scan(&session.SessionID, &session.UserID, &session.CreatedAt, &c)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if c.Valid && c.String != "" {
		if err := json.Unmarshal([]byte(c.String), &session.Context); err != nil {
			return nil, fmt.Errorf("decode context of session %s: %w", sessionID, err)
		}
	}
	return &session, nil
}

// UpdateSessionContext replaces the stored context of a session.
func (s *SQLiteStore) UpdateSessionContext(ctx context.Context, sessionID string, c domain.AnimalContext) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode context: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE chat_sessions SET context = ? WHERE session_id = ?`,
		string(data), sessionID)
	return err
}

// CreateMessage appends a message to its session.
func (s *SQLiteStore) CreateMessage(ctx context.Context, message *domain.Message) error {
	var location sql.NullString
	if message.Location != "" {
		location = sql.NullString{String: message.Location, Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_messages (message_id, session_id, role, text, location, feedback, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		message.MessageID, message.SessionID, message.Role, message.Text, location, int(message.Feedback), message.CreatedAt)
	return err
}

const messageColumns = `message_id, session_id, role, text, location, feedback, created_at`

// GetMessage retrieves a message by ID.
func (s *SQLiteStore) GetMessage(ctx context.Context, messageID string) (*domain.Message, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+messageColumns+` FROM chat_messages WHERE message_id = ?`, messageID)
	msg, err := scanMessage(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// CountMessages returns the number of messages in a session.
func (s *SQLiteStore) CountMessages(ctx context.Context, sessionID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM chat_messages WHERE session_id = ?`, sessionID).Scan(&n)
	return n, err
}

// ListMessages returns up to limit messages of a session, oldest first.
// A non-positive limit returns all of them.
func (s *SQLiteStore) ListMessages(ctx context.Context, sessionID string, limit int) ([]domain.Message, error) {
	return s.queryMessages(ctx, "ASC", sessionID, limit)
}

// ListRecentMessages returns up to limit messages of a session, newest first.
func (s *SQLiteStore) ListRecentMessages(ctx context.Context, sessionID string, limit int) ([]domain.Message, error) {
	return s.queryMessages(ctx, "DESC", sessionID, limit)
}

func (s *SQLiteStore) queryMessages(ctx context.Context, order, sessionID string, limit int) ([]domain.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM chat_messages WHERE session_id = ?` +
		fmt.Sprintf(` ORDER BY created_at %[1]s, rowid %[1]s`, order)
	args := []interface{}{sessionID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *msg)
	}
	return messages, rows.Err()
}

// UpdateMessageFeedback sets the feedback of a message. It reports whether a
// message was updated.
func (s *SQLiteStore) UpdateMessageFeedback(ctx context.Context, messageID string, feedback domain.Feedback) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE chat_messages SET feedback = ? WHERE message_id = ?`,
		int(feedback), messageID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanMessage(row scanner) (*domain.Message, error) {
	var msg domain.Message
	var location sql.NullString
	var feedback int
	if err := row.Scan(&msg.MessageID, &msg.SessionID, &msg.Role, &msg.Text, &location, &feedback, &msg.CreatedAt); err != nil {
		return nil, err
	}
	if location.Valid {
		msg.Location = location.String
	}
	msg.Feedback = domain.Feedback(feedback)
	return &msg, nil
}

// CreateAnimal registers an animal and sets its generated AnimalID.
func (s *SQLiteStore) CreateAnimal(ctx context.Context, animal *domain.AnimalRecord) error {
	if animal.CreatedAt.IsZero() {
		animal.CreatedAt = time.Now().UTC()
	}
	var vaccinated sql.NullTime
	if animal.LastVaccinationDate != nil {
		vaccinated = sql.NullTime{Time: *animal.LastVaccinationDate, Valid: true}
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO cattle (owner_id, name, tag_number, breed, age_years, daily_milk_yield, last_vaccination_date, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		animal.OwnerID, animal.Name, animal.TagNumber, animal.Breed,
		nullFloat(animal.AgeYears), nullFloat(animal.DailyMilkYield), vaccinated, animal.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	animal.AnimalID = id
	return nil
}

// GetAnimal retrieves an animal by ID, only if ownerID owns it.
func (s *SQLiteStore) GetAnimal(ctx context.Context, animalID int64, ownerID string) (*domain.AnimalRecord, error) {
	var a domain.AnimalRecord
	var age, milk sql.NullFloat64
	var vaccinated sql.NullTime
	err := s.db.QueryRowContext(ctx,
		`SELECT animal_id, owner_id, name, tag_number, breed, age_years, daily_milk_yield, last_vaccination_date, created_at
		 FROM cattle WHERE animal_id = ? AND owner_id = ?`,
		animalID, ownerID).Scan(&a.AnimalID, &a.OwnerID, &a.Name, &a.TagNumber, &a.Breed, &age, &milk, &vaccinated, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if age.Valid {
		a.AgeYears = &age.Float64
	}
	if milk.Valid {
		a.DailyMilkYield = &milk.Float64
	}
	if vaccinated.Valid {
		a.LastVaccinationDate = &vaccinated.Time
	}
	return &a, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
