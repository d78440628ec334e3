package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/prepdeck/prepdeck/internal/domain"
	_ "modernc.org/sqlite" // Registers the sqlite driver
)

// DB wraps the SQL database connection and implements review.Repository.
type DB struct {
	conn *sql.DB
}

// Open creates a new database connection and ensures the schema is up to date.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{conn: db}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// LoadReviewItem retrieves the scheduling record for a question, or
// (nil, nil) when the question has never entered spaced review.
func (db *DB) LoadReviewItem(questionID string) (*domain.ReviewItem, error) {
	var (
		item         domain.ReviewItem
		lastReviewed sql.NullTime
	)
	row := db.conn.QueryRow(`
		SELECT question_hash, mastery_level, review_count, last_reviewed,
		       next_review, wrong_count, correct_streak, priority, is_active
		FROM review_items WHERE question_hash = ?
	`, questionID)

	err := row.Scan(
		&item.QuestionID,
		&item.MasteryLevel,
		&item.ReviewCount,
		&lastReviewed,
		&item.NextReview,
		&item.WrongCount,
		&item.CorrectStreak,
		&item.Priority,
		&item.IsActive,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load review item %s: %w", questionID, err)
	}
	if lastReviewed.Valid {
		item.LastReviewed = &lastReviewed.Time
	}
	return &item, nil
}

// SaveReviewItem upserts a review item. All derived fields land in one
// statement so a reader never sees priority out of step with mastery.
func (db *DB) SaveReviewItem(item *domain.ReviewItem) error {
	var lastReviewed sql.NullTime
	if item.LastReviewed != nil {
		lastReviewed = sql.NullTime{Time: *item.LastReviewed, Valid: true}
	}

	_, err := db.conn.Exec(`
		INSERT INTO review_items (
			question_hash, mastery_level, review_count, last_reviewed,
			next_review, wrong_count, correct_streak, priority, is_active
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(question_hash) DO UPDATE SET
			mastery_level = excluded.mastery_level,
			review_count = excluded.review_count,
			last_reviewed = excluded.last_reviewed,
			next_review = excluded.next_review,
			wrong_count = excluded.wrong_count,
			correct_streak = excluded.correct_streak,
			priority = excluded.priority,
			is_active = excluded.is_active
	`,
		item.QuestionID,
		item.MasteryLevel,
		item.ReviewCount,
		lastReviewed,
		item.NextReview,
		item.WrongCount,
		item.CorrectStreak,
		item.Priority,
		item.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to save review item %s: %w", item.QuestionID, err)
	}
	return nil
}

// QueryDue returns all active review items due at or before now. Ordering
// and paging are the caller's concern.
func (db *DB) QueryDue(now time.Time) ([]domain.ReviewItem, error) {
	rows, err := db.conn.Query(`
		SELECT question_hash, mastery_level, review_count, last_reviewed,
		       next_review, wrong_count, correct_streak, priority, is_active
		FROM review_items
		WHERE is_active = 1 AND next_review <= ?
	`, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query due review items: %w", err)
	}
	defer rows.Close()

	var items []domain.ReviewItem
	for rows.Next() {
		var (
			item         domain.ReviewItem
			lastReviewed sql.NullTime
		)
		if err := rows.Scan(
			&item.QuestionID,
			&item.MasteryLevel,
			&item.ReviewCount,
			&lastReviewed,
			&item.NextReview,
			&item.WrongCount,
			&item.CorrectStreak,
			&item.Priority,
			&item.IsActive,
		); err != nil {
			return nil, fmt.Errorf("failed to scan due review item row: %w", err)
		}
		if lastReviewed.Valid {
			item.LastReviewed = &lastReviewed.Time
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read due review items: %w", err)
	}
	return items, nil
}

// InsertReviewSession stores a finished session summary. Sessions are
// append-only; there is no update path.
func (db *DB) InsertReviewSession(session *domain.ReviewSession) error {
	_, err := db.conn.Exec(`
		INSERT INTO review_sessions (id, duration, total_items, correct_items, device_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		session.ID,
		session.Duration,
		session.TotalItems,
		session.CorrectItems,
		session.DeviceType,
		session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert review session %s: %w", session.ID, err)
	}
	return nil
}

// InsertQuestion inserts a newly imported question.
func (db *DB) InsertQuestion(q domain.Question, sourceID int64) error {
	_, err := db.conn.Exec(`
		INSERT INTO questions (hash, prompt, answer, topic, source_id)
		VALUES (?, ?, ?, ?, ?)
	`,
		q.Hash,
		q.Prompt,
		q.Answer,
		q.Topic,
		sourceID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert question %s: %w", q.Hash, err)
	}
	return nil
}

// FindQuestionByHash retrieves a question by its content hash, or
// (nil, nil) when no such question exists.
func (db *DB) FindQuestionByHash(hash string) (*domain.Question, error) {
	var q domain.Question
	row := db.conn.QueryRow(`
		SELECT hash, prompt, answer, topic
		FROM questions WHERE hash = ?
	`, hash)

	if err := row.Scan(&q.Hash, &q.Prompt, &q.Answer, &q.Topic); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find question by hash %s: %w", hash, err)
	}
	return &q, nil
}

// GetQuestionsBySourceID retrieves all questions imported from one source.
func (db *DB) GetQuestionsBySourceID(sourceID int64) ([]domain.Question, error) {
	rows, err := db.conn.Query(`
		SELECT hash, prompt, answer, topic
		FROM questions WHERE source_id = ?
	`, sourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions for source ID %d: %w", sourceID, err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.Hash, &q.Prompt, &q.Answer, &q.Topic); err != nil {
			return nil, fmt.Errorf("failed to scan question row for source ID %d: %w", sourceID, err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// DeleteQuestionByHash removes a question from the bank. Its review item,
// if any, is deliberately left in place: review state survives bank edits
// so a re-added question resumes where it left off.
func (db *DB) DeleteQuestionByHash(hash string) error {
	if _, err := db.conn.Exec(`DELETE FROM questions WHERE hash = ?`, hash); err != nil {
		return fmt.Errorf("failed to delete question with hash %s: %w", hash, err)
	}
	return nil
}

// Source represents a question-bank source, either a local path or a Git URL.
type Source struct {
	ID          int64
	Path        string
	Type        string
	LastScanned sql.NullTime
}

// InsertSource inserts a new source and returns its ID.
func (db *DB) InsertSource(path, sourceType string) (int64, error) {
	res, err := db.conn.Exec(`
		INSERT INTO sources (path, type)
		VALUES (?, ?)
	`, path, sourceType)
	if err != nil {
		return 0, fmt.Errorf("failed to insert source %s: %w", path, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for source %s: %w", path, err)
	}
	return id, nil
}

// FindSourceByPath retrieves a source by its path, or (nil, nil) when the
// path is not registered.
func (db *DB) FindSourceByPath(path string) (*Source, error) {
	var s Source
	row := db.conn.QueryRow(`
		SELECT id, path, type, last_scanned
		FROM sources WHERE path = ?
	`, path)

	if err := row.Scan(&s.ID, &s.Path, &s.Type, &s.LastScanned); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find source by path %s: %w", path, err)
	}
	return &s, nil
}

// GetAllSources retrieves all registered sources.
func (db *DB) GetAllSources() ([]Source, error) {
	rows, err := db.conn.Query(`
		SELECT id, path, type, last_scanned
		FROM sources
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get all sources: %w", err)
	}
	defer rows.Close()

	var sources []Source
	for rows.Next() {
		var s Source
		if err := rows.Scan(&s.ID, &s.Path, &s.Type, &s.LastScanned); err != nil {
			return nil, fmt.Errorf("failed to scan source row: %w", err)
		}
		sources = append(sources, s)
	}
	return sources, rows.Err()
}

// UpdateSourceLastScanned updates the last_scanned timestamp for a source.
func (db *DB) UpdateSourceLastScanned(sourceID int64) error {
	_, err := db.conn.Exec(`
		UPDATE sources
		SET last_scanned = ?
		WHERE id = ?
	`, time.Now(), sourceID)
	if err != nil {
		return fmt.Errorf("failed to update last scanned for source ID %d: %w", sourceID, err)
	}
	return nil
}

// DeleteSource removes a source registration. Questions imported from it
// remain until the next sync prunes them.
func (db *DB) DeleteSource(id int64) error {
	if _, err := db.conn.Exec(`DELETE FROM sources WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete source ID %d: %w", id, err)
	}
	return nil
}
