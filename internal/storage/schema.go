package storage

const schema = `
-- The 'questions' table holds the imported question bank. The hash is the
-- sha256 content hash and serves as the question identifier system-wide.
CREATE TABLE IF NOT EXISTS questions (
    hash TEXT PRIMARY KEY,
    prompt TEXT NOT NULL,
    answer TEXT NOT NULL,
    topic TEXT,
    source_id INTEGER,

    FOREIGN KEY(source_id) REFERENCES sources(id)
);

-- One scheduling record per question, created on the first incorrect
-- answer. The wrong_count default of 1 is load-bearing: priority scoring
-- assumes a fresh item already carries one miss.
CREATE TABLE IF NOT EXISTS review_items (
    question_hash TEXT PRIMARY KEY,
    mastery_level INTEGER NOT NULL DEFAULT 0,
    review_count INTEGER NOT NULL DEFAULT 0,
    last_reviewed DATETIME,
    next_review DATETIME NOT NULL,
    wrong_count INTEGER NOT NULL DEFAULT 1,
    correct_streak INTEGER NOT NULL DEFAULT 0,
    priority INTEGER NOT NULL DEFAULT 1,
    is_active INTEGER NOT NULL DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_review_items_due
    ON review_items(is_active, next_review);

-- Write-once summaries of finished review runs. Reporting only; the
-- scheduler never reads these back.
CREATE TABLE IF NOT EXISTS review_sessions (
    id TEXT PRIMARY KEY,
    duration INTEGER NOT NULL,
    total_items INTEGER NOT NULL,
    correct_items INTEGER NOT NULL,
    device_type TEXT,
    created_at DATETIME NOT NULL
);

-- Question-bank sources: a local directory or a git repository URL.
CREATE TABLE IF NOT EXISTS sources (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    path TEXT NOT NULL UNIQUE,
    type TEXT NOT NULL DEFAULT 'local',
    last_scanned DATETIME
);
`
