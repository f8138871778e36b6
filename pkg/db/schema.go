package db

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- One row per fetch attempt. Page content is never stored, only the outcome.
CREATE TABLE IF NOT EXISTS fetches (
    fetch_id INTEGER PRIMARY KEY AUTOINCREMENT,
    site TEXT NOT NULL,
    page_name TEXT NOT NULL,
    fullname TEXT NOT NULL,
    status TEXT NOT NULL,          -- ok, auth_failed, not_found, no_content, encode_failed, error
    error_message TEXT,
    content_hash TEXT,             -- sha256 of the encoded document
    key_count INTEGER DEFAULT 0,
    size_bytes INTEGER DEFAULT 0,  -- page size reported by the site
    fetched_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_fetches_page ON fetches(site, page_name);
CREATE INDEX IF NOT EXISTS idx_fetches_status ON fetches(status);
CREATE INDEX IF NOT EXISTS idx_fetches_fetched_at ON fetches(fetched_at);
`
