package storage

const schema = `
CREATE TABLE IF NOT EXISTS items (
  url TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  category TEXT NOT NULL DEFAULT '',
  domain TEXT NOT NULL DEFAULT '',
  detail_link TEXT NOT NULL DEFAULT '',
  created_at REAL NOT NULL,
  is_read INTEGER NOT NULL DEFAULT 0,
  is_bookmarked INTEGER NOT NULL DEFAULT 0,
  is_new INTEGER NOT NULL DEFAULT 1,
  score INTEGER NOT NULL DEFAULT 0,
  reply_count INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_items_created_at ON items(created_at);
CREATE INDEX IF NOT EXISTS idx_items_domain ON items(domain);

CREATE TABLE IF NOT EXISTS tombstones (
  url TEXT PRIMARY KEY,
  deleted_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS meta (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`

const itemColumns = `url, title, category, domain, detail_link, created_at, is_read, is_bookmarked, is_new, score, reply_count`
