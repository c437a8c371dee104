// Package store archives collected records in a local SQLite database so
// repeated collection runs accumulate a deduplicated corpus.
package store

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cnu-smr/reddit-collector/pkg/types"
)

// Store handles all database operations.
type Store struct {
	db *sql.DB
}

// Open creates (or opens) the SQLite archive at dbPath.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS posts (
		id TEXT PRIMARY KEY,
		subreddit TEXT NOT NULL,
		query TEXT,
		title TEXT,
		body TEXT,
		author TEXT,
		flair TEXT,
		permalink TEXT,
		score INTEGER,
		num_comments INTEGER,
		created REAL,
		collected_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS comments (
		id TEXT PRIMARY KEY,
		parent_id TEXT,
		link_id TEXT,
		subreddit TEXT,
		author TEXT,
		body TEXT,
		permalink TEXT,
		score INTEGER,
		created REAL,
		collected_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_posts_subreddit ON posts(subreddit);
	CREATE INDEX IF NOT EXISTS idx_posts_query ON posts(query);
	CREATE INDEX IF NOT EXISTS idx_comments_link ON comments(link_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SavePosts upserts posts; scores and comment counts refresh on re-collection.
func (s *Store) SavePosts(posts []*types.Post) error {
	now := time.Now().UTC()
	for _, p := range posts {
		flair := ""
		if p.LinkFlairText != nil {
			flair = *p.LinkFlairText
		}
		_, err := s.db.Exec(`
			INSERT INTO posts (id, subreddit, query, title, body, author, flair,
				permalink, score, num_comments, created, collected_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				score = excluded.score,
				num_comments = excluded.num_comments,
				collected_at = excluded.collected_at
		`, p.ID, p.Subreddit, p.Query, p.Title, p.SelfText, p.Author, flair,
			p.Permalink, p.Score, p.NumComments, p.Created, now)
		if err != nil {
			return err
		}
	}
	return nil
}

// SaveComments upserts comments; scores refresh on re-collection.
func (s *Store) SaveComments(comments []*types.Comment) error {
	now := time.Now().UTC()
	for _, c := range comments {
		_, err := s.db.Exec(`
			INSERT INTO comments (id, parent_id, link_id, subreddit, author,
				body, permalink, score, created, collected_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				score = excluded.score,
				collected_at = excluded.collected_at
		`, c.ID, c.ParentID, c.LinkID, c.Subreddit, c.Author,
			c.Body, c.Permalink, c.Score, c.Created, now)
		if err != nil {
			return err
		}
	}
	return nil
}

// CountPosts returns the number of archived posts.
func (s *Store) CountPosts() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&n)
	return n, err
}

// CountComments returns the number of archived comments.
func (s *Store) CountComments() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM comments`).Scan(&n)
	return n, err
}
