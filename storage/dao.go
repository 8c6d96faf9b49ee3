package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zefrenchwan/topicmaps.git/locators"
	"github.com/zefrenchwan/topicmaps.git/topicmaps"
)

// Dao defines all database operations
type Dao struct {
	// pool to deal with multiple connections
	pool *pgxpool.Pool
}

// NewDao builds a new dao to connect a database via its url
func NewDao(ctx context.Context, url string) (Dao, error) {
	var dao Dao
	if pool, errPool := pgxpool.New(ctx, url); errPool != nil {
		return dao, fmt.Errorf("dao creation failed: %s", errPool.Error())
	} else {
		dao.pool = pool
	}

	return dao, nil
}

// InitSchema creates schema and tables if they do not exist
func (d *Dao) InitSchema(ctx context.Context) error {
	if d == nil || d.pool == nil {
		return errors.New("nil value")
	}

	for _, query := range queriesForSchema() {
		if _, err := d.pool.Exec(ctx, query); err != nil {
			return fmt.Errorf("schema creation failed: %w", err)
		}
	}

	return nil
}

// CheckUser returns true if login and password match an active user
func (d *Dao) CheckUser(ctx context.Context, login, password string) (bool, error) {
	if d == nil || d.pool == nil {
		return false, errors.New("nil value")
	}

	query := fmt.Sprintf(`select exists(
		select 1 from %s.users where login = $1 and active and password_hash = crypt($2, password_hash)
	)`, STORAGE_SCHEMA)

	var result bool
	if err := d.pool.QueryRow(ctx, query, login, password).Scan(&result); err != nil {
		return false, err
	}

	return result, nil
}

// FindSecretForActiveUser returns the secret for an active user
func (d *Dao) FindSecretForActiveUser(ctx context.Context, login string) (string, error) {
	if d == nil || d.pool == nil {
		return "", errors.New("nil value")
	}

	query := fmt.Sprintf("select secret from %s.users where login = $1 and active", STORAGE_SCHEMA)

	var result string
	if err := d.pool.QueryRow(ctx, query, login).Scan(&result); errors.Is(err, pgx.ErrNoRows) {
		return "", ErrUnknownUser
	} else if err != nil {
		return "", err
	}

	return result, nil
}

// UpsertUser changes user authentication if it exists, or insert user
func (d *Dao) UpsertUser(ctx context.Context, creator, login, password string) error {
	if d == nil || d.pool == nil {
		return errors.New("nil value")
	}

	_, errExec := d.pool.Exec(ctx, queryForUserUpsert(), creator, login, password)
	return errExec
}

// SaveTopicMap stores the content of tm, replacing any previous content for its locator
func (d *Dao) SaveTopicMap(ctx context.Context, tm *topicmaps.TopicMap) error {
	if d == nil || d.pool == nil {
		return errors.New("nil value")
	}

	var content []byte
	if dto, err := SerializeTopicMap(tm); err != nil {
		return err
	} else if raw, err := json.Marshal(dto); err != nil {
		return err
	} else {
		content = raw
	}

	_, errExec := d.pool.Exec(ctx, queryForTopicMapUpsert(), tm.Locator().Reference(), content)
	return errExec
}

// LoadTopicMap reads the topic map stored for loc and builds it in system
func (d *Dao) LoadTopicMap(ctx context.Context, system *topicmaps.TopicMapSystem, loc locators.Locator) (*topicmaps.TopicMap, error) {
	if d == nil || d.pool == nil {
		return nil, errors.New("nil value")
	}

	query := fmt.Sprintf("select content from %s.topic_maps where locator = $1", STORAGE_SCHEMA)

	var content []byte
	if err := d.pool.QueryRow(ctx, query, loc.Reference()).Scan(&content); errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTopicMapNotFound
	} else if err != nil {
		return nil, err
	}

	var dto TopicMapDTO
	if err := json.Unmarshal(content, &dto); err != nil {
		return nil, fmt.Errorf("invalid content for %s: %w", loc.Reference(), err)
	}

	return DeserializeTopicMap(system, &dto)
}

// ListTopicMaps returns the summaries of stored topic maps, sorted by locator.
// Empty prefix means no filter
func (d *Dao) ListTopicMaps(ctx context.Context, prefix string) ([]TopicMapSummaryDTO, error) {
	if d == nil || d.pool == nil {
		return nil, errors.New("nil value")
	}

	var rows pgx.Rows
	if len(prefix) == 0 {
		if r, err := d.pool.Query(ctx, queryForTopicMapsSummaries(false)); err != nil {
			return nil, err
		} else {
			rows = r
		}
	} else if r, err := d.pool.Query(ctx, queryForTopicMapsSummaries(true), prefix); err != nil {
		return nil, err
	} else {
		rows = r
	}

	defer rows.Close()

	return loadTopicMapsSummaries(rows)
}

// DeleteTopicMap removes the topic map stored for loc
func (d *Dao) DeleteTopicMap(ctx context.Context, loc locators.Locator) error {
	if d == nil || d.pool == nil {
		return errors.New("nil value")
	}

	query := fmt.Sprintf("delete from %s.topic_maps where locator = $1", STORAGE_SCHEMA)
	if tag, err := d.pool.Exec(ctx, query, loc.Reference()); err != nil {
		return err
	} else if tag.RowsAffected() == 0 {
		return ErrTopicMapNotFound
	}

	return nil
}

// Close closes the dao and the underlying pool
func (d *Dao) Close() {
	if d != nil && d.pool != nil {
		d.pool.Close()
	}
}
