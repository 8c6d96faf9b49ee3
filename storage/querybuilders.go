package storage

import (
	"fmt"
)

// STORAGE_SCHEMA is the postgresql schema for topic maps and users
const STORAGE_SCHEMA = "stopicmaps"

// queriesForSchema returns the statements creating the schema, in order
func queriesForSchema() []string {
	return []string{
		"create extension if not exists pgcrypto",
		fmt.Sprintf("create schema if not exists %s", STORAGE_SCHEMA),
		fmt.Sprintf(`
		create table if not exists %s.topic_maps (
			locator text primary key,
			content jsonb not null,
			updated_at timestamp not null default now()
		)`, STORAGE_SCHEMA),
		fmt.Sprintf(`
		create table if not exists %s.users (
			login text primary key,
			password_hash text not null,
			secret text not null,
			active bool not null default true,
			creator text
		)`, STORAGE_SCHEMA),
	}
}

// queryForTopicMapsSummaries returns the query listing stored topic maps.
// If withPrefix, first parameter is a prefix for locators
func queryForTopicMapsSummaries(withPrefix bool) string {
	base := `
	select TMA.locator,
	coalesce(jsonb_array_length(TMA.content -> 'topics'), 0) as topics,
	coalesce(jsonb_array_length(TMA.content -> 'associations'), 0) as associations,
	to_char(TMA.updated_at, 'YYYY-MM-DD"T"HH24:MI:SS') as updated_at
	from %s.topic_maps TMA
	%s
	order by TMA.locator
	`

	filter := ""
	if withPrefix {
		filter = "where starts_with(TMA.locator, $1)"
	}

	return fmt.Sprintf(base, STORAGE_SCHEMA, filter)
}

// queryForTopicMapUpsert returns the query to insert or replace a topic map content
func queryForTopicMapUpsert() string {
	return fmt.Sprintf(`
	insert into %s.topic_maps(locator, content, updated_at) values ($1, $2, now())
	on conflict (locator) do update set content = excluded.content, updated_at = excluded.updated_at
	`, STORAGE_SCHEMA)
}

// queryForUserUpsert returns the query to insert or change a user, hashing the password
func queryForUserUpsert() string {
	return fmt.Sprintf(`
	insert into %s.users(login, password_hash, secret, active, creator)
	values ($2, crypt($3, gen_salt('bf')), encode(gen_random_bytes(32), 'hex'), true, $1)
	on conflict (login) do update set password_hash = excluded.password_hash, active = true
	`, STORAGE_SCHEMA)
}
