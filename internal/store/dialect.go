package store

import (
	"fmt"
	"strconv"
	"strings"
)

type dialect struct {
	name   string
	schema []string

	// numbered rewrites ? placeholders as $1, $2, ...
	numbered bool
}

var dialects = map[string]dialect{
	"sqlite3": {
		name: "sqlite3",
		schema: []string{
			`CREATE TABLE IF NOT EXISTS definitions (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL,
				code TEXT NOT NULL,
				created_at BIGINT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS transcript (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				input TEXT NOT NULL,
				output TEXT NOT NULL,
				failed BOOLEAN NOT NULL,
				created_at BIGINT NOT NULL
			)`,
		},
	},
	"mysql": {
		name: "mysql",
		schema: []string{
			`CREATE TABLE IF NOT EXISTS definitions (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				code TEXT NOT NULL,
				created_at BIGINT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS transcript (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				input TEXT NOT NULL,
				output TEXT NOT NULL,
				failed BOOLEAN NOT NULL,
				created_at BIGINT NOT NULL
			)`,
		},
	},
	"postgres": {
		name:     "postgres",
		numbered: true,
		schema: []string{
			`CREATE TABLE IF NOT EXISTS definitions (
				id BIGSERIAL PRIMARY KEY,
				name TEXT NOT NULL,
				code TEXT NOT NULL,
				created_at BIGINT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS transcript (
				id BIGSERIAL PRIMARY KEY,
				input TEXT NOT NULL,
				output TEXT NOT NULL,
				failed BOOLEAN NOT NULL,
				created_at BIGINT NOT NULL
			)`,
		},
	},
}

func dialectFor(driver string) (dialect, error) {
	d, ok := dialects[driver]
	if !ok {
		return dialect{}, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
	return d, nil
}

func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(ch)
	}
	return sb.String()
}
