// Copyright (c) 2026 Comiclog. All rights reserved.
// Author: dev@comiclog.app

package comic

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/comiclog/comiclog/internal/platform/database/schema"
	"github.com/comiclog/comiclog/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// comicColumns is the SELECT list shared by every read query.
func comicColumns(prefix string) string {
	t := schema.CoreComic
	cols := ""
	for i, col := range t.Columns() {
		if i > 0 {
			cols += ", "
		}
		cols += prefix + col
	}
	return cols
}

func (repository *PostgresRepository) GetComic(context context.Context, id string) (*Comic, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		comicColumns(""), schema.CoreComic.Table, schema.CoreComic.ID,
	)

	c, err := scanComic(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_comic")
	}
	return c, nil
}

func (repository *PostgresRepository) CreateComic(context context.Context, c *Comic) error {
	images, err := json.Marshal(c.Images)
	if err != nil {
		return dberr.Wrap(err, "encode_images")
	}
	integrations, err := json.Marshal(c.Integrations)
	if err != nil {
		return dberr.Wrap(err, "encode_integrations")
	}

	tx, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_create_comic")
	}
	defer tx.Rollback(context)

	t := schema.CoreComic
	insert := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		t.Table, t.ID, t.Slug, t.Title, t.Caption, t.Images, t.Tags,
		t.HappenedOnDate, t.PostedTimestamp, t.UploadDate, t.ScrollStyle, t.Integrations,
	)

	_, err = tx.Exec(context, insert,
		c.ID, c.Slug, c.Title, c.Caption, images, c.Tags,
		c.HappenedOnDate, c.PostedTimestamp, c.UploadDate, string(c.ScrollStyle), integrations,
	)
	if err != nil {
		if dberr.IsUniqueViolation(err, schema.UniqueSlugConstraint) {
			return ErrSlugTaken
		}
		return dberr.Wrap(err, "create_comic")
	}

	// Denormalized tag rows back the (tag, postedtimestamp) secondary index.
	tt := schema.CoreComicTag
	tagInsert := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)`,
		tt.Table, tt.Tag, tt.ComicID, tt.PostedTimestamp,
	)
	for _, tag := range c.Tags {
		if _, err := tx.Exec(context, tagInsert, tag, c.ID, c.PostedTimestamp); err != nil {
			return dberr.Wrap(err, "create_comic_tag")
		}
	}

	if err := tx.Commit(context); err != nil {
		return dberr.Wrap(err, "commit_create_comic")
	}
	return nil
}

func (repository *PostgresRepository) ListComics(context context.Context, limit, offset int) ([]*Comic, error) {
	t := schema.CoreComic
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY %s DESC, %s DESC
		LIMIT $1 OFFSET $2
	`,
		comicColumns(""), t.Table, t.PostedTimestamp, t.ID,
	)

	rows, err := repository.db.Query(context, query, limit, offset)
	if err != nil {
		return nil, dberr.Wrap(err, "list_comics")
	}
	defer rows.Close()

	return collectComics(rows, "scan_comic")
}

func (repository *PostgresRepository) ListComicsByTag(context context.Context, tag string, limit, offset int) ([]*Comic, error) {
	t := schema.CoreComic
	tt := schema.CoreComicTag
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s c
		JOIN %s ct ON ct.%s = c.%s
		WHERE ct.%s = $1
		ORDER BY ct.%s DESC, c.%s DESC
		LIMIT $2 OFFSET $3
	`,
		comicColumns("c."), t.Table, tt.Table, tt.ComicID, t.ID, tt.Tag, tt.PostedTimestamp, t.ID,
	)

	rows, err := repository.db.Query(context, query, tag, limit, offset)
	if err != nil {
		return nil, dberr.Wrap(err, "list_comics_by_tag")
	}
	defer rows.Close()

	return collectComics(rows, "scan_comic_by_tag")
}

func (repository *PostgresRepository) ListSlugs(context context.Context) ([]string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s`, schema.CoreComic.Slug, schema.CoreComic.Table)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_slugs")
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, dberr.Wrap(err, "scan_slug")
		}
		slugs = append(slugs, s)
	}
	return slugs, dberr.Wrap(rows.Err(), "list_slugs")
}

func (repository *PostgresRepository) CountComics(context context.Context) (int, error) {
	query := fmt.Sprintf(`SELECT count(*) FROM %s`, schema.CoreComic.Table)

	var total int
	if err := repository.db.QueryRow(context, query).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, "count_comics")
	}
	return total, nil
}

func (repository *PostgresRepository) CountComicsByTag(context context.Context, tag string) (int, error) {
	tt := schema.CoreComicTag
	query := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s = $1`, tt.Table, tt.Tag)

	var total int
	if err := repository.db.QueryRow(context, query, tag).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, "count_comics_by_tag")
	}
	return total, nil
}

func scanComic(row pgx.Row) (*Comic, error) {
	c := &Comic{}
	var images, integrations []byte
	var style string
	var happened time.Time

	err := row.Scan(
		&c.ID, &c.Slug, &c.Title, &c.Caption, &images, &c.Tags,
		&happened, &c.PostedTimestamp, &c.UploadDate, &style, &integrations,
	)
	if err != nil {
		return nil, err
	}

	c.HappenedOnDate = happened.Format("2006-01-02")
	c.ScrollStyle = ScrollStyle(style)
	if err := json.Unmarshal(images, &c.Images); err != nil {
		return nil, err
	}
	if len(integrations) > 0 {
		if err := json.Unmarshal(integrations, &c.Integrations); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func collectComics(rows pgx.Rows, action string) ([]*Comic, error) {
	var comics []*Comic
	for rows.Next() {
		c, err := scanComic(rows)
		if err != nil {
			return nil, dberr.Wrap(err, action)
		}
		comics = append(comics, c)
	}
	return comics, dberr.Wrap(rows.Err(), action)
}
