package iopg

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/gnames/fungidb/pkg/normalize"
	"github.com/gnames/fungidb/pkg/store"
	"github.com/gnames/fungidb/pkg/taxon"
	"github.com/jackc/pgx/v5"
)

// PostgreSQL has a limit of 65535 parameters per query.
// With 14 parameters per row max is 4681 rows.
const maxRowsPerStatement = 4000

// InsertSpecies inserts documents with ON CONFLICT DO NOTHING. Rows that
// were not inserted are counted as duplicates.
func (p *pgStore) InsertSpecies(
	ctx context.Context,
	docs []taxon.Species,
) (store.WriteResult, error) {
	var res store.WriteResult
	for chunk := range slices.Chunk(docs, maxRowsPerStatement) {
		q, args := valuesStatement(chunk)
		q += " ON CONFLICT (id) DO NOTHING"
		tag, err := p.pool.Exec(ctx, q, args...)
		if err != nil {
			return res, err
		}
		inserted := int(tag.RowsAffected())
		res.Inserted += inserted
		res.Duplicates += len(chunk) - inserted
	}
	return res, nil
}

// UpsertSpecies replaces documents by id. The xmax system column is zero
// for freshly inserted rows, which separates inserts from updates.
func (p *pgStore) UpsertSpecies(
	ctx context.Context,
	docs []taxon.Species,
) (store.WriteResult, error) {
	var res store.WriteResult

	// one statement cannot touch the same row twice, last document wins
	docs = dedupLast(docs)

	var sets []string
	for _, v := range speciesColumns[1:] {
		sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", v, v))
	}

	for chunk := range slices.Chunk(docs, maxRowsPerStatement) {
		q, args := valuesStatement(chunk)
		q += " ON CONFLICT (id) DO UPDATE SET " + strings.Join(sets, ", ") +
			" RETURNING (xmax = 0)"

		rows, err := p.pool.Query(ctx, q, args...)
		if err != nil {
			return res, err
		}
		for rows.Next() {
			var inserted bool
			if err := rows.Scan(&inserted); err != nil {
				rows.Close()
				return res, err
			}
			if inserted {
				res.Inserted++
			} else {
				res.Updated++
			}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return res, err
		}
	}
	return res, nil
}

func (p *pgStore) SaveSpecies(ctx context.Context, doc taxon.Species) error {
	q, args := valuesStatement([]taxon.Species{doc})
	_, err := p.pool.Exec(ctx, q, args...)
	if isUniqueViolation(err) {
		return store.ErrDuplicate
	}
	return err
}

// SearchSpecies matches the query as a literal, case-insensitive substring
// of names and of their normalized keys.
func (p *pgStore) SearchSpecies(
	ctx context.Context,
	query string,
	limit int,
) ([]taxon.Species, error) {
	res := []taxon.Species{}
	query = strings.TrimSpace(query)
	if query == "" {
		return res, nil
	}

	args := []any{"%" + escapeLike(query) + "%"}
	conds := []string{
		`scientific_name ILIKE $1 ESCAPE '\'`,
		`vernacular_name ILIKE $1 ESCAPE '\'`,
	}
	if qNorm := normalize.Normalize(query); qNorm != "" {
		args = append(args, "%"+escapeLike(qNorm)+"%")
		conds = append(conds,
			`scientific_name_norm LIKE $2 ESCAPE '\'`,
			`vernacular_name_norm LIKE $2 ESCAPE '\'`,
		)
	}

	q := fmt.Sprintf(
		"SELECT %s FROM species WHERE %s ORDER BY scientific_name",
		strings.Join(speciesColumns, ", "),
		strings.Join(conds, " OR "),
	)
	if limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := p.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	found, err := pgx.CollectRows(rows, pgx.RowToStructByPos[speciesRow])
	if err != nil {
		return nil, err
	}
	for _, v := range found {
		res = append(res, fromSpeciesRow(v))
	}
	return res, nil
}

func (p *pgStore) CountSpecies(ctx context.Context) (int64, error) {
	var res int64
	err := p.pool.QueryRow(ctx, "SELECT count(*) FROM species").Scan(&res)
	return res, err
}

// valuesStatement builds a parameterized multi-row INSERT.
func valuesStatement(docs []taxon.Species) (string, []any) {
	cols := len(speciesColumns)
	valueStrings := make([]string, 0, len(docs))
	valueArgs := make([]any, 0, len(docs)*cols)
	argIdx := 1
	for _, v := range docs {
		ph := make([]string, cols)
		for i := range ph {
			ph[i] = fmt.Sprintf("$%d", argIdx)
			argIdx++
		}
		valueStrings = append(valueStrings, "("+strings.Join(ph, ", ")+")")
		valueArgs = append(valueArgs, speciesArgs(v)...)
	}

	q := fmt.Sprintf("INSERT INTO species (%s) VALUES %s",
		strings.Join(speciesColumns, ", "),
		strings.Join(valueStrings, ", "),
	)
	return q, valueArgs
}

func dedupLast(docs []taxon.Species) []taxon.Species {
	idx := make(map[string]int, len(docs))
	res := make([]taxon.Species, 0, len(docs))
	for _, v := range docs {
		if i, ok := idx[v.ID]; ok {
			res[i] = v
			continue
		}
		idx[v.ID] = len(res)
		res = append(res, v)
	}
	return res
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
