package repository

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

// Record is one finished round: won, or lost on a bomb.
type Record struct {
	RecordID   int64     `db:"record_id" json:"record_id"`
	SessionID  string    `db:"session_id" json:"session_id"`
	Username   *string   `db:"username" json:"username"`
	Cols       int       `db:"cols" json:"cols"`
	Rows       int       `db:"rows" json:"rows"`
	Bombs      int       `db:"bombs" json:"bombs"`
	Won        bool      `db:"won" json:"won"`
	StartedAt  time.Time `db:"started_at" json:"started_at"`
	EndedAt    time.Time `db:"ended_at" json:"ended_at"`
	PlaytimeMs float64   `db:"playtime_ms" json:"playtime_ms"`
}

type CreateRecordParams struct {
	SessionID string
	PlayerID  *int64
	Cols      int
	Rows      int
	Bombs     int
	Won       bool
	StartedAt time.Time
	EndedAt   time.Time
}

const recordColumns = `
	record_id,
	session_id::text AS session_id,
	username,
	cols,
	"rows",
	bombs,
	won,
	started_at,
	ended_at,
	(
		extract('epoch' from ended_at) -
		extract('epoch' from started_at)
	)::float8 * 1000 AS playtime_ms`

func (q *Queries) CreateRecord(ctx context.Context, params CreateRecordParams) (*Record, error) {
	rows, _ := q.db.Query(ctx, `
		WITH inserted AS (
			INSERT INTO record (
				session_id, player_id, cols, "rows", bombs, won, started_at, ended_at
			)
			VALUES (
				@session_id, @player_id, @cols, @rows, @bombs, @won, @started_at, @ended_at
			)
			RETURNING *
		)
		SELECT `+recordColumns+`
		FROM inserted
			LEFT OUTER JOIN player USING (player_id);`,
		pgx.NamedArgs{
			"session_id": params.SessionID,
			"player_id":  params.PlayerID,
			"cols":       params.Cols,
			"rows":       params.Rows,
			"bombs":      params.Bombs,
			"won":        params.Won,
			"started_at": params.StartedAt,
			"ended_at":   params.EndedAt,
		},
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Record])
}

type RecordFilter struct {
	Username *string
	Cols     *int
	Rows     *int
	Bombs    *int
	Won      *bool
	Limit    int
}

func (f RecordFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.Username != nil {
		clauses = append(clauses, "username = @username")
		args["username"] = *f.Username
	}
	if f.Cols != nil {
		clauses = append(clauses, "cols = @cols")
		args["cols"] = *f.Cols
	}
	if f.Rows != nil {
		clauses = append(clauses, `"rows" = @rows`)
		args["rows"] = *f.Rows
	}
	if f.Bombs != nil {
		clauses = append(clauses, "bombs = @bombs")
		args["bombs"] = *f.Bombs
	}
	if f.Won != nil {
		clauses = append(clauses, "won = @won")
		args["won"] = *f.Won
	}
	return strings.Join(clauses, " AND "), args
}

// ListRecords returns matching records, fastest first.
func (q *Queries) ListRecords(ctx context.Context, filter RecordFilter) ([]Record, error) {
	query := `SELECT ` + recordColumns + `
	FROM record
		LEFT OUTER JOIN player USING (player_id)`

	whereClause, args := filter.WhereClause()
	if whereClause != "" {
		query += " WHERE " + whereClause
	}

	query += " ORDER BY playtime_ms, record_id"

	if filter.Limit > 0 {
		query += " LIMIT @limit"
		args["limit"] = filter.Limit
	}

	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Record])
}
