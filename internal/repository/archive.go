package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// archiver implements the archive/restore flag toggling shared by tickets and notes.
type archiver struct {
	table  string
	keyCol string
}

func (a archiver) archive(ctx context.Context, db DBTX, key any, actor string) error {
	query := fmt.Sprintf(`
        UPDATE %s SET archivado=TRUE, archivado_por=$1, fecha_archivado=NOW()%s
        WHERE %s=$2 AND archivado=FALSE`, a.table, a.touch(), a.keyCol)
	return execOne(ctx, db, query, actor, key)
}

func (a archiver) restore(ctx context.Context, db DBTX, key any) error {
	query := fmt.Sprintf(`
        UPDATE %s SET archivado=FALSE, archivado_por=NULL, fecha_archivado=NULL%s
        WHERE %s=$1 AND archivado=TRUE`, a.table, a.touch(), a.keyCol)
	return execOne(ctx, db, query, key)
}

// touch bumps the update timestamp on tables that track one.
func (a archiver) touch() string {
	if a.table == ticketTable {
		return ", fecha_actualizacion=NOW()"
	}
	return ""
}

func execOne(ctx context.Context, db DBTX, query string, args ...any) error {
	cmd, err := db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
