package persistence

import (
	"errors"
	"strings"

	"github.com/erp/erpcore/internal/domain/shared"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const pgUniqueViolation = "23505"

// translateError maps driver errors onto domain errors. Anything unrecognised is returned as is.
func translateError(err error, resource string, id any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NewNotFoundError(resource, id)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return shared.ErrAlreadyExists.
			WithDetail("resource", resource).
			WithDetail("constraint", pgErr.ConstraintName)
	}
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching s literally anywhere.
// Pair it with ESCAPE '\'.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// lockForUpdate is SELECT ... FOR UPDATE; dialects without row locks ignore it
func lockForUpdate() clause.Locking {
	return clause.Locking{Strength: "UPDATE"}
}
