// Package sqlxrepos implements the domain repositories on PostgreSQL via
// sqlx. Scope filters are translated to WHERE predicates so role isolation
// happens in the query itself, never after fetching.
package sqlxrepos

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/chuo/core"
)

// ensureFound maps a zero-row UPDATE/DELETE to the domain not-found error.
func ensureFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "checking affected rows")
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// conds accumulates WHERE predicates with positional args.
type conds struct {
	exprs []string
	args  []interface{}
}

// add appends "col = $n" style predicates; expr must contain exactly one %d
// verb for the placeholder index.
func (c *conds) add(expr string, arg interface{}) {
	c.args = append(c.args, arg)
	c.exprs = append(c.exprs, fmt.Sprintf(expr, len(c.args)))
}

// scope appends the scope predicate on the given student-id column. For a
// faculty caller the allowed set is unioned with rows they authored, so
// unassigning a student never hides the faculty's own history.
func (c *conds) scope(sf core.ScopeFilter, studentCol, authorCol, authorID string) {
	if sf.Unrestricted {
		return
	}
	c.args = append(c.args, pq.Array(sf.StudentIDs))
	expr := fmt.Sprintf("%s = ANY($%d)", studentCol, len(c.args))
	if authorID != "" {
		c.args = append(c.args, authorID)
		expr = fmt.Sprintf("(%s OR %s = $%d)", expr, authorCol, len(c.args))
	}
	c.exprs = append(c.exprs, expr)
}

func (c *conds) where() string {
	if len(c.exprs) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.exprs, " AND ")
}
