package errors

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// StoreFailure is the driver-level detail of a failed basket store call.
type StoreFailure struct {
	Engine     string `json:"engine"`
	Code       string `json:"code,omitempty"`
	Constraint string `json:"constraint,omitempty"`
	Table      string `json:"table,omitempty"`
	Column     string `json:"column,omitempty"`
	Detail     string `json:"detail,omitempty"`
	Message    string `json:"message,omitempty"`
}

// ErrorDump flattens an error chain for logging. It is never sent to clients.
type ErrorDump struct {
	Message   string        `json:"message"`
	Code      Code          `json:"code,omitempty"`
	Retryable bool          `json:"retryable,omitempty"`
	Deadline  bool          `json:"deadline,omitempty"`
	Chain     []string      `json:"chain,omitempty"`
	Store     *StoreFailure `json:"store,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		Message:   err.Error(),
		Retryable: IsRetryable(err),
		Deadline:  errors.Is(err, context.DeadlineExceeded),
		Store:     storeFailure(err),
	}
	if te := As(err); te != nil {
		d.Code = te.Code()
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}
	return d
}

func storeFailure(err error) *StoreFailure {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return &StoreFailure{
			Engine:     "postgres",
			Code:       pgxErr.Code,
			Constraint: pgxErr.ConstraintName,
			Table:      pgxErr.TableName,
			Column:     pgxErr.ColumnName,
			Detail:     pgxErr.Detail,
			Message:    pgxErr.Message,
		}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return &StoreFailure{
			Engine:     "postgres",
			Code:       string(pqErr.Code),
			Constraint: pqErr.Constraint,
			Table:      pqErr.Table,
			Column:     pqErr.Column,
			Detail:     pqErr.Detail,
			Message:    pqErr.Message,
		}
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return &StoreFailure{
			Engine:  "sqlite",
			Code:    strconv.Itoa(int(liteErr.ExtendedCode)),
			Message: liteErr.Error(),
		}
	}
	return nil
}

// Fields returns the dump as log fields, omitting empty store details. The
// message itself is left to the log event's error field.
func (d ErrorDump) Fields() map[string]any {
	fields := map[string]any{
		"error_code":  d.Code,
		"error_chain": d.Chain,
	}
	if d.Retryable {
		fields["retryable"] = true
	}
	if d.Deadline {
		fields["deadline_exceeded"] = true
	}
	if s := d.Store; s != nil {
		fields["db_engine"] = s.Engine
		for key, value := range map[string]string{
			"db_code":       s.Code,
			"db_constraint": s.Constraint,
			"db_table":      s.Table,
			"db_column":     s.Column,
			"db_detail":     s.Detail,
			"db_message":    s.Message,
		} {
			if value != "" {
				fields[key] = value
			}
		}
	}
	return fields
}
