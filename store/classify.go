package store

import (
	"context"
	"errors"
	"net"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/joCur/later-server/domain"
)

// classify maps a raw store failure onto the domain error taxonomy. Callers
// above the store never see a pg error or a net error directly.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return &domain.Error{Kind: domain.KindNotFound, Message: "row not found", Err: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgerrcode.IsIntegrityConstraintViolation(pgErr.Code):
			return &domain.Error{Kind: domain.KindConstraintViolation, Message: pgErr.Message, Err: err}
		case pgErr.Code == pgerrcode.InsufficientPrivilege:
			return &domain.Error{Kind: domain.KindPermissionDenied, Message: pgErr.Message, Err: err}
		default:
			return &domain.Error{Kind: domain.KindUnknown, Message: pgErr.Message, Err: err}
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &domain.Error{Kind: domain.KindNetworkTimeout, Message: "store call timed out", Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return &domain.Error{Kind: domain.KindNetworkTimeout, Message: "store call timed out", Err: err}
		}
		return &domain.Error{Kind: domain.KindNetworkUnavailable, Message: "store unreachable", Err: err}
	}

	return &domain.Error{Kind: domain.KindUnknown, Message: err.Error(), Err: err}
}
