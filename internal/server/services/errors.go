// Package services contains the server-side business logic: accounts and
// sessions (UserService), the file catalog (FileService) and liveness and
// usage reporting (StatusService).
//
// Expected outcomes are returned as the sentinels of package common. Anything
// else is logged and replaced by common.ErrorInternal.
package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/logging"
)

func isExpected(err error) bool {
	return errors.Is(err, common.ErrorValidation) ||
		errors.Is(err, common.ErrorNotFound) ||
		errors.Is(err, common.ErrorAlreadyExists) ||
		errors.Is(err, common.ErrorUnauthorized) ||
		errors.Is(err, common.ErrorInternal)
}

// translate passes expected errors through and turns the rest into
// common.ErrorInternal after logging them.
func translate(ctx context.Context, logger logging.Logger, op string, err error) error {
	if err == nil || isExpected(err) {
		return err
	}
	logger.Error(ctx, op+" failed", "error", err)
	return common.ErrorInternal
}
