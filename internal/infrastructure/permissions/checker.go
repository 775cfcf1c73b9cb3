// Package permissions проверяет возможности роли пользователя по конфигурации.
package permissions

import (
	"context"
	"slices"

	"github.com/DRSN-tech/marketplace-sync/internal/cfg"
	"github.com/DRSN-tech/marketplace-sync/internal/infrastructure/i18n"
	"github.com/DRSN-tech/marketplace-sync/internal/usecase"
	"github.com/DRSN-tech/marketplace-sync/pkg/logger"
)

type RoleChecker struct {
	roles     map[string][]string
	localizer usecase.Localizer
	logger    logger.Logger
}

func NewRoleChecker(cfg *cfg.PermissionsCfg, localizer usecase.Localizer, logger logger.Logger) *RoleChecker {
	return &RoleChecker{
		roles:     cfg.Roles,
		localizer: localizer,
		logger:    logger,
	}
}

func (r *RoleChecker) Check(_ context.Context, actor usecase.Actor, capability string) usecase.PermissionResult {
	if slices.Contains(r.roles[actor.Role], capability) {
		return usecase.PermissionResult{Allow: true}
	}

	r.logger.Debugf("user %d with role %q denied %s", actor.UserID, actor.Role, capability)
	return usecase.PermissionResult{Message: r.localizer.Message(actor.Locale, i18n.MsgPermissionDenied)}
}
