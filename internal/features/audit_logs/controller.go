package audit_logs

import (
	"net/http"

	"storefront/internal/util/apierror"

	"github.com/gin-gonic/gin"
)

type AuditLogController struct {
	auditLogService *AuditLogService
}

func NewAuditLogController(auditLogService *AuditLogService) *AuditLogController {
	return &AuditLogController{auditLogService: auditLogService}
}

// Admin gating is applied where these routes are registered.
func (c *AuditLogController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/audit-logs", c.ListAuditLogs)
}

// ListAuditLogs
// @Summary List audit logs (ADMIN only)
// @Description List the entity mutation trail with filtering, sorting and pagination
// @Tags audit-logs
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} repository.PaginatedResult[AuditLog]
// @Failure 401
// @Failure 403
// @Router /audit-logs [get]
func (c *AuditLogController) ListAuditLogs(ctx *gin.Context) {
	result, err := c.auditLogService.ListAuditLogs(ctx.Request.URL.Query())
	if err != nil {
		apierror.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}
