package system_healthcheck

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthcheckController struct {
	healthcheckService *HealthcheckService
}

func NewHealthcheckController(healthcheckService *HealthcheckService) *HealthcheckController {
	return &HealthcheckController{healthcheckService: healthcheckService}
}

func (c *HealthcheckController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/healthcheck", c.Healthcheck)
}

// Healthcheck
// @Summary Healthcheck
// @Description Probe every registered datasource and the cache
// @Tags system
// @Produce json
// @Success 200 {object} HealthReport
// @Failure 503 {object} HealthReport
// @Router /healthcheck [get]
func (c *HealthcheckController) Healthcheck(ctx *gin.Context) {
	report, healthy := c.healthcheckService.RunHealthcheck()
	if !healthy {
		ctx.JSON(http.StatusServiceUnavailable, report)
		return
	}

	ctx.JSON(http.StatusOK, report)
}
