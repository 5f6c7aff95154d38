package system_info

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type SystemInfoController struct {
	systemInfoService *SystemInfoService
}

func NewSystemInfoController(systemInfoService *SystemInfoService) *SystemInfoController {
	return &SystemInfoController{systemInfoService: systemInfoService}
}

// Admin gating is applied where these routes are registered.
func (c *SystemInfoController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/system/info", c.GetSystemInfo)
}

// GetSystemInfo
// @Summary Get system resource usage (ADMIN only)
// @Tags system
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SystemInfoResponse
// @Failure 401
// @Failure 403
// @Router /system/info [get]
func (c *SystemInfoController) GetSystemInfo(ctx *gin.Context) {
	info, err := c.systemInfoService.GetSystemInfo()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read system info"})
		return
	}

	ctx.JSON(http.StatusOK, info)
}
