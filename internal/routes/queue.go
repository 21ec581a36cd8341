package routes

import (
	"fulfillment-system/internal/controllers"

	"github.com/labstack/echo/v4"
)

func runQueueRouter(api *echo.Group, queueCtrl *controllers.QueueController, reportCtrl *controllers.ReportController) {
	{
		api.GET("/queue", queueCtrl.GetQueue)
		api.GET("/queue/export", reportCtrl.GetQueueReport)
	}
}
