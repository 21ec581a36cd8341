package routes

import (
	"fulfillment-system/internal/controllers"

	"github.com/labstack/echo/v4"
)

func runOrderRouter(api *echo.Group, orderCtrl *controllers.OrderController) {
	{
		api.GET("/orders", orderCtrl.GetOrders)
		api.POST("/orders", orderCtrl.CreateOrder)
		api.GET("/orders/:id", orderCtrl.FindOrder)
		api.PUT("/orders/:id", orderCtrl.UpdateOrder)
		api.DELETE("/orders/:id", orderCtrl.DeleteOrder)
		api.GET("/orders/:id/history", orderCtrl.GetHistory)
		api.GET("/orders/:id/label", orderCtrl.GetLabel)
		api.POST("/orders/labels/reconcile", orderCtrl.ReconcileLabel)

		api.POST("/orders/:id/accept-payment", orderCtrl.AcceptPayment)
		api.POST("/orders/:id/start-production", orderCtrl.StartProduction)
		api.POST("/orders/:id/advance-stage", orderCtrl.AdvanceStage)
		api.POST("/orders/:id/finish-production", orderCtrl.FinishProduction)
		api.POST("/orders/:id/mark-delivered", orderCtrl.MarkDelivered)
		api.POST("/orders/:id/cancel", orderCtrl.Cancel)
	}
}
