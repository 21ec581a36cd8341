package routes

import (
	"fulfillment-system/internal/controllers"

	"github.com/labstack/echo/v4"
)

func runShipmentRouter(api *echo.Group, shipmentCtrl *controllers.ShipmentController) {
	{
		api.GET("/shipments/:id", shipmentCtrl.GetShipment)
		api.POST("/shipments/select", shipmentCtrl.SelectShipment)
		api.POST("/shipments/scan", shipmentCtrl.RecordScan)
		api.POST("/shipments/adjust", shipmentCtrl.ManualAdjust)
		api.POST("/shipments/abandon", shipmentCtrl.Abandon)
		api.POST("/shipments/confirm", shipmentCtrl.ConfirmDispatch)
	}
}
