package facade

import (
	"net/http"

	"github.com/Alkran93/Project-BICPV-sub001/internal/modules/facade/controller"
	"github.com/Alkran93/Project-BICPV-sub001/internal/modules/facade/service"
)

// RegisterFeature mounts the dashboard and its API on the mux.
func RegisterFeature(mux *http.ServeMux, svc controller.DashboardService, alertStore controller.AlertStore, dashboards []*service.Dashboard) {
	facadeController := controller.NewFacadeController(svc, alertStore, dashboards)
	facadeController.RegisterRoutes(mux)
}
