package router

import (
	"net/http"

	"nutriplan/internal/auth"
	"nutriplan/internal/handler"
)

// NewRouter wires the HTTP routes. /clone requires a bearer token,
// /migrate-to-two-week additionally requires the admin role, and plan
// deletion is the only authenticated method on /plans/{id}.
func NewRouter(
	cloneHandler *handler.CloneHandler,
	completionHandler *handler.CompletionHandler,
	planHandler *handler.PlanHandler,
	analyticsHandler *handler.AnalyticsHandler,
	migrationHandler *handler.MigrationHandler,
	authenticator *auth.Authenticator,
) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/clone", authenticator.RequireAuth(cloneHandler.Clone))
	mux.HandleFunc("/meal-completion", completionHandler.SetMealCompletion)
	mux.HandleFunc("/food-completion", completionHandler.SetFoodCompletion)
	mux.HandleFunc("/migrate-to-two-week", authenticator.RequireAdmin(migrationHandler.MigrateToTwoWeek))

	mux.HandleFunc("/plans", planHandler.ListPlans)
	mux.HandleFunc("/plans/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			authenticator.RequireAuth(planHandler.PlanByID)(w, r)
			return
		}
		planHandler.PlanByID(w, r)
	})

	mux.HandleFunc("/analytics/calories", analyticsHandler.GetPlanCalories)
	mux.HandleFunc("/week-day", planHandler.GetWeekDay)

	return mux
}
