package router

import (
	"encoding/json"
	"net/http"

	"meal-planner/internal/config"
	"meal-planner/internal/handler"
	"meal-planner/internal/middleware"
	"meal-planner/internal/model"

	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers served by the router.
type Handlers struct {
	Recipe   *handler.RecipeHandler
	MealPlan *handler.MealPlanHandler
	Shopping *handler.ShoppingHandler
	Data     *handler.DataHandler
	Health   *handler.HealthHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, limits config.RateLimitConfig, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", h.Health.Check)

	// Recipe handler function
	recipeRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/recipes" || r.URL.Path == "/api/recipes/" {
			switch r.Method {
			case http.MethodPost:
				h.Recipe.Create(w, r)
			default:
				h.Recipe.List(w, r)
			}
			return
		}

		switch r.Method {
		case http.MethodPut:
			h.Recipe.Update(w, r)
		case http.MethodDelete:
			h.Recipe.Delete(w, r)
		default:
			h.Recipe.GetByID(w, r)
		}
	}

	mux.HandleFunc("/api/recipes", recipeRouteHandler)
	mux.HandleFunc("/api/recipes/", recipeRouteHandler)

	// Meal plan handler function
	mealPlanRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/meal-plans" || r.URL.Path == "/api/meal-plans/" {
			h.MealPlan.List(w, r)
			return
		}

		switch r.Method {
		case http.MethodPut:
			h.MealPlan.Assign(w, r)
		case http.MethodDelete:
			h.MealPlan.Delete(w, r)
		default:
			h.MealPlan.GetByDate(w, r)
		}
	}

	mux.HandleFunc("/api/meal-plans", mealPlanRouteHandler)
	mux.HandleFunc("/api/meal-plans/", mealPlanRouteHandler)

	mux.HandleFunc("/api/shopping-list", h.Shopping.List)
	mux.HandleFunc("/api/shopping-list/weeks", h.Shopping.Weeks)

	mux.HandleFunc("/api/data", h.Data.Clear)
	mux.HandleFunc("/api/data/export", h.Data.Export)
	mux.HandleFunc("/api/data/import", h.Data.Import)

	mux.HandleFunc("/", notFound)

	// Apply middleware in order: Recovery -> Logging -> CORS -> RateLimit
	var handler http.Handler = mux
	handler = middleware.RateLimit(limits.RPS, limits.Burst, logger)(handler)
	handler = middleware.CORS(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler
}

func notFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{
		Error:   model.ErrCodeNotFound,
		Message: "no route for " + r.URL.Path,
	})
}
