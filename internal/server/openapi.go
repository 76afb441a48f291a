package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/taletrail/trailgen/internal/ai"
	"github.com/taletrail/trailgen/internal/game"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Tale & Trail API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the Tale & Trail pub-crawl mystery generator.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(map[string]HealthStatus{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getHealthz)

	// POST /api/auth/signup
	postSignup, _ := r.NewOperationContext(http.MethodPost, "/api/auth/signup")
	postSignup.SetSummary("Sign up")
	postSignup.SetDescription("Creates an account and returns a bearer token.")
	postSignup.AddReqStructure(SignupRequest{})
	postSignup.AddRespStructure(AuthResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postSignup.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postSignup.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postSignup)

	// POST /api/auth/login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/api/auth/login")
	postLogin.SetSummary("Log in")
	postLogin.SetDescription("Authenticate with email and password. Returns a bearer token.")
	postLogin.AddReqStructure(LoginRequest{})
	postLogin.AddRespStructure(AuthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLogin)

	// GET /api/me
	getMe, _ := r.NewOperationContext(http.MethodGet, "/api/me")
	getMe.SetSummary("Current user")
	getMe.SetDescription("Returns the authenticated user and their role. Requires Bearer token.")
	getMe.AddRespStructure(MeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getMe.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getMe)

	// GET /api/games
	listGames, _ := r.NewOperationContext(http.MethodGet, "/api/games")
	listGames.SetSummary("List games")
	listGames.SetDescription("Returns all games owned by the caller, newest first. Requires Bearer token.")
	listGames.AddRespStructure([]game.Game{}, openapi.WithHTTPStatus(http.StatusOK))
	listGames.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(listGames)

	// POST /api/games
	createGame, _ := r.NewOperationContext(http.MethodPost, "/api/games")
	createGame.SetSummary("Create game")
	createGame.SetDescription("Creates a game owned by the caller. Route info is computed from the locations.")
	createGame.AddReqStructure(CreateGameRequest{})
	createGame.AddRespStructure(game.Game{}, openapi.WithHTTPStatus(http.StatusCreated))
	createGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	createGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(createGame)

	// POST /api/games/recalculate
	recalcRoutes, _ := r.NewOperationContext(http.MethodPost, "/api/games/recalculate")
	recalcRoutes.SetSummary("Recalculate routes")
	recalcRoutes.SetDescription("Recomputes and persists route info for all of the caller's games.")
	recalcRoutes.AddRespStructure([]game.Game{}, openapi.WithHTTPStatus(http.StatusOK))
	recalcRoutes.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(recalcRoutes)

	// GET /api/games/{gameID}
	getGame, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}")
	getGame.SetSummary("Get game")
	getGame.SetDescription("Returns one of the caller's games. Games owned by others answer 404.")
	getGame.AddRespStructure(game.Game{}, openapi.WithHTTPStatus(http.StatusOK))
	getGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	getGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getGame)

	// PUT /api/games/{gameID}
	updateGame, _ := r.NewOperationContext(http.MethodPut, "/api/games/{gameID}")
	updateGame.SetSummary("Update game")
	updateGame.SetDescription("Partially updates a game. Changing content recomputes the route info.")
	updateGame.AddReqStructure(UpdateGameRequest{})
	updateGame.AddRespStructure(game.Game{}, openapi.WithHTTPStatus(http.StatusOK))
	updateGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	updateGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	updateGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(updateGame)

	// PUT /api/games/{gameID}/route
	putRoute, _ := r.NewOperationContext(http.MethodPut, "/api/games/{gameID}/route")
	putRoute.SetSummary("Update route info")
	putRoute.SetDescription("Persists a precomputed route summary verbatim. success:false when the game is not owned.")
	putRoute.AddReqStructure(RouteInfoRequest{})
	putRoute.AddRespStructure(SuccessResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	putRoute.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	putRoute.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(putRoute)

	// DELETE /api/games/{gameID}
	deleteGame, _ := r.NewOperationContext(http.MethodDelete, "/api/games/{gameID}")
	deleteGame.SetSummary("Delete game")
	deleteGame.SetDescription("Permanently deletes one of the caller's games.")
	deleteGame.AddRespStructure(SuccessResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	deleteGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	deleteGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(deleteGame)

	// GET /api/templates
	listTemplates, _ := r.NewOperationContext(http.MethodGet, "/api/templates")
	listTemplates.SetSummary("List templates")
	listTemplates.SetDescription("Returns the template catalog. Requires Bearer token.")
	listTemplates.AddRespStructure([]game.Template{}, openapi.WithHTTPStatus(http.StatusOK))
	listTemplates.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(listTemplates)

	// POST /api/generate
	postGenerate, _ := r.NewOperationContext(http.MethodPost, "/api/generate")
	postGenerate.SetSummary("Generate game content")
	postGenerate.SetDescription("Generates story, locations, and characters via the selected provider.")
	postGenerate.AddReqStructure(GenerateRequest{})
	postGenerate.AddRespStructure(ai.Content{}, openapi.WithHTTPStatus(http.StatusOK))
	postGenerate.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postGenerate.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadGateway))
	_ = r.AddOperation(postGenerate)

	// GET /api/admin/users
	listUsers, _ := r.NewOperationContext(http.MethodGet, "/api/admin/users")
	listUsers.SetSummary("List users")
	listUsers.SetDescription("Returns all accounts. Requires the admin role.")
	listUsers.AddRespStructure([]UserSummary{}, openapi.WithHTTPStatus(http.StatusOK))
	listUsers.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	_ = r.AddOperation(listUsers)

	// POST /api/admin/cleanup-orphans
	postCleanup, _ := r.NewOperationContext(http.MethodPost, "/api/admin/cleanup-orphans")
	postCleanup.SetSummary("Clean up orphaned users")
	postCleanup.SetDescription("Deletes users without a profile row and their games. Requires the admin role.")
	postCleanup.AddRespStructure(CleanupResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postCleanup.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	_ = r.AddOperation(postCleanup)

	// POST /api/admin/templates
	createTemplate, _ := r.NewOperationContext(http.MethodPost, "/api/admin/templates")
	createTemplate.SetSummary("Create template")
	createTemplate.SetDescription("Adds a template to the catalog. Requires the admin role.")
	createTemplate.AddReqStructure(TemplateRequest{})
	createTemplate.AddRespStructure(game.Template{}, openapi.WithHTTPStatus(http.StatusCreated))
	createTemplate.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	createTemplate.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	_ = r.AddOperation(createTemplate)

	// PUT /api/admin/templates/{templateID}
	updateTemplate, _ := r.NewOperationContext(http.MethodPut, "/api/admin/templates/{templateID}")
	updateTemplate.SetSummary("Update template")
	updateTemplate.SetDescription("Replaces a template's fields. Requires the admin role.")
	updateTemplate.AddReqStructure(TemplateRequest{})
	updateTemplate.AddRespStructure(game.Template{}, openapi.WithHTTPStatus(http.StatusOK))
	updateTemplate.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	updateTemplate.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	_ = r.AddOperation(updateTemplate)

	// DELETE /api/admin/templates/{templateID}
	deleteTemplate, _ := r.NewOperationContext(http.MethodDelete, "/api/admin/templates/{templateID}")
	deleteTemplate.SetSummary("Delete template")
	deleteTemplate.SetDescription("Removes a template from the catalog. Requires the admin role.")
	deleteTemplate.AddRespStructure(SuccessResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	deleteTemplate.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	deleteTemplate.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	_ = r.AddOperation(deleteTemplate)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
