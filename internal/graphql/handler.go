package graphql

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/rafaelduarte/taskapi/internal/logger"
	"github.com/rafaelduarte/taskapi/internal/service"
)

type request struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// Handler serves the single /graphql endpoint. Execution errors, including
// authentication failures, travel in the response body with HTTP 200; only a
// body that cannot be parsed at all gets a 400.
type Handler struct {
	schema graphql.Schema
	log    *logger.Logger
}

func NewHandler(authService *service.AuthService, taskService *service.TaskService, expiresIn int) (*Handler, error) {
	schema, err := NewSchema(authService, taskService, expiresIn)
	if err != nil {
		return nil, err
	}

	return &Handler{
		schema: schema,
		log:    logger.New("graphql"),
	}, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req request

	switch r.Method {
	case http.MethodPost:
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
	case http.MethodGet:
		req.Query = r.URL.Query().Get("query")
		req.OperationName = r.URL.Query().Get("operationName")
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        r.Context(),
	})

	if len(result.Errors) > 0 {
		h.log.Debug("query finished with %d error(s): %v", len(result.Errors), result.Errors)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
