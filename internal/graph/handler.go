package graph

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/taskhub/internal/apperror"
	"github.com/keyxmakerx/taskhub/internal/session"
)

// Handler serves the schema over a single POST endpoint.
type Handler struct {
	schema graphql.Schema
}

func NewHandler(schema graphql.Schema) *Handler {
	return &Handler{schema: schema}
}

type request struct {
	Query         string          `json:"query"`
	OperationName string          `json:"operationName"`
	Variables     json.RawMessage `json:"variables"`
}

// Execute runs one GraphQL request. The caller's session travels from the
// echo context into the resolver context so both surfaces share a single
// resolution per request.
func (h *Handler) Execute(c echo.Context) error {
	var req request
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("malformed request body")
	}
	if req.Query == "" {
		return apperror.NewBadRequest("query is required")
	}

	variables, err := decodeVariables(req.Variables)
	if err != nil {
		return apperror.NewBadRequest("variables must be a JSON object")
	}

	ctx := session.NewContext(c.Request().Context(), session.Current(c))
	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: variables,
		RootObject:     map[string]any{"remoteIP": c.RealIP()},
		Context:        ctx,
	})
	return c.JSON(http.StatusOK, result)
}

// decodeVariables accepts either a JSON object or a JSON string holding
// one, which is how some clients double-encode the variables field.
func decodeVariables(raw json.RawMessage) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var variables map[string]any
	if err := json.Unmarshal(raw, &variables); err == nil {
		return variables, nil
	}
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, err
	}
	if encoded == "" {
		return nil, nil
	}
	if err := json.Unmarshal([]byte(encoded), &variables); err != nil {
		return nil, err
	}
	return variables, nil
}

// RegisterRoutes mounts the endpoint.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.POST("/graphql", h.Execute)
}
