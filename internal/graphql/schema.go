package graphql

import (
	"errors"

	"github.com/graphql-go/graphql"

	"github.com/rafaelduarte/taskapi/internal/middleware"
	"github.com/rafaelduarte/taskapi/internal/models"
	"github.com/rafaelduarte/taskapi/internal/service"
)

// ErrNotLoggedIn is the resolver-level authentication error. Unlike REST,
// GraphQL requests are never rejected at the gate: this surfaces inside a
// 200 response's errors array.
var ErrNotLoggedIn = errors.New("Você precisa estar logado")

type authPayload struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expiresIn"`
}

var priorityEnum = graphql.NewEnum(graphql.EnumConfig{
	Name: "Priority",
	Values: graphql.EnumValueConfigMap{
		"LOW":    &graphql.EnumValueConfig{Value: models.PriorityLow},
		"MEDIUM": &graphql.EnumValueConfig{Value: models.PriorityMedium},
		"HIGH":   &graphql.EnumValueConfig{Value: models.PriorityHigh},
	},
})

var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "User",
	Fields: graphql.Fields{
		"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"email":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"name":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"role":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"createdAt": &graphql.Field{Type: graphql.DateTime},
		"updatedAt": &graphql.Field{Type: graphql.DateTime},
	},
})

var taskType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Task",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"ownerId":     &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"title":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"description": &graphql.Field{Type: graphql.String},
		"priority":    &graphql.Field{Type: graphql.NewNonNull(priorityEnum)},
		"completed":   &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"createdAt":   &graphql.Field{Type: graphql.DateTime},
		"updatedAt":   &graphql.Field{Type: graphql.DateTime},
	},
})

var authPayloadType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AuthPayload",
	Fields: graphql.Fields{
		"user":      &graphql.Field{Type: graphql.NewNonNull(userType)},
		"token":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"expiresIn": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
	},
})

var registerInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "RegisterInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"name":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"email":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"password": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
	},
})

var loginInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "LoginInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"email":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"password": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
	},
})

var createTaskInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "CreateTaskInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"title":       &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"description": &graphql.InputObjectFieldConfig{Type: graphql.String},
		"priority":    &graphql.InputObjectFieldConfig{Type: priorityEnum},
	},
})

var updateTaskInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "UpdateTaskInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"title":       &graphql.InputObjectFieldConfig{Type: graphql.String},
		"description": &graphql.InputObjectFieldConfig{Type: graphql.String},
		"priority":    &graphql.InputObjectFieldConfig{Type: priorityEnum},
		"completed":   &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
	},
})

// requireUser enforces authentication inside the resolver, per the GraphQL
// contract: no HTTP-level rejection.
func requireUser(p graphql.ResolveParams) (*models.AuthContext, error) {
	authCtx, ok := middleware.FromContext(p.Context)
	if !ok {
		return nil, ErrNotLoggedIn
	}
	return authCtx, nil
}

func inputArg(p graphql.ResolveParams) map[string]interface{} {
	input, _ := p.Args["input"].(map[string]interface{})
	return input
}

func stringField(input map[string]interface{}, key string) string {
	value, _ := input[key].(string)
	return value
}

// NewSchema builds the GraphQL schema over the same services the REST
// handlers use, so both facades share one set of authorization decisions.
func NewSchema(authService *service.AuthService, taskService *service.TaskService, expiresIn int) (graphql.Schema, error) {
	toPayload := func(resp *models.AuthResponse) *authPayload {
		return &authPayload{User: resp.User, Token: resp.Token, ExpiresIn: expiresIn}
	}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"me": &graphql.Field{
				Type: userType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					authCtx, err := requireUser(p)
					if err != nil {
						return nil, err
					}
					return authService.Profile(p.Context, authCtx.UserID)
				},
			},
			"task": &graphql.Field{
				Type: taskType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					authCtx, err := requireUser(p)
					if err != nil {
						return nil, err
					}
					id, _ := p.Args["id"].(string)
					return taskService.Get(p.Context, authCtx, id)
				},
			},
			"tasks": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(taskType)),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					authCtx, err := requireUser(p)
					if err != nil {
						return nil, err
					}
					return taskService.List(p.Context, authCtx)
				},
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"register": &graphql.Field{
				Type: authPayloadType,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(registerInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					input := inputArg(p)
					resp, err := authService.Register(p.Context, models.RegisterRequest{
						Name:     stringField(input, "name"),
						Email:    stringField(input, "email"),
						Password: stringField(input, "password"),
					})
					if err != nil {
						return nil, err
					}
					return toPayload(resp), nil
				},
			},
			"login": &graphql.Field{
				Type: authPayloadType,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(loginInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					input := inputArg(p)
					resp, err := authService.Login(p.Context, models.LoginRequest{
						Email:    stringField(input, "email"),
						Password: stringField(input, "password"),
					})
					if err != nil {
						return nil, err
					}
					return toPayload(resp), nil
				},
			},
			"createTask": &graphql.Field{
				Type: taskType,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(createTaskInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					authCtx, err := requireUser(p)
					if err != nil {
						return nil, err
					}
					input := inputArg(p)
					req := models.CreateTaskRequest{
						Title:       stringField(input, "title"),
						Description: stringField(input, "description"),
					}
					if priority, ok := input["priority"].(models.Priority); ok {
						req.Priority = priority
					}
					return taskService.Create(p.Context, authCtx, req)
				},
			},
			"updateTask": &graphql.Field{
				Type: taskType,
				Args: graphql.FieldConfigArgument{
					"id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(updateTaskInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					authCtx, err := requireUser(p)
					if err != nil {
						return nil, err
					}
					input := inputArg(p)

					var patch models.UpdateTaskRequest
					if value, ok := input["title"].(string); ok {
						patch.Title = &value
					}
					if value, ok := input["description"].(string); ok {
						patch.Description = &value
					}
					if value, ok := input["priority"].(models.Priority); ok {
						patch.Priority = &value
					}
					if value, ok := input["completed"].(bool); ok {
						patch.Completed = &value
					}

					id, _ := p.Args["id"].(string)
					return taskService.Update(p.Context, authCtx, id, patch)
				},
			},
			"deleteTask": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					authCtx, err := requireUser(p)
					if err != nil {
						return nil, err
					}
					id, _ := p.Args["id"].(string)
					if err := taskService.Delete(p.Context, authCtx, id); err != nil {
						return nil, err
					}
					return true, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}
