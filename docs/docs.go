// Package docs registers the OpenAPI description served by the Swagger UI
// route (enabled with SWAGGER_ENABLED). Regenerate with `swag init -g
// cmd/server/main.go` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/home": {
            "get": {"tags": ["Stories"], "summary": "Landing page rails", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/stories": {
            "get": {"tags": ["Stories"], "summary": "List stories (filtered, paginated)", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "304": {"description": "Not Modified"}}},
            "post": {"tags": ["Stories"], "summary": "Create a story", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}}
        },
        "/stories/{slug}": {
            "get": {"tags": ["Stories"], "summary": "Story detail", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["Stories"], "summary": "Update a story", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["Stories"], "summary": "Delete a story", "responses": {"204": {"description": "No Content"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}
        },
        "/stories/{slug}/chapters": {
            "get": {"tags": ["Chapters"], "summary": "List chapters", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "304": {"description": "Not Modified"}, "404": {"description": "Not Found"}}},
            "post": {"tags": ["Chapters"], "summary": "Append a chapter", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"201": {"description": "Created"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}
        },
        "/stories/{slug}/chapters/{id}": {
            "get": {"tags": ["Chapters"], "summary": "Read a chapter", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["Chapters"], "summary": "Edit a chapter", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["Chapters"], "summary": "Delete a chapter", "responses": {"204": {"description": "No Content"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}
        },
        "/stories/{slug}/reviews": {
            "get": {"tags": ["Reviews"], "summary": "List reviews for a story", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "post": {"tags": ["Reviews"], "summary": "Review a story", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"201": {"description": "Created"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}}
        },
        "/reviews/{id}": {
            "put": {"tags": ["Reviews"], "summary": "Edit a review", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["Reviews"], "summary": "Delete a review", "responses": {"204": {"description": "No Content"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}
        },
        "/genres": {
            "get": {"tags": ["Genres"], "summary": "List genres", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Genres"], "summary": "Add a genre", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"201": {"description": "Created"}, "403": {"description": "Forbidden"}, "409": {"description": "Conflict"}}}
        },
        "/contact": {
            "get": {"tags": ["Contact"], "summary": "List contact messages", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}},
            "post": {"tags": ["Contact"], "summary": "Send a contact message", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"201": {"description": "Created"}, "401": {"description": "Unauthorized"}}}
        },
        "/contact/{id}": {
            "put": {"tags": ["Contact"], "summary": "Edit a contact message", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["Contact"], "summary": "Delete a contact message", "responses": {"204": {"description": "No Content"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}
        },
        "/auth/signup": {
            "post": {"tags": ["Accounts"], "summary": "Register an account", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/users/{username}": {
            "get": {"tags": ["Accounts"], "summary": "Public profile", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/account": {
            "put": {"tags": ["Accounts"], "summary": "Update the current account", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "409": {"description": "Conflict"}}},
            "delete": {"tags": ["Accounts"], "summary": "Delete the current account", "responses": {"204": {"description": "No Content"}, "401": {"description": "Unauthorized"}}}
        },
        "/account/password": {
            "put": {"tags": ["Accounts"], "summary": "Change password", "consumes": ["application/json"], "responses": {"204": {"description": "No Content"}, "403": {"description": "Forbidden"}}}
        },
        "/about": {
            "get": {"tags": ["Meta"], "summary": "About the service", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "dreambooks API",
	Description:      "Serialized fiction backend: stories, ordered chapters, reviews, and reader accounts.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
