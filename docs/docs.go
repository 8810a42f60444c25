// Package docs registers the swagger document served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/activity": {
            "get": {
                "description": "Filter the activity log by time (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD') and type. A date-only 'to' covers the whole day.",
                "produces": ["application/json"],
                "tags": ["activity"],
                "summary": "List activity",
                "parameters": [
                    {"type": "string", "example": "2026-01-01", "description": "Start of range", "name": "from", "in": "query"},
                    {"type": "string", "example": "2026-01-31", "description": "End of range, date-only is end of day", "name": "to", "in": "query"},
                    {
                        "enum": ["USER_REGISTERED", "LOGIN", "LOGOUT", "POST_CREATED", "POST_LIKED", "POST_DELETED"],
                        "type": "string",
                        "description": "Activity type",
                        "name": "type",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {"description": "count, events", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/avatar/{username}": {
            "get": {
                "description": "PNG with the upper-cased first character of the username on a blue square.",
                "produces": ["image/png"],
                "tags": ["users"],
                "summary": "User avatar",
                "parameters": [
                    {"type": "string", "description": "Username", "name": "username", "in": "path", "required": true},
                    {"type": "integer", "description": "Edge length in pixels (default 100, max 512)", "name": "size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/like/{id}": {
            "post": {
                "description": "Increments the like count of a post authored by someone else.",
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Like a post",
                "parameters": [
                    {"type": "integer", "description": "Post ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.likeResponse"}},
                    "302": {"description": "not logged in, redirect to /login"}
                }
            }
        },
        "/ws": {
            "get": {
                "description": "WebSocket that pushes the feed (most recent first) immediately and then every interval.",
                "tags": ["posts"],
                "summary": "Feed stream",
                "parameters": [
                    {"type": "string", "example": "5s", "description": "Push interval as a Go duration, max 30s", "name": "interval", "in": "query"},
                    {"type": "integer", "description": "Push interval in milliseconds, max 30000", "name": "interval_ms", "in": "query"}
                ],
                "responses": {
                    "101": {"description": "switching protocols"}
                }
            }
        }
    },
    "definitions": {
        "handlers.likeResponse": {
            "type": "object",
            "properties": {
                "likes": {"type": "integer"},
                "success": {"type": "boolean"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "microblog",
	Description:      "JSON endpoints of the microblog web app. HTML pages are not described.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
