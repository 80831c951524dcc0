// Package docs registers the swagger spec served under /swagger/*.
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
        "/users/": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "List users",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.userResponse"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Create user",
                "parameters": [
                    {"description": "New user", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createUserRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.userResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "tags": ["users"],
                "summary": "Delete user",
                "parameters": [
                    {"description": "User to delete", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.deleteUserRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            }
        },
        "/users/login": {
            "post": {
                "consumes": ["application/x-www-form-urlencoded", "application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Login",
                "parameters": [
                    {"description": "Login credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.tokenResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            }
        },
        "/users/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Logout",
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            }
        },
        "/users/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.meResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            }
        }
    },
    "definitions": {
        "handler.createUserRequest": {
            "type": "object",
            "required": ["email", "password", "role", "username"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "restaurant": {"type": "string"},
                "role": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "handler.deleteUserRequest": {
            "type": "object",
            "required": ["email", "username"],
            "properties": {
                "email": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "handler.errorBody": {
            "type": "object",
            "properties": {
                "detail": {"type": "string"}
            }
        },
        "handler.loginRequest": {
            "type": "object",
            "properties": {
                "password": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "handler.meResponse": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "id": {"type": "integer"},
                "restaurant": {"type": "string"},
                "role": {"type": "string"},
                "scopes": {"type": "array", "items": {"type": "string"}},
                "username": {"type": "string"}
            }
        },
        "handler.tokenResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "expires_at": {"type": "string"},
                "token_type": {"type": "string"}
            }
        },
        "handler.userResponse": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "id": {"type": "integer"},
                "restaurant": {"type": "string"},
                "role": {"type": "string"},
                "username": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Staff Auth API",
	Description:      "User management and authentication for restaurant staff.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
