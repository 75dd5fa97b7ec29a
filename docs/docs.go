// Package docs registers the Swagger document served under /swagger/.
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
        "/api/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Exchange credentials for a bearer token",
                "parameters": [
                    {
                        "description": "Email and password",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/api.credentialsRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/auth.LoginResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/api/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [
                    {
                        "description": "Email and password",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/api.credentialsRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/api.registerResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/api/bookings": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["bookings"],
                "summary": "Book seats on a flight",
                "parameters": [
                    {
                        "description": "Flight, seat count and one passenger per seat",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/api.createBookingRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/api.bookingResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/api/bookings/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["bookings"],
                "summary": "Get one of the caller's bookings",
                "parameters": [
                    {"type": "integer", "description": "Booking ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.bookingResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/api/flights": {
            "get": {
                "produces": ["application/json"],
                "tags": ["flights"],
                "summary": "Search flights by route and day",
                "parameters": [
                    {"type": "string", "description": "Origin IATA code", "name": "origin", "in": "query", "required": true},
                    {"type": "string", "description": "Destination IATA code", "name": "destination", "in": "query", "required": true},
                    {"type": "string", "description": "Departure day, YYYY-MM-DD (UTC)", "name": "date", "in": "query", "required": true},
                    {"type": "integer", "default": 1, "description": "Seats needed", "name": "passengers", "in": "query"},
                    {"type": "integer", "default": 50, "description": "Page size (1..100)", "name": "limit", "in": "query"},
                    {"type": "integer", "default": 0, "description": "Page offset", "name": "offset", "in": "query"},
                    {"type": "string", "default": "price", "description": "price or departure", "name": "sort", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.searchResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/api/flights/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["flights"],
                "summary": "Get a flight",
                "parameters": [
                    {"type": "integer", "description": "Flight ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Flight"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/ping": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "api.bookingResponse": {
            "type": "object",
            "properties": {"booking": {"$ref": "#/definitions/domain.Booking"}}
        },
        "api.createBookingRequest": {
            "type": "object",
            "properties": {
                "flight_id": {"type": "integer", "example": 1},
                "passengers": {"type": "array", "items": {"$ref": "#/definitions/domain.Passenger"}},
                "seats": {"type": "integer", "example": 1}
            }
        },
        "api.credentialsRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string", "example": "ann@example.com"},
                "password": {"type": "string", "example": "secret1"}
            }
        },
        "api.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "api.registerResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "user_id": {"type": "integer"}
            }
        },
        "api.searchMeta": {
            "type": "object",
            "properties": {"count": {"type": "integer"}}
        },
        "api.searchResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/domain.Flight"}},
                "meta": {"$ref": "#/definitions/api.searchMeta"}
            }
        },
        "auth.LoginResult": {
            "type": "object",
            "properties": {
                "expires_in": {"type": "integer"},
                "token": {"type": "string"},
                "user_id": {"type": "integer"}
            }
        },
        "domain.Booking": {
            "type": "object",
            "properties": {
                "confirmation": {"type": "string"},
                "created_at": {"type": "string"},
                "flight_id": {"type": "integer"},
                "id": {"type": "integer"},
                "passengers": {"type": "array", "items": {"$ref": "#/definitions/domain.Passenger"}},
                "price_per_seat": {"type": "number"},
                "seats_booked": {"type": "integer"},
                "status": {"type": "string"},
                "total_price": {"type": "number"},
                "user_id": {"type": "integer"}
            }
        },
        "domain.Flight": {
            "type": "object",
            "properties": {
                "airline": {"type": "string"},
                "airline_code": {"type": "string"},
                "arrival": {"type": "string"},
                "available_seats": {"type": "integer"},
                "departure": {"type": "string"},
                "destination": {"type": "string"},
                "duration": {"type": "integer"},
                "flight_number": {"type": "string"},
                "id": {"type": "integer"},
                "origin": {"type": "string"},
                "price": {"type": "number"}
            }
        },
        "domain.Passenger": {
            "type": "object",
            "properties": {
                "age": {"type": "integer"},
                "document_id": {"type": "string"},
                "email": {"type": "string"},
                "name": {"type": "string"},
                "nationality": {"type": "string"}
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
	Title:            "Flight Booking API",
	Description:      "Flight search, registration and atomic seat booking.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
