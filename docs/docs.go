// Package docs holds the registered OpenAPI description served at /swagger.
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
        "/": {
            "get": {
                "description": "Reports that the service is up",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.HealthResponse"}}
                }
            }
        },
        "/api/submit-order": {
            "post": {
                "description": "Accepts customer details, frame and collage selections and up to 10 photos (10 MiB each), stores them in a new order folder and records the order as completed.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Submit an order",
                "parameters": [
                    {"type": "file", "description": "Customer photos (up to 10)", "name": "photos", "in": "formData"},
                    {"type": "string", "description": "JSON object with customer details", "name": "customerInfo", "in": "formData"},
                    {"type": "string", "description": "JSON object with the chosen frame", "name": "frameSelection", "in": "formData"},
                    {"type": "string", "description": "JSON array of collage selections", "name": "collageSelection", "in": "formData"},
                    {"type": "string", "description": "Free-form notes", "name": "specialRequests", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SubmitOrderResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.FailureResponse"}}
                }
            }
        },
        "/api/order/{orderId}": {
            "get": {
                "description": "Returns the recorded order for a previously returned order id",
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Get order status",
                "parameters": [
                    {"type": "string", "example": "ORD_LRERXYY3_4K7ZQ", "description": "Order ID", "name": "orderId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.OrderStatusResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.FailureResponse"}}
                }
            }
        },
        "/api/orders": {
            "get": {
                "security": [{"Bearer": []}],
                "description": "Lists every recorded order, oldest first",
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "List orders",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.OrderListResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.FailureResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/models.FailureResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.FailureResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.FailureResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string", "example": "Failed to submit order"},
                "success": {"type": "boolean", "example": false}
            }
        },
        "models.HealthResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "Artistic Unity Backend is running!"},
                "timestamp": {"type": "string", "example": "2024-01-15T10:20:30.123Z"}
            }
        },
        "models.Order": {
            "type": "object",
            "properties": {
                "collageSelection": {"type": "array", "items": {}},
                "customerInfo": {"type": "object", "additionalProperties": true},
                "driveFolderId": {"type": "string"},
                "driveFolderUrl": {"type": "string"},
                "error": {"type": "string"},
                "folderName": {"type": "string"},
                "frameSelection": {"type": "object", "additionalProperties": true},
                "id": {"type": "string"},
                "photos": {"type": "array", "items": {"$ref": "#/definitions/models.Photo"}},
                "specialRequests": {"type": "string"},
                "status": {"type": "string", "enum": ["processing", "completed", "failed"]},
                "timestamp": {"type": "string"}
            }
        },
        "models.OrderListResponse": {
            "type": "object",
            "properties": {
                "count": {"type": "integer", "example": 1},
                "orders": {"type": "array", "items": {"$ref": "#/definitions/models.Order"}},
                "success": {"type": "boolean", "example": true}
            }
        },
        "models.OrderStatusResponse": {
            "type": "object",
            "properties": {
                "order": {"$ref": "#/definitions/models.Order"},
                "success": {"type": "boolean", "example": true}
            }
        },
        "models.Photo": {
            "type": "object",
            "properties": {
                "mimeType": {"type": "string"},
                "originalName": {"type": "string"},
                "size": {"type": "integer"}
            }
        },
        "models.SubmitOrderResponse": {
            "type": "object",
            "properties": {
                "driveFolderUrl": {"type": "string", "example": "https://drive.google.com/drive/folders/1AbC"},
                "message": {"type": "string", "example": "Order submitted successfully!"},
                "orderId": {"type": "string", "example": "ORD_LRZ8K2QF_4K7ZQ"},
                "success": {"type": "boolean", "example": true},
                "timestamp": {"type": "string", "example": "2024-01-15T10:20:30.123Z"}
            }
        }
    },
    "securityDefinitions": {
        "Bearer": {
            "description": "Type \"Bearer\" followed by a space and an admin JWT.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:3000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Artistic Unity Backend API",
	Description:      "Order intake for custom framed photo collages. Orders are stored in a per-order folder and tracked by id.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
