// Package docs registers the OpenAPI document served under /swagger.
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
        "/auth/register": {
            "post": {
                "summary": "Register a new user",
                "tags": [
                    "auth"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/handler.Response"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/handler.Response"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/handler.Response"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handler.registerRequest"
                        }
                    }
                ],
                "consumes": [
                    "application/json"
                ]
            }
        },
        "/auth/login": {
            "post": {
                "summary": "Login",
                "tags": [
                    "auth"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handler.Response"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/handler.Response"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/handler.Response"
                        }
                    },
                    "429": {
                        "description": "Too Many Requests",
                        "schema": {
                            "$ref": "#/definitions/handler.Response"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handler.loginRequest"
                        }
                    }
                ],
                "consumes": [
                    "application/json"
                ]
            }
        },
        "/auth/me": {
            "get": {
                "summary": "Current user",
                "tags": [
                    "auth"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handler.Response"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/handler.Response"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/pools": {
            "get": {
                "summary": "List pools",
                "tags": [
                    "pools"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handler.Response"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/handler.Response"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/handler.Response"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "post": {
                "summary": "Create a pool",
                "tags": [
                    "pools"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/handler.Response"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/handler.Response"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/handler.Response"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/handler.Response"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handler.poolRequest"
                        }
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/pools/search": {
            "get": {
                "summary": "Search pools",
                "tags": [
                    "pools"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handler.Response"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/handler.Response"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/handler.Response"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/handler.Response"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "q",
                        "in": "query",
                        "required": true,
                        "type": "string"
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/pools/{id}": {
            "get": {
                "summary": "Get a pool",
                "tags": [
                    "pools"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handler.Response"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/handler.Response"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/handler.Response"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/handler.Response"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "put": {
                "summary": "Replace a pool",
                "tags": [
                    "pools"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handler.Response"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/handler.Response"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/handler.Response"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/handler.Response"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/handler.Response"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/handler.Response"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handler.poolRequest"
                        }
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "delete": {
                "summary": "Delete a pool",
                "tags": [
                    "pools"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handler.Response"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/handler.Response"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/handler.Response"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/handler.Response"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/handler.Response"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/users": {
            "post": {
                "summary": "Create a member",
                "tags": [
                    "users"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/handler.Response"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/handler.Response"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/handler.Response"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/handler.Response"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/handler.Response"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handler.createMemberRequest"
                        }
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/health": {
            "get": {
                "summary": "Liveness probe",
                "tags": [
                    "health"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/health/ready": {
            "get": {
                "summary": "Readiness probe",
                "tags": [
                    "health"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "503": {
                        "description": "Service Unavailable"
                    }
                }
            }
        }
    },
    "definitions": {
        "domain.FieldError": {
            "type": "object",
            "properties": {
                "field": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                }
            }
        },
        "domain.Pool": {
            "type": "object",
            "properties": {
                "homeOwnerName": {
                    "type": "string",
                    "maxLength": 100
                },
                "phone": {
                    "type": "string",
                    "example": "5125550100"
                },
                "address": {
                    "type": "string",
                    "maxLength": 200
                },
                "city": {
                    "type": "string",
                    "maxLength": 50
                },
                "state": {
                    "type": "string",
                    "maxLength": 50
                },
                "zipCode": {
                    "type": "string",
                    "example": "78701"
                },
                "length": {
                    "type": "number",
                    "minimum": 1
                },
                "width": {
                    "type": "number",
                    "minimum": 1
                },
                "gallons": {
                    "type": "integer",
                    "minimum": 1
                },
                "howManyInlets": {
                    "type": "integer",
                    "minimum": 0
                },
                "howManySkimmers": {
                    "type": "integer",
                    "minimum": 0
                },
                "howManyLadders": {
                    "type": "integer",
                    "minimum": 0
                },
                "howManySteps": {
                    "type": "integer",
                    "minimum": 0
                },
                "filterBrand": {
                    "type": "string",
                    "maxLength": 50
                },
                "filterModel": {
                    "type": "string",
                    "maxLength": 50
                },
                "filterSerial": {
                    "type": "string",
                    "maxLength": 50
                },
                "pumpBrand": {
                    "type": "string",
                    "maxLength": 50
                },
                "pumpModel": {
                    "type": "string",
                    "maxLength": 50
                },
                "pumpSerial": {
                    "type": "string",
                    "maxLength": 50
                },
                "poolCleanerBrand": {
                    "type": "string",
                    "maxLength": 50
                },
                "poolCleanerModel": {
                    "type": "string",
                    "maxLength": 50
                },
                "poolCleanerSerial": {
                    "type": "string",
                    "maxLength": 50
                },
                "heaterBrandNG": {
                    "type": "string",
                    "maxLength": 50
                },
                "heaterModelNG": {
                    "type": "string",
                    "maxLength": 50
                },
                "heaterSerialNG": {
                    "type": "string",
                    "maxLength": 50
                },
                "heaterBrandCBMS": {
                    "type": "string",
                    "maxLength": 50
                },
                "heaterModelCBMS": {
                    "type": "string",
                    "maxLength": 50
                },
                "heaterSerialCBMS": {
                    "type": "string",
                    "maxLength": 50
                },
                "id": {
                    "type": "string"
                },
                "userId": {
                    "type": "string"
                },
                "createdByName": {
                    "type": "string"
                },
                "createdAt": {
                    "type": "string"
                },
                "updatedAt": {
                    "type": "string"
                }
            }
        },
        "handler.Response": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "count": {
                    "type": "integer"
                },
                "data": {},
                "message": {
                    "type": "string"
                },
                "error": {
                    "type": "string"
                },
                "errors": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.FieldError"
                    }
                }
            }
        },
        "handler.identityResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "username": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "fullName": {
                    "type": "string"
                },
                "role": {
                    "type": "string",
                    "enum": [
                        "admin",
                        "user"
                    ]
                },
                "token": {
                    "type": "string"
                }
            }
        },
        "handler.registerRequest": {
            "type": "object",
            "properties": {
                "username": {
                    "type": "string",
                    "minLength": 3,
                    "maxLength": 50
                },
                "email": {
                    "type": "string"
                },
                "password": {
                    "type": "string",
                    "minLength": 6
                },
                "fullName": {
                    "type": "string",
                    "minLength": 2,
                    "maxLength": 100
                }
            },
            "required": [
                "username",
                "email",
                "password",
                "fullName"
            ]
        },
        "handler.loginRequest": {
            "type": "object",
            "properties": {
                "email": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                }
            },
            "required": [
                "email",
                "password"
            ]
        },
        "handler.createMemberRequest": {
            "type": "object",
            "properties": {
                "email": {
                    "type": "string"
                },
                "password": {
                    "type": "string",
                    "minLength": 6
                },
                "fullName": {
                    "type": "string",
                    "minLength": 2,
                    "maxLength": 100
                },
                "username": {
                    "type": "string",
                    "minLength": 3,
                    "maxLength": 50
                }
            },
            "required": [
                "email",
                "password",
                "fullName"
            ]
        },
        "handler.poolRequest": {
            "type": "object",
            "properties": {
                "homeOwnerName": {
                    "type": "string",
                    "maxLength": 100
                },
                "phone": {
                    "type": "string",
                    "example": "5125550100"
                },
                "address": {
                    "type": "string",
                    "maxLength": 200
                },
                "city": {
                    "type": "string",
                    "maxLength": 50
                },
                "state": {
                    "type": "string",
                    "maxLength": 50
                },
                "zipCode": {
                    "type": "string",
                    "example": "78701"
                },
                "length": {
                    "type": "number",
                    "minimum": 1
                },
                "width": {
                    "type": "number",
                    "minimum": 1
                },
                "gallons": {
                    "type": "integer",
                    "minimum": 1
                },
                "howManyInlets": {
                    "type": "integer",
                    "minimum": 0
                },
                "howManySkimmers": {
                    "type": "integer",
                    "minimum": 0
                },
                "howManyLadders": {
                    "type": "integer",
                    "minimum": 0
                },
                "howManySteps": {
                    "type": "integer",
                    "minimum": 0
                },
                "filterBrand": {
                    "type": "string",
                    "maxLength": 50
                },
                "filterModel": {
                    "type": "string",
                    "maxLength": 50
                },
                "filterSerial": {
                    "type": "string",
                    "maxLength": 50
                },
                "pumpBrand": {
                    "type": "string",
                    "maxLength": 50
                },
                "pumpModel": {
                    "type": "string",
                    "maxLength": 50
                },
                "pumpSerial": {
                    "type": "string",
                    "maxLength": 50
                },
                "poolCleanerBrand": {
                    "type": "string",
                    "maxLength": 50
                },
                "poolCleanerModel": {
                    "type": "string",
                    "maxLength": 50
                },
                "poolCleanerSerial": {
                    "type": "string",
                    "maxLength": 50
                },
                "heaterBrandNG": {
                    "type": "string",
                    "maxLength": 50
                },
                "heaterModelNG": {
                    "type": "string",
                    "maxLength": 50
                },
                "heaterSerialNG": {
                    "type": "string",
                    "maxLength": 50
                },
                "heaterBrandCBMS": {
                    "type": "string",
                    "maxLength": 50
                },
                "heaterModelCBMS": {
                    "type": "string",
                    "maxLength": 50
                },
                "heaterSerialCBMS": {
                    "type": "string",
                    "maxLength": 50
                }
            },
            "required": [
                "homeOwnerName",
                "phone",
                "address",
                "city",
                "state",
                "zipCode",
                "length",
                "width",
                "gallons",
                "howManyInlets",
                "howManySkimmers",
                "howManyLadders",
                "howManySteps"
            ]
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Type \"Bearer\" followed by a space and the JWT."
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Pool Registry API",
	Description:      "Swimming-pool equipment records with JWT authentication and role-based access.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
