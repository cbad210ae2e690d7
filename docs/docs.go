// Package docs registers the OpenAPI document served under /swagger.
// Keep it in step with the annotations on the controllers.
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
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Service information",
                "responses": {
                    "200": {"description": "Service information", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "Healthy", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "503": {"description": "Database unreachable", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Admin login",
                "parameters": [
                    {"description": "Login credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Login successful", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "401": {"description": "Invalid or expired credentials", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/auth/verify": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Verify a token",
                "parameters": [
                    {"type": "string", "description": "Token to verify", "name": "token", "in": "query"},
                    {"description": "Token to verify", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/dto.VerifyTokenRequest"}}
                ],
                "responses": {
                    "200": {"description": "Verification result", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/students": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["students"],
                "summary": "List students",
                "parameters": [
                    {"type": "string", "description": "Substring of student ID or name", "name": "search", "in": "query"},
                    {"type": "string", "description": "Exact grade", "name": "grade", "in": "query"},
                    {"type": "boolean", "default": true, "description": "Only active students", "name": "active_only", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Students", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "401": {"description": "Invalid or expired credentials", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["students"],
                "summary": "Create a student",
                "parameters": [
                    {"description": "Student information", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateStudentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Student created", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "401": {"description": "Invalid or expired credentials", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "409": {"description": "Student ID already allocated", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/students/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["students"],
                "summary": "Get a student",
                "parameters": [
                    {"type": "string", "description": "Student ID (STU-001) or internal ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Student", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "404": {"description": "Student not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["students"],
                "summary": "Update a student",
                "parameters": [
                    {"type": "string", "description": "Student ID (STU-001) or internal ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.UpdateStudentRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated student", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Student not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["students"],
                "summary": "Deactivate a student",
                "parameters": [
                    {"type": "string", "description": "Student ID (STU-001) or internal ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Deactivated student", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "404": {"description": "Student not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/students/{id}/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["students"],
                "summary": "Student profile",
                "parameters": [
                    {"type": "string", "description": "Student ID (STU-001) or internal ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Profile", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "404": {"description": "Student not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/marks": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["marks"],
                "summary": "List marks records",
                "parameters": [
                    {"type": "string", "description": "Exact term", "name": "term", "in": "query"},
                    {"type": "integer", "description": "Exact year", "name": "year", "in": "query"},
                    {"type": "boolean", "default": true, "description": "Only active records", "name": "active_only", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Marks records", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "401": {"description": "Invalid or expired credentials", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["marks"],
                "summary": "Create a marks record",
                "parameters": [
                    {"description": "Marks record", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateMarksRequest"}}
                ],
                "responses": {
                    "201": {"description": "Marks record created", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Student not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "409": {"description": "Marks already exist for this term and year", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/marks/stats/summary": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["marks"],
                "summary": "Marks summary",
                "responses": {
                    "200": {"description": "Summary", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/marks/student/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["marks"],
                "summary": "List a student's marks",
                "parameters": [
                    {"type": "string", "description": "Student ID (STU-001)", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Exact term", "name": "term", "in": "query"},
                    {"type": "integer", "description": "Exact year", "name": "year", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Marks records", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/marks/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["marks"],
                "summary": "Get a marks record",
                "parameters": [
                    {"type": "string", "format": "uuid", "description": "Marks record ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Marks record", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "400": {"description": "Invalid marks ID format", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Marks not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["marks"],
                "summary": "Update a marks record",
                "parameters": [
                    {"type": "string", "format": "uuid", "description": "Marks record ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.UpdateMarksRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated marks record", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "400": {"description": "Validation error or invalid marks ID format", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Marks not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "409": {"description": "Marks already exist for this term and year", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["marks"],
                "summary": "Deactivate a marks record",
                "parameters": [
                    {"type": "string", "format": "uuid", "description": "Marks record ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Deactivated marks record", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "400": {"description": "Invalid marks ID format", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Marks not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/marks/{id}/subject/{name}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["marks"],
                "summary": "Deactivate a subject",
                "parameters": [
                    {"type": "string", "format": "uuid", "description": "Marks record ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Subject name", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Updated marks record", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "400": {"description": "Invalid marks ID format", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Marks or subject not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.APIResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "data": {},
                "error": {"$ref": "#/definitions/dto.ErrorDetail"},
                "timestamp": {"type": "string", "example": "2025-04-23T12:01:05.123Z"}
            }
        },
        "dto.ErrorDetail": {
            "type": "object",
            "properties": {
                "code": {"type": "string", "example": "VAL_001"},
                "message": {"type": "string"},
                "field": {"type": "string", "example": "subjects[0].mark"},
                "severity": {"type": "string", "example": "ERROR"},
                "details": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/apperrors.FieldError"}
                }
            }
        },
        "apperrors.FieldError": {
            "type": "object",
            "properties": {
                "field": {"type": "string", "example": "subjects[0].mark"},
                "message": {"type": "string", "example": "must be less than or equal to 100"}
            }
        },
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": false},
                "error": {"$ref": "#/definitions/dto.ErrorDetail"},
                "timestamp": {"type": "string"}
            }
        },
        "dto.LoginRequest": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {
                "username": {"type": "string", "example": "Admin"},
                "password": {"type": "string", "example": "Abc@12345"}
            }
        },
        "dto.VerifyTokenRequest": {
            "type": "object",
            "properties": {
                "token": {"type": "string"}
            }
        },
        "dto.CreateStudentRequest": {
            "type": "object",
            "required": ["grade", "name"],
            "properties": {
                "name": {"type": "string", "maxLength": 100, "minLength": 2, "example": "Kamal Perera"},
                "grade": {"type": "string", "maxLength": 10, "minLength": 1, "example": "10"},
                "mobileNumbers": {"type": "array", "items": {"type": "string"}, "example": ["+94 77 123 4567"]}
            }
        },
        "dto.UpdateStudentRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "maxLength": 100, "minLength": 2},
                "grade": {"type": "string", "maxLength": 10, "minLength": 1},
                "mobileNumbers": {"type": "array", "items": {"type": "string"}},
                "isActive": {"type": "boolean"}
            }
        },
        "dto.SubjectMarkInput": {
            "type": "object",
            "required": ["mark", "subjectName"],
            "properties": {
                "subjectName": {"type": "string", "maxLength": 50, "minLength": 1, "example": "Mathematics"},
                "mark": {"type": "number", "maximum": 100, "minimum": 0, "example": 78.5},
                "isActive": {"type": "boolean"}
            }
        },
        "dto.CreateMarksRequest": {
            "type": "object",
            "required": ["studentId", "term", "year"],
            "properties": {
                "studentId": {"type": "string", "example": "STU-001"},
                "term": {"type": "string", "maxLength": 20, "minLength": 1, "example": "Term 1"},
                "year": {"type": "integer", "maximum": 2100, "minimum": 2000, "example": 2024},
                "subjects": {"type": "array", "items": {"$ref": "#/definitions/dto.SubjectMarkInput"}}
            }
        },
        "dto.UpdateMarksRequest": {
            "type": "object",
            "properties": {
                "term": {"type": "string", "maxLength": 20, "minLength": 1},
                "year": {"type": "integer", "maximum": 2100, "minimum": 2000},
                "subjects": {"type": "array", "items": {"$ref": "#/definitions/dto.SubjectMarkInput"}},
                "isActive": {"type": "boolean"}
            }
        },
        "models.Student": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "studentId": {"type": "string", "example": "STU-001"},
                "name": {"type": "string"},
                "grade": {"type": "string"},
                "mobileNumbers": {"type": "array", "items": {"type": "string"}},
                "isActive": {"type": "boolean"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "models.SubjectMark": {
            "type": "object",
            "properties": {
                "subjectName": {"type": "string"},
                "mark": {"type": "number"},
                "isActive": {"type": "boolean"}
            }
        },
        "models.MarksRecord": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "studentId": {"type": "string"},
                "term": {"type": "string"},
                "year": {"type": "integer"},
                "subjects": {"type": "array", "items": {"$ref": "#/definitions/models.SubjectMark"}},
                "isActive": {"type": "boolean"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "dto.MarksSummaryResponse": {
            "type": "object",
            "properties": {
                "totalStudents": {"type": "integer"},
                "totalMarksRecords": {"type": "integer"},
                "averageMark": {"type": "number"},
                "totalSubjectEntries": {"type": "integer"},
                "availableTerms": {"type": "array", "items": {"type": "string"}},
                "availableYears": {"type": "array", "items": {"type": "integer"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the access token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "marksdesk API",
	Description:      "Student registry and term marks ledger behind an admin login.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
