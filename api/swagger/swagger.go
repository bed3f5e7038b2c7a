package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "École Admin API",
        "description": "Backend for the school administration console",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Auth", "description": "Single-admin authentication"},
        {"name": "Students", "description": "Student roster management"},
        {"name": "Absences", "description": "Absence and tardiness records"},
        {"name": "Grades", "description": "Grades grouped by class and subject"},
        {"name": "Payments", "description": "Tuition payment records"},
        {"name": "Schedule", "description": "Weekly timetable per class"},
        {"name": "Reports", "description": "Attendance and finance reports with exports"},
        {"name": "Dashboard", "description": "Landing-page counters"}
    ],
    "paths": {
        "/auth/status": {
            "get": {
                "tags": ["Auth"],
                "summary": "Whether the admin account has been registered",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/auth/register": {
            "post": {
                "tags": ["Auth"],
                "summary": "Create the admin account and log in",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Account already exists"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate the admin",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current admin profile",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "status", "in": "query", "type": "string", "enum": ["active", "archived", "all"]},
                    {"name": "class", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Students"],
                "summary": "Create student",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get student detail",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "put": {
                "tags": ["Students"],
                "summary": "Update student",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Delete student permanently",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/students/{id}/archive": {
            "post": {
                "tags": ["Students"],
                "summary": "Archive student",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/absences": {
            "get": {
                "tags": ["Absences"],
                "summary": "List absences with resolved student names",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Absences"],
                "summary": "Record an absence or tardy",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AbsenceRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/absences/{id}": {
            "put": {
                "tags": ["Absences"],
                "summary": "Update an absence record",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AbsenceRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["Absences"],
                "summary": "Delete an absence record",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/grades": {
            "get": {
                "tags": ["Grades"],
                "summary": "List all grades",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Grades"],
                "summary": "Record a grade",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GradeRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/grades/grouped": {
            "get": {
                "tags": ["Grades"],
                "summary": "Grades grouped by class then subject",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "class", "in": "query", "type": "string"},
                    {"name": "subject", "in": "query", "type": "string"},
                    {"name": "student_id", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/grades/classes": {
            "get": {
                "tags": ["Grades"],
                "summary": "List known classes",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/grades/{id}": {
            "put": {
                "tags": ["Grades"],
                "summary": "Update a grade",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GradeRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["Grades"],
                "summary": "Delete a grade",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/payments": {
            "get": {
                "tags": ["Payments"],
                "summary": "List payments",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Payments"],
                "summary": "Record a payment",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PaymentRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/payments/{id}": {
            "put": {
                "tags": ["Payments"],
                "summary": "Update a payment",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PaymentRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["Payments"],
                "summary": "Delete a payment",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/schedule": {
            "get": {
                "tags": ["Schedule"],
                "summary": "List raw schedule entries",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "class", "in": "query", "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Schedule"],
                "summary": "Create a schedule entry",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ScheduleEntryRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/schedule/classes": {
            "get": {
                "tags": ["Schedule"],
                "summary": "List classes present in the timetable",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/schedule/slots": {
            "get": {
                "tags": ["Schedule"],
                "summary": "List grid time slots for a class",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "class", "in": "query", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/schedule/grid": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Weekly grid for a class",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "class", "in": "query", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/schedule/{id}": {
            "put": {
                "tags": ["Schedule"],
                "summary": "Update a schedule entry",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ScheduleEntryRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["Schedule"],
                "summary": "Delete a schedule entry",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/reports/attendance": {
            "get": {
                "tags": ["Reports"],
                "summary": "Absence/tardiness report for a period",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "period", "in": "query", "type": "string", "enum": ["week", "month"]},
                    {"name": "anchor", "in": "query", "type": "string", "format": "date"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/reports/attendance/export": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download the attendance report as CSV or PDF",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "period", "in": "query", "type": "string", "enum": ["week", "month"]},
                    {"name": "anchor", "in": "query", "type": "string", "format": "date"},
                    {"name": "format", "in": "query", "type": "string", "required": true, "enum": ["csv", "pdf"]}
                ],
                "responses": {"200": {"description": "File"}}
            }
        },
        "/reports/finance": {
            "get": {
                "tags": ["Reports"],
                "summary": "Payment report with totals",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "class", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string", "enum": ["payé", "en retard"]},
                    {"name": "student_id", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/reports/finance/export": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download the payment report as CSV or PDF",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "class", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string", "enum": ["payé", "en retard"]},
                    {"name": "student_id", "in": "query", "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "required": true, "enum": ["csv", "pdf"]}
                ],
                "responses": {"200": {"description": "File"}}
            }
        },
        "/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Landing-page counters for the current week",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "properties": {
                "full_name": {"type": "string"},
                "phone": {"type": "string"},
                "email": {"type": "string"},
                "username": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["full_name", "phone", "email", "username", "password"]
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["username", "password"]
        },
        "StudentRequest": {
            "type": "object",
            "properties": {
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "birth_date": {"type": "string", "format": "date"},
                "gender": {"type": "string", "enum": ["M", "F"]},
                "class": {"type": "string"},
                "level": {"type": "string"},
                "average": {"type": "number"},
                "payment_up_to_date": {"type": "boolean"},
                "parent_name": {"type": "string"},
                "parent_email": {"type": "string"},
                "parent_phone": {"type": "string"}
            },
            "required": ["first_name", "last_name", "birth_date", "gender", "class", "level", "parent_name", "parent_email", "parent_phone"]
        },
        "AbsenceRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "date": {"type": "string", "format": "date"},
                "type": {"type": "string", "enum": ["absence", "retard"]},
                "justified": {"type": "boolean"},
                "comment": {"type": "string"}
            },
            "required": ["student_id", "date", "type"]
        },
        "GradeRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "subject": {"type": "string"},
                "value": {"type": "number", "minimum": 0, "maximum": 20},
                "appreciation": {"type": "string"},
                "date": {"type": "string", "format": "date"}
            },
            "required": ["student_id", "subject", "date"]
        },
        "PaymentRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "amount_due": {"type": "number", "minimum": 0},
                "amount_paid": {"type": "number", "minimum": 0},
                "status": {"type": "string", "enum": ["payé", "en retard"]},
                "date": {"type": "string", "format": "date"},
                "description": {"type": "string"}
            },
            "required": ["student_id", "status", "date"]
        },
        "ScheduleEntryRequest": {
            "type": "object",
            "properties": {
                "class": {"type": "string"},
                "day": {"type": "string", "enum": ["Lundi", "Mardi", "Mercredi", "Jeudi", "Vendredi", "Samedi"]},
                "start_time": {"type": "string", "example": "08:00"},
                "end_time": {"type": "string", "example": "09:00"},
                "subject": {"type": "string"},
                "teacher": {"type": "string"},
                "room": {"type": "string"},
                "description": {"type": "string"}
            },
            "required": ["class", "day", "start_time", "end_time", "subject", "teacher"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
