package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "API de Capacitaciones de Biblioteca",
        "description": "Registro de asistencia a capacitaciones, evaluaciones, estadísticas e inversiones",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Staff login and account management"},
        {"name": "Attendances", "description": "Event attendance registration and listing"},
        {"name": "Evaluations", "description": "Post-event satisfaction surveys"},
        {"name": "Catalogs", "description": "Program and modality management"},
        {"name": "Statistics", "description": "Dashboard aggregations"},
        {"name": "Investments", "description": "Yearly investment registers"},
        {"name": "Reports", "description": "Asynchronous report generation"},
        {"name": "Admin", "description": "Retention and maintenance"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register a staff account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Username taken"}
                }
            }
        },
        "/auth/change-password": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Change password for the current user",
                "responses": {
                    "204": {"description": "Changed"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/attendances": {
            "post": {
                "tags": ["Attendances"],
                "summary": "Register an attendance",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateAttendanceRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate attendance"}
                }
            }
        },
        "/attendances/grid": {
            "get": {
                "tags": ["Attendances"],
                "summary": "Server-side listing grid (DataTables protocol)",
                "parameters": [
                    {"name": "draw", "in": "query", "type": "integer"},
                    {"name": "start", "in": "query", "type": "integer"},
                    {"name": "length", "in": "query", "type": "integer"},
                    {"name": "search[value]", "in": "query", "type": "string"},
                    {"name": "order[0][column]", "in": "query", "type": "integer"},
                    {"name": "order[0][dir]", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/attendances/summary": {
            "get": {
                "tags": ["Attendances"],
                "summary": "Headline counters with one-shot maintenance notice",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/attendances/export": {
            "get": {
                "tags": ["Attendances"],
                "summary": "Export the filtered listing as xlsx or csv",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["xlsx", "csv"]}
                ],
                "responses": {
                    "200": {"description": "File"}
                }
            }
        },
        "/attendances/import": {
            "post": {
                "tags": ["Attendances"],
                "summary": "Bulk import attendances from an Excel upload",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "file", "in": "formData", "type": "file", "required": true}
                ],
                "responses": {
                    "200": {"description": "Import result"},
                    "400": {"description": "Invalid workbook"}
                }
            }
        },
        "/attendances/qr": {
            "get": {
                "tags": ["Attendances"],
                "summary": "QR code pointing at the public registration form",
                "parameters": [
                    {"name": "size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "PNG image"}
                }
            }
        },
        "/evaluations": {
            "post": {
                "tags": ["Evaluations"],
                "summary": "Submit an evaluation (one per attendance)",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateEvaluationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Already evaluated"}
                }
            }
        },
        "/evaluations/context/{attendance_id}": {
            "get": {
                "tags": ["Evaluations"],
                "summary": "Attendance shown above the evaluation form",
                "parameters": [
                    {"name": "attendance_id", "in": "path", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/programs": {
            "get": {
                "tags": ["Catalogs"],
                "summary": "List academic programs",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Catalogs"],
                "summary": "Add a program",
                "responses": {"201": {"description": "Created"}, "409": {"description": "Duplicate"}}
            }
        },
        "/programs/{id}/toggle": {
            "patch": {
                "tags": ["Catalogs"],
                "summary": "Flip a program's active flag",
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            }
        },
        "/modalities": {
            "get": {
                "tags": ["Catalogs"],
                "summary": "List modalities",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Catalogs"],
                "summary": "Add a modality",
                "responses": {"201": {"description": "Created"}, "409": {"description": "Duplicate"}}
            }
        },
        "/stats/overview": {
            "get": {
                "tags": ["Statistics"],
                "summary": "Dashboard aggregations over the trailing year window",
                "parameters": [
                    {"name": "event", "in": "query", "type": "string"},
                    {"name": "program", "in": "query", "type": "string"},
                    {"name": "date_from", "in": "query", "type": "string"},
                    {"name": "date_to", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/investments/institutional": {
            "get": {
                "tags": ["Investments"],
                "summary": "List yearly institutional spend",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Investments"],
                "summary": "Record one year's institutional spend",
                "responses": {"201": {"description": "Created"}, "409": {"description": "Year already recorded"}}
            }
        },
        "/investments/programs": {
            "get": {
                "tags": ["Investments"],
                "summary": "List per-program acquisitions",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Investments"],
                "summary": "Record one program's yearly acquisitions",
                "responses": {"201": {"description": "Created"}, "409": {"description": "Pair already recorded"}}
            }
        },
        "/reports": {
            "post": {
                "tags": ["Reports"],
                "summary": "Enqueue a report generation job",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateReportRequest"}}
                ],
                "responses": {"202": {"description": "Queued"}}
            }
        },
        "/reports/{id}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Report job status",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            }
        },
        "/reports/download/{token}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download a finished report with a signed token",
                "parameters": [{"name": "token", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "File"}, "403": {"description": "Invalid or expired token"}}
            }
        },
        "/admin/retention/preview": {
            "get": {
                "tags": ["Admin"],
                "summary": "Preview a retention purge",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/retention/purge": {
            "post": {
                "tags": ["Admin"],
                "summary": "Purge attendances outside the retention window",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["username", "password"]
        },
        "RegisterRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string", "minLength": 7},
                "password": {"type": "string", "minLength": 8}
            },
            "required": ["username", "password"]
        },
        "CreateAttendanceRequest": {
            "type": "object",
            "properties": {
                "event_name": {"type": "string"},
                "instructor": {"type": "string"},
                "teacher_name": {"type": "string"},
                "teacher_program": {"type": "string"},
                "attendee_id": {"type": "string"},
                "attendee_name": {"type": "string"},
                "attendee_program": {"type": "string"},
                "modality": {"type": "string"},
                "attendee_type": {"type": "string"},
                "campus": {"type": "string"},
                "event_date": {"type": "string", "format": "date"}
            },
            "required": ["event_name", "attendee_id", "attendee_name"]
        },
        "CreateEvaluationRequest": {
            "type": "object",
            "properties": {
                "attendance_id": {"type": "integer"},
                "content_quality": {"type": "integer", "minimum": 1, "maximum": 5},
                "methodology": {"type": "integer", "minimum": 1, "maximum": 5},
                "clear_language": {"type": "integer", "minimum": 1, "maximum": 5},
                "group_management": {"type": "integer", "minimum": 1, "maximum": 5},
                "question_handling": {"type": "integer", "minimum": 1, "maximum": 5},
                "comments": {"type": "string"}
            },
            "required": ["attendance_id"]
        },
        "CreateReportRequest": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "enum": ["attendance", "summary"]},
                "format": {"type": "string", "enum": ["csv", "pdf"]},
                "filters": {"type": "object"}
            },
            "required": ["type", "format"]
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
