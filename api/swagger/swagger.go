package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Course Planner API",
        "description": "Generates conflict-free weekly timetables from a course catalog and ranks them by day-off preference.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Planner", "description": "Timetable generation and browsing"},
        {"name": "Observability", "description": "Health and runtime metrics"}
    ],
    "paths": {
        "/planner/sessions": {
            "post": {
                "tags": ["Planner"],
                "summary": "Generate ranked timetables for a course catalog",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid catalog", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "413": {"description": "Catalog exceeds planner limits", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Meeting outside the timetable grid", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Search timed out", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/planner/sessions/{id}": {
            "get": {
                "tags": ["Planner"],
                "summary": "Get a planning session",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Planner"],
                "summary": "Discard a planning session",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/planner/sessions/{id}/best": {
            "get": {
                "tags": ["Planner"],
                "summary": "Best timetable of a session",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "204": {"description": "No conflict-free timetable exists"}
                }
            }
        },
        "/planner/sessions/{id}/navigate": {
            "post": {
                "tags": ["Planner"],
                "summary": "Read the candidate under the cursor and step",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "direction", "in": "query", "type": "string", "enum": ["forward", "backward"], "default": "forward"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "204": {"description": "Ranking is empty"}
                }
            }
        },
        "/planner/sessions/{id}/cursor": {
            "put": {
                "tags": ["Planner"],
                "summary": "Move the cursor to a rank",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CursorRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/planner/sessions/{id}/candidates": {
            "get": {
                "tags": ["Planner"],
                "summary": "List ranked candidates",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/planner/sessions/{id}/candidates/{rank}": {
            "get": {
                "tags": ["Planner"],
                "summary": "Get the candidate at a rank",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "rank", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Rank out of range", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/planner/sessions/{id}/export": {
            "get": {
                "tags": ["Planner"],
                "summary": "Download a candidate timetable",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf", "choices"], "default": "csv"},
                    {"name": "rank", "in": "query", "type": "integer", "default": 1}
                ],
                "responses": {"200": {"description": "File", "schema": {"type": "file"}}}
            }
        },
        "/planner/sessions/{id}/exports": {
            "post": {
                "tags": ["Planner"],
                "summary": "Store a candidate export behind a signed link",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/planner/downloads/{token}": {
            "get": {
                "tags": ["Planner"],
                "summary": "Fetch a stored export through its signed token",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [{"name": "token", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}},
                    "404": {"description": "Unknown or expired token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/planner/cache": {
            "delete": {
                "tags": ["Planner"],
                "summary": "Drop every cached ranking",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/metrics/summary": {
            "get": {
                "tags": ["Observability"],
                "summary": "Planner runtime metrics",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "definitions": {
        "Meeting": {
            "type": "object",
            "required": ["day", "start", "end"],
            "properties": {
                "day": {"type": "string", "example": "Monday"},
                "start": {"type": "string", "example": "10:30"},
                "end": {"type": "string", "example": "12:15"}
            }
        },
        "Section": {
            "type": "object",
            "required": ["lectureCode"],
            "properties": {
                "instructor": {"type": "string"},
                "lectureCode": {"type": "string"},
                "labCode": {"type": "string"},
                "tutorialCode": {"type": "string"},
                "meetings": {"type": "array", "items": {"$ref": "#/definitions/Meeting"}}
            }
        },
        "Course": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"},
                "sections": {"type": "array", "items": {"$ref": "#/definitions/Section"}}
            }
        },
        "GenerateRequest": {
            "type": "object",
            "properties": {
                "dayOff": {"type": "string", "example": "Friday"},
                "courses": {"type": "array", "items": {"$ref": "#/definitions/Course"}}
            }
        },
        "CursorRequest": {
            "type": "object",
            "required": ["rank"],
            "properties": {"rank": {"type": "integer", "minimum": 1}}
        },
        "ExportRequest": {
            "type": "object",
            "required": ["format"],
            "properties": {
                "format": {"type": "string", "enum": ["csv", "pdf", "choices"]},
                "rank": {"type": "integer", "minimum": 1}
            }
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
