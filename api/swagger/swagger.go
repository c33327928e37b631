package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Visa Admin API",
        "description": "JSON endpoints used by the visa admin dashboard pages. All routes under /api/v1 require the session cookie.",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http",
        "https"
    ],
    "tags": [
        {"name": "Applications", "description": "Visa applications per country module"},
        {"name": "Government references", "description": "Government portal tracking numbers"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness probe",
                "description": "Fails when the session store is unreachable.",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Session store unavailable"}
                }
            }
        },
        "/api/v1/modules/{module}/applications": {
            "get": {
                "tags": ["Applications"],
                "summary": "List applications of a module",
                "parameters": [
                    {"$ref": "#/parameters/module"},
                    {"name": "q", "in": "query", "type": "string", "description": "Free-text filter across all columns"},
                    {"name": "sort", "in": "query", "type": "string", "enum": ["id", "name", "email", "visaType", "price", "status", "payment", "created"]},
                    {"name": "order", "in": "query", "type": "string", "enum": ["asc", "desc"]},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "f.status", "in": "query", "type": "string", "description": "Exact status filter"},
                    {"name": "f.payment", "in": "query", "type": "string"},
                    {"name": "f.visaType", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Session missing or expired", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown module", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Backend unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/modules/{module}/applications/{id}": {
            "get": {
                "tags": ["Applications"],
                "summary": "Get one application with its status history",
                "parameters": [{"$ref": "#/parameters/module"}, {"$ref": "#/parameters/id"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/modules/{module}/applications/{id}/status": {
            "put": {
                "tags": ["Applications"],
                "summary": "Change application status",
                "description": "On failure meta.status is the status the page must show again and meta.toast the message.",
                "parameters": [
                    {"$ref": "#/parameters/module"},
                    {"$ref": "#/parameters/id"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StatusChangeRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Unknown status", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Backend failure", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/modules/{module}/applications/{id}/reminders/{type}": {
            "post": {
                "tags": ["Applications"],
                "summary": "Send a reminder email",
                "parameters": [
                    {"$ref": "#/parameters/module"},
                    {"$ref": "#/parameters/id"},
                    {"name": "type", "in": "path", "required": true, "type": "string", "enum": ["document", "payment", "passport", "photo", "incomplete"]}
                ],
                "responses": {
                    "200": {"description": "Sent", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Reminder type not offered by the module", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "A reminder for this record is still being sent", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Backend failure", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/modules/{module}/applications/{id}/gov-ref": {
            "post": {
                "tags": ["Government references"],
                "summary": "Create or replace government reference details",
                "parameters": [
                    {"$ref": "#/parameters/module"},
                    {"$ref": "#/parameters/id"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GovRefRequest"}}
                ],
                "responses": {
                    "200": {"description": "Saved", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid details", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/modules/{module}/applications/{id}/gov-ref/{applicantType}": {
            "get": {
                "tags": ["Government references"],
                "summary": "Read the main applicant's reference details",
                "parameters": [{"$ref": "#/parameters/module"}, {"$ref": "#/parameters/id"}, {"$ref": "#/parameters/applicantType"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["Government references"],
                "summary": "Delete the main applicant's reference details",
                "parameters": [{"$ref": "#/parameters/module"}, {"$ref": "#/parameters/id"}, {"$ref": "#/parameters/applicantType"}],
                "responses": {"200": {"description": "Deleted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/modules/{module}/applications/{id}/gov-ref/{applicantType}/{index}": {
            "get": {
                "tags": ["Government references"],
                "summary": "Read an additional applicant's reference details",
                "parameters": [{"$ref": "#/parameters/module"}, {"$ref": "#/parameters/id"}, {"$ref": "#/parameters/applicantType"}, {"$ref": "#/parameters/index"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["Government references"],
                "summary": "Delete an additional applicant's reference details",
                "parameters": [{"$ref": "#/parameters/module"}, {"$ref": "#/parameters/id"}, {"$ref": "#/parameters/applicantType"}, {"$ref": "#/parameters/index"}],
                "responses": {"200": {"description": "Deleted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "parameters": {
        "module": {"name": "module", "in": "path", "required": true, "type": "string", "enum": ["india", "ethiopia", "kenya", "egypt"]},
        "id": {"name": "id", "in": "path", "required": true, "type": "string"},
        "applicantType": {"name": "applicantType", "in": "path", "required": true, "type": "string", "enum": ["main", "additional"]},
        "index": {"name": "index", "in": "path", "required": true, "type": "integer", "minimum": 0}
    },
    "definitions": {
        "StatusChangeRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string"},
                "previousStatus": {"type": "string"}
            }
        },
        "GovRefRequest": {
            "type": "object",
            "required": ["applicantType", "referenceNumber"],
            "properties": {
                "applicantType": {"type": "string", "enum": ["main", "additional"]},
                "applicantIndex": {"type": "integer", "minimum": 0},
                "referenceEmail": {"type": "string", "format": "email"},
                "referenceNumber": {"type": "string"},
                "comment": {"type": "string", "maxLength": 2000}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"},
                "total_pages": {"type": "integer"}
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
