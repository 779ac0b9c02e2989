package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Staff Dashboard API",
        "description": "RPE training-load analytics and data-quality reporting for team staff",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "RPE", "description": "Training load and acute:chronic ratio analytics"},
        {"name": "Quality", "description": "Season data-quality reporting and exports"},
        {"name": "Sessions", "description": "Training calendar and RPE submissions"},
        {"name": "Roster", "description": "Team roster reads"}
    ],
    "paths": {
        "/teams/{team}/rpe/weekly-loads": {
            "get": {
                "tags": ["RPE"],
                "summary": "Weekly training load with acute:chronic ratio per player",
                "parameters": [
                    {"name": "team", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/teams/{team}/rpe/daily-overview": {
            "get": {
                "tags": ["RPE"],
                "summary": "Daily RPE submission grid per roster player",
                "parameters": [
                    {"name": "team", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teams/{team}/rpe/session-aggregates": {
            "get": {
                "tags": ["RPE"],
                "summary": "Load totals per week and session type",
                "parameters": [
                    {"name": "team", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teams/{team}/quality/report": {
            "get": {
                "tags": ["Quality"],
                "summary": "Season data-quality report",
                "parameters": [
                    {"name": "team", "in": "path", "type": "string", "required": true},
                    {"name": "exempt_ids", "in": "query", "type": "string", "description": "Comma-separated player ids exempt from compliance"},
                    {"name": "window_days", "in": "query", "type": "integer", "description": "Timestamp plausibility window in days"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Data shape prevents computation"}
                }
            }
        },
        "/teams/{team}/quality/export": {
            "post": {
                "tags": ["Quality"],
                "summary": "Export the season quality report as CSV tables or a PDF",
                "parameters": [
                    {"name": "team", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportQualityRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/download/{token}": {
            "get": {
                "tags": ["Quality"],
                "summary": "Download an exported file via its signed token",
                "parameters": [
                    {"name": "token", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "File stream"},
                    "401": {"description": "Invalid or expired token"}
                }
            }
        },
        "/teams/{team}/sessions": {
            "get": {
                "tags": ["Sessions"],
                "summary": "List a team's sessions",
                "parameters": [
                    {"name": "team", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Register a training session or match",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSessionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Session already registered"}
                }
            }
        },
        "/rpe-entries": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Record one player's RPE submission",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitRpeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/teams/{team}/roster": {
            "get": {
                "tags": ["Roster"],
                "summary": "List a team's roster",
                "parameters": [
                    {"name": "team", "in": "path", "type": "string", "required": true},
                    {"name": "active", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "CreateSessionRequest": {
            "type": "object",
            "required": ["date", "team", "session_type"],
            "properties": {
                "date": {"type": "string", "example": "2025-01-15"},
                "team": {"type": "string", "example": "U18"},
                "session_type": {"type": "string", "example": "T2"},
                "duration": {"type": "integer", "example": 90}
            }
        },
        "SubmitRpeRequest": {
            "type": "object",
            "required": ["player_id", "date", "rpe_score"],
            "properties": {
                "player_id": {"type": "integer"},
                "session_id": {"type": "string", "example": "20250115U18"},
                "date": {"type": "string", "example": "2025-01-15"},
                "rpe_score": {"type": "number", "minimum": 1, "maximum": 10},
                "training_minutes": {"type": "integer"}
            }
        },
        "ExportQualityRequest": {
            "type": "object",
            "required": ["format"],
            "properties": {
                "format": {"type": "string", "enum": ["csv", "pdf"]},
                "exempt_ids": {"type": "array", "items": {"type": "integer"}},
                "window_days": {"type": "integer"}
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
