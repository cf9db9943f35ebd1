// Package docs registers the OpenAPI description of the workshop zones API.
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
        "/v1/instrument": {
            "get": {
                "produces": ["application/json"],
                "tags": ["instrument"],
                "summary": "Questionnaire items and scale",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Instrument"}}
                }
            }
        },
        "/v1/respondents/classify": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["analysis"],
                "summary": "Classify a single respondent",
                "parameters": [
                    {"description": "Respondent", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.RosterRecord"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.RespondentResult"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/v1/workshops/{groupId}/analysis": {
            "get": {
                "produces": ["application/json"],
                "tags": ["analysis"],
                "summary": "Latest stored group reading",
                "parameters": [
                    {"type": "string", "description": "Workshop id", "name": "groupId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.AnalysisSnapshot"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["analysis"],
                "summary": "Classify a workshop roster",
                "parameters": [
                    {"type": "string", "description": "Workshop id", "name": "groupId", "in": "path", "required": true},
                    {"description": "Roster", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.AnalyzeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.GroupAnalysisResult"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "413": {"description": "Request Entity Too Large", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "handler.AnalyzeRequest": {
            "type": "object",
            "properties": {
                "respondents": {"type": "array", "items": {"$ref": "#/definitions/model.RosterRecord"}}
            }
        },
        "model.ZoneAssignment": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "enum": ["single", "tied", "undetermined"]},
                "zones": {"type": "array", "items": {"type": "string", "enum": ["A", "B", "C", "D"]}}
            }
        },
        "model.CategoryScores": {
            "type": "object",
            "properties": {
                "A": {"type": "number"},
                "B": {"type": "number"},
                "C": {"type": "number"},
                "D": {"type": "number"}
            }
        },
        "model.ZoneCounts": {
            "type": "object",
            "properties": {
                "A": {"type": "integer"},
                "B": {"type": "integer"},
                "C": {"type": "integer"},
                "D": {"type": "integer"}
            }
        },
        "model.ItemDefinition": {
            "type": "object",
            "properties": {
                "itemId": {"type": "string"},
                "category": {"type": "string"},
                "reversed": {"type": "boolean"}
            }
        },
        "model.Instrument": {
            "type": "object",
            "properties": {
                "scaleMin": {"type": "integer"},
                "scaleMax": {"type": "integer"},
                "epsilon": {"type": "number"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/model.ItemDefinition"}}
            }
        },
        "model.RosterRecord": {
            "type": "object",
            "properties": {
                "respondentId": {"type": "string"},
                "email": {"type": "string"},
                "name": {"type": "string"},
                "answers": {"description": "keyed object or positional array"},
                "zone": {"type": "string"},
                "submittedAt": {"type": "string", "format": "date-time"}
            }
        },
        "model.RespondentResult": {
            "type": "object",
            "properties": {
                "respondentId": {"type": "string"},
                "name": {"type": "string"},
                "scores": {"$ref": "#/definitions/model.CategoryScores"},
                "zone": {"$ref": "#/definitions/model.ZoneAssignment"},
                "answeredItems": {"type": "integer"},
                "storedLabel": {"type": "string"}
            }
        },
        "model.GroupAnalysisResult": {
            "type": "object",
            "properties": {
                "groupId": {"type": "string"},
                "respondentCount": {"type": "integer"},
                "validRespondentCount": {"type": "integer"},
                "votingRespondentCount": {"type": "integer"},
                "groupScores": {"$ref": "#/definitions/model.CategoryScores"},
                "zoneByAverage": {"$ref": "#/definitions/model.ZoneAssignment"},
                "zoneCounts": {"$ref": "#/definitions/model.ZoneCounts"},
                "zoneByCount": {"$ref": "#/definitions/model.ZoneAssignment"},
                "divergent": {"type": "boolean"},
                "respondents": {"type": "array", "items": {"$ref": "#/definitions/model.RespondentResult"}}
            }
        },
        "model.AnalysisSnapshot": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "groupId": {"type": "string"},
                "fingerprint": {"type": "string"},
                "result": {"$ref": "#/definitions/model.GroupAnalysisResult"},
                "createdAt": {"type": "string", "format": "date-time"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Workshop Zones API",
	Description:      "Classifies workshop questionnaire rosters into A/B/C/D zones",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
