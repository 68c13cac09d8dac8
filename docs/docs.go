// Package docs holds the OpenAPI description served under /swagger.
// Regenerate with `swag init -g internal/api/router.go` after changing handler annotations.
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
        "/v1/auth/code/request": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Request a one-time login code",
                "parameters": [
                    {"description": "Phone and intent (LOGIN or REGISTER)", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.requestCodeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.requestCodeResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/v1/auth/code/verify": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Verify a one-time code",
                "parameters": [
                    {"description": "Phone, code and optional registration profile", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.verifyCodeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/v1/users/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.User"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/v1/users/{id}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Update own profile",
                "parameters": [
                    {"type": "string", "description": "User id", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.updateProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.User"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/v1/cases": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["cases"],
                "summary": "Submit a defense request",
                "parameters": [
                    {"description": "Case type, fines and narrative", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.submitCaseRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.submitCaseResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/v1/cases/mine": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["cases"],
                "summary": "List my cases",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.caseListResponse"}}
                }
            }
        },
        "/v1/cases/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["cases"],
                "summary": "Get a case",
                "parameters": [
                    {"type": "string", "description": "Case id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.caseResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["cases"],
                "summary": "Edit an unclaimed case",
                "parameters": [
                    {"type": "string", "description": "Case id", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.updateCaseRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.caseResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/v1/cases/{id}/claim": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["cases"],
                "summary": "Claim an open case",
                "parameters": [
                    {"type": "string", "description": "Case id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.caseResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/v1/cases/{id}/decline": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["cases"],
                "summary": "Hide an opportunity",
                "parameters": [
                    {"type": "string", "description": "Case id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/v1/cases/{id}/status": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["cases"],
                "summary": "Report case progress",
                "parameters": [
                    {"type": "string", "description": "Case id", "name": "id", "in": "path", "required": true},
                    {"description": "Status label, narrative and evidence", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.recordStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.caseResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/v1/cases/{id}/timeline": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["cases"],
                "summary": "Case timeline",
                "parameters": [
                    {"type": "string", "description": "Case id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.timelineResponse"}}
                }
            }
        },
        "/v1/opportunities": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["cases"],
                "summary": "List open cases available to claim",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.caseListResponse"}}
                }
            }
        },
        "/v1/wallet/{professionalId}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["wallet"],
                "summary": "Professional wallet summary",
                "parameters": [
                    {"type": "string", "description": "Professional user id", "name": "professionalId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.walletResponse"}}
                }
            }
        },
        "/v1/review/users/{id}/verification": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["review"],
                "summary": "Record a verification decision",
                "parameters": [
                    {"type": "string", "description": "Reviewer key", "name": "X-Reviewer-Key", "in": "header", "required": true},
                    {"type": "string", "description": "User id", "name": "id", "in": "path", "required": true},
                    {"description": "Decision", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.reviewRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.User"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}, "code": {"type": "string"}}
        },
        "domain.Fine": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "points": {"type": "integer"},
                "evidence_ref": {"type": "string"},
                "document_name": {"type": "string"}
            }
        },
        "domain.TimelineEvent": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "case_id": {"type": "string"},
                "seq": {"type": "integer"},
                "timestamp": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "author_role": {"type": "string"},
                "author_name": {"type": "string"},
                "kind": {"type": "string", "enum": ["STATUS_CHANGE", "MESSAGE", "DOCUMENT"]},
                "attachment_refs": {"type": "array", "items": {"type": "string"}}
            }
        },
        "domain.User": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "role": {"type": "string", "enum": ["CLIENT", "PROFESSIONAL"]},
                "phone": {"type": "string"},
                "name": {"type": "string"},
                "document_number": {"type": "string"},
                "birth_date": {"type": "string"},
                "avatar_ref": {"type": "string"},
                "identity_doc_ref": {"type": "string"},
                "identity_doc_expiry": {"type": "string"},
                "license_number": {"type": "string"},
                "license_doc_ref": {"type": "string"},
                "license_expiry": {"type": "string"},
                "specialty": {"type": "string"},
                "verification_status": {"type": "string", "enum": ["PENDING", "UNDER_ANALYSIS", "VERIFIED", "REJECTED"]},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "handler.requestCodeRequest": {
            "type": "object",
            "required": ["phone", "intent"],
            "properties": {"phone": {"type": "string"}, "intent": {"type": "string", "enum": ["LOGIN", "REGISTER"]}}
        },
        "handler.requestCodeResponse": {
            "type": "object",
            "properties": {"phone": {"type": "string"}, "expires_at": {"type": "string"}, "dev_code": {"type": "string"}}
        },
        "handler.registrationRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "document_number": {"type": "string"},
                "birth_date": {"type": "string"},
                "avatar_ref": {"type": "string"},
                "identity_doc_ref": {"type": "string"},
                "identity_doc_expiry": {"type": "string"},
                "license_number": {"type": "string"},
                "license_doc_ref": {"type": "string"},
                "license_expiry": {"type": "string"},
                "specialty": {"type": "string"}
            }
        },
        "handler.verifyCodeRequest": {
            "type": "object",
            "required": ["phone", "code"],
            "properties": {
                "phone": {"type": "string"},
                "code": {"type": "string"},
                "role": {"type": "string", "enum": ["CLIENT", "PROFESSIONAL"]},
                "registration": {"$ref": "#/definitions/handler.registrationRequest"}
            }
        },
        "handler.authResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "expires_at": {"type": "string"},
                "registered": {"type": "boolean"},
                "user": {"$ref": "#/definitions/domain.User"}
            }
        },
        "handler.updateProfileRequest": {
            "$ref": "#/definitions/handler.registrationRequest"
        },
        "handler.fineRequest": {
            "type": "object",
            "properties": {"points": {"type": "integer"}, "evidence_ref": {"type": "string"}, "document_name": {"type": "string"}}
        },
        "handler.submitCaseRequest": {
            "type": "object",
            "required": ["type"],
            "properties": {
                "type": {"type": "string"},
                "fines": {"type": "array", "items": {"$ref": "#/definitions/handler.fineRequest"}},
                "narrative": {"type": "string"}
            }
        },
        "handler.updateCaseRequest": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "fines": {"type": "array", "items": {"$ref": "#/definitions/handler.fineRequest"}},
                "narrative": {"type": "string"}
            }
        },
        "handler.recordStatusRequest": {
            "type": "object",
            "required": ["label"],
            "properties": {
                "label": {"type": "string"},
                "narrative": {"type": "string"},
                "evidence_refs": {"type": "array", "items": {"type": "string"}},
                "registry_number": {"type": "string"},
                "organ": {"type": "string"}
            }
        },
        "handler.reviewRequest": {
            "type": "object",
            "required": ["outcome"],
            "properties": {"outcome": {"type": "string", "enum": ["VERIFIED", "REJECTED"]}, "note": {"type": "string"}}
        },
        "handler.caseLinks": {
            "type": "object",
            "properties": {"self": {"type": "string"}, "timeline": {"type": "string"}}
        },
        "handler.submitCaseResponse": {
            "type": "object",
            "properties": {
                "case_id": {"type": "string"},
                "reference_code": {"type": "string"},
                "status": {"type": "string"},
                "fee": {"type": "string"},
                "created_at": {"type": "string"},
                "_links": {"$ref": "#/definitions/handler.caseLinks"}
            }
        },
        "handler.caseResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "reference_code": {"type": "string"},
                "client_id": {"type": "string"},
                "client_name": {"type": "string"},
                "professional_id": {"type": "string"},
                "type": {"type": "string"},
                "fines": {"type": "array", "items": {"$ref": "#/definitions/domain.Fine"}},
                "total_points": {"type": "integer"},
                "fee": {"type": "string"},
                "status": {"type": "string", "enum": ["OPEN", "CLAIMED", "PROTOCOL_PENDING", "ACTIVE", "FINISHED"]},
                "narrative": {"type": "string"},
                "registry_number": {"type": "string"},
                "organ": {"type": "string"},
                "last_note": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"},
                "_links": {"$ref": "#/definitions/handler.caseLinks"}
            }
        },
        "handler.caseListResponse": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/handler.caseResponse"}},
                "count": {"type": "integer"}
            }
        },
        "handler.timelineResponse": {
            "type": "object",
            "properties": {
                "case_id": {"type": "string"},
                "events": {"type": "array", "items": {"$ref": "#/definitions/domain.TimelineEvent"}}
            }
        },
        "handler.walletResponse": {
            "type": "object",
            "properties": {
                "professional_id": {"type": "string"},
                "total_accepted": {"type": "string"},
                "retained": {"type": "string"},
                "receivable": {"type": "string"},
                "retained_rate": {"type": "string"},
                "active_count": {"type": "integer"},
                "finished_count": {"type": "integer"},
                "total_count": {"type": "integer"}
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
	Title:            "Radar Hub API",
	Description:      "Traffic penalty defense marketplace: phone login, case lifecycle, timeline and wallet.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
