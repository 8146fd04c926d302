package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SPC Registrar Portal API",
        "description": "Document request portal for the San Pablo Colleges registrar",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Wizard", "description": "Three-step document request wizard"},
        {"name": "Reference", "description": "Dropdown reference data"},
        {"name": "Tracking", "description": "Request status lookup and staff queue"}
    ],
    "paths": {
        "/wizard/sessions": {
            "post": {
                "tags": ["Wizard"],
                "summary": "Start a new request wizard session",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/wizard/sessions/current": {
            "get": {
                "tags": ["Wizard"],
                "summary": "Get the current wizard state",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Missing or invalid session token"}
                }
            }
        },
        "/wizard/sessions/current/draft": {
            "put": {
                "tags": ["Wizard"],
                "summary": "Apply a partial update to the request draft",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateDraftRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Session already submitted"}
                }
            }
        },
        "/wizard/sessions/current/alumni-file": {
            "post": {
                "tags": ["Wizard"],
                "summary": "Upload the alumni verification document",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "alumniVerificationFile", "in": "formData", "type": "file", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/wizard/sessions/current/verification/send": {
            "post": {
                "tags": ["Wizard"],
                "summary": "Send a verification code to the draft's email",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "429": {"description": "Resend cooldown active"}
                }
            }
        },
        "/wizard/sessions/current/verification/verify": {
            "post": {
                "tags": ["Wizard"],
                "summary": "Verify the emailed one-time code",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/VerifyCodeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/wizard/sessions/current/advance": {
            "post": {
                "tags": ["Wizard"],
                "summary": "Move the wizard forward one step",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Draft validation failed"},
                    "412": {"description": "Privacy not accepted or email not verified"}
                }
            }
        },
        "/wizard/sessions/current/back": {
            "post": {
                "tags": ["Wizard"],
                "summary": "Return from the summary to the form step",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Not at the summary step"}
                }
            }
        },
        "/wizard/sessions/current/submit": {
            "post": {
                "tags": ["Wizard"],
                "summary": "Submit the completed request to the registrar system",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Upstream validation failed"},
                    "502": {"description": "Registrar system unreachable"}
                }
            }
        },
        "/reference": {
            "get": {
                "tags": ["Reference"],
                "summary": "Fetch all reference data in one call",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reference/documents": {
            "get": {
                "tags": ["Reference"],
                "summary": "List requestable document types",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reference/documents/refresh": {
            "post": {
                "tags": ["Reference"],
                "summary": "Invalidate and refetch the document catalogue",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reference/purposes": {
            "get": {
                "tags": ["Reference"],
                "summary": "List purposes of request",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reference/departments": {
            "get": {
                "tags": ["Reference"],
                "summary": "List college departments",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reference/courses": {
            "get": {
                "tags": ["Reference"],
                "summary": "List courses",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/requests": {
            "get": {
                "tags": ["Tracking"],
                "summary": "List submitted requests for registrar staff",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/requests/track/{reference}": {
            "get": {
                "tags": ["Tracking"],
                "summary": "Look up a submitted request by reference number",
                "parameters": [
                    {"name": "reference", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown reference number"}
                }
            }
        },
        "/requests/{reference}/status": {
            "patch": {
                "tags": ["Tracking"],
                "summary": "Move a request to a new workflow status",
                "parameters": [
                    {"name": "reference", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown reference number"}
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "definitions": {
        "UpdateDraftRequest": {
            "type": "object",
            "properties": {
                "requester_type": {"type": "string", "enum": ["Student", "Alumni"]},
                "surname": {"type": "string"},
                "first_name": {"type": "string"},
                "middle_initial": {"type": "string"},
                "suffix": {"type": "string"},
                "contact_no": {"type": "string"},
                "email": {"type": "string"},
                "student_number": {"type": "string"},
                "course": {"type": "string"},
                "year_level": {"type": "string"},
                "college_department": {"type": "string"},
                "graduation_year": {"type": "string"},
                "purpose_of_request": {"type": "string"},
                "other_purpose": {"type": "string"},
                "agreed_to_privacy": {"type": "boolean"},
                "documents": {"type": "array", "items": {"$ref": "#/definitions/DocumentLineUpdate"}}
            }
        },
        "DocumentLineUpdate": {
            "type": "object",
            "required": ["id"],
            "properties": {
                "id": {"type": "integer"},
                "checked": {"type": "boolean"},
                "quantity": {"type": "integer"},
                "year": {"type": "string"},
                "semester": {"type": "string"}
            }
        },
        "VerifyCodeRequest": {
            "type": "object",
            "required": ["code"],
            "properties": {
                "code": {"type": "string"}
            }
        },
        "UpdateStatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["pending", "processing", "ready", "released", "declined"]}
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
                "fields": {"type": "object"},
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
