package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "College Admin API",
        "description": "Admission intake, hostel allocation and fee tracking for a college administration office.",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {
            "name": "Admission",
            "description": "Application intake and review"
        },
        {
            "name": "Hostel",
            "description": "Hostel applications and room allocation"
        },
        {
            "name": "Students",
            "description": "Student profiles"
        },
        {
            "name": "Fees",
            "description": "Fee notices and the payment ledger"
        },
        {
            "name": "Dashboard",
            "description": "Staff dashboard"
        },
        {
            "name": "Documents",
            "description": "Signed document downloads"
        },
        {
            "name": "Notifications",
            "description": "Email delivery"
        },
        {
            "name": "Audit",
            "description": "Staff audit trail"
        }
    ],
    "paths": {
        "/admission/submit": {
            "post": {
                "tags": [
                    "Admission"
                ],
                "summary": "Submit an admission application",
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Validation failed or duplicate email",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "firstName",
                        "in": "formData",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "lastName",
                        "in": "formData",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "email",
                        "in": "formData",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "phone",
                        "in": "formData",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "dateOfBirth",
                        "in": "formData",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "gender",
                        "in": "formData",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "nationality",
                        "in": "formData",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "address",
                        "in": "formData",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "academicInfo",
                        "in": "formData",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "emergencyContact",
                        "in": "formData",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "profilePhoto",
                        "in": "formData",
                        "type": "file"
                    },
                    {
                        "name": "idProof",
                        "in": "formData",
                        "type": "file"
                    },
                    {
                        "name": "addressProof",
                        "in": "formData",
                        "type": "file"
                    },
                    {
                        "name": "academicCertificates",
                        "in": "formData",
                        "type": "file"
                    },
                    {
                        "name": "otherDocuments",
                        "in": "formData",
                        "type": "file"
                    }
                ],
                "consumes": [
                    "multipart/form-data"
                ]
            }
        },
        "/admission/applications": {
            "get": {
                "tags": [
                    "Admission"
                ],
                "summary": "List admission applications",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "status",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "type": "integer"
                    }
                ]
            }
        },
        "/admission/applications/{id}": {
            "get": {
                "tags": [
                    "Admission"
                ],
                "summary": "Get an application",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Application not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
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
                ]
            },
            "delete": {
                "tags": [
                    "Admission"
                ],
                "summary": "Delete an application and its documents",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
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
                ]
            }
        },
        "/admission/applications/{id}/screening": {
            "get": {
                "tags": [
                    "Admission"
                ],
                "summary": "Get an application with signed document links",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
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
                ]
            }
        },
        "/admission/applications/{id}/status": {
            "put": {
                "tags": [
                    "Admission"
                ],
                "summary": "Change the admission status",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid status or transition",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Stale version",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
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
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UpdateAdmissionStatusRequest"
                        }
                    }
                ]
            }
        },
        "/admission/applications/{id}/approve": {
            "post": {
                "tags": [
                    "Admission"
                ],
                "summary": "Approve and issue portal credentials",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
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
                        "name": "payload",
                        "in": "body",
                        "required": false,
                        "schema": {
                            "$ref": "#/definitions/ApproveAdmissionRequest"
                        }
                    }
                ]
            }
        },
        "/admission/status/{email}": {
            "get": {
                "tags": [
                    "Admission"
                ],
                "summary": "Check an application status by email",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "No application found with this email",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "email",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ]
            }
        },
        "/hostel/stats": {
            "get": {
                "tags": [
                    "Hostel"
                ],
                "summary": "Room occupancy per room type",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/hostel/applications": {
            "get": {
                "tags": [
                    "Hostel"
                ],
                "summary": "List hostel applications",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/hostel/allocate": {
            "post": {
                "tags": [
                    "Hostel"
                ],
                "summary": "Allocate a room",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Validation failed",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Student not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/AllocateRoomRequest"
                        }
                    }
                ]
            }
        },
        "/hostel/vacate": {
            "post": {
                "tags": [
                    "Hostel"
                ],
                "summary": "End an active allocation",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/VacateRoomRequest"
                        }
                    }
                ]
            }
        },
        "/students/hostel/apply": {
            "post": {
                "tags": [
                    "Hostel"
                ],
                "summary": "Apply for hostel accommodation",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ApplyHostelRequest"
                        }
                    }
                ]
            }
        },
        "/students/hostel/{email}": {
            "get": {
                "tags": [
                    "Hostel"
                ],
                "summary": "A student's hostel record and roommates",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "email",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ]
            }
        },
        "/students/all": {
            "get": {
                "tags": [
                    "Students"
                ],
                "summary": "List all students",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "page",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "type": "integer"
                    }
                ]
            }
        },
        "/students/by-email/{email}": {
            "get": {
                "tags": [
                    "Students"
                ],
                "summary": "Get a student by email",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "email",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ]
            }
        },
        "/students/{id}": {
            "get": {
                "tags": [
                    "Students"
                ],
                "summary": "Get student detail",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
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
                ]
            },
            "put": {
                "tags": [
                    "Students"
                ],
                "summary": "Update a student profile",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
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
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UpdateStudentRequest"
                        }
                    }
                ]
            },
            "delete": {
                "tags": [
                    "Students"
                ],
                "summary": "Delete a student and their documents",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
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
                ]
            }
        },
        "/fees/create": {
            "post": {
                "tags": [
                    "Fees"
                ],
                "summary": "Publish a fee notice",
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Validation failed",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateFeeRequest"
                        }
                    }
                ]
            }
        },
        "/fees/list": {
            "get": {
                "tags": [
                    "Fees"
                ],
                "summary": "List fee notices",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "semester",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "course",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "status",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "type": "integer"
                    }
                ]
            }
        },
        "/fees/stats": {
            "get": {
                "tags": [
                    "Fees"
                ],
                "summary": "Fee collection statistics",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "semester",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "course",
                        "in": "query",
                        "type": "string"
                    }
                ]
            }
        },
        "/fees/student/{email}": {
            "get": {
                "tags": [
                    "Fees"
                ],
                "summary": "Fee notices addressed to a student",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "email",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ]
            }
        },
        "/fees/pay": {
            "post": {
                "tags": [
                    "Fees"
                ],
                "summary": "Record a manual payment",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Payment already recorded for this fee",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Fee notice or student not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/RecordPaymentRequest"
                        }
                    }
                ]
            }
        },
        "/fees/{id}": {
            "get": {
                "tags": [
                    "Fees"
                ],
                "summary": "Get a fee notice",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
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
                ]
            }
        },
        "/fees/{id}/status": {
            "put": {
                "tags": [
                    "Fees"
                ],
                "summary": "Change a fee notice status",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
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
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UpdateFeeStatusRequest"
                        }
                    }
                ]
            }
        },
        "/fees/{id}/receipts/{receiptNumber}": {
            "get": {
                "tags": [
                    "Fees"
                ],
                "summary": "Download a payment receipt",
                "responses": {
                    "200": {
                        "description": "PDF receipt"
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
                        "name": "receiptNumber",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "produces": [
                    "application/pdf"
                ]
            }
        },
        "/fees/{id}/payments/export": {
            "get": {
                "tags": [
                    "Fees"
                ],
                "summary": "Export the payment ledger",
                "responses": {
                    "200": {
                        "description": "CSV or PDF ledger"
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
                        "name": "format",
                        "in": "query",
                        "type": "string"
                    }
                ],
                "produces": [
                    "text/csv",
                    "application/pdf"
                ]
            }
        },
        "/dashboard/stats": {
            "get": {
                "tags": [
                    "Dashboard"
                ],
                "summary": "Staff dashboard counters",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/documents/download": {
            "get": {
                "tags": [
                    "Documents"
                ],
                "summary": "Download a stored document through a signed token",
                "responses": {
                    "200": {
                        "description": "Document"
                    },
                    "403": {
                        "description": "Invalid or expired token"
                    }
                },
                "parameters": [
                    {
                        "name": "token",
                        "in": "query",
                        "type": "string",
                        "required": true
                    }
                ],
                "produces": [
                    "application/octet-stream"
                ]
            }
        },
        "/notifications/retry": {
            "post": {
                "tags": [
                    "Notifications"
                ],
                "summary": "Re-enqueue failed email deliveries",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/audit-logs": {
            "get": {
                "tags": [
                    "Audit"
                ],
                "summary": "List audit log entries",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "resource",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "resourceId",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "type": "integer"
                    }
                ]
            }
        }
    },
    "definitions": {
        "UpdateAdmissionStatusRequest": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string",
                    "enum": [
                        "Pending",
                        "Under Review",
                        "Approved",
                        "Rejected"
                    ]
                },
                "version": {
                    "type": "integer",
                    "format": "int64"
                }
            },
            "required": [
                "status"
            ]
        },
        "ApproveAdmissionRequest": {
            "type": "object",
            "properties": {
                "password": {
                    "type": "string"
                },
                "version": {
                    "type": "integer",
                    "format": "int64"
                }
            }
        },
        "AllocateRoomRequest": {
            "type": "object",
            "properties": {
                "email": {
                    "type": "string"
                },
                "roomType": {
                    "type": "string",
                    "enum": [
                        "Single",
                        "Double",
                        "Triple"
                    ]
                },
                "roomNumber": {
                    "type": "string"
                },
                "block": {
                    "type": "string"
                },
                "floor": {
                    "type": "string"
                },
                "version": {
                    "type": "integer",
                    "format": "int64"
                }
            },
            "required": [
                "email",
                "roomType",
                "roomNumber"
            ]
        },
        "VacateRoomRequest": {
            "type": "object",
            "properties": {
                "email": {
                    "type": "string"
                },
                "version": {
                    "type": "integer",
                    "format": "int64"
                }
            },
            "required": [
                "email"
            ]
        },
        "ApplyHostelRequest": {
            "type": "object",
            "properties": {
                "email": {
                    "type": "string"
                },
                "preferences": {
                    "type": "object",
                    "properties": {
                        "roomType": {
                            "type": "string",
                            "enum": [
                                "Single",
                                "Double",
                                "Triple"
                            ]
                        },
                        "blockPreference": {
                            "type": "string"
                        }
                    }
                }
            },
            "required": [
                "email"
            ]
        },
        "UpdateStudentRequest": {
            "type": "object",
            "properties": {
                "firstName": {
                    "type": "string"
                },
                "lastName": {
                    "type": "string"
                },
                "phone": {
                    "type": "string"
                },
                "nationality": {
                    "type": "string"
                },
                "address": {
                    "type": "object"
                },
                "academicInfo": {
                    "type": "object"
                },
                "emergencyContact": {
                    "type": "object"
                },
                "version": {
                    "type": "integer",
                    "format": "int64"
                }
            }
        },
        "CreateFeeRequest": {
            "type": "object",
            "properties": {
                "title": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "academicYear": {
                    "type": "string"
                },
                "semester": {
                    "type": "string"
                },
                "course": {
                    "type": "string"
                },
                "amount": {
                    "type": "number"
                },
                "dueDate": {
                    "type": "string"
                },
                "feeType": {
                    "type": "string",
                    "enum": [
                        "Tuition",
                        "Hostel",
                        "Library",
                        "Lab",
                        "Exam",
                        "Other"
                    ]
                },
                "category": {
                    "type": "string",
                    "enum": [
                        "Regular",
                        "Late",
                        "Fine",
                        "Additional"
                    ]
                },
                "isVisible": {
                    "type": "boolean"
                },
                "createdBy": {
                    "type": "string"
                }
            },
            "required": [
                "title",
                "academicYear",
                "semester",
                "course",
                "amount",
                "dueDate"
            ]
        },
        "RecordPaymentRequest": {
            "type": "object",
            "properties": {
                "feeId": {
                    "type": "string"
                },
                "studentEmail": {
                    "type": "string"
                },
                "amount": {
                    "type": "number"
                },
                "paymentMethod": {
                    "type": "string",
                    "enum": [
                        "Online",
                        "Cash",
                        "Cheque",
                        "Bank Transfer"
                    ]
                },
                "transactionId": {
                    "type": "string"
                },
                "notes": {
                    "type": "string"
                },
                "version": {
                    "type": "integer",
                    "format": "int64"
                }
            },
            "required": [
                "feeId",
                "studentEmail",
                "amount"
            ]
        },
        "UpdateFeeStatusRequest": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string",
                    "enum": [
                        "Active",
                        "Inactive",
                        "Cancelled"
                    ]
                },
                "version": {
                    "type": "integer",
                    "format": "int64"
                }
            },
            "required": [
                "status"
            ]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "currentPage": {
                    "type": "integer"
                },
                "totalPages": {
                    "type": "integer"
                },
                "totalItems": {
                    "type": "integer"
                },
                "limit": {
                    "type": "integer"
                },
                "hasNext": {
                    "type": "boolean"
                },
                "hasPrev": {
                    "type": "boolean"
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "message": {
                    "type": "string"
                },
                "data": {
                    "type": "object"
                },
                "errors": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "code": {
                    "type": "string"
                },
                "pagination": {
                    "$ref": "#/definitions/Pagination"
                }
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
