// Package docs registers the OpenAPI document served under /swagger.
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
		"/health": {
			"get": {
				"tags": [
					"metrics"
				],
				"summary": "Liveness probe",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/products": {
			"get": {
				"tags": [
					"products"
				],
				"summary": "List products",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "Name contains",
						"name": "name",
						"in": "query"
					},
					{
						"type": "integer",
						"description": "Category ID",
						"name": "category_id",
						"in": "query"
					},
					{
						"type": "integer",
						"description": "Supplier ID",
						"name": "supplier_id",
						"in": "query"
					},
					{
						"type": "integer",
						"description": "Offset",
						"name": "offset",
						"in": "query"
					},
					{
						"type": "integer",
						"description": "Limit",
						"name": "limit",
						"in": "query"
					}
				]
			},
			"post": {
				"tags": [
					"products"
				],
				"summary": "Create a new product",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": ""
					},
					"409": {
						"description": ""
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"description": "Payload",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			}
		},
		"/products/{id}": {
			"get": {
				"tags": [
					"products"
				],
				"summary": "Get product by ID",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"404": {
						"description": ""
					}
				},
				"parameters": [
					{
						"type": "integer",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			},
			"put": {
				"tags": [
					"products"
				],
				"summary": "Update a product",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": ""
					},
					"404": {
						"description": ""
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "integer",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Payload",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			},
			"delete": {
				"tags": [
					"products"
				],
				"summary": "Delete a product",
				"produces": [
					"application/json"
				],
				"responses": {
					"204": {
						"description": "No Content"
					},
					"404": {
						"description": ""
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "integer",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/products/{id}/batches": {
			"get": {
				"tags": [
					"batches"
				],
				"summary": "Batch snapshot",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"description": "Reference date (YYYY-MM-DD)",
						"name": "today",
						"in": "query"
					}
				]
			},
			"post": {
				"tags": [
					"batches"
				],
				"summary": "Receive a batch",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": ""
					},
					"404": {
						"description": ""
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "integer",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Payload",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			}
		},
		"/products/{id}/suggestion": {
			"get": {
				"tags": [
					"batches"
				],
				"summary": "Suggest the next batch to use",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"description": "Reference date (YYYY-MM-DD)",
						"name": "today",
						"in": "query"
					}
				]
			}
		},
		"/products/{id}/forecast": {
			"get": {
				"tags": [
					"planning"
				],
				"summary": "Demand forecast",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": ""
					},
					"404": {
						"description": ""
					},
					"501": {
						"description": ""
					}
				},
				"parameters": [
					{
						"type": "integer",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"type": "integer",
						"description": "Days to project",
						"name": "horizon",
						"in": "query"
					},
					{
						"type": "integer",
						"description": "Days of history",
						"name": "lookback",
						"in": "query"
					},
					{
						"type": "string",
						"description": "Forecast method",
						"name": "method",
						"in": "query"
					}
				]
			}
		},
		"/products/{id}/reorder": {
			"get": {
				"tags": [
					"planning"
				],
				"summary": "Reorder recommendation for one product",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"404": {
						"description": ""
					}
				},
				"parameters": [
					{
						"type": "integer",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/products/{id}/movements": {
			"get": {
				"tags": [
					"movements"
				],
				"summary": "Stock movements of a product",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": ""
					},
					"404": {
						"description": ""
					}
				},
				"parameters": [
					{
						"type": "integer",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"description": "Start date",
						"name": "since",
						"in": "query"
					},
					{
						"type": "string",
						"description": "End date",
						"name": "until",
						"in": "query"
					},
					{
						"type": "string",
						"description": "Movement kind",
						"name": "kind",
						"in": "query"
					},
					{
						"type": "integer",
						"description": "Offset",
						"name": "offset",
						"in": "query"
					},
					{
						"type": "integer",
						"description": "Limit",
						"name": "limit",
						"in": "query"
					}
				]
			}
		},
		"/products/{id}/consumption": {
			"get": {
				"tags": [
					"movements"
				],
				"summary": "Daily consumption of a product",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": ""
					},
					"404": {
						"description": ""
					}
				},
				"parameters": [
					{
						"type": "integer",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"description": "First day",
						"name": "since",
						"in": "query"
					},
					{
						"type": "string",
						"description": "Last day",
						"name": "until",
						"in": "query"
					}
				]
			}
		},
		"/batches/{id}": {
			"get": {
				"tags": [
					"batches"
				],
				"summary": "Get batch by ID",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"404": {
						"description": ""
					}
				},
				"parameters": [
					{
						"type": "integer",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			},
			"delete": {
				"tags": [
					"batches"
				],
				"summary": "Delete a batch",
				"produces": [
					"application/json"
				],
				"responses": {
					"204": {
						"description": "No Content"
					},
					"404": {
						"description": ""
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "integer",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/batches/{id}/adjust": {
			"post": {
				"tags": [
					"batches"
				],
				"summary": "Adjust batch quantity",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": ""
					},
					"404": {
						"description": ""
					},
					"409": {
						"description": ""
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "integer",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Payload",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			}
		},
		"/batches/{id}/empty": {
			"post": {
				"tags": [
					"batches"
				],
				"summary": "Mark a batch empty",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"404": {
						"description": ""
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "integer",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/categories": {
			"get": {
				"tags": [
					"catalog"
				],
				"summary": "List categories",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			},
			"post": {
				"tags": [
					"catalog"
				],
				"summary": "Create a category",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": ""
					},
					"409": {
						"description": ""
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"description": "Payload",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			}
		},
		"/suppliers": {
			"get": {
				"tags": [
					"catalog"
				],
				"summary": "List suppliers",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			},
			"post": {
				"tags": [
					"catalog"
				],
				"summary": "Create a supplier",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": ""
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"description": "Payload",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			}
		},
		"/suppliers/{id}": {
			"get": {
				"tags": [
					"catalog"
				],
				"summary": "Get supplier by ID",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"404": {
						"description": ""
					}
				},
				"parameters": [
					{
						"type": "integer",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			},
			"put": {
				"tags": [
					"catalog"
				],
				"summary": "Update a supplier",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": ""
					},
					"404": {
						"description": ""
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "integer",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Payload",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			}
		},
		"/reorder/recommendations": {
			"get": {
				"tags": [
					"planning"
				],
				"summary": "Reorder recommendations",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": ""
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "all or needed",
						"name": "status",
						"in": "query"
					}
				]
			}
		},
		"/reports/{kind}": {
			"get": {
				"tags": [
					"planning"
				],
				"summary": "Inventory report",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"404": {
						"description": ""
					},
					"501": {
						"description": ""
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "abc, valuation or turnover",
						"name": "kind",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/metrics/dashboard": {
			"get": {
				"tags": [
					"metrics"
				],
				"summary": "Dashboard metrics",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
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
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Grocery Inventory API",
	Description:      "Batch tracking with first-expired-first-out suggestions, demand forecasts and reorder planning.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
