package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/phrazzld/todo-api/internal/config"
)

// OpenAPIVersion is the version of the OpenAPI specification the document uses.
const OpenAPIVersion = "3.0.3"

// Schema names under components/schemas
const (
	schemaTask        = "Task"
	schemaTaskCreate  = "TaskCreate"
	schemaTaskReplace = "TaskReplace"
	schemaTaskUpdate  = "TaskUpdate"
	schemaError       = "Error"
	schemaHealth      = "HealthResponse"
)

func schemaRef(name string) *openapi3.SchemaRef {
	return openapi3.NewSchemaRef("#/components/schemas/"+name, nil)
}

func jsonResponse(description, schema string) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{
		Value: openapi3.NewResponse().WithDescription(description).WithJSONSchemaRef(schemaRef(schema)),
	}
}

func listResponse(description string) *openapi3.ResponseRef {
	list := openapi3.NewArraySchema()
	list.Items = schemaRef(schemaTask)
	return &openapi3.ResponseRef{
		Value: openapi3.NewResponse().WithDescription(description).WithJSONSchema(list),
	}
}

func jsonBody(schema string) *openapi3.RequestBodyRef {
	return &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchemaRef(schemaRef(schema)),
	}
}

func componentSchemas() openapi3.Schemas {
	task := openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewInt64Schema().WithMin(1)).
		WithProperty("title", openapi3.NewStringSchema().WithMinLength(1)).
		WithProperty("completed", openapi3.NewBoolSchema()).
		WithProperty("created_at", openapi3.NewDateTimeSchema()).
		WithProperty("updated_at", openapi3.NewDateTimeSchema())
	task.Required = []string{"id", "title", "completed", "created_at", "updated_at"}
	task.Description = "A to-do item"

	create := openapi3.NewObjectSchema().
		WithProperty("title", openapi3.NewStringSchema().WithMinLength(1)).
		WithProperty("completed", openapi3.NewBoolSchema().WithDefault(false))
	create.Required = []string{"title"}

	replace := openapi3.NewObjectSchema().
		WithProperty("title", openapi3.NewStringSchema().WithMinLength(1)).
		WithProperty("completed", openapi3.NewBoolSchema().WithDefault(false))
	replace.Required = []string{"title"}
	replace.Description = "Full replacement; an omitted completed flag becomes false"

	update := openapi3.NewObjectSchema().
		WithProperty("title", openapi3.NewStringSchema().WithMinLength(1)).
		WithProperty("completed", openapi3.NewBoolSchema())
	update.MinProps = 1
	update.Description = "Partial update; at least one field is required"

	errSchema := openapi3.NewObjectSchema().
		WithProperty("error", openapi3.NewStringSchema()).
		WithProperty("trace_id", openapi3.NewStringSchema())
	errSchema.Required = []string{"error"}

	health := openapi3.NewObjectSchema().WithProperty("message", openapi3.NewStringSchema())
	health.Required = []string{"message"}

	return openapi3.Schemas{
		schemaTask:        openapi3.NewSchemaRef("", task),
		schemaTaskCreate:  openapi3.NewSchemaRef("", create),
		schemaTaskReplace: openapi3.NewSchemaRef("", replace),
		schemaTaskUpdate:  openapi3.NewSchemaRef("", update),
		schemaError:       openapi3.NewSchemaRef("", errSchema),
		schemaHealth:      openapi3.NewSchemaRef("", health),
	}
}

// NewOpenAPISpec builds the OpenAPI document describing every route NewRouter serves.
func NewOpenAPISpec(cfg config.DocsConfig) *openapi3.T {
	health := &openapi3.Operation{
		Tags:        []string{"Health"},
		Summary:     "Health check",
		OperationID: "healthCheck",
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(http.StatusOK, jsonResponse("Service is healthy", schemaHealth)),
			openapi3.WithStatus(http.StatusServiceUnavailable, jsonResponse("Database unreachable", schemaError)),
		),
	}
	root := *health
	root.OperationID = "rootHealthCheck"

	idParam := &openapi3.ParameterRef{
		Value: openapi3.NewPathParameter("id").
			WithDescription("Task ID").
			WithSchema(openapi3.NewInt64Schema().WithMin(1)),
	}

	badRequest := jsonResponse("Invalid request body", schemaError)
	notFound := jsonResponse("Task not found", schemaError)

	paths := openapi3.NewPaths()
	paths.Set("/", &openapi3.PathItem{Get: &root})
	paths.Set("/health", &openapi3.PathItem{Get: health})
	paths.Set("/api/tasks", &openapi3.PathItem{
		Get: &openapi3.Operation{
			Tags:        []string{"Tasks"},
			Summary:     "List all tasks",
			OperationID: "listTasks",
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(http.StatusOK, listResponse("All tasks in creation order")),
			),
		},
		Post: &openapi3.Operation{
			Tags:        []string{"Tasks"},
			Summary:     "Create a task",
			OperationID: "createTask",
			RequestBody: jsonBody(schemaTaskCreate),
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(http.StatusCreated, jsonResponse("Task created", schemaTask)),
				openapi3.WithStatus(http.StatusBadRequest, badRequest),
			),
		},
	})
	paths.Set("/api/tasks/{id}", &openapi3.PathItem{
		Parameters: openapi3.Parameters{idParam},
		Get: &openapi3.Operation{
			Tags:        []string{"Tasks"},
			Summary:     "Get a task",
			OperationID: "getTask",
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(http.StatusOK, jsonResponse("The task", schemaTask)),
				openapi3.WithStatus(http.StatusNotFound, notFound),
			),
		},
		Put: &openapi3.Operation{
			Tags:        []string{"Tasks"},
			Summary:     "Replace a task",
			OperationID: "replaceTask",
			RequestBody: jsonBody(schemaTaskReplace),
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(http.StatusOK, jsonResponse("Task replaced", schemaTask)),
				openapi3.WithStatus(http.StatusBadRequest, badRequest),
				openapi3.WithStatus(http.StatusNotFound, notFound),
			),
		},
		Patch: &openapi3.Operation{
			Tags:        []string{"Tasks"},
			Summary:     "Update some fields of a task",
			OperationID: "updateTask",
			RequestBody: jsonBody(schemaTaskUpdate),
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(http.StatusOK, jsonResponse("Task updated", schemaTask)),
				openapi3.WithStatus(http.StatusBadRequest, badRequest),
				openapi3.WithStatus(http.StatusNotFound, notFound),
			),
		},
		Delete: &openapi3.Operation{
			Tags:        []string{"Tasks"},
			Summary:     "Delete a task",
			OperationID: "deleteTask",
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(http.StatusNoContent, &openapi3.ResponseRef{
					Value: openapi3.NewResponse().WithDescription("Task deleted"),
				}),
				openapi3.WithStatus(http.StatusNotFound, notFound),
			),
		},
	})

	return &openapi3.T{
		OpenAPI: OpenAPIVersion,
		Info: &openapi3.Info{
			Title:       cfg.Title,
			Version:     cfg.Version,
			Description: "Create, read, update and delete to-do tasks.",
		},
		Tags: openapi3.Tags{
			{Name: "Health", Description: "Service liveness"},
			{Name: "Tasks", Description: "Task management"},
		},
		Components: &openapi3.Components{Schemas: componentSchemas()},
		Paths:      paths,
	}
}

// MarshalOpenAPISpec renders the document as indented JSON.
func MarshalOpenAPISpec(doc *openapi3.T) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

var swaggerUITemplate = template.Must(template.New("swagger-ui").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="{{.AssetsURL}}swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="{{.AssetsURL}}swagger-ui-bundle.js"></script>
  <script>
    window.onload = function () {
      window.ui = SwaggerUIBundle({ url: "{{.SpecURL}}", dom_id: "#swagger-ui" });
    };
  </script>
</body>
</html>
`))

// DocsHandler serves the OpenAPI document and a Swagger UI page for it.
// Both are rendered once at construction.
type DocsHandler struct {
	spec []byte
	page []byte
}

// NewDocsHandler renders the OpenAPI document and the Swagger UI page.
// specURL is the path the UI loads the document from.
func NewDocsHandler(cfg config.DocsConfig, specURL string) (*DocsHandler, error) {
	spec, err := MarshalOpenAPISpec(NewOpenAPISpec(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal OpenAPI document: %w", err)
	}

	assetsURL := cfg.SwaggerUIURL
	if !strings.HasSuffix(assetsURL, "/") {
		assetsURL += "/"
	}

	var page bytes.Buffer
	err = swaggerUITemplate.Execute(&page, struct {
		Title     string
		AssetsURL string
		SpecURL   string
	}{
		Title:     cfg.Title,
		AssetsURL: assetsURL,
		SpecURL:   specURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render Swagger UI page: %w", err)
	}

	return &DocsHandler{spec: spec, page: page.Bytes()}, nil
}

// ServeSpec handles GET /docs/openapi.json
func (h *DocsHandler) ServeSpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.spec)
}

// ServeUI handles GET /docs
func (h *DocsHandler) ServeUI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.page)
}
