// Package web provides HTTP handlers and REST API endpoints for the
// workflow builder gateway.
package web

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/Izguerra/workflow-builder/pkg/auth"
	"github.com/Izguerra/workflow-builder/pkg/models"
	"github.com/Izguerra/workflow-builder/pkg/schema"
	"github.com/Izguerra/workflow-builder/pkg/services"
)

type APIHandlers struct {
	workflowService *services.Workflow
	versionService  *services.Version
	shareService    *services.Share
	registry        *auth.Registry
	validator       *validator.Validate
}

func NewAPIHandlers(
	workflowService *services.Workflow,
	versionService *services.Version,
	shareService *services.Share,
	registry *auth.Registry,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		workflowService: workflowService,
		versionService:  versionService,
		shareService:    shareService,
		registry:        registry,
		validator:       validator,
	}
}

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	identity, ok := requestIdentity(c)
	if !ok {
		return unauthorized(c, "Missing credentials")
	}

	workflows, err := h.workflowService.List(c.Context(), identity.UID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"workflows": workflows})
}

func (h *APIHandlers) GetSharedWorkflows(c fiber.Ctx) error {
	identity, ok := requestIdentity(c)
	if !ok {
		return unauthorized(c, "Missing credentials")
	}

	workflows, err := h.workflowService.ListShared(c.Context(), identity.UID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"workflows": workflows})
}

func (h *APIHandlers) CreateWorkflow(c fiber.Ctx) error {
	identity, ok := requestIdentity(c)
	if !ok {
		return unauthorized(c, "Missing credentials")
	}

	var req CreateWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	created, err := h.workflowService.Create(c.Context(), identity.UID, services.CreateWorkflowRequest{
		Name:        req.Name,
		Description: req.Description,
		Nodes:       req.Nodes,
		Edges:       req.Edges,
		IsPublic:    req.IsPublic,
		Tags:        req.Tags,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	identity, ok := requestIdentity(c)
	if !ok {
		return unauthorized(c, "Missing credentials")
	}

	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	workflow, err := h.workflowService.Get(c.Context(), identity.UID, id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(workflow)
}

func (h *APIHandlers) UpdateWorkflow(c fiber.Ctx) error {
	identity, ok := requestIdentity(c)
	if !ok {
		return unauthorized(c, "Missing credentials")
	}

	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	var req UpdateWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	updated, err := h.workflowService.Update(c.Context(), identity.UID, id, services.UpdateWorkflowRequest{
		Name:        req.Name,
		Description: req.Description,
		Nodes:       req.Nodes,
		Edges:       req.Edges,
		IsPublic:    req.IsPublic,
		Tags:        req.Tags,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) DeleteWorkflow(c fiber.Ctx) error {
	identity, ok := requestIdentity(c)
	if !ok {
		return unauthorized(c, "Missing credentials")
	}

	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	if err := h.workflowService.Delete(c.Context(), identity.UID, id); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) CreateWorkflowVersion(c fiber.Ctx) error {
	identity, ok := requestIdentity(c)
	if !ok {
		return unauthorized(c, "Missing credentials")
	}

	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	var req CreateVersionRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return badRequest(c, "Invalid JSON format")
		}
	}

	version, err := h.versionService.Snapshot(c.Context(), identity.UID, id, req.Description)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(version)
}

func (h *APIHandlers) GetWorkflowVersions(c fiber.Ctx) error {
	identity, ok := requestIdentity(c)
	if !ok {
		return unauthorized(c, "Missing credentials")
	}

	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	versions, err := h.versionService.List(c.Context(), identity.UID, id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"versions": versions})
}

func (h *APIHandlers) ShareWorkflow(c fiber.Ctx) error {
	identity, ok := requestIdentity(c)
	if !ok {
		return unauthorized(c, "Missing credentials")
	}

	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	var req ShareWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	shareID, err := h.shareService.Grant(c.Context(), identity.UID, id, req.UserID, models.SharePermission(req.Permission))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(ShareWorkflowResponse{ID: shareID})
}

func (h *APIHandlers) GetNodeTypes(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"types": models.ServiceTypes()})
}

func (h *APIHandlers) GetNodeTypeFields(c fiber.Ctx) error {
	serviceType := c.Params("type")
	if serviceType == "" {
		return badRequest(c, "Node type is required")
	}

	return c.JSON(fiber.Map{
		"type":   serviceType,
		"fields": schema.FieldsFor(models.ServiceType(serviceType)),
	})
}

func (h *APIHandlers) Signup(c fiber.Ctx) error {
	var req SignupRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	identity, err := h.registry.Signup(c.Context(), req.Email, req.Password)
	if err != nil {
		if services.IsConflictError(err) {
			return handleServiceError(c, err)
		}

		return badRequest(c, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(SignupResponse{UID: identity.UID, Email: identity.Email})
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, repOk := h.workflowService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Workflow Builder API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if repOk {
		status = "healthy"
		message = "Workflow Builder API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}
