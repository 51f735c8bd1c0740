package server

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/a2aproject/a2a-go/a2a"
	"github.com/gin-gonic/gin"
	"github.com/gowebpki/jcs"
	"k8s.io/apimachinery/pkg/util/validation/field"
	"sigs.k8s.io/controller-runtime/pkg/log"

	a2ui "github.com/talkops-ai/k8s-autopilot-sub001/api/v1alpha1"
	"github.com/talkops-ai/k8s-autopilot-sub001/internal/agent"
	"github.com/talkops-ai/k8s-autopilot-sub001/internal/builder"
	"github.com/talkops-ai/k8s-autopilot-sub001/internal/parser"
	"github.com/talkops-ai/k8s-autopilot-sub001/internal/router"
	"github.com/talkops-ai/k8s-autopilot-sub001/internal/validation"
)

// SurfaceResponse is the body of POST /v1/surfaces
type SurfaceResponse struct {
	Archetype builder.Archetype `json:"archetype"`
	Messages  []a2ui.Message    `json:"messages"`
	Parts     []a2a.Part        `json:"parts"`
}

// ParseRequest is the body of POST /v1/responses/parse
type ParseRequest struct {
	Content string `json:"content"`
}

// ParseResponse is the result of POST /v1/responses/parse
type ParseResponse struct {
	Text     string            `json:"text"`
	Messages []json.RawMessage `json:"messages"`
}

// FieldError is one validation diagnostic
type FieldError struct {
	Field  string `json:"field"`
	Type   string `json:"type"`
	Detail string `json:"detail,omitempty"`
}

// EntryResult is the diagnostic list of one batch element
type EntryResult struct {
	Index  int          `json:"index"`
	Valid  bool         `json:"valid"`
	Errors []FieldError `json:"errors,omitempty"`
}

// ValidateResponse is the result of POST /v1/messages/validate
type ValidateResponse struct {
	Valid   bool          `json:"valid"`
	Entries []EntryResult `json:"entries"`
}

// ChatResponse is the result of POST /v1/chat
type ChatResponse struct {
	Text     string         `json:"text"`
	Messages []a2ui.Message `json:"messages"`
	Parts    []a2a.Part     `json:"parts"`
	Source   agent.Source   `json:"source"`
}

// ActionResponse is the result of POST /v1/actions
type ActionResponse struct {
	*agent.ActionResult
	Parts []a2a.Part `json:"parts"`
}

func (s *APIServer) getStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"version":       s.version,
		"schemaEnabled": s.validator.SchemaEnabled(),
		"llmEnabled":    s.responder.HasModel(),
	})
}

func (s *APIServer) getAgentCard(c *gin.Context) {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	c.JSON(http.StatusOK, AgentCard(scheme+"://"+c.Request.Host, s.version))
}

func (s *APIServer) getSchema(c *gin.Context) {
	c.Data(http.StatusOK, "application/schema+json", []byte(validation.SchemaJSON()))
}

func (s *APIServer) buildSurface(c *gin.Context) {
	logger := log.FromContext(c.Request.Context())

	var req router.Response
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	msgs := router.Build(req)
	parts, err := router.BuildParts(req)
	if err != nil {
		logger.Error(err, "Failed to wrap surface")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to wrap surface: " + err.Error()})
		return
	}

	etag, err := batchETag(msgs)
	if err != nil {
		logger.Error(err, "Failed to compute ETag")
	} else {
		c.Header("ETag", etag)
		if c.GetHeader("If-None-Match") == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	c.JSON(http.StatusOK, SurfaceResponse{
		Archetype: router.Select(req),
		Messages:  msgs,
		Parts:     parts,
	})
}

// batchETag hashes the RFC 8785 canonical form of msgs.
func batchETag(msgs []a2ui.Message) (string, error) {
	data, err := json.Marshal(msgs)
	if err != nil {
		return "", err
	}
	canonical, err := jcs.Transform(data)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return `"` + hex.EncodeToString(sum[:]) + `"`, nil
}

func (s *APIServer) parseResponse(c *gin.Context) {
	var req ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	text, msgs := parser.ParseResponse(c.Request.Context(), req.Content)
	c.JSON(http.StatusOK, ParseResponse{Text: text, Messages: msgs})
}

func (s *APIServer) validateMessages(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body: " + err.Error()})
		return
	}

	result, err := s.validator.ValidateJSON(c.Request.Context(), body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp := ValidateResponse{Valid: result.Valid(), Entries: make([]EntryResult, 0, len(result.Entries))}
	for _, e := range result.Entries {
		resp.Entries = append(resp.Entries, EntryResult{
			Index:  e.Index,
			Valid:  e.Valid(),
			Errors: toFieldErrors(e.Errors),
		})
	}

	status := http.StatusOK
	if !resp.Valid {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, resp)
}

func toFieldErrors(errs field.ErrorList) []FieldError {
	if len(errs) == 0 {
		return nil
	}
	out := make([]FieldError, 0, len(errs))
	for _, e := range errs {
		out = append(out, FieldError{Field: e.Field, Type: string(e.Type), Detail: e.ErrorBody()})
	}
	return out
}

func (s *APIServer) handleAction(c *gin.Context) {
	logger := log.FromContext(c.Request.Context())

	var event a2ui.ClientEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if event.UserAction == nil || event.UserAction.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userAction.name is required"})
		return
	}

	result, err := s.responder.HandleAction(c.Request.Context(), *event.UserAction)
	switch {
	case errors.Is(err, agent.ErrUnknownAction):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, agent.ErrInvalidAction):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	case err != nil:
		logger.Error(err, "Failed to handle action")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to handle action: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, ActionResponse{ActionResult: result, Parts: result.Parts})
}

func (s *APIServer) chat(c *gin.Context) {
	logger := log.FromContext(c.Request.Context())

	var req agent.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}
	if !s.responder.HasModel() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": agent.ErrNoModel.Error()})
		return
	}

	reply, err := s.responder.Respond(c.Request.Context(), req)
	if err != nil {
		logger.Error(err, "Failed to respond")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to respond: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, ChatResponse{
		Text:     reply.Text,
		Messages: reply.Messages,
		Parts:    reply.Parts,
		Source:   reply.Source,
	})
}
