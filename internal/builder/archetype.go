// Package builder assembles canned A2UI surfaces for the fixed UI archetypes.
//
// Every builder is a pure function returning the triple
// [beginRendering, surfaceUpdate, dataModelUpdate] for one surface. Each
// archetype owns a fixed surface id, so rebuilding an archetype replaces the
// content of the surface the client already shows.
package builder

import (
	a2ui "github.com/talkops-ai/k8s-autopilot-sub001/api/v1alpha1"
)

// Archetype is one of the canned surface shapes.
type Archetype string

const (
	ArchetypeStatus     Archetype = "status"
	ArchetypeApproval   Archetype = "approval"
	ArchetypeCompletion Archetype = "completion"
	ArchetypeError      Archetype = "error"
	ArchetypeInfo       Archetype = "info"
)

// Archetypes lists every archetype in a stable order.
var Archetypes = []Archetype{ArchetypeStatus, ArchetypeApproval, ArchetypeCompletion, ArchetypeError, ArchetypeInfo}

// Surface ids owned by the archetypes.
const (
	StatusSurfaceID     = "status"
	ApprovalSurfaceID   = "hitl-form"
	CompletionSurfaceID = "completion"
	ErrorSurfaceID      = "error"
	InfoSurfaceID       = "info"
)

// Data model keys written by the builders.
const (
	KeyTitle   = "title"
	KeyContent = "content"
	KeyStatus  = "status"
	KeyPhaseID = "phaseId"
)

// SurfaceID returns the fixed surface id of the archetype, or "" when the
// archetype is unknown.
func (a Archetype) SurfaceID() string {
	switch a {
	case ArchetypeStatus:
		return StatusSurfaceID
	case ArchetypeApproval:
		return ApprovalSurfaceID
	case ArchetypeCompletion:
		return CompletionSurfaceID
	case ArchetypeError:
		return ErrorSurfaceID
	case ArchetypeInfo:
		return InfoSurfaceID
	}
	return ""
}

// Valid reports whether a is a known archetype.
func (a Archetype) Valid() bool {
	return a.SurfaceID() != ""
}

// DeleteSurface returns the message that removes the archetype's surface.
func DeleteSurface(a Archetype) a2ui.Message {
	return a2ui.NewDeleteSurface(a.SurfaceID())
}

type theme struct {
	icon         a2ui.IconName
	primaryColor string
	title        string
	content      string
}

const font = "Inter"

var themes = map[Archetype]theme{
	ArchetypeStatus: {
		icon:         a2ui.IconRefresh,
		primaryColor: "#818cf8",
		title:        "Working",
		content:      "Processing...",
	},
	ArchetypeApproval: {
		icon:         a2ui.IconWarning,
		primaryColor: "#f59e0b",
		title:        "Approval Required",
		content:      "Please review the proposed changes before continuing.",
	},
	ArchetypeCompletion: {
		icon:         a2ui.IconCheck,
		primaryColor: "#22c55e",
		title:        "Task Complete",
		content:      "The task finished successfully.",
	},
	ArchetypeError: {
		icon:         a2ui.IconError,
		primaryColor: "#ef4444",
		title:        "Error",
		content:      "An unexpected error occurred.",
	},
	ArchetypeInfo: {
		icon:         a2ui.IconInfo,
		primaryColor: "#3b82f6",
		title:        "Information",
		content:      "No additional details.",
	},
}

func (t theme) styles() *a2ui.Styles {
	return &a2ui.Styles{Font: font, PrimaryColor: t.primaryColor}
}
