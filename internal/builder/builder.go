package builder

import (
	"strings"

	"k8s.io/utils/ptr"

	a2ui "github.com/talkops-ai/k8s-autopilot-sub001/api/v1alpha1"
)

// Component ids shared by every archetype's tree.
const (
	idRoot    = "root"
	idBody    = "body"
	idHeader  = "header"
	idIcon    = "header-icon"
	idTitle   = "title"
	idContent = "content"
	idStatus  = "status-text"
	idDivider = "divider"
	idActions = "actions"
	idApprove = "approve-button"
	idReject  = "reject-button"

	idApproveLabel = "approve-label"
	idRejectLabel  = "reject-label"
)

// WorkingStatus renders an in-progress surface. status defaults to "working".
func WorkingStatus(content, status string) []a2ui.Message {
	t := themes[ArchetypeStatus]
	if status = strings.TrimSpace(status); status == "" {
		status = "working"
	}
	tree := card(t, idStatus)
	tree = append(tree, component(idStatus, a2ui.Component{Text: &a2ui.Text{
		Text:      a2ui.Bound("/" + KeyStatus),
		UsageHint: a2ui.TextUsageCaption,
	}}))
	return surface(ArchetypeStatus, t, tree,
		a2ui.StringEntry(KeyTitle, t.title),
		a2ui.StringEntry(KeyContent, orDefault(content, t.content)),
		a2ui.StringEntry(KeyStatus, status),
	)
}

// HITLApproval renders an approval form with Approve and Reject buttons. Both
// buttons fire hitl_response; the decision is fixed per button while the phase
// is read from the data model when the button is pressed.
func HITLApproval(content, phaseID, title string) []a2ui.Message {
	t := themes[ArchetypeApproval]
	tree := card(t, idDivider, idActions)
	tree = append(tree,
		component(idDivider, a2ui.Component{Divider: &a2ui.Divider{Axis: a2ui.DividerAxisHorizontal}}),
		component(idActions, a2ui.Component{Row: &a2ui.Row{
			Children:     a2ui.ExplicitChildren(idReject, idApprove),
			Distribution: a2ui.DistributionEnd,
			Alignment:    a2ui.AlignmentCenter,
		}}),
		decisionButton(idApprove, idApproveLabel, a2ui.DecisionApproved, true),
		label(idApproveLabel, "Approve"),
		decisionButton(idReject, idRejectLabel, a2ui.DecisionRejected, false),
		label(idRejectLabel, "Reject"),
	)
	return surface(ArchetypeApproval, t, tree,
		a2ui.StringEntry(KeyTitle, orDefault(title, t.title)),
		a2ui.StringEntry(KeyContent, orDefault(content, t.content)),
		a2ui.StringEntry(KeyPhaseID, strings.TrimSpace(phaseID)),
	)
}

// Completion renders the final surface of a finished task.
func Completion(content, title string) []a2ui.Message {
	return simple(ArchetypeCompletion, content, title)
}

// Error renders a failure surface.
func Error(content, title string) []a2ui.Message {
	return simple(ArchetypeError, content, title)
}

// Info renders an informational surface with no interaction.
func Info(content, title string) []a2ui.Message {
	return simple(ArchetypeInfo, content, title)
}

func simple(a Archetype, content, title string) []a2ui.Message {
	t := themes[a]
	return surface(a, t, card(t),
		a2ui.StringEntry(KeyTitle, orDefault(title, t.title)),
		a2ui.StringEntry(KeyContent, orDefault(content, t.content)),
	)
}

func surface(a Archetype, t theme, tree []a2ui.ComponentInstance, data ...a2ui.DataEntry) []a2ui.Message {
	id := a.SurfaceID()
	return []a2ui.Message{
		a2ui.NewBeginRendering(id, idRoot, t.styles()),
		a2ui.NewSurfaceUpdate(id, tree...),
		a2ui.NewDataModelUpdate(id, a2ui.DataModelRoot, data...),
	}
}

// card is the frame every archetype shares: a card holding a column with a
// header row (icon and title), the content text and then extra ids.
func card(t theme, extra ...string) []a2ui.ComponentInstance {
	body := append([]string{idHeader, idContent}, extra...)
	return []a2ui.ComponentInstance{
		component(idRoot, a2ui.Component{Card: &a2ui.Card{Child: idBody}}),
		component(idBody, a2ui.Component{Column: &a2ui.Column{
			Children:  a2ui.ExplicitChildren(body...),
			Alignment: a2ui.AlignmentStretch,
		}}),
		component(idHeader, a2ui.Component{Row: &a2ui.Row{
			Children:  a2ui.ExplicitChildren(idIcon, idTitle),
			Alignment: a2ui.AlignmentCenter,
		}}),
		component(idIcon, a2ui.Component{Icon: &a2ui.Icon{Name: a2ui.Literal(string(t.icon))}}),
		{
			ID:     idTitle,
			Weight: ptr.To(1.0),
			Component: a2ui.Component{Text: &a2ui.Text{
				Text:      a2ui.Bound("/" + KeyTitle),
				UsageHint: a2ui.TextUsageH3,
			}},
		},
		component(idContent, a2ui.Component{Text: &a2ui.Text{
			Text:      a2ui.Bound("/" + KeyContent),
			UsageHint: a2ui.TextUsageBody,
		}}),
	}
}

func decisionButton(id, labelID string, decision a2ui.Decision, primary bool) a2ui.ComponentInstance {
	return component(id, a2ui.Component{Button: &a2ui.Button{
		Child:   labelID,
		Primary: primary,
		Action: a2ui.Action{
			Name: a2ui.ActionHITLResponse,
			Context: []a2ui.ActionContextEntry{
				{Key: a2ui.ContextDecision, Value: a2ui.LiteralStringValue(string(decision))},
				{Key: a2ui.ContextPhase, Value: a2ui.PathValue("/" + KeyPhaseID)},
			},
		},
	}})
}

func label(id, text string) a2ui.ComponentInstance {
	return component(id, a2ui.Component{Text: &a2ui.Text{Text: a2ui.Literal(text)}})
}

func component(id string, c a2ui.Component) a2ui.ComponentInstance {
	return a2ui.ComponentInstance{ID: id, Component: c}
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
