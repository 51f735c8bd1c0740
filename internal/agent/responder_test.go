package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	a2ui "github.com/talkops-ai/k8s-autopilot-sub001/api/v1alpha1"
	"github.com/talkops-ai/k8s-autopilot-sub001/internal/adapters"
	"github.com/talkops-ai/k8s-autopilot-sub001/internal/builder"
	"github.com/talkops-ai/k8s-autopilot-sub001/internal/llmclient"
	"github.com/talkops-ai/k8s-autopilot-sub001/internal/router"
	"github.com/talkops-ai/k8s-autopilot-sub001/internal/validation"
)

func newTestResponder(llm llmclient.LLMClient) *Responder {
	validator, err := validation.NewValidator()
	Expect(err).NotTo(HaveOccurred())
	r, err := NewResponder(llm, validator, WithRole("a test agent"))
	Expect(err).NotTo(HaveOccurred())
	return r
}

func modelReply(content string) *llmclient.MockLLMClient {
	return &llmclient.MockLLMClient{Response: &llmclient.Message{Role: llmclient.RoleAssistant, Content: content}}
}

var _ = Describe("Responder", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Context("when the model returns valid A2UI", func() {
		It("uses the model's messages", func() {
			mock := modelReply("Removing the old form.\n---a2ui_JSON---\n[{\"deleteSurface\":{\"surfaceId\":\"hitl-form\"}}]")
			reply, err := newTestResponder(mock).Respond(ctx, Request{Message: "close it"})
			Expect(err).NotTo(HaveOccurred())

			Expect(reply.Source).To(Equal(SourceModel))
			Expect(reply.Text).To(Equal("Removing the old form."))
			Expect(reply.Messages).To(Equal([]a2ui.Message{a2ui.NewDeleteSurface("hitl-form")}))
			Expect(reply.Parts).To(HaveLen(2))
			Expect(adapters.IsA2UIPart(reply.Parts[1])).To(BeTrue())
		})

		It("sends the system prompt, history and user message in order", func() {
			mock := modelReply("ok")
			_, err := newTestResponder(mock).Respond(ctx, Request{
				Message: "deploy nginx",
				History: []llmclient.Message{
					{Role: llmclient.RoleUser, Content: "hello"},
					{Role: llmclient.RoleAssistant, Content: "hi"},
				},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(mock.CallCount()).To(Equal(1))

			window := mock.Calls[0].Messages
			Expect(window).To(HaveLen(4))
			Expect(window[0].Role).To(Equal(llmclient.RoleSystem))
			Expect(window[0].Content).To(HavePrefix("You are a test agent."))
			Expect(window[1].Content).To(Equal("hello"))
			Expect(window[3]).To(Equal(llmclient.Message{Role: llmclient.RoleUser, Content: "deploy nginx"}))
		})
	})

	Context("when the model returns no usable A2UI", func() {
		It("builds a working status from plain text", func() {
			reply, err := newTestResponder(modelReply("I am generating the chart.")).Respond(ctx, Request{Message: "go"})
			Expect(err).NotTo(HaveOccurred())
			Expect(reply.Source).To(Equal(SourceBuilder))
			Expect(reply.Text).To(Equal("I am generating the chart."))
			Expect(reply.Messages).To(HaveLen(3))
			Expect(reply.Messages[0].SurfaceID()).To(Equal(builder.StatusSurfaceID))

			data := a2ui.EntriesToMap(reply.Messages[2].DataModelUpdate.Contents)
			Expect(data).To(HaveKeyWithValue("content", "I am generating the chart."))
		})

		It("follows the request flags for the canned surface", func() {
			reply, err := newTestResponder(modelReply("Please review the generated chart.")).Respond(ctx, Request{
				Message: "generate",
				Context: router.Response{
					RequireUserInput: true,
					Metadata:         map[string]interface{}{"phase_id": "generation"},
				},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(reply.Messages[0].SurfaceID()).To(Equal(builder.ApprovalSurfaceID))
		})

		It("drops a batch that fails validation", func() {
			content := "Done.\n---a2ui_JSON---\n[{\"beginRendering\":{\"surfaceId\":\"s\",\"root\":\"r\",\"styles\":{\"primaryColor\":\"red\"}}}]"
			reply, err := newTestResponder(modelReply(content)).Respond(ctx, Request{
				Message: "finish",
				Context: router.Response{IsTaskComplete: true},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(reply.Source).To(Equal(SourceBuilder))
			Expect(reply.Text).To(Equal("Done."))
			Expect(reply.Messages[0].SurfaceID()).To(Equal(builder.CompletionSurfaceID))
		})

		It("degrades to the conversational text when the payload does not decode", func() {
			content := "hi\n---a2ui_JSON---\nnot json"
			reply, err := newTestResponder(modelReply(content)).Respond(ctx, Request{Message: "x"})
			Expect(err).NotTo(HaveOccurred())
			Expect(reply.Text).To(Equal("hi"))
			Expect(reply.Source).To(Equal(SourceText))
			Expect(reply.Messages).To(BeEmpty())
			Expect(reply.Parts).To(HaveLen(1))
		})

		It("never offers approval buttons for a truncated payload", func() {
			content := "Here is the status.\n---a2ui_JSON---\n" +
				`[{"surfaceUpdate":{"surfaceId":"hitl-form","components":[{"id":"approve-button","component":{"Button":{"child":"l","action":{"name":"hitl_response","context":[{"key":"decision","value":{"literalString":"approved"}}`
			reply, err := newTestResponder(modelReply(content)).Respond(ctx, Request{
				Message: "status?",
				Context: router.Response{RequireUserInput: true},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(reply.Text).To(Equal("Here is the status."))
			Expect(reply.Messages).To(BeEmpty())
			for _, part := range reply.Parts {
				Expect(adapters.IsA2UIPart(part)).To(BeFalse())
			}
		})

		It("shows a non-interactive surface when nothing precedes an undecodable payload", func() {
			reply, err := newTestResponder(modelReply("---a2ui_JSON---\n[{")).Respond(ctx, Request{
				Message: "x",
				Context: router.Response{RequireUserInput: true, Content: "please approve"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(reply.Text).To(BeEmpty())
			Expect(reply.Messages).To(HaveLen(3))
			Expect(reply.Messages[0].SurfaceID()).To(Equal(builder.InfoSurfaceID))
		})
	})

	Context("when the model call fails", func() {
		It("replies with the error surface", func() {
			mock := &llmclient.MockLLMClient{Error: &llmclient.LLMRequestError{StatusCode: 503, Message: "down"}}
			reply, err := newTestResponder(mock).Respond(ctx, Request{Message: "x"})
			Expect(err).NotTo(HaveOccurred())
			Expect(reply.Source).To(Equal(SourceBuilder))
			Expect(reply.Messages).To(HaveLen(3))
			Expect(reply.Messages[0].SurfaceID()).To(Equal(builder.ErrorSurfaceID))
			Expect(reply.Parts).NotTo(BeEmpty())
		})
	})

	It("fails without a model", func() {
		r := newTestResponder(nil)
		Expect(r.HasModel()).To(BeFalse())
		_, err := r.Respond(ctx, Request{Message: "x"})
		Expect(errors.Is(err, ErrNoModel)).To(BeTrue())
	})
})

var _ = Describe("HandleAction", func() {
	var (
		ctx       context.Context
		responder *Responder
	)

	BeforeEach(func() {
		ctx = context.Background()
		responder = newTestResponder(nil)
	})

	hitl := func(decision, phase string) a2ui.UserAction {
		return a2ui.UserAction{
			Name:              a2ui.ActionHITLResponse,
			SurfaceID:         builder.ApprovalSurfaceID,
			SourceComponentID: "approve-button",
			Context:           map[string]interface{}{"decision": decision, "phase": phase},
		}
	}

	It("resumes after an approval", func() {
		result, err := responder.HandleAction(ctx, hitl("approved", "planning"))
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Action).To(Equal(a2ui.ActionHITLResponse))
		Expect(result.Decision).To(Equal(a2ui.DecisionApproved))
		Expect(result.Phase).To(Equal("planning"))

		Expect(result.Messages).To(HaveLen(4))
		Expect(result.Messages[0]).To(Equal(a2ui.NewDeleteSurface(builder.ApprovalSurfaceID)))
		Expect(result.Messages[1].SurfaceID()).To(Equal(builder.StatusSurfaceID))
		data := a2ui.EntriesToMap(result.Messages[3].DataModelUpdate.Contents)
		Expect(data).To(HaveKeyWithValue("status", "resuming"))
		Expect(data[builder.KeyContent]).To(ContainSubstring("planning"))
		Expect(result.Parts).To(HaveLen(4))
	})

	It("shows an info surface after a rejection", func() {
		result, err := responder.HandleAction(ctx, hitl("rejected", ""))
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Decision).To(Equal(a2ui.DecisionRejected))
		Expect(result.Messages[1].SurfaceID()).To(Equal(builder.InfoSurfaceID))
		data := a2ui.EntriesToMap(result.Messages[3].DataModelUpdate.Contents)
		Expect(data).To(HaveKeyWithValue("title", "Changes Rejected"))
		Expect(strings.HasPrefix(data["content"].(string), "Rejected.")).To(BeTrue())
	})

	It("rejects an unknown decision", func() {
		_, err := responder.HandleAction(ctx, hitl("maybe", "planning"))
		Expect(errors.Is(err, ErrInvalidAction)).To(BeTrue())
	})

	It("rejects unknown action names", func() {
		_, err := responder.HandleAction(ctx, a2ui.UserAction{Name: "launch_rocket"})
		Expect(errors.Is(err, ErrUnknownAction)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("launch_rocket"))
	})

	It("runs registered handlers", func() {
		responder.RegisterAction(a2ui.ActionDeployChart, func(_ context.Context, action a2ui.UserAction) (*ActionResult, error) {
			return &ActionResult{Messages: builder.WorkingStatus("Deploying "+action.ContextString("chart"), "deploying")}, nil
		})
		result, err := responder.HandleAction(ctx, a2ui.UserAction{
			Name:    a2ui.ActionDeployChart,
			Context: map[string]interface{}{"chart": "nginx"},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Action).To(Equal(a2ui.ActionDeployChart))
		Expect(result.Messages).To(HaveLen(3))
	})

	It("allows registering handlers while actions are handled", func() {
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(2)
			go func(i int) {
				defer wg.Done()
				defer GinkgoRecover()
				responder.RegisterAction(fmt.Sprintf("custom_%d", i), func(context.Context, a2ui.UserAction) (*ActionResult, error) {
					return &ActionResult{Messages: builder.Info("ok", "")}, nil
				})
			}(i)
			go func() {
				defer wg.Done()
				defer GinkgoRecover()
				_, err := responder.HandleAction(ctx, hitl("approved", "planning"))
				Expect(err).NotTo(HaveOccurred())
			}()
		}
		wg.Wait()

		result, err := responder.HandleAction(ctx, a2ui.UserAction{Name: "custom_7"})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Messages).To(HaveLen(3))
	})
})
