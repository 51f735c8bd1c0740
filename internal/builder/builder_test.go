package builder

import (
	"context"
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	a2ui "github.com/talkops-ai/k8s-autopilot-sub001/api/v1alpha1"
	"github.com/talkops-ai/k8s-autopilot-sub001/internal/validation"
)

func dataOf(msgs []a2ui.Message) map[string]interface{} {
	ExpectWithOffset(1, msgs).To(HaveLen(3))
	ExpectWithOffset(1, msgs[2].DataModelUpdate).NotTo(BeNil())
	return a2ui.EntriesToMap(msgs[2].DataModelUpdate.Contents)
}

func componentByID(msgs []a2ui.Message, id string) *a2ui.ComponentInstance {
	for i, c := range msgs[1].SurfaceUpdate.Components {
		if c.ID == id {
			return &msgs[1].SurfaceUpdate.Components[i]
		}
	}
	return nil
}

var _ = Describe("Builders", func() {
	DescribeTable("emit beginRendering, surfaceUpdate and dataModelUpdate for a fixed surface",
		func(msgs []a2ui.Message, surfaceID string) {
			Expect(msgs).To(HaveLen(3))
			Expect(msgs[0].Kind()).To(Equal(a2ui.MessageBeginRendering))
			Expect(msgs[1].Kind()).To(Equal(a2ui.MessageSurfaceUpdate))
			Expect(msgs[2].Kind()).To(Equal(a2ui.MessageDataModelUpdate))
			for _, m := range msgs {
				Expect(m.SurfaceID()).To(Equal(surfaceID))
			}

			Expect(msgs[0].BeginRendering.Root).To(Equal("root"))
			Expect(componentByID(msgs, "root")).NotTo(BeNil())
			Expect(msgs[2].DataModelUpdate.Path).To(Equal(a2ui.DataModelRoot))

			data := dataOf(msgs)
			Expect(data).To(HaveKey(KeyTitle))
			Expect(data).To(HaveKey(KeyContent))
		},
		Entry("working status", WorkingStatus("Generating...", "working"), StatusSurfaceID),
		Entry("approval", HITLApproval("Review the chart", "planning", "Approve plan"), ApprovalSurfaceID),
		Entry("completion", Completion("Done", ""), CompletionSurfaceID),
		Entry("error", Error("boom", "Failed"), ErrorSurfaceID),
		Entry("info", Info("fyi", ""), InfoSurfaceID),
	)

	It("produces batches the validator accepts", func() {
		validator, err := validation.NewValidator()
		Expect(err).NotTo(HaveOccurred())

		batches := [][]a2ui.Message{
			WorkingStatus("", ""),
			HITLApproval("", "", ""),
			Completion("", ""),
			Error("", ""),
			Info("", ""),
			{DeleteSurface(ArchetypeApproval)},
		}
		for _, batch := range batches {
			raw := make([]json.RawMessage, len(batch))
			for i, m := range batch {
				raw[i], err = json.Marshal(m)
				Expect(err).NotTo(HaveOccurred())
			}
			result := validator.ValidateBatch(context.Background(), raw)
			Expect(result.Errors()).To(BeEmpty())
		}
	})

	Context("WorkingStatus", func() {
		It("writes the status into the data model", func() {
			data := dataOf(WorkingStatus("Generating...", "validating"))
			Expect(data).To(HaveKeyWithValue(KeyContent, "Generating..."))
			Expect(data).To(HaveKeyWithValue(KeyStatus, "validating"))
		})

		It("falls back to placeholders", func() {
			data := dataOf(WorkingStatus("", "  "))
			Expect(data).To(HaveKeyWithValue(KeyContent, "Processing..."))
			Expect(data).To(HaveKeyWithValue(KeyStatus, "working"))
		})

		It("uses the status accent color", func() {
			msgs := WorkingStatus("x", "")
			Expect(msgs[0].BeginRendering.Styles.PrimaryColor).To(Equal("#818cf8"))
		})
	})

	Context("HITLApproval", func() {
		var msgs []a2ui.Message

		BeforeEach(func() {
			msgs = HITLApproval("Please review the generated chart", "generation", "Review chart")
		})

		It("stores the phase id in the data model", func() {
			data := dataOf(msgs)
			Expect(data).To(HaveKeyWithValue(KeyPhaseID, "generation"))
			Expect(data).To(HaveKeyWithValue(KeyTitle, "Review chart"))
		})

		DescribeTable("wires each button to hitl_response",
			func(id string, decision a2ui.Decision) {
				ci := componentByID(msgs, id)
				Expect(ci).NotTo(BeNil())
				Expect(ci.Component.Button).NotTo(BeNil())

				action := ci.Component.Button.Action
				Expect(action.Name).To(Equal(a2ui.ActionHITLResponse))
				Expect(action.Context).To(HaveLen(2))

				Expect(action.Context[0].Key).To(Equal(a2ui.ContextDecision))
				Expect(action.Context[0].Value.Kind()).To(Equal(a2ui.BindingLiteralString))
				Expect(*action.Context[0].Value.LiteralString).To(Equal(string(decision)))

				Expect(action.Context[1].Key).To(Equal(a2ui.ContextPhase))
				Expect(action.Context[1].Value.Kind()).To(Equal(a2ui.BindingPath))
				Expect(*action.Context[1].Value.Path).To(Equal("/" + KeyPhaseID))
			},
			Entry("approve", "approve-button", a2ui.DecisionApproved),
			Entry("reject", "reject-button", a2ui.DecisionRejected),
		)

		It("only the approval surface carries buttons", func() {
			for _, other := range [][]a2ui.Message{WorkingStatus("", ""), Completion("", ""), Error("", ""), Info("", "")} {
				for _, c := range other[1].SurfaceUpdate.Components {
					Expect(c.Component.Button).To(BeNil())
				}
			}
		})
	})

	Context("Archetype", func() {
		It("maps every archetype to its surface", func() {
			ids := map[Archetype]string{}
			for _, a := range Archetypes {
				Expect(a.Valid()).To(BeTrue())
				ids[a] = a.SurfaceID()
			}
			Expect(ids).To(Equal(map[Archetype]string{
				ArchetypeStatus:     "status",
				ArchetypeApproval:   "hitl-form",
				ArchetypeCompletion: "completion",
				ArchetypeError:      "error",
				ArchetypeInfo:       "info",
			}))
			Expect(Archetype("modal").Valid()).To(BeFalse())
		})

		It("builds a deleteSurface for the archetype's surface", func() {
			msg := DeleteSurface(ArchetypeError)
			Expect(msg.Kind()).To(Equal(a2ui.MessageDeleteSurface))
			Expect(msg.SurfaceID()).To(Equal("error"))
		})
	})
})
