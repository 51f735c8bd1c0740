package router

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	a2ui "github.com/talkops-ai/k8s-autopilot-sub001/api/v1alpha1"
	"github.com/talkops-ai/k8s-autopilot-sub001/internal/adapters"
	"github.com/talkops-ai/k8s-autopilot-sub001/internal/builder"
)

var _ = Describe("Router", func() {
	Context("Select", func() {
		DescribeTable("applies the decision order",
			func(resp Response, want builder.Archetype) {
				Expect(Select(resp)).To(Equal(want))
			},
			Entry("error wins over everything",
				Response{ResponseType: "error", RequireUserInput: true, IsTaskComplete: true,
					Metadata: map[string]interface{}{"interrupt_type": "hitl_gate"}},
				builder.ArchetypeError),
			Entry("user input with an interrupt type is an approval",
				Response{RequireUserInput: true, IsTaskComplete: true,
					Metadata: map[string]interface{}{"interrupt_type": "generation_review"}},
				builder.ArchetypeApproval),
			Entry("user input with an approval phrase is an approval",
				Response{RequireUserInput: true, Content: "Please review the generated chart"},
				builder.ArchetypeApproval),
			Entry("user input without a signal is info",
				Response{RequireUserInput: true, Content: "Which namespace should I use?"},
				builder.ArchetypeInfo),
			Entry("completion",
				Response{IsTaskComplete: true, Content: "done"},
				builder.ArchetypeCompletion),
			Entry("default is a working status",
				Response{Content: "Generating..."},
				builder.ArchetypeStatus),
			Entry("unknown response types fall through",
				Response{ResponseType: "warning"},
				builder.ArchetypeStatus),
		)
	})

	Context("Build", func() {
		It("passes status metadata to the working status surface", func() {
			msgs := Build(Response{Content: "Rendering templates", Metadata: map[string]interface{}{"status": "generating"}})
			Expect(msgs).To(HaveLen(3))
			Expect(msgs[0].SurfaceID()).To(Equal(builder.StatusSurfaceID))
			data := a2ui.EntriesToMap(msgs[2].DataModelUpdate.Contents)
			Expect(data).To(HaveKeyWithValue("status", "generating"))
			Expect(data).To(HaveKeyWithValue("content", "Rendering templates"))
		})

		It("defaults the status to working", func() {
			data := a2ui.EntriesToMap(Build(Response{})[2].DataModelUpdate.Contents)
			Expect(data).To(HaveKeyWithValue("status", "working"))
			Expect(data).To(HaveKeyWithValue("content", "Processing..."))
		})

		It("passes phase and title to the approval surface", func() {
			msgs := Build(Response{
				RequireUserInput: true,
				Content:          map[string]interface{}{"message": "Plan ready"},
				Metadata: map[string]interface{}{
					"interrupt_type": "planning_review",
					"phase_id":       "planning",
					"title":          "Review plan",
				},
			})
			Expect(msgs[0].SurfaceID()).To(Equal(builder.ApprovalSurfaceID))
			data := a2ui.EntriesToMap(msgs[2].DataModelUpdate.Contents)
			Expect(data).To(HaveKeyWithValue("phaseId", "planning"))
			Expect(data).To(HaveKeyWithValue("title", "Review plan"))
			Expect(data).To(HaveKeyWithValue("content", "Plan ready"))
		})

		It("wraps the batch as A2A parts", func() {
			parts, err := BuildParts(Response{IsTaskComplete: true, Content: "Chart published"})
			Expect(err).NotTo(HaveOccurred())
			Expect(parts).To(HaveLen(3))
			msgs, err := adapters.MessagesFromParts(parts)
			Expect(err).NotTo(HaveOccurred())
			Expect(msgs[0].SurfaceID()).To(Equal(builder.CompletionSurfaceID))
		})
	})

	Context("NormalizeContent", func() {
		DescribeTable("produces display text",
			func(content interface{}, want string) {
				Expect(NormalizeContent(content)).To(Equal(want))
			},
			Entry("nil", nil, "Processing..."),
			Entry("empty string", "", "Processing..."),
			Entry("blank string", "   ", "Processing..."),
			Entry("false", false, "Processing..."),
			Entry("zero", 0, "Processing..."),
			Entry("empty map", map[string]interface{}{}, "Processing..."),
			Entry("string", "hello", "hello"),
			Entry("map with message", map[string]interface{}{"message": "from map", "extra": 1}, "from map"),
			Entry("map without message", map[string]interface{}{"chart": "nginx"}, `{"chart":"nginx"}`),
			Entry("map with empty message", map[string]interface{}{"message": ""}, `{"message":""}`),
			Entry("number", 42, "42"),
			Entry("slice", []string{"a", "b"}, `["a","b"]`),
		)
	})
})
