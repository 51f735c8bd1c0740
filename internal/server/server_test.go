package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	a2ui "github.com/talkops-ai/k8s-autopilot-sub001/api/v1alpha1"
	"github.com/talkops-ai/k8s-autopilot-sub001/internal/validation"
	"github.com/talkops-ai/k8s-autopilot-sub001/test/utils"
)

func newTestServer(fixture *utils.TestResponder) *APIServer {
	responder := fixture.Setup()
	return NewAPIServer(responder, fixture.Validator, ":0", "test")
}

func do(s *APIServer, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	recorder := httptest.NewRecorder()
	s.Handler().ServeHTTP(recorder, req)
	return recorder
}

func decode(recorder *httptest.ResponseRecorder) map[string]interface{} {
	var out map[string]interface{}
	ExpectWithOffset(1, json.Unmarshal(recorder.Body.Bytes(), &out)).To(Succeed())
	return out
}

var _ = Describe("API Server", func() {
	var server *APIServer

	BeforeEach(func() {
		server = newTestServer(&utils.TestResponder{NoModel: true})
	})

	Describe("GET /status", func() {
		It("reports health and capabilities", func() {
			recorder := do(server, http.MethodGet, "/status", "")
			Expect(recorder.Code).To(Equal(http.StatusOK))
			body := decode(recorder)
			Expect(body).To(HaveKeyWithValue("status", "ok"))
			Expect(body).To(HaveKeyWithValue("llmEnabled", false))
			Expect(body).To(HaveKeyWithValue("schemaEnabled", true))
		})

		It("assigns a request id", func() {
			recorder := do(server, http.MethodGet, "/status", "")
			Expect(recorder.Header().Get("X-Request-ID")).To(HaveLen(36))
		})

		It("keeps a well-formed request id from the caller", func() {
			id := "3f1c2a4e-8b7d-4c1e-9a6f-2d5b7e8c9a01"
			recorder := do(server, http.MethodGet, "/status", "", "X-Request-ID", id)
			Expect(recorder.Header().Get("X-Request-ID")).To(Equal(id))
		})
	})

	Describe("GET /.well-known/agent-card.json", func() {
		It("serves the agent card", func() {
			recorder := do(server, http.MethodGet, "/.well-known/agent-card.json", "")
			Expect(recorder.Code).To(Equal(http.StatusOK))
			body := decode(recorder)
			Expect(body).To(HaveKeyWithValue("name", "A2UI Deployment Agent"))
			Expect(body["url"]).To(HaveSuffix("/v1/chat"))
		})
	})

	Describe("GET /v1/schema", func() {
		It("serves the message schema", func() {
			recorder := do(server, http.MethodGet, "/v1/schema", "")
			Expect(recorder.Code).To(Equal(http.StatusOK))
			Expect(recorder.Body.String()).To(MatchJSON(validation.SchemaJSON()))
		})
	})

	Describe("POST /v1/surfaces", func() {
		It("builds the selected surface with an ETag", func() {
			recorder := do(server, http.MethodPost, "/v1/surfaces",
				`{"content":"Please review","require_user_input":true,"metadata":{"interrupt_type":"hitl_gate","phase_id":"planning"}}`)
			Expect(recorder.Code).To(Equal(http.StatusOK))
			etag := recorder.Header().Get("ETag")
			Expect(etag).To(MatchRegexp(`^"[0-9a-f]{64}"$`))

			var resp struct {
				Archetype string            `json:"archetype"`
				Messages  []json.RawMessage `json:"messages"`
				Parts     []json.RawMessage `json:"parts"`
			}
			Expect(json.Unmarshal(recorder.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Archetype).To(Equal("approval"))
			Expect(resp.Messages).To(HaveLen(3))
			Expect(resp.Parts).To(HaveLen(3))

			By("returning the same ETag for the same input")
			again := do(server, http.MethodPost, "/v1/surfaces",
				`{"metadata":{"phase_id":"planning","interrupt_type":"hitl_gate"},"require_user_input":true,"content":"Please review"}`)
			Expect(again.Header().Get("ETag")).To(Equal(etag))

			By("answering 304 when the client already has it")
			cached := do(server, http.MethodPost, "/v1/surfaces",
				`{"content":"Please review","require_user_input":true,"metadata":{"interrupt_type":"hitl_gate","phase_id":"planning"}}`,
				"If-None-Match", etag)
			Expect(cached.Code).To(Equal(http.StatusNotModified))
		})

		It("rejects a malformed body", func() {
			recorder := do(server, http.MethodPost, "/v1/surfaces", `{"content":`)
			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("POST /v1/responses/parse", func() {
		It("splits text and messages", func() {
			body, _ := json.Marshal(ParseRequest{Content: "hello\n---a2ui_JSON---\n[{\"deleteSurface\":{\"surfaceId\":\"x\"}}]"})
			recorder := do(server, http.MethodPost, "/v1/responses/parse", string(body))
			Expect(recorder.Code).To(Equal(http.StatusOK))
			Expect(recorder.Body.String()).To(MatchJSON(`{"text":"hello","messages":[{"deleteSurface":{"surfaceId":"x"}}]}`))
		})

		It("falls back to text", func() {
			body, _ := json.Marshal(ParseRequest{Content: "plain"})
			recorder := do(server, http.MethodPost, "/v1/responses/parse", string(body))
			Expect(recorder.Body.String()).To(MatchJSON(`{"text":"plain","messages":[]}`))
		})
	})

	Describe("POST /v1/messages/validate", func() {
		It("accepts a valid batch", func() {
			recorder := do(server, http.MethodPost, "/v1/messages/validate", `[{"deleteSurface":{"surfaceId":"x"}}]`)
			Expect(recorder.Code).To(Equal(http.StatusOK))
			Expect(decode(recorder)).To(HaveKeyWithValue("valid", true))
		})

		It("reports per-entry diagnostics with 422", func() {
			recorder := do(server, http.MethodPost, "/v1/messages/validate",
				`[{"deleteSurface":{"surfaceId":"x"}},{"beginRendering":{"surfaceId":"s","root":"r"},"deleteSurface":{"surfaceId":"s"}}]`)
			Expect(recorder.Code).To(Equal(http.StatusUnprocessableEntity))

			var resp ValidateResponse
			Expect(json.Unmarshal(recorder.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Valid).To(BeFalse())
			Expect(resp.Entries).To(HaveLen(2))
			Expect(resp.Entries[0].Valid).To(BeTrue())
			Expect(resp.Entries[1].Valid).To(BeFalse())
			Expect(resp.Entries[1].Errors[0].Field).To(Equal("messages[1]"))
		})

		It("accepts a single message object", func() {
			recorder := do(server, http.MethodPost, "/v1/messages/validate", `{"deleteSurface":{"surfaceId":"x"}}`)
			Expect(recorder.Code).To(Equal(http.StatusOK))
		})

		It("rejects input that is not JSON", func() {
			recorder := do(server, http.MethodPost, "/v1/messages/validate", `nope`)
			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("POST /v1/actions", func() {
		It("handles an approval", func() {
			event, err := json.Marshal(utils.ApprovalEvent(a2ui.DecisionApproved, "planning"))
			Expect(err).NotTo(HaveOccurred())
			recorder := do(server, http.MethodPost, "/v1/actions", string(event))
			Expect(recorder.Code).To(Equal(http.StatusOK))
			body := decode(recorder)
			Expect(body).To(HaveKeyWithValue("decision", "approved"))
			Expect(body["messages"]).To(HaveLen(4))
			Expect(body["parts"]).To(HaveLen(4))
		})

		DescribeTable("maps failures to status codes",
			func(payload string, code int) {
				Expect(do(server, http.MethodPost, "/v1/actions", payload).Code).To(Equal(code))
			},
			Entry("missing action", `{}`, http.StatusBadRequest),
			Entry("unknown action", `{"userAction":{"name":"launch","surfaceId":"x"}}`, http.StatusNotFound),
			Entry("bad decision", `{"userAction":{"name":"hitl_response","context":{"decision":"maybe"}}}`, http.StatusUnprocessableEntity),
		)
	})

	Describe("POST /v1/chat", func() {
		It("answers 503 without a model", func() {
			recorder := do(server, http.MethodPost, "/v1/chat", `{"message":"hi"}`)
			Expect(recorder.Code).To(Equal(http.StatusServiceUnavailable))
		})

		It("requires a message", func() {
			recorder := do(newTestServer(&utils.TestResponder{}), http.MethodPost, "/v1/chat", `{}`)
			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns the agent reply", func() {
			fixture := &utils.TestResponder{Reply: utils.ModelOutput("Done.", a2ui.NewDeleteSurface("status"))}
			recorder := do(newTestServer(fixture), http.MethodPost, "/v1/chat", `{"message":"clean up"}`)
			Expect(recorder.Code).To(Equal(http.StatusOK))
			body := decode(recorder)
			Expect(body).To(HaveKeyWithValue("text", "Done."))
			Expect(body).To(HaveKeyWithValue("source", "model"))
			Expect(body["parts"]).To(HaveLen(2))
			Expect(fixture.LLM.CallCount()).To(Equal(1))
		})
	})
})
