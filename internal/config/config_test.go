package config

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"k8s.io/utils/ptr"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

var _ = Describe("Config", func() {
	It("has usable defaults", func() {
		cfg := Defaults()
		Expect(cfg.ListenAddr).To(Equal(":8082"))
		Expect(cfg.LLM.Enabled()).To(BeFalse())
		Expect(cfg.Validate()).To(Succeed())
	})

	It("parses YAML over the defaults", func() {
		cfg := Defaults()
		Expect(Parse([]byte(`
llm:
  provider: anthropic
  model: claude
  apiKey: secret
  temperature: 0.2
prompt:
  omitSchema: true
`), &cfg)).To(Succeed())
		Expect(cfg.ListenAddr).To(Equal(":8082"))
		Expect(cfg.LLM.Provider).To(Equal("anthropic"))
		Expect(cfg.LLM.Temperature).To(Equal(ptr.To(0.2)))
		Expect(cfg.Prompt.OmitSchema).To(BeTrue())
		Expect(cfg.Validate()).To(Succeed())
	})

	It("accepts an empty document", func() {
		cfg := Defaults()
		Expect(Parse(nil, &cfg)).To(Succeed())
		Expect(cfg).To(Equal(Defaults()))
	})

	It("rejects unknown fields", func() {
		cfg := Defaults()
		Expect(Parse([]byte("listen: :9000\n"), &cfg)).NotTo(Succeed())
	})

	It("lets the environment override the file", func() {
		cfg := Defaults()
		cfg.LLM.Provider = "openai"
		cfg.ApplyEnv(lookupFrom(map[string]string{
			EnvListenAddr:   ":9090",
			EnvLLMProvider:  "mistral",
			EnvLLMAPIKey:    "key",
			EnvLLMModel:     "",
			EnvOTLPEndpoint: "collector:4318",
		}))
		Expect(cfg.ListenAddr).To(Equal(":9090"))
		Expect(cfg.LLM.Provider).To(Equal("mistral"))
		Expect(cfg.LLM.Model).To(BeEmpty())
		Expect(cfg.LLM.APIKey).To(Equal("key"))
		Expect(cfg.Telemetry.Endpoint).To(Equal("collector:4318"))
	})

	It("loads a file from disk", func() {
		path := filepath.Join(GinkgoT().TempDir(), "config.yaml")
		Expect(os.WriteFile(path, []byte("listenAddr: \":7000\"\n"), 0o600)).To(Succeed())
		GinkgoT().Setenv(EnvListenAddr, "")

		cfg, err := Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.ListenAddr).To(Equal(":7000"))

		_, err = Load(filepath.Join(GinkgoT().TempDir(), "missing.yaml"))
		Expect(err).To(HaveOccurred())
	})

	DescribeTable("Validate",
		func(mutate func(*Config), ok bool) {
			cfg := Defaults()
			mutate(&cfg)
			if ok {
				Expect(cfg.Validate()).To(Succeed())
			} else {
				Expect(cfg.Validate()).NotTo(Succeed())
			}
		},
		Entry("unknown provider", func(c *Config) { c.LLM.Provider = "llama"; c.LLM.APIKey = "k" }, false),
		Entry("missing api key", func(c *Config) { c.LLM.Provider = "openai" }, false),
		Entry("known provider", func(c *Config) { c.LLM.Provider = "vertex"; c.LLM.APIKey = "{}" }, true),
		Entry("temperature out of range", func(c *Config) { c.LLM.Temperature = ptr.To(3.0) }, false),
		Entry("negative max tokens", func(c *Config) { c.LLM.MaxTokens = -1 }, false),
		Entry("empty listen address", func(c *Config) { c.ListenAddr = "" }, false),
	)
})
