package main

import (
	"context"
	"flag"
	"os"

	"github.com/go-logr/logr"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
	"sigs.k8s.io/controller-runtime/pkg/manager/signals"

	"github.com/talkops-ai/k8s-autopilot-sub001/internal/agent"
	"github.com/talkops-ai/k8s-autopilot-sub001/internal/config"
	"github.com/talkops-ai/k8s-autopilot-sub001/internal/llmclient"
	"github.com/talkops-ai/k8s-autopilot-sub001/internal/mcptools"
	"github.com/talkops-ai/k8s-autopilot-sub001/internal/otel"
	"github.com/talkops-ai/k8s-autopilot-sub001/internal/prompt"
	"github.com/talkops-ai/k8s-autopilot-sub001/internal/server"
	"github.com/talkops-ai/k8s-autopilot-sub001/internal/validation"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	var configPath string
	var listenAddr string
	var mcpStdio bool

	flag.StringVar(&configPath, "config", "", "Path to a YAML configuration file.")
	flag.StringVar(&listenAddr, "listen-address", "", "The address the API server binds to. Overrides the config file.")
	flag.BoolVar(&mcpStdio, "mcp-stdio", false, "Serve the A2UI tools over MCP on stdin/stdout instead of HTTP.")

	opts := zap.Options{
		Development: true,
	}
	opts.BindFlags(flag.CommandLine)
	flag.Parse()

	// MCP owns stdout in stdio mode
	if mcpStdio {
		opts.DestWriter = os.Stderr
	}
	log.SetLogger(zap.New(zap.UseFlagOptions(&opts)))
	setupLog := log.Log.WithName("setup")

	cfg, err := config.Load(configPath)
	if err != nil {
		setupLog.Error(err, "unable to load configuration")
		os.Exit(1)
	}
	if listenAddr != "" {
		cfg.ListenAddr = listenAddr
	}
	if err := cfg.Validate(); err != nil {
		setupLog.Error(err, "invalid configuration")
		os.Exit(1)
	}

	ctx := log.IntoContext(signals.SetupSignalHandler(), log.Log)
	if err := run(ctx, setupLog, cfg, mcpStdio); err != nil {
		setupLog.Error(err, "problem running a2ui agent")
		os.Exit(1)
	}
}

func run(ctx context.Context, setupLog logr.Logger, cfg config.Config, mcpStdio bool) error {
	shutdown, err := otel.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			setupLog.Error(err, "failed to flush telemetry")
		}
	}()

	validator, err := validation.NewValidator()
	if err != nil {
		return err
	}
	if !validator.SchemaEnabled() {
		setupLog.Info("JSON schema validation disabled at build time")
	}

	if mcpStdio {
		setupLog.Info("serving MCP tools on stdio")
		return mcptools.ServeStdio(mcptools.NewToolset(validator), version)
	}

	var llm llmclient.LLMClient
	if cfg.LLM.Enabled() {
		llm, err = llmclient.NewLLMClient(ctx, cfg.LLM)
		if err != nil {
			return err
		}
		setupLog.Info("language model configured", "provider", cfg.LLM.Provider, "model", cfg.LLM.Model)
	} else {
		setupLog.Info("no language model configured, /v1/chat is disabled")
	}

	var promptOpts []prompt.Option
	if cfg.Prompt.OmitSchema {
		promptOpts = append(promptOpts, prompt.WithoutSchema())
	}
	agentOpts := []agent.Option{agent.WithPromptBuilder(prompt.NewBuilder(promptOpts...))}
	if cfg.Prompt.Role != "" {
		agentOpts = append(agentOpts, agent.WithRole(cfg.Prompt.Role))
	}
	responder, err := agent.NewResponder(llm, validator, agentOpts...)
	if err != nil {
		return err
	}

	return server.NewAPIServer(responder, validator, cfg.ListenAddr, version).Start(ctx)
}
