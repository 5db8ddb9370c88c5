// Command ppt-translator translates PowerPoint presentations into one or
// more languages, optionally exporting PDF, either as a one-shot CLI run or
// as an HTTP service.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/MuazAshraf/ppt-translator/internal/config"
	"github.com/MuazAshraf/ppt-translator/internal/convert"
	"github.com/MuazAshraf/ppt-translator/internal/logger"
	"github.com/MuazAshraf/ppt-translator/internal/orchestrator"
	"github.com/MuazAshraf/ppt-translator/internal/server"
	"github.com/MuazAshraf/ppt-translator/internal/types"
)

func main() {
	var (
		input    = flag.String("input", "", "input .pptx file to translate")
		langs    = flag.String("langs", "", "comma-separated target languages, e.g. es,fr,zh-CN")
		service  = flag.String("service", "", "translation provider: google, deepl or openai")
		apiKey   = flag.String("api-key", "", "API key for deepl/openai (falls back to config and env)")
		formats  = flag.String("formats", "pptx", "comma-separated output formats: pptx,pdf")
		output   = flag.String("output", "", "output directory (default: <input>_translations next to the input)")
		noZip    = flag.Bool("no-zip", false, "do not bundle the outputs into a zip archive")
		serve    = flag.Bool("serve", false, "run the HTTP service instead of a one-shot translation")
		addr     = flag.String("addr", ":8086", "HTTP listen address with -serve")
		logFile  = flag.String("log-file", "", "log file path (default: ppt-translator.log)")
		verbose  = flag.Bool("verbose", false, "enable debug logging")

		saveConfig = flag.Bool("save-config", false,
			"persist -service and -api-key as defaults in the config file and exit")
	)
	flag.Parse()

	logCfg := logger.DefaultConfig()
	if *logFile != "" {
		logCfg.LogFilePath = *logFile
	}
	if *verbose {
		logCfg.Level = logger.LevelDebug
	}
	if err := logger.Init(logCfg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	cm, err := config.NewConfigManager("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cm.Load(); err != nil {
		logger.Warn("failed to load config, using defaults", logger.Err(err))
	}

	if *saveConfig {
		if err := persistConfig(cm, *service, *apiKey); err != nil {
			fmt.Fprintf(os.Stderr, "failed to save config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Configuration saved to %s\n", cm.GetConfigPath())
		return
	}

	conv := convert.New(cm.GetLibreOfficePath())
	orch := orchestrator.New(conv,
		orchestrator.WithRunDelay(time.Duration(cm.GetRunDelayMs())*time.Millisecond),
		orchestrator.WithOptionsLookup(cm.ServiceOptions))

	if *serve {
		runServer(orch, conv, cm, *addr)
		return
	}

	if *input == "" || *langs == "" {
		fmt.Fprintln(os.Stderr, "Usage: ppt-translator -input deck.pptx -langs es,fr [-formats pptx,pdf]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	svc := *service
	if svc == "" {
		svc = cm.GetDefaultService()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	outputRoot := *output
	if outputRoot == "" {
		outputRoot = cm.GetOutputDirectory()
	}

	summary, err := orch.Run(ctx, orchestrator.Request{
		InputPath:  *input,
		Languages:  splitList(*langs),
		Formats:    splitList(*formats),
		Service:    svc,
		APIKey:     *apiKey,
		OutputRoot: outputRoot,
		SkipZip:    *noZip,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "translation failed: %v\n", err)
		printSummary(summary)
		os.Exit(1)
	}
	printSummary(summary)
}

func runServer(orch *orchestrator.Orchestrator, conv *convert.Converter, cm *config.ConfigManager, addr string) {
	srv := server.New(orch, conv, cm.GetDefaultService())
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", logger.Err(err))
		}
	}()

	logger.Info("http service listening",
		logger.String("addr", addr),
		logger.Bool("pdf_conversion", conv.Available()))
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintf(os.Stderr, "server failed: %v\n", err)
		os.Exit(1)
	}
}

// persistConfig stores the provided service and API key as config defaults.
func persistConfig(cm *config.ConfigManager, service, apiKey string) error {
	cfg := cm.GetConfig()
	if service != "" {
		cfg.DefaultService = service
	}
	if apiKey != "" {
		switch service {
		case "deepl":
			cfg.DeepLAPIKey = apiKey
		case "openai":
			cfg.OpenAIAPIKey = apiKey
		default:
			return fmt.Errorf("-api-key needs -service deepl or openai to know where to store it")
		}
	}
	cm.SetConfig(cfg)
	return cm.Save()
}

func printSummary(summary *types.Summary) {
	if summary == nil {
		return
	}
	fmt.Printf("Input:  %s\n", summary.Input)
	fmt.Printf("Output: %s\n", summary.OutputRoot)
	for _, lang := range summary.Languages {
		res := summary.Results[lang]
		if res == nil {
			continue
		}
		status := "ok"
		if !res.Succeeded {
			status = "FAILED"
		}
		fmt.Printf("  %-8s %s", lang, status)
		if len(res.Errors) > 0 {
			fmt.Printf(" (%d warnings)", len(res.Errors))
		}
		fmt.Println()
		for _, format := range summary.Formats {
			if path, ok := res.Outputs[format]; ok {
				fmt.Printf("    %s: %s\n", format, path)
			}
		}
	}
	if summary.ZipPath != "" {
		fmt.Printf("Bundle: %s\n", summary.ZipPath)
	}
	for _, e := range summary.Errors {
		fmt.Printf("Warning: %s\n", e)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
