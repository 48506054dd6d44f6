package main

// Analyze a local report document and persist the result through a
// running API server:
//   go run ./cmd/analyze -file report.xlsx -api http://localhost:3001/api
//
// The model call happens in-process; only persistence goes through the
// backend, matching what the web client does.

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"mime"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"

	"stockreport-backend/internal/analyzer"
	"stockreport-backend/internal/gateway"
	"stockreport-backend/internal/llm/gemini"
	"stockreport-backend/internal/reports"
	"stockreport-backend/internal/shared/config"
)

func main() {
	filePath := flag.String("file", "", "path to the report document (xlsx or pdf)")
	apiBase := flag.String("api", "http://localhost:3001/api", "base URL of the report API")
	token := flag.String("token", os.Getenv("API_TOKEN"), "session token for the report API")
	dryRun := flag.Bool("dry-run", false, "print the analysis without saving")
	pdfText := flag.Bool("text", false, "send extracted PDF text instead of the raw bytes")
	flag.Parse()

	if *filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	client, err := gemini.NewClient(cfg.GeminiAPIKey, cfg.LLMModel)
	if err != nil {
		log.Fatalf("analyze: %v", err)
	}

	var opts []gateway.Option
	if *token != "" {
		opts = append(opts, gateway.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: *token})))
	}
	gw := gateway.NewClient(*apiBase, opts...)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if !gw.Health(ctx) {
		log.Printf("analyze: backend unreachable at %s; proceeding without trend context", *apiBase)
	}

	data, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatalf("analyze: %v", err)
	}

	svc := analyzer.NewService(client, latestAdapter{gw: gw})
	svc.PDFAsText = *pdfText
	result, err := svc.Analyze(ctx, filepath.Base(*filePath), mimeTypeFor(*filePath), data)
	if err != nil {
		log.Fatalf("analyze: %v", err)
	}

	pretty, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("analyze: %v", err)
	}
	fmt.Println(string(pretty))

	if *dryRun {
		return
	}

	docID, err := gw.Save(ctx, result)
	if err != nil {
		log.Fatalf("analyze: %v", err)
	}
	fmt.Printf("saved as %s\n", docID)
}

// latestAdapter exposes the gateway's degrading Latest through the
// error-returning provider interface.
type latestAdapter struct {
	gw *gateway.Client
}

func (a latestAdapter) Latest(ctx context.Context) (*reports.AnalysisResult, error) {
	return a.gw.Latest(ctx), nil
}

// mimeTypeFor maps the file extension; an empty result lets the
// analyzer apply its PDF default.
func mimeTypeFor(path string) string {
	return mime.TypeByExtension(filepath.Ext(path))
}
