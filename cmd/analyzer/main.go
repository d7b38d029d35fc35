package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"resume-analyzer/internal/analyses"
	"resume-analyzer/internal/extract"
	"resume-analyzer/internal/keywords"
	"resume-analyzer/internal/report"
	"resume-analyzer/internal/shared/config"
)

func main() {
	cfg := config.Load()

	keywordFlag := flag.String("keywords", "", "Comma-separated keywords to score against (overrides config)")
	keywordsFile := flag.String("keywords-file", cfg.KeywordsFile, "YAML file with a keywords list")
	jobDesc := flag.String("job-desc", "", "Job description: a file path or inline text")
	modeFlag := flag.String("mode", "", "Scoring mode: basic or weighted (weighted is the default when a job description is given)")
	outPath := flag.String("out", report.DefaultFileName, "Path for the JSON output file")
	quiet := flag.Bool("quiet", false, "Suppress the terminal summary")
	flag.Parse()

	if flag.NArg() != 1 {
		exitErr("usage: analyzer [flags] <resume file>")
	}
	resumePath := flag.Arg(0)

	jobDescription, err := resolveJobDescription(*jobDesc)
	if err != nil {
		exitErr(err.Error())
	}

	mode, err := analyses.ModeFor(*modeFlag, jobDescription)
	if err != nil {
		exitErr(err.Error())
	}

	keywordList, err := resolveKeywords(*keywordFlag, *keywordsFile, cfg.Keywords)
	if err != nil {
		exitErr(err.Error())
	}

	doc, err := extract.ExtractFile(context.Background(), resumePath)
	if err != nil {
		exitErr(err.Error())
	}

	result := analyses.Analyze(doc.RawText, mode, keywordList, jobDescription)

	out := report.Result{
		Source:          resumePath,
		Format:          string(doc.Format),
		Sections:        result.Sections,
		Score:           result.Score,
		Breakdown:       result.Breakdown,
		Recommendations: result.Recommendations,
	}

	if !*quiet {
		if err := report.Render(os.Stdout, out); err != nil {
			exitErr(fmt.Sprintf("render report: %v", err))
		}
	}

	if err := report.WriteJSON(*outPath, out); err != nil {
		exitErr(err.Error())
	}
	if !*quiet {
		fmt.Printf("Saved analysis to %s\n", *outPath)
	}
}

// resolveJobDescription treats the flag value as a file path when one exists
// on disk, and as inline text otherwise.
func resolveJobDescription(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	if info, err := os.Stat(raw); err == nil && !info.IsDir() {
		data, err := os.ReadFile(raw)
		if err != nil {
			return "", fmt.Errorf("read job description: %w", err)
		}
		return string(data), nil
	}
	return raw, nil
}

// resolveKeywords picks the scoring keywords: the flag wins, then a keywords
// file, then configured defaults. An empty result is fine; scoring falls back
// to job-description keywords or the built-in list.
func resolveKeywords(flagValue, filePath string, configured []string) ([]string, error) {
	if trimmed := strings.TrimSpace(flagValue); trimmed != "" {
		var list []string
		for _, part := range strings.Split(trimmed, ",") {
			if kw := strings.TrimSpace(part); kw != "" {
				list = append(list, kw)
			}
		}
		return list, nil
	}
	if strings.TrimSpace(filePath) != "" {
		list, err := keywords.FromFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("load keywords file: %w", err)
		}
		return list, nil
	}
	return configured, nil
}

func exitErr(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
