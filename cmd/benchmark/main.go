package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
	"unicode/utf8"
)

type polishRequest struct {
	OriginalText string `json:"originalText"`
}

type polishResponse struct {
	PolishedText string `json:"polishedText"`
}

type frameworkRequest struct {
	Topic string `json:"topic"`
}

type frameworkResponse struct {
	Framework string `json:"framework"`
	Keywords  string `json:"keywords"`
}

type healthResponse struct {
	Status string `json:"status"`
	Model  string `json:"model"`
}

type result struct {
	Sample   string `json:"sample"`
	Endpoint string `json:"endpoint"`
	Chars    int    `json:"chars"`
	Run      int    `json:"run"`
	WallMs   int64  `json:"wall_ms"`
	OutChars int    `json:"out_chars"`
	Keywords string `json:"keywords,omitempty"`
	Error    string `json:"error,omitempty"`
}

// output is what one call produced, before timing is attached.
type output struct {
	text     string
	keywords string
}

func main() {
	url := flag.String("url", "http://localhost:3000", "API base URL")
	apiKey := flag.String("api-key", "", "API key (optional)")
	runs := flag.Int("runs", 3, "Number of runs per sample")
	endpoint := flag.String("endpoint", "both", "Endpoint to exercise: polish, framework or both")
	quality := flag.Bool("quality", false, "Quality mode: show input/output for each sample (1 run, no timing table)")
	jsonOut := flag.String("json", "", "Write results to JSON file (e.g. results.json)")
	warmup := flag.Bool("warmup", false, "Run one warmup request per sample before measuring")
	flag.Parse()

	switch *endpoint {
	case "polish", "framework", "both":
	default:
		fmt.Fprintf(os.Stderr, "unknown -endpoint %q\n", *endpoint)
		os.Exit(2)
	}

	c := &apiClient{
		http:    &http.Client{Timeout: 180 * time.Second},
		baseURL: strings.TrimRight(*url, "/"),
		apiKey:  *apiKey,
	}
	model := c.model()

	if *quality {
		runQualityMode(c, *endpoint, model)
		return
	}

	fmt.Printf("Benchmarking against %s using model: %s (%d runs per sample", c.baseURL, model, *runs)
	if *warmup {
		fmt.Print(", warmup enabled")
	}
	fmt.Println(")")

	var results []result
	var failures int
	for _, sample := range Samples {
		for _, ep := range endpoints(*endpoint, sample) {
			if *warmup {
				fmt.Printf("  Warming up %s %s...", ep, sample.Name)
				w := c.measure(ep, sample, 0)
				if w.Error != "" {
					fmt.Printf(" FAILED (%s)\n", w.Error)
				} else {
					fmt.Printf(" %dms (discarded)\n", w.WallMs)
				}
			}
			for run := 1; run <= *runs; run++ {
				fmt.Printf("  Running %s %s (run %d/%d)...", ep, sample.Name, run, *runs)
				r := c.measure(ep, sample, run)
				results = append(results, r)
				if r.Error != "" {
					fmt.Printf(" FAILED (%s)\n", r.Error)
					failures++
				} else {
					fmt.Printf(" %dms\n", r.WallMs)
				}
			}
		}
	}

	fmt.Println()
	printTable(results)
	printSummary(results)

	if *jsonOut != "" {
		if err := writeJSON(*jsonOut, results, c.baseURL, model); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing JSON: %v\n", err)
		} else {
			fmt.Printf("\nResults written to %s\n", *jsonOut)
		}
	}

	if failures > 0 {
		os.Exit(1)
	}
}

// endpoints lists the endpoints a sample can exercise under the -endpoint flag.
func endpoints(flagValue string, s Sample) []string {
	var eps []string
	if flagValue != "framework" && s.Text != "" {
		eps = append(eps, "polish")
	}
	if flagValue != "polish" && s.Topic != "" {
		eps = append(eps, "framework")
	}
	return eps
}

type apiClient struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

// model asks /api/health which upstream model the server is configured for.
// A server that cannot answer is fatal: nothing else would work either.
func (c *apiClient) model() string {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating request: %v\n", err)
		os.Exit(1)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching health: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		fmt.Fprintf(os.Stderr, "Health endpoint returned %d: %s\n", resp.StatusCode, body)
		os.Exit(1)
	}

	var h healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding health: %v\n", err)
		os.Exit(1)
	}
	if h.Status != "ok" {
		fmt.Fprintf(os.Stderr, "warning: server reports status %q, some endpoints will fail\n", h.Status)
	}
	return h.Model
}

func (c *apiClient) post(path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *apiClient) call(ep string, s Sample) (output, error) {
	if ep == "polish" {
		var pr polishResponse
		if err := c.post("/api/polish", polishRequest{OriginalText: s.Text}, &pr); err != nil {
			return output{}, err
		}
		return output{text: pr.PolishedText}, nil
	}
	var fr frameworkResponse
	if err := c.post("/api/framework", frameworkRequest{Topic: s.Topic}, &fr); err != nil {
		return output{}, err
	}
	return output{text: fr.Framework, keywords: fr.Keywords}, nil
}

func (c *apiClient) measure(ep string, s Sample, run int) result {
	r := result{Sample: s.Name, Endpoint: ep, Chars: utf8.RuneCountInString(input(ep, s)), Run: run}

	start := time.Now()
	out, err := c.call(ep, s)
	r.WallMs = time.Since(start).Milliseconds()
	if err != nil {
		r.Error = err.Error()
		return r
	}
	r.OutChars = utf8.RuneCountInString(out.text)
	r.Keywords = out.keywords
	return r
}

func input(ep string, s Sample) string {
	if ep == "polish" {
		return s.Text
	}
	return s.Topic
}

func printTable(results []result) {
	fmt.Println("| Sample | Endpoint | Chars | Run | Wall (ms) | Out Chars | Keywords |")
	fmt.Println("|--------|----------|-------|-----|-----------|-----------|----------|")
	for _, r := range results {
		if r.Error != "" {
			fmt.Printf("| %-6s | %-9s | %5d | %d | %9s | %9s | %s |\n",
				r.Sample, r.Endpoint, r.Chars, r.Run, "FAIL", "-", "-")
			continue
		}
		kw := r.Keywords
		if r.Endpoint == "framework" && kw == "" {
			kw = "(none)"
		}
		fmt.Printf("| %-6s | %-9s | %5d | %d | %9d | %9d | %s |\n",
			r.Sample, r.Endpoint, r.Chars, r.Run, r.WallMs, r.OutChars, kw)
	}
}

func runQualityMode(c *apiClient, endpoint, model string) {
	fmt.Printf("Quality test against %s using model: %s\n", c.baseURL, model)
	fmt.Println(strings.Repeat("=", 72))

	var total, failures int
	for i, sample := range QualitySamples {
		for _, ep := range endpoints(endpoint, sample) {
			total++
			in := input(ep, sample)
			fmt.Printf("\n--- %d/%d: %s %s (%d chars) ---\n", i+1, len(QualitySamples), ep, sample.Name, utf8.RuneCountInString(in))
			fmt.Printf("IN:  %s\n", in)

			start := time.Now()
			out, err := c.call(ep, sample)
			if err != nil {
				fmt.Printf("ERR: %s\n", err)
				failures++
				continue
			}
			fmt.Printf("OUT: %s\n", out.text)
			if ep == "framework" {
				fmt.Printf("KW:  %s\n", out.keywords)
			}
			fmt.Printf("     [%dms, %d->%d chars]\n", time.Since(start).Milliseconds(), utf8.RuneCountInString(in), utf8.RuneCountInString(out.text))
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 72))
	fmt.Printf("Done: %d/%d passed\n", total-failures, total)
	if failures > 0 {
		os.Exit(1)
	}
}

func printSummary(results []result) {
	var ok []result
	for _, r := range results {
		if r.Error == "" {
			ok = append(ok, r)
		}
	}

	failed := len(results) - len(ok)

	if len(ok) == 0 {
		fmt.Printf("\nSummary: all %d runs failed\n", len(results))
		return
	}

	var totalWall int64
	var totalChars, framework, withKeywords int
	minWall, maxWall := ok[0].WallMs, ok[0].WallMs
	minSample, maxSample := ok[0].Sample, ok[0].Sample

	for _, r := range ok {
		totalWall += r.WallMs
		totalChars += r.Chars
		if r.WallMs < minWall {
			minWall = r.WallMs
			minSample = r.Sample
		}
		if r.WallMs > maxWall {
			maxWall = r.WallMs
			maxSample = r.Sample
		}
		if r.Endpoint == "framework" {
			framework++
			if r.Keywords != "" {
				withKeywords++
			}
		}
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("- Avg wall: %dms\n", totalWall/int64(len(ok)))
	fmt.Printf("- Avg ms/input char: %.2f\n", float64(totalWall)/float64(totalChars))
	fmt.Printf("- Min wall: %dms (%s)\n", minWall, minSample)
	fmt.Printf("- Max wall: %dms (%s)\n", maxWall, maxSample)
	if framework > 0 {
		fmt.Printf("- Framework replies with keywords: %d/%d\n", withKeywords, framework)
	}
	fmt.Printf("- Total runs: %d (%d ok, %d failed)\n", len(results), len(ok), failed)
}

type jsonReport struct {
	Timestamp string   `json:"timestamp"`
	URL       string   `json:"url"`
	Model     string   `json:"model"`
	Results   []result `json:"results"`
}

func writeJSON(path string, results []result, baseURL, model string) error {
	report := jsonReport{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		URL:       baseURL,
		Model:     model,
		Results:   results,
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
