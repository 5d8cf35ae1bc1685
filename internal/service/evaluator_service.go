package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"brandquiz/internal/catalog"
	"brandquiz/internal/config"
	"brandquiz/internal/model"
)

// EvaluatorService handles brand classification and report writing via the Gemini API
type EvaluatorService struct {
	config  *config.AIConfig
	catalog *catalog.Catalog
	client  *http.Client
}

// NewEvaluatorService creates a new evaluator service
func NewEvaluatorService(cfg *config.AIConfig, c *catalog.Catalog) *EvaluatorService {
	if cfg == nil {
		cfg = config.DefaultAIConfig()
	}
	return &EvaluatorService{
		config:  cfg,
		catalog: c,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
	}
}

// ClassifyBrand reads scraped website content and names its current
// primary and secondary archetypes.
func (s *EvaluatorService) ClassifyBrand(ctx context.Context, content string) (*model.BrandClassification, error) {
	if strings.TrimSpace(content) == "" {
		return nil, &model.ClassificationError{Reason: "no website content"}
	}
	if !s.config.IsEnabled() {
		return s.mockClassify(content), nil
	}

	response, err := s.callGemini(ctx, s.config.Models.Classify, s.buildClassifyPrompt(content))
	if err != nil {
		return nil, &model.ClassificationError{Reason: "AI request failed", Err: err}
	}

	var result model.BrandClassification
	if err := json.Unmarshal([]byte(response), &result); err != nil {
		return nil, &model.ClassificationError{Reason: "malformed AI response", Err: err}
	}

	for _, name := range []string{result.CurrentPrimary, result.CurrentSecondary} {
		if _, ok := s.catalog.ByName(name); !ok {
			return nil, &model.ClassificationError{Reason: fmt.Sprintf("unknown archetype %q in AI response", name)}
		}
	}
	result.Confidence = min(max(result.Confidence, 0), 100)

	log.Printf("[Evaluator] Classified website as %s/%s (confidence %d)", result.CurrentPrimary, result.CurrentSecondary, result.Confidence)
	return &result, nil
}

// GenerateReport writes the HTML archetype report
func (s *EvaluatorService) GenerateReport(ctx context.Context, in *model.ReportInput) (*model.Report, error) {
	if !s.config.IsEnabled() {
		return s.FallbackReport(in)
	}

	response, err := s.callGemini(ctx, s.config.Models.Report, s.buildReportPrompt(in))
	if err != nil {
		return nil, &model.ReportGenerationError{Reason: "AI request failed", Err: err}
	}

	var result struct {
		HTML string `json:"html"`
	}
	if err := json.Unmarshal([]byte(response), &result); err != nil {
		return nil, &model.ReportGenerationError{Reason: "malformed AI response", Err: err}
	}
	if strings.TrimSpace(result.HTML) == "" {
		return nil, &model.ReportGenerationError{Reason: "AI response has no html"}
	}

	return &model.Report{HTML: result.HTML, Generated: true}, nil
}

// AnalyzeAnswers produces a short free-form analysis of the quiz answers.
// desired is the scored primary archetype and anchors the analysis.
func (s *EvaluatorService) AnalyzeAnswers(ctx context.Context, desired model.Archetype, answered []model.AnsweredQuestion) (*model.AnswerAnalysis, error) {
	if !s.config.IsEnabled() {
		return s.mockAnalysis(desired), nil
	}

	response, err := s.callGemini(ctx, s.config.Models.Analyze, s.buildAnalysisPrompt(desired, answered))
	if err != nil {
		return nil, &model.ClassificationError{Reason: "AI request failed", Err: err}
	}

	var result model.AnswerAnalysis
	if err := json.Unmarshal([]byte(response), &result); err != nil {
		return nil, &model.ClassificationError{Reason: "failed to parse analysis results", Err: err}
	}
	if result.Archetype == "" || result.Description == "" {
		return nil, &model.ClassificationError{Reason: "analysis is missing archetype or description"}
	}

	return &result, nil
}

// callGemini makes a request to the Gemini API
func (s *EvaluatorService) callGemini(ctx context.Context, modelName, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s?key=%s", s.config.ModelEndpoint(modelName), s.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode >= 400 {
		log.Printf("[Evaluator] ERROR: Gemini %s returned %d", modelName, resp.StatusCode)
		return "", fmt.Errorf("gemini API error %d", resp.StatusCode)
	}

	// Parse Gemini response structure
	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", err
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		return stripCodeFence(geminiResp.Candidates[0].Content.Parts[0].Text), nil
	}

	return "", fmt.Errorf("empty response from Gemini")
}

// stripCodeFence removes a ```json fence some models add despite the mime type
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// Prompt builders
func (s *EvaluatorService) archetypeDescriptions() string {
	var sb strings.Builder
	for _, a := range s.catalog.All() {
		fmt.Fprintf(&sb, "%s: %s (Keywords: %s)\n", a.Name, a.Description, strings.Join(a.Keywords, ", "))
	}
	return sb.String()
}

func (s *EvaluatorService) buildClassifyPrompt(content string) string {
	return fmt.Sprintf(`You are an expert brand strategist specializing in brand archetypes and positioning analysis.
Analyze the website content below and determine which brand archetypes it most closely aligns with.
Return ONLY valid JSON:
{
  "currentPrimary": "Archetype Name",
  "currentSecondary": "Archetype Name",
  "confidence": 0 to 100,
  "reasoning": "explanation with specific examples from the content"
}

Both names MUST be taken exactly from this list, and the secondary must differ from the primary:
%s
WEBSITE CONTENT:
%s`, s.archetypeDescriptions(), truncate(content, 6000))
}

func (s *EvaluatorService) buildReportPrompt(in *model.ReportInput) string {
	secondary := "none"
	if in.DesiredSecondary != nil {
		secondary = fmt.Sprintf("%s - %s (Keywords: %s)", in.DesiredSecondary.Name, in.DesiredSecondary.Description, strings.Join(in.DesiredSecondary.Keywords, ", "))
	}
	logo := "not found"
	if in.LogoURL != nil {
		logo = *in.LogoURL
	}
	reasoning := in.Reasoning
	if reasoning == "" {
		reasoning = "not available"
	}

	return fmt.Sprintf(`You are an expert brand strategist who creates insightful, actionable brand archetype reports.
Generate a comprehensive HTML report comparing a brand's desired archetypes (from a quiz) with its current archetypes (from website analysis).
Return ONLY valid JSON: {"html": "<complete html document>"}

BRAND INFORMATION:
Contact: %s
Company Name: %s
Website: %s
Logo URL: %s

DESIRED ARCHETYPES (from quiz):
Primary: %s - %s (Keywords: %s)
Secondary: %s

CURRENT ARCHETYPES (from website analysis):
Primary: %s
Secondary: %s
Reasoning: %s

Sections:
1. Executive Summary
2. Desired Brand Archetypes
3. Current Brand Positioning (if the current archetypes are Unknown, explain the website could not be analyzed)
4. Gap Analysis
5. Strategic Recommendations
6. Visual Identity Suggestions
7. Messaging Framework

Keep it email-friendly: inline CSS only, no scripts, no external stylesheets. Show the logo at the top if a URL is given.`,
		in.Name, in.CompanyName, in.WebsiteURL, logo,
		in.DesiredPrimary.Name, in.DesiredPrimary.Description, strings.Join(in.DesiredPrimary.Keywords, ", "), secondary,
		in.CurrentPrimary, in.CurrentSecondary, reasoning)
}

func (s *EvaluatorService) buildAnalysisPrompt(desired model.Archetype, answered []model.AnsweredQuestion) string {
	answersJSON, _ := json.MarshalIndent(answered, "", "  ")
	return fmt.Sprintf(`You are a brand strategy expert specializing in brand archetypes.
Based on these quiz answers about a brand, describe their primary brand archetype and provide recommendations.
The scored primary archetype is %s (%s).
Return ONLY valid JSON:
{
  "archetype": "Primary archetype name",
  "description": "Brief description of the archetype",
  "strengths": ["3-4 key strengths"],
  "recommendations": ["3-4 actionable recommendations"]
}

Answers:
%s`, desired.Name, desired.Description, string(answersJSON))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	// back off to a rune boundary
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

var fallbackReportTmpl = template.Must(template.New("report").Parse(`<html>
  <body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    {{- if .LogoURL}}
    <img src="{{.LogoURL}}" alt="{{.CompanyName}} logo" style="max-height: 80px; margin-bottom: 20px;">
    {{- end}}
    <h1 style="color: #2a4b8d;">Brand Archetype Report for {{.CompanyName}}</h1>
    <p>Hi {{.Name}}, thank you for taking our brand archetype quiz. We apologize, but we encountered an error generating your detailed report.</p>
    <p>Here's a summary of your results:</p>
    <h2>Your Desired Brand Archetypes:</h2>
    <ul>
      <li><strong>Primary:</strong> {{.DesiredPrimary.Name}} - {{.DesiredPrimary.Description}}</li>
      {{- if .DesiredSecondary}}
      <li><strong>Secondary:</strong> {{.DesiredSecondary.Name}} - {{.DesiredSecondary.Description}}</li>
      {{- end}}
    </ul>
    {{- if ne .CurrentPrimary "Unknown"}}
    <h2>Your Current Brand Archetypes:</h2>
    <ul>
      <li><strong>Primary:</strong> {{.CurrentPrimary}}</li>
      <li><strong>Secondary:</strong> {{.CurrentSecondary}}</li>
    </ul>
    {{- end}}
    <p>Please contact our support team for assistance with your complete report.</p>
  </body>
</html>
`))

// FallbackReport renders the templated report used when the AI report
// cannot be produced.
func (s *EvaluatorService) FallbackReport(in *model.ReportInput) (*model.Report, error) {
	var buf bytes.Buffer
	if err := fallbackReportTmpl.Execute(&buf, in); err != nil {
		return nil, &model.ReportGenerationError{Reason: "fallback template failed", Err: err}
	}
	return &model.Report{HTML: buf.String(), Generated: false}, nil
}

// Mock implementations

// mockClassify ranks archetypes by keyword hits in the content
func (s *EvaluatorService) mockClassify(content string) *model.BrandClassification {
	lower := strings.ToLower(content)
	scores := make(map[string]int)
	for _, a := range s.catalog.All() {
		scores[a.Name] = 0
		for _, kw := range a.Keywords {
			if kw != "" {
				scores[a.Name] += strings.Count(lower, strings.ToLower(kw))
			}
		}
	}

	ranking := Rank(scores)
	if len(ranking) == 0 || ranking[0].Score == 0 {
		return model.UnknownClassification()
	}

	primary := ranking[0].Name
	secondary := model.UnknownArchetype
	for _, r := range ranking[1:] {
		if !s.catalog.SamePair(primary, r.Name) {
			secondary = r.Name
			break
		}
	}

	return &model.BrandClassification{
		CurrentPrimary:   primary,
		CurrentSecondary: secondary,
		Confidence:       30,
		Reasoning:        "Mock classification based on keyword matches - enable Gemini for real analysis.",
	}
}

func (s *EvaluatorService) mockAnalysis(desired model.Archetype) *model.AnswerAnalysis {
	strengths := make([]string, 0, len(desired.Keywords))
	for _, kw := range desired.Keywords {
		if kw != "" {
			strengths = append(strengths, strings.ToUpper(kw[:1])+kw[1:])
		}
	}
	sort.Strings(strengths)

	return &model.AnswerAnalysis{
		Archetype:   desired.Name,
		Description: desired.Description,
		Strengths:   strengths,
		Recommendations: []string{
			fmt.Sprintf("Lead your messaging with what makes you a %s", desired.Name),
			"Audit your website copy for consistency with this archetype",
			"Mock analysis - enable Gemini for tailored recommendations",
		},
	}
}
