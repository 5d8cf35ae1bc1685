package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"brandquiz/internal/cache"
	"brandquiz/internal/catalog"
	"brandquiz/internal/model"
)

// SuccessMessage is returned with every completed submission
const SuccessMessage = "Quiz processed successfully. Report will be sent via email."

// WebsiteScraper fetches and extracts a company website
type WebsiteScraper interface {
	Scrape(ctx context.Context, websiteURL string) (*model.WebsiteData, error)
}

// BrandEvaluator is the AI side of the pipeline
type BrandEvaluator interface {
	ClassifyBrand(ctx context.Context, content string) (*model.BrandClassification, error)
	GenerateReport(ctx context.Context, in *model.ReportInput) (*model.Report, error)
	FallbackReport(in *model.ReportInput) (*model.Report, error)
	AnalyzeAnswers(ctx context.Context, desired model.Archetype, answered []model.AnsweredQuestion) (*model.AnswerAnalysis, error)
}

// ContactSyncer upserts contacts and sends report emails
type ContactSyncer interface {
	UpsertContact(ctx context.Context, contact CRMContact) (string, error)
	SendReportEmail(ctx context.Context, email ReportEmail) error
}

// SubmissionService runs a quiz submission through the pipeline
type SubmissionService struct {
	catalog     *catalog.Catalog
	questions   *catalog.QuestionSet
	scoring     *ScoringService
	scraper     WebsiteScraper
	evaluator   BrandEvaluator
	crm         ContactSyncer
	cache       cache.WebsiteCache
	broadcaster Broadcaster
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(
	c *catalog.Catalog,
	qs *catalog.QuestionSet,
	scraper WebsiteScraper,
	evaluator BrandEvaluator,
	crm ContactSyncer,
	websiteCache cache.WebsiteCache,
) *SubmissionService {
	if websiteCache == nil {
		websiteCache = cache.NewNoopWebsiteCache()
	}
	return &SubmissionService{
		catalog:     c,
		questions:   qs,
		scoring:     NewScoringService(c, qs),
		scraper:     scraper,
		evaluator:   evaluator,
		crm:         crm,
		cache:       websiteCache,
		broadcaster: noopBroadcaster{},
	}
}

// SetBroadcaster sets the broadcaster for progress events
func (s *SubmissionService) SetBroadcaster(b Broadcaster) {
	if b == nil {
		b = noopBroadcaster{}
	}
	s.broadcaster = b
}

// Questions returns the question bank in use
func (s *SubmissionService) Questions() *catalog.QuestionSet {
	return s.questions
}

// pipeline carries the per-submission trace and progress publishing
type pipeline struct {
	trace       *model.PipelineTrace
	broadcaster Broadcaster
}

func (p *pipeline) publish(step model.Step, status, message string) {
	p.broadcaster.Publish(p.trace.SubmissionID, MsgProgress, model.ProgressEvent{
		SubmissionID: p.trace.SubmissionID,
		Step:         step,
		Status:       status,
		Message:      message,
	})
}

func (p *pipeline) start(step model.Step) time.Time {
	p.publish(step, "started", "")
	return time.Now()
}

// finish records the step outcome. A non-nil err with fallback set is a
// soft failure; without fallback it ends the pipeline.
func (p *pipeline) finish(step model.Step, started time.Time, err error, fallback bool) {
	outcome := model.StepOutcome{
		Step:     step,
		OK:       err == nil,
		Fallback: fallback,
		Duration: time.Since(started).Milliseconds(),
	}
	status := "done"
	if err != nil {
		outcome.Error = err.Error()
		status = "failed"
		if fallback {
			status = "fallback"
		}
	}
	p.trace.Steps = append(p.trace.Steps, outcome)
	p.publish(step, status, outcome.Error)
}

// fail publishes the error that ended the pipeline at step
func (p *pipeline) fail(step model.Step, err error) {
	p.broadcaster.Publish(p.trace.SubmissionID, MsgError, model.ProgressEvent{
		SubmissionID: p.trace.SubmissionID,
		Step:         step,
		Status:       "failed",
		Message:      err.Error(),
	})
}

// Submit validates, scores and analyzes a submission, generates and sends
// the report, and returns the archetype summary. Only validation and
// scoring errors are returned; every later failure falls back.
func (s *SubmissionService) Submit(ctx context.Context, req *model.SubmitRequest) (*model.SubmissionResult, *model.PipelineTrace, error) {
	reportID := uuid.New().String()
	submissionID := strings.TrimSpace(req.SubmissionID)
	if submissionID == "" {
		submissionID = reportID
	}
	p := &pipeline{
		trace:       &model.PipelineTrace{SubmissionID: submissionID},
		broadcaster: s.broadcaster,
	}

	// Validating
	started := p.start(model.StepValidating)
	meta, err := s.validate(req)
	p.finish(model.StepValidating, started, err, false)
	if err != nil {
		log.Printf("[Submit] %s rejected: %v", submissionID, err)
		p.fail(model.StepValidating, err)
		return nil, p.trace, err
	}

	// Scoring
	started = p.start(model.StepScoring)
	score, err := s.scoring.Score(req.Answers)
	p.finish(model.StepScoring, started, err, false)
	if err != nil {
		log.Printf("[Submit] %s scoring failed: %v", submissionID, err)
		p.fail(model.StepScoring, err)
		return nil, p.trace, err
	}
	log.Printf("[Submit] %s desired brand type %s/%s", submissionID, score.Primary, score.SecondaryName())

	website, classification := s.analyzeWebsite(ctx, p, meta.WebsiteURL)

	// ReportGenerating
	reportInput := s.reportInput(meta, score, website, classification)
	started = p.start(model.StepReportGenerating)
	report, err := s.evaluator.GenerateReport(ctx, reportInput)
	if err != nil {
		log.Printf("[Submit] %s report generation failed, using fallback report: %v", submissionID, err)
		var fallbackErr error
		report, fallbackErr = s.evaluator.FallbackReport(reportInput)
		if fallbackErr != nil {
			p.finish(model.StepReportGenerating, started, fallbackErr, false)
			p.fail(model.StepReportGenerating, fallbackErr)
			return nil, p.trace, fmt.Errorf("fallback report: %w", fallbackErr)
		}
	}
	p.finish(model.StepReportGenerating, started, err, err != nil)

	results := model.SubmissionResults{
		DesiredBrandType: model.BrandType{Primary: score.Primary, Secondary: score.SecondaryName()},
		CurrentBrandType: model.BrandType{Primary: classification.CurrentPrimary, Secondary: classification.CurrentSecondary},
	}

	// SyncingCRM
	started = p.start(model.StepSyncingCRM)
	contactID, err := s.crm.UpsertContact(ctx, NewCRMContact(meta, results))
	s.logSoftFailure(submissionID, "CRM sync", err)
	p.finish(model.StepSyncingCRM, started, err, err != nil)

	// Emailing
	started = p.start(model.StepEmailing)
	err = s.crm.SendReportEmail(ctx, ReportEmail{
		ContactID:        contactID,
		Name:             meta.Name,
		Email:            meta.Email,
		CompanyName:      meta.CompanyName,
		DesiredPrimary:   results.DesiredBrandType.Primary,
		DesiredSecondary: results.DesiredBrandType.Secondary,
		ReportHTML:       report.HTML,
	})
	s.logSoftFailure(submissionID, "report email", err)
	p.finish(model.StepEmailing, started, err, err != nil)

	// Responding
	started = p.start(model.StepResponding)
	result := &model.SubmissionResult{
		Success:  true,
		ReportID: reportID,
		Message:  SuccessMessage,
		Results:  results,
	}
	p.finish(model.StepResponding, started, nil, false)
	s.broadcaster.Publish(submissionID, MsgResult, result)

	log.Printf("[Submit] %s completed, report %s", submissionID, reportID)
	return result, p.trace, nil
}

// analyzeWebsite runs the Scraping and Classifying steps, consulting the
// cache first. It always returns usable values.
func (s *SubmissionService) analyzeWebsite(ctx context.Context, p *pipeline, websiteURL string) (*model.WebsiteData, *model.BrandClassification) {
	cached, err := s.cache.Get(ctx, websiteURL)
	if err != nil {
		log.Printf("[Submit] website cache read failed: %v", err)
	}

	// Scraping
	started := p.start(model.StepScraping)
	var website *model.WebsiteData
	if cached != nil {
		website = &cached.Website
		p.finish(model.StepScraping, started, nil, false)
	} else {
		website, err = s.scraper.Scrape(ctx, websiteURL)
		if err != nil {
			log.Printf("[Submit] scraping %s failed: %v", websiteURL, err)
			website = model.EmptyWebsiteData(websiteURL)
		}
		p.finish(model.StepScraping, started, err, err != nil)
	}

	// Classifying
	started = p.start(model.StepClassifying)
	if cached != nil && cached.Classification != nil {
		p.finish(model.StepClassifying, started, nil, false)
		return website, cached.Classification
	}

	var classification *model.BrandClassification
	if strings.TrimSpace(website.Content) == "" {
		err = &model.ClassificationError{Reason: "no website content"}
	} else {
		classification, err = s.evaluator.ClassifyBrand(ctx, website.Content)
	}
	if err != nil {
		log.Printf("[Submit] classification failed, current brand type unknown: %v", err)
		p.finish(model.StepClassifying, started, err, true)
		return website, model.UnknownClassification()
	}
	p.finish(model.StepClassifying, started, nil, false)

	if err := s.cache.Set(ctx, websiteURL, &model.WebsiteAnalysis{Website: *website, Classification: classification}); err != nil {
		log.Printf("[Submit] website cache write failed: %v", err)
	}
	return website, classification
}

func (s *SubmissionService) logSoftFailure(submissionID, what string, err error) {
	switch {
	case err == nil:
	case errors.Is(err, model.ErrCRMNotConfigured):
		log.Printf("[Submit] %s %s skipped: %v", submissionID, what, err)
	default:
		log.Printf("[Submit] %s %s failed: %v", submissionID, what, err)
	}
}

func (s *SubmissionService) reportInput(meta model.Metadata, score *model.ScoreResult, website *model.WebsiteData, classification *model.BrandClassification) *model.ReportInput {
	in := &model.ReportInput{
		Name:             meta.Name,
		CompanyName:      meta.CompanyName,
		WebsiteURL:       meta.WebsiteURL,
		LogoURL:          website.LogoURL,
		CurrentPrimary:   classification.CurrentPrimary,
		CurrentSecondary: classification.CurrentSecondary,
		Reasoning:        classification.Reasoning,
	}
	in.DesiredPrimary, _ = s.catalog.ByName(score.Primary)
	if score.Secondary != nil {
		if a, ok := s.catalog.ByName(*score.Secondary); ok {
			in.DesiredSecondary = &a
		}
	}
	return in
}

// validate checks metadata and answer shape and returns trimmed metadata
// with a normalized website URL.
func (s *SubmissionService) validate(req *model.SubmitRequest) (model.Metadata, error) {
	verr := &model.ValidationError{}
	meta := req.Metadata.Trimmed()

	required := []struct {
		field, value string
	}{
		{"name", meta.Name},
		{"email", meta.Email},
		{"companyName", meta.CompanyName},
		{"websiteUrl", meta.WebsiteURL},
	}
	for _, f := range required {
		if f.value == "" {
			verr.Add("metadata."+f.field, "is required")
		}
	}

	if meta.Email != "" {
		if addr, err := mail.ParseAddress(meta.Email); err != nil || addr.Address != meta.Email {
			verr.Add("metadata.email", "must be a valid email address")
		}
	}

	if meta.WebsiteURL != "" {
		normalized, ok := normalizeWebsiteURL(meta.WebsiteURL)
		if !ok {
			verr.Add("metadata.websiteUrl", "must be a valid http(s) URL")
		}
		meta.WebsiteURL = normalized
	}

	if len(req.Answers) == 0 {
		verr.Add("answers", "must not be empty")
	}
	seen := make(map[string]int, len(req.Answers))
	for i, a := range req.Answers {
		field := fmt.Sprintf("answers[%d]", i)
		if strings.TrimSpace(a.QuestionID) == "" {
			verr.Add(field+".questionId", "is required")
			continue
		}
		if strings.TrimSpace(a.OptionValue) == "" {
			verr.Add(field+".answer", "is required")
		}
		if first, dup := seen[a.QuestionID]; dup {
			verr.Add(field+".questionId", fmt.Sprintf("duplicate answer for question %q (first at answers[%d])", a.QuestionID, first))
			continue
		}
		seen[a.QuestionID] = i
	}

	return meta, verr.OrNil()
}

// normalizeWebsiteURL adds a missing scheme and reports whether the result
// is an http(s) URL with a host.
func normalizeWebsiteURL(raw string) (string, bool) {
	if strings.Contains(raw, "://") {
		scheme := strings.ToLower(raw[:strings.Index(raw, "://")])
		if scheme != "http" && scheme != "https" {
			return raw, false
		}
	}
	normalized := NormalizeURL(raw)
	u, err := url.Parse(normalized)
	if err != nil || u.Hostname() == "" || strings.ContainsAny(u.Host, " \t") {
		return normalized, false
	}
	return normalized, true
}

// Analyze validates and scores a submission and returns the free-form
// analysis of the answers without running the report pipeline.
func (s *SubmissionService) Analyze(ctx context.Context, req *model.SubmitRequest) (*model.AnalysisResult, error) {
	meta, err := s.validate(req)
	if err != nil {
		return nil, err
	}
	score, err := s.scoring.Score(req.Answers)
	if err != nil {
		return nil, err
	}

	answered := make([]model.AnsweredQuestion, 0, len(req.Answers))
	for _, a := range req.Answers {
		q, ok := s.questions.ByID(a.QuestionID)
		if !ok {
			continue
		}
		text := a.AnswerText
		if o, ok := q.OptionByValue(a.OptionValue); ok {
			text = o.Text
		}
		answered = append(answered, model.AnsweredQuestion{Question: q.Text, Answer: text})
	}

	desired, _ := s.catalog.ByName(score.Primary)
	analysis, err := s.evaluator.AnalyzeAnswers(ctx, desired, answered)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze quiz results: %w", err)
	}

	return &model.AnalysisResult{
		Success:   true,
		Metadata:  meta,
		Result:    analysis,
		Timestamp: time.Now().UTC(),
	}, nil
}
