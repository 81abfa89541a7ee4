package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"repurpose/internal/llm"
	"repurpose/internal/model"
	"repurpose/internal/prompt"
	"repurpose/internal/pubsub"

	"github.com/rs/zerolog"
)

// GenerationService turns an article URL into a social post, enforcing the
// free-tier quota.
type GenerationService interface {
	Generate(ctx context.Context, req model.GenerationRequest) (*model.GenerationResult, error)
}

type generationService struct {
	usage     UsageService
	fetcher   ArticleFetcher
	generator llm.Generator
	events    pubsub.EventPublisher
	now       Clock
	logger    zerolog.Logger
}

// NewGenerationService wires the generation pipeline. A nil generator is
// accepted and reported as a ConfigurationError on each request; a nil events
// publisher drops events.
func NewGenerationService(usage UsageService, fetcher ArticleFetcher, generator llm.Generator, events pubsub.EventPublisher, now Clock, logger zerolog.Logger) GenerationService {
	if events == nil {
		events = pubsub.NopEventPublisher{}
	}
	if now == nil {
		now = time.Now
	}
	return &generationService{
		usage:     usage,
		fetcher:   fetcher,
		generator: generator,
		events:    events,
		now:       now,
		logger:    logger.With().Str("service", "GenerationService").Logger(),
	}
}

type validatedRequest struct {
	url          string
	platform     model.Platform
	tone         model.Tone
	threadLength int
	niche        string
	identity     string
	isPro        bool
}

func validateGenerationRequest(req model.GenerationRequest) (*validatedRequest, error) {
	rawURL := strings.TrimSpace(req.URL)
	if rawURL == "" {
		return nil, &ValidationError{Message: "URL is required"}
	}
	identity := strings.TrimSpace(req.Identity)
	if identity == "" {
		return nil, &ValidationError{Message: "Email is required"}
	}

	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, &ValidationError{Message: "URL must be an absolute http or https address"}
	}

	tone, ok := model.ParseTone(req.Tone)
	if !ok {
		return nil, &ValidationError{Message: fmt.Sprintf("Unknown tone: %s", req.Tone)}
	}

	threadLength := req.ThreadLength
	if threadLength == 0 {
		threadLength = model.DefaultThreadLength
	}
	if threadLength < model.MinThreadLength || threadLength > model.MaxThreadLength {
		return nil, &ValidationError{Message: fmt.Sprintf("Thread length must be between %d and %d", model.MinThreadLength, model.MaxThreadLength)}
	}

	return &validatedRequest{
		url:          rawURL,
		platform:     model.ParsePlatform(req.Platform),
		tone:         tone,
		threadLength: threadLength,
		niche:        strings.TrimSpace(req.Niche),
		identity:     identity,
		isPro:        req.IsPro,
	}, nil
}

func (s *generationService) Generate(ctx context.Context, req model.GenerationRequest) (*model.GenerationResult, error) {
	in, err := validateGenerationRequest(req)
	if err != nil {
		return nil, err
	}
	log := s.logger.With().Str("identity", in.identity).Str("platform", string(in.platform)).Logger()

	used := 0
	if !in.isPro {
		used, err = s.usage.GetUsage(ctx, in.identity)
		if err != nil {
			return nil, err
		}
		if used >= s.usage.Limit() {
			log.Info().Int("used", used).Int("limit", s.usage.Limit()).Msg("Daily limit reached")
			return nil, &QuotaExceededError{Used: used, Limit: s.usage.Limit()}
		}
	}

	if s.generator == nil {
		log.Error().Msg("No LLM provider configured")
		return nil, &ConfigurationError{Message: "API key not configured"}
	}

	article, err := s.fetcher.Fetch(ctx, in.url)
	if err != nil {
		var fetchErr *FetchError
		if !errors.As(err, &fetchErr) {
			fetchErr = &FetchError{URL: in.url, Err: err}
		}
		log.Warn().Err(err).Str("url", in.url).Int("status", fetchErr.StatusCode).Msg("Article fetch failed")
		return nil, fetchErr
	}

	system, user := prompt.Build(prompt.Input{
		Platform:     in.platform,
		Tone:         in.tone,
		ThreadLength: in.threadLength,
		Niche:        in.niche,
		Title:        article.Title,
		Content:      article.Content,
	})

	output, err := s.generator.Generate(ctx, system, user)
	if err != nil {
		log.Error().Err(err).Msg("LLM generation failed")
		return nil, &GenerationError{Err: err}
	}

	result := &model.GenerationResult{
		Output: output,
		Meta:   model.GenerationMeta{Title: article.Title, WordCount: article.WordCount},
	}

	if !in.isPro {
		n, err := s.usage.IncrementUsage(ctx, in.identity)
		if err != nil {
			log.Error().Err(err).Msg("Usage not recorded after successful generation")
			n = used + 1
		}
		snapshot := model.NewUsageSnapshot(n, s.usage.Limit())
		result.Usage = &snapshot
		used = n
	}

	event := model.GenerationEvent{
		Identity:    in.identity,
		Platform:    in.platform,
		Tone:        in.tone,
		URL:         in.url,
		Title:       article.Title,
		WordCount:   article.WordCount,
		IsPro:       in.isPro,
		GeneratedAt: s.now().UTC(),
	}
	if !in.isPro {
		event.Used = used
	}
	if err := s.events.PublishGeneration(ctx, event); err != nil {
		log.Warn().Err(err).Msg("Failed to publish generation event")
	}

	log.Info().Int("word_count", article.WordCount).Msg("Generated post")
	return result, nil
}
