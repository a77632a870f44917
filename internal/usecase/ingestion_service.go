package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/boxscore"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/rawdata"
	"github.com/riskibarqy/hoops-reconciler/internal/platform/logging"
)

type IngestInput struct {
	Provider string `validate:"required"`
	Kind     string `validate:"required,oneof=games stats players"`
	Payload  []byte `validate:"required"`
	// EntityKey names the archived document; defaults to a hash prefix.
	EntityKey string
}

type IngestSummary struct {
	Provider   game.Provider    `json:"provider"`
	Kind       PayloadKind      `json:"kind"`
	Accepted   int              `json:"accepted"`
	Rejected   int              `json:"rejected"`
	Rejections []game.Rejection `json:"rejections,omitempty"`
	Archived   bool             `json:"archived"`
}

// IngestionService accepts provider documents, archives them verbatim and
// stores their normalized rows. Canonicalization reads what it writes.
type IngestionService struct {
	normalizers map[game.Provider]ProviderNormalizer
	sources     game.SourceRepository
	lines       boxscore.LineRepository
	rawData     rawdata.Repository
	identity    *IdentityService
	validate    *validator.Validate
	logger      *logging.Logger
	now         func() time.Time
}

func NewIngestionService(
	normalizers []ProviderNormalizer,
	sources game.SourceRepository,
	lines boxscore.LineRepository,
	rawData rawdata.Repository,
	identitySvc *IdentityService,
	logger *logging.Logger,
) *IngestionService {
	if logger == nil {
		logger = logging.Default()
	}
	registry := make(map[game.Provider]ProviderNormalizer, len(normalizers))
	for _, n := range normalizers {
		registry[n.Provider()] = n
	}
	return &IngestionService{
		normalizers: registry,
		sources:     sources,
		lines:       lines,
		rawData:     rawData,
		identity:    identitySvc,
		validate:    validator.New(),
		logger:      logger.Named("ingestion"),
		now:         time.Now,
	}
}

// Providers lists the registered normalizers in priority order.
func (s *IngestionService) Providers() []game.Provider {
	out := make([]game.Provider, 0, len(s.normalizers))
	for provider := range s.normalizers {
		out = append(out, provider)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority() != out[j].Priority() {
			return out[i].Priority() > out[j].Priority()
		}
		return out[i] < out[j]
	})
	return out
}

func (s *IngestionService) Ingest(ctx context.Context, input IngestInput) (IngestSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.Ingest")
	defer span.End()

	input.Provider = strings.TrimSpace(input.Provider)
	input.Kind = strings.ToLower(strings.TrimSpace(input.Kind))
	if err := s.validate.StructCtx(ctx, input); err != nil {
		return IngestSummary{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	provider := game.NormalizeProvider(input.Provider)
	normalizer, ok := s.normalizers[provider]
	if !ok {
		return IngestSummary{}, fmt.Errorf("%w: no normalizer for provider %q", ErrInvalidInput, provider)
	}
	kind, _ := ParsePayloadKind(input.Kind)

	batch, err := normalizer.Normalize(ctx, kind, input.Payload)
	if err != nil {
		if errors.Is(err, ErrUnsupportedPayload) {
			return IngestSummary{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return IngestSummary{}, fmt.Errorf("normalize %s %s payload: %w", provider, kind, err)
	}

	summary := IngestSummary{Provider: provider, Kind: kind, Rejections: batch.Rejections}
	if err := s.archive(ctx, provider, kind, input); err != nil {
		s.logger.WarnContext(ctx, "archive raw payload failed", "provider", provider, "kind", kind, "error", err)
	} else {
		summary.Archived = true
	}

	now := s.now().UTC()
	switch kind {
	case PayloadGames:
		records := make([]game.SourceRecord, 0, len(batch.Games))
		for _, record := range batch.Games {
			if err := record.Validate(); err != nil {
				summary.Rejections = append(summary.Rejections, game.Rejection{
					Provider: provider,
					RawID:    record.ProviderGameID,
					Reason:   err.Error(),
				})
				continue
			}
			record.IngestedAt = now
			records = append(records, record)
		}
		if err := s.sources.UpsertSourceRecords(ctx, records); err != nil {
			return IngestSummary{}, fmt.Errorf("upsert source records: %w", err)
		}
		summary.Accepted = len(records)
	case PayloadStats:
		lines := make([]boxscore.StatLine, 0, len(batch.StatLines))
		for _, line := range batch.StatLines {
			line.IngestedAt = now
			lines = append(lines, line)
		}
		if err := s.lines.UpsertStatLines(ctx, lines); err != nil {
			return IngestSummary{}, fmt.Errorf("upsert stat lines: %w", err)
		}
		summary.Accepted = len(lines)
	case PayloadPlayers:
		roster, err := s.identity.UpsertRoster(ctx, provider, batch.Players)
		if err != nil {
			return IngestSummary{}, err
		}
		summary.Accepted = roster.Upserted
		summary.Rejections = append(summary.Rejections, roster.Rejections...)
	}

	summary.Rejected = len(summary.Rejections)
	for _, rej := range summary.Rejections {
		s.logger.WarnContext(ctx, "ingest row rejected",
			"provider", rej.Provider,
			"raw_id", rej.RawID,
			"reason", rej.Reason,
		)
	}
	s.logger.InfoContext(ctx, "ingest finished",
		"provider", provider,
		"kind", kind,
		"accepted", summary.Accepted,
		"rejected", summary.Rejected,
	)
	return summary, nil
}

func (s *IngestionService) archive(ctx context.Context, provider game.Provider, kind PayloadKind, input IngestInput) error {
	if s.rawData == nil {
		return nil
	}
	payload := rawdata.NewPayload(string(provider), string(kind), "", input.Payload, s.now())
	payload.EntityKey = strings.TrimSpace(input.EntityKey)
	if payload.EntityKey == "" {
		payload.EntityKey = payload.PayloadHash[:16]
	}
	return s.rawData.UpsertMany(ctx, []rawdata.Payload{payload})
}
