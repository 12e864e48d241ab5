package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// CandidateSearchService indexes analyzed resume text in Qdrant and serves
// the admin semantic candidate search. Retrieval only; scoring stays with
// the model gateways.
type CandidateSearchService interface {
	InitCollection() error
	IndexResume(ctx context.Context, appID uuid.UUID, candidateName, resumeText string) error
	Search(ctx context.Context, query string, limit int) ([]CandidateMatch, error)
	RemoveResume(ctx context.Context, appID uuid.UUID) error
}

type CandidateMatch struct {
	ApplicationID string
	Name          string
	Score         float32
	Excerpt       string
}

type candidateSearchService struct {
	client         *qdrant.Client
	geminiService  GeminiService
	chunker        TextChunker
	collectionName string
	vectorSize     uint64
}

func NewCandidateSearchService(urlStr, apiKey, collectionName string, geminiService GeminiService) (CandidateSearchService, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port by default
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &candidateSearchService{
		client:         client,
		geminiService:  geminiService,
		chunker:        NewTextChunker(),
		collectionName: collectionName,
		vectorSize:     768, // text-embedding-004 size
	}, nil
}

// InitCollection implements CandidateSearchService.
func (s *candidateSearchService) InitCollection() error {
	ctx := context.Background()

	exists, err := s.client.CollectionExists(ctx, s.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Println("✅ Qdrant collection already exists")
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     s.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("✅ Qdrant collection '%s' created successfully\n", s.collectionName)
	return nil
}

// IndexResume implements CandidateSearchService. Re-indexing an application
// replaces its previous chunks.
func (s *candidateSearchService) IndexResume(ctx context.Context, appID uuid.UUID, candidateName, resumeText string) error {
	if err := s.RemoveResume(ctx, appID); err != nil {
		log.Printf("⚠️  Failed to clear previous index for %s: %v\n", appID, err)
	}

	chunks := s.chunker.ChunkText(resumeText, 1000, 200)

	var points []*qdrant.PointStruct
	for i, chunk := range chunks {
		embedding, err := s.geminiService.GenerateEmbedding(ctx, chunk)
		if err != nil {
			return fmt.Errorf("failed to embed resume chunk %d: %w", i, err)
		}

		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(uuid.New().String()),
			Vectors: qdrant.NewVectors(embedding...),
			Payload: qdrant.NewValueMap(map[string]interface{}{
				"application_id": appID.String(),
				"name":           candidateName,
				"text":           chunk,
				"chunk":          i,
			}),
		})
	}

	if len(points) == 0 {
		return nil
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collectionName,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert resume chunks: %w", err)
	}

	return nil
}

// Search implements CandidateSearchService.
func (s *candidateSearchService) Search(ctx context.Context, query string, limit int) ([]CandidateMatch, error) {
	embedding, err := s.geminiService.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed search query: %w", err)
	}

	searchResult, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collectionName,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search candidates: %w", err)
	}

	var matches []CandidateMatch
	for _, point := range searchResult {
		match := CandidateMatch{Score: point.Score}

		if v, ok := point.Payload["application_id"]; ok {
			if sv, ok := v.GetKind().(*qdrant.Value_StringValue); ok {
				match.ApplicationID = sv.StringValue
			}
		}
		if v, ok := point.Payload["name"]; ok {
			if sv, ok := v.GetKind().(*qdrant.Value_StringValue); ok {
				match.Name = sv.StringValue
			}
		}
		if v, ok := point.Payload["text"]; ok {
			if sv, ok := v.GetKind().(*qdrant.Value_StringValue); ok {
				match.Excerpt = sv.StringValue
			}
		}

		matches = append(matches, match)
	}

	return matches, nil
}

// RemoveResume implements CandidateSearchService.
func (s *candidateSearchService) RemoveResume(ctx context.Context, appID uuid.UUID) error {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("application_id", appID.String()),
		},
	}

	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: filter,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to remove resume chunks: %w", err)
	}

	return nil
}
