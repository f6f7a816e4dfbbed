// Package testsupport holds in-memory fakes of the store, embedding and
// generation clients for service and controller tests.
package testsupport

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"

	"cv-chat-be/internal/entity"
	"cv-chat-be/internal/repository/contract"
	"cv-chat-be/internal/repository/specification"
	"cv-chat-be/internal/repository/unitofwork"
	"cv-chat-be/pkg/embedding"
	"cv-chat-be/pkg/llm"

	"gorm.io/gorm"
)

var ErrStoreDown = errors.New("store unavailable")

// Store is a fake knowledge store and message log shared by all units of work.
type Store struct {
	mu sync.Mutex

	Sessions  map[string]*entity.ChatSession
	Messages  []*entity.ChatMessage
	Knowledge []*entity.ScoredKnowledgeEntry

	CreateSessionErr error
	// CreateMessageErr fails every message write; FailAssistantWrite only
	// the assistant ones.
	CreateMessageErr   error
	FailAssistantWrite error
	FindMessagesErr    error
	SearchErr          error

	SearchCalls    int
	LastThreshold  float64
	LastLimit      int
	MessageWrites  int
	SessionCreates int
}

func NewStore() *Store {
	return &Store{Sessions: map[string]*entity.ChatSession{}}
}

func (s *Store) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUnitOfWork{store: s}
}

// SessionMessages returns a snapshot of the messages stored for sessionId.
func (s *Store) SessionMessages(sessionId string) []entity.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []entity.ChatMessage
	for _, m := range s.Messages {
		if m.SessionId == sessionId {
			out = append(out, *m)
		}
	}
	return out
}

func (s *Store) Searches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.SearchCalls
}

type fakeUnitOfWork struct {
	store *Store
}

func (u *fakeUnitOfWork) ChatSessionRepository() contract.ChatSessionRepository {
	return &fakeSessionRepo{store: u.store}
}

func (u *fakeUnitOfWork) ChatMessageRepository() contract.ChatMessageRepository {
	return &fakeMessageRepo{store: u.store}
}

func (u *fakeUnitOfWork) KnowledgeBaseRepository() contract.KnowledgeBaseRepository {
	return &fakeKnowledgeRepo{store: u.store}
}

type fakeSessionRepo struct {
	store *Store
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *entity.ChatSession) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.SessionCreates++
	if r.store.CreateSessionErr != nil {
		return r.store.CreateSessionErr
	}
	if _, exists := r.store.Sessions[session.Id]; exists {
		return gorm.ErrDuplicatedKey
	}
	cp := *session
	r.store.Sessions[session.Id] = &cp
	return nil
}

func (r *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, spec := range specs {
		if byID, ok := spec.(specification.ByID); ok {
			return r.store.Sessions[byID.ID], nil
		}
	}
	return nil, nil
}

type fakeMessageRepo struct {
	store *Store
}

func (r *fakeMessageRepo) Create(ctx context.Context, message *entity.ChatMessage) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.MessageWrites++
	if r.store.CreateMessageErr != nil {
		return r.store.CreateMessageErr
	}
	if message.Role == entity.MessageRoleAssistant && r.store.FailAssistantWrite != nil {
		return r.store.FailAssistantWrite
	}
	cp := *message
	r.store.Messages = append(r.store.Messages, &cp)
	return nil
}

func (r *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.store.FindMessagesErr != nil {
		return nil, r.store.FindMessagesErr
	}

	sessionId := ""
	for _, spec := range specs {
		if bySession, ok := spec.(specification.BySessionID); ok {
			sessionId = bySession.SessionID
		}
	}

	var out []*entity.ChatMessage
	for _, m := range r.store.Messages {
		if m.SessionId == sessionId {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type fakeKnowledgeRepo struct {
	store *Store
}

func (r *fakeKnowledgeRepo) Create(ctx context.Context, entry *entity.KnowledgeEntry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.Knowledge = append(r.store.Knowledge, &entity.ScoredKnowledgeEntry{Entry: entry, Similarity: 1})
	return nil
}

// SearchSimilar applies threshold and limit to the preset scores.
func (r *fakeKnowledgeRepo) SearchSimilar(ctx context.Context, embedding []float32, threshold float64, limit int) ([]*entity.ScoredKnowledgeEntry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.SearchCalls++
	r.store.LastThreshold = threshold
	r.store.LastLimit = limit
	if r.store.SearchErr != nil {
		return nil, r.store.SearchErr
	}

	var out []*entity.ScoredKnowledgeEntry
	for _, e := range r.store.Knowledge {
		if e.Similarity >= threshold {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Similarity > out[j].Similarity })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// EmbeddingProvider returns Vector, or Err, and counts calls.
type EmbeddingProvider struct {
	mu     sync.Mutex
	Vector []float32
	Err    error
	calls  int
	texts  []string
}

var _ embedding.EmbeddingProvider = &EmbeddingProvider{}

func (p *EmbeddingProvider) Generate(ctx context.Context, text string, taskType string) (*embedding.EmbeddingResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls++
	p.texts = append(p.texts, text)
	if p.Err != nil {
		return nil, p.Err
	}
	return &embedding.EmbeddingResponse{Embedding: embedding.EmbeddingResponseEmbedding{Values: p.Vector}}, nil
}

func (p *EmbeddingProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// LLMProvider streams Chunks, then StreamErr if set, otherwise io.EOF.
type LLMProvider struct {
	mu        sync.Mutex
	Chunks    []string
	OpenErr   error
	StreamErr error
	// Block makes Recv wait for the request context after the chunks.
	Block bool

	calls       int
	lastHistory []llm.Message
	streams     []*Stream
}

var _ llm.LLMProvider = &LLMProvider{}

func (p *LLMProvider) Stream(ctx context.Context, history []llm.Message, options ...llm.Option) (llm.Stream, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls++
	p.lastHistory = append([]llm.Message(nil), history...)
	if p.OpenErr != nil {
		return nil, p.OpenErr
	}

	s := &Stream{ctx: ctx, chunks: append([]string(nil), p.Chunks...), err: p.StreamErr, block: p.Block}
	p.streams = append(p.streams, s)
	return s, nil
}

func (p *LLMProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func (p *LLMProvider) LastHistory() []llm.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastHistory
}

// LastStream is the most recently opened stream, or nil.
func (p *LLMProvider) LastStream() *Stream {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.streams) == 0 {
		return nil
	}
	return p.streams[len(p.streams)-1]
}

type Stream struct {
	mu     sync.Mutex
	ctx    context.Context
	chunks []string
	err    error
	block  bool
	closed bool
}

func (s *Stream) Recv() (string, error) {
	s.mu.Lock()
	if len(s.chunks) > 0 {
		chunk := s.chunks[0]
		s.chunks = s.chunks[1:]
		s.mu.Unlock()
		return chunk, nil
	}
	block, err := s.block, s.err
	s.mu.Unlock()

	if block {
		<-s.ctx.Done()
		return "", s.ctx.Err()
	}
	if err != nil {
		return "", err
	}
	return "", io.EOF
}

func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Stream) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Credentials reports fixed missing names.
type Credentials struct {
	Generation []string
	Embedding  []string
}

func (c Credentials) MissingGenerationCredentials() []string { return c.Generation }

func (c Credentials) MissingEmbeddingCredentials() []string { return c.Embedding }
