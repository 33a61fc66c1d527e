package business

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Conte777/tubedrop/config"
	"github.com/Conte777/tubedrop/internal/domain/media/dto"
	"github.com/Conte777/tubedrop/internal/domain/media/entities"
	"github.com/Conte777/tubedrop/internal/domain/media/repository/memory"
)

type sentText struct {
	chatID   int64
	text     string
	keyboard entities.Keyboard
}

type editedText struct {
	msg      entities.StatusMessage
	text     string
	keyboard entities.Keyboard
}

type uploadedFile struct {
	chatID int64
	path   string
	title  string
}

// mockSender is a mock implementation of deps.ChatSender
type mockSender struct {
	mu       sync.Mutex
	nextID   int
	sent     []sentText
	edits    []editedText
	audios   []uploadedFile
	videos   []uploadedFile
	answered []string

	editTextFunc  func(msg entities.StatusMessage, text string) error
	sendVideoFunc func(chatID int64, filePath, caption string) error
}

func (m *mockSender) SendText(ctx context.Context, chatID int64, text string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.sent = append(m.sent, sentText{chatID: chatID, text: text})
	return 100 + m.nextID, nil
}

func (m *mockSender) SendKeyboard(ctx context.Context, chatID int64, text string, keyboard entities.Keyboard) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.sent = append(m.sent, sentText{chatID: chatID, text: text, keyboard: keyboard})
	return 100 + m.nextID, nil
}

func (m *mockSender) EditText(ctx context.Context, msg entities.StatusMessage, text string) error {
	m.mu.Lock()
	m.edits = append(m.edits, editedText{msg: msg, text: text})
	m.mu.Unlock()

	if m.editTextFunc != nil {
		return m.editTextFunc(msg, text)
	}
	return nil
}

func (m *mockSender) EditKeyboard(ctx context.Context, msg entities.StatusMessage, text string, keyboard entities.Keyboard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edits = append(m.edits, editedText{msg: msg, text: text, keyboard: keyboard})
	return nil
}

func (m *mockSender) SendAudio(ctx context.Context, chatID int64, filePath, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.audios = append(m.audios, uploadedFile{chatID: chatID, path: filePath, title: title})
	return nil
}

func (m *mockSender) SendVideo(ctx context.Context, chatID int64, filePath, caption string) error {
	m.mu.Lock()
	m.videos = append(m.videos, uploadedFile{chatID: chatID, path: filePath, title: caption})
	m.mu.Unlock()

	if m.sendVideoFunc != nil {
		return m.sendVideoFunc(chatID, filePath, caption)
	}
	return nil
}

func (m *mockSender) AnswerCallback(ctx context.Context, callbackID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answered = append(m.answered, callbackID)
	return nil
}

func (m *mockSender) editTexts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	texts := make([]string, 0, len(m.edits))
	for _, e := range m.edits {
		texts = append(texts, e.text)
	}
	return texts
}

func (m *mockSender) lastEdit() editedText {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.edits) == 0 {
		return editedText{}
	}
	return m.edits[len(m.edits)-1]
}

func (m *mockSender) keyboardEdits() []editedText {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []editedText
	for _, e := range m.edits {
		if e.keyboard != nil {
			out = append(out, e)
		}
	}
	return out
}

// mockExtractor is a mock implementation of deps.Extractor
type mockExtractor struct {
	mu        sync.Mutex
	infoCalls []string
	downloads []entities.DownloadRequest

	fetchInfoFunc func(ctx context.Context, url string) (*entities.MediaInfo, error)
	downloadFunc  func(ctx context.Context, req entities.DownloadRequest, progress chan<- entities.ProgressEvent) (*entities.DownloadResult, error)
}

func (m *mockExtractor) FetchInfo(ctx context.Context, url string) (*entities.MediaInfo, error) {
	m.mu.Lock()
	m.infoCalls = append(m.infoCalls, url)
	m.mu.Unlock()

	if m.fetchInfoFunc != nil {
		return m.fetchInfoFunc(ctx, url)
	}
	return &entities.MediaInfo{}, nil
}

func (m *mockExtractor) Download(ctx context.Context, req entities.DownloadRequest, progress chan<- entities.ProgressEvent) (*entities.DownloadResult, error) {
	m.mu.Lock()
	m.downloads = append(m.downloads, req)
	m.mu.Unlock()

	if m.downloadFunc != nil {
		return m.downloadFunc(ctx, req, progress)
	}
	return nil, nil
}

func (m *mockExtractor) calls() (info int, downloads []entities.DownloadRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.infoCalls), append([]entities.DownloadRequest(nil), m.downloads...)
}

// mockEvents is a mock implementation of deps.JobEventPublisher
type mockEvents struct {
	mu     sync.Mutex
	events []*dto.JobEvent
}

func (m *mockEvents) Publish(ctx context.Context, event *dto.JobEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *mockEvents) IsHealthy() bool {
	return true
}

func (m *mockEvents) Close() error {
	return nil
}

func (m *mockEvents) states() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	states := make([]string, 0, len(m.events))
	for _, e := range m.events {
		states = append(states, e.State)
	}
	return states
}

// mockMetrics is a mock implementation of deps.Metrics
type mockMetrics struct {
	mu        sync.Mutex
	downloads []string
	errors    []string
	listings  []string
	unknown   int
	sessions  int
}

func (m *mockMetrics) RecordDownload(kind string, durationSeconds float64, bytes int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.downloads = append(m.downloads, kind)
}

func (m *mockMetrics) RecordDownloadError(kind, errorType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, kind+":"+errorType)
}

func (m *mockMetrics) RecordFormatListing(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listings = append(m.listings, result)
}

func (m *mockMetrics) RecordUnknownCallback() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unknown++
}

func (m *mockMetrics) SetSessions(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = count
}

type testEnv struct {
	uc        *UseCase
	sender    *mockSender
	extractor *mockExtractor
	events    *mockEvents
	metrics   *mockMetrics
	cfg       *config.MediaConfig
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.MediaConfig{
		DownloadDir:      t.TempDir(),
		VideoContainer:   "mp4",
		AutoMaxHeight:    480,
		AudioCodec:       "mp3",
		AudioQuality:     "192",
		ProgressInterval: time.Millisecond,
	}

	env := &testEnv{
		sender:    &mockSender{},
		extractor: &mockExtractor{},
		events:    &mockEvents{},
		metrics:   &mockMetrics{},
		cfg:       cfg,
	}

	logger := zerolog.Nop()
	env.uc = NewUseCase(memory.NewSessionRepository(logger), env.extractor, env.events, env.metrics, cfg, logger)
	env.uc.SetSender(env.sender)

	return env
}

// offer sends url as a text message and returns the button request template
// for the prompt the bot replied with
func (e *testEnv) offer(t *testing.T, url string) *dto.ButtonRequest {
	t.Helper()

	if err := e.uc.HandleText(context.Background(), &dto.TextRequest{ChatID: 1, UserID: 2, Text: url}); err != nil {
		t.Fatalf("HandleText: %v", err)
	}

	e.sender.mu.Lock()
	promptID := 100 + e.sender.nextID
	e.sender.mu.Unlock()

	return &dto.ButtonRequest{ChatID: 1, UserID: 2, MessageID: promptID, CallbackID: "cb"}
}

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }
