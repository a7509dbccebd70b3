package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sangkips/receiptflow/internal/infrastructure/events"
	"github.com/sangkips/receiptflow/internal/infrastructure/pdf"
	"github.com/sangkips/receiptflow/internal/infrastructure/storage"
	"github.com/sangkips/receiptflow/pkg/email"
)

type fakeRenderer struct {
	err   error
	calls int
}

func (r *fakeRenderer) Render(ctx context.Context, doc pdf.Document) ([]byte, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-1.4 " + doc.Receipt.OrderID), nil
}

type fakeStorage struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{files: map[string][]byte{}}
}

func (s *fakeStorage) Upload(ctx context.Context, name string, data []byte) (*storage.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[name] = data
	return &storage.File{ID: name, URL: "https://files.test/" + name, Size: int64(len(data))}, nil
}

func (s *fakeStorage) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[id]; !ok {
		return fmt.Errorf("no file %s", id)
	}
	delete(s.files, id)
	return nil
}

type fakeMailer struct {
	err      error
	receipts []email.ReceiptEmail
	tests    []string
}

func (m *fakeMailer) SendReceiptEmail(data email.ReceiptEmail) error {
	if m.err != nil {
		return m.err
	}
	m.receipts = append(m.receipts, data)
	return nil
}

func (m *fakeMailer) SendTestEmail(to, businessName string) error {
	if m.err != nil {
		return m.err
	}
	m.tests = append(m.tests, to+"|"+businessName)
	return nil
}

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

var errBoom = errors.New("boom")
