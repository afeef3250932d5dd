package repository

import (
	"context"
	"sync"
	"time"

	"quickcart/internal/model"
)

// MemoryHistoryRepository se usa sin Mongo (desarrollo y tests).
type MemoryHistoryRepository struct {
	mu   sync.Mutex
	docs map[string]*model.StatusHistory
}

func NewMemoryHistoryRepository() *MemoryHistoryRepository {
	return &MemoryHistoryRepository{docs: make(map[string]*model.StatusHistory)}
}

func (m *MemoryHistoryRepository) Init(_ context.Context, orderID, phone string, first model.StatusRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[orderID]; ok {
		return nil
	}
	now := time.Now().UTC()
	first.Current = true
	if first.Timestamp.IsZero() {
		first.Timestamp = now
	}
	m.docs[orderID] = &model.StatusHistory{
		OrderID:   orderID,
		Phone:     phone,
		Status:    first.Status,
		History:   []model.StatusRecord{first},
		CreatedAt: now,
		UpdatedAt: now,
	}
	return nil
}

func (m *MemoryHistoryRepository) FindByOrderID(_ context.Context, orderID string) (*model.StatusHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.docs[orderID]
	if !ok {
		return nil, ErrNotFound
	}
	out := *doc
	out.History = append([]model.StatusRecord(nil), doc.History...)
	return &out, nil
}

func (m *MemoryHistoryRepository) Append(_ context.Context, orderID string, record model.StatusRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	doc, ok := m.docs[orderID]
	if !ok {
		doc = &model.StatusHistory{OrderID: orderID, CreatedAt: now}
		m.docs[orderID] = doc
	}
	for i := range doc.History {
		doc.History[i].Current = false
	}
	record.Current = true
	doc.History = append(doc.History, record)
	doc.Status = record.Status
	doc.UpdatedAt = now
	return nil
}
