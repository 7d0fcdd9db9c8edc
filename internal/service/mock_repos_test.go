package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"bijles-engels/backend/config"
	"bijles-engels/backend/internal/model"
	"bijles-engels/backend/internal/repository"
)

// 手写内存 Mock，行为与 GORM 实现的语义约定保持一致：
// 未命中返回 gorm.ErrRecordNotFound，Free 仅翻转 occupied。

// ── mockUserRepo ──

type mockUserRepo struct {
	users  map[string]*model.User // key: user_id
	nextID int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		m.nextID++
		user.UserID = fmt.Sprintf("user-%d", m.nextID)
	}
	cp := *user
	m.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *user
	return &cp, nil
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, user := range m.users {
		if user.Username == username {
			cp := *user
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) CountByRole(_ context.Context, role string) (int64, error) {
	var count int64
	for _, user := range m.users {
		if user.Role == role {
			count++
		}
	}
	return count, nil
}

// ── mockAvailabilityRepo ──

type mockAvailabilityRepo struct {
	data map[string]string // key: slot_key
}

func newMockAvailabilityRepo() *mockAvailabilityRepo {
	return &mockAvailabilityRepo{data: make(map[string]string)}
}

func (m *mockAvailabilityRepo) GetAll(_ context.Context) (map[string]string, error) {
	snapshot := make(map[string]string, len(m.data))
	for key, status := range m.data {
		snapshot[key] = status
	}
	return snapshot, nil
}

func (m *mockAvailabilityRepo) Upsert(_ context.Context, pairs map[string]string) error {
	for key, status := range pairs {
		m.data[key] = status
	}
	return nil
}

func (m *mockAvailabilityRepo) Occupy(_ context.Context, keys []string) error {
	for _, key := range keys {
		m.data[key] = model.SlotOccupied
	}
	return nil
}

func (m *mockAvailabilityRepo) Free(_ context.Context, keys []string) error {
	for _, key := range keys {
		if m.data[key] == model.SlotOccupied {
			m.data[key] = model.SlotAvailable
		}
	}
	return nil
}

// ── mockRegistrationRepo ──

type mockRegistrationRepo struct {
	regs   map[string]*model.Registration // key: registration_id
	nextID int
}

func newMockRegistrationRepo() *mockRegistrationRepo {
	return &mockRegistrationRepo{regs: make(map[string]*model.Registration)}
}

func (m *mockRegistrationRepo) Create(_ context.Context, reg *model.Registration) error {
	if reg.RegistrationID == "" {
		m.nextID++
		reg.RegistrationID = fmt.Sprintf("reg-%d", m.nextID)
	}
	cp := *reg
	m.regs[reg.RegistrationID] = &cp
	return nil
}

func (m *mockRegistrationRepo) GetByID(_ context.Context, id string) (*model.Registration, error) {
	reg, ok := m.regs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *reg
	return &cp, nil
}

func (m *mockRegistrationRepo) List(_ context.Context) ([]model.Registration, error) {
	result := make([]model.Registration, 0, len(m.regs))
	for _, reg := range m.regs {
		result = append(result, *reg)
	}
	return result, nil
}

func (m *mockRegistrationRepo) ListByUser(_ context.Context, userID string) ([]model.Registration, error) {
	var result []model.Registration
	for _, reg := range m.regs {
		if reg.UserID == userID {
			result = append(result, *reg)
		}
	}
	return result, nil
}

func (m *mockRegistrationRepo) ListByStatus(_ context.Context, status string) ([]model.Registration, error) {
	var result []model.Registration
	for _, reg := range m.regs {
		if reg.Status == status {
			result = append(result, *reg)
		}
	}
	return result, nil
}

func (m *mockRegistrationRepo) Update(_ context.Context, reg *model.Registration) error {
	if _, ok := m.regs[reg.RegistrationID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *reg
	m.regs[reg.RegistrationID] = &cp
	return nil
}

func (m *mockRegistrationRepo) Delete(_ context.Context, id string) error {
	delete(m.regs, id)
	return nil
}

// ── 组装辅助 ──

func newMockRepository() *repository.Repository {
	return &repository.Repository{
		User:         newMockUserRepo(),
		Availability: newMockAvailabilityRepo(),
		Registration: newMockRegistrationRepo(),
	}
}

func newTestConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret-key-0123456789",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 168 * time.Hour,
		},
		Admin: config.AdminConfig{
			Username: "admin",
			Password: "admin",
			Name:     "Admin",
		},
		Booking: config.BookingConfig{
			MaxPerDay:  2,
			MaxTotal:   0,
			DaysToShow: 14,
		},
	}
}
