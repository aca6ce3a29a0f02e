package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/model"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/repository"
	pkgerrors "github.com/AadeshhhGavhane/campus-sync-apsit-sub000/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = fmt.Sprintf("user-%d", len(m.users)+1)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok && !u.DeletedAt.Valid {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) && !u.DeletedAt.Valid {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	u, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (m *mockUserRepo) List(_ context.Context, orgID, role string) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		if u.OrganizationID != orgID || u.DeletedAt.Valid {
			continue
		}
		if role != "" && u.Role != role {
			continue
		}
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockUserRepo) Delete(_ context.Context, orgID, id, _ string) error {
	u, ok := m.users[id]
	if !ok || u.OrganizationID != orgID || u.DeletedAt.Valid {
		return gorm.ErrRecordNotFound
	}
	u.DeletedAt.Valid = true
	return nil
}

// ── Mock GroupRepository ──

type mockGroupRepo struct {
	groups map[string]*model.Group
}

func newMockGroupRepo() *mockGroupRepo {
	return &mockGroupRepo{groups: make(map[string]*model.Group)}
}

func (m *mockGroupRepo) Create(_ context.Context, group *model.Group) error {
	if group.GroupID == "" {
		group.GroupID = "group-" + group.Name
	}
	m.groups[group.GroupID] = group
	return nil
}

func (m *mockGroupRepo) GetByID(_ context.Context, orgID, id string) (*model.Group, error) {
	if g, ok := m.groups[id]; ok && g.OrganizationID == orgID {
		return g, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGroupRepo) List(_ context.Context, orgID string) ([]model.Group, error) {
	var result []model.Group
	for _, g := range m.groups {
		if g.OrganizationID == orgID {
			result = append(result, *g)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockGroupRepo) Update(_ context.Context, group *model.Group) error {
	stored, ok := m.groups[group.GroupID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored != group && stored.Version != group.Version {
		return pkgerrors.ErrOptimisticLock
	}
	group.Version++
	cp := *group
	m.groups[group.GroupID] = &cp
	return nil
}

func (m *mockGroupRepo) Delete(_ context.Context, orgID, id, _ string) error {
	if g, ok := m.groups[id]; ok && g.OrganizationID == orgID {
		delete(m.groups, id)
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockGroupRepo) IDsByMember(_ context.Context, orgID, userID string) ([]string, error) {
	var ids []string
	for _, g := range m.groups {
		if g.OrganizationID == orgID && g.MemberIDs.Contains(userID) {
			ids = append(ids, g.GroupID)
		}
	}
	return ids, nil
}

// ── Mock CatalogRepository ──

// mockCatalogRepo keeps rows in insertion order; id and org read the row's
// key columns.
type mockCatalogRepo[T any] struct {
	rows []*T
	id   func(*T) *string
	org  func(*T) string
}

func newMockCatalogRepo[T any](id func(*T) *string, org func(*T) string) *mockCatalogRepo[T] {
	return &mockCatalogRepo[T]{id: id, org: org}
}

func (m *mockCatalogRepo[T]) Create(_ context.Context, item *T) error {
	if *m.id(item) == "" {
		*m.id(item) = fmt.Sprintf("row-%d", len(m.rows)+1)
	}
	m.rows = append(m.rows, item)
	return nil
}

func (m *mockCatalogRepo[T]) GetByID(_ context.Context, orgID, id string) (*T, error) {
	for _, r := range m.rows {
		if *m.id(r) == id && m.org(r) == orgID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCatalogRepo[T]) List(_ context.Context, orgID string) ([]T, error) {
	var result []T
	for _, r := range m.rows {
		if m.org(r) == orgID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockCatalogRepo[T]) Update(_ context.Context, item *T) error {
	for i, r := range m.rows {
		if *m.id(r) == *m.id(item) {
			m.rows[i] = item
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockCatalogRepo[T]) Delete(_ context.Context, orgID, id, _ string) error {
	for i, r := range m.rows {
		if *m.id(r) == id && m.org(r) == orgID {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ── Mock TimetableRepository ──

type mockTimetableRepo struct {
	timetables map[string]*model.Timetable
	seq        int
}

func newMockTimetableRepo() *mockTimetableRepo {
	return &mockTimetableRepo{timetables: make(map[string]*model.Timetable)}
}

func (m *mockTimetableRepo) Create(_ context.Context, tt *model.Timetable) error {
	m.seq++
	if tt.TimetableID == "" {
		tt.TimetableID = fmt.Sprintf("tt-%d", m.seq)
	}
	cp := *tt
	m.timetables[tt.TimetableID] = &cp
	return nil
}

func (m *mockTimetableRepo) GetByID(_ context.Context, orgID, id string) (*model.Timetable, error) {
	if tt, ok := m.timetables[id]; ok && tt.OrganizationID == orgID {
		cp := *tt
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimetableRepo) List(_ context.Context, orgID string) ([]model.Timetable, error) {
	var result []model.Timetable
	for _, tt := range m.timetables {
		if tt.OrganizationID == orgID {
			result = append(result, *tt)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TimetableID < result[j].TimetableID })
	return result, nil
}

func (m *mockTimetableRepo) ListByGroups(ctx context.Context, orgID string, groupIDs []string) ([]model.Timetable, error) {
	all, _ := m.List(ctx, orgID)
	var result []model.Timetable
	for _, tt := range all {
		for _, gid := range groupIDs {
			if tt.AssignedGroups.Contains(gid) {
				result = append(result, tt)
				break
			}
		}
	}
	return result, nil
}

func (m *mockTimetableRepo) Update(_ context.Context, tt *model.Timetable) error {
	stored, ok := m.timetables[tt.TimetableID]
	if !ok || stored.Version != tt.Version {
		return pkgerrors.ErrOptimisticLock
	}
	tt.Version++
	cp := *tt
	m.timetables[tt.TimetableID] = &cp
	return nil
}

func (m *mockTimetableRepo) Delete(_ context.Context, orgID, id, _ string) error {
	if tt, ok := m.timetables[id]; ok && tt.OrganizationID == orgID {
		delete(m.timetables, id)
		return nil
	}
	return gorm.ErrRecordNotFound
}

// ── aggregate ──

type mockRepos struct {
	users      *mockUserRepo
	groups     *mockGroupRepo
	subjects   *mockCatalogRepo[model.Subject]
	labs       *mockCatalogRepo[model.Lab]
	batches    *mockCatalogRepo[model.Batch]
	rooms      *mockCatalogRepo[model.Room]
	timetables *mockTimetableRepo
}

func newMockRepos() (*repository.Repository, *mockRepos) {
	m := &mockRepos{
		users:  newMockUserRepo(),
		groups: newMockGroupRepo(),
		subjects: newMockCatalogRepo(
			func(s *model.Subject) *string { return &s.SubjectID },
			func(s *model.Subject) string { return s.OrganizationID }),
		labs: newMockCatalogRepo(
			func(l *model.Lab) *string { return &l.LabID },
			func(l *model.Lab) string { return l.OrganizationID }),
		batches: newMockCatalogRepo(
			func(b *model.Batch) *string { return &b.BatchID },
			func(b *model.Batch) string { return b.OrganizationID }),
		rooms: newMockCatalogRepo(
			func(r *model.Room) *string { return &r.RoomID },
			func(r *model.Room) string { return r.OrganizationID }),
		timetables: newMockTimetableRepo(),
	}
	repo := &repository.Repository{
		User:      m.users,
		Group:     m.groups,
		Subject:   m.subjects,
		Lab:       m.labs,
		Batch:     m.batches,
		Room:      m.rooms,
		Timetable: m.timetables,
	}
	return repo, m
}
