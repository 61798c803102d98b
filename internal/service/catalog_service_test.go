package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biblioteca-unival/capacitaciones-api/internal/models"
	appErrors "github.com/biblioteca-unival/capacitaciones-api/pkg/errors"
)

type catalogRepoStub struct {
	items      []models.CatalogItem
	references map[string]int
	nextID     int64
}

func (s *catalogRepoStub) List(ctx context.Context) ([]models.CatalogItem, error) {
	return s.items, nil
}

func (s *catalogRepoStub) ListActiveNames(ctx context.Context) ([]string, error) {
	names := []string{}
	for _, item := range s.items {
		if item.Active {
			names = append(names, item.Name)
		}
	}
	return names, nil
}

func (s *catalogRepoStub) FindByID(ctx context.Context, id int64) (*models.CatalogItem, error) {
	for i := range s.items {
		if s.items[i].ID == id {
			return &s.items[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *catalogRepoStub) Create(ctx context.Context, name string) (int64, error) {
	for _, item := range s.items {
		if item.Name == name {
			return 0, &uniqueViolationErr{}
		}
	}
	s.nextID++
	s.items = append(s.items, models.CatalogItem{ID: s.nextID, Name: name, Active: true})
	return s.nextID, nil
}

func (s *catalogRepoStub) Toggle(ctx context.Context, id int64, now time.Time) (int64, error) {
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Active = !s.items[i].Active
			s.items[i].UpdatedAt = now
			return 1, nil
		}
	}
	return 0, nil
}

func (s *catalogRepoStub) CountReferences(ctx context.Context, name string) (int, error) {
	return s.references[name], nil
}

func (s *catalogRepoStub) Delete(ctx context.Context, id int64) (int64, error) {
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func TestCatalogDeleteBlockedWhileReferenced(t *testing.T) {
	repo := &catalogRepoStub{
		items:      []models.CatalogItem{{ID: 1, Name: "Ingeniería", Active: true}},
		references: map[string]int{"Ingeniería": 12},
	}
	svc := NewCatalogService(repo, "el programa", nil, nil)

	err := svc.Delete(context.Background(), 1)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrCatalogInUse.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "12")

	// Still present.
	items, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCatalogDeleteUnreferenced(t *testing.T) {
	repo := &catalogRepoStub{items: []models.CatalogItem{{ID: 1, Name: "Virtual", Active: true}}}
	svc := NewCatalogService(repo, "la modalidad", nil, nil)

	require.NoError(t, svc.Delete(context.Background(), 1))
	items, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCatalogToggleHidesFromActiveOptions(t *testing.T) {
	repo := &catalogRepoStub{items: []models.CatalogItem{
		{ID: 1, Name: "Derecho", Active: true},
		{ID: 2, Name: "Ingeniería", Active: true},
	}}
	svc := NewCatalogService(repo, "el programa", nil, nil)

	item, err := svc.Toggle(context.Background(), 2)
	require.NoError(t, err)
	assert.False(t, item.Active)

	options, err := svc.ActiveOptions(context.Background())
	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.Equal(t, "Derecho", options[0].Value)
}

func TestCatalogToggleMissing(t *testing.T) {
	svc := NewCatalogService(&catalogRepoStub{}, "el programa", nil, nil)

	_, err := svc.Toggle(context.Background(), 99)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestCatalogCreateDuplicateName(t *testing.T) {
	repo := &catalogRepoStub{}
	svc := NewCatalogService(repo, "el programa", nil, nil)

	_, err := svc.Create(context.Background(), models.CreateCatalogItemRequest{Name: "Derecho"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), models.CreateCatalogItemRequest{Name: "Derecho"})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}
