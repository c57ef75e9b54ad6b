package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"

	"skirent-backend/internal/domain"
	"skirent-backend/internal/logger"
	"skirent-backend/internal/repository"
	"skirent-backend/internal/storage"
)

type materialService struct {
	materialRepo repository.MaterialRepository
	categoryRepo repository.CategoryRepository
	images       storage.ImageStore
	validate     *validator.Validate
	allowedTypes map[string]bool
}

func NewMaterialService(materialRepo repository.MaterialRepository, categoryRepo repository.CategoryRepository, images storage.ImageStore, allowedTypes []string) MaterialService {
	allowed := make(map[string]bool, len(allowedTypes))
	for _, t := range allowedTypes {
		allowed[strings.ToLower(t)] = true
	}
	return &materialService{
		materialRepo: materialRepo,
		categoryRepo: categoryRepo,
		images:       images,
		validate:     validator.New(),
		allowedTypes: allowed,
	}
}

func (s *materialService) ListMaterials(ctx context.Context, includeInactive bool) ([]domain.Material, error) {
	if includeInactive {
		return s.materialRepo.List(ctx)
	}
	return s.materialRepo.ListActive(ctx)
}

func (s *materialService) GetMaterial(ctx context.Context, id int32) (*domain.Material, error) {
	return s.materialRepo.GetByID(ctx, id)
}

func (s *materialService) CreateMaterial(ctx context.Context, actor domain.Actor, m *domain.Material) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	m.Name = strings.TrimSpace(m.Name)
	if err := s.validate.Struct(m); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalid, err)
	}
	return s.materialRepo.Create(ctx, m)
}

func (s *materialService) UpdateMaterial(ctx context.Context, actor domain.Actor, id int32, patch domain.MaterialPatch) (*domain.Material, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := s.validate.Struct(patch); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalid, err)
	}

	m, err := s.materialRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(m)
	if err := s.materialRepo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// DeleteMaterial removes the material and, best effort, its stored image.
func (s *materialService) DeleteMaterial(ctx context.Context, actor domain.Actor, id int32) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	m, err := s.materialRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.materialRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.removeImage(ctx, m.ImageURL)
	return nil
}

// UploadImage stores a new image and points the material at its public URL.
// The previous image is removed once the material has been updated.
func (s *materialService) UploadImage(ctx context.Context, actor domain.Actor, id int32, contentType string, r io.Reader) (*domain.Material, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if !s.allowedTypes[contentType] {
		return nil, fmt.Errorf("%w: unsupported image type %q", domain.ErrInvalid, contentType)
	}

	m, err := s.materialRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := storage.NewImageKey(id, contentType)
	url, err := s.images.Save(ctx, key, r)
	if err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	previous := m.ImageURL
	m.ImageURL = url
	if err := s.materialRepo.Update(ctx, m); err != nil {
		s.removeImage(ctx, url)
		return nil, err
	}
	s.removeImage(ctx, previous)

	logger.Info("material image uploaded", "materialID", id, "key", key)
	return m, nil
}

func (s *materialService) removeImage(ctx context.Context, url string) {
	if url == "" {
		return
	}
	key, ok := s.images.KeyFromURL(url)
	if !ok {
		return
	}
	if err := s.images.Delete(ctx, key); err != nil {
		logger.Warn("failed to delete material image", "key", key, "error", err)
	}
}

func (s *materialService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categoryRepo.List(ctx)
}
