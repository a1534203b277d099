package services

import (
	"context"

	"github.com/franciscosanchezn/gin-sqladmin-demo/internal/models"
	"gorm.io/gorm"
)

type SiteService interface {
	ListSites(ctx context.Context) ([]models.Site, error)
	GetSiteByID(ctx context.Context, id uint) (*models.Site, error)
}

type siteService struct {
	db *gorm.DB
}

func NewSiteService(db *gorm.DB) SiteService {
	return &siteService{db: db}
}

func (s *siteService) ListSites(ctx context.Context) ([]models.Site, error) {
	var sites []models.Site
	if err := s.db.WithContext(ctx).Order("id").Find(&sites).Error; err != nil {
		return nil, err
	}
	return sites, nil
}

func (s *siteService) GetSiteByID(ctx context.Context, id uint) (*models.Site, error) {
	var site models.Site
	if err := s.db.WithContext(ctx).Preload("Users").First(&site, id).Error; err != nil {
		return nil, err
	}
	return &site, nil
}
