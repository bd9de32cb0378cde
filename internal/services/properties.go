package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/beesaferoot/myleasing/internal/logger"
	"github.com/beesaferoot/myleasing/internal/models"
	"github.com/beesaferoot/myleasing/internal/storage"
)

// PropertyInput carries the editable fields of a property.
type PropertyInput struct {
	OwnerID        uint
	PropertyTypeID uint
	Neighborhood   string
	Address        string
	Price          float64
	SquareMeters   int
	Rooms          int
	Stratum        int
	HasParkingLot  bool
	IsAvailable    bool
	Remarks        string
}

type PropertyService struct {
	db     *gorm.DB
	images storage.ImageStore
}

func NewPropertyService(db *gorm.DB, images storage.ImageStore) *PropertyService {
	return &PropertyService{db: db, images: images}
}

func (s *PropertyService) Get(ctx context.Context, id uint) (*models.Property, error) {
	var property models.Property
	err := s.db.WithContext(ctx).
		Preload("Owner.User").
		Preload("PropertyType").
		Preload("PropertyImages", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Contracts", func(db *gorm.DB) *gorm.DB { return db.Order("start_date DESC") }).
		Preload("Contracts.Lessee.User").
		First(&property, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &property, nil
}

// ListByOwner is used to fill the property combo of the contract forms.
func (s *PropertyService) ListByOwner(ctx context.Context, ownerID uint) ([]models.Property, error) {
	var properties []models.Property
	err := s.db.WithContext(ctx).Preload("PropertyType").Where("owner_id = ?", ownerID).Order("address").Find(&properties).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	return properties, nil
}

func (s *PropertyService) List(ctx context.Context) ([]models.Property, error) {
	var properties []models.Property
	err := s.db.WithContext(ctx).Preload("Owner.User").Preload("PropertyType").Order("id").Find(&properties).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	return properties, nil
}

func validateProperty(tx *gorm.DB, in PropertyInput) error {
	if in.Price < 0 || in.SquareMeters < 0 || in.Rooms < 0 || in.Stratum < 0 {
		return fmt.Errorf("%w: numbers must not be negative", ErrInvalidInput)
	}
	exists, err := rowExists(tx, &models.PropertyType{}, in.PropertyTypeID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: property type %d", ErrInvalidReference, in.PropertyTypeID)
	}
	return nil
}

// Create adds a property to an existing owner. A missing owner is
// ErrNotFound, a missing property type ErrInvalidReference.
func (s *PropertyService) Create(ctx context.Context, in PropertyInput) (*models.Property, error) {
	property := models.Property{
		OwnerID:        in.OwnerID,
		PropertyTypeID: in.PropertyTypeID,
		Neighborhood:   strings.TrimSpace(in.Neighborhood),
		Address:        strings.TrimSpace(in.Address),
		Price:          in.Price,
		SquareMeters:   in.SquareMeters,
		Rooms:          in.Rooms,
		Stratum:        in.Stratum,
		HasParkingLot:  in.HasParkingLot,
		IsAvailable:    in.IsAvailable,
		Remarks:        strings.TrimSpace(in.Remarks),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := rowExists(tx, &models.Owner{}, in.OwnerID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		if err := validateProperty(tx, in); err != nil {
			return err
		}
		return tx.Create(&property).Error
	})
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("Property created", logger.Fields{"property_id": property.ID, "owner_id": property.OwnerID})
	return &property, nil
}

// Update rewrites every editable field. The owner of a property never changes.
func (s *PropertyService) Update(ctx context.Context, id uint, in PropertyInput) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := validateProperty(tx, in); err != nil {
			return err
		}
		res := tx.Model(&models.Property{}).Where("id = ?", id).Updates(map[string]interface{}{
			"property_type_id": in.PropertyTypeID,
			"neighborhood":     strings.TrimSpace(in.Neighborhood),
			"address":          strings.TrimSpace(in.Address),
			"price":            in.Price,
			"square_meters":    in.SquareMeters,
			"rooms":            in.Rooms,
			"stratum":          in.Stratum,
			"has_parking_lot":  in.HasParkingLot,
			"is_available":     in.IsAvailable,
			"remarks":          strings.TrimSpace(in.Remarks),
		})
		return checkUpdated(tx, res, &models.Property{}, id)
	})
}

// Delete removes a property without contracts, its image rows and then the
// image files. It returns the owner id of the deleted property.
func (s *PropertyService) Delete(ctx context.Context, id uint) (uint, error) {
	var (
		ownerID uint
		fileIDs []string
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var property models.Property
		if err := tx.First(&property, id).Error; err != nil {
			return notFound(err)
		}
		ownerID = property.OwnerID

		n, err := countWhere(tx, &models.Contract{}, "property_id", id)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrHasDependents
		}

		if err := tx.Model(&models.PropertyImage{}).Where("property_id = ?", id).Pluck("file_id", &fileIDs).Error; err != nil {
			return err
		}
		if err := tx.Where("property_id = ?", id).Delete(&models.PropertyImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Property{}, id).Error
	})
	if err != nil {
		return 0, err
	}

	s.removeFiles(ctx, fileIDs)
	return ownerID, nil
}

func (s *PropertyService) removeFiles(ctx context.Context, fileIDs []string) {
	log := logger.FromContext(ctx)
	for _, fileID := range fileIDs {
		if err := s.images.Delete(ctx, fileID); err != nil && !errors.Is(err, storage.ErrImageNotFound) {
			log.Warn("Failed to delete image file", logger.Fields{"file_id": fileID, "error": err.Error()})
		}
	}
}

// ImageFileName turns an uploaded file name into a stable, URL-safe one.
func ImageFileName(propertyID uint, original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	base := slug.Make(strings.TrimSuffix(filepath.Base(original), filepath.Ext(original)))
	if base == "" {
		base = "image"
	}
	return fmt.Sprintf("property-%d-%s%s", propertyID, base, ext)
}

// imageTypes are the content types accepted for uploads and served inline.
var imageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// IsImageType reports whether contentType is one of the accepted raster formats.
func IsImageType(contentType string) bool {
	return slices.Contains(imageTypes, contentType)
}

// sniffImage detects the content type from the leading bytes and returns a
// reader that still yields the whole file.
func sniffImage(r io.Reader) (string, io.Reader, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", nil, fmt.Errorf("failed to read upload: %w", err)
	}
	head = head[:n]
	return http.DetectContentType(head), io.MultiReader(bytes.NewReader(head), r), nil
}

// AddImage stores the file and links it to the property. The content type is
// detected from the file itself; the client's declared type is ignored.
func (s *PropertyService) AddImage(ctx context.Context, propertyID uint, original string, r io.Reader) (*models.PropertyImage, error) {
	exists, err := rowExists(s.db.WithContext(ctx), &models.Property{}, propertyID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}
	contentType, r, err := sniffImage(r)
	if err != nil {
		return nil, err
	}
	if !IsImageType(contentType) {
		return nil, fmt.Errorf("%w: only image files can be uploaded, got %s", ErrInvalidInput, contentType)
	}

	name := ImageFileName(propertyID, original)
	fileID, err := s.images.Upload(ctx, name, contentType, r)
	if err != nil {
		return nil, err
	}

	image := models.PropertyImage{PropertyID: propertyID, FileID: fileID, FileName: name}
	if err := s.db.WithContext(ctx).Create(&image).Error; err != nil {
		s.removeFiles(ctx, []string{fileID})
		return nil, fmt.Errorf("failed to save image: %w", err)
	}
	logger.FromContext(ctx).Info("Property image added", logger.Fields{"property_id": propertyID, "file_id": fileID})
	return &image, nil
}

// DeleteImage removes an image and returns the id of its property.
func (s *PropertyService) DeleteImage(ctx context.Context, imageID uint) (uint, error) {
	var image models.PropertyImage
	if err := s.db.WithContext(ctx).First(&image, imageID).Error; err != nil {
		return 0, notFound(err)
	}
	if err := s.db.WithContext(ctx).Delete(&models.PropertyImage{}, image.ID).Error; err != nil {
		return 0, fmt.Errorf("failed to delete image: %w", err)
	}
	s.removeFiles(ctx, []string{image.FileID})
	return image.PropertyID, nil
}

// OpenImage streams an image file that belongs to a property.
func (s *PropertyService) OpenImage(ctx context.Context, fileID string) (io.ReadCloser, *storage.ImageInfo, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.PropertyImage{}).Where("file_id = ?", fileID).Count(&count).Error; err != nil {
		return nil, nil, err
	}
	if count == 0 {
		return nil, nil, ErrNotFound
	}
	rc, info, err := s.images.Open(ctx, fileID)
	if errors.Is(err, storage.ErrImageNotFound) {
		return nil, nil, ErrNotFound
	}
	return rc, info, err
}
