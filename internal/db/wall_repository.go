package db

import (
	"github.com/greifwand/systemboard/internal/models"
	"gorm.io/gorm"
)

type WallRepository struct {
	database *gorm.DB
}

func NewWallRepository(database *gorm.DB) *WallRepository {
	return &WallRepository{database: database}
}

// CurrentWallID returns the highest wall id; zero means no wall exists yet.
func (repo *WallRepository) CurrentWallID() (uint, error) {
	var id *uint
	if err := repo.database.Model(&models.Wall{}).Select("MAX(id)").Scan(&id).Error; err != nil {
		return 0, err
	}
	if id == nil {
		return 0, nil
	}
	return *id, nil
}

func (repo *WallRepository) FindByID(wallID uint) (models.Wall, error) {
	var wall models.Wall
	if err := repo.database.First(&wall, wallID).Error; err != nil {
		return models.Wall{}, err
	}
	return wall, nil
}

func (repo *WallRepository) SegmentsByWall(wallID uint) ([]models.WallSegment, error) {
	segments := make([]models.WallSegment, 0)
	if err := repo.database.Where("wall_id = ?", wallID).Order("id").Find(&segments).Error; err != nil {
		return nil, err
	}
	return segments, nil
}

func (repo *WallRepository) FindSegmentByFilename(filename string) (models.WallSegment, error) {
	var segment models.WallSegment
	if err := repo.database.Where("filename = ?", filename).First(&segment).Error; err != nil {
		return models.WallSegment{}, err
	}
	return segment, nil
}

func (repo *WallRepository) HoldsBySegment(segmentID uint) ([]models.Hold, error) {
	holds := make([]models.Hold, 0)
	if err := repo.database.Where("wall_segment_id = ?", segmentID).Order("id").Find(&holds).Error; err != nil {
		return nil, err
	}
	return holds, nil
}

func (repo *WallRepository) FindHold(holdID uint) (models.Hold, error) {
	var hold models.Hold
	if err := repo.database.First(&hold, holdID).Error; err != nil {
		return models.Hold{}, err
	}
	return hold, nil
}

func (repo *WallRepository) CreateHold(hold *models.Hold) error {
	return repo.database.Create(hold).Error
}

func (repo *WallRepository) SaveHold(hold *models.Hold) error {
	return repo.database.Save(hold).Error
}

func (repo *WallRepository) DeleteHold(holdID uint) error {
	return repo.database.Delete(&models.Hold{}, holdID).Error
}
