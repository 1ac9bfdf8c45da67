package services

import (
	"errors"

	"github.com/greifwand/systemboard/internal/models"
)

var ErrInvalidHoldTag = errors.New("unknown hold tag")

type WallStore interface {
	CurrentWallID() (uint, error)
	FindByID(wallID uint) (models.Wall, error)
	SegmentsByWall(wallID uint) ([]models.WallSegment, error)
	FindSegmentByFilename(filename string) (models.WallSegment, error)
	HoldsBySegment(segmentID uint) ([]models.Hold, error)
	FindHold(holdID uint) (models.Hold, error)
	CreateHold(hold *models.Hold) error
	SaveHold(hold *models.Hold) error
	DeleteHold(holdID uint) error
}

// SegmentHolds lists the holds rendered on top of one segment image.
type SegmentHolds struct {
	Filename string
	Holds    []models.Hold
}

type WallService struct {
	walls WallStore
}

func NewWallService(walls WallStore) *WallService {
	return &WallService{walls: walls}
}

// Wall loads a wall with its segment list; wallID zero selects the current
// wall.
func (service *WallService) Wall(wallID uint) (models.Wall, []models.WallSegment, error) {
	if wallID == 0 {
		currentID, err := service.walls.CurrentWallID()
		if err != nil {
			return models.Wall{}, nil, err
		}
		wallID = currentID
	}

	wall, err := service.walls.FindByID(wallID)
	if err != nil {
		if isRecordNotFound(err) {
			return models.Wall{}, nil, ErrNotFound
		}
		return models.Wall{}, nil, err
	}

	segments, err := service.walls.SegmentsByWall(wallID)
	if err != nil {
		return models.Wall{}, nil, err
	}
	return wall, segments, nil
}

func (service *WallService) HoldsByWall(wallID uint) ([]SegmentHolds, error) {
	if _, err := service.walls.FindByID(wallID); err != nil {
		if isRecordNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	segments, err := service.walls.SegmentsByWall(wallID)
	if err != nil {
		return nil, err
	}

	listings := make([]SegmentHolds, 0, len(segments))
	for _, segment := range segments {
		holds, err := service.walls.HoldsBySegment(segment.ID)
		if err != nil {
			return nil, err
		}
		listings = append(listings, SegmentHolds{Filename: segment.Filename, Holds: holds})
	}
	return listings, nil
}

func (service *WallService) Hold(holdID uint) (models.Hold, error) {
	hold, err := service.walls.FindHold(holdID)
	if err != nil {
		if isRecordNotFound(err) {
			return models.Hold{}, ErrNotFound
		}
		return models.Hold{}, err
	}
	return hold, nil
}

// CreateHold places a new hold on the segment addressed by its image
// filename, the identifier the editor frontend works with.
func (service *WallService) CreateHold(segmentFilename string, tag string, attr string) (models.Hold, error) {
	if !models.ValidHoldTag(tag) {
		return models.Hold{}, ErrInvalidHoldTag
	}

	segment, err := service.walls.FindSegmentByFilename(segmentFilename)
	if err != nil {
		if isRecordNotFound(err) {
			return models.Hold{}, ErrInvalidInput
		}
		return models.Hold{}, err
	}

	hold := models.Hold{WallSegmentID: segment.ID, Tag: tag, Attr: attr}
	if err := service.walls.CreateHold(&hold); err != nil {
		return models.Hold{}, err
	}
	return hold, nil
}

func (service *WallService) UpdateHold(holdID uint, tag string, attr string) error {
	if !models.ValidHoldTag(tag) {
		return ErrInvalidHoldTag
	}

	hold, err := service.walls.FindHold(holdID)
	if err != nil {
		if isRecordNotFound(err) {
			return ErrNotFound
		}
		return err
	}

	hold.Tag = tag
	hold.Attr = attr
	return service.walls.SaveHold(&hold)
}

func (service *WallService) DeleteHold(holdID uint) error {
	if _, err := service.walls.FindHold(holdID); err != nil {
		if isRecordNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	return service.walls.DeleteHold(holdID)
}
