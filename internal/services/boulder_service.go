package services

import (
	"errors"
	"strings"
	"time"

	"github.com/greifwand/systemboard/internal/db"
	"github.com/greifwand/systemboard/internal/models"
)

var (
	ErrNotOwner     = errors.New("actor does not own this boulder")
	ErrInvalidInput = errors.New("invalid input")
)

type BoulderStore interface {
	FindByID(boulderID uint) (models.Boulder, error)
	CreateWithHolds(boulder *models.Boulder, holds []models.BoulderHold) error
	ReplaceHolds(boulderID uint, holds []models.BoulderHold) error
	UpdateMeta(boulderID uint, updates map[string]any) error
	DeleteWithRelations(boulderID uint) error
	HoldsFor(boulderID uint) ([]db.BoulderHoldRow, error)
	AscentCount(boulderID uint) (int, error)
	ClimbedBy(userID uint, boulderID uint) (bool, error)
	AverageGrade(boulderID uint) (*float64, error)
	AverageRating(boulderID uint) (*float64, error)
	MarkClimbed(userID uint, boulderID uint) error
	UnmarkClimbed(userID uint, boulderID uint) error
	UpsertGrade(boulderID uint, userID uint, grade int) error
	UpsertRating(boulderID uint, userID uint, stars int) error
	Search(filters db.SearchFilters, wallID uint, limit int) ([]db.SearchRow, error)
	PickDaily(day string) error
	LatestDaily() (uint, bool, error)
	DailyFor(day string) (uint, bool, error)
}

type BoulderUserStore interface {
	FindByID(userID uint) (models.User, error)
}

type BoulderWallStore interface {
	CurrentWallID() (uint, error)
}

type Creator struct {
	ID   uint
	Name string
}

// Location describes where a boulder sits on the physical installation:
// the lowest and highest sub-wall its holds touch and the sub-wall holding
// most of its special holds.
type Location struct {
	Min  int
	Max  int
	Main int
}

type HoldRef struct {
	ID   uint
	Type int
}

type BoulderSummary struct {
	ID          uint
	Name        string
	Description string
	Ascents     int
	Climbed     bool
	Botd        bool
	Creator     Creator
	Grade       *float64
	Rating      *float64
	Location    *Location
	Holds       []HoldRef
}

// HoldPlacement is one hold reference in a create/update request.
type HoldPlacement struct {
	ID   uint
	Type int
}

type SearchQuery struct {
	Name           string
	CreatorName    string
	CreatorID      uint
	MinGrade       *float64
	MaxGrade       *float64
	MinRating      *float64
	MaxRating      *float64
	ExcludeClimbed bool
}

type BoulderService struct {
	boulders        BoulderStore
	users           BoulderUserStore
	walls           BoulderWallStore
	segmentsPerWall int
	searchLimit     int
	now             func() time.Time
}

func NewBoulderService(boulders BoulderStore, users BoulderUserStore, walls BoulderWallStore, segmentsPerWall int, searchLimit int) *BoulderService {
	return &BoulderService{
		boulders:        boulders,
		users:           users,
		walls:           walls,
		segmentsPerWall: segmentsPerWall,
		searchLimit:     searchLimit,
		now:             time.Now,
	}
}

func (service *BoulderService) today() string {
	return service.now().Format("2006-01-02")
}

// Summary builds the full read model for one boulder. The climbed flag is
// the real per-account existence check; unauthenticated actors always see
// false.
func (service *BoulderService) Summary(boulderID uint, actor *models.User) (BoulderSummary, error) {
	boulder, err := service.boulders.FindByID(boulderID)
	if err != nil {
		if isRecordNotFound(err) {
			return BoulderSummary{}, ErrNotFound
		}
		return BoulderSummary{}, err
	}

	holds, err := service.boulders.HoldsFor(boulderID)
	if err != nil {
		return BoulderSummary{}, err
	}

	ascents, err := service.boulders.AscentCount(boulderID)
	if err != nil {
		return BoulderSummary{}, err
	}

	climbed := false
	if actor != nil {
		if climbed, err = service.boulders.ClimbedBy(actor.ID, boulderID); err != nil {
			return BoulderSummary{}, err
		}
	}

	grade, err := service.boulders.AverageGrade(boulderID)
	if err != nil {
		return BoulderSummary{}, err
	}
	rating, err := service.boulders.AverageRating(boulderID)
	if err != nil {
		return BoulderSummary{}, err
	}

	pickID, picked, err := service.boulders.DailyFor(service.today())
	if err != nil {
		return BoulderSummary{}, err
	}

	creator := Creator{ID: boulder.UserID}
	if owner, err := service.users.FindByID(boulder.UserID); err == nil {
		creator.Name = owner.Name
	} else if !isRecordNotFound(err) {
		return BoulderSummary{}, err
	}

	location := service.computeLocation(holds)
	holdRefs := make([]HoldRef, 0, len(holds))
	for _, hold := range holds {
		holdRefs = append(holdRefs, HoldRef{ID: hold.HoldID, Type: hold.Type})
	}

	return BoulderSummary{
		ID:          boulder.ID,
		Name:        boulder.Name,
		Description: boulder.Description,
		Ascents:     ascents,
		Climbed:     climbed,
		Botd:        picked && pickID == boulder.ID,
		Creator:     creator,
		Grade:       grade,
		Rating:      rating,
		Location:    &location,
		Holds:       holdRefs,
	}, nil
}

// computeLocation folds hold segments into sub-wall indexes. The main
// sub-wall is where most special holds sit; the three-segment rule prefers
// the middle on ties, which matches the gym's physical layout.
func (service *BoulderService) computeLocation(holds []db.BoulderHoldRow) Location {
	location := Location{Min: service.segmentsPerWall - 1, Max: 0}

	specials := make([]int, service.segmentsPerWall)
	for _, hold := range holds {
		index := int(hold.SegmentID) % service.segmentsPerWall
		if hold.Type == models.HoldTypeSpecial {
			specials[index]++
		}
		if index < location.Min {
			location.Min = index
		}
		if index > location.Max {
			location.Max = index
		}
	}

	location.Main = mainSubWall(specials)
	return location
}

func mainSubWall(specials []int) int {
	if len(specials) != 3 {
		mainIndex := 0
		mainAmount := 0
		for index, amount := range specials {
			if amount > mainAmount {
				mainIndex = index
				mainAmount = amount
			}
		}
		return mainIndex
	}

	if specials[1] >= specials[0] && specials[1] >= specials[2] {
		return 1
	}
	if specials[0] >= specials[2] {
		return 0
	}
	return 2
}

// Create stores a boulder and its hold set atomically and returns the full
// summary of the new route.
func (service *BoulderService) Create(actor *models.User, name string, description string, holds []HoldPlacement) (BoulderSummary, error) {
	if strings.TrimSpace(name) == "" || len(holds) == 0 {
		return BoulderSummary{}, ErrInvalidInput
	}

	boulder := models.Boulder{
		Name:        name,
		UserID:      actor.ID,
		Description: description,
		CreatedAt:   service.now(),
	}
	placements := make([]models.BoulderHold, 0, len(holds))
	for _, hold := range holds {
		if hold.Type != models.HoldTypeRegular && hold.Type != models.HoldTypeSpecial {
			return BoulderSummary{}, ErrInvalidInput
		}
		placements = append(placements, models.BoulderHold{HoldID: hold.ID, Type: hold.Type})
	}

	if err := service.boulders.CreateWithHolds(&boulder, placements); err != nil {
		return BoulderSummary{}, err
	}
	return service.Summary(boulder.ID, actor)
}

// Update edits name/description and optionally replaces the hold set; only
// the creator may touch a boulder.
func (service *BoulderService) Update(actor *models.User, boulderID uint, name *string, description *string, holds []HoldPlacement) error {
	boulder, err := service.boulders.FindByID(boulderID)
	if err != nil {
		if isRecordNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	if boulder.UserID != actor.ID {
		return ErrNotOwner
	}

	updates := make(map[string]any, 2)
	if name != nil {
		if strings.TrimSpace(*name) == "" {
			return ErrInvalidInput
		}
		updates["name"] = *name
	}
	if description != nil {
		updates["description"] = *description
	}
	if len(updates) > 0 {
		if err := service.boulders.UpdateMeta(boulderID, updates); err != nil {
			return err
		}
	}

	if holds != nil {
		placements := make([]models.BoulderHold, 0, len(holds))
		for _, hold := range holds {
			if hold.Type != models.HoldTypeRegular && hold.Type != models.HoldTypeSpecial {
				return ErrInvalidInput
			}
			placements = append(placements, models.BoulderHold{HoldID: hold.ID, Type: hold.Type})
		}
		return service.boulders.ReplaceHolds(boulderID, placements)
	}
	return nil
}

func (service *BoulderService) Delete(actor *models.User, boulderID uint) error {
	boulder, err := service.boulders.FindByID(boulderID)
	if err != nil {
		if isRecordNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	if boulder.UserID != actor.ID {
		return ErrNotOwner
	}
	return service.boulders.DeleteWithRelations(boulderID)
}

// SetClimbed marks or unmarks an ascent. Marking is idempotent; the upsert
// primitive absorbs duplicate submissions.
func (service *BoulderService) SetClimbed(actor *models.User, boulderID uint, climbed bool) error {
	if _, err := service.boulders.FindByID(boulderID); err != nil {
		if isRecordNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	if climbed {
		return service.boulders.MarkClimbed(actor.ID, boulderID)
	}
	return service.boulders.UnmarkClimbed(actor.ID, boulderID)
}

func (service *BoulderService) SubmitGrade(actor *models.User, boulderID uint, grade int) error {
	if grade < 1 {
		return ErrInvalidInput
	}
	if _, err := service.boulders.FindByID(boulderID); err != nil {
		if isRecordNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	return service.boulders.UpsertGrade(boulderID, actor.ID, grade)
}

func (service *BoulderService) SubmitRating(actor *models.User, boulderID uint, stars int) error {
	if stars < 1 || stars > 5 {
		return ErrInvalidInput
	}
	if _, err := service.boulders.FindByID(boulderID); err != nil {
		if isRecordNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	return service.boulders.UpsertRating(boulderID, actor.ID, stars)
}

// Search translates the sparse query into one bounded statement scoped to
// the current wall. Guests cannot use the exclude-climbed filter and always
// see climbed as false.
func (service *BoulderService) Search(query SearchQuery, actor *models.User) ([]BoulderSummary, error) {
	wallID, err := service.walls.CurrentWallID()
	if err != nil {
		return nil, err
	}
	if wallID == 0 {
		return []BoulderSummary{}, nil
	}

	filters := db.SearchFilters{
		Name:        query.Name,
		CreatorName: query.CreatorName,
		CreatorID:   query.CreatorID,
		MinGrade:    query.MinGrade,
		MaxGrade:    query.MaxGrade,
		MinRating:   query.MinRating,
		MaxRating:   query.MaxRating,
	}
	if actor != nil {
		filters.ActorID = actor.ID
		filters.ExcludeClimbed = query.ExcludeClimbed
	}

	rows, err := service.boulders.Search(filters, wallID, service.searchLimit)
	if err != nil {
		return nil, err
	}

	pickID, picked, err := service.boulders.DailyFor(service.today())
	if err != nil {
		return nil, err
	}

	summaries := make([]BoulderSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, BoulderSummary{
			ID:          row.ID,
			Name:        row.Name,
			Description: row.Description,
			Ascents:     row.Ascents,
			Climbed:     row.Climbed,
			Botd:        picked && pickID == row.ID,
			Creator:     Creator{ID: row.CreatorID, Name: row.CreatorName},
			Grade:       row.Grade,
			Rating:      row.Stars,
		})
	}
	return summaries, nil
}

// BoulderOfTheDay picks today's boulder if none is recorded yet and returns
// its summary. The insert-if-absent keyed by date makes repeated calls
// within a day converge on one persisted pick.
func (service *BoulderService) BoulderOfTheDay(actor *models.User) (BoulderSummary, error) {
	if err := service.boulders.PickDaily(service.today()); err != nil {
		return BoulderSummary{}, err
	}

	boulderID, found, err := service.boulders.LatestDaily()
	if err != nil {
		return BoulderSummary{}, err
	}
	if !found {
		return BoulderSummary{}, ErrNotFound
	}
	return service.Summary(boulderID, actor)
}
