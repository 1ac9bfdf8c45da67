package services

import (
	"errors"
	"testing"

	"github.com/greifwand/systemboard/internal/db"
	"github.com/greifwand/systemboard/internal/models"
	"gorm.io/gorm"
)

type stubBoulderStore struct {
	boulders    map[uint]models.Boulder
	holds       map[uint][]db.BoulderHoldRow
	climbs      map[[2]uint]bool
	grades      map[uint]*float64
	ratings     map[uint]*float64
	daily       map[string]uint
	searchRows  []db.SearchRow
	lastFilters db.SearchFilters
	lastLimit   int
	searchCalls int
}

func newStubBoulderStore() *stubBoulderStore {
	return &stubBoulderStore{
		boulders: map[uint]models.Boulder{},
		holds:    map[uint][]db.BoulderHoldRow{},
		climbs:   map[[2]uint]bool{},
		grades:   map[uint]*float64{},
		ratings:  map[uint]*float64{},
		daily:    map[string]uint{},
	}
}

func (store *stubBoulderStore) FindByID(boulderID uint) (models.Boulder, error) {
	boulder, ok := store.boulders[boulderID]
	if !ok {
		return models.Boulder{}, gorm.ErrRecordNotFound
	}
	return boulder, nil
}

func (store *stubBoulderStore) CreateWithHolds(boulder *models.Boulder, holds []models.BoulderHold) error {
	boulder.ID = uint(len(store.boulders) + 1)
	store.boulders[boulder.ID] = *boulder
	rows := make([]db.BoulderHoldRow, 0, len(holds))
	for _, hold := range holds {
		rows = append(rows, db.BoulderHoldRow{HoldID: hold.HoldID, Type: hold.Type, SegmentID: hold.HoldID})
	}
	store.holds[boulder.ID] = rows
	return nil
}

func (store *stubBoulderStore) ReplaceHolds(boulderID uint, holds []models.BoulderHold) error {
	rows := make([]db.BoulderHoldRow, 0, len(holds))
	for _, hold := range holds {
		rows = append(rows, db.BoulderHoldRow{HoldID: hold.HoldID, Type: hold.Type, SegmentID: hold.HoldID})
	}
	store.holds[boulderID] = rows
	return nil
}

func (store *stubBoulderStore) UpdateMeta(boulderID uint, updates map[string]any) error {
	boulder := store.boulders[boulderID]
	if name, ok := updates["name"].(string); ok {
		boulder.Name = name
	}
	if description, ok := updates["description"].(string); ok {
		boulder.Description = description
	}
	store.boulders[boulderID] = boulder
	return nil
}

func (store *stubBoulderStore) DeleteWithRelations(boulderID uint) error {
	delete(store.boulders, boulderID)
	delete(store.holds, boulderID)
	return nil
}

func (store *stubBoulderStore) HoldsFor(boulderID uint) ([]db.BoulderHoldRow, error) {
	return store.holds[boulderID], nil
}

func (store *stubBoulderStore) AscentCount(boulderID uint) (int, error) {
	count := 0
	for key := range store.climbs {
		if key[1] == boulderID {
			count++
		}
	}
	return count, nil
}

func (store *stubBoulderStore) ClimbedBy(userID uint, boulderID uint) (bool, error) {
	return store.climbs[[2]uint{userID, boulderID}], nil
}

func (store *stubBoulderStore) AverageGrade(boulderID uint) (*float64, error) {
	return store.grades[boulderID], nil
}

func (store *stubBoulderStore) AverageRating(boulderID uint) (*float64, error) {
	return store.ratings[boulderID], nil
}

func (store *stubBoulderStore) MarkClimbed(userID uint, boulderID uint) error {
	store.climbs[[2]uint{userID, boulderID}] = true
	return nil
}

func (store *stubBoulderStore) UnmarkClimbed(userID uint, boulderID uint) error {
	delete(store.climbs, [2]uint{userID, boulderID})
	return nil
}

func (store *stubBoulderStore) UpsertGrade(boulderID uint, userID uint, grade int) error {
	value := float64(grade)
	store.grades[boulderID] = &value
	return nil
}

func (store *stubBoulderStore) UpsertRating(boulderID uint, userID uint, stars int) error {
	value := float64(stars)
	store.ratings[boulderID] = &value
	return nil
}

func (store *stubBoulderStore) Search(filters db.SearchFilters, wallID uint, limit int) ([]db.SearchRow, error) {
	store.lastFilters = filters
	store.lastLimit = limit
	store.searchCalls++
	return store.searchRows, nil
}

func (store *stubBoulderStore) PickDaily(day string) error {
	if _, picked := store.daily[day]; picked {
		return nil
	}
	for id := range store.boulders {
		store.daily[day] = id
		return nil
	}
	return nil
}

func (store *stubBoulderStore) LatestDaily() (uint, bool, error) {
	latest := ""
	for day := range store.daily {
		if day > latest {
			latest = day
		}
	}
	if latest == "" {
		return 0, false, nil
	}
	return store.daily[latest], true, nil
}

func (store *stubBoulderStore) DailyFor(day string) (uint, bool, error) {
	id, ok := store.daily[day]
	return id, ok, nil
}

type stubBoulderUserStore struct {
	users map[uint]models.User
}

func (store *stubBoulderUserStore) FindByID(userID uint) (models.User, error) {
	user, ok := store.users[userID]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

type stubBoulderWallStore struct {
	currentWall uint
}

func (store *stubBoulderWallStore) CurrentWallID() (uint, error) {
	return store.currentWall, nil
}

func newBoulderServiceForTest(store *stubBoulderStore, users map[uint]models.User, currentWall uint) *BoulderService {
	return NewBoulderService(store, &stubBoulderUserStore{users: users}, &stubBoulderWallStore{currentWall: currentWall}, 3, 18)
}

func TestMainSubWallThreeSegments(t *testing.T) {
	cases := []struct {
		specials []int
		expected int
	}{
		{[]int{0, 0, 0}, 1},
		{[]int{2, 2, 1}, 1},
		{[]int{1, 2, 2}, 1},
		{[]int{3, 1, 1}, 0},
		{[]int{1, 1, 3}, 2},
		{[]int{2, 1, 2}, 0},
	}
	for _, testCase := range cases {
		if got := mainSubWall(testCase.specials); got != testCase.expected {
			t.Errorf("mainSubWall(%v) = %d, want %d", testCase.specials, got, testCase.expected)
		}
	}
}

func TestMainSubWallFallbackArgmax(t *testing.T) {
	cases := []struct {
		specials []int
		expected int
	}{
		{[]int{0, 3, 1, 0}, 1},
		{[]int{0, 0, 0, 0}, 0},
		{[]int{5, 1}, 0},
	}
	for _, testCase := range cases {
		if got := mainSubWall(testCase.specials); got != testCase.expected {
			t.Errorf("mainSubWall(%v) = %d, want %d", testCase.specials, got, testCase.expected)
		}
	}
}

func TestCreateValidation(t *testing.T) {
	service := newBoulderServiceForTest(newStubBoulderStore(), nil, 1)
	actor := &models.User{ID: 1}
	holds := []HoldPlacement{{ID: 10, Type: models.HoldTypeRegular}}

	if _, err := service.Create(actor, "  ", "", holds); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank name accepted: %v", err)
	}
	if _, err := service.Create(actor, "traverse", "", nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty hold set accepted: %v", err)
	}
	badType := []HoldPlacement{{ID: 10, Type: 9}}
	if _, err := service.Create(actor, "traverse", "", badType); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown hold type accepted: %v", err)
	}
}

func TestCreateReturnsSummary(t *testing.T) {
	store := newStubBoulderStore()
	service := newBoulderServiceForTest(store, map[uint]models.User{1: {ID: 1, Name: "mona"}}, 1)
	actor := &models.User{ID: 1, Name: "mona"}

	holds := []HoldPlacement{
		{ID: 1, Type: models.HoldTypeSpecial},
		{ID: 2, Type: models.HoldTypeRegular},
	}
	summary, err := service.Create(actor, "traverse", "long one", holds)
	if err != nil {
		t.Fatalf("create boulder: %v", err)
	}

	if summary.Name != "traverse" || summary.Creator.Name != "mona" {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.Ascents != 0 || summary.Climbed {
		t.Fatalf("fresh boulder should have no ascents: %+v", summary)
	}
	if summary.Grade != nil || summary.Rating != nil {
		t.Fatal("fresh boulder should carry no grade or rating")
	}
	if len(summary.Holds) != 2 {
		t.Fatalf("expected 2 holds, got %d", len(summary.Holds))
	}
	if summary.Location == nil {
		t.Fatal("detail summary should carry a location")
	}
}

func TestUpdateChecksOwnership(t *testing.T) {
	store := newStubBoulderStore()
	store.boulders[5] = models.Boulder{ID: 5, UserID: 1, Name: "theirs"}
	service := newBoulderServiceForTest(store, nil, 1)

	name := "mine now"
	if err := service.Update(&models.User{ID: 2}, 5, &name, nil, nil); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := service.Delete(&models.User{ID: 2}, 5); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner on delete, got %v", err)
	}

	if err := service.Update(&models.User{ID: 1}, 5, &name, nil, nil); err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
	if store.boulders[5].Name != "mine now" {
		t.Fatalf("name not updated: %q", store.boulders[5].Name)
	}
}

func TestSetClimbedUnknownBoulder(t *testing.T) {
	service := newBoulderServiceForTest(newStubBoulderStore(), nil, 1)

	if err := service.SetClimbed(&models.User{ID: 1}, 99, true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSubmitGradeAndRatingBounds(t *testing.T) {
	store := newStubBoulderStore()
	store.boulders[1] = models.Boulder{ID: 1, UserID: 1}
	service := newBoulderServiceForTest(store, nil, 1)
	actor := &models.User{ID: 2}

	if err := service.SubmitGrade(actor, 1, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("grade 0 accepted: %v", err)
	}
	if err := service.SubmitGrade(actor, 1, 14); err != nil {
		t.Fatalf("valid grade rejected: %v", err)
	}
	if err := service.SubmitRating(actor, 1, 6); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("rating 6 accepted: %v", err)
	}
	if err := service.SubmitRating(actor, 1, 5); err != nil {
		t.Fatalf("valid rating rejected: %v", err)
	}
}

func TestSearchGuestForcesFilters(t *testing.T) {
	store := newStubBoulderStore()
	service := newBoulderServiceForTest(store, nil, 1)

	query := SearchQuery{Name: "slab", ExcludeClimbed: true}
	if _, err := service.Search(query, nil); err != nil {
		t.Fatalf("guest search: %v", err)
	}

	if store.lastFilters.ActorID != 0 {
		t.Fatalf("guest search leaked an actor id: %d", store.lastFilters.ActorID)
	}
	if store.lastFilters.ExcludeClimbed {
		t.Fatal("guest search kept the exclude-climbed filter")
	}
	if store.lastLimit != 18 {
		t.Fatalf("expected limit 18, got %d", store.lastLimit)
	}
}

func TestSearchAuthenticatedKeepsFilters(t *testing.T) {
	store := newStubBoulderStore()
	service := newBoulderServiceForTest(store, nil, 1)

	query := SearchQuery{ExcludeClimbed: true}
	if _, err := service.Search(query, &models.User{ID: 4}); err != nil {
		t.Fatalf("search: %v", err)
	}
	if store.lastFilters.ActorID != 4 || !store.lastFilters.ExcludeClimbed {
		t.Fatalf("authenticated filters dropped: %+v", store.lastFilters)
	}
}

func TestSearchWithoutWallsShortCircuits(t *testing.T) {
	store := newStubBoulderStore()
	service := newBoulderServiceForTest(store, nil, 0)

	results, err := service.Search(SearchQuery{}, nil)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Fatalf("expected empty result set, got %v", results)
	}
	if store.searchCalls != 0 {
		t.Fatal("search query ran despite missing wall")
	}
}

func TestBoulderOfTheDayPicksOnce(t *testing.T) {
	store := newStubBoulderStore()
	store.boulders[3] = models.Boulder{ID: 3, UserID: 1, Name: "pick me"}
	service := newBoulderServiceForTest(store, map[uint]models.User{1: {ID: 1, Name: "mona"}}, 1)

	first, err := service.BoulderOfTheDay(nil)
	if err != nil {
		t.Fatalf("boulder of the day: %v", err)
	}
	second, err := service.BoulderOfTheDay(nil)
	if err != nil {
		t.Fatalf("boulder of the day: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("pick changed within the same day: %d then %d", first.ID, second.ID)
	}
	if !first.Botd {
		t.Fatal("pick not flagged as boulder of the day")
	}
}

func TestBoulderOfTheDayEmptyWall(t *testing.T) {
	service := newBoulderServiceForTest(newStubBoulderStore(), nil, 1)

	if _, err := service.BoulderOfTheDay(nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
