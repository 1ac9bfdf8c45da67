package db

import (
	"strings"

	"github.com/greifwand/systemboard/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BoulderRepository struct {
	database *gorm.DB
}

func NewBoulderRepository(database *gorm.DB) *BoulderRepository {
	return &BoulderRepository{database: database}
}

// SearchFilters carries the optional search constraints; zero values mean
// "no constraint". ActorID of zero marks an unauthenticated caller, for
// which ExcludeClimbed is ignored and the climbed flag is always false.
type SearchFilters struct {
	Name           string
	CreatorName    string
	CreatorID      uint
	MinGrade       *float64
	MaxGrade       *float64
	MinRating      *float64
	MaxRating      *float64
	ExcludeClimbed bool
	ActorID        uint
}

type SearchRow struct {
	ID          uint     `gorm:"column:id"`
	Name        string   `gorm:"column:name"`
	Description string   `gorm:"column:description"`
	CreatorID   uint     `gorm:"column:creator_id"`
	CreatorName string   `gorm:"column:creator_name"`
	Grade       *float64 `gorm:"column:grade"`
	Stars       *float64 `gorm:"column:stars"`
	Ascents     int      `gorm:"column:ascents"`
	Climbed     bool     `gorm:"column:climbed"`
}

type BoulderHoldRow struct {
	HoldID    uint `gorm:"column:hold_id"`
	Type      int  `gorm:"column:type"`
	SegmentID uint `gorm:"column:segment_id"`
}

func (repo *BoulderRepository) FindByID(boulderID uint) (models.Boulder, error) {
	var boulder models.Boulder
	if err := repo.database.First(&boulder, boulderID).Error; err != nil {
		return models.Boulder{}, err
	}
	return boulder, nil
}

func (repo *BoulderRepository) CreateWithHolds(boulder *models.Boulder, holds []models.BoulderHold) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(boulder).Error; err != nil {
			return err
		}
		for index := range holds {
			holds[index].BoulderID = boulder.ID
		}
		if len(holds) > 0 {
			if err := tx.Create(&holds).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (repo *BoulderRepository) ReplaceHolds(boulderID uint, holds []models.BoulderHold) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.BoulderHold{}, "boulder_id = ?", boulderID).Error; err != nil {
			return err
		}
		for index := range holds {
			holds[index].BoulderID = boulderID
		}
		if len(holds) > 0 {
			if err := tx.Create(&holds).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (repo *BoulderRepository) UpdateMeta(boulderID uint, updates map[string]any) error {
	return repo.database.Model(&models.Boulder{}).Where("id = ?", boulderID).Updates(updates).Error
}

func (repo *BoulderRepository) DeleteWithRelations(boulderID uint) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.BoulderHold{}, "boulder_id = ?", boulderID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Climb{}, "boulder_id = ?", boulderID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.GradeVote{}, "boulder_id = ?", boulderID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.RatingVote{}, "boulder_id = ?", boulderID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.DailyBoulder{}, "boulder_id = ?", boulderID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Boulder{}, boulderID).Error
	})
}

func (repo *BoulderRepository) HoldsFor(boulderID uint) ([]BoulderHoldRow, error) {
	rows := make([]BoulderHoldRow, 0)
	err := repo.database.Raw(`
SELECT bh.hold_id AS hold_id, bh.type AS type, h.wall_segment_id AS segment_id
FROM boulder_holds bh
JOIN holds h ON h.id = bh.hold_id
WHERE bh.boulder_id = ?
ORDER BY bh.hold_id`, boulderID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (repo *BoulderRepository) AscentCount(boulderID uint) (int, error) {
	var counts []int
	err := repo.database.Raw(`SELECT count FROM ascent_counts WHERE boulder_id = ?`, boulderID).
		Scan(&counts).Error
	if err != nil {
		return 0, err
	}
	if len(counts) == 0 {
		return 0, nil
	}
	return counts[0], nil
}

func (repo *BoulderRepository) ClimbedBy(userID uint, boulderID uint) (bool, error) {
	var matched int64
	err := repo.database.Model(&models.Climb{}).
		Where("user_id = ? AND boulder_id = ?", userID, boulderID).
		Count(&matched).Error
	if err != nil {
		return false, err
	}
	return matched > 0, nil
}

// AverageGrade returns nil when the boulder has no grade submissions.
func (repo *BoulderRepository) AverageGrade(boulderID uint) (*float64, error) {
	var grades []float64
	err := repo.database.Raw(`SELECT grade FROM grade_averages WHERE boulder_id = ?`, boulderID).
		Scan(&grades).Error
	if err != nil {
		return nil, err
	}
	if len(grades) == 0 {
		return nil, nil
	}
	return &grades[0], nil
}

func (repo *BoulderRepository) AverageRating(boulderID uint) (*float64, error) {
	var ratings []float64
	err := repo.database.Raw(`SELECT stars FROM rating_averages WHERE boulder_id = ?`, boulderID).
		Scan(&ratings).Error
	if err != nil {
		return nil, err
	}
	if len(ratings) == 0 {
		return nil, nil
	}
	return &ratings[0], nil
}

func (repo *BoulderRepository) MarkClimbed(userID uint, boulderID uint) error {
	return repo.database.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Climb{UserID: userID, BoulderID: boulderID}).Error
}

func (repo *BoulderRepository) UnmarkClimbed(userID uint, boulderID uint) error {
	return repo.database.Delete(&models.Climb{}, "user_id = ? AND boulder_id = ?", userID, boulderID).Error
}

func (repo *BoulderRepository) UpsertGrade(boulderID uint, userID uint, grade int) error {
	return repo.database.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "boulder_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"grade"}),
	}).Create(&models.GradeVote{BoulderID: boulderID, UserID: userID, Grade: grade}).Error
}

func (repo *BoulderRepository) UpsertRating(boulderID uint, userID uint, stars int) error {
	return repo.database.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "boulder_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"stars"}),
	}).Create(&models.RatingVote{BoulderID: boulderID, UserID: userID, Stars: stars}).Error
}

// Search runs a single bounded query over the given wall. Aggregate grade
// and rating come from the average views in the same round trip.
func (repo *BoulderRepository) Search(filters SearchFilters, wallID uint, limit int) ([]SearchRow, error) {
	query := repo.database.Table("boulders AS b").
		Joins("LEFT JOIN users u ON u.id = b.user_id").
		Joins("LEFT JOIN grade_averages ga ON ga.boulder_id = b.id").
		Joins("LEFT JOIN rating_averages ra ON ra.boulder_id = b.id").
		Joins("LEFT JOIN ascent_counts ac ON ac.boulder_id = b.id").
		Joins("JOIN boulder_segments bs ON bs.boulder_id = b.id").
		Joins("JOIN wall_segments ws ON ws.id = bs.segment_id").
		Where("ws.wall_id = ?", wallID)

	if filters.ActorID != 0 {
		query = query.Select(`DISTINCT b.id AS id, b.name AS name, b.description AS description,
b.user_id AS creator_id, u.name AS creator_name, ga.grade AS grade, ra.stars AS stars,
IFNULL(ac.count, 0) AS ascents,
EXISTS(SELECT 1 FROM climbs c WHERE c.user_id = ? AND c.boulder_id = b.id) AS climbed`,
			filters.ActorID)
	} else {
		query = query.Select(`DISTINCT b.id AS id, b.name AS name, b.description AS description,
b.user_id AS creator_id, u.name AS creator_name, ga.grade AS grade, ra.stars AS stars,
IFNULL(ac.count, 0) AS ascents,
0 AS climbed`)
	}

	if filters.Name != "" {
		query = query.Where(`b.name LIKE ? ESCAPE '\'`, likeContains(filters.Name))
	}
	if filters.CreatorName != "" {
		query = query.Where(`u.name LIKE ? ESCAPE '\'`, likeContains(filters.CreatorName))
	}
	if filters.CreatorID != 0 {
		query = query.Where("b.user_id = ?", filters.CreatorID)
	}
	if filters.MinGrade != nil {
		query = query.Where("ga.grade >= ?", *filters.MinGrade)
	}
	if filters.MaxGrade != nil {
		query = query.Where("ga.grade <= ?", *filters.MaxGrade)
	}
	if filters.MinRating != nil {
		query = query.Where("ra.stars >= ?", *filters.MinRating)
	}
	if filters.MaxRating != nil {
		query = query.Where("ra.stars <= ?", *filters.MaxRating)
	}
	if filters.ExcludeClimbed && filters.ActorID != 0 {
		query = query.Where(
			"NOT EXISTS(SELECT 1 FROM climbs c WHERE c.user_id = ? AND c.boulder_id = b.id)",
			filters.ActorID)
	}

	rows := make([]SearchRow, 0)
	if err := query.Order("b.id DESC").Limit(limit).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// likeContains wraps user text in LIKE wildcards, escaping any wildcard
// characters in the text itself so they match literally.
func likeContains(term string) string {
	escaper := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + escaper.Replace(term) + "%"
}

// PickDaily inserts today's pick unless one already exists for the date.
// The candidate set is restricted to boulders present on the current wall;
// with no candidates the statement inserts nothing.
func (repo *BoulderRepository) PickDaily(day string) error {
	return repo.database.Exec(`
INSERT OR IGNORE INTO daily_boulders (boulder_id, day)
SELECT b.id, ? FROM boulders b
WHERE EXISTS (SELECT 1 FROM boulder_segments bs
              JOIN wall_segments ws ON ws.id = bs.segment_id
              WHERE bs.boulder_id = b.id
                AND ws.wall_id = (SELECT MAX(id) FROM walls))
ORDER BY RANDOM() LIMIT 1`, day).Error
}

// LatestDaily returns the pick recorded for the most recent date, if any.
func (repo *BoulderRepository) LatestDaily() (uint, bool, error) {
	var ids []uint
	err := repo.database.Raw(`
SELECT boulder_id FROM daily_boulders
WHERE day = (SELECT MAX(day) FROM daily_boulders)`).Scan(&ids).Error
	if err != nil {
		return 0, false, err
	}
	if len(ids) == 0 {
		return 0, false, nil
	}
	return ids[0], true, nil
}

// DailyFor returns the pick recorded for one specific date, if any.
func (repo *BoulderRepository) DailyFor(day string) (uint, bool, error) {
	var picks []models.DailyBoulder
	err := repo.database.Where("day = ?", day).Limit(1).Find(&picks).Error
	if err != nil {
		return 0, false, err
	}
	if len(picks) == 0 {
		return 0, false, nil
	}
	return picks[0].BoulderID, true, nil
}
