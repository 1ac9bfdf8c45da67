package db

import (
	"gorm.io/gorm"
)

type StatsRepository struct {
	database *gorm.DB
}

func NewStatsRepository(database *gorm.DB) *StatsRepository {
	return &StatsRepository{database: database}
}

type AscentRow struct {
	ID   uint   `gorm:"column:id"`
	Name string `gorm:"column:name"`
	Wall int    `gorm:"column:wall"`
}

type RankingRow struct {
	ID    uint    `gorm:"column:id"`
	Name  string  `gorm:"column:name"`
	Badge *string `gorm:"column:badge"`
	Score int     `gorm:"column:score"`
}

type SystemCounts struct {
	Boulders int64 `gorm:"column:boulders"`
	Holds    int64 `gorm:"column:holds"`
	Users    int64 `gorm:"column:users"`
}

// AscentsForUser lists every boulder the user has climbed, with the 1-based
// sub-wall bucket its highest touched segment falls into. A wallID of zero
// means all-time across every wall.
func (repo *StatsRepository) AscentsForUser(userID uint, wallID uint, segmentsPerWall int) ([]AscentRow, error) {
	rows := make([]AscentRow, 0)

	query := `
SELECT b.id AS id, b.name AS name, (MAX(bs.segment_id) + ? - 1) / ? AS wall
FROM climbs c
JOIN boulders b ON b.id = c.boulder_id
JOIN boulder_segments bs ON bs.boulder_id = b.id
WHERE c.user_id = ?`
	args := []any{segmentsPerWall, segmentsPerWall, userID}

	if wallID != 0 {
		query += `
  AND bs.segment_id IN (SELECT id FROM wall_segments WHERE wall_id = ?)`
		args = append(args, wallID)
	}
	query += `
GROUP BY b.id, b.name
ORDER BY b.id`

	if err := repo.database.Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// PointsForUser sums the mean grades of all distinct climbed boulders in
// scope and truncates to a whole number; no climbs yields zero.
func (repo *StatsRepository) PointsForUser(userID uint, wallID uint) (int, error) {
	var points int

	if wallID == 0 {
		err := repo.database.Raw(`
SELECT CAST(IFNULL(SUM(ga.grade), 0) AS INTEGER)
FROM grade_averages ga
WHERE ga.boulder_id IN (SELECT c.boulder_id FROM climbs c WHERE c.user_id = ?)`, userID).
			Scan(&points).Error
		return points, err
	}

	err := repo.database.Raw(`
SELECT CAST(IFNULL(SUM(ga.grade), 0) AS INTEGER)
FROM grade_averages ga
WHERE ga.boulder_id IN (
  SELECT c.boulder_id FROM climbs c
  WHERE c.user_id = ?
    AND c.boulder_id IN (SELECT boulder_id FROM boulder_segments
                         WHERE segment_id IN (SELECT id FROM wall_segments WHERE wall_id = ?)))`,
		userID, wallID).Scan(&points).Error
	return points, err
}

func (repo *StatsRepository) Ranking() ([]RankingRow, error) {
	rows := make([]RankingRow, 0)
	err := repo.database.Raw(`SELECT id, name, badge, score FROM rankings ORDER BY score DESC`).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Counts reports boulders and holds on the current wall plus the total
// number of accounts.
func (repo *StatsRepository) Counts() (SystemCounts, error) {
	var counts SystemCounts
	err := repo.database.Raw(`
SELECT
  (SELECT COUNT(*) FROM boulders b
   WHERE EXISTS (SELECT 1 FROM boulder_segments bs
                 JOIN wall_segments ws ON ws.id = bs.segment_id
                 WHERE bs.boulder_id = b.id
                   AND ws.wall_id = (SELECT MAX(id) FROM walls))) AS boulders,
  (SELECT COUNT(*) FROM holds h
   WHERE h.wall_segment_id IN (SELECT id FROM wall_segments
                               WHERE wall_id = (SELECT MAX(id) FROM walls))) AS holds,
  (SELECT COUNT(*) FROM users) AS users`).Scan(&counts).Error
	return counts, err
}
