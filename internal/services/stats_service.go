package services

import (
	"github.com/greifwand/systemboard/internal/db"
	"github.com/greifwand/systemboard/internal/models"
)

type StatsStore interface {
	AscentsForUser(userID uint, wallID uint, segmentsPerWall int) ([]db.AscentRow, error)
	PointsForUser(userID uint, wallID uint) (int, error)
	Ranking() ([]db.RankingRow, error)
	Counts() (db.SystemCounts, error)
}

type StatsUserStore interface {
	FindByID(userID uint) (models.User, error)
}

// UserStats is one scope's rollup: the climbed boulders with their sub-wall
// bucket and the truncated sum of their mean grades.
type UserStats struct {
	UserID  uint
	Ascents []db.AscentRow
	Points  int
}

type UserProfile struct {
	ID      uint
	Name    string
	Current UserStats
	Total   UserStats
}

type ChangeLogEntry struct {
	Version     string
	Date        string
	Description string
	Changes     []string
}

type SystemStats struct {
	Version   string
	ChangeLog []ChangeLogEntry
	Boulders  int64
	Holds     int64
	Users     int64
}

const systemVersion = "Systemboard v4.0.0"

type StatsService struct {
	stats           StatsStore
	users           StatsUserStore
	segmentsPerWall int
}

func NewStatsService(stats StatsStore, users StatsUserStore, segmentsPerWall int) *StatsService {
	return &StatsService{
		stats:           stats,
		users:           users,
		segmentsPerWall: segmentsPerWall,
	}
}

// ForUser computes one scope: wallID zero means all-time, anything else
// restricts to ascents on that wall. An account without climbs yields zero
// points and an empty list.
func (service *StatsService) ForUser(userID uint, wallID uint) (UserStats, error) {
	ascents, err := service.stats.AscentsForUser(userID, wallID, service.segmentsPerWall)
	if err != nil {
		return UserStats{}, err
	}
	points, err := service.stats.PointsForUser(userID, wallID)
	if err != nil {
		return UserStats{}, err
	}
	return UserStats{UserID: userID, Ascents: ascents, Points: points}, nil
}

// Profile bundles the wall-scoped and all-time rollups for the public
// profile view.
func (service *StatsService) Profile(userID uint, wallID uint) (UserProfile, error) {
	user, err := service.users.FindByID(userID)
	if err != nil {
		if isRecordNotFound(err) {
			return UserProfile{}, ErrNotFound
		}
		return UserProfile{}, err
	}

	current, err := service.ForUser(userID, wallID)
	if err != nil {
		return UserProfile{}, err
	}
	total, err := service.ForUser(userID, 0)
	if err != nil {
		return UserProfile{}, err
	}

	return UserProfile{
		ID:      user.ID,
		Name:    user.Name,
		Current: current,
		Total:   total,
	}, nil
}

// Ranking returns the global leaderboard, best score first.
func (service *StatsService) Ranking() ([]db.RankingRow, error) {
	return service.stats.Ranking()
}

func (service *StatsService) System() (SystemStats, error) {
	counts, err := service.stats.Counts()
	if err != nil {
		return SystemStats{}, err
	}
	return SystemStats{
		Version:   systemVersion,
		ChangeLog: changeLog(),
		Boulders:  counts.Boulders,
		Holds:     counts.Holds,
		Users:     counts.Users,
	}, nil
}

func changeLog() []ChangeLogEntry {
	return []ChangeLogEntry{
		{
			Version:     "v4.0.0",
			Date:        "2026-05-02",
			Description: "Relaunch",
			Changes: []string{
				"+ guest access without an account",
				"* reworked API backend",
			},
		},
		{
			Version:     "v3.0.0",
			Date:        "2025-10-14",
			Description: "Feature update",
			Changes: []string{
				"+ boulder of the day",
				"+ forgot-password flow",
				"+ instance statistics",
			},
		},
	}
}
