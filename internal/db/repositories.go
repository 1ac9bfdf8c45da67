package db

import "gorm.io/gorm"

type Repositories struct {
	Users    *UserRepository
	Sessions *SessionRepository
	Walls    *WallRepository
	Boulders *BoulderRepository
	Stats    *StatsRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:    NewUserRepository(database),
		Sessions: NewSessionRepository(database),
		Walls:    NewWallRepository(database),
		Boulders: NewBoulderRepository(database),
		Stats:    NewStatsRepository(database),
	}
}
