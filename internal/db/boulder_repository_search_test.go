package db

import (
	"fmt"
	"testing"
)

func TestSearchScopedToCurrentWall(t *testing.T) {
	database := openTestDB(t)
	repo := NewBoulderRepository(database)
	user := seedUser(t, database, "setter@example.com", "setter")

	oldWall, oldHolds := seedWall(t, database, "winter", 3)
	_ = oldWall
	seedBoulder(t, database, user.ID, "retired route", oldHolds[0])

	newWall, newHolds := seedWall(t, database, "summer", 3)
	current := seedBoulder(t, database, user.ID, "fresh route", newHolds[0], newHolds[1])

	rows, err := repo.Search(SearchFilters{}, newWall.ID, 18)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row on the current wall, got %d", len(rows))
	}
	if rows[0].ID != current.ID || rows[0].Name != "fresh route" {
		t.Fatalf("unexpected row: %+v", rows[0])
	}
	if rows[0].CreatorName != "setter" {
		t.Fatalf("creator name not joined: %+v", rows[0])
	}
}

func TestSearchOrderAndLimit(t *testing.T) {
	database := openTestDB(t)
	repo := NewBoulderRepository(database)
	user := seedUser(t, database, "setter@example.com", "setter")
	wall, holds := seedWall(t, database, "main", 3)

	for index := 0; index < 20; index++ {
		seedBoulder(t, database, user.ID, fmt.Sprintf("route %02d", index), holds[index%3])
	}

	rows, err := repo.Search(SearchFilters{}, wall.ID, 18)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(rows) != 18 {
		t.Fatalf("expected the 18-row limit, got %d", len(rows))
	}
	for index := 1; index < len(rows); index++ {
		if rows[index].ID >= rows[index-1].ID {
			t.Fatalf("rows not ordered newest first at index %d", index)
		}
	}
}

func TestSearchNameFilterEscapesWildcards(t *testing.T) {
	database := openTestDB(t)
	repo := NewBoulderRepository(database)
	user := seedUser(t, database, "setter@example.com", "setter")
	wall, holds := seedWall(t, database, "main", 3)

	discount := seedBoulder(t, database, user.ID, "50% off", holds[0])
	seedBoulder(t, database, user.ID, "500 off", holds[0])
	seedBoulder(t, database, user.ID, "fifty off", holds[0])

	rows, err := repo.Search(SearchFilters{Name: "50%"}, wall.ID, 18)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != discount.ID {
		t.Fatalf("wildcard not matched literally: %+v", rows)
	}

	rows, err = repo.Search(SearchFilters{Name: "_ff"}, wall.ID, 18)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("underscore matched as a wildcard: %+v", rows)
	}
}

func TestSearchClimbedFlagAndExclusion(t *testing.T) {
	database := openTestDB(t)
	repo := NewBoulderRepository(database)
	setter := seedUser(t, database, "setter@example.com", "setter")
	climber := seedUser(t, database, "climber@example.com", "climber")
	wall, holds := seedWall(t, database, "main", 3)

	done := seedBoulder(t, database, setter.ID, "done", holds[0])
	open := seedBoulder(t, database, setter.ID, "open", holds[1])
	seedClimb(t, database, climber.ID, done.ID)

	rows, err := repo.Search(SearchFilters{ActorID: climber.ID}, wall.ID, 18)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	for _, row := range rows {
		if row.ID == done.ID && !row.Climbed {
			t.Fatal("climbed boulder not flagged")
		}
		if row.ID == open.ID && row.Climbed {
			t.Fatal("open boulder flagged as climbed")
		}
	}

	rows, err = repo.Search(SearchFilters{ActorID: climber.ID, ExcludeClimbed: true}, wall.ID, 18)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != open.ID {
		t.Fatalf("exclusion did not remove the climbed boulder: %+v", rows)
	}
}

func TestSearchGradeRangeUsesVoteMeans(t *testing.T) {
	database := openTestDB(t)
	repo := NewBoulderRepository(database)
	setter := seedUser(t, database, "setter@example.com", "setter")
	voterA := seedUser(t, database, "a@example.com", "a")
	voterB := seedUser(t, database, "b@example.com", "b")
	wall, holds := seedWall(t, database, "main", 3)

	easy := seedBoulder(t, database, setter.ID, "easy", holds[0])
	hard := seedBoulder(t, database, setter.ID, "hard", holds[1])
	ungraded := seedBoulder(t, database, setter.ID, "ungraded", holds[2])

	seedGradeVote(t, database, easy.ID, voterA.ID, 3)
	seedGradeVote(t, database, easy.ID, voterB.ID, 4)
	seedGradeVote(t, database, hard.ID, voterA.ID, 10)

	minGrade := 5.0
	rows, err := repo.Search(SearchFilters{MinGrade: &minGrade}, wall.ID, 18)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != hard.ID {
		t.Fatalf("grade filter wrong: %+v", rows)
	}
	if rows[0].Grade == nil || *rows[0].Grade != 10 {
		t.Fatalf("mean grade missing: %+v", rows[0])
	}

	rows, err = repo.Search(SearchFilters{}, wall.ID, 18)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	for _, row := range rows {
		if row.ID == ungraded.ID && row.Grade != nil {
			t.Fatalf("ungraded boulder carries a grade: %+v", row)
		}
		if row.ID == easy.ID && (row.Grade == nil || *row.Grade != 3.5) {
			t.Fatalf("mean grade wrong: %+v", row)
		}
	}
}

func TestSearchCreatorFilters(t *testing.T) {
	database := openTestDB(t)
	repo := NewBoulderRepository(database)
	mona := seedUser(t, database, "mona@example.com", "mona")
	nils := seedUser(t, database, "nils@example.com", "nils")
	wall, holds := seedWall(t, database, "main", 3)

	hers := seedBoulder(t, database, mona.ID, "her route", holds[0])
	seedBoulder(t, database, nils.ID, "his route", holds[1])

	rows, err := repo.Search(SearchFilters{CreatorName: "mon"}, wall.ID, 18)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != hers.ID {
		t.Fatalf("creator name filter wrong: %+v", rows)
	}

	rows, err = repo.Search(SearchFilters{CreatorID: mona.ID}, wall.ID, 18)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != hers.ID {
		t.Fatalf("creator id filter wrong: %+v", rows)
	}
}
