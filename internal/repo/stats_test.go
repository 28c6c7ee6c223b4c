package repo

import (
	"context"
	"testing"
	"time"

	"github.com/dreambooks/go-story-backend/internal/domain"
)

func TestStoriesStats_EmptyCatalog(t *testing.T) {
	db := newStoryRepoDB(t)
	count, maxUpdated, err := StoriesStats(context.Background(), db)
	if err != nil {
		t.Fatalf("StoriesStats: %v", err)
	}
	if count != 0 || maxUpdated != nil {
		t.Fatalf("expected empty stats, got count=%d max=%v", count, maxUpdated)
	}
}

func TestStoriesStats_CountAndMaxUpdated(t *testing.T) {
	db := newStoryRepoDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "ursula")

	a, err := CreateStory(ctx, db, author.ID, "Alpha", "d", "", "alpha", nil)
	if err != nil {
		t.Fatalf("CreateStory: %v", err)
	}
	b, err := CreateStory(ctx, db, author.ID, "Bravo", "d", "", "bravo", nil)
	if err != nil {
		t.Fatalf("CreateStory: %v", err)
	}
	t1 := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	db.Model(&domain.Story{}).Where("id = ?", a.ID).Update("updated_at", t1)
	db.Model(&domain.Story{}).Where("id = ?", b.ID).Update("updated_at", t2)

	count, maxUpdated, err := StoriesStats(ctx, db)
	if err != nil {
		t.Fatalf("StoriesStats: %v", err)
	}
	if count != 2 || maxUpdated == nil || !maxUpdated.Equal(t2) {
		t.Fatalf("stats mismatch: count=%d max=%v", count, maxUpdated)
	}
}

func TestChaptersStats(t *testing.T) {
	db := newStoryRepoDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "ursula")
	s, err := CreateStory(ctx, db, author.ID, "Alpha", "d", "", "alpha", nil)
	if err != nil {
		t.Fatalf("CreateStory: %v", err)
	}

	count, maxUpdated, err := ChaptersStats(ctx, db, s.ID)
	if err != nil || count != 0 || maxUpdated != nil {
		t.Fatalf("empty chapter stats: count=%d max=%v err=%v", count, maxUpdated, err)
	}

	c1, err := CreateChapter(db, s.ID, "One", "b", 1)
	if err != nil {
		t.Fatalf("CreateChapter: %v", err)
	}
	c2, err := CreateChapter(db, s.ID, "Two", "b", 2)
	if err != nil {
		t.Fatalf("CreateChapter: %v", err)
	}
	t1 := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	db.Model(&domain.Chapter{}).Where("id = ?", c1.ID).Update("updated_at", t2)
	db.Model(&domain.Chapter{}).Where("id = ?", c2.ID).Update("updated_at", t1)

	count, maxUpdated, err = ChaptersStats(ctx, db, s.ID)
	if err != nil {
		t.Fatalf("ChaptersStats: %v", err)
	}
	if count != 2 || maxUpdated == nil || !maxUpdated.Equal(t2) {
		t.Fatalf("chapter stats mismatch: count=%d max=%v", count, maxUpdated)
	}
}

func TestTotalReviews(t *testing.T) {
	db := newStoryRepoDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "ursula")
	reader := seedUser(t, db, "ged")
	s1, _ := CreateStory(ctx, db, author.ID, "Alpha", "d", "", "alpha", nil)
	s2, _ := CreateStory(ctx, db, author.ID, "Bravo", "d", "", "bravo", nil)

	if n, err := TotalReviews(ctx, db); err != nil || n != 0 {
		t.Fatalf("empty total: n=%d err=%v", n, err)
	}
	if _, err := CreateReview(db, s1.ID, reader.ID, 4, ""); err != nil {
		t.Fatalf("CreateReview: %v", err)
	}
	if _, err := CreateReview(db, s2.ID, reader.ID, 2, ""); err != nil {
		t.Fatalf("CreateReview: %v", err)
	}
	if n, err := TotalReviews(ctx, db); err != nil || n != 2 {
		t.Fatalf("total: n=%d err=%v", n, err)
	}
}
