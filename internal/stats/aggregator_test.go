package stats

import (
	"testing"
	"time"

	"github.com/liftlio/advocate/internal/model"
)

func row(channel, video string, engagement int, at time.Time) model.MentionRow {
	return model.MentionRow{
		ChannelName: channel,
		VideoID:     video,
		Engagement:  engagement,
		CreatedAt:   at,
	}
}

// ============================================================
// Overview
// ============================================================

func TestOverviewEmptyInputIsAllZeros(t *testing.T) {
	got := Overview(nil, time.Now(), nil)
	want := model.Overview{}
	if got != want {
		t.Fatalf("got %+v, want zeros", got)
	}
}

func TestOverviewDistinctCountsAndToday(t *testing.T) {
	loc := time.UTC
	now := time.Date(2025, 6, 15, 15, 0, 0, 0, loc)
	earlyToday := time.Date(2025, 6, 15, 0, 30, 0, 0, loc)
	yesterday := time.Date(2025, 6, 14, 23, 59, 0, 0, loc)

	rows := []model.MentionRow{
		row("alpha", "v1", 5, now),
		row("alpha", "v1", 3, earlyToday),
		row("beta", "v2", 1, yesterday),
		row("", "", 0, yesterday),
	}

	got := Overview(rows, now, loc)
	if got.Channels != 2 {
		t.Fatalf("channels = %d, want 2", got.Channels)
	}
	if got.Videos != 2 {
		t.Fatalf("videos = %d, want 2", got.Videos)
	}
	if got.TotalMentions != 4 {
		t.Fatalf("total = %d, want 4", got.TotalMentions)
	}
	if got.MentionsToday != 2 {
		t.Fatalf("today = %d, want 2", got.MentionsToday)
	}
}

func TestOverviewTodayRespectsLocation(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	// 23:00 UTC on the 14th is already the 15th in UTC+10.
	at := time.Date(2025, 6, 14, 23, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, loc)

	got := Overview([]model.MentionRow{row("c", "v", 0, at)}, now, loc)
	if got.MentionsToday != 1 {
		t.Fatalf("today = %d, want 1", got.MentionsToday)
	}
}

// ============================================================
// Weekly series
// ============================================================

func TestWeeklySeriesShape(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	buckets := WeeklySeries(nil, now, time.UTC)

	if len(buckets) != 7 {
		t.Fatalf("len = %d, want 7", len(buckets))
	}
	first := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	if !buckets[0].Day.Equal(first) {
		t.Fatalf("first day = %v, want %v", buckets[0].Day, first)
	}
	last := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	if !buckets[6].Day.Equal(last) {
		t.Fatalf("last day = %v, want today %v", buckets[6].Day, last)
	}
}

func TestWeeklySeriesBucketsRows(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	twoDaysAgo := time.Date(2025, 6, 13, 8, 0, 0, 0, time.UTC)

	rows := []model.MentionRow{
		row("c", "v1", 10, twoDaysAgo),
		row("c", "v1", 4, twoDaysAgo),
		row("c", "v2", 1, twoDaysAgo),
		row("c", "v9", 7, now),
		// Outside the window, must be ignored.
		row("c", "v0", 100, now.AddDate(0, 0, -10)),
	}

	buckets := WeeklySeries(rows, now, time.UTC)

	day := buckets[4] // two days before today
	if day.Mentions != 3 {
		t.Fatalf("mentions = %d, want 3", day.Mentions)
	}
	if day.Engagement != 15 {
		t.Fatalf("engagement = %d, want 15", day.Engagement)
	}
	if day.Videos != 2 {
		t.Fatalf("videos = %d, want 2 distinct", day.Videos)
	}

	today := buckets[6]
	if today.Mentions != 1 || today.Engagement != 7 || today.Videos != 1 {
		t.Fatalf("today = %+v", today)
	}
}

// ============================================================
// Channel breakdown
// ============================================================

func TestByChannelOrderingAndUnknownGroup(t *testing.T) {
	now := time.Now()
	rows := []model.MentionRow{
		row("beta", "v", 0, now),
		row("alpha", "v", 0, now),
		row("beta", "v", 0, now),
		row("", "v", 0, now),
		row("alpha", "v", 0, now),
	}

	got := ByChannel(rows)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	// Counts tie at 2 for alpha and beta; name breaks the tie.
	if got[0].Channel != "alpha" || got[0].Mentions != 2 {
		t.Fatalf("got[0] = %+v", got[0])
	}
	if got[1].Channel != "beta" || got[1].Mentions != 2 {
		t.Fatalf("got[1] = %+v", got[1])
	}
	if got[2].Channel != "unknown" || got[2].Mentions != 1 {
		t.Fatalf("got[2] = %+v", got[2])
	}
}

func TestByChannelEmpty(t *testing.T) {
	if got := ByChannel(nil); len(got) != 0 {
		t.Fatalf("got %+v, want empty", got)
	}
}
