// Package stats shapes raw analytics rows into display-ready dashboard
// structures. Pure transformation: missing or empty input renders as
// zeros, never as an error, so the dashboard cannot hard-crash on
// missing data.
package stats

import (
	"sort"
	"time"

	"github.com/liftlio/advocate/internal/model"
)

// weeklyDays is the length of the weekly performance series.
const weeklyDays = 7

// Overview computes the four headline metrics from raw mention rows.
// Channel and video counts are distinct counts; today is bounded by the
// given location's midnight.
func Overview(
	rows []model.MentionRow,
	now time.Time,
	loc *time.Location,
) model.Overview {
	if loc == nil {
		loc = time.UTC
	}

	channels := make(map[string]struct{})
	videos := make(map[string]struct{})
	today := 0

	dayStart := startOfDay(now.In(loc))

	for _, r := range rows {
		if r.ChannelName != "" {
			channels[r.ChannelName] = struct{}{}
		}
		if r.VideoID != "" {
			videos[r.VideoID] = struct{}{}
		}
		if !r.CreatedAt.In(loc).Before(dayStart) {
			today++
		}
	}

	return model.Overview{
		Channels:      len(channels),
		Videos:        len(videos),
		TotalMentions: len(rows),
		MentionsToday: today,
	}
}

// WeeklySeries buckets the last seven days (oldest first, today last)
// with per-day distinct videos, summed engagement, and mention counts.
// Rows outside the window are ignored.
func WeeklySeries(
	rows []model.MentionRow,
	now time.Time,
	loc *time.Location,
) []model.DayBucket {
	if loc == nil {
		loc = time.UTC
	}

	today := startOfDay(now.In(loc))
	buckets := make([]model.DayBucket, weeklyDays)
	videosPerDay := make([]map[string]struct{}, weeklyDays)
	for i := range buckets {
		buckets[i].Day = today.AddDate(0, 0, i-(weeklyDays-1))
		videosPerDay[i] = make(map[string]struct{})
	}

	for _, r := range rows {
		day := startOfDay(r.CreatedAt.In(loc))
		offset := int(day.Sub(buckets[0].Day).Hours() / 24)
		if offset < 0 || offset >= weeklyDays {
			continue
		}
		buckets[offset].Mentions++
		buckets[offset].Engagement += r.Engagement
		if r.VideoID != "" {
			videosPerDay[offset][r.VideoID] = struct{}{}
		}
	}

	for i := range buckets {
		buckets[i].Videos = len(videosPerDay[i])
	}
	return buckets
}

// ByChannel computes the mentions-per-channel breakdown, most-mentioned
// first with name as the tiebreak. Rows without a channel name are
// grouped under "unknown".
func ByChannel(rows []model.MentionRow) []model.ChannelMentions {
	counts := make(map[string]int)
	for _, r := range rows {
		name := r.ChannelName
		if name == "" {
			name = "unknown"
		}
		counts[name]++
	}

	out := make([]model.ChannelMentions, 0, len(counts))
	for name, n := range counts {
		out = append(out, model.ChannelMentions{Channel: name, Mentions: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Mentions != out[j].Mentions {
			return out[i].Mentions > out[j].Mentions
		}
		return out[i].Channel < out[j].Channel
	})
	return out
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
