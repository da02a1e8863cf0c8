package model

import "time"

// MentionRow is a raw analytics row: one detected mention of a project's
// keywords in a video comment thread.
type MentionRow struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	ChannelName string    `json:"channel_name"`
	VideoID     string    `json:"video_id"`
	Engagement  int       `json:"engagement"`
	CreatedAt   time.Time `json:"created_at"`
}

// Overview holds the four headline dashboard metrics.
type Overview struct {
	Channels      int
	Videos        int
	TotalMentions int
	MentionsToday int
}

// DayBucket is one day of the weekly performance series.
type DayBucket struct {
	Day        time.Time
	Videos     int
	Engagement int
	Mentions   int
}

// ChannelMentions is one bar of the mentions-per-channel breakdown.
type ChannelMentions struct {
	Channel  string
	Mentions int
}
