package notification

import (
	"testing"
	"time"
)

func TestTimeAgo(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		ago  time.Duration
		want string
	}{
		{"seconds round to just now", 30 * time.Second, "just now"},
		{"one minute", time.Minute, "1 minute ago"},
		{"several minutes", 45 * time.Minute, "45 minutes ago"},
		{"one hour", time.Hour, "1 hour ago"},
		{"several hours", 23 * time.Hour, "23 hours ago"},
		{"one day", 24 * time.Hour, "1 day ago"},
		{"several days", 72 * time.Hour, "3 days ago"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := TimeAgo(now.Add(-tc.ago), now)
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}
