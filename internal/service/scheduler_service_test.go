package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDailySpec(t *testing.T) {
	cases := map[string]string{
		"00:00":  "0 0 0 * * *",
		"9:05":   "0 5 9 * * *",
		" 23:59": "0 59 23 * * *",
	}
	for in, want := range cases {
		got, err := buildDailySpec(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	for _, in := range []string{"", "24:00", "12:60", "noon", "12", "1:2:3"} {
		_, err := buildDailySpec(in)
		assert.Error(t, err, in)
	}
}

func TestSchedulerService_ScheduleDaily(t *testing.T) {
	s := NewSchedulerService(time.UTC, nil)

	id, err := s.ScheduleDaily("refresh", "07:30", func(context.Context) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, id, s.cron.Entry(id).ID)

	s.Start()
	defer s.Stop()
	next := s.cron.Entry(id).Next
	assert.Equal(t, 7, next.Hour())
	assert.Equal(t, 30, next.Minute())

	_, err = s.ScheduleDaily("broken", "7h30", func(context.Context) error { return nil })
	assert.Error(t, err)
}

func TestSchedulerService_RunPassesDeadline(t *testing.T) {
	s := NewSchedulerService(time.UTC, nil)

	var deadline time.Time
	calls := 0
	s.run("probe", func(ctx context.Context) error {
		calls++
		deadline, _ = ctx.Deadline()
		return errors.New("boom")
	})

	assert.Equal(t, 1, calls)
	assert.WithinDuration(t, time.Now().Add(jobTimeout), deadline, 5*time.Second)
}
