package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guilherme-santos/localcalendar/internal"
	"github.com/guilherme-santos/localcalendar/internal/store"
)

var testNow = time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC)

type testCLI struct {
	t       *testing.T
	cfgPath string
}

func newTestCLI(t *testing.T, config string) *testCLI {
	t.Helper()

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if config != "" {
		require.NoError(t, os.WriteFile(cfgPath, []byte(config), 0o600))
	}
	return &testCLI{t: t, cfgPath: cfgPath}
}

func (c *testCLI) run(args ...string) (string, error) {
	c.t.Helper()

	a := &app{now: func() time.Time { return testNow }}
	cmd := newRootCmd(a)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--config", c.cfgPath, "--timezone", "UTC"}, args...))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (c *testCLI) mustRun(args ...string) string {
	c.t.Helper()

	out, err := c.run(args...)
	require.NoError(c.t, err)
	return out
}

func TestCLI_EventLifecycle(t *testing.T) {
	cli := newTestCLI(t, "")

	out := cli.mustRun("add", "--title", "Standup", "--start", "2024-08-20T09:00", "--end", "2024-08-20T09:15", "--category", "work")
	require.True(t, strings.HasPrefix(out, "Event "), out)
	id := strings.Fields(out)[1]

	out = cli.mustRun("list")
	assert.Contains(t, out, id)
	assert.Contains(t, out, "Standup")

	out = cli.mustRun("show", id)
	assert.Contains(t, out, "Duration:    15m0s")
	assert.Contains(t, out, "Category:    Work")
	assert.Contains(t, out, "Status:      coming")

	cli.mustRun("update", id, "--title", "Daily", "--end", "2024-08-20T09:30")
	out = cli.mustRun("show", id)
	assert.Contains(t, out, "Title:       Daily")
	assert.Contains(t, out, "Duration:    30m0s")

	cli.mustRun("delete", id)
	cli.mustRun("delete", id)
	assert.Contains(t, cli.mustRun("list"), "No events found")

	_, err := cli.run("show", id)
	assert.EqualError(t, err, `event "`+id+`" not found`)
}

func TestCLI_AddInvalid(t *testing.T) {
	cli := newTestCLI(t, "")

	_, err := cli.run("add", "--title", "Standup", "--start", "2024-08-20T09:00", "--end", "2024-08-20T08:00")
	assert.ErrorIs(t, err, internal.ErrInvalidEvent)

	_, err = cli.run("add", "--title", "Standup", "--start", "tomorrow", "--end", "2024-08-20T08:00")
	assert.Error(t, err)

	_, err = cli.run("add", "--title", "Standup", "--start", "2024-08-20T09:00", "--end", "2024-08-20T10:00", "--category", "Holiday")
	assert.ErrorIs(t, err, internal.ErrInvalidEvent)

	assert.Contains(t, cli.mustRun("list"), "No events found")
}

func TestCLI_SeedAndAgenda(t *testing.T) {
	cli := newTestCLI(t, "seed: true\n")

	out := cli.mustRun("list")
	assert.Equal(t, 4, strings.Count(out, "\n"), out)

	out = cli.mustRun("list", "--category", "Reminder", "--category", "personal")
	assert.Contains(t, out, "Michael Foster")
	assert.Contains(t, out, "Dries Vincent")
	assert.NotContains(t, out, "Leslie Alexander")

	out = cli.mustRun("agenda", "--date", "2024-08-20", "--days", "2")
	assert.Equal(t, strings.Join([]string{
		"Tuesday, 20 August 2024",
		"  09:00 - 11:30  Michael Foster (Reminder)",
		"  17:00 - 18:30  Dries Vincent (Personal)",
		"Wednesday, 21 August 2024",
		"  Nothing planned",
		"",
	}, "\n"), out)

	// Seeding only happens on an empty database.
	out = cli.mustRun("list")
	assert.Equal(t, 4, strings.Count(out, "\n"))
}

func TestCLI_Windowed(t *testing.T) {
	cli := newTestCLI(t, "seed: true\nwindowed: true\n")

	cli.mustRun("add", "--title", "Party", "--start", "2024-12-10T20:00", "--end", "2024-12-10T23:00")

	out := cli.mustRun("list")
	assert.NotContains(t, out, "Party")
	assert.Contains(t, out, "Michael Foster")

	out = cli.mustRun("list", "--from", "2024-12-01", "--to", "2024-12-31")
	assert.Contains(t, out, "Party")
	assert.NotContains(t, out, "Michael Foster")

	// A range longer than the loaded months.
	out = cli.mustRun("list", "--from", "2024-08-01", "--to", "2024-12-31")
	assert.Contains(t, out, "Party")
	assert.Contains(t, out, "Michael Foster")

	out = cli.mustRun("list", "--from", "2024-08-15")
	assert.Contains(t, out, "Party")
	assert.Contains(t, out, "Michael Foster")
	assert.NotContains(t, out, "Leslie Alexander")

	out = cli.mustRun("export", "--format", "json", "--from", "2024-08-01", "--to", "2024-12-31")
	assert.Contains(t, out, `"title": "Party"`)
	assert.Contains(t, out, `"title": "Michael Foster"`)
}

func TestCLI_ImportExport(t *testing.T) {
	cli := newTestCLI(t, "")
	dir := t.TempDir()

	in := filepath.Join(dir, "events.json")
	require.NoError(t, os.WriteFile(in, []byte(`[
		{"id": "a", "title": "Standup", "startsAt": "2024-08-20T09:00:00Z", "endsAt": "2024-08-20T09:15:00Z", "category": "Work"},
		{"title": "Too short", "startsAt": "2024-08-20T10:00:00Z", "endsAt": "2024-08-20T10:05:00Z"}
	]`), 0o600))

	out := cli.mustRun("import", in)
	assert.Equal(t, "1 created, 0 updated, 1 skipped\n", out)

	ics := filepath.Join(dir, "events.ics")
	cli.mustRun("export", "--output", ics)

	data, err := os.ReadFile(ics)
	require.NoError(t, err)
	assert.Contains(t, string(data), "UID:a")
	assert.Contains(t, string(data), "SUMMARY:Standup")

	out = cli.mustRun("import", ics)
	assert.Equal(t, "0 created, 1 updated, 0 skipped\n", out)

	_, err = cli.run("import", "--format", "csv", in)
	assert.EqualError(t, err, `format "csv" is not implemented`)
}

func TestCLI_InvalidTimezone(t *testing.T) {
	cli := newTestCLI(t, "")

	_, err := cli.run("list", "--timezone", "Mars/Olympus")
	assert.Error(t, err)
}

func TestWatchAgenda(t *testing.T) {
	a := &app{
		cfgPath: filepath.Join(t.TempDir(), "config.yaml"),
		now:     func() time.Time { return testNow },
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cmd := &cobra.Command{}
	cmd.SetContext(ctx)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	require.NoError(t, a.open(cmd))
	defer a.close()

	today := func() internal.Date { return internal.NewDateFromTime(testNow) }

	err := a.watchAgenda(ctx, "not a schedule", today, func(store.State) {})
	assert.Error(t, err)

	states := make(chan store.State, 1)
	done := make(chan error, 1)
	go func() {
		done <- a.watchAgenda(ctx, "@every 1h", today, func(st store.State) {
			select {
			case states <- st:
			default:
			}
		})
	}()

	select {
	case st := <-states:
		assert.False(t, st.IsLoading)
		assert.NoError(t, st.Err)
	case <-time.After(5 * time.Second):
		t.Fatal("no state delivered")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch didn't stop")
	}
}

func TestRefreshAgenda_FollowsTheDate(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("windowed: true\ntimezone: UTC\n"), 0o600))

	cli := &testCLI{t: t, cfgPath: cfgPath}
	cli.mustRun("add", "--title", "Party", "--start", "2024-12-10T20:00", "--end", "2024-12-10T23:00")

	a := &app{cfgPath: cfgPath, now: func() time.Time { return testNow }}
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	require.NoError(t, a.open(cmd))
	defer a.close()

	assert.Empty(t, a.store.Events())

	december := time.Date(2024, 12, 10, 8, 0, 0, 0, time.UTC)
	require.NoError(t, a.refreshAgenda(context.Background(), december))
	assert.True(t, a.store.Interval().Contains(december))
	require.Len(t, a.store.Events(), 1)
	assert.Equal(t, "Party", a.store.Events()[0].Title)
}
