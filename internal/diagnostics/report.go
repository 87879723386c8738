package diagnostics

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/iggydv12/dashcache/internal/cache"
	"github.com/iggydv12/dashcache/internal/storage/local"
)

var (
	heading = color.New(color.Bold, color.FgCyan)
	good    = color.New(color.FgGreen)
	bad     = color.New(color.FgRed)
)

// WriteSession prints the stored session snapshot.
func (i *Inspector) WriteSession(w io.Writer) error {
	heading.Fprintln(w, "== Session ==")
	info := i.sessions.GetSessionInfo()
	if info == nil {
		bad.Fprintln(w, "session storage unreadable")
		return nil
	}
	if i.sessions.IsSessionValid() {
		good.Fprintln(w, "valid: yes")
	} else {
		bad.Fprintln(w, "valid: no")
	}
	fmt.Fprintf(w, "token present: %t (length %d)\n", info.HasToken, info.TokenLength)
	fmt.Fprintf(w, "user data present: %t\n", info.HasUserData)
	if info.User != nil {
		data, err := json.MarshalIndent(info.User, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "user: %s\n", data)
	}
	return nil
}

// WriteDashboard prints the cached entry of one category.
func (i *Inspector) WriteDashboard(w io.Writer, c cache.Category) error {
	return i.writeEntry(w, "Dashboard cache: "+c.String(), i.dashboards.Key(c))
}

// writeEntry reads the envelope directly so that a stale entry is shown
// rather than discarded.
func (i *Inspector) writeEntry(w io.Writer, title, key string) error {
	heading.Fprintf(w, "== %s ==\n", title)
	fmt.Fprintf(w, "key: %s\n", key)

	raw, err := i.adapter.Store().Get(key)
	if errors.Is(err, local.ErrNoSuchKey) {
		fmt.Fprintln(w, "no cached state")
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	fmt.Fprintf(w, "size: %s\n", humanize.Bytes(uint64(len(raw))))

	var env cache.Envelope[json.RawMessage]
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		bad.Fprintf(w, "corrupt entry: %v\n", err)
		return nil
	}
	fmt.Fprintf(w, "version: %s\n", env.Version)
	if env.Version != i.version() {
		bad.Fprintf(w, "stale: current version is %s, next load will discard it\n", i.version())
	}
	written := time.UnixMilli(env.Timestamp)
	fmt.Fprintf(w, "saved: %s (%s)\n", written.Format(time.RFC3339), humanize.Time(written))

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, env.Data, "", "  "); err != nil {
		fmt.Fprintf(w, "data: %s\n", env.Data)
		return nil
	}
	fmt.Fprintf(w, "data: %s\n", pretty.String())
	return nil
}

// WriteStats prints the storage breakdown.
func (i *Inspector) WriteStats(w io.Writer) error {
	stats, err := i.StorageStats()
	if err != nil {
		return err
	}
	heading.Fprintln(w, "== Storage ==")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, b := range stats.Buckets {
		fmt.Fprintf(tw, "%s\t%s\t%d entries\n", b.Name, humanize.Bytes(uint64(b.Bytes)), b.Entries)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "total: %s of %s (%.2f%%), %d entries\n",
		humanize.Bytes(uint64(stats.TotalBytes)),
		humanize.Bytes(uint64(stats.CapacityBytes)),
		stats.UsedPercent,
		stats.Entries,
	)
	return nil
}

// RunDiagnostics prints the session, every dashboard cache, the
// navigation snapshot and the storage breakdown.
func (i *Inspector) RunDiagnostics(w io.Writer) error {
	if err := i.WriteSession(w); err != nil {
		return err
	}
	for _, c := range cache.Categories() {
		fmt.Fprintln(w)
		if err := i.WriteDashboard(w, c); err != nil {
			return err
		}
	}

	fmt.Fprintln(w)
	if err := i.writeEntry(w, "Navigation", i.navigation.Key()); err != nil {
		return err
	}

	fmt.Fprintln(w)
	return i.WriteStats(w)
}

func (i *Inspector) version() string { return i.dashboards.Version() }
